// Package progress provides the Bubble Tea progress view for long searches.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Job is the work shown by the view. It must call report as it advances.
type Job func(ctx context.Context, report func(done, total uint64)) error

type progressMsg struct {
	done  uint64
	total uint64
}

type doneMsg struct{}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea progress UI.
type Model struct {
	title   string
	spinner spinner.Model
	bar     progress.Model
	cancel  context.CancelFunc

	done        uint64
	total       uint64
	startedAt   time.Time
	finished    bool
	interrupted bool
}

// NewModel constructs a progress model. cancel is invoked on Ctrl+C.
func NewModel(title string, cancel context.CancelFunc) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	return &Model{
		title:     title,
		spinner:   sp,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		cancel:    cancel,
		startedAt: time.Now(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - 4
		if width < 10 {
			width = 10
		}
		m.bar.Width = width
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC && !m.interrupted {
			m.interrupted = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil
	case progressMsg:
		m.total = msg.total
		if msg.done > m.done {
			m.done = msg.done
		}
		return m, nil
	case doneMsg:
		m.finished = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.finished {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.spinner.View())
	b.WriteByte(' ')
	b.WriteString(titleStyle.Render(m.title))
	b.WriteByte('\n')
	b.WriteString(m.bar.ViewAs(m.fraction()))
	b.WriteByte('\n')
	b.WriteString(m.renderFooter())
	b.WriteByte('\n')
	return b.String()
}

func (m *Model) fraction() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

func (m *Model) renderFooter() string {
	if m.interrupted {
		return warningStyle.Render("Interrupted, stopping search...")
	}
	segments := []string{
		fmt.Sprintf("Progress %.1f%%", m.fraction()*100),
		fmt.Sprintf("%d/%d splits", m.done, m.total),
		fmt.Sprintf("Elapsed %s", time.Since(m.startedAt).Truncate(time.Second)),
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

// Run executes job while rendering progress to out. Ctrl+C cancels the
// job's context; the job's error is returned.
func Run(ctx context.Context, out io.Writer, title string, job Job) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := []tea.ProgramOption{tea.WithOutput(out)}
	// A piped corpus leaves stdin at EOF; Ctrl+C then arrives as SIGINT.
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		opts = append(opts, tea.WithInput(nil))
	}
	program := tea.NewProgram(NewModel(title, cancel), opts...)
	errc := make(chan error, 1)
	go func() {
		err := job(ctx, func(done, total uint64) {
			program.Send(progressMsg{done: done, total: total})
		})
		program.Send(doneMsg{})
		errc <- err
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-errc
		return fmt.Errorf("failed to run progress view: %w", err)
	}
	return <-errc
}
