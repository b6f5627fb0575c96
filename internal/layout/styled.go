package layout

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/keysplit/internal/geometry"
	"github.com/verte-zerg/keysplit/internal/model"
)

var (
	costGroupColors = []lipgloss.Color{"#4CAF50", "#8BC34A", "#C89A3A", "#E07B39", "#FF4D4F"}
	emptyKeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	handTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	handBoxStyle    = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// Styled renders one hand as a bordered grid, letters tinted by the cost
// group of their slot. It is meant for terminals; Render is the stable
// text format.
func Styled(hand int, h model.HandLayout) string {
	rows := make([]string, 0, Rows)
	for row := 0; row < Rows; row++ {
		cells := make([]string, Cols)
		for col := 0; col < Cols; col++ {
			slot := SlotAt(hand, row, col)
			l := h[slot]
			if l == model.NoLetter {
				cells[col] = emptyKeyStyle.Render(EmptyToken)
				continue
			}
			group := geometry.StandardSlot(slot).CostGroup
			color := costGroupColors[group%len(costGroupColors)]
			cells[col] = lipgloss.NewStyle().Foreground(color).Bold(group == 0).Render(l.String())
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	title := handTitleStyle.Render(fmt.Sprintf("Hand %d", hand))
	return lipgloss.JoinVertical(lipgloss.Left, title, handBoxStyle.Render(strings.Join(rows, "\n")))
}

// StyledLayout renders both hands side by side.
func StyledLayout(l model.Layout) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, Styled(0, l[0]), "  ", Styled(1, l[1]))
}
