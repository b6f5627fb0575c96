package evaluate

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/keysplit/internal/model"
	"github.com/verte-zerg/keysplit/internal/table"
)

// RenderReport prints the headline metrics.
func RenderReport(w io.Writer, m Metrics) error {
	if _, err := fmt.Fprintln(w, "=== Evaluation Results ==="); err != nil {
		return err
	}
	headers := []string{"Metric", "Value"}
	rows := [][]string{
		{"Corpus length", fmt.Sprintf("%d", m.CorpusLen)},
		{"Same-hand adjacency cost", fmt.Sprintf("%d", m.SameHandCost)},
		{"Same-finger adjacency cost", fmt.Sprintf("%d", m.SameFingerCost)},
		{"Same-hand consecutive presses", fmt.Sprintf("%d", m.SameHandCount)},
		{"Same-finger consecutive presses", fmt.Sprintf("%d", m.SameFingerCount)},
		{"Press difficulty", fmt.Sprintf("%d", m.PressDifficulty)},
	}
	if len(m.Unplaced) > 0 {
		rows = append(rows, []string{"Unplaced letters", joinLetters(m.Unplaced)})
	}
	for _, line := range table.Format(headers, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderFingerTable prints per-finger letters and press counts.
func RenderFingerTable(w io.Writer, m Metrics) error {
	if _, err := fmt.Fprintln(w, "Per-Finger Load"); err != nil {
		return err
	}
	headers := []string{"Hand", "Finger", "Letters", "Presses", "Share"}
	rows := make([][]string, 0, model.Hands*model.Fingers)
	for hand := 0; hand < model.Hands; hand++ {
		for finger := 0; finger < model.Fingers; finger++ {
			load := m.FingerLoad[hand][finger]
			share := 0.0
			if m.CorpusLen > 0 {
				share = float64(load) / float64(m.CorpusLen)
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", hand),
				FingerNames[finger],
				joinLetters(m.FingerLetters[hand][finger]),
				fmt.Sprintf("%d", load),
				fmt.Sprintf("%.2f%%", share*100),
			})
		}
	}
	rightAlign := map[int]bool{3: true, 4: true}
	for _, line := range table.Format(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func joinLetters(letters []model.Letter) string {
	if len(letters) == 0 {
		return "-"
	}
	parts := make([]string, len(letters))
	for i, l := range letters {
		parts[i] = l.String()
	}
	return strings.Join(parts, " ")
}
