// Package layout assembles, prints and parses two-hand key layouts.
package layout

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/keysplit/internal/model"
)

const (
	// Rows and Cols describe the printed grid of one hand.
	Rows = 3
	Cols = 5
	// EmptyToken marks an empty slot in text form.
	EmptyToken = "_"
	separator  = "-------------------------------------------------"
)

// ErrShortLayout is returned when fewer than 30 slot tokens are available.
var ErrShortLayout = errors.New("layout needs 15 tokens per hand")

// Assemble pairs the two hand layouts.
func Assemble(h0, h1 model.HandLayout) model.Layout {
	return model.Layout{h0, h1}
}

// FromSlots converts a slot slice into a fixed-size hand layout.
func FromSlots(slots []model.Letter) (model.HandLayout, error) {
	if len(slots) != model.HandSlots {
		return model.HandLayout{}, fmt.Errorf("expected %d slots, got %d", model.HandSlots, len(slots))
	}
	var h model.HandLayout
	copy(h[:], slots)
	return h, nil
}

// SlotAt maps a printed grid position to a slot index. Hand 1 is printed
// mirrored left to right.
func SlotAt(hand, row, col int) int {
	if hand == 0 {
		return row*Cols + col
	}
	return (row+1)*Cols - col - 1
}

// RenderSplit prints the letters assigned to each hand. Every letter is
// followed by a space.
func RenderSplit(w io.Writer, split model.HandSplit) error {
	var b strings.Builder
	b.WriteString("=== Splitting Keys ===\n")
	for hand, name := range []string{"Left", "Right"} {
		fmt.Fprintf(&b, "Hand %d (%s) letters: ", hand, name)
		for _, l := range split.Hands[hand] {
			b.WriteString(l.String())
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderHand prints one hand as a 3x5 grid. Every cell is followed by a
// space, so rows end in one.
func RenderHand(w io.Writer, hand int, h model.HandLayout) error {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Hand %d (Optimal Layout) ---\n", hand)
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			b.WriteString(h[SlotAt(hand, row, col)].String())
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	b.WriteString(separator)
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// Render prints both hands under a section header.
func Render(w io.Writer, l model.Layout) error {
	if _, err := io.WriteString(w, "=== Placing Keys ===\n"); err != nil {
		return err
	}
	for hand, h := range l {
		if err := RenderHand(w, hand, h); err != nil {
			return err
		}
	}
	return nil
}

// Tokens returns the 30 printed tokens in visual order.
func Tokens(l model.Layout) []string {
	out := make([]string, 0, model.Hands*model.HandSlots)
	for hand, h := range l {
		for row := 0; row < Rows; row++ {
			for col := 0; col < Cols; col++ {
				out = append(out, h[SlotAt(hand, row, col)].String())
			}
		}
	}
	return out
}

// FromTokens builds a layout from tokens in visual order: 15 for hand 0,
// then 15 for hand 1. Tokens that are not a single lowercase letter are
// treated as empty, as is a letter that already has a slot. Tokens past the
// first 30 are ignored.
func FromTokens(tokens []string) (model.Layout, error) {
	need := model.Hands * model.HandSlots
	if len(tokens) < need {
		return model.Layout{}, fmt.Errorf("%w: got %d tokens", ErrShortLayout, len(tokens))
	}
	l := model.Layout{model.EmptyHandLayout(), model.EmptyHandLayout()}
	var seen [model.AlphabetSize]bool
	for i, token := range tokens[:need] {
		hand := i / model.HandSlots
		pos := i % model.HandSlots
		slot := SlotAt(hand, pos/Cols, pos%Cols)
		if len(token) != 1 {
			continue
		}
		letter, ok := model.LetterOf(token[0])
		if !ok || seen[letter] {
			continue
		}
		seen[letter] = true
		l[hand][slot] = letter
	}
	return l, nil
}

// Parse reads a layout file. Blank lines and decoration lines starting with
// "---", "===", "#" or "Hand " are skipped, so printed output can be read
// back.
func Parse(r io.Reader) (model.Layout, error) {
	var tokens []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || isDecoration(line) {
			continue
		}
		tokens = append(tokens, strings.Fields(line)...)
	}
	if err := sc.Err(); err != nil {
		return model.Layout{}, fmt.Errorf("failed to read layout: %w", err)
	}
	return FromTokens(tokens)
}

func isDecoration(line string) bool {
	for _, prefix := range []string{"---", "===", "#", "Hand "} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
