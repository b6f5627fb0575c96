package layout

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/verte-zerg/keysplit/internal/model"
)

func sampleLayout() model.Layout {
	h0 := model.EmptyHandLayout()
	h1 := model.EmptyHandLayout()
	for i := 0; i < model.HandLetters; i++ {
		h0[i] = model.Letter(i)
		h1[i+2] = model.Letter(i + 13)
	}
	return Assemble(h0, h1)
}

func TestSlotAtMirrorsSecondHand(t *testing.T) {
	cases := []struct {
		hand, row, col, want int
	}{
		{0, 0, 0, 0},
		{0, 2, 4, 14},
		{1, 0, 0, 4},
		{1, 0, 4, 0},
		{1, 1, 0, 9},
		{1, 2, 4, 10},
	}
	for _, tc := range cases {
		if got := SlotAt(tc.hand, tc.row, tc.col); got != tc.want {
			t.Fatalf("SlotAt(%d,%d,%d): expected %d, got %d", tc.hand, tc.row, tc.col, tc.want, got)
		}
	}
}

func TestRenderHand(t *testing.T) {
	l := sampleLayout()
	var buf bytes.Buffer
	if err := RenderHand(&buf, 1, l[1]); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "--- Hand 1 (Optimal Layout) ---" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	// Slots 4..0 of hand 1 hold p o n _ _ when read left to right.
	if lines[1] != "p o n _ _ " {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
	if lines[2] != "u t s r q " {
		t.Fatalf("unexpected middle row: %q", lines[2])
	}
	if lines[3] != "z y x w v " {
		t.Fatalf("unexpected last row: %q", lines[3])
	}
}

func TestRenderSplitFormat(t *testing.T) {
	var buf bytes.Buffer
	split := model.HandSplit{Hands: [2][]model.Letter{{1, 2}, {0, 3}}}
	if err := RenderSplit(&buf, split); err != nil {
		t.Fatalf("render split: %v", err)
	}
	want := "=== Splitting Keys ===\n" +
		"Hand 0 (Left) letters: b c \n" +
		"Hand 1 (Right) letters: a d \n" +
		"\n"
	if buf.String() != want {
		t.Fatalf("unexpected split output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	l := sampleLayout()
	var buf bytes.Buffer
	split := model.HandSplit{Hands: [2][]model.Letter{{0, 1}, {2, 3}}}
	if err := RenderSplit(&buf, split); err != nil {
		t.Fatalf("render split: %v", err)
	}
	if err := Render(&buf, l); err != nil {
		t.Fatalf("render: %v", err)
	}
	parsed, err := Parse(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != l {
		t.Fatalf("round trip mismatch:\n%v\n%v", parsed, l)
	}
}

func TestTokensRoundTrip(t *testing.T) {
	l := sampleLayout()
	tokens := Tokens(l)
	if len(tokens) != 30 {
		t.Fatalf("expected 30 tokens, got %d", len(tokens))
	}
	parsed, err := FromTokens(tokens)
	if err != nil {
		t.Fatalf("from tokens: %v", err)
	}
	if parsed != l {
		t.Fatalf("round trip mismatch")
	}
}

func TestFromTokensIgnoresMalformed(t *testing.T) {
	tokens := make([]string, 30)
	for i := range tokens {
		tokens[i] = EmptyToken
	}
	tokens[0] = "a"
	tokens[1] = "B"
	tokens[2] = "cd"
	tokens[3] = "["
	tokens[4] = "a"
	tokens[15] = "z"
	l, err := FromTokens(tokens)
	if err != nil {
		t.Fatalf("from tokens: %v", err)
	}
	if l[0][0] != 0 {
		t.Fatalf("expected a in slot 0, got %s", l[0][0])
	}
	for slot := 1; slot < model.HandSlots; slot++ {
		if l[0][slot] != model.NoLetter {
			t.Fatalf("expected slot %d empty, got %s", slot, l[0][slot])
		}
	}
	// Visual position 0 of hand 1 is slot 4.
	if l[1][4] != 25 {
		t.Fatalf("expected z in hand 1 slot 4, got %s", l[1][4])
	}
}

func TestFromTokensShort(t *testing.T) {
	_, err := FromTokens([]string{"a", "b"})
	if !errors.Is(err, ErrShortLayout) {
		t.Fatalf("expected ErrShortLayout, got %v", err)
	}
	if _, err := Parse(strings.NewReader("--- Hand 0 ---\na b c\n")); !errors.Is(err, ErrShortLayout) {
		t.Fatalf("expected ErrShortLayout from parse, got %v", err)
	}
}

func TestFromSlots(t *testing.T) {
	slots := make([]model.Letter, model.HandSlots)
	for i := range slots {
		slots[i] = model.NoLetter
	}
	slots[3] = 7
	h, err := FromSlots(slots)
	if err != nil {
		t.Fatalf("from slots: %v", err)
	}
	if h[3] != 7 || h[0] != model.NoLetter {
		t.Fatalf("unexpected hand layout: %v", h)
	}
	if _, err := FromSlots(slots[:4]); err == nil {
		t.Fatalf("expected error for short slot list")
	}
}

func TestStyledContainsLetters(t *testing.T) {
	out := StyledLayout(sampleLayout())
	for _, want := range []string{"Hand 0", "Hand 1", "a", "m", "z"} {
		if !strings.Contains(out, want) {
			t.Fatalf("styled output missing %q:\n%s", want, out)
		}
	}
}
