// Package model defines shared data structures.
package model

import "time"

const (
	// AlphabetSize is the number of letters in the supported alphabet (a-z).
	AlphabetSize = 26
	// HandLetters is the number of letters each hand receives.
	HandLetters = 13
	// HandSlots is the number of physical keys per hand.
	HandSlots = 15
	// Fingers is the number of fingers per hand bound to letter keys.
	Fingers = 4
	// CostGroups is the number of ergonomic cost tiers.
	CostGroups = 5
	// Hands is the number of hands.
	Hands = 2
)

// Letter is a letter index, 0 for 'a' through 25 for 'z'.
type Letter int8

// NoLetter marks an empty key slot.
const NoLetter Letter = -1

// LetterOf returns the index of an ASCII lowercase letter.
func LetterOf(ch byte) (Letter, bool) {
	if ch < 'a' || ch > 'z' {
		return NoLetter, false
	}
	return Letter(ch - 'a'), true
}

// Valid reports whether l is inside the alphabet.
func (l Letter) Valid() bool {
	return l >= 0 && l < AlphabetSize
}

// String renders the letter, or "_" for an empty slot.
func (l Letter) String() string {
	if !l.Valid() {
		return "_"
	}
	return string(rune('a' + l))
}

// HandSplit partitions the alphabet into two 13-letter halves.
type HandSplit struct {
	// Mask has bit i set when letter i belongs to hand 1.
	Mask  uint32
	Hands [Hands][]Letter
	// Cost is the summed weight of letter pairs sharing a hand.
	Cost int
}

// HandLayout maps each physical slot of one hand to a letter or NoLetter.
type HandLayout [HandSlots]Letter

// EmptyHandLayout returns a layout with every slot empty.
func EmptyHandLayout() HandLayout {
	var h HandLayout
	for i := range h {
		h[i] = NoLetter
	}
	return h
}

// Layout is the final two-hand slot table.
type Layout [Hands]HandLayout

// GenerateConfig defines settings for a layout search.
type GenerateConfig struct {
	CorpusPath string
	Workers    int
	Cache      bool
	Progress   bool
	Styled     bool
}

// EvaluateConfig defines settings for evaluating a fixed layout.
type EvaluateConfig struct {
	CorpusPath string
	LayoutPath string
	Fingers    bool
}

// Run captures a completed optimisation stored in the history database.
type Run struct {
	ID           int64
	CreatedAt    time.Time
	CorpusDigest string
	CorpusLen    int
	Workers      int
	Hand0        string
	Hand1        string
	Layout       string
	SplitCost    int
	FingerCost0  int
	FingerCost1  int
	DurationMs   int64
}
