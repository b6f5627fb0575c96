// Package evaluate scores a fixed layout against a corpus.
package evaluate

import (
	"github.com/verte-zerg/keysplit/internal/adjacency"
	"github.com/verte-zerg/keysplit/internal/geometry"
	"github.com/verte-zerg/keysplit/internal/model"
)

// FingerNames labels finger ids in reports.
var FingerNames = [model.Fingers]string{"index", "middle", "ring", "pinky"}

// Metrics summarizes how a layout performs on a corpus.
type Metrics struct {
	CorpusLen int
	// SameHandCost is the hand split objective: adjacency weight of letter
	// pairs placed on the same hand.
	SameHandCost int
	// SameFingerCost is the placement objective summed over both hands.
	SameFingerCost int
	// SameHandCount and SameFingerCount count consecutive corpus letters
	// typed with the same hand, or the same finger of the same hand.
	SameHandCount   int
	SameFingerCount int
	// PressDifficulty sums the cost group of every typed letter's slot.
	PressDifficulty int
	// FingerLetters lists letters per hand and finger in slot order.
	FingerLetters [model.Hands][model.Fingers][]model.Letter
	// FingerLoad counts presses per hand and finger.
	FingerLoad [model.Hands][model.Fingers]int
	// Unplaced lists corpus letters that have no slot in the layout.
	Unplaced []model.Letter
}

type position struct {
	hand   int
	slot   int
	placed bool
}

// Evaluate recomputes the optimizer objectives and raw counts for layout.
// Corpus letters missing from the layout are skipped.
func Evaluate(letters []model.Letter, l model.Layout) (Metrics, error) {
	w, err := adjacency.BuildWeightGraph(letters)
	if err != nil {
		return Metrics{}, err
	}
	m := Metrics{CorpusLen: len(letters)}

	var pos [model.AlphabetSize]position
	for hand, h := range l {
		for slot, letter := range h {
			if !letter.Valid() {
				continue
			}
			pos[letter] = position{hand: hand, slot: slot, placed: true}
			finger := geometry.StandardSlot(slot).Finger
			m.FingerLetters[hand][finger] = append(m.FingerLetters[hand][finger], letter)
		}
	}

	for i := 0; i < model.AlphabetSize; i++ {
		if !pos[i].placed {
			continue
		}
		for j := i; j < model.AlphabetSize; j++ {
			if pos[j].placed && pos[i].hand == pos[j].hand {
				m.SameHandCost += w[i][j]
			}
		}
	}
	for hand := range m.FingerLetters {
		for _, onFinger := range m.FingerLetters[hand] {
			m.SameFingerCost += w.PairCost(onFinger)
		}
	}

	var missing [model.AlphabetSize]bool
	for i, letter := range letters {
		p := pos[letter]
		if !p.placed {
			if !missing[letter] {
				missing[letter] = true
				m.Unplaced = append(m.Unplaced, letter)
			}
			continue
		}
		slot := geometry.StandardSlot(p.slot)
		m.PressDifficulty += slot.CostGroup
		m.FingerLoad[p.hand][slot.Finger]++
		if i == 0 {
			continue
		}
		prev := pos[letters[i-1]]
		if !prev.placed || prev.hand != p.hand {
			continue
		}
		m.SameHandCount++
		if geometry.StandardSlot(prev.slot).Finger == slot.Finger {
			m.SameFingerCount++
		}
	}
	return m, nil
}
