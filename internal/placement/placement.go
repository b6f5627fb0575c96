// Package placement assigns one hand's letters to physical key slots.
package placement

import (
	"errors"
	"fmt"
	"math"

	"github.com/verte-zerg/keysplit/internal/adjacency"
	"github.com/verte-zerg/keysplit/internal/geometry"
	"github.com/verte-zerg/keysplit/internal/model"
)

// ErrTooManyLetters is returned when a hand has more letters than slots.
var ErrTooManyLetters = errors.New("more letters than key slots")

// Result is the best placement found for one hand.
type Result struct {
	// Slots holds the letter per slot index, NoLetter when empty.
	Slots []model.Letter
	// Fingers lists the letters per finger in placement order.
	Fingers [][]model.Letter
	// Cost is the same-finger adjacency weight of the placement.
	Cost int
	// Orderings is the number of slot orderings evaluated.
	Orderings int
}

// Place searches every ordering of slots within each cost group. Letters of
// the hand are taken in rank order and bound to the next slot of the
// ordering, cheapest group first. The first ordering with the lowest
// same-finger cost wins.
func Place(letters []model.Letter, rank *adjacency.Rank, w *adjacency.WeightGraph, geo geometry.Geometry) (Result, error) {
	if err := geo.Validate(); err != nil {
		return Result{}, err
	}
	if len(letters) > geo.Len() {
		return Result{}, fmt.Errorf("%w: %d letters, %d slots", ErrTooManyLetters, len(letters), geo.Len())
	}
	ordered, err := rankedLetters(letters, rank)
	if err != nil {
		return Result{}, err
	}

	groups := geo.Groups()
	queue := make([]int, 0, geo.Len())
	fingers := make([][]model.Letter, geo.Fingers())
	for i := range fingers {
		fingers[i] = make([]model.Letter, 0, len(ordered))
	}

	best := Result{Cost: math.MaxInt}
	var bestQueue []int
	for {
		queue = queue[:0]
		for _, g := range groups {
			queue = append(queue, g...)
		}
		cost := fingerCost(ordered, queue, geo, w, fingers)
		best.Orderings++
		if cost < best.Cost {
			best.Cost = cost
			bestQueue = append(bestQueue[:0], queue...)
		}
		if !advance(groups) {
			break
		}
	}

	best.Slots = make([]model.Letter, geo.Len())
	for i := range best.Slots {
		best.Slots[i] = model.NoLetter
	}
	best.Fingers = make([][]model.Letter, geo.Fingers())
	for i, l := range ordered {
		slot := bestQueue[i]
		best.Slots[slot] = l
		finger := geo.Slots[slot].Finger
		best.Fingers[finger] = append(best.Fingers[finger], l)
	}
	return best, nil
}

// rankedLetters filters the rank down to the hand's letters.
func rankedLetters(letters []model.Letter, rank *adjacency.Rank) ([]model.Letter, error) {
	var member [model.AlphabetSize]bool
	for _, l := range letters {
		if !l.Valid() {
			return nil, fmt.Errorf("letter index %d out of range", l)
		}
		if member[l] {
			return nil, fmt.Errorf("letter %s listed twice", l)
		}
		member[l] = true
	}
	ordered := make([]model.Letter, 0, len(letters))
	for _, l := range rank {
		if member[l] {
			ordered = append(ordered, l)
		}
	}
	if len(ordered) != len(letters) {
		return nil, fmt.Errorf("rank covers %d of %d letters", len(ordered), len(letters))
	}
	return ordered, nil
}

// fingerCost binds ordered[i] to queue[i] and sums same-finger pair weight.
// fingers is scratch space reused across calls.
func fingerCost(ordered []model.Letter, queue []int, geo geometry.Geometry, w *adjacency.WeightGraph, fingers [][]model.Letter) int {
	for i := range fingers {
		fingers[i] = fingers[i][:0]
	}
	for i, l := range ordered {
		f := geo.Slots[queue[i]].Finger
		fingers[f] = append(fingers[f], l)
	}
	cost := 0
	for _, onFinger := range fingers {
		cost += w.PairCost(onFinger)
	}
	return cost
}

// advance steps the groups like an odometer: the last group permutes
// fastest, group 0 slowest. It returns false once every combination has
// been produced, leaving all groups back in ascending order.
func advance(groups [][]int) bool {
	for i := len(groups) - 1; i >= 0; i-- {
		if NextPermutation(groups[i]) {
			return true
		}
	}
	return false
}

// NextPermutation rearranges p into the next lexicographic permutation. At
// the last permutation it resets p to ascending order and returns false.
func NextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		reverse(p)
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	reverse(p[i+1:])
	return true
}

func reverse(p []int) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}
