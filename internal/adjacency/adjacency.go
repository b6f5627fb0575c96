// Package adjacency builds letter adjacency statistics from a corpus.
package adjacency

import (
	"errors"
	"math/bits"
	"sort"

	"github.com/verte-zerg/keysplit/internal/model"
)

// ErrTooShort is returned when the corpus has fewer than two letters.
var ErrTooShort = errors.New("adjacency needs at least 2 letters")

// WeightGraph counts adjacent occurrences per unordered letter pair.
// It is symmetric: w[i][j] == w[j][i].
type WeightGraph [model.AlphabetSize][model.AlphabetSize]int

// Rank lists all letters by descending frequency, ties by ascending index.
type Rank [model.AlphabetSize]model.Letter

// BuildWeightGraph counts every adjacent pair once. A letter followed by
// itself increments the diagonal once.
func BuildWeightGraph(letters []model.Letter) (WeightGraph, error) {
	var w WeightGraph
	if len(letters) < 2 {
		return w, ErrTooShort
	}
	for i := 0; i+1 < len(letters); i++ {
		a, b := letters[i], letters[i+1]
		w[a][b]++
		if a != b {
			w[b][a]++
		}
	}
	return w, nil
}

// Counts returns raw per-letter occurrence counts.
func Counts(letters []model.Letter) [model.AlphabetSize]int {
	var counts [model.AlphabetSize]int
	for _, l := range letters {
		counts[l]++
	}
	return counts
}

// BuildFrequencyRank orders all 26 letters by descending count.
func BuildFrequencyRank(letters []model.Letter) Rank {
	counts := Counts(letters)
	var rank Rank
	for i := range rank {
		rank[i] = model.Letter(i)
	}
	sort.SliceStable(rank[:], func(i, j int) bool {
		ci, cj := counts[rank[i]], counts[rank[j]]
		if ci == cj {
			return rank[i] < rank[j]
		}
		return ci > cj
	})
	return rank
}

// Total sums the weights of all unordered pairs, diagonal included. For a
// graph built from a corpus it equals len(corpus)-1.
func (w *WeightGraph) Total() int {
	total := 0
	for i := 0; i < model.AlphabetSize; i++ {
		for j := i; j < model.AlphabetSize; j++ {
			total += w[i][j]
		}
	}
	return total
}

// Cut sums w[i][j] over pairs with i in mask and j outside it, restricted
// to the first n letters.
func (w *WeightGraph) Cut(mask uint32, n int) int {
	universe := uint32(1)<<n - 1
	inside := mask & universe
	outside := ^mask & universe
	cut := 0
	for a := inside; a != 0; a &= a - 1 {
		row := &w[bits.TrailingZeros32(a)]
		for b := outside; b != 0; b &= b - 1 {
			cut += row[bits.TrailingZeros32(b)]
		}
	}
	return cut
}

// SameSetCost sums w[i][j] over unordered pairs i <= j that are both inside
// or both outside mask.
func (w *WeightGraph) SameSetCost(mask uint32) int {
	return w.Total() - w.Cut(mask, model.AlphabetSize)
}

// PairCost sums w over unordered pairs of letters in the list, including
// each letter with itself.
func (w *WeightGraph) PairCost(letters []model.Letter) int {
	cost := 0
	for i := 0; i < len(letters); i++ {
		row := &w[letters[i]]
		for j := i; j < len(letters); j++ {
			cost += row[letters[j]]
		}
	}
	return cost
}
