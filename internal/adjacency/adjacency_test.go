package adjacency

import (
	"errors"
	"testing"

	"github.com/verte-zerg/keysplit/internal/model"
)

func letters(s string) []model.Letter {
	out := make([]model.Letter, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = model.Letter(s[i] - 'a')
	}
	return out
}

func TestBuildWeightGraphSelfPairCountedOnce(t *testing.T) {
	w, err := BuildWeightGraph(letters("aaa"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if w[0][0] != 2 {
		t.Fatalf("expected w[a][a]=2, got %d", w[0][0])
	}
	for i := 0; i < model.AlphabetSize; i++ {
		for j := 0; j < model.AlphabetSize; j++ {
			if (i != 0 || j != 0) && w[i][j] != 0 {
				t.Fatalf("expected zero at [%d][%d], got %d", i, j, w[i][j])
			}
		}
	}
}

func TestBuildWeightGraphSymmetricAndTotal(t *testing.T) {
	corpora := []string{"ab", "abba", "thequickbrownfoxjumpsoverthelazydog", "mississippi", "zzzzazz"}
	for _, c := range corpora {
		w, err := BuildWeightGraph(letters(c))
		if err != nil {
			t.Fatalf("build %q: %v", c, err)
		}
		for i := 0; i < model.AlphabetSize; i++ {
			for j := 0; j < model.AlphabetSize; j++ {
				if w[i][j] != w[j][i] {
					t.Fatalf("%q: asymmetric at [%d][%d]", c, i, j)
				}
			}
		}
		if got := w.Total(); got != len(c)-1 {
			t.Fatalf("%q: expected total %d, got %d", c, len(c)-1, got)
		}
	}
}

func TestBuildWeightGraphTooShort(t *testing.T) {
	for _, c := range []string{"", "a"} {
		if _, err := BuildWeightGraph(letters(c)); !errors.Is(err, ErrTooShort) {
			t.Fatalf("expected ErrTooShort for %q, got %v", c, err)
		}
	}
}

func TestBuildFrequencyRank(t *testing.T) {
	rank := BuildFrequencyRank(letters("cbcbcaz"))
	want := []model.Letter{2, 1, 0, 25, 3, 4}
	for i, l := range want {
		if rank[i] != l {
			t.Fatalf("rank[%d]: expected %s, got %s (rank %v)", i, l, rank[i], rank)
		}
	}
	if rank[model.AlphabetSize-1] != 24 {
		t.Fatalf("expected y last, got %s", rank[model.AlphabetSize-1])
	}
}

func TestBuildFrequencyRankSingleLetter(t *testing.T) {
	rank := BuildFrequencyRank(letters("aaa"))
	if rank[0] != 0 || rank[1] != 1 {
		t.Fatalf("unexpected rank head: %v", rank[:2])
	}
}

func TestSameSetCostMatchesPairwiseDefinition(t *testing.T) {
	w, err := BuildWeightGraph(letters("thequickbrownfoxjumpsoverthelazydogandsomemore"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, mask := range []uint32{0x1fff, 0x3ffe000, 0x2aaaaaa & 0x3ffffff, 0x1555555} {
		want := 0
		for i := 0; i < model.AlphabetSize; i++ {
			for j := i; j < model.AlphabetSize; j++ {
				if (mask>>i)&1 == (mask>>j)&1 {
					want += w[i][j]
				}
			}
		}
		if got := w.SameSetCost(mask); got != want {
			t.Fatalf("mask %#x: expected %d, got %d", mask, want, got)
		}
	}
}

func TestPairCost(t *testing.T) {
	w, err := BuildWeightGraph(letters("abab"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := w.PairCost(letters("ab")); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := w.PairCost(letters("a")); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
