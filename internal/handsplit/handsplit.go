// Package handsplit assigns the alphabet to two hands.
//
// Every 13-letter subset of the 26 letters is scored by the adjacency weight
// of letter pairs that end up on the same hand. Subsets are visited in
// increasing numeric order of their bitmask, and the first subset with the
// lowest cost wins. Letters whose bit is set in the winning mask go to hand 1
// (right), the rest to hand 0 (left).
package handsplit

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/keysplit/internal/adjacency"
	"github.com/verte-zerg/keysplit/internal/model"
)

// progressStride is how many subsets a worker scores between progress
// reports and context checks.
const progressStride = 1 << 14

// Options tunes a search.
type Options struct {
	// Workers is the number of partitions searched concurrently. Zero or
	// negative means GOMAXPROCS.
	Workers int
	// OnProgress receives the number of scored subsets and the total. It is
	// called from worker goroutines and must be safe for concurrent use.
	OnProgress func(done, total uint64)
	Logger     *zap.Logger
}

type candidate struct {
	mask uint32
	cost int
}

// AssignHands returns the 13/13 split with minimal same-hand weight.
func AssignHands(ctx context.Context, w *adjacency.WeightGraph, opts Options) (model.HandSplit, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()
	best, err := search(ctx, w, model.AlphabetSize, model.HandLetters, opts, logger)
	if err != nil {
		return model.HandSplit{}, err
	}
	split := FromMask(best.mask, best.cost)
	logger.Info("hand split complete",
		zap.Uint32("mask", best.mask),
		zap.Int("cost", best.cost),
		zap.Duration("elapsed", time.Since(start)),
	)
	return split, nil
}

// FromMask builds the split for mask: set bits go to hand 1, clear bits to
// hand 0, each hand in alphabetical order.
func FromMask(mask uint32, cost int) model.HandSplit {
	split := model.HandSplit{Mask: mask, Cost: cost}
	for i := 0; i < model.AlphabetSize; i++ {
		hand := 0
		if mask>>i&1 == 1 {
			hand = 1
		}
		split.Hands[hand] = append(split.Hands[hand], model.Letter(i))
	}
	return split
}

// search scans every k-subset of the first n letters.
func search(ctx context.Context, w *adjacency.WeightGraph, n, k int, opts Options, logger *zap.Logger) (candidate, error) {
	if n < 1 || n > 31 || k < 1 || k > n {
		return candidate{}, fmt.Errorf("invalid subset size %d of %d", k, n)
	}
	total := Binomial(n, k)
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if uint64(workers) > total {
		workers = int(total)
	}
	chunk := (total + uint64(workers) - 1) / uint64(workers)
	baseline := diagonalTotal(w, n)

	var done atomic.Uint64
	report := func(delta uint64) {
		d := done.Add(delta)
		if opts.OnProgress != nil {
			opts.OnProgress(d, total)
		}
	}

	results := make([]candidate, workers)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		i := i
		first := uint64(i) * chunk
		if first >= total {
			results[i] = candidate{cost: math.MaxInt}
			continue
		}
		count := min(chunk, total-first)
		g.Go(func() error {
			best, err := scan(gctx, w, n, Unrank(first, k), count, baseline, report)
			if err != nil {
				return err
			}
			results[i] = best
			logger.Debug("hand split partition done",
				zap.Int("worker", i),
				zap.Uint64("first", first),
				zap.Uint64("count", count),
				zap.Int("cost", best.cost),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return candidate{}, err
	}
	return merge(results), nil
}

// scan walks count successors from start and keeps the first minimum.
func scan(ctx context.Context, w *adjacency.WeightGraph, n int, start uint32, count uint64, baseline int, report func(uint64)) (candidate, error) {
	best := candidate{cost: math.MaxInt}
	s := start
	var pending uint64
	for i := uint64(0); i < count; i++ {
		cost := baseline - w.Cut(s, n)
		if cost < best.cost {
			best = candidate{mask: s, cost: cost}
		}
		pending++
		if pending == progressStride {
			if err := ctx.Err(); err != nil {
				return candidate{}, err
			}
			report(pending)
			pending = 0
		}
		if i+1 < count {
			s = NextSubset(s)
		}
	}
	if pending > 0 {
		report(pending)
	}
	return best, nil
}

// merge picks the lowest cost; ties go to the numerically smallest mask,
// which is the one seen first in a single sequential scan.
func merge(results []candidate) candidate {
	best := candidate{cost: math.MaxInt}
	for _, r := range results {
		if r.cost < best.cost || (r.cost == best.cost && r.mask < best.mask) {
			best = r
		}
	}
	return best
}

// diagonalTotal sums w over unordered pairs of the first n letters.
func diagonalTotal(w *adjacency.WeightGraph, n int) int {
	total := 0
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			total += w[i][j]
		}
	}
	return total
}

// NextSubset returns the next larger integer with the same number of set
// bits (Gosper's hack). NextSubset(0) is 0.
func NextSubset(s uint32) uint32 {
	if s == 0 {
		return 0
	}
	low := s & -s
	ripple := s + low
	return ((s&^ripple)/low)>>1 | ripple
}

// Binomial returns n choose k.
func Binomial(n, k int) uint64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := uint64(1)
	for i := 1; i <= k; i++ {
		result = result * uint64(n-k+i) / uint64(i)
	}
	return result
}

// Unrank returns the k-subset at position r in increasing numeric order,
// using the combinatorial number system.
func Unrank(r uint64, k int) uint32 {
	var mask uint32
	for j := k; j >= 1; j-- {
		c := j - 1
		for Binomial(c+1, j) <= r {
			c++
		}
		mask |= 1 << c
		r -= Binomial(c, j)
	}
	return mask
}
