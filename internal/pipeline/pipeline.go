// Package pipeline runs the full layout search for a corpus.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/keysplit/internal/adjacency"
	"github.com/verte-zerg/keysplit/internal/geometry"
	"github.com/verte-zerg/keysplit/internal/handsplit"
	"github.com/verte-zerg/keysplit/internal/layout"
	"github.com/verte-zerg/keysplit/internal/model"
	"github.com/verte-zerg/keysplit/internal/placement"
)

// Options configures a run.
type Options struct {
	Workers    int
	OnProgress func(done, total uint64)
	Logger     *zap.Logger
}

// Result is the outcome of a full run.
type Result struct {
	Split       model.HandSplit
	Layout      model.Layout
	FingerCosts [model.Hands]int
	SplitTime   time.Duration
	PlaceTime   time.Duration
}

// Run builds the adjacency model, splits the alphabet between hands, then
// places each hand's letters. The two placements run concurrently and only
// read the shared weight graph and rank.
func Run(ctx context.Context, letters []model.Letter, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	weights, err := adjacency.BuildWeightGraph(letters)
	if err != nil {
		return Result{}, err
	}
	rank := adjacency.BuildFrequencyRank(letters)
	logger.Debug("adjacency model built",
		zap.Int("letters", len(letters)),
		zap.Int("pairs", weights.Total()),
		zap.Stringer("top", rank[0]),
	)

	start := time.Now()
	split, err := handsplit.AssignHands(ctx, &weights, handsplit.Options{
		Workers:    opts.Workers,
		OnProgress: opts.OnProgress,
		Logger:     logger,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to split hands: %w", err)
	}
	res := Result{Split: split, SplitTime: time.Since(start)}

	start = time.Now()
	var hands [model.Hands]model.HandLayout
	g, gctx := errgroup.WithContext(ctx)
	for hand := 0; hand < model.Hands; hand++ {
		hand := hand
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			placed, err := placement.Place(split.Hands[hand], &rank, &weights, geometry.Standard())
			if err != nil {
				return fmt.Errorf("failed to place hand %d: %w", hand, err)
			}
			h, err := layout.FromSlots(placed.Slots)
			if err != nil {
				return err
			}
			hands[hand] = h
			res.FingerCosts[hand] = placed.Cost
			logger.Info("hand placed",
				zap.Int("hand", hand),
				zap.Int("cost", placed.Cost),
				zap.Int("orderings", placed.Orderings),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	res.PlaceTime = time.Since(start)
	res.Layout = layout.Assemble(hands[0], hands[1])
	return res, nil
}
