package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/keysplit/internal/config"
	"github.com/verte-zerg/keysplit/internal/corpus"
	"github.com/verte-zerg/keysplit/internal/layout"
	"github.com/verte-zerg/keysplit/internal/model"
	"github.com/verte-zerg/keysplit/internal/pipeline"
	"github.com/verte-zerg/keysplit/internal/progress"
	"github.com/verte-zerg/keysplit/internal/store"
)

var (
	generateCorpus   string
	generateWorkers  int
	generateCache    bool
	generateProgress bool
	generateStyled   bool
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Search the optimal layout for a corpus",
		Args:  cobra.NoArgs,
		RunE:  runGenerateCmd,
	}
	addGenerateFlags(cmd)
	return cmd
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&generateCorpus, "corpus", "c", "-", "corpus file, '-' for stdin")
	cmd.Flags().IntVarP(&generateWorkers, "workers", "w", runtime.NumCPU(), "concurrent hand-split partitions")
	cmd.Flags().BoolVar(&generateCache, "cache", true, "reuse a stored result for an identical corpus")
	cmd.Flags().BoolVar(&generateProgress, "progress", true, "show a progress bar when stderr is a terminal")
	cmd.Flags().BoolVar(&generateStyled, "styled", false, "print a colored grid when stdout is a terminal")
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "workers", &generateWorkers, fileCfg.Generate.Workers)
	applyBoolConfig(cmd, "cache", &generateCache, fileCfg.Generate.Cache)
	applyBoolConfig(cmd, "progress", &generateProgress, fileCfg.Generate.Progress)
	applyBoolConfig(cmd, "styled", &generateStyled, fileCfg.Generate.Styled)

	cfg := model.GenerateConfig{
		CorpusPath: generateCorpus,
		Workers:    generateWorkers,
		Cache:      generateCache,
		Progress:   generateProgress,
		Styled:     generateStyled,
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("--workers must be > 0")
	}

	in, err := openInput(cmd, cfg.CorpusPath)
	if err != nil {
		return err
	}
	text, err := corpus.Load(in)
	closeInput(in)
	if err != nil {
		return err
	}

	var st *store.Store
	if cfg.Cache {
		st, err = store.Open(resolveDBPath(fileCfg))
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logger.Warn("failed to close db", zap.Error(cerr))
			}
		}()
	}
	return generate(cmd.Context(), cmd.OutOrStdout(), st, text, cfg)
}

func generate(ctx context.Context, out io.Writer, st *store.Store, text string, cfg model.GenerateConfig) error {
	digest := store.Digest(text)
	if st != nil {
		run, err := st.FindRunByDigest(ctx, digest)
		switch {
		case err == nil:
			logger.Debug("cached run found", zap.Int64("id", run.ID), zap.String("digest", digest))
			return printRun(out, run, cfg.Styled)
		case !errors.Is(err, store.ErrRunNotFound):
			logger.Warn("failed to look up cached run", zap.Error(err))
		}
	}

	letters := corpus.Letters(text)
	start := time.Now()
	res, err := search(ctx, letters, cfg)
	if err != nil {
		return err
	}
	if err := printResult(out, res.Split, res.Layout, cfg.Styled); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if st == nil {
		return nil
	}
	run := model.Run{
		CreatedAt:    time.Now().UTC(),
		CorpusDigest: digest,
		CorpusLen:    len(letters),
		Workers:      cfg.Workers,
		Hand0:        lettersString(res.Split.Hands[0]),
		Hand1:        lettersString(res.Split.Hands[1]),
		Layout:       strings.Join(layout.Tokens(res.Layout), " "),
		SplitCost:    res.Split.Cost,
		FingerCost0:  res.FingerCosts[0],
		FingerCost1:  res.FingerCosts[1],
		DurationMs:   time.Since(start).Milliseconds(),
	}
	id, err := st.InsertRun(ctx, run)
	if err != nil {
		logger.Warn("failed to store run", zap.Error(err))
		return nil
	}
	logger.Debug("run stored", zap.Int64("id", id))
	return nil
}

func search(ctx context.Context, letters []model.Letter, cfg model.GenerateConfig) (pipeline.Result, error) {
	opts := pipeline.Options{Workers: cfg.Workers, Logger: logger}
	if !cfg.Progress || !isTerminal(os.Stderr) {
		return pipeline.Run(ctx, letters, opts)
	}
	var res pipeline.Result
	err := progress.Run(ctx, os.Stderr, "Splitting keys between hands", func(ctx context.Context, report func(done, total uint64)) error {
		opts.OnProgress = report
		var err error
		res, err = pipeline.Run(ctx, letters, opts)
		return err
	})
	return res, err
}

func printResult(out io.Writer, split model.HandSplit, l model.Layout, styled bool) error {
	if err := layout.RenderSplit(out, split); err != nil {
		return err
	}
	if styled && isTerminal(out) {
		_, err := fmt.Fprintln(out, layout.StyledLayout(l))
		return err
	}
	return layout.Render(out, l)
}

func printRun(out io.Writer, run model.Run, styled bool) error {
	split, l, err := runLayout(run)
	if err != nil {
		return err
	}
	return printResult(out, split, l, styled)
}

// runLayout rebuilds the split and layout stored with a run.
func runLayout(run model.Run) (model.HandSplit, model.Layout, error) {
	l, err := layout.FromTokens(strings.Fields(run.Layout))
	if err != nil {
		return model.HandSplit{}, model.Layout{}, fmt.Errorf("failed to decode run %d: %w", run.ID, err)
	}
	split := model.HandSplit{Cost: run.SplitCost}
	for hand, letters := range []string{run.Hand0, run.Hand1} {
		for i := 0; i < len(letters); i++ {
			letter, ok := model.LetterOf(letters[i])
			if !ok {
				continue
			}
			split.Hands[hand] = append(split.Hands[hand], letter)
			if hand == 1 {
				split.Mask |= 1 << uint(letter)
			}
		}
	}
	return split, l, nil
}

func lettersString(letters []model.Letter) string {
	var b strings.Builder
	for _, l := range letters {
		b.WriteString(l.String())
	}
	return b.String()
}
