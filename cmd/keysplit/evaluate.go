package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/keysplit/internal/config"
	"github.com/verte-zerg/keysplit/internal/corpus"
	"github.com/verte-zerg/keysplit/internal/evaluate"
	"github.com/verte-zerg/keysplit/internal/layout"
	"github.com/verte-zerg/keysplit/internal/model"
)

var (
	evaluateCorpus  string
	evaluateLayout  string
	evaluateFingers bool
)

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score a fixed layout against a corpus",
		Long: "Score a fixed layout against a corpus. Without --layout the 30 layout tokens\n" +
			"are read from the corpus stream after its END sentinel.",
		Args: cobra.NoArgs,
		RunE: runEvaluateCmd,
	}
	cmd.Flags().StringVarP(&evaluateCorpus, "corpus", "c", "-", "corpus file, '-' for stdin")
	cmd.Flags().StringVarP(&evaluateLayout, "layout", "l", "", "layout file (printed generate output is accepted)")
	cmd.Flags().BoolVar(&evaluateFingers, "fingers", false, "print the per-finger load table")
	return cmd
}

func runEvaluateCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyBoolConfig(cmd, "fingers", &evaluateFingers, fileCfg.Evaluate.Fingers)

	cfg := model.EvaluateConfig{
		CorpusPath: evaluateCorpus,
		LayoutPath: evaluateLayout,
		Fingers:    evaluateFingers,
	}
	if cfg.CorpusPath == "-" && cfg.LayoutPath == "-" {
		return fmt.Errorf("--corpus and --layout cannot both read stdin")
	}

	in, err := openInput(cmd, cfg.CorpusPath)
	if err != nil {
		return err
	}
	defer closeInput(in)

	sc := corpus.NewScanner(in)
	text, err := corpus.Read(sc)
	if err != nil {
		return err
	}

	var l model.Layout
	if cfg.LayoutPath == "" {
		var tokens []string
		for sc.Scan() {
			tokens = append(tokens, sc.Text())
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("failed to read layout: %w", err)
		}
		l, err = layout.FromTokens(tokens)
	} else {
		l, err = readLayout(cmd, cfg.LayoutPath)
	}
	if err != nil {
		return err
	}
	return evaluateLayoutTo(cmd.OutOrStdout(), text, l, cfg.Fingers)
}

func readLayout(cmd *cobra.Command, path string) (model.Layout, error) {
	in, err := openInput(cmd, path)
	if err != nil {
		return model.Layout{}, err
	}
	defer closeInput(in)
	return layout.Parse(in)
}

func evaluateLayoutTo(out io.Writer, text string, l model.Layout, fingers bool) error {
	metrics, err := evaluate.Evaluate(corpus.Letters(text), l)
	if err != nil {
		return err
	}
	if err := layout.Render(out, l); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := evaluate.RenderReport(out, metrics); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if fingers {
		if err := evaluate.RenderFingerTable(out, metrics); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
