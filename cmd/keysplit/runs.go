package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/keysplit/internal/config"
	"github.com/verte-zerg/keysplit/internal/model"
	"github.com/verte-zerg/keysplit/internal/store"
	"github.com/verte-zerg/keysplit/internal/table"
)

var (
	runsLast int
	runsID   int64
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored layout runs",
		Args:  cobra.NoArgs,
		RunE:  runRunsCmd,
	}
	cmd.Flags().IntVar(&runsLast, "last", defaultRunsLast, "limit to last N runs (0 for all)")
	cmd.Flags().Int64Var(&runsID, "id", 0, "print the layout of one run")
	return cmd
}

func runRunsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if runsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	st, err := store.Open(resolveDBPath(fileCfg))
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close db", zap.Error(cerr))
		}
	}()

	out := cmd.OutOrStdout()
	if runsID > 0 {
		run, err := st.GetRun(cmd.Context(), runsID)
		if err != nil {
			return fmt.Errorf("failed to load run %d: %w", runsID, err)
		}
		return printRun(out, run, false)
	}

	runs, err := st.ListRuns(cmd.Context(), runsLast)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	return renderRuns(out, runs)
}

func renderRuns(w io.Writer, runs []model.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs stored yet.")
		return err
	}
	headers := []string{"ID", "Created", "Corpus", "Letters", "Split", "Fingers", "Workers", "Time"}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		digest := run.CorpusDigest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", run.ID),
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			digest,
			fmt.Sprintf("%d", run.CorpusLen),
			fmt.Sprintf("%d", run.SplitCost),
			fmt.Sprintf("%d/%d", run.FingerCost0, run.FingerCost1),
			fmt.Sprintf("%d", run.Workers),
			fmt.Sprintf("%.2fs", float64(run.DurationMs)/1000),
		})
	}
	rightAlign := map[int]bool{0: true, 3: true, 4: true, 5: true, 6: true, 7: true}
	for _, line := range table.Format(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
