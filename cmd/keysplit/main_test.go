package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keysplit/internal/config"
	"github.com/verte-zerg/keysplit/internal/layout"
	"github.com/verte-zerg/keysplit/internal/model"
	"github.com/verte-zerg/keysplit/internal/store"
)

const streamLayout = "a b c d e f g h i j k l m _ _ n o p q r s t u v w x y z _ _"

func isolateConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
}

func TestEvaluateReadsLayoutAfterSentinel(t *testing.T) {
	isolateConfig(t)
	root := newRootCmd()
	root.SetArgs([]string{"evaluate", "--fingers"})
	root.SetIn(strings.NewReader("The quick brown fox\nEND\n" + streamLayout + "\n"))
	var out bytes.Buffer
	root.SetOut(&out)

	require.NoError(t, root.ExecuteContext(context.Background()))
	text := out.String()
	require.Contains(t, text, "--- Hand 0 (Optimal Layout) ---")
	require.Contains(t, text, "=== Evaluation Results ===")
	require.Contains(t, text, "Corpus length")
	require.Contains(t, text, "Per-Finger Load")
}

func TestEvaluateLayoutFile(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "corpus.txt")
	layoutPath := filepath.Join(dir, "layout.txt")
	require.NoError(t, os.WriteFile(corpusPath, []byte("hello world"), 0o644))

	l, err := layout.FromTokens(strings.Fields(streamLayout))
	require.NoError(t, err)
	var rendered bytes.Buffer
	require.NoError(t, layout.Render(&rendered, l))
	require.NoError(t, os.WriteFile(layoutPath, rendered.Bytes(), 0o644))

	root := newRootCmd()
	root.SetArgs([]string{"evaluate", "--corpus", corpusPath, "--layout", layoutPath})
	var out bytes.Buffer
	root.SetOut(&out)
	require.NoError(t, root.ExecuteContext(context.Background()))
	require.Contains(t, out.String(), "=== Evaluation Results ===")
	require.NotContains(t, out.String(), "Per-Finger Load")
}

func TestEvaluateShortLayout(t *testing.T) {
	isolateConfig(t)
	root := newRootCmd()
	root.SetArgs([]string{"evaluate"})
	root.SetIn(strings.NewReader("hello END a b c"))
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	require.ErrorIs(t, root.ExecuteContext(context.Background()), layout.ErrShortLayout)
}

func TestApplyConfigRespectsChangedFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	var workers int
	var cache bool
	cmd.Flags().IntVar(&workers, "workers", 4, "")
	cmd.Flags().BoolVar(&cache, "cache", true, "")
	require.NoError(t, cmd.Flags().Set("workers", "2"))

	fileWorkers := 8
	fileCache := false
	applyIntConfig(cmd, "workers", &workers, &fileWorkers)
	applyBoolConfig(cmd, "cache", &cache, &fileCache)
	applyBoolConfig(cmd, "cache", &cache, nil)

	require.Equal(t, 2, workers)
	require.False(t, cache)
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644))
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Nil(t, cfg.Generate.Workers)
}

func TestRunLayoutRoundTrip(t *testing.T) {
	l, err := layout.FromTokens(strings.Fields(streamLayout))
	require.NoError(t, err)
	run := model.Run{
		ID:        1,
		Hand0:     "abcdefghijklm",
		Hand1:     "nopqrstuvwxyz",
		Layout:    strings.Join(layout.Tokens(l), " "),
		SplitCost: 42,
	}
	split, got, err := runLayout(run)
	require.NoError(t, err)
	require.Equal(t, l, got)
	require.Equal(t, uint32(0x3ffe000), split.Mask)
	require.Equal(t, 42, split.Cost)
	require.Len(t, split.Hands[1], model.HandLetters)

	_, _, err = runLayout(model.Run{Layout: "a b"})
	require.ErrorIs(t, err, layout.ErrShortLayout)
}

func TestRenderRunsEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, renderRuns(&out, nil))
	require.Equal(t, "No runs stored yet.\n", out.String())
}

func TestGenerateCachesRun(t *testing.T) {
	if testing.Short() {
		t.Skip("full alphabet search")
	}
	isolateConfig(t)
	st, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	cfg := model.GenerateConfig{Workers: 4, Cache: true}
	text := "abababab"

	var first bytes.Buffer
	require.NoError(t, generate(ctx, &first, st, text, cfg))
	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	var second bytes.Buffer
	require.NoError(t, generate(ctx, &second, st, text, cfg))
	require.Equal(t, first.String(), second.String())
	runs, err = st.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	var listing bytes.Buffer
	require.NoError(t, renderRuns(&listing, runs))
	require.Contains(t, listing.String(), store.Digest(text)[:12])
}
