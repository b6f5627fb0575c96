// Package store handles SQLite persistence.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/keysplit/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrRunNotFound is returned when no stored run matches.
var ErrRunNotFound = errors.New("run not found")

// Store wraps SQLite access for completed runs.
type Store struct {
	db *sql.DB
}

// Digest identifies a filtered corpus.
func Digest(corpus string) string {
	sum := sha256.Sum256([]byte(corpus))
	return hex.EncodeToString(sum[:])
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			corpus_sha256 TEXT NOT NULL,
			corpus_len INTEGER NOT NULL,
			workers INTEGER NOT NULL,
			hand0 TEXT NOT NULL,
			hand1 TEXT NOT NULL,
			layout TEXT NOT NULL,
			split_cost INTEGER NOT NULL,
			finger_cost0 INTEGER NOT NULL,
			finger_cost1 INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_corpus ON runs(corpus_sha256);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

const runColumns = `id, created_at, corpus_sha256, corpus_len, workers, hand0, hand1, layout,
	split_cost, finger_cost0, finger_cost1, duration_ms`

// InsertRun stores a completed run and returns its id.
func (s *Store) InsertRun(ctx context.Context, run model.Run) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (created_at, corpus_sha256, corpus_len, workers, hand0, hand1, layout, split_cost, finger_cost0, finger_cost1, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.CreatedAt.Format(time.RFC3339Nano),
		run.CorpusDigest,
		run.CorpusLen,
		run.Workers,
		run.Hand0,
		run.Hand1,
		run.Layout,
		run.SplitCost,
		run.FingerCost0,
		run.FingerCost1,
		run.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FindRunByDigest returns the most recent run for a corpus digest.
func (s *Store) FindRunByDigest(ctx context.Context, digest string) (model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE corpus_sha256 = ? ORDER BY id DESC LIMIT 1`, digest)
	return scanRun(row)
}

// GetRun returns the run with the given id.
func (s *Store) GetRun(ctx context.Context, id int64) (model.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// ListRuns returns runs oldest first. A positive limit keeps the most
// recent ones.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (model.Run, error) {
	var run model.Run
	var createdAt string
	err := row.Scan(&run.ID, &createdAt, &run.CorpusDigest, &run.CorpusLen, &run.Workers,
		&run.Hand0, &run.Hand1, &run.Layout, &run.SplitCost, &run.FingerCost0, &run.FingerCost1, &run.DurationMs)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Run{}, ErrRunNotFound
	}
	if err != nil {
		return model.Run{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.Run{}, err
	}
	run.CreatedAt = parsed
	return run, nil
}
