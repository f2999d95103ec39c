// Package sqlite keeps an optional ledger of document runs in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hetulpatel/appealdigest/internal/artifact"
	"github.com/hetulpatel/appealdigest/internal/hashutil"
	"github.com/hetulpatel/appealdigest/internal/pipeline"
)

const (
	defaultPath = "data/digest.db"
)

// Store wraps a SQLite DB connection.
type Store struct {
	path string
	db   *sql.DB
}

// Open creates (if needed) and opens the SQLite database and ensures the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := ensureWAL(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	s := &Store{path: path, db: db}
	if err := s.CreateTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func ensureWAL(db *sql.DB) error {
	const (
		maxAttempts = 5
		delay       = 200 * time.Millisecond
	)
	for i := 0; i < maxAttempts; i++ {
		if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			if strings.Contains(err.Error(), "database is locked") {
				time.Sleep(delay)
				continue
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("database is locked after retries")
}

// Path returns the path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Close closes the DB.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreateTables ensures the document_runs table exists.
func (s *Store) CreateTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL)
	return err
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS document_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	source_path TEXT NOT NULL,
	source_sha256 TEXT,
	naming_key TEXT,
	process_number TEXT,
	run_timestamp TEXT,
	outcome TEXT NOT NULL,
	failed_stage TEXT,
	error TEXT,
	text_chars INTEGER,
	initial_path TEXT,
	improved_path TEXT,
	persist_errors TEXT,
	started_at TEXT,
	finished_at TEXT
);
CREATE INDEX IF NOT EXISTS document_runs_key_idx ON document_runs(naming_key);
CREATE INDEX IF NOT EXISTS document_runs_run_idx ON document_runs(run_id);
`

// Report implements runner.Reporter by inserting one row per outcome.
func (s *Store) Report(ctx context.Context, runID string, out pipeline.Outcome) error {
	return s.InsertOutcome(ctx, runID, out)
}

// InsertOutcome stores the outcome of one document run.
func (s *Store) InsertOutcome(ctx context.Context, runID string, out pipeline.Outcome) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlite store not initialized")
	}

	// the source may be gone by now; the ledger row is still useful without it
	sum, _ := hashutil.HashFile(out.Document.Path)

	var causeText string
	if out.Cause != nil {
		causeText = out.Cause.Error()
	}
	persistErrs := make([]string, 0, len(out.PersistErrors))
	for _, err := range out.PersistErrors {
		persistErrs = append(persistErrs, err.Error())
	}

	query := `
INSERT INTO document_runs (
	run_id, source_path, source_sha256, naming_key, process_number, run_timestamp,
	outcome, failed_stage, error, text_chars, initial_path, improved_path,
	persist_errors, started_at, finished_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	_, err := s.db.ExecContext(
		ctx,
		query,
		runID,
		out.Document.Path,
		sum,
		out.NamingKey,
		out.Identifier,
		out.Timestamp,
		string(out.Kind),
		string(out.Stage),
		causeText,
		out.TextLength,
		out.ArtifactPath(artifact.PhaseInitial),
		out.ArtifactPath(artifact.PhaseImproved),
		strings.Join(persistErrs, "; "),
		formatTime(out.StartedAt),
		formatTime(out.FinishedAt),
	)
	return err
}

// Run is one ledger row.
type Run struct {
	ID            int64
	RunID         string
	SourcePath    string
	SourceSHA256  string
	NamingKey     string
	ProcessNumber string
	RunTimestamp  string
	Outcome       string
	FailedStage   string
	Error         string
	TextChars     int
	InitialPath   string
	ImprovedPath  string
	PersistErrors string
	StartedAt     string
	FinishedAt    string
}

// RecentRuns returns the newest rows first. An empty key lists every document.
func (s *Store) RecentRuns(ctx context.Context, namingKey string, limit int) ([]Run, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialized")
	}
	if limit <= 0 {
		limit = 50
	}
	query := `
SELECT id, run_id, source_path, COALESCE(source_sha256, ''), COALESCE(naming_key, ''),
	COALESCE(process_number, ''), COALESCE(run_timestamp, ''), outcome, COALESCE(failed_stage, ''),
	COALESCE(error, ''), COALESCE(text_chars, 0), COALESCE(initial_path, ''), COALESCE(improved_path, ''),
	COALESCE(persist_errors, ''), COALESCE(started_at, ''), COALESCE(finished_at, '')
FROM document_runs
WHERE (? = '' OR naming_key = ?)
ORDER BY id DESC
LIMIT ?
`
	rows, err := s.db.QueryContext(ctx, query, namingKey, namingKey, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.SourcePath, &r.SourceSHA256, &r.NamingKey,
			&r.ProcessNumber, &r.RunTimestamp, &r.Outcome, &r.FailedStage,
			&r.Error, &r.TextChars, &r.InitialPath, &r.ImprovedPath,
			&r.PersistErrors, &r.StartedAt, &r.FinishedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
