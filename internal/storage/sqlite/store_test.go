package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hetulpatel/appealdigest/internal/artifact"
	"github.com/hetulpatel/appealdigest/internal/pipeline"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "digest.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInsertAndListOutcomes(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	src := filepath.Join(t.TempDir(), "recurso.pdf")
	if err := os.WriteFile(src, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	started := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	success := pipeline.Outcome{
		Document:   pipeline.Document{Path: src},
		Kind:       pipeline.KindSuccess,
		Identifier: "1234567-89.2023.8.26.0100",
		NamingKey:  "1234567-89.2023.8.26.0100",
		Timestamp:  "20240101_120000",
		TextLength: 42,
		Artifacts: []artifact.Artifact{
			{Phase: artifact.PhaseInitial, Path: "/r/a.txt"},
			{Phase: artifact.PhaseImproved, Path: "/r/b.txt"},
		},
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
	}
	failure := pipeline.Outcome{
		Document:  pipeline.Document{Path: "/missing/caso.pdf"},
		Kind:      pipeline.KindPartialFailure,
		Stage:     pipeline.StageInitialAnalysis,
		Cause:     &pipeline.StageError{Stage: pipeline.StageInitialAnalysis, Err: errors.New("quota")},
		NamingKey: "caso",
		Timestamp: "20240101_120001",
	}

	if err := store.Report(ctx, "run-1", success); err != nil {
		t.Fatalf("Report(success): %v", err)
	}
	if err := store.Report(ctx, "run-1", failure); err != nil {
		t.Fatalf("Report(failure): %v", err)
	}

	all, err := store.RecentRuns(ctx, "", 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("rows = %d, want 2", len(all))
	}
	if all[0].NamingKey != "caso" || all[0].Outcome != "partial_failure" || all[0].FailedStage != "initial_analysis" {
		t.Errorf("newest row = %+v", all[0])
	}
	if all[0].Error == "" || all[0].SourceSHA256 != "" {
		t.Errorf("failure row error/sha = %q/%q", all[0].Error, all[0].SourceSHA256)
	}

	byKey, err := store.RecentRuns(ctx, "1234567-89.2023.8.26.0100", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(byKey) != 1 {
		t.Fatalf("rows for key = %d", len(byKey))
	}
	r := byKey[0]
	if r.RunID != "run-1" || r.InitialPath != "/r/a.txt" || r.ImprovedPath != "/r/b.txt" || r.TextChars != 42 {
		t.Errorf("row = %+v", r)
	}
	if r.SourceSHA256 != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Errorf("sha = %q", r.SourceSHA256)
	}
	if r.StartedAt != "2024-01-01T12:00:00Z" {
		t.Errorf("started_at = %q", r.StartedAt)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digest.db")
	for i := 0; i < 2; i++ {
		s, err := Open(context.Background(), path)
		if err != nil {
			t.Fatalf("Open #%d: %v", i, err)
		}
		if s.Path() != path {
			t.Errorf("Path = %q", s.Path())
		}
		s.Close()
	}
}

func TestNilStore(t *testing.T) {
	var s *Store
	if err := s.Close(); err != nil {
		t.Errorf("Close = %v", err)
	}
	if err := s.InsertOutcome(context.Background(), "r", pipeline.Outcome{}); err == nil {
		t.Error("expected error from nil store")
	}
	if _, err := s.RecentRuns(context.Background(), "", 1); err == nil {
		t.Error("expected error from nil store")
	}
}
