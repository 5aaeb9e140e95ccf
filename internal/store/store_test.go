package store

import (
	"path/filepath"
	"testing"

	"adaptik/internal/testutil"
)

// TestRecordAndListRuns verifies records round-trip through the history
// database, newest first.
func TestRecordAndListRuns(t *testing.T) {
	ctx := testutil.Context(t, 0)
	path := filepath.Join(t.TempDir(), "history.duckdb")
	st, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	theta, stdErr := 0.42, 0.08
	first := Record{
		RunID:      "run-1",
		Kind:       "run",
		DatasetID:  "ds-1",
		Experiment: "exp-1",
		Theta:      &theta,
		StdError:   &stdErr,
		ItemCount:  12,
	}
	if err := st.RecordRun(ctx, first); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := st.RecordRun(ctx, Record{
		RunID:      "eval-1",
		Kind:       "classic",
		DatasetID:  "ds-2",
		Experiment: "exp-2",
		ItemCount:  100,
	}); err != nil {
		t.Fatalf("record classic: %v", err)
	}

	records, err := st.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].RunID != "eval-1" {
		t.Fatalf("expected newest record first, got %q", records[0].RunID)
	}
	got := records[1]
	if got.RecordID == "" {
		t.Fatal("expected an assigned record id")
	}
	if got.Theta == nil || *got.Theta != theta {
		t.Fatalf("unexpected theta %v", got.Theta)
	}
	if records[0].Theta != nil {
		t.Fatal("expected nil theta for a classic eval")
	}
}

// TestRecordRunRequiresRunID verifies records without a run id are
// rejected.
func TestRecordRunRequiresRunID(t *testing.T) {
	ctx := testutil.Context(t, 0)
	st, err := Open(ctx, filepath.Join(t.TempDir(), "history.duckdb"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	if err := st.RecordRun(ctx, Record{Kind: "run"}); err == nil {
		t.Fatal("expected error for missing run id")
	}
}

// TestOpenIsIdempotent verifies reopening an existing database keeps
// prior records.
func TestOpenIsIdempotent(t *testing.T) {
	ctx := testutil.Context(t, 0)
	path := filepath.Join(t.TempDir(), "history.duckdb")

	st, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.RecordRun(ctx, Record{RunID: "run-1", Kind: "run", DatasetID: "ds", Experiment: "e", ItemCount: 1}); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	st, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer st.Close()
	records, err := st.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record after reopen, got %d", len(records))
	}
}
