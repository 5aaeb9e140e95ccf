package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"adaptik/internal/store"
)

// EnvHistoryPath overrides where the local run history database lives.
const EnvHistoryPath = "ADAPTIK_HISTORY"

// historyPath resolves the history database location: flag, then
// environment, then ~/.adaptik/history.duckdb. Empty means history is
// unavailable.
func historyPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvHistoryPath); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".adaptik", "history.duckdb")
}

// recordOutcome appends one record to the local history. History is a
// convenience; failures warn and never fail the command.
func recordOutcome(ctx context.Context, path string, rec store.Record, stderr io.Writer) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(stderr, "Warning: could not create history directory: %v\n", err)
		return
	}
	st, err := store.Open(ctx, path)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: could not open history: %v\n", err)
		return
	}
	defer st.Close()
	if err := st.RecordRun(ctx, rec); err != nil {
		fmt.Fprintf(stderr, "Warning: could not record history: %v\n", err)
	}
}
