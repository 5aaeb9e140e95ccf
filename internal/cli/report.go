package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"adaptik/internal/store"
)

func runReport(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		history := fs.String("history", "", "History database path")
		limit := fs.Int("limit", 20, "Maximum records to show")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		path := historyPath(*history)
		if path == "" {
			fmt.Fprintln(stderr, "No history database path available")
			return ExitError
		}
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintln(stdout, "No run history yet.")
			return ExitOK
		}

		ctx := context.Background()
		st, err := store.Open(ctx, path)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open history: %v\n", err)
			return ExitError
		}
		defer st.Close()

		records, err := st.RecentRuns(ctx, *limit)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to read history: %v\n", err)
			return ExitError
		}
		if len(records) == 0 {
			fmt.Fprintln(stdout, "No run history yet.")
			return ExitOK
		}

		fmt.Fprintf(stdout, "%-19s %-8s %-36s %-20s %8s %9s %5s\n",
			"CREATED", "KIND", "RUN", "EXPERIMENT", "THETA", "STD ERR", "ITEMS")
		for _, rec := range records {
			theta, stdErr := "-", "-"
			if rec.Theta != nil {
				theta = fmt.Sprintf("%.4f", *rec.Theta)
			}
			if rec.StdError != nil {
				stdErr = fmt.Sprintf("%.4f", *rec.StdError)
			}
			fmt.Fprintf(stdout, "%-19s %-8s %-36s %-20s %8s %9s %5d\n",
				rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.Kind, rec.RunID,
				rec.Experiment, theta, stdErr, rec.ItemCount)
		}
		return ExitOK
	}
}
