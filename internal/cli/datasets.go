package cli

import (
	"context"
	"fmt"
	"io"

	"adaptik/pkg/adaptive/httpclient"
)

func runDatasets(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		client, err := httpclient.New(httpclient.Options{})
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		defer client.Close()

		datasets, err := client.ListDatasets(context.Background())
		if err != nil {
			fmt.Fprintf(stderr, "Failed to list datasets: %v\n", err)
			return ExitError
		}
		if len(datasets) == 0 {
			fmt.Fprintln(stdout, "No datasets available.")
			return ExitOK
		}
		for _, d := range datasets {
			fmt.Fprintf(stdout, "%-36s %s\n", d.ID, d.Name)
		}
		return ExitOK
	}
}
