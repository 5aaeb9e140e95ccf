package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"adaptik/internal/config"
	"adaptik/internal/store"
	"adaptik/internal/ui/live"
	"adaptik/pkg/adaptive"
	"adaptik/pkg/adaptive/httpclient"
)

func runReplay(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		runID := fs.String("run", "", "Run id to replay")
		metadataPath := fs.String("metadata", "", "Path to run metadata file (json or yaml)")
		strategy := fs.String("strategy", "first", "Answer strategy (first|random)")
		withResponses := fs.Bool("with-responses", false, "Print the recorded per-item responses")
		uiMode := fs.String("ui", "auto", "UI mode (auto|live|plain)")
		history := fs.String("history", "", "History database path")
		noHistory := fs.Bool("no-history", false, "Do not record this replay locally")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if *runID == "" {
			fmt.Fprintln(stderr, "--run is required")
			return ExitUsage
		}

		processor, err := resolveProcessor(*strategy)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}

		var metadata *adaptive.RunMetadata
		if *metadataPath != "" {
			metadata, err = config.LoadRunMetadata(*metadataPath)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to load metadata: %v\n", err)
				return ExitError
			}
		}

		decision, err := resolveUIMode(*uiMode, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		client, err := httpclient.New(httpclient.Options{})
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		defer client.Close()

		var controller *live.Controller
		if decision.useLive {
			controller = live.Start(stdout, live.Options{})
			controller.OnRunStart(*runID, "", "replay")
		}
		answered := 0
		onProgress := func(current, total int) {
			answered = current
			controller.OnProgress(current, total)
		}

		runner, err := adaptive.NewRunner(adaptive.RunnerParams{
			Client:     client,
			Processor:  processor,
			OnProgress: onProgress,
		})
		if err != nil {
			controller.Close()
			controller.Wait()
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}

		ctx := context.Background()
		var results adaptive.RunResults
		var runErr error
		if *withResponses {
			results, runErr = runner.RunReplayWithResponses(ctx, *runID, metadata)
		} else {
			results, runErr = runner.RunReplay(ctx, *runID, metadata)
		}
		if controller != nil {
			controller.OnRunEnd(results, runErr)
			controller.Wait()
		}
		if runErr != nil {
			fmt.Fprintf(stderr, "Replay failed: %v\n", runErr)
			return ExitError
		}

		fmt.Fprintf(stdout, "Replay %s completed after %d items\n", results.RunID, answered)
		if results.Score != nil {
			fmt.Fprintf(stdout, "Theta: %.4f\n", results.Score.Theta)
			fmt.Fprintf(stdout, "Std error: %.4f\n", results.Score.StdError)
		}
		if *withResponses {
			for _, resp := range results.Responses {
				fmt.Fprintf(stdout, "  %s correct=%t value=%v\n", resp.DatasetItemID, resp.Correct, resp.Value)
			}
		}

		if !*noHistory {
			rec := store.Record{
				RunID:      results.RunID,
				Kind:       "replay",
				DatasetID:  "",
				Experiment: "replay of " + *runID,
				ItemCount:  answered,
			}
			if results.Score != nil {
				rec.Theta = &results.Score.Theta
				rec.StdError = &results.Score.StdError
			}
			recordOutcome(ctx, historyPath(*history), rec, stderr)
		}
		return ExitOK
	}
}
