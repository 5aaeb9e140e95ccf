package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"adaptik/internal/store"
	"adaptik/pkg/adaptive"
	"adaptik/pkg/adaptive/httpclient"
)

// evalFile is the on-disk shape of a classic evaluation submission.
type evalFile struct {
	ProjectID       string           `json:"projectId"`
	ExperimentName  string           `json:"experimentName"`
	DatasetID       string           `json:"datasetId"`
	ModelName       string           `json:"modelName"`
	Hyperparameters map[string]any   `json:"hyperparameters"`
	Items           []evalFileItem   `json:"items"`
	Metrics         []evalFileMetric `json:"metrics"`
}

type evalFileItem struct {
	DatasetItemID string         `json:"datasetItemId"`
	ModelInput    string         `json:"modelInput"`
	ModelOutput   string         `json:"modelOutput"`
	GoldOutput    string         `json:"goldOutput"`
	Metrics       map[string]any `json:"metrics"`
}

type evalFileMetric struct {
	MetricID string `json:"metricId"`
	Value    any    `json:"value"`
}

func runSubmit(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		filePath := fs.String("file", "", "Path to the evaluation JSON file")
		history := fs.String("history", "", "History database path")
		noHistory := fs.Bool("no-history", false, "Do not record this evaluation locally")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if *filePath == "" {
			fmt.Fprintln(stderr, "--file is required")
			return ExitUsage
		}

		req, err := loadEvalFile(*filePath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load evaluation: %v\n", err)
			return ExitError
		}

		client, err := httpclient.New(httpclient.Options{})
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		defer client.Close()

		ctx := context.Background()
		resp, err := client.SubmitClassicEval(ctx, req)
		if err != nil {
			fmt.Fprintf(stderr, "Submit failed: %v\n", err)
			return ExitError
		}

		fmt.Fprintf(stdout, "Evaluation %s recorded (%d responses)\n", resp.ID, resp.ResponseCount)

		if !*noHistory {
			recordOutcome(ctx, historyPath(*history), store.Record{
				RunID:      resp.ID,
				Kind:       "classic",
				DatasetID:  req.DatasetID,
				Experiment: req.ExperimentName,
				ItemCount:  len(req.Items),
			}, stderr)
		}
		return ExitOK
	}
}

// loadEvalFile parses a classic evaluation file. Unknown keys and
// multi-document files are rejected.
func loadEvalFile(path string) (adaptive.ClassicEvalRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return adaptive.ClassicEvalRequest{}, fmt.Errorf("read evaluation: %w", err)
	}
	var file evalFile
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return adaptive.ClassicEvalRequest{}, fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return adaptive.ClassicEvalRequest{}, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return adaptive.ClassicEvalRequest{}, fmt.Errorf("parse json: %w", err)
	}

	req := adaptive.ClassicEvalRequest{
		ProjectID:       file.ProjectID,
		ExperimentName:  file.ExperimentName,
		DatasetID:       file.DatasetID,
		ModelName:       file.ModelName,
		Hyperparameters: file.Hyperparameters,
	}
	for _, item := range file.Items {
		req.Items = append(req.Items, adaptive.ClassicEvalItem{
			DatasetItemID: item.DatasetItemID,
			ModelInput:    item.ModelInput,
			ModelOutput:   item.ModelOutput,
			GoldOutput:    item.GoldOutput,
			Metrics:       item.Metrics,
		})
	}
	for _, metric := range file.Metrics {
		req.Metrics = append(req.Metrics, adaptive.ClassicEvalMetric{
			MetricID: metric.MetricID,
			Value:    metric.Value,
		})
	}
	return req, nil
}
