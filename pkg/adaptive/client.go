package adaptive

import "context"

// Client is the transport surface the orchestrator drives. Each method
// performs exactly one network round trip and never retries; retry policy
// belongs to the caller.
type Client interface {
	// ListDatasets returns the datasets available to the caller.
	ListDatasets(ctx context.Context) ([]Dataset, error)
	// StartRun starts an adaptive run and returns the first item, or a
	// completed response when the dataset is empty.
	StartRun(ctx context.Context, datasetID, projectID, experiment string, metadata *RunMetadata) (RunResponse, error)
	// ContinueRun submits the answer to the current item and returns the
	// next one, or a completed response.
	ContinueRun(ctx context.Context, runID, choiceID string) (RunResponse, error)
	// RunSummary reconstructs a prior run in original presentation order.
	RunSummary(ctx context.Context, runID string) (RunSummary, error)
	// SubmitReplay submits one batched set of replay answers for a prior
	// run and returns the scored outcome.
	SubmitReplay(ctx context.Context, runID string, req ReplayRequest, metadata *RunMetadata) (ReplayResponse, error)
	// SubmitClassicEval records a pre-computed, non-adaptive evaluation.
	SubmitClassicEval(ctx context.Context, req ClassicEvalRequest) (ClassicEvalResponse, error)
	// Me returns the identity behind the configured API key.
	Me(ctx context.Context) (Identity, error)
	// CreateProject creates a project. teamID and description may be empty.
	CreateProject(ctx context.Context, name, teamID, description string) (Project, error)
}
