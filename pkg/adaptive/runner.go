package adaptive

import "context"

// RunOutcome pairs run results with the error that ended the run. It is
// the element type of the channels returned by AsyncRunner.
type RunOutcome struct {
	Results RunResults
	Err     error
}

// RunnerParams configures a Runner or AsyncRunner.
type RunnerParams struct {
	Client    Client
	Processor Processor
	// MaxItems sizes the progress denominator; the service decides when a
	// run ends. Defaults to DefaultMaxItems.
	MaxItems   int
	OnProgress ProgressFunc
}

// Runner is the blocking facade over the run orchestrator. Each call
// drives a run to completion before returning. Runners are safe for
// sequential reuse; concurrent calls on one Runner race on progress
// reporting and are not supported.
type Runner struct {
	orch *Orchestrator
}

// NewRunner builds a blocking runner. An async item processor is
// rejected here, before any network traffic, with ErrAsyncProcessor.
func NewRunner(params RunnerParams) (*Runner, error) {
	if params.Processor != nil && IsAsyncProcessor(params.Processor) {
		return nil, ErrAsyncProcessor
	}
	orch, err := NewOrchestrator(OrchestratorParams(params))
	if err != nil {
		return nil, err
	}
	return &Runner{orch: orch}, nil
}

// Run executes a full adaptive run and returns its final score.
func (r *Runner) Run(ctx context.Context, datasetID, projectID, experiment string, metadata *RunMetadata) (RunResults, error) {
	return r.orch.Run(ctx, datasetID, projectID, experiment, metadata, false)
}

// RunReplay re-scores the item sequence of a prior run with answers from
// this runner's processor.
func (r *Runner) RunReplay(ctx context.Context, previousRunID string, metadata *RunMetadata) (RunResults, error) {
	return r.orch.RunReplay(ctx, previousRunID, metadata, false)
}

// RunReplayWithResponses is RunReplay with the recorded per-item
// responses attached to the results.
func (r *Runner) RunReplayWithResponses(ctx context.Context, previousRunID string, metadata *RunMetadata) (RunResults, error) {
	return r.orch.RunReplay(ctx, previousRunID, metadata, true)
}

// AsyncRunner is the channel-based facade over the run orchestrator.
// Each call starts the run on its own goroutine and returns a channel
// that delivers exactly one outcome and is then closed. Both processor
// forms are accepted.
type AsyncRunner struct {
	orch *Orchestrator
}

// NewAsyncRunner builds an async runner.
func NewAsyncRunner(params RunnerParams) (*AsyncRunner, error) {
	orch, err := NewOrchestrator(OrchestratorParams(params))
	if err != nil {
		return nil, err
	}
	return &AsyncRunner{orch: orch}, nil
}

// Run starts a full adaptive run. Cancel ctx to abandon it; the outcome
// then carries the context error.
func (r *AsyncRunner) Run(ctx context.Context, datasetID, projectID, experiment string, metadata *RunMetadata) <-chan RunOutcome {
	out := make(chan RunOutcome, 1)
	go func() {
		defer close(out)
		results, err := r.orch.Run(ctx, datasetID, projectID, experiment, metadata, false)
		out <- RunOutcome{Results: results, Err: err}
	}()
	return out
}

// RunReplay starts a replay of a prior run.
func (r *AsyncRunner) RunReplay(ctx context.Context, previousRunID string, metadata *RunMetadata) <-chan RunOutcome {
	return r.replay(ctx, previousRunID, metadata, false)
}

// RunReplayWithResponses is RunReplay with the recorded per-item
// responses attached to the outcome.
func (r *AsyncRunner) RunReplayWithResponses(ctx context.Context, previousRunID string, metadata *RunMetadata) <-chan RunOutcome {
	return r.replay(ctx, previousRunID, metadata, true)
}

func (r *AsyncRunner) replay(ctx context.Context, previousRunID string, metadata *RunMetadata, withResponses bool) <-chan RunOutcome {
	out := make(chan RunOutcome, 1)
	go func() {
		defer close(out)
		results, err := r.orch.RunReplay(ctx, previousRunID, metadata, withResponses)
		out <- RunOutcome{Results: results, Err: err}
	}()
	return out
}
