package adaptive

import (
	"context"
	"errors"
)

// ProgressFunc receives (current, total) before each item is processed
// and once more with current == total when the run ends. Invocations are
// strictly sequential, never concurrent.
type ProgressFunc func(current, total int)

// stepState is one accumulated snapshot of a run in flight. One entry is
// appended per completed round trip.
type stepState struct {
	runID     string
	state     RunState
	completed bool
}

// OrchestratorParams configures an Orchestrator.
type OrchestratorParams struct {
	Client    Client
	Processor Processor
	// MaxItems is advisory: it only sizes the progress denominator. The
	// service decides when a run ends. Defaults to DefaultMaxItems.
	MaxItems   int
	OnProgress ProgressFunc
}

// Orchestrator drives adaptive runs and replays to completion against a
// transport client. It owns the accumulating run state for the duration
// of one run and discards it once terminal results are produced.
type Orchestrator struct {
	client     Client
	processor  Processor
	maxItems   int
	onProgress ProgressFunc
}

// NewOrchestrator builds an orchestrator. Both processor forms are
// accepted; see NewRunner for the blocking-only facade.
func NewOrchestrator(params OrchestratorParams) (*Orchestrator, error) {
	if params.Client == nil {
		return nil, errors.New("client is required")
	}
	if params.Processor == nil {
		return nil, errors.New("item processor is required")
	}
	maxItems := params.MaxItems
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Orchestrator{
		client:     params.Client,
		processor:  params.Processor,
		maxItems:   maxItems,
		onProgress: params.OnProgress,
	}, nil
}

// Run executes a full adaptive run: one start round trip, then one
// continue round trip per item until the service reports completion.
// Partial progress is never rolled back on failure; the service is the
// source of truth for what was recorded.
func (o *Orchestrator) Run(ctx context.Context, datasetID, projectID, experiment string, metadata *RunMetadata, withResponses bool) (RunResults, error) {
	if withResponses {
		return RunResults{}, ErrResponsesUnsupported
	}
	start, err := o.client.StartRun(ctx, datasetID, projectID, experiment, metadata)
	if err != nil {
		return RunResults{}, err
	}
	runID := start.RunInfo.ID
	states := []stepState{{runID: runID, state: start.State, completed: start.Completed}}

	last, err := o.loop(ctx, runID, start.NextItem, &states)
	if err != nil {
		return RunResults{}, err
	}
	score, err := finalScore(last.state)
	if err != nil {
		return RunResults{}, err
	}
	return RunResults{RunID: runID, Score: score}, nil
}

// loop answers items until the service reports completion or stops
// producing them. It never terminates on a local iteration bound.
func (o *Orchestrator) loop(ctx context.Context, runID string, first Item, states *[]stepState) (stepState, error) {
	item := first
	current := 0
	o.progress(current, o.maxItems)
	for item != nil {
		choice, err := invokeProcessor(ctx, o.processor, item)
		if err != nil {
			return stepState{}, err
		}
		next, err := o.client.ContinueRun(ctx, runID, choice)
		if err != nil {
			return stepState{}, err
		}
		*states = append(*states, stepState{runID: runID, state: next.State, completed: next.Completed})
		current++
		if next.Completed {
			break
		}
		item = next.NextItem
		o.progress(current, o.maxItems)
	}
	o.progress(current, current)
	return (*states)[len(*states)-1], nil
}

// RunReplay re-derives a scored run from the item sequence of a prior
// run. Items are known up front, so only two round trips happen: the
// summary fetch and one batched replay submission at the end.
func (o *Orchestrator) RunReplay(ctx context.Context, previousRunID string, metadata *RunMetadata, withResponses bool) (RunResults, error) {
	summary, err := o.client.RunSummary(ctx, previousRunID)
	if err != nil {
		return RunResults{}, err
	}
	total := len(summary.Dataset)
	replayItems := make([]ReplayItem, 0, total)
	for idx, item := range summary.Dataset {
		o.progress(idx, total)
		choice, err := invokeProcessor(ctx, o.processor, item)
		if err != nil {
			return RunResults{}, err
		}
		replayItems = append(replayItems, ReplayItem{ItemID: item.ItemID(), ChoiceID: choice})
	}
	o.progress(total, total)

	resp, err := o.client.SubmitReplay(ctx, previousRunID, ReplayRequest{Responses: replayItems}, metadata)
	if err != nil {
		return RunResults{}, err
	}
	score, err := finalScore(resp.State)
	if err != nil {
		return RunResults{}, err
	}
	results := RunResults{RunID: resp.ID, Score: score}
	if withResponses {
		results.Responses = resp.Responses
	}
	return results, nil
}

func (o *Orchestrator) progress(current, total int) {
	if o.onProgress != nil {
		o.onProgress(current, total)
	}
}

// finalScore derives the terminal score from the last entries of the
// state histories.
func finalScore(state RunState) (*Score, error) {
	if len(state.Thetas) == 0 || len(state.StdErrorHistory) == 0 {
		return nil, ErrNoRunState
	}
	return &Score{
		Theta:    state.Thetas[len(state.Thetas)-1],
		StdError: state.StdErrorHistory[len(state.StdErrorHistory)-1],
	}, nil
}
