package live

import "adaptik/pkg/adaptive"

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventRunStart signals the start of a run or replay.
	EventRunStart EventKind = iota
	// EventProgress delivers an item progress update.
	EventProgress
	// EventRunEnd signals run completion, with or without a score.
	EventRunEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind       EventKind
	RunID      string
	DatasetID  string
	Experiment string
	Current    int
	Total      int
	Score      *adaptive.Score
	Err        error
}
