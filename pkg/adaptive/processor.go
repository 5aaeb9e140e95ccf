package adaptive

import (
	"context"
	"errors"
)

// Processor maps a presented item to the id of the chosen response. It is
// supplied by the caller; the orchestrator never inspects item content
// itself.
type Processor interface {
	ProcessItem(ctx context.Context, item Item) (string, error)
}

// ProcessorFunc adapts a plain blocking function to Processor.
type ProcessorFunc func(ctx context.Context, item Item) (string, error)

// ProcessItem invokes the function.
func (f ProcessorFunc) ProcessItem(ctx context.Context, item Item) (string, error) {
	return f(ctx, item)
}

// ProcessorResult carries the outcome of an async item processor.
type ProcessorResult struct {
	ChoiceID string
	Err      error
}

// AsyncProcessorFunc is the cooperative processor form: instead of
// blocking, it returns a channel that delivers exactly one result. Useful
// when the answer is produced by work already running elsewhere.
type AsyncProcessorFunc func(ctx context.Context, item Item) <-chan ProcessorResult

// ProcessItem drives the result channel, honoring context cancellation
// while waiting.
func (f AsyncProcessorFunc) ProcessItem(ctx context.Context, item Item) (string, error) {
	select {
	case res, ok := <-f(ctx, item):
		if !ok {
			return "", errors.New("item processor closed its result channel without a result")
		}
		return res.ChoiceID, res.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// async marks the cooperative processor form.
func (AsyncProcessorFunc) async() {}

// asyncCapable marks processors that suspend instead of blocking.
type asyncCapable interface {
	async()
}

// IsAsyncProcessor reports whether p uses the cooperative channel form.
func IsAsyncProcessor(p Processor) bool {
	_, ok := p.(asyncCapable)
	return ok
}

// invokeProcessor obtains an answer from either processor form. A
// blocking processor runs on its own goroutine so a slow callback cannot
// outlive cancellation; an async processor already selects on the
// context and is invoked directly. Exactly one invocation is in flight
// at a time.
func invokeProcessor(ctx context.Context, p Processor, item Item) (string, error) {
	if IsAsyncProcessor(p) {
		return p.ProcessItem(ctx, item)
	}
	results := make(chan ProcessorResult, 1)
	go func() {
		choice, err := p.ProcessItem(ctx, item)
		results <- ProcessorResult{ChoiceID: choice, Err: err}
	}()
	select {
	case res := <-results:
		return res.ChoiceID, res.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
