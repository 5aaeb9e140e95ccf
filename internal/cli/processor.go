package cli

import (
	"context"
	"fmt"
	"math/rand"

	"adaptik/pkg/adaptive"
)

// Built-in answer strategies for driving runs from the command line.
// They answer without any model behind them, which is what you want for
// smoke-testing datasets and service wiring.

func resolveProcessor(strategy string) (adaptive.Processor, error) {
	switch strategy {
	case "", "first":
		return adaptive.ProcessorFunc(firstChoice), nil
	case "random":
		return adaptive.ProcessorFunc(randomChoice), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (expected first|random)", strategy)
	}
}

func firstChoice(_ context.Context, item adaptive.Item) (string, error) {
	choices, err := itemChoices(item)
	if err != nil {
		return "", err
	}
	return choices[0].ID, nil
}

func randomChoice(_ context.Context, item adaptive.Item) (string, error) {
	choices, err := itemChoices(item)
	if err != nil {
		return "", err
	}
	return choices[rand.Intn(len(choices))].ID, nil
}

func itemChoices(item adaptive.Item) ([]adaptive.Choice, error) {
	mc, ok := item.(adaptive.MultipleChoiceTextItem)
	if !ok {
		return nil, fmt.Errorf("item %s: no strategy for this item shape", item.ItemID())
	}
	if len(mc.Choices) == 0 {
		return nil, fmt.Errorf("item %s has no choices", mc.ID)
	}
	return mc.Choices, nil
}
