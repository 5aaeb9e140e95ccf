package cli

import (
	"context"
	"testing"

	"adaptik/pkg/adaptive"
)

func sampleItem() adaptive.MultipleChoiceTextItem {
	return adaptive.MultipleChoiceTextItem{
		ID:       "q1",
		Question: "?",
		Choices: []adaptive.Choice{
			{ID: "c1", Text: "a"},
			{ID: "c2", Text: "b"},
		},
	}
}

// TestResolveProcessorStrategies verifies the strategy names and the
// default.
func TestResolveProcessorStrategies(t *testing.T) {
	for _, name := range []string{"", "first", "random"} {
		if _, err := resolveProcessor(name); err != nil {
			t.Fatalf("strategy %q: %v", name, err)
		}
	}
	if _, err := resolveProcessor("psychic"); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

// TestFirstChoiceStrategy verifies the first strategy picks the first
// choice id.
func TestFirstChoiceStrategy(t *testing.T) {
	processor, err := resolveProcessor("first")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	choice, err := processor.ProcessItem(context.Background(), sampleItem())
	if err != nil {
		t.Fatalf("process item: %v", err)
	}
	if choice != "c1" {
		t.Fatalf("expected c1, got %q", choice)
	}
}

// TestRandomChoiceStrategy verifies the random strategy stays within
// the item's choices.
func TestRandomChoiceStrategy(t *testing.T) {
	processor, err := resolveProcessor("random")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for i := 0; i < 20; i++ {
		choice, err := processor.ProcessItem(context.Background(), sampleItem())
		if err != nil {
			t.Fatalf("process item: %v", err)
		}
		if choice != "c1" && choice != "c2" {
			t.Fatalf("unexpected choice %q", choice)
		}
	}
}

// TestStrategyRejectsEmptyChoices verifies items without choices are an
// error instead of a panic.
func TestStrategyRejectsEmptyChoices(t *testing.T) {
	processor, err := resolveProcessor("first")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	item := adaptive.MultipleChoiceTextItem{ID: "q1", Question: "?"}
	if _, err := processor.ProcessItem(context.Background(), item); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
