package httpclient

import (
	"encoding/json"
	"errors"
	"testing"

	"adaptik/pkg/adaptive"
)

// TestMapItemMultipleChoice verifies the known item shape decodes with
// its choices in order.
func TestMapItemMultipleChoice(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "multiple_choice_text",
		"id": "q1",
		"question": "What is 2+2?",
		"choices": [{"id": "c1", "text": "3"}, {"id": "c2", "text": "4"}]
	}`)
	item, err := mapItem(raw)
	if err != nil {
		t.Fatalf("map item: %v", err)
	}
	mc, ok := item.(adaptive.MultipleChoiceTextItem)
	if !ok {
		t.Fatalf("unexpected item type %T", item)
	}
	if mc.ID != "q1" || mc.Question != "What is 2+2?" {
		t.Fatalf("unexpected item %+v", mc)
	}
	if len(mc.Choices) != 2 || mc.Choices[1].Text != "4" {
		t.Fatalf("unexpected choices %+v", mc.Choices)
	}
}

// TestMapItemUnknownType verifies decoding fails closed on a shape this
// client has no variant for.
func TestMapItemUnknownType(t *testing.T) {
	raw := json.RawMessage(`{"type": "free_text", "id": "q1"}`)
	_, err := mapItem(raw)
	var unrecognized *adaptive.UnrecognizedItemTypeError
	if !errors.As(err, &unrecognized) {
		t.Fatalf("expected UnrecognizedItemTypeError, got %v", err)
	}
	if unrecognized.ItemType != "free_text" {
		t.Fatalf("expected item type free_text, got %q", unrecognized.ItemType)
	}
}

// TestMapItemMissingKeys verifies each required key is reported when
// absent.
func TestMapItemMissingKeys(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"type", `{"id": "q1"}`},
		{"id", `{"type": "multiple_choice_text"}`},
		{"question", `{"type": "multiple_choice_text", "id": "q1"}`},
		{"choices", `{"type": "multiple_choice_text", "id": "q1", "question": "?"}`},
		{"choice text", `{"type": "multiple_choice_text", "id": "q1", "question": "?", "choices": [{"id": "c1"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mapItem(json.RawMessage(tc.raw))
			var malformed *adaptive.MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedResponseError, got %v", err)
			}
		})
	}
}

// TestMapItemDuplicateChoiceIDs verifies duplicate choice ids are
// rejected.
func TestMapItemDuplicateChoiceIDs(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "multiple_choice_text",
		"id": "q1",
		"question": "?",
		"choices": [{"id": "c1", "text": "a"}, {"id": "c1", "text": "b"}]
	}`)
	_, err := mapItem(raw)
	var malformed *adaptive.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}

// TestMapRunResponse verifies a full run payload decodes, with a null
// nextItem meaning completion.
func TestMapRunResponse(t *testing.T) {
	body := []byte(`{
		"runInfo": {"id": "run-1"},
		"state": {"thetas": [0.1, 0.2], "std_error_history": [1.0, 0.8]},
		"completed": true,
		"nextItem": null
	}`)
	resp, err := mapRunResponse(body)
	if err != nil {
		t.Fatalf("map run response: %v", err)
	}
	if resp.RunInfo.ID != "run-1" || !resp.Completed {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.NextItem != nil {
		t.Fatal("expected nil next item")
	}
	if len(resp.State.Thetas) != 2 || resp.State.Thetas[1] != 0.2 {
		t.Fatalf("unexpected state %+v", resp.State)
	}
}

// TestMapRunResponseMissingKeys verifies runInfo and state are
// required.
func TestMapRunResponseMissingKeys(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"runInfo", `{"state": {}, "completed": false}`},
		{"runInfo.id", `{"runInfo": {}, "state": {}}`},
		{"state", `{"runInfo": {"id": "run-1"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mapRunResponse([]byte(tc.body))
			var malformed *adaptive.MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedResponseError, got %v", err)
			}
		})
	}
}

// TestMapDatasets verifies the list shape requires its data key.
func TestMapDatasets(t *testing.T) {
	datasets, err := mapDatasets([]byte(`{"data": [{"id": "ds-1", "name": "MMLU"}]}`))
	if err != nil {
		t.Fatalf("map datasets: %v", err)
	}
	if len(datasets) != 1 || datasets[0].Name != "MMLU" {
		t.Fatalf("unexpected datasets %+v", datasets)
	}

	_, err = mapDatasets([]byte(`{"items": []}`))
	var malformed *adaptive.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}

// TestMapReplayResponse verifies timestamps parse and malformed ones
// are rejected.
func TestMapReplayResponse(t *testing.T) {
	body := []byte(`{
		"id": "replay-1",
		"datasetId": "ds-1",
		"state": {"thetas": [0.5], "std_error_history": [0.9]},
		"replayOfRun": "run-1",
		"completedAt": "2026-08-20T10:30:00Z",
		"createdAt": "2026-08-20T10:00:00Z"
	}`)
	resp, err := mapReplayResponse(body)
	if err != nil {
		t.Fatalf("map replay response: %v", err)
	}
	if resp.ReplayOfRun != "run-1" {
		t.Fatalf("unexpected replayOfRun %q", resp.ReplayOfRun)
	}
	if resp.CompletedAt.Before(resp.CreatedAt) {
		t.Fatal("expected completedAt after createdAt")
	}

	bad := []byte(`{
		"id": "replay-1",
		"datasetId": "ds-1",
		"state": {},
		"replayOfRun": "run-1",
		"completedAt": "yesterday",
		"createdAt": "2026-08-20T10:00:00Z"
	}`)
	_, err = mapReplayResponse(bad)
	var malformed *adaptive.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}

// TestMetricValueType verifies scalar values map to their wire type
// names and anything else is a validation error.
func TestMetricValueType(t *testing.T) {
	cases := []struct {
		value any
		want  string
	}{
		{42, "int"},
		{int64(42), "int"},
		{0.5, "float"},
		{true, "bool"},
		{"ok", "string"},
	}
	for _, tc := range cases {
		got, err := metricValueType(tc.value)
		if err != nil {
			t.Fatalf("value %v: %v", tc.value, err)
		}
		if got != tc.want {
			t.Fatalf("value %v: expected %q, got %q", tc.value, tc.want, got)
		}
	}

	_, err := metricValueType([]string{"nope"})
	var validation *adaptive.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// TestClassifyHTTPError verifies status-specific classification and the
// detail fallbacks.
func TestClassifyHTTPError(t *testing.T) {
	err := classifyHTTPError(413, []byte(`{"detail": "too many items"}`))
	var tooLarge *adaptive.PayloadTooLargeError
	if !errors.As(err, &tooLarge) || tooLarge.Msg != "too many items" {
		t.Fatalf("expected PayloadTooLargeError with detail, got %v", err)
	}

	err = classifyHTTPError(413, []byte(`not json`))
	if !errors.As(err, &tooLarge) || tooLarge.Msg != "Payload too large." {
		t.Fatalf("expected default 413 message, got %v", err)
	}

	err = classifyHTTPError(422, []byte(`{"detail": "duplicate item ids"}`))
	var validation *adaptive.ValidationError
	if !errors.As(err, &validation) || validation.Msg != "duplicate item ids" {
		t.Fatalf("expected ValidationError with detail, got %v", err)
	}

	err = classifyHTTPError(500, []byte(`{"message": "server exploded"}`))
	var apiErr *adaptive.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 500 || apiErr.Msg != "server exploded" {
		t.Fatalf("expected APIError with message, got %v", err)
	}

	err = classifyHTTPError(502, []byte(`bad gateway`))
	if !errors.As(err, &apiErr) || apiErr.Msg != "bad gateway" {
		t.Fatalf("expected APIError with raw body, got %v", err)
	}
}
