package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"adaptik/pkg/adaptive"
)

// The mapper turns wire payloads into domain values. Every required key
// is checked; a 2xx body the mapper cannot interpret becomes a
// MalformedResponseError naming the offending key. Item decoding fails
// closed on unknown discriminants.

func malformed(format string, args ...any) error {
	return &adaptive.MalformedResponseError{Msg: fmt.Sprintf(format, args...)}
}

func mapDatasets(body []byte) ([]adaptive.Dataset, error) {
	var wire wireDatasetList
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, malformed("dataset list: %v", err)
	}
	if wire.Data == nil {
		return nil, malformed("dataset list missing key %q", "data")
	}
	datasets := make([]adaptive.Dataset, 0, len(*wire.Data))
	for i, d := range *wire.Data {
		if d.ID == nil {
			return nil, malformed("dataset %d missing key %q", i, "id")
		}
		if d.Name == nil {
			return nil, malformed("dataset %d missing key %q", i, "name")
		}
		datasets = append(datasets, adaptive.Dataset{ID: *d.ID, Name: *d.Name})
	}
	return datasets, nil
}

// mapItem decodes one test item. The "type" discriminant selects the
// concrete shape; anything this client has no variant for is an
// UnrecognizedItemTypeError, never a guess.
func mapItem(raw json.RawMessage) (adaptive.Item, error) {
	var wire wireItem
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, malformed("item: %v", err)
	}
	if wire.Type == nil {
		return nil, malformed("item missing key %q", "type")
	}
	switch *wire.Type {
	case "multiple_choice_text":
		return mapMultipleChoiceText(wire)
	default:
		return nil, &adaptive.UnrecognizedItemTypeError{ItemType: *wire.Type}
	}
}

func mapMultipleChoiceText(wire wireItem) (adaptive.Item, error) {
	if wire.ID == nil {
		return nil, malformed("item missing key %q", "id")
	}
	if wire.Question == nil {
		return nil, malformed("item %s missing key %q", *wire.ID, "question")
	}
	if wire.Choices == nil {
		return nil, malformed("item %s missing key %q", *wire.ID, "choices")
	}
	seen := make(map[string]struct{}, len(*wire.Choices))
	choices := make([]adaptive.Choice, 0, len(*wire.Choices))
	for i, c := range *wire.Choices {
		if c.ID == nil {
			return nil, malformed("item %s choice %d missing key %q", *wire.ID, i, "id")
		}
		if c.Text == nil {
			return nil, malformed("item %s choice %d missing key %q", *wire.ID, i, "text")
		}
		if _, dup := seen[*c.ID]; dup {
			return nil, malformed("item %s has duplicate choice id %q", *wire.ID, *c.ID)
		}
		seen[*c.ID] = struct{}{}
		choices = append(choices, adaptive.Choice{ID: *c.ID, Text: *c.Text})
	}
	return adaptive.MultipleChoiceTextItem{ID: *wire.ID, Question: *wire.Question, Choices: choices}, nil
}

func mapItems(raw []json.RawMessage) ([]adaptive.Item, error) {
	items := make([]adaptive.Item, 0, len(raw))
	for _, r := range raw {
		item, err := mapItem(r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func mapRunState(wire *wireRunState) adaptive.RunState {
	if wire == nil {
		return adaptive.RunState{}
	}
	return adaptive.RunState{
		Thetas:                wire.Thetas,
		StdErrorHistory:       wire.StdErrorHistory,
		KLInfoHistory:         wire.KLInfoHistory,
		EffectiveDifficulties: wire.EffectiveDifficulties,
	}
}

func mapRunResponse(body []byte) (adaptive.RunResponse, error) {
	var wire wireRunResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return adaptive.RunResponse{}, malformed("run response: %v", err)
	}
	if wire.RunInfo == nil {
		return adaptive.RunResponse{}, malformed("run response missing key %q", "runInfo")
	}
	if wire.RunInfo.ID == nil {
		return adaptive.RunResponse{}, malformed("run response missing key %q", "runInfo.id")
	}
	if wire.State == nil {
		return adaptive.RunResponse{}, malformed("run response missing key %q", "state")
	}
	resp := adaptive.RunResponse{
		RunInfo:   adaptive.RunInfo{ID: *wire.RunInfo.ID},
		State:     mapRunState(wire.State),
		Completed: wire.Completed,
	}
	if !isJSONNull(wire.NextItem) {
		item, err := mapItem(wire.NextItem)
		if err != nil {
			return adaptive.RunResponse{}, err
		}
		resp.NextItem = item
	}
	return resp, nil
}

func mapResponses(wire []wireResponse) ([]adaptive.Response, error) {
	responses := make([]adaptive.Response, 0, len(wire))
	for i, r := range wire {
		if r.DatasetItemID == nil {
			return nil, malformed("response %d missing key %q", i, "datasetItemId")
		}
		responses = append(responses, adaptive.Response{
			DatasetItemID: *r.DatasetItemID,
			Value:         r.Value,
			Correct:       r.Correct,
		})
	}
	return responses, nil
}

func mapRunSummary(body []byte) (adaptive.RunSummary, error) {
	var wire wireRunSummary
	if err := json.Unmarshal(body, &wire); err != nil {
		return adaptive.RunSummary{}, malformed("run summary: %v", err)
	}
	if wire.ID == nil {
		return adaptive.RunSummary{}, malformed("run summary missing key %q", "id")
	}
	if wire.DatasetID == nil {
		return adaptive.RunSummary{}, malformed("run summary missing key %q", "datasetId")
	}
	dataset, err := mapItems(wire.Dataset)
	if err != nil {
		return adaptive.RunSummary{}, err
	}
	responses, err := mapResponses(wire.Responses)
	if err != nil {
		return adaptive.RunSummary{}, err
	}
	return adaptive.RunSummary{
		ID:        *wire.ID,
		DatasetID: *wire.DatasetID,
		State:     mapRunState(wire.State),
		Dataset:   dataset,
		Responses: responses,
		Metadata:  wire.Metadata,
	}, nil
}

func mapReplayResponse(body []byte) (adaptive.ReplayResponse, error) {
	var wire wireReplayResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return adaptive.ReplayResponse{}, malformed("replay response: %v", err)
	}
	if wire.ID == nil {
		return adaptive.ReplayResponse{}, malformed("replay response missing key %q", "id")
	}
	if wire.DatasetID == nil {
		return adaptive.ReplayResponse{}, malformed("replay response missing key %q", "datasetId")
	}
	if wire.State == nil {
		return adaptive.ReplayResponse{}, malformed("replay response missing key %q", "state")
	}
	if wire.ReplayOfRun == nil {
		return adaptive.ReplayResponse{}, malformed("replay response missing key %q", "replayOfRun")
	}
	completedAt, err := mapTimestamp(wire.CompletedAt, "completedAt")
	if err != nil {
		return adaptive.ReplayResponse{}, err
	}
	createdAt, err := mapTimestamp(wire.CreatedAt, "createdAt")
	if err != nil {
		return adaptive.ReplayResponse{}, err
	}
	dataset, err := mapItems(wire.Dataset)
	if err != nil {
		return adaptive.ReplayResponse{}, err
	}
	responses, err := mapResponses(wire.Responses)
	if err != nil {
		return adaptive.ReplayResponse{}, err
	}
	return adaptive.ReplayResponse{
		ID:          *wire.ID,
		DatasetID:   *wire.DatasetID,
		State:       mapRunState(wire.State),
		ReplayOfRun: *wire.ReplayOfRun,
		CompletedAt: completedAt,
		CreatedAt:   createdAt,
		Metadata:    wire.Metadata,
		Dataset:     dataset,
		Responses:   responses,
	}, nil
}

func mapUser(wire *wireUser, key string) (adaptive.UserInfo, error) {
	if wire == nil {
		return adaptive.UserInfo{}, malformed("missing key %q", key)
	}
	if wire.ID == nil {
		return adaptive.UserInfo{}, malformed("missing key %q", key+".id")
	}
	if wire.Email == nil {
		return adaptive.UserInfo{}, malformed("missing key %q", key+".email")
	}
	return adaptive.UserInfo{
		ID:        *wire.ID,
		Email:     *wire.Email,
		FirstName: wire.FirstName,
		LastName:  wire.LastName,
		CreatedAt: wire.CreatedAt,
		AccountID: wire.AccountID,
	}, nil
}

func mapIdentity(body []byte) (adaptive.Identity, error) {
	var wire wireIdentity
	if err := json.Unmarshal(body, &wire); err != nil {
		return adaptive.Identity{}, malformed("identity: %v", err)
	}
	user, err := mapUser(wire.User, "user")
	if err != nil {
		return adaptive.Identity{}, err
	}
	teams := make([]adaptive.Team, 0, len(wire.Teams))
	for i, t := range wire.Teams {
		if t.ID == nil {
			return adaptive.Identity{}, malformed("team %d missing key %q", i, "id")
		}
		if t.Name == nil {
			return adaptive.Identity{}, malformed("team %d missing key %q", i, "name")
		}
		teams = append(teams, adaptive.Team{ID: *t.ID, Name: *t.Name, Role: t.Role, AccountID: t.AccountID})
	}
	return adaptive.Identity{User: user, Teams: teams}, nil
}

func mapProject(body []byte) (adaptive.Project, error) {
	var wire wireProject
	if err := json.Unmarshal(body, &wire); err != nil {
		return adaptive.Project{}, malformed("project: %v", err)
	}
	if wire.ID == nil {
		return adaptive.Project{}, malformed("project missing key %q", "id")
	}
	if wire.Name == nil {
		return adaptive.Project{}, malformed("project missing key %q", "name")
	}
	createdAt, err := mapTimestamp(wire.CreatedAt, "createdAt")
	if err != nil {
		return adaptive.Project{}, err
	}
	updatedAt, err := mapTimestamp(wire.UpdatedAt, "updatedAt")
	if err != nil {
		return adaptive.Project{}, err
	}
	return adaptive.Project{
		ID:             *wire.ID,
		Name:           *wire.Name,
		Description:    wire.Description,
		OrganizationID: wire.OrganizationID,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}

func mapClassicEvalResponse(body []byte) (adaptive.ClassicEvalResponse, error) {
	var wire wireClassicEvalResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return adaptive.ClassicEvalResponse{}, malformed("eval response: %v", err)
	}
	if wire.ID == nil {
		return adaptive.ClassicEvalResponse{}, malformed("eval response missing key %q", "id")
	}
	createdAt, err := mapTimestamp(wire.CreatedAt, "createdAt")
	if err != nil {
		return adaptive.ClassicEvalResponse{}, err
	}
	resp := adaptive.ClassicEvalResponse{
		ID:              *wire.ID,
		AccountID:       wire.AccountID,
		ProjectID:       wire.ProjectID,
		ExperimentID:    wire.ExperimentID,
		ExperimentName:  wire.ExperimentName,
		DatasetID:       wire.DatasetID,
		UserID:          wire.UserID,
		Type:            wire.Type,
		ModelName:       wire.ModelName,
		Hyperparameters: wire.Hyperparameters,
		CreatedAt:       createdAt,
		ResponseCount:   wire.ResponseCount,
	}
	if wire.User != nil {
		user, err := mapUser(wire.User, "user")
		if err != nil {
			return adaptive.ClassicEvalResponse{}, err
		}
		resp.User = user
	}
	return resp, nil
}

func mapAuthToken(body []byte) (adaptive.AuthToken, error) {
	var wire wireAuthToken
	if err := json.Unmarshal(body, &wire); err != nil {
		return adaptive.AuthToken{}, malformed("auth response: %v", err)
	}
	if wire.Token == nil {
		return adaptive.AuthToken{}, malformed("auth response missing key %q", "token")
	}
	expires, err := mapTimestamp(wire.Expires, "expires")
	if err != nil {
		return adaptive.AuthToken{}, err
	}
	return adaptive.AuthToken{Token: *wire.Token, Expires: expires}, nil
}

func mapTimestamp(value *string, key string) (time.Time, error) {
	if value == nil {
		return time.Time{}, malformed("missing key %q", key)
	}
	ts, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return time.Time{}, malformed("key %q: %v", key, err)
	}
	return ts, nil
}

func isJSONNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

// metricValueType names the wire type of an aggregate metric value. Only
// scalars are accepted; anything else is the caller's mistake.
func metricValueType(value any) (string, error) {
	switch value.(type) {
	case int, int32, int64:
		return "int", nil
	case float32, float64:
		return "float", nil
	case bool:
		return "bool", nil
	case string:
		return "string", nil
	default:
		return "", &adaptive.ValidationError{Msg: fmt.Sprintf("unsupported metric value type %T", value)}
	}
}

// classifyHTTPError turns a non-2xx response into the matching domain
// error. 413 and 422 carry the backend's "detail" field when present.
func classifyHTTPError(status int, body []byte) error {
	var parsed errorBody
	_ = json.Unmarshal(body, &parsed)
	switch status {
	case http.StatusRequestEntityTooLarge:
		msg := parsed.Detail
		if msg == "" {
			msg = "Payload too large."
		}
		return &adaptive.PayloadTooLargeError{Msg: msg}
	case http.StatusUnprocessableEntity:
		msg := parsed.Detail
		if msg == "" {
			msg = "Validation failed."
		}
		return &adaptive.ValidationError{Msg: msg}
	default:
		msg := parsed.Message
		if msg == "" {
			msg = parsed.Title
		}
		if msg == "" {
			msg = parsed.Detail
		}
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return &adaptive.APIError{Status: status, Msg: msg}
	}
}
