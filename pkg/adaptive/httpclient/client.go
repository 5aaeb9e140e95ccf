package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"adaptik/pkg/adaptive"
)

const (
	// defaultServiceURL is the production evaluation service.
	defaultServiceURL = "https://api.adaptik.io/adaptive-testing"

	defaultTimeout = 30 * time.Second

	// EnvServiceURL and EnvAPIKey configure the client from the
	// environment when Options leave the corresponding field empty.
	EnvServiceURL = "ADAPTIK_SERVICE_URL"
	EnvAPIKey     = "ADAPTIK_API_KEY"
)

// Options configures a Client. Zero values fall back to the environment
// and then to defaults; only the API key has no default.
type Options struct {
	ServiceURL string
	APIKey     string
	// HTTPClient, when set, is borrowed: the caller keeps ownership and
	// Close will not touch it. When nil the client owns its own.
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client talks HTTP/JSON to the evaluation service. It implements
// adaptive.Client. One Client owns one HTTP session for its lifetime; it
// is safe for concurrent use, but the legacy token it may hold is
// replaced wholesale on refresh, never shared across instances.
type Client struct {
	base       *url.URL
	apiKey     string
	httpClient *http.Client
	ownsClient bool
	token      adaptive.AuthToken
}

var _ adaptive.Client = (*Client)(nil)

// New builds a client. A missing API key is a ConfigError raised here,
// before any request is made.
func New(opts Options) (*Client, error) {
	serviceURL := opts.ServiceURL
	if serviceURL == "" {
		serviceURL = strings.TrimSpace(os.Getenv(EnvServiceURL))
	}
	if serviceURL == "" {
		serviceURL = defaultServiceURL
	}
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv(EnvAPIKey))
	}
	if apiKey == "" {
		return nil, &adaptive.ConfigError{Msg: "api key is required: set Options.APIKey or " + EnvAPIKey}
	}
	// A trailing slash makes relative references resolve under the base
	// path instead of replacing its last segment.
	base, err := url.Parse(strings.TrimRight(serviceURL, "/") + "/")
	if err != nil {
		return nil, &adaptive.ConfigError{Msg: fmt.Sprintf("invalid service url %q: %v", serviceURL, err)}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	owns := httpClient == nil
	if owns {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		base:       base,
		apiKey:     apiKey,
		httpClient: httpClient,
		ownsClient: owns,
	}, nil
}

// Close releases the HTTP session if this client owns it. Borrowed
// clients are left untouched.
func (c *Client) Close() {
	if c.ownsClient {
		c.httpClient.CloseIdleConnections()
	}
}

// endpoint resolves a reference against the service base URL. References
// may climb out of the base path ("../admin/...") for the admin surface.
func (c *Client) endpoint(ref string) string {
	parsed, err := url.Parse(strings.TrimLeft(ref, "/"))
	if err != nil {
		return c.base.String() + ref
	}
	return c.base.ResolveReference(parsed).String()
}

// do performs one round trip and returns the response body. Non-2xx
// statuses and transport failures come back as domain errors; nothing is
// retried.
func (c *Client) do(ctx context.Context, method, ref string, payload any, header http.Header) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(ref), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &adaptive.APIError{Msg: err.Error()}
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &adaptive.APIError{Status: resp.StatusCode, Msg: "read response: " + err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyHTTPError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// metadataBody normalizes optional run metadata: absent metadata is sent
// as an empty object, never as null.
func metadataBody(metadata *adaptive.RunMetadata) any {
	if metadata == nil {
		return struct{}{}
	}
	return metadata
}

// ListDatasets returns the datasets available to the caller.
func (c *Client) ListDatasets(ctx context.Context) ([]adaptive.Dataset, error) {
	body, err := c.do(ctx, http.MethodGet, "datasets", nil, nil)
	if err != nil {
		return nil, err
	}
	return mapDatasets(body)
}

// StartRun starts an adaptive run.
func (c *Client) StartRun(ctx context.Context, datasetID, projectID, experiment string, metadata *adaptive.RunMetadata) (adaptive.RunResponse, error) {
	req := startRunRequest{
		DatasetID:  datasetID,
		ProjectID:  projectID,
		Experiment: experiment,
		Metadata:   metadataBody(metadata),
	}
	body, err := c.do(ctx, http.MethodPost, "runs/start", req, nil)
	if err != nil {
		return adaptive.RunResponse{}, err
	}
	return mapRunResponse(body)
}

// ContinueRun submits an answer and returns the next item or completion.
func (c *Client) ContinueRun(ctx context.Context, runID, choiceID string) (adaptive.RunResponse, error) {
	req := continueRunRequest{RunID: runID, ItemChoiceID: choiceID}
	body, err := c.do(ctx, http.MethodPost, "runs/continue", req, nil)
	if err != nil {
		return adaptive.RunResponse{}, err
	}
	return mapRunResponse(body)
}

// RunSummary reconstructs a prior adaptive run.
func (c *Client) RunSummary(ctx context.Context, runID string) (adaptive.RunSummary, error) {
	body, err := c.do(ctx, http.MethodGet, "runs/adaptive/"+url.PathEscape(runID), nil, nil)
	if err != nil {
		return adaptive.RunSummary{}, err
	}
	return mapRunSummary(body)
}

// SubmitReplay submits one batched set of replay answers for a prior run.
func (c *Client) SubmitReplay(ctx context.Context, runID string, req adaptive.ReplayRequest, metadata *adaptive.RunMetadata) (adaptive.ReplayResponse, error) {
	items := make([]replayItemBody, 0, len(req.Responses))
	for _, r := range req.Responses {
		items = append(items, replayItemBody{ItemID: r.ItemID, ItemChoiceID: r.ChoiceID})
	}
	payload := replayRequestBody{Responses: items, Metadata: metadataBody(metadata)}
	body, err := c.do(ctx, http.MethodPost, "runs/"+url.PathEscape(runID)+"/replay", payload, nil)
	if err != nil {
		return adaptive.ReplayResponse{}, err
	}
	return mapReplayResponse(body)
}

// SubmitClassicEval records a pre-computed, non-adaptive evaluation.
// Metric values must be scalars; anything else fails as a
// ValidationError before the request is sent.
func (c *Client) SubmitClassicEval(ctx context.Context, req adaptive.ClassicEvalRequest) (adaptive.ClassicEvalResponse, error) {
	items := make([]classicEvalItemBody, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, classicEvalItemBody{
			DatasetItemID: item.DatasetItemID,
			ModelInput:    item.ModelInput,
			ModelOutput:   item.ModelOutput,
			GoldOutput:    item.GoldOutput,
			Metrics:       item.Metrics,
		})
	}
	metrics := make([]classicEvalMetricBody, 0, len(req.Metrics))
	for _, metric := range req.Metrics {
		valueType, err := metricValueType(metric.Value)
		if err != nil {
			return adaptive.ClassicEvalResponse{}, err
		}
		metrics = append(metrics, classicEvalMetricBody{
			MetricID:  metric.MetricID,
			ValueType: valueType,
			Value:     metric.Value,
		})
	}
	payload := classicEvalRequestBody{
		ProjectID:       req.ProjectID,
		ExperimentName:  req.ExperimentName,
		DatasetID:       req.DatasetID,
		ModelName:       req.ModelName,
		Hyperparameters: req.Hyperparameters,
		Items:           items,
		Metrics:         metrics,
	}
	body, err := c.do(ctx, http.MethodPost, "runs/classic", payload, nil)
	if err != nil {
		return adaptive.ClassicEvalResponse{}, err
	}
	return mapClassicEvalResponse(body)
}

// Me returns the identity behind the configured API key.
func (c *Client) Me(ctx context.Context) (adaptive.Identity, error) {
	body, err := c.do(ctx, http.MethodGet, "../admin/api-keys/me", nil, nil)
	if err != nil {
		return adaptive.Identity{}, err
	}
	return mapIdentity(body)
}

// CreateProject creates a project through the admin surface.
func (c *Client) CreateProject(ctx context.Context, name, teamID, description string) (adaptive.Project, error) {
	req := createProjectRequest{Name: name, TeamID: teamID, Description: description}
	body, err := c.do(ctx, http.MethodPost, "../admin/public/projects", req, nil)
	if err != nil {
		return adaptive.Project{}, err
	}
	return mapProject(body)
}
