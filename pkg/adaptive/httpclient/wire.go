package httpclient

import "encoding/json"

// Wire types mirror the service's JSON shapes. Response fields that the
// mapper requires are pointers so a missing key is distinguishable from
// a zero value.

type wireDataset struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

type wireDatasetList struct {
	Data *[]wireDataset `json:"data"`
}

type wireChoice struct {
	ID   *string `json:"id"`
	Text *string `json:"text"`
}

type wireItem struct {
	Type     *string       `json:"type"`
	ID       *string       `json:"id"`
	Question *string       `json:"question"`
	Choices  *[]wireChoice `json:"choices"`
}

type wireRunState struct {
	Thetas                []float64 `json:"thetas"`
	StdErrorHistory       []float64 `json:"std_error_history"`
	KLInfoHistory         []float64 `json:"kl_info_history"`
	EffectiveDifficulties []float64 `json:"effective_difficulties"`
}

type wireRunInfo struct {
	ID *string `json:"id"`
}

type wireRunResponse struct {
	RunInfo   *wireRunInfo    `json:"runInfo"`
	State     *wireRunState   `json:"state"`
	Completed bool            `json:"completed"`
	NextItem  json.RawMessage `json:"nextItem"`
}

type wireResponse struct {
	DatasetItemID *string `json:"datasetItemId"`
	Value         any     `json:"value"`
	Correct       bool    `json:"correct"`
}

type wireRunSummary struct {
	ID        *string           `json:"id"`
	DatasetID *string           `json:"datasetId"`
	State     *wireRunState     `json:"state"`
	Dataset   []json.RawMessage `json:"dataset"`
	Responses []wireResponse    `json:"responses"`
	Metadata  map[string]any    `json:"metadata"`
}

type wireReplayResponse struct {
	ID          *string           `json:"id"`
	DatasetID   *string           `json:"datasetId"`
	State       *wireRunState     `json:"state"`
	ReplayOfRun *string           `json:"replayOfRun"`
	CompletedAt *string           `json:"completedAt"`
	CreatedAt   *string           `json:"createdAt"`
	Metadata    map[string]any    `json:"metadata"`
	Dataset     []json.RawMessage `json:"dataset"`
	Responses   []wireResponse    `json:"responses"`
}

type wireUser struct {
	ID        *string `json:"id"`
	Email     *string `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	CreatedAt string  `json:"createdAt"`
	AccountID string  `json:"accountId"`
}

type wireTeam struct {
	ID        *string `json:"id"`
	Name      *string `json:"name"`
	Role      string  `json:"role"`
	AccountID string  `json:"accountId"`
}

type wireIdentity struct {
	User  *wireUser  `json:"user"`
	Teams []wireTeam `json:"teams"`
}

type wireProject struct {
	ID             *string `json:"id"`
	Name           *string `json:"name"`
	Description    string  `json:"description"`
	OrganizationID string  `json:"organizationId"`
	CreatedAt      *string `json:"createdAt"`
	UpdatedAt      *string `json:"updatedAt"`
}

type wireClassicEvalResponse struct {
	ID              *string        `json:"id"`
	AccountID       string         `json:"accountId"`
	ProjectID       string         `json:"projectId"`
	ExperimentID    string         `json:"experimentId"`
	ExperimentName  string         `json:"experimentName"`
	DatasetID       string         `json:"datasetId"`
	UserID          string         `json:"userId"`
	Type            string         `json:"type"`
	ModelName       string         `json:"modelName"`
	Hyperparameters map[string]any `json:"hyperparameters"`
	CreatedAt       *string        `json:"createdAt"`
	User            *wireUser      `json:"user"`
	ResponseCount   int            `json:"responseCount"`
}

type wireAuthToken struct {
	Token   *string `json:"token"`
	Expires *string `json:"expires"`
}

// Request bodies. Plain values: the client always sends every key.

type startRunRequest struct {
	DatasetID  string `json:"datasetId"`
	ProjectID  string `json:"projectId"`
	Experiment string `json:"experiment"`
	Metadata   any    `json:"metadata"`
}

type continueRunRequest struct {
	RunID        string `json:"runId"`
	ItemChoiceID string `json:"itemChoiceId"`
}

type replayItemBody struct {
	ItemID       string `json:"itemId"`
	ItemChoiceID string `json:"itemChoiceId"`
}

type replayRequestBody struct {
	Responses []replayItemBody `json:"responses"`
	Metadata  any              `json:"metadata"`
}

type classicEvalItemBody struct {
	DatasetItemID string         `json:"datasetItemId"`
	ModelInput    string         `json:"modelInput"`
	ModelOutput   string         `json:"modelOutput"`
	GoldOutput    string         `json:"goldOutput"`
	Metrics       map[string]any `json:"metrics"`
}

type classicEvalMetricBody struct {
	MetricID  string `json:"metricId"`
	ValueType string `json:"valueType"`
	Value     any    `json:"value"`
}

type classicEvalRequestBody struct {
	ProjectID       string                  `json:"projectId"`
	ExperimentName  string                  `json:"experimentName"`
	DatasetID       string                  `json:"datasetId"`
	ModelName       string                  `json:"modelName"`
	Hyperparameters map[string]any          `json:"hyperparameters"`
	Items           []classicEvalItemBody   `json:"items"`
	Metrics         []classicEvalMetricBody `json:"metrics"`
}

type createProjectRequest struct {
	Name        string `json:"name"`
	TeamID      string `json:"teamId,omitempty"`
	Description string `json:"description,omitempty"`
}

type authRequest struct {
	APIKey string `json:"apiKey"`
}

// errorBody covers the error shapes the service emits across surfaces.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Title   string `json:"title"`
}
