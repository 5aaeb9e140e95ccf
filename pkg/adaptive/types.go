package adaptive

import "time"

// DefaultMaxItems is the advisory item budget used for progress reporting
// when the caller does not configure one. The service decides when a run
// actually ends.
const DefaultMaxItems = 60

// Dataset identifies a test dataset available to the caller.
type Dataset struct {
	ID   string
	Name string
}

// Choice is one selectable answer of a multiple-choice item. Choice ids are
// unique within their parent item.
type Choice struct {
	ID   string
	Text string
}

// Item is a single test question presented by the service. Concrete item
// shapes implement it; decoding fails closed on shapes this package does
// not know.
type Item interface {
	ItemID() string
}

// MultipleChoiceTextItem is a text question with an ordered set of choices.
type MultipleChoiceTextItem struct {
	ID       string
	Question string
	Choices  []Choice
}

// ItemID returns the stable identifier of the item.
func (i MultipleChoiceTextItem) ItemID() string { return i.ID }

// RunState holds the ability estimates accumulated over a run. The two
// histories are parallel and grow by exactly one entry per answered item.
type RunState struct {
	Thetas                []float64
	StdErrorHistory       []float64
	KLInfoHistory         []float64
	EffectiveDifficulties []float64
}

// RunInfo carries the server-issued identity of a run.
type RunInfo struct {
	ID string
}

// RunResponse is the result of starting or continuing a run. NextItem is
// nil once the run is complete.
type RunResponse struct {
	RunInfo   RunInfo
	State     RunState
	Completed bool
	NextItem  Item
}

// Response records an answer previously submitted for a dataset item.
type Response struct {
	DatasetItemID string
	Value         any
	Correct       bool
}

// RunSummary reconstructs a prior run: the dataset items in original
// presentation order, the recorded responses, and the final state.
type RunSummary struct {
	ID        string
	DatasetID string
	State     RunState
	Dataset   []Item
	Responses []Response
	Metadata  map[string]any
}

// ReplayItem pairs a dataset item with the choice submitted for it.
type ReplayItem struct {
	ItemID   string
	ChoiceID string
}

// ReplayRequest is the ordered batch of answers replayed against a prior
// run. Item ids must be a duplicate-free subset of the original dataset;
// the service rejects anything else.
type ReplayRequest struct {
	Responses []ReplayItem
}

// ReplayResponse is the scored outcome of a replay submission.
type ReplayResponse struct {
	ID          string
	DatasetID   string
	State       RunState
	ReplayOfRun string
	CompletedAt time.Time
	CreatedAt   time.Time
	Metadata    map[string]any
	Dataset     []Item
	Responses   []Response
}

// Score is the final ability estimate of a completed run.
type Score struct {
	Theta    float64
	StdError float64
}

// RunResults is the terminal output of a run or replay.
type RunResults struct {
	RunID     string
	Score     *Score
	Responses []Response
}

// RunMetadata is caller-supplied descriptive payload attached to a run or
// replay at creation time. Content is passed through to the service
// unmodified.
type RunMetadata struct {
	Model             map[string]any `json:"model_metadata" yaml:"model_metadata"`
	TestConfiguration map[string]any `json:"test_configuration" yaml:"test_configuration"`
	InferenceSetup    map[string]any `json:"inference_setup" yaml:"inference_setup"`
}

// AuthToken is a bearer token with its expiry. It is owned by the client
// instance that requested it and replaced wholesale on refresh.
type AuthToken struct {
	Token   string
	Expires time.Time
}

// refreshWindow is how close to expiry a token is considered stale.
const refreshWindow = 5 * time.Minute

// ExpiresSoon reports whether the token expires within the refresh window.
func (a AuthToken) ExpiresSoon(now time.Time) bool {
	return a.Expires.Before(now.Add(refreshWindow))
}

// UserInfo describes the user behind an API key.
type UserInfo struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	CreatedAt string
	AccountID string
}

// Team is a team membership of the calling user.
type Team struct {
	ID        string
	Name      string
	Role      string
	AccountID string
}

// Identity is the caller identity reported by the admin surface.
type Identity struct {
	User  UserInfo
	Teams []Team
}

// Project is a project created through the admin surface.
type Project struct {
	ID             string
	Name           string
	Description    string
	OrganizationID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ClassicEvalItem is one pre-computed item of a classic evaluation.
type ClassicEvalItem struct {
	DatasetItemID string
	ModelInput    string
	ModelOutput   string
	GoldOutput    string
	Metrics       map[string]any
}

// ClassicEvalMetric is an aggregate metric attached to a classic
// evaluation. Value must be an int, float, bool, or string.
type ClassicEvalMetric struct {
	MetricID string
	Value    any
}

// ClassicEvalRequest submits a non-adaptive, pre-computed batch of items
// and metrics for recording.
type ClassicEvalRequest struct {
	ProjectID       string
	ExperimentName  string
	DatasetID       string
	ModelName       string
	Hyperparameters map[string]any
	Items           []ClassicEvalItem
	Metrics         []ClassicEvalMetric
}

// ClassicEvalResponse acknowledges a recorded classic evaluation.
type ClassicEvalResponse struct {
	ID              string
	AccountID       string
	ProjectID       string
	ExperimentID    string
	ExperimentName  string
	DatasetID       string
	UserID          string
	Type            string
	ModelName       string
	Hyperparameters map[string]any
	CreatedAt       time.Time
	User            UserInfo
	ResponseCount   int
}
