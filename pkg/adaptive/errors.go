package adaptive

import (
	"errors"
	"fmt"
)

// ConfigError reports missing or invalid client configuration. It is
// raised at construction time, before any request is made.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// APIError is a generic request failure: a non-2xx status with no more
// specific classification, or a transport-level failure such as a refused
// connection or an expired deadline.
type APIError struct {
	Status int
	Msg    string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Msg)
	}
	return "api error: " + e.Msg
}

// PayloadTooLargeError reports an HTTP 413: the request must be shrunk by
// the caller before retrying.
type PayloadTooLargeError struct {
	Msg string
}

func (e *PayloadTooLargeError) Error() string { return "payload too large: " + e.Msg }

// ValidationError reports an HTTP 422: the request was semantically
// invalid, for example duplicate or unknown item ids in a replay.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Msg }

// MalformedResponseError reports a 2xx body the mapper could not
// interpret: a missing required key or an unparseable field.
type MalformedResponseError struct {
	Msg string
}

func (e *MalformedResponseError) Error() string { return "malformed response: " + e.Msg }

// UnrecognizedItemTypeError reports an item discriminant this client has
// no variant for. Decoding fails closed: the client must never guess how
// to answer an item shape it cannot render.
type UnrecognizedItemTypeError struct {
	ItemType string
}

func (e *UnrecognizedItemTypeError) Error() string {
	return fmt.Sprintf("unrecognized item type %q", e.ItemType)
}

// ErrAsyncProcessor is returned when an async item processor is supplied
// to the blocking runner, which cannot interleave work while the
// processor suspends.
var ErrAsyncProcessor = errors.New("blocking runner cannot drive an async item processor; use AsyncRunner")

// ErrResponsesUnsupported is returned when per-response retrieval is
// requested on a flow the service does not support it for.
var ErrResponsesUnsupported = errors.New("per-response retrieval is not supported for adaptive runs")

// ErrNoRunState reports a run that ended without the service recording a
// single state entry. This is an internal consistency failure, not a
// retryable condition.
var ErrNoRunState = errors.New("run ended without any recorded state")
