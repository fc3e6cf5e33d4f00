package agent

import (
	"errors"
	"fmt"
	"net/http"
)

// FailureKind classifies a failed completion.
type FailureKind string

// Failure kinds.
const (
	FailureAuth       FailureKind = "auth"
	FailureRateLimit  FailureKind = "rate_limit"
	FailureBadRequest FailureKind = "bad_request"
	FailureOther      FailureKind = "other"
)

// Failure is a classified completion error.
type Failure struct {
	Kind       FailureKind
	StatusCode int
	Detail     string
}

// statusCoder is implemented by collaborator errors that carry an HTTP status.
type statusCoder interface {
	StatusCode() int
}

// detailer is implemented by collaborator errors that carry a human-readable
// message distinct from their Error() text.
type detailer interface {
	Detail() string
}

// ClassifyError maps a completion error to a Failure. Errors without a
// status code are classified as FailureOther.
func ClassifyError(err error) Failure {
	f := Failure{Kind: FailureOther, Detail: err.Error()}

	var d detailer
	if errors.As(err, &d) && d.Detail() != "" {
		f.Detail = d.Detail()
	}

	var sc statusCoder
	if !errors.As(err, &sc) {
		return f
	}
	f.StatusCode = sc.StatusCode()
	switch f.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		f.Kind = FailureAuth
	case http.StatusTooManyRequests:
		f.Kind = FailureRateLimit
	case http.StatusBadRequest:
		f.Kind = FailureBadRequest
	}
	return f
}

// Message returns the user-facing text for the failure.
func (f Failure) Message() string {
	switch f.Kind {
	case FailureAuth:
		return "Authentication failed. Please check your API key configuration."
	case FailureRateLimit:
		return "Rate limit exceeded. Please try again later."
	case FailureBadRequest:
		return fmt.Sprintf("Bad request: %s", f.Detail)
	default:
		return fmt.Sprintf("Error communicating with the model: %s", f.Detail)
	}
}

// searchActivationNote is appended to failure text once a topic reaches
// FailedAttemptsThreshold.
const searchActivationNote = "\n\nNote: web search augmentation will be activated on the next attempt for this topic."
