package agent

import "strings"

// Reason tags why a request was augmented. It is informational only and
// ends up in the supplementary search text.
type Reason string

// Augmentation reasons, in precedence order.
const (
	ReasonVersionCheck   Reason = "version_check"
	ReasonAPIDocs        Reason = "api_docs"
	ReasonFailedAttempts Reason = "failed_attempts"
	ReasonGeneral        Reason = "general"
)

// FailedAttemptsThreshold is the failure count at which a topic is
// augmented regardless of its wording.
const FailedAttemptsThreshold = 3

// Keywords that make a message time-sensitive or reference-oriented.
var (
	versionKeywords = []string{"version", "latest", "current", "update", "upgrade", "new release"}
	apiKeywords     = []string{"api", "documentation", "docs", "reference", "endpoint"}
)

// Decision is the outcome of the augmentation policy.
type Decision struct {
	Triggered bool   `json:"triggered"`
	Reason    Reason `json:"reason,omitempty"`
}

// Decide reports whether a message with the given failure history should be
// augmented with supplementary search text, and why.
//
// Matching is a case-insensitive substring test. The same keyword sets drive
// both the trigger and the reason.
func Decide(message string, attempts int) Decision {
	lower := strings.ToLower(message)
	version := hasAny(lower, versionKeywords...)
	api := hasAny(lower, apiKeywords...)
	failed := attempts >= FailedAttemptsThreshold

	if !version && !api && !failed {
		return Decision{}
	}

	d := Decision{Triggered: true}
	switch {
	case version:
		d.Reason = ReasonVersionCheck
	case api:
		d.Reason = ReasonAPIDocs
	case failed:
		d.Reason = ReasonFailedAttempts
	default:
		d.Reason = ReasonGeneral
	}
	return d
}

func hasAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
