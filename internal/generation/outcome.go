package generation

import "genforge/internal/project"

// OutcomeKind classifies the result of a generation attempt.
type OutcomeKind string

const (
	// OutcomeSuccess means the backend returned one or more well-formed files.
	OutcomeSuccess OutcomeKind = "success"
	// OutcomeDegraded means the backend failed, timed out, or returned
	// unusable content and the fallback artifact set was substituted.
	OutcomeDegraded OutcomeKind = "degraded"
	// OutcomeFailure means even fallback content could not be produced.
	OutcomeFailure OutcomeKind = "failure"
)

// Outcome is the normalized result of a generation attempt.
type Outcome struct {
	Kind      OutcomeKind
	Artifacts []project.Artifact
	Summary   string
	Reason    string
}

// TerminalStatus maps the outcome onto the project lifecycle.
func (o Outcome) TerminalStatus() project.Status {
	if o.Kind == OutcomeFailure {
		return project.StatusFailed
	}
	return project.StatusCompleted
}
