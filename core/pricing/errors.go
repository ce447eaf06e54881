package pricing

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is against the typed errors below.
var (
	ErrInvalidContext      = errors.New("invalid context")
	ErrInfeasibleGuardrail = errors.New("infeasible guardrails")
	ErrNoFeasibleCandidate = errors.New("no feasible candidate")
)

// InvalidContextError reports malformed input, e.g. a negative cost.
type InvalidContextError struct {
	Field  string
	Reason string
}

func (e *InvalidContextError) Error() string {
	return fmt.Sprintf("invalid context: %s %s", e.Field, e.Reason)
}

func (e *InvalidContextError) Is(target error) bool { return target == ErrInvalidContext }

// InfeasibleGuardrailError reports that the guardrails leave no admissible
// price. LowBound and HighBound name the constraints that produced each side.
type InfeasibleGuardrailError struct {
	Low       float64
	High      float64
	LowBound  string
	HighBound string
}

func (e *InfeasibleGuardrailError) Error() string {
	return fmt.Sprintf("infeasible guardrails: low %.4f (%s) exceeds high %.4f (%s)",
		e.Low, e.LowBound, e.High, e.HighBound)
}

func (e *InfeasibleGuardrailError) Is(target error) bool { return target == ErrInfeasibleGuardrail }

// NoFeasibleCandidateError reports that every evaluated candidate had an
// unusable volume prediction.
type NoFeasibleCandidateError struct {
	Evaluated  int
	LastReason string
}

func (e *NoFeasibleCandidateError) Error() string {
	return fmt.Sprintf("no feasible candidate among %d evaluated: %s", e.Evaluated, e.LastReason)
}

func (e *NoFeasibleCandidateError) Is(target error) bool { return target == ErrNoFeasibleCandidate }

// Outcome labels used in logs, metrics and stored records.
const (
	OutcomeRecommended         = "recommended"
	OutcomeInvalidContext      = "invalid_context"
	OutcomeInfeasibleGuardrail = "infeasible_guardrail"
	OutcomeNoFeasibleCandidate = "no_feasible_candidate"
	OutcomeError               = "error"
)

// Outcome maps an engine error to its outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeRecommended
	case errors.Is(err, ErrInvalidContext):
		return OutcomeInvalidContext
	case errors.Is(err, ErrInfeasibleGuardrail):
		return OutcomeInfeasibleGuardrail
	case errors.Is(err, ErrNoFeasibleCandidate):
		return OutcomeNoFeasibleCandidate
	default:
		return OutcomeError
	}
}
