package events

import (
	"time"

	"github.com/kilianp07/fuelprice/core/model"
)

// Actions taken by the service after a decision.
const (
	ActionApply = "apply_recommendation"
	ActionHold  = "hold_previous_price"
	// ActionReject means the input was rejected and no price was produced.
	ActionReject = "reject_context"
)

// RecommendationEvent is published after each engine invocation, successful
// or not. Recommendation is nil when the engine returned an error.
type RecommendationEvent struct {
	Date           time.Time
	Outcome        string
	Action         string
	AppliedPrice   float64
	Recommendation *model.Recommendation
	Err            error
	Duration       time.Duration
	// Source names the caller, e.g. "api", "cli" or "replay".
	Source string
}
