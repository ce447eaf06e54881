// Package pricing implements the daily price decision engine.
//
// A recommendation runs in three steps: the guardrail policy turns the day's
// context into an admissible price range, the candidate search evaluates a
// uniform grid of prices in that range against a volume predictor (with an
// optional golden-section refinement around the grid optimum), and the engine
// shapes the best candidate and the full search trace into a
// model.Recommendation.
//
// The engine keeps no state between calls. Failures are returned as typed
// errors (InvalidContextError, InfeasibleGuardrailError,
// NoFeasibleCandidateError); choosing a fallback price is left to the caller.
package pricing
