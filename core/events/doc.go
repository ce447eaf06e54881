// Package events defines the events published on the internal event bus.
//
// Available event types:
//   - RecommendationEvent: outcome of one daily price decision
package events
