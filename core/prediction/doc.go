// Package prediction provides volume predictors consumed by the pricing
// engine. A predictor estimates the volume sold at a candidate price given the
// day's context; the engine treats it as opaque and only relies on the
// VolumePredictor signature.
package prediction
