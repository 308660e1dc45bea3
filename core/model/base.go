package model

// EstimatorState represents the fit lifecycle of an estimator.
type EstimatorState int

const (
	// NotFitted means Fit has not completed yet.
	NotFitted EstimatorState = iota
	// Fitted means the estimator holds usable fitted state.
	Fitted
)

// BaseEstimator is embedded by every estimator in medgo. Fitted state is
// written exactly once by Fit and treated as read-only afterwards, so no
// locking is needed for concurrent Predict/Transform calls.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether Fit has completed.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the estimator as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the estimator to the unfitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
