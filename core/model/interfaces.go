// Package model defines the estimator contracts shared by all medgo
// components: the fit lifecycle and the transformer/classifier interfaces.
package model

import "gonum.org/v1/gonum/mat"

// Transformer is the interface for fitted feature transformations.
type Transformer interface {
	// Fit learns the transformation parameters from training data.
	Fit(X mat.Matrix) error

	// Transform applies the fitted transformation without refitting.
	Transform(X mat.Matrix) (*mat.Dense, error)

	// FitTransform runs Fit followed by Transform on the same data.
	FitTransform(X mat.Matrix) (*mat.Dense, error)
}

// Classifier is the interface for multi-class classification models over
// string labels.
type Classifier interface {
	// Fit trains the model on a feature matrix and aligned label vector.
	Fit(X mat.Matrix, y []string) error

	// Predict returns one label per input row.
	Predict(X mat.Matrix) ([]string, error)

	// PredictProba returns per-class probabilities, columns ordered as
	// Classes().
	PredictProba(X mat.Matrix) (*mat.Dense, error)

	// Classes returns the labels in the stable order they were first
	// observed during fitting.
	Classes() []string

	// Score returns the accuracy of Predict against y.
	Score(X mat.Matrix, y []string) (float64, error)
}
