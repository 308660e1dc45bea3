package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/medgo-ml/medgo/core/model"
	"github.com/medgo-ml/medgo/pkg/errors"
)

// FeatureTransformer chains mean imputation and standardization behind one
// fit/transform contract. It records the feature column names it was fitted
// on and refuses input with a different schema, so training-time and
// inference-time transforms can never drift apart.
type FeatureTransformer struct {
	model.BaseEstimator

	// Features names the columns the transformer is bound to, in order.
	Features []string

	imputer *MeanImputer
	scaler  *StandardScaler
}

var _ model.Transformer = (*FeatureTransformer)(nil)

// NewFeatureTransformer creates an unfitted FeatureTransformer for the given
// feature columns.
func NewFeatureTransformer(features []string) *FeatureTransformer {
	cp := make([]string, len(features))
	copy(cp, features)
	return &FeatureTransformer{
		Features: cp,
		imputer:  NewMeanImputer(cp),
		scaler:   NewStandardScaler(),
	}
}

// Fit learns imputation means over non-missing entries, then scaling
// statistics over the imputed data. Scaling statistics are computed after
// imputation so the standardized training matrix has exactly zero mean.
func (t *FeatureTransformer) Fit(X mat.Matrix) error {
	if err := t.checkWidth("FeatureTransformer.Fit", X); err != nil {
		return err
	}

	imputed, err := t.imputer.FitTransform(X)
	if err != nil {
		return err
	}
	if err := t.scaler.Fit(imputed); err != nil {
		return err
	}

	t.SetFitted()
	return nil
}

// Transform imputes and standardizes X with the fitted statistics. The input
// is not mutated, and the output is a pure function of X and the fitted
// state.
func (t *FeatureTransformer) Transform(X mat.Matrix) (*mat.Dense, error) {
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("FeatureTransformer", "Transform")
	}
	if err := t.checkWidth("FeatureTransformer.Transform", X); err != nil {
		return nil, err
	}

	imputed, err := t.imputer.Transform(X)
	if err != nil {
		return nil, err
	}
	return t.scaler.Transform(imputed)
}

// FitTransform fits the transformer and transforms the same data.
func (t *FeatureTransformer) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := t.Fit(X); err != nil {
		return nil, err
	}
	return t.Transform(X)
}

// Means returns the fitted imputation means, one per feature column.
func (t *FeatureTransformer) Means() []float64 {
	return t.imputer.Means
}

// ScalerStats returns the fitted (mean, std) standardization statistics.
func (t *FeatureTransformer) ScalerStats() (mean, scale []float64) {
	return t.scaler.Mean, t.scaler.Scale
}

func (t *FeatureTransformer) checkWidth(op string, X mat.Matrix) error {
	_, c := X.Dims()
	if c != len(t.Features) {
		got := make([]string, c)
		for j := range got {
			got[j] = fmt.Sprintf("col%d", j)
		}
		return errors.NewSchemaMismatchError(op, t.Features, got)
	}
	return nil
}

// String returns a short description of the transformer.
func (t *FeatureTransformer) String() string {
	if !t.IsFitted() {
		return fmt.Sprintf("FeatureTransformer(n_features=%d, unfitted)", len(t.Features))
	}
	return fmt.Sprintf("FeatureTransformer(n_features=%d)", len(t.Features))
}
