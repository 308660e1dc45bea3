package preprocessing

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/medgo-ml/medgo/core/model"
	"github.com/medgo-ml/medgo/pkg/errors"
)

// MeanImputer replaces missing (NaN) feature values with the per-column mean
// computed over the non-missing training entries. The fitted means are
// immutable: test and inference data are imputed with the training means,
// never refit.
type MeanImputer struct {
	model.BaseEstimator

	// Means holds the per-column imputation value.
	Means []float64

	// NFeatures is the number of feature columns seen at fit time.
	NFeatures int

	// columns optionally names the feature columns for error messages.
	columns []string
}

// NewMeanImputer creates an unfitted MeanImputer. columns may be nil; when
// set it is used to name offending columns in errors.
func NewMeanImputer(columns []string) *MeanImputer {
	return &MeanImputer{columns: columns}
}

// Fit computes the per-column mean over non-missing entries.
//
// Returns EmptyColumnError if any column has zero non-missing entries.
func (m *MeanImputer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "MeanImputer.Fit")
	}
	if m.columns != nil && len(m.columns) != c {
		return errors.NewDimensionError("MeanImputer.Fit", len(m.columns), c, 1)
	}

	m.NFeatures = c
	m.Means = make([]float64, c)

	observed := make([]float64, 0, r)
	for j := 0; j < c; j++ {
		observed = observed[:0]
		for i := 0; i < r; i++ {
			if v := X.At(i, j); !math.IsNaN(v) {
				observed = append(observed, v)
			}
		}
		if len(observed) == 0 {
			return errors.NewEmptyColumnError("MeanImputer.Fit", m.columnName(j))
		}
		m.Means[j] = stat.Mean(observed, nil)
	}

	m.SetFitted()
	return nil
}

// Transform returns a copy of X with every NaN replaced by the fitted column
// mean. The input is not mutated.
func (m *MeanImputer) Transform(X mat.Matrix) (*mat.Dense, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MeanImputer", "Transform")
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("MeanImputer.Transform", m.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if math.IsNaN(v) {
				v = m.Means[j]
			}
			result.Set(i, j, v)
		}
	}
	return result, nil
}

// FitTransform fits the imputer and transforms the same data.
func (m *MeanImputer) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

func (m *MeanImputer) columnName(j int) string {
	if m.columns != nil {
		return m.columns[j]
	}
	return strconv.Itoa(j)
}

// String returns a short description of the imputer.
func (m *MeanImputer) String() string {
	if !m.IsFitted() {
		return "MeanImputer()"
	}
	return fmt.Sprintf("MeanImputer(n_features=%d)", m.NFeatures)
}
