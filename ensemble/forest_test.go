package ensemble

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/medgo-ml/medgo/pkg/errors"
)

// separableData builds three well-separated clusters on two informative
// features plus one noise feature.
func separableData() (*mat.Dense, []string) {
	rows := 60
	X := mat.NewDense(rows, 3, nil)
	y := make([]string, rows)
	for i := 0; i < rows; i++ {
		noise := float64((i*7)%13) / 13.0
		switch i % 3 {
		case 0:
			X.Set(i, 0, 1+float64(i%5)/10)
			X.Set(i, 1, 1+float64(i%7)/10)
			y[i] = "none"
		case 1:
			X.Set(i, 0, 5+float64(i%5)/10)
			X.Set(i, 1, 5+float64(i%7)/10)
			y[i] = "diabetes"
		default:
			X.Set(i, 0, 9+float64(i%5)/10)
			X.Set(i, 1, 9+float64(i%7)/10)
			y[i] = "heart_disease"
		}
		X.Set(i, 2, noise)
	}
	return X, y
}

func TestRandomForest_FitPredict(t *testing.T) {
	X, y := separableData()

	// All features considered per split so the separable clusters are fit
	// exactly.
	clf := NewRandomForestClassifier(Config{TreeCount: 50, Seed: 42, MaxFeatures: 3})
	require.NoError(t, clf.Fit(X, y))

	pred, err := clf.Predict(X)
	require.NoError(t, err)

	correct := 0
	for i := range y {
		if pred[i] == y[i] {
			correct++
		}
	}
	assert.Equal(t, len(y), correct, "separable clusters should be fit perfectly")

	// Stable class order is first-observed order in the training labels.
	assert.Equal(t, []string{"none", "diabetes", "heart_disease"}, clf.Classes())
}

func TestRandomForest_PredictProba(t *testing.T) {
	X, y := separableData()

	clf := NewRandomForestClassifier(Config{TreeCount: 30, Seed: 1})
	require.NoError(t, clf.Fit(X, y))

	probs, err := clf.PredictProba(X)
	require.NoError(t, err)
	pred, err := clf.Predict(X)
	require.NoError(t, err)

	r, c := probs.Dims()
	require.Equal(t, len(y), r)
	require.Equal(t, len(clf.Classes()), c)

	for i := 0; i < r; i++ {
		sum := 0.0
		best := 0
		for j := 0; j < c; j++ {
			sum += probs.At(i, j)
			if probs.At(i, j) > probs.At(i, best) {
				best = j
			}
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "row %d: probabilities must sum to 1", i)
		// Predicted label is the argmax; ties break toward the lower index,
		// which the strict > comparison above reproduces.
		assert.Equal(t, clf.Classes()[best], pred[i], "row %d: argmax disagrees with Predict", i)
	}
}

func TestRandomForest_DeterministicAcrossParallelism(t *testing.T) {
	X, y := separableData()

	fit := func(parallelism int) ([]string, []float64) {
		clf := NewRandomForestClassifier(Config{TreeCount: 40, Seed: 42, Parallelism: parallelism})
		require.NoError(t, clf.Fit(X, y))
		pred, err := clf.Predict(X)
		require.NoError(t, err)
		imp, err := clf.FeatureImportances()
		require.NoError(t, err)
		return pred, imp
	}

	predSeq, impSeq := fit(1)
	predPar, impPar := fit(4)

	assert.Equal(t, predSeq, predPar, "worker count must not change predictions")
	assert.Equal(t, impSeq, impPar, "worker count must not change importances")
}

func TestRandomForest_FeatureImportances(t *testing.T) {
	X, y := separableData()

	// Two of three features per split: every node sees at least one
	// informative feature, so the noise column cannot dominate.
	clf := NewRandomForestClassifier(Config{TreeCount: 50, Seed: 9, MaxFeatures: 2})
	require.NoError(t, clf.Fit(X, y))

	imp, err := clf.FeatureImportances()
	require.NoError(t, err)
	require.Len(t, imp, 3)

	sum := 0.0
	for _, v := range imp {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9, "importances must sum to 1")

	// The informative cluster features must dominate the noise feature.
	assert.Greater(t, imp[0]+imp[1], imp[2])
}

func TestRandomForest_Score(t *testing.T) {
	X, y := separableData()

	clf := NewRandomForestClassifier(Config{TreeCount: 30, Seed: 3, MaxFeatures: 3})
	require.NoError(t, clf.Fit(X, y))

	acc, err := clf.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, acc, 1e-9)
}

func TestRandomForest_FitErrors(t *testing.T) {
	tests := []struct {
		name   string
		rows   int
		labels []string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "Single class",
			rows:   4,
			labels: []string{"none", "none", "none", "none"},
			check: func(t *testing.T, err error) {
				var card *errors.LabelCardinalityError
				require.True(t, errors.As(err, &card), "expected LabelCardinalityError, got %v", err)
				assert.Equal(t, 1, card.Distinct)
			},
		},
		{
			name:   "Label length mismatch",
			rows:   4,
			labels: []string{"a", "b"},
			check: func(t *testing.T, err error) {
				var dim *errors.DimensionError
				require.True(t, errors.As(err, &dim), "expected DimensionError, got %v", err)
			},
		},
		{
			name:   "Fewer rows than minimum leaf size",
			rows:   2,
			labels: []string{"a", "b"},
			check: func(t *testing.T, err error) {
				var insufficient *errors.InsufficientSamplesError
				require.True(t, errors.As(err, &insufficient), "expected InsufficientSamplesError, got %v", err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			X := mat.NewDense(tt.rows, 2, nil)
			for i := 0; i < tt.rows; i++ {
				X.Set(i, 0, float64(i))
			}
			cfg := Config{TreeCount: 5, Seed: 1}
			if tt.name == "Fewer rows than minimum leaf size" {
				cfg.MinLeaf = 5
			}
			clf := NewRandomForestClassifier(cfg)
			err := clf.Fit(X, tt.labels)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestRandomForest_PredictErrors(t *testing.T) {
	clf := NewRandomForestClassifier(Config{TreeCount: 5, Seed: 1})

	_, err := clf.Predict(mat.NewDense(1, 2, []float64{1, 2}))
	var notFitted *errors.NotFittedError
	require.True(t, errors.As(err, &notFitted), "expected NotFittedError, got %v", err)

	X, y := separableData()
	require.NoError(t, clf.Fit(X, y))

	_, err = clf.Predict(mat.NewDense(1, 5, []float64{1, 2, 3, 4, 5}))
	var dim *errors.DimensionError
	require.True(t, errors.As(err, &dim), "expected DimensionError, got %v", err)
	assert.Equal(t, 3, dim.Expected)
	assert.Equal(t, 5, dim.Got)
}

func TestGini(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		total  int
		want   float64
	}{
		{"Pure node", []int{4, 0}, 4, 0},
		{"Even binary split", []int{2, 2}, 4, 0.5},
		{"Three even classes", []int{2, 2, 2}, 6, 2.0 / 3.0},
		{"Empty node", []int{0, 0}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gini(tt.counts, tt.total); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("gini(%v, %d) = %v, want %v", tt.counts, tt.total, got, tt.want)
			}
		})
	}
}
