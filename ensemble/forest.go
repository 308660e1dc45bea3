// Package ensemble implements a random-forest classifier: bagged CART trees
// with random feature selection per split, majority-vote prediction and
// gini-gain feature importance.
package ensemble

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/medgo-ml/medgo/core/model"
	"github.com/medgo-ml/medgo/core/parallel"
	"github.com/medgo-ml/medgo/pkg/errors"
	"github.com/medgo-ml/medgo/pkg/log"
)

// Config holds the ensemble hyperparameters. Zero values select the
// defaults documented on each field.
type Config struct {
	// TreeCount is the number of ensemble members. Default 100.
	TreeCount int

	// MaxDepth limits tree depth. 0 means unlimited.
	MaxDepth int

	// MinLeaf is the minimum number of samples in a leaf. Default 1.
	MinLeaf int

	// MaxFeatures is the number of features considered per split.
	// Default floor(sqrt(nFeatures)), the usual bagging heuristic.
	MaxFeatures int

	// Seed controls every random choice (bootstrap resampling and feature
	// subsampling). The same seed yields the same forest regardless of
	// Parallelism.
	Seed int64

	// Parallelism caps the number of concurrent tree builders. 0 uses all
	// CPU cores.
	Parallelism int
}

func (c Config) withDefaults() Config {
	if c.TreeCount == 0 {
		c.TreeCount = 100
	}
	if c.MinLeaf == 0 {
		c.MinLeaf = 1
	}
	return c
}

// RandomForestClassifier is a multi-class random forest over string labels.
// After Fit the classifier is immutable and safe for concurrent use.
type RandomForestClassifier struct {
	model.BaseEstimator

	cfg Config

	classes   []string
	classIDs  map[string]int
	nFeatures int
	trees     []*decisionTree
}

var _ model.Classifier = (*RandomForestClassifier)(nil)

// NewRandomForestClassifier creates an unfitted forest with the given
// configuration.
func NewRandomForestClassifier(cfg Config) *RandomForestClassifier {
	return &RandomForestClassifier{cfg: cfg.withDefaults()}
}

// Fit trains the ensemble. Each tree is grown on a bootstrap resample of the
// training rows; trees are built on parallel workers that share read-only
// access to X and y, and each tree derives its RNG from Seed plus its index
// so the forest is identical for any worker count.
//
// Returns LabelCardinalityError when y has fewer than 2 distinct labels and
// InsufficientSamplesError when there are fewer rows than MinLeaf.
func (f *RandomForestClassifier) Fit(X mat.Matrix, y []string) (err error) {
	defer errors.Recover(&err, "RandomForestClassifier.Fit")
	start := time.Now()

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "RandomForestClassifier.Fit")
	}
	if len(y) != r {
		return errors.NewDimensionError("RandomForestClassifier.Fit", r, len(y), 0)
	}

	// Encode labels as dense ids in first-observed order. That order is the
	// stable class ordering used by predictions, reports and tie-breaks.
	classIDs := make(map[string]int)
	var classes []string
	encoded := make([]int, r)
	for i, label := range y {
		id, ok := classIDs[label]
		if !ok {
			id = len(classes)
			classIDs[label] = id
			classes = append(classes, label)
		}
		encoded[i] = id
	}
	if len(classes) < 2 {
		return errors.NewLabelCardinalityError("RandomForestClassifier.Fit", len(classes))
	}
	if r < f.cfg.MinLeaf {
		return errors.NewInsufficientSamplesError("RandomForestClassifier.Fit", "", f.cfg.MinLeaf, r)
	}

	mtry := f.cfg.MaxFeatures
	if mtry <= 0 {
		mtry = int(math.Sqrt(float64(c)))
	}
	if mtry < 1 {
		mtry = 1
	}
	if mtry > c {
		mtry = c
	}

	dense := mat.DenseCopyOf(X)
	trees := make([]*decisionTree, f.cfg.TreeCount)

	parallel.Parallelize(f.cfg.TreeCount, f.cfg.Parallelism, func(startIdx, endIdx int) {
		for i := startIdx; i < endIdx; i++ {
			rng := rand.New(rand.NewSource(f.cfg.Seed + int64(i)))
			sample := make([]int, r)
			for j := range sample {
				sample[j] = rng.Intn(r)
			}
			trees[i] = growTree(dense, encoded, len(classes), sample, f.cfg.MaxDepth, f.cfg.MinLeaf, mtry, rng)
		}
	})

	f.classes = classes
	f.classIDs = classIDs
	f.nFeatures = c
	f.trees = trees
	f.SetFitted()

	logger := log.For("ensemble")
	logger.Info().
		Str(log.OperationKey, "fit").
		Int(log.SamplesKey, r).
		Int(log.FeaturesKey, c).
		Int(log.ClassesKey, len(classes)).
		Int(log.TreesKey, f.cfg.TreeCount).
		Int64(log.SeedKey, f.cfg.Seed).
		Int64(log.DurationKey, time.Since(start).Milliseconds()).
		Msg("random forest fitted")
	return nil
}

// Predict returns the majority-vote label for each row. Vote ties break
// toward the class that appeared first in the training labels.
func (f *RandomForestClassifier) Predict(X mat.Matrix) ([]string, error) {
	votes, err := f.countVotes(X, "Predict")
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(votes))
	for i, rowVotes := range votes {
		best := 0
		for c, n := range rowVotes {
			if n > rowVotes[best] {
				best = c
			}
		}
		labels[i] = f.classes[best]
	}
	return labels, nil
}

// PredictProba returns per-class probabilities: for each row, the fraction
// of trees voting for each class. Columns follow Classes() order and each
// row sums to 1.
func (f *RandomForestClassifier) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	votes, err := f.countVotes(X, "PredictProba")
	if err != nil {
		return nil, err
	}

	probs := mat.NewDense(len(votes), len(f.classes), nil)
	total := float64(len(f.trees))
	for i, rowVotes := range votes {
		for c, n := range rowVotes {
			probs.Set(i, c, float64(n)/total)
		}
	}
	return probs, nil
}

// Score returns the fraction of rows where Predict matches y.
func (f *RandomForestClassifier) Score(X mat.Matrix, y []string) (float64, error) {
	pred, err := f.Predict(X)
	if err != nil {
		return 0, err
	}
	if len(y) != len(pred) {
		return 0, errors.NewDimensionError("RandomForestClassifier.Score", len(pred), len(y), 0)
	}

	correct := 0
	for i, label := range pred {
		if label == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(pred)), nil
}

// Classes returns the labels in stable first-observed training order.
func (f *RandomForestClassifier) Classes() []string {
	return f.classes
}

// NFeatures returns the feature count the model is bound to.
func (f *RandomForestClassifier) NFeatures() int {
	return f.nFeatures
}

// FeatureImportances returns one weight per feature, the ensemble-averaged
// gini gain attributable to splits on that feature, normalized to sum to 1.
// A forest with no splits at all yields a uniform vector.
func (f *RandomForestClassifier) FeatureImportances() ([]float64, error) {
	if !f.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestClassifier", "FeatureImportances")
	}

	imp := make([]float64, f.nFeatures)
	for _, t := range f.trees {
		for j, v := range t.importance {
			imp[j] += v
		}
	}

	total := 0.0
	for _, v := range imp {
		total += v
	}
	if total == 0 {
		for j := range imp {
			imp[j] = 1 / float64(f.nFeatures)
		}
		return imp, nil
	}
	for j := range imp {
		imp[j] /= total
	}
	return imp, nil
}

// countVotes runs every tree over every row and tallies class votes.
func (f *RandomForestClassifier) countVotes(X mat.Matrix, method string) ([][]int, error) {
	if !f.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestClassifier", method)
	}

	r, c := X.Dims()
	if c != f.nFeatures {
		return nil, errors.NewDimensionError("RandomForestClassifier."+method, f.nFeatures, c, 1)
	}

	votes := make([][]int, r)
	parallel.ParallelizeWithThreshold(r, f.cfg.Parallelism, 64, func(start, end int) {
		buf := make([]float64, c)
		for i := start; i < end; i++ {
			mat.Row(buf, i, X)
			rowVotes := make([]int, len(f.classes))
			for _, t := range f.trees {
				rowVotes[t.predict(buf)]++
			}
			votes[i] = rowVotes
		}
	})
	return votes, nil
}

// String returns a short description of the forest.
func (f *RandomForestClassifier) String() string {
	if !f.IsFitted() {
		return fmt.Sprintf("RandomForestClassifier(n_trees=%d)", f.cfg.TreeCount)
	}
	return fmt.Sprintf("RandomForestClassifier(n_trees=%d, n_features=%d, n_classes=%d)",
		f.cfg.TreeCount, f.nFeatures, len(f.classes))
}
