// Package evaluation derives the diagnostic artifacts of a fitted classifier
// on a held-out partition: accuracy, per-class metrics, confusion matrix and
// the feature-importance ranking.
package evaluation

import (
	"gonum.org/v1/gonum/mat"

	"github.com/medgo-ml/medgo/ensemble"
	"github.com/medgo-ml/medgo/metrics"
	"github.com/medgo-ml/medgo/pkg/errors"
	"github.com/medgo-ml/medgo/pkg/log"
)

// EvaluationReport bundles everything a report renderer needs. All fields
// are plain data; rendering (text, heatmaps, bar charts) happens elsewhere.
type EvaluationReport struct {
	// Accuracy over the scoreable test rows.
	Accuracy float64

	// Classes is the stable label order; Confusion rows/columns and the
	// PerClass keys follow it.
	Classes []string

	// Confusion has rows indexed by true label, columns by predicted label.
	Confusion [][]int

	// PerClass holds precision, recall, F1 and support per class.
	PerClass map[string]metrics.ClassMetrics

	// FeatureNames and FeatureImportance are aligned; importance sums to 1.
	FeatureNames      []string
	FeatureImportance []float64

	// UnknownLabels counts test rows whose true label was never seen during
	// training. Those rows are excluded from all other fields instead of
	// being silently misclassified.
	UnknownLabels int
}

// Evaluate scores a fitted classifier on a transformed test partition.
// featureNames may be nil when callers do not track column names.
//
// Rows with labels outside the classifier's trained label set are counted in
// UnknownLabels and skipped. If every row is unknown, Evaluate returns
// LabelMismatchError since there is nothing to score.
func Evaluate(clf *ensemble.RandomForestClassifier, XTest mat.Matrix, yTest []string, featureNames []string) (*EvaluationReport, error) {
	r, _ := XTest.Dims()
	if r == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "evaluation.Evaluate")
	}
	if len(yTest) != r {
		return nil, errors.NewDimensionError("evaluation.Evaluate", r, len(yTest), 0)
	}

	classes := clf.Classes()
	if classes == nil {
		return nil, errors.NewNotFittedError("RandomForestClassifier", "Evaluate")
	}
	known := make(map[string]bool, len(classes))
	for _, c := range classes {
		known[c] = true
	}

	var keepRows []int
	var unknown []string
	unknownSeen := make(map[string]bool)
	for i, label := range yTest {
		if known[label] {
			keepRows = append(keepRows, i)
			continue
		}
		if !unknownSeen[label] {
			unknownSeen[label] = true
			unknown = append(unknown, label)
		}
	}
	if len(keepRows) == 0 {
		return nil, errors.NewLabelMismatchError("evaluation.Evaluate", unknown)
	}
	if len(unknown) > 0 {
		log.Warn(&errors.LabelMismatchError{Op: "evaluation.Evaluate", Unknown: unknown})
	}

	xKeep, yKeep := subset(XTest, yTest, keepRows)

	yPred, err := clf.Predict(xKeep)
	if err != nil {
		return nil, err
	}

	accuracy, err := metrics.Accuracy(yKeep, yPred)
	if err != nil {
		return nil, err
	}
	confusion, err := metrics.ConfusionMatrix(yKeep, yPred, classes)
	if err != nil {
		return nil, err
	}
	perClass, err := metrics.ClassificationReport(yKeep, yPred, classes)
	if err != nil {
		return nil, err
	}
	importance, err := clf.FeatureImportances()
	if err != nil {
		return nil, err
	}

	logger := log.For("evaluation")
	logger.Info().
		Str(log.OperationKey, "evaluate").
		Int(log.SamplesKey, len(keepRows)).
		Int(log.ClassesKey, len(classes)).
		Float64(log.AccuracyKey, accuracy).
		Int("unknown_labels", r-len(keepRows)).
		Msg("evaluation complete")

	return &EvaluationReport{
		Accuracy:          accuracy,
		Classes:           classes,
		Confusion:         confusion,
		PerClass:          perClass,
		FeatureNames:      featureNames,
		FeatureImportance: importance,
		UnknownLabels:     r - len(keepRows),
	}, nil
}

func subset(X mat.Matrix, y []string, rows []int) (*mat.Dense, []string) {
	_, c := X.Dims()
	sub := mat.NewDense(len(rows), c, nil)
	labels := make([]string, len(rows))
	for i, row := range rows {
		for j := 0; j < c; j++ {
			sub.Set(i, j, X.At(row, j))
		}
		labels[i] = y[row]
	}
	return sub, labels
}
