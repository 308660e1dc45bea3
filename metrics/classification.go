// Package metrics provides classification metrics over string label vectors:
// accuracy, confusion matrix and per-class precision/recall/F1.
package metrics

import (
	"github.com/medgo-ml/medgo/pkg/errors"
)

// ClassMetrics holds the per-class diagnostic values of a classification
// report.
type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int // count of true instances of the class
}

// Accuracy computes the fraction of positions where yPred equals yTrue.
func Accuracy(yTrue, yPred []string) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty label vector")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("Accuracy", n, len(yPred), 0)
	}

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ConfusionMatrix computes a count matrix with rows indexed by true label and
// columns by predicted label, both in the order given by classes. Every label
// occurring in yTrue or yPred must be present in classes.
func ConfusionMatrix(yTrue, yPred, classes []string) ([][]int, error) {
	n := len(yTrue)
	if n == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "empty label vector")
	}
	if len(yPred) != n {
		return nil, errors.NewDimensionError("ConfusionMatrix", n, len(yPred), 0)
	}

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	cm := make([][]int, len(classes))
	for i := range cm {
		cm[i] = make([]int, len(classes))
	}

	for i := range yTrue {
		ti, ok := index[yTrue[i]]
		if !ok {
			return nil, errors.NewLabelMismatchError("ConfusionMatrix", []string{yTrue[i]})
		}
		pi, ok := index[yPred[i]]
		if !ok {
			return nil, errors.NewLabelMismatchError("ConfusionMatrix", []string{yPred[i]})
		}
		cm[ti][pi]++
	}
	return cm, nil
}

// ClassificationReport computes precision, recall, F1 and support per class.
// Classes with no predicted instances get precision 0, and classes with no
// true instances get recall 0, matching the usual zero-division convention.
func ClassificationReport(yTrue, yPred, classes []string) (map[string]ClassMetrics, error) {
	cm, err := ConfusionMatrix(yTrue, yPred, classes)
	if err != nil {
		return nil, err
	}

	report := make(map[string]ClassMetrics, len(classes))
	for i, class := range classes {
		tp := cm[i][i]
		support := 0
		predicted := 0
		for j := range classes {
			support += cm[i][j]
			predicted += cm[j][i]
		}

		var precision, recall, f1 float64
		if predicted > 0 {
			precision = float64(tp) / float64(predicted)
		}
		if support > 0 {
			recall = float64(tp) / float64(support)
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		report[class] = ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support,
		}
	}
	return report, nil
}
