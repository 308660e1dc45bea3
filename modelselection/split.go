// Package modelselection provides the stratified train/test split used to
// hold out an evaluation partition.
package modelselection

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/medgo-ml/medgo/pkg/errors"
)

// TrainTestSplit partitions X and y into disjoint, exhaustive train and test
// sets, stratified by label: within each class, round(classSize*testFraction)
// rows go to the test set, clamped so both partitions keep at least one row
// of every class. Rows keep their original relative order inside each
// partition. The same seed always produces the same split.
//
// Returns ValueError when testFraction is outside (0,1) and
// InsufficientSamplesError when any class has fewer than 2 rows.
func TrainTestSplit(X mat.Matrix, y []string, testFraction float64, seed int64) (XTrain *mat.Dense, yTrain []string, XTest *mat.Dense, yTest []string, err error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, nil, nil, nil, errors.Wrap(errors.ErrEmptyData, "TrainTestSplit")
	}
	if len(y) != r {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", r, len(y), 0)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "testFraction must be in (0, 1)")
	}

	// Group row indices per class in first-observed label order so the walk
	// below is deterministic.
	classOrder := make([]string, 0)
	classRows := make(map[string][]int)
	for i, label := range y {
		if _, ok := classRows[label]; !ok {
			classOrder = append(classOrder, label)
		}
		classRows[label] = append(classRows[label], i)
	}

	rng := rand.New(rand.NewSource(seed))
	inTest := make([]bool, r)
	for _, label := range classOrder {
		rows := classRows[label]
		n := len(rows)
		if n < 2 {
			return nil, nil, nil, nil, errors.NewInsufficientSamplesError("TrainTestSplit", label, 2, n)
		}

		nTest := int(math.Round(float64(n) * testFraction))
		if nTest < 1 {
			nTest = 1
		}
		if nTest > n-1 {
			nTest = n - 1
		}

		// Shuffle a copy; the original slice keeps the source order used to
		// rebuild the partitions below.
		shuffled := make([]int, n)
		copy(shuffled, rows)
		rng.Shuffle(n, func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		for _, row := range shuffled[:nTest] {
			inTest[row] = true
		}
	}

	var trainIdx, testIdx []int
	for i := 0; i < r; i++ {
		if inTest[i] {
			testIdx = append(testIdx, i)
		} else {
			trainIdx = append(trainIdx, i)
		}
	}

	XTrain, yTrain = take(X, y, trainIdx)
	XTest, yTest = take(X, y, testIdx)
	return XTrain, yTrain, XTest, yTest, nil
}

func take(X mat.Matrix, y []string, idx []int) (*mat.Dense, []string) {
	_, c := X.Dims()
	sub := mat.NewDense(len(idx), c, nil)
	labels := make([]string, len(idx))
	for i, row := range idx {
		for j := 0; j < c; j++ {
			sub.Set(i, j, X.At(row, j))
		}
		labels[i] = y[row]
	}
	return sub, labels
}
