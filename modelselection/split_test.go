package modelselection

import (
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/medgo-ml/medgo/pkg/errors"
)

func makeLabeled(counts map[string]int) (*mat.Dense, []string) {
	total := 0
	for _, n := range counts {
		total += n
	}
	X := mat.NewDense(total, 2, nil)
	y := make([]string, 0, total)
	i := 0
	// Interleave classes deterministically by repeating the label cycle.
	for len(y) < total {
		for _, label := range []string{"none", "diabetes", "heart_disease"} {
			if counts[label] > 0 {
				counts[label]--
				X.Set(i, 0, float64(i))
				X.Set(i, 1, float64(i*10))
				y = append(y, label)
				i++
			}
		}
	}
	return X, y
}

func TestTrainTestSplit_Stratified(t *testing.T) {
	X, y := makeLabeled(map[string]int{"none": 10, "diabetes": 10, "heart_disease": 10})

	_, yTrain, xTest, yTest, err := TrainTestSplit(X, y, 0.3, 7)
	if err != nil {
		t.Fatalf("TrainTestSplit() error = %v", err)
	}

	testCounts := map[string]int{}
	for _, label := range yTest {
		testCounts[label]++
	}
	for _, label := range []string{"none", "diabetes", "heart_disease"} {
		// round(10 * 0.3) = 3 per class.
		if testCounts[label] != 3 {
			t.Errorf("class %s: test count = %d, want 3", label, testCounts[label])
		}
	}

	r, _ := xTest.Dims()
	if r != 9 || len(yTest) != 9 || len(yTrain) != 21 {
		t.Errorf("partition sizes = %d/%d, want 9/21", len(yTest), len(yTrain))
	}
}

func TestTrainTestSplit_DisjointExhaustiveOrdered(t *testing.T) {
	X, y := makeLabeled(map[string]int{"none": 6, "diabetes": 6})

	xTrain, yTrain, xTest, yTest, err := TrainTestSplit(X, y, 0.25, 3)
	if err != nil {
		t.Fatalf("TrainTestSplit() error = %v", err)
	}

	// Row ids were stored in column 0; union must be exactly 0..11 and each
	// partition must keep ascending (original) order.
	seen := map[float64]int{}
	var collect = func(m *mat.Dense) []float64 {
		r, _ := m.Dims()
		ids := make([]float64, r)
		for i := 0; i < r; i++ {
			ids[i] = m.At(i, 0)
			seen[ids[i]]++
		}
		return ids
	}
	for _, ids := range [][]float64{collect(xTrain), collect(xTest)} {
		for i := 1; i < len(ids); i++ {
			if ids[i] <= ids[i-1] {
				t.Errorf("partition rows out of original order: %v", ids)
				break
			}
		}
	}
	if len(seen) != 12 {
		t.Errorf("union of partitions covers %d rows, want 12", len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("row %v appears %d times across partitions", id, n)
		}
	}

	if len(yTrain)+len(yTest) != 12 {
		t.Errorf("label partitions sum to %d, want 12", len(yTrain)+len(yTest))
	}
}

func TestTrainTestSplit_Deterministic(t *testing.T) {
	X, y := makeLabeled(map[string]int{"none": 8, "diabetes": 8, "heart_disease": 8})

	_, yTrain1, _, yTest1, err := TrainTestSplit(X, y, 0.2, 42)
	if err != nil {
		t.Fatalf("TrainTestSplit() error = %v", err)
	}
	_, yTrain2, _, yTest2, err := TrainTestSplit(X, y, 0.2, 42)
	if err != nil {
		t.Fatalf("TrainTestSplit() error = %v", err)
	}

	if !reflect.DeepEqual(yTrain1, yTrain2) || !reflect.DeepEqual(yTest1, yTest2) {
		t.Error("identical seeds produced different splits")
	}
}

func TestTrainTestSplit_Errors(t *testing.T) {
	X, y := makeLabeled(map[string]int{"none": 4, "diabetes": 4})

	tests := []struct {
		name     string
		fraction float64
	}{
		{"Zero fraction", 0},
		{"Negative fraction", -0.1},
		{"Fraction of one", 1},
		{"Fraction above one", 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, _, err := TrainTestSplit(X, y, tt.fraction, 1)
			var ve *errors.ValueError
			if err == nil || !errors.As(err, &ve) {
				t.Errorf("fraction %v: expected ValueError, got %v", tt.fraction, err)
			}
		})
	}
}

func TestTrainTestSplit_SingletonClass(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := []string{"none", "none", "heart_disease"}

	_, _, _, _, err := TrainTestSplit(X, y, 0.2, 42)
	if err == nil {
		t.Fatal("singleton class should fail stratified splitting")
	}
	var insufficient *errors.InsufficientSamplesError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientSamplesError, got %v", err)
	}
	if insufficient.Label != "heart_disease" {
		t.Errorf("InsufficientSamplesError.Label = %q, want %q", insufficient.Label, "heart_disease")
	}
}

func TestTrainTestSplit_RoundingKeepsBothPartitionsPopulated(t *testing.T) {
	// With 2 rows per class and a small fraction, rounding would give 0 test
	// rows; the clamp keeps one row of each class in each partition.
	X, y := makeLabeled(map[string]int{"none": 2, "diabetes": 2})

	_, yTrain, _, yTest, err := TrainTestSplit(X, y, 0.1, 5)
	if err != nil {
		t.Fatalf("TrainTestSplit() error = %v", err)
	}

	counts := map[string]int{}
	for _, label := range yTest {
		counts[label]++
	}
	if counts["none"] != 1 || counts["diabetes"] != 1 {
		t.Errorf("test counts = %v, want one row per class", counts)
	}
	if len(yTrain) != 2 {
		t.Errorf("train size = %d, want 2", len(yTrain))
	}
	if math.Round(0.1*2) != 0 {
		t.Fatal("test precondition broken: rounding should produce zero")
	}
}
