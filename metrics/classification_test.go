package metrics

import (
	"math"
	"testing"

	"github.com/medgo-ml/medgo/pkg/errors"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []string
		yPred   []string
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect accuracy",
			yTrue: []string{"a", "b", "c", "b", "a"},
			yPred: []string{"a", "b", "c", "b", "a"},
			want:  1.0,
		},
		{
			name:  "80% accuracy",
			yTrue: []string{"a", "b", "c", "b", "a"},
			yPred: []string{"a", "b", "b", "b", "a"},
			want:  0.8,
		},
		{
			name:  "Zero accuracy",
			yTrue: []string{"a", "a", "a"},
			yPred: []string{"b", "b", "b"},
			want:  0.0,
		},
		{
			name:    "Empty vectors",
			yTrue:   []string{},
			yPred:   []string{},
			wantErr: true,
		},
		{
			name:    "Dimension mismatch",
			yTrue:   []string{"a", "b"},
			yPred:   []string{"a"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accuracy(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Errorf("Accuracy() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfusionMatrix(t *testing.T) {
	yTrue := []string{"none", "diabetes", "none", "heart", "diabetes", "none"}
	yPred := []string{"none", "diabetes", "diabetes", "heart", "none", "none"}
	classes := []string{"none", "diabetes", "heart"}

	cm, err := ConfusionMatrix(yTrue, yPred, classes)
	if err != nil {
		t.Fatalf("ConfusionMatrix() error = %v", err)
	}

	want := [][]int{
		{2, 1, 0},
		{1, 1, 0},
		{0, 0, 1},
	}
	for i := range want {
		for j := range want[i] {
			if cm[i][j] != want[i][j] {
				t.Errorf("cm[%d][%d] = %d, want %d", i, j, cm[i][j], want[i][j])
			}
		}
	}
}

func TestConfusionMatrix_UnknownLabel(t *testing.T) {
	_, err := ConfusionMatrix([]string{"a", "zzz"}, []string{"a", "a"}, []string{"a", "b"})
	if err == nil {
		t.Fatal("label outside classes should fail")
	}
	var mismatch *errors.LabelMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected LabelMismatchError, got %v", err)
	}
	if len(mismatch.Unknown) != 1 || mismatch.Unknown[0] != "zzz" {
		t.Errorf("Unknown = %v, want [zzz]", mismatch.Unknown)
	}
}

func TestClassificationReport(t *testing.T) {
	yTrue := []string{"pos", "pos", "pos", "neg", "neg", "neg"}
	yPred := []string{"pos", "pos", "neg", "neg", "neg", "pos"}
	classes := []string{"pos", "neg"}

	report, err := ClassificationReport(yTrue, yPred, classes)
	if err != nil {
		t.Fatalf("ClassificationReport() error = %v", err)
	}

	pos := report["pos"]
	// tp=2, fp=1, fn=1.
	if math.Abs(pos.Precision-2.0/3.0) > 1e-9 {
		t.Errorf("pos precision = %v, want 2/3", pos.Precision)
	}
	if math.Abs(pos.Recall-2.0/3.0) > 1e-9 {
		t.Errorf("pos recall = %v, want 2/3", pos.Recall)
	}
	if math.Abs(pos.F1-2.0/3.0) > 1e-9 {
		t.Errorf("pos f1 = %v, want 2/3", pos.F1)
	}
	if pos.Support != 3 {
		t.Errorf("pos support = %d, want 3", pos.Support)
	}
}

func TestClassificationReport_ZeroDivision(t *testing.T) {
	// "never" is in the class set but has no true rows and no predictions:
	// all of its metrics default to 0 instead of NaN.
	yTrue := []string{"a", "a"}
	yPred := []string{"a", "a"}
	classes := []string{"a", "never"}

	report, err := ClassificationReport(yTrue, yPred, classes)
	if err != nil {
		t.Fatalf("ClassificationReport() error = %v", err)
	}

	never := report["never"]
	if never.Precision != 0 || never.Recall != 0 || never.F1 != 0 || never.Support != 0 {
		t.Errorf("metrics for absent class = %+v, want zeros", never)
	}
}
