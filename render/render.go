// Package render turns an EvaluationReport into image artifacts: a
// confusion-matrix heatmap and a feature-importance bar chart. It consumes
// only the plain numeric data exposed by the evaluation package.
package render

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/medgo-ml/medgo/evaluation"
	"github.com/medgo-ml/medgo/pkg/errors"
)

// confusionGrid adapts a confusion matrix to the plotter.GridXYZ interface.
// Row 0 of the matrix (first true label) is drawn at the top.
type confusionGrid struct {
	counts [][]int
}

func (g confusionGrid) Dims() (c, r int) {
	return len(g.counts), len(g.counts)
}

func (g confusionGrid) Z(c, r int) float64 {
	// Reverse rows so the first class reads top-down like a printed matrix.
	return float64(g.counts[len(g.counts)-1-r][c])
}

func (g confusionGrid) X(c int) float64 { return float64(c) }
func (g confusionGrid) Y(r int) float64 { return float64(r) }

// ConfusionHeatmap renders the report's confusion matrix as a heatmap PNG.
func ConfusionHeatmap(report *evaluation.EvaluationReport, path string) error {
	if report == nil || len(report.Confusion) == 0 {
		return errors.NewValueError("ConfusionHeatmap", "report has no confusion matrix")
	}

	p := plot.New()
	p.Title.Text = "Confusion Matrix"
	p.X.Label.Text = "Predicted label"
	p.Y.Label.Text = "True label"

	grid := confusionGrid{counts: report.Confusion}
	hm := plotter.NewHeatMap(grid, palette.Heat(16, 1))
	p.Add(hm)

	p.NominalX(report.Classes...)
	p.NominalY(reversed(report.Classes)...)

	if err := p.Save(5*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "saving confusion heatmap")
	}
	return nil
}

// ImportanceBarChart renders the feature-importance vector as a bar chart
// PNG, one bar per feature in schema order.
func ImportanceBarChart(report *evaluation.EvaluationReport, path string) error {
	if report == nil || len(report.FeatureImportance) == 0 {
		return errors.NewValueError("ImportanceBarChart", "report has no feature importances")
	}

	p := plot.New()
	p.Title.Text = "Feature Importance"
	p.Y.Label.Text = "Importance"

	values := make(plotter.Values, len(report.FeatureImportance))
	copy(values, report.FeatureImportance)

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return errors.Wrap(err, "building importance bar chart")
	}
	p.Add(bars)

	if len(report.FeatureNames) == len(values) {
		p.NominalX(report.FeatureNames...)
	}

	if err := p.Save(5*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "saving importance bar chart")
	}
	return nil
}

func reversed(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
