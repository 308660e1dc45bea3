// Package medgo provides a supervised-classification pipeline for tabular
// medical records: mean imputation and standardization of numeric features,
// a stratified train/test split, a random-forest classifier and evaluation
// diagnostics (accuracy, confusion matrix, feature importance).
//
// Fitted state is explicit and immutable: the transformer statistics and the
// trained forest are produced once by Fit and applied unchanged to test and
// inference data, so training-time and inference-time transforms can never
// diverge.
//
// # Quick Start
//
//	schema, err := dataset.NewSchema([]string{"age", "bp", "chol", "diab"}, "condition")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ds, err := dataset.LoadCSV("patients.csv", schema)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p := pipeline.New(schema, pipeline.Config{TestFraction: 0.2, Seed: 42})
//	if err := p.Fit(ds); err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := p.Evaluate()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("accuracy: %.3f\n", report.Accuracy)
//
//	preds, err := p.Predict([]dataset.Record{
//	    {"age": 52, "bp": 135, "chol": 240, "diab": 1},
//	})
//
// # Packages
//
//   - dataset: schema, records and CSV loading
//   - preprocessing: mean imputation and standardization
//   - modelselection: stratified train/test splitting
//   - ensemble: the random-forest classifier
//   - metrics, evaluation: classification metrics and the evaluation report
//   - pipeline: end-to-end fit/evaluate/predict entry points
//   - render: confusion-matrix heatmap and importance bar chart rendering
package medgo
