// Package pipeline wires the full model lifecycle together: transform the
// raw table, hold out a stratified test partition, fit the forest, evaluate
// on the held-out rows and score new records with the same fitted state.
package pipeline

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/medgo-ml/medgo/dataset"
	"github.com/medgo-ml/medgo/ensemble"
	"github.com/medgo-ml/medgo/evaluation"
	"github.com/medgo-ml/medgo/modelselection"
	"github.com/medgo-ml/medgo/pkg/errors"
	"github.com/medgo-ml/medgo/pkg/log"
	"github.com/medgo-ml/medgo/preprocessing"
)

// Config holds the pipeline-level knobs plus the forest configuration.
type Config struct {
	// TestFraction is the share of rows held out per class. Default 0.2.
	TestFraction float64

	// Seed drives the split and, unless Forest.Seed is set, the forest.
	Seed int64

	// Forest configures the classifier. A zero Seed inherits the pipeline
	// seed so one value reproduces the whole run.
	Forest ensemble.Config
}

func (c Config) withDefaults() Config {
	if c.TestFraction == 0 {
		c.TestFraction = 0.2
	}
	if c.Forest.Seed == 0 {
		c.Forest.Seed = c.Seed
	}
	return c
}

// Prediction is the scoring result for one record: the winning label and the
// full label-to-vote-fraction distribution, which sums to 1.
type Prediction struct {
	Label         string
	Probabilities map[string]float64
}

// Pipeline binds a schema, a fitted transformer and a fitted classifier.
// After Fit succeeds the fitted state is immutable; Evaluate and Predict
// only read it and are safe to call concurrently.
type Pipeline struct {
	schema dataset.Schema
	cfg    Config

	transformer *preprocessing.FeatureTransformer
	classifier  *ensemble.RandomForestClassifier

	xTest *mat.Dense
	yTest []string
}

// New creates an unfitted pipeline for the given schema.
func New(schema dataset.Schema, cfg Config) *Pipeline {
	return &Pipeline{schema: schema, cfg: cfg.withDefaults()}
}

// Fit runs the training flow: impute+scale the full table, split off the
// stratified test partition, and train the forest on the training rows. The
// transformer and classifier fitted here are the ones used verbatim by
// Evaluate and Predict; they are never refit on later data.
//
// Any feature column with no observed values aborts with EmptyColumnError
// before splitting or training starts.
func (p *Pipeline) Fit(ds *dataset.Dataset) error {
	start := time.Now()
	if ds == nil || ds.Len() == 0 {
		return errors.Wrap(errors.ErrEmptyData, "pipeline.Fit")
	}

	transformer := preprocessing.NewFeatureTransformer(p.schema.Features)
	scaled, err := transformer.FitTransform(ds.Features())
	if err != nil {
		return err
	}

	xTrain, yTrain, xTest, yTest, err := modelselection.TrainTestSplit(scaled, ds.Labels(), p.cfg.TestFraction, p.cfg.Seed)
	if err != nil {
		return err
	}

	classifier := ensemble.NewRandomForestClassifier(p.cfg.Forest)
	if err := classifier.Fit(xTrain, yTrain); err != nil {
		return err
	}

	p.transformer = transformer
	p.classifier = classifier
	p.xTest = xTest
	p.yTest = yTest

	logger := log.For("pipeline")
	logger.Info().
		Str(log.OperationKey, "fit").
		Int(log.SamplesKey, ds.Len()).
		Int(log.FeaturesKey, len(p.schema.Features)).
		Int64(log.SeedKey, p.cfg.Seed).
		Int64(log.DurationKey, time.Since(start).Milliseconds()).
		Msg("pipeline fitted")
	return nil
}

// Transformer returns the fitted feature transformer, or nil before Fit.
func (p *Pipeline) Transformer() *preprocessing.FeatureTransformer {
	return p.transformer
}

// Classifier returns the fitted classifier, or nil before Fit.
func (p *Pipeline) Classifier() *ensemble.RandomForestClassifier {
	return p.classifier
}

// Evaluate scores the classifier on the held-out test partition and returns
// the full diagnostic report.
func (p *Pipeline) Evaluate() (*evaluation.EvaluationReport, error) {
	if p.classifier == nil {
		return nil, errors.NewNotFittedError("Pipeline", "Evaluate")
	}
	return evaluation.Evaluate(p.classifier, p.xTest, p.yTest, p.schema.Features)
}

// Predict scores new, previously unseen records with the fitted transformer
// and classifier. Each record must carry exactly the trained feature set; a
// mismatch returns SchemaMismatchError before the classifier is invoked.
// Argmax ties break toward the class earliest in the stable class order.
func (p *Pipeline) Predict(records []dataset.Record) ([]Prediction, error) {
	if p.classifier == nil {
		return nil, errors.NewNotFittedError("Pipeline", "Predict")
	}
	if len(records) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "pipeline.Predict")
	}

	x, err := dataset.Matrix(records, p.schema.Features, false)
	if err != nil {
		return nil, err
	}
	scaled, err := p.transformer.Transform(x)
	if err != nil {
		return nil, err
	}

	probs, err := p.classifier.PredictProba(scaled)
	if err != nil {
		return nil, err
	}

	classes := p.classifier.Classes()
	preds := make([]Prediction, len(records))
	for i := range records {
		dist := make(map[string]float64, len(classes))
		best := 0
		for c, class := range classes {
			pr := probs.At(i, c)
			dist[class] = pr
			if pr > probs.At(i, best) {
				best = c
			}
		}
		preds[i] = Prediction{Label: classes[best], Probabilities: dist}
	}
	return preds, nil
}

// Score is a convenience wrapper returning the held-out accuracy.
func (p *Pipeline) Score() (float64, error) {
	if p.classifier == nil {
		return 0, errors.NewNotFittedError("Pipeline", "Score")
	}
	return p.classifier.Score(p.xTest, p.yTest)
}
