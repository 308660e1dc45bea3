// Package dataset defines the tabular data model of medgo: named numeric
// feature columns plus a single categorical target column. Missing feature
// values are represented as NaN until the preprocessing stage imputes them.
package dataset

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/medgo-ml/medgo/pkg/errors"
)

// Record is one row of the input table: feature name to numeric value.
// A NaN value marks a missing entry.
type Record map[string]float64

// Schema fixes the feature column order and the target column name for a
// dataset. The feature order is the column order of every matrix derived
// from the schema, so fitted state stays aligned across train, test and
// inference data.
type Schema struct {
	Features []string
	Target   string
}

// NewSchema validates feature and target column names and returns a Schema.
func NewSchema(features []string, target string) (Schema, error) {
	if len(features) == 0 {
		return Schema{}, errors.NewValueError("NewSchema", "at least one feature column is required")
	}
	if target == "" {
		return Schema{}, errors.NewValueError("NewSchema", "target column name must not be empty")
	}
	seen := make(map[string]bool, len(features))
	for _, f := range features {
		if f == "" {
			return Schema{}, errors.NewValueError("NewSchema", "feature column names must not be empty")
		}
		if f == target {
			return Schema{}, errors.NewValueError("NewSchema", "target column cannot also be a feature: "+f)
		}
		if seen[f] {
			return Schema{}, errors.NewValueError("NewSchema", "duplicate feature column: "+f)
		}
		seen[f] = true
	}
	cp := make([]string, len(features))
	copy(cp, features)
	return Schema{Features: cp, Target: target}, nil
}

// Dataset is an ordered sequence of records sharing one schema, materialized
// as a dense feature matrix and an aligned label vector.
type Dataset struct {
	schema Schema
	x      *mat.Dense
	labels []string
}

// New builds a Dataset from records. Features absent from a record become
// NaN (missing) and entries outside the schema are ignored, mirroring the
// CSV loader. Inference paths use the strict Matrix mode instead.
func New(schema Schema, records []Record, labels []string) (*Dataset, error) {
	if len(records) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "dataset.New")
	}
	if len(labels) != len(records) {
		return nil, errors.NewDimensionError("dataset.New", len(records), len(labels), 0)
	}

	x, err := Matrix(records, schema.Features, true)
	if err != nil {
		return nil, err
	}

	cp := make([]string, len(labels))
	copy(cp, labels)
	return &Dataset{schema: schema, x: x, labels: cp}, nil
}

// Schema returns the dataset's schema.
func (d *Dataset) Schema() Schema { return d.schema }

// Features returns the n×f feature matrix in schema column order.
func (d *Dataset) Features() *mat.Dense { return d.x }

// Labels returns the label vector aligned with Features rows.
func (d *Dataset) Labels() []string { return d.labels }

// Len returns the number of records.
func (d *Dataset) Len() int {
	r, _ := d.x.Dims()
	return r
}

// Matrix converts records into a dense matrix with columns in the given
// feature order. When allowMissing is true, absent features become NaN;
// otherwise any absent or extra feature is a SchemaMismatchError. Inference
// paths use the strict mode so a record missing a trained column never
// reaches the classifier.
func Matrix(records []Record, features []string, allowMissing bool) (*mat.Dense, error) {
	if len(records) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "dataset.Matrix")
	}

	x := mat.NewDense(len(records), len(features), nil)
	for i, rec := range records {
		if !allowMissing {
			if err := checkRecordSchema(rec, features); err != nil {
				return nil, err
			}
		}
		for j, name := range features {
			v, ok := rec[name]
			if !ok {
				v = math.NaN()
			}
			x.Set(i, j, v)
		}
	}
	return x, nil
}

func checkRecordSchema(rec Record, features []string) error {
	ok := len(rec) == len(features)
	if ok {
		for _, name := range features {
			if _, present := rec[name]; !present {
				ok = false
				break
			}
		}
	}
	if !ok {
		got := make([]string, 0, len(rec))
		for name := range rec {
			got = append(got, name)
		}
		sort.Strings(got)
		return errors.NewSchemaMismatchError("dataset.Matrix", features, got)
	}
	return nil
}
