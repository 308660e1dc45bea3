package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/medgo-ml/medgo/pkg/errors"
)

// LoadCSV reads a headed CSV file into a Dataset using the given schema.
// Empty cells and the literal strings "NA", "NaN" and "?" become missing
// values; any other unparsable cell is a DataLoadError with the offending
// line number. Columns outside the schema are ignored.
func LoadCSV(path string, schema Schema) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataLoadError(path, 0, err)
	}
	defer func() { _ = f.Close() }()

	ds, err := ReadCSV(f, schema)
	if err != nil {
		// ReadCSV has no file name; stamp it in before surfacing.
		var e *errors.DataLoadError
		if errors.As(err, &e) && e.Source == "" {
			return nil, errors.NewDataLoadError(path, e.Line, e.Err)
		}
		return nil, err
	}
	return ds, nil
}

// ReadCSV reads headed CSV content from r into a Dataset.
func ReadCSV(r io.Reader, schema Schema) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewDataLoadError("", 1, errors.Wrap(err, "reading header"))
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(name)] = i
	}
	for _, feat := range schema.Features {
		if _, ok := colIndex[feat]; !ok {
			return nil, errors.NewDataLoadError("", 1, errors.Newf("missing feature column %q in header", feat))
		}
	}
	targetIdx, ok := colIndex[schema.Target]
	if !ok {
		return nil, errors.NewDataLoadError("", 1, errors.Newf("missing target column %q in header", schema.Target))
	}

	var records []Record
	var labels []string
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.NewDataLoadError("", line, err)
		}

		rec := make(Record, len(schema.Features))
		for _, feat := range schema.Features {
			cell := strings.TrimSpace(row[colIndex[feat]])
			if isMissingCell(cell) {
				rec[feat] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.NewDataLoadError("", line, errors.Newf("column %q: cannot parse %q as number", feat, cell))
			}
			rec[feat] = v
		}

		label := strings.TrimSpace(row[targetIdx])
		if label == "" {
			return nil, errors.NewDataLoadError("", line, errors.Newf("empty target value in column %q", schema.Target))
		}
		records = append(records, rec)
		labels = append(labels, label)
	}

	if len(records) == 0 {
		return nil, errors.NewDataLoadError("", line, errors.Wrap(errors.ErrEmptyData, "no data rows"))
	}
	return New(schema, records, labels)
}

func isMissingCell(cell string) bool {
	switch cell {
	case "", "NA", "NaN", "nan", "?":
		return true
	}
	return false
}
