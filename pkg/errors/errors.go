// Package errors provides the error types used across the medgo pipeline.
// Every error kind is a dedicated struct so callers can branch with errors.As,
// and every constructor attaches a stack trace via cockroachdb/errors.
package errors

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Pipeline error types
//
// ===========================================================================

// DataLoadError reports malformed or unreadable input data. It is fatal to
// the current run but carries enough context (source, line) to fix the input.
type DataLoadError struct {
	Source string
	Line   int
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("medgo: failed to load %s at line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("medgo: failed to load %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds structured load-failure context to a zerolog event.
func (e *DataLoadError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("source", e.Source).
		Int("line", e.Line).
		AnErr("cause", e.Err).
		Str("type", "DataLoadError")
}

// NewDataLoadError creates a DataLoadError with a stack trace attached.
func NewDataLoadError(source string, line int, cause error) error {
	err := &DataLoadError{Source: source, Line: line, Err: cause}
	return errors.WithStack(err)
}

// EmptyColumnError indicates a feature column with zero non-missing entries,
// so its imputation mean is undefined.
type EmptyColumnError struct {
	Op     string
	Column string
}

func (e *EmptyColumnError) Error() string {
	return fmt.Sprintf("medgo: %s: feature column %q has no non-missing values, mean is undefined", e.Op, e.Column)
}

// MarshalZerologObject adds structured column context to a zerolog event.
func (e *EmptyColumnError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("type", "EmptyColumnError")
}

// NewEmptyColumnError creates an EmptyColumnError with a stack trace attached.
func NewEmptyColumnError(op, column string) error {
	err := &EmptyColumnError{Op: op, Column: column}
	return errors.WithStack(err)
}

// SchemaMismatchError indicates that input data does not carry the feature
// set the fitted state was trained on. It must never be downgraded to a
// warning: proceeding with misaligned columns would silently corrupt every
// downstream prediction.
type SchemaMismatchError struct {
	Op       string
	Expected []string
	Got      []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("medgo: %s: feature schema mismatch. Expected [%s], got [%s]",
		e.Op, strings.Join(e.Expected, ", "), strings.Join(e.Got, ", "))
}

// MarshalZerologObject adds the expected and observed schemas to a zerolog event.
func (e *SchemaMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Strs("expected", e.Expected).
		Strs("got", e.Got).
		Str("type", "SchemaMismatchError")
}

// NewSchemaMismatchError creates a SchemaMismatchError with a stack trace attached.
func NewSchemaMismatchError(op string, expected, got []string) error {
	err := &SchemaMismatchError{Op: op, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// InsufficientSamplesError indicates that a partition or label class is too
// small for the requested operation (e.g. a singleton class cannot be
// stratify-split).
type InsufficientSamplesError struct {
	Op       string
	Label    string
	Required int
	Got      int
}

func (e *InsufficientSamplesError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("medgo: %s: label class %q has %d samples, need at least %d", e.Op, e.Label, e.Got, e.Required)
	}
	return fmt.Sprintf("medgo: %s: got %d samples, need at least %d", e.Op, e.Got, e.Required)
}

// MarshalZerologObject adds structured sample counts to a zerolog event.
func (e *InsufficientSamplesError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("label", e.Label).
		Int("required", e.Required).
		Int("got", e.Got).
		Str("type", "InsufficientSamplesError")
}

// NewInsufficientSamplesError creates an InsufficientSamplesError with a stack
// trace attached. label may be empty when the shortage is not class-specific.
func NewInsufficientSamplesError(op, label string, required, got int) error {
	err := &InsufficientSamplesError{Op: op, Label: label, Required: required, Got: got}
	return errors.WithStack(err)
}

// LabelCardinalityError indicates a training label vector with fewer than two
// distinct classes, which makes classification degenerate.
type LabelCardinalityError struct {
	Op       string
	Distinct int
}

func (e *LabelCardinalityError) Error() string {
	return fmt.Sprintf("medgo: %s: need at least 2 distinct labels, got %d", e.Op, e.Distinct)
}

// MarshalZerologObject adds the observed cardinality to a zerolog event.
func (e *LabelCardinalityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("distinct", e.Distinct).
		Str("type", "LabelCardinalityError")
}

// NewLabelCardinalityError creates a LabelCardinalityError with a stack trace attached.
func NewLabelCardinalityError(op string, distinct int) error {
	err := &LabelCardinalityError{Op: op, Distinct: distinct}
	return errors.WithStack(err)
}

// LabelMismatchError indicates evaluation labels that the classifier never
// saw during training, so the affected rows cannot be scored meaningfully.
type LabelMismatchError struct {
	Op      string
	Unknown []string
}

func (e *LabelMismatchError) Error() string {
	return fmt.Sprintf("medgo: %s: labels [%s] were not present during training", e.Op, strings.Join(e.Unknown, ", "))
}

// MarshalZerologObject adds the unknown labels to a zerolog event.
func (e *LabelMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Strs("unknown_labels", e.Unknown).
		Str("type", "LabelMismatchError")
}

// NewLabelMismatchError creates a LabelMismatchError with a stack trace attached.
func NewLabelMismatchError(op string, unknown []string) error {
	err := &LabelMismatchError{Op: op, Unknown: unknown}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Generic estimator errors
//
// ===========================================================================

// NotFittedError is returned when Predict or Transform is called on an
// estimator before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("medgo: %s: this estimator is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds estimator context to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError reports an input whose dimensions differ from what the
// fitted state expects.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("medgo: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured dimension context to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is out of its valid range.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("medgo: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common sentinel errors
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an operation receives no rows or columns.
	ErrEmptyData = New("empty data")
)
