// Package log provides structured logging for medgo, backed by zerolog.
//
// The package keeps a single process-wide logger. Library code obtains a
// component-scoped child via For and logs fit/evaluate events with the
// attribute keys defined in this package, so downstream log pipelines can
// filter on stable field names.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Attribute keys shared by all medgo log events.
const (
	ComponentKey = "component"
	OperationKey = "operation"
	SamplesKey   = "samples"
	FeaturesKey  = "features"
	ClassesKey   = "classes"
	TreesKey     = "trees"
	AccuracyKey  = "accuracy"
	DurationKey  = "duration_ms"
	SeedKey      = "seed"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)
)

// SetLogger replaces the process-wide logger. Intended for applications that
// already configure zerolog and want medgo events routed through it.
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// SetOutput redirects log output, keeping the current level.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Output(w)
}

// SetLevel adjusts the global verbosity. The default is warn so that library
// use stays quiet unless the caller opts in.
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Level(level)
}

// For returns a child logger tagged with the given component name.
func For(component string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger.With().Str(ComponentKey, component).Logger()
}

// Warn logs a warning error object through the process-wide logger. Error
// types implementing zerolog.LogObjectMarshaler are emitted structured.
func Warn(err error) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	if marshaler, ok := err.(zerolog.LogObjectMarshaler); ok {
		l.Warn().Object("warning", marshaler).Msg(err.Error())
		return
	}
	l.Warn().Err(err).Msg("medgo warning")
}
