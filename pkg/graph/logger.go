package graph

import (
	"fmt"
	"log/slog"
	"sort"
)

// SlogLogger adapts a *slog.Logger to Logger.
type SlogLogger struct {
	inner *slog.Logger
}

// NewSlogLogger wraps logger; a nil logger uses slog.Default().
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}

	return &SlogLogger{inner: logger}
}

func (l *SlogLogger) Debug(msg string, fields map[string]interface{}) {
	l.inner.Debug(msg, attrs(fields)...)
}

func (l *SlogLogger) Info(msg string, fields map[string]interface{}) {
	l.inner.Info(msg, attrs(fields)...)
}

func (l *SlogLogger) Warn(msg string, fields map[string]interface{}) {
	l.inner.Warn(msg, attrs(fields)...)
}

func (l *SlogLogger) Error(msg string, fields map[string]interface{}) {
	l.inner.Error(msg, attrs(fields)...)
}

// attrs flattens fields into sorted key/value pairs.
func attrs(fields map[string]interface{}) []any {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}

	return args
}

// leveledLogger satisfies retryablehttp.LeveledLogger.
type leveledLogger struct {
	inner Logger
}

// re-writes transport ERROR to WARN level, the caller gets the error anyway
func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.inner.Warn(msg, fieldsFromPairs(keysAndValues))
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.inner.Warn(msg, fieldsFromPairs(keysAndValues))
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.inner.Info(msg, fieldsFromPairs(keysAndValues))
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.inner.Debug(msg, fieldsFromPairs(keysAndValues))
}

func fieldsFromPairs(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		value := keysAndValues[i+1]

		// request URLs carry the access token
		switch v := value.(type) {
		case string:
			value = RedactURL(v)
		case error:
			value = RedactURL(v.Error())
		case fmt.Stringer:
			value = RedactURL(v.String())
		}

		fields[fmt.Sprint(keysAndValues[i])] = value
	}

	if len(keysAndValues)%2 == 1 {
		fields["extra"] = keysAndValues[len(keysAndValues)-1]
	}

	return fields
}
