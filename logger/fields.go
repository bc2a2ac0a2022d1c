package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across alman.
// Use these constants instead of raw strings.
const (
	FieldOperation = "operation"

	// Domain
	FieldCommand = "command"
	FieldAlias   = "alias"
	FieldShell   = "shell"
	FieldBackend = "backend"

	// Store aggregates
	FieldTotalScore = "total_score"
	FieldEntries    = "entries"
	FieldThreshold  = "threshold"

	// Counts and sizes
	FieldCount = "count"
	FieldLines = "lines"

	// Files and paths
	FieldFile = "file"
	FieldPath = "path"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Watcher struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewWatcher() *Watcher {
//	    return &Watcher{
//	        logger: logger.ComponentLogger("history.watcher"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}

// OrNop returns l, or a no-op logger when l is nil.
// Constructors accept a nil logger to mean "stay silent".
func OrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return zap.NewNop().Sugar()
	}
	return l
}
