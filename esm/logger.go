package esm

import (
	"log/slog"
	"os"
)

// Logger is the "simple debug(string) sink" collaborator spec §6 names.
// Convert calls it sparingly, at conversion-milestone granularity, never
// per-record; the core never depends on logged output for correctness.
type Logger interface {
	Debug(msg string, args ...any)
}

// noopLogger discards everything; the package default.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}

// slogAdapter lets a *slog.Logger satisfy Logger, the way
// cmd/hiveexplorer/logger wraps slog for the rest of hivekit.
type slogAdapter struct{ l *slog.Logger }

func (s slogAdapter) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }

// logger is the package-level debug sink, toggled by Options.Verbose
// (verboseLogger) or replaced outright via SetLogger.
var logger Logger = noopLogger{}

// verboseLogger is what a Convert call with Options.Verbose switches to
// when the caller hasn't installed their own Logger via SetLogger.
var verboseLogger Logger = slogAdapter{l: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))}

var loggerOverridden bool

// SetLogger installs a caller-supplied Logger (e.g. to route into an
// existing *slog.Logger or *log.Logger), overriding Options.Verbose's
// noop/stderr default.
func SetLogger(l Logger) {
	logger = l
	loggerOverridden = true
}

func applyVerbose(verbose bool) {
	if loggerOverridden {
		return
	}
	if verbose {
		logger = verboseLogger
	} else {
		logger = noopLogger{}
	}
}

// debugf is Convert's single point of contact with the logger, so its
// milestone call sites read as plain statements rather than logger.Debug(...).
func debugf(msg string, args ...any) {
	logger.Debug(msg, args...)
}
