// Package logger holds the process-wide zap logger shared by the API server
// and the history worker.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the shared logger. Init must be called once at startup before any
// component logs through it.
var Log *zap.Logger

// Init builds the shared logger from the logging config. With a file path,
// production JSON output goes to both the file and stdout; without one, a
// development console logger is used.
func Init(level string, logFile string) error {
	var cfg zap.Config
	if logFile != "" {
		cfg = zap.NewProductionConfig()
		cfg.OutputPaths = []string{logFile, "stdout"}
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	log, err := cfg.Build()
	if err != nil {
		return err
	}

	Log = log
	return nil
}

// parseLevel maps the configured level name to a zap level. Unknown names
// fall back to info rather than failing startup.
func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sync flushes any buffered log entries. Safe to call when Init was never
// run, so deferred calls in main work on early exits.
func Sync() error {
	if Log == nil {
		return nil
	}
	return Log.Sync()
}
