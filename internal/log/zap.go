// Package log holds the process-wide zap logger.
package log

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the shared logger. It discards everything until one of the Init functions runs.
var Logger = zap.NewNop()

// Field constructors re-exported for call sites that only import this package.
var (
	String   = zap.String
	Strings  = zap.Strings
	Int      = zap.Int
	Int64    = zap.Int64
	Float64  = zap.Float64
	Bool     = zap.Bool
	Duration = zap.Duration
	Any      = zap.Any
)

// InitDevelopmentLogger installs a human-readable logger at debug level.
func InitDevelopmentLogger() {
	Logger, _ = zap.NewDevelopment()
}

// Init installs a logger for the named level. Debug selects the development logger, the
// other levels a production logger writing to stderr. An empty level means warn.
func Init(level string) error {
	switch level {
	case "debug":
		InitDevelopmentLogger()
		return nil
	case "":
		level = "warn"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	Logger = logger
	return nil
}

// Named returns a child logger for a subsystem.
func Named(name string) *zap.Logger {
	return Logger.Named(name)
}

// ErrorField wraps an error as a structured field.
func ErrorField(err error) zap.Field {
	return zap.Error(err)
}

// Debug logs at debug level.
func Debug(msg string, fields ...zap.Field) { Logger.Debug(msg, fields...) }

// Info logs at info level.
func Info(msg string, fields ...zap.Field) { Logger.Info(msg, fields...) }

// Warn logs at warn level.
func Warn(msg string, fields ...zap.Field) { Logger.Warn(msg, fields...) }

// Error logs at error level.
func Error(msg string, fields ...zap.Field) { Logger.Error(msg, fields...) }

// Sync flushes buffered entries.
func Sync() {
	_ = Logger.Sync()
}
