// Package logging adapts zap to types.Logger.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// ZapLogger implements types.Logger on a zap sugared logger using its key-value methods.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// Compile-time assertion that ZapLogger implements Logger.
var _ types.Logger = (*ZapLogger)(nil)

// NewZapLogger wraps an existing sugared logger.
func NewZapLogger(sugar *zap.SugaredLogger) *ZapLogger {
	return &ZapLogger{sugar: sugar}
}

// Debug logs at debug level.
func (l *ZapLogger) Debug(msg string, keysAndValues ...any) { l.sugar.Debugw(msg, keysAndValues...) }

// Info logs at info level.
func (l *ZapLogger) Info(msg string, keysAndValues ...any) { l.sugar.Infow(msg, keysAndValues...) }

// Warn logs at warn level.
func (l *ZapLogger) Warn(msg string, keysAndValues ...any) { l.sugar.Warnw(msg, keysAndValues...) }

// Error logs at error level.
func (l *ZapLogger) Error(msg string, keysAndValues ...any) { l.sugar.Errorw(msg, keysAndValues...) }

// Fatal logs at fatal level and exits.
func (l *ZapLogger) Fatal(msg string, keysAndValues ...any) { l.sugar.Fatalw(msg, keysAndValues...) }

// Sync flushes buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

// Sugar returns the wrapped logger.
func (l *ZapLogger) Sugar() *zap.SugaredLogger {
	return l.sugar
}

// ParseLevel maps "debug", "info", "warn" and "error" onto zap levels. Anything else is info.
func ParseLevel(level string) zapcore.Level {
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

// NewZap builds a zap logger for the service binary.
//
// The "console" format uses zap's development encoder. Any other format produces JSON on
// stdout with ISO8601 timestamps under "timestamp".
//
// Parameters:
//   - level: "debug", "info", "warn" or "error"
//   - format: "json" or "console"
//   - serviceName: Added as the service_name field when not empty
//
// Returns:
//   - *ZapLogger: Logger usable as types.Logger
//   - error: Build failure
func NewZap(level, format, serviceName string) (*ZapLogger, error) {
	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stdout"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))

	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	if serviceName != "" {
		base = base.With(zap.String("service_name", serviceName))
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		base = base.With(zap.String("hostname", hostname))
	}

	return NewZapLogger(base.Sugar()), nil
}
