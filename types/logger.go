package types

// Logger is the structured logger used throughout the engine.
//
// Key-value pairs follow the message: logger.Info("assigned", "room", "1204").
// internal/logging adapts zap to it.
type Logger interface {
	// Debug logs at debug level.
	Debug(msg string, keysAndValues ...any)

	// Info logs at info level.
	Info(msg string, keysAndValues ...any)

	// Warn logs at warn level.
	Warn(msg string, keysAndValues ...any)

	// Error logs at error level.
	Error(msg string, keysAndValues ...any)

	// Fatal logs at fatal level and then exits the process.
	Fatal(msg string, keysAndValues ...any)
}
