// Package logger provides the no-op logger the engine uses by default.
package logger

import "github.com/himmu2625/baithkaGhar-sub009/types"

// NopLogger discards all log messages. It is the engine default when no logger is set.
type NopLogger struct{}

// Compile-time assertion that NopLogger implements Logger.
var _ types.Logger = (*NopLogger)(nil)

// NewNop creates a new no-op logger.
func NewNop() *NopLogger {
	return &NopLogger{}
}

// Debug discards the message.
func (n *NopLogger) Debug(_ string, _ ...any) {}

// Info discards the message.
func (n *NopLogger) Info(_ string, _ ...any) {}

// Warn discards the message.
func (n *NopLogger) Warn(_ string, _ ...any) {}

// Error discards the message.
func (n *NopLogger) Error(_ string, _ ...any) {}

// Fatal discards the message. It does not exit.
func (n *NopLogger) Fatal(_ string, _ ...any) {}
