package testing

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/himmu2625/baithkaGhar-sub009/internal/logging"
	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// NewTestLogger returns a debug-level zap logger that writes through tb, so output is
// attached to the test that produced it. Fatal ends the test goroutine instead of the
// process.
func NewTestLogger(tb testing.TB) types.Logger {
	z := zaptest.NewLogger(tb,
		zaptest.Level(zapcore.DebugLevel),
		zaptest.WrapOptions(zap.WithFatalHook(zapcore.WriteThenGoexit)),
	)

	return logging.NewZapLogger(z.Sugar())
}
