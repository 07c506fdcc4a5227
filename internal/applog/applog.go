// Package applog builds the single process-wide logger used by
// everything above the driver package: scene loading, the render
// loop and both cmd/ entry points. driver itself keeps logging
// through the standard log package (see driver.Register) so that a
// future vendored GPU backend never has to pull in a logging
// framework just to satisfy an import.
package applog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// isTerminal reports whether fd refers to a character device, the
// cheapest reliable TTY test available without pulling in a
// platform-specific terminal library for a single stat call.
func isTerminal(fd uintptr) bool {
	fi, err := os.NewFile(fd, "").Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

var sugar *zap.SugaredLogger

func init() {
	cfg := zap.NewProductionConfig()
	if isTerminal(os.Stderr.Fd()) {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	l, err := cfg.Build()
	if err != nil {
		// zap.NewProductionConfig().Build() only fails on a
		// misconfigured encoder/sink, which canng happen with the
		// stock config above; fall back to a no-op logger rather
		// than panicking out of an init function.
		l = zap.NewNop()
	}
	sugar = l.Sugar()
}

// Log returns the process-wide logger.
func Log() *zap.SugaredLogger { return sugar }

// Sync flushes any buffered log entries. Callers should defer it
// from main, best-effort (Sync routinely errors on stderr when it
// is a terminal; that is not a failure worth reporting).
func Sync() { _ = sugar.Sync() }
