// Package logger provides the process-wide zap logger. The TUI owns the
// terminal, so records only go to a file; with no file configured they are
// discarded.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var L = zap.NewNop()

// Init points L at path. An empty path keeps the no-op logger.
func Init(path string, level string) error {
	if strings.TrimSpace(path) == "" {
		L = zap.NewNop()
		return nil
	}

	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}

	built, err := config.Build()
	if err != nil {
		return err
	}
	L = built
	return nil
}

// Sync flushes buffered records.
func Sync() {
	_ = L.Sync()
}

// WithComponent returns a logger tagged with a component field.
func WithComponent(component string) *zap.Logger {
	return L.With(zap.String("component", component))
}
