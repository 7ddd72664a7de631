// Package logging builds the browser's zap logger. The browser owns
// the whole terminal, so log output can never share stdout or stderr
// with the canvas; it goes to a file, and only when enabled.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const defaultFileName = "padbrowse.log"

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// New builds a logger writing JSON lines to a file. When enabled is
// false it returns a no-op logger. An empty file path puts the log
// next to the rest of the state in dir.
func New(enabled bool, dir, file string) (*zap.Logger, error) {
	if !enabled {
		return zap.NewNop(), nil
	}

	if file == "" {
		file = filepath.Join(dir, defaultFileName)
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{file}
	cfg.ErrorOutputPaths = []string{file}
	cfg.DisableStacktrace = true
	return cfg.Build()
}
