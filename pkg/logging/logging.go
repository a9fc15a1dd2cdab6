// Package logging builds the process logger. The TUI owns the terminal, so
// logs always go to a file under the project directory.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pluqqy/taxo-terminal/pkg/models"
)

// New creates a JSON file logger tagged with a fresh session id. Relative
// file paths are resolved against baseDir. verbose forces debug level.
func New(cfg models.LoggingSettings, baseDir string, verbose bool) (*zap.Logger, error) {
	path := cfg.File
	if path == "" {
		path = models.DefaultSettings().Logging.File
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.With(zap.String("session", uuid.NewString())), nil
}

// ParseLevel maps a settings string to a zap level, defaulting to info
func ParseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return zapcore.InfoLevel
	}
	return l
}
