package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/swing-o-matic/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logLevels = map[string]zapcore.Level{
	"debug":   zapcore.DebugLevel,
	"info":    zapcore.InfoLevel,
	"warn":    zapcore.WarnLevel,
	"warning": zapcore.WarnLevel,
	"error":   zapcore.ErrorLevel,
}

// initializeLogger builds the process logger from the logging section. A
// non-empty override (the --log-level flag) replaces the configured level.
// Results own stdout, so logs go to stderr unless an output file is set.
func initializeLogger(logging config.LoggingConfig, override string) (*zap.Logger, error) {
	name := logging.Level
	if override != "" {
		name = override
	}
	level, err := parseLogLevel(name)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	switch strings.ToLower(strings.TrimSpace(logging.Format)) {
	case "", "json":
		zc = zap.NewProductionConfig()
		// Every ignored slider value is reported
		zc.Sampling = nil
	case "console":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", logging.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.InitialFields = map[string]interface{}{"app": "swing-o-matic", "version": version}
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	if path := strings.TrimSpace(logging.OutputFile); path != "" {
		if err := ensureLogFile(path); err != nil {
			return nil, err
		}
		zc.OutputPaths = []string{path}
		zc.ErrorOutputPaths = []string{path}
	}

	return zc.Build()
}

func parseLogLevel(name string) (zapcore.Level, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return zapcore.InfoLevel, nil
	}
	level, ok := logLevels[key]
	if !ok {
		return 0, fmt.Errorf("invalid log level: %s", name)
	}
	return level, nil
}

// ensureLogFile creates the log file and its directory so a bad path fails
// at startup instead of on the first write.
func ensureLogFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory for %s: %w", path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file.Close()
}
