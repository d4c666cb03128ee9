// Package logging builds the zap logger described by configs.LogConfig.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Humphrey-He/vanya/configs"
)

// Logger is a zap logger whose level can be changed after construction,
// so a reloaded log.level takes effect without rebuilding sinks.
type Logger struct {
	*zap.Logger
	level zap.AtomicLevel
}

// New builds a logger from cfg. Format "text" selects the console encoder;
// output "file" appends to cfg.FilePath.
func New(cfg configs.LogConfig) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.Sampling = nil

	switch cfg.Format {
	case "", "json":
		zc.Encoding = "json"
	case "text":
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}

	switch cfg.Output {
	case "", "stdout":
		zc.OutputPaths = []string{"stdout"}
	case "stderr":
		zc.OutputPaths = []string{"stderr"}
	case "file":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("log file path is required for file output")
		}
		zc.OutputPaths = []string{cfg.FilePath}
	default:
		return nil, fmt.Errorf("unsupported log output: %s", cfg.Output)
	}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &Logger{Logger: logger, level: zc.Level}, nil
}

// SetLevel changes the minimum level. Unknown names are rejected.
func (l *Logger) SetLevel(name string) error {
	level, err := ParseLevel(name)
	if err != nil {
		return err
	}
	l.level.SetLevel(level)
	return nil
}

// Level returns the current minimum level.
func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

// ParseLevel maps a configured level name onto a zap level. Empty means info.
func ParseLevel(name string) (zapcore.Level, error) {
	switch name {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unsupported log level: %s", name)
}
