// Package log configures the logrus logger used at the storefront's edges.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLevel      = logrus.WarnLevel
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
)

// Options controls logger construction.
type Options struct {
	// Level is a logrus level name; empty means warn.
	Level string
	// File, when set, receives logs through a rotating writer instead of
	// Console.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Console defaults to stderr.
	Console io.Writer
}

// Setup builds a logger. The returned closer releases the log file and is
// safe to call when no file is configured.
func Setup(opts Options) (*logrus.Logger, io.Closer, error) {
	level := defaultLevel
	if raw := strings.TrimSpace(opts.Level); raw != "" {
		parsed, err := logrus.ParseLevel(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing log level: %w", err)
		}
		level = parsed
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableColors:   opts.File != "",
	})

	if opts.File == "" {
		out := opts.Console
		if out == nil {
			out = os.Stderr
		}
		logger.SetOutput(out)
		return logger, nopCloser{}, nil
	}

	if dir := filepath.Dir(opts.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
	}
	writer := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    orDefault(opts.MaxSizeMB, defaultMaxSizeMB),
		MaxBackups: orDefault(opts.MaxBackups, defaultMaxBackups),
		MaxAge:     opts.MaxAgeDays,
		LocalTime:  true,
	}
	logger.SetOutput(writer)
	return logger, writer, nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
