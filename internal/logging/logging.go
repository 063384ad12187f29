// Package logging builds the process-wide slog.Logger from configuration.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hyperengineering/selfhelp/internal/config"
)

// ParseLevel maps a config level name to a slog.Level. Unknown names map
// to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a logger writing to stdout and, when cfg.File is set, to a
// size-rotated file. The returned closer releases the file and is never nil.
func New(cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, file)
		closer = file
	}

	handler, err := NewHandler(out, cfg.Format, ParseLevel(cfg.Level))
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return slog.New(handler), closer, nil
}

// NewHandler returns a JSON handler or, for format "text", a
// human-readable handler.
func NewHandler(w io.Writer, format string, level slog.Level) (slog.Handler, error) {
	switch strings.ToLower(format) {
	case "json", "":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}), nil
	case "text":
		return charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(level),
			ReportTimestamp: true,
		}), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
