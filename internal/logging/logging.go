// ABOUTME: Logger construction for the mapty CLI and MCP server.
// ABOUTME: Levelled charm logger to stderr, or to a rotated file via lumberjack.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much the logger writes.
type Options struct {
	Level string
	File  string
	// Stderr is used when File is empty. Defaults to os.Stderr.
	Stderr io.Writer
}

// New builds a logger and returns a closer for any file it opened.
func New(opts Options) (*log.Logger, io.Closer) {
	var out io.Writer = opts.Stderr
	if out == nil {
		out = os.Stderr
	}
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		out, closer = rotating, rotating
	}

	logger := log.NewWithOptions(out, log.Options{
		Prefix:          "mapty",
		ReportTimestamp: opts.File != "",
		Level:           ParseLevel(opts.Level),
	})
	return logger, closer
}

// ParseLevel maps a level name to a log level, defaulting to warn.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.WarnLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
