// ABOUTME: Structured logging for calldeck built on logrus, with text output locally and JSON elsewhere.
// ABOUTME: Logs go to a file or are discarded so they never corrupt the terminal UI.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Options controls where and how log lines are written.
type Options struct {
	Level string    // debug, info, warn, error (default info)
	Env   string    // "local" or "" selects text output; anything else selects JSON
	File  string    // log file path; empty means use Out
	Out   io.Writer // explicit writer; nil with no File means discard
}

// Logger wraps a logrus entry with calldeck-specific helpers.
type Logger struct {
	*logrus.Entry
	closer io.Closer
}

// New creates a Logger from the given options. When File is set, the parent
// directory is created and the file is opened for appending.
func New(opts Options) (*Logger, error) {
	base := logrus.New()

	if opts.Env == "" || opts.Env == "local" {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
			DisableColors:   true,
		})
	} else {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	}

	var closer io.Closer
	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		base.SetOutput(f)
		closer = f
	case opts.Out != nil:
		base.SetOutput(opts.Out)
	default:
		base.SetOutput(io.Discard)
	}

	base.SetLevel(parseLevel(opts.Level))

	return &Logger{Entry: logrus.NewEntry(base), closer: closer}, nil
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	l, _ := New(Options{})
	return l
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// WithError standardizes error logging.
func (l *Logger) WithError(err error) *logrus.Entry {
	if err == nil {
		return l.Entry
	}
	return l.Entry.WithField("error", err.Error())
}

// WithRequestID tags entries with the request correlation id.
func (l *Logger) WithRequestID(id string) *logrus.Entry {
	return l.Entry.WithField("req_id", id)
}

// WithComponent tags entries with the emitting component.
func (l *Logger) WithComponent(name string) *logrus.Entry {
	return l.Entry.WithField("component", name)
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
