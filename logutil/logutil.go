// Package logutil sets up the diagnostic log file. The terminal belongs to
// the UI, so nothing is ever logged to stdout or stderr while it runs.
package logutil

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultPath is the diagnostic file used when none is configured.
const DefaultPath = "cmus-lyrics.log"

// Open returns a logger appending to the file at path. Only warnings and
// errors are written unless verbose is set. Close the returned closer on exit.
func Open(path string, verbose bool) (*logrus.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return New(f, verbose), f, nil
}

// New returns a logger writing plain text lines to w.
func New(w io.Writer, verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
	l.SetLevel(logrus.WarnLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := New(io.Discard, false)
	l.SetLevel(logrus.PanicLevel)
	return l
}
