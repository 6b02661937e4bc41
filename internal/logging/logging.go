package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger provides diagnostic logging, kept apart from the comparison report on stdout
type Logger struct {
	log *logrus.Logger
}

// NewLogger creates a logger writing to out at the given level
func NewLogger(out io.Writer, level string, quiet bool) (*Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	if quiet && lvl > logrus.ErrorLevel {
		lvl = logrus.ErrorLevel
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	return &Logger{log: l}, nil
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Logger{log: l}
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

// WithField returns an entry for structured fields
func (l *Logger) WithField(key string, value interface{}) *logrus.Entry {
	return l.log.WithField(key, value)
}

// Summary holds the counts printed at the end of a run
type Summary struct {
	Compared    int
	Matched     int
	Mismatched  int
	Missing     int
	Errors      int
	Excluded    int
	BytesHashed int64
	Duration    time.Duration
}

// PrintSummary logs a summary of the comparison
func (l *Logger) PrintSummary(s Summary) {
	l.log.WithFields(logrus.Fields{
		"compared":   s.Compared,
		"matched":    s.Matched,
		"mismatched": s.Mismatched,
		"missing":    s.Missing,
		"errors":     s.Errors,
		"excluded":   s.Excluded,
		"hashed":     FormatBytes(s.BytesHashed),
		"duration":   s.Duration.Round(time.Millisecond).String(),
	}).Info("Summary")
}

// FormatBytes formats bytes in human readable format
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
