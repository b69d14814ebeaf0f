package worker

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gyurix/soitrontask/failure"
)

// Log is the per-worker log sink.
// Every line is kept in an append-only info or error sequence and emitted
// to slog tagged with the worker's name.
type Log struct {
	name   string
	logger *slog.Logger

	mu     sync.Mutex
	info   []string
	errors []string
}

// NewLog creates a sink for the worker called name
func NewLog(name string, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{
		name:   name,
		logger: logger.With("worker", name),
	}
}

// Name returns the worker's identity
func (l *Log) Name() string {
	return l.name
}

// Info records an informational line
func (l *Log) Info(msg any) {
	line := fmt.Sprint(msg)
	l.mu.Lock()
	l.info = append(l.info, line)
	l.mu.Unlock()
	l.logger.Info(line)
}

// Error records an error line
func (l *Log) Error(msg any) {
	line := fmt.Sprint(msg)
	l.mu.Lock()
	l.errors = append(l.errors, line)
	l.mu.Unlock()
	l.logger.Error(line)
}

// Failure records headline, the error's category and message, and one line
// per frame of the place the error was raised.
// The slog record carries the frames as a single trace attribute.
func (l *Log) Failure(headline string, err error) {
	category := failure.Category(err)
	trace := failure.Trace(err)

	l.mu.Lock()
	l.errors = append(l.errors, headline, category+" - "+err.Error())
	l.errors = append(l.errors, trace...)
	l.mu.Unlock()

	l.logger.Error(headline, "category", category, "error", err, "trace", trace)
}

// InfoLines returns a copy of the informational lines
func (l *Log) InfoLines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.info...)
}

// ErrorLines returns a copy of the error lines
func (l *Log) ErrorLines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.errors...)
}
