// Package logger provides the leveled logging interface used across touchpos.
// The default backend is zerolog writing JSON lines to the debug log file,
// optionally mirrored to a human readable console writer.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger defines the logging interface shared by every touchpos component.
// Implementations must be safe for concurrent use.
type Logger interface {
	// Debug logs diagnostic detail (request ids, cache hits).
	Debug(format string, args ...interface{})

	// Info logs an informational message (e.g., "session restored").
	Info(format string, args ...interface{})

	// Warning logs a recoverable failure (e.g., "session save failed").
	Warning(format string, args ...interface{})

	// Error logs a failure surfaced to the user.
	Error(format string, args ...interface{})

	// Close releases resources held by the logger. Safe to call multiple times.
	Close() error
}

// ZeroLogger writes leveled messages through a zerolog.Logger.
type ZeroLogger struct {
	zl     zerolog.Logger
	closer io.Closer
	once   sync.Once
}

// New creates a ZeroLogger writing JSON lines to w. When debug is false,
// debug messages are dropped.
func New(w io.Writer, debug bool) *ZeroLogger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &ZeroLogger{zl: zl}
}

// NewConsole creates a ZeroLogger with zerolog's console formatting, used
// for interactive CLI runs.
func NewConsole(w io.Writer, debug bool) *ZeroLogger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	return New(cw, debug)
}

// NewFile opens (or creates) the log file at path in append mode, creating
// parent directories as needed.
func NewFile(path string, debug bool) (*ZeroLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := New(f, debug)
	l.closer = f
	return l, nil
}

// Debug logs at debug level.
func (z *ZeroLogger) Debug(format string, args ...interface{}) {
	z.zl.Debug().Msgf(format, args...)
}

// Info logs at info level.
func (z *ZeroLogger) Info(format string, args ...interface{}) {
	z.zl.Info().Msgf(format, args...)
}

// Warning logs at warn level.
func (z *ZeroLogger) Warning(format string, args ...interface{}) {
	z.zl.Warn().Msgf(format, args...)
}

// Error logs at error level.
func (z *ZeroLogger) Error(format string, args ...interface{}) {
	z.zl.Error().Msgf(format, args...)
}

// Close closes the underlying file, if any.
func (z *ZeroLogger) Close() error {
	var err error
	z.once.Do(func() {
		if z.closer != nil {
			err = z.closer.Close()
		}
	})
	return err
}

// NopLogger discards all messages.
type NopLogger struct{}

// NewNopLogger creates a logger that discards all messages.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Debug(format string, args ...interface{})   {}
func (n *NopLogger) Info(format string, args ...interface{})    {}
func (n *NopLogger) Warning(format string, args ...interface{}) {}
func (n *NopLogger) Error(format string, args ...interface{})   {}
func (n *NopLogger) Close() error                               { return nil }

// MockLogger records formatted messages for assertions in tests.
type MockLogger struct {
	mu           sync.Mutex
	DebugCalls   []string
	InfoCalls    []string
	WarningCalls []string
	ErrorCalls   []string
	CloseCalled  bool
}

// NewMockLogger creates a new MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) record(dst *[]string, format string, args []interface{}) {
	m.mu.Lock()
	*dst = append(*dst, fmt.Sprintf(format, args...))
	m.mu.Unlock()
}

func (m *MockLogger) Debug(format string, args ...interface{}) {
	m.record(&m.DebugCalls, format, args)
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.record(&m.InfoCalls, format, args)
}

func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.record(&m.WarningCalls, format, args)
}

func (m *MockLogger) Error(format string, args ...interface{}) {
	m.record(&m.ErrorCalls, format, args)
}

func (m *MockLogger) Close() error {
	m.mu.Lock()
	m.CloseCalled = true
	m.mu.Unlock()
	return nil
}

// Warnings returns a copy of the recorded warning messages.
func (m *MockLogger) Warnings() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.WarningCalls...)
}

// Ensure implementations satisfy the Logger interface.
var (
	_ Logger = (*ZeroLogger)(nil)
	_ Logger = (*NopLogger)(nil)
	_ Logger = (*MockLogger)(nil)
)

// OrNop returns l, or a NopLogger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}
