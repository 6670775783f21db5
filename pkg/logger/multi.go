package logger

import (
	"errors"
	"fmt"
)

// MultiLogger tees the debug log to further backends, the console when
// --debug is set. Each message is formatted once so every backend records
// the same text.
type MultiLogger []Logger

// NewMultiLogger drops nil and discarding backends from ls.
func NewMultiLogger(ls ...Logger) MultiLogger {
	m := make(MultiLogger, 0, len(ls))
	for _, l := range ls {
		if _, nop := l.(*NopLogger); l == nil || nop {
			continue
		}
		m = append(m, l)
	}
	return m
}

func (m MultiLogger) fan(emit func(Logger, string, ...interface{}), format string, args []interface{}) {
	if len(m) == 0 {
		return
	}
	msg := fmt.Sprintf(format, args...)
	for _, l := range m {
		emit(l, "%s", msg)
	}
}

func (m MultiLogger) Debug(format string, args ...interface{}) {
	m.fan(Logger.Debug, format, args)
}

func (m MultiLogger) Info(format string, args ...interface{}) {
	m.fan(Logger.Info, format, args)
}

func (m MultiLogger) Warning(format string, args ...interface{}) {
	m.fan(Logger.Warning, format, args)
}

func (m MultiLogger) Error(format string, args ...interface{}) {
	m.fan(Logger.Error, format, args)
}

// Close closes every backend and joins their errors.
func (m MultiLogger) Close() error {
	var errs []error
	for _, l := range m {
		errs = append(errs, l.Close())
	}
	return errors.Join(errs...)
}

var _ Logger = MultiLogger(nil)
