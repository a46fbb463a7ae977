package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	trace     *zap.Logger
	traceOnce sync.Once
)

// Trace returns the logger used for pipeline tracing (stage timings,
// schedules, renames). It is a no-op logger unless SetTrace was called.
func Trace() *zap.Logger {
	traceOnce.Do(func() {
		if trace == nil {
			trace = zap.NewNop()
		}
	})
	return trace
}

// SetTrace installs the tracing logger. Call it before linking.
func SetTrace(l *zap.Logger) {
	trace = l
}
