package engine

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the engine package's logger instance. It uses a no-op
// logger by default so importing this package never produces output
// without an explicit opt-in.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the engine package's logger. Call this before
// constructing any Engine if you want construction/reset logged too.
func SetLogger(l *zap.Logger) {
	logger = l
}
