// Package logging constructs the zap loggers shared by every pipeline
// component, named per component for structured, filterable output.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	base   *zap.Logger
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	inited bool
)

// SetDebug toggles debug-level verbosity for every logger returned by For,
// including ones already handed out (they share the same AtomicLevel).
func SetDebug(on bool) {
	if on {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.InfoLevel)
	}
}

func ensureBase() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if inited {
		return base
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(zapcore.AddSync(zapDefaultSink())), level)
	base = zap.New(core)
	inited = true
	return base
}

// For returns a named child logger for component.
func For(component string) *zap.SugaredLogger {
	return ensureBase().Named(component).Sugar()
}

// Sync flushes buffered log entries; callers should defer it in main.
func Sync() error {
	mu.Lock()
	defer mu.Unlock()
	if !inited {
		return nil
	}
	return base.Sync()
}
