package udf

import (
	"fmt"
	"sync/atomic"

	"github.com/pluots/udf-suite/pkg/log"
)

// LogSeverity is the severity of a diagnostic written with Logf.
type LogSeverity int

const (
	LogNote LogSeverity = iota
	LogWarning
	LogError
)

func (s LogSeverity) level() log.Level {
	switch s {
	case LogNote:
		return log.LevelInfo
	case LogWarning:
		return log.LevelWarn
	default:
		return log.LevelError
	}
}

var logger atomic.Pointer[log.Logger]

// SetLogger replaces the logger used by the binding layer. A nil logger
// restores log.Default().
func SetLogger(l *log.Logger) {
	logger.Store(l)
}

// Logger returns the binding layer's logger.
func Logger() *log.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return log.Default()
}

// Logf writes a diagnostic to the server's error log. It is usable from any
// phase, never fails, and never waits for output: the library logger drops
// entries when its queue is full.
//
// Process failures are invisible to clients, so every ErrProcess should be
// preceded by a Logf explaining it.
func Logf(sev LogSeverity, format string, args ...interface{}) {
	l := Logger()
	if !l.Enabled(log.CategoryRow, sev.level()) {
		return
	}
	l.Log(sev.level(), log.CategoryRow, fmt.Sprintf(format, args...))
}
