package ocif

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger creates a logger writing to w at the given level, with
// "HH:MM:SS.ms" timestamps and an "ocif" prefix.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "ocif",
	})
}

// defaultLogger is used by editors created without WithLogger.
func defaultLogger() *log.Logger {
	return NewLogger(os.Stderr, log.WarnLevel)
}

// SetDebugMode enables or disables debug logging. When enabled, the editor
// logs gesture start and finish, mode changes, batch flushes, and events no
// plugin handled.
func (e *Editor) SetDebugMode(enabled bool) {
	e.debug = enabled
	if enabled {
		e.log.SetLevel(log.DebugLevel)
	} else {
		e.log.SetLevel(e.baseLevel)
	}
}

// debugGesture logs a gesture transition. Only called when debug is set.
func (e *Editor) debugGesture(verb string, g Gesture) {
	if !e.debug || g == nil {
		return
	}
	e.log.Debug("gesture "+verb, "kind", g.Kind())
}

// debugFlush logs a batch flush with its size and duration.
func (e *Editor) debugFlush(nodes int, start time.Time) {
	if !e.debug {
		return
	}
	e.log.Debug("flush", "nodes", nodes, "took", time.Since(start).Round(time.Microsecond))
}
