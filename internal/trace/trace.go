// Package trace holds the logger shared by all dgsurface packages and a small
// block timer used to report the duration of processing steps.
package trace

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// nopHandler discards every record. Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs the logger used by dgsurface. By default nothing is
// logged. Pass nil to restore the silent default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// Block is a timed processing step.
type Block struct {
	name  string
	start time.Time
}

// Begin logs the start of a step and returns it.
func Begin(name string) *Block {
	Logger().Info("begin", "block", name)
	return &Block{name: name, start: time.Now()}
}

// End logs the end of the step with its duration and returns the duration.
func (b *Block) End() time.Duration {
	d := time.Since(b.start)
	Logger().Info("end", "block", b.name, "elapsed", d)
	return d
}
