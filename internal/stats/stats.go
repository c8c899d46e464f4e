// Package stats reports the progress of a merge run.
package stats

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/essepuntato/dimm/pkg/progress"
	"github.com/tkw1536/pkglib/lazy"
	"github.com/tkw1536/pkglib/perf"
)

// Stats logs diagnostics and collects per-stage performance figures for a
// merge run. Messages go to an underlying io.Writer as structured log lines.
//
// Stats may be accessed concurrently, but only one stage can be active at a
// time.
//
// A nil Stats is valid and discards everything written to it.
type Stats struct {
	// once done, a Stats ignores all further edits.
	done atomic.Bool
	m    sync.RWMutex // guards current and all

	logger *slog.Logger
	level  *slog.LevelVar
	line   *progress.Rewritable // terminal progress line

	totals lazy.Lazy[Totals]

	current StageStats
	all     []StageStats // finished stages
}

// Totals summarizes a finished merge.
type Totals struct {
	Files      int    // input files merged
	Statements uint64 // statements in the final document
	Imported   int    // statements imported by resolving references
	Suppressed int    // statements dropped from repeated definitions
	Orphans    int    // statements removed together with orphaned blank nodes
	Dangling   int    // statements removed together with dangling bridges
	Unresolved int    // references left without a definition
}

// New creates a Stats writing to w.
// Only messages at warning level or above are written until [Stats.SetLevel] is called.
func New(w io.Writer) *Stats {
	if w == nil {
		return &Stats{}
	}

	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)

	line := &progress.Rewritable{Writer: w}
	line.FlushInterval = progress.DefaultFlushInterval

	return &Stats{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
		level:  level,
		line:   line,
	}
}

// SetLevel sets the minimum level of messages written by this Stats.
func (st *Stats) SetLevel(level slog.Level) {
	if st == nil || st.level == nil {
		return
	}
	st.level.Set(level)
}

// Level returns the minimum level of messages written by this Stats.
func (st *Stats) Level() slog.Level {
	if st == nil || st.level == nil {
		return slog.LevelWarn
	}
	return st.level.Level()
}

func (st *Stats) log(level slog.Level, message string, fields ...any) {
	if st == nil || st.logger == nil {
		return
	}
	st.logger.Log(context.Background(), level, message, fields...)
}

// Log writes an informational message together with key, value field pairs.
func (st *Stats) Log(message string, fields ...any) {
	st.log(slog.LevelInfo, message, fields...)
}

// LogDebug writes a debug message together with key, value field pairs.
func (st *Stats) LogDebug(message string, fields ...any) {
	st.log(slog.LevelDebug, message, fields...)
}

// LogWarn writes a warning message together with key, value field pairs.
func (st *Stats) LogWarn(message string, fields ...any) {
	st.log(slog.LevelWarn, message, fields...)
}

// LogError writes an error message holding err together with key, value field pairs.
func (st *Stats) LogError(message string, err error, fields ...any) {
	st.log(slog.LevelError, "FAILED "+message, append([]any{"err", err}, fields...)...)
}

// LogFatal writes an error message like LogError, then exits the process.
func (st *Stats) LogFatal(message string, err error) {
	st.LogError(message, err)
	os.Exit(1)
}

// Rewritable returns the terminal line progress output is written to.
// It is flushed and reset at the end of every stage.
func (st *Stats) Rewritable() *progress.Rewritable {
	if st == nil {
		return nil
	}
	return st.line
}

// StoreTotals stores the totals of the finished merge.
// On a nil or done Stats this call has no effect.
func (st *Stats) StoreTotals(totals Totals) {
	if st.Done() {
		return
	}
	st.totals.Set(totals)
}

// Totals returns the stored merge totals.
func (st *Stats) Totals() Totals {
	if st == nil {
		var zero Totals
		return zero
	}
	return st.totals.Get(nil)
}

// Close marks this Stats as done.
// A done Stats ignores every further edit.
func (st *Stats) Close() {
	if st == nil {
		return
	}
	st.done.Store(true)
}

// Done reports whether this Stats still accepts edits.
func (st *Stats) Done() bool {
	return st == nil || st.done.Load()
}

// Diff returns a performance diff spanning from the first to the last stage.
// On a nil or done Stats, the zero diff is returned.
func (st *Stats) Diff() perf.Diff {
	if st.Done() {
		var zero perf.Diff
		return zero
	}

	st.m.RLock()
	defer st.m.RUnlock()

	first := st.current.Start
	last := st.current.End
	for _, stage := range st.all {
		if first.Time.IsZero() || stage.Start.Time.Before(first.Time) {
			first = stage.Start
		}
		if last.Time.IsZero() || stage.End.Time.After(last.Time) {
			last = stage.End
		}
	}
	return last.Sub(first)
}
