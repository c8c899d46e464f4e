package stats

import (
	"fmt"
	"slices"

	"github.com/tkw1536/pkglib/perf"
)

// Stage names one phase of a merge run.
type Stage string

const (
	StageInitial   Stage = ""
	StageScan      Stage = "scan"
	StageMerge     Stage = "merge"
	StageReport    Stage = "report"
	StageStore     Stage = "store"
	StageValidate  Stage = "validate"
	StageInventory Stage = "inventory"

	StageExportSQL  Stage = "export/sql"
	StageExportJSON Stage = "export/json"
	StageExportCSV  Stage = "export/csv"
)

// StageStats holds the collected figures of a single stage.
type StageStats struct {
	Stage Stage

	Start perf.Snapshot // at the start of the stage
	End   perf.Snapshot // at the end of the stage

	Current int
	Total   int
}

// Diff returns the performance diff of this stage.
func (s StageStats) Diff() perf.Diff {
	return s.End.Sub(s.Start)
}

// Progress formats the progress of this stage as a single line.
func (s StageStats) Progress() string {
	switch {
	case s.Total == 0:
		return ""
	case s.Current < s.Total:
		return fmt.Sprintf("%s: %d/%d", s.Stage, s.Current, s.Total)
	default:
		return fmt.Sprintf("%s: %d", s.Stage, s.Current)
	}
}

// Progress describes how far a merge run has come, for the debug endpoint.
type Progress struct {
	Done bool // no further stages will run

	Stage          Stage
	Current, Total int
}

// Progress returns the progress of the current stage.
func (st *Stats) Progress() Progress {
	if st.Done() {
		return Progress{Done: true}
	}

	st.m.RLock()
	current := st.current
	st.m.RUnlock()

	// the run may have finished while we were reading
	if st.Done() {
		return Progress{Done: true}
	}
	return Progress{Stage: current.Stage, Current: current.Current, Total: current.Total}
}

// All returns a copy of the stats of all stages, including the current one.
func (st *Stats) All() []StageStats {
	if st == nil {
		return nil
	}

	st.m.RLock()
	defer st.m.RUnlock()

	all := slices.Clone(st.all)
	if st.current.Stage != StageInitial {
		all = append(all, st.current)
	}
	return all
}

// Start begins a new stage, ending the previous one if any.
// On a nil or done Stats this call has no effect.
func (st *Stats) Start(stage Stage) {
	if st.Done() {
		return
	}

	st.m.Lock()
	defer st.m.Unlock()

	st.end()
	st.current = StageStats{Stage: stage, Start: perf.Now()}

	if st.logger != nil {
		st.logger.Debug("start", "stage", stage)
	}
}

// End ends the current stage, if any.
// On a nil or done Stats this call has no effect.
func (st *Stats) End() (prev StageStats) {
	if st.Done() {
		return
	}

	st.m.Lock()
	defer st.m.Unlock()

	return st.end()
}

// end implements End. st.m must be held for writing.
func (st *Stats) end() (prev StageStats) {
	if st.current.Stage == StageInitial {
		return
	}

	st.current.End = perf.Now()
	prev = st.current
	st.all = append(st.all, prev)
	st.current = StageStats{}

	// flush the final progress line before the stage goes away
	if st.line != nil {
		st.line.Flush(true)
		st.line.Close()
	}

	if st.logger == nil {
		return
	}
	fields := []any{"stage", prev.Stage, "took", prev.Diff()}
	if prev.Total != 0 || prev.Current != 0 {
		fields = append(fields, "current", prev.Current, "total", prev.Total)
	}
	st.logger.Debug("end", fields...)
	return
}

// DoStage runs f inside a stage of its own.
// The error returned by f is logged and passed on unchanged.
//
// On a nil or done Stats, f runs without any bookkeeping.
func (st *Stats) DoStage(stage Stage, f func() error) error {
	if st.Done() {
		return f()
	}

	st.Start(stage)
	err := f()
	st.End()

	if err != nil {
		st.LogError("stage aborted", err, "stage", stage)
	}
	return err
}

// SetCT publishes the progress of the current stage, current out of total.
// On a nil or done Stats this call has no effect.
func (st *Stats) SetCT(current, total int) {
	if st.Done() {
		return
	}

	st.m.Lock()
	st.current.Current = current
	st.current.Total = total
	text := st.current.Progress()
	st.m.Unlock()

	if text != "" && st.line != nil {
		st.line.Write(text)
	}
}
