package telemetry

import (
	"fmt"
	"strings"
	"sync"
)

type Report struct {
	Level  string
	ID     string
	Params []any
}

// Recorder implements API by keeping every report in memory, tests use it
// to assert that a component reported what it should have.
type Recorder struct {
	mutex   sync.Mutex
	Reports []Report
}

func (r *Recorder) add(level, id string, params []any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.Reports = append(r.Reports, Report{Level: level, ID: id, Params: params})
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.add("broken", id, params)
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.add("warning", id, params)
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.add("debug", msg, params)
}

func (r *Recorder) ReportInfo(msg string, params ...any) {
	r.add("info", msg, params)
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.add("count", id, []any{count})
}

// Find returns the reports of the given level whose id contains substr.
func (r *Recorder) Find(level, substr string) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.Reports {
		if report.Level == level && strings.Contains(report.ID, substr) {
			out = append(out, report)
		}
	}
	return out
}

func (r Report) String() string {
	return fmt.Sprintf("[%s] %s %v", r.Level, r.ID, r.Params)
}
