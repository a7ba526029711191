package telemetry

import "sync"

type Report struct {
	Kind   string
	ID     string
	Params []any
}

// Recorder is an API that keeps every report in memory, tests use it to
// assert which components reported breakage.
type Recorder struct {
	lock    sync.Mutex
	reports []Report
	counts  map[string]int64
}

func (r *Recorder) add(kind, id string, params []any) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.reports = append(r.reports, Report{Kind: kind, ID: id, Params: params})
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.add("broken", id, params)
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.add("warning", id, params)
}

func (r *Recorder) ReportDebug(msg string, params ...any) {}

func (r *Recorder) ReportCount(id string, count int64) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.counts == nil {
		r.counts = map[string]int64{}
	}
	r.counts[id] = count
}

// Reports returns the reports of a given kind ("broken" or "warning").
func (r *Recorder) Reports(kind string) []Report {
	r.lock.Lock()
	defer r.lock.Unlock()
	var out []Report
	for _, report := range r.reports {
		if report.Kind == kind {
			out = append(out, report)
		}
	}
	return out
}

func (r *Recorder) Count(id string) int64 {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.counts[id]
}
