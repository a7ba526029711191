package telemetry

// API is how components report failures and counts. Components take it as a
// field so tests can swap in a Recorder and assert on what was reported.
type API interface {
	// ReportBroken reports something that needs fixing, ex. a report page
	// whose layout no content container matches.
	//
	// `id` names the component and operation, not the failing line:
	// `fetcher.fetch-report`, not `fetcher.fetch-report.parse-html`. Ids are
	// lowercase, dots separate components, dashes separate words.
	ReportBroken(id string, params ...any)

	// ReportWarning reports an expected but noteworthy failure, ex. a report
	// that could not be fetched and went to the missing ledger.
	ReportWarning(id string, params ...any)

	ReportDebug(msg string, params ...any)

	// ReportCount reports a total at the end of a run.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a namespace, "<namespace>:<id>".
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) id(id string) string {
	return s.namespace + ":" + id
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.id(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.id(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.namespace+": "+msg, params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.id(id), count)
}
