package telemetry

import (
	"log/slog"
	"strconv"
)

// SlogAPI implements API on top of a slog.Logger, the default logger is used
// when Logger is nil.
type SlogAPI struct {
	Logger *slog.Logger
}

func (s SlogAPI) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// attrs renders params as p0, p1, ... so they stay distinguishable in the
// text handler output.
func attrs(id string, params []any) []any {
	out := make([]any, 0, 2+2*len(params))
	if id != "" {
		out = append(out, "id", id)
	}
	for i, p := range params {
		out = append(out, "p"+strconv.Itoa(i), p)
	}
	return out
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	s.logger().Error("broken", attrs(id, params)...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	s.logger().Warn("warning", attrs(id, params)...)
}

func (s SlogAPI) ReportDebug(msg string, params ...any) {
	s.logger().Debug(msg, attrs("", params)...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	s.logger().Info("count", "id", id, "n", count)
}
