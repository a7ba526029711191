package restyutil

import (
	"fmt"
	"log/slog"
	"strings"
)

// SlogLogger routes resty's internal logging through log/slog.
type SlogLogger struct{}

func (SlogLogger) Errorf(format string, v ...any) {
	slog.Error("resty", "msg", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (SlogLogger) Warnf(format string, v ...any) {
	slog.Warn("resty", "msg", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (SlogLogger) Debugf(format string, v ...any) {
	slog.Debug("resty", "msg", strings.TrimSpace(fmt.Sprintf(format, v...)))
}
