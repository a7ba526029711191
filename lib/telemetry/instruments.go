package telemetry

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// The constructors below never fail: an instrument the meter rejects is
// logged and replaced by its no-op version, so they can back package-level
// vars.

func Int64Counter(meter metric.Meter, name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		slog.Warn("failed to create instrument", "name", name, "err", err)
		return noop.Int64Counter{}
	}
	return counter
}

func Int64Gauge(meter metric.Meter, name, description string) metric.Int64Gauge {
	gauge, err := meter.Int64Gauge(name, metric.WithDescription(description))
	if err != nil {
		slog.Warn("failed to create instrument", "name", name, "err", err)
		return noop.Int64Gauge{}
	}
	return gauge
}

func Float64Gauge(meter metric.Meter, name, description string) metric.Float64Gauge {
	gauge, err := meter.Float64Gauge(name, metric.WithDescription(description))
	if err != nil {
		slog.Warn("failed to create instrument", "name", name, "err", err)
		return noop.Float64Gauge{}
	}
	return gauge
}
