package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	ProtocolHttp = "http"
	ProtocolGrpc = "grpc"
)

// Endpoint is the OTLP collector a signal is exported to.
type Endpoint struct {
	// ex. http://localhost:4318
	URL string `json:"url"`
	// defaults to http
	Protocol string `json:"protocol"`
}

func (e Endpoint) configured() bool {
	return e.URL != ""
}

func (e Endpoint) protocol() (string, error) {
	switch e.Protocol {
	case "", ProtocolHttp:
		return ProtocolHttp, nil
	case ProtocolGrpc:
		return ProtocolGrpc, nil
	}
	return "", fmt.Errorf("unknown otlp protocol %q", e.Protocol)
}

// Config selects which signals are exported, a signal without an endpoint
// is not exported.
type Config struct {
	Traces  Endpoint `json:"traces"`
	Metrics Endpoint `json:"metrics"`
}

// exporters are given a few seconds to dial the collector.
const dialTimeout = 3 * time.Second

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newSpanExporter(ctx context.Context, e Endpoint) (trace.SpanExporter, error) {
	protocol, err := e.protocol()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	slog.Info("exporting traces", "protocol", protocol, "url", e.URL)
	if protocol == ProtocolGrpc {
		return otlptracegrpc.New(ctx, otlptracegrpc.WithEndpointURL(e.URL))
	}
	return otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(e.URL))
}

func newMetricExporter(ctx context.Context, e Endpoint) (metric.Exporter, error) {
	protocol, err := e.protocol()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	slog.Info("exporting metrics", "protocol", protocol, "url", e.URL)
	if protocol == ProtocolGrpc {
		return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpointURL(e.URL))
	}
	return otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(e.URL))
}

func newTraceProvider(ctx context.Context, r *resource.Resource, e Endpoint) (*trace.TracerProvider, error) {
	exporter, err := newSpanExporter(ctx, e)
	if err != nil {
		return nil, err
	}
	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
	), nil
}

func newMeterProvider(ctx context.Context, r *resource.Resource, e Endpoint) (*metric.MeterProvider, error) {
	exporter, err := newMetricExporter(ctx, e)
	if err != nil {
		return nil, err
	}
	reader := metric.NewPeriodicReader(exporter, metric.WithInterval(5*time.Second))
	return metric.NewMeterProvider(
		metric.WithReader(reader),
		metric.WithResource(r),
	), nil
}
