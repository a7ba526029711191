package scrape

import (
	"context"
	"fmt"
	"io"
	"time"

	"beigebook/internal/fetcher"
	"beigebook/internal/manifest"
	"beigebook/internal/reports"
	"beigebook/internal/telemetry"
	"beigebook/lib/fsutil"
	libtelemetry "beigebook/lib/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("beigebook/scrape")
	meter  = otel.Meter("beigebook/scrape")

	outcomeCounter = libtelemetry.Int64Counter(meter, "beigebook.scrape.outcomes", "Keys processed, by terminal outcome.")
)

const (
	report_orchestrator_write  = "orchestrator.write"
	report_orchestrator_record = "orchestrator.record"
	report_orchestrator_fetch  = "orchestrator.fetch"
)

type Fetcher interface {
	Fetch(ctx context.Context, key reports.Key) fetcher.Outcome
}

type MissingLedger interface {
	Append(key reports.Key) error
}

// Recorder receives the terminal state of every key, manifest.Run implements it.
type Recorder interface {
	Record(ctx context.Context, entry manifest.Entry) error
}

type Summary struct {
	Written int
	Skipped int
	Missing int
	// Failures counts missing keys by outcome kind.
	Failures map[fetcher.Kind]int
}

func (s Summary) Total() int {
	return s.Written + s.Skipped + s.Missing
}

// Orchestrator fetches every key of a source that has no file yet, writing
// the report text on success and appending the key to the ledger otherwise.
type Orchestrator struct {
	Source  reports.Source
	Fetcher Fetcher
	Ledger  MissingLedger
	// Recorder is optional.
	Recorder Recorder
	Tel      telemetry.API
	// Progress receives one line per key.
	Progress io.Writer
	// Delay is waited after each written report.
	Delay time.Duration
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o Orchestrator) progress(key reports.Key, status string) {
	if o.Progress == nil {
		return
	}
	fmt.Fprintf(o.Progress, "%d %02d %s %s\n", key.Year, key.Month, key.Region, status)
}

func (o Orchestrator) record(ctx context.Context, entry manifest.Entry) {
	if o.Recorder == nil {
		return
	}
	err := o.Recorder.Record(ctx, entry)
	if err != nil {
		o.Tel.ReportBroken(report_orchestrator_record, entry.Key.String(), err)
	}
}

// Run processes the keys of the source whose year is within
// [startYear, endYear], in source order. It stops early only if the ledger
// cannot be written or ctx is done.
func (o Orchestrator) Run(ctx context.Context, startYear, endYear int) (Summary, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(
		attribute.Int("start_year", startYear),
		attribute.Int("end_year", endYear),
	)

	if o.Tel == nil {
		o.Tel = telemetry.SlogAPI{}
	}
	o.Tel = telemetry.NewScopedAPI("scrape", o.Tel)
	summary := Summary{Failures: map[fetcher.Kind]int{}}

	for _, key := range o.Source.Enumerate(false) {
		if key.Year < startYear || key.Year > endYear {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		path := o.Source.PathFor(key)
		if fsutil.Exists(path) {
			summary.Skipped++
			o.progress(key, "skip")
			o.record(ctx, manifest.Entry{Key: key, State: manifest.StateSkipped})
			outcomeCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", manifest.StateSkipped)))
			continue
		}

		out := o.Fetcher.Fetch(ctx, key)
		if out.Succeeded() {
			err := fsutil.WriteFileAtomic(path, []byte(out.Text), 0644)
			if err != nil {
				o.Tel.ReportBroken(report_orchestrator_write, key.String(), err)
				out = fetcher.Outcome{Kind: fetcher.Permanent, Cause: fmt.Errorf("write %s: %w", path, err)}
			}
		}

		if !out.Succeeded() {
			o.Tel.ReportWarning(report_orchestrator_fetch, key.String(), out.String())
			err := o.Ledger.Append(key)
			if err != nil {
				return summary, fmt.Errorf("append %s to missing ledger: %w", key, err)
			}
			summary.Missing++
			summary.Failures[out.Kind]++
			o.progress(key, fmt.Sprintf("n (%s)", out.Cause))
			o.record(ctx, manifest.Entry{Key: key, State: manifest.StateMissing, Cause: out.String()})
			outcomeCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", out.Kind.String())))
			continue
		}

		summary.Written++
		o.progress(key, "y")
		o.record(ctx, manifest.Entry{Key: key, State: manifest.StateWritten, Bytes: len(out.Text)})
		outcomeCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", manifest.StateWritten)))

		if o.Delay > 0 {
			err := sleep(ctx, o.Delay)
			if err != nil {
				return summary, err
			}
		}
	}

	o.Tel.ReportCount("orchestrator.written", int64(summary.Written))
	o.Tel.ReportCount("orchestrator.missing", int64(summary.Missing))
	return summary, nil
}
