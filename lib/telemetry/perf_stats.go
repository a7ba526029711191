package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

const perfStatsInterval = 30 * time.Second

var (
	meter = otel.Meter("beigebook/process")

	cpuPercent = Float64Gauge(meter, "beigebook.process.cpu_percent", "Host cpu usage over one second.")
	heapMB     = Int64Gauge(meter, "beigebook.process.heap_mb", "Bytes of allocated heap objects, in MB.")
	goroutines = Int64Gauge(meter, "beigebook.process.goroutines", "Number of live goroutines.")
)

func samplePerfStats(ctx context.Context) {
	usage, err := cpu.PercentWithContext(ctx, time.Second, false)
	switch {
	case err != nil:
		slog.Debug("failed to sample cpu usage", "err", err)
	case len(usage) > 0:
		cpuPercent.Record(ctx, usage[0])
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	heapMB.Record(ctx, int64(mem.HeapAlloc/1_000_000))
	goroutines.Record(ctx, int64(runtime.NumGoroutine()))
}

// InstrumentPerfStats samples process gauges in the background until ctx is
// done. A long scrape is the only thing worth watching this way, so the CLI
// only starts it when metrics are exported.
func InstrumentPerfStats(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(perfStatsInterval)
		defer ticker.Stop()

		samplePerfStats(ctx)
		for {
			select {
			case <-ticker.C:
				samplePerfStats(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}
