package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

// InstrumentPerfStats records process resource gauges every 30s until
// ctx is cancelled, so a stalled fetch cycle can be correlated with
// cpu or memory pressure.
func InstrumentPerfStats(ctx context.Context) {
	meter := otel.Meter("process.perf")
	cpuUsage, _ := meter.Float64Gauge("cpu_usage")
	heapAlloc, _ := meter.Int64Gauge("heap_alloc_mb")
	liveObjects, _ := meter.Int64Gauge("live_objects")
	goroutines, _ := meter.Int64Gauge("goroutine_count")

	go func() {
		ticker := time.NewTicker(time.Second * 30)
		defer ticker.Stop()

		var stats runtime.MemStats
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			runtime.ReadMemStats(&stats)
			heapAlloc.Record(ctx, int64(stats.HeapAlloc/1_000_000))
			liveObjects.Record(ctx, int64(stats.Mallocs-stats.Frees))
			goroutines.Record(ctx, int64(runtime.NumGoroutine()))

			// blocks for the sampling window
			percent, err := cpu.PercentWithContext(ctx, time.Second*10, false)
			if err != nil {
				slog.WarnContext(ctx, "failed to read cpu usage", "err", err)
				continue
			}
			cpuUsage.Record(ctx, percent[0])
		}
	}()
}
