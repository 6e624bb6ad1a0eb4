package main

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
)

type stats struct {
	enabled bool
	started time.Time
	frames  int
}

func startStats(enabled bool) *stats {
	return &stats{
		enabled: enabled,
		started: time.Now(),
	}
}

// report logs throughput and, when enabled, process CPU and memory usage
func (st *stats) report(logger *zap.Logger) {
	elapsed := time.Since(st.started)
	fps := 0.0
	if elapsed > 0 {
		fps = float64(st.frames) / elapsed.Seconds()
	}
	fields := []zap.Field{
		zap.Int("frames", st.frames),
		zap.Duration("elapsed", elapsed),
		zap.Float64("fps", fps),
	}
	if st.enabled {
		proc, err := process.NewProcess(int32(os.Getpid()))
		if err != nil {
			logger.Warn("can't inspect process", zap.Error(err))
		} else {
			if mem, err := proc.MemoryInfo(); err == nil {
				fields = append(fields, zap.Uint64("rss_bytes", mem.RSS))
			}
			if cpu, err := proc.CPUPercent(); err == nil {
				fields = append(fields, zap.Float64("cpu_percent", cpu))
			}
		}
	}
	logger.Info("processing finished", fields...)
}
