package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// PresenceSource is the read-only view of the registry the telemetry
// worker needs.
type PresenceSource interface {
	Snapshot() []string
}

// TelemetryWorker periodically logs how many users are online together
// with the engine's own CPU and memory usage.
type TelemetryWorker struct {
	log      *slog.Logger
	presence PresenceSource
	interval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, presence PresenceSource, interval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, presence: presence, interval: interval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	self, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		case <-ticker.C:
			cpu, err := self.CPUPercent()
			if err != nil {
				w.log.Error("Error while finding process cpu usage", "err", err)
				continue
			}
			ram, err := self.MemoryPercent()
			if err != nil {
				w.log.Error("Error while finding process ram usage", "err", err)
				continue
			}
			w.log.Info("engine telemetry",
				"online", len(w.presence.Snapshot()),
				"cpu_percent", cpu,
				"ram_percent", ram,
			)
		}
	}
}
