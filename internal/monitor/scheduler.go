// scheduler.go wires the monitoring jobs onto cron schedules. All schedules
// are evaluated in UTC, and a job that is still running when its next slot
// arrives is skipped rather than overlapped.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/asset-inventory/asset-inventory/internal/config"
)

// Job is one runnable monitoring task.
type Job interface {
	Run(ctx context.Context) error
}

// Scheduler runs the expiration scanner and reachability prober on their
// configured cron schedules.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler builds a scheduler from the monitoring config. Invalid cron
// expressions are rejected up front so a bad config fails at startup, not at
// first trigger.
func NewScheduler(cfg *config.MonitoringConfig, scanner, prober Job) (*Scheduler, error) {
	logger := &cronLogger{}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(logger)),
	)

	if _, err := c.AddFunc(cfg.ExpirySchedule, runJob("expiration scan", scanner)); err != nil {
		return nil, fmt.Errorf("invalid expiry schedule %q: %w", cfg.ExpirySchedule, err)
	}
	if _, err := c.AddFunc(cfg.ProbeSchedule, runJob("reachability probe", prober)); err != nil {
		return nil, fmt.Errorf("invalid probe schedule %q: %w", cfg.ProbeSchedule, err)
	}

	return &Scheduler{cron: c}, nil
}

func runJob(name string, job Job) func() {
	return func() {
		if err := job.Run(context.Background()); err != nil {
			slog.Error("monitoring job failed", "job", name, "error", err)
		}
	}
}

// Start begins triggering jobs. It returns immediately; jobs run on the
// cron goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and blocks until any running job has finished.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct{}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error(msg, append(keysAndValues, "error", err)...)
}
