package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultDigestSchedule sends the agenda at 07:00 studio time.
const DefaultDigestSchedule = "0 7 * * *"

// DigestSchedulerConfig configures the daily digest job.
type DigestSchedulerConfig struct {
	Schedule string // five-field cron expression or descriptor like "@daily"
	Location *time.Location
	Enabled  bool
}

// StartDigestScheduler registers the digest job and starts the cron runner.
// PRE: deps are initialized
// POST: returns a stop function that waits for a running job; a bad schedule starts nothing
func StartDigestScheduler(ctx context.Context, deps SendDailyDigestDeps, cfg DigestSchedulerConfig) (func(), error) {
	if !cfg.Enabled {
		return func() {}, nil
	}
	spec := cfg.Schedule
	if spec == "" {
		spec = DefaultDigestSchedule
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	logger := cronLogger{}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(spec, digestJob(ctx, deps)); err != nil {
		return nil, fmt.Errorf("digest schedule %q: %w", spec, err)
	}
	c.Start()
	slog.Info("digest_scheduler_started", "schedule", spec, "location", loc.String())

	return func() {
		<-c.Stop().Done()
	}, nil
}

// digestJob adapts ExecuteSendDailyDigest to a cron func.
func digestJob(ctx context.Context, deps SendDailyDigestDeps) func() {
	return func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := ExecuteSendDailyDigest(ctx, deps); err != nil {
			slog.Error("digest_scheduler_error", "error", err)
		}
	}
}

// cronLogger routes cron's own messages through slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron_"+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron_"+msg, append([]any{"error", err}, keysAndValues...)...)
}
