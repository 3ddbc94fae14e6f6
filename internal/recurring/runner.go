package recurring

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Runner ticks the scheduler periodically until its context is cancelled.
type Runner struct {
	scheduler *Scheduler
	interval  time.Duration
	loc       *time.Location
}

// NewRunner returns a runner that evaluates due dates in loc, or UTC when loc
// is nil.
func NewRunner(scheduler *Scheduler, interval time.Duration, loc *time.Location) *Runner {
	if loc == nil {
		loc = time.UTC
	}

	return &Runner{
		scheduler: scheduler,
		interval:  interval,
		loc:       loc,
	}
}

// Run ticks once immediately and then on every interval. It returns nil when
// ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	slog.Info("recurring scheduler started", "interval", r.interval, "timezone", r.loc.String())

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		r.RunOnce(ctx)

		select {
		case <-ctx.Done():
			slog.Info("recurring scheduler stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single tick as of the current date in the runner's zone.
func (r *Runner) RunOnce(ctx context.Context) *TickResult {
	log := slog.With("run_id", uuid.NewString())
	asOf := r.scheduler.now().In(r.loc)

	res, err := r.scheduler.Tick(ctx, asOf)
	if errors.Is(err, context.Canceled) {
		log.Info("recurring tick interrupted")
		return res
	}

	if err != nil {
		log.Error("recurring tick failed", "error", err)
		return res
	}

	for _, f := range res.Failed {
		log.Warn("recurring occurrence not generated", "template_id", f.TemplateID, "due_date", f.DueDate.Format(time.DateOnly), "error", f.Err)
	}

	log.Info("recurring tick finished",
		"as_of", res.AsOf.Format(time.DateOnly),
		"generated", len(res.Generated),
		"skipped", res.Skipped,
		"failed", len(res.Failed),
	)

	return res
}
