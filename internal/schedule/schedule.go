// Package schedule evaluates cron expressions against the Persian calendar
// and runs the server's periodic jobs.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"mitra/internal/jalali"
	appLog "mitra/internal/log"
)

// MaxRuns bounds the n accepted by Next.
const MaxRuns = 1000

// Next returns the next n times after from at which the standard cron
// expression spec fires, evaluated on the wall clock of loc (time.Local if
// nil). Descriptors such as @daily are accepted.
func Next(spec string, from jalali.DateTime, n int, loc *time.Location) ([]jalali.DateTime, error) {
	if n < 1 || n > MaxRuns {
		return nil, fmt.Errorf("schedule: run count %d outside [1, %d]", n, MaxRuns)
	}
	if loc == nil {
		loc = time.Local
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("schedule: %q: %w", spec, err)
	}
	g, err := from.ToGregorian()
	if err != nil {
		return nil, err
	}
	t := time.Date(g.Year(), g.Month(), g.Day(), g.Hour(), g.Minute(), g.Second(), 0, loc)

	out := make([]jalali.DateTime, 0, n)
	for len(out) < n {
		t = sched.Next(t)
		if t.IsZero() {
			// robfig gives up after five years without a match.
			break
		}
		dt, err := jalali.FromGregorian(t)
		if err != nil {
			return out, err
		}
		out = append(out, dt)
	}
	return out, nil
}

// Runner runs named jobs on cron schedules. Each job gets a context that
// is cancelled when the runner stops.
type Runner struct {
	c      *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// NewRunner returns a stopped Runner evaluating schedules in loc.
func NewRunner(loc *time.Location) *Runner {
	if loc == nil {
		loc = time.Local
	}
	ctx, cancel := context.WithCancel(context.Background())
	l := cronLogger{}
	return &Runner{
		c: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers job under name. A run that fails is logged.
func (r *Runner) Add(spec, name string, job func(context.Context) error) error {
	_, err := r.c.AddFunc(spec, func() {
		start := time.Now()
		if err := job(r.ctx); err != nil {
			appLog.Error("job failed", err, "job", name, "took", time.Since(start))
			return
		}
		appLog.Info("job done", "job", name, "took", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("schedule: job %s: %q: %w", name, spec, err)
	}
	appLog.Debug("job scheduled", "job", name, "spec", spec)
	return nil
}

// Len returns the number of registered jobs.
func (r *Runner) Len() int { return len(r.c.Entries()) }

// Start runs the scheduler in its own goroutine.
func (r *Runner) Start() { r.c.Start() }

// Stop stops scheduling, cancels running jobs' context and waits for them
// to return or for ctx to end.
func (r *Runner) Stop(ctx context.Context) error {
	done := r.c.Stop()
	r.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger routes robfig/cron's logging to the application log.
type cronLogger struct{}

func (cronLogger) Info(msg string, kv ...any) {
	appLog.Debug("cron: "+msg, kv...)
}

func (cronLogger) Error(err error, msg string, kv ...any) {
	appLog.Error("cron: "+msg, err, kv...)
}
