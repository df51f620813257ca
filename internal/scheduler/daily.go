// Package scheduler fires a job once per day at a fixed wall-clock time.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Job is the unit of work run on each tick.
type Job func(ctx context.Context) error

// Locker deduplicates runs across instances. TryLock reports whether this
// instance acquired key for ttl.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Daily runs a job every day at Hour:Minute in Location.
type Daily struct {
	Name         string
	Hour         int
	Minute       int
	Location     *time.Location
	RunOnStartup bool
	Timeout      time.Duration
	LockTTL      time.Duration
	Locker       Locker
	Job          Job
	Logger       *zap.Logger

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

// NextRun returns the first Hour:Minute strictly after now in loc.
func NextRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next
}

// Run blocks until ctx is canceled.
func (d *Daily) Run(ctx context.Context) {
	d.defaults()
	d.Logger.Info("scheduler started",
		zap.String("job", d.Name),
		zap.String("at", fmt.Sprintf("%02d:%02d", d.Hour, d.Minute)),
		zap.String("zone", d.Location.String()))

	if d.RunOnStartup {
		d.tick(ctx)
	}
	for {
		next := NextRun(d.now(), d.Hour, d.Minute, d.Location)
		wait := next.Sub(d.now())
		d.Logger.Debug("next run scheduled", zap.String("job", d.Name), zap.Time("at", next))
		select {
		case <-ctx.Done():
			d.Logger.Info("scheduler stopped", zap.String("job", d.Name))
			return
		case <-d.after(wait):
			d.tick(ctx)
		}
	}
}

func (d *Daily) defaults() {
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.after == nil {
		d.after = time.After
	}
	if d.Timeout <= 0 {
		d.Timeout = time.Minute
	}
	if d.Name == "" {
		d.Name = "daily"
	}
}

// tick runs the job once. Panics and errors are logged; the loop keeps going.
func (d *Daily) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if d.Locker != nil && d.LockTTL > 0 {
		key := fmt.Sprintf("%s:%s", d.Name, d.now().In(d.Location).Format("2006-01-02"))
		ok, err := d.Locker.TryLock(ctx, key, d.LockTTL)
		switch {
		case err != nil:
			d.Logger.Warn("run lock unavailable, running anyway", zap.String("job", d.Name), zap.Error(err))
		case !ok:
			d.Logger.Info("run already claimed by another instance", zap.String("job", d.Name), zap.String("key", key))
			return
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			d.Logger.Error("scheduled job panicked", zap.String("job", d.Name), zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	if err := d.Job(runCtx); err != nil {
		d.Logger.Error("scheduled job failed", zap.String("job", d.Name), zap.Error(err))
	}
}
