// Package schedule runs periodic maintenance jobs (cache purges, feed
// syncs) on cron specs.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appLog "holical/internal/log"
)

// Clearer is anything with a purgeable cache.
type Clearer interface {
	Clear()
}

// Scheduler wraps a cron runner. Jobs never run concurrently with
// themselves; a tick that finds the previous run still busy is skipped.
type Scheduler struct {
	c *cron.Cron
}

func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	logger := cronLogger{}
	return &Scheduler{
		c: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}
}

// Add registers fn under a standard five-field spec (or a descriptor
// such as "@hourly").
func (s *Scheduler) Add(name, spec string, fn func()) error {
	_, err := s.c.AddFunc(spec, func() {
		start := time.Now()
		fn()
		appLog.Debug("scheduled job finished", "job", name, "elapsed", time.Since(start).String())
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	appLog.Info("scheduled job registered", "job", name, "spec", spec)
	return nil
}

// AddPurge clears every cache on spec.
func (s *Scheduler) AddPurge(spec string, caches ...Clearer) error {
	return s.Add("cache-purge", spec, func() {
		for _, c := range caches {
			c.Clear()
		}
	})
}

// Len reports the number of registered jobs.
func (s *Scheduler) Len() int { return len(s.c.Entries()) }

// Next returns the next run time of the earliest job, if any.
func (s *Scheduler) Next() (time.Time, bool) {
	var next time.Time
	for _, e := range s.c.Entries() {
		if next.IsZero() || e.Next.Before(next) {
			next = e.Next
		}
	}
	return next, !next.IsZero()
}

func (s *Scheduler) Start() { s.c.Start() }

// Stop halts the scheduler and waits for running jobs until ctx ends.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.c.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		appLog.Warn("scheduler stop timed out; jobs still running")
	}
}

// ValidateSpec reports whether spec parses as a five-field cron spec.
func ValidateSpec(spec string) error {
	_, err := cron.ParseStandard(spec)
	return err
}

// cronLogger routes cron's logr-style logging to the app logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	appLog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	appLog.Error("cron: "+msg, err, keysAndValues...)
}
