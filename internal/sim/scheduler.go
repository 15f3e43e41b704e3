package sim

import (
	"context"
	"time"

	"sentinel-sim/internal/logging"
)

// Job is one periodic callback with its own cadence.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(now time.Time)

	next time.Time
}

// Scheduler multiplexes several tick cadences onto one external clock.
// What happens on a tick is decoupled from how ticks are generated:
// Tick can be driven by a real timer, a test harness, or a fixed-step
// replay loop.
type Scheduler struct {
	jobs []*Job
}

// Add registers a job. Jobs with a non-positive interval are ignored.
func (s *Scheduler) Add(name string, interval time.Duration, run func(now time.Time)) {
	if interval <= 0 || run == nil {
		return
	}
	s.jobs = append(s.jobs, &Job{Name: name, Interval: interval, Run: run})
}

// Tick runs every job whose deadline has passed and schedules its next
// run. The first Tick runs every job once.
func (s *Scheduler) Tick(now time.Time) {
	for _, j := range s.jobs {
		if j.next.IsZero() || !now.Before(j.next) {
			j.Run(now)
			j.next = now.Add(j.Interval)
		}
	}
}

// minInterval returns the shortest registered cadence.
func (s *Scheduler) minInterval() time.Duration {
	var min time.Duration
	for _, j := range s.jobs {
		if min == 0 || j.Interval < min {
			min = j.Interval
		}
	}
	return min
}

// Run drives the scheduler from a real ticker at the fastest registered
// cadence until the context is done.
func (s *Scheduler) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	interval := s.minInterval()
	if interval <= 0 {
		log.Warn("scheduler has no jobs")
		return
	}
	log.Info("starting scheduler", "interval", interval, "jobs", len(s.jobs))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.Tick(now)
		case <-ctx.Done():
			log.Info("stopping scheduler")
			return
		}
	}
}
