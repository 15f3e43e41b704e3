package sim

import (
	"testing"
	"time"
)

func TestScheduler_RunsJobsAtOwnCadence(t *testing.T) {
	var fast, slow int
	s := &Scheduler{}
	s.Add("fast", 10*time.Millisecond, func(time.Time) { fast++ })
	s.Add("slow", 50*time.Millisecond, func(time.Time) { slow++ })

	now := time.Unix(0, 0)
	for i := 0; i <= 100; i++ {
		s.Tick(now.Add(time.Duration(i) * 10 * time.Millisecond))
	}
	if fast != 101 {
		t.Errorf("fast job ran %d times, want 101", fast)
	}
	// 1 initial run + one per elapsed 50ms.
	if slow != 21 {
		t.Errorf("slow job ran %d times, want 21", slow)
	}
}

func TestScheduler_FirstTickRunsEverything(t *testing.T) {
	var ran []string
	s := &Scheduler{}
	s.Add("a", time.Hour, func(time.Time) { ran = append(ran, "a") })
	s.Add("b", time.Minute, func(time.Time) { ran = append(ran, "b") })
	s.Tick(time.Unix(0, 0))
	if len(ran) != 2 {
		t.Fatalf("expected both jobs on first tick, got %v", ran)
	}
	s.Tick(time.Unix(0, 1))
	if len(ran) != 2 {
		t.Fatalf("jobs must not rerun before their interval, got %v", ran)
	}
}

func TestScheduler_IgnoresInvalidJobs(t *testing.T) {
	s := &Scheduler{}
	s.Add("bad", 0, func(time.Time) {})
	s.Add("nil", time.Second, nil)
	if len(s.jobs) != 0 {
		t.Fatalf("invalid jobs should be ignored")
	}
	if s.minInterval() != 0 {
		t.Fatalf("empty scheduler should report zero interval")
	}
}
