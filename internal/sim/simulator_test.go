package sim

import (
	"math/rand"
	"testing"
	"time"

	"sentinel-sim/internal/config"
	"sentinel-sim/internal/threat"
	"sentinel-sim/internal/vision"
)

// MockWriter collects rows for validation.
type MockWriter struct {
	Contacts []vision.ContactRow
	Threats  []threat.Row
}

func (w *MockWriter) WriteContact(row vision.ContactRow) error {
	w.Contacts = append(w.Contacts, row)
	return nil
}

func (w *MockWriter) WriteThreat(row threat.Row) error {
	w.Threats = append(w.Threats, row)
	return nil
}

func testConfig() *config.SimulationConfig {
	cfg := &config.SimulationConfig{
		DefendedPosition: config.DefendedPosition{Name: "Addis Ababa", Lat: 9.0192, Lng: 38.7525},
		Sensitivity:      80,
	}
	cfg.Defaults()
	return cfg
}

func testSimulator(w *MockWriter) *Simulator {
	return NewSimulator("session-test", testConfig(), nil, w, w, rand.New(rand.NewSource(7)))
}

// advance drives the scheduler at a fixed step and pins the simulator
// clock to the last tick so time-based visibility reads line up.
func advance(s *Simulator, start time.Time, step time.Duration, ticks int) time.Time {
	now := start
	for i := 0; i < ticks; i++ {
		tick := now
		s.Tick(tick)
		s.now = func() time.Time { return tick }
		now = now.Add(step)
	}
	return now
}

func TestSimulator_ThreatTickEmitsRows(t *testing.T) {
	w := &MockWriter{}
	s := testSimulator(w)
	advance(s, time.Unix(0, 0), 50*time.Millisecond, 3)
	if len(w.Threats) == 0 {
		t.Fatalf("expected threat rows")
	}
	for _, r := range w.Threats {
		if r.SessionID != "session-test" || r.ThreatID == "" {
			t.Errorf("row missing ids: %+v", r)
		}
		if r.Progress < 0 || r.Progress > 1 {
			t.Errorf("progress out of range: %f", r.Progress)
		}
	}
}

func TestSimulator_FrameTickProducesContacts(t *testing.T) {
	w := &MockWriter{}
	s := testSimulator(w)
	// Frame analysis runs at the slowest cadence; give it several cycles.
	advance(s, time.Unix(0, 0), 500*time.Millisecond, 8)
	if len(w.Contacts) == 0 {
		t.Fatalf("expected contact rows from the synthetic frame source")
	}
	if len(s.TargetSnapshot()) == 0 && len(w.Contacts) > 0 {
		// Snapshot reflects only the latest cycle, which may be empty; the
		// writer proves detection ran.
		t.Log("latest cycle empty, contacts were still emitted earlier")
	}
}

func TestSimulator_NeutralizeVisibleAcrossViews(t *testing.T) {
	w := &MockWriter{}
	s := testSimulator(w)
	s.Tick(time.Unix(0, 0))
	views := s.ThreatSnapshot()
	if len(views) == 0 {
		t.Fatal("no threats")
	}
	id := views[0].ID
	s.Neutralize(id)
	for _, v := range s.ThreatSnapshot() {
		if v.ID == id && !v.Neutralized {
			t.Fatalf("neutralize not visible in snapshot")
		}
	}
	total := 0
	for _, n := range s.ThreatCounts() {
		total += n
	}
	if total != len(views)-1 {
		t.Fatalf("counts include neutralized threat")
	}
	if s.Arc(id) != nil {
		t.Fatalf("neutralized threat must have no arc")
	}
	s.Neutralize("unknown") // no-op
}

func TestSimulator_SweepRevealsThreats(t *testing.T) {
	w := &MockWriter{}
	cfg := testConfig()
	cfg.Sweep.WindowDeg = 180 // everything in window
	s := NewSimulator("session-test", cfg, nil, w, w, rand.New(rand.NewSource(7)))
	advance(s, time.Unix(0, 0), 30*time.Millisecond, 2)
	state := s.Sweep()
	if len(state.Visible) == 0 {
		t.Fatalf("a full-window sweep should reveal every active threat")
	}
	if state.AngleDeg < 0 || state.AngleDeg >= 360 {
		t.Fatalf("sweep angle %f out of range", state.AngleDeg)
	}
}

func TestSimulator_SweepWindowExcludes(t *testing.T) {
	w := &MockWriter{}
	cfg := testConfig()
	cfg.Sweep.WindowDeg = 0.001
	cfg.Sweep.StepDeg = 0.001
	s := NewSimulator("session-test", cfg, nil, w, w, rand.New(rand.NewSource(7)))
	s.Tick(time.Unix(0, 0))
	// A hair-thin window at a near-zero angle should miss almost every
	// bearing in the built-in catalogue.
	if got := len(s.Sweep().Visible); got == len(threat.BuiltIn()) {
		t.Fatalf("thin sweep window should not reveal the full catalogue (%d visible)", got)
	}
}

func TestSimulator_ResetClearsEphemeralState(t *testing.T) {
	w := &MockWriter{}
	cfg := testConfig()
	cfg.Sweep.WindowDeg = 180
	s := NewSimulator("session-test", cfg, nil, w, w, rand.New(rand.NewSource(7)))
	advance(s, time.Unix(0, 0), 100*time.Millisecond, 20)
	s.Reset()
	if len(s.TargetSnapshot()) != 0 {
		t.Errorf("reset should clear targets")
	}
	if _, _, locked := s.Reticle(); locked {
		t.Errorf("reset should clear the lock")
	}
	state := s.Sweep()
	if state.AngleDeg != 0 || len(state.Visible) != 0 {
		t.Errorf("reset should clear sweep state: %+v", state)
	}
	// Threat catalogue survives.
	if len(s.ThreatSnapshot()) != len(threat.BuiltIn()) {
		t.Errorf("threat catalogue must survive reset")
	}
}

func TestSimulator_SetSensitivityClamps(t *testing.T) {
	w := &MockWriter{}
	s := testSimulator(w)
	s.SetSensitivity(150)
	if got := s.Sensitivity(); got != 100 {
		t.Errorf("sensitivity = %f, want clamp to 100", got)
	}
	s.SetSensitivity(-1)
	if got := s.Sensitivity(); got != 0 {
		t.Errorf("sensitivity = %f, want clamp to 0", got)
	}
}

func TestTargetBearing(t *testing.T) {
	cases := []struct {
		x, y, want float64
	}{
		{50, 0, 0},    // above center: up
		{100, 50, 90}, // right of center
		{50, 100, 180},
		{0, 50, 270},
	}
	for _, c := range cases {
		got := targetBearing(vision.Target{X: c.x, Y: c.y})
		if got != c.want {
			t.Errorf("targetBearing(%.0f,%.0f) = %f, want %f", c.x, c.y, got, c.want)
		}
	}
}
