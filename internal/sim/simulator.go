// Simulator orchestrating detection, threat, and sweep ticks.
package sim

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"sentinel-sim/internal/config"
	"sentinel-sim/internal/geo"
	"sentinel-sim/internal/sweep"
	"sentinel-sim/internal/threat"
	"sentinel-sim/internal/vision"
)

// ContactWriter receives detected-target rows.
type ContactWriter interface {
	WriteContact(vision.ContactRow) error
}

// ThreatWriter receives per-tick threat state rows.
type ThreatWriter interface {
	WriteThreat(threat.Row) error
}

// Optional: writers may support batch mode.
type batchContactWriter interface {
	WriteContacts([]vision.ContactRow) error
}

type batchThreatWriter interface {
	WriteThreats([]threat.Row) error
}

// SweepState is a snapshot of the reveal controller for renderers.
type SweepState struct {
	AngleDeg float64  `json:"angle_deg"`
	Visible  []string `json:"visible"`
}

// ThreatView is a threat snapshot enriched with the derived bearing.
type ThreatView struct {
	threat.Threat
	BearingDeg float64 `json:"bearing_deg"`
}

// Simulator owns the core registries and mutates them only from within
// tick callbacks. Renderers read snapshots through the accessor methods.
type Simulator struct {
	sessionID string
	cfg       *config.SimulationConfig

	detector *vision.Detector
	tracker  *vision.Tracker
	frames   *vision.FrameSource
	registry *threat.Registry
	sweepCtl *sweep.Controller

	contactWriter ContactWriter
	threatWriter  ThreatWriter

	scheduler   *Scheduler
	sensitivity float64
	targets     []vision.Target
	rand        *rand.Rand
	now         func() time.Time
	mu          sync.Mutex
}

// NewSimulator wires the full pipeline from config. The random source
// seeds detection ids, target locks, and threat spawns; pass a fixed
// seed for reproducible sessions.
func NewSimulator(sessionID string, cfg *config.SimulationConfig, catalog []threat.Origin, cw ContactWriter, tw ThreatWriter, r *rand.Rand) *Simulator {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if len(catalog) == 0 {
		catalog = threat.BuiltIn()
	}
	s := &Simulator{
		sessionID:     sessionID,
		cfg:           cfg,
		contactWriter: cw,
		threatWriter:  tw,
		sensitivity:   cfg.Sensitivity,
		rand:          r,
		now:           time.Now,
	}
	s.detector = vision.NewDetector(cfg.Detector.BlockStridePx, cfg.Detector.ClusterRadiusPct, func() string {
		return uuid.New().String()
	})
	s.tracker = vision.NewTracker(cfg.Sensitivity, rand.New(rand.NewSource(r.Int63())))
	s.frames = vision.NewFrameSource(cfg.Frame.Width, cfg.Frame.Height, cfg.Frame.Patches, rand.New(rand.NewSource(r.Int63())))
	s.registry = threat.NewRegistry(cfg.DefendedPosition.Lat, cfg.DefendedPosition.Lng, catalog, rand.New(rand.NewSource(r.Int63())))
	s.sweepCtl = sweep.NewController(cfg.Sweep.WindowDeg, time.Duration(cfg.Sweep.FadeMs)*time.Millisecond)

	s.scheduler = &Scheduler{}
	s.scheduler.Add("sweep", time.Duration(cfg.Intervals.SweepMs)*time.Millisecond, s.sweepTick)
	s.scheduler.Add("threat", time.Duration(cfg.Intervals.ThreatMs)*time.Millisecond, s.threatTick)
	s.scheduler.Add("frame", time.Duration(cfg.Intervals.FrameMs)*time.Millisecond, s.frameTick)
	return s
}

// Run drives the tick scheduler until ctx is done, then clears all
// ephemeral state. Catalogue and configuration survive a restart.
func (s *Simulator) Run(ctx context.Context) {
	s.scheduler.Run(ctx)
	s.Reset()
}

// Tick advances the scheduler manually; used by tests and fixed-step
// harnesses instead of Run.
func (s *Simulator) Tick(now time.Time) {
	s.scheduler.Tick(now)
}

// sweepTick rotates the scan line, expires faded ids, and reveals every
// active entity the sweep currently covers. Video targets and geo
// threats share one controller; only identity and angle matter to it.
func (s *Simulator) sweepTick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepCtl.Advance(s.cfg.Sweep.StepDeg)
	s.sweepCtl.Expire(now)

	var entities []sweep.Entity
	for _, t := range s.registry.Active() {
		entities = append(entities, sweep.Entity{ID: t.ID, Angle: s.registry.Bearing(t)})
	}
	for _, t := range s.targets {
		entities = append(entities, sweep.Entity{ID: t.ID, Angle: targetBearing(t)})
	}
	s.sweepCtl.Reveal(entities, now)
}

// threatTick advances every live threat and emits state rows.
func (s *Simulator) threatTick(now time.Time) {
	s.mu.Lock()
	s.registry.Tick()
	var rows []threat.Row
	for _, t := range s.registry.Active() {
		rows = append(rows, threat.Row{
			SessionID:     s.sessionID,
			ThreatID:      t.ID,
			OriginName:    t.OriginName,
			OriginCountry: t.OriginCountry,
			Kind:          t.Kind,
			Level:         t.Level,
			Progress:      t.Progress,
			DistanceKm:    t.DistanceKm,
			ETASeconds:    t.ETASeconds,
			BearingDeg:    s.registry.Bearing(t),
			Neutralized:   t.Neutralized,
			Timestamp:     now.UTC(),
		})
	}
	s.mu.Unlock()

	if s.threatWriter == nil || len(rows) == 0 {
		return
	}
	if bw, ok := s.threatWriter.(batchThreatWriter); ok {
		_ = bw.WriteThreats(rows)
		return
	}
	for _, r := range rows {
		_ = s.threatWriter.WriteThreat(r)
	}
}

// frameTick captures the next synthetic frame pair, runs detection and
// the lock tracker, and emits contact rows.
func (s *Simulator) frameTick(now time.Time) {
	s.mu.Lock()
	prev, curr := s.frames.Next()
	targets := s.detector.Detect(prev, curr, s.sensitivity)
	targets = s.tracker.Observe(targets)
	s.targets = targets

	var rows []vision.ContactRow
	for _, t := range targets {
		rows = append(rows, vision.ContactRow{
			SessionID:  s.sessionID,
			TargetID:   t.ID,
			X:          t.X,
			Y:          t.Y,
			Width:      t.Width,
			Height:     t.Height,
			Confidence: t.Confidence,
			Locked:     t.Locked,
			Timestamp:  now.UTC(),
		})
	}
	s.mu.Unlock()

	if s.contactWriter == nil || len(rows) == 0 {
		return
	}
	if bw, ok := s.contactWriter.(batchContactWriter); ok {
		_ = bw.WriteContacts(rows)
		return
	}
	for _, r := range rows {
		_ = s.contactWriter.WriteContact(r)
	}
}

// targetBearing maps a target's percent-space center to a bearing from
// the frame center, 0 degrees pointing up.
func targetBearing(t vision.Target) float64 {
	dx := t.X - 50
	dy := t.Y - 50
	deg := math.Atan2(dx, -dy) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// Neutralize terminates a threat across every view reading this
// simulator. Unknown ids are a no-op.
func (s *Simulator) Neutralize(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry.Neutralize(id)
	s.sweepCtl.Forget(id)
}

// SetSensitivity adjusts detection and lock sensitivity, clamped to
// [0,100].
func (s *Simulator) SetSensitivity(v float64) {
	if v < 0 {
		v = 0
	} else if v > 100 {
		v = 100
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sensitivity = v
	s.tracker.SetSensitivity(v)
}

// Sensitivity returns the current detection sensitivity.
func (s *Simulator) Sensitivity() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sensitivity
}

// TargetSnapshot returns the latest detection cycle's targets.
func (s *Simulator) TargetSnapshot() []vision.Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]vision.Target, len(s.targets))
	copy(out, s.targets)
	return out
}

// Reticle returns the tracker's latched coordinates and lock state.
func (s *Simulator) Reticle() (x, y float64, locked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	x, y = s.tracker.Reticle()
	return x, y, s.tracker.Locked()
}

// ThreatSnapshot returns every threat with its derived bearing.
func (s *Simulator) ThreatSnapshot() []ThreatView {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ThreatView
	for _, t := range s.registry.Snapshot() {
		out = append(out, ThreatView{Threat: t, BearingDeg: s.registry.Bearing(t)})
	}
	return out
}

// ThreatCounts tallies live threats by level.
func (s *Simulator) ThreatCounts() map[threat.Level]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Counts()
}

// Arc returns the trajectory points for one threat id, or nil if the
// threat is unknown or neutralized.
func (s *Simulator) Arc(id string) []geo.Point3D {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.registry.Snapshot() {
		if t.ID == id {
			return s.registry.Arc(t)
		}
	}
	return nil
}

// Sweep returns the current sweep angle and visible id set.
func (s *Simulator) Sweep() SweepState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SweepState{AngleDeg: s.sweepCtl.Angle(), Visible: s.sweepCtl.Visible(s.now())}
}

// Reset clears ephemeral session state: targets, lock, visibility, and
// the retained previous frame. Threat catalogue and configuration are
// untouched.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets = nil
	s.tracker.Reset()
	s.sweepCtl.Reset()
	s.frames.Reset()
}

// Respawn restarts the threat wave from fresh spawn progress.
func (s *Simulator) Respawn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry.Respawn()
}

// SessionID identifies this simulator instance in emitted rows.
func (s *Simulator) SessionID() string { return s.sessionID }

// Config exposes the loaded configuration to the admin UI.
func (s *Simulator) Config() *config.SimulationConfig { return s.cfg }
