package vision

import "math/rand"

// Tracker layers lock-on semantics over raw detection output. While
// unlocked, each detection cycle rolls a lock chance; once a target is
// acquired the reticle stays latched to it until the target list goes
// empty or the tracker is reset.
type Tracker struct {
	rand        *rand.Rand
	locked      bool
	reticleX    float64
	reticleY    float64
	lockedID    string
	sensitivity float64
}

// NewTracker builds a tracker with an injected random source so lock
// behavior is reproducible in tests.
func NewTracker(sensitivity float64, r *rand.Rand) *Tracker {
	if r == nil {
		r = rand.New(rand.NewSource(1))
	}
	return &Tracker{rand: r, sensitivity: sensitivity}
}

// SetSensitivity updates the sensitivity used for lock probability.
func (t *Tracker) SetSensitivity(sensitivity float64) {
	t.sensitivity = sensitivity
}

// Observe feeds the latest detection cycle to the tracker and returns
// the targets with the lock flag applied. An empty cycle clears any
// existing lock.
func (t *Tracker) Observe(targets []Target) []Target {
	if len(targets) == 0 {
		t.clear()
		return targets
	}
	if !t.locked {
		p := t.sensitivity / 200
		if t.rand.Float64() < p {
			// Uniform choice among the current cycle's targets.
			pick := t.rand.Intn(len(targets))
			t.locked = true
			t.lockedID = targets[pick].ID
			t.reticleX = targets[pick].X
			t.reticleY = targets[pick].Y
		}
	} else {
		// Follow the strongest target of the new cycle; detection output
		// is rebuilt wholesale each cycle so IDs do not persist.
		t.lockedID = targets[0].ID
		t.reticleX = targets[0].X
		t.reticleY = targets[0].Y
	}
	if t.locked {
		for i := range targets {
			if targets[i].ID == t.lockedID {
				targets[i].Locked = true
			}
		}
	}
	return targets
}

// Locked reports whether a target lock is held.
func (t *Tracker) Locked() bool { return t.locked }

// Reticle returns the latched reticle coordinates in percent.
func (t *Tracker) Reticle() (x, y float64) { return t.reticleX, t.reticleY }

// Reset drops the lock and reticle, e.g. on power-off.
func (t *Tracker) Reset() { t.clear() }

func (t *Tracker) clear() {
	t.locked = false
	t.lockedID = ""
	t.reticleX = 0
	t.reticleY = 0
}
