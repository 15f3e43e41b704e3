// Registry maintains and advances simulated inbound threats.
package threat

import (
	"math/rand"

	"github.com/google/uuid"

	"sentinel-sim/internal/geo"
)

// Progress advance tunables. The per-tick increment is velocity
// proportional rather than purely time proportional.
const (
	baseIncrement   = 0.001
	velocityDivisor = 100000.0

	// wrapEpsilon restarts a threat shortly after launch instead of at
	// zero, simulating a follow-up wave already in flight.
	wrapEpsilon = 0.05

	// spawn progress sub-range, avoids synchronized first impacts.
	spawnProgressMin = 0.1
	spawnProgressMax = 0.4

	// etaSentinelSeconds caps the ETA for stationary threats (cyber,
	// velocity 0) instead of dividing by zero.
	etaSentinelSeconds = 86400 * 365
)

// Registry is the shared threat store. Consumers hold a reference and
// read snapshots; every view of the same registry sees the same state.
type Registry struct {
	destLat float64
	destLng float64
	threats []*Threat
	rand    *rand.Rand
}

// NewRegistry instantiates one threat per catalogue origin, aimed at the
// defended position, with randomized initial progress.
func NewRegistry(destLat, destLng float64, catalog []Origin, r *rand.Rand) *Registry {
	if r == nil {
		r = rand.New(rand.NewSource(1))
	}
	reg := &Registry{destLat: destLat, destLng: destLng, rand: r}
	for _, o := range catalog {
		th := &Threat{
			ID:            uuid.New().String(),
			OriginLat:     o.Lat,
			OriginLng:     o.Lng,
			OriginName:    o.Name,
			OriginCountry: o.Country,
			Kind:          o.Kind,
			Level:         o.Level,
			VelocityKmh:   o.VelocityKmh,
			AltitudeM:     o.AltitudeM,
			Progress:      spawnProgressMin + r.Float64()*(spawnProgressMax-spawnProgressMin),
			totalKm:       geo.DistanceKm(o.Lat, o.Lng, destLat, destLng),
		}
		reg.derive(th)
		reg.threats = append(reg.threats, th)
	}
	return reg
}

// derive recomputes DistanceKm and ETASeconds from Progress and the
// fixed total distance.
func (r *Registry) derive(t *Threat) {
	t.DistanceKm = t.totalKm * (1 - t.Progress)
	if t.VelocityKmh <= 0 {
		t.ETASeconds = etaSentinelSeconds
		return
	}
	t.ETASeconds = t.DistanceKm / (t.VelocityKmh / 3600)
}

// Tick advances every non-neutralized threat. On reaching full progress
// a threat wraps back to a small epsilon, replaying indefinitely until
// neutralized.
func (r *Registry) Tick() {
	for _, t := range r.threats {
		if t.Neutralized {
			continue
		}
		t.Progress += baseIncrement + t.VelocityKmh/velocityDivisor
		if t.Progress >= 1 {
			t.Progress = wrapEpsilon
		}
		r.derive(t)
	}
}

// Neutralize marks a threat terminal: it stops advancing and drops out
// of arcs, sweep reveal, and level counts. Unknown ids are a no-op.
func (r *Registry) Neutralize(id string) {
	for _, t := range r.threats {
		if t.ID == id {
			t.Neutralized = true
			return
		}
	}
}

// Snapshot returns a copy of every threat for renderers.
func (r *Registry) Snapshot() []Threat {
	out := make([]Threat, len(r.threats))
	for i, t := range r.threats {
		out[i] = *t
	}
	return out
}

// Active returns copies of the non-neutralized threats only.
func (r *Registry) Active() []Threat {
	var out []Threat
	for _, t := range r.threats {
		if !t.Neutralized {
			out = append(out, *t)
		}
	}
	return out
}

// Counts tallies non-neutralized threats per level.
func (r *Registry) Counts() map[Level]int {
	counts := make(map[Level]int)
	for _, t := range r.threats {
		if !t.Neutralized {
			counts[t.Level]++
		}
	}
	return counts
}

// Bearing returns the direction of approach in degrees: the bearing
// from the defended position towards the threat's origin. It is derived
// from geography on demand, never stored.
func (r *Registry) Bearing(t Threat) float64 {
	return geo.Bearing(r.destLat, r.destLng, t.OriginLat, t.OriginLng)
}

// Arc returns the flown trajectory points for one threat. Neutralized
// threats have no arc.
func (r *Registry) Arc(t Threat) []geo.Point3D {
	if t.Neutralized {
		return nil
	}
	// Arc height scales with cruise altitude; the divisor keeps the
	// offset in the same unitless range the renderers expect.
	return geo.ArcPoints(t.OriginLat, t.OriginLng, r.destLat, r.destLng, t.Progress, t.AltitudeM/1000)
}

// Destination returns the defended position threats converge on.
func (r *Registry) Destination() (lat, lng float64) {
	return r.destLat, r.destLng
}

// Respawn resets every threat to a fresh randomized progress and clears
// neutralized flags, reusing the session catalogue.
func (r *Registry) Respawn() {
	for _, t := range r.threats {
		t.Neutralized = false
		t.Progress = spawnProgressMin + r.rand.Float64()*(spawnProgressMax-spawnProgressMin)
		r.derive(t)
	}
}
