// Rotating-sweep visibility scheduling shared by video and radar views.
package sweep

import (
	"math"
	"sort"
	"time"
)

// Entity is anything the sweep can reveal: an identity plus a bearing
// angle in degrees. The controller knows nothing else about it.
type Entity struct {
	ID    string
	Angle float64
}

// Controller advances a scan angle around the circle and keeps a set of
// recently swept entity ids, each with its own fade expiry.
type Controller struct {
	angle   float64
	window  float64
	fade    time.Duration
	visible map[string]time.Time
}

// NewController builds a controller with the reveal window in degrees
// and the fade duration after which an unrefreshed id disappears.
func NewController(windowDeg float64, fade time.Duration) *Controller {
	if windowDeg <= 0 {
		windowDeg = 20
	}
	if fade <= 0 {
		fade = 2 * time.Second
	}
	return &Controller{window: windowDeg, fade: fade, visible: make(map[string]time.Time)}
}

// Angle returns the current sweep angle in [0,360).
func (c *Controller) Angle() float64 { return c.angle }

// Advance rotates the sweep by step degrees, wrapping mod 360, and
// returns the new angle.
func (c *Controller) Advance(stepDeg float64) float64 {
	c.angle = math.Mod(c.angle+stepDeg, 360)
	if c.angle < 0 {
		c.angle += 360
	}
	return c.angle
}

// Reveal marks every entity within the window of the current sweep angle
// visible until now+fade. Re-revealing an id resets its expiry.
func (c *Controller) Reveal(entities []Entity, now time.Time) {
	for _, e := range entities {
		d := math.Abs(c.angle - math.Mod(math.Mod(e.Angle, 360)+360, 360))
		if d > 180 {
			d = 360 - d
		}
		if d <= c.window {
			c.visible[e.ID] = now.Add(c.fade)
		}
	}
}

// Expire drops every id whose fade deadline has passed.
func (c *Controller) Expire(now time.Time) {
	for id, deadline := range c.visible {
		if now.After(deadline) {
			delete(c.visible, id)
		}
	}
}

// Visible returns the ids currently revealed, sorted for stable output.
func (c *Controller) Visible(now time.Time) []string {
	ids := make([]string, 0, len(c.visible))
	for id, deadline := range c.visible {
		if !now.After(deadline) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// IsVisible reports whether one id is revealed at the given time.
func (c *Controller) IsVisible(id string, now time.Time) bool {
	deadline, ok := c.visible[id]
	return ok && !now.After(deadline)
}

// Forget removes an id immediately, e.g. when a threat is neutralized.
// Unknown ids are a no-op.
func (c *Controller) Forget(id string) {
	delete(c.visible, id)
}

// Reset clears the visible set and returns the sweep to zero.
func (c *Controller) Reset() {
	c.angle = 0
	c.visible = make(map[string]time.Time)
}
