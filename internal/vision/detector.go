// Frame-differencing motion detector clustering pixel change into targets.
package vision

import (
	"fmt"
	"math"
	"sort"
)

// Detector tuning constants. Coordinates handed to clustering are
// normalized percentages of the frame span, so the radius and size
// floors are percentages too.
const (
	// BlockStridePx is the sampling grid pitch in pixels.
	BlockStridePx = 10

	// maxPixelDelta is the per-channel diff at which a block is always a
	// candidate regardless of sensitivity.
	maxPixelDelta = 30.0

	// ClusterRadiusPct is the single-linkage merge distance.
	ClusterRadiusPct = 15.0

	// boxPaddingPct grows each bounding box beyond the member extent.
	boxPaddingPct = 2.5

	// minBoxSizePct is the bounding box size floor.
	minBoxSizePct = 5.0

	// MaxTargets caps the detection result, strongest first.
	MaxTargets = 3
)

// Frame is a tightly packed RGBA pixel buffer.
type Frame struct {
	Width  int
	Height int
	Pix    []byte // len = Width*Height*4
}

// NewFrame allocates a zeroed frame.
func NewFrame(width, height int) *Frame {
	return &Frame{Width: width, Height: height, Pix: make([]byte, width*height*4)}
}

// At returns the R,G,B channels of the pixel at (x, y).
func (f *Frame) At(x, y int) (r, g, b byte) {
	i := (y*f.Width + x) * 4
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Set writes the pixel at (x, y) with full alpha.
func (f *Frame) Set(x, y int, r, g, b byte) {
	i := (y*f.Width + x) * 4
	f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = r, g, b, 0xff
}

// Target is one clustered motion region in percentage coordinates.
type Target struct {
	ID         string  `json:"id"`
	X          float64 `json:"x"` // center, 0..100
	Y          float64 `json:"y"` // center, 0..100
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Confidence float64 `json:"confidence"`
	Locked     bool    `json:"locked"`
}

// candidate is one grid block whose anchor pixel changed enough.
type candidate struct {
	x, y float64 // percentage coordinates
	diff float64
}

// Detector turns frame pairs into clustered motion targets.
type Detector struct {
	stride    int
	radiusPct float64
	nextID    func() string
}

// NewDetector builds a detector with the given sampling stride in pixels
// and clustering radius in percent. Non-positive arguments fall back to
// the package defaults. nextID supplies target identifiers.
func NewDetector(stridePx int, radiusPct float64, nextID func() string) *Detector {
	if stridePx <= 0 {
		stridePx = BlockStridePx
	}
	if radiusPct <= 0 {
		radiusPct = ClusterRadiusPct
	}
	if nextID == nil {
		n := 0
		nextID = func() string {
			n++
			return fmt.Sprintf("target-%d", n)
		}
	}
	return &Detector{stride: stridePx, radiusPct: radiusPct, nextID: nextID}
}

// Threshold maps sensitivity [0,100] to the candidate pixel-diff
// threshold. The relationship is inverse: lower sensitivity means a
// higher threshold and therefore fewer detections.
func Threshold(sensitivity float64) float64 {
	if sensitivity < 0 {
		sensitivity = 0
	} else if sensitivity > 100 {
		sensitivity = 100
	}
	return maxPixelDelta * (100 - sensitivity) / 100
}

// Detect diffs two frames and returns up to MaxTargets motion targets
// sorted by confidence descending. A nil or mismatched previous frame
// yields an empty result, never an error.
func (d *Detector) Detect(prev, curr *Frame, sensitivity float64) []Target {
	if prev == nil || curr == nil {
		return nil
	}
	if prev.Width != curr.Width || prev.Height != curr.Height {
		return nil
	}
	if curr.Width <= 0 || curr.Height <= 0 ||
		len(prev.Pix) < prev.Width*prev.Height*4 || len(curr.Pix) < curr.Width*curr.Height*4 {
		return nil
	}

	threshold := Threshold(sensitivity)
	var cands []candidate
	for y := 0; y < curr.Height; y += d.stride {
		for x := 0; x < curr.Width; x += d.stride {
			pr, pg, pb := prev.At(x, y)
			cr, cg, cb := curr.At(x, y)
			diff := (math.Abs(float64(cr)-float64(pr)) +
				math.Abs(float64(cg)-float64(pg)) +
				math.Abs(float64(cb)-float64(pb))) / 3
			if diff > threshold {
				cands = append(cands, candidate{
					x:    float64(x) / float64(curr.Width) * 100,
					y:    float64(y) / float64(curr.Height) * 100,
					diff: diff,
				})
			}
		}
	}
	if len(cands) == 0 {
		return nil
	}

	targets := d.clusterTargets(cands)
	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].Confidence > targets[j].Confidence
	})
	if len(targets) > MaxTargets {
		targets = targets[:MaxTargets]
	}
	return targets
}

// clusterTargets groups candidates by single linkage: a candidate joins a
// cluster if it is within the radius of any member.
func (d *Detector) clusterTargets(cands []candidate) []Target {
	assigned := make([]int, len(cands))
	for i := range assigned {
		assigned[i] = -1
	}
	var clusters [][]int
	for i := range cands {
		if assigned[i] >= 0 {
			continue
		}
		cluster := []int{i}
		assigned[i] = len(clusters)
		// Grow until no unassigned candidate is within reach of a member.
		for grew := true; grew; {
			grew = false
			for j := range cands {
				if assigned[j] >= 0 {
					continue
				}
				for _, m := range cluster {
					if clusterDist(cands[j], cands[m]) < d.radiusPct {
						cluster = append(cluster, j)
						assigned[j] = len(clusters)
						grew = true
						break
					}
				}
			}
		}
		clusters = append(clusters, cluster)
	}

	targets := make([]Target, 0, len(clusters))
	for _, cluster := range clusters {
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		sum := 0.0
		for _, i := range cluster {
			c := cands[i]
			minX = math.Min(minX, c.x)
			minY = math.Min(minY, c.y)
			maxX = math.Max(maxX, c.x)
			maxY = math.Max(maxY, c.y)
			sum += c.diff
		}
		w := math.Max(maxX-minX+2*boxPaddingPct, minBoxSizePct)
		h := math.Max(maxY-minY+2*boxPaddingPct, minBoxSizePct)
		avg := sum / float64(len(cluster))
		sizeFactor := 1 + 0.5*float64(len(cluster)-1)
		targets = append(targets, Target{
			ID:         d.nextID(),
			X:          clampPct((minX + maxX) / 2),
			Y:          clampPct((minY + maxY) / 2),
			Width:      math.Min(w, 100),
			Height:     math.Min(h, 100),
			Confidence: math.Min(100, avg*sizeFactor),
		})
	}
	return targets
}

func clusterDist(a, b candidate) float64 {
	dx := a.x - b.x
	dy := a.y - b.y
	return math.Sqrt(dx*dx + dy*dy)
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
