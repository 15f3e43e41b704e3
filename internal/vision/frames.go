package vision

import "math/rand"

// FrameSource produces successive synthetic frames so the detection
// pipeline can run without camera hardware: a dark noise floor with a
// handful of bright patches drifting between frames.
type FrameSource struct {
	width   int
	height  int
	rand    *rand.Rand
	patches []patch
	prev    *Frame
}

type patch struct {
	x, y   int
	size   int
	dx, dy int
}

// NewFrameSource creates a generator for frames of the given size with
// the given number of moving patches.
func NewFrameSource(width, height, patches int, r *rand.Rand) *FrameSource {
	if r == nil {
		r = rand.New(rand.NewSource(1))
	}
	fs := &FrameSource{width: width, height: height, rand: r}
	for i := 0; i < patches; i++ {
		fs.patches = append(fs.patches, patch{
			x:    r.Intn(width),
			y:    r.Intn(height),
			size: 12 + r.Intn(20),
			dx:   r.Intn(21) - 10,
			dy:   r.Intn(21) - 10,
		})
	}
	return fs
}

// Next renders the next frame and returns it together with the previous
// one. The previous frame is nil on the first call.
func (fs *FrameSource) Next() (prev, curr *Frame) {
	f := NewFrame(fs.width, fs.height)
	for y := 0; y < fs.height; y++ {
		for x := 0; x < fs.width; x++ {
			n := byte(fs.rand.Intn(8))
			f.Set(x, y, n, n, n)
		}
	}
	for i := range fs.patches {
		p := &fs.patches[i]
		p.x = wrap(p.x+p.dx, fs.width)
		p.y = wrap(p.y+p.dy, fs.height)
		for dy := 0; dy < p.size; dy++ {
			for dx := 0; dx < p.size; dx++ {
				x := wrap(p.x+dx, fs.width)
				y := wrap(p.y+dy, fs.height)
				f.Set(x, y, 0xe0, 0xe0, 0xe0)
			}
		}
	}
	prev = fs.prev
	fs.prev = f
	return prev, f
}

// Reset drops the retained previous frame.
func (fs *FrameSource) Reset() { fs.prev = nil }

func wrap(v, max int) int {
	v %= max
	if v < 0 {
		v += max
	}
	return v
}
