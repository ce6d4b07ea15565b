// Package gesture turns raw pointer samples into the drag signal the snap
// engine consumes: a recognized vertical translation and a release velocity.
package gesture

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// VelocityWindow is how far back the release velocity looks
const VelocityWindow = 100 * time.Millisecond

// maxSamples bounds the sample history kept per gesture
const maxSamples = 64

// Sample is one pointer position in container points
type Sample struct {
	At time.Time
	X  float64
	Y  float64
}

// Tracker accumulates the samples of a single gesture
type Tracker struct {
	minimumDistance float64

	start       Sample
	samples     []Sample
	active      bool
	recognized  bool
	vertical    bool
	translation float64
}

// NewTracker creates a tracker that recognizes a drag once the pointer has
// moved at least minimumDistance points from where it went down
func NewTracker(minimumDistance float64) *Tracker {
	return &Tracker{minimumDistance: math.Max(minimumDistance, 0)}
}

// Begin starts a new gesture at s
func (t *Tracker) Begin(s Sample) {
	t.start = s
	t.samples = append(t.samples[:0], s)
	t.active = true
	t.recognized = false
	t.vertical = false
	t.translation = 0
}

// Move feeds a sample. It returns the vertical translation and whether the
// gesture is recognized as a vertical drag. Samples that are more horizontal
// than vertical leave the translation untouched.
func (t *Tracker) Move(s Sample) (float64, bool) {
	if !t.active {
		return 0, false
	}
	t.push(s)

	dx := s.X - t.start.X
	dy := s.Y - t.start.Y
	t.vertical = math.Abs(dy) > math.Abs(dx)
	if !t.recognized {
		if math.Hypot(dx, dy) < t.minimumDistance {
			return t.translation, false
		}
		t.recognized = true
	}
	if t.vertical {
		t.translation = dy
	}
	return t.translation, true
}

// End closes the gesture and returns the final translation, the release
// velocity in points/second and whether the gesture was ever recognized.
func (t *Tracker) End(s Sample) (translation, velocity float64, recognized bool) {
	if !t.active {
		return 0, 0, false
	}
	translation, _ = t.Move(s)
	velocity = t.Velocity()
	recognized = t.recognized
	t.active = false
	return translation, velocity, recognized
}

// Vertical reports whether the latest sample, measured from the start, moved
// more vertically than horizontally. After End it describes the release.
func (t *Tracker) Vertical() bool {
	return t.vertical
}

// Active reports whether a gesture is in progress
func (t *Tracker) Active() bool {
	return t.active
}

// Start returns the sample the gesture began with
func (t *Tracker) Start() Sample {
	return t.start
}

// Velocity is the least-squares slope of y over time across the samples in
// the last VelocityWindow, in points/second. Positive is downward.
func (t *Tracker) Velocity() float64 {
	if len(t.samples) < 2 {
		return 0
	}
	last := t.samples[len(t.samples)-1].At
	var xs, ys []float64
	for _, s := range t.samples {
		if last.Sub(s.At) > VelocityWindow {
			continue
		}
		xs = append(xs, s.At.Sub(t.start.At).Seconds())
		ys = append(ys, s.Y)
	}
	if len(xs) < 2 || xs[0] == xs[len(xs)-1] {
		return 0
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return 0
	}
	return slope
}

func (t *Tracker) push(s Sample) {
	if len(t.samples) == maxSamples {
		copy(t.samples, t.samples[1:])
		t.samples = t.samples[:maxSamples-1]
	}
	t.samples = append(t.samples, s)
}
