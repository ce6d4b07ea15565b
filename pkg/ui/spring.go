package ui

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

const (
	springFPS       = 60
	springFrequency = 7.0
	springDamping   = 0.85
	// settleEpsilon is how close, in points, counts as arrived
	settleEpsilon = 0.5
)

// frameInterval is the animation tick
var frameInterval = time.Second / springFPS

// settleSpring animates the drawn sheet height toward a detent after release
type settleSpring struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
	moving bool
}

func newSettleSpring() settleSpring {
	return settleSpring{spring: harmonica.NewSpring(harmonica.FPS(springFPS), springFrequency, springDamping)}
}

// jump places the spring at pos with no motion
func (s *settleSpring) jump(pos float64) {
	s.pos = pos
	s.vel = 0
	s.target = pos
	s.moving = false
}

// settle starts moving toward target from the current position with an
// initial velocity in points/second
func (s *settleSpring) settle(target, velocity float64) {
	s.target = target
	s.vel = velocity
	s.moving = true
}

// step advances one frame and reports whether the spring is still moving
func (s *settleSpring) step() bool {
	if !s.moving {
		return false
	}
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
	if math.Abs(s.pos-s.target) < settleEpsilon && math.Abs(s.vel) < settleEpsilon {
		s.pos = s.target
		s.vel = 0
		s.moving = false
	}
	return s.moving
}
