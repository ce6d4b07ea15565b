package snap

import (
	"log/slog"
	"math"

	"github.com/Dicklesworthstone/bottomsheet/pkg/gesture"
	"github.com/Dicklesworthstone/bottomsheet/pkg/model"
)

// Source is what a host calls as pointer samples arrive. Calls must be made
// in temporal order: Begin once, Change for every move, End once.
type Source interface {
	Begin(s gesture.Sample)
	Change(s gesture.Sample) float64
	End(s gesture.Sample) Outcome
}

// Outcome describes how a gesture ended
type Outcome struct {
	From        model.Detent
	Target      model.Detent
	Committed   bool    // the detent set's current detent changed
	Flick       bool    // the release exceeded the velocity threshold
	Recognized  bool    // the pointer travelled the minimum distance
	Translation float64 // final vertical translation in points
	Velocity    float64 // release velocity in points/second
	Height      float64 // resolved height at release
}

// Session binds an Engine to one sheet's behavior and geometry and turns
// pointer samples into heights and commits.
type Session struct {
	engine   *Engine
	tracker  *gesture.Tracker
	behavior model.Behavior

	availableHeight float64
	translation     float64
}

var _ Source = (*Session)(nil)

// NewSession creates a session for behavior in a container of availableHeight points
func NewSession(behavior model.Behavior, availableHeight float64) *Session {
	return &Session{
		engine:          NewEngine(),
		tracker:         gesture.NewTracker(behavior.Drag.MinimumDistance()),
		behavior:        behavior,
		availableHeight: availableHeight,
	}
}

// Engine returns the underlying engine
func (s *Session) Engine() *Engine { return s.engine }

// Behavior returns the active behavior
func (s *Session) Behavior() model.Behavior { return s.behavior }

// AvailableHeight returns the container height in points
func (s *Session) AvailableHeight() float64 { return s.availableHeight }

// Dragging reports whether a gesture is in progress
func (s *Session) Dragging() bool { return s.tracker.Active() }

// Resize updates the container height for the next layout pass
func (s *Session) Resize(availableHeight float64) {
	s.availableHeight = availableHeight
}

// SetBehavior replaces the behavior wholesale, e.g. after a config reload.
// A gesture in flight is abandoned.
func (s *Session) SetBehavior(behavior model.Behavior) {
	s.behavior = behavior
	s.tracker = gesture.NewTracker(behavior.Drag.MinimumDistance())
	s.engine.state.End()
	s.translation = 0
}

// Begin starts a gesture at sample st, latching the gated-region flag
func (s *Session) Begin(st gesture.Sample) {
	s.translation = 0
	s.tracker.Begin(st)
	s.engine.state.Begin(
		st.Y,
		model.GateBoundary(s.availableHeight, s.behavior.BottomInset),
		s.behavior.Drag.AllowsDragFromGatedRegion(),
	)
}

// Change feeds a move sample and returns the height the sheet should be drawn at
func (s *Session) Change(st gesture.Sample) float64 {
	translation, recognized := s.tracker.Move(st)
	if recognized {
		s.translation = translation
		s.engine.state.Track(translation)
	}
	return s.Height()
}

// Height is the resolved height for the current translation
func (s *Session) Height() float64 {
	return s.engine.ResolveHeight(s.availableHeight, s.translation, s.behavior.Detents, s.behavior.Drag)
}

// RestingHeight is the height of the current detent with no drag applied
func (s *Session) RestingHeight() float64 {
	return s.behavior.Detents.Current().ToAbsolute(s.availableHeight)
}

// End finishes the gesture, resolves the snap target and commits it to the
// behavior's detent set. A release that is more horizontal than vertical
// leaves the sheet on its current detent.
func (s *Session) End(st gesture.Sample) Outcome {
	translation, velocity, recognized := s.tracker.End(st)
	if recognized {
		s.translation = translation
	}

	set := s.behavior.Detents
	out := Outcome{
		From:        set.Current(),
		Target:      set.Current(),
		Recognized:  recognized,
		Translation: s.translation,
		Velocity:    velocity,
		Height:      s.Height(),
	}

	if recognized && s.tracker.Vertical() {
		// The snap path measures progress from the resting height of the
		// current detent, the way the height is sized before the drag.
		out.Flick = s.behavior.Drag.IsEnabled() &&
			!s.engine.state.BeganInGatedRegion() &&
			math.Abs(velocity) > s.behavior.Drag.VelocityThreshold()
		out.Target = s.engine.ResolveSnapTarget(
			s.availableHeight,
			s.RestingHeight(),
			s.translation,
			velocity,
			set,
			s.behavior.Drag,
		)
		out.Committed = set.Update(out.Target)
	}

	s.engine.state.End()
	s.translation = 0

	if out.Committed {
		slog.Debug("sheet detent committed",
			"from", out.From.String(),
			"to", out.Target.String(),
			"translation", out.Translation,
			"velocity", out.Velocity,
			"flick", out.Flick,
		)
	}
	return out
}

// Advance moves one detent for a tap on the drag indicator: forward, or back
// when the sheet is already at its largest detent. It reports whether the
// current detent changed.
func (s *Session) Advance() bool {
	set := s.behavior.Detents
	direction := SnapNext
	if set.IsLast() {
		direction = SnapPrevious
	}
	return set.Update(Snap(direction, set))
}

// JumpTo commits d if it is a member of the detent set
func (s *Session) JumpTo(d model.Detent) bool {
	return s.behavior.Detents.Update(d)
}
