package model

// Clamp ranges for DragConfig
const (
	MaxMinimumDistance   = 200.0
	MaxMinSnapFraction   = 0.5
	MaxVelocityThreshold = 1000.0
	MaxResistance        = 1.0
)

// DragConfig holds the interaction parameters of a sheet.
//
// All numeric fields are clamped when the config is built and cannot be
// changed afterwards; out-of-range input is corrected, never rejected.
type DragConfig struct {
	allowsDragFromGatedRegion bool
	enabled                   bool
	minimumDistance           float64
	minSnapFraction           float64
	velocityThreshold         float64
	resistance                float64
}

// NewDragConfig builds a clamped drag configuration.
//
//   - minimumDistance: points the finger must travel before the drag is recognized (0...200)
//   - minSnapFraction: fraction of the container a slow drag must cover to commit (0...0.5)
//   - velocityThreshold: points/second above which a release counts as a flick (0...1000)
//   - resistance: overtravel factor at the first/last detent, 0 = hard stop, 1 = free (0...1)
func NewDragConfig(
	allowsDragFromGatedRegion bool,
	enabled bool,
	minimumDistance float64,
	minSnapFraction float64,
	velocityThreshold float64,
	resistance float64,
) DragConfig {
	return DragConfig{
		allowsDragFromGatedRegion: allowsDragFromGatedRegion,
		enabled:                   enabled,
		minimumDistance:           clamp(minimumDistance, 0, MaxMinimumDistance),
		minSnapFraction:           clamp(minSnapFraction, 0, MaxMinSnapFraction),
		velocityThreshold:         clamp(velocityThreshold, 0, MaxVelocityThreshold),
		resistance:                clamp(resistance, 0, MaxResistance),
	}
}

// DefaultDragConfig returns the stock configuration: enabled, gated region
// blocked, 25pt recognition distance, 10% snap fraction, 500pt/s flick
// threshold and 0.2 resistance.
func DefaultDragConfig() DragConfig {
	return NewDragConfig(false, true, 25, 0.1, 500, 0.2)
}

// AllowsDragFromGatedRegion reports whether gestures may start in the gated region
func (c DragConfig) AllowsDragFromGatedRegion() bool { return c.allowsDragFromGatedRegion }

// IsEnabled reports whether dragging changes the sheet at all
func (c DragConfig) IsEnabled() bool { return c.enabled }

// MinimumDistance returns the recognition distance in points
func (c DragConfig) MinimumDistance() float64 { return c.minimumDistance }

// MinSnapFraction returns the fraction a slow drag must exceed to commit
func (c DragConfig) MinSnapFraction() float64 { return c.minSnapFraction }

// VelocityThreshold returns the flick threshold in points/second
func (c DragConfig) VelocityThreshold() float64 { return c.velocityThreshold }

// Resistance returns the boundary overtravel factor
func (c DragConfig) Resistance() float64 { return c.resistance }

// WithEnabled returns a copy with the enable flag replaced
func (c DragConfig) WithEnabled(enabled bool) DragConfig {
	c.enabled = enabled
	return c
}

// Direction is the vertical direction of an active drag
type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
)

// String returns the direction name
func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "none"
	}
}

// DragState is the transient state of one gesture
type DragState struct {
	beganInGatedRegion bool
	direction          Direction
	lastTranslation    float64
}

// GateBoundary returns the y coordinate where the gated region starts
func GateBoundary(availableHeight, bottomInset float64) float64 {
	return availableHeight - bottomInset
}

// Begin latches whether the gesture started at or below gateBoundary.
// When allowsGated is true the flag always reads false.
func (s *DragState) Begin(startY, gateBoundary float64, allowsGated bool) {
	s.direction = DirectionNone
	s.lastTranslation = 0
	s.beganInGatedRegion = !allowsGated && startY >= gateBoundary
}

// Track records a new translation sample and updates the direction.
// Positive translation moves the finger down.
func (s *DragState) Track(translation float64) Direction {
	if translation > s.lastTranslation {
		s.direction = DirectionDown
	} else {
		s.direction = DirectionUp
	}
	s.lastTranslation = translation
	return s.direction
}

// End resets the state once the gesture finishes
func (s *DragState) End() {
	s.beganInGatedRegion = false
	s.direction = DirectionNone
	s.lastTranslation = 0
}

// BeganInGatedRegion reports the flag latched by Begin
func (s *DragState) BeganInGatedRegion() bool { return s.beganInGatedRegion }

// Direction returns the current drag direction
func (s *DragState) Direction() Direction { return s.direction }
