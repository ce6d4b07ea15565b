// Package snap resolves sheet heights during a drag and the detent a sheet
// settles on when the drag ends.
package snap

import (
	"math"

	"github.com/Dicklesworthstone/bottomsheet/pkg/model"
)

// SnapDirection selects a neighbouring detent
type SnapDirection int

const (
	SnapNext SnapDirection = iota
	SnapPrevious
)

// Engine holds the per-gesture drag state and runs the height and snap
// algorithms against it. It is not safe for concurrent use; callers feed
// samples from the goroutine that owns the UI state.
type Engine struct {
	state *model.DragState
}

// NewEngine returns an engine with a fresh drag state
func NewEngine() *Engine {
	return &Engine{state: &model.DragState{}}
}

// State exposes the engine's drag state
func (e *Engine) State() *model.DragState {
	return e.state
}

// ResolveHeight returns the sheet height for one drag sample.
//
// translation is positive when the finger moves down (sheet shrinks).
// Inside the span between the first and last detent the height follows the
// finger exactly; past either end the overtravel is scaled by the configured
// resistance. The same damping applies when an upward drag starts in the
// gated region while the sheet sits at its smallest detent.
func (e *Engine) ResolveHeight(availableHeight, translation float64, set *model.DetentSet, cfg model.DragConfig) float64 {
	baseHeight := availableHeight * set.Current().ToRelative(availableHeight)
	if !cfg.IsEnabled() {
		return baseHeight
	}

	firstHeight := set.First().ToAbsolute(availableHeight)
	lastHeight := set.Last().ToAbsolute(availableHeight)
	rawHeight := baseHeight - translation

	factor := 1.0
	if rawHeight < firstHeight ||
		rawHeight > lastHeight ||
		(translation < 0 && set.IsFirst() && e.state.BeganInGatedRegion()) {
		factor = cfg.Resistance()
	}

	switch {
	case rawHeight < firstHeight:
		return firstHeight + (rawHeight-firstHeight)*factor
	case rawHeight > lastHeight:
		return lastHeight + (rawHeight-lastHeight)*factor
	default:
		return rawHeight
	}
}

// ResolveSnapTarget picks the detent to settle on when a drag ends.
//
// A release faster than the velocity threshold moves exactly one detent
// (up for negative velocity, down otherwise) regardless of distance. Slower
// releases snap to the detent nearest to where the sheet would be, but only
// if that is more than MinSnapFraction away from the current detent.
// Disabled dragging or a gesture that began in the gated region returns the
// current detent.
func (e *Engine) ResolveSnapTarget(
	availableHeight float64,
	sheetHeight float64,
	translation float64,
	velocity float64,
	set *model.DetentSet,
	cfg model.DragConfig,
) model.Detent {
	current := set.Current()
	if !cfg.IsEnabled() || e.state.BeganInGatedRegion() || set.Len() < 1 || availableHeight <= 0 {
		return current
	}

	if math.Abs(velocity) > cfg.VelocityThreshold() {
		if velocity < 0 {
			return Snap(SnapNext, set)
		}
		return Snap(SnapPrevious, set)
	}

	progress := clamp01((sheetHeight - translation) / availableHeight)
	fractions := set.Fractions(availableHeight)

	var nearest int
	if len(fractions) == 2 {
		nearest = nearestOfTwo(fractions[0], fractions[1], progress)
	} else {
		nearest = nearestIndex(fractions, progress)
	}

	currentFraction := current.ToRelative(availableHeight)
	if math.Abs(fractions[nearest]-currentFraction) > cfg.MinSnapFraction() {
		return set.Values()[nearest]
	}
	return current
}

// Snap returns the neighbouring detent in the given direction, clamped at
// the ends of the set
func Snap(direction SnapDirection, set *model.DetentSet) model.Detent {
	if direction == SnapNext {
		return set.Next()
	}
	return set.Previous()
}

// nearestIndex returns the index whose fraction is closest to progress.
// Ties go to the earliest index.
func nearestIndex(fractions []float64, progress float64) int {
	best := 0
	for i := 1; i < len(fractions); i++ {
		if math.Abs(fractions[i]-progress) < math.Abs(fractions[best]-progress) {
			best = i
		}
	}
	return best
}

// nearestOfTwo is nearestIndex specialised for two stops: the far stop wins
// only when it is strictly closer, which matches the earlier-wins tie rule.
func nearestOfTwo(lo, hi, progress float64) int {
	if math.Abs(hi-progress) < math.Abs(lo-progress) {
		return 1
	}
	return 0
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
