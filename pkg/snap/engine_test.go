package snap

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Dicklesworthstone/bottomsheet/pkg/model"
)

const availableHeight = 800.0

// twoDetents mirrors the common peek/full sheet: 10% and 100%
func twoDetents() *model.DetentSet {
	first := model.Relative(0.1)
	return model.NewDetentSet([]model.Detent{first, model.Relative(1)}, &first, availableHeight)
}

func TestResolveHeightWithoutResistanceBetweenDetents(t *testing.T) {
	e := NewEngine()
	got := e.ResolveHeight(availableHeight, -100, twoDetents(), model.DefaultDragConfig())
	if got != 180 {
		t.Fatalf("want 180, got %v", got)
	}
}

func TestResolveHeightWithResistanceBelowFirstDetent(t *testing.T) {
	e := NewEngine()
	got := e.ResolveHeight(availableHeight, 10, twoDetents(), model.DefaultDragConfig())
	if math.Abs(got-78) > 1e-9 {
		t.Fatalf("want 80 - 10*0.2 = 78, got %v", got)
	}
}

func TestResolveHeightWithResistanceAboveLastDetent(t *testing.T) {
	e := NewEngine()
	set := twoDetents()
	set.Update(model.Relative(1))
	got := e.ResolveHeight(availableHeight, -50, set, model.DefaultDragConfig())
	if math.Abs(got-810) > 1e-9 {
		t.Fatalf("want 800 + 50*0.2 = 810, got %v", got)
	}
}

func TestResolveHeightDisabled(t *testing.T) {
	e := NewEngine()
	cfg := model.DefaultDragConfig().WithEnabled(false)
	for _, tr := range []float64{-1000, -100, 0, 37, 5000} {
		if got := e.ResolveHeight(availableHeight, tr, twoDetents(), cfg); got != 80 {
			t.Errorf("translation %v: disabled drag should keep base height 80, got %v", tr, got)
		}
	}
}

func TestResolveHeightHardStop(t *testing.T) {
	e := NewEngine()
	cfg := model.NewDragConfig(false, true, 0, 0.1, 500, 0)
	if got := e.ResolveHeight(availableHeight, 200, twoDetents(), cfg); got != 80 {
		t.Fatalf("zero resistance should pin at the first detent, got %v", got)
	}
}

func TestResolveHeightSingleDetent(t *testing.T) {
	e := NewEngine()
	set := model.NewDetentSet([]model.Detent{model.Relative(0.5)}, nil, availableHeight)
	cfg := model.DefaultDragConfig()
	if got := e.ResolveHeight(availableHeight, -100, set, cfg); math.Abs(got-420) > 1e-9 {
		t.Errorf("upward overtravel on a single detent: want 420, got %v", got)
	}
	if got := e.ResolveHeight(availableHeight, 100, set, cfg); math.Abs(got-380) > 1e-9 {
		t.Errorf("downward overtravel on a single detent: want 380, got %v", got)
	}
}

func TestResolveHeightGatedStartKeepsSpanUndamped(t *testing.T) {
	e := NewEngine()
	e.State().Begin(790, model.GateBoundary(availableHeight, 20), false)
	// The gated clause selects the resistance factor, but inside the span the
	// raw height is still returned unmodified.
	got := e.ResolveHeight(availableHeight, -100, twoDetents(), model.DefaultDragConfig())
	if got != 180 {
		t.Fatalf("want 180, got %v", got)
	}
}

func TestResolveHeightNeverSnapsBack(t *testing.T) {
	e := NewEngine()
	cfg := model.DefaultDragConfig()
	prev := math.Inf(1)
	for tr := 0.0; tr <= 400; tr += 10 {
		h := e.ResolveHeight(availableHeight, tr, twoDetents(), cfg)
		if h > prev {
			t.Fatalf("height increased while dragging down: %v -> %v at %v", prev, h, tr)
		}
		prev = h
	}
}

func TestResolveSnapTargetFastFlick(t *testing.T) {
	cfg := model.DefaultDragConfig()
	for _, tr := range []float64{-100, -1, 0, 50} {
		e := NewEngine()
		got := e.ResolveSnapTarget(availableHeight, 160, tr, -(cfg.VelocityThreshold() + 1), twoDetents(), cfg)
		if got != model.Relative(1) {
			t.Errorf("translation %v: upward flick should open to 100%%, got %v", tr, got)
		}
	}

	set := twoDetents()
	set.Update(model.Relative(1))
	got := NewEngine().ResolveSnapTarget(availableHeight, 800, -10, 900, set, cfg)
	if got != model.Relative(0.1) {
		t.Errorf("downward flick should close to 10%%, got %v", got)
	}
}

func TestResolveSnapTargetSlowFlickStays(t *testing.T) {
	cfg := model.DefaultDragConfig()
	got := NewEngine().ResolveSnapTarget(availableHeight, 160, -100, -(cfg.VelocityThreshold() - 1), twoDetents(), cfg)
	if got != model.Relative(0.1) {
		t.Fatalf("sub-threshold release with a short drag should stay, got %v", got)
	}
}

func TestResolveSnapTargetSmallTranslationStays(t *testing.T) {
	closed := 80.0
	translation := availableHeight*0.4 - closed
	got := NewEngine().ResolveSnapTarget(availableHeight, closed, -translation, 0, twoDetents(), model.DefaultDragConfig())
	if got != model.Relative(0.1) {
		t.Fatalf("progress 40%% is nearer the small detent, got %v", got)
	}
}

func TestResolveSnapTargetLargeTranslationCommits(t *testing.T) {
	closed := 80.0
	translation := availableHeight*0.7 - closed
	got := NewEngine().ResolveSnapTarget(availableHeight, closed, -translation, 0, twoDetents(), model.DefaultDragConfig())
	if got != model.Relative(1) {
		t.Fatalf("progress 70%% should open the sheet, got %v", got)
	}
}

func TestResolveSnapTargetThresholdIsStrict(t *testing.T) {
	half := model.Relative(0.5)
	set := model.NewDetentSet([]model.Detent{model.Relative(0.25), half, model.Relative(0.75)}, &half, availableHeight)
	cfg := model.NewDragConfig(false, true, 0, 0.25, 500, 0.2)
	// Nearest is 75%, exactly 0.25 away from the current detent.
	got := NewEngine().ResolveSnapTarget(availableHeight, 400, -200, 0, set, cfg)
	if got != half {
		t.Fatalf("a move equal to the threshold must not commit, got %v", got)
	}
}

func TestResolveSnapTargetGuards(t *testing.T) {
	cfg := model.DefaultDragConfig()

	got := NewEngine().ResolveSnapTarget(availableHeight, 80, -700, -900, twoDetents(), cfg.WithEnabled(false))
	if got != model.Relative(0.1) {
		t.Errorf("disabled drag must not commit, got %v", got)
	}

	gated := NewEngine()
	gated.State().Begin(795, model.GateBoundary(availableHeight, 10), false)
	if got := gated.ResolveSnapTarget(availableHeight, 80, -700, -900, twoDetents(), cfg); got != model.Relative(0.1) {
		t.Errorf("gated gesture must not commit, got %v", got)
	}

	if got := NewEngine().ResolveSnapTarget(0, 80, -700, 0, twoDetents(), cfg); got != model.Relative(0.1) {
		t.Errorf("zero height must not commit, got %v", got)
	}
}

func TestResolveSnapTargetTiesPreferSmallerDetent(t *testing.T) {
	mid := model.Relative(0.5)
	set := model.NewDetentSet([]model.Detent{model.Relative(0.25), mid, model.Relative(0.75)}, &mid, availableHeight)
	cfg := model.NewDragConfig(false, true, 0, 0, 500, 0.2)
	// progress 0.625 is equidistant from 50% and 75%; the earlier one wins.
	got := NewEngine().ResolveSnapTarget(availableHeight, 400, -100, 0, set, cfg)
	if got != mid {
		t.Fatalf("tie should go to the lower detent, got %v", got)
	}
}

func TestSnapClampsAtEnds(t *testing.T) {
	set := twoDetents()
	if Snap(SnapPrevious, set) != model.Relative(0.1) {
		t.Error("previous from first should clamp")
	}
	set.Update(model.Relative(1))
	if Snap(SnapNext, set) != model.Relative(1) {
		t.Error("next from last should clamp, not wrap")
	}
}

// The two-detent path must agree with the general nearest-fraction search,
// including sets given in reverse order and absolute/relative mixes.
func TestTwoDetentFastPathMatchesGeneralSearch(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		a := randomDetent(rng)
		b := randomDetent(rng)
		progress := rng.Float64()
		if rng.Intn(10) == 0 {
			// Exercise exact midpoints.
			progress = (a.ToRelative(availableHeight) + b.ToRelative(availableHeight)) / 2
		}
		set := model.NewDetentSet([]model.Detent{b, a}, nil, availableHeight)
		fractions := set.Fractions(availableHeight)
		if len(fractions) != 2 {
			continue
		}
		fast := nearestOfTwo(fractions[0], fractions[1], progress)
		general := nearestIndex(fractions, progress)
		if fast != general {
			t.Fatalf("fractions %v progress %v: fast path %d, general %d", fractions, progress, fast, general)
		}
	}
}

func randomDetent(rng *rand.Rand) model.Detent {
	if rng.Intn(2) == 0 {
		return model.Relative(float64(rng.Intn(101)) / 100)
	}
	return model.Absolute(float64(rng.Intn(900)))
}
