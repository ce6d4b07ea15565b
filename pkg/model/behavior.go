package model

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Width is the horizontal size of the sheet, relative to the available
// width or absolute in points. Like Detent it is a tagged value.
type Width struct {
	Kind  Kind
	Value float64
}

// RelativeWidth returns a width at fraction f of the available width
func RelativeWidth(f float64) Width {
	return Width{Kind: KindRelative, Value: f}
}

// AbsoluteWidth returns a fixed width in points
func AbsoluteWidth(m float64) Width {
	return Width{Kind: KindAbsolute, Value: m}
}

// ToRelative resolves the width to a fraction of availableWidth
func (w Width) ToRelative(availableWidth float64) float64 {
	return ToRelative(w.Value, w.Kind == KindAbsolute, availableWidth)
}

// ToAbsolute resolves the width to points within availableWidth
func (w Width) ToAbsolute(availableWidth float64) float64 {
	return ToAbsolute(w.Value, w.Kind == KindAbsolute, availableWidth)
}

// String shares the detent notation
func (w Width) String() string {
	return Detent(w).String()
}

// MarshalYAML encodes the width in its string form
func (w Width) MarshalYAML() (interface{}, error) {
	return w.String(), nil
}

// UnmarshalYAML accepts "100%", "0.8" or "60pt"
func (w *Width) UnmarshalYAML(node *yaml.Node) error {
	var d Detent
	if err := d.UnmarshalYAML(node); err != nil {
		return err
	}
	*w = Width(d)
	return nil
}

// Alignment positions the sheet along the bottom edge
type Alignment string

const (
	AlignCenter   Alignment = "center"
	AlignLeading  Alignment = "leading"
	AlignTrailing Alignment = "trailing"
)

// ParseAlignment maps a config string to an Alignment; empty means center
func ParseAlignment(s string) (Alignment, error) {
	switch a := Alignment(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return AlignCenter, nil
	case AlignCenter, AlignLeading, AlignTrailing:
		return a, nil
	default:
		return AlignCenter, fmt.Errorf("unknown alignment %q", s)
	}
}

// Offset returns the leading edge of a sheet of the given width
func (a Alignment) Offset(availableWidth, width float64) float64 {
	free := availableWidth - width
	if free <= 0 {
		return 0
	}
	switch a {
	case AlignLeading:
		return 0
	case AlignTrailing:
		return free
	default:
		return free / 2
	}
}

// Behavior groups everything that decides how a sheet reacts to drags
type Behavior struct {
	Drag      DragConfig
	Width     Width
	Detents   *DetentSet
	Alignment Alignment
	// BottomInset is the height of the gated region at the bottom edge
	BottomInset float64
}

// DefaultBehavior returns the stock behavior
func DefaultBehavior() Behavior {
	return Behavior{
		Drag:      DefaultDragConfig(),
		Width:     RelativeWidth(1),
		Detents:   DefaultDetentSet(),
		Alignment: AlignCenter,
	}
}
