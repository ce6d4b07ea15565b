package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultReferenceHeight is the container height used to order detents when
// the host has not supplied one yet.
const DefaultReferenceHeight = 800.0

// ErrInvalidDetent is returned when a detent string cannot be parsed
var ErrInvalidDetent = errors.New("invalid detent")

// Kind tags the payload of a Detent or Width
type Kind int

const (
	KindRelative Kind = iota // fraction of the container, 0...1
	KindAbsolute             // magnitude in points
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindRelative:
		return "relative"
	case KindAbsolute:
		return "absolute"
	default:
		return "unknown"
	}
}

// Detent is one stop the sheet can rest at.
//
// It is a tagged value: either a fraction of the available height or an
// absolute height in points. Two detents are equal only when both the kind
// and the value match, so Relative(0.5) never equals Absolute(400) even when
// they resolve to the same height.
type Detent struct {
	Kind  Kind
	Value float64
}

// Relative returns a detent at fraction f of the available height
func Relative(f float64) Detent {
	return Detent{Kind: KindRelative, Value: f}
}

// Absolute returns a detent at a fixed height in points
func Absolute(m float64) Detent {
	return Detent{Kind: KindAbsolute, Value: m}
}

// IsAbsolute reports whether the detent carries a magnitude in points
func (d Detent) IsAbsolute() bool {
	return d.Kind == KindAbsolute
}

// Equal reports variant-and-value equality
func (d Detent) Equal(other Detent) bool {
	return d.Kind == other.Kind && d.Value == other.Value
}

// ToRelative resolves the detent to a fraction of availableHeight
func (d Detent) ToRelative(availableHeight float64) float64 {
	return ToRelative(d.Value, d.IsAbsolute(), availableHeight)
}

// ToAbsolute resolves the detent to points within availableHeight
func (d Detent) ToAbsolute(availableHeight float64) float64 {
	return ToAbsolute(d.Value, d.IsAbsolute(), availableHeight)
}

// String renders the detent as "50%" or "120pt". ParseDetent of the result
// yields an equal detent.
func (d Detent) String() string {
	if d.IsAbsolute() {
		return strconv.FormatFloat(d.Value, 'f', -1, 64) + "pt"
	}
	return formatRelative(d.Value)
}

// formatRelative picks the shortest percent string that parses back to f.
// Fractions with no such percent fall back to the bare number form.
func formatRelative(f float64) string {
	for prec := 0; prec <= 17; prec++ {
		s := strconv.FormatFloat(f*100, 'f', prec, 64)
		if v, err := strconv.ParseFloat(s, 64); err == nil && v/100 == f {
			return s + "%"
		}
	}
	if f >= 0 && f <= 1 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f*100, 'g', -1, 64) + "%"
}

// IsFinite reports whether the detent's value is a real number
func (d Detent) IsFinite() bool {
	return !math.IsNaN(d.Value) && !math.IsInf(d.Value, 0)
}

// ParseDetent parses "50%", "0.5", "120pt" or "120px".
// A bare number is relative when it is at most 1 and absolute otherwise.
func ParseDetent(s string) (Detent, error) {
	raw := strings.TrimSpace(strings.ToLower(s))
	if raw == "" {
		return Detent{}, fmt.Errorf("%w: empty value", ErrInvalidDetent)
	}

	parse := func(num string) (float64, error) {
		v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDetent, s)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidDetent, s)
		}
		if v < 0 {
			return 0, fmt.Errorf("%w: %q is negative", ErrInvalidDetent, s)
		}
		return v, nil
	}

	switch {
	case strings.HasSuffix(raw, "%"):
		v, err := parse(strings.TrimSuffix(raw, "%"))
		if err != nil {
			return Detent{}, err
		}
		return Relative(v / 100), nil
	case strings.HasSuffix(raw, "pt"), strings.HasSuffix(raw, "px"):
		v, err := parse(raw[:len(raw)-2])
		if err != nil {
			return Detent{}, err
		}
		return Absolute(v), nil
	}

	v, err := parse(raw)
	if err != nil {
		return Detent{}, err
	}
	if v <= 1 {
		return Relative(v), nil
	}
	return Absolute(v), nil
}

// MarshalYAML encodes the detent in its string form
func (d Detent) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML accepts the string form produced by MarshalYAML
func (d *Detent) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected scalar", ErrInvalidDetent, node.Line)
	}
	parsed, err := ParseDetent(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = parsed
	return nil
}

// SortDetents returns a copy of values ordered by resolved fraction against
// reference, smallest first. Equal fractions keep their input order.
func SortDetents(values []Detent, reference float64) []Detent {
	if reference <= 0 {
		reference = DefaultReferenceHeight
	}
	sorted := make([]Detent, len(values))
	copy(sorted, values)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ToRelative(reference) < sorted[j].ToRelative(reference)
	})
	return sorted
}
