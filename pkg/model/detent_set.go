package model

// DetentSet is the ordered, de-duplicated collection of detents a sheet can
// snap between, together with the detent it currently rests at.
//
// The set is never empty and current always refers to one of its members.
type DetentSet struct {
	values  []Detent
	current Detent
}

// NewDetentSet builds a set from values.
//
// Non-finite values and duplicates (same kind and value) are dropped, an
// empty input becomes a single full-height detent, and the result is sorted
// smallest first by resolving each detent against reference. If current is
// nil or not a member, the smallest detent becomes current.
func NewDetentSet(values []Detent, current *Detent, reference float64) *DetentSet {
	unique := make([]Detent, 0, len(values))
	seen := make(map[Detent]struct{}, len(values))
	for _, v := range values {
		if !v.IsFinite() {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}
	if len(unique) == 0 {
		unique = append(unique, Relative(1))
	}

	s := &DetentSet{values: SortDetents(unique, reference)}
	s.current = s.values[0]
	if current != nil && s.Contains(*current) {
		s.current = *current
	}
	return s
}

// DefaultDetentSet returns a two-stop set: 120 points and full height
func DefaultDetentSet() *DetentSet {
	return NewDetentSet([]Detent{Absolute(120), Relative(1)}, nil, DefaultReferenceHeight)
}

// Values returns a copy of the ordered detents
func (s *DetentSet) Values() []Detent {
	out := make([]Detent, len(s.values))
	copy(out, s.values)
	return out
}

// Len returns the number of detents
func (s *DetentSet) Len() int {
	return len(s.values)
}

// Current returns the active detent
func (s *DetentSet) Current() Detent {
	return s.current
}

// First returns the smallest detent
func (s *DetentSet) First() Detent {
	return s.values[0]
}

// Last returns the largest detent
func (s *DetentSet) Last() Detent {
	return s.values[len(s.values)-1]
}

// Index returns the position of d, or -1 if it is not a member
func (s *DetentSet) Index(d Detent) int {
	for i, v := range s.values {
		if v.Equal(d) {
			return i
		}
	}
	return -1
}

// Contains reports whether d is a member of the set
func (s *DetentSet) Contains(d Detent) bool {
	return s.Index(d) >= 0
}

// IsFirst reports whether the current detent is the smallest
func (s *DetentSet) IsFirst() bool {
	return s.First().Equal(s.current)
}

// IsLast reports whether the current detent is the largest
func (s *DetentSet) IsLast() bool {
	return s.Last().Equal(s.current)
}

// Next returns the detent after current, or current when it is the last.
// If current is somehow missing from the set it is returned unchanged.
func (s *DetentSet) Next() Detent {
	i := s.Index(s.current)
	if i < 0 {
		return s.current
	}
	return s.values[min(i+1, len(s.values)-1)]
}

// Previous returns the detent before current, or current when it is the first.
// If current is somehow missing from the set it is returned unchanged.
func (s *DetentSet) Previous() Detent {
	i := s.Index(s.current)
	if i < 0 {
		return s.current
	}
	return s.values[max(i-1, 0)]
}

// Update makes d the current detent. It is a no-op when d is not a member or
// is already current, and reports whether the current detent changed.
func (s *DetentSet) Update(d Detent) bool {
	if !s.Contains(d) || s.current.Equal(d) {
		return false
	}
	s.current = d
	return true
}

// Fractions resolves every detent against availableHeight, in set order
func (s *DetentSet) Fractions(availableHeight float64) []float64 {
	out := make([]float64, len(s.values))
	for i, v := range s.values {
		out[i] = v.ToRelative(availableHeight)
	}
	return out
}

// Clone returns an independent copy of the set
func (s *DetentSet) Clone() *DetentSet {
	return &DetentSet{values: s.Values(), current: s.current}
}
