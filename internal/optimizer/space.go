// Package optimizer drives the Hardware-in-the-Loop coordinate-search
// tone match (spec.md §4.6): starting from a patch's current parameter
// values, repeatedly nudges one parameter at a time, measures perceptual
// loss through the real device, and keeps whatever improves.
package optimizer

import "sort"

// Bounds describes one parameter's optimizable range: inclusive
// [Min,Max], coordinate-search step size, and current value. Grounded on
// original_source/optimize/search.py's ParameterBounds.
type Bounds struct {
	Min, Max float64
	Step     float64
	Current  float64
}

// Clamp restricts value to [Min,Max].
func (b Bounds) Clamp(value float64) float64 {
	if value < b.Min {
		return b.Min
	}
	if value > b.Max {
		return b.Max
	}
	return value
}

// Space is the set of parameters under optimization, each with its own
// bounds/step/current value.
type Space struct {
	params map[string]*Bounds
}

// NewSpace builds a Space from an initial set of bounds.
func NewSpace(params map[string]Bounds) *Space {
	s := &Space{params: make(map[string]*Bounds, len(params))}
	for name, b := range params {
		cp := b
		s.params[name] = &cp
	}
	return s
}

// Get returns a parameter's current value.
func (s *Space) Get(name string) float64 {
	return s.params[name].Current
}

// Set clamps value to the parameter's bounds and stores it. Reports
// whether name is a known parameter.
func (s *Space) Set(name string, value float64) bool {
	b, ok := s.params[name]
	if !ok {
		return false
	}
	b.Current = b.Clamp(value)
	return true
}

// Bounds returns a copy of a parameter's bounds, or false if unknown.
func (s *Space) Bounds(name string) (Bounds, bool) {
	b, ok := s.params[name]
	if !ok {
		return Bounds{}, false
	}
	return *b, true
}

// Names lists every parameter name, sorted for deterministic traversal
// order across runs.
func (s *Space) Names() []string {
	names := make([]string, 0, len(s.params))
	for name := range s.params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns the current value of every parameter as a plain map,
// the form the loss function and DeviceLink/Patch bridging consume.
func (s *Space) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(s.params))
	for name, b := range s.params {
		out[name] = b.Current
	}
	return out
}

// Clone deep-copies the space, used to snapshot the best-known point
// without aliasing the live search state.
func (s *Space) Clone() *Space {
	out := &Space{params: make(map[string]*Bounds, len(s.params))}
	for name, b := range s.params {
		cp := *b
		out.params[name] = &cp
	}
	return out
}
