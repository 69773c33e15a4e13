package nullness

// Location is an abstract storage location: an opaque, host-assigned identity
// for a unit of memory, stable along one exploration path and comparable for
// equality. Derived locations (field-of, element-of) resolve to a base
// location through Base before any fact lookup.
type Location interface {
	// Base returns the innermost ancestor that is neither a field nor an
	// element location. Base locations return themselves.
	Base() Location
}

// Map is the path-local fact store: a mapping from base storage locations to
// nullability facts with deterministic iteration order. Maps are immutable by
// convention; Set and Reap return forks so that sibling paths never observe
// each other's writes.
//
// Invariant: every key is a base location. All writers normalize through
// Location.Base before insertion.
type Map struct {
	inner map[Location]Fact
	keys  []Location
}

// NewMap returns a new, empty fact store.
func NewMap() *Map {
	return &Map{inner: make(map[Location]Fact)}
}

// Lookup returns the fact recorded for loc. The ok result is false when loc
// is in the implicit Unknown state.
func (m *Map) Lookup(loc Location) (Fact, bool) {
	if m == nil {
		return 0, false
	}
	f, ok := m.inner[loc]
	return f, ok
}

// Len returns the number of locations with a recorded fact.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Set returns a fork of m in which loc maps to f, overwriting any prior fact.
func (m *Map) Set(loc Location, f Fact) *Map {
	next := m.fork(1)
	if _, ok := next.inner[loc]; !ok {
		next.keys = append(next.keys, loc)
	}
	next.inner[loc] = f
	return next
}

// Reap returns a fork of m with every location for which dead returns true
// removed. The second result reports whether anything was actually removed,
// letting the caller avoid manufacturing spurious successor snapshots.
func (m *Map) Reap(dead func(Location) bool) (*Map, bool) {
	if m == nil {
		return nil, false
	}
	removed := 0
	for _, k := range m.keys {
		if dead(k) {
			removed++
		}
	}
	if removed == 0 {
		return m, false
	}
	next := &Map{
		inner: make(map[Location]Fact, len(m.keys)-removed),
		keys:  make([]Location, 0, len(m.keys)-removed),
	}
	for _, k := range m.keys {
		if dead(k) {
			continue
		}
		next.keys = append(next.keys, k)
		next.inner[k] = m.inner[k]
	}
	return next, true
}

// OrderedRange calls f for each location and fact in insertion order. If f
// returns false, the iteration stops.
func (m *Map) OrderedRange(f func(Location, Fact) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !f(k, m.inner[k]) {
			return
		}
	}
}

func (m *Map) fork(extra int) *Map {
	if m == nil {
		return NewMap()
	}
	next := &Map{
		inner: make(map[Location]Fact, len(m.keys)+extra),
		keys:  make([]Location, len(m.keys), len(m.keys)+extra),
	}
	copy(next.keys, m.keys)
	for k, v := range m.inner {
		next.inner[k] = v
	}
	return next
}
