package convert

// BiMap is a one-to-one mapping between A and B values. Interface and
// pointer keys compare by identity. BiMap is not synchronized.
type BiMap[A comparable, B comparable] struct {
	ab map[A]B
	ba map[B]A
}

// NewBiMap returns an empty BiMap.
func NewBiMap[A comparable, B comparable]() *BiMap[A, B] {
	return &BiMap[A, B]{ab: make(map[A]B), ba: make(map[B]A)}
}

// Put associates a with b, dropping any previous association of either.
func (m *BiMap[A, B]) Put(a A, b B) {
	if old, ok := m.ab[a]; ok {
		delete(m.ba, old)
	}

	if old, ok := m.ba[b]; ok {
		delete(m.ab, old)
	}

	m.ab[a] = b
	m.ba[b] = a
}

// ByA returns the counterpart of a.
func (m *BiMap[A, B]) ByA(a A) (B, bool) {
	b, ok := m.ab[a]

	return b, ok
}

// ByB returns the counterpart of b.
func (m *BiMap[A, B]) ByB(b B) (A, bool) {
	a, ok := m.ba[b]

	return a, ok
}

// ContainsA reports whether a is mapped.
func (m *BiMap[A, B]) ContainsA(a A) bool {
	_, ok := m.ab[a]

	return ok
}

// ContainsB reports whether b is mapped.
func (m *BiMap[A, B]) ContainsB(b B) bool {
	_, ok := m.ba[b]

	return ok
}

// DeleteA removes a and its counterpart.
func (m *BiMap[A, B]) DeleteA(a A) {
	if b, ok := m.ab[a]; ok {
		delete(m.ba, b)
		delete(m.ab, a)
	}
}

// DeleteB removes b and its counterpart.
func (m *BiMap[A, B]) DeleteB(b B) {
	if a, ok := m.ba[b]; ok {
		delete(m.ab, a)
		delete(m.ba, b)
	}
}

// Len returns the number of associations.
func (m *BiMap[A, B]) Len() int { return len(m.ab) }

// Each calls fn for every association until fn returns false.
func (m *BiMap[A, B]) Each(fn func(a A, b B) bool) {
	for a, b := range m.ab {
		if !fn(a, b) {
			return
		}
	}
}

// Clear removes every association.
func (m *BiMap[A, B]) Clear() {
	clear(m.ab)
	clear(m.ba)
}
