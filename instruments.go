package portfolio

import (
	"iter"
	"slices"
)

// Instruments maps instrument ids to values and iterates them in insertion
// order, so that anything accumulated over instruments is reproducible.
//
// The zero value is ready to use.
type Instruments[V any] struct {
	ids   []string
	index map[string]V
}

// Set stores v for id. A new id is appended to the iteration order; an
// existing one keeps its position.
func (m *Instruments[V]) Set(id string, v V) {
	if m.index == nil {
		m.index = make(map[string]V)
	}
	if _, ok := m.index[id]; !ok {
		m.ids = append(m.ids, id)
	}
	m.index[id] = v
}

// Get returns the value stored for id.
func (m *Instruments[V]) Get(id string) (V, bool) {
	v, ok := m.index[id]
	return v, ok
}

// Has reports whether id is present.
func (m *Instruments[V]) Has(id string) bool {
	_, ok := m.index[id]
	return ok
}

func (m *Instruments[V]) Len() int { return len(m.ids) }

// IDs returns the ids in insertion order.
func (m *Instruments[V]) IDs() []string { return slices.Clone(m.ids) }

// All iterates over ids and values in insertion order.
func (m *Instruments[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, id := range m.ids {
			if !yield(id, m.index[id]) {
				return
			}
		}
	}
}
