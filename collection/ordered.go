package collection

// orderedMap is a plain mapping that additionally remembers the insertion
// order of its keys. Replacing the value of an existing key keeps its
// position. It is the substrate of the collection and performs no validation
// and no persistence.
type orderedMap[K comparable, V any] struct {
	pairs map[K]V
	order []K
}

func newOrderedMap[K comparable, V any]() *orderedMap[K, V] {
	return &orderedMap[K, V]{
		pairs: make(map[K]V),
	}
}

func (m *orderedMap[K, V]) len() int {
	return len(m.order)
}

func (m *orderedMap[K, V]) get(key K) (V, bool) {
	value, found := m.pairs[key]
	return value, found
}

func (m *orderedMap[K, V]) has(key K) bool {
	_, found := m.pairs[key]
	return found
}

func (m *orderedMap[K, V]) set(key K, value V) {
	if _, found := m.pairs[key]; !found {
		m.order = append(m.order, key)
	}

	m.pairs[key] = value
}

func (m *orderedMap[K, V]) delete(key K) bool {
	if _, found := m.pairs[key]; !found {
		return false
	}

	delete(m.pairs, key)

	for i, other := range m.order {
		if other == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	return true
}

// at returns the i-th entry in insertion order.
func (m *orderedMap[K, V]) at(i int) (K, V) {
	key := m.order[i]
	return key, m.pairs[key]
}

func (m *orderedMap[K, V]) keys() []K {
	return append([]K{}, m.order...)
}

func (m *orderedMap[K, V]) values() []V {
	values := make([]V, 0, len(m.order))
	for _, key := range m.order {
		values = append(values, m.pairs[key])
	}

	return values
}

func (m *orderedMap[K, V]) entries() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, len(m.order))
	for _, key := range m.order {
		entries = append(entries, Entry[K, V]{Key: key, Value: m.pairs[key]})
	}

	return entries
}
