package collection

import (
	"fmt"
	"reflect"
	"sort"

	"golang.org/x/xerrors"
)

// fromEntries builds an in-memory collection from a snapshot of entries.
func fromEntries[K comparable, V any](entries []Entry[K, V]) *Collection[K, V] {
	c := &Collection[K, V]{
		entries: newOrderedMap[K, V](),
		ready:   make(chan struct{}),
	}

	for _, entry := range entries {
		c.entries.set(entry.Key, entry.Value)
	}

	c.fireReady()

	return c
}

// Each calls the function for every entry in insertion order.
func (c *Collection[K, V]) Each(fn func(value V, key K)) {
	for _, entry := range c.Entries() {
		fn(entry.Value, entry.Key)
	}
}

// Find returns the first value in insertion order matching the predicate.
func (c *Collection[K, V]) Find(fn func(value V, key K) bool) (V, bool) {
	for _, entry := range c.Entries() {
		if fn(entry.Value, entry.Key) {
			return entry.Value, true
		}
	}

	var zero V

	return zero, false
}

// FindKey returns the first key in insertion order whose value matches the
// predicate.
func (c *Collection[K, V]) FindKey(fn func(value V, key K) bool) (K, bool) {
	for _, entry := range c.Entries() {
		if fn(entry.Value, entry.Key) {
			return entry.Key, true
		}
	}

	var zero K

	return zero, false
}

// FindAll returns every value matching the predicate, in insertion order.
func (c *Collection[K, V]) FindAll(fn func(value V, key K) bool) []V {
	var values []V

	for _, entry := range c.Entries() {
		if fn(entry.Value, entry.Key) {
			values = append(values, entry.Value)
		}
	}

	return values
}

// Exists returns whether at least one value matches the predicate.
func (c *Collection[K, V]) Exists(fn func(value V, key K) bool) bool {
	_, found := c.Find(fn)
	return found
}

// FindBy returns the first value whose property equals the wanted value. The
// property is resolved on struct fields, on string-keyed maps, and through
// pointers. A nil wanted value is rejected with ErrMissingMatch.
func (c *Collection[K, V]) FindBy(prop string, want any) (V, bool, error) {
	var zero V

	if want == nil {
		return zero, false, xerrors.Errorf("find '%s': %w", prop, ErrMissingMatch)
	}

	for _, entry := range c.Entries() {
		if matchProp(entry.Value, prop, want) {
			return entry.Value, true, nil
		}
	}

	return zero, false, nil
}

// FindKeyBy returns the first key whose value's property equals the wanted
// value. A nil wanted value is rejected with ErrMissingMatch.
func (c *Collection[K, V]) FindKeyBy(prop string, want any) (K, bool, error) {
	var zero K

	if want == nil {
		return zero, false, xerrors.Errorf("find '%s': %w", prop, ErrMissingMatch)
	}

	for _, entry := range c.Entries() {
		if matchProp(entry.Value, prop, want) {
			return entry.Key, true, nil
		}
	}

	return zero, false, nil
}

// FindAllBy returns every value whose property equals the wanted value, in
// insertion order. A nil wanted value is rejected with ErrMissingMatch.
func (c *Collection[K, V]) FindAllBy(prop string, want any) ([]V, error) {
	if want == nil {
		return nil, xerrors.Errorf("find '%s': %w", prop, ErrMissingMatch)
	}

	var values []V

	for _, entry := range c.Entries() {
		if matchProp(entry.Value, prop, want) {
			values = append(values, entry.Value)
		}
	}

	return values, nil
}

// ExistsBy returns whether at least one value has the property equal to the
// wanted value. A nil wanted value is rejected with ErrMissingMatch.
func (c *Collection[K, V]) ExistsBy(prop string, want any) (bool, error) {
	_, found, err := c.FindBy(prop, want)
	return found, err
}

// Filter returns a new in-memory collection holding the entries matching the
// predicate. The receiver is not modified.
func (c *Collection[K, V]) Filter(fn func(value V, key K) bool) *Collection[K, V] {
	var kept []Entry[K, V]

	for _, entry := range c.Entries() {
		if fn(entry.Value, entry.Key) {
			kept = append(kept, entry)
		}
	}

	return fromEntries(kept)
}

// FilterArray returns the values matching the predicate, in insertion order.
func (c *Collection[K, V]) FilterArray(fn func(value V, key K) bool) []V {
	return c.FindAll(fn)
}

// Some returns whether at least one entry matches the predicate.
func (c *Collection[K, V]) Some(fn func(value V, key K) bool) bool {
	return c.Exists(fn)
}

// Every returns whether all the entries match the predicate.
func (c *Collection[K, V]) Every(fn func(value V, key K) bool) bool {
	for _, entry := range c.Entries() {
		if !fn(entry.Value, entry.Key) {
			return false
		}
	}

	return true
}

// Sort returns a new in-memory collection with the entries ordered by the
// comparator over values. A nil comparator sorts by the code points of the
// textual form of the values. The receiver is not modified.
func (c *Collection[K, V]) Sort(less func(a, b V) bool) *Collection[K, V] {
	if less == nil {
		less = func(a, b V) bool {
			return fmt.Sprint(a) < fmt.Sprint(b)
		}
	}

	entries := c.Entries()

	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i].Value, entries[j].Value)
	})

	return fromEntries(entries)
}

// Clone returns a new in-memory collection holding the same entries.
func (c *Collection[K, V]) Clone() *Collection[K, V] {
	return fromEntries(c.Entries())
}

// Concat returns a new in-memory collection with the entries of the receiver
// overlaid by the entries of every given collection in argument order, later
// sources winning on key collision. The sources are not modified.
func (c *Collection[K, V]) Concat(others ...*Collection[K, V]) *Collection[K, V] {
	res := c.Clone()

	for _, other := range others {
		for _, entry := range other.Entries() {
			res.entries.set(entry.Key, entry.Value)
		}
	}

	return res
}

// Equals returns whether both collections have the same size and hold a deep
// equal value for every key.
func (c *Collection[K, V]) Equals(other *Collection[K, V]) bool {
	if other == nil {
		return false
	}

	if c == other {
		return true
	}

	if c.Len() != other.Len() {
		return false
	}

	for _, entry := range c.Entries() {
		value, found := other.Get(entry.Key)
		if !found || !reflect.DeepEqual(value, entry.Value) {
			return false
		}
	}

	return true
}

// Map projects every entry through the function and returns the results in
// insertion order.
func Map[K comparable, V, T any](c *Collection[K, V], fn func(value V, key K) T) []T {
	entries := c.Entries()

	res := make([]T, 0, len(entries))
	for _, entry := range entries {
		res = append(res, fn(entry.Value, entry.Key))
	}

	return res
}

// Reduce folds the entries in insertion order, starting from the initial
// accumulator.
func Reduce[K comparable, V, T any](c *Collection[K, V], fn func(acc T, value V, key K) T, init T) T {
	acc := init

	for _, entry := range c.Entries() {
		acc = fn(acc, entry.Value, entry.Key)
	}

	return acc
}

// matchProp resolves the property on the value and compares it to the wanted
// value. Pointers are dereferenced, struct fields are matched by name and
// string-keyed maps by key.
func matchProp(value any, prop string, want any) bool {
	rv := reflect.ValueOf(value)

	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}

		rv = rv.Elem()
	}

	var field reflect.Value

	switch rv.Kind() {
	case reflect.Struct:
		field = rv.FieldByName(prop)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return false
		}

		field = rv.MapIndex(reflect.ValueOf(prop).Convert(rv.Type().Key()))
	default:
		return false
	}

	if !field.IsValid() || !field.CanInterface() {
		return false
	}

	return reflect.DeepEqual(field.Interface(), want)
}
