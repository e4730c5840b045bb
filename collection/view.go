package collection

import (
	"math/rand"

	"golang.org/x/xerrors"
)

// Values returns the values in insertion order. The slice is memoized:
// consecutive calls without a size change return the same slice, so callers
// must not modify it. The memo is rebuilt as soon as its length differs from
// the container size, which deliberately misses an in-place replacement of an
// existing key (cheap size check over exact dirty-tracking).
func (c *Collection[K, V]) Values() []V {
	c.Lock()
	defer c.Unlock()

	if c.cachedValues == nil || len(c.cachedValues) != c.entries.len() {
		c.cachedValues = c.entries.values()
	}

	return c.cachedValues
}

// Keys returns the keys in insertion order, memoized like Values.
func (c *Collection[K, V]) Keys() []K {
	c.Lock()
	defer c.Unlock()

	if c.cachedKeys == nil || len(c.cachedKeys) != c.entries.len() {
		c.cachedKeys = c.entries.keys()
	}

	return c.cachedKeys
}

// Entries returns a snapshot of the key/value pairs in insertion order.
func (c *Collection[K, V]) Entries() []Entry[K, V] {
	c.Lock()
	defer c.Unlock()

	return c.entries.entries()
}

// First returns the first value in insertion order.
func (c *Collection[K, V]) First() (V, bool) {
	c.Lock()
	defer c.Unlock()

	if c.entries.len() == 0 {
		var zero V
		return zero, false
	}

	_, value := c.entries.at(0)

	return value, true
}

// FirstKey returns the first key in insertion order.
func (c *Collection[K, V]) FirstKey() (K, bool) {
	c.Lock()
	defer c.Unlock()

	if c.entries.len() == 0 {
		var zero K
		return zero, false
	}

	key, _ := c.entries.at(0)

	return key, true
}

// FirstN returns the first n values in insertion order. The count must be
// strictly positive and it is clamped to the size of the collection.
func (c *Collection[K, V]) FirstN(n int) ([]V, error) {
	if n <= 0 {
		return nil, xerrors.Errorf("first: %w", ErrInvalidCount)
	}

	c.Lock()
	defer c.Unlock()

	if n > c.entries.len() {
		n = c.entries.len()
	}

	values := make([]V, 0, n)
	for i := 0; i < n; i++ {
		_, value := c.entries.at(i)
		values = append(values, value)
	}

	return values, nil
}

// Last returns the last value in insertion order.
func (c *Collection[K, V]) Last() (V, bool) {
	values := c.Values()

	if len(values) == 0 {
		var zero V
		return zero, false
	}

	return values[len(values)-1], true
}

// LastKey returns the last key in insertion order.
func (c *Collection[K, V]) LastKey() (K, bool) {
	keys := c.Keys()

	if len(keys) == 0 {
		var zero K
		return zero, false
	}

	return keys[len(keys)-1], true
}

// LastN returns the last n values in insertion order, oldest first. The count
// must be strictly positive and it is clamped to the size of the collection.
func (c *Collection[K, V]) LastN(n int) ([]V, error) {
	if n <= 0 {
		return nil, xerrors.Errorf("last: %w", ErrInvalidCount)
	}

	values := c.Values()

	if n > len(values) {
		n = len(values)
	}

	return append([]V{}, values[len(values)-n:]...), nil
}

// Random returns a value chosen uniformly at random.
func (c *Collection[K, V]) Random() (V, bool) {
	values := c.Values()

	if len(values) == 0 {
		var zero V
		return zero, false
	}

	return values[rand.Intn(len(values))], true
}

// RandomN returns n distinct values sampled without replacement, uniformly at
// random. The count must be strictly positive and it is clamped to the size
// of the collection.
func (c *Collection[K, V]) RandomN(n int) ([]V, error) {
	if n <= 0 {
		return nil, xerrors.Errorf("random: %w", ErrInvalidCount)
	}

	return sample(c.Values(), n), nil
}

// RandomKey returns a key chosen uniformly at random.
func (c *Collection[K, V]) RandomKey() (K, bool) {
	keys := c.Keys()

	if len(keys) == 0 {
		var zero K
		return zero, false
	}

	return keys[rand.Intn(len(keys))], true
}

// RandomKeyN returns n distinct keys sampled without replacement, uniformly
// at random. The count must be strictly positive and it is clamped to the
// size of the collection.
func (c *Collection[K, V]) RandomKeyN(n int) ([]K, error) {
	if n <= 0 {
		return nil, xerrors.Errorf("random: %w", ErrInvalidCount)
	}

	return sample(c.Keys(), n), nil
}

// sample picks n elements without replacement with a partial Fisher-Yates
// shuffle over a working copy, so the source is never modified.
func sample[T any](src []T, n int) []T {
	cpy := append([]T{}, src...)

	if n > len(cpy) {
		n = len(cpy)
	}

	for i := 0; i < n; i++ {
		j := i + rand.Intn(len(cpy)-i)
		cpy[i], cpy[j] = cpy[j], cpy[i]
	}

	return cpy[:n:n]
}
