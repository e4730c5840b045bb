package collection

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func makeCollection(t *testing.T, entries ...Entry[string, int]) *Collection[string, int] {
	t.Helper()

	c, err := New(Config{}, entries...)
	require.NoError(t, err)

	return c
}

func TestCollection_Values_Memoized(t *testing.T) {
	c := makeCollection(t,
		Entry[string, int]{Key: "a", Value: 1},
		Entry[string, int]{Key: "b", Value: 2})

	first := c.Values()
	second := c.Values()

	require.Equal(t, []int{1, 2}, first)

	// Without a size change, the same backing array is returned.
	require.Equal(t,
		reflect.ValueOf(first).Pointer(),
		reflect.ValueOf(second).Pointer())

	require.True(t, c.Delete("a"))

	require.Equal(t, []int{2}, c.Values())
}

func TestCollection_Keys_Memoized(t *testing.T) {
	c := makeCollection(t,
		Entry[string, int]{Key: "a", Value: 1},
		Entry[string, int]{Key: "b", Value: 2})

	first := c.Keys()
	second := c.Keys()

	require.Equal(t, []string{"a", "b"}, first)
	require.Equal(t,
		reflect.ValueOf(first).Pointer(),
		reflect.ValueOf(second).Pointer())

	_, err := c.Set("c", 3)
	require.NoError(t, err)

	require.Equal(t, []string{"a", "b", "c"}, c.Keys())
}

func TestCollection_FirstLast(t *testing.T) {
	c := makeCollection(t,
		Entry[string, int]{Key: "a", Value: 1},
		Entry[string, int]{Key: "b", Value: 2},
		Entry[string, int]{Key: "c", Value: 3})

	value, found := c.First()
	require.True(t, found)
	require.Equal(t, 1, value)

	key, found := c.FirstKey()
	require.True(t, found)
	require.Equal(t, "a", key)

	value, found = c.Last()
	require.True(t, found)
	require.Equal(t, 3, value)

	key, found = c.LastKey()
	require.True(t, found)
	require.Equal(t, "c", key)

	empty := makeCollection(t)

	_, found = empty.First()
	require.False(t, found)

	_, found = empty.Last()
	require.False(t, found)
}

func TestCollection_FirstN(t *testing.T) {
	c := makeCollection(t,
		Entry[string, int]{Key: "a", Value: 1},
		Entry[string, int]{Key: "b", Value: 2},
		Entry[string, int]{Key: "c", Value: 3})

	values, err := c.FirstN(2)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, values)

	// The count is clamped to the size.
	values, err = c.FirstN(10)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, values)

	_, err = c.FirstN(0)
	require.ErrorIs(t, err, ErrInvalidCount)

	_, err = c.FirstN(-3)
	require.ErrorIs(t, err, ErrInvalidCount)
}

func TestCollection_LastN(t *testing.T) {
	c := makeCollection(t,
		Entry[string, int]{Key: "a", Value: 1},
		Entry[string, int]{Key: "b", Value: 2},
		Entry[string, int]{Key: "c", Value: 3})

	values, err := c.LastN(2)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, values)

	values, err = c.LastN(10)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, values)

	_, err = c.LastN(0)
	require.ErrorIs(t, err, ErrInvalidCount)
}

func TestCollection_Random(t *testing.T) {
	c := makeCollection(t,
		Entry[string, int]{Key: "a", Value: 1},
		Entry[string, int]{Key: "b", Value: 2},
		Entry[string, int]{Key: "c", Value: 3},
		Entry[string, int]{Key: "d", Value: 4},
		Entry[string, int]{Key: "e", Value: 5})

	value, found := c.Random()
	require.True(t, found)
	require.Contains(t, []int{1, 2, 3, 4, 5}, value)

	empty := makeCollection(t)

	_, found = empty.Random()
	require.False(t, found)

	_, found = empty.RandomKey()
	require.False(t, found)
}

func TestCollection_RandomN(t *testing.T) {
	c := makeCollection(t,
		Entry[string, int]{Key: "a", Value: 1},
		Entry[string, int]{Key: "b", Value: 2},
		Entry[string, int]{Key: "c", Value: 3},
		Entry[string, int]{Key: "d", Value: 4},
		Entry[string, int]{Key: "e", Value: 5})

	values, err := c.RandomN(3)
	require.NoError(t, err)
	require.Len(t, values, 3)

	// Sampling is without replacement.
	seen := map[int]struct{}{}
	for _, value := range values {
		require.Contains(t, []int{1, 2, 3, 4, 5}, value)
		_, dup := seen[value]
		require.False(t, dup)
		seen[value] = struct{}{}
	}

	// The source is left untouched.
	require.Equal(t, []int{1, 2, 3, 4, 5}, c.Values())

	values, err = c.RandomN(10)
	require.NoError(t, err)
	require.Len(t, values, 5)

	_, err = c.RandomN(0)
	require.ErrorIs(t, err, ErrInvalidCount)

	keys, err := c.RandomKeyN(5)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, keys)
}
