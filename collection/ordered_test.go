package collection

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderedMap_SetGet(t *testing.T) {
	m := newOrderedMap[string, int]()

	require.Equal(t, 0, m.len())

	m.set("a", 1)
	m.set("b", 2)
	m.set("a", 3)

	require.Equal(t, 2, m.len())

	value, found := m.get("a")
	require.True(t, found)
	require.Equal(t, 3, value)

	_, found = m.get("c")
	require.False(t, found)

	require.True(t, m.has("b"))
	require.False(t, m.has("c"))
}

func TestOrderedMap_Order(t *testing.T) {
	m := newOrderedMap[string, int]()

	m.set("c", 3)
	m.set("a", 1)
	m.set("b", 2)

	// Replacing a value keeps the position of the key.
	m.set("c", 30)

	require.Equal(t, []string{"c", "a", "b"}, m.keys())
	require.Equal(t, []int{30, 1, 2}, m.values())

	key, value := m.at(1)
	require.Equal(t, "a", key)
	require.Equal(t, 1, value)
}

func TestOrderedMap_Delete(t *testing.T) {
	m := newOrderedMap[string, int]()

	m.set("a", 1)
	m.set("b", 2)
	m.set("c", 3)

	require.True(t, m.delete("b"))
	require.False(t, m.delete("b"))

	require.Equal(t, []string{"a", "c"}, m.keys())

	entries := m.entries()
	require.Len(t, entries, 2)
	require.Equal(t, Entry[string, int]{Key: "a", Value: 1}, entries[0])
	require.Equal(t, Entry[string, int]{Key: "c", Value: 3}, entries[1])
}
