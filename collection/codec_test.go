package collection

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeKey(t *testing.T) {
	data, err := encodeKey("users")
	require.NoError(t, err)
	require.Equal(t, []byte("users"), data)

	data, err = encodeKey(42)
	require.NoError(t, err)
	require.Equal(t, []byte("42"), data)

	data, err = encodeKey(uint8(7))
	require.NoError(t, err)
	require.Equal(t, []byte("7"), data)

	data, err = encodeKey(float64(3))
	require.NoError(t, err)
	require.Equal(t, []byte("3"), data)

	_, err = encodeKey(3.14)
	require.ErrorIs(t, err, ErrInvalidKeyType)

	_, err = encodeKey(struct{}{})
	require.ErrorIs(t, err, ErrInvalidKeyType)

	_, err = encodeKey([]string{"a"})
	require.ErrorIs(t, err, ErrInvalidKeyType)
}

func TestDecodeKey(t *testing.T) {
	key, err := decodeKey[string]([]byte("users"))
	require.NoError(t, err)
	require.Equal(t, "users", key)

	n, err := decodeKey[int]([]byte("42"))
	require.NoError(t, err)
	require.Equal(t, 42, n)

	_, err = decodeKey[int]([]byte("users"))
	require.Error(t, err)

	// An interface key type keeps the textual form.
	raw, err := decodeKey[any]([]byte("42"))
	require.NoError(t, err)
	require.Equal(t, "42", raw)
}

func TestEncodeValue(t *testing.T) {
	// Scalars keep their native textual form, without JSON quoting.
	data, err := encodeValue("hello world")
	require.NoError(t, err)
	require.Equal(t, []byte("hello world"), data)

	data, err = encodeValue(42)
	require.NoError(t, err)
	require.Equal(t, []byte("42"), data)

	data, err = encodeValue(true)
	require.NoError(t, err)
	require.Equal(t, []byte("true"), data)

	data, err = encodeValue(1.5)
	require.NoError(t, err)
	require.Equal(t, []byte("1.5"), data)

	// Composite values are serialized to JSON.
	data, err = encodeValue(map[string]int{"a": 1})
	require.NoError(t, err)
	require.Equal(t, []byte(`{"a":1}`), data)

	data, err = encodeValue([]int{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, []byte(`[1,2,3]`), data)

	_, err = encodeValue(map[string]any{"fn": func() {}})
	require.Error(t, err)
}

func TestDecodeValue(t *testing.T) {
	// Valid JSON is parsed.
	value, err := decodeValue[any]([]byte(`{"a":1}`))
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": float64(1)}, value)

	value, err = decodeValue[any]([]byte("42"))
	require.NoError(t, err)
	require.Equal(t, float64(42), value)

	// Text that is not valid JSON is kept raw.
	value, err = decodeValue[any]([]byte("hello world"))
	require.NoError(t, err)
	require.Equal(t, "hello world", value)

	str, err := decodeValue[string]([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, "hello", str)

	n, err := decodeValue[int]([]byte("42"))
	require.NoError(t, err)
	require.Equal(t, 42, n)

	_, err = decodeValue[int]([]byte("not a number"))
	require.Error(t, err)
}
