package collection

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"

	"golang.org/x/xerrors"
)

// encodeKey maps a key to the byte representation used by the database. Only
// strings and integral numbers are accepted for a persistent collection.
func encodeKey(key any) ([]byte, error) {
	switch k := key.(type) {
	case string:
		return []byte(k), nil
	case int:
		return strconv.AppendInt(nil, int64(k), 10), nil
	case int64:
		return strconv.AppendInt(nil, k, 10), nil
	}

	value := reflect.ValueOf(key)

	switch value.Kind() {
	case reflect.String:
		return []byte(value.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.AppendInt(nil, value.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.AppendUint(nil, value.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		// Integral floats are accepted as numeric keys.
		if value.Float() == math.Trunc(value.Float()) {
			return strconv.AppendInt(nil, int64(value.Float()), 10), nil
		}
	}

	return nil, xerrors.Errorf("key '%v': %w", key, ErrInvalidKeyType)
}

// decodeKey maps a stored key back to the key type of the collection. When
// the key type is an interface, the textual form is kept.
func decodeKey[K comparable](data []byte) (K, error) {
	var key K

	value := reflect.ValueOf(&key).Elem()

	switch value.Kind() {
	case reflect.Interface:
		if !reflect.TypeOf("").AssignableTo(value.Type()) {
			return key, xerrors.Errorf("unsupported key type %v", value.Type())
		}

		value.Set(reflect.ValueOf(string(data)))
	case reflect.String:
		value.SetString(string(data))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return key, xerrors.Errorf("failed to parse key '%s': %v", data, err)
		}

		value.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(string(data), 10, 64)
		if err != nil {
			return key, xerrors.Errorf("failed to parse key '%s': %v", data, err)
		}

		value.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return key, xerrors.Errorf("failed to parse key '%s': %v", data, err)
		}

		value.SetFloat(f)
	default:
		return key, xerrors.Errorf("unsupported key type %v", value.Type())
	}

	return key, nil
}

// encodeValue maps a value to its stored form: scalars keep their native
// textual form, composite values are serialized to JSON.
func encodeValue(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.String:
		return []byte(rv.String()), nil
	case reflect.Bool:
		return strconv.AppendBool(nil, rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.AppendInt(nil, rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.AppendUint(nil, rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.AppendFloat(nil, rv.Float(), 'g', -1, 64), nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, xerrors.Errorf("failed to serialize value: %v", err)
	}

	return data, nil
}

// decodeValue maps a stored value back to the value type of the collection.
// The text is parsed as JSON when it is syntactically valid JSON, otherwise
// the raw text is kept, so that both composite and plain scalar values
// round-trip.
func decodeValue[V any](data []byte) (V, error) {
	var value V

	if err := json.Unmarshal(data, &value); err == nil {
		return value, nil
	}

	if raw, ok := any(string(data)).(V); ok {
		return raw, nil
	}

	if raw, ok := any(append([]byte{}, data...)).(V); ok {
		return raw, nil
	}

	return value, xerrors.Errorf("failed to decode value '%s'", data)
}
