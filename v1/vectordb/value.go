package vectordb

import (
	"fmt"
	"reflect"
	"sort"
)

// Value is a payload value, effectively a typed JSON value.
//
// It is a closed union: the only implementations are NullValue, BoolValue,
// IntegerValue, DoubleValue, StringValue, ArrayValue and ObjectValue.
// IntegerValue and DoubleValue are distinct variants and never convert into
// each other implicitly.
type Value interface {
	isValue()
}

type (
	NullValue    struct{}
	BoolValue    bool
	IntegerValue int64
	DoubleValue  float64
	StringValue  string
	ArrayValue   []Value
	ObjectValue  map[string]Value
)

func (NullValue) isValue()    {}
func (BoolValue) isValue()    {}
func (IntegerValue) isValue() {}
func (DoubleValue) isValue()  {}
func (StringValue) isValue()  {}
func (ArrayValue) isValue()   {}
func (ObjectValue) isValue()  {}

// Payload is the document attached to a point.
type Payload = map[string]Value

// NewArray builds an array value. It never returns a nil slice.
func NewArray(values ...Value) ArrayValue {
	if values == nil {
		return ArrayValue{}
	}
	return ArrayValue(values)
}

// NewValue converts a native Go value into a payload Value.
//
// Signed and unsigned integer kinds become IntegerValue, float kinds become
// DoubleValue, maps with string keys become ObjectValue and slices become
// ArrayValue. nil becomes NullValue. Anything else is an InvalidArgument error.
func NewValue(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return NullValue{}, nil
	case Value:
		return x, nil
	case bool:
		return BoolValue(x), nil
	case string:
		return StringValue(x), nil
	case int:
		return IntegerValue(x), nil
	case int8:
		return IntegerValue(x), nil
	case int16:
		return IntegerValue(x), nil
	case int32:
		return IntegerValue(x), nil
	case int64:
		return IntegerValue(x), nil
	case uint8:
		return IntegerValue(x), nil
	case uint16:
		return IntegerValue(x), nil
	case uint32:
		return IntegerValue(x), nil
	case uint:
		if uint64(x) > 1<<63-1 {
			return nil, InvalidArgument("unsigned value %d overflows int64", x)
		}
		return IntegerValue(x), nil
	case uint64:
		if x > 1<<63-1 {
			return nil, InvalidArgument("unsigned value %d overflows int64", x)
		}
		return IntegerValue(x), nil
	case float32:
		return DoubleValue(x), nil
	case float64:
		return DoubleValue(x), nil
	case map[string]any:
		return NewValueMap(x)
	case []any:
		out := make(ArrayValue, 0, len(x))
		for i, item := range x {
			val, err := NewValue(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out = append(out, val)
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make(ArrayValue, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			val, err := NewValue(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out = append(out, val)
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, InvalidArgument("map key type %s is not string", rv.Type().Key())
		}
		out := make(ObjectValue, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			val, err := NewValue(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", iter.Key().String(), err)
			}
			out[iter.Key().String()] = val
		}
		return out, nil
	}

	return nil, InvalidArgument("unsupported payload type %T", v)
}

// NewValueMap converts a native Go map into a Payload.
func NewValueMap(m map[string]any) (ObjectValue, error) {
	out := make(ObjectValue, len(m))
	for k, v := range m {
		val, err := NewValue(v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[k] = val
	}
	return out, nil
}

// MustPayload is NewValueMap for literals in tests and examples; it panics on error.
func MustPayload(m map[string]any) Payload {
	out, err := NewValueMap(m)
	if err != nil {
		panic(err)
	}
	return out
}

// Native converts a Value back into plain Go types
// (nil, bool, int64, float64, string, []any, map[string]any).
func Native(v Value) any {
	switch x := v.(type) {
	case nil, NullValue:
		return nil
	case BoolValue:
		return bool(x)
	case IntegerValue:
		return int64(x)
	case DoubleValue:
		return float64(x)
	case StringValue:
		return string(x)
	case ArrayValue:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Native(item)
		}
		return out
	case ObjectValue:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = Native(item)
		}
		return out
	default:
		panic(fmt.Sprintf("vectordb: unknown value variant %T", v))
	}
}

// SortedKeys returns the keys of an object in lexical order, e.g. for
// stable iteration over a Payload. The codecs do not need it: encoding/json
// sorts map keys and protobuf maps carry no order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
