package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
)

// root is the path reported for failures at the top of a decoded document.
const root = "$"

func field(path, name string) string { return path + "." + name }

func index(path string, i int) string { return fmt.Sprintf("%s[%d]", path, i) }

// object is a decoded or to-be-encoded JSON object.
type object = map[string]any

// parse decodes a JSON document into a tree of object, []any, json.Number,
// string, bool and nil. Numbers keep their literal text so integers and
// doubles can be told apart.
func parse(path string, raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, vectordb.DataCorrupted(path, "invalid json: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, vectordb.DataCorrupted(path, "trailing data after json document")
	}
	return v, nil
}

func render(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, vectordb.DataCorrupted(root, "cannot render json: %v", err)
	}
	return b, nil
}

// jsonDouble always renders with a fraction or exponent, so that 3.0 is
// read back as a double and not as the integer 3.
type jsonDouble float64

func (d jsonDouble) MarshalJSON() ([]byte, error) {
	f := float64(d)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%v is not representable in json", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return []byte(s), nil
}

func isIntegerLiteral(n json.Number) bool {
	return !strings.ContainsAny(string(n), ".eE")
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case object:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// ── Tree accessors ───────────────────────────────────────────────────────────

func asObject(path string, v any) (object, error) {
	o, ok := v.(object)
	if !ok {
		return nil, vectordb.TypeMismatch(path, "expected object, got %s", kindOf(v))
	}
	return o, nil
}

func asArray(path string, v any) ([]any, error) {
	a, ok := v.([]any)
	if !ok {
		return nil, vectordb.TypeMismatch(path, "expected array, got %s", kindOf(v))
	}
	return a, nil
}

func asString(path string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", vectordb.TypeMismatch(path, "expected string, got %s", kindOf(v))
	}
	return s, nil
}

func asBool(path string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, vectordb.TypeMismatch(path, "expected bool, got %s", kindOf(v))
	}
	return b, nil
}

func asNumber(path string, v any) (json.Number, error) {
	n, ok := v.(json.Number)
	if !ok {
		return "", vectordb.TypeMismatch(path, "expected number, got %s", kindOf(v))
	}
	return n, nil
}

func asUint64(path string, v any) (uint64, error) {
	n, err := asNumber(path, v)
	if err != nil {
		return 0, err
	}
	if !isIntegerLiteral(n) {
		return 0, vectordb.TypeMismatch(path, "expected unsigned integer, got %s", n)
	}
	u, err := strconv.ParseUint(string(n), 10, 64)
	if err != nil {
		return 0, vectordb.DataCorrupted(path, "%s is not an unsigned 64-bit integer", n)
	}
	return u, nil
}

func asUint32(path string, v any) (uint32, error) {
	u, err := asUint64(path, v)
	if err != nil {
		return 0, err
	}
	if u > math.MaxUint32 {
		return 0, vectordb.DataCorrupted(path, "%d overflows uint32", u)
	}
	return uint32(u), nil
}

func asInt64(path string, v any) (int64, error) {
	n, err := asNumber(path, v)
	if err != nil {
		return 0, err
	}
	if !isIntegerLiteral(n) {
		return 0, vectordb.TypeMismatch(path, "expected integer, got %s", n)
	}
	i, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		return 0, vectordb.DataCorrupted(path, "%s overflows int64", n)
	}
	return i, nil
}

func asFloat64(path string, v any) (float64, error) {
	n, err := asNumber(path, v)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0, vectordb.DataCorrupted(path, "%s is not a 64-bit float", n)
	}
	return f, nil
}

func asFloat32(path string, v any) (float32, error) {
	n, err := asNumber(path, v)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(string(n), 32)
	if err != nil {
		return 0, vectordb.DataCorrupted(path, "%s is not a 32-bit float", n)
	}
	return float32(f), nil
}

// present reports whether key exists and is not null.
func present(o object, key string) bool {
	v, ok := o[key]
	return ok && v != nil
}

// optional reads o[key] with read when the key is present and not null.
func optional[T any](path string, o object, key string, read func(string, any) (T, error)) (*T, error) {
	if !present(o, key) {
		return nil, nil
	}
	v, err := read(field(path, key), o[key])
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// required reads o[key] with read and fails when the key is absent.
func required[T any](path string, o object, key string, read func(string, any) (T, error)) (T, error) {
	if !present(o, key) {
		var zero T
		return zero, vectordb.DataCorrupted(field(path, key), "required field is missing")
	}
	return read(field(path, key), o[key])
}

// putOpt sets o[key] only when v is not nil.
func putOpt[T any](o object, key string, v *T) {
	if v != nil {
		o[key] = *v
	}
}

func nilIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
