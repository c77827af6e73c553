package rest

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
)

// ── Point IDs ────────────────────────────────────────────────────────────────

func encodePointID(id vectordb.PointID) any {
	if id.IsUUID() {
		return id.UUID()
	}
	return id.Num()
}

func encodePointIDs(ids []vectordb.PointID) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = encodePointID(id)
	}
	return out
}

// decodePointID tries an unsigned integer first, then a UUID string.
func decodePointID(path string, v any) (vectordb.PointID, error) {
	switch x := v.(type) {
	case json.Number:
		n, err := asUint64(path, x)
		if err != nil {
			return vectordb.PointID{}, err
		}
		return vectordb.NewIDNum(n), nil
	case string:
		id, err := vectordb.NewIDUUID(x)
		if err != nil {
			return vectordb.PointID{}, vectordb.DataCorrupted(path, "invalid uuid %q", x)
		}
		return id, nil
	case nil:
		return vectordb.PointID{}, vectordb.DataCorrupted(path, "point id is missing")
	default:
		return vectordb.PointID{}, vectordb.TypeMismatch(path, "expected point id, got %s", kindOf(v))
	}
}

func decodePointIDs(path string, v any) ([]vectordb.PointID, error) {
	items, err := asArray(path, v)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]vectordb.PointID, len(items))
	for i, item := range items {
		id, err := decodePointID(index(path, i), item)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

// ── Payload values ───────────────────────────────────────────────────────────

func encodeValue(path string, v vectordb.Value) (any, error) {
	switch x := v.(type) {
	case nil, vectordb.NullValue:
		return nil, nil
	case vectordb.BoolValue:
		return bool(x), nil
	case vectordb.IntegerValue:
		return int64(x), nil
	case vectordb.DoubleValue:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, vectordb.DataCorrupted(path, "%v is not representable in json", f)
		}
		return jsonDouble(f), nil
	case vectordb.StringValue:
		return string(x), nil
	case vectordb.ArrayValue:
		out := make([]any, len(x))
		for i, item := range x {
			w, err := encodeValue(index(path, i), item)
			if err != nil {
				return nil, err
			}
			out[i] = w
		}
		return out, nil
	case vectordb.ObjectValue:
		out := make(object, len(x))
		for key, item := range x {
			w, err := encodeValue(field(path, key), item)
			if err != nil {
				return nil, err
			}
			out[key] = w
		}
		return out, nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported payload value %T", v)
	}
}

// decodeValue tries, in order: null, bool, integer, double, string, array,
// object. A number without fraction or exponent is an integer; one that does
// not fit in int64 falls through to double, the next variant in order.
func decodeValue(path string, v any) (vectordb.Value, error) {
	switch x := v.(type) {
	case nil:
		return vectordb.NullValue{}, nil
	case bool:
		return vectordb.BoolValue(x), nil
	case json.Number:
		if isIntegerLiteral(x) {
			if i, err := strconv.ParseInt(string(x), 10, 64); err == nil {
				return vectordb.IntegerValue(i), nil
			}
		}
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return nil, vectordb.DataCorrupted(path, "%s is not a 64-bit float", x)
		}
		return vectordb.DoubleValue(f), nil
	case string:
		return vectordb.StringValue(x), nil
	case []any:
		out := make(vectordb.ArrayValue, len(x))
		for i, item := range x {
			w, err := decodeValue(index(path, i), item)
			if err != nil {
				return nil, err
			}
			out[i] = w
		}
		return out, nil
	case object:
		out := make(vectordb.ObjectValue, len(x))
		for key, item := range x {
			w, err := decodeValue(field(path, key), item)
			if err != nil {
				return nil, err
			}
			out[key] = w
		}
		return out, nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported json value %T", v)
	}
}

func encodePayload(path string, p vectordb.Payload) (object, error) {
	out := make(object, len(p))
	for key, v := range p {
		w, err := encodeValue(field(path, key), v)
		if err != nil {
			return nil, err
		}
		out[key] = w
	}
	return out, nil
}

// decodePayload returns nil for an absent or empty payload.
func decodePayload(path string, v any) (vectordb.Payload, error) {
	if v == nil {
		return nil, nil
	}
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	if len(o) == 0 {
		return nil, nil
	}
	out := make(vectordb.Payload, len(o))
	for key, item := range o {
		w, err := decodeValue(field(path, key), item)
		if err != nil {
			return nil, err
		}
		out[key] = w
	}
	return out, nil
}

// ── Vectors ──────────────────────────────────────────────────────────────────

func encodeDense(v vectordb.Vector) []float32 {
	if v == nil {
		return []float32{}
	}
	return v
}

func encodeVectors(path string, v vectordb.VectorData) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case vectordb.Vector:
		return encodeDense(x), nil
	case vectordb.NamedVectors:
		out := make(object, len(x))
		for name, vec := range x {
			out[name] = encodeDense(vec)
		}
		return out, nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported vector data %T", v)
	}
}

func decodeDense(path string, v any) (vectordb.Vector, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, vectordb.TypeMismatch(path, "only dense vectors are supported, got %s", kindOf(v))
	}
	if len(items) == 0 {
		return nil, nil
	}
	out := make(vectordb.Vector, len(items))
	for i, item := range items {
		f, err := asFloat32(index(path, i), item)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// decodeVectors reads the "vector" field of a point: an array is a dense
// vector, an object maps names to dense vectors.
func decodeVectors(path string, v any) (vectordb.VectorData, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return decodeDense(path, x)
	case object:
		out := make(vectordb.NamedVectors, len(x))
		for name, item := range x {
			d, err := decodeDense(field(path, name), item)
			if err != nil {
				return nil, err
			}
			out[name] = d
		}
		return out, nil
	default:
		return nil, vectordb.TypeMismatch(path, "expected vector, got %s", kindOf(v))
	}
}

func encodeVectorInput(path string, v vectordb.VectorInput) (any, error) {
	switch x := v.(type) {
	case vectordb.Vector:
		return encodeDense(x), nil
	case vectordb.PointID:
		return encodePointID(x), nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported vector input %T", v)
	}
}

// decodeVectorInput reads an array as a dense vector and a number or
// string as a point id.
func decodeVectorInput(path string, v any) (vectordb.VectorInput, error) {
	switch x := v.(type) {
	case []any:
		return decodeDense(path, x)
	case json.Number, string:
		return decodePointID(path, x)
	case nil:
		return nil, vectordb.DataCorrupted(path, "vector input is missing")
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported vector input %s", kindOf(v))
	}
}

func encodeVectorInputs(path string, vs []vectordb.VectorInput) ([]any, error) {
	out := make([]any, len(vs))
	for i, v := range vs {
		w, err := encodeVectorInput(index(path, i), v)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

func decodeVectorInputs(path string, v any) ([]vectordb.VectorInput, error) {
	if v == nil {
		return nil, nil
	}
	items, err := asArray(path, v)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]vectordb.VectorInput, len(items))
	for i, item := range items {
		w, err := decodeVectorInput(index(path, i), item)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

// ── Enums ────────────────────────────────────────────────────────────────────

// Request and response bodies spell distances capitalised ("Cosine").
func encodeDistance(path string, d vectordb.Distance) (string, error) {
	if _, ok := vectordb.ParseDistance(d.String()); !ok {
		return "", vectordb.InvalidArgument("%s: unknown distance %s", path, d)
	}
	return d.String(), nil
}

func decodeDistance(path string, v any) (vectordb.Distance, error) {
	s, err := asString(path, v)
	if err != nil {
		return vectordb.DistanceUnknown, err
	}
	d, ok := vectordb.ParseDistance(s)
	if !ok {
		return vectordb.DistanceUnknown, vectordb.DataCorrupted(path, "unknown distance %q", s)
	}
	return d, nil
}

// Field schemas are lowercase ("keyword").
func encodeFieldType(t vectordb.FieldType) (string, error) {
	if _, ok := vectordb.ParseFieldType(t.String()); !ok {
		return "", vectordb.InvalidArgument("unknown field type %s", t)
	}
	return t.String(), nil
}

func decodeFieldType(path string, v any) (vectordb.FieldType, error) {
	s, err := asString(path, v)
	if err != nil {
		return vectordb.FieldTypeUnknown, err
	}
	t, ok := vectordb.ParseFieldType(s)
	if !ok {
		return vectordb.FieldTypeUnknown, vectordb.DataCorrupted(path, "unknown field type %q", s)
	}
	return t, nil
}

func decodeUpdateStatus(path string, v any) (vectordb.UpdateStatus, error) {
	s, err := asString(path, v)
	if err != nil {
		return vectordb.UpdateStatusUnknown, err
	}
	st, ok := vectordb.ParseUpdateStatus(s)
	if !ok {
		return vectordb.UpdateStatusUnknown, vectordb.DataCorrupted(path, "unknown update status %q", s)
	}
	return st, nil
}

func decodeCollectionStatus(path string, v any) (vectordb.CollectionStatus, error) {
	s, err := asString(path, v)
	if err != nil {
		return vectordb.CollectionStatusUnknown, err
	}
	st, ok := vectordb.ParseCollectionStatus(s)
	if !ok {
		return vectordb.CollectionStatusUnknown, vectordb.DataCorrupted(path, "unknown collection status %q", s)
	}
	return st, nil
}

// ── Shard keys and group ids ─────────────────────────────────────────────────

func encodeShardKey(k vectordb.ShardKey) any {
	if k.IsNumber() {
		return k.Number()
	}
	return k.Keyword()
}

// encodeShardKeySelector always sends a list, which the server accepts for
// one key as well as many.
func encodeShardKeySelector(s *vectordb.ShardKeySelector) any {
	if s == nil {
		return nil
	}
	keys := make([]any, len(s.Keys))
	for i, k := range s.Keys {
		keys[i] = encodeShardKey(k)
	}
	return keys
}

func putShardKeys(o object, s *vectordb.ShardKeySelector) {
	if s != nil {
		o["shard_key"] = encodeShardKeySelector(s)
	}
}

func decodeShardKey(path string, v any) (*vectordb.ShardKey, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		k := vectordb.NewShardKeyword(x)
		return &k, nil
	case json.Number:
		n, err := asUint64(path, x)
		if err != nil {
			return nil, err
		}
		k := vectordb.NewShardNumber(n)
		return &k, nil
	default:
		return nil, vectordb.TypeMismatch(path, "expected shard key, got %s", kindOf(v))
	}
}

// decodeGroupID reads a string, or a number: non-negative numbers are
// unsigned ids and negative ones signed.
func decodeGroupID(path string, v any) (vectordb.GroupID, error) {
	switch x := v.(type) {
	case string:
		return vectordb.NewGroupIDString(x), nil
	case json.Number:
		if strings.HasPrefix(string(x), "-") {
			i, err := asInt64(path, x)
			if err != nil {
				return vectordb.GroupID{}, err
			}
			return vectordb.NewGroupIDInteger(i), nil
		}
		u, err := asUint64(path, x)
		if err != nil {
			return vectordb.GroupID{}, err
		}
		return vectordb.NewGroupIDUnsigned(u), nil
	case nil:
		return vectordb.GroupID{}, vectordb.DataCorrupted(path, "group id is missing")
	default:
		return vectordb.GroupID{}, vectordb.TypeMismatch(path, "expected group id, got %s", kindOf(v))
	}
}

// ── Collection vector configuration ──────────────────────────────────────────

func encodeVectorParams(path string, p vectordb.VectorParams) (object, error) {
	d, err := encodeDistance(field(path, "distance"), p.Distance)
	if err != nil {
		return nil, err
	}
	out := object{"size": p.Size, "distance": d}
	putOpt(out, "on_disk", p.OnDisk)
	return out, nil
}

func decodeVectorParams(path string, v any) (vectordb.VectorParams, error) {
	o, err := asObject(path, v)
	if err != nil {
		return vectordb.VectorParams{}, err
	}
	size, err := required(path, o, "size", asUint64)
	if err != nil {
		return vectordb.VectorParams{}, err
	}
	d, err := required(path, o, "distance", decodeDistance)
	if err != nil {
		return vectordb.VectorParams{}, err
	}
	onDisk, err := optional(path, o, "on_disk", asBool)
	if err != nil {
		return vectordb.VectorParams{}, err
	}
	return vectordb.VectorParams{Size: size, Distance: d, OnDisk: onDisk}, nil
}

func encodeVectorsConfig(path string, c vectordb.VectorsConfig) (any, error) {
	switch x := c.(type) {
	case nil:
		return nil, nil
	case vectordb.VectorParams:
		return encodeVectorParams(path, x)
	case vectordb.NamedVectorParams:
		out := make(object, len(x))
		for name, params := range x {
			p, err := encodeVectorParams(field(path, name), params)
			if err != nil {
				return nil, err
			}
			out[name] = p
		}
		return out, nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported vectors config %T", c)
	}
}

// decodeVectorsConfig treats an object with a numeric "size" and a string
// "distance" as a single unnamed space and anything else as named spaces.
func decodeVectorsConfig(path string, v any) (vectordb.VectorsConfig, error) {
	if v == nil {
		return nil, nil
	}
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	_, sized := o["size"].(json.Number)
	_, measured := o["distance"].(string)
	if sized && measured {
		return decodeVectorParams(path, o)
	}
	out := make(vectordb.NamedVectorParams, len(o))
	for name, item := range o {
		p, err := decodeVectorParams(field(path, name), item)
		if err != nil {
			return nil, err
		}
		out[name] = p
	}
	return out, nil
}
