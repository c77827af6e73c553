package rpc

import (
	"fmt"
	"math"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
	qdrant "github.com/qdrant/go-client/qdrant"
)

// root is the path reported for failures at the top of a decoded value.
const root = "$"

func field(path, name string) string { return path + "." + name }

func index(path string, i int) string { return fmt.Sprintf("%s[%d]", path, i) }

// ── Point IDs ────────────────────────────────────────────────────────────────

func encodePointID(id vectordb.PointID) *qdrant.PointId {
	if id.IsUUID() {
		return &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: id.UUID()}}
	}
	return &qdrant.PointId{PointIdOptions: &qdrant.PointId_Num{Num: id.Num()}}
}

func encodePointIDs(ids []vectordb.PointID) []*qdrant.PointId {
	if len(ids) == 0 {
		return nil
	}
	out := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		out[i] = encodePointID(id)
	}
	return out
}

func decodePointID(path string, w *qdrant.PointId) (vectordb.PointID, error) {
	switch v := w.GetPointIdOptions().(type) {
	case *qdrant.PointId_Num:
		return vectordb.NewIDNum(v.Num), nil
	case *qdrant.PointId_Uuid:
		id, err := vectordb.NewIDUUID(v.Uuid)
		if err != nil {
			return vectordb.PointID{}, vectordb.DataCorrupted(path, "invalid uuid %q", v.Uuid)
		}
		return id, nil
	case nil:
		return vectordb.PointID{}, vectordb.DataCorrupted(path, "point id is missing")
	default:
		return vectordb.PointID{}, vectordb.TypeMismatch(path, "unsupported point id variant %T", v)
	}
}

func decodePointIDs(path string, ws []*qdrant.PointId) ([]vectordb.PointID, error) {
	if len(ws) == 0 {
		return nil, nil
	}
	out := make([]vectordb.PointID, len(ws))
	for i, w := range ws {
		id, err := decodePointID(index(path, i), w)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

// ── Payload values ───────────────────────────────────────────────────────────

func encodeValue(path string, v vectordb.Value) (*qdrant.Value, error) {
	switch x := v.(type) {
	case nil, vectordb.NullValue:
		return &qdrant.Value{Kind: &qdrant.Value_NullValue{NullValue: qdrant.NullValue_NULL_VALUE}}, nil
	case vectordb.BoolValue:
		return &qdrant.Value{Kind: &qdrant.Value_BoolValue{BoolValue: bool(x)}}, nil
	case vectordb.IntegerValue:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(x)}}, nil
	case vectordb.DoubleValue:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, vectordb.DataCorrupted(path, "%v is not a finite double", f)
		}
		return &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: f}}, nil
	case vectordb.StringValue:
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: string(x)}}, nil
	case vectordb.ArrayValue:
		values := make([]*qdrant.Value, len(x))
		for i, item := range x {
			w, err := encodeValue(index(path, i), item)
			if err != nil {
				return nil, err
			}
			values[i] = w
		}
		return &qdrant.Value{Kind: &qdrant.Value_ListValue{ListValue: &qdrant.ListValue{Values: values}}}, nil
	case vectordb.ObjectValue:
		fields, err := encodePayload(path, x)
		if err != nil {
			return nil, err
		}
		if fields == nil {
			fields = map[string]*qdrant.Value{}
		}
		return &qdrant.Value{Kind: &qdrant.Value_StructValue{StructValue: &qdrant.Struct{Fields: fields}}}, nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported payload value %T", v)
	}
}

func decodeValue(path string, w *qdrant.Value) (vectordb.Value, error) {
	switch k := w.GetKind().(type) {
	case *qdrant.Value_NullValue:
		return vectordb.NullValue{}, nil
	case *qdrant.Value_BoolValue:
		return vectordb.BoolValue(k.BoolValue), nil
	case *qdrant.Value_IntegerValue:
		return vectordb.IntegerValue(k.IntegerValue), nil
	case *qdrant.Value_DoubleValue:
		return vectordb.DoubleValue(k.DoubleValue), nil
	case *qdrant.Value_StringValue:
		return vectordb.StringValue(k.StringValue), nil
	case *qdrant.Value_ListValue:
		items := k.ListValue.GetValues()
		out := make(vectordb.ArrayValue, len(items))
		for i, item := range items {
			v, err := decodeValue(index(path, i), item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *qdrant.Value_StructValue:
		fields := k.StructValue.GetFields()
		out := make(vectordb.ObjectValue, len(fields))
		for key, item := range fields {
			v, err := decodeValue(field(path, key), item)
			if err != nil {
				return nil, err
			}
			out[key] = v
		}
		return out, nil
	case nil:
		return nil, vectordb.TypeMismatch(path, "value has no kind")
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported value kind %T", k)
	}
}

// encodePayload returns nil for an empty payload.
func encodePayload(path string, p vectordb.Payload) (map[string]*qdrant.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	out := make(map[string]*qdrant.Value, len(p))
	for key, v := range p {
		w, err := encodeValue(field(path, key), v)
		if err != nil {
			return nil, err
		}
		out[key] = w
	}
	return out, nil
}

// decodePayload returns nil for an empty payload, matching what the
// server sends when the payload was not requested.
func decodePayload(path string, ws map[string]*qdrant.Value) (vectordb.Payload, error) {
	if len(ws) == 0 {
		return nil, nil
	}
	out := make(vectordb.Payload, len(ws))
	for key, w := range ws {
		v, err := decodeValue(field(path, key), w)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

// ── Vectors ──────────────────────────────────────────────────────────────────

func encodeVectors(path string, v vectordb.VectorData) (*qdrant.Vectors, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case vectordb.Vector:
		return qdrant.NewVectorsDense(x), nil
	case vectordb.NamedVectors:
		named := make(map[string]*qdrant.Vector, len(x))
		for name, vec := range x {
			named[name] = qdrant.NewVectorDense(vec)
		}
		return qdrant.NewVectorsMap(named), nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported vector data %T", v)
	}
}

func decodeVectors(path string, w *qdrant.Vectors) (vectordb.VectorData, error) {
	switch o := w.GetVectorsOptions().(type) {
	case nil:
		return nil, nil
	case *qdrant.Vectors_Vector:
		return decodeDense(path, o.Vector)
	case *qdrant.Vectors_Vectors:
		named := o.Vectors.GetVectors()
		out := make(vectordb.NamedVectors, len(named))
		for name, vec := range named {
			d, err := decodeDense(field(path, name), vec)
			if err != nil {
				return nil, err
			}
			out[name] = d
		}
		return out, nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported vectors variant %T", o)
	}
}

func decodeDense(path string, w *qdrant.Vector) (vectordb.Vector, error) {
	if w == nil {
		return nil, vectordb.DataCorrupted(path, "vector is missing")
	}
	switch v := w.GetVector().(type) {
	case *qdrant.Vector_Dense:
		return denseOrNil(v.Dense.GetData()), nil
	case nil:
		// Older servers fill the flat data field only.
		return denseOrNil(w.GetData()), nil //nolint:staticcheck
	default:
		return nil, vectordb.TypeMismatch(path, "only dense vectors are supported, got %T", v)
	}
}

// denseOrNil decodes an empty vector as nil, like the JSON codec.
func denseOrNil(data []float32) vectordb.Vector {
	if len(data) == 0 {
		return nil
	}
	return vectordb.Vector(data)
}

func decodeVectorsOutput(path string, w *qdrant.VectorsOutput) (vectordb.VectorData, error) {
	switch o := w.GetVectorsOptions().(type) {
	case nil:
		return nil, nil
	case *qdrant.VectorsOutput_Vector:
		return decodeDenseOutput(path, o.Vector)
	case *qdrant.VectorsOutput_Vectors:
		named := o.Vectors.GetVectors()
		out := make(vectordb.NamedVectors, len(named))
		for name, vec := range named {
			d, err := decodeDenseOutput(field(path, name), vec)
			if err != nil {
				return nil, err
			}
			out[name] = d
		}
		return out, nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported vectors variant %T", o)
	}
}

func decodeDenseOutput(path string, w *qdrant.VectorOutput) (vectordb.Vector, error) {
	if w == nil {
		return nil, vectordb.DataCorrupted(path, "vector is missing")
	}
	switch v := w.GetVector().(type) {
	case *qdrant.VectorOutput_Dense:
		return denseOrNil(v.Dense.GetData()), nil
	case nil:
		return denseOrNil(w.GetData()), nil //nolint:staticcheck
	default:
		return nil, vectordb.TypeMismatch(path, "only dense vectors are supported, got %T", v)
	}
}

func encodeVectorInput(path string, v vectordb.VectorInput) (*qdrant.VectorInput, error) {
	switch x := v.(type) {
	case vectordb.Vector:
		return &qdrant.VectorInput{Variant: &qdrant.VectorInput_Dense{Dense: &qdrant.DenseVector{Data: x}}}, nil
	case vectordb.PointID:
		return &qdrant.VectorInput{Variant: &qdrant.VectorInput_Id{Id: encodePointID(x)}}, nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported vector input %T", v)
	}
}

func decodeVectorInput(path string, w *qdrant.VectorInput) (vectordb.VectorInput, error) {
	switch v := w.GetVariant().(type) {
	case *qdrant.VectorInput_Dense:
		return denseOrNil(v.Dense.GetData()), nil
	case *qdrant.VectorInput_Id:
		return decodePointID(field(path, "id"), v.Id)
	case nil:
		return nil, vectordb.DataCorrupted(path, "vector input is missing")
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported vector input %T", v)
	}
}

func encodeVectorInputs(path string, vs []vectordb.VectorInput) ([]*qdrant.VectorInput, error) {
	if len(vs) == 0 {
		return nil, nil
	}
	out := make([]*qdrant.VectorInput, len(vs))
	for i, v := range vs {
		w, err := encodeVectorInput(index(path, i), v)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

func decodeVectorInputs(path string, ws []*qdrant.VectorInput) ([]vectordb.VectorInput, error) {
	if len(ws) == 0 {
		return nil, nil
	}
	out := make([]vectordb.VectorInput, len(ws))
	for i, w := range ws {
		v, err := decodeVectorInput(index(path, i), w)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ── Enums ────────────────────────────────────────────────────────────────────

func encodeDistance(path string, d vectordb.Distance) (qdrant.Distance, error) {
	switch d {
	case vectordb.Cosine:
		return qdrant.Distance_Cosine, nil
	case vectordb.Euclid:
		return qdrant.Distance_Euclid, nil
	case vectordb.Dot:
		return qdrant.Distance_Dot, nil
	case vectordb.Manhattan:
		return qdrant.Distance_Manhattan, nil
	default:
		return qdrant.Distance_UnknownDistance, vectordb.InvalidArgument("%s: unknown distance %s", path, d)
	}
}

func decodeDistance(path string, d qdrant.Distance) (vectordb.Distance, error) {
	switch d {
	case qdrant.Distance_Cosine:
		return vectordb.Cosine, nil
	case qdrant.Distance_Euclid:
		return vectordb.Euclid, nil
	case qdrant.Distance_Dot:
		return vectordb.Dot, nil
	case qdrant.Distance_Manhattan:
		return vectordb.Manhattan, nil
	default:
		return vectordb.DistanceUnknown, vectordb.DataCorrupted(path, "unknown distance %s", d)
	}
}

func encodeFieldType(t vectordb.FieldType) (qdrant.FieldType, error) {
	switch t {
	case vectordb.FieldTypeKeyword:
		return qdrant.FieldType_FieldTypeKeyword, nil
	case vectordb.FieldTypeInteger:
		return qdrant.FieldType_FieldTypeInteger, nil
	case vectordb.FieldTypeFloat:
		return qdrant.FieldType_FieldTypeFloat, nil
	case vectordb.FieldTypeGeo:
		return qdrant.FieldType_FieldTypeGeo, nil
	case vectordb.FieldTypeText:
		return qdrant.FieldType_FieldTypeText, nil
	case vectordb.FieldTypeBool:
		return qdrant.FieldType_FieldTypeBool, nil
	case vectordb.FieldTypeDatetime:
		return qdrant.FieldType_FieldTypeDatetime, nil
	case vectordb.FieldTypeUUID:
		return qdrant.FieldType_FieldTypeUuid, nil
	default:
		return 0, vectordb.InvalidArgument("unknown field type %s", t)
	}
}

func decodeSchemaType(path string, t qdrant.PayloadSchemaType) (vectordb.FieldType, error) {
	switch t {
	case qdrant.PayloadSchemaType_Keyword:
		return vectordb.FieldTypeKeyword, nil
	case qdrant.PayloadSchemaType_Integer:
		return vectordb.FieldTypeInteger, nil
	case qdrant.PayloadSchemaType_Float:
		return vectordb.FieldTypeFloat, nil
	case qdrant.PayloadSchemaType_Geo:
		return vectordb.FieldTypeGeo, nil
	case qdrant.PayloadSchemaType_Text:
		return vectordb.FieldTypeText, nil
	case qdrant.PayloadSchemaType_Bool:
		return vectordb.FieldTypeBool, nil
	case qdrant.PayloadSchemaType_Datetime:
		return vectordb.FieldTypeDatetime, nil
	case qdrant.PayloadSchemaType_Uuid:
		return vectordb.FieldTypeUUID, nil
	default:
		return vectordb.FieldTypeUnknown, vectordb.DataCorrupted(path, "unknown payload schema type %s", t)
	}
}

func decodeUpdateStatus(path string, s qdrant.UpdateStatus) (vectordb.UpdateStatus, error) {
	switch s {
	case qdrant.UpdateStatus_UnknownUpdateStatus:
		return vectordb.UpdateStatusUnknown, nil
	case qdrant.UpdateStatus_Acknowledged:
		return vectordb.UpdateStatusAcknowledged, nil
	case qdrant.UpdateStatus_Completed:
		return vectordb.UpdateStatusCompleted, nil
	case qdrant.UpdateStatus_ClockRejected:
		return vectordb.UpdateStatusClockRejected, nil
	default:
		return vectordb.UpdateStatusUnknown, vectordb.DataCorrupted(path, "unknown update status %d", int32(s))
	}
}

func decodeCollectionStatus(path string, s qdrant.CollectionStatus) (vectordb.CollectionStatus, error) {
	switch s {
	case qdrant.CollectionStatus_UnknownCollectionStatus:
		return vectordb.CollectionStatusUnknown, nil
	case qdrant.CollectionStatus_Green:
		return vectordb.CollectionStatusGreen, nil
	case qdrant.CollectionStatus_Yellow:
		return vectordb.CollectionStatusYellow, nil
	case qdrant.CollectionStatus_Red:
		return vectordb.CollectionStatusRed, nil
	case qdrant.CollectionStatus_Grey:
		return vectordb.CollectionStatusGrey, nil
	default:
		return vectordb.CollectionStatusUnknown, vectordb.DataCorrupted(path, "unknown collection status %d", int32(s))
	}
}

// ── Shard keys and group ids ─────────────────────────────────────────────────

func encodeShardKey(k vectordb.ShardKey) *qdrant.ShardKey {
	if k.IsNumber() {
		return &qdrant.ShardKey{Key: &qdrant.ShardKey_Number{Number: k.Number()}}
	}
	return &qdrant.ShardKey{Key: &qdrant.ShardKey_Keyword{Keyword: k.Keyword()}}
}

func decodeShardKey(path string, w *qdrant.ShardKey) (*vectordb.ShardKey, error) {
	switch k := w.GetKey().(type) {
	case nil:
		return nil, nil
	case *qdrant.ShardKey_Keyword:
		key := vectordb.NewShardKeyword(k.Keyword)
		return &key, nil
	case *qdrant.ShardKey_Number:
		key := vectordb.NewShardNumber(k.Number)
		return &key, nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported shard key %T", k)
	}
}

func encodeShardKeySelector(s *vectordb.ShardKeySelector) *qdrant.ShardKeySelector {
	if s == nil {
		return nil
	}
	keys := make([]*qdrant.ShardKey, len(s.Keys))
	for i, k := range s.Keys {
		keys[i] = encodeShardKey(k)
	}
	return &qdrant.ShardKeySelector{ShardKeys: keys}
}

func decodeGroupID(path string, w *qdrant.GroupId) (vectordb.GroupID, error) {
	switch k := w.GetKind().(type) {
	case *qdrant.GroupId_UnsignedValue:
		return vectordb.NewGroupIDUnsigned(k.UnsignedValue), nil
	case *qdrant.GroupId_IntegerValue:
		return vectordb.NewGroupIDInteger(k.IntegerValue), nil
	case *qdrant.GroupId_StringValue:
		return vectordb.NewGroupIDString(k.StringValue), nil
	case nil:
		return vectordb.GroupID{}, vectordb.DataCorrupted(path, "group id is missing")
	default:
		return vectordb.GroupID{}, vectordb.TypeMismatch(path, "unsupported group id %T", k)
	}
}

// ── Collection vector configuration ──────────────────────────────────────────

func encodeVectorParams(path string, p vectordb.VectorParams) (*qdrant.VectorParams, error) {
	d, err := encodeDistance(field(path, "distance"), p.Distance)
	if err != nil {
		return nil, err
	}
	return &qdrant.VectorParams{Size: p.Size, Distance: d, OnDisk: p.OnDisk}, nil
}

func decodeVectorParams(path string, w *qdrant.VectorParams) (vectordb.VectorParams, error) {
	if w == nil {
		return vectordb.VectorParams{}, vectordb.DataCorrupted(path, "vector params are missing")
	}
	d, err := decodeDistance(field(path, "distance"), w.GetDistance())
	if err != nil {
		return vectordb.VectorParams{}, err
	}
	return vectordb.VectorParams{Size: w.GetSize(), Distance: d, OnDisk: w.OnDisk}, nil
}

func encodeVectorsConfig(path string, c vectordb.VectorsConfig) (*qdrant.VectorsConfig, error) {
	switch x := c.(type) {
	case nil:
		return nil, nil
	case vectordb.VectorParams:
		p, err := encodeVectorParams(path, x)
		if err != nil {
			return nil, err
		}
		return &qdrant.VectorsConfig{Config: &qdrant.VectorsConfig_Params{Params: p}}, nil
	case vectordb.NamedVectorParams:
		m := make(map[string]*qdrant.VectorParams, len(x))
		for name, params := range x {
			p, err := encodeVectorParams(field(path, name), params)
			if err != nil {
				return nil, err
			}
			m[name] = p
		}
		return &qdrant.VectorsConfig{Config: &qdrant.VectorsConfig_ParamsMap{ParamsMap: &qdrant.VectorParamsMap{Map: m}}}, nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported vectors config %T", c)
	}
}

func decodeVectorsConfig(path string, w *qdrant.VectorsConfig) (vectordb.VectorsConfig, error) {
	switch c := w.GetConfig().(type) {
	case nil:
		return nil, nil
	case *qdrant.VectorsConfig_Params:
		return decodeVectorParams(path, c.Params)
	case *qdrant.VectorsConfig_ParamsMap:
		m := c.ParamsMap.GetMap()
		out := make(vectordb.NamedVectorParams, len(m))
		for name, params := range m {
			p, err := decodeVectorParams(field(path, name), params)
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
