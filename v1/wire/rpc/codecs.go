package rpc

import (
	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
	qdrant "github.com/qdrant/go-client/qdrant"
)

// Codecs between the domain model and the generated protobuf messages.
var (
	PointIDs   vectordb.Codec[vectordb.PointID, *qdrant.PointId]             = pointIDCodec{}
	Values     vectordb.Codec[vectordb.Value, *qdrant.Value]                 = valueCodec{}
	Payloads   vectordb.Codec[vectordb.Payload, map[string]*qdrant.Value]    = payloadCodec{}
	Vectors    vectordb.Codec[vectordb.VectorData, *qdrant.Vectors]          = vectorsCodec{}
	Filters    vectordb.Codec[vectordb.Filter, *qdrant.Filter]               = filterCodec{}
	Conditions vectordb.Codec[vectordb.Condition, *qdrant.Condition]         = conditionCodec{}
	Queries    vectordb.Codec[vectordb.QueryInput, *qdrant.Query]            = queryCodec{}
	Prefetches vectordb.Codec[vectordb.PrefetchQuery, *qdrant.PrefetchQuery] = prefetchCodec{}
	Configs    vectordb.Codec[vectordb.VectorsConfig, *qdrant.VectorsConfig] = vectorsConfigCodec{}
)

type pointIDCodec struct{}

func (pointIDCodec) Encode(id vectordb.PointID) (*qdrant.PointId, error) { return encodePointID(id), nil }
func (pointIDCodec) Decode(w *qdrant.PointId) (vectordb.PointID, error)  { return decodePointID(root, w) }

type valueCodec struct{}

func (valueCodec) Encode(v vectordb.Value) (*qdrant.Value, error) { return encodeValue(root, v) }
func (valueCodec) Decode(w *qdrant.Value) (vectordb.Value, error) { return decodeValue(root, w) }

type payloadCodec struct{}

func (payloadCodec) Encode(p vectordb.Payload) (map[string]*qdrant.Value, error) {
	return encodePayload(root, p)
}

func (payloadCodec) Decode(w map[string]*qdrant.Value) (vectordb.Payload, error) {
	return decodePayload(root, w)
}

type vectorsCodec struct{}

func (vectorsCodec) Encode(v vectordb.VectorData) (*qdrant.Vectors, error) {
	return encodeVectors(root, v)
}

func (vectorsCodec) Decode(w *qdrant.Vectors) (vectordb.VectorData, error) {
	return decodeVectors(root, w)
}

type filterCodec struct{}

func (filterCodec) Encode(f vectordb.Filter) (*qdrant.Filter, error) { return encodeFilter(root, f) }
func (filterCodec) Decode(w *qdrant.Filter) (vectordb.Filter, error) { return decodeFilter(root, w) }

type conditionCodec struct{}

func (conditionCodec) Encode(c vectordb.Condition) (*qdrant.Condition, error) {
	return encodeCondition(root, c)
}

func (conditionCodec) Decode(w *qdrant.Condition) (vectordb.Condition, error) {
	return decodeCondition(root, w)
}

type queryCodec struct{}

func (queryCodec) Encode(q vectordb.QueryInput) (*qdrant.Query, error) { return encodeQuery(root, q) }
func (queryCodec) Decode(w *qdrant.Query) (vectordb.QueryInput, error) { return decodeQuery(root, w) }

type prefetchCodec struct{}

func (prefetchCodec) Encode(p vectordb.PrefetchQuery) (*qdrant.PrefetchQuery, error) {
	return encodePrefetch(root, p)
}

func (prefetchCodec) Decode(w *qdrant.PrefetchQuery) (vectordb.PrefetchQuery, error) {
	return decodePrefetch(root, w)
}

type vectorsConfigCodec struct{}

func (vectorsConfigCodec) Encode(c vectordb.VectorsConfig) (*qdrant.VectorsConfig, error) {
	return encodeVectorsConfig(root, c)
}

func (vectorsConfigCodec) Decode(w *qdrant.VectorsConfig) (vectordb.VectorsConfig, error) {
	return decodeVectorsConfig(root, w)
}
