package rest

import (
	"encoding/json"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
)

// Codecs between the domain model and JSON documents as the REST API
// spells them.
var (
	PointIDs   vectordb.Codec[vectordb.PointID, json.RawMessage]       = jsonCodec[vectordb.PointID]{encodeID, decodePointID}
	Values     vectordb.Codec[vectordb.Value, json.RawMessage]         = jsonCodec[vectordb.Value]{encodeValue, decodeValue}
	Payloads   vectordb.Codec[vectordb.Payload, json.RawMessage]       = jsonCodec[vectordb.Payload]{encodePayloadAny, decodePayload}
	Vectors    vectordb.Codec[vectordb.VectorData, json.RawMessage]    = jsonCodec[vectordb.VectorData]{encodeVectors, decodeVectors}
	Filters    vectordb.Codec[vectordb.Filter, json.RawMessage]        = jsonCodec[vectordb.Filter]{encodeFilterAny, decodeFilter}
	Conditions vectordb.Codec[vectordb.Condition, json.RawMessage]     = jsonCodec[vectordb.Condition]{encodeConditionAny, decodeCondition}
	Queries    vectordb.Codec[vectordb.QueryInput, json.RawMessage]    = jsonCodec[vectordb.QueryInput]{encodeQuery, decodeQuery}
	Prefetches vectordb.Codec[vectordb.PrefetchQuery, json.RawMessage] = jsonCodec[vectordb.PrefetchQuery]{encodePrefetchAny, decodePrefetch}
	Configs    vectordb.Codec[vectordb.VectorsConfig, json.RawMessage] = jsonCodec[vectordb.VectorsConfig]{encodeVectorsConfig, decodeVectorsConfig}
)

// jsonCodec adapts a pair of tree encoders to whole JSON documents.
type jsonCodec[T any] struct {
	encode func(string, T) (any, error)
	decode func(string, any) (T, error)
}

func (c jsonCodec[T]) Encode(v T) (json.RawMessage, error) {
	tree, err := c.encode(root, v)
	if err != nil {
		return nil, err
	}
	return render(tree)
}

func (c jsonCodec[T]) Decode(raw json.RawMessage) (T, error) {
	tree, err := parse(root, raw)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.decode(root, tree)
}

func encodeID(_ string, id vectordb.PointID) (any, error) { return encodePointID(id), nil }

func encodePayloadAny(path string, p vectordb.Payload) (any, error) { return encodePayload(path, p) }

func encodeFilterAny(path string, f vectordb.Filter) (any, error) { return encodeFilter(path, f) }

func encodeConditionAny(path string, c vectordb.Condition) (any, error) {
	return encodeCondition(path, c)
}

func encodePrefetchAny(path string, p vectordb.PrefetchQuery) (any, error) {
	return encodePrefetch(path, p)
}
