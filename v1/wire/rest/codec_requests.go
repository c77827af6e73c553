package rest

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
)

// call is one HTTP round trip: a method, an escaped path, optional query
// parameters and an optional JSON body.
type call struct {
	method string
	path   string
	query  url.Values
	body   any
}

func collectionPath(name string, segments ...string) string {
	p := "/collections/" + url.PathEscape(name)
	for _, s := range segments {
		p += "/" + s
	}
	return p
}

// waitQuery renders the wait flag, which REST carries as a query parameter.
func waitQuery(wait *bool) url.Values {
	if wait == nil {
		return nil
	}
	return url.Values{"wait": []string{strconv.FormatBool(*wait)}}
}

// ── Collections ──────────────────────────────────────────────────────────────

func encodeCreateCollection(req vectordb.CreateCollectionRequest) (call, error) {
	vc, err := encodeVectorsConfig(field(root, "vectors"), req.Vectors)
	if err != nil {
		return call{}, err
	}
	body := object{"vectors": vc}
	putOpt(body, "shard_number", req.ShardNumber)
	putOpt(body, "replication_factor", req.ReplicationFactor)
	putOpt(body, "on_disk_payload", req.OnDiskPayload)
	return call{method: http.MethodPut, path: collectionPath(req.Name), body: body}, nil
}

// ── Points ───────────────────────────────────────────────────────────────────

func encodePointStruct(path string, p vectordb.PointStruct) (object, error) {
	payload, err := encodePayload(field(path, "payload"), p.Payload)
	if err != nil {
		return nil, err
	}
	vectors, err := encodeVectors(field(path, "vector"), p.Vectors)
	if err != nil {
		return nil, err
	}
	out := object{"id": encodePointID(p.ID), "payload": payload}
	if vectors != nil {
		out["vector"] = vectors
	}
	return out, nil
}

func encodePointStructs(path string, ps []vectordb.PointStruct) ([]any, error) {
	out := make([]any, len(ps))
	for i, p := range ps {
		w, err := encodePointStruct(index(path, i), p)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

// putSelector writes either "filter" or "points"; the filter wins when both
// are set.
func putSelector(path string, o object, s vectordb.PointsSelector) error {
	if s.Filter != nil {
		return putFilter(path, o, s.Filter)
	}
	o["points"] = encodePointIDs(s.IDs)
	return nil
}

func encodeUpsert(req vectordb.UpsertRequest) (call, error) {
	points, err := encodePointStructs(field(root, "points"), req.Points)
	if err != nil {
		return call{}, err
	}
	body := object{"points": points}
	putShardKeys(body, req.ShardKeys)
	return call{method: http.MethodPut, path: collectionPath(req.Collection, "points"), query: waitQuery(req.Wait), body: body}, nil
}

func encodeGet(req vectordb.GetRequest) call {
	body := object{
		"ids":          encodePointIDs(req.IDs),
		"with_payload": req.WithPayload,
		"with_vector":  req.WithVectors,
	}
	putShardKeys(body, req.ShardKeys)
	return call{method: http.MethodPost, path: collectionPath(req.Collection, "points"), body: body}
}

func encodeDelete(req vectordb.DeleteRequest) (call, error) {
	body := object{}
	if err := putSelector(root, body, req.Selector); err != nil {
		return call{}, err
	}
	putShardKeys(body, req.ShardKeys)
	return call{method: http.MethodPost, path: collectionPath(req.Collection, "points", "delete"), query: waitQuery(req.Wait), body: body}, nil
}

func encodeScroll(req vectordb.ScrollRequest) (call, error) {
	body := object{"with_payload": req.WithPayload, "with_vector": req.WithVectors}
	if err := putFilter(root, body, req.Filter); err != nil {
		return call{}, err
	}
	if req.Offset != nil {
		body["offset"] = encodePointID(*req.Offset)
	}
	putOpt(body, "limit", req.Limit)
	putShardKeys(body, req.ShardKeys)
	return call{method: http.MethodPost, path: collectionPath(req.Collection, "points", "scroll"), body: body}, nil
}

func encodeCount(req vectordb.CountRequest) (call, error) {
	body := object{}
	if err := putFilter(root, body, req.Filter); err != nil {
		return call{}, err
	}
	putOpt(body, "exact", req.Exact)
	putShardKeys(body, req.ShardKeys)
	return call{method: http.MethodPost, path: collectionPath(req.Collection, "points", "count"), body: body}, nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func encodeQueryBody(path string, req vectordb.QueryRequest) (object, error) {
	body := object{"with_payload": req.WithPayload, "with_vector": req.WithVectors}
	if err := putStage(path, body, req.Prefetch, req.Query, req.Using, req.Filter, req.ScoreThreshold); err != nil {
		return nil, err
	}
	putOpt(body, "limit", req.Limit)
	putOpt(body, "offset", req.Offset)
	putShardKeys(body, req.ShardKeys)
	return body, nil
}

func encodeQueryPoints(req vectordb.QueryRequest) (call, error) {
	body, err := encodeQueryBody(root, req)
	if err != nil {
		return call{}, err
	}
	return call{method: http.MethodPost, path: collectionPath(req.Collection, "points", "query"), body: body}, nil
}

func encodeQueryBatch(collection string, reqs []vectordb.QueryRequest) (call, error) {
	searches := make([]any, len(reqs))
	for i, r := range reqs {
		b, err := encodeQueryBody(index(field(root, "searches"), i), r)
		if err != nil {
			return call{}, err
		}
		searches[i] = b
	}
	return call{
		method: http.MethodPost,
		path:   collectionPath(collection, "points", "query", "batch"),
		body:   object{"searches": searches},
	}, nil
}

func encodeQueryGroups(req vectordb.QueryGroupsRequest) (call, error) {
	body := object{
		"group_by":     req.GroupBy,
		"with_payload": req.WithPayload,
		"with_vector":  req.WithVectors,
	}
	if err := putStage(root, body, req.Prefetch, req.Query, req.Using, req.Filter, req.ScoreThreshold); err != nil {
		return call{}, err
	}
	putOpt(body, "limit", req.Limit)
	putOpt(body, "group_size", req.GroupSize)
	putShardKeys(body, req.ShardKeys)
	return call{method: http.MethodPost, path: collectionPath(req.Collection, "points", "query", "groups"), body: body}, nil
}

func encodeFacet(req vectordb.FacetRequest) (call, error) {
	body := object{"key": req.Key}
	if err := putFilter(root, body, req.Filter); err != nil {
		return call{}, err
	}
	putOpt(body, "limit", req.Limit)
	putOpt(body, "exact", req.Exact)
	putShardKeys(body, req.ShardKeys)
	return call{method: http.MethodPost, path: collectionPath(req.Collection, "facet"), body: body}, nil
}

// encodeMatrix targets ".../matrix/pairs" or ".../matrix/offsets".
func encodeMatrix(req vectordb.MatrixRequest, form string) (call, error) {
	body := object{}
	if err := putFilter(root, body, req.Filter); err != nil {
		return call{}, err
	}
	putOpt(body, "sample", req.Sample)
	putOpt(body, "limit", req.Limit)
	putOpt(body, "using", req.Using)
	putShardKeys(body, req.ShardKeys)
	return call{method: http.MethodPost, path: collectionPath(req.Collection, "points", "search", "matrix", form), body: body}, nil
}

// ── Payload and vectors ──────────────────────────────────────────────────────

func encodePayloadBody(path string, p vectordb.Payload, s vectordb.PointsSelector, key *string, shards *vectordb.ShardKeySelector) (object, error) {
	payload, err := encodePayload(field(path, "payload"), p)
	if err != nil {
		return nil, err
	}
	body := object{"payload": payload}
	if err := putSelector(path, body, s); err != nil {
		return nil, err
	}
	putOpt(body, "key", key)
	putShardKeys(body, shards)
	return body, nil
}

// encodeSetPayload serves both set (POST, merge) and overwrite (PUT, replace).
func encodeSetPayload(req vectordb.SetPayloadRequest, method string) (call, error) {
	body, err := encodePayloadBody(root, req.Payload, req.Selector, req.Key, req.ShardKeys)
	if err != nil {
		return call{}, err
	}
	return call{method: method, path: collectionPath(req.Collection, "points", "payload"), query: waitQuery(req.Wait), body: body}, nil
}

func encodeDeletePayloadBody(path string, keys []string, s vectordb.PointsSelector, shards *vectordb.ShardKeySelector) (object, error) {
	body := object{"keys": stringsOrEmpty(keys)}
	if err := putSelector(path, body, s); err != nil {
		return nil, err
	}
	putShardKeys(body, shards)
	return body, nil
}

func encodeDeletePayload(req vectordb.DeletePayloadRequest) (call, error) {
	body, err := encodeDeletePayloadBody(root, req.Keys, req.Selector, req.ShardKeys)
	if err != nil {
		return call{}, err
	}
	return call{method: http.MethodPost, path: collectionPath(req.Collection, "points", "payload", "delete"), query: waitQuery(req.Wait), body: body}, nil
}

func encodeClearPayload(req vectordb.ClearPayloadRequest) (call, error) {
	body := object{}
	if err := putSelector(root, body, req.Selector); err != nil {
		return call{}, err
	}
	putShardKeys(body, req.ShardKeys)
	return call{method: http.MethodPost, path: collectionPath(req.Collection, "points", "payload", "clear"), query: waitQuery(req.Wait), body: body}, nil
}

func encodeUpdateVectors(req vectordb.UpdateVectorsRequest) (call, error) {
	points := make([]any, len(req.Points))
	for i, p := range req.Points {
		path := index(field(root, "points"), i)
		vectors, err := encodeVectors(field(path, "vector"), p.Vectors)
		if err != nil {
			return call{}, err
		}
		points[i] = object{"id": encodePointID(p.ID), "vector": vectors}
	}
	body := object{"points": points}
	putShardKeys(body, req.ShardKeys)
	return call{method: http.MethodPut, path: collectionPath(req.Collection, "points", "vectors"), query: waitQuery(req.Wait), body: body}, nil
}

func encodeDeleteVectors(req vectordb.DeleteVectorsRequest) (call, error) {
	body := object{"vector": stringsOrEmpty(req.Names)}
	if err := putSelector(root, body, req.Selector); err != nil {
		return call{}, err
	}
	putShardKeys(body, req.ShardKeys)
	return call{method: http.MethodPost, path: collectionPath(req.Collection, "points", "vectors", "delete"), query: waitQuery(req.Wait), body: body}, nil
}

// ── Field indexes ────────────────────────────────────────────────────────────

func encodeCreateFieldIndex(req vectordb.FieldIndexRequest) (call, error) {
	schema, err := encodeFieldType(req.Type)
	if err != nil {
		return call{}, err
	}
	return call{
		method: http.MethodPut,
		path:   collectionPath(req.Collection, "index"),
		query:  waitQuery(req.Wait),
		body:   object{"field_name": req.Field, "field_schema": schema},
	}, nil
}

func encodeDeleteFieldIndex(req vectordb.FieldIndexRequest) call {
	return call{
		method: http.MethodDelete,
		path:   collectionPath(req.Collection, "index", url.PathEscape(req.Field)),
		query:  waitQuery(req.Wait),
	}
}

// ── Batch update ─────────────────────────────────────────────────────────────

// encodeUpdateOperation renders one operation as an object keyed by its kind.
func encodeUpdateOperation(path string, op vectordb.UpdateOperation) (object, error) {
	switch o := op.(type) {
	case vectordb.UpsertOperation:
		points, err := encodePointStructs(field(path, "upsert.points"), o.Points)
		if err != nil {
			return nil, err
		}
		inner := object{"points": points}
		putShardKeys(inner, o.ShardKeys)
		return object{"upsert": inner}, nil
	case vectordb.DeletePointsOperation:
		inner := object{}
		if err := putSelector(field(path, "delete"), inner, o.Selector); err != nil {
			return nil, err
		}
		putShardKeys(inner, o.ShardKeys)
		return object{"delete": inner}, nil
	case vectordb.SetPayloadOperation:
		inner, err := encodePayloadBody(field(path, "set_payload"), o.Payload, o.Selector, o.Key, o.ShardKeys)
		if err != nil {
			return nil, err
		}
		return object{"set_payload": inner}, nil
	case vectordb.OverwritePayloadOperation:
		inner, err := encodePayloadBody(field(path, "overwrite_payload"), o.Payload, o.Selector, o.Key, o.ShardKeys)
		if err != nil {
			return nil, err
		}
		return object{"overwrite_payload": inner}, nil
	case vectordb.DeletePayloadOperation:
		inner, err := encodeDeletePayloadBody(field(path, "delete_payload"), o.Keys, o.Selector, o.ShardKeys)
		if err != nil {
			return nil, err
		}
		return object{"delete_payload": inner}, nil
	case vectordb.ClearPayloadOperation:
		inner := object{}
		if err := putSelector(field(path, "clear_payload"), inner, o.Selector); err != nil {
			return nil, err
		}
		putShardKeys(inner, o.ShardKeys)
		return object{"clear_payload": inner}, nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported update operation %T", op)
	}
}

func encodeUpdateBatch(req vectordb.UpdateBatchRequest) (call, error) {
	ops := make([]any, len(req.Operations))
	for i, op := range req.Operations {
		w, err := encodeUpdateOperation(index(field(root, "operations"), i), op)
		if err != nil {
			return call{}, err
		}
		ops[i] = w
	}
	return call{
		method: http.MethodPost,
		path:   collectionPath(req.Collection, "points", "batch"),
		query:  waitQuery(req.Wait),
		body:   object{"operations": ops},
	}, nil
}
