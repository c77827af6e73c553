package rpc

import (
	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
	qdrant "github.com/qdrant/go-client/qdrant"
)

// ── Collections ──────────────────────────────────────────────────────────────

func encodeCreateCollection(req vectordb.CreateCollectionRequest) (*qdrant.CreateCollection, error) {
	vc, err := encodeVectorsConfig("vectors", req.Vectors)
	if err != nil {
		return nil, err
	}
	return &qdrant.CreateCollection{
		CollectionName:    req.Name,
		VectorsConfig:     vc,
		ShardNumber:       req.ShardNumber,
		ReplicationFactor: req.ReplicationFactor,
		OnDiskPayload:     req.OnDiskPayload,
	}, nil
}

// ── Points ───────────────────────────────────────────────────────────────────

func encodePointStruct(path string, p vectordb.PointStruct) (*qdrant.PointStruct, error) {
	payload, err := encodePayload(field(path, "payload"), p.Payload)
	if err != nil {
		return nil, err
	}
	vectors, err := encodeVectors(field(path, "vector"), p.Vectors)
	if err != nil {
		return nil, err
	}
	return &qdrant.PointStruct{Id: encodePointID(p.ID), Payload: payload, Vectors: vectors}, nil
}

func encodePointStructs(path string, ps []vectordb.PointStruct) ([]*qdrant.PointStruct, error) {
	out := make([]*qdrant.PointStruct, len(ps))
	for i, p := range ps {
		w, err := encodePointStruct(index(path, i), p)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

func encodeSelector(path string, s vectordb.PointsSelector) (*qdrant.PointsSelector, error) {
	if s.Filter != nil {
		f, err := encodeFilter(field(path, "filter"), *s.Filter)
		if err != nil {
			return nil, err
		}
		return &qdrant.PointsSelector{PointsSelectorOneOf: &qdrant.PointsSelector_Filter{Filter: f}}, nil
	}
	return &qdrant.PointsSelector{PointsSelectorOneOf: &qdrant.PointsSelector_Points{
		Points: &qdrant.PointsIdsList{Ids: encodePointIDs(s.IDs)},
	}}, nil
}

func encodeUpsert(req vectordb.UpsertRequest) (*qdrant.UpsertPoints, error) {
	points, err := encodePointStructs("points", req.Points)
	if err != nil {
		return nil, err
	}
	return &qdrant.UpsertPoints{
		CollectionName:   req.Collection,
		Wait:             req.Wait,
		Points:           points,
		ShardKeySelector: encodeShardKeySelector(req.ShardKeys),
	}, nil
}

func encodeGet(req vectordb.GetRequest) *qdrant.GetPoints {
	return &qdrant.GetPoints{
		CollectionName:   req.Collection,
		Ids:              encodePointIDs(req.IDs),
		WithPayload:      qdrant.NewWithPayload(req.WithPayload),
		WithVectors:      qdrant.NewWithVectors(req.WithVectors),
		ShardKeySelector: encodeShardKeySelector(req.ShardKeys),
	}
}

func encodeDelete(req vectordb.DeleteRequest) (*qdrant.DeletePoints, error) {
	sel, err := encodeSelector("points", req.Selector)
	if err != nil {
		return nil, err
	}
	return &qdrant.DeletePoints{
		CollectionName:   req.Collection,
		Wait:             req.Wait,
		Points:           sel,
		ShardKeySelector: encodeShardKeySelector(req.ShardKeys),
	}, nil
}

func encodeScroll(req vectordb.ScrollRequest) (*qdrant.ScrollPoints, error) {
	f, err := encodeFilterPtr("filter", req.Filter)
	if err != nil {
		return nil, err
	}
	var offset *qdrant.PointId
	if req.Offset != nil {
		offset = encodePointID(*req.Offset)
	}
	return &qdrant.ScrollPoints{
		CollectionName:   req.Collection,
		Filter:           f,
		Offset:           offset,
		Limit:            req.Limit,
		WithPayload:      qdrant.NewWithPayload(req.WithPayload),
		WithVectors:      qdrant.NewWithVectors(req.WithVectors),
		ShardKeySelector: encodeShardKeySelector(req.ShardKeys),
	}, nil
}

func encodeCount(req vectordb.CountRequest) (*qdrant.CountPoints, error) {
	f, err := encodeFilterPtr("filter", req.Filter)
	if err != nil {
		return nil, err
	}
	return &qdrant.CountPoints{
		CollectionName:   req.Collection,
		Filter:           f,
		Exact:            req.Exact,
		ShardKeySelector: encodeShardKeySelector(req.ShardKeys),
	}, nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func encodeQueryPoints(path string, req vectordb.QueryRequest) (*qdrant.QueryPoints, error) {
	prefetch, err := encodePrefetches(field(path, "prefetch"), req.Prefetch)
	if err != nil {
		return nil, err
	}
	q, err := encodeQuery(field(path, "query"), req.Query)
	if err != nil {
		return nil, err
	}
	f, err := encodeFilterPtr(field(path, "filter"), req.Filter)
	if err != nil {
		return nil, err
	}
	return &qdrant.QueryPoints{
		CollectionName:   req.Collection,
		Prefetch:         prefetch,
		Query:            q,
		Using:            req.Using,
		Filter:           f,
		ScoreThreshold:   req.ScoreThreshold,
		Limit:            req.Limit,
		Offset:           req.Offset,
		WithPayload:      qdrant.NewWithPayload(req.WithPayload),
		WithVectors:      qdrant.NewWithVectors(req.WithVectors),
		ShardKeySelector: encodeShardKeySelector(req.ShardKeys),
	}, nil
}

func encodeQueryBatch(collection string, reqs []vectordb.QueryRequest) (*qdrant.QueryBatchPoints, error) {
	queries := make([]*qdrant.QueryPoints, len(reqs))
	for i, r := range reqs {
		q, err := encodeQueryPoints(index("searches", i), r)
		if err != nil {
			return nil, err
		}
		queries[i] = q
	}
	return &qdrant.QueryBatchPoints{CollectionName: collection, QueryPoints: queries}, nil
}

func encodeQueryGroups(req vectordb.QueryGroupsRequest) (*qdrant.QueryPointGroups, error) {
	prefetch, err := encodePrefetches("prefetch", req.Prefetch)
	if err != nil {
		return nil, err
	}
	q, err := encodeQuery("query", req.Query)
	if err != nil {
		return nil, err
	}
	f, err := encodeFilterPtr("filter", req.Filter)
	if err != nil {
		return nil, err
	}
	return &qdrant.QueryPointGroups{
		CollectionName:   req.Collection,
		Prefetch:         prefetch,
		Query:            q,
		Using:            req.Using,
		Filter:           f,
		ScoreThreshold:   req.ScoreThreshold,
		GroupBy:          req.GroupBy,
		Limit:            req.Limit,
		GroupSize:        req.GroupSize,
		WithPayload:      qdrant.NewWithPayload(req.WithPayload),
		WithVectors:      qdrant.NewWithVectors(req.WithVectors),
		ShardKeySelector: encodeShardKeySelector(req.ShardKeys),
	}, nil
}

func encodeFacet(req vectordb.FacetRequest) (*qdrant.FacetCounts, error) {
	f, err := encodeFilterPtr("filter", req.Filter)
	if err != nil {
		return nil, err
	}
	return &qdrant.FacetCounts{
		CollectionName:   req.Collection,
		Key:              req.Key,
		Filter:           f,
		Limit:            req.Limit,
		Exact:            req.Exact,
		ShardKeySelector: encodeShardKeySelector(req.ShardKeys),
	}, nil
}

func encodeMatrix(req vectordb.MatrixRequest) (*qdrant.SearchMatrixPoints, error) {
	f, err := encodeFilterPtr("filter", req.Filter)
	if err != nil {
		return nil, err
	}
	return &qdrant.SearchMatrixPoints{
		CollectionName:   req.Collection,
		Filter:           f,
		Sample:           req.Sample,
		Limit:            req.Limit,
		Using:            req.Using,
		ShardKeySelector: encodeShardKeySelector(req.ShardKeys),
	}, nil
}

// ── Payload and vectors ──────────────────────────────────────────────────────

func encodeSetPayload(req vectordb.SetPayloadRequest) (*qdrant.SetPayloadPoints, error) {
	payload, err := encodePayload("payload", req.Payload)
	if err != nil {
		return nil, err
	}
	sel, err := encodeSelector("points", req.Selector)
	if err != nil {
		return nil, err
	}
	return &qdrant.SetPayloadPoints{
		CollectionName:   req.Collection,
		Wait:             req.Wait,
		Payload:          payload,
		PointsSelector:   sel,
		ShardKeySelector: encodeShardKeySelector(req.ShardKeys),
		Key:              req.Key,
	}, nil
}

func encodeDeletePayload(req vectordb.DeletePayloadRequest) (*qdrant.DeletePayloadPoints, error) {
	sel, err := encodeSelector("points", req.Selector)
	if err != nil {
		return nil, err
	}
	return &qdrant.DeletePayloadPoints{
		CollectionName:   req.Collection,
		Wait:             req.Wait,
		Keys:             req.Keys,
		PointsSelector:   sel,
		ShardKeySelector: encodeShardKeySelector(req.ShardKeys),
	}, nil
}

func encodeClearPayload(req vectordb.ClearPayloadRequest) (*qdrant.ClearPayloadPoints, error) {
	sel, err := encodeSelector("points", req.Selector)
	if err != nil {
		return nil, err
	}
	return &qdrant.ClearPayloadPoints{
		CollectionName:   req.Collection,
		Wait:             req.Wait,
		Points:           sel,
		ShardKeySelector: encodeShardKeySelector(req.ShardKeys),
	}, nil
}

func encodePointVectors(path string, ps []vectordb.PointVectors) ([]*qdrant.PointVectors, error) {
	out := make([]*qdrant.PointVectors, len(ps))
	for i, p := range ps {
		v, err := encodeVectors(field(index(path, i), "vector"), p.Vectors)
		if err != nil {
			return nil, err
		}
		out[i] = &qdrant.PointVectors{Id: encodePointID(p.ID), Vectors: v}
	}
	return out, nil
}

func encodeUpdateVectors(req vectordb.UpdateVectorsRequest) (*qdrant.UpdatePointVectors, error) {
	points, err := encodePointVectors("points", req.Points)
	if err != nil {
		return nil, err
	}
	return &qdrant.UpdatePointVectors{
		CollectionName:   req.Collection,
		Wait:             req.Wait,
		Points:           points,
		ShardKeySelector: encodeShardKeySelector(req.ShardKeys),
	}, nil
}

func encodeDeleteVectors(req vectordb.DeleteVectorsRequest) (*qdrant.DeletePointVectors, error) {
	sel, err := encodeSelector("points", req.Selector)
	if err != nil {
		return nil, err
	}
	return &qdrant.DeletePointVectors{
		CollectionName:   req.Collection,
		Wait:             req.Wait,
		PointsSelector:   sel,
		Vectors:          &qdrant.VectorsSelector{Names: req.Names},
		ShardKeySelector: encodeShardKeySelector(req.ShardKeys),
	}, nil
}

func encodeCreateFieldIndex(req vectordb.FieldIndexRequest) (*qdrant.CreateFieldIndexCollection, error) {
	t, err := encodeFieldType(req.Type)
	if err != nil {
		return nil, err
	}
	return &qdrant.CreateFieldIndexCollection{
		CollectionName: req.Collection,
		Wait:           req.Wait,
		FieldName:      req.Field,
		FieldType:      &t,
	}, nil
}

// ── Batch update ─────────────────────────────────────────────────────────────

func encodeUpdateOperation(path string, op vectordb.UpdateOperation) (*qdrant.PointsUpdateOperation, error) {
	switch o := op.(type) {
	case vectordb.UpsertOperation:
		points, err := encodePointStructs(field(path, "upsert.points"), o.Points)
		if err != nil {
			return nil, err
		}
		return &qdrant.PointsUpdateOperation{Operation: &qdrant.PointsUpdateOperation_Upsert{
			Upsert: &qdrant.PointsUpdateOperation_PointStructList{
				Points:           points,
				ShardKeySelector: encodeShardKeySelector(o.ShardKeys),
			},
		}}, nil
	case vectordb.DeletePointsOperation:
		sel, err := encodeSelector(field(path, "delete"), o.Selector)
		if err != nil {
			return nil, err
		}
		return &qdrant.PointsUpdateOperation{Operation: &qdrant.PointsUpdateOperation_DeletePoints_{
			DeletePoints: &qdrant.PointsUpdateOperation_DeletePoints{
				Points:           sel,
				ShardKeySelector: encodeShardKeySelector(o.ShardKeys),
			},
		}}, nil
	case vectordb.SetPayloadOperation:
		payload, sel, err := encodePayloadAndSelector(field(path, "set_payload"), o.Payload, o.Selector)
		if err != nil {
			return nil, err
		}
		return &qdrant.PointsUpdateOperation{Operation: &qdrant.PointsUpdateOperation_SetPayload_{
			SetPayload: &qdrant.PointsUpdateOperation_SetPayload{
				Payload:          payload,
				PointsSelector:   sel,
				ShardKeySelector: encodeShardKeySelector(o.ShardKeys),
				Key:              o.Key,
			},
		}}, nil
	case vectordb.OverwritePayloadOperation:
		payload, sel, err := encodePayloadAndSelector(field(path, "overwrite_payload"), o.Payload, o.Selector)
		if err != nil {
			return nil, err
		}
		return &qdrant.PointsUpdateOperation{Operation: &qdrant.PointsUpdateOperation_OverwritePayload_{
			OverwritePayload: &qdrant.PointsUpdateOperation_OverwritePayload{
				Payload:          payload,
				PointsSelector:   sel,
				ShardKeySelector: encodeShardKeySelector(o.ShardKeys),
				Key:              o.Key,
			},
		}}, nil
	case vectordb.DeletePayloadOperation:
		sel, err := encodeSelector(field(path, "delete_payload"), o.Selector)
		if err != nil {
			return nil, err
		}
		return &qdrant.PointsUpdateOperation{Operation: &qdrant.PointsUpdateOperation_DeletePayload_{
			DeletePayload: &qdrant.PointsUpdateOperation_DeletePayload{
				Keys:             o.Keys,
				PointsSelector:   sel,
				ShardKeySelector: encodeShardKeySelector(o.ShardKeys),
			},
		}}, nil
	case vectordb.ClearPayloadOperation:
		sel, err := encodeSelector(field(path, "clear_payload"), o.Selector)
		if err != nil {
			return nil, err
		}
		return &qdrant.PointsUpdateOperation{Operation: &qdrant.PointsUpdateOperation_ClearPayload_{
			ClearPayload: &qdrant.PointsUpdateOperation_ClearPayload{
				Points:           sel,
				ShardKeySelector: encodeShardKeySelector(o.ShardKeys),
			},
		}}, nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported update operation %T", op)
	}
}

func encodePayloadAndSelector(path string, p vectordb.Payload, s vectordb.PointsSelector) (map[string]*qdrant.Value, *qdrant.PointsSelector, error) {
	payload, err := encodePayload(field(path, "payload"), p)
	if err != nil {
		return nil, nil, err
	}
	sel, err := encodeSelector(path, s)
	if err != nil {
		return nil, nil, err
	}
	return payload, sel, nil
}

func encodeUpdateBatch(req vectordb.UpdateBatchRequest) (*qdrant.UpdateBatchPoints, error) {
	ops := make([]*qdrant.PointsUpdateOperation, len(req.Operations))
	for i, op := range req.Operations {
		w, err := encodeUpdateOperation(index("operations", i), op)
		if err != nil {
			return nil, err
		}
		ops[i] = w
	}
	return &qdrant.UpdateBatchPoints{CollectionName: req.Collection, Wait: req.Wait, Operations: ops}, nil
}
