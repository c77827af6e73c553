package rpc

import (
	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
	qdrant "github.com/qdrant/go-client/qdrant"
)

// ── Points ───────────────────────────────────────────────────────────────────

func decodeScoredPoint(path string, w *qdrant.ScoredPoint) (vectordb.ScoredPoint, error) {
	if w == nil {
		return vectordb.ScoredPoint{}, vectordb.DataCorrupted(path, "scored point is missing")
	}
	id, err := decodePointID(field(path, "id"), w.GetId())
	if err != nil {
		return vectordb.ScoredPoint{}, err
	}
	payload, err := decodePayload(field(path, "payload"), w.GetPayload())
	if err != nil {
		return vectordb.ScoredPoint{}, err
	}
	vectors, err := decodeVectorsOutput(field(path, "vector"), w.GetVectors())
	if err != nil {
		return vectordb.ScoredPoint{}, err
	}
	shardKey, err := decodeShardKey(field(path, "shard_key"), w.GetShardKey())
	if err != nil {
		return vectordb.ScoredPoint{}, err
	}
	return vectordb.ScoredPoint{
		ID:       id,
		Version:  w.GetVersion(),
		Score:    w.GetScore(),
		Payload:  payload,
		Vectors:  vectors,
		ShardKey: shardKey,
	}, nil
}

func decodeScoredPoints(path string, ws []*qdrant.ScoredPoint) ([]vectordb.ScoredPoint, error) {
	out := make([]vectordb.ScoredPoint, len(ws))
	for i, w := range ws {
		p, err := decodeScoredPoint(index(path, i), w)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func decodeRecord(path string, w *qdrant.RetrievedPoint) (vectordb.Record, error) {
	if w == nil {
		return vectordb.Record{}, vectordb.DataCorrupted(path, "point is missing")
	}
	id, err := decodePointID(field(path, "id"), w.GetId())
	if err != nil {
		return vectordb.Record{}, err
	}
	payload, err := decodePayload(field(path, "payload"), w.GetPayload())
	if err != nil {
		return vectordb.Record{}, err
	}
	vectors, err := decodeVectorsOutput(field(path, "vector"), w.GetVectors())
	if err != nil {
		return vectordb.Record{}, err
	}
	shardKey, err := decodeShardKey(field(path, "shard_key"), w.GetShardKey())
	if err != nil {
		return vectordb.Record{}, err
	}
	return vectordb.Record{ID: id, Payload: payload, Vectors: vectors, ShardKey: shardKey}, nil
}

func decodeRecords(path string, ws []*qdrant.RetrievedPoint) ([]vectordb.Record, error) {
	out := make([]vectordb.Record, len(ws))
	for i, w := range ws {
		r, err := decodeRecord(index(path, i), w)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func decodeGroups(path string, w *qdrant.GroupsResult) ([]vectordb.Group, error) {
	groups := w.GetGroups()
	out := make([]vectordb.Group, len(groups))
	for i, g := range groups {
		p := index(path, i)
		id, err := decodeGroupID(field(p, "id"), g.GetId())
		if err != nil {
			return nil, err
		}
		hits, err := decodeScoredPoints(field(p, "hits"), g.GetHits())
		if err != nil {
			return nil, err
		}
		out[i] = vectordb.Group{ID: id, Hits: hits}
	}
	return out, nil
}

// ── Writes ───────────────────────────────────────────────────────────────────

func decodeUpdateResult(path string, w *qdrant.UpdateResult) (*vectordb.UpdateResult, error) {
	if w == nil {
		return nil, vectordb.DataCorrupted(path, "update result is missing")
	}
	status, err := decodeUpdateStatus(field(path, "status"), w.GetStatus())
	if err != nil {
		return nil, err
	}
	return &vectordb.UpdateResult{OperationID: w.OperationId, Status: status}, nil
}

// ── Aggregates ───────────────────────────────────────────────────────────────

func decodeFacetHits(path string, ws []*qdrant.FacetHit) ([]vectordb.FacetHit, error) {
	out := make([]vectordb.FacetHit, len(ws))
	for i, w := range ws {
		p := index(path, i)
		var v vectordb.Value
		switch x := w.GetValue().GetVariant().(type) {
		case *qdrant.FacetValue_StringValue:
			v = vectordb.StringValue(x.StringValue)
		case *qdrant.FacetValue_IntegerValue:
			v = vectordb.IntegerValue(x.IntegerValue)
		case *qdrant.FacetValue_BoolValue:
			v = vectordb.BoolValue(x.BoolValue)
		case nil:
			return nil, vectordb.DataCorrupted(field(p, "value"), "facet value is missing")
		default:
			return nil, vectordb.TypeMismatch(field(p, "value"), "unsupported facet value %T", x)
		}
		out[i] = vectordb.FacetHit{Value: v, Count: w.GetCount()}
	}
	return out, nil
}

func decodeMatrixPairs(path string, w *qdrant.SearchMatrixPairs) ([]vectordb.MatrixPair, error) {
	pairs := w.GetPairs()
	out := make([]vectordb.MatrixPair, len(pairs))
	for i, pair := range pairs {
		p := index(path, i)
		a, err := decodePointID(field(p, "a"), pair.GetA())
		if err != nil {
			return nil, err
		}
		b, err := decodePointID(field(p, "b"), pair.GetB())
		if err != nil {
			return nil, err
		}
		out[i] = vectordb.MatrixPair{A: a, B: b, Score: pair.GetScore()}
	}
	return out, nil
}

func decodeMatrixOffsets(path string, w *qdrant.SearchMatrixOffsets) (*vectordb.MatrixOffsets, error) {
	if w == nil {
		return nil, vectordb.DataCorrupted(path, "matrix is missing")
	}
	ids, err := decodePointIDs(field(path, "ids"), w.GetIds())
	if err != nil {
		return nil, err
	}
	n := len(w.GetScores())
	if len(w.GetOffsetsRow()) != n || len(w.GetOffsetsCol()) != n {
		return nil, vectordb.DataCorrupted(path, "offsets_row, offsets_col and scores differ in length")
	}
	return &vectordb.MatrixOffsets{
		OffsetsRow: w.GetOffsetsRow(),
		OffsetsCol: w.GetOffsetsCol(),
		Scores:     w.GetScores(),
		IDs:        ids,
	}, nil
}

// ── Collections ──────────────────────────────────────────────────────────────

func decodeCollectionInfo(path string, w *qdrant.CollectionInfo) (*vectordb.CollectionInfo, error) {
	if w == nil {
		return nil, vectordb.DataCorrupted(path, "collection info is missing")
	}
	status, err := decodeCollectionStatus(field(path, "status"), w.GetStatus())
	if err != nil {
		return nil, err
	}
	params := w.GetConfig().GetParams()
	vectors, err := decodeVectorsConfig(field(path, "config.params.vectors"), params.GetVectorsConfig())
	if err != nil {
		return nil, err
	}

	var schema map[string]vectordb.PayloadSchemaInfo
	if len(w.GetPayloadSchema()) > 0 {
		schema = make(map[string]vectordb.PayloadSchemaInfo, len(w.GetPayloadSchema()))
		for name, info := range w.GetPayloadSchema() {
			p := field(field(path, "payload_schema"), name)
			if info == nil {
				return nil, vectordb.DataCorrupted(p, "schema info is missing")
			}
			t, err := decodeSchemaType(p, info.GetDataType())
			if err != nil {
				return nil, err
			}
			schema[name] = vectordb.PayloadSchemaInfo{DataType: t, Points: info.Points}
		}
	}

	var replication *uint32
	if params != nil {
		replication = params.ReplicationFactor
	}

	return &vectordb.CollectionInfo{
		Status:              status,
		PointsCount:         w.PointsCount,
		IndexedVectorsCount: w.IndexedVectorsCount,
		SegmentsCount:       w.GetSegmentsCount(),
		Vectors:             vectors,
		ShardNumber:         params.GetShardNumber(),
		ReplicationFactor:   replication,
		OnDiskPayload:       params.GetOnDiskPayload(),
		PayloadSchema:       schema,
	}, nil
}

// ── Snapshots ────────────────────────────────────────────────────────────────

func decodeSnapshot(path string, w *qdrant.SnapshotDescription) (*vectordb.SnapshotDescription, error) {
	if w == nil {
		return nil, vectordb.DataCorrupted(path, "snapshot description is missing")
	}
	out := &vectordb.SnapshotDescription{Name: w.GetName(), Size: w.GetSize(), Checksum: w.Checksum}
	if ts := w.GetCreationTime(); ts != nil {
		if err := ts.CheckValid(); err != nil {
			return nil, vectordb.DataCorrupted(field(path, "creation_time"), "%v", err)
		}
		t := ts.AsTime()
		out.CreationTime = &t
	}
	return out, nil
}

func decodeSnapshots(path string, ws []*qdrant.SnapshotDescription) ([]vectordb.SnapshotDescription, error) {
	out := make([]vectordb.SnapshotDescription, len(ws))
	for i, w := range ws {
		s, err := decodeSnapshot(index(path, i), w)
		if err != nil {
			return nil, err
		}
		out[i] = *s
	}
	return out, nil
}
