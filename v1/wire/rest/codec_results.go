package rest

import (
	"time"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
)

// unwrap parses a response body and returns the value of its "result"
// member, which every endpoint except the health check wraps its answer in.
func unwrap(raw []byte) (any, error) {
	doc, err := parse(root, raw)
	if err != nil {
		return nil, err
	}
	o, err := asObject(root, doc)
	if err != nil {
		return nil, err
	}
	if _, ok := o["result"]; !ok {
		return nil, vectordb.DataCorrupted(field(root, "result"), "response has no result")
	}
	return o["result"], nil
}

const resultPath = root + ".result"

// listOf decodes every element of an array with read. The result is never
// nil, so an empty answer is distinguishable from a failed one.
func listOf[T any](path string, v any, read func(string, any) (T, error)) ([]T, error) {
	items, err := asArray(path, v)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(items))
	for i, item := range items {
		x, err := read(index(path, i), item)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

// ── Points ───────────────────────────────────────────────────────────────────

func decodeScoredPoint(path string, v any) (vectordb.ScoredPoint, error) {
	o, err := asObject(path, v)
	if err != nil {
		return vectordb.ScoredPoint{}, err
	}
	id, err := decodePointID(field(path, "id"), o["id"])
	if err != nil {
		return vectordb.ScoredPoint{}, err
	}
	version, err := optional(path, o, "version", asUint64)
	if err != nil {
		return vectordb.ScoredPoint{}, err
	}
	score, err := required(path, o, "score", asFloat32)
	if err != nil {
		return vectordb.ScoredPoint{}, err
	}
	payload, err := decodePayload(field(path, "payload"), o["payload"])
	if err != nil {
		return vectordb.ScoredPoint{}, err
	}
	vectors, err := decodeVectors(field(path, "vector"), o["vector"])
	if err != nil {
		return vectordb.ScoredPoint{}, err
	}
	shardKey, err := decodeShardKey(field(path, "shard_key"), o["shard_key"])
	if err != nil {
		return vectordb.ScoredPoint{}, err
	}
	out := vectordb.ScoredPoint{
		ID:       id,
		Score:    score,
		Payload:  payload,
		Vectors:  vectors,
		ShardKey: shardKey,
	}
	if version != nil {
		out.Version = *version
	}
	return out, nil
}

func decodeRecord(path string, v any) (vectordb.Record, error) {
	o, err := asObject(path, v)
	if err != nil {
		return vectordb.Record{}, err
	}
	id, err := decodePointID(field(path, "id"), o["id"])
	if err != nil {
		return vectordb.Record{}, err
	}
	payload, err := decodePayload(field(path, "payload"), o["payload"])
	if err != nil {
		return vectordb.Record{}, err
	}
	vectors, err := decodeVectors(field(path, "vector"), o["vector"])
	if err != nil {
		return vectordb.Record{}, err
	}
	shardKey, err := decodeShardKey(field(path, "shard_key"), o["shard_key"])
	if err != nil {
		return vectordb.Record{}, err
	}
	return vectordb.Record{ID: id, Payload: payload, Vectors: vectors, ShardKey: shardKey}, nil
}

// decodeQueryResponse reads {"points": [...]}.
func decodeQueryResponse(path string, v any) ([]vectordb.ScoredPoint, error) {
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	return listOf(field(path, "points"), o["points"], decodeScoredPoint)
}

func decodeScrollPage(path string, v any) (*vectordb.ScrollPage, error) {
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	points, err := listOf(field(path, "points"), o["points"], decodeRecord)
	if err != nil {
		return nil, err
	}
	next, err := optional(path, o, "next_page_offset", decodePointID)
	if err != nil {
		return nil, err
	}
	return &vectordb.ScrollPage{Points: points, NextOffset: next}, nil
}

func decodeCount(path string, v any) (uint64, error) {
	o, err := asObject(path, v)
	if err != nil {
		return 0, err
	}
	return required(path, o, "count", asUint64)
}

func decodeGroups(path string, v any) ([]vectordb.Group, error) {
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	return listOf(field(path, "groups"), o["groups"], func(p string, item any) (vectordb.Group, error) {
		g, err := asObject(p, item)
		if err != nil {
			return vectordb.Group{}, err
		}
		id, err := decodeGroupID(field(p, "id"), g["id"])
		if err != nil {
			return vectordb.Group{}, err
		}
		hits, err := listOf(field(p, "hits"), g["hits"], decodeScoredPoint)
		if err != nil {
			return vectordb.Group{}, err
		}
		return vectordb.Group{ID: id, Hits: hits}, nil
	})
}

// decodeFacetHits accepts string, integer and bool facet values only.
func decodeFacetHits(path string, v any) ([]vectordb.FacetHit, error) {
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	return listOf(field(path, "hits"), o["hits"], func(p string, item any) (vectordb.FacetHit, error) {
		h, err := asObject(p, item)
		if err != nil {
			return vectordb.FacetHit{}, err
		}
		value, err := decodeValue(field(p, "value"), h["value"])
		if err != nil {
			return vectordb.FacetHit{}, err
		}
		switch value.(type) {
		case vectordb.StringValue, vectordb.IntegerValue, vectordb.BoolValue:
		default:
			return vectordb.FacetHit{}, vectordb.TypeMismatch(field(p, "value"), "unsupported facet value %s", kindOf(h["value"]))
		}
		count, err := required(p, h, "count", asUint64)
		if err != nil {
			return vectordb.FacetHit{}, err
		}
		return vectordb.FacetHit{Value: value, Count: count}, nil
	})
}

func decodeMatrixPairs(path string, v any) ([]vectordb.MatrixPair, error) {
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	return listOf(field(path, "pairs"), o["pairs"], func(p string, item any) (vectordb.MatrixPair, error) {
		pair, err := asObject(p, item)
		if err != nil {
			return vectordb.MatrixPair{}, err
		}
		a, err := decodePointID(field(p, "a"), pair["a"])
		if err != nil {
			return vectordb.MatrixPair{}, err
		}
		b, err := decodePointID(field(p, "b"), pair["b"])
		if err != nil {
			return vectordb.MatrixPair{}, err
		}
		score, err := required(p, pair, "score", asFloat32)
		if err != nil {
			return vectordb.MatrixPair{}, err
		}
		return vectordb.MatrixPair{A: a, B: b, Score: score}, nil
	})
}

func decodeMatrixOffsets(path string, v any) (*vectordb.MatrixOffsets, error) {
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	rows, err := listOf(field(path, "offsets_row"), o["offsets_row"], asUint64)
	if err != nil {
		return nil, err
	}
	cols, err := listOf(field(path, "offsets_col"), o["offsets_col"], asUint64)
	if err != nil {
		return nil, err
	}
	scores, err := listOf(field(path, "scores"), o["scores"], asFloat32)
	if err != nil {
		return nil, err
	}
	ids, err := listOf(field(path, "ids"), o["ids"], decodePointID)
	if err != nil {
		return nil, err
	}
	if len(rows) != len(scores) || len(cols) != len(scores) {
		return nil, vectordb.DataCorrupted(path, "offsets_row, offsets_col and scores differ in length")
	}
	return &vectordb.MatrixOffsets{OffsetsRow: rows, OffsetsCol: cols, Scores: scores, IDs: ids}, nil
}

func decodeUpdateResult(path string, v any) (vectordb.UpdateResult, error) {
	o, err := asObject(path, v)
	if err != nil {
		return vectordb.UpdateResult{}, err
	}
	opID, err := optional(path, o, "operation_id", asUint64)
	if err != nil {
		return vectordb.UpdateResult{}, err
	}
	status, err := required(path, o, "status", decodeUpdateStatus)
	if err != nil {
		return vectordb.UpdateResult{}, err
	}
	return vectordb.UpdateResult{OperationID: opID, Status: status}, nil
}

// ── Collections ──────────────────────────────────────────────────────────────

func decodeCollectionNames(path string, v any) ([]string, error) {
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	return listOf(field(path, "collections"), o["collections"], func(p string, item any) (string, error) {
		c, err := asObject(p, item)
		if err != nil {
			return "", err
		}
		return required(p, c, "name", asString)
	})
}

func decodeExists(path string, v any) (bool, error) {
	o, err := asObject(path, v)
	if err != nil {
		return false, err
	}
	return required(path, o, "exists", asBool)
}

func decodeCollectionInfo(path string, v any) (*vectordb.CollectionInfo, error) {
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	status, err := required(path, o, "status", decodeCollectionStatus)
	if err != nil {
		return nil, err
	}
	points, err := optional(path, o, "points_count", asUint64)
	if err != nil {
		return nil, err
	}
	indexed, err := optional(path, o, "indexed_vectors_count", asUint64)
	if err != nil {
		return nil, err
	}
	segments, err := optional(path, o, "segments_count", asUint64)
	if err != nil {
		return nil, err
	}
	out := &vectordb.CollectionInfo{Status: status, PointsCount: points, IndexedVectorsCount: indexed}
	if segments != nil {
		out.SegmentsCount = *segments
	}

	if present(o, "config") {
		cfg, err := asObject(field(path, "config"), o["config"])
		if err != nil {
			return nil, err
		}
		if present(cfg, "params") {
			pp := field(field(path, "config"), "params")
			params, err := asObject(pp, cfg["params"])
			if err != nil {
				return nil, err
			}
			if out.Vectors, err = decodeVectorsConfig(field(pp, "vectors"), params["vectors"]); err != nil {
				return nil, err
			}
			shards, err := optional(pp, params, "shard_number", asUint32)
			if err != nil {
				return nil, err
			}
			if shards != nil {
				out.ShardNumber = *shards
			}
			if out.ReplicationFactor, err = optional(pp, params, "replication_factor", asUint32); err != nil {
				return nil, err
			}
			onDisk, err := optional(pp, params, "on_disk_payload", asBool)
			if err != nil {
				return nil, err
			}
			if onDisk != nil {
				out.OnDiskPayload = *onDisk
			}
		}
	}

	if present(o, "payload_schema") {
		sp := field(path, "payload_schema")
		schema, err := asObject(sp, o["payload_schema"])
		if err != nil {
			return nil, err
		}
		if len(schema) > 0 {
			out.PayloadSchema = make(map[string]vectordb.PayloadSchemaInfo, len(schema))
			for name, item := range schema {
				p := field(sp, name)
				info, err := asObject(p, item)
				if err != nil {
					return nil, err
				}
				t, err := required(p, info, "data_type", decodeFieldType)
				if err != nil {
					return nil, err
				}
				count, err := optional(p, info, "points", asUint64)
				if err != nil {
					return nil, err
				}
				out.PayloadSchema[name] = vectordb.PayloadSchemaInfo{DataType: t, Points: count}
			}
		}
	}
	return out, nil
}

// ── Snapshots ────────────────────────────────────────────────────────────────

// snapshotTimeLayout is the server's format when it omits the zone.
const snapshotTimeLayout = "2006-01-02T15:04:05.999999999"

func decodeSnapshotTime(path string, v any) (time.Time, error) {
	s, err := asString(path, v)
	if err != nil {
		return time.Time{}, err
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(snapshotTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, vectordb.DataCorrupted(path, "invalid creation time %q", s)
	}
	return t, nil
}

func decodeSnapshot(path string, v any) (vectordb.SnapshotDescription, error) {
	o, err := asObject(path, v)
	if err != nil {
		return vectordb.SnapshotDescription{}, err
	}
	name, err := required(path, o, "name", asString)
	if err != nil {
		return vectordb.SnapshotDescription{}, err
	}
	created, err := optional(path, o, "creation_time", decodeSnapshotTime)
	if err != nil {
		return vectordb.SnapshotDescription{}, err
	}
	size, err := required(path, o, "size", asInt64)
	if err != nil {
		return vectordb.SnapshotDescription{}, err
	}
	checksum, err := optional(path, o, "checksum", asString)
	if err != nil {
		return vectordb.SnapshotDescription{}, err
	}
	return vectordb.SnapshotDescription{Name: name, CreationTime: created, Size: size, Checksum: checksum}, nil
}

// ── Health ───────────────────────────────────────────────────────────────────

// decodeHealth reads the unwrapped {"title", "version"} served at "/".
func decodeHealth(raw []byte) (*vectordb.HealthInfo, error) {
	doc, err := parse(root, raw)
	if err != nil {
		return nil, err
	}
	o, err := asObject(root, doc)
	if err != nil {
		return nil, err
	}
	title, err := required(root, o, "title", asString)
	if err != nil {
		return nil, err
	}
	version, err := required(root, o, "version", asString)
	if err != nil {
		return nil, err
	}
	return &vectordb.HealthInfo{Title: title, Version: version}, nil
}
