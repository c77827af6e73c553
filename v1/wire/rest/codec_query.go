package rest

import (
	"encoding/json"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
)

// ── Query inputs ─────────────────────────────────────────────────────────────

// encodeQuery renders each variant as an object with exactly one key.
func encodeQuery(path string, q vectordb.QueryInput) (any, error) {
	switch v := q.(type) {
	case nil:
		return nil, nil
	case vectordb.NearestQuery:
		return object{"nearest": encodeDense(v.Vector)}, nil
	case vectordb.NearestIDQuery:
		return object{"nearest": encodePointID(v.ID)}, nil
	case vectordb.RecommendQuery:
		rec := object{}
		if len(v.Positive) > 0 {
			pos, err := encodeVectorInputs(field(path, "recommend.positive"), v.Positive)
			if err != nil {
				return nil, err
			}
			rec["positive"] = pos
		}
		if len(v.Negative) > 0 {
			neg, err := encodeVectorInputs(field(path, "recommend.negative"), v.Negative)
			if err != nil {
				return nil, err
			}
			rec["negative"] = neg
		}
		return object{"recommend": rec}, nil
	case vectordb.DiscoverQuery:
		target, err := encodeVectorInput(field(path, "discover.target"), v.Target)
		if err != nil {
			return nil, err
		}
		pairs, err := encodeContextPairs(field(path, "discover.context"), v.Context)
		if err != nil {
			return nil, err
		}
		return object{"discover": object{"target": target, "context": pairs}}, nil
	case vectordb.ContextQuery:
		pairs, err := encodeContextPairs(field(path, "context"), v.Pairs)
		if err != nil {
			return nil, err
		}
		return object{"context": pairs}, nil
	case vectordb.OrderByQuery:
		ob := object{"key": v.Key}
		if v.Direction != nil {
			ob["direction"] = v.Direction.String()
		}
		return object{"order_by": ob}, nil
	case vectordb.FusionQuery:
		if v.Fusion != vectordb.RRF && v.Fusion != vectordb.DBSF {
			return nil, vectordb.InvalidArgument("%s: unknown fusion %d", path, int(v.Fusion))
		}
		return object{"fusion": v.Fusion.String()}, nil
	case vectordb.SampleQuery:
		if v.Sample != vectordb.SampleRandom {
			return nil, vectordb.InvalidArgument("%s: unknown sample %d", path, int(v.Sample))
		}
		return object{"sample": v.Sample.String()}, nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported query %T", q)
	}
}

// queryKeys lists the variant keys in the order decodeQuery tries them.
var queryKeys = []string{"nearest", "recommend", "discover", "context", "order_by", "fusion", "sample"}

// decodeQuery also accepts the server's shorthands: a bare array is a
// nearest query and a bare id a nearest-by-id query.
func decodeQuery(path string, v any) (vectordb.QueryInput, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		vec, err := decodeDense(path, x)
		if err != nil {
			return nil, err
		}
		return vectordb.NearestQuery{Vector: vec}, nil
	case json.Number, string:
		id, err := decodePointID(path, x)
		if err != nil {
			return nil, err
		}
		return vectordb.NearestIDQuery{ID: id}, nil
	}

	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	found := ""
	for _, key := range queryKeys {
		if present(o, key) {
			if found != "" {
				return nil, vectordb.DataCorrupted(path, "query sets both %q and %q", found, key)
			}
			found = key
		}
	}

	p := field(path, found)
	switch found {
	case "nearest":
		in, err := decodeVectorInput(p, o[found])
		if err != nil {
			return nil, err
		}
		if id, ok := in.(vectordb.PointID); ok {
			return vectordb.NearestIDQuery{ID: id}, nil
		}
		return vectordb.NearestQuery{Vector: in.(vectordb.Vector)}, nil
	case "recommend":
		rec, err := asObject(p, o[found])
		if err != nil {
			return nil, err
		}
		pos, err := decodeVectorInputs(field(p, "positive"), rec["positive"])
		if err != nil {
			return nil, err
		}
		neg, err := decodeVectorInputs(field(p, "negative"), rec["negative"])
		if err != nil {
			return nil, err
		}
		return vectordb.RecommendQuery{Positive: pos, Negative: neg}, nil
	case "discover":
		disc, err := asObject(p, o[found])
		if err != nil {
			return nil, err
		}
		target, err := required(p, disc, "target", decodeVectorInput)
		if err != nil {
			return nil, err
		}
		pairs, err := decodeContextPairs(field(p, "context"), disc["context"])
		if err != nil {
			return nil, err
		}
		return vectordb.DiscoverQuery{Target: target, Context: pairs}, nil
	case "context":
		pairs, err := decodeContextPairs(p, o[found])
		if err != nil {
			return nil, err
		}
		return vectordb.ContextQuery{Pairs: pairs}, nil
	case "order_by":
		return decodeOrderBy(p, o[found])
	case "fusion":
		s, err := asString(p, o[found])
		if err != nil {
			return nil, err
		}
		switch s {
		case vectordb.RRF.String():
			return vectordb.FusionQuery{Fusion: vectordb.RRF}, nil
		case vectordb.DBSF.String():
			return vectordb.FusionQuery{Fusion: vectordb.DBSF}, nil
		default:
			return nil, vectordb.DataCorrupted(p, "unknown fusion %q", s)
		}
	case "sample":
		s, err := asString(p, o[found])
		if err != nil {
			return nil, err
		}
		if s != vectordb.SampleRandom.String() {
			return nil, vectordb.DataCorrupted(p, "unknown sample %q", s)
		}
		return vectordb.SampleQuery{Sample: vectordb.SampleRandom}, nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported query")
	}
}

// decodeOrderBy accepts a bare key or {"key", "direction"}.
func decodeOrderBy(path string, v any) (vectordb.QueryInput, error) {
	if key, ok := v.(string); ok {
		return vectordb.OrderByQuery{Key: key}, nil
	}
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	key, err := required(path, o, "key", asString)
	if err != nil {
		return nil, err
	}
	out := vectordb.OrderByQuery{Key: key}
	if present(o, "direction") {
		s, err := asString(field(path, "direction"), o["direction"])
		if err != nil {
			return nil, err
		}
		var d vectordb.Direction
		switch s {
		case vectordb.Asc.String():
			d = vectordb.Asc
		case vectordb.Desc.String():
			d = vectordb.Desc
		default:
			return nil, vectordb.DataCorrupted(field(path, "direction"), "unknown direction %q", s)
		}
		out.Direction = &d
	}
	return out, nil
}

func encodeContextPairs(path string, pairs []vectordb.ContextPair) ([]any, error) {
	out := make([]any, len(pairs))
	for i, p := range pairs {
		pos, err := encodeVectorInput(field(index(path, i), "positive"), p.Positive)
		if err != nil {
			return nil, err
		}
		neg, err := encodeVectorInput(field(index(path, i), "negative"), p.Negative)
		if err != nil {
			return nil, err
		}
		out[i] = object{"positive": pos, "negative": neg}
	}
	return out, nil
}

// decodeContextPairs accepts a list of pairs or a single pair object.
func decodeContextPairs(path string, v any) ([]vectordb.ContextPair, error) {
	var items []any
	switch x := v.(type) {
	case nil:
		return nil, nil
	case object:
		items = []any{x}
	default:
		list, err := asArray(path, v)
		if err != nil {
			return nil, err
		}
		items = list
	}
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]vectordb.ContextPair, len(items))
	for i, item := range items {
		p := index(path, i)
		o, err := asObject(p, item)
		if err != nil {
			return nil, err
		}
		pos, err := required(p, o, "positive", decodeVectorInput)
		if err != nil {
			return nil, err
		}
		neg, err := required(p, o, "negative", decodeVectorInput)
		if err != nil {
			return nil, err
		}
		out[i] = vectordb.ContextPair{Positive: pos, Negative: neg}
	}
	return out, nil
}

// ── Prefetch ─────────────────────────────────────────────────────────────────

// putStage writes the fields shared by prefetch stages and top-level queries.
func putStage(path string, o object, prefetch []vectordb.PrefetchQuery, q vectordb.QueryInput, using *string, filter *vectordb.Filter, threshold *float32) error {
	if len(prefetch) > 0 {
		children, err := encodePrefetches(field(path, "prefetch"), prefetch)
		if err != nil {
			return err
		}
		o["prefetch"] = children
	}
	if q != nil {
		w, err := encodeQuery(field(path, "query"), q)
		if err != nil {
			return err
		}
		o["query"] = w
	}
	putOpt(o, "using", using)
	if err := putFilter(path, o, filter); err != nil {
		return err
	}
	putOpt(o, "score_threshold", threshold)
	return nil
}

func encodePrefetch(path string, p vectordb.PrefetchQuery) (object, error) {
	out := object{}
	if err := putStage(path, out, p.Prefetch, p.Query, p.Using, p.Filter, p.ScoreThreshold); err != nil {
		return nil, err
	}
	putOpt(out, "limit", p.Limit)
	return out, nil
}

func encodePrefetches(path string, ps []vectordb.PrefetchQuery) ([]any, error) {
	out := make([]any, len(ps))
	for i, p := range ps {
		w, err := encodePrefetch(index(path, i), p)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

func decodePrefetch(path string, v any) (vectordb.PrefetchQuery, error) {
	o, err := asObject(path, v)
	if err != nil {
		return vectordb.PrefetchQuery{}, err
	}
	children, err := decodePrefetches(field(path, "prefetch"), o["prefetch"])
	if err != nil {
		return vectordb.PrefetchQuery{}, err
	}
	q, err := decodeQuery(field(path, "query"), o["query"])
	if err != nil {
		return vectordb.PrefetchQuery{}, err
	}
	using, err := optional(path, o, "using", asString)
	if err != nil {
		return vectordb.PrefetchQuery{}, err
	}
	f, err := decodeFilterPtr(path, o, "filter")
	if err != nil {
		return vectordb.PrefetchQuery{}, err
	}
	threshold, err := optional(path, o, "score_threshold", asFloat32)
	if err != nil {
		return vectordb.PrefetchQuery{}, err
	}
	limit, err := optional(path, o, "limit", asUint64)
	if err != nil {
		return vectordb.PrefetchQuery{}, err
	}
	return vectordb.PrefetchQuery{
		Prefetch:       children,
		Query:          q,
		Using:          using,
		Filter:         f,
		ScoreThreshold: threshold,
		Limit:          limit,
	}, nil
}

// decodePrefetches accepts a list of stages or a single stage object.
func decodePrefetches(path string, v any) ([]vectordb.PrefetchQuery, error) {
	var items []any
	switch x := v.(type) {
	case nil:
		return nil, nil
	case object:
		items = []any{x}
	default:
		list, err := asArray(path, v)
		if err != nil {
			return nil, err
		}
		items = list
	}
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]vectordb.PrefetchQuery, len(items))
	for i, item := range items {
		p, err := decodePrefetch(index(path, i), item)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
