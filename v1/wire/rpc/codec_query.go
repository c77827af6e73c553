package rpc

import (
	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
	qdrant "github.com/qdrant/go-client/qdrant"
)

// ── Query inputs ─────────────────────────────────────────────────────────────

// encodeQuery maps each query variant onto exactly one slot of the Query oneof.
func encodeQuery(path string, q vectordb.QueryInput) (*qdrant.Query, error) {
	switch v := q.(type) {
	case nil:
		return nil, nil
	case vectordb.NearestQuery:
		return &qdrant.Query{Variant: &qdrant.Query_Nearest{
			Nearest: &qdrant.VectorInput{Variant: &qdrant.VectorInput_Dense{Dense: &qdrant.DenseVector{Data: v.Vector}}},
		}}, nil
	case vectordb.NearestIDQuery:
		return &qdrant.Query{Variant: &qdrant.Query_Nearest{
			Nearest: &qdrant.VectorInput{Variant: &qdrant.VectorInput_Id{Id: encodePointID(v.ID)}},
		}}, nil
	case vectordb.RecommendQuery:
		pos, err := encodeVectorInputs(field(path, "recommend.positive"), v.Positive)
		if err != nil {
			return nil, err
		}
		neg, err := encodeVectorInputs(field(path, "recommend.negative"), v.Negative)
		if err != nil {
			return nil, err
		}
		return &qdrant.Query{Variant: &qdrant.Query_Recommend{
			Recommend: &qdrant.RecommendInput{Positive: pos, Negative: neg},
		}}, nil
	case vectordb.DiscoverQuery:
		target, err := encodeVectorInput(field(path, "discover.target"), v.Target)
		if err != nil {
			return nil, err
		}
		pairs, err := encodeContextPairs(field(path, "discover.context"), v.Context)
		if err != nil {
			return nil, err
		}
		return &qdrant.Query{Variant: &qdrant.Query_Discover{
			Discover: &qdrant.DiscoverInput{Target: target, Context: &qdrant.ContextInput{Pairs: pairs}},
		}}, nil
	case vectordb.ContextQuery:
		pairs, err := encodeContextPairs(field(path, "context"), v.Pairs)
		if err != nil {
			return nil, err
		}
		return &qdrant.Query{Variant: &qdrant.Query_Context{Context: &qdrant.ContextInput{Pairs: pairs}}}, nil
	case vectordb.OrderByQuery:
		ob := &qdrant.OrderBy{Key: v.Key}
		if v.Direction != nil {
			d := qdrant.Direction_Asc
			if *v.Direction == vectordb.Desc {
				d = qdrant.Direction_Desc
			}
			ob.Direction = &d
		}
		return &qdrant.Query{Variant: &qdrant.Query_OrderBy{OrderBy: ob}}, nil
	case vectordb.FusionQuery:
		switch v.Fusion {
		case vectordb.RRF:
			return &qdrant.Query{Variant: &qdrant.Query_Fusion{Fusion: qdrant.Fusion_RRF}}, nil
		case vectordb.DBSF:
			return &qdrant.Query{Variant: &qdrant.Query_Fusion{Fusion: qdrant.Fusion_DBSF}}, nil
		default:
			return nil, vectordb.InvalidArgument("%s: unknown fusion %d", path, int(v.Fusion))
		}
	case vectordb.SampleQuery:
		if v.Sample != vectordb.SampleRandom {
			return nil, vectordb.InvalidArgument("%s: unknown sample %d", path, int(v.Sample))
		}
		return &qdrant.Query{Variant: &qdrant.Query_Sample{Sample: qdrant.Sample_Random}}, nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported query %T", q)
	}
}

func decodeQuery(path string, w *qdrant.Query) (vectordb.QueryInput, error) {
	if w == nil {
		return nil, nil
	}
	switch v := w.GetVariant().(type) {
	case *qdrant.Query_Nearest:
		switch in := v.Nearest.GetVariant().(type) {
		case *qdrant.VectorInput_Dense:
			return vectordb.NearestQuery{Vector: denseOrNil(in.Dense.GetData())}, nil
		case *qdrant.VectorInput_Id:
			id, err := decodePointID(field(path, "nearest"), in.Id)
			if err != nil {
				return nil, err
			}
			return vectordb.NearestIDQuery{ID: id}, nil
		default:
			return nil, vectordb.TypeMismatch(field(path, "nearest"), "unsupported vector input %T", in)
		}
	case *qdrant.Query_Recommend:
		pos, err := decodeVectorInputs(field(path, "recommend.positive"), v.Recommend.GetPositive())
		if err != nil {
			return nil, err
		}
		neg, err := decodeVectorInputs(field(path, "recommend.negative"), v.Recommend.GetNegative())
		if err != nil {
			return nil, err
		}
		return vectordb.RecommendQuery{Positive: pos, Negative: neg}, nil
	case *qdrant.Query_Discover:
		target, err := decodeVectorInput(field(path, "discover.target"), v.Discover.GetTarget())
		if err != nil {
			return nil, err
		}
		pairs, err := decodeContextPairs(field(path, "discover.context"), v.Discover.GetContext().GetPairs())
		if err != nil {
			return nil, err
		}
		return vectordb.DiscoverQuery{Target: target, Context: pairs}, nil
	case *qdrant.Query_Context:
		pairs, err := decodeContextPairs(field(path, "context"), v.Context.GetPairs())
		if err != nil {
			return nil, err
		}
		return vectordb.ContextQuery{Pairs: pairs}, nil
	case *qdrant.Query_OrderBy:
		out := vectordb.OrderByQuery{Key: v.OrderBy.GetKey()}
		if v.OrderBy.Direction != nil {
			d := vectordb.Asc
			switch v.OrderBy.GetDirection() {
			case qdrant.Direction_Asc:
			case qdrant.Direction_Desc:
				d = vectordb.Desc
			default:
				return nil, vectordb.DataCorrupted(field(path, "order_by.direction"), "unknown direction %d", int32(v.OrderBy.GetDirection()))
			}
			out.Direction = &d
		}
		return out, nil
	case *qdrant.Query_Fusion:
		switch v.Fusion {
		case qdrant.Fusion_RRF:
			return vectordb.FusionQuery{Fusion: vectordb.RRF}, nil
		case qdrant.Fusion_DBSF:
			return vectordb.FusionQuery{Fusion: vectordb.DBSF}, nil
		default:
			return nil, vectordb.DataCorrupted(field(path, "fusion"), "unknown fusion %d", int32(v.Fusion))
		}
	case *qdrant.Query_Sample:
		if v.Sample != qdrant.Sample_Random {
			return nil, vectordb.DataCorrupted(field(path, "sample"), "unknown sample %d", int32(v.Sample))
		}
		return vectordb.SampleQuery{Sample: vectordb.SampleRandom}, nil
	case nil:
		return nil, vectordb.DataCorrupted(path, "query has no variant")
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported query %T", v)
	}
}

func encodeContextPairs(path string, pairs []vectordb.ContextPair) ([]*qdrant.ContextInputPair, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make([]*qdrant.ContextInputPair, len(pairs))
	for i, p := range pairs {
		pos, err := encodeVectorInput(field(index(path, i), "positive"), p.Positive)
		if err != nil {
			return nil, err
		}
		neg, err := encodeVectorInput(field(index(path, i), "negative"), p.Negative)
		if err != nil {
			return nil, err
		}
		out[i] = &qdrant.ContextInputPair{Positive: pos, Negative: neg}
	}
	return out, nil
}

func decodeContextPairs(path string, ws []*qdrant.ContextInputPair) ([]vectordb.ContextPair, error) {
	if len(ws) == 0 {
		return nil, nil
	}
	out := make([]vectordb.ContextPair, len(ws))
	for i, w := range ws {
		pos, err := decodeVectorInput(field(index(path, i), "positive"), w.GetPositive())
		if err != nil {
			return nil, err
		}
		neg, err := decodeVectorInput(field(index(path, i), "negative"), w.GetNegative())
		if err != nil {
			return nil, err
		}
		out[i] = vectordb.ContextPair{Positive: pos, Negative: neg}
	}
	return out, nil
}

// ── Prefetch ─────────────────────────────────────────────────────────────────

func encodePrefetch(path string, p vectordb.PrefetchQuery) (*qdrant.PrefetchQuery, error) {
	children, err := encodePrefetches(field(path, "prefetch"), p.Prefetch)
	if err != nil {
		return nil, err
	}
	q, err := encodeQuery(field(path, "query"), p.Query)
	if err != nil {
		return nil, err
	}
	f, err := encodeFilterPtr(field(path, "filter"), p.Filter)
	if err != nil {
		return nil, err
	}
	return &qdrant.PrefetchQuery{
		Prefetch:       children,
		Query:          q,
		Using:          p.Using,
		Filter:         f,
		ScoreThreshold: p.ScoreThreshold,
		Limit:          p.Limit,
	}, nil
}

func encodePrefetches(path string, ps []vectordb.PrefetchQuery) ([]*qdrant.PrefetchQuery, error) {
	if len(ps) == 0 {
		return nil, nil
	}
	out := make([]*qdrant.PrefetchQuery, len(ps))
	for i, p := range ps {
		w, err := encodePrefetch(index(path, i), p)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

func decodePrefetch(path string, w *qdrant.PrefetchQuery) (vectordb.PrefetchQuery, error) {
	if w == nil {
		return vectordb.PrefetchQuery{}, vectordb.DataCorrupted(path, "prefetch is missing")
	}
	children, err := decodePrefetches(field(path, "prefetch"), w.GetPrefetch())
	if err != nil {
		return vectordb.PrefetchQuery{}, err
	}
	q, err := decodeQuery(field(path, "query"), w.GetQuery())
	if err != nil {
		return vectordb.PrefetchQuery{}, err
	}
	f, err := decodeFilterPtr(field(path, "filter"), w.GetFilter())
	if err != nil {
		return vectordb.PrefetchQuery{}, err
	}
	return vectordb.PrefetchQuery{
		Prefetch:       children,
		Query:          q,
		Using:          w.Using,
		Filter:         f,
		ScoreThreshold: w.ScoreThreshold,
		Limit:          w.Limit,
	}, nil
}

func decodePrefetches(path string, ws []*qdrant.PrefetchQuery) ([]vectordb.PrefetchQuery, error) {
	if len(ws) == 0 {
		return nil, nil
	}
	out := make([]vectordb.PrefetchQuery, len(ws))
	for i, w := range ws {
		p, err := decodePrefetch(index(path, i), w)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
