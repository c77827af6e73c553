package rpc

import (
	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
	qdrant "github.com/qdrant/go-client/qdrant"
)

// ── Filter Conversion ────────────────────────────────────────────────────────

// encodeFilter converts a filter. Empty clauses stay nil so they are
// absent from the message.
func encodeFilter(path string, f vectordb.Filter) (*qdrant.Filter, error) {
	must, err := encodeConditions(field(path, "must"), f.Must)
	if err != nil {
		return nil, err
	}
	should, err := encodeConditions(field(path, "should"), f.Should)
	if err != nil {
		return nil, err
	}
	mustNot, err := encodeConditions(field(path, "must_not"), f.MustNot)
	if err != nil {
		return nil, err
	}
	return &qdrant.Filter{Must: must, Should: should, MustNot: mustNot}, nil
}

func encodeFilterPtr(path string, f *vectordb.Filter) (*qdrant.Filter, error) {
	if f == nil {
		return nil, nil
	}
	return encodeFilter(path, *f)
}

func decodeFilter(path string, w *qdrant.Filter) (vectordb.Filter, error) {
	if w == nil {
		return vectordb.Filter{}, nil
	}
	if w.GetMinShould() != nil {
		return vectordb.Filter{}, vectordb.TypeMismatch(field(path, "min_should"), "min_should is not supported")
	}
	must, err := decodeConditions(field(path, "must"), w.GetMust())
	if err != nil {
		return vectordb.Filter{}, err
	}
	should, err := decodeConditions(field(path, "should"), w.GetShould())
	if err != nil {
		return vectordb.Filter{}, err
	}
	mustNot, err := decodeConditions(field(path, "must_not"), w.GetMustNot())
	if err != nil {
		return vectordb.Filter{}, err
	}
	return vectordb.Filter{Must: must, Should: should, MustNot: mustNot}, nil
}

func decodeFilterPtr(path string, w *qdrant.Filter) (*vectordb.Filter, error) {
	if w == nil {
		return nil, nil
	}
	f, err := decodeFilter(path, w)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func encodeConditions(path string, cs []vectordb.Condition) ([]*qdrant.Condition, error) {
	if len(cs) == 0 {
		return nil, nil
	}
	out := make([]*qdrant.Condition, len(cs))
	for i, c := range cs {
		w, err := encodeCondition(index(path, i), c)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

func decodeConditions(path string, ws []*qdrant.Condition) ([]vectordb.Condition, error) {
	if len(ws) == 0 {
		return nil, nil
	}
	out := make([]vectordb.Condition, len(ws))
	for i, w := range ws {
		c, err := decodeCondition(index(path, i), w)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// ── Conditions ───────────────────────────────────────────────────────────────

func encodeCondition(path string, c vectordb.Condition) (*qdrant.Condition, error) {
	switch cond := c.(type) {
	case vectordb.FieldCondition:
		fc, err := encodeFieldCondition(path, cond)
		if err != nil {
			return nil, err
		}
		return &qdrant.Condition{ConditionOneOf: &qdrant.Condition_Field{Field: fc}}, nil
	case vectordb.IsEmptyCondition:
		return &qdrant.Condition{ConditionOneOf: &qdrant.Condition_IsEmpty{
			IsEmpty: &qdrant.IsEmptyCondition{Key: cond.Key},
		}}, nil
	case vectordb.IsNullCondition:
		return &qdrant.Condition{ConditionOneOf: &qdrant.Condition_IsNull{
			IsNull: &qdrant.IsNullCondition{Key: cond.Key},
		}}, nil
	case vectordb.HasIDCondition:
		return &qdrant.Condition{ConditionOneOf: &qdrant.Condition_HasId{
			HasId: &qdrant.HasIdCondition{HasId: encodePointIDs(cond.IDs)},
		}}, nil
	case vectordb.Filter:
		f, err := encodeFilter(field(path, "filter"), cond)
		if err != nil {
			return nil, err
		}
		return &qdrant.Condition{ConditionOneOf: &qdrant.Condition_Filter{Filter: f}}, nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported condition %T", c)
	}
}

func decodeCondition(path string, w *qdrant.Condition) (vectordb.Condition, error) {
	switch c := w.GetConditionOneOf().(type) {
	case *qdrant.Condition_Field:
		return decodeFieldCondition(path, c.Field)
	case *qdrant.Condition_IsEmpty:
		return vectordb.IsEmptyCondition{Key: c.IsEmpty.GetKey()}, nil
	case *qdrant.Condition_IsNull:
		return vectordb.IsNullCondition{Key: c.IsNull.GetKey()}, nil
	case *qdrant.Condition_HasId:
		ids, err := decodePointIDs(field(path, "has_id"), c.HasId.GetHasId())
		if err != nil {
			return nil, err
		}
		return vectordb.HasIDCondition{IDs: ids}, nil
	case *qdrant.Condition_Filter:
		f, err := decodeFilter(field(path, "filter"), c.Filter)
		if err != nil {
			return nil, err
		}
		return vectordb.NewNestedFilter(f), nil
	case nil:
		return nil, vectordb.DataCorrupted(path, "condition is empty")
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported condition %T", c)
	}
}

// encodeFieldCondition requires exactly one of match, range and geo.
func encodeFieldCondition(path string, c vectordb.FieldCondition) (*qdrant.FieldCondition, error) {
	set := 0
	for _, present := range []bool{c.Match != nil, c.Range != nil, c.Geo != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, vectordb.InvalidArgument("%s: field condition on %q must set exactly one of match, range, geo (has %d)", path, c.Key, set)
	}

	out := &qdrant.FieldCondition{Key: c.Key}
	switch {
	case c.Match != nil:
		m, err := encodeMatch(field(path, "match"), c.Match)
		if err != nil {
			return nil, err
		}
		out.Match = m
	case c.Range != nil:
		out.Range = &qdrant.Range{Lt: c.Range.Lt, Gt: c.Range.Gt, Gte: c.Range.Gte, Lte: c.Range.Lte}
	default:
		switch g := c.Geo.(type) {
		case vectordb.GeoRadius:
			out.GeoRadius = &qdrant.GeoRadius{Center: encodeGeoPoint(g.Center), Radius: g.Radius}
		case vectordb.GeoBoundingBox:
			out.GeoBoundingBox = &qdrant.GeoBoundingBox{
				TopLeft:     encodeGeoPoint(g.TopLeft),
				BottomRight: encodeGeoPoint(g.BottomRight),
			}
		default:
			return nil, vectordb.TypeMismatch(field(path, "geo"), "unsupported geo condition %T", c.Geo)
		}
	}
	return out, nil
}

func decodeFieldCondition(path string, w *qdrant.FieldCondition) (vectordb.Condition, error) {
	if w == nil {
		return nil, vectordb.DataCorrupted(path, "field condition is missing")
	}
	out := vectordb.FieldCondition{Key: w.GetKey()}
	set := 0
	if w.GetMatch() != nil {
		m, err := decodeMatch(field(path, "match"), w.GetMatch())
		if err != nil {
			return nil, err
		}
		out.Match = m
		set++
	}
	if r := w.GetRange(); r != nil {
		out.Range = &vectordb.Range{Lt: r.Lt, Gt: r.Gt, Gte: r.Gte, Lte: r.Lte}
		set++
	}
	if g := w.GetGeoRadius(); g != nil {
		center, err := decodeGeoPoint(field(path, "geo_radius.center"), g.GetCenter())
		if err != nil {
			return nil, err
		}
		out.Geo = vectordb.GeoRadius{Center: center, Radius: g.GetRadius()}
		set++
	}
	if g := w.GetGeoBoundingBox(); g != nil {
		tl, err := decodeGeoPoint(field(path, "geo_bounding_box.top_left"), g.GetTopLeft())
		if err != nil {
			return nil, err
		}
		br, err := decodeGeoPoint(field(path, "geo_bounding_box.bottom_right"), g.GetBottomRight())
		if err != nil {
			return nil, err
		}
		out.Geo = vectordb.GeoBoundingBox{TopLeft: tl, BottomRight: br}
		set++
	}
	switch {
	case set == 1:
		return out, nil
	case set > 1:
		return nil, vectordb.DataCorrupted(path, "field condition on %q sets %d tests", w.GetKey(), set)
	default:
		return nil, vectordb.TypeMismatch(path, "field condition on %q uses an unsupported test", w.GetKey())
	}
}

func encodeGeoPoint(p vectordb.GeoPoint) *qdrant.GeoPoint {
	return &qdrant.GeoPoint{Lon: p.Lon, Lat: p.Lat}
}

func decodeGeoPoint(path string, w *qdrant.GeoPoint) (vectordb.GeoPoint, error) {
	if w == nil {
		return vectordb.GeoPoint{}, vectordb.DataCorrupted(path, "geo point is missing")
	}
	return vectordb.GeoPoint{Lon: w.GetLon(), Lat: w.GetLat()}, nil
}

// ── Match ────────────────────────────────────────────────────────────────────

func encodeMatch(path string, m vectordb.Match) (*qdrant.Match, error) {
	switch v := vectordb.NormalizeMatch(m).(type) {
	case vectordb.MatchKeyword:
		return &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: string(v)}}, nil
	case vectordb.MatchInteger:
		return &qdrant.Match{MatchValue: &qdrant.Match_Integer{Integer: int64(v)}}, nil
	case vectordb.MatchBool:
		return &qdrant.Match{MatchValue: &qdrant.Match_Boolean{Boolean: bool(v)}}, nil
	case vectordb.MatchText:
		return &qdrant.Match{MatchValue: &qdrant.Match_Text{Text: string(v)}}, nil
	case vectordb.MatchAnyKeywords:
		return &qdrant.Match{MatchValue: &qdrant.Match_Keywords{
			Keywords: &qdrant.RepeatedStrings{Strings: v},
		}}, nil
	case vectordb.MatchAnyIntegers:
		return &qdrant.Match{MatchValue: &qdrant.Match_Integers{
			Integers: &qdrant.RepeatedIntegers{Integers: v},
		}}, nil
	case vectordb.MatchExceptKeywords:
		return &qdrant.Match{MatchValue: &qdrant.Match_ExceptKeywords{
			ExceptKeywords: &qdrant.RepeatedStrings{Strings: v},
		}}, nil
	case vectordb.MatchExceptIntegers:
		return &qdrant.Match{MatchValue: &qdrant.Match_ExceptIntegers{
			ExceptIntegers: &qdrant.RepeatedIntegers{Integers: v},
		}}, nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported match %T", m)
	}
}

func decodeMatch(path string, w *qdrant.Match) (vectordb.Match, error) {
	m, err := decodeMatchValue(path, w)
	if err != nil {
		return nil, err
	}
	return vectordb.NormalizeMatch(m), nil
}

func decodeMatchValue(path string, w *qdrant.Match) (vectordb.Match, error) {
	switch v := w.GetMatchValue().(type) {
	case *qdrant.Match_Keyword:
		return vectordb.MatchKeyword(v.Keyword), nil
	case *qdrant.Match_Integer:
		return vectordb.MatchInteger(v.Integer), nil
	case *qdrant.Match_Boolean:
		return vectordb.MatchBool(v.Boolean), nil
	case *qdrant.Match_Text:
		return vectordb.MatchText(v.Text), nil
	case *qdrant.Match_Keywords:
		return vectordb.MatchAnyKeywords(v.Keywords.GetStrings()), nil
	case *qdrant.Match_Integers:
		return vectordb.MatchAnyIntegers(v.Integers.GetIntegers()), nil
	case *qdrant.Match_ExceptKeywords:
		return vectordb.MatchExceptKeywords(v.ExceptKeywords.GetStrings()), nil
	case *qdrant.Match_ExceptIntegers:
		return vectordb.MatchExceptIntegers(v.ExceptIntegers.GetIntegers()), nil
	case nil:
		return nil, vectordb.DataCorrupted(path, "match is empty")
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported match %T", v)
	}
}
