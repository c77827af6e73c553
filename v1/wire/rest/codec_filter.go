package rest

import (
	"encoding/json"
	"strconv"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
)

// ── Filter Conversion ────────────────────────────────────────────────────────

// encodeFilter omits empty clauses, so Filter{} renders as {}.
func encodeFilter(path string, f vectordb.Filter) (object, error) {
	out := object{}
	for _, clause := range []struct {
		key        string
		conditions []vectordb.Condition
	}{
		{"must", f.Must},
		{"should", f.Should},
		{"must_not", f.MustNot},
	} {
		if len(clause.conditions) == 0 {
			continue
		}
		list, err := encodeConditions(field(path, clause.key), clause.conditions)
		if err != nil {
			return nil, err
		}
		out[clause.key] = list
	}
	return out, nil
}

func putFilter(path string, o object, f *vectordb.Filter) error {
	if f == nil {
		return nil
	}
	w, err := encodeFilter(field(path, "filter"), *f)
	if err != nil {
		return err
	}
	o["filter"] = w
	return nil
}

func decodeFilter(path string, v any) (vectordb.Filter, error) {
	o, err := asObject(path, v)
	if err != nil {
		return vectordb.Filter{}, err
	}
	if present(o, "min_should") {
		return vectordb.Filter{}, vectordb.TypeMismatch(field(path, "min_should"), "min_should is not supported")
	}
	must, err := decodeConditions(field(path, "must"), o["must"])
	if err != nil {
		return vectordb.Filter{}, err
	}
	should, err := decodeConditions(field(path, "should"), o["should"])
	if err != nil {
		return vectordb.Filter{}, err
	}
	mustNot, err := decodeConditions(field(path, "must_not"), o["must_not"])
	if err != nil {
		return vectordb.Filter{}, err
	}
	return vectordb.Filter{Must: must, Should: should, MustNot: mustNot}, nil
}

func decodeFilterPtr(path string, o object, key string) (*vectordb.Filter, error) {
	return optional(path, o, key, decodeFilter)
}

func encodeConditions(path string, cs []vectordb.Condition) ([]any, error) {
	out := make([]any, len(cs))
	for i, c := range cs {
		w, err := encodeCondition(index(path, i), c)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

// decodeConditions accepts a list or a single condition object.
func decodeConditions(path string, v any) ([]vectordb.Condition, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case object:
		c, err := decodeCondition(path, x)
		if err != nil {
			return nil, err
		}
		return []vectordb.Condition{c}, nil
	}
	items, err := asArray(path, v)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]vectordb.Condition, len(items))
	for i, item := range items {
		c, err := decodeCondition(index(path, i), item)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// ── Conditions ───────────────────────────────────────────────────────────────

// encodeCondition writes a nested filter inline, the way the server expects
// it inside a clause.
func encodeCondition(path string, c vectordb.Condition) (object, error) {
	switch cond := c.(type) {
	case vectordb.FieldCondition:
		return encodeFieldCondition(path, cond)
	case vectordb.IsEmptyCondition:
		return object{"is_empty": object{"key": cond.Key}}, nil
	case vectordb.IsNullCondition:
		return object{"is_null": object{"key": cond.Key}}, nil
	case vectordb.HasIDCondition:
		return object{"has_id": encodePointIDs(cond.IDs)}, nil
	case vectordb.Filter:
		return encodeFilter(path, cond)
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported condition %T", c)
	}
}

var filterKeys = map[string]bool{"must": true, "should": true, "must_not": true, "min_should": true}

// decodeCondition identifies the variant by key presence, in order:
// filter, has_id, is_empty, is_null, key (field condition). An object made
// only of filter clauses is an inline nested filter.
func decodeCondition(path string, v any) (vectordb.Condition, error) {
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	switch {
	case present(o, "filter"):
		f, err := decodeFilter(field(path, "filter"), o["filter"])
		if err != nil {
			return nil, err
		}
		return vectordb.NewNestedFilter(f), nil
	case present(o, "has_id"):
		ids, err := decodePointIDs(field(path, "has_id"), o["has_id"])
		if err != nil {
			return nil, err
		}
		return vectordb.HasIDCondition{IDs: ids}, nil
	case present(o, "is_empty"):
		key, err := decodeKeyOf(field(path, "is_empty"), o["is_empty"])
		if err != nil {
			return nil, err
		}
		return vectordb.IsEmptyCondition{Key: key}, nil
	case present(o, "is_null"):
		key, err := decodeKeyOf(field(path, "is_null"), o["is_null"])
		if err != nil {
			return nil, err
		}
		return vectordb.IsNullCondition{Key: key}, nil
	case present(o, "key"):
		return decodeFieldCondition(path, o)
	case present(o, "nested"), present(o, "has_vector"):
		return nil, vectordb.TypeMismatch(path, "nested and has_vector conditions are not supported")
	}
	for key := range o {
		if !filterKeys[key] {
			return nil, vectordb.TypeMismatch(path, "unrecognised condition with key %q", key)
		}
	}
	f, err := decodeFilter(path, o)
	if err != nil {
		return nil, err
	}
	return vectordb.NewNestedFilter(f), nil
}

func decodeKeyOf(path string, v any) (string, error) {
	o, err := asObject(path, v)
	if err != nil {
		return "", err
	}
	return required(path, o, "key", asString)
}

func encodeFieldCondition(path string, c vectordb.FieldCondition) (object, error) {
	set := 0
	for _, ok := range []bool{c.Match != nil, c.Range != nil, c.Geo != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, vectordb.InvalidArgument("%s: field condition on %q must set exactly one of match, range, geo (has %d)", path, c.Key, set)
	}

	out := object{"key": c.Key}
	switch {
	case c.Match != nil:
		m, err := encodeMatch(field(path, "match"), c.Match)
		if err != nil {
			return nil, err
		}
		out["match"] = m
	case c.Range != nil:
		r := object{}
		putOpt(r, "lt", c.Range.Lt)
		putOpt(r, "gt", c.Range.Gt)
		putOpt(r, "gte", c.Range.Gte)
		putOpt(r, "lte", c.Range.Lte)
		out["range"] = r
	default:
		switch g := c.Geo.(type) {
		case vectordb.GeoRadius:
			out["geo_radius"] = object{"center": encodeGeoPoint(g.Center), "radius": g.Radius}
		case vectordb.GeoBoundingBox:
			out["geo_bounding_box"] = object{
				"top_left":     encodeGeoPoint(g.TopLeft),
				"bottom_right": encodeGeoPoint(g.BottomRight),
			}
		default:
			return nil, vectordb.TypeMismatch(field(path, "geo"), "unsupported geo condition %T", c.Geo)
		}
	}
	return out, nil
}

func decodeFieldCondition(path string, o object) (vectordb.Condition, error) {
	key, err := asString(field(path, "key"), o["key"])
	if err != nil {
		return nil, err
	}
	out := vectordb.FieldCondition{Key: key}
	set := 0
	if present(o, "match") {
		m, err := decodeMatch(field(path, "match"), o["match"])
		if err != nil {
			return nil, err
		}
		out.Match = m
		set++
	}
	if present(o, "range") {
		r, err := decodeRange(field(path, "range"), o["range"])
		if err != nil {
			return nil, err
		}
		out.Range = &r
		set++
	}
	if present(o, "geo_radius") {
		g, err := decodeGeoRadius(field(path, "geo_radius"), o["geo_radius"])
		if err != nil {
			return nil, err
		}
		out.Geo = g
		set++
	}
	if present(o, "geo_bounding_box") {
		g, err := decodeGeoBoundingBox(field(path, "geo_bounding_box"), o["geo_bounding_box"])
		if err != nil {
			return nil, err
		}
		out.Geo = g
		set++
	}
	switch {
	case set == 1:
		return out, nil
	case set > 1:
		return nil, vectordb.DataCorrupted(path, "field condition on %q sets %d tests", key, set)
	default:
		return nil, vectordb.TypeMismatch(path, "field condition on %q uses an unsupported test", key)
	}
}

func decodeRange(path string, v any) (vectordb.Range, error) {
	o, err := asObject(path, v)
	if err != nil {
		return vectordb.Range{}, err
	}
	var r vectordb.Range
	for _, bound := range []struct {
		key string
		dst **float64
	}{
		{"lt", &r.Lt},
		{"gt", &r.Gt},
		{"gte", &r.Gte},
		{"lte", &r.Lte},
	} {
		f, err := optional(path, o, bound.key, asFloat64)
		if err != nil {
			return vectordb.Range{}, err
		}
		*bound.dst = f
	}
	return r, nil
}

// ── Geo ──────────────────────────────────────────────────────────────────────

func encodeGeoPoint(p vectordb.GeoPoint) object {
	return object{"lon": p.Lon, "lat": p.Lat}
}

func decodeGeoPoint(path string, v any) (vectordb.GeoPoint, error) {
	o, err := asObject(path, v)
	if err != nil {
		return vectordb.GeoPoint{}, err
	}
	lon, err := required(path, o, "lon", asFloat64)
	if err != nil {
		return vectordb.GeoPoint{}, err
	}
	lat, err := required(path, o, "lat", asFloat64)
	if err != nil {
		return vectordb.GeoPoint{}, err
	}
	return vectordb.GeoPoint{Lon: lon, Lat: lat}, nil
}

func decodeGeoRadius(path string, v any) (vectordb.GeoRadius, error) {
	o, err := asObject(path, v)
	if err != nil {
		return vectordb.GeoRadius{}, err
	}
	center, err := required(path, o, "center", decodeGeoPoint)
	if err != nil {
		return vectordb.GeoRadius{}, err
	}
	radius, err := required(path, o, "radius", asFloat32)
	if err != nil {
		return vectordb.GeoRadius{}, err
	}
	return vectordb.GeoRadius{Center: center, Radius: radius}, nil
}

func decodeGeoBoundingBox(path string, v any) (vectordb.GeoBoundingBox, error) {
	o, err := asObject(path, v)
	if err != nil {
		return vectordb.GeoBoundingBox{}, err
	}
	tl, err := required(path, o, "top_left", decodeGeoPoint)
	if err != nil {
		return vectordb.GeoBoundingBox{}, err
	}
	br, err := required(path, o, "bottom_right", decodeGeoPoint)
	if err != nil {
		return vectordb.GeoBoundingBox{}, err
	}
	return vectordb.GeoBoundingBox{TopLeft: tl, BottomRight: br}, nil
}

// ── Match ────────────────────────────────────────────────────────────────────

func encodeMatch(path string, m vectordb.Match) (object, error) {
	switch v := vectordb.NormalizeMatch(m).(type) {
	case vectordb.MatchKeyword:
		return object{"value": string(v)}, nil
	case vectordb.MatchInteger:
		return object{"value": int64(v)}, nil
	case vectordb.MatchBool:
		return object{"value": bool(v)}, nil
	case vectordb.MatchText:
		return object{"text": string(v)}, nil
	case vectordb.MatchAnyKeywords:
		return object{"any": stringsOrEmpty(v)}, nil
	case vectordb.MatchAnyIntegers:
		return object{"any": []int64(v)}, nil
	case vectordb.MatchExceptKeywords:
		return object{"except": stringsOrEmpty(v)}, nil
	case vectordb.MatchExceptIntegers:
		return object{"except": []int64(v)}, nil
	default:
		return nil, vectordb.TypeMismatch(path, "unsupported match %T", m)
	}
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// decodeMatch tries, in order: text, any as strings, any as integers,
// except as strings, except as integers, then a scalar value. An empty
// list reads as strings, the form vectordb.NormalizeMatch produces.
func decodeMatch(path string, v any) (vectordb.Match, error) {
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	if present(o, "text") {
		s, err := asString(field(path, "text"), o["text"])
		if err != nil {
			return nil, err
		}
		return vectordb.MatchText(s), nil
	}
	if present(o, "any") {
		if s, ok := stringList(o["any"]); ok {
			return vectordb.MatchAnyKeywords(nilIfEmpty(s)), nil
		}
		if n, ok := intList(o["any"]); ok {
			return vectordb.MatchAnyIntegers(n), nil
		}
		return nil, vectordb.TypeMismatch(field(path, "any"), "expected list of strings or integers")
	}
	if present(o, "except") {
		if s, ok := stringList(o["except"]); ok {
			return vectordb.MatchExceptKeywords(nilIfEmpty(s)), nil
		}
		if n, ok := intList(o["except"]); ok {
			return vectordb.MatchExceptIntegers(n), nil
		}
		return nil, vectordb.TypeMismatch(field(path, "except"), "expected list of strings or integers")
	}
	if present(o, "value") {
		p := field(path, "value")
		switch x := o["value"].(type) {
		case string:
			return vectordb.MatchKeyword(x), nil
		case bool:
			return vectordb.MatchBool(x), nil
		case json.Number:
			i, err := asInt64(p, x)
			if err != nil {
				return nil, err
			}
			return vectordb.MatchInteger(i), nil
		default:
			return nil, vectordb.TypeMismatch(p, "expected keyword, integer or bool, got %s", kindOf(x))
		}
	}
	return nil, vectordb.TypeMismatch(path, "unsupported match")
}

func stringList(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}

func intList(v any) ([]int64, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]int64, len(items))
	for i, item := range items {
		n, ok := item.(json.Number)
		if !ok || !isIntegerLiteral(n) {
			return nil, false
		}
		parsed, err := strconv.ParseInt(string(n), 10, 64)
		if err != nil {
			return nil, false
		}
		out[i] = parsed
	}
	return out, true
}
