package vectordb

// ── Filter builders ──────────────────────────────────────────────────────────

// NewFilter returns a filter whose conditions must all match.
func NewFilter(conditions ...Condition) *Filter {
	return &Filter{Must: conditions}
}

// Must returns a filter with a single AND clause.
func Must(conditions ...Condition) Filter { return Filter{Must: conditions} }

// Should returns a filter with a single OR clause.
func Should(conditions ...Condition) Filter { return Filter{Should: conditions} }

// MustNot returns a filter with a single NOT clause.
func MustNot(conditions ...Condition) Filter { return Filter{MustNot: conditions} }

// NewNestedFilter uses f as a condition of an outer filter. Both codecs
// decode nested filters through it.
func NewNestedFilter(f Filter) Condition { return f }

// ── Condition builders ───────────────────────────────────────────────────────

func NewMatchKeyword(key, value string) FieldCondition {
	return FieldCondition{Key: key, Match: MatchKeyword(value)}
}

func NewMatchInt(key string, value int64) FieldCondition {
	return FieldCondition{Key: key, Match: MatchInteger(value)}
}

func NewMatchBool(key string, value bool) FieldCondition {
	return FieldCondition{Key: key, Match: MatchBool(value)}
}

func NewMatchText(key, text string) FieldCondition {
	return FieldCondition{Key: key, Match: MatchText(text)}
}

// NewMatchAnyInts and the other list matchers normalize an empty list, see NormalizeMatch.
func NewMatchAnyKeywords(key string, values ...string) FieldCondition {
	return FieldCondition{Key: key, Match: NormalizeMatch(MatchAnyKeywords(values))}
}

func NewMatchAnyInts(key string, values ...int64) FieldCondition {
	return FieldCondition{Key: key, Match: NormalizeMatch(MatchAnyIntegers(values))}
}

func NewMatchExceptKeywords(key string, values ...string) FieldCondition {
	return FieldCondition{Key: key, Match: NormalizeMatch(MatchExceptKeywords(values))}
}

func NewMatchExceptInts(key string, values ...int64) FieldCondition {
	return FieldCondition{Key: key, Match: NormalizeMatch(MatchExceptIntegers(values))}
}

// NewRange builds a numeric range condition.
//
//	vectordb.NewRange("price", vectordb.Range{Gte: vectordb.Ptr(10.0), Lt: vectordb.Ptr(20.0)})
func NewRange(key string, r Range) FieldCondition {
	return FieldCondition{Key: key, Range: &r}
}

func NewGeoRadius(key string, center GeoPoint, radius float32) FieldCondition {
	return FieldCondition{Key: key, Geo: GeoRadius{Center: center, Radius: radius}}
}

func NewGeoBoundingBox(key string, topLeft, bottomRight GeoPoint) FieldCondition {
	return FieldCondition{Key: key, Geo: GeoBoundingBox{TopLeft: topLeft, BottomRight: bottomRight}}
}

func NewIsEmpty(key string) IsEmptyCondition { return IsEmptyCondition{Key: key} }

func NewIsNull(key string) IsNullCondition { return IsNullCondition{Key: key} }

func NewHasID(ids ...PointID) HasIDCondition { return HasIDCondition{IDs: ids} }

// ── Query builders ───────────────────────────────────────────────────────────

// NewQueryNearest is a nearest-neighbour query by dense vector.
func NewQueryNearest(v ...float32) NearestQuery { return NearestQuery{Vector: Vector(v)} }

// NewQueryNearestID is a nearest-neighbour query seeded by a stored point.
func NewQueryNearestID(id PointID) NearestIDQuery { return NearestIDQuery{ID: id} }

// NewQueryFusion combines prefetch results.
func NewQueryFusion(f Fusion) FusionQuery { return FusionQuery{Fusion: f} }

// NewQueryOrderBy orders points by a payload field.
func NewQueryOrderBy(key string, dir Direction) OrderByQuery {
	return OrderByQuery{Key: key, Direction: &dir}
}

// Ptr returns a pointer to v. Handy for optional request fields.
func Ptr[T any](v T) *T { return &v }
