package vectordb

// Filter restricts which points an operation considers.
//
// Must: all conditions match (AND). Should: at least one matches (OR).
// MustNot: none match (NOT). Empty clauses are omitted on the wire, so a nil
// and an empty slice are equivalent; decoders always produce nil.
//
// A Filter is itself a Condition, which nests filters to any depth:
//
//	f := vectordb.Filter{
//	    Must: []vectordb.Condition{
//	        vectordb.NewMatchKeyword("city", "London"),
//	        vectordb.Filter{Should: []vectordb.Condition{
//	            vectordb.NewRange("price", vectordb.Range{Lt: vectordb.Ptr(100.0)}),
//	            vectordb.NewIsNull("price"),
//	        }},
//	    },
//	}
type Filter struct {
	Must    []Condition
	Should  []Condition
	MustNot []Condition
}

// IsEmpty reports whether the filter has no conditions at all.
func (f Filter) IsEmpty() bool {
	return len(f.Must) == 0 && len(f.Should) == 0 && len(f.MustNot) == 0
}

// Condition is one clause of a Filter. It is a closed union implemented by
// FieldCondition, IsEmptyCondition, IsNullCondition, HasIDCondition and Filter.
type Condition interface {
	isCondition()
}

// FieldCondition tests one payload field. Exactly one of Match, Range and Geo
// is set; the constructors guarantee it.
type FieldCondition struct {
	Key   string
	Match Match
	Range *Range
	Geo   GeoCondition
}

// IsEmptyCondition matches points whose field is missing, null or [].
type IsEmptyCondition struct {
	Key string
}

// IsNullCondition matches points whose field is explicitly null.
type IsNullCondition struct {
	Key string
}

// HasIDCondition matches points with one of the given ids.
type HasIDCondition struct {
	IDs []PointID
}

func (FieldCondition) isCondition()   {}
func (IsEmptyCondition) isCondition() {}
func (IsNullCondition) isCondition()  {}
func (HasIDCondition) isCondition()   {}
func (Filter) isCondition()           {}

// ── Match ────────────────────────────────────────────────────────────────────

// Match is the value test of a FieldCondition. Closed union of the Match* types.
type Match interface {
	isMatch()
}

type (
	// MatchKeyword is exact string equality.
	MatchKeyword string
	// MatchInteger is exact integer equality.
	MatchInteger int64
	// MatchBool is exact boolean equality.
	MatchBool bool
	// MatchText is full-text match on an indexed text field.
	MatchText string
	// MatchAnyKeywords matches if the field equals any of the keywords (IN).
	MatchAnyKeywords []string
	// MatchAnyIntegers matches if the field equals any of the integers (IN).
	// An empty list has no element type on the wire; NormalizeMatch turns
	// it into an empty MatchAnyKeywords.
	MatchAnyIntegers []int64
	// MatchExceptKeywords matches if the field equals none of the keywords (NOT IN).
	MatchExceptKeywords []string
	// MatchExceptIntegers matches if the field equals none of the integers (NOT IN).
	MatchExceptIntegers []int64
)

func (MatchKeyword) isMatch()        {}
func (MatchInteger) isMatch()        {}
func (MatchBool) isMatch()           {}
func (MatchText) isMatch()           {}
func (MatchAnyKeywords) isMatch()    {}
func (MatchAnyIntegers) isMatch()    {}
func (MatchExceptKeywords) isMatch() {}
func (MatchExceptIntegers) isMatch() {}

// NormalizeMatch returns the canonical form of m: empty any/except lists
// become the keyword variant with a nil slice. Both codecs apply it on
// encode and decode.
func NormalizeMatch(m Match) Match {
	switch v := m.(type) {
	case MatchAnyKeywords:
		if len(v) == 0 {
			return MatchAnyKeywords(nil)
		}
	case MatchAnyIntegers:
		if len(v) == 0 {
			return MatchAnyKeywords(nil)
		}
	case MatchExceptKeywords:
		if len(v) == 0 {
			return MatchExceptKeywords(nil)
		}
	case MatchExceptIntegers:
		if len(v) == 0 {
			return MatchExceptKeywords(nil)
		}
	}
	return m
}

// ── Range ────────────────────────────────────────────────────────────────────

// Range bounds a numeric field. Nil bounds are open. Bounds are not
// validated client-side.
type Range struct {
	Lt  *float64
	Gt  *float64
	Gte *float64
	Lte *float64
}

// ── Geo ──────────────────────────────────────────────────────────────────────

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lon float64
	Lat float64
}

// GeoCondition is a geographic test. Implemented by GeoRadius and GeoBoundingBox.
type GeoCondition interface {
	isGeoCondition()
}

// GeoRadius matches points within Radius meters of Center.
type GeoRadius struct {
	Center GeoPoint
	Radius float32
}

// GeoBoundingBox matches points inside the rectangle.
type GeoBoundingBox struct {
	TopLeft     GeoPoint
	BottomRight GeoPoint
}

func (GeoRadius) isGeoCondition()      {}
func (GeoBoundingBox) isGeoCondition() {}
