package vectordb

import "fmt"

// VectorData is the vector part of a point: a single dense vector or a set of
// named dense vectors. Implemented by Vector and NamedVectors.
type VectorData interface {
	isVectorData()
}

// Vector is a dense embedding.
type Vector []float32

// NamedVectors maps vector names to dense embeddings. The names must be
// configured on the collection; the server rejects unknown ones.
type NamedVectors map[string]Vector

func (Vector) isVectorData()       {}
func (NamedVectors) isVectorData() {}
func (Vector) isVectorInput()      {}

// ── Distance ─────────────────────────────────────────────────────────────────

// Distance is the similarity metric of a vector space.
type Distance int

const (
	DistanceUnknown Distance = iota
	Cosine
	Euclid
	Dot
	Manhattan
)

var distanceNames = [...]string{"Unknown", "Cosine", "Euclid", "Dot", "Manhattan"}

// String returns the request-body spelling ("Cosine").
func (d Distance) String() string {
	if d < 0 || int(d) >= len(distanceNames) {
		return fmt.Sprintf("Distance(%d)", int(d))
	}
	return distanceNames[d]
}

// SchemaName returns the field-schema spelling ("cosine").
func (d Distance) SchemaName() string {
	switch d {
	case Cosine:
		return "cosine"
	case Euclid:
		return "euclid"
	case Dot:
		return "dot"
	case Manhattan:
		return "manhattan"
	default:
		return "unknown"
	}
}

// ParseDistance parses the request-body spelling. Casing is significant.
func ParseDistance(s string) (Distance, bool) {
	for d := Cosine; d <= Manhattan; d++ {
		if distanceNames[d] == s {
			return d, true
		}
	}
	return DistanceUnknown, false
}

// ParseDistanceSchema parses the field-schema spelling.
func ParseDistanceSchema(s string) (Distance, bool) {
	for d := Cosine; d <= Manhattan; d++ {
		if d.SchemaName() == s {
			return d, true
		}
	}
	return DistanceUnknown, false
}

// MarshalText writes the field-schema spelling, so configuration files and
// structured logs show "cosine".
func (d Distance) MarshalText() ([]byte, error) {
	if _, ok := ParseDistanceSchema(d.SchemaName()); !ok {
		return nil, InvalidArgument("unknown distance %s", d)
	}
	return []byte(d.SchemaName()), nil
}

// UnmarshalText reads either spelling, "cosine" or "Cosine". It lets a
// Distance be set from yaml.v3 documents and envconfig variables.
func (d *Distance) UnmarshalText(text []byte) error {
	s := string(text)
	if v, ok := ParseDistanceSchema(s); ok {
		*d = v
		return nil
	}
	if v, ok := ParseDistance(s); ok {
		*d = v
		return nil
	}
	return InvalidArgument("unknown distance %q", s)
}

// ── Field index types ────────────────────────────────────────────────────────

// FieldType is the type of a payload field index.
type FieldType int

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeKeyword
	FieldTypeInteger
	FieldTypeFloat
	FieldTypeGeo
	FieldTypeText
	FieldTypeBool
	FieldTypeDatetime
	FieldTypeUUID
)

var fieldTypeNames = [...]string{"unknown", "keyword", "integer", "float", "geo", "text", "bool", "datetime", "uuid"}

// String returns the lowercase schema spelling.
func (t FieldType) String() string {
	if t < 0 || int(t) >= len(fieldTypeNames) {
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
	return fieldTypeNames[t]
}

// ParseFieldType parses the lowercase schema spelling.
func ParseFieldType(s string) (FieldType, bool) {
	for t := FieldTypeKeyword; t <= FieldTypeUUID; t++ {
		if fieldTypeNames[t] == s {
			return t, true
		}
	}
	return FieldTypeUnknown, false
}

// ── Collection vector configuration ──────────────────────────────────────────

// VectorsConfig describes the vector spaces of a collection.
// Implemented by VectorParams (single unnamed space) and NamedVectorParams.
type VectorsConfig interface {
	isVectorsConfig()
}

// VectorParams configures one vector space.
type VectorParams struct {
	Size     uint64
	Distance Distance
	OnDisk   *bool
}

// NamedVectorParams configures several named vector spaces.
type NamedVectorParams map[string]VectorParams

func (VectorParams) isVectorsConfig()      {}
func (NamedVectorParams) isVectorsConfig() {}

// ── Shard keys ───────────────────────────────────────────────────────────────

// ShardKey is a user-assigned partition key: a keyword or a number.
// Comparable.
type ShardKey struct {
	isNumber bool
	keyword  string
	number   uint64
}

func NewShardKeyword(k string) ShardKey { return ShardKey{keyword: k} }
func NewShardNumber(n uint64) ShardKey  { return ShardKey{isNumber: true, number: n} }

func (k ShardKey) IsNumber() bool  { return k.isNumber }
func (k ShardKey) Keyword() string { return k.keyword }
func (k ShardKey) Number() uint64  { return k.number }

func (k ShardKey) String() string {
	if k.isNumber {
		return fmt.Sprintf("%d", k.number)
	}
	return k.keyword
}

// ShardKeySelector restricts an operation to the listed shards.
type ShardKeySelector struct {
	Keys []ShardKey
}

// ── Group ids ────────────────────────────────────────────────────────────────

type groupIDKind uint8

const (
	groupIDUnsigned groupIDKind = iota
	groupIDInteger
	groupIDString
)

// GroupID identifies a result group: the value of the group-by field.
// Comparable.
type GroupID struct {
	kind     groupIDKind
	unsigned uint64
	integer  int64
	str      string
}

func NewGroupIDUnsigned(v uint64) GroupID { return GroupID{kind: groupIDUnsigned, unsigned: v} }
func NewGroupIDInteger(v int64) GroupID   { return GroupID{kind: groupIDInteger, integer: v} }
func NewGroupIDString(v string) GroupID   { return GroupID{kind: groupIDString, str: v} }

func (g GroupID) IsUnsigned() bool { return g.kind == groupIDUnsigned }
func (g GroupID) IsInteger() bool  { return g.kind == groupIDInteger }
func (g GroupID) IsString() bool   { return g.kind == groupIDString }

// Unsigned returns the unsigned value; valid when IsUnsigned.
func (g GroupID) Unsigned() uint64 { return g.unsigned }

// Integer returns the signed value; valid when IsInteger.
func (g GroupID) Integer() int64 { return g.integer }

// Str returns the string value; valid when IsString.
func (g GroupID) Str() string { return g.str }

func (g GroupID) String() string {
	switch g.kind {
	case groupIDInteger:
		return fmt.Sprintf("%d", g.integer)
	case groupIDString:
		return g.str
	default:
		return fmt.Sprintf("%d", g.unsigned)
	}
}
