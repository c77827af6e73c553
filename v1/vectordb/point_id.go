package vectordb

import (
	"strconv"

	"github.com/google/uuid"
)

type pointIDKind uint8

const (
	pointIDNum pointIDKind = iota
	pointIDUUID
)

// PointID addresses a point: either an unsigned integer or a UUID string.
//
// PointID is comparable and can be used as a map key. Equality is by
// variant and value, so NewIDNum(1) and a UUID never collide.
// The zero value is the numeric id 0.
type PointID struct {
	kind pointIDKind
	num  uint64
	uuid string
}

// NewIDNum returns a numeric point id.
func NewIDNum(n uint64) PointID {
	return PointID{kind: pointIDNum, num: n}
}

// NewIDUUID returns a UUID point id. The string must parse as a UUID;
// it is kept exactly as given.
func NewIDUUID(s string) (PointID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return PointID{}, InvalidArgument("point id %q is not a valid UUID: %v", s, err)
	}
	return PointID{kind: pointIDUUID, uuid: s}, nil
}

// MustIDUUID is like NewIDUUID but panics on an invalid UUID.
func MustIDUUID(s string) PointID {
	id, err := NewIDUUID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// NewRandomID returns a fresh random (v4) UUID point id.
func NewRandomID() PointID {
	return PointID{kind: pointIDUUID, uuid: uuid.NewString()}
}

// IsNum reports whether the id is the numeric variant.
func (id PointID) IsNum() bool { return id.kind == pointIDNum }

// IsUUID reports whether the id is the UUID variant.
func (id PointID) IsUUID() bool { return id.kind == pointIDUUID }

// Num returns the numeric value; zero for UUID ids.
func (id PointID) Num() uint64 { return id.num }

// UUID returns the UUID string; empty for numeric ids.
func (id PointID) UUID() string { return id.uuid }

func (id PointID) String() string {
	if id.kind == pointIDUUID {
		return id.uuid
	}
	return strconv.FormatUint(id.num, 10)
}

func (PointID) isVectorInput() {}
