package vectordb

import (
	"fmt"
	"time"
)

// PointStruct is a point as written by upsert.
type PointStruct struct {
	// ID is the unique identifier of the point
	ID PointID

	// Vectors is the dense vector or the set of named vectors
	Vectors VectorData

	// Payload is optional metadata stored with the vectors
	Payload Payload
}

// PointVectors replaces some or all vectors of an existing point.
type PointVectors struct {
	ID      PointID
	Vectors VectorData
}

// ScoredPoint is a query hit.
type ScoredPoint struct {
	// ID is the unique identifier of the matched point
	ID PointID

	// Version is the point's update version on the server
	Version uint64

	// Score is the similarity score (higher = more similar for cosine)
	Score float32

	// Payload is nil unless requested with WithPayload
	Payload Payload

	// Vectors is nil unless requested with WithVectors
	Vectors VectorData

	// ShardKey is set when the collection uses custom sharding
	ShardKey *ShardKey
}

// Record is a point returned by get and scroll.
type Record struct {
	ID       PointID
	Payload  Payload
	Vectors  VectorData
	ShardKey *ShardKey
}

// Group is one result group of a grouped query.
type Group struct {
	ID   GroupID
	Hits []ScoredPoint
}

// FacetHit is one distinct value of a faceted field with its point count.
// Value is a StringValue, IntegerValue or BoolValue.
type FacetHit struct {
	Value Value
	Count uint64
}

// MatrixPair is one entry of a pairwise distance matrix.
type MatrixPair struct {
	A     PointID
	B     PointID
	Score float32
}

// MatrixOffsets is a distance matrix in compressed sparse row form:
// Scores[i] is the distance between IDs[OffsetsRow[i]] and IDs[OffsetsCol[i]].
type MatrixOffsets struct {
	OffsetsRow []uint64
	OffsetsCol []uint64
	Scores     []float32
	IDs        []PointID
}

// ScrollPage is one page of a scroll. NextOffset is nil on the last page.
type ScrollPage struct {
	Points     []Record
	NextOffset *PointID
}

// ── Update status ────────────────────────────────────────────────────────────

// UpdateStatus is the state of a write operation on the server.
type UpdateStatus int

const (
	UpdateStatusUnknown UpdateStatus = iota
	UpdateStatusAcknowledged
	UpdateStatusCompleted
	UpdateStatusClockRejected
)

var updateStatusNames = [...]string{"unknown", "acknowledged", "completed", "clock_rejected"}

func (s UpdateStatus) String() string {
	if s < 0 || int(s) >= len(updateStatusNames) {
		return fmt.Sprintf("UpdateStatus(%d)", int(s))
	}
	return updateStatusNames[s]
}

// ParseUpdateStatus parses the snake_case spelling used in JSON responses.
func ParseUpdateStatus(s string) (UpdateStatus, bool) {
	for i, name := range updateStatusNames {
		if name == s {
			return UpdateStatus(i), true
		}
	}
	return UpdateStatusUnknown, false
}

// UpdateResult is the outcome of a write. OperationID is nil when the
// server did not assign one.
type UpdateResult struct {
	OperationID *uint64
	Status      UpdateStatus
}

// ── Collections ──────────────────────────────────────────────────────────────

// CollectionStatus is the optimizer health of a collection.
type CollectionStatus int

const (
	CollectionStatusUnknown CollectionStatus = iota
	CollectionStatusGreen
	CollectionStatusYellow
	CollectionStatusRed
	CollectionStatusGrey
)

var collectionStatusNames = [...]string{"unknown", "green", "yellow", "red", "grey"}

func (s CollectionStatus) String() string {
	if s < 0 || int(s) >= len(collectionStatusNames) {
		return fmt.Sprintf("CollectionStatus(%d)", int(s))
	}
	return collectionStatusNames[s]
}

// ParseCollectionStatus parses the lowercase spelling used in JSON responses.
func ParseCollectionStatus(s string) (CollectionStatus, bool) {
	for i, name := range collectionStatusNames {
		if name == s {
			return CollectionStatus(i), true
		}
	}
	return CollectionStatusUnknown, false
}

// PayloadSchemaInfo describes one indexed payload field.
type PayloadSchemaInfo struct {
	DataType FieldType
	Points   *uint64
}

// CollectionInfo contains metadata about a collection.
type CollectionInfo struct {
	Status              CollectionStatus
	PointsCount         *uint64
	IndexedVectorsCount *uint64
	SegmentsCount       uint64
	Vectors             VectorsConfig
	ShardNumber         uint32
	ReplicationFactor   *uint32
	OnDiskPayload       bool
	PayloadSchema       map[string]PayloadSchemaInfo
}

// ── Snapshots ────────────────────────────────────────────────────────────────

// SnapshotDescription describes a stored snapshot.
type SnapshotDescription struct {
	Name         string
	CreationTime *time.Time
	Size         int64
	Checksum     *string
}

// HealthInfo is the server identification returned by a health check.
type HealthInfo struct {
	Title   string
	Version string
}
