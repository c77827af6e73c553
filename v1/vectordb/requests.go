package vectordb

// CreateCollectionRequest creates a collection.
type CreateCollectionRequest struct {
	Name              string
	Vectors           VectorsConfig
	ShardNumber       *uint32
	ReplicationFactor *uint32
	OnDiskPayload     *bool
}

// PointsSelector picks points either by id or by filter.
// When Filter is set the ids are ignored.
type PointsSelector struct {
	IDs    []PointID
	Filter *Filter
}

// SelectIDs selects points by id.
func SelectIDs(ids ...PointID) PointsSelector { return PointsSelector{IDs: ids} }

// SelectFilter selects every point matching f.
func SelectFilter(f Filter) PointsSelector { return PointsSelector{Filter: &f} }

type UpsertRequest struct {
	Collection string
	Points     []PointStruct
	Wait       *bool
	ShardKeys  *ShardKeySelector
}

type GetRequest struct {
	Collection  string
	IDs         []PointID
	WithPayload bool
	WithVectors bool
	ShardKeys   *ShardKeySelector
}

type DeleteRequest struct {
	Collection string
	Selector   PointsSelector
	Wait       *bool
	ShardKeys  *ShardKeySelector
}

// ScrollRequest reads one page of points. Paging further is the caller's
// job: pass the returned NextOffset as Offset.
type ScrollRequest struct {
	Collection  string
	Filter      *Filter
	Offset      *PointID
	Limit       *uint32
	WithPayload bool
	WithVectors bool
	ShardKeys   *ShardKeySelector
}

type CountRequest struct {
	Collection string
	Filter     *Filter
	Exact      *bool
	ShardKeys  *ShardKeySelector
}

// QueryRequest is a universal query: a single-stage or multi-stage retrieval.
type QueryRequest struct {
	Collection     string
	Prefetch       []PrefetchQuery
	Query          QueryInput
	Using          *string
	Filter         *Filter
	ScoreThreshold *float32
	Limit          *uint64
	Offset         *uint64
	WithPayload    bool
	WithVectors    bool
	ShardKeys      *ShardKeySelector
}

// QueryGroupsRequest is a universal query whose hits are grouped by the
// value of GroupBy. Limit bounds the number of groups, GroupSize the hits
// per group.
type QueryGroupsRequest struct {
	Collection     string
	Prefetch       []PrefetchQuery
	Query          QueryInput
	Using          *string
	Filter         *Filter
	ScoreThreshold *float32
	GroupBy        string
	Limit          *uint64
	GroupSize      *uint64
	WithPayload    bool
	WithVectors    bool
	ShardKeys      *ShardKeySelector
}

type FacetRequest struct {
	Collection string
	Key        string
	Filter     *Filter
	Limit      *uint64
	Exact      *bool
	ShardKeys  *ShardKeySelector
}

// MatrixRequest samples points and computes their pairwise distances.
type MatrixRequest struct {
	Collection string
	Filter     *Filter
	Sample     *uint64
	Limit      *uint64
	Using      *string
	ShardKeys  *ShardKeySelector
}

// SetPayloadRequest is used by both set (merge) and overwrite (replace).
// Key, when set, targets a nested object inside the payload.
type SetPayloadRequest struct {
	Collection string
	Payload    Payload
	Selector   PointsSelector
	Key        *string
	Wait       *bool
	ShardKeys  *ShardKeySelector
}

type DeletePayloadRequest struct {
	Collection string
	Keys       []string
	Selector   PointsSelector
	Wait       *bool
	ShardKeys  *ShardKeySelector
}

type ClearPayloadRequest struct {
	Collection string
	Selector   PointsSelector
	Wait       *bool
	ShardKeys  *ShardKeySelector
}

type UpdateVectorsRequest struct {
	Collection string
	Points     []PointVectors
	Wait       *bool
	ShardKeys  *ShardKeySelector
}

type DeleteVectorsRequest struct {
	Collection string
	Selector   PointsSelector
	Names      []string
	Wait       *bool
	ShardKeys  *ShardKeySelector
}

// FieldIndexRequest creates or deletes a payload field index.
// Type is ignored on delete.
type FieldIndexRequest struct {
	Collection string
	Field      string
	Type       FieldType
	Wait       *bool
}

// ── Batch update ─────────────────────────────────────────────────────────────

// UpdateOperation is one step of a batch update. Closed union.
type UpdateOperation interface {
	isUpdateOperation()
}

type UpsertOperation struct {
	Points    []PointStruct
	ShardKeys *ShardKeySelector
}

type DeletePointsOperation struct {
	Selector  PointsSelector
	ShardKeys *ShardKeySelector
}

type SetPayloadOperation struct {
	Payload   Payload
	Selector  PointsSelector
	Key       *string
	ShardKeys *ShardKeySelector
}

type OverwritePayloadOperation struct {
	Payload   Payload
	Selector  PointsSelector
	Key       *string
	ShardKeys *ShardKeySelector
}

type DeletePayloadOperation struct {
	Keys      []string
	Selector  PointsSelector
	ShardKeys *ShardKeySelector
}

type ClearPayloadOperation struct {
	Selector  PointsSelector
	ShardKeys *ShardKeySelector
}

func (UpsertOperation) isUpdateOperation()           {}
func (DeletePointsOperation) isUpdateOperation()     {}
func (SetPayloadOperation) isUpdateOperation()       {}
func (OverwritePayloadOperation) isUpdateOperation() {}
func (DeletePayloadOperation) isUpdateOperation()    {}
func (ClearPayloadOperation) isUpdateOperation()     {}

// UpdateBatchRequest applies several writes in one call. Results come back
// in operation order.
type UpdateBatchRequest struct {
	Collection string
	Operations []UpdateOperation
	Wait       *bool
}

// ── Classic search shapes ────────────────────────────────────────────────────

// SearchRequest is a plain nearest-neighbour search. It runs through the
// universal query endpoint.
type SearchRequest struct {
	Collection     string
	Vector         Vector
	Using          *string
	Filter         *Filter
	ScoreThreshold *float32
	Limit          uint64
	Offset         *uint64
	WithPayload    bool
	WithVectors    bool
	ShardKeys      *ShardKeySelector
}

// RecommendRequest searches by positive and negative examples.
type RecommendRequest struct {
	Collection     string
	Positive       []VectorInput
	Negative       []VectorInput
	Using          *string
	Filter         *Filter
	ScoreThreshold *float32
	Limit          uint64
	Offset         *uint64
	WithPayload    bool
	WithVectors    bool
	ShardKeys      *ShardKeySelector
}

// DiscoverRequest searches around Target constrained by context pairs.
type DiscoverRequest struct {
	Collection  string
	Target      VectorInput
	Context     []ContextPair
	Using       *string
	Filter      *Filter
	Limit       uint64
	Offset      *uint64
	WithPayload bool
	WithVectors bool
	ShardKeys   *ShardKeySelector
}

// Grouping turns a search into a grouped search: at most GroupSize hits per
// distinct value of GroupBy. The request Limit bounds the number of groups.
type Grouping struct {
	GroupBy   string
	GroupSize uint64
}

// ToQuery expresses the search as a universal query.
func (r SearchRequest) ToQuery() QueryRequest {
	return QueryRequest{
		Collection:     r.Collection,
		Query:          NearestQuery{Vector: r.Vector},
		Using:          r.Using,
		Filter:         r.Filter,
		ScoreThreshold: r.ScoreThreshold,
		Limit:          Ptr(r.Limit),
		Offset:         r.Offset,
		WithPayload:    r.WithPayload,
		WithVectors:    r.WithVectors,
		ShardKeys:      r.ShardKeys,
	}
}

// ToQuery expresses the recommendation as a universal query.
func (r RecommendRequest) ToQuery() QueryRequest {
	return QueryRequest{
		Collection:     r.Collection,
		Query:          RecommendQuery{Positive: r.Positive, Negative: r.Negative},
		Using:          r.Using,
		Filter:         r.Filter,
		ScoreThreshold: r.ScoreThreshold,
		Limit:          Ptr(r.Limit),
		Offset:         r.Offset,
		WithPayload:    r.WithPayload,
		WithVectors:    r.WithVectors,
		ShardKeys:      r.ShardKeys,
	}
}

// ToQuery expresses the discovery as a universal query.
func (r DiscoverRequest) ToQuery() QueryRequest {
	return QueryRequest{
		Collection:  r.Collection,
		Query:       DiscoverQuery{Target: r.Target, Context: r.Context},
		Using:       r.Using,
		Filter:      r.Filter,
		Limit:       Ptr(r.Limit),
		Offset:      r.Offset,
		WithPayload: r.WithPayload,
		WithVectors: r.WithVectors,
		ShardKeys:   r.ShardKeys,
	}
}

// Grouped turns a universal query into a grouped one. Offset has no
// meaning for groups and is dropped.
func (r QueryRequest) Grouped(g Grouping) QueryGroupsRequest {
	return QueryGroupsRequest{
		Collection:     r.Collection,
		Prefetch:       r.Prefetch,
		Query:          r.Query,
		Using:          r.Using,
		Filter:         r.Filter,
		ScoreThreshold: r.ScoreThreshold,
		GroupBy:        g.GroupBy,
		Limit:          r.Limit,
		GroupSize:      Ptr(g.GroupSize),
		WithPayload:    r.WithPayload,
		WithVectors:    r.WithVectors,
		ShardKeys:      r.ShardKeys,
	}
}
