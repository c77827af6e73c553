package vectordb

// QueryInput is the retrieval strategy of a query or prefetch stage.
//
// Closed union: NearestQuery, NearestIDQuery, RecommendQuery, DiscoverQuery,
// ContextQuery, OrderByQuery, FusionQuery and SampleQuery.
type QueryInput interface {
	isQuery()
}

// VectorInput is a vector given either literally (Vector) or by reference
// to a stored point (PointID).
type VectorInput interface {
	isVectorInput()
}

// NearestQuery finds the points closest to a dense vector.
type NearestQuery struct {
	Vector Vector
}

// NearestIDQuery finds the points closest to a stored point's vector.
type NearestIDQuery struct {
	ID PointID
}

// RecommendQuery finds points close to the positives and far from the negatives.
type RecommendQuery struct {
	Positive []VectorInput
	Negative []VectorInput
}

// ContextPair is one positive/negative example pair for discovery.
type ContextPair struct {
	Positive VectorInput
	Negative VectorInput
}

// DiscoverQuery finds points close to Target while staying in the zones the
// context pairs prefer.
type DiscoverQuery struct {
	Target  VectorInput
	Context []ContextPair
}

// ContextQuery is discovery without a target: it only scores against the pairs.
type ContextQuery struct {
	Pairs []ContextPair
}

// OrderByQuery orders points by a payload field instead of similarity.
type OrderByQuery struct {
	Key       string
	Direction *Direction
}

// FusionQuery combines the results of the surrounding prefetch stages.
type FusionQuery struct {
	Fusion Fusion
}

// SampleQuery returns points sampled by the given strategy.
type SampleQuery struct {
	Sample Sample
}

func (NearestQuery) isQuery()   {}
func (NearestIDQuery) isQuery() {}
func (RecommendQuery) isQuery() {}
func (DiscoverQuery) isQuery()  {}
func (ContextQuery) isQuery()   {}
func (OrderByQuery) isQuery()   {}
func (FusionQuery) isQuery()    {}
func (SampleQuery) isQuery()    {}

// Direction is the ordering of an OrderByQuery.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// Fusion is a rank fusion method.
type Fusion int

const (
	// RRF is reciprocal rank fusion.
	RRF Fusion = iota
	// DBSF is distribution-based score fusion.
	DBSF
)

func (f Fusion) String() string {
	if f == DBSF {
		return "dbsf"
	}
	return "rrf"
}

// Sample is a sampling strategy.
type Sample int

const (
	SampleRandom Sample = iota
)

func (Sample) String() string { return "random" }

// PrefetchQuery is one stage of a multi-stage query.
//
// A stage with no nested Prefetch and a Query is a leaf retrieval. A stage with
// nested Prefetch typically carries a FusionQuery that merges its children.
// Stages form a tree built top-down by the caller; there are no back-references.
//
//	vectordb.PrefetchQuery{
//	    Prefetch: []vectordb.PrefetchQuery{
//	        {Query: vectordb.NewQueryNearest(dense...), Using: vectordb.Ptr("dense"), Limit: vectordb.Ptr[uint64](50)},
//	        {Query: vectordb.NewQueryNearest(title...), Using: vectordb.Ptr("title"), Limit: vectordb.Ptr[uint64](50)},
//	    },
//	    Query: vectordb.NewQueryFusion(vectordb.RRF),
//	}
type PrefetchQuery struct {
	Prefetch       []PrefetchQuery
	Query          QueryInput
	Using          *string
	Filter         *Filter
	ScoreThreshold *float32
	Limit          *uint64
}

// Depth returns the number of stages on the longest path from this stage to a leaf.
func (p PrefetchQuery) Depth() int {
	deepest := 0
	for _, child := range p.Prefetch {
		if d := child.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
