package vectordb

import "context"

// Codec maps a domain value to and from one wire representation.
//
// Each protocol package provides its own codecs; they never share code, so
// each protocol's quirks (enum casing, optional fields, oneof wrappers) stay
// local to it. For every constructible value x, Decode(Encode(x)) equals x.
type Codec[T, W any] interface {
	Encode(T) (W, error)
	Decode(W) (T, error)
}

// Service is the set of operations every protocol backend implements.
//
// Implementations translate the request into their wire protocol, perform
// exactly one round trip, and decode the response. Failures are always
// *Error values. Batch operations are one wire call; result i belongs to
// request i.
//
// Example usage:
//
//	func NewSearchService(db vectordb.Service) *SearchService {
//	    return &SearchService{db: db}
//	}
//
//	// Works with any implementation:
//	// - rpc.NewBackend(conn)
//	// - rest.NewBackend(transport)
//	// - qdrant.NewClient(cfg)
type Service interface {
	// Collections
	CreateCollection(ctx context.Context, req CreateCollectionRequest) error
	GetCollection(ctx context.Context, name string) (*CollectionInfo, error)
	ListCollections(ctx context.Context) ([]string, error)
	DeleteCollection(ctx context.Context, name string) error
	CollectionExists(ctx context.Context, name string) (bool, error)

	// Points
	Upsert(ctx context.Context, req UpsertRequest) (*UpdateResult, error)
	Get(ctx context.Context, req GetRequest) ([]Record, error)
	Delete(ctx context.Context, req DeleteRequest) (*UpdateResult, error)
	Scroll(ctx context.Context, req ScrollRequest) (*ScrollPage, error)
	Count(ctx context.Context, req CountRequest) (uint64, error)

	// Query performs a universal query.
	Query(ctx context.Context, req QueryRequest) ([]ScoredPoint, error)

	// QueryBatch sends all requests in one call. Every request must target
	// the same collection. Returns one result slice per request, in order.
	//
	// Example:
	//   results, err := db.QueryBatch(ctx,
	//       QueryRequest{Collection: "docs", Query: NewQueryNearest(vec1...), Limit: Ptr[uint64](10)},
	//       QueryRequest{Collection: "docs", Query: NewQueryNearest(vec2...), Limit: Ptr[uint64](5)},
	//   )
	QueryBatch(ctx context.Context, reqs ...QueryRequest) ([][]ScoredPoint, error)

	QueryGroups(ctx context.Context, req QueryGroupsRequest) ([]Group, error)
	Facet(ctx context.Context, req FacetRequest) ([]FacetHit, error)
	MatrixPairs(ctx context.Context, req MatrixRequest) ([]MatrixPair, error)
	MatrixOffsets(ctx context.Context, req MatrixRequest) (*MatrixOffsets, error)

	// Payload
	SetPayload(ctx context.Context, req SetPayloadRequest) (*UpdateResult, error)
	OverwritePayload(ctx context.Context, req SetPayloadRequest) (*UpdateResult, error)
	DeletePayload(ctx context.Context, req DeletePayloadRequest) (*UpdateResult, error)
	ClearPayload(ctx context.Context, req ClearPayloadRequest) (*UpdateResult, error)

	// Vectors
	UpdateVectors(ctx context.Context, req UpdateVectorsRequest) (*UpdateResult, error)
	DeleteVectors(ctx context.Context, req DeleteVectorsRequest) (*UpdateResult, error)

	// Indexes
	CreateFieldIndex(ctx context.Context, req FieldIndexRequest) (*UpdateResult, error)
	DeleteFieldIndex(ctx context.Context, req FieldIndexRequest) (*UpdateResult, error)

	// UpdateBatch applies the operations in order; one result per operation.
	UpdateBatch(ctx context.Context, req UpdateBatchRequest) ([]UpdateResult, error)

	// Snapshots
	CreateSnapshot(ctx context.Context, collection string) (*SnapshotDescription, error)
	ListSnapshots(ctx context.Context, collection string) ([]SnapshotDescription, error)
	DeleteSnapshot(ctx context.Context, collection, name string) error
	CreateFullSnapshot(ctx context.Context) (*SnapshotDescription, error)
	ListFullSnapshots(ctx context.Context) ([]SnapshotDescription, error)
	DeleteFullSnapshot(ctx context.Context, name string) error
}

// BatchCollection returns the collection shared by all requests, or an
// InvalidArgument error when they disagree.
func BatchCollection(reqs []QueryRequest) (string, error) {
	if len(reqs) == 0 {
		return "", InvalidArgument("empty query batch")
	}
	name := reqs[0].Collection
	for i, r := range reqs[1:] {
		if r.Collection != name {
			return "", InvalidArgument("query batch mixes collections %q and %q at index %d", name, r.Collection, i+1)
		}
	}
	return name, nil
}
