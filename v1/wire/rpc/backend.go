package rpc

import (
	"context"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
	qdrant "github.com/qdrant/go-client/qdrant"
)

// Clients hands out the generated gRPC service clients. *qdrant.Client
// implements it and rotates through its connection pool on every call.
type Clients interface {
	GetPointsClient() qdrant.PointsClient
	GetCollectionsClient() qdrant.CollectionsClient
	GetSnapshotsClient() qdrant.SnapshotsClient
	GetQdrantClient() qdrant.QdrantClient
}

// Backend implements vectordb.Service over the generated gRPC service clients.
//
// Every method encodes the request, performs exactly one call and decodes the
// response. Transport failures are classified with ClassifyError; codec
// failures are returned as they are.
type Backend struct {
	clients Clients
	closer  func() error
}

var _ vectordb.Service = (*Backend)(nil)

// NewBackend wraps a connected go-client. Close releases the connection pool.
func NewBackend(client *qdrant.Client) *Backend {
	return &Backend{clients: client, closer: client.Close}
}

// NewBackendFromClients builds a backend from individual service clients.
// The caller keeps ownership of the underlying connection.
func NewBackendFromClients(
	points qdrant.PointsClient,
	collections qdrant.CollectionsClient,
	snapshots qdrant.SnapshotsClient,
	service qdrant.QdrantClient,
) *Backend {
	return &Backend{clients: fixedClients{points: points, collections: collections, snapshots: snapshots, service: service}}
}

type fixedClients struct {
	points      qdrant.PointsClient
	collections qdrant.CollectionsClient
	snapshots   qdrant.SnapshotsClient
	service     qdrant.QdrantClient
}

func (f fixedClients) GetPointsClient() qdrant.PointsClient           { return f.points }
func (f fixedClients) GetCollectionsClient() qdrant.CollectionsClient { return f.collections }
func (f fixedClients) GetSnapshotsClient() qdrant.SnapshotsClient     { return f.snapshots }
func (f fixedClients) GetQdrantClient() qdrant.QdrantClient           { return f.service }

// Health asks the server for its title and version.
func (b *Backend) Health(ctx context.Context) (*vectordb.HealthInfo, error) {
	resp, err := b.clients.GetQdrantClient().HealthCheck(ctx, &qdrant.HealthCheckRequest{})
	if err != nil {
		return nil, ClassifyError(err)
	}
	return &vectordb.HealthInfo{Title: resp.GetTitle(), Version: resp.GetVersion()}, nil
}

// Close releases the connection when the backend owns one.
func (b *Backend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer()
}

// ── Collections ──────────────────────────────────────────────────────────────

func (b *Backend) CreateCollection(ctx context.Context, req vectordb.CreateCollectionRequest) error {
	w, err := encodeCreateCollection(req)
	if err != nil {
		return err
	}
	_, err = b.clients.GetCollectionsClient().Create(ctx, w)
	return ClassifyError(err)
}

func (b *Backend) GetCollection(ctx context.Context, name string) (*vectordb.CollectionInfo, error) {
	resp, err := b.clients.GetCollectionsClient().Get(ctx, &qdrant.GetCollectionInfoRequest{CollectionName: name})
	if err != nil {
		return nil, ClassifyError(err)
	}
	return decodeCollectionInfo("result", resp.GetResult())
}

func (b *Backend) ListCollections(ctx context.Context) ([]string, error) {
	resp, err := b.clients.GetCollectionsClient().List(ctx, &qdrant.ListCollectionsRequest{})
	if err != nil {
		return nil, ClassifyError(err)
	}
	names := make([]string, 0, len(resp.GetCollections()))
	for _, c := range resp.GetCollections() {
		names = append(names, c.GetName())
	}
	return names, nil
}

func (b *Backend) DeleteCollection(ctx context.Context, name string) error {
	_, err := b.clients.GetCollectionsClient().Delete(ctx, &qdrant.DeleteCollection{CollectionName: name})
	return ClassifyError(err)
}

func (b *Backend) CollectionExists(ctx context.Context, name string) (bool, error) {
	resp, err := b.clients.GetCollectionsClient().CollectionExists(ctx, &qdrant.CollectionExistsRequest{CollectionName: name})
	if err != nil {
		return false, ClassifyError(err)
	}
	if resp.GetResult() == nil {
		return false, vectordb.DataCorrupted("result", "exists flag is missing")
	}
	return resp.GetResult().GetExists(), nil
}

// ── Points ───────────────────────────────────────────────────────────────────

// writeResult turns the response of any point write into an UpdateResult.
func writeResult(resp *qdrant.PointsOperationResponse, err error) (*vectordb.UpdateResult, error) {
	if err != nil {
		return nil, ClassifyError(err)
	}
	return decodeUpdateResult("result", resp.GetResult())
}

func (b *Backend) Upsert(ctx context.Context, req vectordb.UpsertRequest) (*vectordb.UpdateResult, error) {
	w, err := encodeUpsert(req)
	if err != nil {
		return nil, err
	}
	return writeResult(b.clients.GetPointsClient().Upsert(ctx, w))
}

func (b *Backend) Get(ctx context.Context, req vectordb.GetRequest) ([]vectordb.Record, error) {
	resp, err := b.clients.GetPointsClient().Get(ctx, encodeGet(req))
	if err != nil {
		return nil, ClassifyError(err)
	}
	return decodeRecords("result", resp.GetResult())
}

func (b *Backend) Delete(ctx context.Context, req vectordb.DeleteRequest) (*vectordb.UpdateResult, error) {
	w, err := encodeDelete(req)
	if err != nil {
		return nil, err
	}
	return writeResult(b.clients.GetPointsClient().Delete(ctx, w))
}

func (b *Backend) Scroll(ctx context.Context, req vectordb.ScrollRequest) (*vectordb.ScrollPage, error) {
	w, err := encodeScroll(req)
	if err != nil {
		return nil, err
	}
	resp, err := b.clients.GetPointsClient().Scroll(ctx, w)
	if err != nil {
		return nil, ClassifyError(err)
	}
	records, err := decodeRecords("result", resp.GetResult())
	if err != nil {
		return nil, err
	}
	page := &vectordb.ScrollPage{Points: records}
	if next := resp.GetNextPageOffset(); next != nil {
		id, err := decodePointID("next_page_offset", next)
		if err != nil {
			return nil, err
		}
		page.NextOffset = &id
	}
	return page, nil
}

func (b *Backend) Count(ctx context.Context, req vectordb.CountRequest) (uint64, error) {
	w, err := encodeCount(req)
	if err != nil {
		return 0, err
	}
	resp, err := b.clients.GetPointsClient().Count(ctx, w)
	if err != nil {
		return 0, ClassifyError(err)
	}
	if resp.GetResult() == nil {
		return 0, vectordb.DataCorrupted("result", "count is missing")
	}
	return resp.GetResult().GetCount(), nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (b *Backend) Query(ctx context.Context, req vectordb.QueryRequest) ([]vectordb.ScoredPoint, error) {
	w, err := encodeQueryPoints(root, req)
	if err != nil {
		return nil, err
	}
	resp, err := b.clients.GetPointsClient().Query(ctx, w)
	if err != nil {
		return nil, ClassifyError(err)
	}
	return decodeScoredPoints("result", resp.GetResult())
}

func (b *Backend) QueryBatch(ctx context.Context, reqs ...vectordb.QueryRequest) ([][]vectordb.ScoredPoint, error) {
	collection, err := vectordb.BatchCollection(reqs)
	if err != nil {
		return nil, err
	}
	w, err := encodeQueryBatch(collection, reqs)
	if err != nil {
		return nil, err
	}
	resp, err := b.clients.GetPointsClient().QueryBatch(ctx, w)
	if err != nil {
		return nil, ClassifyError(err)
	}

	batches := resp.GetResult()
	if len(batches) != len(reqs) {
		return nil, vectordb.UnexpectedResponse("query batch returned %d results for %d requests", len(batches), len(reqs))
	}
	out := make([][]vectordb.ScoredPoint, len(batches))
	for i, batch := range batches {
		points, err := decodeScoredPoints(field(index("result", i), "result"), batch.GetResult())
		if err != nil {
			return nil, err
		}
		out[i] = points
	}
	return out, nil
}

func (b *Backend) QueryGroups(ctx context.Context, req vectordb.QueryGroupsRequest) ([]vectordb.Group, error) {
	w, err := encodeQueryGroups(req)
	if err != nil {
		return nil, err
	}
	resp, err := b.clients.GetPointsClient().QueryGroups(ctx, w)
	if err != nil {
		return nil, ClassifyError(err)
	}
	return decodeGroups("result.groups", resp.GetResult())
}

func (b *Backend) Facet(ctx context.Context, req vectordb.FacetRequest) ([]vectordb.FacetHit, error) {
	w, err := encodeFacet(req)
	if err != nil {
		return nil, err
	}
	resp, err := b.clients.GetPointsClient().Facet(ctx, w)
	if err != nil {
		return nil, ClassifyError(err)
	}
	return decodeFacetHits("hits", resp.GetHits())
}

func (b *Backend) MatrixPairs(ctx context.Context, req vectordb.MatrixRequest) ([]vectordb.MatrixPair, error) {
	w, err := encodeMatrix(req)
	if err != nil {
		return nil, err
	}
	resp, err := b.clients.GetPointsClient().SearchMatrixPairs(ctx, w)
	if err != nil {
		return nil, ClassifyError(err)
	}
	return decodeMatrixPairs("result.pairs", resp.GetResult())
}

func (b *Backend) MatrixOffsets(ctx context.Context, req vectordb.MatrixRequest) (*vectordb.MatrixOffsets, error) {
	w, err := encodeMatrix(req)
	if err != nil {
		return nil, err
	}
	resp, err := b.clients.GetPointsClient().SearchMatrixOffsets(ctx, w)
	if err != nil {
		return nil, ClassifyError(err)
	}
	return decodeMatrixOffsets("result", resp.GetResult())
}

// ── Payload ──────────────────────────────────────────────────────────────────

func (b *Backend) SetPayload(ctx context.Context, req vectordb.SetPayloadRequest) (*vectordb.UpdateResult, error) {
	w, err := encodeSetPayload(req)
	if err != nil {
		return nil, err
	}
	return writeResult(b.clients.GetPointsClient().SetPayload(ctx, w))
}

func (b *Backend) OverwritePayload(ctx context.Context, req vectordb.SetPayloadRequest) (*vectordb.UpdateResult, error) {
	w, err := encodeSetPayload(req)
	if err != nil {
		return nil, err
	}
	return writeResult(b.clients.GetPointsClient().OverwritePayload(ctx, w))
}

func (b *Backend) DeletePayload(ctx context.Context, req vectordb.DeletePayloadRequest) (*vectordb.UpdateResult, error) {
	w, err := encodeDeletePayload(req)
	if err != nil {
		return nil, err
	}
	return writeResult(b.clients.GetPointsClient().DeletePayload(ctx, w))
}

func (b *Backend) ClearPayload(ctx context.Context, req vectordb.ClearPayloadRequest) (*vectordb.UpdateResult, error) {
	w, err := encodeClearPayload(req)
	if err != nil {
		return nil, err
	}
	return writeResult(b.clients.GetPointsClient().ClearPayload(ctx, w))
}

// ── Vectors and indexes ──────────────────────────────────────────────────────

func (b *Backend) UpdateVectors(ctx context.Context, req vectordb.UpdateVectorsRequest) (*vectordb.UpdateResult, error) {
	w, err := encodeUpdateVectors(req)
	if err != nil {
		return nil, err
	}
	return writeResult(b.clients.GetPointsClient().UpdateVectors(ctx, w))
}

func (b *Backend) DeleteVectors(ctx context.Context, req vectordb.DeleteVectorsRequest) (*vectordb.UpdateResult, error) {
	w, err := encodeDeleteVectors(req)
	if err != nil {
		return nil, err
	}
	return writeResult(b.clients.GetPointsClient().DeleteVectors(ctx, w))
}

func (b *Backend) CreateFieldIndex(ctx context.Context, req vectordb.FieldIndexRequest) (*vectordb.UpdateResult, error) {
	w, err := encodeCreateFieldIndex(req)
	if err != nil {
		return nil, err
	}
	return writeResult(b.clients.GetPointsClient().CreateFieldIndex(ctx, w))
}

func (b *Backend) DeleteFieldIndex(ctx context.Context, req vectordb.FieldIndexRequest) (*vectordb.UpdateResult, error) {
	return writeResult(b.clients.GetPointsClient().DeleteFieldIndex(ctx, &qdrant.DeleteFieldIndexCollection{
		CollectionName: req.Collection,
		Wait:           req.Wait,
		FieldName:      req.Field,
	}))
}

func (b *Backend) UpdateBatch(ctx context.Context, req vectordb.UpdateBatchRequest) ([]vectordb.UpdateResult, error) {
	w, err := encodeUpdateBatch(req)
	if err != nil {
		return nil, err
	}
	resp, err := b.clients.GetPointsClient().UpdateBatch(ctx, w)
	if err != nil {
		return nil, ClassifyError(err)
	}

	results := resp.GetResult()
	if len(results) != len(req.Operations) {
		return nil, vectordb.UnexpectedResponse("update batch returned %d results for %d operations", len(results), len(req.Operations))
	}
	out := make([]vectordb.UpdateResult, len(results))
	for i, r := range results {
		u, err := decodeUpdateResult(index("result", i), r)
		if err != nil {
			return nil, err
		}
		out[i] = *u
	}
	return out, nil
}

// ── Snapshots ────────────────────────────────────────────────────────────────

func (b *Backend) CreateSnapshot(ctx context.Context, collection string) (*vectordb.SnapshotDescription, error) {
	resp, err := b.clients.GetSnapshotsClient().Create(ctx, &qdrant.CreateSnapshotRequest{CollectionName: collection})
	if err != nil {
		return nil, ClassifyError(err)
	}
	return decodeSnapshot("snapshot_description", resp.GetSnapshotDescription())
}

func (b *Backend) ListSnapshots(ctx context.Context, collection string) ([]vectordb.SnapshotDescription, error) {
	resp, err := b.clients.GetSnapshotsClient().List(ctx, &qdrant.ListSnapshotsRequest{CollectionName: collection})
	if err != nil {
		return nil, ClassifyError(err)
	}
	return decodeSnapshots("snapshot_descriptions", resp.GetSnapshotDescriptions())
}

func (b *Backend) DeleteSnapshot(ctx context.Context, collection, name string) error {
	_, err := b.clients.GetSnapshotsClient().Delete(ctx, &qdrant.DeleteSnapshotRequest{CollectionName: collection, SnapshotName: name})
	return ClassifyError(err)
}

func (b *Backend) CreateFullSnapshot(ctx context.Context) (*vectordb.SnapshotDescription, error) {
	resp, err := b.clients.GetSnapshotsClient().CreateFull(ctx, &qdrant.CreateFullSnapshotRequest{})
	if err != nil {
		return nil, ClassifyError(err)
	}
	return decodeSnapshot("snapshot_description", resp.GetSnapshotDescription())
}

func (b *Backend) ListFullSnapshots(ctx context.Context) ([]vectordb.SnapshotDescription, error) {
	resp, err := b.clients.GetSnapshotsClient().ListFull(ctx, &qdrant.ListFullSnapshotsRequest{})
	if err != nil {
		return nil, ClassifyError(err)
	}
	return decodeSnapshots("snapshot_descriptions", resp.GetSnapshotDescriptions())
}

func (b *Backend) DeleteFullSnapshot(ctx context.Context, name string) error {
	_, err := b.clients.GetSnapshotsClient().DeleteFull(ctx, &qdrant.DeleteFullSnapshotRequest{SnapshotName: name})
	return ClassifyError(err)
}
