package rpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
	qdrant "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// fakePoints answers queries with a point whose id is the index of the
// largest component of the query vector.
type fakePoints struct {
	qdrant.PointsClient

	lastBatch  *qdrant.QueryBatchPoints
	lastUpsert *qdrant.UpsertPoints
	dropOne    bool
	err        error
}

func topHit(q *qdrant.QueryPoints) *qdrant.ScoredPoint {
	data := q.GetQuery().GetNearest().GetDense().GetData()
	best := 0
	for i, v := range data {
		if v > data[best] {
			best = i
		}
	}
	return &qdrant.ScoredPoint{Id: qdrant.NewIDNum(uint64(best)), Score: 1}
}

func (f *fakePoints) Query(_ context.Context, in *qdrant.QueryPoints, _ ...grpc.CallOption) (*qdrant.QueryResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &qdrant.QueryResponse{Result: []*qdrant.ScoredPoint{topHit(in)}}, nil
}

func (f *fakePoints) QueryBatch(_ context.Context, in *qdrant.QueryBatchPoints, _ ...grpc.CallOption) (*qdrant.QueryBatchResponse, error) {
	f.lastBatch = in
	var out []*qdrant.BatchResult
	for _, q := range in.GetQueryPoints() {
		out = append(out, &qdrant.BatchResult{Result: []*qdrant.ScoredPoint{topHit(q)}})
	}
	if f.dropOne {
		out = out[1:]
	}
	return &qdrant.QueryBatchResponse{Result: out}, nil
}

func (f *fakePoints) Upsert(_ context.Context, in *qdrant.UpsertPoints, _ ...grpc.CallOption) (*qdrant.PointsOperationResponse, error) {
	f.lastUpsert = in
	id := uint64(11)
	return &qdrant.PointsOperationResponse{Result: &qdrant.UpdateResult{
		OperationId: &id,
		Status:      qdrant.UpdateStatus_Completed,
	}}, nil
}

func (f *fakePoints) Scroll(_ context.Context, _ *qdrant.ScrollPoints, _ ...grpc.CallOption) (*qdrant.ScrollResponse, error) {
	return &qdrant.ScrollResponse{
		NextPageOffset: qdrant.NewIDNum(3),
		Result: []*qdrant.RetrievedPoint{
			{Id: qdrant.NewIDNum(1), Payload: qdrant.NewValueMap(map[string]any{"city": "Berlin"})},
			{Id: qdrant.NewIDNum(2)},
		},
	}, nil
}

func (f *fakePoints) QueryGroups(_ context.Context, _ *qdrant.QueryPointGroups, _ ...grpc.CallOption) (*qdrant.QueryGroupsResponse, error) {
	return &qdrant.QueryGroupsResponse{Result: &qdrant.GroupsResult{Groups: []*qdrant.PointGroup{
		{Id: &qdrant.GroupId{Kind: &qdrant.GroupId_StringValue{StringValue: "a"}}, Hits: []*qdrant.ScoredPoint{{Id: qdrant.NewIDNum(1), Score: 0.9}}},
		{Id: &qdrant.GroupId{Kind: &qdrant.GroupId_UnsignedValue{UnsignedValue: 5}}},
	}}}, nil
}

func (f *fakePoints) Facet(_ context.Context, _ *qdrant.FacetCounts, _ ...grpc.CallOption) (*qdrant.FacetResponse, error) {
	return &qdrant.FacetResponse{Hits: []*qdrant.FacetHit{
		{Value: &qdrant.FacetValue{Variant: &qdrant.FacetValue_StringValue{StringValue: "red"}}, Count: 4},
		{Value: &qdrant.FacetValue{Variant: &qdrant.FacetValue_IntegerValue{IntegerValue: 7}}, Count: 2},
	}}, nil
}

type fakeCollections struct {
	qdrant.CollectionsClient
}

func (fakeCollections) Get(_ context.Context, in *qdrant.GetCollectionInfoRequest, _ ...grpc.CallOption) (*qdrant.GetCollectionInfoResponse, error) {
	if in.GetCollectionName() != "docs" {
		return nil, status.Errorf(codes.NotFound, "Collection `%s` doesn't exist!", in.GetCollectionName())
	}
	points := uint64(42)
	return &qdrant.GetCollectionInfoResponse{Result: &qdrant.CollectionInfo{
		Status:      qdrant.CollectionStatus_Green,
		PointsCount: &points,
		Config: &qdrant.CollectionConfig{Params: &qdrant.CollectionParams{
			ShardNumber:   1,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{Size: 4, Distance: qdrant.Distance_Cosine}),
		}},
		PayloadSchema: map[string]*qdrant.PayloadSchemaInfo{
			"city": {DataType: qdrant.PayloadSchemaType_Keyword},
		},
	}}, nil
}

func (fakeCollections) List(context.Context, *qdrant.ListCollectionsRequest, ...grpc.CallOption) (*qdrant.ListCollectionsResponse, error) {
	return &qdrant.ListCollectionsResponse{Collections: []*qdrant.CollectionDescription{{Name: "a"}, {Name: "b"}}}, nil
}

type fakeSnapshots struct {
	qdrant.SnapshotsClient
}

func (fakeSnapshots) ListFull(context.Context, *qdrant.ListFullSnapshotsRequest, ...grpc.CallOption) (*qdrant.ListSnapshotsResponse, error) {
	return &qdrant.ListSnapshotsResponse{SnapshotDescriptions: []*qdrant.SnapshotDescription{{
		Name:         "full-1.snapshot",
		CreationTime: timestamppb.New(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		Size:         1024,
	}}}, nil
}

type fakeHealth struct {
	qdrant.QdrantClient
}

func (fakeHealth) HealthCheck(context.Context, *qdrant.HealthCheckRequest, ...grpc.CallOption) (*qdrant.HealthCheckReply, error) {
	return &qdrant.HealthCheckReply{Title: "qdrant", Version: "1.16.1"}, nil
}

func newTestBackend(points *fakePoints) *Backend {
	return NewBackendFromClients(points, fakeCollections{}, fakeSnapshots{}, fakeHealth{})
}

func basis(i int) vectordb.Vector {
	v := make(vectordb.Vector, 3)
	v[i] = 1
	return v
}

func TestBackend_QueryBatchKeepsOrder(t *testing.T) {
	points := &fakePoints{}
	b := newTestBackend(points)

	reqs := []vectordb.QueryRequest{
		{Collection: "docs", Query: vectordb.NearestQuery{Vector: basis(2)}, Limit: vectordb.Ptr[uint64](1)},
		{Collection: "docs", Query: vectordb.NearestQuery{Vector: basis(0)}, Limit: vectordb.Ptr[uint64](1)},
		{Collection: "docs", Query: vectordb.NearestQuery{Vector: basis(1)}, Limit: vectordb.Ptr[uint64](1)},
	}
	results, err := b.QueryBatch(context.Background(), reqs...)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "docs", points.lastBatch.GetCollectionName())
	for i, want := range []uint64{2, 0, 1} {
		require.Len(t, results[i], 1)
		assert.Equal(t, vectordb.NewIDNum(want), results[i][0].ID, "slot %d", i)
	}
}

func TestBackend_QueryBatchLengthMismatch(t *testing.T) {
	b := newTestBackend(&fakePoints{dropOne: true})
	_, err := b.QueryBatch(context.Background(),
		vectordb.QueryRequest{Collection: "docs", Query: vectordb.NearestQuery{Vector: basis(0)}},
		vectordb.QueryRequest{Collection: "docs", Query: vectordb.NearestQuery{Vector: basis(1)}},
	)
	assert.True(t, errors.Is(err, vectordb.ErrUnexpectedResponse))
}

func TestBackend_QueryBatchRejectsMixedCollections(t *testing.T) {
	b := newTestBackend(&fakePoints{})
	_, err := b.QueryBatch(context.Background(),
		vectordb.QueryRequest{Collection: "a"},
		vectordb.QueryRequest{Collection: "b"},
	)
	assert.True(t, errors.Is(err, vectordb.ErrInvalidArgument))

	_, err = b.QueryBatch(context.Background())
	assert.True(t, errors.Is(err, vectordb.ErrInvalidArgument))
}

func TestBackend_QueryClassifiesStatus(t *testing.T) {
	b := newTestBackend(&fakePoints{err: status.Error(codes.Unauthenticated, "invalid api key")})
	_, err := b.Query(context.Background(), vectordb.QueryRequest{Collection: "docs", Query: vectordb.NearestQuery{Vector: basis(0)}})
	assert.True(t, errors.Is(err, vectordb.ErrUnauthenticated))
}

func TestBackend_Upsert(t *testing.T) {
	points := &fakePoints{}
	b := newTestBackend(points)

	res, err := b.Upsert(context.Background(), vectordb.UpsertRequest{
		Collection: "docs",
		Wait:       vectordb.Ptr(true),
		Points: []vectordb.PointStruct{{
			ID:      vectordb.NewIDNum(1),
			Vectors: vectordb.Vector{0.1, 0.2},
			Payload: vectordb.Payload{"n": vectordb.IntegerValue(1)},
		}},
		ShardKeys: &vectordb.ShardKeySelector{Keys: []vectordb.ShardKey{vectordb.NewShardKeyword("eu")}},
	})
	require.NoError(t, err)
	assert.Equal(t, vectordb.UpdateStatusCompleted, res.Status)
	require.NotNil(t, res.OperationID)
	assert.Equal(t, uint64(11), *res.OperationID)

	require.Len(t, points.lastUpsert.GetPoints(), 1)
	assert.Equal(t, int64(1), points.lastUpsert.GetPoints()[0].GetPayload()["n"].GetIntegerValue())
	assert.Equal(t, "eu", points.lastUpsert.GetShardKeySelector().GetShardKeys()[0].GetKeyword())
}

func TestBackend_Scroll(t *testing.T) {
	b := newTestBackend(&fakePoints{})
	page, err := b.Scroll(context.Background(), vectordb.ScrollRequest{Collection: "docs", WithPayload: true})
	require.NoError(t, err)
	require.Len(t, page.Points, 2)
	assert.Equal(t, vectordb.StringValue("Berlin"), page.Points[0].Payload["city"])
	assert.Nil(t, page.Points[1].Payload)
	require.NotNil(t, page.NextOffset)
	assert.Equal(t, vectordb.NewIDNum(3), *page.NextOffset)
}

func TestBackend_QueryGroupsAndFacet(t *testing.T) {
	b := newTestBackend(&fakePoints{})

	groups, err := b.QueryGroups(context.Background(), vectordb.QueryGroupsRequest{Collection: "docs", GroupBy: "tag"})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, vectordb.NewGroupIDString("a"), groups[0].ID)
	assert.Len(t, groups[0].Hits, 1)
	assert.Equal(t, vectordb.NewGroupIDUnsigned(5), groups[1].ID)
	assert.NotNil(t, groups[1].Hits)
	assert.Empty(t, groups[1].Hits)

	hits, err := b.Facet(context.Background(), vectordb.FacetRequest{Collection: "docs", Key: "color"})
	require.NoError(t, err)
	assert.Equal(t, []vectordb.FacetHit{
		{Value: vectordb.StringValue("red"), Count: 4},
		{Value: vectordb.IntegerValue(7), Count: 2},
	}, hits)
}

func TestBackend_Collections(t *testing.T) {
	b := newTestBackend(&fakePoints{})

	info, err := b.GetCollection(context.Background(), "docs")
	require.NoError(t, err)
	assert.Equal(t, vectordb.CollectionStatusGreen, info.Status)
	assert.Equal(t, vectordb.VectorsConfig(vectordb.VectorParams{Size: 4, Distance: vectordb.Cosine}), info.Vectors)
	assert.Equal(t, vectordb.FieldTypeKeyword, info.PayloadSchema["city"].DataType)
	require.NotNil(t, info.PointsCount)
	assert.Equal(t, uint64(42), *info.PointsCount)

	_, err = b.GetCollection(context.Background(), "missing")
	assert.True(t, errors.Is(err, vectordb.ErrCollectionNotFound))

	names, err := b.ListCollections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestBackend_SnapshotsAndHealth(t *testing.T) {
	b := newTestBackend(&fakePoints{})

	snaps, err := b.ListFullSnapshots(context.Background())
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "full-1.snapshot", snaps[0].Name)
	require.NotNil(t, snaps[0].CreationTime)
	assert.True(t, snaps[0].CreationTime.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))

	health, err := b.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.16.1", health.Version)

	assert.NoError(t, b.Close())
}
