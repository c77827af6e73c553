package qdrant

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// QdrantContainer represents a Qdrant container for testing
type QdrantContainer struct {
	testcontainers.Container
	Host     string
	GRPCPort int
	RESTPort int
}

// setupQdrantContainer starts qdrant/qdrant with both protocols exposed.
func setupQdrantContainer(ctx context.Context) (*QdrantContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "qdrant/qdrant:v1.16.0",
		ExposedPorts: []string{"6333/tcp", "6334/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForHTTP("/readyz").WithPort("6333/tcp"),
			wait.ForListeningPort("6334/tcp"),
		).WithDeadline(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start qdrant container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	ports := make(map[string]int, 2)
	for _, p := range []string{"6333/tcp", "6334/tcp"} {
		mapped, err := container.MappedPort(ctx, p)
		if err != nil {
			_ = container.Terminate(ctx)
			return nil, fmt.Errorf("failed to get mapped port %s: %w", p, err)
		}
		ports[p], err = strconv.Atoi(mapped.Port())
		if err != nil {
			_ = container.Terminate(ctx)
			return nil, err
		}
	}

	return &QdrantContainer{
		Container: container,
		Host:      host,
		GRPCPort:  ports["6334/tcp"],
		RESTPort:  ports["6333/tcp"],
	}, nil
}

func TestQdrantIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	qc, err := setupQdrantContainer(ctx)
	require.NoError(t, err)
	defer func() {
		if err := qc.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()
	t.Logf("Using Qdrant on %s (grpc %d, rest %d)", qc.Host, qc.GRPCPort, qc.RESTPort)

	for _, protocol := range []Protocol{ProtocolGRPC, ProtocolREST} {
		t.Run(string(protocol), func(t *testing.T) {
			cfg := FromHost(qc.Host).
				WithProtocol(protocol).
				WithGRPCPort(qc.GRPCPort).
				WithRESTPort(qc.RESTPort).
				WithTLS(false).
				WithTimeout(10 * time.Second)
			if !IsLoopback(qc.Host) {
				t.Skipf("docker host %s is not loopback; TLS cannot be disabled", qc.Host)
			}

			client, err := NewClient(cfg)
			require.NoError(t, err)
			defer client.Close()

			runScenario(t, client, "it_"+string(protocol))
		})
	}
}

func basis(i, dim int) vectordb.Vector {
	v := make(vectordb.Vector, dim)
	v[i] = 1
	return v
}

func runScenario(t *testing.T, client *Client, collection string) {
	ctx := context.Background()
	waitFlag := vectordb.Ptr(true)

	info, err := client.Health(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, info.Version)

	t.Run("collections", func(t *testing.T) {
		req := vectordb.CreateCollectionRequest{
			Name:    collection,
			Vectors: vectordb.VectorParams{Size: 4, Distance: vectordb.Cosine},
		}
		require.NoError(t, client.EnsureCollection(ctx, req))
		require.NoError(t, client.EnsureCollection(ctx, req))

		err := client.CreateCollection(ctx, req)
		assert.True(t, errors.Is(err, vectordb.ErrCollectionAlreadyExists), "got %v", err)

		exists, err := client.CollectionExists(ctx, collection)
		require.NoError(t, err)
		assert.True(t, exists)

		names, err := client.ListCollections(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, collection)

		got, err := client.GetCollection(ctx, collection)
		require.NoError(t, err)
		params, ok := got.Vectors.(vectordb.VectorParams)
		require.True(t, ok, "got %T", got.Vectors)
		assert.Equal(t, uint64(4), params.Size)
		assert.Equal(t, vectordb.Cosine, params.Distance)

		_, err = client.GetCollection(ctx, collection+"_missing")
		assert.True(t, errors.Is(err, vectordb.ErrCollectionNotFound), "got %v", err)
	})

	t.Run("points", func(t *testing.T) {
		points := make([]vectordb.PointStruct, 4)
		for i := range points {
			points[i] = vectordb.PointStruct{
				ID:      vectordb.NewIDNum(uint64(i + 1)),
				Vectors: basis(i, 4),
				Payload: vectordb.MustPayload(map[string]any{
					"lang":  []string{"de", "en"}[i%2],
					"year":  2020 + i,
					"score": 0.5,
				}),
			}
		}
		res, err := client.Upsert(ctx, vectordb.UpsertRequest{Collection: collection, Points: points, Wait: waitFlag})
		require.NoError(t, err)
		assert.Equal(t, vectordb.UpdateStatusCompleted, res.Status)

		records, err := client.Get(ctx, vectordb.GetRequest{
			Collection:  collection,
			IDs:         []vectordb.PointID{vectordb.NewIDNum(2), vectordb.NewIDNum(99)},
			WithPayload: true,
		})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, vectordb.IntegerValue(2021), records[0].Payload["year"])
		assert.Equal(t, vectordb.DoubleValue(0.5), records[0].Payload["score"])

		n, err := client.Count(ctx, vectordb.CountRequest{
			Collection: collection,
			Filter:     vectordb.NewFilter(vectordb.NewMatchKeyword("lang", "de")),
			Exact:      vectordb.Ptr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(2), n)

		page, err := client.Scroll(ctx, vectordb.ScrollRequest{Collection: collection, Limit: vectordb.Ptr[uint32](3)})
		require.NoError(t, err)
		assert.Len(t, page.Points, 3)
		require.NotNil(t, page.NextOffset)
	})

	t.Run("batch ordering", func(t *testing.T) {
		reqs := make([]vectordb.QueryRequest, 3)
		for i := range reqs {
			reqs[i] = vectordb.QueryRequest{
				Collection: collection,
				Query:      vectordb.NearestQuery{Vector: basis(i, 4)},
				Limit:      vectordb.Ptr[uint64](1),
			}
		}
		out, err := client.QueryBatch(ctx, reqs...)
		require.NoError(t, err)
		require.Len(t, out, 3)
		for i, hits := range out {
			require.Len(t, hits, 1)
			assert.Equal(t, vectordb.NewIDNum(uint64(i+1)), hits[0].ID, "slot %d", i)
		}
	})

	t.Run("payload and index", func(t *testing.T) {
		_, err := client.CreateFieldIndex(ctx, vectordb.FieldIndexRequest{
			Collection: collection, Field: "lang", Type: vectordb.FieldTypeKeyword, Wait: waitFlag,
		})
		require.NoError(t, err)

		hits, err := client.Facet(ctx, vectordb.FacetRequest{Collection: collection, Key: "lang", Exact: vectordb.Ptr(true)})
		require.NoError(t, err)
		assert.Len(t, hits, 2)

		_, err = client.SetPayload(ctx, vectordb.SetPayloadRequest{
			Collection: collection,
			Payload:    vectordb.MustPayload(map[string]any{"reviewed": true}),
			Selector:   vectordb.PointsSelector{IDs: []vectordb.PointID{vectordb.NewIDNum(1)}},
			Wait:       waitFlag,
		})
		require.NoError(t, err)

		hits2, err := client.Search(ctx, vectordb.SearchRequest{
			Collection:  collection,
			Vector:      basis(0, 4),
			Filter:      vectordb.NewFilter(vectordb.NewMatchBool("reviewed", true)),
			Limit:       10,
			WithPayload: true,
		})
		require.NoError(t, err)
		require.Len(t, hits2, 1)
		assert.Equal(t, vectordb.BoolValue(true), hits2[0].Payload["reviewed"])

		_, err = client.DeleteFieldIndex(ctx, vectordb.FieldIndexRequest{Collection: collection, Field: "lang", Wait: waitFlag})
		require.NoError(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		_, err := client.Delete(ctx, vectordb.DeleteRequest{
			Collection: collection,
			Selector:   vectordb.PointsSelector{Filter: vectordb.NewFilter(vectordb.NewMatchKeyword("lang", "en"))},
			Wait:       waitFlag,
		})
		require.NoError(t, err)

		n, err := client.Count(ctx, vectordb.CountRequest{Collection: collection, Exact: vectordb.Ptr(true)})
		require.NoError(t, err)
		assert.Equal(t, uint64(2), n)

		require.NoError(t, client.DeleteCollection(ctx, collection))
		exists, err := client.CollectionExists(ctx, collection)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
