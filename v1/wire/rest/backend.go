package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
)

// Backend implements vectordb.Service over the Qdrant REST API.
//
// Every method encodes the request, performs exactly one HTTP round trip
// and decodes the "result" member of the response. Transport failures are
// classified with ClassifyTransportError, non-2xx responses with
// ClassifyResponse; codec failures are returned as they are.
type Backend struct {
	transport Transport
}

var _ vectordb.Service = (*Backend)(nil)

// NewBackend wraps a transport. Close closes it.
func NewBackend(transport Transport) *Backend {
	return &Backend{transport: transport}
}

// roundTrip sends c and returns the raw body of a 2xx response.
func (b *Backend) roundTrip(ctx context.Context, c call) ([]byte, error) {
	var body []byte
	if c.body != nil {
		raw, err := render(c.body)
		if err != nil {
			return nil, err
		}
		body = raw
	}
	resp, err := b.transport.Do(ctx, c.method, c.path, c.query, body)
	if err != nil {
		return nil, ClassifyTransportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ClassifyResponse(resp.StatusCode, resp.Body)
	}
	return resp.Body, nil
}

// exchange performs c and returns the unwrapped "result" member.
func (b *Backend) exchange(ctx context.Context, c call) (any, error) {
	raw, err := b.roundTrip(ctx, c)
	if err != nil {
		return nil, err
	}
	return unwrap(raw)
}

// write performs a point write and decodes its UpdateResult.
func (b *Backend) write(ctx context.Context, c call, err error) (*vectordb.UpdateResult, error) {
	if err != nil {
		return nil, err
	}
	result, err := b.exchange(ctx, c)
	if err != nil {
		return nil, err
	}
	u, err := decodeUpdateResult(resultPath, result)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Health asks the server for its title and version.
func (b *Backend) Health(ctx context.Context) (*vectordb.HealthInfo, error) {
	raw, err := b.roundTrip(ctx, call{method: http.MethodGet, path: "/"})
	if err != nil {
		return nil, err
	}
	return decodeHealth(raw)
}

// Close closes the transport.
func (b *Backend) Close() error {
	return b.transport.Close()
}

// ── Collections ──────────────────────────────────────────────────────────────

func (b *Backend) CreateCollection(ctx context.Context, req vectordb.CreateCollectionRequest) error {
	c, err := encodeCreateCollection(req)
	if err != nil {
		return err
	}
	_, err = b.exchange(ctx, c)
	return err
}

func (b *Backend) GetCollection(ctx context.Context, name string) (*vectordb.CollectionInfo, error) {
	result, err := b.exchange(ctx, call{method: http.MethodGet, path: collectionPath(name)})
	if err != nil {
		return nil, err
	}
	return decodeCollectionInfo(resultPath, result)
}

func (b *Backend) ListCollections(ctx context.Context) ([]string, error) {
	result, err := b.exchange(ctx, call{method: http.MethodGet, path: "/collections"})
	if err != nil {
		return nil, err
	}
	return decodeCollectionNames(resultPath, result)
}

func (b *Backend) DeleteCollection(ctx context.Context, name string) error {
	_, err := b.exchange(ctx, call{method: http.MethodDelete, path: collectionPath(name)})
	return err
}

func (b *Backend) CollectionExists(ctx context.Context, name string) (bool, error) {
	result, err := b.exchange(ctx, call{method: http.MethodGet, path: collectionPath(name, "exists")})
	if err != nil {
		return false, err
	}
	return decodeExists(resultPath, result)
}

// ── Points ───────────────────────────────────────────────────────────────────

func (b *Backend) Upsert(ctx context.Context, req vectordb.UpsertRequest) (*vectordb.UpdateResult, error) {
	c, err := encodeUpsert(req)
	return b.write(ctx, c, err)
}

func (b *Backend) Get(ctx context.Context, req vectordb.GetRequest) ([]vectordb.Record, error) {
	result, err := b.exchange(ctx, encodeGet(req))
	if err != nil {
		return nil, err
	}
	return listOf(resultPath, result, decodeRecord)
}

func (b *Backend) Delete(ctx context.Context, req vectordb.DeleteRequest) (*vectordb.UpdateResult, error) {
	c, err := encodeDelete(req)
	return b.write(ctx, c, err)
}

func (b *Backend) Scroll(ctx context.Context, req vectordb.ScrollRequest) (*vectordb.ScrollPage, error) {
	c, err := encodeScroll(req)
	if err != nil {
		return nil, err
	}
	result, err := b.exchange(ctx, c)
	if err != nil {
		return nil, err
	}
	return decodeScrollPage(resultPath, result)
}

func (b *Backend) Count(ctx context.Context, req vectordb.CountRequest) (uint64, error) {
	c, err := encodeCount(req)
	if err != nil {
		return 0, err
	}
	result, err := b.exchange(ctx, c)
	if err != nil {
		return 0, err
	}
	return decodeCount(resultPath, result)
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (b *Backend) Query(ctx context.Context, req vectordb.QueryRequest) ([]vectordb.ScoredPoint, error) {
	c, err := encodeQueryPoints(req)
	if err != nil {
		return nil, err
	}
	result, err := b.exchange(ctx, c)
	if err != nil {
		return nil, err
	}
	return decodeQueryResponse(resultPath, result)
}

func (b *Backend) QueryBatch(ctx context.Context, reqs ...vectordb.QueryRequest) ([][]vectordb.ScoredPoint, error) {
	collection, err := vectordb.BatchCollection(reqs)
	if err != nil {
		return nil, err
	}
	c, err := encodeQueryBatch(collection, reqs)
	if err != nil {
		return nil, err
	}
	result, err := b.exchange(ctx, c)
	if err != nil {
		return nil, err
	}
	out, err := listOf(resultPath, result, decodeQueryResponse)
	if err != nil {
		return nil, err
	}
	if len(out) != len(reqs) {
		return nil, vectordb.UnexpectedResponse("query batch returned %d results for %d requests", len(out), len(reqs))
	}
	return out, nil
}

func (b *Backend) QueryGroups(ctx context.Context, req vectordb.QueryGroupsRequest) ([]vectordb.Group, error) {
	c, err := encodeQueryGroups(req)
	if err != nil {
		return nil, err
	}
	result, err := b.exchange(ctx, c)
	if err != nil {
		return nil, err
	}
	return decodeGroups(resultPath, result)
}

func (b *Backend) Facet(ctx context.Context, req vectordb.FacetRequest) ([]vectordb.FacetHit, error) {
	c, err := encodeFacet(req)
	if err != nil {
		return nil, err
	}
	result, err := b.exchange(ctx, c)
	if err != nil {
		return nil, err
	}
	return decodeFacetHits(resultPath, result)
}

func (b *Backend) MatrixPairs(ctx context.Context, req vectordb.MatrixRequest) ([]vectordb.MatrixPair, error) {
	c, err := encodeMatrix(req, "pairs")
	if err != nil {
		return nil, err
	}
	result, err := b.exchange(ctx, c)
	if err != nil {
		return nil, err
	}
	return decodeMatrixPairs(resultPath, result)
}

func (b *Backend) MatrixOffsets(ctx context.Context, req vectordb.MatrixRequest) (*vectordb.MatrixOffsets, error) {
	c, err := encodeMatrix(req, "offsets")
	if err != nil {
		return nil, err
	}
	result, err := b.exchange(ctx, c)
	if err != nil {
		return nil, err
	}
	return decodeMatrixOffsets(resultPath, result)
}

// ── Payload and vectors ──────────────────────────────────────────────────────

func (b *Backend) SetPayload(ctx context.Context, req vectordb.SetPayloadRequest) (*vectordb.UpdateResult, error) {
	c, err := encodeSetPayload(req, http.MethodPost)
	return b.write(ctx, c, err)
}

func (b *Backend) OverwritePayload(ctx context.Context, req vectordb.SetPayloadRequest) (*vectordb.UpdateResult, error) {
	c, err := encodeSetPayload(req, http.MethodPut)
	return b.write(ctx, c, err)
}

func (b *Backend) DeletePayload(ctx context.Context, req vectordb.DeletePayloadRequest) (*vectordb.UpdateResult, error) {
	c, err := encodeDeletePayload(req)
	return b.write(ctx, c, err)
}

func (b *Backend) ClearPayload(ctx context.Context, req vectordb.ClearPayloadRequest) (*vectordb.UpdateResult, error) {
	c, err := encodeClearPayload(req)
	return b.write(ctx, c, err)
}

func (b *Backend) UpdateVectors(ctx context.Context, req vectordb.UpdateVectorsRequest) (*vectordb.UpdateResult, error) {
	c, err := encodeUpdateVectors(req)
	return b.write(ctx, c, err)
}

func (b *Backend) DeleteVectors(ctx context.Context, req vectordb.DeleteVectorsRequest) (*vectordb.UpdateResult, error) {
	c, err := encodeDeleteVectors(req)
	return b.write(ctx, c, err)
}

// ── Indexes and batches ──────────────────────────────────────────────────────

func (b *Backend) CreateFieldIndex(ctx context.Context, req vectordb.FieldIndexRequest) (*vectordb.UpdateResult, error) {
	c, err := encodeCreateFieldIndex(req)
	return b.write(ctx, c, err)
}

func (b *Backend) DeleteFieldIndex(ctx context.Context, req vectordb.FieldIndexRequest) (*vectordb.UpdateResult, error) {
	return b.write(ctx, encodeDeleteFieldIndex(req), nil)
}

func (b *Backend) UpdateBatch(ctx context.Context, req vectordb.UpdateBatchRequest) ([]vectordb.UpdateResult, error) {
	c, err := encodeUpdateBatch(req)
	if err != nil {
		return nil, err
	}
	result, err := b.exchange(ctx, c)
	if err != nil {
		return nil, err
	}
	out, err := listOf(resultPath, result, decodeUpdateResult)
	if err != nil {
		return nil, err
	}
	if len(out) != len(req.Operations) {
		return nil, vectordb.UnexpectedResponse("update batch returned %d results for %d operations", len(out), len(req.Operations))
	}
	return out, nil
}

// ── Snapshots ────────────────────────────────────────────────────────────────

func (b *Backend) snapshot(ctx context.Context, c call) (*vectordb.SnapshotDescription, error) {
	result, err := b.exchange(ctx, c)
	if err != nil {
		return nil, err
	}
	s, err := decodeSnapshot(resultPath, result)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (b *Backend) snapshots(ctx context.Context, path string) ([]vectordb.SnapshotDescription, error) {
	result, err := b.exchange(ctx, call{method: http.MethodGet, path: path})
	if err != nil {
		return nil, err
	}
	return listOf(resultPath, result, decodeSnapshot)
}

func (b *Backend) CreateSnapshot(ctx context.Context, collection string) (*vectordb.SnapshotDescription, error) {
	return b.snapshot(ctx, call{method: http.MethodPost, path: collectionPath(collection, "snapshots")})
}

func (b *Backend) ListSnapshots(ctx context.Context, collection string) ([]vectordb.SnapshotDescription, error) {
	return b.snapshots(ctx, collectionPath(collection, "snapshots"))
}

func (b *Backend) DeleteSnapshot(ctx context.Context, collection, name string) error {
	_, err := b.exchange(ctx, call{
		method: http.MethodDelete,
		path:   collectionPath(collection, "snapshots", url.PathEscape(name)),
	})
	return err
}

func (b *Backend) CreateFullSnapshot(ctx context.Context) (*vectordb.SnapshotDescription, error) {
	return b.snapshot(ctx, call{method: http.MethodPost, path: "/snapshots"})
}

func (b *Backend) ListFullSnapshots(ctx context.Context) ([]vectordb.SnapshotDescription, error) {
	return b.snapshots(ctx, "/snapshots")
}

func (b *Backend) DeleteFullSnapshot(ctx context.Context, name string) error {
	_, err := b.exchange(ctx, call{method: http.MethodDelete, path: "/snapshots/" + url.PathEscape(name)})
	return err
}
