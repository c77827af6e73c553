package qdrant

import (
	"context"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
)

// Query runs a universal query.
func (c *Client) Query(ctx context.Context, req vectordb.QueryRequest) ([]vectordb.ScoredPoint, error) {
	return c.query(ctx, "query", req)
}

// QueryBatch runs several queries against one collection in a single call.
// Result i belongs to request i.
func (c *Client) QueryBatch(ctx context.Context, reqs ...vectordb.QueryRequest) ([][]vectordb.ScoredPoint, error) {
	return c.queryBatch(ctx, "query_batch", reqs)
}

// QueryGroups runs a universal query grouped by a payload field.
func (c *Client) QueryGroups(ctx context.Context, req vectordb.QueryGroupsRequest) ([]vectordb.Group, error) {
	return c.queryGroups(ctx, "query_groups", req)
}

// Facet counts the distinct values of a payload field.
func (c *Client) Facet(ctx context.Context, req vectordb.FacetRequest) ([]vectordb.FacetHit, error) {
	return run(c, ctx, "facet", req.Collection, func(ctx context.Context) ([]vectordb.FacetHit, error) {
		return c.backend.Facet(ctx, req)
	}, count[vectordb.FacetHit])
}

// MatrixPairs returns the distance matrix of a sample as a list of pairs.
func (c *Client) MatrixPairs(ctx context.Context, req vectordb.MatrixRequest) ([]vectordb.MatrixPair, error) {
	return run(c, ctx, "matrix_pairs", req.Collection, func(ctx context.Context) ([]vectordb.MatrixPair, error) {
		return c.backend.MatrixPairs(ctx, req)
	}, count[vectordb.MatrixPair])
}

// MatrixOffsets returns the distance matrix of a sample in sparse row form.
func (c *Client) MatrixOffsets(ctx context.Context, req vectordb.MatrixRequest) (*vectordb.MatrixOffsets, error) {
	return run(c, ctx, "matrix_offsets", req.Collection, func(ctx context.Context) (*vectordb.MatrixOffsets, error) {
		return c.backend.MatrixOffsets(ctx, req)
	}, func(m *vectordb.MatrixOffsets) int64 { return int64(len(m.Scores)) })
}

// ── Classic search shapes ────────────────────────────────────────────────────
//
// Search, recommend and discover are expressed as universal queries; they
// differ from Query only in how the request is spelled and in the operation
// name reported to logs, metrics and traces.

// Search finds the points nearest to a vector.
func (c *Client) Search(ctx context.Context, req vectordb.SearchRequest) ([]vectordb.ScoredPoint, error) {
	return c.query(ctx, "search", req.ToQuery())
}

// SearchBatch runs several searches against one collection in a single call.
func (c *Client) SearchBatch(ctx context.Context, reqs ...vectordb.SearchRequest) ([][]vectordb.ScoredPoint, error) {
	return c.queryBatch(ctx, "search_batch", toQueries(reqs, vectordb.SearchRequest.ToQuery))
}

// SearchGroups runs a search grouped by a payload field.
func (c *Client) SearchGroups(ctx context.Context, req vectordb.SearchRequest, g vectordb.Grouping) ([]vectordb.Group, error) {
	return c.queryGroups(ctx, "search_groups", req.ToQuery().Grouped(g))
}

// Recommend finds points close to the positive and far from the negative examples.
func (c *Client) Recommend(ctx context.Context, req vectordb.RecommendRequest) ([]vectordb.ScoredPoint, error) {
	return c.query(ctx, "recommend", req.ToQuery())
}

// RecommendBatch runs several recommendations against one collection in a single call.
func (c *Client) RecommendBatch(ctx context.Context, reqs ...vectordb.RecommendRequest) ([][]vectordb.ScoredPoint, error) {
	return c.queryBatch(ctx, "recommend_batch", toQueries(reqs, vectordb.RecommendRequest.ToQuery))
}

// RecommendGroups runs a recommendation grouped by a payload field.
func (c *Client) RecommendGroups(ctx context.Context, req vectordb.RecommendRequest, g vectordb.Grouping) ([]vectordb.Group, error) {
	return c.queryGroups(ctx, "recommend_groups", req.ToQuery().Grouped(g))
}

// Discover searches around a target constrained by context pairs.
func (c *Client) Discover(ctx context.Context, req vectordb.DiscoverRequest) ([]vectordb.ScoredPoint, error) {
	return c.query(ctx, "discover", req.ToQuery())
}

// DiscoverBatch runs several discoveries against one collection in a single call.
func (c *Client) DiscoverBatch(ctx context.Context, reqs ...vectordb.DiscoverRequest) ([][]vectordb.ScoredPoint, error) {
	return c.queryBatch(ctx, "discover_batch", toQueries(reqs, vectordb.DiscoverRequest.ToQuery))
}

func (c *Client) query(ctx context.Context, op string, req vectordb.QueryRequest) ([]vectordb.ScoredPoint, error) {
	return run(c, ctx, op, req.Collection, func(ctx context.Context) ([]vectordb.ScoredPoint, error) {
		return c.backend.Query(ctx, req)
	}, count[vectordb.ScoredPoint])
}

func (c *Client) queryBatch(ctx context.Context, op string, reqs []vectordb.QueryRequest) ([][]vectordb.ScoredPoint, error) {
	var collection string
	if len(reqs) > 0 {
		collection = reqs[0].Collection
	}
	return run(c, ctx, op, collection, func(ctx context.Context) ([][]vectordb.ScoredPoint, error) {
		return c.backend.QueryBatch(ctx, reqs...)
	}, countBatch[vectordb.ScoredPoint])
}

func (c *Client) queryGroups(ctx context.Context, op string, req vectordb.QueryGroupsRequest) ([]vectordb.Group, error) {
	return run(c, ctx, op, req.Collection, func(ctx context.Context) ([]vectordb.Group, error) {
		return c.backend.QueryGroups(ctx, req)
	}, count[vectordb.Group])
}

func toQueries[R any](reqs []R, convert func(R) vectordb.QueryRequest) []vectordb.QueryRequest {
	out := make([]vectordb.QueryRequest, len(reqs))
	for i, r := range reqs {
		out[i] = convert(r)
	}
	return out
}
