package qdrant

import (
	"context"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
)

// Upsert inserts or replaces points.
func (c *Client) Upsert(ctx context.Context, req vectordb.UpsertRequest) (*vectordb.UpdateResult, error) {
	return run(c, ctx, "upsert", req.Collection, func(ctx context.Context) (*vectordb.UpdateResult, error) {
		return c.backend.Upsert(ctx, req)
	}, func(*vectordb.UpdateResult) int64 { return int64(len(req.Points)) })
}

// Get retrieves points by id. Missing ids are skipped, not reported.
func (c *Client) Get(ctx context.Context, req vectordb.GetRequest) ([]vectordb.Record, error) {
	return run(c, ctx, "get", req.Collection, func(ctx context.Context) ([]vectordb.Record, error) {
		return c.backend.Get(ctx, req)
	}, count[vectordb.Record])
}

// Delete removes the selected points. A selector with an empty filter
// deletes every point and is logged at Warn.
func (c *Client) Delete(ctx context.Context, req vectordb.DeleteRequest) (*vectordb.UpdateResult, error) {
	c.warnMatchesAll(ctx, "delete", req.Collection, req.Selector)
	return run(c, ctx, "delete", req.Collection, func(ctx context.Context) (*vectordb.UpdateResult, error) {
		return c.backend.Delete(ctx, req)
	}, none[*vectordb.UpdateResult])
}

// Scroll returns one page of points. Pass the page's NextOffset as the next
// request's Offset to continue; it is nil on the last page.
func (c *Client) Scroll(ctx context.Context, req vectordb.ScrollRequest) (*vectordb.ScrollPage, error) {
	return run(c, ctx, "scroll", req.Collection, func(ctx context.Context) (*vectordb.ScrollPage, error) {
		return c.backend.Scroll(ctx, req)
	}, func(p *vectordb.ScrollPage) int64 { return int64(len(p.Points)) })
}

// Count returns the number of points matching the filter.
func (c *Client) Count(ctx context.Context, req vectordb.CountRequest) (uint64, error) {
	return run(c, ctx, "count", req.Collection, func(ctx context.Context) (uint64, error) {
		return c.backend.Count(ctx, req)
	}, none[uint64])
}

// warnMatchesAll logs a destructive operation whose filter has no conditions.
func (c *Client) warnMatchesAll(ctx context.Context, op, collection string, s vectordb.PointsSelector) {
	if s.Filter == nil || !s.Filter.IsEmpty() {
		return
	}
	c.logger.WarnWithContext(ctx, "[Qdrant] empty filter selects every point", nil, map[string]interface{}{
		"op":         op,
		"collection": collection,
	})
}

// ── Payload ──────────────────────────────────────────────────────────────────

// SetPayload merges the payload into the selected points.
func (c *Client) SetPayload(ctx context.Context, req vectordb.SetPayloadRequest) (*vectordb.UpdateResult, error) {
	return run(c, ctx, "set_payload", req.Collection, func(ctx context.Context) (*vectordb.UpdateResult, error) {
		return c.backend.SetPayload(ctx, req)
	}, none[*vectordb.UpdateResult])
}

// OverwritePayload replaces the payload of the selected points.
func (c *Client) OverwritePayload(ctx context.Context, req vectordb.SetPayloadRequest) (*vectordb.UpdateResult, error) {
	return run(c, ctx, "overwrite_payload", req.Collection, func(ctx context.Context) (*vectordb.UpdateResult, error) {
		return c.backend.OverwritePayload(ctx, req)
	}, none[*vectordb.UpdateResult])
}

// DeletePayload removes payload keys from the selected points.
func (c *Client) DeletePayload(ctx context.Context, req vectordb.DeletePayloadRequest) (*vectordb.UpdateResult, error) {
	c.warnMatchesAll(ctx, "delete_payload", req.Collection, req.Selector)
	return run(c, ctx, "delete_payload", req.Collection, func(ctx context.Context) (*vectordb.UpdateResult, error) {
		return c.backend.DeletePayload(ctx, req)
	}, none[*vectordb.UpdateResult])
}

// ClearPayload removes the whole payload of the selected points.
func (c *Client) ClearPayload(ctx context.Context, req vectordb.ClearPayloadRequest) (*vectordb.UpdateResult, error) {
	c.warnMatchesAll(ctx, "clear_payload", req.Collection, req.Selector)
	return run(c, ctx, "clear_payload", req.Collection, func(ctx context.Context) (*vectordb.UpdateResult, error) {
		return c.backend.ClearPayload(ctx, req)
	}, none[*vectordb.UpdateResult])
}

// ── Vectors ──────────────────────────────────────────────────────────────────

// UpdateVectors replaces the named vectors of existing points.
func (c *Client) UpdateVectors(ctx context.Context, req vectordb.UpdateVectorsRequest) (*vectordb.UpdateResult, error) {
	return run(c, ctx, "update_vectors", req.Collection, func(ctx context.Context) (*vectordb.UpdateResult, error) {
		return c.backend.UpdateVectors(ctx, req)
	}, func(*vectordb.UpdateResult) int64 { return int64(len(req.Points)) })
}

// DeleteVectors removes the named vectors from the selected points.
func (c *Client) DeleteVectors(ctx context.Context, req vectordb.DeleteVectorsRequest) (*vectordb.UpdateResult, error) {
	return run(c, ctx, "delete_vectors", req.Collection, func(ctx context.Context) (*vectordb.UpdateResult, error) {
		return c.backend.DeleteVectors(ctx, req)
	}, none[*vectordb.UpdateResult])
}

// ── Indexes ──────────────────────────────────────────────────────────────────

// CreateFieldIndex indexes a payload field.
func (c *Client) CreateFieldIndex(ctx context.Context, req vectordb.FieldIndexRequest) (*vectordb.UpdateResult, error) {
	return run(c, ctx, "create_field_index", req.Collection, func(ctx context.Context) (*vectordb.UpdateResult, error) {
		return c.backend.CreateFieldIndex(ctx, req)
	}, none[*vectordb.UpdateResult])
}

// DeleteFieldIndex drops a payload field index.
func (c *Client) DeleteFieldIndex(ctx context.Context, req vectordb.FieldIndexRequest) (*vectordb.UpdateResult, error) {
	return run(c, ctx, "delete_field_index", req.Collection, func(ctx context.Context) (*vectordb.UpdateResult, error) {
		return c.backend.DeleteFieldIndex(ctx, req)
	}, none[*vectordb.UpdateResult])
}

// UpdateBatch applies several write operations in one call, in order.
func (c *Client) UpdateBatch(ctx context.Context, req vectordb.UpdateBatchRequest) ([]vectordb.UpdateResult, error) {
	return run(c, ctx, "update_batch", req.Collection, func(ctx context.Context) ([]vectordb.UpdateResult, error) {
		return c.backend.UpdateBatch(ctx, req)
	}, count[vectordb.UpdateResult])
}
