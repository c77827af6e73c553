package qdrant

import (
	"context"
	"errors"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
)

// CreateCollection creates a collection. An existing name fails with
// CollectionAlreadyExists.
func (c *Client) CreateCollection(ctx context.Context, req vectordb.CreateCollectionRequest) error {
	return exec(c, ctx, "create_collection", req.Name, func(ctx context.Context) error {
		return c.backend.CreateCollection(ctx, req)
	})
}

// GetCollection returns the status and configuration of a collection.
func (c *Client) GetCollection(ctx context.Context, name string) (*vectordb.CollectionInfo, error) {
	return run(c, ctx, "get_collection", name, func(ctx context.Context) (*vectordb.CollectionInfo, error) {
		return c.backend.GetCollection(ctx, name)
	}, none[*vectordb.CollectionInfo])
}

// ListCollections returns the names of all collections.
func (c *Client) ListCollections(ctx context.Context) ([]string, error) {
	return run(c, ctx, "list_collections", "", c.backend.ListCollections, count[string])
}

// DeleteCollection removes a collection and all its points.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	return exec(c, ctx, "delete_collection", name, func(ctx context.Context) error {
		return c.backend.DeleteCollection(ctx, name)
	})
}

// CollectionExists reports whether a collection with the given name exists.
func (c *Client) CollectionExists(ctx context.Context, name string) (bool, error) {
	return run(c, ctx, "collection_exists", name, func(ctx context.Context) (bool, error) {
		return c.backend.CollectionExists(ctx, name)
	}, none[bool])
}

// EnsureCollection ──────────────────────────────────────────────────────────────
// EnsureCollection
// ──────────────────────────────────────────────────────────────
//
// EnsureCollection creates the collection unless it already exists.
//
// It's safe to call this multiple times and from several instances at once:
// losing the creation race to another caller counts as success.
func (c *Client) EnsureCollection(ctx context.Context, req vectordb.CreateCollectionRequest) error {
	if req.Name == "" {
		return vectordb.InvalidArgument("collection name cannot be empty")
	}

	exists, err := c.CollectionExists(ctx, req.Name)
	if err != nil {
		return err
	}
	if exists {
		c.logger.Debug("[Qdrant] collection already exists", nil, map[string]interface{}{"collection": req.Name})
		return nil
	}

	err = c.CreateCollection(ctx, req)
	if errors.Is(err, vectordb.ErrCollectionAlreadyExists) {
		return nil
	}
	if err != nil {
		return err
	}
	c.logger.Info("[Qdrant] created collection", nil, map[string]interface{}{
		"collection": req.Name,
		"vectors":    req.Vectors,
	})
	return nil
}
