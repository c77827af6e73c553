package qdrant

import (
	"context"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
)

// CreateSnapshot snapshots one collection.
func (c *Client) CreateSnapshot(ctx context.Context, collection string) (*vectordb.SnapshotDescription, error) {
	return run(c, ctx, "create_snapshot", collection, func(ctx context.Context) (*vectordb.SnapshotDescription, error) {
		return c.backend.CreateSnapshot(ctx, collection)
	}, none[*vectordb.SnapshotDescription])
}

// ListSnapshots lists the snapshots of one collection.
func (c *Client) ListSnapshots(ctx context.Context, collection string) ([]vectordb.SnapshotDescription, error) {
	return run(c, ctx, "list_snapshots", collection, func(ctx context.Context) ([]vectordb.SnapshotDescription, error) {
		return c.backend.ListSnapshots(ctx, collection)
	}, count[vectordb.SnapshotDescription])
}

// DeleteSnapshot deletes a snapshot of one collection.
func (c *Client) DeleteSnapshot(ctx context.Context, collection, name string) error {
	return exec(c, ctx, "delete_snapshot", collection, func(ctx context.Context) error {
		return c.backend.DeleteSnapshot(ctx, collection, name)
	})
}

// CreateFullSnapshot snapshots the whole storage.
func (c *Client) CreateFullSnapshot(ctx context.Context) (*vectordb.SnapshotDescription, error) {
	return run(c, ctx, "create_full_snapshot", "", c.backend.CreateFullSnapshot, none[*vectordb.SnapshotDescription])
}

// ListFullSnapshots lists the storage snapshots.
func (c *Client) ListFullSnapshots(ctx context.Context) ([]vectordb.SnapshotDescription, error) {
	return run(c, ctx, "list_full_snapshots", "", c.backend.ListFullSnapshots, count[vectordb.SnapshotDescription])
}

// DeleteFullSnapshot deletes a storage snapshot.
func (c *Client) DeleteFullSnapshot(ctx context.Context, name string) error {
	return exec(c, ctx, "delete_full_snapshot", "", func(ctx context.Context) error {
		return c.backend.DeleteFullSnapshot(ctx, name)
	})
}
