// Package storage deletes photo assets held by a remote object store.
package storage

import (
	"context"
	"fmt"

	"heartline/internal/config"
)

// Deletion outcomes reported in DeletionResult.Result.
const (
	ResultOK       = "ok"
	ResultNotFound = "not found"
)

// DeletionResult is the remote store's answer to a delete request. Only
// ResultOK confirms the asset is gone.
type DeletionResult struct {
	Result string
}

// OK reports whether the deletion was confirmed.
func (r DeletionResult) OK() bool { return r.Result == ResultOK }

// AssetStore removes photo assets by their public id.
type AssetStore interface {
	DeletePhoto(ctx context.Context, publicID string) (DeletionResult, error)
}

// New builds the asset store selected by cfg.AssetStore.
func New(ctx context.Context, cfg *config.Config) (AssetStore, error) {
	switch cfg.AssetStore {
	case config.AssetStoreS3:
		return NewS3Store(ctx, S3Options{
			Bucket:    cfg.AssetBucket,
			Endpoint:  cfg.AssetEndpoint,
			Region:    cfg.AssetRegion,
			AccessKey: cfg.AssetAccessKey,
			SecretKey: cfg.AssetSecretKey,
		})
	case config.AssetStoreMinio:
		return NewMinioStore(cfg.AssetEndpoint, cfg.AssetAccessKey, cfg.AssetSecretKey, cfg.AssetBucket, cfg.AssetUseSSL)
	case "", config.AssetStoreNone:
		return NoopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown asset store %q", cfg.AssetStore)
	}
}

// NoopStore is used when no remote store is configured. There is nothing to
// delete remotely, so every deletion is confirmed.
type NoopStore struct{}

// DeletePhoto always confirms.
func (NoopStore) DeletePhoto(context.Context, string) (DeletionResult, error) {
	return DeletionResult{Result: ResultOK}, nil
}
