// Package storage persists whole JSON documents (metadata, presets, orders,
// settings). Every backend has load-all/save-all semantics and keeps no
// in-memory copy, so callers always see the latest persisted state.
package storage

import (
	"context"
	"fmt"

	"audiodeck/config"
	"audiodeck/logger"
)

// Document names used by the repositories.
const (
	DocMetadata = "metadata"
	DocPresets  = "presets"
	DocOrders   = "orders"
	DocSettings = "settings"
)

// DocumentStore loads and saves named JSON documents.
type DocumentStore interface {
	// Load decodes the named document into v. It reports false, and leaves v
	// untouched, when the document has never been saved.
	Load(ctx context.Context, name string, v any) (bool, error)
	// Save replaces the named document with the JSON encoding of v.
	Save(ctx context.Context, name string, v any) error
	// Close releases backend resources.
	Close() error
}

// NewDocumentStore builds the backend selected by cfg.StoreBackend.
func NewDocumentStore(ctx context.Context, cfg *config.Config) (DocumentStore, error) {
	logger.Info("初始化文档存储", logger.String("backend", cfg.StoreBackend))

	switch cfg.StoreBackend {
	case config.StoreBackendFile, "":
		return NewFileStore(cfg.DataDir)
	case config.StoreBackendRedis:
		return NewRedisStore(ctx, cfg)
	case config.StoreBackendMinio:
		return NewMinioStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
