package repository

import (
	"context"
	"fmt"
	"strings"

	"audiodeck/logger"
	"audiodeck/model"
	"audiodeck/storage"
)

// MetadataRepository maps track paths to metadata records. Every method
// re-reads the persisted document.
type MetadataRepository interface {
	GetAll(ctx context.Context) (map[string]model.TrackMetadata, error)
	Get(ctx context.Context, path string) (model.TrackMetadata, error)
	// Save merges partial into the record at path.
	Save(ctx context.Context, path string, partial model.TrackMetadata) error
	// UpdateID moves the record at oldPath to newPath. Missing oldPath is a no-op.
	UpdateID(ctx context.Context, oldPath, newPath string) error
	// RewritePrefix replaces a leading oldPrefix with newPrefix on every key
	// and reports how many keys changed.
	RewritePrefix(ctx context.Context, oldPrefix, newPrefix string) (int, error)
	// Delete removes the given keys and reports how many existed.
	Delete(ctx context.Context, paths ...string) (int, error)
}

type documentMetadataRepository struct {
	store storage.DocumentStore
}

// NewMetadataRepository creates a MetadataRepository backed by store.
func NewMetadataRepository(store storage.DocumentStore) MetadataRepository {
	return &documentMetadataRepository{store: store}
}

func (r *documentMetadataRepository) load(ctx context.Context) (map[string]model.TrackMetadata, error) {
	meta := map[string]model.TrackMetadata{}
	if _, err := r.store.Load(ctx, storage.DocMetadata, &meta); err != nil {
		return nil, fmt.Errorf("failed to load metadata: %w", err)
	}
	if meta == nil {
		meta = map[string]model.TrackMetadata{}
	}
	return meta, nil
}

func (r *documentMetadataRepository) save(ctx context.Context, meta map[string]model.TrackMetadata) error {
	if err := r.store.Save(ctx, storage.DocMetadata, meta); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}

func (r *documentMetadataRepository) GetAll(ctx context.Context) (map[string]model.TrackMetadata, error) {
	return r.load(ctx)
}

func (r *documentMetadataRepository) Get(ctx context.Context, path string) (model.TrackMetadata, error) {
	meta, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if rec, ok := meta[path]; ok {
		return rec, nil
	}
	return model.TrackMetadata{}, nil
}

func (r *documentMetadataRepository) Save(ctx context.Context, path string, partial model.TrackMetadata) error {
	meta, err := r.load(ctx)
	if err != nil {
		return err
	}
	meta[path] = meta[path].Merge(partial)
	return r.save(ctx, meta)
}

func (r *documentMetadataRepository) UpdateID(ctx context.Context, oldPath, newPath string) error {
	if oldPath == newPath {
		return nil
	}
	meta, err := r.load(ctx)
	if err != nil {
		return err
	}
	rec, ok := meta[oldPath]
	if !ok {
		return nil
	}
	meta[newPath] = rec
	delete(meta, oldPath)
	return r.save(ctx, meta)
}

func (r *documentMetadataRepository) RewritePrefix(ctx context.Context, oldPrefix, newPrefix string) (int, error) {
	if oldPrefix == "" || oldPrefix == newPrefix {
		return 0, nil
	}
	meta, err := r.load(ctx)
	if err != nil {
		return 0, err
	}

	// Build the result from the snapshot so a rewritten key is never read again.
	rewritten := make(map[string]model.TrackMetadata, len(meta))
	changed := 0
	for key, rec := range meta {
		if strings.HasPrefix(key, oldPrefix) {
			rewritten[newPrefix+strings.TrimPrefix(key, oldPrefix)] = rec
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	for key, rec := range meta {
		if strings.HasPrefix(key, oldPrefix) {
			continue
		}
		if _, taken := rewritten[key]; taken {
			// A rewritten key landed on an existing one; the moved record wins.
			continue
		}
		rewritten[key] = rec
	}

	if err := r.save(ctx, rewritten); err != nil {
		return 0, err
	}
	logger.Debug("metadata prefix rewritten",
		logger.String("from", oldPrefix),
		logger.String("to", newPrefix),
		logger.Int("keys", changed))
	return changed, nil
}

func (r *documentMetadataRepository) Delete(ctx context.Context, paths ...string) (int, error) {
	if len(paths) == 0 {
		return 0, nil
	}
	meta, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, p := range paths {
		if _, ok := meta[p]; ok {
			delete(meta, p)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, r.save(ctx, meta)
}
