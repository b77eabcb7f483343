package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"audiodeck/model"
	"audiodeck/storage"

	"github.com/google/uuid"
)

// PresetRepository stores presets as one ordered list.
type PresetRepository interface {
	List(ctx context.Context) ([]model.Preset, error)
	// Save replaces the preset with the same id in place, or appends it.
	// An empty id is filled with a new UUID.
	Save(ctx context.Context, preset model.Preset) (model.Preset, error)
	Delete(ctx context.Context, id string) error
}

type documentPresetRepository struct {
	store storage.DocumentStore
}

// NewPresetRepository creates a PresetRepository backed by store.
func NewPresetRepository(store storage.DocumentStore) PresetRepository {
	return &documentPresetRepository{store: store}
}

func (r *documentPresetRepository) List(ctx context.Context) ([]model.Preset, error) {
	presets := []model.Preset{}
	if _, err := r.store.Load(ctx, storage.DocPresets, &presets); err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}
	if presets == nil {
		presets = []model.Preset{}
	}
	return presets, nil
}

func (r *documentPresetRepository) Save(ctx context.Context, preset model.Preset) (model.Preset, error) {
	if preset.ID == "" {
		preset.ID = uuid.NewString()
	}
	if preset.Tracks == nil {
		preset.Tracks = []json.RawMessage{}
	}

	presets, err := r.List(ctx)
	if err != nil {
		return model.Preset{}, err
	}

	replaced := false
	for i := range presets {
		if presets[i].ID == preset.ID {
			presets[i] = preset
			replaced = true
			break
		}
	}
	if !replaced {
		presets = append(presets, preset)
	}

	if err := r.store.Save(ctx, storage.DocPresets, presets); err != nil {
		return model.Preset{}, fmt.Errorf("failed to save presets: %w", err)
	}
	return preset, nil
}

func (r *documentPresetRepository) Delete(ctx context.Context, id string) error {
	presets, err := r.List(ctx)
	if err != nil {
		return err
	}
	kept := presets[:0]
	for _, p := range presets {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(presets) {
		return nil
	}
	if err := r.store.Save(ctx, storage.DocPresets, kept); err != nil {
		return fmt.Errorf("failed to save presets: %w", err)
	}
	return nil
}
