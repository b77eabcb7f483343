package repository

import (
	"context"
	"fmt"

	"audiodeck/model"
	"audiodeck/storage"
)

// SettingsRepository stores the single settings document. Save replaces it.
type SettingsRepository interface {
	Get(ctx context.Context) (model.Settings, error)
	Save(ctx context.Context, settings model.Settings) error
}

type documentSettingsRepository struct {
	store storage.DocumentStore
}

func NewSettingsRepository(store storage.DocumentStore) SettingsRepository {
	return &documentSettingsRepository{store: store}
}

func (r *documentSettingsRepository) Get(ctx context.Context) (model.Settings, error) {
	settings := model.Settings{}
	if _, err := r.store.Load(ctx, storage.DocSettings, &settings); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings == nil {
		settings = model.Settings{}
	}
	return settings, nil
}

func (r *documentSettingsRepository) Save(ctx context.Context, settings model.Settings) error {
	if settings == nil {
		settings = model.Settings{}
	}
	if err := r.store.Save(ctx, storage.DocSettings, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
