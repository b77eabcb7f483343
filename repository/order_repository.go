package repository

import (
	"context"
	"fmt"

	"audiodeck/model"
	"audiodeck/storage"
)

// OrderRepository stores custom playlist orderings by key.
type OrderRepository interface {
	GetAll(ctx context.Context) (model.Orders, error)
	Save(ctx context.Context, key string, trackIDs []string) error
}

type documentOrderRepository struct {
	store storage.DocumentStore
}

// NewOrderRepository creates an OrderRepository backed by store.
func NewOrderRepository(store storage.DocumentStore) OrderRepository {
	return &documentOrderRepository{store: store}
}

func (r *documentOrderRepository) GetAll(ctx context.Context) (model.Orders, error) {
	orders := model.Orders{}
	if _, err := r.store.Load(ctx, storage.DocOrders, &orders); err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	if orders == nil {
		orders = model.Orders{}
	}
	return orders, nil
}

func (r *documentOrderRepository) Save(ctx context.Context, key string, trackIDs []string) error {
	orders, err := r.GetAll(ctx)
	if err != nil {
		return err
	}
	if trackIDs == nil {
		trackIDs = []string{}
	}
	orders[key] = trackIDs
	if err := r.store.Save(ctx, storage.DocOrders, orders); err != nil {
		return fmt.Errorf("failed to save orders: %w", err)
	}
	return nil
}
