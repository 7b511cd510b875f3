package dbmysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// KitchenRepository exposes the pantry items and grocery lists the
// on-demand recheck endpoints scan for upcoming expiries and deadlines.
type KitchenRepository interface {
	PantryItemsByOwner(ctx context.Context, userID string) ([]*PantryItem, error)
	GroceryListsByOwner(ctx context.Context, userID string) ([]*GroceryList, error)
}

type kitchenRepository struct {
	db *gorm.DB
}

func NewKitchenRepository(db *gorm.DB) KitchenRepository {
	return &kitchenRepository{db: db}
}

func (r *kitchenRepository) PantryItemsByOwner(ctx context.Context, userID string) ([]*PantryItem, error) {
	var items []*PantryItem

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("expires_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pantry items: %w", err)
	}

	return items, nil
}

func (r *kitchenRepository) GroceryListsByOwner(ctx context.Context, userID string) ([]*GroceryList, error) {
	var lists []*GroceryList

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("due_at ASC").
		Find(&lists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get grocery lists: %w", err)
	}

	return lists, nil
}
