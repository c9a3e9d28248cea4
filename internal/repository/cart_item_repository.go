package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pustakbhandar/internal/model"
)

// CartItemRepository defines cart persistence operations.
type CartItemRepository interface {
	// FindByUserWithBooks returns the user's rows with the referenced book preloaded.
	FindByUserWithBooks(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)
	// Upsert inserts the row, or overwrites quantity when a row already satisfies
	// the comma separated conflict columns.
	Upsert(ctx context.Context, item *model.CartItem, onConflict string) error
}

type cartItemRepository struct {
	db *gorm.DB
}

// NewCartItemRepository creates a new cart item repository.
func NewCartItemRepository(db *gorm.DB) CartItemRepository {
	return &cartItemRepository{db: db}
}

func (r *cartItemRepository) FindByUserWithBooks(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartItemRepository) Upsert(ctx context.Context, item *model.CartItem, onConflict string) error {
	columns, err := conflictColumns(onConflict)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Omit("Book").
		Clauses(clause.OnConflict{
			Columns:   columns,
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(item).Error
}

func conflictColumns(onConflict string) ([]clause.Column, error) {
	var columns []clause.Column
	for _, name := range strings.Split(onConflict, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		columns = append(columns, clause.Column{Name: name})
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("empty conflict target %q", onConflict)
	}
	return columns, nil
}
