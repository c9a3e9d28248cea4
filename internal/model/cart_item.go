package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItemConflictTarget is the uniqueness constraint cart upserts resolve against.
const CartItemConflictTarget = "user_id,book_id"

// CartItem is one line of a user's cart. At most one row exists per (user, book).
type CartItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_cart_items_user_book"`
	BookID    uuid.UUID `json:"book_id" gorm:"type:char(36);not null;uniqueIndex:idx_cart_items_user_book"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Book *Book `json:"books,omitempty" gorm:"foreignKey:BookID"`
}

// BeforeCreate sets UUID before creating the record.
func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// LineTotal is the joined book price times quantity, zero when the book was not joined.
func (c CartItem) LineTotal() decimal.Decimal {
	if c.Book == nil {
		return decimal.Zero
	}
	return c.Book.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
