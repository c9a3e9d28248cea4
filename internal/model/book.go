package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Book is a purchasable title. Rows are maintained by an admin process outside the storefront.
type Book struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Title         string          `json:"title" gorm:"size:255;not null"`
	Author        string          `json:"author" gorm:"size:255;not null;index"`
	Genre         string          `json:"genre" gorm:"size:64;not null;index"`
	Description   string          `json:"description" gorm:"type:text"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null;default:0"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0"`
	CreatedAt     time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// InStock reports whether the book can be added to a cart.
func (b Book) InStock() bool {
	return b.StockQuantity > 0
}
