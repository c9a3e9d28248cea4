package storefront

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"pustakbhandar/internal/backend"
	apperrors "pustakbhandar/internal/errors"
	"pustakbhandar/internal/model"
)

// CartBackend reads and writes cart rows.
type CartBackend interface {
	FetchCartItems(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)
	UpsertCartItem(ctx context.Context, item model.CartItem, onConflict string) error
}

// IdentitySource reports who the page is acting for. session.Holder satisfies it.
type IdentitySource interface {
	Identity() *backend.Identity
}

// Cart mirrors the current identity's cart rows.
type Cart struct {
	backend  CartBackend
	identity IdentitySource
	ui       UI
	logger   zerolog.Logger

	items []model.CartItem
}

func NewCart(b CartBackend, identity IdentitySource, ui UI, logger zerolog.Logger) *Cart {
	return &Cart{backend: b, identity: identity, ui: ui, logger: logger}
}

// Fetch reloads the rows. It does nothing without an identity. Failures are
// logged and the previous rows kept; the shopper is not told.
func (c *Cart) Fetch(ctx context.Context) {
	user := c.identity.Identity()
	if user == nil {
		return
	}
	items, err := c.backend.FetchCartItems(ctx, user.ID)
	if err != nil {
		c.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("fetch cart items")
		return
	}
	c.items = items
}

// Add puts one copy of bookID in the cart, overwriting any existing line for
// it. Without an identity the shopper is asked to sign in instead.
func (c *Cart) Add(ctx context.Context, bookID uuid.UUID) error {
	user := c.identity.Identity()
	if user == nil {
		c.ui.PromptAuth()
		return apperrors.ErrUnauthorized
	}

	item := model.CartItem{UserID: user.ID, BookID: bookID, Quantity: 1}
	if err := c.backend.UpsertCartItem(ctx, item, model.CartItemConflictTarget); err != nil {
		c.logger.Error().Err(err).Str("book_id", bookID.String()).Msg("add to cart")
		c.ui.Toast(ToastCartFailed)
		return err
	}

	c.ui.Toast(ToastCartAdded)
	c.Fetch(ctx)
	return nil
}

// Reset forgets the rows, used when the identity goes away.
func (c *Cart) Reset() {
	c.items = nil
}

func (c *Cart) Items() []model.CartItem {
	return c.items
}

// Count is the number of distinct lines, not a sum of quantities.
func (c *Cart) Count() int {
	return len(c.items)
}

// Total sums price times quantity over the lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.LineTotal())
	}
	return total
}
