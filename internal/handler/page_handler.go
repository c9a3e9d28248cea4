package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "pustakbhandar/internal/errors"
	"pustakbhandar/internal/storefront"
	"pustakbhandar/internal/view"
)

// PageHandler serves the HTML storefront.
type PageHandler struct {
	store *Storefront
}

// NewPageHandler creates a new page handler.
func NewPageHandler(store *Storefront) *PageHandler {
	return &PageHandler{store: store}
}

// AddToCartForm is posted by the add button on a book card.
type AddToCartForm struct {
	BookID string `form:"book_id" json:"book_id" validate:"required,uuid"`
	Genre  string `form:"genre" json:"genre"`
}

// Index renders the catalog.
func (h *PageHandler) Index(c echo.Context) error {
	ui := &storefront.Feedback{}
	page, err := h.store.openPage(c, ui)
	if err != nil {
		return err
	}
	defer page.Close()

	page.SelectGenre(c.Request().Context(), c.QueryParam("genre"))
	v := page.View()

	return c.Render(http.StatusOK, view.PageIndex, view.Data{
		View:     v,
		Toasts:   append(takeFlash(c, h.store.cookies), ui.Toasts()...),
		ShowAuth: c.QueryParam("auth") == "1" && v.Identity == nil,
		ReturnTo: indexURL(v.Genre, false),
	})
}

// Cart renders the signed-in shopper's cart.
func (h *PageHandler) Cart(c echo.Context) error {
	ui := &storefront.Feedback{}
	page, err := h.store.openPage(c, ui)
	if err != nil {
		return err
	}
	defer page.Close()

	v := page.View()
	if v.Identity == nil {
		setFlash(c, h.store.cookies, ui.Toasts())
		return c.Redirect(http.StatusSeeOther, indexURL("", true))
	}

	return c.Render(http.StatusOK, view.PageCart, view.Data{
		View:     v,
		Toasts:   append(takeFlash(c, h.store.cookies), ui.Toasts()...),
		ReturnTo: "/cart",
	})
}

// AddToCart handles the add button and redirects back to the catalog.
func (h *PageHandler) AddToCart(c echo.Context) error {
	var form AddToCartForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	bookID := uuid.MustParse(form.BookID)
	genre := storefront.NormalizeGenre(form.Genre)

	ui := &storefront.Feedback{}
	page, err := h.store.openPage(c, ui)
	if err != nil {
		return err
	}
	defer page.Close()

	err = page.AddToCart(c.Request().Context(), bookID)
	setFlash(c, h.store.cookies, ui.Toasts())
	if err != nil && !errors.Is(err, apperrors.ErrUnauthorized) {
		h.store.logger.Debug().Err(err).Str("book_id", bookID.String()).Msg("add to cart refused")
	}
	return c.Redirect(http.StatusSeeOther, indexURL(genre, ui.AuthPrompts() > 0))
}
