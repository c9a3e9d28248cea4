package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"pustakbhandar/internal/auth"
	"pustakbhandar/internal/backend"
	"pustakbhandar/internal/errors"
	"pustakbhandar/internal/model"
	"pustakbhandar/internal/storefront"
)

// BearerContextKey is where the API auth middleware stores the caller.
const BearerContextKey = "user"

// Bearer is an API caller's verified access token.
type Bearer struct {
	Token  string
	Claims *auth.Claims
}

// BearerParser verifies access tokens for echo-jwt. Refresh tokens are refused.
func BearerParser(jwtService *auth.JWTService) func(c echo.Context, token string) (interface{}, error) {
	return func(c echo.Context, token string) (interface{}, error) {
		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			return nil, err
		}
		if claims.Role != auth.RoleAuthenticated {
			return nil, auth.ErrInvalidToken
		}
		return &Bearer{Token: token, Claims: claims}, nil
	}
}

// APIHandler serves the JSON API.
type APIHandler struct {
	store *Storefront
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(store *Storefront) *APIHandler {
	return &APIHandler{store: store}
}

// AddToCartRequest represents an add-to-cart request.
type AddToCartRequest struct {
	BookID string `json:"book_id" validate:"required,uuid"`
}

// MeResponse describes the caller.
type MeResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Role      string    `json:"role,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CartCount int       `json:"cart_count"`
}

// CartResponse lists the caller's cart.
type CartResponse struct {
	Items  []model.CartItem   `json:"items"`
	Count  int                `json:"count"`
	Total  decimal.Decimal    `json:"total"`
	Toasts []storefront.Toast `json:"toasts,omitempty"`
}

// ListBooks godoc
// @Summary List books
// @Description Newest first. An unknown genre returns every book.
// @Tags books
// @Produce json
// @Param genre query string false "Genre filter"
// @Success 200 {array} model.Book
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/books [get]
func (h *APIHandler) ListBooks(c echo.Context) error {
	client := backend.New(h.store.provider, backend.NewMemoryStorage(nil), h.store.logger)
	books, err := client.FetchBooks(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	if books == nil {
		books = []model.Book{}
	}
	return c.JSON(http.StatusOK, storefront.FilterByGenre(books, storefront.NormalizeGenre(c.QueryParam("genre"))))
}

// Me godoc
// @Summary Current user
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/me [get]
func (h *APIHandler) Me(c echo.Context) error {
	page, err := h.bearerPage(c, &storefront.Feedback{})
	if err != nil {
		return respondError(c, err)
	}
	defer page.Close()

	v := page.View()
	resp := MeResponse{
		ID:        v.Identity.ID,
		Email:     v.Identity.Email,
		FullName:  v.Profile.DisplayName(),
		IsAdmin:   v.Profile.IsAdmin(),
		CartCount: v.Header.CartCount,
	}
	if v.Profile != nil {
		resp.Role = v.Profile.Role
	}
	return c.JSON(http.StatusOK, resp)
}

// ListCart godoc
// @Summary List cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CartResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/cart [get]
func (h *APIHandler) ListCart(c echo.Context) error {
	page, err := h.bearerPage(c, &storefront.Feedback{})
	if err != nil {
		return respondError(c, err)
	}
	defer page.Close()

	return c.JSON(http.StatusOK, cartResponse(page.View(), nil))
}

// AddToCart godoc
// @Summary Add a book to the cart
// @Description Sets the line for the book to quantity 1.
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddToCartRequest true "Book to add"
// @Success 200 {object} CartResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/cart [post]
func (h *APIHandler) AddToCart(c echo.Context) error {
	var req AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid request body", Code: "INVALID_REQUEST"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{Error: err.Error(), Code: "VALIDATION_FAILED"})
	}

	ui := &storefront.Feedback{}
	page, err := h.bearerPage(c, ui)
	if err != nil {
		return respondError(c, err)
	}
	defer page.Close()

	if err := page.AddToCart(c.Request().Context(), uuid.MustParse(req.BookID)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cartResponse(page.View(), ui.Toasts()))
}

// bearerPage mounts a page for the verified caller, refusing tokens the
// backend no longer accepts.
func (h *APIHandler) bearerPage(c echo.Context, ui storefront.UI) (*storefront.Page, error) {
	bearer, ok := c.Get(BearerContextKey).(*Bearer)
	if !ok {
		return nil, errors.ErrUnauthorized
	}
	page, err := h.store.openBearerPage(c, bearer.Token, ui)
	if err != nil {
		return nil, err
	}
	if page.Identity() == nil {
		page.Close()
		return nil, errors.ErrUnauthorized
	}
	return page, nil
}

func cartResponse(v storefront.View, toasts []storefront.Toast) CartResponse {
	items := v.CartItems
	if items == nil {
		items = []model.CartItem{}
	}
	return CartResponse{Items: items, Count: len(items), Total: v.CartTotal, Toasts: toasts}
}

func respondError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}
