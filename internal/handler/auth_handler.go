package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"pustakbhandar/internal/backend"
	"pustakbhandar/internal/storefront"
)

// AuthHandler handles the sign-in, sign-up and sign-out forms.
type AuthHandler struct {
	store *Storefront
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(store *Storefront) *AuthHandler {
	return &AuthHandler{store: store}
}

// SignInForm is posted by the sign-in dialog.
type SignInForm struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required,min=6"`
	ReturnTo string `form:"return_to" json:"return_to"`
}

// SignUpForm is posted by the sign-up dialog.
type SignUpForm struct {
	FullName string `form:"full_name" json:"full_name" validate:"max=255"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required,min=6"`
	ReturnTo string `form:"return_to" json:"return_to"`
}

// SignIn signs the browser in and returns to where the dialog was opened.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var form SignInForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return h.rejectForm(c, form.ReturnTo, storefront.ToastSignInFailed)
	}

	return h.withPage(c, form.ReturnTo, func(page *storefront.Page) error {
		return page.SignIn(c.Request().Context(), backend.Credentials{Email: form.Email, Password: form.Password})
	})
}

// SignUp creates an account; most backends sign it in right away.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var form SignUpForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return h.rejectForm(c, form.ReturnTo, storefront.ToastSignUpFailed)
	}

	return h.withPage(c, form.ReturnTo, func(page *storefront.Page) error {
		return page.SignUp(c.Request().Context(), backend.SignUpRequest{
			Email:    form.Email,
			Password: form.Password,
			FullName: form.FullName,
		})
	})
}

// SignOut ends the browser's session.
func (h *AuthHandler) SignOut(c echo.Context) error {
	return h.withPage(c, "/", func(page *storefront.Page) error {
		return page.SignOut(c.Request().Context())
	})
}

// withPage runs action on a mounted page and redirects. A failed action
// reopens the auth dialog; its toast explains why.
func (h *AuthHandler) withPage(c echo.Context, returnTo string, action func(*storefront.Page) error) error {
	ui := &storefront.Feedback{}
	page, err := h.store.openPage(c, ui)
	if err != nil {
		return err
	}
	defer page.Close()

	target := safeReturn(returnTo)
	if err := action(page); err != nil && page.Identity() == nil {
		target = withAuthDialog(target)
	}
	setFlash(c, h.store.cookies, ui.Toasts())
	return c.Redirect(http.StatusSeeOther, target)
}

func (h *AuthHandler) rejectForm(c echo.Context, returnTo string, toast storefront.Toast) error {
	setFlash(c, h.store.cookies, []storefront.Toast{toast})
	return c.Redirect(http.StatusSeeOther, withAuthDialog(safeReturn(returnTo)))
}

func withAuthDialog(target string) string {
	if target == "/" {
		return "/?auth=1"
	}
	if strings.Contains(target, "?") {
		return target + "&auth=1"
	}
	return target + "?auth=1"
}
