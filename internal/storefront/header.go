package storefront

import (
	"pustakbhandar/internal/backend"
	"pustakbhandar/internal/model"
)

const (
	greetingPrefix = "स्वागत, "
	adminMarker    = "(एडमिन)"
)

// Header is the render model of the navigation bar.
type Header struct {
	SignedIn    bool
	Greeting    string
	AdminMarker string
	ShowAdmin   bool
	CartCount   int
	ShowBadge   bool
}

// BuildHeader derives the navigation bar. The profile name wins over the
// email; without a loaded profile nobody is treated as admin.
func BuildHeader(identity *backend.Identity, profile *model.Profile, cartCount int) Header {
	if identity == nil {
		return Header{}
	}
	if cartCount < 0 {
		cartCount = 0
	}

	name := profile.DisplayName()
	if name == "" {
		name = identity.Email
	}

	h := Header{
		SignedIn:  true,
		Greeting:  greetingPrefix + name,
		ShowAdmin: profile.IsAdmin(),
		CartCount: cartCount,
		ShowBadge: cartCount > 0,
	}
	if h.ShowAdmin {
		h.AdminMarker = adminMarker
	}
	return h
}
