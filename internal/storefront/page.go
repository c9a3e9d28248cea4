package storefront

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"pustakbhandar/internal/backend"
	apperrors "pustakbhandar/internal/errors"
	"pustakbhandar/internal/model"
	"pustakbhandar/internal/session"
)

// Backend is everything a page asks of the backend client.
type Backend interface {
	session.Authenticator
	BookSource
	CartBackend
	ProfileSource
	SignInWithPassword(ctx context.Context, creds backend.Credentials) (*backend.Session, error)
	SignUp(ctx context.Context, req backend.SignUpRequest) (*backend.Session, error)
	SignOut(ctx context.Context) error
}

// Page is one shopper's view of the store for the lifetime of a request.
// It is not safe for concurrent use.
type Page struct {
	client  Backend
	holder  *session.Holder
	catalog *Catalog
	cart    *Cart
	profile *ProfileLookup
	ui      UI
	logger  zerolog.Logger

	effectsRan      bool
	effectsRevision uint64
}

// View is the render model of a page.
type View struct {
	Header    Header
	Genres    []string
	Genre     string
	Books     []model.Book
	Empty     bool
	Identity  *backend.Identity
	Profile   *model.Profile
	CartItems []model.CartItem
	CartTotal decimal.Decimal
}

func NewPage(client Backend, ui UI, logger zerolog.Logger) *Page {
	logger = logger.With().Str("component", "page").Logger()
	holder := session.NewHolder(client, logger)
	return &Page{
		client:  client,
		holder:  holder,
		catalog: NewCatalog(client, ui, logger),
		cart:    NewCart(client, holder, ui, logger),
		profile: NewProfileLookup(client, logger),
		ui:      ui,
		logger:  logger,
	}
}

// Mount resolves the session and loads what the page shows.
func (p *Page) Mount(ctx context.Context) error {
	if err := p.holder.Start(ctx); err != nil {
		return err
	}
	p.logger.Debug().Stringer("session", p.holder.State()).Msg("page mounted")
	p.runEffects(ctx)
	return nil
}

// Close releases the session subscription.
func (p *Page) Close() {
	p.holder.Close()
}

// runEffects reloads identity dependent state once per identity change:
// the catalog every time, cart and profile only with an identity.
func (p *Page) runEffects(ctx context.Context) {
	revision := p.holder.Revision()
	if p.effectsRan && revision == p.effectsRevision {
		return
	}
	p.effectsRan = true
	p.effectsRevision = revision

	_ = p.catalog.Fetch(ctx)

	p.cart.Reset()
	identity := p.holder.Identity()
	if identity == nil {
		p.profile.Clear()
		return
	}
	p.cart.Fetch(ctx)
	p.profile.Load(ctx, identity)
}

// SelectGenre switches the filter. Unknown genres show everything.
func (p *Page) SelectGenre(ctx context.Context, genre string) {
	p.catalog.SelectGenre(NormalizeGenre(genre))
	p.runEffects(ctx)
}

// AddToCart adds bookID for the current identity. Books missing from the
// catalog or out of stock are refused without calling the backend.
func (p *Page) AddToCart(ctx context.Context, bookID uuid.UUID) error {
	book, ok := p.catalog.Find(bookID)
	if !ok {
		return apperrors.ErrNotFound
	}
	if !book.InStock() {
		return apperrors.ErrOutOfStock
	}
	err := p.cart.Add(ctx, bookID)
	p.runEffects(ctx)
	return err
}

func (p *Page) SignIn(ctx context.Context, creds backend.Credentials) error {
	_, err := p.client.SignInWithPassword(ctx, creds)
	if err != nil {
		p.logger.Info().Err(err).Msg("sign in rejected")
		p.ui.Toast(ToastSignInFailed)
		return err
	}
	p.ui.Toast(ToastSignedIn)
	p.runEffects(ctx)
	return nil
}

// SignUp creates an account. When the backend wants the email confirmed
// first the shopper stays signed out.
func (p *Page) SignUp(ctx context.Context, req backend.SignUpRequest) error {
	created, err := p.client.SignUp(ctx, req)
	switch {
	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		p.ui.Toast(ToastAccountExists)
		return err
	case err != nil:
		p.logger.Warn().Err(err).Msg("sign up failed")
		p.ui.Toast(ToastSignUpFailed)
		return err
	case created == nil:
		p.ui.Toast(ToastConfirmEmail)
	default:
		p.ui.Toast(ToastSignedUp)
	}
	p.runEffects(ctx)
	return nil
}

// SignOut asks the backend to end the session. The identity is cleared by
// the resulting session event, not here.
func (p *Page) SignOut(ctx context.Context) error {
	err := p.client.SignOut(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("sign out")
		p.ui.Toast(ToastSignOutFailed)
	}
	p.runEffects(ctx)
	return err
}

// Identity is the shopper the page acts for, nil when anonymous.
func (p *Page) Identity() *backend.Identity {
	return p.holder.Identity()
}

func (p *Page) View() View {
	identity := p.holder.Identity()
	books := p.catalog.Visible()
	return View{
		Header:    BuildHeader(identity, p.profile.Profile(), p.cart.Count()),
		Genres:    Genres,
		Genre:     p.catalog.Genre(),
		Books:     books,
		Empty:     len(books) == 0,
		Identity:  identity,
		Profile:   p.profile.Profile(),
		CartItems: p.cart.Items(),
		CartTotal: p.cart.Total(),
	}
}
