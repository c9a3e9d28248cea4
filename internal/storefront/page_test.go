package storefront

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pustakbhandar/internal/backend"
	apperrors "pustakbhandar/internal/errors"
	"pustakbhandar/internal/model"
)

// fakeProvider is an in-memory backend that counts the calls pages make.
type fakeProvider struct {
	users     map[string]*backend.Identity
	books     []model.Book
	booksErr  error
	profiles  map[uuid.UUID]*model.Profile
	carts     map[uuid.UUID][]model.CartItem
	upsertErr error

	bookFetches    int
	cartFetches    int
	profileFetches int
	upserts        []model.CartItem
	signOuts       int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		users:    map[string]*backend.Identity{},
		profiles: map[uuid.UUID]*model.Profile{},
		carts:    map[uuid.UUID][]model.CartItem{},
	}
}

func (f *fakeProvider) addUser(email string) *backend.Identity {
	user := &backend.Identity{ID: uuid.New(), Email: email}
	f.users[email] = user
	return user
}

func (f *fakeProvider) SignInWithPassword(_ context.Context, creds backend.Credentials) (*backend.Session, error) {
	user, ok := f.users[creds.Email]
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &backend.Session{AccessToken: "token:" + creds.Email, User: user}, nil
}

func (f *fakeProvider) SignUp(_ context.Context, req backend.SignUpRequest) (*backend.Session, error) {
	if _, ok := f.users[req.Email]; ok {
		return nil, apperrors.ErrUserAlreadyExists
	}
	user := f.addUser(req.Email)
	return &backend.Session{AccessToken: "token:" + req.Email, User: user}, nil
}

func (f *fakeProvider) SignOut(context.Context, string, string) error {
	f.signOuts++
	return nil
}

func (f *fakeProvider) GetUser(_ context.Context, token string) (*backend.Identity, error) {
	for email, user := range f.users {
		if token == "token:"+email {
			return user, nil
		}
	}
	return nil, apperrors.ErrUnauthorized
}

func (f *fakeProvider) RefreshSession(context.Context, string) (*backend.Session, error) {
	return nil, apperrors.ErrUnauthorized
}

func (f *fakeProvider) ListBooks(context.Context) ([]model.Book, error) {
	f.bookFetches++
	if f.booksErr != nil {
		return nil, f.booksErr
	}
	return f.books, nil
}

func (f *fakeProvider) GetProfile(_ context.Context, userID uuid.UUID) (*model.Profile, error) {
	f.profileFetches++
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return profile, nil
}

func (f *fakeProvider) ListCartItems(_ context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	f.cartFetches++
	return f.carts[userID], nil
}

func (f *fakeProvider) UpsertCartItem(_ context.Context, item model.CartItem, onConflict string) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, item)
	lines := f.carts[item.UserID]
	for i := range lines {
		if lines[i].BookID == item.BookID {
			lines[i].Quantity = item.Quantity
			return nil
		}
	}
	for _, b := range f.books {
		if b.ID == item.BookID {
			book := b
			item.Book = &book
		}
	}
	f.carts[item.UserID] = append(lines, item)
	return nil
}

func (f *fakeProvider) addBook(title, genre string, stock int) model.Book {
	book := model.Book{ID: uuid.New(), Title: title, Genre: genre, Price: decimal.NewFromInt(300), StockQuantity: stock}
	f.books = append(f.books, book)
	return book
}

func mountPage(t *testing.T, f *fakeProvider, stored *backend.Session) (*Page, *Feedback) {
	t.Helper()
	client := backend.New(f, backend.NewMemoryStorage(stored), zerolog.Nop())
	ui := &Feedback{}
	page := NewPage(client, ui, zerolog.Nop())
	t.Cleanup(page.Close)
	require.NoError(t, page.Mount(context.Background()))
	return page, ui
}

func TestPage_AnonymousMount(t *testing.T) {
	f := newFakeProvider()
	f.addBook("मुनामदन", "कविता", 2)

	page, ui := mountPage(t, f, nil)
	view := page.View()

	assert.False(t, view.Header.SignedIn)
	assert.Len(t, view.Books, 1)
	assert.False(t, view.Empty)
	assert.Equal(t, GenreAll, view.Genre)
	assert.Equal(t, 1, f.bookFetches)
	assert.Equal(t, 0, f.cartFetches)
	assert.Equal(t, 0, f.profileFetches)
	assert.Empty(t, ui.Toasts())
}

func TestPage_SignedInMountLoadsCartAndProfile(t *testing.T) {
	f := newFakeProvider()
	user := f.addUser("gita@example.com")
	name := "गीता"
	f.profiles[user.ID] = &model.Profile{ID: user.ID, FullName: &name, Role: model.RoleAdmin}
	f.carts[user.ID] = []model.CartItem{{BookID: uuid.New(), Quantity: 2}, {BookID: uuid.New(), Quantity: 1}}

	page, _ := mountPage(t, f, &backend.Session{AccessToken: "token:gita@example.com"})
	view := page.View()

	assert.True(t, view.Header.SignedIn)
	assert.Equal(t, "स्वागत, गीता", view.Header.Greeting)
	assert.True(t, view.Header.ShowAdmin)
	assert.Equal(t, 2, view.Header.CartCount)
	assert.Equal(t, 1, f.cartFetches)
	assert.Equal(t, 1, f.profileFetches)
}

func TestPage_BookFetchFailureToasts(t *testing.T) {
	f := newFakeProvider()
	f.booksErr = apperrors.ErrUnavailable

	page, ui := mountPage(t, f, nil)

	assert.True(t, page.View().Empty)
	assert.Equal(t, []Toast{ToastBooksFailed}, ui.Toasts())
}

func TestPage_AddToCartAnonymousPromptsAuth(t *testing.T) {
	f := newFakeProvider()
	book := f.addBook("सेतो बाघ", "उपन्यास", 3)
	page, ui := mountPage(t, f, nil)

	err := page.AddToCart(context.Background(), book.ID)

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, 1, ui.AuthPrompts())
	assert.Empty(t, f.upserts)
}

func TestPage_AddToCartOutOfStockIsNoop(t *testing.T) {
	f := newFakeProvider()
	f.addUser("ram@example.com")
	book := f.addBook("बसाइँ", "उपन्यास", 0)
	page, ui := mountPage(t, f, &backend.Session{AccessToken: "token:ram@example.com"})

	err := page.AddToCart(context.Background(), book.ID)

	assert.ErrorIs(t, err, apperrors.ErrOutOfStock)
	assert.Empty(t, f.upserts)
	assert.Empty(t, ui.Toasts())
	assert.Equal(t, 0, ui.AuthPrompts())
}

func TestPage_AddToCartTwiceKeepsOneLine(t *testing.T) {
	f := newFakeProvider()
	f.addUser("ram@example.com")
	book := f.addBook("बसाइँ", "उपन्यास", 4)
	page, ui := mountPage(t, f, &backend.Session{AccessToken: "token:ram@example.com"})
	fetchesAfterMount := f.cartFetches

	require.NoError(t, page.AddToCart(context.Background(), book.ID))
	require.NoError(t, page.AddToCart(context.Background(), book.ID))

	require.Len(t, f.upserts, 2)
	for _, item := range f.upserts {
		assert.Equal(t, 1, item.Quantity)
	}
	assert.Equal(t, fetchesAfterMount+2, f.cartFetches)
	assert.Equal(t, 1, page.View().Header.CartCount)
	assert.Equal(t, []Toast{ToastCartAdded, ToastCartAdded}, ui.Toasts())
}

func TestPage_AddToCartFailure(t *testing.T) {
	f := newFakeProvider()
	f.addUser("ram@example.com")
	book := f.addBook("बसाइँ", "उपन्यास", 4)
	f.upsertErr = apperrors.ErrUnavailable
	page, ui := mountPage(t, f, &backend.Session{AccessToken: "token:ram@example.com"})
	fetchesAfterMount := f.cartFetches

	assert.Error(t, page.AddToCart(context.Background(), book.ID))
	assert.Equal(t, fetchesAfterMount, f.cartFetches)
	assert.Equal(t, []Toast{ToastCartFailed}, ui.Toasts())
}

func TestPage_SignInThenSignOut(t *testing.T) {
	f := newFakeProvider()
	user := f.addUser("sita@example.com")
	f.carts[user.ID] = []model.CartItem{{BookID: uuid.New(), Quantity: 1}}
	page, ui := mountPage(t, f, nil)

	require.NoError(t, page.SignIn(context.Background(), backend.Credentials{Email: "sita@example.com", Password: "x"}))
	view := page.View()
	assert.True(t, view.Header.SignedIn)
	assert.Equal(t, "स्वागत, sita@example.com", view.Header.Greeting)
	assert.Equal(t, 1, view.Header.CartCount)
	assert.Equal(t, 2, f.bookFetches)

	require.NoError(t, page.SignOut(context.Background()))
	view = page.View()
	assert.False(t, view.Header.SignedIn)
	assert.Equal(t, 0, view.Header.CartCount)
	assert.Nil(t, view.Profile)
	assert.Empty(t, view.CartItems)
	assert.Equal(t, 1, f.signOuts)
	assert.Equal(t, []Toast{ToastSignedIn}, ui.Toasts())
}

func TestPage_SignInRejected(t *testing.T) {
	f := newFakeProvider()
	page, ui := mountPage(t, f, nil)

	err := page.SignIn(context.Background(), backend.Credentials{Email: "nobody@example.com", Password: "x"})

	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Nil(t, page.Identity())
	assert.Equal(t, []Toast{ToastSignInFailed}, ui.Toasts())
}

func TestPage_SignUp(t *testing.T) {
	f := newFakeProvider()
	f.addUser("taken@example.com")
	page, ui := mountPage(t, f, nil)

	err := page.SignUp(context.Background(), backend.SignUpRequest{Email: "taken@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)

	require.NoError(t, page.SignUp(context.Background(), backend.SignUpRequest{Email: "new@example.com", Password: "secret123"}))
	require.NotNil(t, page.Identity())
	assert.Equal(t, "new@example.com", page.Identity().Email)
	assert.Equal(t, []Toast{ToastAccountExists, ToastSignedUp}, ui.Toasts())
}

func TestPage_SelectGenre(t *testing.T) {
	f := newFakeProvider()
	f.addBook("मुनामदन", "कविता", 1)
	f.addBook("सेतो बाघ", "उपन्यास", 1)
	page, _ := mountPage(t, f, nil)

	page.SelectGenre(context.Background(), "कविता")
	view := page.View()
	require.Len(t, view.Books, 1)
	assert.Equal(t, "कविता", view.Genre)

	page.SelectGenre(context.Background(), "डरावनी")
	assert.True(t, page.View().Empty)

	page.SelectGenre(context.Background(), "horror")
	assert.Equal(t, GenreAll, page.View().Genre)
	assert.Len(t, page.View().Books, 2)
	assert.Equal(t, 1, f.bookFetches)
}
