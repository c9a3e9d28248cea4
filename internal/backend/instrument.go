package backend

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pustakbhandar/internal/model"
)

// Recorder observes one provider call.
type Recorder interface {
	Observe(op string, elapsed time.Duration, err error)
}

// Instrument wraps provider so every call is reported to rec.
func Instrument(provider Provider, rec Recorder) Provider {
	if rec == nil {
		return provider
	}
	return &instrumented{next: provider, rec: rec}
}

type instrumented struct {
	next Provider
	rec  Recorder
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	i.rec.Observe(op, time.Since(start), err)
}

func (i *instrumented) SignInWithPassword(ctx context.Context, creds Credentials) (s *Session, err error) {
	defer func(start time.Time) { i.observe("sign_in", start, err) }(time.Now())
	return i.next.SignInWithPassword(ctx, creds)
}

func (i *instrumented) SignUp(ctx context.Context, req SignUpRequest) (s *Session, err error) {
	defer func(start time.Time) { i.observe("sign_up", start, err) }(time.Now())
	return i.next.SignUp(ctx, req)
}

func (i *instrumented) SignOut(ctx context.Context, accessToken, refreshToken string) (err error) {
	defer func(start time.Time) { i.observe("sign_out", start, err) }(time.Now())
	return i.next.SignOut(ctx, accessToken, refreshToken)
}

func (i *instrumented) GetUser(ctx context.Context, accessToken string) (u *Identity, err error) {
	defer func(start time.Time) { i.observe("get_user", start, err) }(time.Now())
	return i.next.GetUser(ctx, accessToken)
}

func (i *instrumented) RefreshSession(ctx context.Context, refreshToken string) (s *Session, err error) {
	defer func(start time.Time) { i.observe("refresh_session", start, err) }(time.Now())
	return i.next.RefreshSession(ctx, refreshToken)
}

func (i *instrumented) ListBooks(ctx context.Context) (books []model.Book, err error) {
	defer func(start time.Time) { i.observe("list_books", start, err) }(time.Now())
	return i.next.ListBooks(ctx)
}

func (i *instrumented) GetProfile(ctx context.Context, userID uuid.UUID) (p *model.Profile, err error) {
	defer func(start time.Time) { i.observe("get_profile", start, err) }(time.Now())
	return i.next.GetProfile(ctx, userID)
}

func (i *instrumented) ListCartItems(ctx context.Context, userID uuid.UUID) (items []model.CartItem, err error) {
	defer func(start time.Time) { i.observe("list_cart_items", start, err) }(time.Now())
	return i.next.ListCartItems(ctx, userID)
}

func (i *instrumented) UpsertCartItem(ctx context.Context, item model.CartItem, onConflict string) (err error) {
	defer func(start time.Time) { i.observe("upsert_cart_item", start, err) }(time.Now())
	return i.next.UpsertCartItem(ctx, item, onConflict)
}
