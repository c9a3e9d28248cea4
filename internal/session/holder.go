// Package session tracks which identity, if any, a page is acting for.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"pustakbhandar/internal/backend"
)

// State is where the holder is in its lifecycle.
type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Authenticator is the part of the backend client the holder depends on.
type Authenticator interface {
	GetSession(ctx context.Context) (*backend.Session, error)
	OnAuthStateChange(listener backend.AuthListener) *backend.Subscription
}

// ErrAlreadyStarted is returned by a second call to Start.
var ErrAlreadyStarted = errors.New("session holder already started")

// Holder keeps the current identity in step with the backend's session events.
// Build one per page and Close it when the page goes away.
type Holder struct {
	auth   Authenticator
	logger zerolog.Logger

	mu       sync.Mutex
	started  bool
	closed   bool
	state    State
	identity *backend.Identity
	revision uint64
	sub      *backend.Subscription

	closeOnce sync.Once
}

// NewHolder returns a holder in StateUnknown.
func NewHolder(auth Authenticator, logger zerolog.Logger) *Holder {
	return &Holder{
		auth:   auth,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// Start subscribes to session changes, then resolves the stored session.
// A change delivered while the lookup is in flight wins over the lookup result.
// A failed lookup leaves the holder anonymous; it is logged, not returned.
func (h *Holder) Start(ctx context.Context) error {
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		return ErrAlreadyStarted
	}
	h.started = true
	h.mu.Unlock()

	sub := h.auth.OnAuthStateChange(h.onChange)

	h.mu.Lock()
	h.sub = sub
	closed := h.closed
	h.mu.Unlock()
	if closed {
		sub.Unsubscribe()
		return nil
	}

	current, err := h.auth.GetSession(ctx)
	if err != nil {
		h.logger.Warn().Err(err).Msg("initial session lookup failed")
		current = nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.state != StateUnknown {
		return nil
	}
	h.apply(current)
	return nil
}

func (h *Holder) onChange(event backend.AuthEvent, current *backend.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.logger.Debug().Str("event", string(event)).Msg("session changed")
	h.apply(current)
}

// apply replaces the held identity. Callers hold h.mu.
func (h *Holder) apply(current *backend.Session) {
	var next *backend.Identity
	if current != nil && current.User != nil {
		copied := *current.User
		next = &copied
	}

	if !sameIdentity(h.identity, next) || h.state == StateUnknown {
		h.revision++
	}
	h.identity = next
	if next == nil {
		h.state = StateAnonymous
	} else {
		h.state = StateAuthenticated
	}
}

func sameIdentity(a, b *backend.Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

// Identity returns a copy of the held identity, nil when anonymous or unknown.
func (h *Holder) Identity() *backend.Identity {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.identity == nil {
		return nil
	}
	copied := *h.identity
	return &copied
}

func (h *Holder) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Revision increases every time the held identity changes.
func (h *Holder) Revision() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.revision
}

// Close releases the subscription. Only the first call has any effect, and no
// callback updates the holder once Close has returned.
func (h *Holder) Close() {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.closed = true
		sub := h.sub
		h.mu.Unlock()
		sub.Unsubscribe()
	})
}
