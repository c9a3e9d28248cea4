package storefront

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pustakbhandar/internal/backend"
	"pustakbhandar/internal/model"
)

// ProfileSource fetches one profile row.
type ProfileSource interface {
	FetchProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
}

// ProfileLookup holds the profile of the current identity, or nil.
type ProfileLookup struct {
	source ProfileSource
	logger zerolog.Logger

	profile *model.Profile
}

func NewProfileLookup(source ProfileSource, logger zerolog.Logger) *ProfileLookup {
	return &ProfileLookup{source: source, logger: logger}
}

// Load fetches the profile for identity. A missing row or a failed call
// leaves nil; nothing is retried.
func (p *ProfileLookup) Load(ctx context.Context, identity *backend.Identity) {
	p.profile = nil
	if identity == nil {
		return
	}
	profile, err := p.source.FetchProfile(ctx, identity.ID)
	if err != nil {
		p.logger.Debug().Err(err).Str("user_id", identity.ID.String()).Msg("profile unavailable")
		return
	}
	p.profile = profile
}

func (p *ProfileLookup) Clear() {
	p.profile = nil
}

func (p *ProfileLookup) Profile() *model.Profile {
	return p.profile
}
