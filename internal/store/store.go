// Package store holds the profiles created during onboarding for one session.
package store

import (
	"context"
	"errors"

	"github.com/kapu/collabhub-go/internal/domain"
)

// ErrNoProvider is returned by FromContext when no store was installed on the context.
var ErrNoProvider = errors.New("store: no profile store provider in context")

// Store keeps zero or one profile of each kind. Reads return nil when the
// profile is absent. Errors are reserved for backend failures.
type Store interface {
	InfluencerProfile(ctx context.Context) (*domain.InfluencerProfile, error)
	BrandProfile(ctx context.Context) (*domain.BrandProfile, error)
	SetInfluencerProfile(ctx context.Context, p *domain.InfluencerProfile) error
	SetBrandProfile(ctx context.Context, p *domain.BrandProfile) error
	// UpdateInfluencerProfile merges u into the stored profile. It is a no-op when absent.
	UpdateInfluencerProfile(ctx context.Context, u domain.InfluencerProfileUpdate) error
	// UpdateBrandProfile merges u into the stored profile. It is a no-op when absent.
	UpdateBrandProfile(ctx context.Context, u domain.BrandProfileUpdate) error
	// Clear drops both profiles and any backend state held for them.
	Clear(ctx context.Context) error
}

type ctxKey struct{}

// NewContext installs s as the profile store for everything derived from ctx.
func NewContext(ctx context.Context, s Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the store installed by NewContext.
func FromContext(ctx context.Context) (Store, error) {
	s, ok := ctx.Value(ctxKey{}).(Store)
	if !ok || s == nil {
		return nil, ErrNoProvider
	}
	return s, nil
}

// MustFromContext is FromContext for callers that are always mounted under a provider.
func MustFromContext(ctx context.Context) Store {
	s, err := FromContext(ctx)
	if err != nil {
		panic("store: MustFromContext called outside a profile store provider")
	}
	return s
}
