package store

import (
	"context"
	"fmt"
	"time"

	"github.com/kapu/collabhub-go/internal/domain"
	"go.uber.org/zap"
)

// Cache is the subset of the Redis cache service the Redis backend needs.
// Get leaves dest untouched when the key is missing.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DelMany(ctx context.Context, keys []string) (int64, error)
}

const keyPrefix = "collabhub:session:"

// Redis keeps a session's profiles under session-scoped keys that expire with
// the session TTL. Updates are read-modify-write; callers serialise writes per session.
type Redis struct {
	cache     Cache
	sessionID string
	ttl       time.Duration
	logger    *zap.Logger
}

func NewRedis(cache Cache, sessionID string, ttl time.Duration, logger *zap.Logger) *Redis {
	return &Redis{
		cache:     cache,
		sessionID: sessionID,
		ttl:       ttl,
		logger:    logger,
	}
}

func (r *Redis) influencerKey() string {
	return fmt.Sprintf("%s%s:influencer", keyPrefix, r.sessionID)
}

func (r *Redis) brandKey() string {
	return fmt.Sprintf("%s%s:brand", keyPrefix, r.sessionID)
}

func (r *Redis) InfluencerProfile(ctx context.Context) (*domain.InfluencerProfile, error) {
	var p *domain.InfluencerProfile
	if err := r.cache.Get(ctx, r.influencerKey(), &p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Redis) BrandProfile(ctx context.Context) (*domain.BrandProfile, error) {
	var p *domain.BrandProfile
	if err := r.cache.Get(ctx, r.brandKey(), &p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Redis) SetInfluencerProfile(ctx context.Context, p *domain.InfluencerProfile) error {
	if p == nil {
		_, err := r.cache.DelMany(ctx, []string{r.influencerKey()})
		return err
	}
	return r.cache.Set(ctx, r.influencerKey(), p, r.ttl)
}

func (r *Redis) SetBrandProfile(ctx context.Context, p *domain.BrandProfile) error {
	if p == nil {
		_, err := r.cache.DelMany(ctx, []string{r.brandKey()})
		return err
	}
	return r.cache.Set(ctx, r.brandKey(), p, r.ttl)
}

func (r *Redis) UpdateInfluencerProfile(ctx context.Context, u domain.InfluencerProfileUpdate) error {
	p, err := r.InfluencerProfile(ctx)
	if err != nil || p == nil {
		return err
	}
	updated := u.Apply(*p)
	return r.SetInfluencerProfile(ctx, &updated)
}

func (r *Redis) UpdateBrandProfile(ctx context.Context, u domain.BrandProfileUpdate) error {
	p, err := r.BrandProfile(ctx)
	if err != nil || p == nil {
		return err
	}
	updated := u.Apply(*p)
	return r.SetBrandProfile(ctx, &updated)
}

func (r *Redis) Clear(ctx context.Context) error {
	deleted, err := r.cache.DelMany(ctx, []string{r.influencerKey(), r.brandKey()})
	if err != nil {
		return err
	}
	r.logger.Debug("Session profiles cleared",
		zap.String("session_id", r.sessionID),
		zap.Int64("deleted", deleted),
	)
	return nil
}
