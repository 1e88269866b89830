package social

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kapu/collabhub-go/internal/constants"
	"github.com/kapu/collabhub-go/internal/domain"
	"github.com/kapu/collabhub-go/internal/util"
	apperrors "github.com/kapu/collabhub-go/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Provider fetches audience numbers for one handle on one platform.
type Provider interface {
	Name() string
	FetchStats(ctx context.Context, platform domain.Platform, username string) (domain.AccountStats, error)
}

// StatsCache is satisfied by cache.CacheService.
type StatsCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Simulated links every handle with zero stats, the way the prototype did
// before any network integration existed.
type Simulated struct{}

func (Simulated) Name() string { return "simulated" }

func (Simulated) FetchStats(context.Context, domain.Platform, string) (domain.AccountStats, error) {
	return domain.AccountStats{}, nil
}

// ConnectRequest names one account to link.
type ConnectRequest struct {
	Platform domain.Platform `json:"platform"`
	Username string          `json:"username"`
}

// ConnectResult is the outcome of one request in a batch.
type ConnectResult struct {
	Account domain.SocialAccount `json:"account"`
	Error   string               `json:"error,omitempty"`
}

// Service routes lookups to the provider registered for each platform and
// falls back to Simulated.
type Service struct {
	providers map[domain.Platform]Provider
	fallback  Provider
	cache     StatsCache
	logger    *zap.Logger
}

func NewService(cache StatsCache, logger *zap.Logger) *Service {
	return &Service{
		providers: make(map[domain.Platform]Provider),
		fallback:  Simulated{},
		cache:     cache,
		logger:    logger,
	}
}

// Use registers p for the given platforms.
func (s *Service) Use(p Provider, platforms ...domain.Platform) {
	for _, platform := range platforms {
		s.providers[platform] = p
	}
	s.logger.Info("Social stats provider registered",
		zap.String("provider", p.Name()),
		zap.Any("platforms", platforms))
}

func (s *Service) providerFor(platform domain.Platform) Provider {
	if p, ok := s.providers[platform]; ok {
		return p
	}
	return s.fallback
}

// Connect links username on platform and returns the account with its stats.
func (s *Service) Connect(ctx context.Context, platform domain.Platform, username string) (domain.SocialAccount, error) {
	handle := util.NormalizeHandle(username)
	if handle == "" {
		return domain.SocialAccount{}, apperrors.NewValidationError("username is required", map[string]string{
			"username": "Username is required",
		})
	}

	provider := s.providerFor(platform)
	account := domain.SocialAccount{
		Platform:  platform,
		Username:  handle,
		Connected: true,
	}

	key := cacheKey(provider.Name(), platform, handle)
	if s.cache != nil {
		var cached cachedStats
		if err := s.cache.Get(ctx, key, &cached); err == nil && !cached.FetchedAt.IsZero() {
			s.logger.Debug("Social stats cache hit",
				zap.String("platform", platform.String()),
				zap.String("username", handle))
			account.Stats = cached.Stats
			return account, nil
		}
	}

	stats, err := provider.FetchStats(ctx, platform, handle)
	if err != nil {
		s.logger.Warn("Social stats lookup failed",
			zap.String("provider", provider.Name()),
			zap.String("platform", platform.String()),
			zap.String("username", handle),
			zap.Error(err))
		return domain.SocialAccount{}, asProviderError(err, provider.Name(), platform)
	}
	account.Stats = stats

	if s.cache != nil {
		entry := cachedStats{Stats: stats, FetchedAt: time.Now()}
		if err := s.cache.Set(ctx, key, entry, constants.CacheTTL.SocialStats); err != nil {
			s.logger.Warn("Social stats cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	s.logger.Info("Social account connected",
		zap.String("provider", provider.Name()),
		zap.String("platform", platform.String()),
		zap.String("username", handle),
		zap.Int64("audience", stats.Audience(platform)))
	return account, nil
}

// ConnectAll runs the requests concurrently and returns results in request order.
// A failing lookup is reported in its result and does not stop the others.
func (s *Service) ConnectAll(ctx context.Context, reqs []ConnectRequest) []ConnectResult {
	results := make([]ConnectResult, len(reqs))
	p := pool.New().WithMaxGoroutines(constants.SocialConfig.LookupConcurrency)
	for i, req := range reqs {
		p.Go(func() {
			account, err := s.Connect(ctx, req.Platform, req.Username)
			if err != nil {
				results[i] = ConnectResult{
					Account: domain.SocialAccount{Platform: req.Platform, Username: req.Username},
					Error:   err.Error(),
				}
				return
			}
			results[i] = ConnectResult{Account: account}
		})
	}
	p.Wait()
	return results
}

func cacheKey(provider string, platform domain.Platform, handle string) string {
	return fmt.Sprintf("collabhub:social:%s:%s:%s", provider, platform, strings.ToLower(handle))
}

type cachedStats struct {
	Stats     domain.AccountStats `json:"stats"`
	FetchedAt time.Time           `json:"fetchedAt"`
}

func asProviderError(err error, provider string, platform domain.Platform) error {
	var pe *apperrors.ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return apperrors.NewProviderError(fmt.Sprintf("%s lookup failed", platform), provider, platform.String(), err)
}
