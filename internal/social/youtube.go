package social

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kapu/collabhub-go/internal/constants"
	"github.com/kapu/collabhub-go/internal/domain"
	"github.com/kapu/collabhub-go/internal/util"
	apperrors "github.com/kapu/collabhub-go/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// ErrChannelNotFound is returned when no channel matches the handle.
var ErrChannelNotFound = errors.New("youtube channel not found")

// YouTubeProvider reads subscriber and view counts through the YouTube Data API
// with an API key. Calls are guarded by a circuit breaker so an exhausted quota
// does not turn every connect into a slow failure.
type YouTubeProvider struct {
	service *youtube.Service
	breaker *util.CircuitBreaker
	logger  *zap.Logger
}

func NewYouTubeProvider(ctx context.Context, apiKey string, logger *zap.Logger, opts ...option.ClientOption) (*YouTubeProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	logger.Info("YouTube stats provider initialized")

	return &YouTubeProvider{
		service: service,
		breaker: util.NewCircuitBreaker("youtube",
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger),
		logger: logger,
	}, nil
}

func (yp *YouTubeProvider) Name() string { return "youtube-api" }

func (yp *YouTubeProvider) FetchStats(ctx context.Context, platform domain.Platform, username string) (domain.AccountStats, error) {
	if platform != domain.PlatformYouTube {
		return domain.AccountStats{}, fmt.Errorf("youtube provider cannot serve %s", platform)
	}
	if !yp.breaker.CanExecute() {
		return domain.AccountStats{}, apperrors.NewProviderError("YouTube lookups are paused", yp.Name(), platform.String(), nil)
	}

	call := yp.service.Channels.List(constants.SocialConfig.YouTubeParts).ForHandle(username).Context(ctx)
	resp, err := call.Do()
	if err != nil {
		yp.breaker.RecordFailure(failureTimeout(err))
		return domain.AccountStats{}, fmt.Errorf("channels.list: %w", err)
	}
	yp.breaker.RecordSuccess()

	if len(resp.Items) == 0 || resp.Items[0].Statistics == nil {
		pe := apperrors.NewProviderError("YouTube channel not found", yp.Name(), platform.String(), ErrChannelNotFound)
		pe.StatusCode = http.StatusNotFound
		return domain.AccountStats{}, pe
	}

	yp.logger.Debug("YouTube channel resolved",
		zap.String("handle", username),
		zap.String("channelId", resp.Items[0].Id))
	return statsFromChannel(resp.Items[0]), nil
}

func statsFromChannel(ch *youtube.Channel) domain.AccountStats {
	if ch.Statistics == nil {
		return domain.AccountStats{}
	}
	return domain.AccountStats{
		Subscribers: int64(ch.Statistics.SubscriberCount),
		Views:       int64(ch.Statistics.ViewCount),
	}
}

// failureTimeout keeps the circuit open until the quota window is likely reset
// when Google reports quota or rate-limit errors.
func failureTimeout(err error) time.Duration {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		if gErr.Code == http.StatusTooManyRequests {
			return constants.CircuitBreakerConfig.RateLimitTimeout
		}
		if gErr.Code == http.StatusForbidden {
			for _, e := range gErr.Errors {
				if e.Reason == "quotaExceeded" || e.Reason == "rateLimitExceeded" {
					return constants.CircuitBreakerConfig.RateLimitTimeout
				}
			}
		}
	}
	return 0
}
