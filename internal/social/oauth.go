package social

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/kapu/collabhub-go/internal/constants"
	"github.com/kapu/collabhub-go/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// ErrInvalidState is returned for a callback whose state was not issued by us.
var ErrInvalidState = errors.New("invalid oauth state")

type OAuthConfig struct {
	ClientID        string
	ClientSecret    string
	RedirectURL     string
	CredentialsFile string
}

// YouTubeOAuth links the signed-in user's own channel instead of looking a
// handle up with an API key.
type YouTubeOAuth struct {
	config     *oauth2.Config
	apiOptions []option.ClientOption
	logger     *zap.Logger
}

// NewYouTubeOAuth builds the consent config from a downloaded credentials file
// when one is configured, otherwise from the client id and secret.
func NewYouTubeOAuth(cfg OAuthConfig, logger *zap.Logger) (*YouTubeOAuth, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var config *oauth2.Config
	if cfg.CredentialsFile != "" {
		credBytes, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("unable to read credentials file: %w", err)
		}
		config, err = google.ConfigFromJSON(credBytes, youtube.YoutubeReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse credentials: %w", err)
		}
		if cfg.RedirectURL != "" {
			config.RedirectURL = cfg.RedirectURL
		}
	} else {
		if cfg.ClientID == "" || cfg.ClientSecret == "" {
			return nil, fmt.Errorf("YouTube OAuth client id and secret are required")
		}
		config = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{youtube.YoutubeReadonlyScope},
			Endpoint:     google.Endpoint,
		}
	}

	logger.Info("YouTube OAuth connector initialized",
		zap.String("redirect", config.RedirectURL))

	return &YouTubeOAuth{config: config, logger: logger}, nil
}

// AuthCodeURL returns the Google consent page for the given state.
func (yo *YouTubeOAuth) AuthCodeURL(state string) string {
	return yo.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Connect exchanges the callback code and reads the caller's own channel.
func (yo *YouTubeOAuth) Connect(ctx context.Context, code string) (domain.SocialAccount, error) {
	if code == "" {
		return domain.SocialAccount{}, fmt.Errorf("authorization code is required")
	}

	token, err := yo.config.Exchange(ctx, code)
	if err != nil {
		return domain.SocialAccount{}, fmt.Errorf("unable to exchange token: %w", err)
	}

	client := yo.config.Client(ctx, token)
	opts := append([]option.ClientOption{option.WithHTTPClient(client)}, yo.apiOptions...)
	ytService, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return domain.SocialAccount{}, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	resp, err := ytService.Channels.List(constants.SocialConfig.YouTubeParts).Mine(true).Context(ctx).Do()
	if err != nil {
		return domain.SocialAccount{}, fmt.Errorf("channels.list mine: %w", err)
	}
	if len(resp.Items) == 0 {
		return domain.SocialAccount{}, ErrChannelNotFound
	}

	ch := resp.Items[0]
	username := ch.Id
	if ch.Snippet != nil {
		if ch.Snippet.CustomUrl != "" {
			username = strings.TrimPrefix(ch.Snippet.CustomUrl, "@")
		} else if ch.Snippet.Title != "" {
			username = ch.Snippet.Title
		}
	}

	yo.logger.Info("YouTube channel linked via OAuth",
		zap.String("channelId", ch.Id),
		zap.String("username", username))

	return domain.SocialAccount{
		Platform:  domain.PlatformYouTube,
		Username:  username,
		Connected: true,
		Stats:     statsFromChannel(ch),
	}, nil
}

// NewState binds a consent round trip to a session. The nonce half must match
// the one the session recorded.
func NewState(sessionID string) (state, nonce string) {
	nonce = uuid.NewString()
	return sessionID + "." + nonce, nonce
}

func ParseState(state string) (sessionID, nonce string, err error) {
	sessionID, nonce, ok := strings.Cut(state, ".")
	if !ok || sessionID == "" || nonce == "" {
		return "", "", ErrInvalidState
	}
	return sessionID, nonce, nil
}
