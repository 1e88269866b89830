package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kapu/collabhub-go/internal/domain"
	apperrors "github.com/kapu/collabhub-go/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

type countingProvider struct {
	calls atomic.Int32
	stats domain.AccountStats
	err   error
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) FetchStats(_ context.Context, _ domain.Platform, username string) (domain.AccountStats, error) {
	p.calls.Add(1)
	if username == "broken" {
		return domain.AccountStats{}, errors.New("upstream down")
	}
	return p.stats, p.err
}

func TestConnectDefaultsToSimulatedStats(t *testing.T) {
	s := NewService(nil, zap.NewNop())
	acc, err := s.Connect(context.Background(), domain.PlatformInstagram, "@Chef.Asha")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !acc.Connected || acc.Username != "chef.asha" || acc.Stats != (domain.AccountStats{}) {
		t.Fatalf("unexpected account %+v", acc)
	}
}

func TestConnectRequiresUsername(t *testing.T) {
	s := NewService(nil, zap.NewNop())
	_, err := s.Connect(context.Background(), domain.PlatformTwitter, "  @ ")
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) || ve.Fields["username"] == "" {
		t.Fatalf("expected username validation error, got %v", err)
	}
}

func TestConnectCachesStats(t *testing.T) {
	p := &countingProvider{stats: domain.AccountStats{Followers: 1200, Engagement: 4.2}}
	s := NewService(newMemCache(), zap.NewNop())
	s.Use(p, domain.PlatformInstagram)

	for i := 0; i < 2; i++ {
		acc, err := s.Connect(context.Background(), domain.PlatformInstagram, "asha")
		if err != nil {
			t.Fatalf("connect %d: %v", i, err)
		}
		if acc.Stats.Followers != 1200 {
			t.Fatalf("unexpected stats %+v", acc.Stats)
		}
	}
	if got := p.calls.Load(); got != 1 {
		t.Fatalf("expected one upstream call, got %d", got)
	}
}

func TestConnectWrapsProviderFailure(t *testing.T) {
	s := NewService(nil, zap.NewNop())
	s.Use(&countingProvider{}, domain.PlatformTwitter)

	_, err := s.Connect(context.Background(), domain.PlatformTwitter, "broken")
	if apperrors.Code(err) != apperrors.CodeProvider || apperrors.StatusCode(err) != http.StatusBadGateway {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestConnectAllKeepsOrderAndIsolatesFailures(t *testing.T) {
	p := &countingProvider{stats: domain.AccountStats{Followers: 10}}
	s := NewService(nil, zap.NewNop())
	s.Use(p, domain.PlatformInstagram, domain.PlatformTwitter)

	results := s.ConnectAll(context.Background(), []ConnectRequest{
		{Platform: domain.PlatformInstagram, Username: "one"},
		{Platform: domain.PlatformTwitter, Username: "broken"},
		{Platform: domain.PlatformYouTube, Username: "three"},
	})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Error != "" || results[0].Account.Stats.Followers != 10 {
		t.Fatalf("unexpected first result %+v", results[0])
	}
	if results[1].Error == "" || results[1].Account.Connected {
		t.Fatalf("expected second lookup to fail, got %+v", results[1])
	}
	if results[2].Error != "" || !results[2].Account.Connected || results[2].Account.Platform != domain.PlatformYouTube {
		t.Fatalf("expected youtube to fall back to simulated, got %+v", results[2])
	}
}

func TestParseFollowers(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"1,234 Followers, 56 Following, 78 Posts - See Instagram photos", 1234, true},
		{"12.5K Followers, 300 Following", 12500, true},
		{"2M followers", 2000000, true},
		{"300 Following, 45 followers", 45, true},
		{"No numbers here", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseFollowers(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("ParseFollowers(%q) = %d, %v; want %d, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestProfileScraperReadsOpenGraph(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/asha/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><head>
<meta property="og:description" content="48.2K Followers, 310 Following, 512 Posts - Asha (@asha)">
</head><body></body></html>`)
	}))
	defer srv.Close()

	s := NewProfileScraper(zap.NewNop())
	s.profileURLs[domain.PlatformInstagram] = srv.URL + "/%s/"

	stats, err := s.FetchStats(context.Background(), domain.PlatformInstagram, "asha")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if stats.Followers != 48200 {
		t.Fatalf("unexpected followers %d", stats.Followers)
	}

	if _, err := s.FetchStats(context.Background(), domain.PlatformInstagram, "missing"); err == nil {
		t.Fatalf("expected 404 to fail")
	}
	if _, err := s.FetchStats(context.Background(), domain.PlatformYouTube, "asha"); err == nil {
		t.Fatalf("expected unsupported platform to fail")
	}
}

func youtubeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/token":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"tok","token_type":"Bearer","expires_in":3600}`)
		case r.URL.Path == "/youtube/v3/channels" && r.URL.Query().Get("mine") == "true":
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fmt.Fprint(w, `{"items":[{"id":"UCmine","snippet":{"title":"Asha Cooks","customUrl":"@ashacooks"},"statistics":{"subscriberCount":"5400","viewCount":"120000"}}]}`)
		case r.URL.Path == "/youtube/v3/channels" && r.URL.Query().Get("forHandle") == "ashacooks":
			fmt.Fprint(w, `{"items":[{"id":"UCmine","statistics":{"subscriberCount":"5400","viewCount":"120000"}}]}`)
		case r.URL.Path == "/youtube/v3/channels" && r.URL.Query().Get("forHandle") == "quota":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":{"code":403,"message":"quota","errors":[{"reason":"quotaExceeded"}]}}`)
		case r.URL.Path == "/youtube/v3/channels":
			fmt.Fprint(w, `{"items":[]}`)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestYouTubeProviderFetchesChannelStats(t *testing.T) {
	srv := youtubeAPI(t)
	defer srv.Close()

	p, err := NewYouTubeProvider(context.Background(), "key", zap.NewNop(),
		option.WithHTTPClient(srv.Client()), option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("provider: %v", err)
	}

	stats, err := p.FetchStats(context.Background(), domain.PlatformYouTube, "ashacooks")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if stats.Subscribers != 5400 || stats.Views != 120000 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	_, err = p.FetchStats(context.Background(), domain.PlatformYouTube, "nobody")
	if !errors.Is(err, ErrChannelNotFound) || apperrors.StatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected channel not found, got %v", err)
	}
}

func TestYouTubeProviderOpensCircuitOnQuota(t *testing.T) {
	srv := youtubeAPI(t)
	defer srv.Close()

	p, err := NewYouTubeProvider(context.Background(), "key", zap.NewNop(),
		option.WithHTTPClient(srv.Client()), option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("provider: %v", err)
	}
	if d := failureTimeout(errors.New("plain")); d != 0 {
		t.Fatalf("plain errors use the default timeout, got %v", d)
	}

	for i := 0; i < 3; i++ {
		if _, err := p.FetchStats(context.Background(), domain.PlatformYouTube, "quota"); err == nil {
			t.Fatalf("expected quota error")
		}
	}
	_, err = p.FetchStats(context.Background(), domain.PlatformYouTube, "ashacooks")
	if apperrors.Code(err) != apperrors.CodeProvider {
		t.Fatalf("expected open circuit to short-circuit, got %v", err)
	}
}

func TestYouTubeOAuthConnect(t *testing.T) {
	srv := youtubeAPI(t)
	defer srv.Close()

	yo, err := NewYouTubeOAuth(OAuthConfig{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/oauth/youtube/callback"}, zap.NewNop())
	if err != nil {
		t.Fatalf("oauth: %v", err)
	}
	yo.config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	yo.apiOptions = []option.ClientOption{option.WithEndpoint(srv.URL + "/")}

	consent, err := url.Parse(yo.AuthCodeURL("sid.nonce"))
	if err != nil {
		t.Fatalf("consent url: %v", err)
	}
	if consent.Query().Get("state") != "sid.nonce" || consent.Query().Get("client_id") != "id" {
		t.Fatalf("unexpected consent url %s", consent)
	}

	acc, err := yo.Connect(context.Background(), "code")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if acc.Platform != domain.PlatformYouTube || acc.Username != "ashacooks" || acc.Stats.Subscribers != 5400 {
		t.Fatalf("unexpected account %+v", acc)
	}
}

func TestNewYouTubeOAuthRequiresClient(t *testing.T) {
	if _, err := NewYouTubeOAuth(OAuthConfig{}, zap.NewNop()); err == nil {
		t.Fatalf("expected missing client id to fail")
	}
}

func TestState(t *testing.T) {
	state, nonce := NewState("0b6e6f2e-1111-4222-8333-944455556666")
	sid, got, err := ParseState(state)
	if err != nil || sid != "0b6e6f2e-1111-4222-8333-944455556666" || got != nonce {
		t.Fatalf("round trip failed: %q %q %v", sid, got, err)
	}
	for _, bad := range []string{"", "nodot", ".x", "x."} {
		if _, _, err := ParseState(bad); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("%q: expected invalid state", bad)
		}
	}
}
