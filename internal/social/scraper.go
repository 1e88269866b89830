package social

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/collabhub-go/internal/constants"
	"github.com/kapu/collabhub-go/internal/domain"
	"github.com/kapu/collabhub-go/internal/util"
	"go.uber.org/zap"
)

var defaultProfileURLs = map[domain.Platform]string{
	domain.PlatformInstagram: "https://www.instagram.com/%s/",
	domain.PlatformTwitter:   "https://x.com/%s",
}

// "12.5K Followers", "1,234 followers"
var followersPattern = regexp.MustCompile(`(?i)([\d][\d,.]*)\s*([kmb])?\s+followers`)

// ProfileScraper reads the follower count from the Open Graph description of a
// public profile page.
type ProfileScraper struct {
	httpClient  *http.Client
	profileURLs map[domain.Platform]string
	logger      *zap.Logger
}

func NewProfileScraper(logger *zap.Logger) *ProfileScraper {
	urls := make(map[domain.Platform]string, len(defaultProfileURLs))
	for p, u := range defaultProfileURLs {
		urls[p] = u
	}
	return &ProfileScraper{
		httpClient: &http.Client{
			Timeout: constants.SocialConfig.ScraperTimeout,
		},
		profileURLs: urls,
		logger:      logger,
	}
}

func (s *ProfileScraper) Name() string { return "opengraph" }

func (s *ProfileScraper) FetchStats(ctx context.Context, platform domain.Platform, username string) (domain.AccountStats, error) {
	pattern, ok := s.profileURLs[platform]
	if !ok {
		return domain.AccountStats{}, fmt.Errorf("no profile page known for %s", platform)
	}
	pageURL := fmt.Sprintf(pattern, username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return domain.AccountStats{}, err
	}
	req.Header.Set("User-Agent", constants.SocialConfig.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.AccountStats{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.AccountStats{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return domain.AccountStats{}, fmt.Errorf("HTML parse failed: %w", err)
	}

	description := ogDescription(doc)
	followers, ok := ParseFollowers(description)
	if !ok {
		s.logger.Debug("No follower count in profile page",
			zap.String("platform", platform.String()),
			zap.String("url", pageURL),
			zap.String("description", util.TruncateString(description, constants.StringLimits.LogBody)))
		return domain.AccountStats{}, fmt.Errorf("follower count not found on %s profile", platform)
	}

	return domain.AccountStats{Followers: followers}, nil
}

func ogDescription(doc *goquery.Document) string {
	for _, sel := range []string{`meta[property="og:description"]`, `meta[name="description"]`} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(content) != "" {
			return content
		}
	}
	return ""
}

// ParseFollowers extracts a follower count such as "12.5K Followers".
func ParseFollowers(text string) (int64, bool) {
	m := followersPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	number := strings.ReplaceAll(m[1], ",", "")
	value, err := strconv.ParseFloat(strings.TrimRight(number, "."), 64)
	if err != nil {
		return 0, false
	}

	switch strings.ToLower(m[2]) {
	case "k":
		value *= 1_000
	case "m":
		value *= 1_000_000
	case "b":
		value *= 1_000_000_000
	}
	return int64(value + 0.5), true
}
