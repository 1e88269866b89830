package dashboard

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/kapu/collabhub-go/internal/domain"
)

// DiscoveryFilter narrows the brand discovery list. Zero values match everything.
type DiscoveryFilter struct {
	Niche        string `json:"niche,omitempty"`
	MinFollowers int64  `json:"minFollowers,omitempty"`
	MaxFollowers int64  `json:"maxFollowers,omitempty"`
	Region       string `json:"region,omitempty"`
	Language     string `json:"language,omitempty"`
}

// ParseDiscoveryFilter reads the filter from query parameters.
func ParseDiscoveryFilter(q url.Values) (DiscoveryFilter, error) {
	f := DiscoveryFilter{
		Niche:    strings.TrimSpace(q.Get("niche")),
		Region:   strings.TrimSpace(q.Get("region")),
		Language: strings.TrimSpace(q.Get("language")),
	}
	var err error
	if f.MinFollowers, err = parseCount(q.Get("minFollowers")); err != nil {
		return DiscoveryFilter{}, fmt.Errorf("minFollowers: %w", err)
	}
	if f.MaxFollowers, err = parseCount(q.Get("maxFollowers")); err != nil {
		return DiscoveryFilter{}, fmt.Errorf("maxFollowers: %w", err)
	}
	if f.MaxFollowers > 0 && f.MinFollowers > f.MaxFollowers {
		return DiscoveryFilter{}, fmt.Errorf("minFollowers %d exceeds maxFollowers %d", f.MinFollowers, f.MaxFollowers)
	}
	return f, nil
}

func parseCount(v string) (int64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return n, nil
}

func (f DiscoveryFilter) Match(inf domain.DiscoverableInfluencer) bool {
	if f.Niche != "" && !hasNiche(inf.Niches, f.Niche) {
		return false
	}
	if f.MinFollowers > 0 && inf.Followers < f.MinFollowers {
		return false
	}
	if f.MaxFollowers > 0 && inf.Followers > f.MaxFollowers {
		return false
	}
	if f.Region != "" && !containsFold(inf.Region, f.Region) {
		return false
	}
	if f.Language != "" && !containsFold(inf.Language, f.Language) {
		return false
	}
	return true
}

// Apply returns the matching influencers in their original order.
func (f DiscoveryFilter) Apply(list []domain.DiscoverableInfluencer) []domain.DiscoverableInfluencer {
	out := make([]domain.DiscoverableInfluencer, 0, len(list))
	for _, inf := range list {
		if f.Match(inf) {
			out = append(out, inf)
		}
	}
	return out
}

func hasNiche(niches []string, want string) bool {
	for _, n := range niches {
		if strings.EqualFold(n, want) {
			return true
		}
	}
	return false
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
