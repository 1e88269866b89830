package steps

import (
	"strings"

	"github.com/kapu/collabhub-go/internal/domain"
	"github.com/kapu/collabhub-go/internal/validation"
)

// AccountInput is one platform's entry on the social connection step.
type AccountInput struct {
	Username  string              `json:"username"`
	Connected bool                `json:"connected"`
	Stats     domain.AccountStats `json:"stats"`
}

type AccountInputs struct {
	Instagram AccountInput `json:"instagram"`
	YouTube   AccountInput `json:"youtube"`
	Twitter   AccountInput `json:"twitter"`
}

// SocialConnectionForm links social accounts or takes audience numbers by hand.
// It has no validation rules.
type SocialConnectionForm struct {
	SocialAccounts AccountInputs      `json:"socialAccounts"`
	UseManualEntry bool               `json:"useManualEntry"`
	ManualEntry    domain.ManualStats `json:"manualEntry"`
}

func newSocialConnection(domain.UserType) Form {
	return &SocialConnectionForm{}
}

func (f *SocialConnectionForm) Kind() domain.StepKind {
	return domain.StepSocialConnection
}

func (f *SocialConnectionForm) normalize() {
	f.SocialAccounts.Instagram.Username = strings.TrimSpace(f.SocialAccounts.Instagram.Username)
	f.SocialAccounts.YouTube.Username = strings.TrimSpace(f.SocialAccounts.YouTube.Username)
	f.SocialAccounts.Twitter.Username = strings.TrimSpace(f.SocialAccounts.Twitter.Username)
}

func (f *SocialConnectionForm) Validate() validation.Errors {
	return validation.Errors{}
}

// Accounts lists the entries in platform order.
func (f *SocialConnectionForm) Accounts() []domain.SocialAccount {
	in := map[domain.Platform]AccountInput{
		domain.PlatformInstagram: f.SocialAccounts.Instagram,
		domain.PlatformYouTube:   f.SocialAccounts.YouTube,
		domain.PlatformTwitter:   f.SocialAccounts.Twitter,
	}
	out := make([]domain.SocialAccount, 0, len(domain.Platforms))
	for _, p := range domain.Platforms {
		a := in[p]
		out = append(out, domain.SocialAccount{
			Platform:  p,
			Username:  a.Username,
			Connected: a.Connected,
			Stats:     a.Stats,
		})
	}
	return out
}

// TotalStats is the manual entry when used, otherwise the summed audience of
// every account with zero engagement and reach.
func (f *SocialConnectionForm) TotalStats() domain.InfluencerStats {
	if f.UseManualEntry {
		return domain.InfluencerStats{
			Followers:  f.ManualEntry.TotalFollowers,
			Engagement: f.ManualEntry.AvgEngagement,
			Reach:      f.ManualEntry.AvgReach,
		}
	}
	var total int64
	for _, a := range f.Accounts() {
		total += a.Stats.Audience(a.Platform)
	}
	return domain.InfluencerStats{Followers: total}
}

func (f *SocialConnectionForm) Payload() (domain.Data, error) {
	var manual *domain.ManualStats
	if f.UseManualEntry {
		m := f.ManualEntry
		manual = &m
	}
	return domain.Data{
		domain.KeySocialAccounts: f.Accounts(),
		domain.KeyManualEntry:    manual,
		domain.KeyTotalStats:     f.TotalStats(),
	}, nil
}
