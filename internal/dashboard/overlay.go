package dashboard

import (
	"context"
	"strings"

	"github.com/kapu/collabhub-go/internal/domain"
	"github.com/kapu/collabhub-go/internal/store"
	"github.com/kapu/collabhub-go/internal/util"
	"go.uber.org/zap"
)

// StoreOverlay shows the session's own profile on top of another source. It
// needs a profile store on the context; without one it falls back to the base data.
type StoreOverlay struct {
	base   Source
	logger *zap.Logger
}

func NewStoreOverlay(base Source, logger *zap.Logger) *StoreOverlay {
	return &StoreOverlay{base: base, logger: logger}
}

func (o *StoreOverlay) Influencer(ctx context.Context) (domain.InfluencerDashboard, error) {
	d, err := o.base.Influencer(ctx)
	if err != nil {
		return d, err
	}
	s, err := store.FromContext(ctx)
	if err != nil {
		o.logger.Debug("Dashboard overlay without store", zap.Error(err))
		return d, nil
	}
	p, err := s.InfluencerProfile(ctx)
	if err != nil || p == nil {
		return d, err
	}
	return OverlayInfluencer(d, *p), nil
}

func (o *StoreOverlay) Brand(ctx context.Context) (domain.BrandDashboard, error) {
	d, err := o.base.Brand(ctx)
	if err != nil {
		return d, err
	}
	s, err := store.FromContext(ctx)
	if err != nil {
		o.logger.Debug("Dashboard overlay without store", zap.Error(err))
		return d, nil
	}
	p, err := s.BrandProfile(ctx)
	if err != nil || p == nil {
		return d, err
	}
	return OverlayBrand(d, *p), nil
}

// OverlayInfluencer replaces the profile-derived parts of d with p.
func OverlayInfluencer(d domain.InfluencerDashboard, p domain.InfluencerProfile) domain.InfluencerDashboard {
	d.Profile.Name = p.Name
	d.Profile.Bio = p.Bio
	if p.ProfileImage != "" {
		d.Profile.ProfileImage = p.ProfileImage
	}
	d.Profile.CompletionPercentage = p.ProfileCompletion
	d.Profile.TotalFollowers = p.Stats.Followers
	d.Profile.AvgEngagement = p.Stats.Engagement

	d.SocialAccounts = []domain.LinkedAccount{
		linked("Instagram", p.SocialAccounts.Instagram),
		linked("YouTube", p.SocialAccounts.YouTube),
		linked("Twitter", p.SocialAccounts.Twitter),
	}

	portfolio := make([]domain.PortfolioItem, 0, len(p.SampleWorks))
	for i, w := range p.SampleWorks {
		title := w.Description
		if title == "" {
			title = "Sample Work " + w.ID
		}
		portfolio = append(portfolio, domain.PortfolioItem{
			ID:    i + 1,
			Title: title,
			Type:  string(w.Type),
			URL:   w.URL,
			Tags:  lowerAll(p.Tags),
		})
	}
	d.Portfolio = portfolio

	d.Earnings.Total = p.Earnings.Total
	d.Earnings.Pending = p.Earnings.Pending
	d.Earnings.Escrow = p.Earnings.Escrow
	d.Earnings.Released = p.Earnings.Released
	d.Analytics.EngagementRate = p.Stats.Engagement
	return d
}

// OverlayBrand replaces the profile-derived parts of d with p.
func OverlayBrand(d domain.BrandDashboard, p domain.BrandProfile) domain.BrandDashboard {
	d.Profile.CompanyName = p.CompanyName
	if p.Logo != "" {
		d.Profile.Logo = p.Logo
	}
	d.Profile.Description = p.Description
	d.Profile.Industry = p.Industry
	d.Profile.SubscriptionStatus = string(p.Subscription.Status)
	d.Profile.SubscriptionPlan = string(p.Subscription.Plan)
	if !p.Subscription.RenewalDate.IsZero() {
		d.Profile.SubscriptionEndDate = util.FormatIST(p.Subscription.RenewalDate, "2006-01-02")
	}
	d.Payments.EscrowBalance = p.EscrowBalance
	return d
}

func linked(platform, handle string) domain.LinkedAccount {
	return domain.LinkedAccount{
		Platform:  platform,
		Username:  handle,
		Connected: handle != "",
	}
}

func lowerAll(tags []string) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = strings.ToLower(t)
	}
	return out
}
