package dashboard

import (
	"context"

	"github.com/kapu/collabhub-go/internal/domain"
)

// Catalog lists the marketplace data shared by every session.
type Catalog interface {
	Opportunities(ctx context.Context) ([]domain.Opportunity, error)
	Influencers(ctx context.Context) ([]domain.DiscoverableInfluencer, error)
}

// CatalogSource takes opportunities and discoverable influencers from a catalog
// and everything else from base.
type CatalogSource struct {
	base    Source
	catalog Catalog
}

func NewCatalogSource(base Source, catalog Catalog) *CatalogSource {
	return &CatalogSource{base: base, catalog: catalog}
}

func (c *CatalogSource) Influencer(ctx context.Context) (domain.InfluencerDashboard, error) {
	d, err := c.base.Influencer(ctx)
	if err != nil {
		return d, err
	}
	opps, err := c.catalog.Opportunities(ctx)
	if err != nil {
		return d, err
	}
	d.Opportunities = opps
	return d, nil
}

func (c *CatalogSource) Brand(ctx context.Context) (domain.BrandDashboard, error) {
	d, err := c.base.Brand(ctx)
	if err != nil {
		return d, err
	}
	infs, err := c.catalog.Influencers(ctx)
	if err != nil {
		return d, err
	}
	d.Discovery = infs
	return d, nil
}
