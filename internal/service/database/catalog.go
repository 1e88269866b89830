package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kapu/collabhub-go/internal/domain"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS opportunities (
	id            INTEGER PRIMARY KEY,
	title         TEXT NOT NULL,
	brand         TEXT NOT NULL,
	budget        BIGINT NOT NULL DEFAULT 0,
	deal_type     TEXT NOT NULL,
	status        TEXT NOT NULL,
	min_followers BIGINT NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS discoverable_influencers (
	id              INTEGER PRIMARY KEY,
	name            TEXT NOT NULL,
	image           TEXT NOT NULL DEFAULT '',
	followers       BIGINT NOT NULL DEFAULT 0,
	engagement_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
	niches          TEXT[] NOT NULL DEFAULT '{}',
	region          TEXT NOT NULL DEFAULT '',
	language        TEXT NOT NULL DEFAULT ''
);
`

// CatalogRepository reads the shared marketplace listings shown on dashboards.
type CatalogRepository struct {
	postgres *PostgresService
	logger   *zap.Logger
}

func NewCatalogRepository(postgres *PostgresService, logger *zap.Logger) *CatalogRepository {
	return &CatalogRepository{
		postgres: postgres,
		logger:   logger,
	}
}

func (r *CatalogRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.postgres.GetDB().ExecContext(ctx, catalogSchema); err != nil {
		return fmt.Errorf("failed to create catalog schema: %w", err)
	}
	return nil
}

func (r *CatalogRepository) Opportunities(ctx context.Context) ([]domain.Opportunity, error) {
	query := `
		SELECT id, title, brand, budget, deal_type, status, min_followers
		FROM opportunities
		ORDER BY id
	`
	rows, err := r.postgres.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query opportunities: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Opportunity, 0)
	for rows.Next() {
		var o domain.Opportunity
		if err := rows.Scan(&o.ID, &o.Title, &o.Brand, &o.Budget, &o.Type, &o.Status, &o.MinFollowers); err != nil {
			return nil, fmt.Errorf("failed to scan opportunity: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) Influencers(ctx context.Context) ([]domain.DiscoverableInfluencer, error) {
	query := `
		SELECT id, name, image, followers, engagement_rate, niches, region, language
		FROM discoverable_influencers
		ORDER BY id
	`
	rows, err := r.postgres.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query influencers: %w", err)
	}
	defer rows.Close()

	out := make([]domain.DiscoverableInfluencer, 0)
	for rows.Next() {
		var inf domain.DiscoverableInfluencer
		var niches pq.StringArray
		if err := rows.Scan(&inf.ID, &inf.Name, &inf.Image, &inf.Followers, &inf.EngagementRate, &niches, &inf.Region, &inf.Language); err != nil {
			return nil, fmt.Errorf("failed to scan influencer: %w", err)
		}
		inf.Niches = []string(niches)
		out = append(out, inf)
	}
	return out, rows.Err()
}

// Seed replaces both listings in one transaction.
func (r *CatalogRepository) Seed(ctx context.Context, opportunities []domain.Opportunity, influencers []domain.DiscoverableInfluencer) error {
	return r.postgres.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM opportunities`); err != nil {
			return fmt.Errorf("failed to clear opportunities: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM discoverable_influencers`); err != nil {
			return fmt.Errorf("failed to clear influencers: %w", err)
		}

		for _, o := range opportunities {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO opportunities (id, title, brand, budget, deal_type, status, min_followers)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, o.ID, o.Title, o.Brand, o.Budget, o.Type, o.Status, o.MinFollowers)
			if err != nil {
				return fmt.Errorf("failed to insert opportunity %d: %w", o.ID, err)
			}
		}
		for _, inf := range influencers {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO discoverable_influencers (id, name, image, followers, engagement_rate, niches, region, language)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, inf.ID, inf.Name, inf.Image, inf.Followers, inf.EngagementRate, pq.Array(inf.Niches), inf.Region, inf.Language)
			if err != nil {
				return fmt.Errorf("failed to insert influencer %d: %w", inf.ID, err)
			}
		}

		r.logger.Info("Catalog seeded",
			zap.Int("opportunities", len(opportunities)),
			zap.Int("influencers", len(influencers)),
		)
		return nil
	})
}
