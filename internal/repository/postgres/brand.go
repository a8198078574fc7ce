package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/catalog/internal/domain"
	"github.com/utafrali/catalog/pkg/database"
	apperrors "github.com/utafrali/catalog/pkg/errors"
)

// BrandRepository implements brand persistence operations using PostgreSQL.
type BrandRepository struct {
	pool database.DBTX
}

// NewBrandRepository creates a new PostgreSQL-backed brand repository.
func NewBrandRepository(pool database.DBTX) *BrandRepository {
	return &BrandRepository{pool: pool}
}

// List returns all brands ordered by name.
func (r *BrandRepository) List(ctx context.Context) ([]domain.Brand, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug FROM catalog_brand ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}

	brands, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Brand, error) {
		var b domain.Brand
		err := row.Scan(&b.ID, &b.Name, &b.Slug)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan brand rows: %w", err)
	}
	if brands == nil {
		brands = []domain.Brand{}
	}
	return brands, nil
}

// GetBySlug retrieves a brand by slug.
func (r *BrandRepository) GetBySlug(ctx context.Context, slug string) (*domain.Brand, error) {
	var b domain.Brand
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, slug FROM catalog_brand WHERE slug = $1`, slug,
	).Scan(&b.ID, &b.Name, &b.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get brand by slug: %w", err)
	}
	return &b, nil
}
