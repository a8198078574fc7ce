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

// TagRepository implements tag persistence operations using PostgreSQL.
type TagRepository struct {
	pool database.DBTX
}

// NewTagRepository creates a new PostgreSQL-backed tag repository.
func NewTagRepository(pool database.DBTX) *TagRepository {
	return &TagRepository{pool: pool}
}

// List returns all tags ordered by name.
func (r *TagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug FROM catalog_tag ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("scan tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tag rows: %w", err)
	}
	return tags, nil
}

// GetBySlug retrieves a tag by slug.
func (r *TagRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	var t domain.Tag
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, slug FROM catalog_tag WHERE slug = $1`, slug,
	).Scan(&t.ID, &t.Name, &t.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get tag by slug: %w", err)
	}
	return &t, nil
}

// ListByProducts returns the tags of each given product, keyed by product id.
func (r *TagRepository) ListByProducts(ctx context.Context, productIDs []int64) (map[int64][]domain.Tag, error) {
	out := make(map[int64][]domain.Tag, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT pt.product_id, t.id, t.name, t.slug
		FROM catalog_product_tags pt
		JOIN catalog_tag t ON t.id = pt.tag_id
		WHERE pt.product_id = ANY($1)
		ORDER BY pt.product_id, pt.id`

	rows, err := r.pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("list product tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			productID int64
			t         domain.Tag
		)
		if err := rows.Scan(&productID, &t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("scan product tag row: %w", err)
		}
		out[productID] = append(out[productID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product tag rows: %w", err)
	}
	return out, nil
}
