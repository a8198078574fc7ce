package postgres

import (
	"context"
	"fmt"

	"github.com/utafrali/catalog/internal/domain"
	"github.com/utafrali/catalog/pkg/database"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// ListByProducts returns the reviews of each given product, newest first,
// with the author and the author's profile attached.
func (r *ReviewRepository) ListByProducts(ctx context.Context, productIDs []int64) (map[int64][]domain.Review, error) {
	out := make(map[int64][]domain.Review, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT r.id, r.product_id, r.rating, r.comment, r.created_at,
			   u.id, u.username, pr.user_id, pr.avatar
		FROM catalog_review r
		JOIN auth_user u ON u.id = r.user_id
		LEFT JOIN accounts_profile pr ON pr.user_id = u.id
		WHERE r.product_id = ANY($1)
		ORDER BY r.product_id, r.created_at DESC`

	rows, err := r.pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rv        domain.Review
			profileID *int64
			avatar    *string
		)
		if err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
			&rv.User.ID,
			&rv.User.Username,
			&profileID,
			&avatar,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		if profileID != nil {
			rv.User.Profile = &domain.Profile{Avatar: deref(avatar)}
		}
		out[rv.ProductID] = append(out[rv.ProductID], rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}
	return out, nil
}
