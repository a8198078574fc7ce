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

// WishlistRepository implements repository.WishlistRepository using PostgreSQL.
type WishlistRepository struct {
	pool database.DBTX
}

// NewWishlistRepository creates a new PostgreSQL-backed wishlist repository.
func NewWishlistRepository(pool database.DBTX) *WishlistRepository {
	return &WishlistRepository{pool: pool}
}

// Add saves the product for the user. When the user already saved it, item
// is filled from the existing row instead.
func (r *WishlistRepository) Add(ctx context.Context, item *domain.WishlistItem) error {
	err := r.pool.QueryRow(ctx,
		`SELECT id, created_at FROM catalog_wishlist WHERE user_id = $1 AND product_id = $2`,
		item.UserID, item.ProductID,
	).Scan(&item.ID, &item.CreatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("find wishlist item: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO catalog_wishlist (user_id, product_id, created_at) VALUES ($1, $2, now()) RETURNING id, created_at`,
		item.UserID, item.ProductID,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("wishlist item", "product_id", fmt.Sprint(item.ProductID))
		}
		return fmt.Errorf("insert wishlist item: %w", err)
	}
	return nil
}

// Remove deletes the item if it belongs to userID.
func (r *WishlistRepository) Remove(ctx context.Context, userID, id int64) error {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM catalog_wishlist WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListByUser returns the user's items, newest first. Products are attached by
// the caller.
func (r *WishlistRepository) ListByUser(ctx context.Context, userID int64) ([]domain.WishlistItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, product_id, created_at FROM catalog_wishlist WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	items := []domain.WishlistItem{}
	for rows.Next() {
		var it domain.WishlistItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductID, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wishlist row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wishlist rows: %w", err)
	}
	return items, nil
}
