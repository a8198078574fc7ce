package postgres

import (
	"context"
	"fmt"

	"github.com/utafrali/catalog/internal/domain"
	"github.com/utafrali/catalog/pkg/database"
	apperrors "github.com/utafrali/catalog/pkg/errors"
)

// ImageRepository implements repository.ImageRepository using PostgreSQL.
type ImageRepository struct {
	pool database.DBTX
}

// NewImageRepository creates a new PostgreSQL-backed image repository.
func NewImageRepository(pool database.DBTX) *ImageRepository {
	return &ImageRepository{pool: pool}
}

// ListByProducts returns the images of each given product, keyed by product id.
func (r *ImageRepository) ListByProducts(ctx context.Context, productIDs []int64) (map[int64][]domain.ProductImage, error) {
	out := make(map[int64][]domain.ProductImage, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, product_id, image FROM catalog_productimage WHERE product_id = ANY($1) ORDER BY id`,
		productIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img domain.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.Image); err != nil {
			return nil, fmt.Errorf("scan product image row: %w", err)
		}
		out[img.ProductID] = append(out[img.ProductID], img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product image rows: %w", err)
	}
	return out, nil
}

// ListAll returns every product image ordered by id. A NULL image column is
// reported as an empty reference.
func (r *ImageRepository) ListAll(ctx context.Context) (_ []domain.ProductImage, err error) {
	query := `SELECT id, product_id, COALESCE(image, '') FROM catalog_productimage ORDER BY id`

	ctx, end := database.TraceQuery(ctx, "ListAllImages", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	images := []domain.ProductImage{}
	for rows.Next() {
		var img domain.ProductImage
		if err = rows.Scan(&img.ID, &img.ProductID, &img.Image); err != nil {
			return nil, fmt.Errorf("scan image row: %w", err)
		}
		images = append(images, img)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate image rows: %w", err)
	}
	return images, nil
}

// UpdateImage overwrites the stored reference of one image.
func (r *ImageRepository) UpdateImage(ctx context.Context, id int64, ref string) (err error) {
	query := `UPDATE catalog_productimage SET image = $1 WHERE id = $2`

	ctx, end := database.TraceQuery(ctx, "UpdateImage", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, ref, id)
	if err != nil {
		return fmt.Errorf("update image: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product image", id)
	}
	return nil
}
