package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/catalog/internal/domain"
	"github.com/utafrali/catalog/internal/repository"
	"github.com/utafrali/catalog/pkg/database"
	apperrors "github.com/utafrali/catalog/pkg/errors"
)

const productSelect = `
		SELECT p.id, p.seller_id, u.username, p.title, p.description, p.price, p.stock,
			   c.id, c.name, c.slug, b.id, b.name, b.slug,
			   p.discount_percent, p.featured, p.created_at
		FROM catalog_product p
		JOIN auth_user u ON u.id = p.seller_id
		LEFT JOIN catalog_category c ON c.id = p.category_id
		LEFT JOIN catalog_brand b ON b.id = p.brand_id`

// Tables holding a product_id foreign key. Rows are removed before the
// product itself since the schema declares no ON DELETE CASCADE.
var productChildTables = []string{
	"catalog_product_tags",
	"catalog_productimage",
	"catalog_review",
	"catalog_wishlist",
}

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product and its tag links in a single transaction.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (err error) {
	query := `
		INSERT INTO catalog_product (seller_id, title, description, price, stock, category_id, brand_id, discount_percent, featured, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		RETURNING id, created_at`

	ctx, end := database.TraceQuery(ctx, "CreateProduct", query)
	defer func() { end(err) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	err = tx.QueryRow(ctx, query,
		p.SellerID,
		p.Title,
		p.Description,
		p.Price,
		p.Stock,
		categoryID(p),
		brandID(p),
		p.DiscountPercent,
		p.Featured,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	if err = linkTags(ctx, tx, p.ID, p.TagIDs()); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return p, nil
}

// List returns products matching the given filter, newest first.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) (_ []domain.Product, err error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.IDs != nil {
		conditions = append(conditions, fmt.Sprintf("p.id = ANY($%d)", argIndex))
		args = append(args, filter.IDs)
		argIndex++
	}

	if filter.CategorySlug != nil {
		conditions = append(conditions, fmt.Sprintf("c.slug = $%d", argIndex))
		args = append(args, *filter.CategorySlug)
		argIndex++
	}

	if filter.BrandSlug != nil {
		conditions = append(conditions, fmt.Sprintf("b.slug = $%d", argIndex))
		args = append(args, *filter.BrandSlug)
		argIndex++
	}

	if filter.TagSlug != nil {
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM catalog_product_tags pt
			JOIN catalog_tag t ON t.id = pt.tag_id
			WHERE pt.product_id = p.id AND t.slug = $%d)`, argIndex))
		args = append(args, *filter.TagSlug)
		argIndex++
	}

	if filter.Featured != nil {
		conditions = append(conditions, fmt.Sprintf("p.featured = $%d", argIndex))
		args = append(args, *filter.Featured)
		argIndex++
	}

	if filter.SellerID != nil {
		conditions = append(conditions, fmt.Sprintf("p.seller_id = $%d", argIndex))
		args = append(args, *filter.SellerID)
	}

	query := productSelect
	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY p.created_at DESC, p.id DESC"

	ctx, end := database.TraceQuery(ctx, "ListProducts", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

// Update rewrites the product's scalar fields and replaces its tag links.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) (err error) {
	query := `
		UPDATE catalog_product
		SET title = $1, description = $2, price = $3, stock = $4, category_id = $5,
			brand_id = $6, discount_percent = $7, featured = $8
		WHERE id = $9`

	ctx, end := database.TraceQuery(ctx, "UpdateProduct", query)
	defer func() { end(err) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	ct, err := tx.Exec(ctx, query,
		p.Title,
		p.Description,
		p.Price,
		p.Stock,
		categoryID(p),
		brandID(p),
		p.DiscountPercent,
		p.Featured,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM catalog_product_tags WHERE product_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clear product tags: %w", err)
	}
	if err = linkTags(ctx, tx, p.ID, p.TagIDs()); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Delete removes a product together with the rows that reference it.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, table := range productChildTables {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE product_id = $1", id); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}

	ct, err := tx.Exec(ctx, `DELETE FROM catalog_product WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func linkTags(ctx context.Context, tx pgx.Tx, productID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO catalog_product_tags (product_id, tag_id) SELECT $1, unnest($2::bigint[])`,
		productID, tagIDs,
	)
	if err != nil {
		return fmt.Errorf("insert product tags: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p                        domain.Product
		catID, brID              *int64
		catName, catSlug         *string
		brandName, brandSlug *string
	)

	err := row.Scan(
		&p.ID,
		&p.SellerID,
		&p.SellerUsername,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Stock,
		&catID, &catName, &catSlug,
		&brID, &brandName, &brandSlug,
		&p.DiscountPercent,
		&p.Featured,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if catID != nil {
		p.Category = &domain.Category{ID: *catID, Name: deref(catName), Slug: deref(catSlug)}
	}
	if brID != nil {
		p.Brand = &domain.Brand{ID: *brID, Name: deref(brandName), Slug: deref(brandSlug)}
	}
	return &p, nil
}

func categoryID(p *domain.Product) *int64 {
	if p.Category == nil {
		return nil
	}
	return &p.Category.ID
}

func brandID(p *domain.Product) *int64 {
	if p.Brand == nil {
		return nil
	}
	return &p.Brand.ID
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
