// Package seed populates a development catalog with deterministic products
// whose images live on local disk, ready for the media migration.
package seed

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/utafrali/catalog/internal/domain"
	"github.com/utafrali/catalog/internal/repository"
	"github.com/utafrali/catalog/internal/storage"
)

// DB is the subset of a pgx pool the seeder needs besides the product
// repository.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

type term struct {
	Name string
	Slug string
}

var (
	categoryTerms = []term{{"Home", "home"}, {"Lighting", "lighting"}, {"Kitchen", "kitchen"}}
	brandTerms    = []term{{"Lumo", "lumo"}, {"Nordform", "nordform"}, {"Casa Verde", "casa-verde"}}
	tagTerms      = []term{{"Sale", "sale"}, {"Eco", "eco"}, {"New Arrival", "new-arrival"}}

	adjectives = []string{"Oak", "Linen", "Brass", "Ceramic", "Walnut", "Marble", "Rattan", "Copper"}
	nouns      = []string{"Lamp", "Vase", "Bowl", "Chair", "Shelf", "Mirror", "Tray", "Pendant"}
	discounts  = []int{0, 0, 0, 10, 15, 25}
)

// Config controls the generated data set.
type Config struct {
	SellerID         int64
	Products         int
	ImagesPerProduct int
	// MediaRoot receives the placeholder image files.
	MediaRoot string
	// Folder prefixes the stored image references, e.g. "products/".
	Folder string
}

// Result counts the rows written.
type Result struct {
	Products int
	Images   int
}

// Seeder writes taxonomy, products and local product images.
type Seeder struct {
	db       DB
	products repository.ProductRepository
	cfg      Config
	logger   *slog.Logger
	rng      *rand.Rand
}

// New creates a Seeder. The random source is fixed so runs are repeatable.
func New(db DB, products repository.ProductRepository, cfg Config, logger *slog.Logger) *Seeder {
	return &Seeder{
		db:       db,
		products: products,
		cfg:      cfg,
		logger:   logger,
		rng:      rand.New(rand.NewSource(42)), //nolint:gosec // deterministic fixtures
	}
}

// Run upserts the taxonomy, creates the products with their tags and writes
// one placeholder file per image before bulk-inserting the image rows.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result
	if s.cfg.SellerID <= 0 {
		return res, fmt.Errorf("seller id must be positive")
	}

	categoryIDs, err := s.upsertTerms(ctx, "catalog_category", categoryTerms)
	if err != nil {
		return res, err
	}
	brandIDs, err := s.upsertTerms(ctx, "catalog_brand", brandTerms)
	if err != nil {
		return res, err
	}
	tagIDs, err := s.upsertTerms(ctx, "catalog_tag", tagTerms)
	if err != nil {
		return res, err
	}
	s.logger.InfoContext(ctx, "taxonomy seeded",
		slog.Int("categories", len(categoryIDs)),
		slog.Int("brands", len(brandIDs)),
		slog.Int("tags", len(tagIDs)),
	)

	if err := os.MkdirAll(s.cfg.MediaRoot, 0o755); err != nil {
		return res, fmt.Errorf("create media root: %w", err)
	}

	var imageRows [][]any
	for i := 0; i < s.cfg.Products; i++ {
		p := s.generate(i, categoryIDs, brandIDs, tagIDs)
		if err := s.products.Create(ctx, p); err != nil {
			return res, fmt.Errorf("create product %d: %w", i, err)
		}
		res.Products++

		for k := 0; k < s.cfg.ImagesPerProduct; k++ {
			name := fmt.Sprintf("seed-%d-%d.png", p.ID, k)
			if err := s.writePlaceholder(filepath.Join(s.cfg.MediaRoot, name)); err != nil {
				return res, err
			}
			imageRows = append(imageRows, []any{p.ID, s.imageRef(name)})
		}
	}

	if len(imageRows) > 0 {
		n, err := s.db.CopyFrom(ctx,
			pgx.Identifier{"catalog_productimage"},
			[]string{"product_id", "image"},
			pgx.CopyFromRows(imageRows),
		)
		if err != nil {
			return res, fmt.Errorf("copy product images: %w", err)
		}
		res.Images = int(n)
	}

	s.logger.InfoContext(ctx, "catalog seeded",
		slog.Int("products", res.Products),
		slog.Int("images", res.Images),
		slog.String("media_root", s.cfg.MediaRoot),
	)
	return res, nil
}

// upsertTerms inserts terms keyed by slug and returns their ids in order.
func (s *Seeder) upsertTerms(ctx context.Context, table string, terms []term) ([]int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, table)

	ids := make([]int64, len(terms))
	for i, t := range terms {
		if err := s.db.QueryRow(ctx, query, t.Name, t.Slug).Scan(&ids[i]); err != nil {
			return nil, fmt.Errorf("upsert %s %q: %w", table, t.Slug, err)
		}
	}
	return ids, nil
}

func (s *Seeder) generate(i int, categoryIDs, brandIDs, tagIDs []int64) *domain.Product {
	r := s.rng
	title := fmt.Sprintf("%s %s %d", adjectives[r.Intn(len(adjectives))], nouns[r.Intn(len(nouns))], i+1)

	p := &domain.Product{
		SellerID:        s.cfg.SellerID,
		Title:           title,
		Description:     "A " + title + " from the seed catalog.",
		Price:           decimal.New(int64(500+r.Intn(49500)), -2),
		Stock:           r.Intn(50),
		Category:        &domain.Category{ID: categoryIDs[r.Intn(len(categoryIDs))]},
		Brand:           &domain.Brand{ID: brandIDs[r.Intn(len(brandIDs))]},
		DiscountPercent: discounts[r.Intn(len(discounts))],
		Featured:        r.Intn(5) == 0,
	}

	// One or two distinct tags.
	first := r.Intn(len(tagIDs))
	p.Tags = []domain.Tag{{ID: tagIDs[first]}}
	if r.Intn(2) == 0 && len(tagIDs) > 1 {
		p.Tags = append(p.Tags, domain.Tag{ID: tagIDs[(first+1)%len(tagIDs)]})
	}
	return p
}

// writePlaceholder writes a small solid-colour PNG.
// imageRef is the stored reference of a seeded file, relative to the media
// directory.
func (s *Seeder) imageRef(name string) string {
	return storage.JoinFolder(s.cfg.Folder, name)
}

func (s *Seeder) writePlaceholder(path string) error {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	c := color.RGBA{R: uint8(s.rng.Intn(256)), G: uint8(s.rng.Intn(256)), B: uint8(s.rng.Intn(256)), A: 255}
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, c)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
