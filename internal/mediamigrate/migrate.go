package mediamigrate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/utafrali/catalog/internal/domain"
	"github.com/utafrali/catalog/internal/storage"
)

// DefaultFolder is the remote folder images are uploaded into.
const DefaultFolder = "products/"

// Config controls a migration run.
type Config struct {
	// MediaRoot is the directory holding the local image files. Stored
	// references are looked up here by base name.
	MediaRoot string
	// Folder is the remote folder passed to the uploader.
	Folder string
	// DryRun uploads and reports as usual but leaves every stored
	// reference untouched.
	DryRun bool
}

// DefaultMediaRoot returns <dir>/media/products for the project directory dir.
func DefaultMediaRoot(dir string) string {
	return filepath.Join(dir, "media", "products")
}

// ImageStore lists product images and persists rewritten references.
type ImageStore interface {
	ListAll(ctx context.Context) ([]domain.ProductImage, error)
	UpdateImage(ctx context.Context, id int64, ref string) error
}

// Summary counts the outcome of a run.
type Summary struct {
	Uploaded int
	Missing  int
	Skipped  int
}

// Migrator moves local product images to remote storage one record at a
// time.
type Migrator struct {
	store    ImageStore
	uploader storage.Uploader
	cfg      Config
	out      io.Writer
	logger   *slog.Logger
}

// NewMigrator creates a Migrator writing progress lines to out.
func NewMigrator(store ImageStore, uploader storage.Uploader, cfg Config, out io.Writer, logger *slog.Logger) *Migrator {
	if cfg.Folder == "" {
		cfg.Folder = DefaultFolder
	}
	if out == nil {
		out = io.Discard
	}
	return &Migrator{store: store, uploader: uploader, cfg: cfg, out: out, logger: logger}
}

// Run processes every product image in repository order. Records without a
// reference and records whose file is missing are reported and skipped. An
// upload or persist failure stops the run; records already rewritten stay
// rewritten.
//
// References are not checked for being remote already, so on a second run a
// migrated record is looked up by the base name of its URL and normally
// reported as missing.
func (m *Migrator) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	images, err := m.store.ListAll(ctx)
	if err != nil {
		return sum, fmt.Errorf("list product images: %w", err)
	}
	m.logger.InfoContext(ctx, "starting media migration",
		slog.Int("images", len(images)),
		slog.String("media_root", m.cfg.MediaRoot),
		slog.String("folder", m.cfg.Folder),
		slog.Bool("dry_run", m.cfg.DryRun),
	)

	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		if img.Image == "" {
			m.report(ctx, slog.LevelInfo, fmt.Sprintf("no local image for product image %d", img.ID), img.ID)
			sum.Skipped++
			continue
		}

		path := filepath.Join(m.cfg.MediaRoot, filepath.Base(img.Image))
		if _, err := os.Stat(path); err != nil {
			m.report(ctx, slog.LevelWarn, "file not found: "+path, img.ID)
			sum.Missing++
			continue
		}

		res, err := m.uploader.Upload(ctx, path, m.cfg.Folder)
		if err != nil {
			return sum, fmt.Errorf("upload product image %d: %w", img.ID, err)
		}
		line := fmt.Sprintf("uploaded %s -> %s", path, res.SecureURL)
		if m.cfg.DryRun {
			line += " (dry run, not saved)"
		} else if err := m.store.UpdateImage(ctx, img.ID, res.SecureURL); err != nil {
			return sum, fmt.Errorf("save product image %d: %w", img.ID, err)
		}

		m.report(ctx, slog.LevelInfo, line, img.ID)
		sum.Uploaded++
	}

	m.logger.InfoContext(ctx, "media migration finished",
		slog.Int("uploaded", sum.Uploaded),
		slog.Int("missing", sum.Missing),
		slog.Int("skipped", sum.Skipped),
	)
	return sum, nil
}

func (m *Migrator) report(ctx context.Context, level slog.Level, line string, imageID int64) {
	fmt.Fprintln(m.out, line)
	m.logger.Log(ctx, level, line, slog.Int64("image_id", imageID))
}
