// Command migrate-media uploads the product images kept on local disk to
// remote storage and rewrites each database reference to the returned URL.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/utafrali/catalog/internal/config"
	"github.com/utafrali/catalog/internal/mediamigrate"
	"github.com/utafrali/catalog/internal/repository/postgres"
	"github.com/utafrali/catalog/pkg/database"
	"github.com/utafrali/catalog/pkg/logger"
)

const serviceName = "media-migration"

func main() {
	cfg, err := config.LoadMigrate(".env")
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Progress lines go to stdout; structured logs go to stderr.
	log := logger.NewWithWriter(serviceName, cfg.LogLevel, os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, os.Stdout, log); err != nil {
		log.Error("media migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.MigrateConfig, out io.Writer, log *slog.Logger) error {
	mediaRoot := cfg.MediaRoot
	if mediaRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		mediaRoot = mediamigrate.DefaultMediaRoot(wd)
	}

	uploader, err := newUploader(ctx, cfg)
	if err != nil {
		return err
	}

	pgCfg := cfg.PostgresConfig()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, log)
	}

	migrator := mediamigrate.NewMigrator(
		postgres.NewImageRepository(pool),
		uploader,
		mediamigrate.Config{MediaRoot: mediaRoot, Folder: cfg.MediaFolder, DryRun: cfg.DryRun()},
		out,
		log,
	)

	sum, err := migrator.Run(ctx)
	fmt.Fprintf(out, "uploaded: %d, missing: %d, skipped: %d\n", sum.Uploaded, sum.Missing, sum.Skipped)
	return err
}
