// Command seed fills a development database with products whose images are
// stored on local disk.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/utafrali/catalog/internal/config"
	"github.com/utafrali/catalog/internal/mediamigrate"
	"github.com/utafrali/catalog/internal/repository/postgres"
	"github.com/utafrali/catalog/internal/seed"
	"github.com/utafrali/catalog/pkg/database"
	"github.com/utafrali/catalog/pkg/logger"
)

func main() {
	cfg, err := config.LoadSeed(".env")
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("catalog-seed", cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mediaRoot := cfg.MediaRoot
	if mediaRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			log.Error("failed to resolve working directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
		mediaRoot = mediamigrate.DefaultMediaRoot(wd)
	}

	pgCfg := cfg.PostgresConfig()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, log)
	if err != nil {
		log.Error("failed to connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	seeder := seed.New(pool, postgres.NewProductRepository(pool), seed.Config{
		SellerID:         cfg.SellerID,
		Products:         cfg.Products,
		ImagesPerProduct: cfg.ImagesPerProduct,
		MediaRoot:        mediaRoot,
		Folder:           cfg.MediaFolder,
	}, log)

	if _, err := seeder.Run(ctx); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		pool.Close()
		os.Exit(1)
	}
}
