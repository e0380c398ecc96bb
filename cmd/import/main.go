package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/offermat/offermat/internal/config"
	"github.com/offermat/offermat/internal/database"
	"github.com/offermat/offermat/internal/importer"
	"github.com/offermat/offermat/internal/logger"
	"github.com/offermat/offermat/internal/repository"
	"github.com/offermat/offermat/internal/service"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		filePath     = flag.String("file", "", "path to the CSV or XLSX file to import")
		categoryName = flag.String("category", "", "category name to assign to imported products (optional)")
		validateOnly = flag.Bool("validate", false, "preview the file without importing")
	)
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		return fmt.Errorf("missing required -file flag")
	}

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	imp := importer.NewImporter(&cfg.Import, logger.WithComponent(log, "importer"))

	if *validateOnly {
		preview := imp.Validate(*filePath)
		if !preview.Valid {
			return fmt.Errorf("invalid file: %s", preview.Message)
		}
		fmt.Println(preview.Message)
		fmt.Printf("Columns: %v\n", preview.Columns)
		for i, row := range preview.Rows {
			fmt.Printf("Row %d: %v\n", i+1, row)
		}
		return nil
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.Driver == "sqlite" {
		// A fresh sqlite file has no schema yet
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	retryPolicy := repository.RetryPolicy{
		Attempts: uint64(cfg.Database.RetryAttempts),
		Backoff:  cfg.Database.RetryBackoff(),
	}
	categoryRepo := repository.NewCategoryRepository(db, retryPolicy)
	productRepo := repository.NewProductRepository(db, retryPolicy)
	catalogService := service.NewCatalogService(categoryRepo, productRepo, log)

	// Resolve the optional target category by name
	var categoryID *uuid.UUID
	if *categoryName != "" {
		category, err := categoryRepo.GetByName(ctx, *categoryName)
		if err != nil {
			return fmt.Errorf("failed to look up category: %w", err)
		}
		if category == nil {
			return fmt.Errorf("category %q does not exist", *categoryName)
		}
		categoryID = &category.ID
	}

	records, err := imp.ReadFile(*filePath, categoryID)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no importable rows in %s", *filePath)
	}

	result, err := catalogService.ImportProducts(ctx, records)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	log.Info("Import finished",
		zap.String("file", *filePath),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
	)
	fmt.Printf("Imported %d rows: %d inserted, %d updated\n",
		result.Inserted+result.Updated, result.Inserted, result.Updated)
	return nil
}
