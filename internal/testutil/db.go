package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/offermat/offermat/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a throwaway sqlite store in the test's temp directory and
// migrates the full schema. The file is removed with the temp dir when the
// test finishes.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "offermat_test.db")
	dsn := fmt.Sprintf("%s?_busy_timeout=1000&_foreign_keys=on", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(&domain.Category{}, &domain.Product{}, &domain.BusinessCard{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// CreateTestCategory inserts a category with the given name and margin
func CreateTestCategory(t *testing.T, db *gorm.DB, name string, defaultMargin float64) *domain.Category {
	t.Helper()

	category := &domain.Category{
		Name:          name,
		DefaultMargin: decimal.NewFromFloat(defaultMargin),
	}
	err := db.Create(category).Error
	require.NoError(t, err)
	return category
}

// CreateTestProduct inserts a product with sensible defaults. categoryID may
// be nil for an uncategorized product.
func CreateTestProduct(t *testing.T, db *gorm.DB, code, name string, price float64, categoryID *uuid.UUID) *domain.Product {
	t.Helper()

	product := &domain.Product{
		Code:             code,
		Name:             name,
		Unit:             domain.DefaultUnit,
		PurchasePriceNet: decimal.NewFromFloat(price),
		PriceUpdateDate:  time.Now().UTC(),
		VATRate:          decimal.NewFromInt(23),
		CategoryID:       categoryID,
	}
	err := db.Create(product).Error
	require.NoError(t, err)
	return product
}
