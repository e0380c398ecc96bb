package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/offermat/offermat/internal/domain"
	"gorm.io/gorm"
)

// productSelect joins the owning category onto each product row. Products
// without a category still appear, with null category fields.
const productSelect = "products.*, categories.name AS category_name, categories.default_margin AS category_default_margin"

// ProductRepository handles product data access operations
type ProductRepository struct {
	db    *gorm.DB
	retry RetryPolicy
}

// NewProductRepository creates a new product repository instance
func NewProductRepository(db *gorm.DB, retry RetryPolicy) *ProductRepository {
	return &ProductRepository{db: db, retry: retry}
}

// Create inserts a new product
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.retry.run(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Create(product).Error
	})
}

// GetByID retrieves a product by its ID
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByCode finds a product by its code, or returns nil when absent
func (r *ProductRepository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetView retrieves a product with its joined category fields
func (r *ProductRepository) GetView(ctx context.Context, id uuid.UUID) (*domain.ProductView, error) {
	var view domain.ProductView
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Select(productSelect).
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("products.id = ?", id).
		First(&view).Error
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Update updates an existing product
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	return r.retry.run(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Save(product).Error
	})
}

// Delete removes a product by ID. Deleting a nonexistent ID is not an error.
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.retry.run(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Delete(&domain.Product{}, "id = ?", id).Error
	})
}

// List returns all products ordered by name, optionally filtered by category,
// each enriched with the joined category name and default margin
func (r *ProductRepository) List(ctx context.Context, categoryID *uuid.UUID) ([]domain.ProductView, error) {
	var views []domain.ProductView
	query := r.db.WithContext(ctx).Model(&domain.Product{}).
		Select(productSelect).
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Order("products.name")

	if categoryID != nil {
		query = query.Where("products.category_id = ?", *categoryID)
	}

	err := query.Find(&views).Error
	return views, err
}

// Search returns products whose name or code contains the query,
// case-insensitive. An empty query lists everything.
func (r *ProductRepository) Search(ctx context.Context, searchQuery string) ([]domain.ProductView, error) {
	var views []domain.ProductView
	searchPattern := "%" + strings.ToLower(searchQuery) + "%"
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Select(productSelect).
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("LOWER(products.name) LIKE ? OR LOWER(products.code) LIKE ?", searchPattern, searchPattern).
		Order("products.name").
		Find(&views).Error
	return views, err
}

// ImportBatch upserts records keyed by code inside a single transaction, so a
// failure rolls back the whole batch rather than leaving it half applied.
// The purchase price date is bumped only when the price moves beyond the
// tolerance. The upsert is idempotent, so the batch participates in the
// bounded retry loop.
func (r *ProductRepository) ImportBatch(ctx context.Context, records []domain.ImportRecord) (inserted, updated int, err error) {
	err = r.retry.run(ctx, func(ctx context.Context) error {
		inserted, updated = 0, 0
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			now := time.Now().UTC()
			for _, rec := range records {
				var existing domain.Product
				findErr := tx.Where("code = ?", rec.Code).First(&existing).Error
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					product := domain.Product{
						Code:             rec.Code,
						Name:             rec.Name,
						Unit:             rec.Unit,
						PurchasePriceNet: rec.PurchasePriceNet,
						PriceUpdateDate:  now,
						VATRate:          rec.VATRate,
						CategoryID:       rec.CategoryID,
					}
					if err := tx.Create(&product).Error; err != nil {
						return err
					}
					inserted++
					continue
				}
				if findErr != nil {
					return findErr
				}

				existing.Name = rec.Name
				existing.Unit = rec.Unit
				existing.VATRate = rec.VATRate
				existing.CategoryID = rec.CategoryID
				if domain.PriceChanged(existing.PurchasePriceNet, rec.PurchasePriceNet) {
					existing.PurchasePriceNet = rec.PurchasePriceNet
					existing.PriceUpdateDate = now
				}
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
				updated++
			}
			return nil
		})
	})
	if err != nil {
		return 0, 0, err
	}
	return inserted, updated, nil
}
