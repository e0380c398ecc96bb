package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/offermat/offermat/internal/domain"
	"gorm.io/gorm"
)

// CategoryRepository handles category data access operations
type CategoryRepository struct {
	db    *gorm.DB
	retry RetryPolicy
}

// NewCategoryRepository creates a new category repository instance
func NewCategoryRepository(db *gorm.DB, retry RetryPolicy) *CategoryRepository {
	return &CategoryRepository{db: db, retry: retry}
}

// Create inserts a new category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return r.retry.run(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Create(category).Error
	})
}

// GetByID retrieves a category by its ID
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	var category domain.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetByName finds a category by its exact name, or returns nil when absent
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	var category domain.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// List returns all categories ordered by name
func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

// ListByIDs returns the categories with the given IDs ordered by name
func (r *CategoryRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name").Find(&categories).Error
	return categories, err
}

// Update updates an existing category in place
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	return r.retry.run(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Save(category).Error
	})
}

// Delete removes a category by ID
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.retry.run(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Delete(&domain.Category{}, "id = ?", id).Error
	})
}

// CountProducts returns how many products reference the category
func (r *CategoryRepository) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}
