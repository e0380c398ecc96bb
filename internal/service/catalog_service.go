package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/offermat/offermat/internal/domain"
	"github.com/offermat/offermat/internal/mapper"
	"github.com/offermat/offermat/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogService handles business logic for categories and products:
// uniqueness rules, the category deletion policy, and the conditional
// price update date.
//
// Deletion policy: a category that products still reference is NOT deleted;
// the operation is refused with ErrCategoryInUse. This is the single policy
// used everywhere.
type CatalogService struct {
	categoryRepo *repository.CategoryRepository
	productRepo  *repository.ProductRepository
	validate     *validator.Validate
	logger       *zap.Logger
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(
	categoryRepo *repository.CategoryRepository,
	productRepo *repository.ProductRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		validate:     validator.New(),
		logger:       logger,
	}
}

// AddCategory creates a new category. The name must be unique (exact,
// case-sensitive match).
func (s *CatalogService) AddCategory(ctx context.Context, req *domain.CreateCategoryRequest) (*domain.CategoryDTO, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	category := &domain.Category{
		Name:          req.Name,
		DefaultMargin: req.DefaultMargin,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, req.Name)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	dto := mapper.ToCategoryDTO(category)
	return &dto, nil
}

// UpdateCategory updates a category in place. The same duplicate-name rule
// applies as on create.
func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req *domain.UpdateCategoryRequest) (*domain.CategoryDTO, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	category.Name = req.Name
	category.DefaultMargin = req.DefaultMargin

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, req.Name)
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	dto := mapper.ToCategoryDTO(category)
	return &dto, nil
}

// DeleteCategory removes a category. Refused with ErrCategoryInUse while any
// product references it, so no product can end up pointing at a nonexistent
// category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	count, err := s.categoryRepo.CountProducts(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count category products: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d product(s) still assigned", ErrCategoryInUse, count)
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// ListCategories returns all categories ordered by name
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.CategoryDTO, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	dtos := make([]domain.CategoryDTO, len(categories))
	for i := range categories {
		dtos[i] = mapper.ToCategoryDTO(&categories[i])
	}
	return dtos, nil
}

// AddProduct creates a new product. The code must be unique.
func (s *CatalogService) AddProduct(ctx context.Context, req *domain.CreateProductRequest) (*domain.ProductDTO, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	unit := req.Unit
	if unit == "" {
		unit = domain.DefaultUnit
	}

	product := &domain.Product{
		Code:             req.Code,
		Name:             req.Name,
		Unit:             unit,
		PurchasePriceNet: req.PurchasePriceNet,
		PriceUpdateDate:  time.Now().UTC(),
		VATRate:          req.VATRate,
		CategoryID:       req.CategoryID,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateCodeError(ctx, req.Code)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	view, err := s.productRepo.GetView(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload product: %w", err)
	}
	dto := mapper.ToProductDTO(view)
	return &dto, nil
}

// UpdateProduct edits a product. It is refused when the ID does not exist or
// when the code is claimed by a different product. The price update date is
// bumped only when the purchase price moves by more than the tolerance.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *domain.UpdateProductRequest) (*domain.ProductDTO, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	owner, err := s.productRepo.GetByCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check product code: %w", err)
	}
	if owner != nil && owner.ID != id {
		return nil, fmt.Errorf("%w: code %q is already used by product %q", ErrDuplicateCode, req.Code, owner.Name)
	}

	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	unit := req.Unit
	if unit == "" {
		unit = domain.DefaultUnit
	}

	product.Code = req.Code
	product.Name = req.Name
	product.Unit = unit
	product.VATRate = req.VATRate
	product.CategoryID = req.CategoryID
	if domain.PriceChanged(product.PurchasePriceNet, req.PurchasePriceNet) {
		product.PurchasePriceNet = req.PurchasePriceNet
		product.PriceUpdateDate = time.Now().UTC()
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateCodeError(ctx, req.Code)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	view, err := s.productRepo.GetView(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload product: %w", err)
	}
	dto := mapper.ToProductDTO(view)
	return &dto, nil
}

// DeleteProduct removes a product. Deleting a nonexistent ID is a no-op.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// GetProduct retrieves one product with its joined category fields
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.ProductDTO, error) {
	view, err := s.productRepo.GetView(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	dto := mapper.ToProductDTO(view)
	return &dto, nil
}

// ListProducts returns all products, optionally filtered by category
func (s *CatalogService) ListProducts(ctx context.Context, categoryID *uuid.UUID) ([]domain.ProductDTO, error) {
	views, err := s.productRepo.List(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return mapper.ToProductDTOs(views), nil
}

// SearchProducts matches the query against name or code, case-insensitive.
// An empty query lists everything.
func (s *CatalogService) SearchProducts(ctx context.Context, query string) ([]domain.ProductDTO, error) {
	views, err := s.productRepo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return mapper.ToProductDTOs(views), nil
}

// ImportProducts upserts a batch of normalized records keyed by code and
// reports how many rows were inserted and updated
func (s *CatalogService) ImportProducts(ctx context.Context, records []domain.ImportRecord) (*domain.ImportResult, error) {
	inserted, updated, err := s.productRepo.ImportBatch(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("batch import failed: %w", err)
	}

	s.logger.Info("batch import finished",
		zap.Int("inserted", inserted),
		zap.Int("updated", updated),
	)
	return &domain.ImportResult{Inserted: inserted, Updated: updated}, nil
}

// checkCategory verifies an optional category reference points at a real row
func (s *CatalogService) checkCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categoryRepo.GetByID(ctx, *categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %s", ErrNotFound, *categoryID)
		}
		return fmt.Errorf("failed to validate category: %w", err)
	}
	return nil
}

// duplicateCodeError names the product already holding the code so the UI
// can give actionable guidance
func (s *CatalogService) duplicateCodeError(ctx context.Context, code string) error {
	owner, err := s.productRepo.GetByCode(ctx, code)
	if err == nil && owner != nil {
		return fmt.Errorf("%w: code %q is already used by product %q", ErrDuplicateCode, code, owner.Name)
	}
	return fmt.Errorf("%w: %q", ErrDuplicateCode, code)
}
