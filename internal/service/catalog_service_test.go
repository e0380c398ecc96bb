package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/offermat/offermat/internal/domain"
	"github.com/offermat/offermat/internal/repository"
	"github.com/offermat/offermat/internal/service"
	"github.com/offermat/offermat/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupCatalogService(t *testing.T) (*service.CatalogService, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	retry := repository.DefaultRetryPolicy()
	categoryRepo := repository.NewCategoryRepository(db, retry)
	productRepo := repository.NewProductRepository(db, retry)
	return service.NewCatalogService(categoryRepo, productRepo, zap.NewNop()), db
}

func TestCatalogService_AddCategory(t *testing.T) {
	svc, _ := setupCatalogService(t)

	dto, err := svc.AddCategory(context.Background(), &domain.CreateCategoryRequest{
		Name:          "Electronics",
		DefaultMargin: decimal.NewFromInt(40),
	})
	require.NoError(t, err)
	assert.Equal(t, "Electronics", dto.Name)
	assert.Equal(t, "40.00", dto.DefaultMargin.StringFixed(2))
}

func TestCatalogService_AddCategory_DuplicateName(t *testing.T) {
	svc, _ := setupCatalogService(t)

	_, err := svc.AddCategory(context.Background(), &domain.CreateCategoryRequest{Name: "Electronics"})
	require.NoError(t, err)

	_, err = svc.AddCategory(context.Background(), &domain.CreateCategoryRequest{Name: "Electronics"})
	assert.ErrorIs(t, err, service.ErrDuplicateName)
}

func TestCatalogService_AddCategory_EmptyName(t *testing.T) {
	svc, _ := setupCatalogService(t)

	_, err := svc.AddCategory(context.Background(), &domain.CreateCategoryRequest{Name: ""})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestCatalogService_UpdateCategory_DuplicateName(t *testing.T) {
	svc, db := setupCatalogService(t)

	testutil.CreateTestCategory(t, db, "Electronics", 40)
	other := testutil.CreateTestCategory(t, db, "Tools", 30)

	_, err := svc.UpdateCategory(context.Background(), other.ID, &domain.UpdateCategoryRequest{
		Name:          "Electronics",
		DefaultMargin: decimal.NewFromInt(30),
	})
	assert.ErrorIs(t, err, service.ErrDuplicateName)
}

func TestCatalogService_DeleteCategory_RejectsWhileInUse(t *testing.T) {
	svc, db := setupCatalogService(t)

	category := testutil.CreateTestCategory(t, db, "Electronics", 40)
	product := testutil.CreateTestProduct(t, db, "LAP001", "Laptop", 3000, &category.ID)

	err := svc.DeleteCategory(context.Background(), category.ID)
	assert.ErrorIs(t, err, service.ErrCategoryInUse)

	// Once no product references it, deletion goes through
	require.NoError(t, svc.DeleteProduct(context.Background(), product.ID))
	assert.NoError(t, svc.DeleteCategory(context.Background(), category.ID))
}

func TestCatalogService_AddProduct_DefaultsUnit(t *testing.T) {
	svc, _ := setupCatalogService(t)

	dto, err := svc.AddProduct(context.Background(), &domain.CreateProductRequest{
		Code:             "LAP001",
		Name:             "Laptop",
		PurchasePriceNet: decimal.NewFromInt(3000),
		VATRate:          decimal.NewFromInt(23),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultUnit, dto.Unit)
	assert.Nil(t, dto.CategoryName)
}

func TestCatalogService_AddProduct_DuplicateCodeNamesOwner(t *testing.T) {
	svc, db := setupCatalogService(t)

	testutil.CreateTestProduct(t, db, "LAP001", "Dell Laptop", 3000, nil)

	_, err := svc.AddProduct(context.Background(), &domain.CreateProductRequest{
		Code:             "LAP001",
		Name:             "HP Laptop",
		PurchasePriceNet: decimal.NewFromInt(2500),
		VATRate:          decimal.NewFromInt(23),
	})
	require.ErrorIs(t, err, service.ErrDuplicateCode)
	assert.Contains(t, err.Error(), "Dell Laptop")
}

func TestCatalogService_AddProduct_UnknownCategory(t *testing.T) {
	svc, _ := setupCatalogService(t)

	missing := uuid.New()
	_, err := svc.AddProduct(context.Background(), &domain.CreateProductRequest{
		Code:       "LAP001",
		Name:       "Laptop",
		CategoryID: &missing,
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCatalogService_UpdateProduct_NotFound(t *testing.T) {
	svc, _ := setupCatalogService(t)

	_, err := svc.UpdateProduct(context.Background(), uuid.New(), &domain.UpdateProductRequest{
		Code: "LAP001",
		Name: "Laptop",
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCatalogService_UpdateProduct_CodeClaimedByOther(t *testing.T) {
	svc, db := setupCatalogService(t)

	testutil.CreateTestProduct(t, db, "LAP001", "Dell Laptop", 3000, nil)
	other := testutil.CreateTestProduct(t, db, "MON001", "Monitor", 800, nil)

	_, err := svc.UpdateProduct(context.Background(), other.ID, &domain.UpdateProductRequest{
		Code: "LAP001",
		Name: "Monitor",
	})
	require.ErrorIs(t, err, service.ErrDuplicateCode)
	assert.Contains(t, err.Error(), "Dell Laptop")
}

func TestCatalogService_UpdateProduct_KeepingOwnCodeIsAllowed(t *testing.T) {
	svc, db := setupCatalogService(t)

	product := testutil.CreateTestProduct(t, db, "LAP001", "Laptop", 3000, nil)

	dto, err := svc.UpdateProduct(context.Background(), product.ID, &domain.UpdateProductRequest{
		Code:             "LAP001",
		Name:             "Laptop Pro",
		PurchasePriceNet: decimal.NewFromInt(3000),
		VATRate:          decimal.NewFromInt(23),
	})
	require.NoError(t, err)
	assert.Equal(t, "Laptop Pro", dto.Name)
}

func TestCatalogService_UpdateProduct_PriceDateBumpedOnlyBeyondTolerance(t *testing.T) {
	svc, db := setupCatalogService(t)

	oldDate := time.Now().UTC().Add(-24 * time.Hour)
	product := &domain.Product{
		Code:             "LAP001",
		Name:             "Laptop",
		Unit:             "pcs",
		PurchasePriceNet: decimal.NewFromInt(3000),
		PriceUpdateDate:  oldDate,
		VATRate:          decimal.NewFromInt(23),
	}
	require.NoError(t, db.Create(product).Error)

	// Change within tolerance keeps the old date
	_, err := svc.UpdateProduct(context.Background(), product.ID, &domain.UpdateProductRequest{
		Code:             "LAP001",
		Name:             "Laptop",
		Unit:             "pcs",
		PurchasePriceNet: decimal.RequireFromString("3000.0005"),
		VATRate:          decimal.NewFromInt(23),
	})
	require.NoError(t, err)

	var reloaded domain.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.WithinDuration(t, oldDate, reloaded.PriceUpdateDate, time.Minute)

	// A real price change bumps the date
	_, err = svc.UpdateProduct(context.Background(), product.ID, &domain.UpdateProductRequest{
		Code:             "LAP001",
		Name:             "Laptop",
		Unit:             "pcs",
		PurchasePriceNet: decimal.NewFromInt(3100),
		VATRate:          decimal.NewFromInt(23),
	})
	require.NoError(t, err)

	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.WithinDuration(t, time.Now().UTC(), reloaded.PriceUpdateDate, time.Minute)
}

func TestCatalogService_DeleteProduct_Idempotent(t *testing.T) {
	svc, _ := setupCatalogService(t)

	assert.NoError(t, svc.DeleteProduct(context.Background(), uuid.New()))
}

func TestCatalogService_SearchProducts(t *testing.T) {
	svc, db := setupCatalogService(t)

	testutil.CreateTestProduct(t, db, "LAP001", "Dell Laptop", 3000, nil)
	testutil.CreateTestProduct(t, db, "MON001", "Monitor", 800, nil)

	// Name match and code match each find the product exactly once
	byName, err := svc.SearchProducts(context.Background(), "dell")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "LAP001", byName[0].Code)

	byCode, err := svc.SearchProducts(context.Background(), "lap001")
	require.NoError(t, err)
	require.Len(t, byCode, 1)
	assert.Equal(t, "Dell Laptop", byCode[0].Name)
}

func TestCatalogService_ImportProducts(t *testing.T) {
	svc, _ := setupCatalogService(t)

	records := []domain.ImportRecord{
		{Code: "LAP001", Name: "Laptop", Unit: "pcs", PurchasePriceNet: decimal.NewFromInt(3000), VATRate: decimal.NewFromInt(23)},
		{Code: "MON001", Name: "Monitor", Unit: "pcs", PurchasePriceNet: decimal.NewFromInt(800), VATRate: decimal.NewFromInt(23)},
	}

	result, err := svc.ImportProducts(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 0, result.Updated)

	result, err = svc.ImportProducts(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 2, result.Updated)
}
