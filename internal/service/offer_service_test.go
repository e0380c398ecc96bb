package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/offermat/offermat/internal/config"
	"github.com/offermat/offermat/internal/pricing"
	"github.com/offermat/offermat/internal/repository"
	"github.com/offermat/offermat/internal/service"
	"github.com/offermat/offermat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupOfferService(t *testing.T) (*service.OfferService, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	productRepo := repository.NewProductRepository(db, repository.DefaultRetryPolicy())
	cfg := &config.OfferConfig{
		DefaultTitle:       "Commercial offer",
		UncategorizedLabel: "Uncategorized",
	}
	return service.NewOfferService(productRepo, cfg, zap.NewNop()), db
}

func TestOfferService_NewSession_DefaultTitle(t *testing.T) {
	svc, _ := setupOfferService(t)

	session := svc.NewSession("")
	assert.Equal(t, "Commercial offer", session.Title)
	assert.Empty(t, session.Items)

	named := svc.NewSession("Spring promotion")
	assert.Equal(t, "Spring promotion", named.Title)
}

func TestOfferService_LoadFromCategories(t *testing.T) {
	svc, db := setupOfferService(t)

	category := testutil.CreateTestCategory(t, db, "Electronics", 40)
	testutil.CreateTestProduct(t, db, "LAP001", "Laptop", 3000, &category.ID)
	testutil.CreateTestProduct(t, db, "MON001", "Monitor", 800, &category.ID)

	session := svc.NewSession("")
	err := svc.LoadFromCategories(context.Background(), session, []uuid.UUID{category.ID})
	require.NoError(t, err)
	require.Len(t, session.Items, 2)

	for _, line := range session.Items {
		assert.Equal(t, "40.00", line.Margin.StringFixed(2))
		assert.Equal(t, "1", line.Quantity.String())
		assert.Equal(t, "Electronics", line.CategoryName)
		assert.NotEqual(t, uuid.Nil, line.LineID)
	}
}

func TestOfferService_LoadFromCategories_ReplacesItems(t *testing.T) {
	svc, db := setupOfferService(t)

	electronics := testutil.CreateTestCategory(t, db, "Electronics", 40)
	tools := testutil.CreateTestCategory(t, db, "Tools", 30)
	testutil.CreateTestProduct(t, db, "LAP001", "Laptop", 3000, &electronics.ID)
	testutil.CreateTestProduct(t, db, "HAM001", "Hammer", 40, &tools.ID)

	session := svc.NewSession("")
	require.NoError(t, svc.LoadFromCategories(context.Background(), session, []uuid.UUID{electronics.ID}))
	require.Len(t, session.Items, 1)

	require.NoError(t, svc.LoadFromCategories(context.Background(), session, []uuid.UUID{tools.ID}))
	require.Len(t, session.Items, 1)
	assert.Equal(t, "Hammer", session.Items[0].Name)
}

func TestOfferService_LoadFromCategories_EmptySelection(t *testing.T) {
	svc, _ := setupOfferService(t)

	session := svc.NewSession("")
	err := svc.LoadFromCategories(context.Background(), session, nil)
	assert.ErrorIs(t, err, service.ErrEmptySelection)
}

func TestOfferService_UpdateQuantity_AcceptsCommaSeparator(t *testing.T) {
	svc, db := setupOfferService(t)

	category := testutil.CreateTestCategory(t, db, "Electronics", 40)
	testutil.CreateTestProduct(t, db, "LAP001", "Laptop", 3000, &category.ID)

	session := svc.NewSession("")
	require.NoError(t, svc.LoadFromCategories(context.Background(), session, []uuid.UUID{category.ID}))
	line := &session.Items[0]

	require.NoError(t, svc.UpdateQuantity(session, line.LineID, "2,5"))
	assert.Equal(t, "2.50", line.Quantity.StringFixed(2))

	require.NoError(t, svc.UpdateQuantity(session, line.LineID, "3.5"))
	assert.Equal(t, "3.50", line.Quantity.StringFixed(2))
}

func TestOfferService_UpdateMargin_RejectedInputLeavesLineUntouched(t *testing.T) {
	svc, db := setupOfferService(t)

	category := testutil.CreateTestCategory(t, db, "Electronics", 40)
	testutil.CreateTestProduct(t, db, "LAP001", "Laptop", 3000, &category.ID)

	session := svc.NewSession("")
	require.NoError(t, svc.LoadFromCategories(context.Background(), session, []uuid.UUID{category.ID}))
	line := &session.Items[0]

	err := svc.UpdateMargin(session, line.LineID, "abc")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, "40.00", line.Margin.StringFixed(2))
}

func TestOfferService_UpdateNetPrice_DerivesMargin(t *testing.T) {
	svc, db := setupOfferService(t)

	category := testutil.CreateTestCategory(t, db, "Electronics", 40)
	testutil.CreateTestProduct(t, db, "LAP001", "Laptop", 3000, &category.ID)

	session := svc.NewSession("")
	require.NoError(t, svc.LoadFromCategories(context.Background(), session, []uuid.UUID{category.ID}))
	line := &session.Items[0]

	// 3600 / 3000 = 1.2 -> 20% margin
	require.NoError(t, svc.UpdateNetPrice(session, line.LineID, "3600"))
	assert.Equal(t, "20.00", line.Margin.StringFixed(2))
}

func TestOfferService_UpdateGrossPrice_DerivesMargin(t *testing.T) {
	svc, db := setupOfferService(t)

	category := testutil.CreateTestCategory(t, db, "Electronics", 0)
	testutil.CreateTestProduct(t, db, "LAP001", "Laptop", 100, &category.ID)

	session := svc.NewSession("")
	require.NoError(t, svc.LoadFromCategories(context.Background(), session, []uuid.UUID{category.ID}))
	line := &session.Items[0]

	// 153.75 / 1.23 = 125 net -> 25% margin over a 100 purchase price
	require.NoError(t, svc.UpdateGrossPrice(session, line.LineID, "153,75"))
	assert.Equal(t, "25.00", line.Margin.StringFixed(2))
}

func TestOfferService_UpdateNetPrice_ZeroPurchasePriceRejected(t *testing.T) {
	svc, db := setupOfferService(t)

	category := testutil.CreateTestCategory(t, db, "Freebies", 0)
	testutil.CreateTestProduct(t, db, "FREE01", "Sticker", 0, &category.ID)

	session := svc.NewSession("")
	require.NoError(t, svc.LoadFromCategories(context.Background(), session, []uuid.UUID{category.ID}))
	line := &session.Items[0]

	err := svc.UpdateNetPrice(session, line.LineID, "10")
	assert.ErrorIs(t, err, pricing.ErrZeroPurchasePrice)
	assert.Equal(t, "0.00", line.Margin.StringFixed(2))
}

func TestOfferService_UpdateName_And_Unit(t *testing.T) {
	svc, db := setupOfferService(t)

	category := testutil.CreateTestCategory(t, db, "Electronics", 40)
	testutil.CreateTestProduct(t, db, "LAP001", "Laptop", 3000, &category.ID)

	session := svc.NewSession("")
	require.NoError(t, svc.LoadFromCategories(context.Background(), session, []uuid.UUID{category.ID}))
	line := &session.Items[0]

	require.NoError(t, svc.UpdateName(session, line.LineID, "Laptop incl. dock"))
	assert.Equal(t, "Laptop incl. dock", line.Name)

	require.NoError(t, svc.UpdateUnit(session, line.LineID, "set"))
	assert.Equal(t, "set", line.Unit)

	assert.ErrorIs(t, svc.UpdateName(session, line.LineID, ""), service.ErrInvalidInput)
	assert.ErrorIs(t, svc.UpdateUnit(session, line.LineID, ""), service.ErrInvalidInput)
}

func TestOfferService_RemoveLine(t *testing.T) {
	svc, db := setupOfferService(t)

	category := testutil.CreateTestCategory(t, db, "Electronics", 40)
	testutil.CreateTestProduct(t, db, "LAP001", "Laptop", 3000, &category.ID)
	testutil.CreateTestProduct(t, db, "MON001", "Monitor", 800, &category.ID)

	session := svc.NewSession("")
	require.NoError(t, svc.LoadFromCategories(context.Background(), session, []uuid.UUID{category.ID}))
	require.Len(t, session.Items, 2)

	removed := session.Items[0].LineID
	require.NoError(t, svc.RemoveLine(session, removed))
	require.Len(t, session.Items, 1)
	assert.NotEqual(t, removed, session.Items[0].LineID)

	assert.ErrorIs(t, svc.RemoveLine(session, removed), service.ErrLineNotFound)
}

func TestOfferService_UnknownLine(t *testing.T) {
	svc, _ := setupOfferService(t)

	session := svc.NewSession("")
	assert.ErrorIs(t, svc.UpdateQuantity(session, uuid.New(), "2"), service.ErrLineNotFound)
	assert.ErrorIs(t, svc.UpdateMargin(session, uuid.New(), "10"), service.ErrLineNotFound)
}
