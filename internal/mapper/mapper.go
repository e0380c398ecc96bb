package mapper

import (
	"time"

	"github.com/offermat/offermat/internal/domain"
)

// formatTime renders a timestamp in UTC so the trailing Z is truthful
// regardless of the zone the database handed back
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ToCategoryDTO converts Category to CategoryDTO
func ToCategoryDTO(category *domain.Category) domain.CategoryDTO {
	return domain.CategoryDTO{
		ID:            category.ID,
		Name:          category.Name,
		DefaultMargin: category.DefaultMargin,
		CreatedAt:     formatTime(category.CreatedAt),
		UpdatedAt:     formatTime(category.UpdatedAt),
	}
}

// ToCategoryDTOs converts a slice of Category to CategoryDTOs
func ToCategoryDTOs(categories []domain.Category) []domain.CategoryDTO {
	dtos := make([]domain.CategoryDTO, len(categories))
	for i := range categories {
		dtos[i] = ToCategoryDTO(&categories[i])
	}
	return dtos
}

// ToProductDTO converts ProductView to ProductDTO
func ToProductDTO(view *domain.ProductView) domain.ProductDTO {
	return domain.ProductDTO{
		ID:                    view.ID,
		Code:                  view.Code,
		Name:                  view.Name,
		Unit:                  view.Unit,
		PurchasePriceNet:      view.PurchasePriceNet,
		PriceUpdateDate:       formatTime(view.PriceUpdateDate),
		VATRate:               view.VATRate,
		CategoryID:            view.CategoryID,
		CategoryName:          view.CategoryName,
		CategoryDefaultMargin: view.CategoryDefaultMargin,
	}
}

// ToProductDTOs converts a slice of ProductView to ProductDTOs
func ToProductDTOs(views []domain.ProductView) []domain.ProductDTO {
	dtos := make([]domain.ProductDTO, len(views))
	for i := range views {
		dtos[i] = ToProductDTO(&views[i])
	}
	return dtos
}

// ToBusinessCardDTO converts BusinessCard to BusinessCardDTO
func ToBusinessCardDTO(card *domain.BusinessCard) domain.BusinessCardDTO {
	return domain.BusinessCardDTO{
		Company:  card.Company,
		FullName: card.FullName,
		Phone:    card.Phone,
		Email:    card.Email,
	}
}
