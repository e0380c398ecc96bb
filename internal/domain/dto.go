package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryDTO is the category representation handed to the UI layer
type CategoryDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	DefaultMargin decimal.Decimal `json:"defaultMargin"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

// ProductDTO is the product representation handed to the UI layer, enriched
// with the joined category fields (nil when the product has no category)
type ProductDTO struct {
	ID                    uuid.UUID        `json:"id"`
	Code                  string           `json:"code"`
	Name                  string           `json:"name"`
	Unit                  string           `json:"unit"`
	PurchasePriceNet      decimal.Decimal  `json:"purchasePriceNet"`
	PriceUpdateDate       string           `json:"priceUpdateDate"`
	VATRate               decimal.Decimal  `json:"vatRate"`
	CategoryID            *uuid.UUID       `json:"categoryId,omitempty"`
	CategoryName          *string          `json:"categoryName,omitempty"`
	CategoryDefaultMargin *decimal.Decimal `json:"categoryDefaultMargin,omitempty"`
}

// BusinessCardDTO is the contact block stamped onto generated reports
type BusinessCardDTO struct {
	Company  string `json:"company"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// CreateCategoryRequest carries input for adding a category
type CreateCategoryRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	DefaultMargin decimal.Decimal `json:"defaultMargin"`
}

// UpdateCategoryRequest carries input for editing a category in place
type UpdateCategoryRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	DefaultMargin decimal.Decimal `json:"defaultMargin"`
}

// CreateProductRequest carries input for adding a product
type CreateProductRequest struct {
	Code             string          `json:"code" validate:"required,max=100"`
	Name             string          `json:"name" validate:"required,max=500"`
	Unit             string          `json:"unit" validate:"max=50"`
	PurchasePriceNet decimal.Decimal `json:"purchasePriceNet"`
	VATRate          decimal.Decimal `json:"vatRate"`
	CategoryID       *uuid.UUID      `json:"categoryId"`
}

// UpdateProductRequest carries input for editing a product
type UpdateProductRequest struct {
	Code             string          `json:"code" validate:"required,max=100"`
	Name             string          `json:"name" validate:"required,max=500"`
	Unit             string          `json:"unit" validate:"max=50"`
	PurchasePriceNet decimal.Decimal `json:"purchasePriceNet"`
	VATRate          decimal.Decimal `json:"vatRate"`
	CategoryID       *uuid.UUID      `json:"categoryId"`
}

// SaveBusinessCardRequest carries input for the singleton contact record
type SaveBusinessCardRequest struct {
	Company  string `json:"company" validate:"required,max=200"`
	FullName string `json:"fullName" validate:"required,max=200"`
	Phone    string `json:"phone" validate:"max=50"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// ImportResult reports how a batch import was applied
type ImportResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}
