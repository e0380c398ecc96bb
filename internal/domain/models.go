package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID so the same models work on sqlite and postgres
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// DefaultUnit is the unit of measure used when none is given
const DefaultUnit = "pcs"

// Category groups products and carries the margin seeded into offer lines
type Category struct {
	BaseModel
	Name          string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	DefaultMargin decimal.Decimal `gorm:"type:decimal(7,2);not null;default:0;column:default_margin"`
	Products      []Product       `gorm:"foreignKey:CategoryID"`
}

// Product is a catalog entry priced at purchase (cost) level.
// PriceUpdateDate is refreshed only when PurchasePriceNet actually changes;
// differences below 0.001 are treated as unchanged.
type Product struct {
	BaseModel
	Code             string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name             string          `gorm:"type:varchar(500);not null;index"`
	Unit             string          `gorm:"type:varchar(50);not null;default:'pcs'"`
	PurchasePriceNet decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:purchase_price_net"`
	PriceUpdateDate  time.Time       `gorm:"column:price_update_date"`
	VATRate          decimal.Decimal `gorm:"type:decimal(5,2);not null;default:23;column:vat_rate"`
	CategoryID       *uuid.UUID      `gorm:"type:uuid;column:category_id;index"`
	Category         *Category       `gorm:"foreignKey:CategoryID"`
}

// ProductView is a product row enriched with its category via left join.
// Products without a category still appear, with nil category fields.
type ProductView struct {
	Product
	CategoryName          *string          `gorm:"column:category_name"`
	CategoryDefaultMargin *decimal.Decimal `gorm:"column:category_default_margin"`
}

// BusinessCard is the single row of contact info stamped onto generated reports.
// Created on first save, upserted in place thereafter.
type BusinessCard struct {
	BaseModel
	Company  string `gorm:"type:varchar(200);not null"`
	FullName string `gorm:"type:varchar(200);not null;column:full_name"`
	Phone    string `gorm:"type:varchar(50)"`
	Email    string `gorm:"type:varchar(255)"`
}
