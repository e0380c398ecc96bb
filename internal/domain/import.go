package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceTolerance is the threshold below which a purchase price difference is
// treated as unchanged. It keeps the price update date free of timestamp
// noise from floating-point round-trips in imported files.
var PriceTolerance = decimal.New(1, -3) // 0.001

// PriceChanged reports whether the new purchase price differs from the old
// one by more than the tolerance.
func PriceChanged(oldPrice, newPrice decimal.Decimal) bool {
	return newPrice.Sub(oldPrice).Abs().GreaterThan(PriceTolerance)
}

// ImportRecord is the normalized product shape the batch importer hands to
// the catalog store. Records are upserted keyed by Code.
type ImportRecord struct {
	Code             string
	Name             string
	Unit             string
	PurchasePriceNet decimal.Decimal
	VATRate          decimal.Decimal
	CategoryID       *uuid.UUID
}
