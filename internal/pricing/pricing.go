// Package pricing implements the deterministic, invertible price arithmetic
// used by the offer composer and the report aggregator.
//
// All monetary outputs are rounded to two decimal places using round half
// away from zero. Margins derived through the inverse functions are likewise
// stored at two decimal places, so re-deriving a forward price from a stored
// margin reproduces the edited value within rounding tolerance, not exactly.
package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrZeroPurchasePrice is returned when a margin is derived against a zero
// purchase price. The division is undefined; the edit is rejected, not crashed.
var ErrZeroPurchasePrice = errors.New("margin undefined for zero purchase price")

var hundred = decimal.NewFromInt(100)

// Breakdown holds all derived amounts for one line at a given quantity
type Breakdown struct {
	NetUnit    decimal.Decimal
	GrossUnit  decimal.Decimal
	NetTotal   decimal.Decimal
	VATAmount  decimal.Decimal
	GrossTotal decimal.Decimal
}

// Calculate applies margin and VAT to a purchase price.
//
//	net_unit    = purchase * (1 + margin/100)
//	gross_unit  = net_unit * (1 + vat/100)
//	net_total   = net_unit * quantity
//	vat_amount  = net_total * vat/100
//	gross_total = net_total + vat_amount
//
// Negative or zero purchase prices and negative margins are accepted; a VAT
// rate of zero is valid.
func Calculate(purchasePriceNet, marginPct, vatRatePct, quantity decimal.Decimal) Breakdown {
	netUnit := purchasePriceNet.Mul(one().Add(marginPct.Div(hundred))).Round(2)
	grossUnit := netUnit.Mul(one().Add(vatRatePct.Div(hundred))).Round(2)
	netTotal := netUnit.Mul(quantity).Round(2)
	vatAmount := netTotal.Mul(vatRatePct.Div(hundred)).Round(2)
	grossTotal := netTotal.Add(vatAmount)

	return Breakdown{
		NetUnit:    netUnit,
		GrossUnit:  grossUnit,
		NetTotal:   netTotal,
		VATAmount:  vatAmount,
		GrossTotal: grossTotal,
	}
}

// MarginFromNetUnit derives the margin that turns the purchase price into the
// edited net unit price: ((net/purchase) - 1) * 100, rounded to 2 dp.
func MarginFromNetUnit(netUnit, purchasePriceNet decimal.Decimal) (decimal.Decimal, error) {
	if purchasePriceNet.IsZero() {
		return decimal.Zero, ErrZeroPurchasePrice
	}
	margin := netUnit.Div(purchasePriceNet).Sub(one()).Mul(hundred)
	return margin.Round(2), nil
}

// MarginFromGrossUnit derives the margin from an edited gross unit price by
// first dividing out VAT and then applying the net inverse.
func MarginFromGrossUnit(grossUnit, purchasePriceNet, vatRatePct decimal.Decimal) (decimal.Decimal, error) {
	netUnit := grossUnit.Div(one().Add(vatRatePct.Div(hundred)))
	return MarginFromNetUnit(netUnit, purchasePriceNet)
}

// ParseAmount parses a user-entered number, accepting both "." and "," as the
// decimal separator.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(s)
}

func one() decimal.Decimal {
	return decimal.NewFromInt(1)
}
