package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OfferLine is one transient line of an in-progress offer. The pricing fields
// are snapshots taken when the line is loaded, so later catalog edits do not
// change an offer under the user's hands. LineID is a synthetic identity
// assigned at load time; all mutations address lines by it, never by index.
type OfferLine struct {
	LineID           uuid.UUID
	ProductID        uuid.UUID
	Name             string
	Unit             string
	Quantity         decimal.Decimal
	PurchasePriceNet decimal.Decimal
	VATRate          decimal.Decimal
	Margin           decimal.Decimal
	CategoryName     string
}

// OfferSession is the working set of one offer. It is owned by a single UI
// session, passed explicitly to composer operations, and discarded when the
// session ends. Nothing in it is persisted.
type OfferSession struct {
	Title string
	Date  time.Time
	Items []OfferLine
}

// Line returns a pointer to the line with the given ID, or nil.
func (s *OfferSession) Line(lineID uuid.UUID) *OfferLine {
	for i := range s.Items {
		if s.Items[i].LineID == lineID {
			return &s.Items[i]
		}
	}
	return nil
}
