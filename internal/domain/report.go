package domain

import "github.com/shopspring/decimal"

// ReportItem is one priced line of an offer report. All amounts are rounded
// to two decimal places; VAT rate is carried as the raw percentage.
type ReportItem struct {
	Name       string          `json:"name"`
	Unit       string          `json:"unit"`
	Quantity   decimal.Decimal `json:"quantity"`
	VATRate    decimal.Decimal `json:"vatRate"`
	NetUnit    decimal.Decimal `json:"netUnit"`
	GrossUnit  decimal.Decimal `json:"grossUnit"`
	NetTotal   decimal.Decimal `json:"netTotal"`
	GrossTotal decimal.Decimal `json:"grossTotal"`
}

// FormatVAT renders the VAT rate as an integer percent, the formatting
// renderers must preserve.
func (i ReportItem) FormatVAT() string {
	return i.VATRate.Round(0).String() + "%"
}

// ReportGroup is one category section of the report with its subtotals
type ReportGroup struct {
	CategoryName  string          `json:"categoryName"`
	Items         []ReportItem    `json:"items"`
	SubtotalNet   decimal.Decimal `json:"subtotalNet"`
	SubtotalGross decimal.Decimal `json:"subtotalGross"`
}

// OfferReport is the render-ready structure consumed by document renderers.
// Groups are sorted ascending by category name so layout is deterministic.
type OfferReport struct {
	Title           string           `json:"title"`
	Date            string           `json:"date"`
	Contact         *BusinessCardDTO `json:"contact,omitempty"`
	Groups          []ReportGroup    `json:"groups"`
	GrandTotalNet   decimal.Decimal  `json:"grandTotalNet"`
	GrandTotalGross decimal.Decimal  `json:"grandTotalGross"`
}
