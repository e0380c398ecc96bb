// Package importer normalizes heterogeneous tabular files (CSV, XLSX) into
// the product shape the catalog store upserts. Column headers are matched
// against a flexible alias table so exports from different ERP systems load
// without manual renaming.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/offermat/offermat/internal/config"
	"github.com/offermat/offermat/internal/domain"
	"github.com/offermat/offermat/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ErrUnsupportedFormat is returned for file extensions the importer cannot read
var ErrUnsupportedFormat = errors.New("unsupported file format, use CSV or XLSX")

// ErrEmptyFile is returned when the file has no data rows
var ErrEmptyFile = errors.New("file contains no data rows")

// columnAliases maps known header spellings to canonical field names.
// Keys are compared lowercased and trimmed.
var columnAliases = map[string]string{
	"nr":                        "code",
	"indeks":                    "code",
	"kod":                       "code",
	"code":                      "code",
	"opis":                      "name",
	"nazwa":                     "name",
	"name":                      "name",
	"jm":                        "unit",
	"j.m.":                      "unit",
	"jednostka":                 "unit",
	"podst. jednostka miary":    "unit",
	"unit":                      "unit",
	"koszt":                     "price",
	"cena zakupu":               "price",
	"cena zakupu netto":         "price",
	"ostatni koszt bezpośredni": "price",
	"purchase price":            "price",
	"price":                     "price",
	"vat":                       "vat",
	"stawka vat":                "vat",
	"tow. grupa księgowa vat":   "vat",
	"vat rate":                  "vat",
}

// requiredFields must all be resolvable from the header row
var requiredFields = []string{"code", "name"}

// previewRows is how many records Validate returns for inspection
const previewRows = 5

// Preview summarizes a file before it is imported
type Preview struct {
	Valid     bool                `json:"valid"`
	Message   string              `json:"message"`
	Columns   []string            `json:"columns"`
	Rows      []map[string]string `json:"rows"`
	TotalRows int                 `json:"totalRows"`
}

// Importer reads product files and emits normalized import records
type Importer struct {
	defaultVATRate decimal.Decimal
	defaultUnit    string
	logger         *zap.Logger
}

// NewImporter creates a new Importer instance
func NewImporter(cfg *config.ImportConfig, logger *zap.Logger) *Importer {
	return &Importer{
		defaultVATRate: decimal.NewFromFloat(cfg.DefaultVATRate),
		defaultUnit:    cfg.DefaultUnit,
		logger:         logger,
	}
}

// ParseVATRate normalizes a VAT cell to a percentage. Accepted forms include
// "23%", "5 %", "0.23" and "23"; fractions between 0 and 1 are scaled to
// percent. Blank or unparseable cells fall back to the default rate.
func (imp *Importer) ParseVATRate(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	if s == "" {
		return imp.defaultVATRate
	}
	value, err := pricing.ParseAmount(s)
	if err != nil {
		return imp.defaultVATRate
	}
	if value.IsPositive() && value.LessThan(decimal.NewFromInt(1)) {
		value = value.Mul(decimal.NewFromInt(100))
	}
	return value
}

// ReadFile loads a CSV or XLSX file and returns normalized records. Rows
// without a code are skipped. The optional category is assigned to every
// record.
func (imp *Importer) ReadFile(path string, categoryID *uuid.UUID) ([]domain.ImportRecord, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, ErrEmptyFile
	}

	columns, err := resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]domain.ImportRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		code := strings.TrimSpace(cell(row, columns["code"]))
		if code == "" {
			continue
		}

		record := domain.ImportRecord{
			Code:       code,
			Name:       strings.TrimSpace(cell(row, columns["name"])),
			Unit:       imp.defaultUnit,
			VATRate:    imp.defaultVATRate,
			CategoryID: categoryID,
		}
		if idx, ok := columns["unit"]; ok {
			if unit := strings.TrimSpace(cell(row, idx)); unit != "" {
				record.Unit = unit
			}
		}
		if idx, ok := columns["price"]; ok {
			if price, err := pricing.ParseAmount(cell(row, idx)); err == nil {
				record.PurchasePriceNet = price.Round(2)
			}
		}
		if idx, ok := columns["vat"]; ok {
			record.VATRate = imp.ParseVATRate(cell(row, idx))
		}

		records = append(records, record)
	}

	imp.logger.Debug("file read",
		zap.String("path", path),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// Validate inspects a file without importing it, returning the detected
// columns and a short preview so the caller can confirm the mapping
func (imp *Importer) Validate(path string) *Preview {
	rows, err := readRows(path)
	if err != nil {
		return &Preview{Valid: false, Message: err.Error()}
	}
	if len(rows) < 2 {
		return &Preview{Valid: false, Message: "file contains no data rows", Columns: headerOrEmpty(rows)}
	}

	header := rows[0]
	if _, err := resolveColumns(header); err != nil {
		return &Preview{Valid: false, Message: err.Error(), Columns: header, TotalRows: len(rows) - 1}
	}

	preview := make([]map[string]string, 0, previewRows)
	for _, row := range rows[1:] {
		if len(preview) == previewRows {
			break
		}
		entry := make(map[string]string, len(header))
		for i, column := range header {
			entry[column] = cell(row, i)
		}
		preview = append(preview, entry)
	}

	return &Preview{
		Valid:     true,
		Message:   fmt.Sprintf("file contains %d rows", len(rows)-1),
		Columns:   header,
		Rows:      preview,
		TotalRows: len(rows) - 1,
	}
}

// resolveColumns maps canonical field names to header indexes via the alias
// table and checks that the required fields are present
func resolveColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for i, raw := range header {
		key := strings.ToLower(strings.TrimSpace(raw))
		if field, ok := columnAliases[key]; ok {
			if _, seen := columns[field]; !seen {
				columns[field] = i
			}
		}
	}

	var missing []string
	for _, field := range requiredFields {
		if _, ok := columns[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

// readRows dispatches on file extension to the CSV or XLSX reader
func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSVRows(path)
	case ".xlsx", ".xlsm":
		return readXLSXRows(path)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// readCSVRows reads a CSV file, trying semicolon delimiters first and falling
// back to comma when the header collapses into a single column. A UTF-8 BOM
// on the first cell is stripped.
func readCSVRows(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	data = []byte(strings.TrimPrefix(string(data), "\uFEFF"))

	rows, err := parseCSV(data, ';')
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 && len(rows[0]) == 1 {
		commaRows, err := parseCSV(data, ',')
		if err == nil && len(commaRows) > 0 && len(commaRows[0]) > 1 {
			rows = commaRows
		}
	}
	return rows, nil
}

func parseCSV(data []byte, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// readXLSXRows reads all rows from the first sheet of a workbook
func readXLSXRows(path string) ([][]string, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func headerOrEmpty(rows [][]string) []string {
	if len(rows) > 0 {
		return rows[0]
	}
	return nil
}
