package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/estoque/internal/encoding"
	"github.com/MrJamesThe3rd/estoque/internal/invoice"
	"github.com/MrJamesThe3rd/estoque/internal/money"
)

// Parser reads line items from spreadsheet exports. The header row may be
// preceded by free text; its language and the field separator are
// auto-detected.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]invoice.LineItem, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	for _, sep := range separators {
		rows, err := readRows(data, sep)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		slog.Debug("sheet layout detected",
			"profile", profile.Name,
			"separator", string(sep),
			"charset", charset,
			"header_row", headerIdx+1,
		)

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	}

	return nil, ErrUnknownLayout
}

func readRows(data []byte, sep rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps normalised column names to their index in the row.
type colIndex map[string]int

func normalise(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := normalise(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows turns data rows into line items. Rows without a quantity are
// treated as subtotal or footer lines and skipped.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]invoice.LineItem, error) {
	descIdx := cols[p.DescCol]
	qtyIdx := cols[p.QtyCol]
	unitIdx := cols[p.UnitCol]

	totalIdx := -1
	if idx, ok := cols[p.TotalCol]; ok {
		totalIdx = idx
	}

	items := make([]invoice.LineItem, 0, len(rows))

	for i, row := range rows {
		rowNum := headerRowNum + i + 1 // 1-based

		qtyCell := cellValue(row, qtyIdx)
		if qtyCell == "" {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, &RowError{Row: rowNum, Reason: "missing description"}
		}

		qty, err := parseQuantity(qtyCell)
		if err != nil {
			return nil, &RowError{Row: rowNum, Reason: err.Error()}
		}

		unit, err := parseAmount(cellValue(row, unitIdx))
		if err != nil {
			return nil, &RowError{Row: rowNum, Reason: "unit price: " + err.Error()}
		}

		total := money.LineTotal(qty, unit)
		if s := cellValue(row, totalIdx); s != "" {
			if total, err = parseAmount(s); err != nil {
				return nil, &RowError{Row: rowNum, Reason: "total: " + err.Error()}
			}
		}

		items = append(items, invoice.LineItem{
			Description: desc,
			Quantity:    qty,
			UnitPrice:   unit,
			Total:       total,
		})
	}

	if len(items) == 0 {
		return nil, ErrNoItems
	}

	return items, nil
}

var maxQuantity = decimal.NewFromInt(math.MaxInt32)

func parseQuantity(s string) (int, error) {
	d, err := money.ParseBR(s)
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("quantity %q is not a whole number", s)
	}

	if d.LessThan(decimal.NewFromInt(1)) {
		return 0, fmt.Errorf("quantity %q must be at least 1", s)
	}

	if d.GreaterThan(maxQuantity) {
		return 0, fmt.Errorf("quantity %q is too large", s)
	}

	return int(d.IntPart()), nil
}

func parseAmount(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing value")
	}

	d, err := money.ParseBR(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}

	if d.IsNegative() {
		return 0, fmt.Errorf("%q must not be negative", s)
	}

	v := d.Round(2).InexactFloat64()
	if math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}

	return v, nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
