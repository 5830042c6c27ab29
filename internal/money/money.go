// Package money parses and formats the monetary amounts carried by products
// and invoices.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
)

// Parse reads a non-negative decimal amount for field. Input may use a dot
// decimal separator ("1234.56") or exponent notation; anything else is a
// validation error.
func Parse(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperr.Invalid(field, "is required")
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, apperr.Invalid(field, "must be a finite number")
	}

	if d.IsNegative() {
		return 0, apperr.Invalid(field, "must not be negative")
	}

	v := d.InexactFloat64()
	if math.IsInf(v, 0) {
		return 0, apperr.Invalid(field, "must be a finite number")
	}

	return v, nil
}

// ParseBR reads an amount written with Brazilian separators ("1.234,56").
// Plain dot-decimal input ("1234.56") is accepted as well.
func ParseBR(raw string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "R$")
	clean = strings.TrimSpace(clean)

	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	return decimal.NewFromString(clean)
}

// FormatBR renders v with two decimals and a comma separator, without
// thousands grouping, the way spreadsheet imports expect it.
func FormatBR(v float64) string {
	return strings.Replace(decimal.NewFromFloat(v).StringFixed(2), ".", ",", 1)
}

// LineTotal returns quantity x unitPrice rounded to cents.
func LineTotal(quantity int, unitPrice float64) float64 {
	return decimal.NewFromInt(int64(quantity)).
		Mul(decimal.NewFromFloat(unitPrice)).
		Round(2).
		InexactFloat64()
}

// Sum adds amounts without accumulating binary rounding error.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}

	return total.InexactFloat64()
}
