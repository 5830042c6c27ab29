package invoice

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
	"github.com/MrJamesThe3rd/estoque/internal/money"
)

func buildInvoice(params CreateParams) (*Invoice, error) {
	required := []struct{ field, value string }{
		{"invoiceNumber", params.Number},
		{"clientName", params.ClientName},
		{"clientEmail", params.ClientEmail},
		{"clientCpfCnpj", params.ClientTaxID},
		{"clientAddress", params.ClientAddress},
		{"issueDate", params.IssueDate},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, apperr.Invalid(r.field, "is required")
		}
	}

	items, err := parseItems(params.Items)
	if err != nil {
		return nil, err
	}

	inv := &Invoice{
		Number:        strings.TrimSpace(params.Number),
		ClientName:    params.ClientName,
		ClientEmail:   params.ClientEmail,
		ClientPhone:   params.ClientPhone,
		ClientTaxID:   params.ClientTaxID,
		ClientAddress: params.ClientAddress,
		Items:         items,
		IssueDate:     params.IssueDate,
		Status:        StatusIssued,
	}

	if inv.Subtotal, err = money.Parse("subtotal", params.Subtotal); err != nil {
		return nil, err
	}

	if inv.Tax, err = money.Parse("tax", params.Tax); err != nil {
		return nil, err
	}

	if inv.Total, err = money.Parse("total", params.Total); err != nil {
		return nil, err
	}

	if strings.TrimSpace(params.Status) != "" {
		if inv.Status, err = parseStatus(params.Status); err != nil {
			return nil, err
		}
	}

	return inv, nil
}

func buildChanges(patch Patch) (Changes, error) {
	var c Changes

	texts := []struct {
		field    string
		in       *string
		out      **string
		required bool
	}{
		{"invoiceNumber", patch.Number, &c.Number, true},
		{"clientName", patch.ClientName, &c.ClientName, true},
		{"clientEmail", patch.ClientEmail, &c.ClientEmail, true},
		{"clientPhone", patch.ClientPhone, &c.ClientPhone, false},
		{"clientCpfCnpj", patch.ClientTaxID, &c.ClientTaxID, true},
		{"clientAddress", patch.ClientAddress, &c.ClientAddress, true},
		{"issueDate", patch.IssueDate, &c.IssueDate, true},
	}
	for _, t := range texts {
		if t.in == nil {
			continue
		}

		if t.required && strings.TrimSpace(*t.in) == "" {
			return Changes{}, apperr.Invalid(t.field, "must not be empty")
		}

		v := *t.in
		*t.out = &v
	}

	if c.Number != nil {
		number := strings.TrimSpace(*c.Number)
		c.Number = &number
	}

	amounts := []struct {
		field string
		in    *string
		out   **float64
	}{
		{"subtotal", patch.Subtotal, &c.Subtotal},
		{"tax", patch.Tax, &c.Tax},
		{"total", patch.Total, &c.Total},
	}
	for _, a := range amounts {
		if a.in == nil {
			continue
		}

		v, err := money.Parse(a.field, *a.in)
		if err != nil {
			return Changes{}, err
		}

		*a.out = &v
	}

	if patch.Items != nil {
		items, err := parseItems(*patch.Items)
		if err != nil {
			return Changes{}, err
		}

		c.Items = &items
	}

	if patch.Status != nil {
		st, err := parseStatus(*patch.Status)
		if err != nil {
			return Changes{}, err
		}

		c.Status = &st
	}

	return c, nil
}

// parseItems validates line items. A missing line total is computed from
// quantity and unit price.
func parseItems(params []ItemParams) ([]LineItem, error) {
	if len(params) == 0 {
		return nil, apperr.Invalid("items", "at least one item is required")
	}

	items := make([]LineItem, len(params))

	for i, p := range params {
		field := func(name string) string { return fmt.Sprintf("items[%d].%s", i, name) }

		if strings.TrimSpace(p.Description) == "" {
			return nil, apperr.Invalid(field("description"), "is required")
		}

		qty, err := parseQuantity(field("quantity"), p.Quantity)
		if err != nil {
			return nil, err
		}

		unit, err := money.Parse(field("unitPrice"), p.UnitPrice)
		if err != nil {
			return nil, err
		}

		total := money.LineTotal(qty, unit)
		if strings.TrimSpace(p.Total) != "" {
			if total, err = money.Parse(field("total"), p.Total); err != nil {
				return nil, err
			}
		}

		items[i] = LineItem{
			Description: p.Description,
			Quantity:    qty,
			UnitPrice:   unit,
			Total:       total,
		}
	}

	return items, nil
}

var maxQuantity = decimal.NewFromInt(math.MaxInt32)

func parseQuantity(field, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperr.Invalid(field, "is required")
	}

	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsInteger() {
		return 0, apperr.Invalid(field, "must be a whole number")
	}

	if d.LessThan(decimal.NewFromInt(1)) {
		return 0, apperr.Invalid(field, "must be at least 1")
	}

	if d.GreaterThan(maxQuantity) {
		return 0, apperr.Invalid(field, "is too large")
	}

	return int(d.IntPart()), nil
}
