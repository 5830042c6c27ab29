package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/MrJamesThe3rd/estoque/internal/invoice"
)

// number accepts a JSON number or a string and keeps its text for the
// service to validate.
type number string

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*n = number(s)
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return fmt.Errorf("expected number or string, got %s", data)
		}

		*n = number(num)
	}

	return nil
}

type itemRequest struct {
	Description string `json:"description"`
	Quantity    number `json:"quantity"`
	UnitPrice   number `json:"unitPrice"`
	Total       number `json:"total"`
}

type createRequest struct {
	InvoiceNumber string        `json:"invoiceNumber"`
	ClientName    string        `json:"clientName"`
	ClientEmail   string        `json:"clientEmail"`
	ClientPhone   string        `json:"clientPhone"`
	ClientCpfCnpj string        `json:"clientCpfCnpj"`
	ClientAddress string        `json:"clientAddress"`
	Items         []itemRequest `json:"items"`
	Subtotal      number        `json:"subtotal"`
	Tax           number        `json:"tax"`
	Total         number        `json:"total"`
	IssueDate     string        `json:"issueDate"`
	Status        string        `json:"status"`
}

type updateRequest struct {
	InvoiceNumber *string        `json:"invoiceNumber"`
	ClientName    *string        `json:"clientName"`
	ClientEmail   *string        `json:"clientEmail"`
	ClientPhone   *string        `json:"clientPhone"`
	ClientCpfCnpj *string        `json:"clientCpfCnpj"`
	ClientAddress *string        `json:"clientAddress"`
	Items         *[]itemRequest `json:"items"`
	Subtotal      *number        `json:"subtotal"`
	Tax           *number        `json:"tax"`
	Total         *number        `json:"total"`
	IssueDate     *string        `json:"issueDate"`
	Status        *string        `json:"status"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func toItemParams(items []itemRequest) []invoice.ItemParams {
	params := make([]invoice.ItemParams, len(items))
	for i, it := range items {
		params[i] = invoice.ItemParams{
			Description: it.Description,
			Quantity:    string(it.Quantity),
			UnitPrice:   string(it.UnitPrice),
			Total:       string(it.Total),
		}
	}

	return params
}

func (req createRequest) params() invoice.CreateParams {
	return invoice.CreateParams{
		Number:        req.InvoiceNumber,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ClientPhone:   req.ClientPhone,
		ClientTaxID:   req.ClientCpfCnpj,
		ClientAddress: req.ClientAddress,
		Items:         toItemParams(req.Items),
		Subtotal:      string(req.Subtotal),
		Tax:           string(req.Tax),
		Total:         string(req.Total),
		IssueDate:     req.IssueDate,
		Status:        req.Status,
	}
}

func (req updateRequest) patch() invoice.Patch {
	p := invoice.Patch{
		Number:        req.InvoiceNumber,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ClientPhone:   req.ClientPhone,
		ClientTaxID:   req.ClientCpfCnpj,
		ClientAddress: req.ClientAddress,
		Subtotal:      numberText(req.Subtotal),
		Tax:           numberText(req.Tax),
		Total:         numberText(req.Total),
		IssueDate:     req.IssueDate,
		Status:        req.Status,
	}

	if req.Items != nil {
		items := toItemParams(*req.Items)
		p.Items = &items
	}

	return p
}

func numberText(n *number) *string {
	if n == nil {
		return nil
	}

	s := string(*n)

	return &s
}
