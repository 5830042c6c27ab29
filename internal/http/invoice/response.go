package invoice

import (
	"time"

	"github.com/MrJamesThe3rd/estoque/internal/invoice"
)

type itemResponse struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

type invoiceResponse struct {
	ID            string         `json:"id"`
	InvoiceNumber string         `json:"invoiceNumber"`
	ClientName    string         `json:"clientName"`
	ClientEmail   string         `json:"clientEmail"`
	ClientPhone   string         `json:"clientPhone,omitempty"`
	ClientCpfCnpj string         `json:"clientCpfCnpj"`
	ClientAddress string         `json:"clientAddress"`
	Items         []itemResponse `json:"items"`
	Subtotal      float64        `json:"subtotal"`
	Tax           float64        `json:"tax"`
	Total         float64        `json:"total"`
	IssueDate     string         `json:"issueDate"`
	Status        invoice.Status `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type createResponse struct {
	Message       string `json:"message"`
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoiceNumber"`
}

type updateResponse struct {
	Message string          `json:"message"`
	Invoice invoiceResponse `json:"invoice"`
}

type statusResponse struct {
	Message string         `json:"message"`
	Status  invoice.Status `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type nextNumberResponse struct {
	NextNumber    int    `json:"nextNumber"`
	InvoiceNumber string `json:"invoiceNumber"`
}

type statsResponse struct {
	Count      int64   `json:"totalNotas"`
	TotalValue float64 `json:"valorTotal"`
	Issued     int64   `json:"emitidas"`
	Cancelled  int64   `json:"canceladas"`
	Pending    int64   `json:"pendentes"`
}

type importResponse struct {
	Count int            `json:"count"`
	Items []itemResponse `json:"items"`
}

func toItems(items []invoice.LineItem) []itemResponse {
	resp := make([]itemResponse, len(items))
	for i, it := range items {
		resp[i] = itemResponse{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		}
	}

	return resp
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:            inv.ID.Hex(),
		InvoiceNumber: inv.Number,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		ClientPhone:   inv.ClientPhone,
		ClientCpfCnpj: inv.ClientTaxID,
		ClientAddress: inv.ClientAddress,
		Items:         toItems(inv.Items),
		Subtotal:      inv.Subtotal,
		Tax:           inv.Tax,
		Total:         inv.Total,
		IssueDate:     inv.IssueDate,
		Status:        inv.Status,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func toResponseList(invoices []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp[i] = toResponse(inv)
	}

	return resp
}
