package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrJamesThe3rd/estoque/internal/invoice"
)

type itemDoc struct {
	Description string  `bson:"description"`
	Quantity    int     `bson:"quantity"`
	UnitPrice   float64 `bson:"unitPrice"`
	Total       float64 `bson:"total"`
}

type invoiceDoc struct {
	ID            primitive.ObjectID `bson:"_id"`
	Number        string             `bson:"invoiceNumber"`
	ClientName    string             `bson:"clientName"`
	ClientEmail   string             `bson:"clientEmail"`
	ClientPhone   string             `bson:"clientPhone,omitempty"`
	ClientTaxID   string             `bson:"clientCpfCnpj"`
	ClientAddress string             `bson:"clientAddress"`
	Items         []itemDoc          `bson:"items"`
	Subtotal      float64            `bson:"subtotal"`
	Tax           float64            `bson:"tax"`
	Total         float64            `bson:"total"`
	IssueDate     string             `bson:"issueDate"`
	Status        string             `bson:"status"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// Records written before the status values were renamed still carry the
// Portuguese names.
var legacyStatus = map[string]invoice.Status{
	"emitida":   invoice.StatusIssued,
	"cancelada": invoice.StatusCancelled,
	"pendente":  invoice.StatusPending,
}

func storedStatuses(s invoice.Status) []string {
	out := []string{string(s)}

	for legacy, st := range legacyStatus {
		if st == s {
			out = append(out, legacy)
		}
	}

	return out
}

func statusFromStore(raw string) invoice.Status {
	if st, ok := legacyStatus[raw]; ok {
		return st
	}

	if raw == "" {
		return invoice.StatusIssued
	}

	return invoice.Status(raw)
}

func fromItems(items []invoice.LineItem) []itemDoc {
	docs := make([]itemDoc, len(items))
	for i, it := range items {
		docs[i] = itemDoc{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		}
	}

	return docs
}

func fromInvoice(inv *invoice.Invoice) invoiceDoc {
	return invoiceDoc{
		ID:            inv.ID,
		Number:        inv.Number,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		ClientPhone:   inv.ClientPhone,
		ClientTaxID:   inv.ClientTaxID,
		ClientAddress: inv.ClientAddress,
		Items:         fromItems(inv.Items),
		Subtotal:      inv.Subtotal,
		Tax:           inv.Tax,
		Total:         inv.Total,
		IssueDate:     inv.IssueDate,
		Status:        string(inv.Status),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func (d *invoiceDoc) toInvoice() *invoice.Invoice {
	items := make([]invoice.LineItem, len(d.Items))
	for i, it := range d.Items {
		items[i] = invoice.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		}
	}

	return &invoice.Invoice{
		ID:            d.ID,
		Number:        d.Number,
		ClientName:    d.ClientName,
		ClientEmail:   d.ClientEmail,
		ClientPhone:   d.ClientPhone,
		ClientTaxID:   d.ClientTaxID,
		ClientAddress: d.ClientAddress,
		Items:         items,
		Subtotal:      d.Subtotal,
		Tax:           d.Tax,
		Total:         d.Total,
		IssueDate:     d.IssueDate,
		Status:        statusFromStore(d.Status),
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}
