package invoice

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status represents the lifecycle state of an invoice.
type Status string

const (
	StatusIssued    Status = "issued"
	StatusCancelled Status = "cancelled"
	StatusPending   Status = "pending"
)

// Statuses lists every accepted status in display order.
var Statuses = []Status{StatusIssued, StatusPending, StatusCancelled}

func (s Status) Valid() bool {
	switch s {
	case StatusIssued, StatusCancelled, StatusPending:
		return true
	}

	return false
}

// LineItem is one row of an invoice. It has no identity of its own.
type LineItem struct {
	Description string
	Quantity    int
	UnitPrice   float64
	Total       float64
}

// Invoice represents a nota fiscal record.
type Invoice struct {
	ID            primitive.ObjectID
	Number        string
	ClientName    string
	ClientEmail   string
	ClientPhone   string
	ClientTaxID   string // CPF or CNPJ
	ClientAddress string
	Items         []LineItem
	Subtotal      float64
	Tax           float64
	Total         float64
	IssueDate     string
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Stats aggregates every stored invoice. TotalValue sums Total regardless of
// status.
type Stats struct {
	Count      int64
	TotalValue float64
	Issued     int64
	Cancelled  int64
	Pending    int64
}

// ListFilter narrows ListInvoices. Dates bound the creation time, inclusive.
type ListFilter struct {
	Status    *Status
	StartDate *time.Time
	EndDate   *time.Time
}

// Changes is a validated partial update. Nil fields are left untouched.
type Changes struct {
	Number        *string
	ClientName    *string
	ClientEmail   *string
	ClientPhone   *string
	ClientTaxID   *string
	ClientAddress *string
	Items         *[]LineItem
	Subtotal      *float64
	Tax           *float64
	Total         *float64
	IssueDate     *string
	Status        *Status
}
