package invoice

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=invoice
type Repository interface {
	// CreateInvoice fails with apperr.ErrDuplicateInvoiceNumber when the
	// number is already taken.
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, id primitive.ObjectID) (*Invoice, error)
	NumberExists(ctx context.Context, number string) (bool, error)
	// LatestInvoice returns the most recently created invoice, or
	// apperr.ErrNotFound when there are none.
	LatestInvoice(ctx context.Context) (*Invoice, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error)
	ApplyChanges(ctx context.Context, id primitive.ObjectID, changes Changes) (*Invoice, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status Status) error
	DeleteInvoice(ctx context.Context, id primitive.ObjectID) error

	Stats(ctx context.Context) (*Stats, error)
	Count(ctx context.Context) (int64, error)
}
