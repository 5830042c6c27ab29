package invoice

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
	"github.com/MrJamesThe3rd/estoque/internal/docid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ItemParams is a line item as received from a client. Numbers are kept as
// text until validation.
type ItemParams struct {
	Description string
	Quantity    string
	UnitPrice   string
	Total       string
}

type CreateParams struct {
	Number        string
	ClientName    string
	ClientEmail   string
	ClientPhone   string
	ClientTaxID   string
	ClientAddress string
	Items         []ItemParams
	Subtotal      string
	Tax           string
	Total         string
	IssueDate     string
	Status        string
}

// Patch is a partial update as received from a client. Nil fields are not
// changed.
type Patch struct {
	Number        *string
	ClientName    *string
	ClientEmail   *string
	ClientPhone   *string
	ClientTaxID   *string
	ClientAddress *string
	Items         *[]ItemParams
	Subtotal      *string
	Tax           *string
	Total         *string
	IssueDate     *string
	Status        *string
}

// Create validates params and stores a new invoice. The number is checked
// up front; a concurrent insert that wins the race is still rejected by the
// store's unique index with the same error.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Invoice, error) {
	inv, err := buildInvoice(params)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.NumberExists(ctx, inv.Number)
	if err != nil {
		return nil, fmt.Errorf("checking invoice number: %w", err)
	}

	if exists {
		return nil, fmt.Errorf("%w: %s", apperr.ErrDuplicateInvoiceNumber, inv.Number)
	}

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Invoice, error) {
	oid, err := docid.Parse(id)
	if err != nil {
		return nil, err
	}

	return s.repo.GetInvoice(ctx, oid)
}

// List returns invoices matching filter, most recently created first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperr.Invalid("status", fmt.Sprintf("must be one of %s", statusList()))
	}

	return s.repo.ListInvoices(ctx, filter)
}

// Update applies patch and returns the stored result.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Invoice, error) {
	oid, err := docid.Parse(id)
	if err != nil {
		return nil, err
	}

	changes, err := buildChanges(patch)
	if err != nil {
		return nil, err
	}

	return s.repo.ApplyChanges(ctx, oid, changes)
}

// UpdateStatus sets only the status and returns it.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (Status, error) {
	oid, err := docid.Parse(id)
	if err != nil {
		return "", err
	}

	st, err := parseStatus(status)
	if err != nil {
		return "", err
	}

	if err := s.repo.UpdateStatus(ctx, oid, st); err != nil {
		return "", err
	}

	return st, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := docid.Parse(id)
	if err != nil {
		return err
	}

	return s.repo.DeleteInvoice(ctx, oid)
}

// Stats never fails on an empty collection; every field is zero.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if stats == nil {
		return &Stats{}, nil
	}

	return stats, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func parseStatus(raw string) (Status, error) {
	st := Status(strings.TrimSpace(raw))
	if !st.Valid() {
		return "", apperr.Invalid("status", fmt.Sprintf("must be one of %s", statusList()))
	}

	return st, nil
}

func statusList() string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}

	return strings.Join(names, ", ")
}
