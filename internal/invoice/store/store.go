package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
	"github.com/MrJamesThe3rd/estoque/internal/database"
	"github.com/MrJamesThe3rd/estoque/internal/invoice"
)

type Store struct {
	coll *mongo.Collection
	now  func() time.Time
}

func New(db *database.DB) *Store {
	return &Store{
		coll: db.Invoices(),
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	if inv.ID.IsZero() {
		inv.ID = primitive.NewObjectID()
	}

	inv.CreatedAt = s.now()
	inv.UpdatedAt = inv.CreatedAt

	if _, err := s.coll.InsertOne(ctx, fromInvoice(inv)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", apperr.ErrDuplicateInvoiceNumber, inv.Number)
		}

		return apperr.Store("creating invoice", err)
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id primitive.ObjectID) (*invoice.Invoice, error) {
	return s.findOne(ctx, bson.M{"_id": id}, nil, "getting invoice")
}

func (s *Store) NumberExists(ctx context.Context, number string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"invoiceNumber": number}, options.Count().SetLimit(1))
	if err != nil {
		return false, apperr.Store("checking invoice number", err)
	}

	return n > 0, nil
}

func (s *Store) LatestInvoice(ctx context.Context) (*invoice.Invoice, error) {
	return s.findOne(ctx, bson.D{}, options.FindOne().SetSort(newestFirst), "getting latest invoice")
}

func (s *Store) findOne(ctx context.Context, filter any, opts *options.FindOneOptions, op string) (*invoice.Invoice, error) {
	var doc invoiceDoc

	var err error
	if opts != nil {
		err = s.coll.FindOne(ctx, filter, opts).Decode(&doc)
	} else {
		err = s.coll.FindOne(ctx, filter).Decode(&doc)
	}

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}

		return nil, apperr.Store(op, err)
	}

	return doc.toInvoice(), nil
}

func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query := bson.M{}

	if filter.Status != nil {
		query["status"] = bson.M{"$in": storedStatuses(*filter.Status)}
	}

	created := bson.M{}
	if filter.StartDate != nil {
		created["$gte"] = *filter.StartDate
	}

	if filter.EndDate != nil {
		created["$lte"] = *filter.EndDate
	}

	if len(created) > 0 {
		query["createdAt"] = created
	}

	cur, err := s.coll.Find(ctx, query, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, apperr.Store("listing invoices", err)
	}
	defer cur.Close(ctx)

	invoices := make([]*invoice.Invoice, 0)

	for cur.Next(ctx) {
		var doc invoiceDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, apperr.Store("decoding invoice", err)
		}

		invoices = append(invoices, doc.toInvoice())
	}

	if err := cur.Err(); err != nil {
		return nil, apperr.Store("listing invoices", err)
	}

	return invoices, nil
}

func (s *Store) ApplyChanges(ctx context.Context, id primitive.ObjectID, c invoice.Changes) (*invoice.Invoice, error) {
	set := bson.M{"updatedAt": s.now()}

	setIf := func(key string, v any, ok bool) {
		if ok {
			set[key] = v
		}
	}

	setIf("invoiceNumber", deref(c.Number), c.Number != nil)
	setIf("clientName", deref(c.ClientName), c.ClientName != nil)
	setIf("clientEmail", deref(c.ClientEmail), c.ClientEmail != nil)
	setIf("clientPhone", deref(c.ClientPhone), c.ClientPhone != nil)
	setIf("clientCpfCnpj", deref(c.ClientTaxID), c.ClientTaxID != nil)
	setIf("clientAddress", deref(c.ClientAddress), c.ClientAddress != nil)
	setIf("issueDate", deref(c.IssueDate), c.IssueDate != nil)
	setIf("subtotal", deref(c.Subtotal), c.Subtotal != nil)
	setIf("tax", deref(c.Tax), c.Tax != nil)
	setIf("total", deref(c.Total), c.Total != nil)

	if c.Items != nil {
		set["items"] = fromItems(*c.Items)
	}

	if c.Status != nil {
		set["status"] = string(*c.Status)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc invoiceDoc

	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, apperr.ErrNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, fmt.Errorf("%w: %s", apperr.ErrDuplicateInvoiceNumber, deref(c.Number))
		}

		return nil, apperr.Store("updating invoice", err)
	}

	return doc.toInvoice(), nil
}

func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status invoice.Status) error {
	update := bson.M{"$set": bson.M{"status": string(status), "updatedAt": s.now()}}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return apperr.Store("updating invoice status", err)
	}

	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteInvoice(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Store("deleting invoice", err)
	}

	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, apperr.Store("counting invoices", err)
	}

	return n, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}

	return *p
}
