package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collections names the three record collections.
type Collections struct {
	Products string
	Invoices string
	Images   string
}

// DB is the process-wide store handle. It is created once in main and handed
// to every store; it is safe for concurrent use.
type DB struct {
	db    *mongo.Database
	names Collections
}

func New(ctx context.Context, uri, name string, names Collections) (*DB, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(25).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return Wrap(client.Database(name), names), nil
}

// Wrap builds a DB around an already connected database.
func Wrap(db *mongo.Database, names Collections) *DB {
	return &DB{db: db, names: names}
}

func (d *DB) Products() *mongo.Collection { return d.db.Collection(d.names.Products) }
func (d *DB) Invoices() *mongo.Collection { return d.db.Collection(d.names.Invoices) }
func (d *DB) Images() *mongo.Collection   { return d.db.Collection(d.names.Images) }

func (d *DB) Ping(ctx context.Context) error {
	if err := d.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}

	return nil
}

// EnsureIndexes creates the unique invoice number index the invoice store
// relies on, and the creation-time index used for listing.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "invoiceNumber", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("invoiceNumber_1"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_-1"),
		},
	}

	if _, err := d.Invoices().Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("creating invoice indexes: %w", err)
	}

	return nil
}

func (d *DB) Close(ctx context.Context) error {
	if err := d.db.Client().Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnecting database: %w", err)
	}

	return nil
}
