package catalog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=catalog
type ProductRepository interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id primitive.ObjectID) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	SetProductImage(ctx context.Context, id, imageID primitive.ObjectID) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
}

type ImageRepository interface {
	CreateImage(ctx context.Context, img *Image) error
	GetImage(ctx context.Context, id primitive.ObjectID) (*Image, error)
	// ReplaceImage overwrites filename, mime type and payload of img.ID,
	// creating the record if it is gone.
	ReplaceImage(ctx context.Context, img *Image) error
	DeleteImage(ctx context.Context, id primitive.ObjectID) error
}
