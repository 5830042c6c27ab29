package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
	"github.com/MrJamesThe3rd/estoque/internal/catalog"
	"github.com/MrJamesThe3rd/estoque/internal/database"
)

// Store persists products and their images. Field names follow the existing
// Produtos and imagens collections.
type Store struct {
	products *mongo.Collection
	images   *mongo.Collection
}

func New(db *database.DB) *Store {
	return &Store{products: db.Products(), images: db.Images()}
}

type productDoc struct {
	ID          primitive.ObjectID  `bson:"_id"`
	Name        string              `bson:"nome"`
	Description string              `bson:"descricao"`
	Category    string              `bson:"categoria"`
	Price       float64             `bson:"preco"`
	ImageID     *primitive.ObjectID `bson:"urlImagem,omitempty"`
}

func (d *productDoc) toProduct() *catalog.Product {
	return &catalog.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Price:       d.Price,
		ImageID:     d.ImageID,
	}
}

func (s *Store) CreateProduct(ctx context.Context, p *catalog.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}

	doc := productDoc{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		ImageID:     p.ImageID,
	}

	if _, err := s.products.InsertOne(ctx, doc); err != nil {
		return apperr.Store("creating product", err)
	}

	return nil
}

func (s *Store) GetProduct(ctx context.Context, id primitive.ObjectID) (*catalog.Product, error) {
	var doc productDoc

	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}

		return nil, apperr.Store("getting product", err)
	}

	return doc.toProduct(), nil
}

func (s *Store) ListProducts(ctx context.Context) ([]*catalog.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cur, err := s.products.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, apperr.Store("listing products", err)
	}
	defer cur.Close(ctx)

	products := make([]*catalog.Product, 0)

	for cur.Next(ctx) {
		var doc productDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, apperr.Store("decoding product", err)
		}

		products = append(products, doc.toProduct())
	}

	if err := cur.Err(); err != nil {
		return nil, apperr.Store("listing products", err)
	}

	return products, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	update := bson.M{"$set": bson.M{
		"nome":      p.Name,
		"descricao": p.Description,
		"categoria": p.Category,
		"preco":     p.Price,
	}}

	res, err := s.products.UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	if err != nil {
		return apperr.Store("updating product", err)
	}

	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

func (s *Store) SetProductImage(ctx context.Context, id, imageID primitive.ObjectID) error {
	res, err := s.products.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"urlImagem": imageID}})
	if err != nil {
		return apperr.Store("linking product image", err)
	}

	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Store("deleting product", err)
	}

	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}

	return nil
}
