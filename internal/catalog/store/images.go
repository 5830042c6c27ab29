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
)

type imageDoc struct {
	ID       primitive.ObjectID `bson:"_id"`
	Filename string             `bson:"filename"`
	MimeType string             `bson:"mimetype"`
	Data     []byte             `bson:"image_data"`
}

func (s *Store) CreateImage(ctx context.Context, img *catalog.Image) error {
	if img.ID.IsZero() {
		img.ID = primitive.NewObjectID()
	}

	doc := imageDoc{
		ID:       img.ID,
		Filename: img.Filename,
		MimeType: img.MimeType,
		Data:     img.Data,
	}

	if _, err := s.images.InsertOne(ctx, doc); err != nil {
		return apperr.Store("creating image", err)
	}

	return nil
}

func (s *Store) GetImage(ctx context.Context, id primitive.ObjectID) (*catalog.Image, error) {
	var doc imageDoc

	err := s.images.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}

		return nil, apperr.Store("getting image", err)
	}

	return &catalog.Image{
		ID:       doc.ID,
		Filename: doc.Filename,
		MimeType: doc.MimeType,
		Data:     doc.Data,
	}, nil
}

func (s *Store) ReplaceImage(ctx context.Context, img *catalog.Image) error {
	update := bson.M{"$set": bson.M{
		"filename":   img.Filename,
		"mimetype":   img.MimeType,
		"image_data": img.Data,
	}}

	_, err := s.images.UpdateOne(ctx, bson.M{"_id": img.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return apperr.Store("replacing image", err)
	}

	return nil
}

func (s *Store) DeleteImage(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.images.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Store("deleting image", err)
	}

	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}

	return nil
}
