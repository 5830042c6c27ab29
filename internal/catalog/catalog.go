package catalog

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. ImageID is a weak reference into the images
// collection; the Service keeps it pointing at zero or one Image.
type Product struct {
	ID          primitive.ObjectID
	Name        string
	Description string
	Category    string
	Price       float64
	ImageID     *primitive.ObjectID
}

// Image is the binary payload owned by exactly one Product.
type Image struct {
	ID       primitive.ObjectID
	Filename string
	MimeType string
	Data     []byte
}

// ImageInfo describes an Image without its payload.
type ImageInfo struct {
	ID       primitive.ObjectID
	Filename string
	MimeType string
	HasData  bool
	Size     int
}

// Upload is an image file received from a client.
type Upload struct {
	Filename string
	MimeType string
	Data     []byte
}

func (u *Upload) empty() bool {
	return u == nil || len(u.Data) == 0
}
