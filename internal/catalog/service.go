package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
	"github.com/MrJamesThe3rd/estoque/internal/docid"
	"github.com/MrJamesThe3rd/estoque/internal/money"
)

// Service owns the product/image association: every write that touches a
// product's image goes through here so the reference never points at more
// than one Image and deletion order is fixed.
type Service struct {
	products ProductRepository
	images   ImageRepository
}

func NewService(products ProductRepository, images ImageRepository) *Service {
	return &Service{products: products, images: images}
}

type CreateParams struct {
	Name        string
	Description string
	Category    string
	Price       string
	Image       *Upload
}

type UpdateParams struct {
	Name        string
	Description string
	Category    string
	Price       string
	Image       *Upload
}

// Create stores the image first and then the product referencing it. If the
// product insert fails the image is removed again.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Product, error) {
	price, err := validateCreate(params)
	if err != nil {
		return nil, err
	}

	if params.Image.empty() {
		return nil, apperr.ErrMissingImage
	}

	img := newImage(params.Image)
	if err := s.images.CreateImage(ctx, img); err != nil {
		return nil, fmt.Errorf("saving image: %w", err)
	}

	p := &Product{
		Name:        params.Name,
		Description: params.Description,
		Category:    params.Category,
		Price:       price,
		ImageID:     &img.ID,
	}
	if err := s.products.CreateProduct(ctx, p); err != nil {
		s.discardImage(ctx, img.ID, "product insert failed")
		return nil, fmt.Errorf("saving product: %w", err)
	}

	return p, nil
}

// Update overwrites the product fields. A new image replaces the referenced
// record in place, or is created and linked when the product has none.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Product, error) {
	pid, err := docid.Parse(id)
	if err != nil {
		return nil, err
	}

	p, err := s.products.GetProduct(ctx, pid)
	if err != nil {
		return nil, err
	}

	var price float64
	if strings.TrimSpace(params.Price) != "" {
		if price, err = money.Parse("price", params.Price); err != nil {
			return nil, err
		}
	}

	p.Name = params.Name
	p.Description = params.Description
	p.Category = params.Category
	p.Price = price

	if err := s.products.UpdateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}

	if params.Image.empty() {
		return p, nil
	}

	img := newImage(params.Image)

	if p.ImageID != nil {
		img.ID = *p.ImageID
		if err := s.images.ReplaceImage(ctx, img); err != nil {
			return nil, fmt.Errorf("replacing image: %w", err)
		}

		return p, nil
	}

	if err := s.images.CreateImage(ctx, img); err != nil {
		return nil, fmt.Errorf("saving image: %w", err)
	}

	if err := s.products.SetProductImage(ctx, p.ID, img.ID); err != nil {
		s.discardImage(ctx, img.ID, "linking image failed")
		return nil, fmt.Errorf("linking image: %w", err)
	}

	p.ImageID = &img.ID

	return p, nil
}

// Delete removes the referenced image before the product, so a failure can
// only leave a product without its image, never an unreachable image.
func (s *Service) Delete(ctx context.Context, id string) error {
	pid, err := docid.Parse(id)
	if err != nil {
		return err
	}

	p, err := s.products.GetProduct(ctx, pid)
	if err != nil {
		return err
	}

	if p.ImageID != nil {
		err := s.images.DeleteImage(ctx, *p.ImageID)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return fmt.Errorf("deleting image: %w", err)
		}
	}

	if err := s.products.DeleteProduct(ctx, pid); err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	return nil
}

// List returns every product. Image payloads are not loaded.
func (s *Service) List(ctx context.Context) ([]*Product, error) {
	return s.products.ListProducts(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	pid, err := docid.Parse(id)
	if err != nil {
		return nil, err
	}

	return s.products.GetProduct(ctx, pid)
}

func (s *Service) Image(ctx context.Context, id string) (*Image, error) {
	iid, err := docid.Parse(id)
	if err != nil {
		return nil, err
	}

	return s.images.GetImage(ctx, iid)
}

func (s *Service) ImageInfo(ctx context.Context, id string) (*ImageInfo, error) {
	img, err := s.Image(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ImageInfo{
		ID:       img.ID,
		Filename: img.Filename,
		MimeType: img.MimeType,
		HasData:  len(img.Data) > 0,
		Size:     len(img.Data),
	}, nil
}

func (s *Service) discardImage(ctx context.Context, id primitive.ObjectID, reason string) {
	if err := s.images.DeleteImage(context.WithoutCancel(ctx), id); err != nil {
		slog.Warn("orphaned image left behind", "image_id", id.Hex(), "reason", reason, "error", err)
		return
	}

	slog.Warn("removed image after failed write", "image_id", id.Hex(), "reason", reason)
}

func validateCreate(params CreateParams) (float64, error) {
	required := []struct{ field, value string }{
		{"name", params.Name},
		{"description", params.Description},
		{"category", params.Category},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return 0, apperr.Invalid(r.field, "is required")
		}
	}

	return money.Parse("price", params.Price)
}

func newImage(u *Upload) *Image {
	var detected *mimetype.MIME

	mimeType := strings.TrimSpace(u.MimeType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		detected = mimetype.Detect(u.Data)
		mimeType = detected.String()
	}

	filename := strings.TrimSpace(u.Filename)
	if filename == "" {
		if detected == nil {
			detected = mimetype.Detect(u.Data)
		}

		filename = uuid.NewString() + detected.Extension()
	}

	return &Image{
		Filename: filename,
		MimeType: mimeType,
		Data:     u.Data,
	}
}
