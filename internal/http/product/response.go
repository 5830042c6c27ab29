package product

import (
	"github.com/MrJamesThe3rd/estoque/internal/catalog"
)

type productResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	ImageID     string  `json:"imageId,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

type messageResponse struct {
	Message string           `json:"message"`
	Product *productResponse `json:"product,omitempty"`
}

func toResponse(p *catalog.Product) productResponse {
	resp := productResponse{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
	}

	if p.ImageID != nil {
		resp.ImageID = p.ImageID.Hex()
		resp.ImageURL = "/api/v1/images/" + resp.ImageID
	}

	return resp
}

func toResponseList(products []*catalog.Product) []productResponse {
	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toResponse(p)
	}

	return resp
}
