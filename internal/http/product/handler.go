package product

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/estoque/internal/catalog"
	"github.com/MrJamesThe3rd/estoque/internal/http/respond"
)

type Handler struct {
	svc       *catalog.Service
	maxUpload int64
}

// NewHandler serves products. Multipart bodies larger than maxUpload bytes
// are rejected.
func NewHandler(svc *catalog.Service, maxUpload int64) *Handler {
	return &Handler{svc: svc, maxUpload: maxUpload}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

// form holds the multipart fields of a product write. Field names from the
// older Portuguese form are accepted as well.
type form struct {
	name        string
	description string
	category    string
	price       string
	image       *catalog.Upload
}

func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) (*form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}

	f := &form{
		name:        formValue(r, "name", "nome"),
		description: formValue(r, "description", "descricao"),
		category:    formValue(r, "category", "categoria"),
		price:       formValue(r, "price", "preco"),
	}

	upload, err := readUpload(r, "image", "imagem")
	if err != nil {
		return nil, err
	}

	f.image = upload

	return f, nil
}

func formValue(r *http.Request, keys ...string) string {
	for _, k := range keys {
		if _, ok := r.MultipartForm.Value[k]; ok {
			return r.FormValue(k)
		}
	}

	return ""
}

func readUpload(r *http.Request, keys ...string) (*catalog.Upload, error) {
	for _, k := range keys {
		file, header, err := r.FormFile(k)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", k, err)
		}

		data, err := io.ReadAll(file)
		file.Close()

		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", k, err)
		}

		return &catalog.Upload{
			Filename: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Data:     data,
		}, nil
	}

	return nil, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(products))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	f, err := h.parseForm(w, r)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	p, err := h.svc.Create(r.Context(), catalog.CreateParams{
		Name:        f.name,
		Description: f.description,
		Category:    f.category,
		Price:       f.price,
		Image:       f.image,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := toResponse(p)
	respond.JSON(w, http.StatusCreated, messageResponse{
		Message: "product created",
		Product: &resp,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	f, err := h.parseForm(w, r)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	p, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), catalog.UpdateParams{
		Name:        f.name,
		Description: f.description,
		Category:    f.category,
		Price:       f.price,
		Image:       f.image,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := toResponse(p)
	respond.JSON(w, http.StatusOK, messageResponse{
		Message: "product updated",
		Product: &resp,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, messageResponse{Message: "product deleted"})
}
