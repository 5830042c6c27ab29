package image

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/estoque/internal/catalog"
	"github.com/MrJamesThe3rd/estoque/internal/http/respond"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}", h.serve)
	r.Get("/{id}/info", h.info)
}

type infoResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mimetype"`
	HasData  bool   `json:"hasData"`
	Size     int    `json:"dataSize"`
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	img, err := h.svc.Image(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	contentType := img.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))

	if _, err := w.Write(img.Data); err != nil {
		slog.Error("failed to write image", "image_id", img.ID.Hex(), "error", err)
	}
}

func (h *Handler) info(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.ImageInfo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, infoResponse{
		ID:       info.ID.Hex(),
		Filename: info.Filename,
		MimeType: info.MimeType,
		HasData:  info.HasData,
		Size:     info.Size,
	})
}
