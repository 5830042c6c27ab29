package invoice

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/estoque/internal/http/query"
	"github.com/MrJamesThe3rd/estoque/internal/http/respond"
	"github.com/MrJamesThe3rd/estoque/internal/importer"
	"github.com/MrJamesThe3rd/estoque/internal/invoice"
)

type Handler struct {
	svc       *invoice.Service
	importSvc *importer.Service
	maxUpload int64
}

func NewHandler(svc *invoice.Service, importSvc *importer.Service, maxUpload int64) *Handler {
	return &Handler{
		svc:       svc,
		importSvc: importSvc,
		maxUpload: maxUpload,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/next-number", h.nextNumber)
	r.Get("/stats", h.stats)
	r.Post("/items/import", h.importItems)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Patch("/{id}/status", h.updateStatus)
	r.Delete("/{id}", h.delete)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	return nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := query.InvoiceFilter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	invoices, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(invoices))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	inv, err := h.svc.Create(r.Context(), req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, createResponse{
		Message:       "invoice created",
		ID:            inv.ID.Hex(),
		InvoiceNumber: inv.Number,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	inv, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, updateResponse{
		Message: "invoice updated",
		Invoice: toResponse(inv),
	})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	status, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, statusResponse{
		Message: "status updated",
		Status:  status,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, messageResponse{Message: "invoice deleted"})
}

func (h *Handler) nextNumber(w http.ResponseWriter, r *http.Request) {
	next, err := h.svc.NextNumber(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, nextNumberResponse{
		NextNumber:    next.Number,
		InvoiceNumber: next.InvoiceNumber,
	})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, statsResponse{
		Count:      stats.Count,
		TotalValue: stats.TotalValue,
		Issued:     stats.Issued,
		Cancelled:  stats.Cancelled,
		Pending:    stats.Pending,
	})
}

func (h *Handler) importItems(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		respond.BadRequest(w, "failed to parse form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		respond.BadRequest(w, "file is required")
		return
	}

	if err != nil {
		respond.BadRequest(w, "failed to read file: "+err.Error())
		return
	}
	defer file.Close()

	items, err := h.importSvc.Import(importer.FormatOf(header.Filename), file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, importResponse{
		Count: len(items),
		Items: toItems(items),
	})
}
