package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrJamesThe3rd/estoque/internal/export"
	"github.com/MrJamesThe3rd/estoque/internal/http/query"
	"github.com/MrJamesThe3rd/estoque/internal/http/respond"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/invoices", h.invoices)
	r.Get("/catalog", h.catalog)
	r.Get("/summary", h.summary)
}

type summaryResponse struct {
	Invoices int    `json:"invoices"`
	Summary  string `json:"summary"`
}

func attachment(w http.ResponseWriter, contentType, prefix, ext string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"%s_%s.%s\"", prefix, time.Now().Format("20060102"), ext))
}

// stream runs write against w. Failures before the first byte become a
// regular error response; later ones can only be logged.
func stream(w http.ResponseWriter, r *http.Request, write func(w http.ResponseWriter) error) {
	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

	err := write(ww)
	if err == nil {
		return
	}

	if ww.BytesWritten() == 0 {
		w.Header().Del("Content-Disposition")
		respond.Error(w, r, err)

		return
	}

	slog.Error("export interrupted", "path", r.URL.Path, "bytes", ww.BytesWritten(), "error", err)
}

func (h *Handler) invoices(w http.ResponseWriter, r *http.Request) {
	filter, err := query.InvoiceFilter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	attachment(w, "text/csv; charset=utf-8", "notas", "csv")

	stream(w, r, func(w http.ResponseWriter) error {
		_, err := h.svc.InvoicesCSV(r.Context(), filter, w)
		return err
	})
}

func (h *Handler) catalog(w http.ResponseWriter, r *http.Request) {
	attachment(w, "application/zip", "catalogo", "zip")

	stream(w, r, func(w http.ResponseWriter) error {
		_, err := h.svc.CatalogArchive(r.Context(), w)
		return err
	})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	filter, err := query.InvoiceFilter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	invoices, err := h.svc.Invoices(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, summaryResponse{
		Invoices: len(invoices),
		Summary:  h.svc.GenerateSummary(invoices),
	})
}
