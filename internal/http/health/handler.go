package health

import (
	"context"
	"net/http"

	"github.com/MrJamesThe3rd/estoque/internal/http/respond"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type Handler struct {
	db         Pinger
	invoices   Counter
	collection string
}

// NewHandler reports on db and the invoice collection named collection.
func NewHandler(db Pinger, invoices Counter, collection string) *Handler {
	return &Handler{db: db, invoices: invoices, collection: collection}
}

type response struct {
	Status     string `json:"status"`
	Collection string `json:"collection"`
	Invoices   int64  `json:"invoices"`
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		respond.Error(w, r, err)
		return
	}

	n, err := h.invoices.Count(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, response{
		Status:     "ok",
		Collection: h.collection,
		Invoices:   n,
	})
}
