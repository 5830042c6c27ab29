// Package query reads listing filters from URL query parameters.
package query

import (
	"net/http"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
	"github.com/MrJamesThe3rd/estoque/internal/invoice"
)

// InvoiceFilter reads status, start_date and end_date. Dates use the
// YYYY-MM-DD form; end_date covers its whole day.
func InvoiceFilter(r *http.Request) (invoice.ListFilter, error) {
	q := r.URL.Query()
	filter := invoice.ListFilter{}

	if s := strings.TrimSpace(q.Get("status")); s != "" {
		status := invoice.Status(s)
		filter.Status = &status
	}

	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, apperr.Invalid("start_date", "must be a YYYY-MM-DD date")
		}

		filter.StartDate = &t
	}

	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, apperr.Invalid("end_date", "must be a YYYY-MM-DD date")
		}

		end := t.AddDate(0, 0, 1).Add(-time.Millisecond)
		filter.EndDate = &end
	}

	return filter, nil
}
