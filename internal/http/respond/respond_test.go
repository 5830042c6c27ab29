package respond_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
	"github.com/MrJamesThe3rd/estoque/internal/http/respond"
)

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
		wantMsg    string
	}{
		{
			name:       "Validation",
			err:        fmt.Errorf("creating: %w", apperr.Invalid("price", "must be a finite number")),
			wantStatus: http.StatusBadRequest,
			wantKind:   "validation",
			wantMsg:    "price: must be a finite number",
		},
		{
			name:       "InvalidID",
			err:        fmt.Errorf("%w: %q", apperr.ErrInvalidID, "abc"),
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid_id",
		},
		{
			name:       "MissingImage",
			err:        apperr.ErrMissingImage,
			wantStatus: http.StatusBadRequest,
			wantKind:   "missing_image",
			wantMsg:    "image is required",
		},
		{
			name:       "Duplicate",
			err:        fmt.Errorf("%w: NF-000001", apperr.ErrDuplicateInvoiceNumber),
			wantStatus: http.StatusBadRequest,
			wantKind:   "duplicate_invoice_number",
		},
		{
			name:       "NotFound",
			err:        apperr.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantKind:   "not_found",
		},
		{
			name:       "StoreHidesCause",
			err:        apperr.Store("listing products", errors.New("connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantKind:   "store",
			wantMsg:    "internal error",
		},
		{
			name:       "Unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantKind:   "internal",
			wantMsg:    "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)

			respond.Error(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantKind, body["error"])

			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["message"])
			}
		})
	}
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	respond.JSON(rec, http.StatusCreated, map[string]any{"id": "abc", "total": 12.5})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"abc","total":12.5}`, rec.Body.String())
}

func TestJSON_UnencodableValue(t *testing.T) {
	rec := httptest.NewRecorder()

	respond.JSON(rec, http.StatusOK, map[string]float64{"valorTotal": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "internal", body["error"])
	assert.Equal(t, "internal error", body["message"])
}
