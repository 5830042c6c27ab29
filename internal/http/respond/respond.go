// Package respond writes JSON bodies and translates service errors into
// HTTP status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
)

type errorResponse struct {
	Error   apperr.Kind `json:"error"`
	Message string      `json:"message"`
}

// JSON writes v with status. A value that cannot be encoded is reported as
// a 500 before any header is sent.
func JSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)

		status = http.StatusInternalServerError
		body = []byte(internalErrorBody)
	} else {
		body = append(body, '\n')
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(body); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

const internalErrorBody = `{"error":"internal","message":"internal error"}` + "\n"

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindInvalidID, apperr.KindMissingImage, apperr.KindDuplicateInvoiceNumber:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}

// Error writes the structured error payload for err. Server-side failures
// are logged with their cause and reported with a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := StatusOf(kind)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)

		msg = "internal error"
	}

	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		msg = verr.Error()
	}

	JSON(w, status, errorResponse{Error: kind, Message: msg})
}

// BadRequest reports malformed input that never reached a service.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: apperr.KindValidation, Message: msg})
}
