// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/quizdrill/backend/internal/codec"
	practicesession "github.com/quizdrill/backend/internal/domain/practice_session"
	"github.com/quizdrill/backend/internal/service"
)

const maxBodyBytes = 1 << 20

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	trainer *service.Trainer
	logger  *zap.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(t *service.Trainer, logger *zap.Logger) *Handler {
	return &Handler{
		trainer: t,
		logger:  logger,
	}
}

type ErrorResponse struct {
	Error string `json:"error" example:"malformed document: missing questions"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, ErrorResponse{Error: msg})
}

// decodeJSON decodes the request body into v. An empty body is accepted
// when allowEmpty is set. Returns false after writing a 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}
	respondError(w, http.StatusBadRequest, "invalid json")
	return false
}

// handleError maps service errors to HTTP responses. Returns true if an
// error was handled (caller should return).
func (h *Handler) handleError(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, codec.ErrMalformedDocument):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, practicesession.ErrSessionComplete):
		respondError(w, http.StatusConflict, "session already complete")
	default:
		h.logger.Error("request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
