package api

import (
	"errors"
	"io"
	"net/http"
)

// ── Handlers ────────────────────────────────────────────────────────────────

// exportQuiz downloads the quiz document.
// @Summary      Export the quiz
// @Tags         Transfer
// @Produce      json
// @Success      200  {file}    file
// @Failure      500  {object}  ErrorResponse
// @Router       /quiz/export [get]
func (h *Handler) exportQuiz(w http.ResponseWriter, r *http.Request) {
	filename, payload, err := h.trainer.Export()
	if h.handleError(w, err) {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// importQuiz replaces the whole quiz with an uploaded document. A
// malformed document is rejected and the quiz is left as it was.
// @Summary      Import a quiz
// @Tags         Transfer
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "Quiz document"
// @Success      200   {object}  QuizResponse
// @Failure      400   {object}  ErrorResponse  "malformed document"
// @Failure      413   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /quiz/import [post]
func (h *Handler) importQuiz(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, "document too large")
		return
	case err != nil:
		respondError(w, http.StatusBadRequest, "failed to read document")
		return
	}

	if h.handleError(w, h.trainer.Import(r.Context(), raw)) {
		return
	}

	h.respondQuiz(w, http.StatusOK)
}
