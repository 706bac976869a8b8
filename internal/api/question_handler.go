package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ── Request / Response types ────────────────────────────────────────────────

type QuestionRequest struct {
	Question string `json:"question" example:"Capital of France?"`
	Answer   string `json:"answer" example:"Paris"`
}

// pathIndex reads the {index} URL parameter. Returns false after
// writing a 400 when it is not an integer.
func pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "index must be an integer")
		return 0, false
	}
	return index, true
}

// ── Handlers ────────────────────────────────────────────────────────────────

// addQuestion appends a question. Empty question or answer is ignored.
// @Summary      Add a question
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        body  body      QuestionRequest  true  "Question to add"
// @Success      200   {object}  QuizResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /quiz/questions [post]
func (h *Handler) addQuestion(w http.ResponseWriter, r *http.Request) {
	var req QuestionRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	if h.handleError(w, h.trainer.CreateQuestion(r.Context(), req.Question, req.Answer)) {
		return
	}

	h.respondQuiz(w, http.StatusOK)
}

// updateQuestion replaces the question at index. An empty field or an
// index past the end is ignored.
// @Summary      Replace a question
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        index  path      int              true  "Question index"
// @Param        body   body      QuestionRequest  true  "Question and answer"
// @Success      200    {object}  QuizResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      500    {object}  ErrorResponse
// @Router       /quiz/questions/{index} [put]
func (h *Handler) updateQuestion(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	var req QuestionRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	if h.handleError(w, h.trainer.UpdateQuestion(r.Context(), index, req.Question, req.Answer)) {
		return
	}

	h.respondQuiz(w, http.StatusOK)
}

// deleteQuestion removes the question at index; later questions shift
// down by one.
// @Summary      Delete a question
// @Tags         Questions
// @Produce      json
// @Param        index  path      int  true  "Question index"
// @Success      200    {object}  QuizResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      500    {object}  ErrorResponse
// @Router       /quiz/questions/{index} [delete]
func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	if h.handleError(w, h.trainer.DeleteQuestion(r.Context(), index)) {
		return
	}

	h.respondQuiz(w, http.StatusOK)
}
