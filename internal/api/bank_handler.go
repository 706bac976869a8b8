package api

import (
	"net/http"

	"github.com/quizdrill/backend/internal/domain/questionbank"
)

// ── Request / Response types ────────────────────────────────────────────────

type QuestionResponse struct {
	Index    int    `json:"index" example:"0"`
	Question string `json:"question" example:"Capital of France?"`
	Answer   string `json:"answer" example:"paris"`
}

type QuizResponse struct {
	Title     string             `json:"title" example:"Capitals"`
	Questions []QuestionResponse `json:"questions"`
}

type UpdateTitleRequest struct {
	Title string `json:"title" example:"Capitals"`
}

func quizResponse(title string, questions []questionbank.Question) QuizResponse {
	resp := QuizResponse{
		Title:     title,
		Questions: make([]QuestionResponse, len(questions)),
	}
	for i, q := range questions {
		resp.Questions[i] = QuestionResponse{
			Index:    i,
			Question: q.Question,
			Answer:   q.Answer,
		}
	}
	return resp
}

// respondQuiz writes the current bank. Mutating endpoints answer with it
// too, so a rejected (no-op) change is visible as an unchanged bank.
func (h *Handler) respondQuiz(w http.ResponseWriter, status int) {
	title, questions := h.trainer.Snapshot()
	respondJSON(w, status, quizResponse(title, questions))
}

// ── Handlers ────────────────────────────────────────────────────────────────

// getQuiz returns the quiz title and every question in order.
// @Summary      Get the quiz
// @Tags         Quiz
// @Produce      json
// @Success      200  {object}  QuizResponse
// @Router       /quiz [get]
func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	h.respondQuiz(w, http.StatusOK)
}

// updateTitle renames the quiz. A blank title is ignored.
// @Summary      Rename the quiz
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        body  body      UpdateTitleRequest  true  "New title"
// @Success      200   {object}  QuizResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /quiz/title [put]
func (h *Handler) updateTitle(w http.ResponseWriter, r *http.Request) {
	var req UpdateTitleRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	if h.handleError(w, h.trainer.SetTitle(r.Context(), req.Title)) {
		return
	}

	h.respondQuiz(w, http.StatusOK)
}
