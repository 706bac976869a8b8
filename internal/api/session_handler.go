package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	practicesession "github.com/quizdrill/backend/internal/domain/practice_session"
	"github.com/quizdrill/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSessionRequest struct {
	MaxQuestions *int `json:"max_questions,omitempty" example:"10"`
	Shuffle      bool `json:"shuffle" example:"false"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer" example:"Paris"`
}

type SessionResponse struct {
	ID           string `json:"id" example:"x9y8z7w6v5u4t3s2"`
	Prompt       string `json:"prompt,omitempty" example:"Capital of France?"`
	Complete     bool   `json:"complete" example:"false"`
	Attempts     int    `json:"attempts" example:"3"`
	Correct      int    `json:"correct" example:"2"`
	Score        int    `json:"score" example:"67"`
	Remaining    int    `json:"remaining" example:"1"`
	LastFeedback string `json:"last_feedback" example:"incorrect"`
}

func sessionResponse(v service.SessionView) SessionResponse {
	return SessionResponse{
		ID:           v.ID,
		Prompt:       v.Prompt,
		Complete:     v.Complete,
		Attempts:     v.Attempts,
		Correct:      v.Correct,
		Score:        v.Score,
		Remaining:    v.Remaining,
		LastFeedback: string(v.LastFeedback),
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createSession starts a drill over the current questions. With no
// questions the session is returned already complete.
// @Summary      Start a drill session
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        body  body      CreateSessionRequest  false  "Session options"
// @Success      201   {object}  SessionResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /sessions [post]
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	config := practicesession.DefaultConfig()
	if req.MaxQuestions != nil && *req.MaxQuestions > 0 {
		config.MaxQuestions = req.MaxQuestions
	}
	config.Shuffle = req.Shuffle

	view := h.trainer.StartSession(config)
	respondJSON(w, http.StatusCreated, sessionResponse(view))
}

// getSession returns the current prompt and counters.
// @Summary      Get a drill session
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /sessions/{sessionID} [get]
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.trainer.Session(chi.URLParam(r, "sessionID"))
	if h.handleError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse(view))
}

// submitAnswer answers the current prompt of a session.
// @Summary      Answer the current prompt
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string               true  "Session ID"
// @Param        body       body      SubmitAnswerRequest  true  "Answer"
// @Success      200        {object}  SessionResponse
// @Failure      404        {object}  ErrorResponse
// @Failure      409        {object}  ErrorResponse  "session already complete"
// @Router       /sessions/{sessionID}/answers [post]
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req SubmitAnswerRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	view, err := h.trainer.SubmitAnswer(chi.URLParam(r, "sessionID"), req.Answer)
	if h.handleError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse(view))
}

// endSession discards a session.
// @Summary      End a drill session
// @Tags         Sessions
// @Param        sessionID  path  string  true  "Session ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /sessions/{sessionID} [delete]
func (h *Handler) endSession(w http.ResponseWriter, r *http.Request) {
	if h.handleError(w, h.trainer.EndSession(chi.URLParam(r, "sessionID"))) {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
