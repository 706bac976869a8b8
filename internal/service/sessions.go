package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	practicesession "github.com/quizdrill/backend/internal/domain/practice_session"
)

// SessionView is what a caller needs to render a session: the current
// prompt (never its answer), the counters and whether the drill is over.
type SessionView struct {
	ID           string
	Prompt       string
	Complete     bool
	Attempts     int
	Correct      int
	Score        int
	Remaining    int
	LastFeedback practicesession.Feedback
}

// trackedSession pairs a session with the last time a caller touched it.
type trackedSession struct {
	session  *practicesession.PracticeSession
	lastSeen time.Time
}

func viewOf(s *practicesession.PracticeSession) SessionView {
	v := SessionView{
		ID:           s.ID,
		Complete:     s.Complete(),
		Attempts:     s.Attempts(),
		Correct:      s.Correct(),
		Score:        s.Score(),
		Remaining:    s.Remaining(),
		LastFeedback: s.LastFeedback(),
	}
	if current, ok := s.Current(); ok {
		v.Prompt = current.Question
	}
	return v
}

// StartSession starts a drill over a snapshot of the current bank. An
// empty bank yields a session that is already complete.
func (t *Trainer) StartSession(config practicesession.SessionConfig) SessionView {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.sweepSessions(now)

	_, questions := t.bank.Snapshot()
	session := practicesession.NewWithConfig(questions, config)
	t.sessions[session.ID] = &trackedSession{session: session, lastSeen: now}

	t.metrics.SessionsStarted.Inc()
	if session.Complete() {
		t.metrics.SessionsCompleted.Inc()
	}
	t.logger.Info("session started",
		zap.String("session_id", session.ID),
		zap.Int("questions", session.Remaining()),
	)
	return viewOf(session)
}

func (t *Trainer) Session(id string) (SessionView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	session, ok := t.touch(id)
	if !ok {
		return SessionView{}, ErrSessionNotFound
	}
	return viewOf(session), nil
}

// SubmitAnswer feeds raw input to the session's current question.
func (t *Trainer) SubmitAnswer(id, raw string) (SessionView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	session, ok := t.touch(id)
	if !ok {
		return SessionView{}, ErrSessionNotFound
	}

	feedback, err := session.Submit(raw)
	if err != nil {
		return viewOf(session), fmt.Errorf("submit answer: %w", err)
	}

	t.metrics.Answers.WithLabelValues(string(feedback)).Inc()
	if session.Complete() {
		t.metrics.SessionsCompleted.Inc()
		t.logger.Info("session complete",
			zap.String("session_id", id),
			zap.Int("attempts", session.Attempts()),
			zap.Int("score", session.Score()),
		)
	}
	return viewOf(session), nil
}

// EndSession discards a session, finished or not.
func (t *Trainer) EndSession(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.touch(id); !ok {
		return ErrSessionNotFound
	}
	delete(t.sessions, id)
	return nil
}

// SessionCount reports how many sessions are held, expired ones included
// until the next sweep.
func (t *Trainer) SessionCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}

// touch returns a live session and refreshes its idle timer. An idle
// session is dropped on the spot. Caller holds t.mu.
func (t *Trainer) touch(id string) (*practicesession.PracticeSession, bool) {
	now := t.now()
	t.sweepSessions(now)

	ts, ok := t.sessions[id]
	if !ok {
		return nil, false
	}
	if now.Sub(ts.lastSeen) > t.sessionTTL {
		delete(t.sessions, id)
		return nil, false
	}
	ts.lastSeen = now
	return ts.session, true
}

// sweepSessions drops idle sessions, at most once per TTL. Caller holds t.mu.
func (t *Trainer) sweepSessions(now time.Time) {
	if now.Sub(t.lastSweep) <= t.sessionTTL {
		return
	}
	dropped := 0
	for id, ts := range t.sessions {
		if now.Sub(ts.lastSeen) > t.sessionTTL {
			delete(t.sessions, id)
			dropped++
		}
	}
	t.lastSweep = now
	if dropped > 0 {
		t.logger.Debug("idle sessions dropped", zap.Int("count", dropped))
	}
}
