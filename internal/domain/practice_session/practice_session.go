package practicesession

import (
	"errors"
	"math"
	"math/rand"
	"strings"

	"github.com/quizdrill/backend/internal/domain/questionbank"
	"github.com/quizdrill/backend/internal/id"
)

var ErrSessionComplete = errors.New("session already complete")

// Feedback describes the outcome of the most recent answer.
type Feedback string

const (
	FeedbackNone      Feedback = "none"
	FeedbackCorrect   Feedback = "correct"
	FeedbackIncorrect Feedback = "incorrect"
)

// PracticeSession is a drill over a private copy of the bank's questions.
// A wrongly answered question goes to the back of the queue; the session
// is complete once every question has been answered correctly.
type PracticeSession struct {
	ID       string
	queue    []questionbank.Question
	attempts int
	correct  int
	feedback Feedback
}

// New starts a session over all questions in bank order.
func New(questions []questionbank.Question) *PracticeSession {
	return NewWithConfig(questions, DefaultConfig())
}

// NewWithConfig starts a session with the given configuration. The
// questions are always copied, never aliased.
func NewWithConfig(questions []questionbank.Question, config SessionConfig) *PracticeSession {
	queue := make([]questionbank.Question, len(questions))
	copy(queue, questions)

	if config.Shuffle {
		rand.Shuffle(len(queue), func(i, j int) {
			queue[i], queue[j] = queue[j], queue[i]
		})
	}

	if config.MaxQuestions != nil && *config.MaxQuestions > 0 && *config.MaxQuestions < len(queue) {
		queue = queue[:*config.MaxQuestions]
	}

	return &PracticeSession{
		ID:       id.New(),
		queue:    queue,
		feedback: FeedbackNone,
	}
}

// Current returns the question to answer next, or false once the
// session is complete.
func (s *PracticeSession) Current() (questionbank.Question, bool) {
	if len(s.queue) == 0 {
		return questionbank.Question{}, false
	}
	return s.queue[0], true
}

// Submit checks raw against the current question. Leading/trailing
// whitespace and letter case are ignored; nothing else is.
func (s *PracticeSession) Submit(raw string) (Feedback, error) {
	current, ok := s.Current()
	if !ok {
		return FeedbackNone, ErrSessionComplete
	}

	s.attempts++
	s.queue = s.queue[1:]

	if Matches(raw, current.Answer) {
		s.correct++
		s.feedback = FeedbackCorrect
	} else {
		s.queue = append(s.queue, current)
		s.feedback = FeedbackIncorrect
	}

	return s.feedback, nil
}

// Matches reports whether raw input equals a stored (lower-cased) answer.
func Matches(raw, answer string) bool {
	return strings.ToLower(strings.TrimSpace(raw)) == answer
}

// Score is the percentage of correct attempts, rounded; 0 before any attempt.
func (s *PracticeSession) Score() int {
	if s.attempts == 0 {
		return 0
	}
	return int(math.Round(float64(s.correct) / float64(s.attempts) * 100))
}

func (s *PracticeSession) Complete() bool {
	return len(s.queue) == 0
}

func (s *PracticeSession) Remaining() int {
	return len(s.queue)
}

func (s *PracticeSession) Attempts() int {
	return s.attempts
}

func (s *PracticeSession) Correct() int {
	return s.correct
}

func (s *PracticeSession) LastFeedback() Feedback {
	return s.feedback
}

// Queue returns a copy of the questions still to be answered, front first.
func (s *PracticeSession) Queue() []questionbank.Question {
	out := make([]questionbank.Question, len(s.queue))
	copy(out, s.queue)
	return out
}
