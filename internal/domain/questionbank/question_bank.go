package questionbank

import (
	"errors"
	"strings"
)

// DefaultTitle is the title of a bank that was never named.
const DefaultTitle = "New quiz"

var (
	ErrEmptyField      = errors.New("question and answer cannot be empty")
	ErrIndexOutOfRange = errors.New("question index out of range")
)

// Question is a single question/answer pair. Its position in the bank
// is its only identity.
type Question struct {
	Question string
	Answer   string // always lower-cased
}

type QuestionBank struct {
	Title     string
	Questions []Question
}

func New() *QuestionBank {
	return &QuestionBank{
		Title:     DefaultTitle,
		Questions: []Question{},
	}
}

// NewWithQuestions builds a bank from already normalized questions,
// e.g. the output of a decoded document.
func NewWithQuestions(title string, questions []Question) *QuestionBank {
	qb := New()
	qb.ReplaceAll(title, questions)
	return qb
}

func (qb *QuestionBank) Len() int {
	return len(qb.Questions)
}

func (qb *QuestionBank) Create(question, answer string) error {
	q, err := newQuestion(question, answer)
	if err != nil {
		return err
	}
	qb.Questions = append(qb.Questions, q)
	return nil
}

func (qb *QuestionBank) Update(index int, question, answer string) error {
	if !qb.inRange(index) {
		return ErrIndexOutOfRange
	}
	q, err := newQuestion(question, answer)
	if err != nil {
		return err
	}
	qb.Questions[index] = q
	return nil
}

// Delete removes the question at index; later questions shift down by one.
func (qb *QuestionBank) Delete(index int) error {
	if !qb.inRange(index) {
		return ErrIndexOutOfRange
	}
	qb.Questions = append(qb.Questions[:index], qb.Questions[index+1:]...)
	return nil
}

func (qb *QuestionBank) SetTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyField
	}
	qb.Title = title
	return nil
}

// ReplaceAll swaps title and questions in one step. The questions are
// copied so the caller keeps ownership of its slice.
func (qb *QuestionBank) ReplaceAll(title string, questions []Question) {
	qb.Title = title
	qb.Questions = copyQuestions(questions)
}

// Snapshot returns the title and a copy of the questions.
func (qb *QuestionBank) Snapshot() (string, []Question) {
	return qb.Title, copyQuestions(qb.Questions)
}

func (qb *QuestionBank) Clone() *QuestionBank {
	return &QuestionBank{
		Title:     qb.Title,
		Questions: copyQuestions(qb.Questions),
	}
}

func (qb *QuestionBank) inRange(index int) bool {
	return index >= 0 && index < len(qb.Questions)
}

func newQuestion(question, answer string) (Question, error) {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
		return Question{}, ErrEmptyField
	}
	return Question{
		Question: question,
		Answer:   strings.ToLower(answer),
	}, nil
}

func copyQuestions(questions []Question) []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}
