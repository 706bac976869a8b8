// Package codec converts a question bank to and from the JSON document
// used both as the store payload and as the export/import file:
//
//	{"title": "...", "questions": [{"question": "...", "answer": "..."}]}
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/quizdrill/backend/internal/domain/questionbank"
)

// ImportedTitle is used when a decoded document carries no title.
const ImportedTitle = "Imported quiz"

// ExportFilename is the suggested name for an exported document.
const ExportFilename = "quiz.json"

var ErrMalformedDocument = errors.New("malformed document")

type DocumentQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Document struct {
	Title     string             `json:"title"`
	Questions []DocumentQuestion `json:"questions"`
}

// Encode builds a document from the bank's content. Answers are written
// exactly as stored.
func Encode(title string, questions []questionbank.Question) Document {
	doc := Document{
		Title:     title,
		Questions: make([]DocumentQuestion, len(questions)),
	}
	for i, q := range questions {
		doc.Questions[i] = DocumentQuestion{
			Question: q.Question,
			Answer:   q.Answer,
		}
	}
	return doc
}

// Marshal renders the document as indented JSON.
func Marshal(doc Document) ([]byte, error) {
	if doc.Questions == nil {
		doc.Questions = []DocumentQuestion{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// wireQuestion uses pointers so missing fields can be told apart from
// empty strings.
type wireQuestion struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
}

type wireDocument struct {
	Title     *string          `json:"title"`
	Questions *[]*wireQuestion `json:"questions"`
}

// Decode parses a document. Answers are lower-cased again since imported
// files are not trusted to be normalized. Any shape mismatch returns an
// error wrapping ErrMalformedDocument.
func Decode(data []byte) (string, []questionbank.Question, error) {
	var doc wireDocument
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("%w: trailing data after document", ErrMalformedDocument)
	}

	if doc.Questions == nil || *doc.Questions == nil {
		return "", nil, fmt.Errorf("%w: missing questions", ErrMalformedDocument)
	}

	questions := make([]questionbank.Question, 0, len(*doc.Questions))
	for i, q := range *doc.Questions {
		if q == nil || q.Question == nil || q.Answer == nil {
			return "", nil, fmt.Errorf("%w: question %d must have question and answer", ErrMalformedDocument, i)
		}
		questions = append(questions, questionbank.Question{
			Question: *q.Question,
			Answer:   strings.ToLower(*q.Answer),
		})
	}

	title := ImportedTitle
	if doc.Title != nil {
		title = *doc.Title
	}

	return title, questions, nil
}
