package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/quizdrill/backend/internal/codec"
	practicesession "github.com/quizdrill/backend/internal/domain/practice_session"
	"github.com/quizdrill/backend/internal/domain/questionbank"
	"github.com/quizdrill/backend/internal/metrics"
	"github.com/quizdrill/backend/internal/service"
	"github.com/quizdrill/backend/internal/store"
)

const key = "quizData"

// failingStore rejects every write.
type failingStore struct {
	*store.MemoryStore
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func newTrainer(t *testing.T, s store.Store) *service.Trainer {
	t.Helper()
	tr := service.NewTrainer(s, key, zap.NewNop(), metrics.New(nil))
	if err := tr.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return tr
}

func storedDocument(t *testing.T, s store.Store) (string, []questionbank.Question) {
	t.Helper()
	raw, err := s.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("expected stored document: %v", err)
	}
	title, questions, err := codec.Decode([]byte(raw))
	if err != nil {
		t.Fatalf("stored document does not decode: %v", err)
	}
	return title, questions
}

func TestLoad_EmptyStore(t *testing.T) {
	tr := newTrainer(t, store.NewMemory())

	title, questions := tr.Snapshot()
	if title != questionbank.DefaultTitle {
		t.Errorf("expected title %q, got %q", questionbank.DefaultTitle, title)
	}
	if len(questions) != 0 {
		t.Errorf("expected empty bank, got %d questions", len(questions))
	}
}

func TestLoad_RestoresStoredDocument(t *testing.T) {
	s := store.NewMemory()
	s.Set(context.Background(), key, `{"title":"Capitals","questions":[{"question":"France?","answer":"Paris"}]}`)

	tr := newTrainer(t, s)

	title, questions := tr.Snapshot()
	if title != "Capitals" {
		t.Errorf("expected title %q, got %q", "Capitals", title)
	}
	if len(questions) != 1 || questions[0].Answer != "paris" {
		t.Errorf("unexpected restored questions: %+v", questions)
	}
}

func TestLoad_MalformedStoredDocument(t *testing.T) {
	s := store.NewMemory()
	s.Set(context.Background(), key, `{"title":"broken"}`)

	tr := service.NewTrainer(s, key, zap.NewNop(), metrics.New(nil))
	err := tr.Load(context.Background())
	if !errors.Is(err, codec.ErrMalformedDocument) {
		t.Errorf("expected ErrMalformedDocument, got %v", err)
	}
}

func TestMutations_PersistEveryChange(t *testing.T) {
	s := store.NewMemory()
	tr := newTrainer(t, s)
	ctx := context.Background()

	steps := []struct {
		name string
		run  func() error
		want []questionbank.Question
	}{
		{"create", func() error { return tr.CreateQuestion(ctx, "2+2", "4") },
			[]questionbank.Question{{Question: "2+2", Answer: "4"}}},
		{"create second", func() error { return tr.CreateQuestion(ctx, "Capital of France?", "PARIS") },
			[]questionbank.Question{{Question: "2+2", Answer: "4"}, {Question: "Capital of France?", Answer: "paris"}}},
		{"update", func() error { return tr.UpdateQuestion(ctx, 0, "3+3", "6") },
			[]questionbank.Question{{Question: "3+3", Answer: "6"}, {Question: "Capital of France?", Answer: "paris"}}},
		{"delete", func() error { return tr.DeleteQuestion(ctx, 0) },
			[]questionbank.Question{{Question: "Capital of France?", Answer: "paris"}}},
	}

	for i, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("%s: unexpected error: %v", step.name, err)
		}
		if s.Writes() != i+1 {
			t.Errorf("%s: expected %d store writes, got %d", step.name, i+1, s.Writes())
		}

		_, stored := storedDocument(t, s)
		_, current := tr.Snapshot()
		for _, got := range [][]questionbank.Question{stored, current} {
			if len(got) != len(step.want) {
				t.Fatalf("%s: expected %d questions, got %d", step.name, len(step.want), len(got))
			}
			for j := range got {
				if got[j] != step.want[j] {
					t.Errorf("%s: question %d: expected %+v, got %+v", step.name, j, step.want[j], got[j])
				}
			}
		}
	}

	if err := tr.SetTitle(ctx, "Mixed"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	if title, _ := storedDocument(t, s); title != "Mixed" {
		t.Errorf("expected stored title %q, got %q", "Mixed", title)
	}
}

func TestMutations_RejectedChangesAreSilentNoOps(t *testing.T) {
	s := store.NewMemory()
	tr := newTrainer(t, s)
	ctx := context.Background()

	if err := tr.CreateQuestion(ctx, "Q", "a"); err != nil {
		t.Fatalf("create: %v", err)
	}
	writes := s.Writes()

	rejected := map[string]func() error{
		"empty question":  func() error { return tr.CreateQuestion(ctx, " ", "a") },
		"empty answer":    func() error { return tr.CreateQuestion(ctx, "Q", "") },
		"stale update":    func() error { return tr.UpdateQuestion(ctx, 3, "Q", "a") },
		"empty update":    func() error { return tr.UpdateQuestion(ctx, 0, "", "a") },
		"stale delete":    func() error { return tr.DeleteQuestion(ctx, 1) },
		"negative delete": func() error { return tr.DeleteQuestion(ctx, -1) },
		"blank title":     func() error { return tr.SetTitle(ctx, "") },
	}

	for name, run := range rejected {
		if err := run(); err != nil {
			t.Errorf("%s: expected no error, got %v", name, err)
		}
	}

	if s.Writes() != writes {
		t.Errorf("expected no store writes for rejected changes, got %d extra", s.Writes()-writes)
	}
	if _, questions := tr.Snapshot(); len(questions) != 1 || questions[0].Question != "Q" {
		t.Errorf("expected bank unchanged, got %+v", questions)
	}
}

func TestMutations_FailedWriteKeepsBank(t *testing.T) {
	tr := newTrainer(t, failingStore{store.NewMemory()})

	if err := tr.CreateQuestion(context.Background(), "Q", "a"); err == nil {
		t.Fatal("expected persistence error")
	}
	if _, questions := tr.Snapshot(); len(questions) != 0 {
		t.Errorf("expected bank unchanged after failed write, got %+v", questions)
	}
}

func TestImport_ReplacesBank(t *testing.T) {
	s := store.NewMemory()
	tr := newTrainer(t, s)
	ctx := context.Background()
	tr.CreateQuestion(ctx, "old", "x")

	err := tr.Import(ctx, []byte(`{"questions":[{"question":"Hund","answer":"DOG"},{"question":"Katze","answer":"cat"}]}`))
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	title, questions := tr.Snapshot()
	if title != codec.ImportedTitle {
		t.Errorf("expected title %q, got %q", codec.ImportedTitle, title)
	}
	if len(questions) != 2 || questions[0] != (questionbank.Question{Question: "Hund", Answer: "dog"}) {
		t.Errorf("unexpected imported questions: %+v", questions)
	}

	storedTitle, stored := storedDocument(t, s)
	if storedTitle != codec.ImportedTitle || len(stored) != 2 {
		t.Errorf("expected import to be persisted, got %q %+v", storedTitle, stored)
	}
}

func TestImport_MissingQuestionsLeavesBankUnchanged(t *testing.T) {
	s := store.NewMemory()
	tr := newTrainer(t, s)
	ctx := context.Background()
	tr.SetTitle(ctx, "Keep me")
	tr.CreateQuestion(ctx, "Q1", "a1")
	writes := s.Writes()

	err := tr.Import(ctx, []byte(`{"title":"Evil"}`))
	if !errors.Is(err, codec.ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got %v", err)
	}

	title, questions := tr.Snapshot()
	if title != "Keep me" || len(questions) != 1 || questions[0].Question != "Q1" {
		t.Errorf("expected bank unchanged, got %q %+v", title, questions)
	}
	if s.Writes() != writes {
		t.Error("expected no store write for a rejected import")
	}
}

func TestExport_RoundTripsThroughImport(t *testing.T) {
	ctx := context.Background()
	src := newTrainer(t, store.NewMemory())
	src.SetTitle(ctx, "Vocabulary")
	src.CreateQuestion(ctx, "kot", "Cat")
	src.CreateQuestion(ctx, "pies", "dog")

	filename, payload, err := src.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filename != "quiz.json" {
		t.Errorf("expected filename quiz.json, got %q", filename)
	}
	if !strings.Contains(string(payload), "\n  ") {
		t.Error("expected pretty-printed payload")
	}

	dst := newTrainer(t, store.NewMemory())
	if err := dst.Import(ctx, payload); err != nil {
		t.Fatalf("import: %v", err)
	}

	srcTitle, srcQuestions := src.Snapshot()
	dstTitle, dstQuestions := dst.Snapshot()
	if srcTitle != dstTitle || len(srcQuestions) != len(dstQuestions) {
		t.Fatalf("round trip mismatch: %q %+v vs %q %+v", srcTitle, srcQuestions, dstTitle, dstQuestions)
	}
	for i := range srcQuestions {
		if srcQuestions[i] != dstQuestions[i] {
			t.Errorf("question %d: expected %+v, got %+v", i, srcQuestions[i], dstQuestions[i])
		}
	}
}

func TestSession_FullDrill(t *testing.T) {
	ctx := context.Background()
	tr := newTrainer(t, store.NewMemory())
	tr.CreateQuestion(ctx, "Q1", "a1")
	tr.CreateQuestion(ctx, "Q2", "a2")

	view := tr.StartSession(practicesession.DefaultConfig())
	if view.Prompt != "Q1" || view.Complete || view.Remaining != 2 {
		t.Fatalf("unexpected initial view: %+v", view)
	}

	view, err := tr.SubmitAnswer(view.ID, "wrong")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if view.LastFeedback != practicesession.FeedbackIncorrect || view.Prompt != "Q2" {
		t.Errorf("expected incorrect feedback and Q2 next, got %+v", view)
	}

	tr.SubmitAnswer(view.ID, "A2")
	view, _ = tr.SubmitAnswer(view.ID, " a1 ")

	if !view.Complete || view.Attempts != 3 || view.Correct != 2 || view.Score != 67 {
		t.Errorf("unexpected final view: %+v", view)
	}
	if view.Prompt != "" {
		t.Errorf("expected no prompt after completion, got %q", view.Prompt)
	}

	if _, err := tr.SubmitAnswer(view.ID, "a1"); !errors.Is(err, practicesession.ErrSessionComplete) {
		t.Errorf("expected ErrSessionComplete, got %v", err)
	}
}

func TestSession_BankEditsDoNotReachRunningSession(t *testing.T) {
	ctx := context.Background()
	tr := newTrainer(t, store.NewMemory())
	tr.CreateQuestion(ctx, "Q1", "a1")

	view := tr.StartSession(practicesession.DefaultConfig())
	tr.DeleteQuestion(ctx, 0)

	got, err := tr.Session(view.ID)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if got.Prompt != "Q1" || got.Remaining != 1 {
		t.Errorf("expected session to keep its own queue, got %+v", got)
	}
}

func TestSession_EmptyBankIsComplete(t *testing.T) {
	tr := newTrainer(t, store.NewMemory())

	view := tr.StartSession(practicesession.DefaultConfig())
	if !view.Complete || view.Score != 0 || view.Prompt != "" {
		t.Errorf("expected completed empty session with score 0, got %+v", view)
	}
}

func TestSession_NotFoundAndEnd(t *testing.T) {
	tr := newTrainer(t, store.NewMemory())

	if _, err := tr.Session("missing"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := tr.SubmitAnswer("missing", "x"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}

	view := tr.StartSession(practicesession.DefaultConfig())
	if err := tr.EndSession(view.ID); err != nil {
		t.Fatalf("end: %v", err)
	}
	if _, err := tr.Session(view.ID); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("expected ended session to be gone, got %v", err)
	}
	if err := tr.EndSession(view.ID); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound on second end, got %v", err)
	}
}

func TestSession_IdleSessionsAreDropped(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	tr := service.NewTrainer(store.NewMemory(), key, zap.NewNop(), metrics.New(nil),
		service.WithClock(clock),
		service.WithSessionTTL(10*time.Minute),
	)

	ids := make([]string, 1000)
	for i := range ids {
		ids[i] = tr.StartSession(practicesession.DefaultConfig()).ID
	}
	if tr.SessionCount() != 1000 {
		t.Fatalf("expected 1000 sessions, got %d", tr.SessionCount())
	}

	now = now.Add(5 * time.Minute)
	if _, err := tr.Session(ids[0]); err != nil {
		t.Fatalf("expected active session to survive, got %v", err)
	}

	now = now.Add(9 * time.Minute)
	if _, err := tr.Session(ids[1]); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("expected idle session to be dropped, got %v", err)
	}
	if _, err := tr.Session(ids[0]); err != nil {
		t.Errorf("expected recently touched session to survive, got %v", err)
	}

	tr.StartSession(practicesession.DefaultConfig())
	if got := tr.SessionCount(); got != 2 {
		t.Errorf("expected only the touched and the new session, got %d", got)
	}
}

func TestSession_SubmitKeepsSessionAlive(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tr := service.NewTrainer(store.NewMemory(), key, zap.NewNop(), metrics.New(nil),
		service.WithClock(func() time.Time { return now }),
		service.WithSessionTTL(time.Minute),
	)
	ctx := context.Background()
	tr.CreateQuestion(ctx, "Q1", "a1")
	tr.CreateQuestion(ctx, "Q2", "a2")

	view := tr.StartSession(practicesession.DefaultConfig())
	for _, answer := range []string{"wrong", "a2", "a1"} {
		now = now.Add(50 * time.Second)
		var err error
		if view, err = tr.SubmitAnswer(view.ID, answer); err != nil {
			t.Fatalf("submit %q: %v", answer, err)
		}
	}
	if !view.Complete || view.Score != 67 {
		t.Errorf("unexpected final view: %+v", view)
	}
}
