// internal/service/trainer.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/quizdrill/backend/internal/codec"
	"github.com/quizdrill/backend/internal/domain/questionbank"
	"github.com/quizdrill/backend/internal/metrics"
	"github.com/quizdrill/backend/internal/store"
)

var ErrSessionNotFound = errors.New("session not found")

// DefaultSessionTTL is how long a session may sit untouched before it is
// dropped.
const DefaultSessionTTL = 30 * time.Minute

// Option configures a Trainer.
type Option func(*Trainer)

// WithSessionTTL sets the idle time after which a session is dropped.
// Non-positive values keep the default.
func WithSessionTTL(ttl time.Duration) Option {
	return func(t *Trainer) {
		if ttl > 0 {
			t.sessionTTL = ttl
		}
	}
}

// WithClock replaces time.Now for session expiry.
func WithClock(now func() time.Time) Option {
	return func(t *Trainer) {
		t.now = now
	}
}

// Trainer owns the question bank and the running drill sessions.
// Every bank mutation is applied to a copy, written to the store, and
// only then made visible; a failed write leaves the bank as it was.
type Trainer struct {
	store   store.Store
	key     string
	logger  *zap.Logger
	metrics *metrics.Metrics

	sessionTTL time.Duration
	now        func() time.Time

	mu        sync.Mutex
	bank      *questionbank.QuestionBank
	sessions  map[string]*trackedSession
	lastSweep time.Time
}

// NewTrainer creates a Trainer with an empty bank. Call Load to restore
// the stored one.
func NewTrainer(s store.Store, key string, logger *zap.Logger, m *metrics.Metrics, opts ...Option) *Trainer {
	t := &Trainer{
		store:      s,
		key:        key,
		logger:     logger,
		metrics:    m,
		sessionTTL: DefaultSessionTTL,
		now:        time.Now,
		bank:       questionbank.New(),
		sessions:   make(map[string]*trackedSession),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.lastSweep = t.now()
	return t
}

// Load restores the bank from the store. A missing key leaves the bank
// empty; a stored document that cannot be decoded is an error.
func (t *Trainer) Load(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	raw, err := t.store.Get(ctx, t.key)
	if errors.Is(err, store.ErrNotFound) {
		t.bank = questionbank.New()
		t.logger.Info("no stored quiz, starting empty", zap.String("key", t.key))
		return nil
	}
	if err != nil {
		return fmt.Errorf("load quiz: %w", err)
	}

	title, questions, err := codec.Decode([]byte(raw))
	if err != nil {
		return fmt.Errorf("restore quiz: %w", err)
	}

	t.bank = questionbank.NewWithQuestions(title, questions)
	t.logger.Info("quiz restored",
		zap.String("title", title),
		zap.Int("questions", len(questions)),
	)
	return nil
}

func (t *Trainer) Snapshot() (string, []questionbank.Question) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bank.Snapshot()
}

func (t *Trainer) SetTitle(ctx context.Context, title string) error {
	return t.mutate(ctx, "set_title", func(qb *questionbank.QuestionBank) error {
		return qb.SetTitle(title)
	})
}

func (t *Trainer) CreateQuestion(ctx context.Context, question, answer string) error {
	return t.mutate(ctx, "create", func(qb *questionbank.QuestionBank) error {
		return qb.Create(question, answer)
	})
}

func (t *Trainer) UpdateQuestion(ctx context.Context, index int, question, answer string) error {
	return t.mutate(ctx, "update", func(qb *questionbank.QuestionBank) error {
		return qb.Update(index, question, answer)
	})
}

func (t *Trainer) DeleteQuestion(ctx context.Context, index int) error {
	return t.mutate(ctx, "delete", func(qb *questionbank.QuestionBank) error {
		return qb.Delete(index)
	})
}

// Import replaces the whole bank with the decoded document. On a decode
// error nothing changes and the error wraps codec.ErrMalformedDocument.
func (t *Trainer) Import(ctx context.Context, raw []byte) error {
	title, questions, err := codec.Decode(raw)
	if err != nil {
		t.logger.Warn("import rejected", zap.Error(err))
		return fmt.Errorf("import quiz: %w", err)
	}

	return t.mutate(ctx, "import", func(qb *questionbank.QuestionBank) error {
		qb.ReplaceAll(title, questions)
		return nil
	})
}

// Export returns the suggested filename and the pretty-printed document.
func (t *Trainer) Export() (string, []byte, error) {
	title, questions := t.Snapshot()
	payload, err := codec.Marshal(codec.Encode(title, questions))
	if err != nil {
		return "", nil, fmt.Errorf("export quiz: %w", err)
	}
	return codec.ExportFilename, payload, nil
}

// mutate applies fn to a copy of the bank and persists it. Empty fields
// and stale indices are not errors for the caller: the change is dropped.
func (t *Trainer) mutate(ctx context.Context, op string, fn func(*questionbank.QuestionBank) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.bank.Clone()
	if err := fn(next); err != nil {
		if errors.Is(err, questionbank.ErrEmptyField) || errors.Is(err, questionbank.ErrIndexOutOfRange) {
			t.logger.Debug("bank change ignored", zap.String("op", op), zap.Error(err))
			return nil
		}
		return err
	}

	if err := t.persist(ctx, next); err != nil {
		t.logger.Error("failed to persist quiz", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("persist quiz: %w", err)
	}

	t.bank = next
	t.logger.Debug("bank updated", zap.String("op", op), zap.Int("questions", next.Len()))
	return nil
}

func (t *Trainer) persist(ctx context.Context, qb *questionbank.QuestionBank) error {
	title, questions := qb.Snapshot()
	payload, err := codec.Marshal(codec.Encode(title, questions))
	if err != nil {
		t.metrics.StoreWrites.WithLabelValues("error").Inc()
		return err
	}
	if err := t.store.Set(ctx, t.key, string(payload)); err != nil {
		t.metrics.StoreWrites.WithLabelValues("error").Inc()
		return err
	}
	t.metrics.StoreWrites.WithLabelValues("ok").Inc()
	return nil
}
