package practicesession

// SessionConfig holds optional constraints for a practice session.
type SessionConfig struct {
	MaxQuestions *int // nil = all questions from the bank
	Shuffle      bool // false = keep bank order
}

// DefaultConfig returns a config with no constraints: every question,
// in bank order.
func DefaultConfig() SessionConfig {
	return SessionConfig{
		MaxQuestions: nil,
		Shuffle:      false,
	}
}
