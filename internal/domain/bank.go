package domain

import (
	"context"
	"time"
)

// QuestionBank is an owned, ordered collection of questions
type QuestionBank struct {
	ID        string            `json:"id"`
	OwnerID   string            `json:"owner_id"`
	Title     string            `json:"title"`
	Questions []*Question       `json:"questions"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewQuestionBank creates a bank with timestamps set
func NewQuestionBank(ownerID, title string, questions []*Question) *QuestionBank {
	now := time.Now()
	return &QuestionBank{
		OwnerID:   ownerID,
		Title:     title,
		Questions: questions,
		Metadata:  map[string]string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the bank
func (b *QuestionBank) Validate() error {
	if b.Title == "" {
		return NewInvalidInputError("title is required")
	}
	for _, q := range b.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// QuestionBankSummary is a bank without its questions, used in listings
type QuestionBankSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// QuestionBankRepository is the storage port for banks.
// GetByID returns (nil, nil) when the bank does not exist.
type QuestionBankRepository interface {
	Create(ctx context.Context, bank *QuestionBank) error
	GetByID(ctx context.Context, id string) (*QuestionBank, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*QuestionBankSummary, error)
	Update(ctx context.Context, bank *QuestionBank) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// TransactionManager runs fn inside a transaction carried by ctx
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
