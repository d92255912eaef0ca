package dto

import (
	"time"

	"quiz-forge/internal/domain"
)

// BankRequest is the body for creating or replacing a question bank
// @Description Question bank payload
type BankRequest struct {
	Title     string             `json:"title" validate:"required,max=200"`
	Questions []*domain.Question `json:"questions" validate:"max=1000"`
	Metadata  map[string]string  `json:"metadata,omitempty"`
}

// BankResponse is a full question bank
type BankResponse struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Questions []*domain.Question `json:"questions"`
	Metadata  map[string]string  `json:"metadata,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// NewBankResponse maps a bank to its response shape
func NewBankResponse(b *domain.QuestionBank) *BankResponse {
	return &BankResponse{
		ID:        b.ID,
		Title:     b.Title,
		Questions: b.Questions,
		Metadata:  b.Metadata,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// BankListResponse is one page of an owner's banks
type BankListResponse struct {
	Banks  []*domain.QuestionBankSummary `json:"banks"`
	Limit  int                           `json:"limit"`
	Offset int                           `json:"offset"`
}
