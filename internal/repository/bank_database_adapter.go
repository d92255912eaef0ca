package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// BankDatabaseAdapter implements domain.QuestionBankRepository on Oracle through sqlx.
// Rows are soft deleted.
type BankDatabaseAdapter struct {
	db *sqlx.DB
}

// NewBankDatabaseAdapter creates a new instance of BankDatabaseAdapter
func NewBankDatabaseAdapter(db *sqlx.DB) domain.QuestionBankRepository {
	return &BankDatabaseAdapter{db: db}
}

// Create implements domain.QuestionBankRepository
func (a *BankDatabaseAdapter) Create(ctx context.Context, bank *domain.QuestionBank) error {
	m := toModelBank(bank)
	query := `INSERT INTO question_banks
		(id, owner_id, title, questions, metadata, question_count, created_at, updated_at)
		VALUES (:1, :2, :3, :4, :5, :6, :7, :8)`

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		m.ID, m.OwnerID, m.Title, m.Questions, m.Metadata, m.QuestionCount, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create question bank: %w", err)
	}
	return nil
}

// GetByID implements domain.QuestionBankRepository. A missing bank is (nil, nil).
func (a *BankDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.QuestionBank, error) {
	var m models.QuestionBank
	query := `SELECT
		id "id",
		owner_id "owner_id",
		title "title",
		questions "questions",
		metadata "metadata",
		question_count "question_count",
		created_at "created_at",
		updated_at "updated_at",
		deleted_at "deleted_at"
	FROM question_banks
	WHERE id = :1
	AND deleted_at IS NULL`

	err := GetExecutor(ctx, a.db).GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question bank %s: %w", id, err)
	}
	return toDomainBank(&m), nil
}

// ListByOwner implements domain.QuestionBankRepository, newest first
func (a *BankDatabaseAdapter) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.QuestionBankSummary, error) {
	var rows []models.QuestionBankSummary
	query := `SELECT
		id "id",
		title "title",
		question_count "question_count",
		created_at "created_at",
		updated_at "updated_at"
	FROM question_banks
	WHERE owner_id = :1
	AND deleted_at IS NULL
	ORDER BY updated_at DESC, id DESC
	OFFSET :2 ROWS FETCH NEXT :3 ROWS ONLY`

	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, ownerID, offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list question banks: %w", err)
	}

	out := make([]*domain.QuestionBankSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, &domain.QuestionBankSummary{
			ID:            r.ID,
			Title:         r.Title,
			QuestionCount: r.QuestionCount,
			CreatedAt:     r.CreatedAt,
			UpdatedAt:     r.UpdatedAt,
		})
	}
	return out, nil
}

// Update implements domain.QuestionBankRepository
func (a *BankDatabaseAdapter) Update(ctx context.Context, bank *domain.QuestionBank) error {
	m := toModelBank(bank)
	query := `UPDATE question_banks SET
		title = :1,
		questions = :2,
		metadata = :3,
		question_count = :4,
		updated_at = :5
	WHERE id = :6 AND deleted_at IS NULL`

	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		m.Title, m.Questions, m.Metadata, m.QuestionCount, m.UpdatedAt, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update question bank: %w", err)
	}
	return requireRow(result, bank.ID)
}

// Delete implements domain.QuestionBankRepository
func (a *BankDatabaseAdapter) Delete(ctx context.Context, id string) error {
	query := `UPDATE question_banks SET deleted_at = :1 WHERE id = :2 AND deleted_at IS NULL`

	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete question bank: %w", err)
	}
	return requireRow(result, id)
}

// Ping implements domain.QuestionBankRepository
func (a *BankDatabaseAdapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func requireRow(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return domain.NewBankNotFoundError(id)
	}
	return nil
}

func toModelBank(b *domain.QuestionBank) *models.QuestionBank {
	return &models.QuestionBank{
		ID:            b.ID,
		OwnerID:       b.OwnerID,
		Title:         b.Title,
		Questions:     models.QuestionList(b.Questions),
		Metadata:      models.StringMap(b.Metadata),
		QuestionCount: len(b.Questions),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toDomainBank(m *models.QuestionBank) *domain.QuestionBank {
	return &domain.QuestionBank{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Title:     m.Title,
		Questions: []*domain.Question(m.Questions),
		Metadata:  map[string]string(m.Metadata),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
