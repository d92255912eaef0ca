package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"quiz-forge/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupBankTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func testBank(now time.Time) *domain.QuestionBank {
	return &domain.QuestionBank{
		ID:      "01HZX3K4M5N6P7Q8R9S0T1V2W3",
		OwnerID: "user-1",
		Title:   "Biology",
		Questions: []*domain.Question{{
			ID: "q1", Type: domain.QuestionTypeMCQ, Prompt: "Which gas do plants absorb?",
			Options: []string{"Oxygen", "Carbon dioxide"}, Answer: "Carbon dioxide", Difficulty: 2,
		}},
		Metadata:  map[string]string{"source": "text_input"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

var bankColumns = []string{"id", "owner_id", "title", "questions", "metadata", "question_count", "created_at", "updated_at", "deleted_at"}

func TestBankDatabaseAdapter_Create(t *testing.T) {
	db, mock := setupBankTestDB(t)
	defer db.Close()
	repo := NewBankDatabaseAdapter(db)

	now := time.Now().Truncate(time.Second)
	bank := testBank(now)

	mock.ExpectExec(`INSERT INTO question_banks`).
		WithArgs(bank.ID, "user-1", "Biology", sqlmock.AnyArg(), `{"source":"text_input"}`, 1, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), bank))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBankDatabaseAdapter_GetByID(t *testing.T) {
	db, mock := setupBankTestDB(t)
	defer db.Close()
	repo := NewBankDatabaseAdapter(db)

	now := time.Now().Truncate(time.Second)
	questions := `[{"id":"q1","type":"mcq","prompt":"Which gas do plants absorb?","options":["Oxygen","Carbon dioxide"],"answer":"Carbon dioxide","quality_score":0.8,"difficulty":2,"source_chunk_id":"c0000-abcd","created_at":"2024-01-01T00:00:00Z"}]`
	rows := sqlmock.NewRows(bankColumns).
		AddRow("B1", "user-1", "Biology", questions, `{"source":"text_input"}`, 1, now, now, nil)

	mock.ExpectQuery(`(?s)SELECT.*FROM question_banks\s+WHERE id = :1\s+AND deleted_at IS NULL`).
		WithArgs("B1").
		WillReturnRows(rows)

	bank, err := repo.GetByID(context.Background(), "B1")
	require.NoError(t, err)
	require.NotNil(t, bank)
	assert.Equal(t, "user-1", bank.OwnerID)
	require.Len(t, bank.Questions, 1)
	assert.Equal(t, []string{"Oxygen", "Carbon dioxide"}, bank.Questions[0].Options)
	assert.Equal(t, 0.8, bank.Questions[0].QualityScore)
	assert.Equal(t, "text_input", bank.Metadata["source"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBankDatabaseAdapter_GetByID_NotFound(t *testing.T) {
	db, mock := setupBankTestDB(t)
	defer db.Close()
	repo := NewBankDatabaseAdapter(db)

	mock.ExpectQuery(`(?s)SELECT.*FROM question_banks`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	bank, err := repo.GetByID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, bank)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBankDatabaseAdapter_GetByID_NullColumns(t *testing.T) {
	db, mock := setupBankTestDB(t)
	defer db.Close()
	repo := NewBankDatabaseAdapter(db)

	now := time.Now()
	rows := sqlmock.NewRows(bankColumns).AddRow("B1", "user-1", "Empty", nil, nil, 0, now, now, nil)
	mock.ExpectQuery(`(?s)SELECT.*FROM question_banks`).WithArgs("B1").WillReturnRows(rows)

	bank, err := repo.GetByID(context.Background(), "B1")
	require.NoError(t, err)
	assert.NotNil(t, bank.Questions)
	assert.Empty(t, bank.Questions)
	assert.NotNil(t, bank.Metadata)
}

func TestBankDatabaseAdapter_ListByOwner(t *testing.T) {
	db, mock := setupBankTestDB(t)
	defer db.Close()
	repo := NewBankDatabaseAdapter(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "question_count", "created_at", "updated_at"}).
		AddRow("B2", "Chemistry", 4, now, now).
		AddRow("B1", "Biology", 10, now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery(`(?s)FROM question_banks\s+WHERE owner_id = :1.*OFFSET :2 ROWS FETCH NEXT :3 ROWS ONLY`).
		WithArgs("user-1", 0, 20).
		WillReturnRows(rows)

	got, err := repo.ListByOwner(context.Background(), "user-1", 20, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B2", got[0].ID)
	assert.Equal(t, 10, got[1].QuestionCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBankDatabaseAdapter_Update(t *testing.T) {
	db, mock := setupBankTestDB(t)
	defer db.Close()
	repo := NewBankDatabaseAdapter(db)

	now := time.Now().Truncate(time.Second)
	bank := testBank(now)

	mock.ExpectExec(`UPDATE question_banks SET`).
		WithArgs("Biology", sqlmock.AnyArg(), sqlmock.AnyArg(), 1, now, bank.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(context.Background(), bank))

	mock.ExpectExec(`UPDATE question_banks SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Update(context.Background(), bank)
	assert.ErrorIs(t, err, domain.ErrBankNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBankDatabaseAdapter_Delete(t *testing.T) {
	db, mock := setupBankTestDB(t)
	defer db.Close()
	repo := NewBankDatabaseAdapter(db)

	mock.ExpectExec(`UPDATE question_banks SET deleted_at = :1 WHERE id = :2`).
		WithArgs(sqlmock.AnyArg(), "B1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "B1"))

	mock.ExpectExec(`UPDATE question_banks SET deleted_at`).
		WithArgs(sqlmock.AnyArg(), "B1").
		WillReturnError(errors.New("ORA-03113"))
	assert.Error(t, repo.Delete(context.Background(), "B1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_CommitAndRollback(t *testing.T) {
	db, mock := setupBankTestDB(t)
	defer db.Close()
	tm := NewTransactionManagerAdapter(db, zap.NewNop())
	repo := NewBankDatabaseAdapter(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE question_banks SET deleted_at`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		_, isTx := ctx.Value(TransactionContextKey).(*sqlx.Tx)
		assert.True(t, isTx)
		return repo.Delete(ctx, "B1")
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()
	failure := errors.New("validation failed")
	err = tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		return failure
	})
	assert.ErrorIs(t, err, failure)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_NestedReusesTransaction(t *testing.T) {
	db, mock := setupBankTestDB(t)
	defer db.Close()
	tm := NewTransactionManagerAdapter(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		return tm.WithTransaction(ctx, func(context.Context) error { return nil })
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
