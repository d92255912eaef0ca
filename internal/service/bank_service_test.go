package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"quiz-forge/internal/cache"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testBankID = "01HZX3K4M5N6P7Q8R9S0T1V2W3"

type bankFixture struct {
	repo      *MockQuestionBankRepository
	tx        *MockTransactionManager
	cache     *MockCache
	embedding *MockEmbeddingService
	svc       BankService
}

func newBankFixture(withEmbedding bool) *bankFixture {
	f := &bankFixture{
		repo:  new(MockQuestionBankRepository),
		tx:    new(MockTransactionManager),
		cache: new(MockCache),
	}
	f.tx.On("WithTransaction", mock.Anything)

	var emb domain.EmbeddingService
	if withEmbedding {
		f.embedding = new(MockEmbeddingService)
		emb = f.embedding
	}
	f.svc = NewBankService(f.repo, f.tx, f.cache, emb, newTestConfig(), zap.NewNop())
	return f
}

func sampleQuestion(id, prompt string) *domain.Question {
	return &domain.Question{
		ID:         id,
		Type:       domain.QuestionTypeShortAnswer,
		Prompt:     prompt,
		Answer:     "answer",
		Difficulty: 3,
	}
}

func sampleBank(owner string) *domain.QuestionBank {
	return &domain.QuestionBank{
		ID:        testBankID,
		OwnerID:   owner,
		Title:     "Biology",
		Questions: []*domain.Question{sampleQuestion("q1", "What does chlorophyll absorb?")},
		Metadata:  map[string]string{"source": "text_input"},
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

var bankKey = cache.GenerateCacheKey("bank", "detail", testBankID)

func TestBankService_Create(t *testing.T) {
	f := newBankFixture(false)
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.QuestionBank) bool {
		return b.ID != "" && b.OwnerID == "user-1" && b.Title == "Biology" && len(b.Questions) == 1
	})).Return(nil).Once()

	resp, err := f.svc.Create(context.Background(), "user-1", &dto.BankRequest{
		Title:     "Biology",
		Questions: []*domain.Question{sampleQuestion("q1", "What does chlorophyll absorb?")},
	})
	require.NoError(t, err)
	assert.Len(t, resp.ID, 26)
	assert.Equal(t, "Biology", resp.Title)
	f.repo.AssertExpectations(t)
}

func TestBankService_Create_InvalidQuestion(t *testing.T) {
	f := newBankFixture(false)
	bad := sampleQuestion("q1", "What?")
	bad.Difficulty = 9

	_, err := f.svc.Create(context.Background(), "user-1", &dto.BankRequest{Title: "Biology", Questions: []*domain.Question{bad}})
	require.Error(t, err)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBankService_Get_CacheHit(t *testing.T) {
	f := newBankFixture(false)
	data, err := json.Marshal(sampleBank("user-1"))
	require.NoError(t, err)
	f.cache.On("Get", mock.Anything, bankKey).Return(string(data), nil).Once()

	resp, err := f.svc.Get(context.Background(), "user-1", testBankID)
	require.NoError(t, err)
	assert.Equal(t, "Biology", resp.Title)
	require.Len(t, resp.Questions, 1)
	f.repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestBankService_Get_CacheHitOtherOwner(t *testing.T) {
	f := newBankFixture(false)
	data, _ := json.Marshal(sampleBank("someone-else"))
	f.cache.On("Get", mock.Anything, bankKey).Return(string(data), nil).Once()

	_, err := f.svc.Get(context.Background(), "user-1", testBankID)
	assert.ErrorIs(t, err, domain.ErrBankNotFound)
}

func TestBankService_Get_CacheMissLoadsAndStores(t *testing.T) {
	f := newBankFixture(false)
	f.cache.On("Get", mock.Anything, bankKey).Return("", domain.ErrCacheMiss).Once()
	f.repo.On("GetByID", mock.Anything, testBankID).Return(sampleBank("user-1"), nil).Once()
	f.cache.On("Set", mock.Anything, bankKey, mock.AnythingOfType("string"), 10*time.Minute).Return(nil).Once()

	resp, err := f.svc.Get(context.Background(), "user-1", testBankID)
	require.NoError(t, err)
	assert.Equal(t, testBankID, resp.ID)
	f.cache.AssertExpectations(t)
	f.repo.AssertExpectations(t)
}

func TestBankService_Get_CacheErrorFallsBackToRepository(t *testing.T) {
	f := newBankFixture(false)
	f.cache.On("Get", mock.Anything, bankKey).Return("", errors.New("connection refused")).Once()
	f.repo.On("GetByID", mock.Anything, testBankID).Return(sampleBank("user-1"), nil).Once()
	f.cache.On("Set", mock.Anything, bankKey, mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()

	resp, err := f.svc.Get(context.Background(), "user-1", testBankID)
	require.NoError(t, err)
	assert.Equal(t, testBankID, resp.ID)
}

func TestBankService_Get_NotFound(t *testing.T) {
	f := newBankFixture(false)
	f.cache.On("Get", mock.Anything, bankKey).Return("", domain.ErrCacheMiss).Once()
	f.repo.On("GetByID", mock.Anything, testBankID).Return(nil, nil).Once()

	_, err := f.svc.Get(context.Background(), "user-1", testBankID)
	assert.ErrorIs(t, err, domain.ErrBankNotFound)
	f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBankService_List(t *testing.T) {
	f := newBankFixture(false)
	summaries := []*domain.QuestionBankSummary{{ID: testBankID, Title: "Biology", QuestionCount: 3}}
	f.repo.On("ListByOwner", mock.Anything, "user-1", 20, 0).Return(summaries, nil).Once()
	f.repo.On("ListByOwner", mock.Anything, "user-2", 20, 0).Return(nil, nil).Once()

	resp, err := f.svc.List(context.Background(), "user-1", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, summaries, resp.Banks)

	empty, err := f.svc.List(context.Background(), "user-2", 20, 0)
	require.NoError(t, err)
	assert.NotNil(t, empty.Banks)
	assert.Empty(t, empty.Banks)
}

func TestBankService_Update(t *testing.T) {
	f := newBankFixture(false)
	f.repo.On("GetByID", mock.Anything, testBankID).Return(sampleBank("user-1"), nil).Once()
	f.repo.On("Update", mock.Anything, mock.MatchedBy(func(b *domain.QuestionBank) bool {
		return b.Title == "Chemistry" && len(b.Questions) == 0 && b.UpdatedAt.After(b.CreatedAt)
	})).Return(nil).Once()
	f.cache.On("Delete", mock.Anything, bankKey).Return(nil).Once()

	resp, err := f.svc.Update(context.Background(), "user-1", testBankID, &dto.BankRequest{Title: "Chemistry"})
	require.NoError(t, err)
	assert.Equal(t, "Chemistry", resp.Title)
	assert.NotNil(t, resp.Questions)
	f.repo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestBankService_Update_OtherOwner(t *testing.T) {
	f := newBankFixture(false)
	f.repo.On("GetByID", mock.Anything, testBankID).Return(sampleBank("someone-else"), nil).Once()

	_, err := f.svc.Update(context.Background(), "user-1", testBankID, &dto.BankRequest{Title: "Chemistry"})
	assert.ErrorIs(t, err, domain.ErrBankNotFound)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestBankService_Delete(t *testing.T) {
	f := newBankFixture(false)
	f.repo.On("GetByID", mock.Anything, testBankID).Return(sampleBank("user-1"), nil).Once()
	f.repo.On("Delete", mock.Anything, testBankID).Return(nil).Once()
	f.cache.On("Delete", mock.Anything, bankKey).Return(nil).Once()

	require.NoError(t, f.svc.Delete(context.Background(), "user-1", testBankID))
	f.repo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
	f.tx.AssertNumberOfCalls(t, "WithTransaction", 1)
}

func TestBankService_Delete_RepositoryError(t *testing.T) {
	f := newBankFixture(false)
	f.repo.On("GetByID", mock.Anything, testBankID).Return(sampleBank("user-1"), nil).Once()
	f.repo.On("Delete", mock.Anything, testBankID).Return(errors.New("ORA-00054")).Once()

	err := f.svc.Delete(context.Background(), "user-1", testBankID)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeInternal, domainErr.Code)
	f.cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestBankService_SaveGenerated_NewBank(t *testing.T) {
	f := newBankFixture(false)
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.QuestionBank) bool {
		return b.Title == "Untitled Question Set" && b.Metadata["source"] == "text_input"
	})).Return(nil).Once()

	id, err := f.svc.SaveGenerated(context.Background(), "user-1", "", "Untitled Question Set",
		[]*domain.Question{sampleQuestion("q9", "Why do leaves look green?")})
	require.NoError(t, err)
	assert.Len(t, id, 26)
	f.repo.AssertExpectations(t)
}

func TestBankService_SaveGenerated_AppendDropsNearDuplicates(t *testing.T) {
	f := newBankFixture(true)
	existing := sampleBank("user-1")
	dupe := sampleQuestion("q2", "Which light does chlorophyll absorb?")
	fresh := sampleQuestion("q3", "Where does the Calvin Cycle take place?")
	unembeddable := sampleQuestion("q4", "Name one product of photosynthesis.")

	f.embedding.On("Generate", mock.Anything, existing.Questions[0].Prompt).Return([]float32{1, 0}, nil)
	f.embedding.On("Generate", mock.Anything, dupe.Prompt).Return([]float32{0.99, 0.01}, nil)
	f.embedding.On("Generate", mock.Anything, fresh.Prompt).Return([]float32{0, 1}, nil)
	f.embedding.On("Generate", mock.Anything, unembeddable.Prompt).Return(nil, errors.New("model offline"))

	f.repo.On("GetByID", mock.Anything, testBankID).Return(existing, nil).Once()
	f.repo.On("Update", mock.Anything, mock.MatchedBy(func(b *domain.QuestionBank) bool {
		if len(b.Questions) != 3 {
			return false
		}
		return b.Questions[0].ID == "q1" && b.Questions[1].ID == "q3" && b.Questions[2].ID == "q4"
	})).Return(nil).Once()
	f.cache.On("Delete", mock.Anything, bankKey).Return(nil).Once()

	id, err := f.svc.SaveGenerated(context.Background(), "user-1", testBankID, "ignored",
		[]*domain.Question{dupe, fresh, unembeddable})
	require.NoError(t, err)
	assert.Equal(t, testBankID, id)
	f.repo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestBankService_SaveGenerated_UnknownBank(t *testing.T) {
	f := newBankFixture(false)
	f.repo.On("GetByID", mock.Anything, testBankID).Return(nil, nil).Once()

	_, err := f.svc.SaveGenerated(context.Background(), "user-1", testBankID, "t",
		[]*domain.Question{sampleQuestion("q2", "What is ATP?")})
	assert.ErrorIs(t, err, domain.ErrBankNotFound)
}
