package repository

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"quiz-forge/internal/domain"
)

// MemoryBankRepository keeps banks in process memory. It backs the bank
// endpoints when no database is configured.
type MemoryBankRepository struct {
	mu    sync.RWMutex
	banks map[string][]byte
}

// NewMemoryBankRepository creates an empty store
func NewMemoryBankRepository() *MemoryBankRepository {
	return &MemoryBankRepository{banks: make(map[string][]byte)}
}

func (r *MemoryBankRepository) Create(_ context.Context, bank *domain.QuestionBank) error {
	data, err := json.Marshal(bank)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.banks[bank.ID] = data
	return nil
}

func (r *MemoryBankRepository) GetByID(_ context.Context, id string) (*domain.QuestionBank, error) {
	r.mu.RLock()
	data, ok := r.banks[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var bank domain.QuestionBank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, err
	}
	return &bank, nil
}

func (r *MemoryBankRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.QuestionBankSummary, error) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.banks))
	for id := range r.banks {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	var all []*domain.QuestionBankSummary
	for _, id := range ids {
		b, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if b == nil || b.OwnerID != ownerID {
			continue
		}
		all = append(all, &domain.QuestionBankSummary{
			ID:            b.ID,
			Title:         b.Title,
			QuestionCount: len(b.Questions),
			CreatedAt:     b.CreatedAt,
			UpdatedAt:     b.UpdatedAt,
		})
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].UpdatedAt.Equal(all[j].UpdatedAt) {
			return all[i].UpdatedAt.After(all[j].UpdatedAt)
		}
		return all[i].ID > all[j].ID
	})

	if offset >= len(all) {
		return []*domain.QuestionBankSummary{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

func (r *MemoryBankRepository) Update(_ context.Context, bank *domain.QuestionBank) error {
	data, err := json.Marshal(bank)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.banks[bank.ID]; !ok {
		return domain.NewBankNotFoundError(bank.ID)
	}
	r.banks[bank.ID] = data
	return nil
}

func (r *MemoryBankRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.banks[id]; !ok {
		return domain.NewBankNotFoundError(id)
	}
	delete(r.banks, id)
	return nil
}

func (r *MemoryBankRepository) Ping(context.Context) error {
	return nil
}

var _ domain.QuestionBankRepository = (*MemoryBankRepository)(nil)
