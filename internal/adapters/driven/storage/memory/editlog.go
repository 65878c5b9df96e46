package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/wbedit/internal/core/domain"
	"github.com/custodia-labs/wbedit/internal/core/ports/driven"
)

// Ensure EditLogStore implements the interface.
var _ driven.EditLogStore = (*EditLogStore)(nil)

// EditLogStore is an in-memory implementation of driven.EditLogStore.
type EditLogStore struct {
	mu      sync.RWMutex
	records []domain.EditRecord
}

// NewEditLogStore creates a new in-memory edit journal.
func NewEditLogStore() *EditLogStore {
	return &EditLogStore{}
}

// Append stores a record.
func (s *EditLogStore) Append(_ context.Context, record domain.EditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// List returns records newest first.
func (s *EditLogStore) List(_ context.Context, entityID string, limit int) ([]domain.EditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.EditRecord, 0, len(s.records))
	for _, rec := range s.records {
		if entityID == "" || rec.EntityID == entityID {
			result = append(result, rec)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
