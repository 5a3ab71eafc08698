package contribution

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	records []Contribution
}

// NewMemoryRepository builds an in-memory contribution store for development
// and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Insert(_ context.Context, c Contribution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, c)
	return nil
}

func (r *memoryRepository) ListByMember(_ context.Context, memberID string) ([]Contribution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Contribution
	for _, c := range r.records {
		if c.MemberID == memberID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryRepository) ListByMemberPeriod(_ context.Context, memberID, period string) ([]Contribution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Contribution
	for _, c := range r.records {
		if c.MemberID == memberID && c.Period == period {
			out = append(out, c)
		}
	}
	return out, nil
}
