package member

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	members map[string]Member
	admins  map[string]struct{}
}

// NewMemoryRepository builds an in-memory member store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		members: make(map[string]Member),
		admins:  make(map[string]struct{}),
	}
}

func (r *memoryRepository) Create(_ context.Context, m Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.members[m.Phone]; exists {
		return ErrDuplicatePhone
	}
	r.members[m.Phone] = m
	return nil
}

func (r *memoryRepository) FindByPhone(_ context.Context, phone string) (Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[phone]
	if !ok {
		return Member{}, ErrNotFound
	}
	return m, validate(m)
}

func (r *memoryRepository) List(_ context.Context) ([]Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].CreatedAt.Before(members[j].CreatedAt) })
	return members, nil
}

func (r *memoryRepository) IsAdmin(_ context.Context, phone string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.admins[phone]
	return ok, nil
}

// SeedAdmin marks a phone as admin when using the in-memory store.
func SeedAdmin(repo Repository, phone string) {
	if mem, ok := repo.(*memoryRepository); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.admins[phone] = struct{}{}
	}
}
