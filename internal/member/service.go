package member

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Service manages member registration and classification.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a member service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Lookup resolves a phone number to a member. Returns ErrNotFound for
// unregistered phones.
func (s *Service) Lookup(ctx context.Context, phone string) (Member, error) {
	return s.repo.FindByPhone(ctx, phone)
}

// Register creates a member for the phone with a title-cased name. It is
// idempotent: a phone that already resolves to a member is returned as-is
// with created=false, and a concurrent insert losing the unique-constraint
// race degrades to the same outcome.
func (s *Service) Register(ctx context.Context, phone, name string) (Member, bool, error) {
	existing, err := s.repo.FindByPhone(ctx, phone)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Member{}, false, err
	}

	m := Member{
		ID:        uuid.New().String(),
		Name:      TitleCase(name),
		Phone:     phone,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, ErrDuplicatePhone) {
			winner, findErr := s.repo.FindByPhone(ctx, phone)
			if findErr != nil {
				return Member{}, false, findErr
			}
			return winner, false, nil
		}
		return Member{}, false, err
	}

	return m, true, nil
}

// Classify returns the caller's role based on the admin set.
func (s *Service) Classify(ctx context.Context, phone string) (string, error) {
	admin, err := s.repo.IsAdmin(ctx, phone)
	if err != nil {
		return "", err
	}
	if admin {
		return RoleAdmin, nil
	}
	return RoleMember, nil
}

// List returns all registered members.
func (s *Service) List(ctx context.Context) ([]Member, error) {
	return s.repo.List(ctx)
}

// TitleCase normalizes a supplied name to title case.
func TitleCase(name string) string {
	return titleCaser.String(strings.ToLower(strings.TrimSpace(name)))
}
