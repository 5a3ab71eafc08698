package contribution

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service records contributions and aggregates them per period.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a contribution service using the wall clock.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Record inserts one contribution for the member, stamped with the current
// processing period. The period is never taken from the message.
func (s *Service) Record(ctx context.Context, memberID string, amount decimal.Decimal, category string) (Contribution, error) {
	if category == "" {
		category = DefaultCategory
	}
	c := Contribution{
		ID:        uuid.New().String(),
		MemberID:  memberID,
		Amount:    amount,
		Period:    PeriodOf(s.now()),
		Category:  category,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		return Contribution{}, err
	}
	return c, nil
}

// CurrentPeriod returns the period bucket for the service clock.
func (s *Service) CurrentPeriod() string {
	return PeriodOf(s.now())
}

// TotalsByCategory sums a member's contributions for one period, grouped by
// category. Records with an empty category count toward "general".
func (s *Service) TotalsByCategory(ctx context.Context, memberID, period string) (map[string]decimal.Decimal, error) {
	records, err := s.repo.ListByMemberPeriod(ctx, memberID, period)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, c := range records {
		category := c.Category
		if category == "" {
			category = DefaultCategory
		}
		totals[category] = totals[category].Add(c.Amount)
	}
	return totals, nil
}

// Summary aggregates a member's full contribution history for the assistant
// context: cumulative total, distinct periods and the itemized records.
type Summary struct {
	TotalPaid decimal.Decimal
	Periods   []string
	Records   []Contribution
}

// SummaryFor builds the all-time contribution summary for a member.
func (s *Service) SummaryFor(ctx context.Context, memberID string) (Summary, error) {
	records, err := s.repo.ListByMember(ctx, memberID)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Records: records}
	seen := make(map[string]struct{})
	for _, c := range records {
		summary.TotalPaid = summary.TotalPaid.Add(c.Amount)
		if _, ok := seen[c.Period]; !ok {
			seen[c.Period] = struct{}{}
			summary.Periods = append(summary.Periods, c.Period)
		}
	}
	return summary, nil
}
