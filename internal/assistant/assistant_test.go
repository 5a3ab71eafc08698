package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chamabot/chamabot/internal/contribution"
	"github.com/chamabot/chamabot/internal/member"
)

type scriptedCompleter struct {
	reply    string
	err      error
	calls    int
	messages []Message
}

func (c *scriptedCompleter) Complete(_ context.Context, messages []Message) (string, error) {
	c.calls++
	c.messages = messages
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func setupDelegate(t *testing.T, completer Completer) (*Delegate, member.Member, *contribution.Service) {
	t.Helper()

	memberRepo := member.NewMemoryRepository()
	members := member.NewService(memberRepo)
	contributions := contribution.NewService(contribution.NewMemoryRepository()).
		WithClock(func() time.Time { return time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC) })

	m, _, err := members.Register(context.Background(), "+254700000010", "Mary Njeri")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	member.SeedAdmin(memberRepo, m.Phone)

	return NewDelegate(completer, members, contributions, time.Second), m, contributions
}

func TestAskShortCircuitsWithoutHistory(t *testing.T) {
	completer := &scriptedCompleter{reply: "hello"}
	delegate, m, _ := setupDelegate(t, completer)

	_, err := delegate.Ask(context.Background(), m, "how much do I owe?")
	if !errors.Is(err, ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}
	if completer.calls != 0 {
		t.Fatalf("capability must not be called without history")
	}
}

func TestAskBuildsTwoPartExchange(t *testing.T) {
	completer := &scriptedCompleter{reply: "You have paid KES 500 so far."}
	delegate, m, contributions := setupDelegate(t, completer)

	ctx := context.Background()
	if _, err := contributions.Record(ctx, m.ID, decimal.NewFromInt(500), "welfare"); err != nil {
		t.Fatalf("record: %v", err)
	}

	reply, err := delegate.Ask(ctx, m, "what is my standing?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if reply != completer.reply {
		t.Fatalf("unexpected reply %q", reply)
	}

	if len(completer.messages) != 2 {
		t.Fatalf("expected system+user exchange, got %d messages", len(completer.messages))
	}
	system, user := completer.messages[0], completer.messages[1]
	if system.Role != RoleSystem || user.Role != RoleUser {
		t.Fatalf("unexpected roles: %s, %s", system.Role, user.Role)
	}
	if user.Content != "what is my standing?" {
		t.Fatalf("user message altered: %q", user.Content)
	}
	for _, want := range []string{
		"This user is a admin.",
		"Name: Mary Njeri",
		"Total Paid: KES 500",
		"Months Paid: March 2025",
		"- March 2025 | Welfare: KES 500",
	} {
		if !strings.Contains(system.Content, want) {
			t.Fatalf("system context missing %q:\n%s", want, system.Content)
		}
	}
}

func TestAskWrapsCapabilityFault(t *testing.T) {
	completer := &scriptedCompleter{err: errors.New("quota exceeded")}
	delegate, m, contributions := setupDelegate(t, completer)

	ctx := context.Background()
	if _, err := contributions.Record(ctx, m.ID, decimal.NewFromInt(100), "welfare"); err != nil {
		t.Fatalf("record: %v", err)
	}

	_, err := delegate.Ask(ctx, m, "hello")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("fault cause lost: %v", err)
	}
	if completer.calls != 1 {
		t.Fatalf("capability must be called exactly once, got %d", completer.calls)
	}
}

func TestAskSurfacesTimeoutDistinctly(t *testing.T) {
	completer := &scriptedCompleter{err: context.DeadlineExceeded}
	delegate, m, contributions := setupDelegate(t, completer)

	ctx := context.Background()
	if _, err := contributions.Record(ctx, m.ID, decimal.NewFromInt(100), "welfare"); err != nil {
		t.Fatalf("record: %v", err)
	}

	_, err := delegate.Ask(ctx, m, "hello")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}
