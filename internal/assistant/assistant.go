// Package assistant bridges free-form member questions to the language-model
// capability, grounding each exchange in the member's ledger history.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/chamabot/chamabot/internal/contribution"
	"github.com/chamabot/chamabot/internal/member"
)

// Chat roles for the two-part exchange.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

var (
	// ErrNoHistory short-circuits contextless queries before any model call.
	ErrNoHistory = errors.New("no contribution history")

	// ErrUnavailable wraps any capability fault other than a timeout.
	ErrUnavailable = errors.New("assistant unavailable")

	// ErrTimeout indicates the capability call exceeded the configured deadline.
	ErrTimeout = errors.New("assistant timed out")
)

// Message is one turn of the model exchange.
type Message struct {
	Role    string
	Content string
}

// Completer is the language-model capability boundary.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

var titleCaser = cases.Title(language.English)

// Delegate assembles ledger context and submits it with the user's message.
type Delegate struct {
	completer     Completer
	members       *member.Service
	contributions *contribution.Service
	timeout       time.Duration
}

// NewDelegate builds an assistant delegate. A zero timeout disables the
// explicit deadline.
func NewDelegate(completer Completer, members *member.Service, contributions *contribution.Service, timeout time.Duration) *Delegate {
	return &Delegate{completer: completer, members: members, contributions: contributions, timeout: timeout}
}

// Ask answers a member's free-form question. The capability is called exactly
// once; faults surface as ErrTimeout or a wrapped ErrUnavailable and the
// caller decides how to render them.
func (d *Delegate) Ask(ctx context.Context, m member.Member, message string) (string, error) {
	summary, err := d.contributions.SummaryFor(ctx, m.ID)
	if err != nil {
		return "", err
	}
	if len(summary.Records) == 0 {
		return "", ErrNoHistory
	}

	role, err := d.members.Classify(ctx, m.Phone)
	if err != nil {
		return "", err
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	reply, err := d.completer.Complete(ctx, []Message{
		{Role: RoleSystem, Content: buildContext(m.Name, role, summary)},
		{Role: RoleUser, Content: message},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return reply, nil
}

func buildContext(name, role string, summary contribution.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a helpful chatbot for a community savings group (Chama).\n")
	fmt.Fprintf(&b, "This user is a %s.\n", role)
	fmt.Fprintf(&b, "Name: %s\n", name)
	fmt.Fprintf(&b, "Total Paid: KES %s\n", summary.TotalPaid.Truncate(0))
	fmt.Fprintf(&b, "Months Paid: %s\n", strings.Join(summary.Periods, ", "))
	for _, record := range summary.Records {
		fmt.Fprintf(&b, "- %s | %s: KES %s\n", record.Period, titleCaser.String(record.Category), record.Amount.Truncate(0))
	}
	return b.String()
}
