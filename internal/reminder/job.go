// Package reminder sweeps the member roster and nudges anyone short of the
// expected contributions for the current period.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chamabot/chamabot/internal/balance"
	"github.com/chamabot/chamabot/internal/contribution"
	"github.com/chamabot/chamabot/internal/member"
	"github.com/chamabot/chamabot/internal/metrics"
	"github.com/chamabot/chamabot/internal/outbound"
)

// Job is the batch reminder sweep. Repeated runs within one period resend
// reminders; no dedup state is kept (at-least-once delivery).
type Job struct {
	members       *member.Service
	contributions *contribution.Service
	expected      balance.Expected
	sender        outbound.Sender
	logger        *slog.Logger
	now           func() time.Time
}

// NewJob wires a reminder job.
func NewJob(members *member.Service, contributions *contribution.Service, expected balance.Expected, sender outbound.Sender, logger *slog.Logger) *Job {
	return &Job{
		members:       members,
		contributions: contributions,
		expected:      expected,
		sender:        sender,
		logger:        logger,
		now:           time.Now,
	}
}

// WithClock overrides the job clock. Intended for tests.
func (j *Job) WithClock(now func() time.Time) *Job {
	j.now = now
	return j
}

// Run sweeps every member sequentially. Members fully paid across all
// categories receive nothing; everyone else gets one combined message listing
// their shortfalls. Send failures are logged and the sweep continues.
func (j *Job) Run(ctx context.Context) (int, error) {
	period := contribution.PeriodOf(j.now())
	j.logger.Info("sending reminders", "period", period)

	members, err := j.members.List(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, m := range members {
		totals, err := j.contributions.TotalsByCategory(ctx, m.ID, period)
		if err != nil {
			return sent, err
		}

		unpaid := balance.Unpaid(balance.Compute(j.expected, totals))
		if len(unpaid) == 0 {
			continue
		}

		text := fmt.Sprintf("📤 Hello %s, you still owe for %s: %s. Please contribute today!",
			m.Name, period, balance.ShortfallList(unpaid))

		if err := j.sender.Send(ctx, m.Phone, text); err != nil {
			j.logger.Warn("reminder delivery failed", "phone", m.Phone, "error", err)
			continue
		}
		metrics.RemindersSent.Inc()
		sent++
	}

	j.logger.Info("reminder sweep complete", "period", period, "sent", sent, "members", len(members))
	return sent, nil
}
