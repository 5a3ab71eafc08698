package contribution

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is assigned when a message carries no "for <word>" clause.
const DefaultCategory = "general"

// Contribution is an immutable ledger record of a single payment.
type Contribution struct {
	ID        string
	MemberID  string
	Amount    decimal.Decimal
	Period    string
	Category  string
	CreatedAt time.Time
}

// PeriodOf derives the calendar month+year bucket for a processing time,
// e.g. "March 2025". Periods are never client-supplied.
func PeriodOf(t time.Time) string {
	return t.Format("January 2006")
}
