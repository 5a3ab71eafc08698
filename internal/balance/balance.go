// Package balance computes per-period settlement of member contributions
// against the group's fixed expected targets.
package balance

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Target is one expected monthly contribution.
type Target struct {
	Category string
	Amount   decimal.Decimal
}

// Expected is the ordered set of canonical targets. Order is preserved in
// every rendered report.
type Expected []Target

// NewExpected builds the canonical target set from whole-KES amounts.
func NewExpected(welfare, emergency, savings int64) Expected {
	return Expected{
		{Category: "welfare", Amount: decimal.NewFromInt(welfare)},
		{Category: "emergency", Amount: decimal.NewFromInt(emergency)},
		{Category: "savings", Amount: decimal.NewFromInt(savings)},
	}
}

// Line is the settlement state of one canonical category.
type Line struct {
	Category string
	Expected decimal.Decimal
	Paid     decimal.Decimal
	Owed     decimal.Decimal
	Settled  bool
}

// Compute settles paid sums against the expected targets. Categories outside
// the canonical set stay in the ledger but are not reported. Overpayment is
// reported as fully paid, never as a negative balance.
func Compute(expected Expected, paid map[string]decimal.Decimal) []Line {
	lines := make([]Line, 0, len(expected))
	for _, target := range expected {
		amountPaid := paid[target.Category]
		owed := target.Amount.Sub(amountPaid)
		line := Line{
			Category: target.Category,
			Expected: target.Amount,
			Paid:     amountPaid,
			Settled:  owed.LessThanOrEqual(decimal.Zero),
		}
		if !line.Settled {
			line.Owed = owed
		}
		lines = append(lines, line)
	}
	return lines
}

// Unpaid filters the settlement lines down to categories still owing.
func Unpaid(lines []Line) []Line {
	var out []Line
	for _, line := range lines {
		if !line.Settled {
			out = append(out, line)
		}
	}
	return out
}

// Report renders the member-facing balance reply for one period.
func Report(period string, lines []Line) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Your balance for %s:*", period)
	for _, line := range lines {
		label := titleCaser.String(line.Category)
		if line.Settled {
			fmt.Fprintf(&b, "\n✅ %s: Fully paid (KES %s)", label, line.Paid.Truncate(0))
		} else {
			fmt.Fprintf(&b, "\n⚠️ %s: You owe KES %s (Paid: %s)", label, line.Owed.Truncate(0), line.Paid.Truncate(0))
		}
	}
	return b.String()
}

// ShortfallList renders unpaid lines as a comma-separated reminder fragment,
// e.g. "Welfare (KES 200), Savings (KES 1500)".
func ShortfallList(lines []Line) string {
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		items = append(items, fmt.Sprintf("%s (KES %s)", titleCaser.String(line.Category), line.Owed.Truncate(0)))
	}
	return strings.Join(items, ", ")
}
