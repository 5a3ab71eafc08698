package contribution

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountPattern locates the first 2-6 digit run, optionally followed by a
// "for <word>" category clause, e.g. "I paid 500 for welfare".
var amountPattern = regexp.MustCompile(`(\d{2,6})(?:\s*for\s*(\w+))?`)

// Parse extracts an amount and category from free text. The category defaults
// to "general" and is taken verbatim (lowercased) otherwise; misspelled
// categories are accepted and tracked under their own name. ok is false when
// the text contains no qualifying digit run.
func Parse(text string) (amount decimal.Decimal, category string, ok bool) {
	match := amountPattern.FindStringSubmatch(strings.ToLower(text))
	if match == nil {
		return decimal.Decimal{}, "", false
	}

	amount, err := decimal.NewFromString(match[1])
	if err != nil {
		return decimal.Decimal{}, "", false
	}

	category = match[2]
	if category == "" {
		category = DefaultCategory
	}
	return amount, category, true
}
