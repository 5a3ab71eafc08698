package contribution

import "testing"

func TestParseAmountAndCategory(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		amount   string
		category string
	}{
		{name: "amount with category", text: "I paid 500 for welfare", amount: "500", category: "welfare"},
		{name: "bare amount defaults to general", text: "sent 750", amount: "750", category: "general"},
		{name: "uppercase input", text: "PAID 1200 FOR SAVINGS", amount: "1200", category: "savings"},
		{name: "misspelled category kept verbatim", text: "paid 300 for welfere", amount: "300", category: "welfere"},
		{name: "no space before for", text: "tuma 45for emergency", amount: "45", category: "emergency"},
		{name: "six digit cap", text: "paid 1234567", amount: "123456", category: "general"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount, category, ok := Parse(tc.text)
			if !ok {
				t.Fatalf("expected match for %q", tc.text)
			}
			if amount.String() != tc.amount {
				t.Fatalf("expected amount %s, got %s", tc.amount, amount)
			}
			if category != tc.category {
				t.Fatalf("expected category %s, got %s", tc.category, category)
			}
		})
	}
}

func TestParseNoMatch(t *testing.T) {
	for _, text := range []string{"I paid for welfare", "hello there", "paid 5", ""} {
		if _, _, ok := Parse(text); ok {
			t.Fatalf("expected no match for %q", text)
		}
	}
}
