package advisor

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"dirav/internal/core"
)

func testSnapshot() core.Snapshot {
	return core.Snapshot{
		Balance: decimal.RequireFromString("2275"),
		Savings: decimal.RequireFromString("970"),
		Transactions: []core.Transaction{
			{Title: "Allowance", Amount: decimal.RequireFromString("1500"), Type: core.Income},
			{Title: "Groceries", Amount: decimal.RequireFromString("45.50"), Type: core.Expense},
			{Title: "Bus pass", Amount: decimal.RequireFromString("120"), Type: core.Expense},
		},
	}
}

func TestAdviseKeywordRouting(t *testing.T) {
	snap := testSnapshot()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"budget keyword", "How should I budget?", "$165.50"},
		{"spend keyword", "I spend too much", "50/30/20"},
		{"saving keyword", "any saving tips?", "$970.00"},
		{"balance keyword", "what's my balance?", "$2275.00"},
		{"money keyword", "I need more money", "$2275.00"},
		{"goal keyword", "help me set a goal", "SMART"},
		{"invest keyword", "should I invest?", "index funds"},
		{"case insensitive", "BUDGET please", "50/30/20"},
		{"no match falls through", "what's the weather?", "general tips"},
		{"empty input", "", "general tips"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Advise(tt.input, snap)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Advise(%q) = %q, want substring %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAdviseFirstMatchWins(t *testing.T) {
	// "budget" and "goal" both match; the budget rule is checked first.
	got := Advise("budget for my goal", testSnapshot())
	if !strings.Contains(got, "50/30/20") {
		t.Errorf("expected the budget rule to win, got %q", got)
	}
}

func TestWelcome(t *testing.T) {
	tests := []struct {
		name  string
		first string
		count int
		want  []string
	}{
		{"named with plural", "Ana", 6, []string{"Hello Ana!", "6 transactions"}},
		{"singular", "Ana", 1, []string{"1 transaction recorded"}},
		{"no transactions", "Ana", 0, []string{"Hello Ana!"}},
		{"anonymous", "", 2, []string{"Hello there!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Welcome(tt.first, tt.count)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("Welcome(%q, %d) = %q, want substring %q", tt.first, tt.count, got, want)
				}
			}
		})
	}

	if got := Welcome("Ana", 0); strings.Contains(got, "0 transactions") {
		t.Errorf("zero count should not be mentioned: %q", got)
	}
}
