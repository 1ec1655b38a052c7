// Package advisor generates the canned financial-coaching replies. It
// is a pure function over the user's text and financial snapshot: an
// ordered list of keyword rules, ending in a default rule. No inference
// happens here and none is implied.
package advisor

import (
	"fmt"
	"strings"

	"dirav/internal/core"
)

type rule struct {
	keywords []string
	respond  func(snap core.Snapshot) string
}

// Rules are checked in order; the first match wins.
var rules = []rule{
	{
		keywords: []string{"budget", "spend"},
		respond: func(snap core.Snapshot) string {
			totalExpenses := core.TotalByType(snap.Transactions, core.Expense)
			return fmt.Sprintf("Based on your records, you've spent $%s in total expenses. "+
				"A good budgeting practice is the 50/30/20 rule: 50%% for needs, 30%% for wants, "+
				"and 20%% for savings. Would you like me to help you create a budget plan?",
				totalExpenses.StringFixed(2))
		},
	},
	{
		keywords: []string{"save", "saving"},
		respond: func(snap core.Snapshot) string {
			return fmt.Sprintf("You currently have $%s in savings. Great job! A good target is "+
				"to have 3-6 months of expenses saved as an emergency fund. Consider setting up "+
				"automatic transfers to your savings account on payday to make saving effortless.",
				snap.Savings.StringFixed(2))
		},
	},
	{
		keywords: []string{"balance", "money"},
		respond: func(snap core.Snapshot) string {
			return fmt.Sprintf("Your current balance is $%s. To maintain a healthy balance, try "+
				"to keep at least one month's worth of expenses as a buffer. This helps you avoid "+
				"overdrafts and gives you flexibility for unexpected costs.",
				snap.Balance.StringFixed(2))
		},
	},
	{
		keywords: []string{"goal"},
		respond: func(core.Snapshot) string {
			return "Setting financial goals is a great step! Start with SMART goals: Specific, " +
				"Measurable, Achievable, Relevant, and Time-bound. For example, \"Save $500 for an " +
				"emergency fund in 3 months\" is better than \"save more money.\" Would you like to " +
				"set up a new savings goal?"
		},
	},
	{
		keywords: []string{"invest"},
		respond: func(core.Snapshot) string {
			return "Before investing, make sure you have: 1) An emergency fund (3-6 months expenses), " +
				"2) No high-interest debt. For beginners, consider starting with index funds or ETFs " +
				"which offer diversification at low cost. Remember, investing involves risk - only " +
				"invest what you can afford to lose."
		},
	},
}

const defaultResponse = "That's a great question! Here are some general tips I can help you with:\n\n" +
	"- Track all your expenses\n" +
	"- Set realistic savings goals\n" +
	"- Review your budget monthly\n" +
	"- Build an emergency fund\n\n" +
	"Would you like me to elaborate on any of these topics?"

// Advise picks the reply for the user's message given their current
// financial snapshot.
func Advise(input string, snap core.Snapshot) string {
	lower := strings.ToLower(input)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.respond(snap)
			}
		}
	}
	return defaultResponse
}

// Welcome composes the personalized greeting shown when a chat opens.
func Welcome(firstName string, transactionCount int) string {
	name := firstName
	if name == "" {
		name = "there"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s! I'm your personal financial advisor. ", name)
	switch {
	case transactionCount == 1:
		b.WriteString("I can see you have 1 transaction recorded. ")
	case transactionCount > 1:
		fmt.Fprintf(&b, "I can see you have %d transactions recorded. ", transactionCount)
	}
	b.WriteString("Feel free to ask me anything about budgeting, saving, or managing your finances!")
	return b.String()
}
