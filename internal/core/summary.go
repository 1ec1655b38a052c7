package core

import "github.com/shopspring/decimal"

// Snapshot is a point-in-time copy of the cached financial state.
// Readers get copies; the finances store owns the mutable originals.
type Snapshot struct {
	Balance          decimal.Decimal
	Savings          decimal.Decimal
	MonthlyAllowance decimal.Decimal
	Accounts         []Account
	Transactions     []Transaction
	SavingsGoals     []SavingsGoal
	Budgets          []Budget
}

// TotalBalance sums the balances of all accounts.
func TotalBalance(accounts []Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// TotalSavings sums the current amounts across all savings goals.
func TotalSavings(goals []SavingsGoal) decimal.Decimal {
	total := decimal.Zero
	for _, g := range goals {
		total = total.Add(g.CurrentAmount)
	}
	return total
}

// ActiveMonthlyAllowance returns the amount of the first active monthly
// budget. The second return is false when no budget matches.
func ActiveMonthlyAllowance(budgets []Budget) (decimal.Decimal, bool) {
	for _, b := range budgets {
		if b.Period == Monthly && b.IsActive {
			return b.Amount, true
		}
	}
	return decimal.Zero, false
}

// TotalByType sums the amounts of all transactions of the given type.
func TotalByType(transactions []Transaction, typ TransactionType) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		if t.Type == typ {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// RunningBalance applies the signed effect of every transaction to an
// initial value. Used when no account list is available.
func RunningBalance(initial decimal.Decimal, transactions []Transaction) decimal.Decimal {
	balance := initial
	for _, t := range transactions {
		balance = balance.Add(t.Signed())
	}
	return balance
}
