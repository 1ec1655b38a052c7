package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"dirav/internal/core"
)

// Demo dataset for running without a server. Mirrors the fixtures the
// mobile and web shells ship with.

const seedUserID = "8b1f7a52-1f89-4a07-9f4e-6f0d3f1c2a01"

func seedTime(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedAccounts() []core.Account {
	return []core.Account{
		{
			ID:        "3f0c2a6e-52bb-4be5-9a7d-92c8c7b51f10",
			Name:      "Checking",
			Type:      "checking",
			Balance:   amount("1305"),
			Currency:  "USD",
			IsPrimary: true,
			CreatedAt: seedTime(2024, 1, 1),
		},
		{
			ID:        "b7d9e2c4-8a31-47f0-b2c6-5d1e4f7a8903",
			Name:      "Savings",
			Type:      "savings",
			Balance:   amount("970"),
			Currency:  "USD",
			CreatedAt: seedTime(2024, 1, 1),
		},
	}
}

func seedTransactions() []core.Transaction {
	type row struct {
		title, amount, category string
		typ                     core.TransactionType
		day                     int
	}
	rows := []row{
		{"Monthly allowance from parents", "1500", "Allowance", core.Income, 1},
		{"Groceries", "45", "Food", core.Expense, 3},
		{"Monthly bus pass", "120", "Transport", core.Expense, 5},
		{"Weekend tutoring", "200", "Part-time", core.Income, 7},
		{"Concert tickets", "80", "Entertainment", core.Expense, 10},
		{"Textbooks", "150", "Education", core.Expense, 12},
	}
	out := make([]core.Transaction, len(rows))
	for i, r := range rows {
		out[i] = core.Transaction{
			ID:        seedTransactionIDs[i],
			Title:     r.title,
			Amount:    amount(r.amount),
			Type:      r.typ,
			Category:  r.category,
			Date:      core.NewDate(2024, 1, r.day),
			CreatedAt: seedTime(2024, 1, r.day),
		}
	}
	return out
}

var seedTransactionIDs = []string{
	"0a41c9d2-7e15-4b38-8f02-1c6a9d3e5b71",
	"1b52dae3-8f26-4c49-9a13-2d7bae4f6c82",
	"2c63ebf4-9a37-4d5a-ab24-3e8cbf5a7d93",
	"3d74fca5-ab48-4e6b-bc35-4f9dca6b8ea4",
	"4e85adb6-bc59-4f7c-cd46-5aaedb7c9fb5",
	"5f96bec7-cd6a-4a8d-de57-6bbfec8daac6",
}

func seedGoals() []core.SavingsGoal {
	return []core.SavingsGoal{
		{
			ID:            "6aa7cfd8-de7b-4b9e-ef68-7ccafd9ebbd7",
			Name:          "New Laptop",
			TargetAmount:  amount("1200"),
			CurrentAmount: amount("450"),
			Deadline:      core.NewDate(2024, 6, 30),
			CreatedAt:     seedTime(2024, 1, 1),
		},
		{
			ID:            "7bb8dae9-ef8c-4caf-fa79-8ddbaeafcce8",
			Name:          "Emergency Fund",
			TargetAmount:  amount("500"),
			CurrentAmount: amount("320"),
			Deadline:      core.NewDate(2024, 4, 30),
			CreatedAt:     seedTime(2024, 1, 1),
		},
		{
			ID:            "8cc9ebfa-fa9d-4dba-ab8a-9eecbfbaddf9",
			Name:          "Spring Break Trip",
			TargetAmount:  amount("800"),
			CurrentAmount: amount("200"),
			Deadline:      core.NewDate(2024, 3, 15),
			CreatedAt:     seedTime(2024, 1, 1),
		},
	}
}

func seedBudgets() []core.Budget {
	return []core.Budget{
		{
			ID:        "9ddafcab-ab1e-4ecb-bc9b-affdcacbeefa",
			Name:      "Monthly allowance",
			Amount:    amount("1200"),
			Period:    core.Monthly,
			StartDate: core.NewDate(2024, 1, 1),
			EndDate:   core.NewDate(2024, 1, 31),
			IsActive:  true,
		},
	}
}
