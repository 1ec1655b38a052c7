package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"dirav/internal/api"
	"dirav/internal/core"
)

func TestLoginRequiresCredentials(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.Login(ctx, api.Credentials{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("empty credentials: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := s.Login(ctx, api.Credentials{Email: "  ", Password: "pw"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("blank email: got %v, want ErrInvalidCredentials", err)
	}

	session, err := s.Login(ctx, api.Credentials{Email: "ana@uni.edu", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Token == "" {
		t.Error("expected a minted token")
	}
	if session.Email != "ana@uni.edu" {
		t.Errorf("session email = %s", session.Email)
	}
}

func TestSeededDataset(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	if got := core.TotalBalance(accounts); !got.Equal(decimal.RequireFromString("2275")) {
		t.Errorf("seed balance = %s, want 2275", got)
	}

	goals, err := s.ListGoals(ctx)
	if err != nil {
		t.Fatalf("list goals: %v", err)
	}
	if got := core.TotalSavings(goals); !got.Equal(decimal.RequireFromString("970")) {
		t.Errorf("seed savings = %s, want 970", got)
	}

	budgets, err := s.ListBudgets(ctx)
	if err != nil {
		t.Fatalf("list budgets: %v", err)
	}
	if allowance, ok := core.ActiveMonthlyAllowance(budgets); !ok || !allowance.Equal(decimal.RequireFromString("1200")) {
		t.Errorf("seed allowance = %s (ok=%v), want 1200", allowance, ok)
	}
}

func TestListTransactionsOrderingAndFilter(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	all, err := s.ListTransactions(ctx, api.TransactionFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 1; i < len(all); i++ {
		if all[i].Date.After(all[i-1].Date.Time) {
			t.Fatalf("transactions not newest first: %s before %s",
				all[i-1].Date, all[i].Date)
		}
	}

	expenses, err := s.ListTransactions(ctx, api.TransactionFilter{Type: core.Expense})
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	for _, tx := range expenses {
		if tx.Type != core.Expense {
			t.Errorf("filter leaked %s transaction %q", tx.Type, tx.Title)
		}
	}

	limited, err := s.ListTransactions(ctx, api.TransactionFilter{Limit: 2})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit 2 returned %d transactions", len(limited))
	}
}

func TestCreateAndDeleteTransaction(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateTransaction(ctx, core.TransactionInput{
		Title:  "Tutoring",
		Amount: decimal.RequireFromString("200"),
		Type:   core.Income,
		Date:   core.NewDate(2025, 10, 7),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an assigned id")
	}

	if err := s.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteTransaction(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestCreateTransactionValidates(t *testing.T) {
	s := New()
	_, err := s.CreateTransaction(context.Background(), core.TransactionInput{
		Title:  "",
		Amount: decimal.RequireFromString("10"),
		Type:   core.Expense,
		Date:   core.NewDate(2025, 10, 1),
	})
	if !errors.Is(err, core.ErrEmptyTitle) {
		t.Errorf("got %v, want ErrEmptyTitle", err)
	}
}

func TestContribute(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	goals, _ := s.ListGoals(ctx)
	target := goals[0]

	updated, err := s.Contribute(ctx, target.ID, decimal.RequireFromString("50"))
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	want := target.CurrentAmount.Add(decimal.RequireFromString("50"))
	if !updated.CurrentAmount.Equal(want) {
		t.Errorf("current = %s, want %s", updated.CurrentAmount, want)
	}

	if _, err := s.Contribute(ctx, target.ID, decimal.Zero); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("zero contribution: got %v, want ErrInvalidAmount", err)
	}
	if _, err := s.Contribute(ctx, "missing", decimal.RequireFromString("10")); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown goal: got %v, want ErrNotFound", err)
	}
}

func TestAccountLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateAccount(ctx, core.AccountInput{Name: "Checking", Type: "checking", Currency: "USD", IsPrimary: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.Balance.IsZero() {
		t.Errorf("new account balance = %s, want 0", created.Balance)
	}

	got, err := s.GetAccount(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Checking" || !got.IsPrimary {
		t.Errorf("get returned %+v", got)
	}

	updated, err := s.UpdateAccount(ctx, created.ID, core.AccountInput{Name: "Everyday", Type: "checking", Currency: "USD"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Everyday" || updated.IsPrimary {
		t.Errorf("update returned %+v", updated)
	}

	if err := s.DeleteAccount(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetAccount(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: got %v, want ErrNotFound", err)
	}

	if _, err := s.CreateAccount(ctx, core.AccountInput{Name: "  "}); !errors.Is(err, core.ErrEmptyTitle) {
		t.Errorf("blank name: got %v, want ErrEmptyTitle", err)
	}
}

func TestGetAndUpdateTransaction(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	all, _ := s.ListTransactions(ctx, api.TransactionFilter{})
	target := all[0]

	got, err := s.GetTransaction(ctx, target.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != target.Title {
		t.Errorf("get returned %q, want %q", got.Title, target.Title)
	}

	updated, err := s.UpdateTransaction(ctx, target.ID, core.TransactionInput{
		Title:  "Used textbooks",
		Amount: decimal.RequireFromString("95"),
		Type:   core.Expense,
		Date:   target.Date,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Used textbooks" || !updated.Amount.Equal(decimal.RequireFromString("95")) {
		t.Errorf("update returned %+v", updated)
	}

	if _, err := s.GetTransaction(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: got %v, want ErrNotFound", err)
	}
	if _, err := s.UpdateTransaction(ctx, target.ID, core.TransactionInput{}); err == nil {
		t.Error("invalid update input accepted")
	}
}

func TestGetAndUpdateGoal(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	goals, _ := s.ListGoals(ctx)
	target := goals[0]

	got, err := s.GetGoal(ctx, target.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != target.Name {
		t.Errorf("get returned %q, want %q", got.Name, target.Name)
	}

	updated, err := s.UpdateGoal(ctx, target.ID, core.GoalInput{
		Name:         "Refurbished Laptop",
		TargetAmount: decimal.RequireFromString("900"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Refurbished Laptop" {
		t.Errorf("update returned %+v", updated)
	}
	if !updated.CurrentAmount.Equal(target.CurrentAmount) {
		t.Errorf("update changed CurrentAmount: %s", updated.CurrentAmount)
	}

	if _, err := s.GetGoal(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: got %v, want ErrNotFound", err)
	}
}

func TestBudgetLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateBudget(ctx, core.BudgetInput{
		Name:      "Semester budget",
		Amount:    decimal.RequireFromString("1000"),
		Period:    core.Monthly,
		StartDate: core.NewDate(2025, 9, 1),
		EndDate:   core.NewDate(2025, 12, 31),
		IsActive:  true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetBudget(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Semester budget" || !got.IsActive {
		t.Errorf("get returned %+v", got)
	}

	updated, err := s.UpdateBudget(ctx, created.ID, core.BudgetInput{
		Name:      "Semester budget",
		Amount:    decimal.RequireFromString("1100"),
		Period:    core.Monthly,
		StartDate: created.StartDate,
		EndDate:   created.EndDate,
		IsActive:  false,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.IsActive || !updated.Amount.Equal(decimal.RequireFromString("1100")) {
		t.Errorf("update returned %+v", updated)
	}

	if err := s.DeleteBudget(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetBudget(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: got %v, want ErrNotFound", err)
	}

	endBeforeStart := core.BudgetInput{
		Name:      "Backwards",
		Amount:    decimal.RequireFromString("100"),
		Period:    core.Weekly,
		StartDate: core.NewDate(2025, 10, 1),
		EndDate:   core.NewDate(2025, 9, 1),
	}
	if _, err := s.CreateBudget(ctx, endBeforeStart); !errors.Is(err, core.ErrInvalidDate) {
		t.Errorf("end before start: got %v, want ErrInvalidDate", err)
	}
}

func TestBudgetProgress(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	budgets, _ := s.ListBudgets(ctx)
	progress, err := s.BudgetProgress(ctx, budgets[0].ID)
	if err != nil {
		t.Fatalf("budget progress: %v", err)
	}

	// Seed expenses within January 2024: 45 + 120 + 80 + 150.
	wantSpent := decimal.RequireFromString("395")
	if !progress.Spent.Equal(wantSpent) {
		t.Errorf("spent = %s, want %s", progress.Spent, wantSpent)
	}
	if !progress.Remaining.Equal(budgets[0].Amount.Sub(wantSpent)) {
		t.Errorf("remaining = %s", progress.Remaining)
	}

	if _, err := s.BudgetProgress(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown budget: got %v, want ErrNotFound", err)
	}
}
