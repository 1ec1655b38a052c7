package api

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"dirav/internal/core"
)

// Ports for the remote collaborator. The finances store only ever talks
// to the backend of record through these.
type (
	Credentials struct {
		Email    string
		Password string
	}

	Profile struct {
		Email     string
		Password  string
		FirstName string
		LastName  string
	}

	// Session is what a successful authentication yields. Token is an
	// opaque bearer string held by the adapter, not by callers.
	Session struct {
		Token     string
		UserID    string
		Email     string
		FirstName string
		LastName  string
	}

	TransactionFilter struct {
		Type  core.TransactionType // empty means both
		Limit int                  // 0 means no limit
	}

	BudgetProgress struct {
		BudgetID  string
		Spent     decimal.Decimal
		Remaining decimal.Decimal
		AsOf      time.Time
	}

	Authenticator interface {
		Register(ctx context.Context, p Profile) (Session, error)
		Login(ctx context.Context, c Credentials) (Session, error)
		// ClearSession drops the held bearer token. Safe to call when
		// no session exists.
		ClearSession()
	}

	AccountStore interface {
		ListAccounts(ctx context.Context) ([]core.Account, error)
		CreateAccount(ctx context.Context, in core.AccountInput) (core.Account, error)
		GetAccount(ctx context.Context, id string) (core.Account, error)
		UpdateAccount(ctx context.Context, id string, in core.AccountInput) (core.Account, error)
		DeleteAccount(ctx context.Context, id string) error
	}

	TransactionStore interface {
		ListTransactions(ctx context.Context, f TransactionFilter) ([]core.Transaction, error)
		CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, id string, in core.TransactionInput) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) error
	}

	SavingsStore interface {
		ListGoals(ctx context.Context) ([]core.SavingsGoal, error)
		CreateGoal(ctx context.Context, in core.GoalInput) (core.SavingsGoal, error)
		GetGoal(ctx context.Context, id string) (core.SavingsGoal, error)
		UpdateGoal(ctx context.Context, id string, in core.GoalInput) (core.SavingsGoal, error)
		Contribute(ctx context.Context, id string, amount decimal.Decimal) (core.SavingsGoal, error)
		DeleteGoal(ctx context.Context, id string) error
	}

	BudgetStore interface {
		ListBudgets(ctx context.Context) ([]core.Budget, error)
		CreateBudget(ctx context.Context, in core.BudgetInput) (core.Budget, error)
		GetBudget(ctx context.Context, id string) (core.Budget, error)
		UpdateBudget(ctx context.Context, id string, in core.BudgetInput) (core.Budget, error)
		DeleteBudget(ctx context.Context, id string) error
		BudgetProgress(ctx context.Context, id string) (BudgetProgress, error)
	}

	Pinger interface {
		Health(ctx context.Context) error
	}
)

