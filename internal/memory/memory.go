// Package memory provides an in-memory implementation of the backend
// collaborator. It is the fallback when no Dirav server is reachable
// and the fixture backend for tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dirav/internal/api"
	"dirav/internal/core"
)

var (
	ErrInvalidCredentials = errors.New("email and password are required")
	ErrNotFound           = errors.New("not found")
)

type Store struct {
	mu           sync.Mutex
	token        string
	accounts     []core.Account
	transactions []core.Transaction
	goals        []core.SavingsGoal
	budgets      []core.Budget
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// NewSeeded creates a store preloaded with the demo dataset.
func NewSeeded() *Store {
	s := New()
	s.accounts = seedAccounts()
	s.transactions = seedTransactions()
	s.goals = seedGoals()
	s.budgets = seedBudgets()
	return s
}

// Login accepts any non-empty credentials and mints a mock token.
func (s *Store) Login(_ context.Context, c api.Credentials) (api.Session, error) {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return api.Session{}, ErrInvalidCredentials
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = "mock-token-" + uuid.NewString()
	return api.Session{
		Token:     s.token,
		UserID:    seedUserID,
		Email:     c.Email,
		FirstName: "Demo",
		LastName:  "User",
	}, nil
}

// Register behaves like Login but keeps the supplied name.
func (s *Store) Register(_ context.Context, p api.Profile) (api.Session, error) {
	if strings.TrimSpace(p.Email) == "" || p.Password == "" {
		return api.Session{}, ErrInvalidCredentials
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = "mock-token-" + uuid.NewString()
	return api.Session{
		Token:     s.token,
		UserID:    seedUserID,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
	}, nil
}

// ClearSession implements api.Authenticator.
func (s *Store) ClearSession() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// Health implements api.Pinger.
func (s *Store) Health(_ context.Context) error {
	return nil
}

// ListAccounts implements api.AccountStore.
func (s *Store) ListAccounts(_ context.Context) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Account(nil), s.accounts...), nil
}

// CreateAccount implements api.AccountStore.
func (s *Store) CreateAccount(_ context.Context, in core.AccountInput) (core.Account, error) {
	if err := in.Validate(); err != nil {
		return core.Account{}, err
	}
	a := core.Account{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Type:      in.Type,
		Balance:   decimal.Zero,
		Currency:  in.Currency,
		IsPrimary: in.IsPrimary,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.accounts = append(s.accounts, a)
	s.mu.Unlock()
	return a, nil
}

// GetAccount implements api.AccountStore.
func (s *Store) GetAccount(_ context.Context, id string) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return core.Account{}, ErrNotFound
}

// UpdateAccount implements api.AccountStore. Balance is owned by the
// backend and is not touched by updates.
func (s *Store) UpdateAccount(_ context.Context, id string, in core.AccountInput) (core.Account, error) {
	if err := in.Validate(); err != nil {
		return core.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			s.accounts[i].Name = in.Name
			s.accounts[i].Type = in.Type
			s.accounts[i].Currency = in.Currency
			s.accounts[i].IsPrimary = in.IsPrimary
			return s.accounts[i], nil
		}
	}
	return core.Account{}, ErrNotFound
}

// DeleteAccount implements api.AccountStore.
func (s *Store) DeleteAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.accounts {
		if a.ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// ListTransactions implements api.TransactionStore. Results come back
// newest first, matching the real backend's ordering.
func (s *Store) ListTransactions(_ context.Context, f api.TransactionFilter) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// CreateTransaction implements api.TransactionStore.
func (s *Store) CreateTransaction(_ context.Context, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t := core.Transaction{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Amount:    in.Amount,
		Type:      in.Type,
		Category:  in.Category,
		Date:      in.Date,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.transactions = append(s.transactions, t)
	s.mu.Unlock()
	return t, nil
}

// GetTransaction implements api.TransactionStore.
func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, ErrNotFound
}

// UpdateTransaction implements api.TransactionStore.
func (s *Store) UpdateTransaction(_ context.Context, id string, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions[i].Title = in.Title
			s.transactions[i].Amount = in.Amount
			s.transactions[i].Type = in.Type
			s.transactions[i].Category = in.Category
			s.transactions[i].Date = in.Date
			return s.transactions[i], nil
		}
	}
	return core.Transaction{}, ErrNotFound
}

// DeleteTransaction implements api.TransactionStore.
func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.transactions {
		if t.ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// ListGoals implements api.SavingsStore.
func (s *Store) ListGoals(_ context.Context) ([]core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.SavingsGoal(nil), s.goals...), nil
}

// CreateGoal implements api.SavingsStore.
func (s *Store) CreateGoal(_ context.Context, in core.GoalInput) (core.SavingsGoal, error) {
	if err := in.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	g := core.SavingsGoal{
		ID:            uuid.NewString(),
		Name:          in.Name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      in.Deadline,
		CreatedAt:     time.Now().UTC(),
	}
	s.mu.Lock()
	s.goals = append(s.goals, g)
	s.mu.Unlock()
	return g, nil
}

// GetGoal implements api.SavingsStore.
func (s *Store) GetGoal(_ context.Context, id string) (core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.goals {
		if g.ID == id {
			return g, nil
		}
	}
	return core.SavingsGoal{}, ErrNotFound
}

// UpdateGoal implements api.SavingsStore. CurrentAmount only moves
// through Contribute.
func (s *Store) UpdateGoal(_ context.Context, id string, in core.GoalInput) (core.SavingsGoal, error) {
	if err := in.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID == id {
			s.goals[i].Name = in.Name
			s.goals[i].TargetAmount = in.TargetAmount
			s.goals[i].Deadline = in.Deadline
			return s.goals[i], nil
		}
	}
	return core.SavingsGoal{}, ErrNotFound
}

// Contribute implements api.SavingsStore.
func (s *Store) Contribute(_ context.Context, id string, amount decimal.Decimal) (core.SavingsGoal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return core.SavingsGoal{}, core.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID == id {
			s.goals[i].CurrentAmount = s.goals[i].CurrentAmount.Add(amount)
			return s.goals[i], nil
		}
	}
	return core.SavingsGoal{}, ErrNotFound
}

// DeleteGoal implements api.SavingsStore.
func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.goals {
		if g.ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// ListBudgets implements api.BudgetStore.
func (s *Store) ListBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Budget(nil), s.budgets...), nil
}

// CreateBudget implements api.BudgetStore.
func (s *Store) CreateBudget(_ context.Context, in core.BudgetInput) (core.Budget, error) {
	if err := in.Validate(); err != nil {
		return core.Budget{}, err
	}
	b := core.Budget{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Amount:    in.Amount,
		Period:    in.Period,
		Category:  in.Category,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		IsActive:  in.IsActive,
	}
	s.mu.Lock()
	s.budgets = append(s.budgets, b)
	s.mu.Unlock()
	return b, nil
}

// GetBudget implements api.BudgetStore.
func (s *Store) GetBudget(_ context.Context, id string) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.budgets {
		if b.ID == id {
			return b, nil
		}
	}
	return core.Budget{}, ErrNotFound
}

// UpdateBudget implements api.BudgetStore.
func (s *Store) UpdateBudget(_ context.Context, id string, in core.BudgetInput) (core.Budget, error) {
	if err := in.Validate(); err != nil {
		return core.Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].ID == id {
			s.budgets[i].Name = in.Name
			s.budgets[i].Amount = in.Amount
			s.budgets[i].Period = in.Period
			s.budgets[i].Category = in.Category
			s.budgets[i].StartDate = in.StartDate
			s.budgets[i].EndDate = in.EndDate
			s.budgets[i].IsActive = in.IsActive
			return s.budgets[i], nil
		}
	}
	return core.Budget{}, ErrNotFound
}

// DeleteBudget implements api.BudgetStore.
func (s *Store) DeleteBudget(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.budgets {
		if b.ID == id {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// BudgetProgress implements api.BudgetStore. Spending is computed from
// the stored expense transactions within the budget window.
func (s *Store) BudgetProgress(_ context.Context, id string) (api.BudgetProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.budgets {
		if b.ID != id {
			continue
		}
		spent := decimal.Zero
		for _, t := range s.transactions {
			if t.Type != core.Expense {
				continue
			}
			if t.Date.Before(b.StartDate.Time) {
				continue
			}
			if !b.EndDate.IsZero() && t.Date.After(b.EndDate.Time) {
				continue
			}
			spent = spent.Add(t.Amount)
		}
		return api.BudgetProgress{
			BudgetID:  b.ID,
			Spent:     spent,
			Remaining: b.Amount.Sub(spent),
			AsOf:      time.Now().UTC(),
		}, nil
	}
	return api.BudgetProgress{}, ErrNotFound
}
