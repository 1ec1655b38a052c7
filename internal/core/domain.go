package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Weekly  BudgetPeriod = "weekly"
	Monthly BudgetPeriod = "monthly"
)

type (
	TransactionType string
	BudgetPeriod    string

	Date struct {
		time.Time
	}

	// Account is a read-only cached copy of a backend account.
	Account struct {
		ID        string
		Name      string
		Type      string
		Balance   decimal.Decimal
		Currency  string
		IsPrimary bool
		CreatedAt time.Time
	}

	// Transaction amounts are always stored positive; the sign is
	// implied by Type. Transactions are never mutated in place.
	Transaction struct {
		ID        string
		Title     string
		Amount    decimal.Decimal
		Type      TransactionType
		Category  string
		Date      Date
		CreatedAt time.Time
	}

	SavingsGoal struct {
		ID            string
		Name          string
		TargetAmount  decimal.Decimal
		CurrentAmount decimal.Decimal
		Deadline      Date
		CreatedAt     time.Time
	}

	Budget struct {
		ID        string
		Name      string
		Amount    decimal.Decimal
		Period    BudgetPeriod
		Category  string
		StartDate Date
		EndDate   Date
		IsActive  bool
	}

	TransactionInput struct {
		Title    string
		Amount   decimal.Decimal
		Type     TransactionType
		Category string
		Date     Date
	}

	GoalInput struct {
		Name         string
		TargetAmount decimal.Decimal
		Deadline     Date
	}

	AccountInput struct {
		Name      string
		Type      string
		Currency  string
		IsPrimary bool
	}

	BudgetInput struct {
		Name      string
		Amount    decimal.Decimal
		Period    BudgetPeriod
		Category  string
		StartDate Date
		EndDate   Date
		IsActive  bool
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyTitle    = errors.New("empty title")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidPeriod = errors.New("invalid budget period")
	ErrInvalidDate   = errors.New("invalid date")
)

// dateLayout is the wire format for dates (ISO date without time).
const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date in UTC, truncated to midnight.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses an ISO date string (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

func (p BudgetPeriod) IsValid() bool {
	switch p {
	case Weekly, Monthly:
		return true
	default:
		return false
	}
}

// Signed returns the transaction's effect on a balance: +Amount for
// income, -Amount for expense.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Completed reports whether the goal has reached its target.
func (g SavingsGoal) Completed() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// Progress returns the goal's completion ratio clamped to [0, 1].
func (g SavingsGoal) Progress() float64 {
	if g.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	ratio, _ := g.CurrentAmount.Div(g.TargetAmount).Float64()
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

func (in TransactionInput) Validate() error {
	if len(strings.TrimSpace(in.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(in.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if !in.Type.IsValid() {
		return ErrInvalidType
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if err := in.Date.Validate(); err != nil {
		return err
	}
	return nil
}

func (in GoalInput) Validate() error {
	if len(strings.TrimSpace(in.Name)) == 0 {
		return ErrEmptyTitle
	}
	if in.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	// Deadline is optional; validate only when set.
	if !in.Deadline.IsZero() {
		if err := in.Deadline.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (in AccountInput) Validate() error {
	if len(strings.TrimSpace(in.Name)) == 0 {
		return ErrEmptyTitle
	}
	return nil
}

func (in BudgetInput) Validate() error {
	if len(strings.TrimSpace(in.Name)) == 0 {
		return ErrEmptyTitle
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if !in.Period.IsValid() {
		return ErrInvalidPeriod
	}
	if err := in.StartDate.Validate(); err != nil {
		return err
	}
	// EndDate is optional for open-ended budgets.
	if !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate.Time) {
		return ErrInvalidDate
	}
	return nil
}
