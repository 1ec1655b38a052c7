// Package storage persists the last reconciled snapshot to a local
// SQLite database so the app has data to show before the first
// successful refetch, or with no server reachable at all. Amounts are
// stored as decimal strings; SQLite floats would lose precision.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"dirav/internal/core"

	_ "modernc.org/sqlite"
)

type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(dbPath string) (*SnapshotRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SnapshotRepository{db: db}, nil
}

func (r *SnapshotRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveSnapshot replaces the stored snapshot atomically.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, snap core.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"snapshot_meta", "accounts", "transactions", "savings_goals", "budgets"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshot_meta (id, balance, savings, monthly_allowance, saved_at) VALUES (1, ?, ?, ?, ?)`,
		snap.Balance.String(), snap.Savings.String(), snap.MonthlyAllowance.String(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert snapshot meta: %w", err)
	}

	for _, a := range snap.Accounts {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO accounts (id, name, type, balance, currency, is_primary, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Name, a.Type, a.Balance.String(), a.Currency, boolToInt(a.IsPrimary), a.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
	}

	// Position preserves the newest-first ordering across reload.
	for i, t := range snap.Transactions {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO transactions (id, position, title, amount, type, category, date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, i, t.Title, t.Amount.String(), string(t.Type), t.Category, t.Date.String(), t.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
	}

	for _, g := range snap.SavingsGoals {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO savings_goals (id, name, target_amount, current_amount, deadline, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			g.ID, g.Name, g.TargetAmount.String(), g.CurrentAmount.String(), g.Deadline.String(), g.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert savings goal: %w", err)
		}
	}

	for _, b := range snap.Budgets {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO budgets (id, name, amount, period, category, start_date, end_date, is_active) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, b.Name, b.Amount.String(), string(b.Period), b.Category, b.StartDate.String(), b.EndDate.String(), boolToInt(b.IsActive))
		if err != nil {
			return fmt.Errorf("insert budget: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot persisted",
		"accounts", len(snap.Accounts),
		"transactions", len(snap.Transactions),
		"goals", len(snap.SavingsGoals),
		"budgets", len(snap.Budgets))
	return nil
}

// LoadSnapshot returns the stored snapshot. The second return is false
// when nothing has been persisted yet.
func (r *SnapshotRepository) LoadSnapshot(ctx context.Context) (core.Snapshot, bool, error) {
	var snap core.Snapshot
	var balance, savings, allowance string

	err := r.db.QueryRowContext(ctx,
		`SELECT balance, savings, monthly_allowance FROM snapshot_meta WHERE id = 1`).
		Scan(&balance, &savings, &allowance)
	if err == sql.ErrNoRows {
		return core.Snapshot{}, false, nil
	}
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("read snapshot meta: %w", err)
	}

	if snap.Balance, err = decimal.NewFromString(balance); err != nil {
		return core.Snapshot{}, false, fmt.Errorf("parse balance: %w", err)
	}
	if snap.Savings, err = decimal.NewFromString(savings); err != nil {
		return core.Snapshot{}, false, fmt.Errorf("parse savings: %w", err)
	}
	if snap.MonthlyAllowance, err = decimal.NewFromString(allowance); err != nil {
		return core.Snapshot{}, false, fmt.Errorf("parse monthly allowance: %w", err)
	}

	if snap.Accounts, err = r.loadAccounts(ctx); err != nil {
		return core.Snapshot{}, false, err
	}
	if snap.Transactions, err = r.loadTransactions(ctx); err != nil {
		return core.Snapshot{}, false, err
	}
	if snap.SavingsGoals, err = r.loadGoals(ctx); err != nil {
		return core.Snapshot{}, false, err
	}
	if snap.Budgets, err = r.loadBudgets(ctx); err != nil {
		return core.Snapshot{}, false, err
	}

	return snap, true, nil
}

// Clear removes the stored snapshot. Used on logout.
func (r *SnapshotRepository) Clear(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"snapshot_meta", "accounts", "transactions", "savings_goals", "budgets"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func (r *SnapshotRepository) loadAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type, balance, currency, is_primary, created_at FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		var balance string
		var isPrimary int
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &balance, &a.Currency, &isPrimary, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		if a.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("parse account balance: %w", err)
		}
		a.IsPrimary = isPrimary != 0
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SnapshotRepository) loadTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, amount, type, category, date, created_at FROM transactions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var amount, typ, date string
		if err := rows.Scan(&t.ID, &t.Title, &amount, &typ, &t.Category, &date, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse transaction amount: %w", err)
		}
		t.Type = core.TransactionType(typ)
		if date != "" {
			if t.Date, err = core.ParseDate(date); err != nil {
				return nil, fmt.Errorf("parse transaction date: %w", err)
			}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SnapshotRepository) loadGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_amount, current_amount, deadline, created_at FROM savings_goals`)
	if err != nil {
		return nil, fmt.Errorf("query savings goals: %w", err)
	}
	defer rows.Close()

	var out []core.SavingsGoal
	for rows.Next() {
		var g core.SavingsGoal
		var target, current, deadline string
		if err := rows.Scan(&g.ID, &g.Name, &target, &current, &deadline, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan savings goal: %w", err)
		}
		if g.TargetAmount, err = decimal.NewFromString(target); err != nil {
			return nil, fmt.Errorf("parse target amount: %w", err)
		}
		if g.CurrentAmount, err = decimal.NewFromString(current); err != nil {
			return nil, fmt.Errorf("parse current amount: %w", err)
		}
		if deadline != "" {
			if g.Deadline, err = core.ParseDate(deadline); err != nil {
				return nil, fmt.Errorf("parse deadline: %w", err)
			}
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SnapshotRepository) loadBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, amount, period, category, start_date, end_date, is_active FROM budgets`)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		var amount, period, start, end string
		var isActive int
		if err := rows.Scan(&b.ID, &b.Name, &amount, &period, &b.Category, &start, &end, &isActive); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		if b.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse budget amount: %w", err)
		}
		b.Period = core.BudgetPeriod(period)
		if start != "" {
			if b.StartDate, err = core.ParseDate(start); err != nil {
				return nil, fmt.Errorf("parse start date: %w", err)
			}
		}
		if end != "" {
			if b.EndDate, err = core.ParseDate(end); err != nil {
				return nil, fmt.Errorf("parse end date: %w", err)
			}
		}
		b.IsActive = isActive != 0
		out = append(out, b)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
