// Package finances owns the cached snapshot of the authenticated user's
// financial data. It derives balance, savings and allowance totals,
// applies optimistic mutations for instant feedback, and reconciles
// with the backend of record through full refetches.
package finances

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"dirav/internal/api"
	"dirav/internal/backend"
	"dirav/internal/core"
	"dirav/internal/log"
)

var (
	// ErrNotAuthenticated is returned by mutating operations while
	// logged out. The guarded call leaves all cached state untouched.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNonPositiveAmount rejects contributions with amount <= 0.
	// A goal's current amount only ever grows client-side.
	ErrNonPositiveAmount = errors.New("contribution amount must be positive")
)

// SnapshotRepository persists the last reconciled snapshot so the app
// can show data before the first successful refetch.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, snap core.Snapshot) error
	LoadSnapshot(ctx context.Context) (core.Snapshot, bool, error)
	Clear(ctx context.Context) error
}

// MutationPublisher announces reconciled mutations to other shells
// sharing the account. Implementations must be safe to skip: a nil
// publisher disables events entirely.
type MutationPublisher interface {
	PublishMutation(ctx context.Context, entity, action, id string) error
}

// Store is the single owner of the cached financial state. All writes
// go through its operations; readers take Snapshot copies.
type Store struct {
	backend   backend.Backend
	snapshots SnapshotRepository
	events    MutationPublisher
	logger    *log.Logger

	mu            sync.Mutex
	generation    uint64
	loading       bool
	lastErr       error
	authenticated bool
	session       api.Session

	balance          decimal.Decimal
	savings          decimal.Decimal
	monthlyAllowance decimal.Decimal
	accounts         []core.Account
	transactions     []core.Transaction // newest first
	goals            []core.SavingsGoal
	budgets          []core.Budget
}

// Option configures a Store.
type Option func(*Store)

// WithSnapshotRepository attaches offline snapshot persistence.
func WithSnapshotRepository(repo SnapshotRepository) Option {
	return func(s *Store) { s.snapshots = repo }
}

// WithPublisher attaches a mutation event publisher.
func WithPublisher(p MutationPublisher) Option {
	return func(s *Store) { s.events = p }
}

// WithLogger replaces the default logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l.WithComponent(log.ComponentFinances)
		}
	}
}

// NewStore creates a finances store bound to the given backend.
func NewStore(b backend.Backend, opts ...Option) *Store {
	s := &Store{
		backend:          b,
		logger:           log.New(log.Config{Component: log.ComponentFinances}),
		balance:          decimal.Zero,
		savings:          decimal.Zero,
		monthlyAllowance: decimal.Zero,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsLoading reports whether a refetch cycle is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last recorded error, nil when the previous operation
// succeeded.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// IsAuthenticated reports whether a session is active.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Session returns the active session, zero when logged out.
func (s *Store) Session() api.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Snapshot returns a copy of the cached state. The copy is safe to keep
// across subsequent mutations.
func (s *Store) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() core.Snapshot {
	return core.Snapshot{
		Balance:          s.balance,
		Savings:          s.savings,
		MonthlyAllowance: s.monthlyAllowance,
		Accounts:         append([]core.Account(nil), s.accounts...),
		Transactions:     append([]core.Transaction(nil), s.transactions...),
		SavingsGoals:     append([]core.SavingsGoal(nil), s.goals...),
		Budgets:          append([]core.Budget(nil), s.budgets...),
	}
}

// Login authenticates against the backend and triggers a full refetch.
// On failure the store stays logged out and the backend's error is
// recorded and returned.
func (s *Store) Login(ctx context.Context, creds api.Credentials) error {
	session, err := s.backend.Login(ctx, creds)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "Login failed", log.FieldError, err)
		return err
	}

	s.mu.Lock()
	s.authenticated = true
	s.session = session
	s.lastErr = nil
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Logged in", "email", session.Email)
	s.RefetchAll(ctx)
	return nil
}

// Register creates an account, stores the session and refetches.
func (s *Store) Register(ctx context.Context, profile api.Profile) error {
	session, err := s.backend.Register(ctx, profile)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.authenticated = true
	s.session = session
	s.lastErr = nil
	s.mu.Unlock()

	s.RefetchAll(ctx)
	return nil
}

// Logout clears the session and resets all cached collections and
// totals. It never fails; cleanup errors are only logged.
func (s *Store) Logout(ctx context.Context) {
	s.backend.ClearSession()

	s.mu.Lock()
	s.generation++ // invalidate in-flight refetches
	s.authenticated = false
	s.session = api.Session{}
	s.lastErr = nil
	s.loading = false
	s.resetStateLocked()
	s.mu.Unlock()

	if s.snapshots != nil {
		if err := s.snapshots.Clear(ctx); err != nil {
			s.logger.WarnContext(ctx, "Failed to clear offline snapshot", log.FieldError, err)
		}
	}
	s.logger.InfoContext(ctx, "Logged out")
}

func (s *Store) resetStateLocked() {
	s.balance = decimal.Zero
	s.savings = decimal.Zero
	s.monthlyAllowance = decimal.Zero
	s.accounts = nil
	s.transactions = nil
	s.goals = nil
	s.budgets = nil
}

// RefetchAll reconciles the cached state with the backend. The four
// list requests run concurrently and fail independently: a broken
// endpoint leaves its slice of state unchanged and never blocks the
// others. No-op when logged out.
func (s *Store) RefetchAll(ctx context.Context) {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return
	}
	s.generation++
	gen := s.generation
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()

	var (
		accounts     []core.Account
		transactions []core.Transaction
		goals        []core.SavingsGoal
		budgets      []core.Budget

		accountsErr     error
		transactionsErr error
		goalsErr        error
		budgetsErr      error
	)

	// Each fetch records its own outcome and returns nil so one failure
	// cannot cancel the rest.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accounts, accountsErr = s.backend.ListAccounts(gctx)
		return nil
	})
	g.Go(func() error {
		transactions, transactionsErr = s.backend.ListTransactions(gctx, api.TransactionFilter{})
		return nil
	})
	g.Go(func() error {
		goals, goalsErr = s.backend.ListGoals(gctx)
		return nil
	})
	g.Go(func() error {
		budgets, budgetsErr = s.backend.ListBudgets(gctx)
		return nil
	})
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		// A newer refetch or a logout superseded this cycle; the loading
		// flag belongs to the current one.
		s.logger.DebugContext(ctx, "Discarding stale refetch", log.FieldGeneration, gen)
		return
	}
	s.loading = false

	succeeded := 0
	if accountsErr == nil {
		s.accounts = accounts
		s.balance = core.TotalBalance(accounts)
		succeeded++
	} else {
		s.logger.WarnContext(ctx, "Accounts fetch failed", log.FieldError, accountsErr)
	}
	if transactionsErr == nil {
		s.transactions = transactions
		succeeded++
	} else {
		s.logger.WarnContext(ctx, "Transactions fetch failed", log.FieldError, transactionsErr)
	}
	if goalsErr == nil {
		s.goals = goals
		s.savings = core.TotalSavings(goals)
		succeeded++
	} else {
		s.logger.WarnContext(ctx, "Savings goals fetch failed", log.FieldError, goalsErr)
	}
	if budgetsErr == nil {
		s.budgets = budgets
		if allowance, ok := core.ActiveMonthlyAllowance(budgets); ok {
			s.monthlyAllowance = allowance
		}
		succeeded++
	} else {
		s.logger.WarnContext(ctx, "Budgets fetch failed", log.FieldError, budgetsErr)
	}

	if succeeded == 0 {
		// Total failure: keep the cached data, surface one error.
		for _, err := range []error{accountsErr, transactionsErr, goalsErr, budgetsErr} {
			if err != nil {
				s.lastErr = err
				break
			}
		}
		return
	}

	s.persistSnapshotLocked(ctx)
}

// persistSnapshotLocked saves the reconciled state, best effort.
func (s *Store) persistSnapshotLocked(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.SaveSnapshot(ctx, s.snapshotLocked()); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist snapshot", log.FieldError, err)
	}
}

// RestoreSnapshot seeds the cached state from the offline repository.
// The loaded copy is stale by definition and is replaced wholesale by
// the next successful refetch.
func (s *Store) RestoreSnapshot(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	snap, ok, err := s.snapshots.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance = snap.Balance
	s.savings = snap.Savings
	s.monthlyAllowance = snap.MonthlyAllowance
	s.accounts = snap.Accounts
	s.transactions = snap.Transactions
	s.goals = snap.SavingsGoals
	s.budgets = snap.Budgets
	s.logger.InfoContext(ctx, "Restored offline snapshot",
		log.FieldCount, len(snap.Transactions))
	return nil
}

// AddTransaction optimistically prepends the transaction and adjusts
// the balance, then creates it on the backend. Success triggers a
// reconciling refetch; failure rolls the optimistic mutation back and
// returns the error.
func (s *Store) AddTransaction(ctx context.Context, in core.TransactionInput) error {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}

	temp := core.Transaction{
		ID:       "pending-" + uuid.NewString(),
		Title:    in.Title,
		Amount:   in.Amount,
		Type:     in.Type,
		Category: in.Category,
		Date:     in.Date,
	}
	s.transactions = append([]core.Transaction{temp}, s.transactions...)
	s.balance = s.balance.Add(temp.Signed())
	s.mu.Unlock()

	created, err := s.backend.CreateTransaction(ctx, in)
	if err != nil {
		s.mu.Lock()
		s.removeTransactionLocked(temp.ID)
		s.balance = s.balance.Sub(temp.Signed())
		s.lastErr = err
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "Transaction create failed, rolled back",
			log.FieldError, err)
		return err
	}

	s.publish(ctx, "transaction", "created", created.ID)
	s.RefetchAll(ctx)
	return nil
}

// DeleteTransaction removes the transaction locally with the inverse
// balance adjustment, then deletes it on the backend. An id absent from
// the cache is a benign no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}

	idx := -1
	for i, t := range s.transactions {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		// Nothing to reverse.
		s.mu.Unlock()
		return nil
	}
	removed := s.transactions[idx]
	s.transactions = append(s.transactions[:idx:idx], s.transactions[idx+1:]...)
	s.balance = s.balance.Sub(removed.Signed())
	s.mu.Unlock()

	if err := s.backend.DeleteTransaction(ctx, id); err != nil {
		s.mu.Lock()
		// Reinsert at the original position and restore the balance.
		s.transactions = append(s.transactions[:idx:idx],
			append([]core.Transaction{removed}, s.transactions[idx:]...)...)
		s.balance = s.balance.Add(removed.Signed())
		s.lastErr = err
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "Transaction delete failed, rolled back",
			log.FieldTransactionID, id, log.FieldError, err)
		return err
	}

	s.publish(ctx, "transaction", "deleted", id)
	s.RefetchAll(ctx)
	return nil
}

// AddSavingsGoal optimistically appends a goal with a zero current
// amount, then creates it on the backend.
func (s *Store) AddSavingsGoal(ctx context.Context, in core.GoalInput) error {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}

	temp := core.SavingsGoal{
		ID:            "pending-" + uuid.NewString(),
		Name:          in.Name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      in.Deadline,
	}
	s.goals = append(s.goals, temp)
	s.mu.Unlock()

	created, err := s.backend.CreateGoal(ctx, in)
	if err != nil {
		s.mu.Lock()
		s.removeGoalLocked(temp.ID)
		s.lastErr = err
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "Goal create failed, rolled back",
			log.FieldError, err)
		return err
	}

	s.publish(ctx, "goal", "created", created.ID)
	s.RefetchAll(ctx)
	return nil
}

// ContributeToGoal optimistically grows the goal's current amount and
// the savings total, then posts the contribution. Amounts <= 0 are
// rejected before any state change; an unknown goal id is a benign
// no-op.
func (s *Store) ContributeToGoal(ctx context.Context, goalID string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrNonPositiveAmount
	}

	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}

	idx := -1
	for i := range s.goals {
		if s.goals[i].ID == goalID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	s.goals[idx].CurrentAmount = s.goals[idx].CurrentAmount.Add(amount)
	s.savings = s.savings.Add(amount)
	s.mu.Unlock()

	if _, err := s.backend.Contribute(ctx, goalID, amount); err != nil {
		s.mu.Lock()
		for i := range s.goals {
			if s.goals[i].ID == goalID {
				s.goals[i].CurrentAmount = s.goals[i].CurrentAmount.Sub(amount)
				break
			}
		}
		s.savings = s.savings.Sub(amount)
		s.lastErr = err
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "Contribution failed, rolled back",
			log.FieldGoalID, goalID, log.FieldError, err)
		return err
	}

	s.publish(ctx, "goal", "contributed", goalID)
	s.RefetchAll(ctx)
	return nil
}

func (s *Store) removeTransactionLocked(id string) {
	for i, t := range s.transactions {
		if t.ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return
		}
	}
}

func (s *Store) removeGoalLocked(id string) {
	for i, g := range s.goals {
		if g.ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return
		}
	}
}

// publish announces a reconciled mutation. Absence of a publisher or a
// publish failure never affects the mutation itself.
func (s *Store) publish(ctx context.Context, entity, action, id string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishMutation(ctx, entity, action, id); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish mutation event",
			log.FieldEntity, entity, log.FieldAction, action, log.FieldError, err)
	}
}
