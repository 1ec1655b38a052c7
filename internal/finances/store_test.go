package finances

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"dirav/internal/api"
	"dirav/internal/backend"
	"dirav/internal/core"
)

// fakeBackend is an in-memory backend with per-endpoint failure
// injection. Accounts are derived: a single account whose balance is
// the running sum of the stored transactions, so a reconciling refetch
// agrees with what the mutations did.
type fakeBackend struct {
	mu           sync.Mutex
	transactions []core.Transaction // newest first
	goals        []core.SavingsGoal
	budgets      []core.Budget

	loginErr        error
	accountsErr     error
	transactionsErr error
	goalsErr        error
	budgetsErr      error
	createTxErr     error
	deleteTxErr     error
	createGoalErr   error
	contributeErr   error

	deleteCalls     int
	contributeCalls int
	sessionCleared  bool
	nextID          int
}

func (f *fakeBackend) Login(_ context.Context, c api.Credentials) (api.Session, error) {
	if f.loginErr != nil {
		return api.Session{}, f.loginErr
	}
	return api.Session{Token: "token", Email: c.Email, FirstName: "Ana"}, nil
}

func (f *fakeBackend) Register(_ context.Context, p api.Profile) (api.Session, error) {
	if f.loginErr != nil {
		return api.Session{}, f.loginErr
	}
	return api.Session{Token: "token", Email: p.Email, FirstName: p.FirstName}, nil
}

func (f *fakeBackend) ClearSession() {
	f.mu.Lock()
	f.sessionCleared = true
	f.mu.Unlock()
}

func (f *fakeBackend) Health(context.Context) error { return nil }

func (f *fakeBackend) ListAccounts(context.Context) ([]core.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.accountsErr != nil {
		return nil, f.accountsErr
	}
	balance := core.RunningBalance(decimal.Zero, f.transactions)
	return []core.Account{{ID: "acc-1", Name: "Main", Balance: balance}}, nil
}

func (f *fakeBackend) ListTransactions(context.Context, api.TransactionFilter) ([]core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.transactionsErr != nil {
		return nil, f.transactionsErr
	}
	return append([]core.Transaction(nil), f.transactions...), nil
}

func (f *fakeBackend) CreateTransaction(_ context.Context, in core.TransactionInput) (core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createTxErr != nil {
		return core.Transaction{}, f.createTxErr
	}
	f.nextID++
	t := core.Transaction{
		ID:       "tx-" + strconv.Itoa(f.nextID),
		Title:    in.Title,
		Amount:   in.Amount,
		Type:     in.Type,
		Category: in.Category,
		Date:     in.Date,
	}
	f.transactions = append([]core.Transaction{t}, f.transactions...)
	return t, nil
}

func (f *fakeBackend) DeleteTransaction(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteTxErr != nil {
		return f.deleteTxErr
	}
	for i, t := range f.transactions {
		if t.ID == id {
			f.transactions = append(f.transactions[:i], f.transactions[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeBackend) ListGoals(context.Context) ([]core.SavingsGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.goalsErr != nil {
		return nil, f.goalsErr
	}
	return append([]core.SavingsGoal(nil), f.goals...), nil
}

func (f *fakeBackend) CreateGoal(_ context.Context, in core.GoalInput) (core.SavingsGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createGoalErr != nil {
		return core.SavingsGoal{}, f.createGoalErr
	}
	g := core.SavingsGoal{
		ID:            "goal-" + in.Name,
		Name:          in.Name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      in.Deadline,
	}
	f.goals = append(f.goals, g)
	return g, nil
}

func (f *fakeBackend) Contribute(_ context.Context, id string, amount decimal.Decimal) (core.SavingsGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contributeCalls++
	if f.contributeErr != nil {
		return core.SavingsGoal{}, f.contributeErr
	}
	for i := range f.goals {
		if f.goals[i].ID == id {
			f.goals[i].CurrentAmount = f.goals[i].CurrentAmount.Add(amount)
			return f.goals[i], nil
		}
	}
	return core.SavingsGoal{}, errors.New("not found")
}

func (f *fakeBackend) DeleteGoal(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, g := range f.goals {
		if g.ID == id {
			f.goals = append(f.goals[:i], f.goals[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeBackend) ListBudgets(context.Context) ([]core.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.budgetsErr != nil {
		return nil, f.budgetsErr
	}
	return append([]core.Budget(nil), f.budgets...), nil
}

func (f *fakeBackend) BudgetProgress(context.Context, string) (api.BudgetProgress, error) {
	return api.BudgetProgress{}, errors.New("not implemented")
}

// The store only ever lists, creates, deletes and contributes; the rest
// of the collaborator surface is unused here.
func (f *fakeBackend) CreateAccount(context.Context, core.AccountInput) (core.Account, error) {
	return core.Account{}, errors.New("not implemented")
}

func (f *fakeBackend) GetAccount(context.Context, string) (core.Account, error) {
	return core.Account{}, errors.New("not implemented")
}

func (f *fakeBackend) UpdateAccount(context.Context, string, core.AccountInput) (core.Account, error) {
	return core.Account{}, errors.New("not implemented")
}

func (f *fakeBackend) DeleteAccount(context.Context, string) error {
	return errors.New("not implemented")
}

func (f *fakeBackend) GetTransaction(context.Context, string) (core.Transaction, error) {
	return core.Transaction{}, errors.New("not implemented")
}

func (f *fakeBackend) UpdateTransaction(context.Context, string, core.TransactionInput) (core.Transaction, error) {
	return core.Transaction{}, errors.New("not implemented")
}

func (f *fakeBackend) GetGoal(context.Context, string) (core.SavingsGoal, error) {
	return core.SavingsGoal{}, errors.New("not implemented")
}

func (f *fakeBackend) UpdateGoal(context.Context, string, core.GoalInput) (core.SavingsGoal, error) {
	return core.SavingsGoal{}, errors.New("not implemented")
}

func (f *fakeBackend) CreateBudget(context.Context, core.BudgetInput) (core.Budget, error) {
	return core.Budget{}, errors.New("not implemented")
}

func (f *fakeBackend) GetBudget(context.Context, string) (core.Budget, error) {
	return core.Budget{}, errors.New("not implemented")
}

func (f *fakeBackend) UpdateBudget(context.Context, string, core.BudgetInput) (core.Budget, error) {
	return core.Budget{}, errors.New("not implemented")
}

func (f *fakeBackend) DeleteBudget(context.Context, string) error {
	return errors.New("not implemented")
}

// fakeRepo records snapshot persistence calls.
type fakeRepo struct {
	mu     sync.Mutex
	saved  []core.Snapshot
	stored *core.Snapshot
	clears int
}

func (r *fakeRepo) SaveSnapshot(_ context.Context, snap core.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, snap)
	return nil
}

func (r *fakeRepo) LoadSnapshot(context.Context) (core.Snapshot, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stored == nil {
		return core.Snapshot{}, false, nil
	}
	return *r.stored, true, nil
}

func (r *fakeRepo) Clear(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
	return nil
}

// fakePublisher records published mutation events.
type fakePublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (p *fakePublisher) PublishMutation(_ context.Context, entity, action, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, entity+"/"+action)
	return p.err
}

func mustAmount(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seededBackend(t *testing.T) *fakeBackend {
	t.Helper()
	return &fakeBackend{
		goals: []core.SavingsGoal{
			{ID: "g1", Name: "Laptop", TargetAmount: mustAmount(t, "1200"), CurrentAmount: mustAmount(t, "450")},
			{ID: "g2", Name: "Emergency", TargetAmount: mustAmount(t, "500"), CurrentAmount: mustAmount(t, "320")},
		},
		budgets: []core.Budget{
			{ID: "b1", Name: "Weekly food", Amount: mustAmount(t, "300"), Period: core.Weekly, IsActive: true},
			{ID: "b2", Name: "Monthly", Amount: mustAmount(t, "1200"), Period: core.Monthly, IsActive: true},
		},
	}
}

func loggedInStore(t *testing.T, b backend.Backend, opts ...Option) *Store {
	t.Helper()
	s := NewStore(b, opts...)
	require.NoError(t, s.Login(context.Background(), api.Credentials{Email: "ana@uni.edu", Password: "pw"}))
	return s
}

func TestLoginRefetchesState(t *testing.T) {
	b := seededBackend(t)
	s := loggedInStore(t, b)

	require.True(t, s.IsAuthenticated())
	require.Equal(t, "Ana", s.Session().FirstName)
	require.False(t, s.IsLoading())
	require.NoError(t, s.Err())

	snap := s.Snapshot()
	require.True(t, snap.Savings.Equal(mustAmount(t, "770")), "savings = %s", snap.Savings)
	require.True(t, snap.MonthlyAllowance.Equal(mustAmount(t, "1200")), "allowance = %s", snap.MonthlyAllowance)
	require.Len(t, snap.SavingsGoals, 2)
}

func TestLoginFailureStaysLoggedOut(t *testing.T) {
	wantErr := errors.New("invalid credentials")
	b := &fakeBackend{loginErr: wantErr}
	s := NewStore(b)

	err := s.Login(context.Background(), api.Credentials{Email: "x", Password: "y"})
	require.ErrorIs(t, err, wantErr)
	require.False(t, s.IsAuthenticated())
	require.ErrorIs(t, s.Err(), wantErr)
}

func TestAddThenDeleteRestoresBalance(t *testing.T) {
	ctx := context.Background()
	s := loggedInStore(t, &fakeBackend{})

	require.NoError(t, s.AddTransaction(ctx, core.TransactionInput{
		Title:  "Allowance",
		Amount: mustAmount(t, "3000"),
		Type:   core.Income,
		Date:   core.NewDate(2025, 10, 1),
	}))
	snap := s.Snapshot()
	require.True(t, snap.Balance.Equal(mustAmount(t, "3000")), "balance = %s", snap.Balance)
	require.Len(t, snap.Transactions, 1)

	require.NoError(t, s.AddTransaction(ctx, core.TransactionInput{
		Title:  "Books",
		Amount: mustAmount(t, "150"),
		Type:   core.Expense,
		Date:   core.NewDate(2025, 10, 3),
	}))
	snap = s.Snapshot()
	require.True(t, snap.Balance.Equal(mustAmount(t, "2850")), "balance = %s", snap.Balance)
	require.Len(t, snap.Transactions, 2)
	require.Equal(t, "Books", snap.Transactions[0].Title, "newest first")

	require.NoError(t, s.DeleteTransaction(ctx, snap.Transactions[0].ID))
	snap = s.Snapshot()
	require.True(t, snap.Balance.Equal(mustAmount(t, "3000")), "balance = %s", snap.Balance)
	require.Len(t, snap.Transactions, 1)
	require.Equal(t, "Allowance", snap.Transactions[0].Title)
}

func TestMutationsWhileLoggedOutAreNoOps(t *testing.T) {
	ctx := context.Background()
	s := NewStore(&fakeBackend{})

	in := core.TransactionInput{
		Title:  "Groceries",
		Amount: mustAmount(t, "45"),
		Type:   core.Expense,
		Date:   core.NewDate(2025, 10, 1),
	}
	require.ErrorIs(t, s.AddTransaction(ctx, in), ErrNotAuthenticated)
	require.ErrorIs(t, s.DeleteTransaction(ctx, "tx-1"), ErrNotAuthenticated)
	require.ErrorIs(t, s.AddSavingsGoal(ctx, core.GoalInput{Name: "Trip", TargetAmount: mustAmount(t, "800")}), ErrNotAuthenticated)
	require.ErrorIs(t, s.ContributeToGoal(ctx, "g1", mustAmount(t, "50")), ErrNotAuthenticated)

	snap := s.Snapshot()
	require.Empty(t, snap.Transactions)
	require.Empty(t, snap.SavingsGoals)
	require.True(t, snap.Balance.IsZero())
	require.True(t, snap.Savings.IsZero())
}

func TestRefetchPartialFailure(t *testing.T) {
	ctx := context.Background()
	b := seededBackend(t)
	s := loggedInStore(t, b)
	goalsBefore := s.Snapshot().SavingsGoals

	// Break the goals endpoint, change everything else.
	b.mu.Lock()
	b.goalsErr = errors.New("savings service down")
	b.transactions = []core.Transaction{{
		ID: "tx-new", Title: "Tutoring", Amount: mustAmount(t, "200"),
		Type: core.Income, Date: core.NewDate(2025, 10, 7),
	}}
	b.mu.Unlock()

	s.RefetchAll(ctx)

	snap := s.Snapshot()
	require.Len(t, snap.Transactions, 1, "succeeding fetch applied")
	require.True(t, snap.Balance.Equal(mustAmount(t, "200")))
	require.Equal(t, goalsBefore, snap.SavingsGoals, "failing fetch leaves cache unchanged")
	require.False(t, s.IsLoading())
	require.NoError(t, s.Err(), "partial failure is not an overall error")
}

func TestRefetchTotalFailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	b := seededBackend(t)
	s := loggedInStore(t, b)
	before := s.Snapshot()

	down := errors.New("backend unreachable")
	b.mu.Lock()
	b.accountsErr = down
	b.transactionsErr = down
	b.goalsErr = down
	b.budgetsErr = down
	b.mu.Unlock()

	s.RefetchAll(ctx)

	require.Equal(t, before, s.Snapshot(), "total failure leaves cache intact")
	require.ErrorIs(t, s.Err(), down)
	require.False(t, s.IsLoading())
}

func TestContributeToGoal(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{
		goals: []core.SavingsGoal{{
			ID:            "g1",
			Name:          "Laptop",
			TargetAmount:  mustAmount(t, "2000"),
			CurrentAmount: mustAmount(t, "850"),
		}},
	}
	s := loggedInStore(t, b)

	require.NoError(t, s.ContributeToGoal(ctx, "g1", mustAmount(t, "150")))
	goal := s.Snapshot().SavingsGoals[0]
	require.True(t, goal.CurrentAmount.Equal(mustAmount(t, "1000")), "current = %s", goal.CurrentAmount)
	require.False(t, goal.Completed())

	require.NoError(t, s.ContributeToGoal(ctx, "g1", mustAmount(t, "1000")))
	goal = s.Snapshot().SavingsGoals[0]
	require.True(t, goal.CurrentAmount.Equal(mustAmount(t, "2000")))
	require.True(t, goal.Completed())
	require.True(t, s.Snapshot().Savings.Equal(mustAmount(t, "2000")))
}

func TestContributeRejectsNonPositiveAmounts(t *testing.T) {
	ctx := context.Background()
	b := seededBackend(t)
	s := loggedInStore(t, b)
	before := s.Snapshot()

	require.ErrorIs(t, s.ContributeToGoal(ctx, "g1", mustAmount(t, "-50")), ErrNonPositiveAmount)
	require.ErrorIs(t, s.ContributeToGoal(ctx, "g1", decimal.Zero), ErrNonPositiveAmount)
	require.Equal(t, before, s.Snapshot())
	require.Equal(t, 0, b.contributeCalls)
}

func TestContributeUnknownGoalIsNoOp(t *testing.T) {
	ctx := context.Background()
	b := seededBackend(t)
	s := loggedInStore(t, b)
	before := s.Snapshot()

	require.NoError(t, s.ContributeToGoal(ctx, "no-such-goal", mustAmount(t, "50")))
	require.Equal(t, before, s.Snapshot())
	require.Equal(t, 0, b.contributeCalls)
}

func TestContributeRollsBackOnBackendFailure(t *testing.T) {
	ctx := context.Background()
	b := seededBackend(t)
	s := loggedInStore(t, b)
	before := s.Snapshot()

	wantErr := errors.New("contribution rejected")
	b.mu.Lock()
	b.contributeErr = wantErr
	b.mu.Unlock()

	require.ErrorIs(t, s.ContributeToGoal(ctx, "g1", mustAmount(t, "50")), wantErr)
	snap := s.Snapshot()
	require.Equal(t, before.SavingsGoals, snap.SavingsGoals)
	require.True(t, snap.Savings.Equal(before.Savings))
	require.ErrorIs(t, s.Err(), wantErr)
}

func TestAddTransactionRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{createTxErr: errors.New("create rejected")}
	s := loggedInStore(t, b)

	err := s.AddTransaction(ctx, core.TransactionInput{
		Title:  "Concert",
		Amount: mustAmount(t, "80"),
		Type:   core.Expense,
		Date:   core.NewDate(2025, 10, 10),
	})
	require.Error(t, err)

	snap := s.Snapshot()
	require.Empty(t, snap.Transactions, "optimistic prepend rolled back")
	require.True(t, snap.Balance.IsZero(), "balance = %s", snap.Balance)
	require.ErrorIs(t, s.Err(), err)
}

func TestDeleteTransactionNotFoundIsNoOp(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{}
	s := loggedInStore(t, b)

	require.NoError(t, s.DeleteTransaction(ctx, "missing"))
	require.Equal(t, 0, b.deleteCalls, "backend delete never issued")
}

func TestDeleteTransactionRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	s := loggedInStore(t, &fakeBackend{})

	require.NoError(t, s.AddTransaction(ctx, core.TransactionInput{
		Title:  "Bus pass",
		Amount: mustAmount(t, "120"),
		Type:   core.Expense,
		Date:   core.NewDate(2025, 10, 5),
	}))
	before := s.Snapshot()

	b := s.backend.(*fakeBackend)
	b.mu.Lock()
	b.deleteTxErr = errors.New("delete rejected")
	b.mu.Unlock()

	err := s.DeleteTransaction(ctx, before.Transactions[0].ID)
	require.Error(t, err)

	snap := s.Snapshot()
	require.Equal(t, before.Transactions, snap.Transactions, "removal rolled back in place")
	require.True(t, snap.Balance.Equal(before.Balance))
}

func TestAddSavingsGoalStartsAtZero(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{}
	s := loggedInStore(t, b)

	require.NoError(t, s.AddSavingsGoal(ctx, core.GoalInput{
		Name:         "Spring Break Trip",
		TargetAmount: mustAmount(t, "800"),
	}))

	snap := s.Snapshot()
	require.Len(t, snap.SavingsGoals, 1)
	require.True(t, snap.SavingsGoals[0].CurrentAmount.IsZero())
	require.True(t, snap.Savings.IsZero())
}

func TestSavingsEqualsSumOfGoalsAfterRefetch(t *testing.T) {
	ctx := context.Background()
	b := seededBackend(t)
	s := loggedInStore(t, b)

	require.NoError(t, s.ContributeToGoal(ctx, "g2", mustAmount(t, "30")))

	snap := s.Snapshot()
	require.True(t, snap.Savings.Equal(core.TotalSavings(snap.SavingsGoals)),
		"savings %s != sum of goals %s", snap.Savings, core.TotalSavings(snap.SavingsGoals))
}

func TestLogoutResetsEverything(t *testing.T) {
	ctx := context.Background()
	b := seededBackend(t)
	repo := &fakeRepo{}
	s := loggedInStore(t, b, WithSnapshotRepository(repo))

	s.Logout(ctx)

	require.False(t, s.IsAuthenticated())
	require.Equal(t, api.Session{}, s.Session())
	require.NoError(t, s.Err())
	require.True(t, b.sessionCleared)
	require.Equal(t, 1, repo.clears)

	snap := s.Snapshot()
	require.Empty(t, snap.Accounts)
	require.Empty(t, snap.Transactions)
	require.Empty(t, snap.SavingsGoals)
	require.Empty(t, snap.Budgets)
	require.True(t, snap.Balance.IsZero())
	require.True(t, snap.Savings.IsZero())
	require.True(t, snap.MonthlyAllowance.IsZero())
}

func TestSnapshotPersistedAfterRefetch(t *testing.T) {
	b := seededBackend(t)
	repo := &fakeRepo{}
	s := loggedInStore(t, b, WithSnapshotRepository(repo))

	require.NotEmpty(t, repo.saved, "login refetch persists a snapshot")
	last := repo.saved[len(repo.saved)-1]
	require.True(t, last.Savings.Equal(s.Snapshot().Savings))
}

func TestRestoreSnapshotSeedsState(t *testing.T) {
	stored := core.Snapshot{
		Balance:          mustAmount(t, "2275"),
		Savings:          mustAmount(t, "970"),
		MonthlyAllowance: mustAmount(t, "1200"),
		Transactions: []core.Transaction{{
			ID: "tx-1", Title: "Groceries", Amount: mustAmount(t, "45"),
			Type: core.Expense, Date: core.NewDate(2025, 10, 3),
		}},
	}
	repo := &fakeRepo{stored: &stored}
	s := NewStore(&fakeBackend{}, WithSnapshotRepository(repo))

	require.NoError(t, s.RestoreSnapshot(context.Background()))

	snap := s.Snapshot()
	require.True(t, snap.Balance.Equal(stored.Balance))
	require.Len(t, snap.Transactions, 1)
}

func TestRestoreSnapshotWithoutRepositoryIsNoOp(t *testing.T) {
	s := NewStore(&fakeBackend{})
	require.NoError(t, s.RestoreSnapshot(context.Background()))
	require.Empty(t, s.Snapshot().Transactions)
}

func TestMutationsPublishEvents(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	s := loggedInStore(t, seededBackend(t), WithPublisher(pub))

	require.NoError(t, s.AddTransaction(ctx, core.TransactionInput{
		Title:  "Tutoring",
		Amount: mustAmount(t, "200"),
		Type:   core.Income,
		Date:   core.NewDate(2025, 10, 7),
	}))
	require.NoError(t, s.ContributeToGoal(ctx, "g1", mustAmount(t, "25")))

	require.Equal(t, []string{"transaction/created", "goal/contributed"}, pub.events)
}

// fetchGate holds one transactions fetch after it has read the backend
// data, so a refetch cycle can be kept in flight while the test runs
// competing operations.
type fetchGate struct {
	entered chan struct{}
	release chan struct{}
}

// gatedBackend blocks ListTransactions calls on queued gates, in call
// order. Ungated calls pass straight through.
type gatedBackend struct {
	*fakeBackend
	gateMu sync.Mutex
	gates  []*fetchGate
}

func (g *gatedBackend) addGate() *fetchGate {
	gate := &fetchGate{entered: make(chan struct{}), release: make(chan struct{})}
	g.gateMu.Lock()
	g.gates = append(g.gates, gate)
	g.gateMu.Unlock()
	return gate
}

func (g *gatedBackend) ListTransactions(ctx context.Context, f api.TransactionFilter) ([]core.Transaction, error) {
	out, err := g.fakeBackend.ListTransactions(ctx, f)

	g.gateMu.Lock()
	var gate *fetchGate
	if len(g.gates) > 0 {
		gate = g.gates[0]
		g.gates = g.gates[1:]
	}
	g.gateMu.Unlock()

	if gate != nil {
		close(gate.entered)
		<-gate.release
	}
	return out, err
}

func TestLogoutDiscardsInFlightRefetch(t *testing.T) {
	ctx := context.Background()
	inner := seededBackend(t)
	inner.transactions = []core.Transaction{{
		ID: "tx-1", Title: "Groceries", Amount: mustAmount(t, "45"),
		Type: core.Expense, Date: core.NewDate(2025, 10, 3),
	}}
	b := &gatedBackend{fakeBackend: inner}
	s := loggedInStore(t, b)

	gate := b.addGate()
	done := make(chan struct{})
	go func() {
		s.RefetchAll(ctx)
		close(done)
	}()
	<-gate.entered

	s.Logout(ctx)
	close(gate.release)
	<-done

	require.False(t, s.IsAuthenticated())
	require.False(t, s.IsLoading())
	snap := s.Snapshot()
	require.Empty(t, snap.Transactions, "results of the superseded refetch discarded")
	require.Empty(t, snap.SavingsGoals)
	require.True(t, snap.Balance.IsZero())
	require.True(t, snap.Savings.IsZero())
}

func TestNewerRefetchWinsOverStaleOne(t *testing.T) {
	ctx := context.Background()
	inner := &fakeBackend{transactions: []core.Transaction{{
		ID: "tx-old", Title: "Concert tickets", Amount: mustAmount(t, "80"),
		Type: core.Expense, Date: core.NewDate(2025, 9, 20),
	}}}
	b := &gatedBackend{fakeBackend: inner}
	s := loggedInStore(t, b)

	// First refetch reads the old list, then stalls before reporting.
	gate := b.addGate()
	done := make(chan struct{})
	go func() {
		s.RefetchAll(ctx)
		close(done)
	}()
	<-gate.entered

	inner.mu.Lock()
	inner.transactions = []core.Transaction{
		{ID: "tx-new-2", Title: "Tutoring", Amount: mustAmount(t, "200"),
			Type: core.Income, Date: core.NewDate(2025, 10, 7)},
		{ID: "tx-new-1", Title: "Groceries", Amount: mustAmount(t, "45"),
			Type: core.Expense, Date: core.NewDate(2025, 10, 3)},
	}
	inner.mu.Unlock()

	s.RefetchAll(ctx)

	close(gate.release)
	<-done

	snap := s.Snapshot()
	require.Len(t, snap.Transactions, 2, "stale refetch must not overwrite newer data")
	require.Equal(t, "Tutoring", snap.Transactions[0].Title)
	require.False(t, s.IsLoading())
}

func TestSupersededRefetchLeavesLoadingToCurrentCycle(t *testing.T) {
	ctx := context.Background()
	b := &gatedBackend{fakeBackend: seededBackend(t)}
	s := loggedInStore(t, b)

	gate1 := b.addGate()
	gate2 := b.addGate()

	done1 := make(chan struct{})
	go func() {
		s.RefetchAll(ctx)
		close(done1)
	}()
	<-gate1.entered

	done2 := make(chan struct{})
	go func() {
		s.RefetchAll(ctx)
		close(done2)
	}()
	<-gate2.entered

	// The first cycle finishes superseded while the second is still in
	// flight: loading must stay set.
	close(gate1.release)
	<-done1
	require.True(t, s.IsLoading(), "superseded cycle cleared the loading flag")

	close(gate2.release)
	<-done2
	require.False(t, s.IsLoading())
}

func TestPublisherFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{err: errors.New("broker down")}
	s := loggedInStore(t, &fakeBackend{}, WithPublisher(pub))

	require.NoError(t, s.AddTransaction(ctx, core.TransactionInput{
		Title:  "Coffee",
		Amount: mustAmount(t, "4"),
		Type:   core.Expense,
		Date:   core.NewDate(2025, 10, 2),
	}))
	require.Len(t, s.Snapshot().Transactions, 1)
}
