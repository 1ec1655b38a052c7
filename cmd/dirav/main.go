package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"dirav/internal/advisor"
	"dirav/internal/api"
	"dirav/internal/backend"
	"dirav/internal/cli"
	"dirav/internal/content"
	"dirav/internal/core"
	"dirav/internal/finances"
)

const usage = `dirav - student finance tracker

Usage:
  dirav dashboard                                  show balance, allowance and recent transactions
  dirav add -title T -amount A -type income|expense [-category C] [-date YYYY-MM-DD]
  dirav delete -id ID                              delete a transaction
  dirav goals                                      list savings goals
  dirav goal -name N -target A [-deadline YYYY-MM-DD]
  dirav contribute -goal ID -amount A              contribute to a savings goal
  dirav advisor -m MESSAGE                         ask the financial advisor
  dirav blog [-id N]                               read the blog
  dirav opportunities [-category C]                student discounts and opportunities

Credentials come from DIRAV_EMAIL and DIRAV_PASSWORD.
`

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]
	args := os.Args[2:]

	// Content commands need no backend at all.
	switch command {
	case "blog":
		runBlog(args)
		return
	case "opportunities":
		runOpportunities(args)
		return
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	}

	ctx := context.Background()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	opts := []finances.Option{}
	if repo := cli.InitSnapshotRepository(logger, cfg); repo != nil {
		defer repo.Close()
		opts = append(opts, finances.WithSnapshotRepository(repo))
	}
	if publisher := cli.InitEventPublisher(logger, cfg); publisher != nil {
		defer publisher.Close()
		opts = append(opts, finances.WithPublisher(publisher))
	}

	store := finances.NewStore(result.Backend, opts...)

	creds := api.Credentials{
		Email:    os.Getenv("DIRAV_EMAIL"),
		Password: os.Getenv("DIRAV_PASSWORD"),
	}
	if cfg.DataBackend == "memory" && creds.Email == "" {
		creds = api.Credentials{Email: "demo@dirav.app", Password: "demo"}
	}

	if err := store.Login(ctx, creds); err != nil {
		logger.Warn("Login failed, falling back to offline snapshot", "error", err)
		if restoreErr := store.RestoreSnapshot(ctx); restoreErr != nil {
			logger.Error("Offline snapshot unavailable", "error", restoreErr)
			os.Exit(1)
		}
	}

	switch command {
	case "dashboard":
		runDashboard(store)
	case "add":
		runAdd(ctx, store, args)
	case "delete":
		runDelete(ctx, store, args)
	case "goals":
		runGoals(store)
	case "goal":
		runAddGoal(ctx, store, args)
	case "contribute":
		runContribute(ctx, store, args)
	case "advisor":
		runAdvisor(store, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", command, usage)
		os.Exit(2)
	}
}

func runDashboard(store *finances.Store) {
	snap := store.Snapshot()

	fmt.Printf("Balance:            $%s\n", snap.Balance.StringFixed(2))
	fmt.Printf("Savings:            $%s\n", snap.Savings.StringFixed(2))
	fmt.Printf("Monthly allowance:  $%s\n", snap.MonthlyAllowance.StringFixed(2))
	fmt.Println()

	if len(snap.Transactions) == 0 {
		fmt.Println("No transactions yet.")
		return
	}
	fmt.Println("Recent transactions:")
	limit := len(snap.Transactions)
	if limit > 10 {
		limit = 10
	}
	for _, t := range snap.Transactions[:limit] {
		sign := "+"
		if t.Type == core.Expense {
			sign = "-"
		}
		fmt.Printf("  %s  %s$%-10s %-30s %s\n",
			t.Date.String(), sign, t.Amount.StringFixed(2), t.Title, t.ID)
	}
}

func runAdd(ctx context.Context, store *finances.Store, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "transaction title")
	amountStr := fs.String("amount", "", "amount (always positive)")
	typ := fs.String("type", "expense", "income or expense")
	category := fs.String("category", "", "category")
	dateStr := fs.String("date", "", "date (YYYY-MM-DD, default today)")
	fs.Parse(args)

	amount, err := core.ParseAmount(*amountStr)
	if err != nil {
		fatalf("invalid amount %q: %v", *amountStr, err)
	}
	date := core.Today()
	if *dateStr != "" {
		if date, err = core.ParseDate(*dateStr); err != nil {
			fatalf("invalid date %q: %v", *dateStr, err)
		}
	}

	in := core.TransactionInput{
		Title:    *title,
		Amount:   amount,
		Type:     core.TransactionType(*typ),
		Category: *category,
		Date:     date,
	}
	if err := in.Validate(); err != nil {
		fatalf("invalid transaction: %v", err)
	}
	if err := store.AddTransaction(ctx, in); err != nil {
		fatalf("add transaction: %v", err)
	}

	snap := store.Snapshot()
	fmt.Printf("Recorded. Balance is now $%s\n", snap.Balance.StringFixed(2))
}

func runDelete(ctx context.Context, store *finances.Store, args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "transaction id")
	fs.Parse(args)

	if *id == "" {
		fatalf("missing -id")
	}
	if err := store.DeleteTransaction(ctx, *id); err != nil {
		fatalf("delete transaction: %v", err)
	}

	snap := store.Snapshot()
	fmt.Printf("Deleted. Balance is now $%s\n", snap.Balance.StringFixed(2))
}

func runGoals(store *finances.Store) {
	snap := store.Snapshot()
	if len(snap.SavingsGoals) == 0 {
		fmt.Println("No savings goals yet.")
		return
	}
	for _, g := range snap.SavingsGoals {
		status := fmt.Sprintf("%3.0f%%", g.Progress()*100)
		if g.Completed() {
			status = "done"
		}
		fmt.Printf("  [%s] %-25s $%s of $%s  %s\n",
			status, g.Name, g.CurrentAmount.StringFixed(2), g.TargetAmount.StringFixed(2), g.ID)
	}
	fmt.Printf("\nTotal savings: $%s\n", snap.Savings.StringFixed(2))
}

func runAddGoal(ctx context.Context, store *finances.Store, args []string) {
	fs := flag.NewFlagSet("goal", flag.ExitOnError)
	name := fs.String("name", "", "goal name")
	targetStr := fs.String("target", "", "target amount")
	deadlineStr := fs.String("deadline", "", "deadline (YYYY-MM-DD)")
	fs.Parse(args)

	target, err := core.ParseAmount(*targetStr)
	if err != nil {
		fatalf("invalid target %q: %v", *targetStr, err)
	}
	in := core.GoalInput{Name: *name, TargetAmount: target}
	if *deadlineStr != "" {
		if in.Deadline, err = core.ParseDate(*deadlineStr); err != nil {
			fatalf("invalid deadline %q: %v", *deadlineStr, err)
		}
	}
	if err := in.Validate(); err != nil {
		fatalf("invalid goal: %v", err)
	}
	if err := store.AddSavingsGoal(ctx, in); err != nil {
		fatalf("add goal: %v", err)
	}
	fmt.Println("Goal created.")
}

func runContribute(ctx context.Context, store *finances.Store, args []string) {
	fs := flag.NewFlagSet("contribute", flag.ExitOnError)
	goalID := fs.String("goal", "", "goal id")
	amountStr := fs.String("amount", "", "contribution amount")
	fs.Parse(args)

	amount, err := core.ParseAmount(*amountStr)
	if err != nil {
		fatalf("invalid amount %q: %v", *amountStr, err)
	}
	if *goalID == "" {
		fatalf("missing -goal")
	}
	if err := store.ContributeToGoal(ctx, *goalID, amount); err != nil {
		fatalf("contribute: %v", err)
	}

	snap := store.Snapshot()
	fmt.Printf("Contributed. Total savings: $%s\n", snap.Savings.StringFixed(2))
}

func runAdvisor(store *finances.Store, args []string) {
	fs := flag.NewFlagSet("advisor", flag.ExitOnError)
	message := fs.String("m", "", "your question")
	fs.Parse(args)

	snap := store.Snapshot()
	session := store.Session()

	fmt.Println(advisor.Welcome(session.FirstName, len(snap.Transactions)))
	if *message != "" {
		fmt.Println()
		fmt.Println(advisor.Advise(*message, snap))
	}
}

func runBlog(args []string) {
	fs := flag.NewFlagSet("blog", flag.ExitOnError)
	id := fs.Int("id", 0, "post id to read")
	fs.Parse(args)

	if *id > 0 {
		post, ok := content.PostByID(*id)
		if !ok {
			fatalf("no post with id %d", *id)
		}
		fmt.Printf("%s\nby %s - %s - %s\n\n%s\n",
			post.Title, post.Author, post.Category, post.PublishedAt.Format("Jan 2, 2006"), post.Content)
		return
	}
	for _, post := range content.Posts() {
		fmt.Printf("  %d  %-40s %-20s %s\n", post.ID, post.Title, post.Category, post.Author)
	}
}

func runOpportunities(args []string) {
	fs := flag.NewFlagSet("opportunities", flag.ExitOnError)
	category := fs.String("category", content.CategoryAll, "filter: "+strings.Join(content.OpportunityCategories(), ", "))
	fs.Parse(args)

	for _, o := range content.FilterByCategory(*category) {
		fmt.Printf("  [%s] %s\n      %s\n      %s (deadline %s)\n",
			o.Category, o.Title, o.Description, o.Link, o.Deadline.Format("Jan 2, 2006"))
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
