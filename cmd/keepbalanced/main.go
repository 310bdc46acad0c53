package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"github.com/dvloznov/keepbalanced/internal/aggregate"
	"github.com/dvloznov/keepbalanced/internal/config"
	"github.com/dvloznov/keepbalanced/internal/dashboard"
	"github.com/dvloznov/keepbalanced/internal/history"
	infra "github.com/dvloznov/keepbalanced/internal/infra/firestore"
	"github.com/dvloznov/keepbalanced/internal/logger"
	"github.com/dvloznov/keepbalanced/internal/model"
	"github.com/dvloznov/keepbalanced/internal/taxonomy"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "dashboard":
		runDashboard()
	case "monthly":
		runMonthly()
	case "invest":
		runInvest()
	case "history":
		runHistory()
	case "add":
		runAdd()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("KeepBalanced CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  keepbalanced <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  dashboard  Follow the live monthly dashboard")
	fmt.Println("  monthly    Print one week of the monthly bar grid")
	fmt.Println("  invest     Print the cumulative investment series")
	fmt.Println("  history    Walk the filtered transaction history")
	fmt.Println("  add        Append a transaction")
	fmt.Println("  help       Show this help message")
	fmt.Println("\nRun 'keepbalanced <command> -h' for command options.")
}

// setup loads config, builds the logger and dials the store. Every
// subcommand starts here.
func setup(ctx context.Context, configPath string) (*config.Config, zerolog.Logger, *infra.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	log := logger.New(cfg.LogLevel)

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := infra.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	return cfg, log, infra.NewStore(client, cfg.Collection, log), nil
}

func runDashboard() {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	fs.Parse(os.Args[2:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, store, err := setup(ctx, *configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ctx = logger.WithContext(ctx, log)

	today := civil.DateOf(time.Now())
	w := dashboard.NewWatcher(store, cfg.UserID, cfg.InvestmentCategory, log)

	go func() {
		if err := w.Run(ctx, today.Year, int(today.Month)); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("watcher stopped")
		}
	}()

	log.Info().Int("year", today.Year).Int("month", int(today.Month)).Msg("following dashboard; ctrl-c to stop")

	var lastPrinted *dashboard.View
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			view := w.View()
			if view == nil || view == lastPrinted {
				continue
			}
			lastPrinted = view
			printView(view, w.GlobalBalance())
		}
	}
}

func printView(v *dashboard.View, globalBalance decimal.Decimal) {
	fmt.Printf("\n== %d-%02d ==\n", v.Year, v.Month)
	fmt.Printf("Income:  %s\n", v.Summary.Income.StringFixed(2))
	fmt.Printf("Expense: %s\n", v.Summary.Expense.StringFixed(2))
	fmt.Printf("Balance: %s (global %s)\n", v.Summary.Balance.StringFixed(2), globalBalance.StringFixed(2))

	categories := make([]string, 0, len(v.ExpensesByCategory))
	for name := range v.ExpensesByCategory {
		categories = append(categories, name)
	}
	sort.Strings(categories)
	for _, name := range categories {
		fmt.Printf("  %-20s %s\n", name, v.ExpensesByCategory[name].StringFixed(2))
	}
}

func runMonthly() {
	fs := flag.NewFlagSet("monthly", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	monthFlag := fs.String("month", "", "Month to show as YYYY-MM (defaults to the current month)")
	weekFlag := fs.Int("week", -1, "Zero-based week index (defaults to today's week)")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, log, store, err := setup(ctx, *configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	today := civil.DateOf(time.Now())
	state := dashboard.CurrentMonthState(today)
	if *monthFlag != "" {
		anchor, err := civil.ParseDate(*monthFlag + "-01")
		if err != nil {
			log.Fatal().Err(err).Msg("invalid -month, want YYYY-MM")
		}
		state = dashboard.MonthState{Anchor: anchor}
	}
	if *weekFlag >= 0 {
		state.Week = *weekFlag
	}
	state = state.Clamped()

	txs, err := store.QueryMonth(ctx, cfg.UserID, state.Anchor.Year, int(state.Anchor.Month))
	if err != nil {
		log.Fatal().Err(err).Msg("month query failed")
	}

	view := dashboard.BuildView(state.Anchor.Year, int(state.Anchor.Month), txs)
	grid := view.WeekGrid(state.Week)

	fmt.Printf("%s — %s\n", state.Title(), grid.Title)
	for i := 0; i < 7; i++ {
		fmt.Printf("  %-3s income %10s  expense %10s\n",
			grid.XLabels[i], grid.IncomeBars[i].StringFixed(2), grid.ExpenseBars[i].StringFixed(2))
	}
	fmt.Printf("Month income %s, expense %s\n",
		view.Summary.Income.StringFixed(2), view.Summary.Expense.StringFixed(2))
}

func runInvest() {
	fs := flag.NewFlagSet("invest", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	rangeFlag := fs.String("range", "all", "Time range: 1m, 6m, 1y or all")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, log, store, err := setup(ctx, *configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var timeRange aggregate.TimeRange
	switch *rangeFlag {
	case "1m":
		timeRange = aggregate.RangeOneMonth
	case "6m":
		timeRange = aggregate.RangeSixMonths
	case "1y":
		timeRange = aggregate.RangeOneYear
	case "all":
		timeRange = aggregate.RangeAll
	default:
		log.Fatal().Str("range", *rangeFlag).Msg("invalid -range, want 1m, 6m, 1y or all")
	}

	txs, err := store.QueryInvestments(ctx, cfg.UserID, cfg.InvestmentCategory)
	if err != nil {
		log.Fatal().Err(err).Msg("investment query failed")
	}

	today := civil.DateOf(time.Now())
	series := aggregate.CumulativeSeries(txs, timeRange, today, aggregate.SubstringClassifier)

	fmt.Printf("Total invested: %s\n", series.TotalInvested.StringFixed(2))
	d := series.Distribution
	fmt.Printf("Period flow: fixed %s, variable %s, gold %s (total %s)\n",
		d.FixedIncome.StringFixed(2), d.VariableIncome.StringFixed(2),
		d.Gold.StringFixed(2), d.Total.StringFixed(2))
	for _, p := range series.Total {
		fmt.Printf("  %s  %s\n", p.Date, p.Value.StringFixed(2))
	}
}

func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	typeFlag := fs.String("type", "", "Filter by type: expense or income")
	categoryFlag := fs.String("category", "", "Filter by category")
	fromFlag := fs.String("from", "", "Earliest date, YYYY-MM-DD")
	toFlag := fs.String("to", "", "Latest date, YYYY-MM-DD")
	minFlag := fs.String("min", "", "Minimum amount")
	maxFlag := fs.String("max", "", "Maximum amount")
	pagesFlag := fs.Int("pages", 1, "How many pages to walk")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, log, store, err := setup(ctx, *configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	filter, err := buildFilter(*typeFlag, *categoryFlag, *fromFlag, *toFlag, *minFlag, *maxFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid filter")
	}

	p := history.NewPaginator(store, cfg.UserID)
	state := history.NewState(filter)

	for i := 0; i < *pagesFlag; i++ {
		page, err := p.Fetch(ctx, state)
		if err != nil {
			log.Fatal().Err(err).Msg("history fetch failed")
		}
		for _, t := range page.Items {
			sub := t.Subcategory
			if sub != "" {
				sub = " / " + sub
			}
			fmt.Printf("%s  %-7s %10s  %s%s\n",
				t.Date, t.Type, t.Amount.StringFixed(2), t.CategoryLabel(), sub)
		}
		if page.End {
			fmt.Println("-- end of history --")
			break
		}
		state = state.Advance()
	}
}

func buildFilter(typ, category, from, to, min, max string) (model.HistoryFilter, error) {
	var f model.HistoryFilter
	if typ != "" {
		t := model.Type(typ)
		if !t.Valid() {
			return f, fmt.Errorf("unknown type %q", typ)
		}
		f.Type = &t
	}
	if category != "" {
		f.Category = &category
	}
	if from != "" {
		d, err := civil.ParseDate(from)
		if err != nil {
			return f, fmt.Errorf("invalid -from: %w", err)
		}
		f.DateFrom = &d
	}
	if to != "" {
		d, err := civil.ParseDate(to)
		if err != nil {
			return f, fmt.Errorf("invalid -to: %w", err)
		}
		f.DateTo = &d
	}
	if min != "" {
		d, err := decimal.NewFromString(min)
		if err != nil {
			return f, fmt.Errorf("invalid -min: %w", err)
		}
		f.MinAmount = &d
	}
	if max != "" {
		d, err := decimal.NewFromString(max)
		if err != nil {
			return f, fmt.Errorf("invalid -max: %w", err)
		}
		f.MaxAmount = &d
	}
	return f, nil
}

func runAdd() {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	typeFlag := fs.String("type", "expense", "Transaction type: expense or income")
	amountFlag := fs.String("amount", "", "Amount (required, positive)")
	categoryFlag := fs.String("category", "", "Category name")
	subcategoryFlag := fs.String("subcategory", "", "Subcategory name")
	dateFlag := fs.String("date", "", "Date, YYYY-MM-DD (defaults to today)")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, log, store, err := setup(ctx, *configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *amountFlag == "" {
		log.Fatal().Msg("-amount is required")
	}
	amount, err := decimal.NewFromString(*amountFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -amount")
	}

	date := civil.DateOf(time.Now())
	if *dateFlag != "" {
		date, err = civil.ParseDate(*dateFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid -date, want YYYY-MM-DD")
		}
	}

	// The taxonomy only advises; an unknown category stays free text.
	if *categoryFlag != "" {
		var opts []option.ClientOption
		if cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		}
		ev, err := taxonomy.NewRemoteConfigEvaluator(ctx, cfg.ProjectID, cfg.TaxonomyParameter, opts...)
		if err != nil {
			log.Warn().Err(err).Msg("taxonomy unavailable, skipping category check")
		} else {
			tax := taxonomy.NewLoader(ev, log).Load(ctx)
			if !tax.Empty() && !knownCategory(tax, model.Type(*typeFlag), *categoryFlag) {
				log.Warn().Str("category", *categoryFlag).Msg("category not in taxonomy")
			}
		}
	}

	tx, err := model.NewTransaction(cfg.UserID, model.Type(*typeFlag), amount, *categoryFlag, *subcategoryFlag, date)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid transaction")
	}

	id, err := store.Append(ctx, tx)
	if err != nil {
		log.Fatal().Err(err).Msg("append failed")
	}
	fmt.Printf("Saved transaction %s\n", id)
}

func knownCategory(tax taxonomy.Taxonomy, typ model.Type, name string) bool {
	categories := tax.Expenses
	if typ == model.TypeIncome {
		categories = tax.Incomes
	}
	for _, c := range categories {
		if c.Name == name {
			return true
		}
	}
	return false
}
