// Command fintrack-cli manages the ledger from the terminal, using the
// same backend configuration as the server.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"fintrack/internal/analytics"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

const dateLayout = "2006-01-02"

type appContext struct {
	ctx     context.Context
	service *services.TransactionService
}

type cli struct {
	Add        AddCmd        `cmd:"" help:"Record a new transaction."`
	List       ListCmd       `cmd:"" help:"List transactions, newest first."`
	Delete     DeleteCmd     `cmd:"" help:"Delete a transaction by id."`
	Balance    BalanceCmd    `cmd:"" help:"Show total income, expenses, and net balance."`
	Stats      StatsCmd      `cmd:"" help:"Show per-month income and expense totals."`
	Summary    SummaryCmd    `cmd:"" help:"Show derived statistics and savings rate."`
	Categories CategoriesCmd `cmd:"" help:"List available categories."`
	Export     ExportCmd     `cmd:"" help:"Write the full ledger as JSON to stdout or a file."`
	Import     ImportCmd     `cmd:"" help:"Replace the ledger with a JSON document."`
}

type AddCmd struct {
	Type     string `help:"Transaction type (income or expense)." required:""`
	Category string `help:"Transaction category." required:""`
	Amount   string `help:"Positive decimal amount." required:""`
	Date     string `help:"Date as YYYY-MM-DD; defaults to today."`
	Comment  string `help:"Optional comment."`
}

func (cmd *AddCmd) Run(app *appContext) error {
	amount, err := core.AmountFromString(cmd.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", cmd.Amount, err)
	}

	date := time.Now()
	if cmd.Date != "" {
		date, err = time.Parse(dateLayout, cmd.Date)
		if err != nil {
			return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", cmd.Date)
		}
	}

	tx, err := app.service.CreateTransaction(app.ctx, core.CreateTransaction{
		Type:     core.TransactionType(cmd.Type),
		Category: core.TransactionCategory(cmd.Category),
		Amount:   amount,
		Date:     date,
		Comment:  cmd.Comment,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Recorded %s %s of %s (%s)\n", tx.Type, tx.Category, tx.Amount, tx.ID)
	return nil
}

type ListCmd struct {
	Type     string `help:"Filter by type (income or expense)."`
	Category string `help:"Filter by category."`
	From     string `help:"Earliest date, inclusive (YYYY-MM-DD)."`
	To       string `help:"Latest date, inclusive (YYYY-MM-DD)."`
	Search   string `help:"Case-insensitive comment search."`
}

func (cmd *ListCmd) Run(app *appContext) error {
	filters := core.Filters{
		Type:     core.TransactionType(cmd.Type),
		Category: core.TransactionCategory(cmd.Category),
		Search:   cmd.Search,
	}
	var err error
	if cmd.From != "" {
		if filters.DateFrom, err = time.Parse(dateLayout, cmd.From); err != nil {
			return fmt.Errorf("invalid --from %q: expected YYYY-MM-DD", cmd.From)
		}
	}
	if cmd.To != "" {
		if filters.DateTo, err = time.Parse(dateLayout, cmd.To); err != nil {
			return fmt.Errorf("invalid --to %q: expected YYYY-MM-DD", cmd.To)
		}
	}

	txs, err := app.service.GetTransactions(app.ctx, filters)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		fmt.Println("No transactions found.")
		return nil
	}

	for _, tx := range txs {
		line := fmt.Sprintf("%s  %-7s %-13s %10s", tx.Date.Format(dateLayout), tx.Type, tx.Category, tx.Amount)
		if tx.Comment != "" {
			line += "  " + tx.Comment
		}
		fmt.Printf("%s  [%s]\n", line, tx.ID)
	}
	return nil
}

type DeleteCmd struct {
	ID string `arg:"" help:"Transaction id."`
}

func (cmd *DeleteCmd) Run(app *appContext) error {
	if err := app.service.DeleteTransaction(app.ctx, cmd.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", cmd.ID)
	return nil
}

type BalanceCmd struct{}

func (cmd *BalanceCmd) Run(app *appContext) error {
	balance, err := app.service.CalculateBalance(app.ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Income:  %s\nExpense: %s\nNet:     %s\n",
		balance.TotalIncome, balance.TotalExpense, balance.NetBalance)
	return nil
}

type StatsCmd struct{}

func (cmd *StatsCmd) Run(app *appContext) error {
	stats, err := app.service.GetMonthlyStats(app.ctx)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No transactions recorded.")
		return nil
	}
	for _, m := range stats {
		fmt.Printf("%s  income %10s  expense %10s  balance %10s\n",
			m.Month, m.Income, m.Expense, m.Balance)
	}
	return nil
}

type SummaryCmd struct {
	Months int `help:"Restrict averages to the last N months with data; 0 means all." default:"0"`
}

func (cmd *SummaryCmd) Run(app *appContext) error {
	txs, err := app.service.GetTransactions(app.ctx, core.Filters{})
	if err != nil {
		return err
	}
	stats := analytics.ComputeStatistics(txs, cmd.Months)

	fmt.Printf("Transactions:     %d\n", stats.TotalTransactions)
	fmt.Printf("Avg income/month: %s\n", stats.AvgIncome)
	fmt.Printf("Avg expense/month: %s\n", stats.AvgExpense)
	if stats.BestMonth != "" {
		fmt.Printf("Best month:       %s (%s)\n", stats.BestMonth, stats.BestMonthAmount)
		fmt.Printf("Worst month:      %s (%s)\n", stats.WorstMonth, stats.WorstMonthAmount)
	}
	if stats.TopIncomeCategory != "" {
		fmt.Printf("Top income:       %s (%s)\n", stats.TopIncomeCategory.Label(), stats.TopIncomeCategoryAmount)
	}
	if stats.TopExpenseCategory != "" {
		fmt.Printf("Top expense:      %s (%s)\n", stats.TopExpenseCategory.Label(), stats.TopExpenseCategoryAmount)
	}
	fmt.Printf("Savings rate:     %d%%\n", stats.SavingsRate)
	return nil
}

type CategoriesCmd struct {
	Type string `help:"Limit to one type (income or expense)."`
}

func (cmd *CategoriesCmd) Run(app *appContext) error {
	printGroup := func(tt core.TransactionType) {
		fmt.Printf("%s:\n", tt)
		for _, opt := range core.CategoriesByType(tt) {
			fmt.Printf("  %-15s %s\n", opt.Value, opt.Label)
		}
	}

	switch strings.ToLower(cmd.Type) {
	case "":
		printGroup(core.Income)
		printGroup(core.Expense)
	case string(core.Income):
		printGroup(core.Income)
	case string(core.Expense):
		printGroup(core.Expense)
	default:
		return fmt.Errorf("unknown transaction type %q", cmd.Type)
	}
	return nil
}

type ExportCmd struct {
	Output string `help:"Write to a file instead of stdout." short:"o"`
}

func (cmd *ExportCmd) Run(app *appContext) error {
	doc, err := app.service.ExportToJSON(app.ctx)
	if err != nil {
		return err
	}
	if cmd.Output == "" {
		fmt.Println(doc)
		return nil
	}
	if err := os.WriteFile(cmd.Output, []byte(doc+"\n"), 0644); err != nil {
		return fmt.Errorf("write %s: %w", cmd.Output, err)
	}
	fmt.Printf("Exported ledger to %s\n", cmd.Output)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"JSON document to import." type:"existingfile"`
}

func (cmd *ImportCmd) Run(app *appContext) error {
	raw, err := os.ReadFile(cmd.File)
	if err != nil {
		return err
	}
	if err := app.service.ImportFromJSON(app.ctx, string(raw)); err != nil {
		return err
	}
	fmt.Printf("Imported ledger from %s\n", cmd.File)
	return nil
}

func main() {
	_ = godotenv.Load()

	var root cli
	kctx := kong.Parse(&root,
		kong.Name("fintrack-cli"),
		kong.Description("Manage the fintrack ledger from the terminal."),
		kong.UsageOnError(),
	)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		kctx.FatalIfErrorf(err)
	}

	// Quiet logging; CLI output goes to stdout.
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel("error"),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	kctx.FatalIfErrorf(err)

	ctx := context.Background()
	result, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	kctx.FatalIfErrorf(err)
	defer func() {
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
	}()

	err = kctx.Run(&appContext{ctx: ctx, service: result.Service})
	kctx.FatalIfErrorf(err)
}
