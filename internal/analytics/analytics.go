// Package analytics derives statistics from a transaction snapshot:
// per-month series, category breakdowns, best/worst months, and the
// savings rate. Everything here is a pure function of its inputs and is
// recomputed on demand; nothing is stored.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Period selects a trailing window over a snapshot.
type Period string

const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
	PeriodAll     Period = "all"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodMonth, PeriodQuarter, PeriodYear, PeriodAll:
		return true
	}
	return false
}

// months returns the window length; 0 means unbounded.
func (p Period) months() int {
	switch p {
	case PeriodMonth:
		return 1
	case PeriodQuarter:
		return 3
	case PeriodYear:
		return 12
	}
	return 0
}

// PeriodOption pairs a period value with its display label.
type PeriodOption struct {
	Value Period `json:"value"`
	Label string `json:"label"`
}

// PeriodOptions returns the selectable windows in display order.
func PeriodOptions() []PeriodOption {
	return []PeriodOption{
		{Value: PeriodMonth, Label: "Last month"},
		{Value: PeriodQuarter, Label: "Last quarter"},
		{Value: PeriodYear, Label: "Last year"},
		{Value: PeriodAll, Label: "All time"},
	}
}

// CategoryAggregate is a per-category amount sum.
type CategoryAggregate struct {
	Category core.TransactionCategory `json:"category"`
	Label    string                   `json:"label"`
	Amount   core.Amount              `json:"amount"`
}

// Breakdown splits category aggregates by transaction type.
type Breakdown struct {
	Income  []CategoryAggregate `json:"income"`
	Expense []CategoryAggregate `json:"expense"`
}

// Statistics is the derived summary over a snapshot.
type Statistics struct {
	AvgIncome  core.Amount `json:"avgIncome"`
	AvgExpense core.Amount `json:"avgExpense"`

	BestMonth        string      `json:"bestMonth"`
	BestMonthAmount  core.Amount `json:"bestMonthAmount"`
	WorstMonth       string      `json:"worstMonth"`
	WorstMonthAmount core.Amount `json:"worstMonthAmount"`

	TopIncomeCategory        core.TransactionCategory `json:"topIncomeCategory"`
	TopIncomeCategoryAmount  core.Amount              `json:"topIncomeCategoryAmount"`
	TopExpenseCategory       core.TransactionCategory `json:"topExpenseCategory"`
	TopExpenseCategoryAmount core.Amount              `json:"topExpenseCategoryAmount"`

	SavingsRate       int64 `json:"savingsRate"`
	TotalTransactions int   `json:"totalTransactions"`
}

// Window keeps the records whose date falls on/after now minus the period.
// PeriodAll returns the snapshot unchanged.
func Window(txs []core.Transaction, p Period, now time.Time) []core.Transaction {
	months := p.months()
	if months == 0 {
		return txs
	}
	cutoff := now.AddDate(0, -months, 0)
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if !t.Date.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

// CategoryBreakdown sums amounts per category, split by type. Output order
// is first-encounter order within the snapshot, which makes ties in the
// top-category statistics deterministic.
func CategoryBreakdown(txs []core.Transaction) Breakdown {
	incomeSums := make(map[core.TransactionCategory]core.Amount)
	expenseSums := make(map[core.TransactionCategory]core.Amount)
	var incomeOrder, expenseOrder []core.TransactionCategory

	for _, t := range txs {
		sums, order := expenseSums, &expenseOrder
		if t.Type == core.Income {
			sums, order = incomeSums, &incomeOrder
		}
		if _, seen := sums[t.Category]; !seen {
			*order = append(*order, t.Category)
		}
		sums[t.Category] = sums[t.Category].Add(t.Amount)
	}

	build := func(order []core.TransactionCategory, sums map[core.TransactionCategory]core.Amount) []CategoryAggregate {
		out := make([]CategoryAggregate, 0, len(order))
		for _, c := range order {
			out = append(out, CategoryAggregate{Category: c, Label: c.Label(), Amount: sums[c]})
		}
		return out
	}

	return Breakdown{
		Income:  build(incomeOrder, incomeSums),
		Expense: build(expenseOrder, expenseSums),
	}
}

// MonthlySeries groups the snapshot by calendar month, ascending, and
// truncates to the most recent monthsToShow months that have data.
// monthsToShow <= 0 keeps the whole series.
func MonthlySeries(txs []core.Transaction, monthsToShow int) []core.MonthlyStats {
	series := core.GroupByMonth(txs)
	if monthsToShow > 0 && len(series) > monthsToShow {
		series = series[len(series)-monthsToShow:]
	}
	return series
}

// ComputeStatistics derives the summary statistics. Averages and
// best/worst months come from the (possibly truncated) monthly series;
// top categories and the savings rate come from the full snapshot.
func ComputeStatistics(txs []core.Transaction, monthsToShow int) Statistics {
	stats := Statistics{TotalTransactions: len(txs)}

	series := MonthlySeries(txs, monthsToShow)
	if len(series) > 0 {
		var incomeTotal, expenseTotal core.Amount
		best, worst := series[0], series[0]
		for _, m := range series {
			incomeTotal = incomeTotal.Add(m.Income)
			expenseTotal = expenseTotal.Add(m.Expense)
			if m.Balance.GreaterThan(best.Balance.Decimal) {
				best = m
			}
			if m.Balance.LessThan(worst.Balance.Decimal) {
				worst = m
			}
		}

		months := decimal.NewFromInt(int64(len(series)))
		stats.AvgIncome = core.NewAmount(incomeTotal.Div(months))
		stats.AvgExpense = core.NewAmount(expenseTotal.Div(months))
		stats.BestMonth = best.Month
		stats.BestMonthAmount = best.Balance
		stats.WorstMonth = worst.Month
		stats.WorstMonthAmount = worst.Balance
	}

	breakdown := CategoryBreakdown(txs)
	if top, ok := topAggregate(breakdown.Income); ok {
		stats.TopIncomeCategory = top.Category
		stats.TopIncomeCategoryAmount = top.Amount
	}
	if top, ok := topAggregate(breakdown.Expense); ok {
		stats.TopExpenseCategory = top.Category
		stats.TopExpenseCategoryAmount = top.Amount
	}

	stats.SavingsRate = savingsRate(txs)
	return stats
}

// topAggregate picks the largest aggregate; ties keep the earlier entry.
func topAggregate(aggs []CategoryAggregate) (CategoryAggregate, bool) {
	if len(aggs) == 0 {
		return CategoryAggregate{}, false
	}
	top := aggs[0]
	for _, a := range aggs[1:] {
		if a.Amount.GreaterThan(top.Amount.Decimal) {
			top = a
		}
	}
	return top, true
}

// savingsRate is round((income - expense) / income * 100) over the full
// snapshot, or 0 when there is no income.
func savingsRate(txs []core.Transaction) int64 {
	var income, expense core.Amount
	for _, t := range txs {
		switch t.Type {
		case core.Income:
			income = income.Add(t.Amount)
		case core.Expense:
			expense = expense.Add(t.Amount)
		}
	}
	if !income.IsPositive() {
		return 0
	}
	hundred := decimal.NewFromInt(100)
	return income.Sub(expense).Div(income.Decimal).Mul(hundred).Round(0).IntPart()
}
