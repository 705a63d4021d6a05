// Package services layers validation, query shaping, and import/export
// framing over the ledger repository.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

const jsonIndent = "  "

// EventPublisher announces ledger mutations to external collaborators.
// *amqp.Client satisfies it; a nil publisher disables events.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, action, id string) error
}

// TransactionService validates input, applies filters and sort order,
// computes balances and monthly stats, and frames import/export on top of
// the repository.
type TransactionService struct {
	repo   *ledger.Repository
	events EventPublisher
}

func NewTransactionService(repo *ledger.Repository, events EventPublisher) *TransactionService {
	return &TransactionService{
		repo:   repo,
		events: events,
	}
}

// classify passes recognized failure kinds through unchanged and wraps
// anything unfamiliar so callers only observe the documented kinds.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		re *ledger.RepositoryError
		nf *ledger.NotFoundError
		ve *ValidationError
	)
	if errors.As(err, &re) || errors.As(err, &nf) || errors.As(err, &ve) ||
		errors.Is(err, ledger.ErrInvalidImport) {
		return err
	}
	return &ServiceError{Op: op, Err: err}
}

func (s *TransactionService) publish(ctx context.Context, action, id string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, action, id); err != nil {
		// The mutation already succeeded locally; never fail the request.
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"action", action, "transaction_id", id, "error", err)
	}
}

// CreateTransaction validates the dto and delegates to the repository.
func (s *TransactionService) CreateTransaction(ctx context.Context, dto core.CreateTransaction) (core.Transaction, error) {
	if err := dto.Validate(); err != nil {
		return core.Transaction{}, &ValidationError{Err: err}
	}

	tx, err := s.repo.Create(ctx, dto)
	if err != nil {
		return core.Transaction{}, classify("create", err)
	}

	s.publish(ctx, amqp.ActionCreated, tx.ID)
	return tx, nil
}

// UpdateTransaction validates the provided fields, enforces the
// category/type pairing against the merge target, and delegates to the
// repository.
func (s *TransactionService) UpdateTransaction(ctx context.Context, dto core.UpdateTransaction) (core.Transaction, error) {
	if err := dto.Validate(); err != nil {
		return core.Transaction{}, &ValidationError{Err: err}
	}

	if dto.Type != nil || dto.Category != nil {
		existing, ok, err := s.repo.FindByID(ctx, dto.ID)
		if err != nil {
			return core.Transaction{}, classify("update", err)
		}
		if !ok {
			return core.Transaction{}, &ledger.NotFoundError{ID: dto.ID}
		}
		tt, cat := existing.Type, existing.Category
		if dto.Type != nil {
			tt = *dto.Type
		}
		if dto.Category != nil {
			cat = *dto.Category
		}
		if !cat.MatchesType(tt) {
			return core.Transaction{}, &ValidationError{Err: core.ErrCategoryMismatch}
		}
	}

	tx, err := s.repo.Update(ctx, dto)
	if err != nil {
		return core.Transaction{}, classify("update", err)
	}

	s.publish(ctx, amqp.ActionUpdated, tx.ID)
	return tx, nil
}

// DeleteTransaction removes the record with the given id.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return classify("delete", err)
	}
	s.publish(ctx, amqp.ActionDeleted, id)
	return nil
}

// GetTransactionByID returns the record, with ok=false when absent.
func (s *TransactionService) GetTransactionByID(ctx context.Context, id string) (core.Transaction, bool, error) {
	tx, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return core.Transaction{}, false, classify("find", err)
	}
	return tx, ok, nil
}

// GetTransactions lists transactions, applying the optional filters in a
// fixed order (type, category, dateFrom, dateTo, search) and always
// re-sorting by date descending with stable ties.
func (s *TransactionService) GetTransactions(ctx context.Context, filters core.Filters) ([]core.Transaction, error) {
	txs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, classify("list", err)
	}
	if !filters.IsEmpty() {
		txs = applyFilters(txs, filters)
	}
	sortByDateDesc(txs)
	return txs, nil
}

func applyFilters(txs []core.Transaction, f core.Filters) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if !f.DateFrom.IsZero() && t.Date.Before(startOfDay(f.DateFrom)) {
			continue
		}
		if !f.DateTo.IsZero() && !t.Date.Before(startOfDay(f.DateTo).AddDate(0, 0, 1)) {
			continue
		}
		if f.Search != "" && !commentMatches(t.Comment, f.Search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// commentMatches is a case-insensitive substring match; records without a
// comment never match a non-empty search.
func commentMatches(comment, search string) bool {
	if comment == "" {
		return false
	}
	return strings.Contains(strings.ToLower(comment), strings.ToLower(search))
}

func sortByDateDesc(txs []core.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
}

// CalculateBalance sums amounts by type in a single pass.
func (s *TransactionService) CalculateBalance(ctx context.Context) (core.Balance, error) {
	txs, err := s.repo.ListAll(ctx)
	if err != nil {
		return core.Balance{}, classify("balance", err)
	}

	var income, expense core.Amount
	for _, t := range txs {
		switch t.Type {
		case core.Income:
			income = income.Add(t.Amount)
		case core.Expense:
			expense = expense.Add(t.Amount)
		}
	}

	return core.Balance{
		TotalIncome:  income,
		TotalExpense: expense,
		NetBalance:   income.Sub(expense),
	}, nil
}

// GetMonthlyStats groups all records by calendar month, ascending by
// month key.
func (s *TransactionService) GetMonthlyStats(ctx context.Context) ([]core.MonthlyStats, error) {
	txs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, classify("monthly stats", err)
	}
	return core.GroupByMonth(txs), nil
}

// ExportToJSON serializes the full record set with stable two-space
// indentation, suitable for round-tripping through ImportFromJSON.
func (s *TransactionService) ExportToJSON(ctx context.Context) (string, error) {
	txs, err := s.repo.ExportAll(ctx)
	if err != nil {
		return "", classify("export", err)
	}

	data, err := json.MarshalIndent(txs, "", jsonIndent)
	if err != nil {
		return "", classify("export", err)
	}
	return string(data), nil
}

// ImportFromJSON validates the document structure fully before any write,
// then wholesale-replaces the persisted collection.
func (s *TransactionService) ImportFromJSON(ctx context.Context, text string) error {
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return &ValidationError{Msg: "invalid JSON format", Err: err}
	}

	arr, ok := raw.([]any)
	if !ok {
		return &ValidationError{Msg: "invalid import format: expected an array of transactions"}
	}
	if err := validateImportRecords(arr); err != nil {
		return err
	}

	var txs []core.Transaction
	if err := json.Unmarshal([]byte(text), &txs); err != nil {
		return &ValidationError{Msg: "invalid transaction data structure in import", Err: err}
	}
	if txs == nil {
		txs = []core.Transaction{}
	}

	if err := s.repo.ImportAll(ctx, txs); err != nil {
		return classify("import", err)
	}

	s.publish(ctx, amqp.ActionImported, "")
	return nil
}

var importRequiredFields = []string{"id", "type", "category", "amount", "date"}

// validateImportRecords is the explicit schema check: every element must be
// an object with the required fields and a numeric amount.
func validateImportRecords(arr []any) error {
	for _, el := range arr {
		obj, ok := el.(map[string]any)
		if !ok {
			return &ValidationError{Msg: "invalid transaction data structure in import"}
		}
		for _, field := range importRequiredFields {
			if _, present := obj[field]; !present {
				return &ValidationError{Msg: "invalid transaction data structure in import: missing " + field}
			}
		}
		if _, isNumber := obj["amount"].(float64); !isNumber {
			return &ValidationError{Msg: "invalid transaction data structure in import: amount must be a number"}
		}
	}
	return nil
}
