package core

import (
	"errors"
	"sort"
	"time"
	"unicode/utf8"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// MaxCommentLength is the upper bound on the free-text comment.
const MaxCommentLength = 500

type (
	TransactionType string

	// Transaction is the single persisted entity of the ledger.
	// ID and the audit timestamps are assigned by the repository.
	Transaction struct {
		ID        string              `json:"id"`
		Type      TransactionType     `json:"type"`
		Category  TransactionCategory `json:"category"`
		Amount    Amount              `json:"amount"`
		Date      time.Time           `json:"date"`
		Comment   string              `json:"comment,omitempty"`
		CreatedAt time.Time           `json:"createdAt"`
		UpdatedAt time.Time           `json:"updatedAt"`
	}

	// CreateTransaction carries the caller-supplied fields of a new record.
	CreateTransaction struct {
		Type     TransactionType     `json:"type"`
		Category TransactionCategory `json:"category"`
		Amount   Amount              `json:"amount"`
		Date     time.Time           `json:"date"`
		Comment  string              `json:"comment,omitempty"`
	}

	// UpdateTransaction is a partial update: nil means "leave unchanged".
	// A non-nil empty Comment clears the stored comment.
	UpdateTransaction struct {
		ID       string               `json:"id"`
		Type     *TransactionType     `json:"type,omitempty"`
		Category *TransactionCategory `json:"category,omitempty"`
		Amount   *Amount              `json:"amount,omitempty"`
		Date     *time.Time           `json:"date,omitempty"`
		Comment  *string              `json:"comment,omitempty"`
	}

	// Filters narrows a transaction listing. Every field is optional.
	Filters struct {
		Type     TransactionType
		Category TransactionCategory
		DateFrom time.Time
		DateTo   time.Time
		Search   string
	}

	// Balance is a pure reduction over a transaction set.
	Balance struct {
		TotalIncome  Amount `json:"totalIncome"`
		TotalExpense Amount `json:"totalExpense"`
		NetBalance   Amount `json:"netBalance"`
	}

	// MonthlyStats aggregates one calendar month of activity.
	MonthlyStats struct {
		Month   string `json:"month"`
		Income  Amount `json:"income"`
		Expense Amount `json:"expense"`
		Balance Amount `json:"balance"`
	}
)

var (
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidCategory  = errors.New("invalid transaction category")
	ErrCategoryMismatch = errors.New("category does not match transaction type")
	ErrZeroDate         = errors.New("date cannot be zero")
	ErrCommentTooLong   = errors.New("comment too long")
)

func (tt TransactionType) Valid() bool {
	return tt == Income || tt == Expense
}

// MonthKey formats a timestamp as the YYYY-MM grouping key.
// The key is derived in UTC so grouping does not depend on the host zone.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// GroupByMonth folds a transaction set into per-month stats, sorted
// ascending by month key. Zero-padded YYYY-MM keys sort chronologically.
func GroupByMonth(txs []Transaction) []MonthlyStats {
	grouped := make(map[string]*MonthlyStats)
	keys := make([]string, 0)

	for _, t := range txs {
		key := MonthKey(t.Date)
		stats, ok := grouped[key]
		if !ok {
			stats = &MonthlyStats{Month: key}
			grouped[key] = stats
			keys = append(keys, key)
		}
		switch t.Type {
		case Income:
			stats.Income = stats.Income.Add(t.Amount)
		case Expense:
			stats.Expense = stats.Expense.Add(t.Amount)
		}
	}

	sort.Strings(keys)
	out := make([]MonthlyStats, 0, len(keys))
	for _, key := range keys {
		stats := grouped[key]
		stats.Balance = stats.Income.Sub(stats.Expense)
		out = append(out, *stats)
	}
	return out
}

func validateComment(comment string) error {
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

func (dto CreateTransaction) Validate() error {
	if !dto.Type.Valid() {
		return ErrInvalidType
	}
	if !dto.Category.Valid() {
		return ErrInvalidCategory
	}
	if !dto.Category.MatchesType(dto.Type) {
		return ErrCategoryMismatch
	}
	if err := dto.Amount.Validate(); err != nil {
		return err
	}
	if dto.Date.IsZero() {
		return ErrZeroDate
	}
	return validateComment(dto.Comment)
}

// Validate checks only the fields present in the partial update. The
// cross-field category/type rule needs the stored record and is enforced
// by the service once the merge target is known.
func (dto UpdateTransaction) Validate() error {
	if dto.Type != nil && !dto.Type.Valid() {
		return ErrInvalidType
	}
	if dto.Category != nil && !dto.Category.Valid() {
		return ErrInvalidCategory
	}
	if dto.Amount != nil {
		if err := dto.Amount.Validate(); err != nil {
			return err
		}
	}
	if dto.Date != nil && dto.Date.IsZero() {
		return ErrZeroDate
	}
	if dto.Comment != nil {
		return validateComment(*dto.Comment)
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	if !t.Category.MatchesType(t.Type) {
		return ErrCategoryMismatch
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	return validateComment(t.Comment)
}

// IsEmpty reports whether no filter field is set.
func (f Filters) IsEmpty() bool {
	return f.Type == "" && f.Category == "" &&
		f.DateFrom.IsZero() && f.DateTo.IsZero() && f.Search == ""
}
