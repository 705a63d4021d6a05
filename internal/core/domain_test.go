package core

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestCreateTransactionValidate(t *testing.T) {
	good := CreateTransaction{
		Type:     Expense,
		Category: Food,
		Amount:   AmountFromFloat(12.5),
		Date:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Comment:  "groceries",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		name string
		dto  CreateTransaction
		want error
	}{
		{"bad type", CreateTransaction{Type: "transfer", Category: Food, Amount: AmountFromFloat(1), Date: good.Date}, ErrInvalidType},
		{"bad category", CreateTransaction{Type: Expense, Category: "misc", Amount: AmountFromFloat(1), Date: good.Date}, ErrInvalidCategory},
		{"income category on expense", CreateTransaction{Type: Expense, Category: Salary, Amount: AmountFromFloat(1), Date: good.Date}, ErrCategoryMismatch},
		{"zero amount", CreateTransaction{Type: Expense, Category: Food, Amount: AmountFromFloat(0), Date: good.Date}, ErrInvalidAmount},
		{"negative amount", CreateTransaction{Type: Expense, Category: Food, Amount: AmountFromFloat(-3), Date: good.Date}, ErrInvalidAmount},
		{"zero date", CreateTransaction{Type: Expense, Category: Food, Amount: AmountFromFloat(1)}, ErrZeroDate},
		{"long comment", CreateTransaction{Type: Expense, Category: Food, Amount: AmountFromFloat(1), Date: good.Date, Comment: strings.Repeat("x", MaxCommentLength+1)}, ErrCommentTooLong},
	}
	for _, tc := range bads {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.dto.Validate(); err != tc.want {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestUpdateTransactionValidate(t *testing.T) {
	if err := (UpdateTransaction{ID: "a"}).Validate(); err != nil {
		t.Fatalf("empty update should validate, got %v", err)
	}

	bad := AmountFromFloat(0)
	if err := (UpdateTransaction{ID: "a", Amount: &bad}).Validate(); err != ErrInvalidAmount {
		t.Fatalf("got %v, want %v", err, ErrInvalidAmount)
	}

	empty := ""
	if err := (UpdateTransaction{ID: "a", Comment: &empty}).Validate(); err != nil {
		t.Fatalf("clearing the comment should validate, got %v", err)
	}
}

func TestCategoriesByType(t *testing.T) {
	income := CategoriesByType(Income)
	expense := CategoriesByType(Expense)

	if len(income) != len(IncomeCategories) {
		t.Fatalf("income options: got %d, want %d", len(income), len(IncomeCategories))
	}
	if len(expense) != len(ExpenseCategories) {
		t.Fatalf("expense options: got %d, want %d", len(expense), len(ExpenseCategories))
	}
	if income[0].Value != Salary || income[0].Label != "Salary" {
		t.Fatalf("unexpected first income option: %+v", income[0])
	}

	seen := map[TransactionCategory]bool{}
	for _, o := range income {
		seen[o.Value] = true
	}
	for _, o := range expense {
		if seen[o.Value] {
			t.Fatalf("category %s appears in both sets", o.Value)
		}
	}
}

func TestMonthKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 2024-02-01 02:00 +05:00 is still January in UTC.
	d := time.Date(2024, 2, 1, 2, 0, 0, 0, loc)
	if got := MonthKey(d); got != "2024-01" {
		t.Fatalf("got %s, want 2024-01", got)
	}
}

func TestTransactionJSONRoundTrip(t *testing.T) {
	tx := Transaction{
		ID:        "abc",
		Type:      Income,
		Category:  Salary,
		Amount:    AmountFromFloat(1234.56),
		Date:      time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		Comment:   "march pay",
		CreatedAt: time.Date(2024, 3, 10, 12, 0, 1, 0, time.UTC),
		UpdatedAt: time.Date(2024, 3, 10, 12, 0, 1, 0, time.UTC),
	}

	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"amount":1234.56`) {
		t.Fatalf("amount should encode as a plain number, got %s", data)
	}

	var back Transaction
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ID != tx.ID || !back.Amount.Equal(tx.Amount.Decimal) || !back.Date.Equal(tx.Date) {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}
