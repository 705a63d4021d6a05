// Package core defines the ledger domain model: transactions, amounts,
// the category taxonomy, and the derived read models.
package core

import (
	"github.com/shopspring/decimal"
)

// Amount is a monetary value with exact decimal arithmetic.
// Transaction amounts must be strictly positive; derived values such as a
// net balance may hold any sign.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// AmountFromFloat converts a float for callers that only have one,
// e.g. CLI flags. Prefer AmountFromString where the input is text.
func AmountFromFloat(f float64) Amount {
	return Amount{Decimal: decimal.NewFromFloat(f)}
}

func AmountFromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{Decimal: d}, nil
}

func (a Amount) Validate() error {
	if !a.Decimal.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (a Amount) Add(b Amount) Amount {
	return Amount{Decimal: a.Decimal.Add(b.Decimal)}
}

func (a Amount) Sub(b Amount) Amount {
	return Amount{Decimal: a.Decimal.Sub(b.Decimal)}
}

// MarshalJSON writes the amount as a plain JSON number so the export
// document round-trips with the persisted layout. Unmarshaling is inherited
// from decimal.Decimal, which accepts JSON numbers.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}
