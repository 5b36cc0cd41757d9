// Package models provides the data structures shared by the audit components.
package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNegativeAmount is returned by ParseAmount for amounts below zero.
var ErrNegativeAmount = errors.New("amount must not be negative")

// Transaction is one ledger entry. Values are never mutated after load.
type Transaction struct {
	ID          string          `json:"id" yaml:"id"`
	Date        string          `json:"date" yaml:"date"`
	Actor       string          `json:"actor" yaml:"actor"`
	Description string          `json:"description" yaml:"description"`
	Category    string          `json:"category" yaml:"category"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
}

// ParseAmount parses a locale-neutral decimal string ("1234.56").
// Thousand separators, currency symbols and decimal commas are not accepted.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	s := strings.TrimSpace(amountStr)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	dec, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if dec.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return dec, nil
}

// LowerDescription returns the description lowercased for keyword matching.
func (t Transaction) LowerDescription() string {
	return strings.ToLower(t.Description)
}

// LowerCategory returns the category lowercased for comparisons.
func (t Transaction) LowerCategory() string {
	return strings.ToLower(strings.TrimSpace(t.Category))
}
