package models

import (
	"github.com/shopspring/decimal"
)

// TransactionBuilder provides a fluent API for constructing transactions,
// mostly used by tests and fixtures.
type TransactionBuilder struct {
	tx  Transaction
	err error
}

// NewTransactionBuilder creates a new TransactionBuilder with a zero amount.
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		tx: Transaction{Amount: decimal.Zero},
	}
}

// WithID sets the transaction ID
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.tx.ID = id
	return b
}

// WithDate sets the transaction date string as-is
func (b *TransactionBuilder) WithDate(date string) *TransactionBuilder {
	b.tx.Date = date
	return b
}

// WithActor sets the employee responsible for the expense
func (b *TransactionBuilder) WithActor(actor string) *TransactionBuilder {
	b.tx.Actor = actor
	return b
}

// WithDescription sets the free-text description
func (b *TransactionBuilder) WithDescription(desc string) *TransactionBuilder {
	b.tx.Description = desc
	return b
}

// WithCategory sets the expense category
func (b *TransactionBuilder) WithCategory(category string) *TransactionBuilder {
	b.tx.Category = category
	return b
}

// WithAmount sets the amount from a string. Parse errors are reported by Build.
func (b *TransactionBuilder) WithAmount(amount string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	dec, err := ParseAmount(amount)
	if err != nil {
		b.err = err
		return b
	}
	b.tx.Amount = dec
	return b
}

// WithAmountDecimal sets the amount directly
func (b *TransactionBuilder) WithAmountDecimal(amount decimal.Decimal) *TransactionBuilder {
	b.tx.Amount = amount
	return b
}

// Build returns the transaction or the first error encountered.
func (b *TransactionBuilder) Build() (Transaction, error) {
	if b.err != nil {
		return Transaction{}, b.err
	}
	return b.tx, nil
}

// MustBuild is Build that panics on error.
func (b *TransactionBuilder) MustBuild() Transaction {
	tx, err := b.Build()
	if err != nil {
		panic(err)
	}
	return tx
}
