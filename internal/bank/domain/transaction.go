package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
)

// ValidTransactionType reports whether s is a known transaction type.
func ValidTransactionType(s string) bool {
	switch TransactionType(s) {
	case TransactionDeposit, TransactionWithdrawal:
		return true
	}
	return false
}

// Transaction is a historical fact: it snapshots the account's routing pair
// by value rather than holding a live foreign key, and is never updated or
// deleted once created.
type Transaction struct {
	ID          string
	OwnerUserID string // the acting principal at creation time
	// Denormalized copy of the target account's identifiers.
	AccountNumber string
	SortCode      string
	Type          TransactionType
	Amount        decimal.Decimal // always positive; Type carries the sign
	CreatedAt     time.Time
}

// Delta is the signed balance change this transaction applies.
func (t Transaction) Delta() decimal.Decimal {
	if t.Type == TransactionWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}
