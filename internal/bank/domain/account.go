package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus is the lifecycle state of an account. Only active accounts
// accept transactions.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusInactive  AccountStatus = "inactive"
	AccountStatusSuspended AccountStatus = "suspended"
)

// ValidAccountStatus reports whether s is one of the known statuses.
func ValidAccountStatus(s string) bool {
	switch AccountStatus(s) {
	case AccountStatusActive, AccountStatusInactive, AccountStatusSuspended:
		return true
	}
	return false
}

type Account struct {
	ID          string
	OwnerUserID string // immutable after creation
	AccountType string
	Status      AccountStatus
	// AccountNumber and SortCode together uniquely address one account.
	// Once a transaction references a pair it must never be reassigned.
	AccountNumber string
	SortCode      string
	Balance       decimal.Decimal // invariant: never negative after commit
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
