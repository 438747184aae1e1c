package store

import (
	"context"
	"errors"

	"github.com/eaglebank/eaglebank/internal/bank/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrStale reports a conditional update that matched no row because the
	// expected current value changed underneath the caller.
	ErrStale = errors.New("store: stale update")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and is the single serialization point for concurrent requests.
type Store interface {
	Users() Users
	Accounts() Accounts
	Transactions() Transactions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., applying a
	// balance change together with appending the transaction record).
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error the transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up a user by their lower-cased email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser rewrites the mutable profile fields (name, email,
	// password_hash, description) and persists the caller's UpdatedAt
	// stamp, so the stored row matches the value the caller returns.
	UpdateUser(ctx context.Context, u domain.User) error

	// SetHasOpenAccount flips the open-account flag and bumps updated_at.
	SetHasOpenAccount(ctx context.Context, userID string, open bool) error

	// DeleteUser removes the user row. Callers enforce the has-open-account
	// guard before getting here.
	DeleteUser(ctx context.Context, userID string) error

	// ReconcileOpenAccountFlags repairs any has_open_account flag that
	// disagrees with the actual account count. Idempotent; returns the
	// number of rows repaired.
	ReconcileOpenAccountFlags(ctx context.Context) (int64, error)
}

type Accounts interface {
	// GetAccountByID returns an account by id.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByRouting resolves an account by its (accountNumber,
	// sortCode) pair.
	GetAccountByRouting(ctx context.Context, accountNumber, sortCode string) (domain.Account, error)

	// ListAccountsByOwner returns the owner's accounts in creation order.
	ListAccountsByOwner(ctx context.Context, ownerUserID string) ([]domain.Account, error)

	// CreateAccount inserts a new account. Returns ErrAlreadyExists when the
	// (account_number, sort_code) pair is taken.
	CreateAccount(ctx context.Context, a domain.Account) error

	// UpdateAccount rewrites account_type and account_status and persists
	// the caller's UpdatedAt stamp. Routing identifiers and owner are
	// immutable.
	UpdateAccount(ctx context.Context, a domain.Account) error

	// UpdateBalance performs a guarded conditional update: the new balance is
	// written only if the stored balance still equals expected. Returns
	// ErrStale when a concurrent writer got there first. This is the
	// serialization primitive for all balance mutation.
	UpdateBalance(ctx context.Context, accountID string, expected, next decimal.Decimal) error

	// DeleteAccount removes the account row.
	DeleteAccount(ctx context.Context, accountID string) error

	// CountAccountsByOwner returns how many accounts the user owns.
	CountAccountsByOwner(ctx context.Context, ownerUserID string) (int64, error)
}

type Transactions interface {
	// GetTransactionByID returns a transaction by id.
	GetTransactionByID(ctx context.Context, id string) (domain.Transaction, error)

	// ListTransactionsByRouting returns the transactions recorded against an
	// account's routing pair, newest first.
	ListTransactionsByRouting(ctx context.Context, accountNumber, sortCode string) ([]domain.Transaction, error)

	// CreateTransaction appends an immutable transaction record.
	CreateTransaction(ctx context.Context, t domain.Transaction) error
}
