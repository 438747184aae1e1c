package service

import (
	"context"
	"errors"
	"time"

	"github.com/eaglebank/eaglebank/internal/bank/domain"
	"github.com/eaglebank/eaglebank/internal/bank/store"
	"github.com/eaglebank/eaglebank/pkg/idx"

	"github.com/shopspring/decimal"
)

// TransactionService is the transaction engine: it validates a deposit or
// withdrawal, applies the signed delta to the account balance, and records
// the transaction, all inside one store transaction so the balance change
// and the history entry commit or roll back together.
type TransactionService struct {
	Store   store.Store
	Timeout time.Duration
}

// CreateTransactionParams are the inputs for creating a transaction.
type CreateTransactionParams struct {
	Type          string
	AccountNumber string
	SortCode      string
	Amount        decimal.Decimal
}

// Create validates and applies a transaction against the account addressed by
// the routing pair. The balance is checked before commit: an overdraw fails
// with InsufficientFunds and mutates nothing.
func (s *TransactionService) Create(ctx context.Context, principalID, pathAccountID string, p CreateTransactionParams) (domain.Transaction, error) {
	if _, err := idx.Parse(pathAccountID); err != nil {
		return domain.Transaction{}, ErrInvalidID
	}
	if !domain.ValidTransactionType(p.Type) {
		return domain.Transaction{}, validationf("transactionType must be deposit or withdrawal")
	}
	if !routingFieldOK(p.AccountNumber) {
		return domain.Transaction{}, validationf("accountNumber must be at least 6 digits")
	}
	if !routingFieldOK(p.SortCode) {
		return domain.Transaction{}, validationf("sortCode must be at least 6 digits")
	}
	if !p.Amount.IsPositive() {
		return domain.Transaction{}, validationf("amount must be positive")
	}

	txn := domain.Transaction{
		ID:            idx.New().String(),
		OwnerUserID:   principalID,
		AccountNumber: p.AccountNumber,
		SortCode:      p.SortCode,
		Type:          domain.TransactionType(p.Type),
		Amount:        p.Amount,
		CreatedAt:     time.Now().UTC(),
	}

	ctx, cancel := opContext(ctx, s.Timeout)
	defer cancel()

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		account, err := tx.Accounts().GetAccountByRouting(ctx, p.AccountNumber, p.SortCode)
		if err != nil {
			return err
		}
		// The path-scoped account must be the one the routing pair
		// resolves to, otherwise the caller addressed a resource that
		// does not exist under that path.
		if account.ID != pathAccountID {
			return ErrNotFound
		}
		if !canAccess(principalID, account.OwnerUserID) {
			return ErrForbidden
		}
		if account.Status != domain.AccountStatusActive {
			return ErrInactiveAccount
		}

		next := account.Balance.Add(txn.Delta())
		if next.IsNegative() {
			return ErrInsufficientFunds
		}

		// Guarded conditional write: inside this transaction it cannot
		// race, and against a store without transactional isolation it
		// still refuses to clobber a concurrent writer.
		if err := tx.Accounts().UpdateBalance(ctx, account.ID, account.Balance, next); err != nil {
			if errors.Is(err, store.ErrStale) {
				return ErrUnavailable
			}
			return err
		}

		return tx.Transactions().CreateTransaction(ctx, txn)
	})
	if err != nil {
		return domain.Transaction{}, mapStoreErr(err)
	}
	return txn, nil
}

// List returns the transactions recorded against an account's routing pair.
func (s *TransactionService) List(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	if _, err := idx.Parse(accountID); err != nil {
		return nil, ErrInvalidID
	}

	ctx, cancel := opContext(ctx, s.Timeout)
	defer cancel()

	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	txns, err := s.Store.Transactions().ListTransactionsByRouting(ctx, account.AccountNumber, account.SortCode)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return txns, nil
}

// Get resolves a single transaction under an account. The transaction must
// belong to the account's routing pair and to the principal.
func (s *TransactionService) Get(ctx context.Context, principalID, accountID, transactionID string) (domain.Transaction, error) {
	if _, err := idx.Parse(accountID); err != nil {
		return domain.Transaction{}, ErrInvalidID
	}
	if _, err := idx.Parse(transactionID); err != nil {
		return domain.Transaction{}, ErrInvalidID
	}

	ctx, cancel := opContext(ctx, s.Timeout)
	defer cancel()

	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		return domain.Transaction{}, mapStoreErr(err)
	}

	txn, err := s.Store.Transactions().GetTransactionByID(ctx, transactionID)
	if err != nil {
		return domain.Transaction{}, mapStoreErr(err)
	}

	if txn.AccountNumber != account.AccountNumber || txn.SortCode != account.SortCode {
		return domain.Transaction{}, ErrForbidden
	}
	if !canAccess(principalID, txn.OwnerUserID) {
		return domain.Transaction{}, ErrForbidden
	}
	return txn, nil
}
