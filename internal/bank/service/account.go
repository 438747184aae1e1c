package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/eaglebank/eaglebank/internal/bank/domain"
	"github.com/eaglebank/eaglebank/internal/bank/store"
	"github.com/eaglebank/eaglebank/pkg/idx"

	"github.com/shopspring/decimal"
)

// AccountService is the account registry: it owns account records, the
// (accountNumber, sortCode) uniqueness rule, ownership checks, and keeps the
// owner's hasOpenAccount flag in lockstep with the account count.
type AccountService struct {
	Store   store.Store
	Timeout time.Duration
}

// CreateAccountParams are the inputs for opening an account.
type CreateAccountParams struct {
	AccountType   string
	AccountStatus string
	AccountNumber string
	SortCode      string
	Balance       decimal.Decimal
}

// UpdateAccountParams is the typed partial update for an account. Routing
// identifiers, owner and balance are not updatable here; balances move only
// through transactions.
type UpdateAccountParams struct {
	AccountType   *string
	AccountStatus *string
}

// Create opens an account for the principal. The uniqueness check, the insert
// and the owner's flag flip are one unit of work: if any step fails, none of
// them happened.
func (s *AccountService) Create(ctx context.Context, principalID string, p CreateAccountParams) (domain.Account, error) {
	p.AccountType = strings.TrimSpace(p.AccountType)

	if len(p.AccountType) < 2 {
		return domain.Account{}, validationf("accountType must be at least 2 characters")
	}
	if !domain.ValidAccountStatus(p.AccountStatus) {
		return domain.Account{}, validationf("accountStatus must be one of active, inactive, suspended")
	}
	if !routingFieldOK(p.AccountNumber) {
		return domain.Account{}, validationf("accountNumber must be at least 6 digits")
	}
	if !routingFieldOK(p.SortCode) {
		return domain.Account{}, validationf("sortCode must be at least 6 digits")
	}
	if p.Balance.IsNegative() {
		return domain.Account{}, validationf("balance must not be negative")
	}

	now := time.Now().UTC()
	account := domain.Account{
		ID:            idx.New().String(),
		OwnerUserID:   principalID,
		AccountType:   p.AccountType,
		Status:        domain.AccountStatus(p.AccountStatus),
		AccountNumber: p.AccountNumber,
		SortCode:      p.SortCode,
		Balance:       p.Balance,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	ctx, cancel := opContext(ctx, s.Timeout)
	defer cancel()

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Accounts().GetAccountByRouting(ctx, p.AccountNumber, p.SortCode); err == nil {
			return ErrConflict
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Accounts().CreateAccount(ctx, account); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrConflict
			}
			return err
		}

		// Inseparable follow-up: if the flag cannot be set, account
		// creation did not happen.
		return tx.Users().SetHasOpenAccount(ctx, principalID, true)
	})
	if err != nil {
		return domain.Account{}, mapStoreErr(err)
	}
	return account, nil
}

// List returns the principal's own accounts in creation order.
func (s *AccountService) List(ctx context.Context, principalID string) ([]domain.Account, error) {
	ctx, cancel := opContext(ctx, s.Timeout)
	defer cancel()

	accounts, err := s.Store.Accounts().ListAccountsByOwner(ctx, principalID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return accounts, nil
}

// Get resolves an account and enforces ownership. Existence is validated
// alongside ownership so a malformed id never leaks whether a resource exists.
func (s *AccountService) Get(ctx context.Context, principalID, accountID string) (domain.Account, error) {
	if _, err := idx.Parse(accountID); err != nil {
		return domain.Account{}, ErrInvalidID
	}

	ctx, cancel := opContext(ctx, s.Timeout)
	defer cancel()

	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		return domain.Account{}, mapStoreErr(err)
	}
	if !canAccess(principalID, account.OwnerUserID) {
		return domain.Account{}, ErrForbidden
	}
	return account, nil
}

// Update applies a typed partial update to an owned account.
func (s *AccountService) Update(ctx context.Context, principalID, accountID string, p UpdateAccountParams) (domain.Account, error) {
	if _, err := idx.Parse(accountID); err != nil {
		return domain.Account{}, ErrInvalidID
	}

	ctx, cancel := opContext(ctx, s.Timeout)
	defer cancel()

	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		return domain.Account{}, mapStoreErr(err)
	}
	if !canAccess(principalID, account.OwnerUserID) {
		return domain.Account{}, ErrForbidden
	}

	if p.AccountType != nil {
		accountType := strings.TrimSpace(*p.AccountType)
		if len(accountType) < 2 {
			return domain.Account{}, validationf("accountType must be at least 2 characters")
		}
		account.AccountType = accountType
	}
	if p.AccountStatus != nil {
		if !domain.ValidAccountStatus(*p.AccountStatus) {
			return domain.Account{}, validationf("accountStatus must be one of active, inactive, suspended")
		}
		account.Status = domain.AccountStatus(*p.AccountStatus)
	}

	account.UpdatedAt = time.Now().UTC()
	if err := s.Store.Accounts().UpdateAccount(ctx, account); err != nil {
		return domain.Account{}, mapStoreErr(err)
	}
	return account, nil
}

// Delete removes an owned account and, when it was the owner's last one,
// clears the hasOpenAccount flag in the same unit of work.
func (s *AccountService) Delete(ctx context.Context, principalID, accountID string) error {
	if _, err := idx.Parse(accountID); err != nil {
		return ErrInvalidID
	}

	ctx, cancel := opContext(ctx, s.Timeout)
	defer cancel()

	return mapStoreErr(s.Store.WithTx(ctx, func(tx store.Tx) error {
		account, err := tx.Accounts().GetAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		if !canAccess(principalID, account.OwnerUserID) {
			return ErrForbidden
		}

		if err := tx.Accounts().DeleteAccount(ctx, accountID); err != nil {
			return err
		}

		remaining, err := tx.Accounts().CountAccountsByOwner(ctx, account.OwnerUserID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			return tx.Users().SetHasOpenAccount(ctx, account.OwnerUserID, false)
		}
		return nil
	}))
}
