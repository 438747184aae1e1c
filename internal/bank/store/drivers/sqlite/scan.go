package sqlite

import (
	"database/sql"

	"github.com/eaglebank/eaglebank/internal/bank/domain"
	"github.com/eaglebank/eaglebank/internal/bank/store"

	"github.com/shopspring/decimal"
)

// scanner is the common subset of *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// requireRow converts a zero-row UPDATE/DELETE into store.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanUser(s scanner) (domain.User, error) {
	var (
		u    domain.User
		desc sql.NullString
	)
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &desc,
		&u.HasOpenAccount, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Description = mapNullString(desc)
	return u, nil
}

func scanAccount(s scanner) (domain.Account, error) {
	var (
		a       domain.Account
		status  string
		balance string
	)
	err := s.Scan(&a.ID, &a.OwnerUserID, &a.AccountType, &status,
		&a.AccountNumber, &a.SortCode, &balance, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}

	a.Status = domain.AccountStatus(status)
	a.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return domain.Account{}, err
	}
	return a, nil
}

func scanTransaction(s scanner) (domain.Transaction, error) {
	var (
		t      domain.Transaction
		typ    string
		amount string
	)
	err := s.Scan(&t.ID, &t.OwnerUserID, &t.AccountNumber, &t.SortCode,
		&typ, &amount, &t.CreatedAt)
	if err != nil {
		return domain.Transaction{}, mapNotFound(err)
	}

	t.Type = domain.TransactionType(typ)
	t.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return domain.Transaction{}, err
	}
	return t, nil
}
