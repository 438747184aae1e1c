package sqlite

import (
	"context"
	"time"

	"github.com/eaglebank/eaglebank/internal/bank/domain"
	"github.com/eaglebank/eaglebank/internal/bank/store"

	"github.com/shopspring/decimal"
)

type accountsRepo struct {
	q querier
}

const accountColumns = `id, owner_user_id, account_type, account_status, account_number, sort_code, balance, created_at, updated_at`

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *accountsRepo) GetAccountByRouting(ctx context.Context, accountNumber, sortCode string) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_number = ? AND sort_code = ?`,
		accountNumber, sortCode)
	return scanAccount(row)
}

func (r *accountsRepo) ListAccountsByOwner(ctx context.Context, ownerUserID string) ([]domain.Account, error) {
	// ULIDs sort lexicographically by creation time.
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE owner_user_id = ? ORDER BY id`,
		ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO accounts (id, owner_user_id, account_type, account_status, account_number, sort_code, balance, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.OwnerUserID, a.AccountType, string(a.Status),
		a.AccountNumber, a.SortCode, a.Balance.String(), a.CreatedAt, a.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *accountsRepo) UpdateAccount(ctx context.Context, a domain.Account) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET account_type = ?, account_status = ?, updated_at = ? WHERE id = ?`,
		a.AccountType, string(a.Status), a.UpdatedAt, a.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateBalance writes the new balance only if the stored value still equals
// expected. A zero-row result against an existing account means a concurrent
// writer won the race.
func (r *accountsRepo) UpdateBalance(ctx context.Context, accountID string, expected, next decimal.Decimal) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET balance = ?, updated_at = ? WHERE id = ? AND balance = ?`,
		next.String(), time.Now().UTC(), accountID, expected.String(),
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetAccountByID(ctx, accountID); err != nil {
			return err // store.ErrNotFound
		}
		return store.ErrStale
	}
	return nil
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, accountID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, accountID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) CountAccountsByOwner(ctx context.Context, ownerUserID string) (int64, error) {
	var n int64
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE owner_user_id = ?`, ownerUserID).Scan(&n)
	return n, err
}
