package sqlite

import (
	"context"

	"github.com/eaglebank/eaglebank/internal/bank/domain"
)

type transactionsRepo struct {
	q querier
}

const transactionColumns = `id, owner_user_id, account_number, sort_code, transaction_type, amount, created_at`

func (r *transactionsRepo) GetTransactionByID(ctx context.Context, id string) (domain.Transaction, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	return scanTransaction(row)
}

func (r *transactionsRepo) ListTransactionsByRouting(ctx context.Context, accountNumber, sortCode string) ([]domain.Transaction, error) {
	// ULIDs sort lexicographically by creation time; DESC puts the newest
	// transaction first.
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE account_number = ? AND sort_code = ? ORDER BY id DESC`,
		accountNumber, sortCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// CreateTransaction appends a transaction record. There is deliberately no
// update or delete: transactions are immutable history.
func (r *transactionsRepo) CreateTransaction(ctx context.Context, t domain.Transaction) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO transactions (id, owner_user_id, account_number, sort_code, transaction_type, amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerUserID, t.AccountNumber, t.SortCode,
		string(t.Type), t.Amount.String(), t.CreatedAt,
	)
	return mapConstraint(err)
}
