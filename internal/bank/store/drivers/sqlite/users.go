package sqlite

import (
	"context"
	"time"

	"github.com/eaglebank/eaglebank/internal/bank/domain"
)

type usersRepo struct {
	q querier
}

const userColumns = `id, name, email, password_hash, description, has_open_account, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, description, has_open_account, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, mapStringNull(u.Description),
		u.HasOpenAccount, u.CreatedAt, u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, password_hash = ?, description = ?, updated_at = ?
		 WHERE id = ?`,
		u.Name, u.Email, u.PasswordHash, mapStringNull(u.Description),
		u.UpdatedAt, u.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRow(res)
}

func (r *usersRepo) SetHasOpenAccount(ctx context.Context, userID string, open bool) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET has_open_account = ?, updated_at = ? WHERE id = ?`,
		open, time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ReconcileOpenAccountFlags repairs flags that disagree with the account
// count in one idempotent statement.
func (r *usersRepo) ReconcileOpenAccountFlags(ctx context.Context) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users
		 SET has_open_account = EXISTS (
		         SELECT 1 FROM accounts WHERE accounts.owner_user_id = users.id
		     ),
		     updated_at = ?
		 WHERE has_open_account != EXISTS (
		         SELECT 1 FROM accounts WHERE accounts.owner_user_id = users.id
		     )`,
		time.Now().UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
