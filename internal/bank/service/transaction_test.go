package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/eaglebank/eaglebank/internal/bank/domain"
	"github.com/eaglebank/eaglebank/pkg/idx"
)

func deposit(account domain.Account, amount int64) CreateTransactionParams {
	return CreateTransactionParams{
		Type:          "deposit",
		AccountNumber: account.AccountNumber,
		SortCode:      account.SortCode,
		Amount:        decimal.NewFromInt(amount),
	}
}

func withdrawal(account domain.Account, amount int64) CreateTransactionParams {
	p := deposit(account, amount)
	p.Type = "withdrawal"
	return p
}

func TestTransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)
	accounts := &AccountService{Store: st}
	txns := &TransactionService{Store: st}

	ada, _, err := users.Register(ctx, RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	account, err := accounts.Create(ctx, ada.ID, checkingAccount("12345678"))
	require.NoError(t, err)

	balance := func() decimal.Decimal {
		got, err := accounts.Get(ctx, ada.ID, account.ID)
		require.NoError(t, err)
		return got.Balance
	}

	// 1000 + 500 = 1500
	dep, err := txns.Create(ctx, ada.ID, account.ID, deposit(account, 500))
	require.NoError(t, err)
	require.Equal(t, domain.TransactionDeposit, dep.Type)
	require.True(t, balance().Equal(decimal.NewFromInt(1500)))

	// Overdraw refused; balance untouched
	_, err = txns.Create(ctx, ada.ID, account.ID, withdrawal(account, 2000))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	require.True(t, balance().Equal(decimal.NewFromInt(1500)))

	// Withdraw down to exactly zero
	wd, err := txns.Create(ctx, ada.ID, account.ID, withdrawal(account, 1500))
	require.NoError(t, err)
	require.True(t, balance().IsZero())

	t.Run("list shows only committed transactions, newest first", func(t *testing.T) {
		list, err := txns.List(ctx, account.ID)
		require.NoError(t, err)
		require.Len(t, list, 2, "the refused overdraw left no record")
		require.Equal(t, wd.ID, list[0].ID)
		require.Equal(t, dep.ID, list[1].ID)
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := txns.Get(ctx, ada.ID, account.ID, dep.ID)
		require.NoError(t, err)
		require.True(t, got.Amount.Equal(decimal.NewFromInt(500)))
	})
}

func TestTransactionValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	txns := &TransactionService{Store: st}
	principal := idx.New().String()
	accountID := idx.New().String()

	base := CreateTransactionParams{
		Type:          "deposit",
		AccountNumber: "12345678",
		SortCode:      "101010",
		Amount:        decimal.NewFromInt(10),
	}

	cases := []struct {
		name   string
		mutate func(*CreateTransactionParams)
	}{
		{"bad type", func(p *CreateTransactionParams) { p.Type = "transfer" }},
		{"short account number", func(p *CreateTransactionParams) { p.AccountNumber = "123" }},
		{"short sort code", func(p *CreateTransactionParams) { p.SortCode = "10" }},
		{"zero amount", func(p *CreateTransactionParams) { p.Amount = decimal.Zero }},
		{"negative amount", func(p *CreateTransactionParams) { p.Amount = decimal.NewFromInt(-5) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := base
			tc.mutate(&p)
			_, err := txns.Create(ctx, principal, accountID, p)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}

	t.Run("malformed path id", func(t *testing.T) {
		_, err := txns.Create(ctx, principal, "nope", base)
		require.ErrorIs(t, err, ErrInvalidID)
	})
}

func TestTransactionTargetResolution(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)
	accounts := &AccountService{Store: st}
	txns := &TransactionService{Store: st}

	ada, _, err := users.Register(ctx, RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	first, err := accounts.Create(ctx, ada.ID, checkingAccount("11111111"))
	require.NoError(t, err)
	second, err := accounts.Create(ctx, ada.ID, checkingAccount("22222222"))
	require.NoError(t, err)

	t.Run("unknown routing pair", func(t *testing.T) {
		p := deposit(first, 10)
		p.AccountNumber = "99999999"
		_, err := txns.Create(ctx, ada.ID, first.ID, p)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("routing pair resolving to a different account", func(t *testing.T) {
		// Path addresses `second` but the body routes to `first`
		_, err := txns.Create(ctx, ada.ID, second.ID, deposit(first, 10))
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTransactionAuthorization(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)
	accounts := &AccountService{Store: st}
	txns := &TransactionService{Store: st}

	ada, _, err := users.Register(ctx, RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	eve, _, err := users.Register(ctx, RegisterParams{Name: "Eve", Email: "eve@example.com", Password: "secret2"})
	require.NoError(t, err)

	account, err := accounts.Create(ctx, ada.ID, checkingAccount("12345678"))
	require.NoError(t, err)

	_, err = txns.Create(ctx, eve.ID, account.ID, deposit(account, 10))
	require.ErrorIs(t, err, ErrForbidden)

	got, err := accounts.Get(ctx, ada.ID, account.ID)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(decimal.NewFromInt(1000)), "forbidden attempt mutated nothing")
}

func TestTransactionInactiveAccount(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)
	accounts := &AccountService{Store: st}
	txns := &TransactionService{Store: st}

	ada, _, err := users.Register(ctx, RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	account, err := accounts.Create(ctx, ada.ID, checkingAccount("12345678"))
	require.NoError(t, err)

	status := "suspended"
	_, err = accounts.Update(ctx, ada.ID, account.ID, UpdateAccountParams{AccountStatus: &status})
	require.NoError(t, err)

	_, err = txns.Create(ctx, ada.ID, account.ID, deposit(account, 10))
	require.ErrorIs(t, err, ErrInactiveAccount)
}

func TestTransactionGetScoping(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)
	accounts := &AccountService{Store: st}
	txns := &TransactionService{Store: st}

	ada, _, err := users.Register(ctx, RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	eve, _, err := users.Register(ctx, RegisterParams{Name: "Eve", Email: "eve@example.com", Password: "secret2"})
	require.NoError(t, err)

	adaAccount, err := accounts.Create(ctx, ada.ID, checkingAccount("11111111"))
	require.NoError(t, err)
	eveAccount, err := accounts.Create(ctx, eve.ID, checkingAccount("22222222"))
	require.NoError(t, err)

	txn, err := txns.Create(ctx, ada.ID, adaAccount.ID, deposit(adaAccount, 10))
	require.NoError(t, err)

	t.Run("owner fetches under the right account", func(t *testing.T) {
		got, err := txns.Get(ctx, ada.ID, adaAccount.ID, txn.ID)
		require.NoError(t, err)
		require.Equal(t, txn.ID, got.ID)
	})

	t.Run("wrong account path", func(t *testing.T) {
		_, err := txns.Get(ctx, eve.ID, eveAccount.ID, txn.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("someone else's transaction", func(t *testing.T) {
		_, err := txns.Get(ctx, eve.ID, adaAccount.ID, txn.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown transaction id", func(t *testing.T) {
		_, err := txns.Get(ctx, ada.ID, adaAccount.ID, idx.New().String())
		require.ErrorIs(t, err, ErrNotFound)
	})
}
