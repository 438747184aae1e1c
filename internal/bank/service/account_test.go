package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/eaglebank/eaglebank/internal/bank/domain"
	"github.com/eaglebank/eaglebank/pkg/idx"
)

func checkingAccount(number string) CreateAccountParams {
	return CreateAccountParams{
		AccountType:   "checking",
		AccountStatus: "active",
		AccountNumber: number,
		SortCode:      "101010",
		Balance:       decimal.NewFromInt(1000),
	}
}

func TestAccountCreateSetsOwnerFlag(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)
	accounts := &AccountService{Store: st}

	ada, _, err := users.Register(ctx, RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.False(t, ada.HasOpenAccount)

	account, err := accounts.Create(ctx, ada.ID, checkingAccount("12345678"))
	require.NoError(t, err)
	require.Equal(t, ada.ID, account.OwnerUserID)
	require.True(t, account.Balance.Equal(decimal.NewFromInt(1000)))

	stored, err := st.Users().GetUserByID(ctx, ada.ID)
	require.NoError(t, err)
	require.True(t, stored.HasOpenAccount, "flag flips in the same unit of work as the insert")
}

func TestAccountCreateValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	accounts := &AccountService{Store: st}
	owner := idx.New().String()

	cases := []struct {
		name   string
		mutate func(*CreateAccountParams)
	}{
		{"short type", func(p *CreateAccountParams) { p.AccountType = "x" }},
		{"bad status", func(p *CreateAccountParams) { p.AccountStatus = "frozen" }},
		{"short account number", func(p *CreateAccountParams) { p.AccountNumber = "12345" }},
		{"non-digit sort code", func(p *CreateAccountParams) { p.SortCode = "10-10-10" }},
		{"negative balance", func(p *CreateAccountParams) { p.Balance = decimal.NewFromInt(-1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := checkingAccount("12345678")
			tc.mutate(&p)
			_, err := accounts.Create(ctx, owner, p)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestAccountRoutingPairIsUnique(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)
	accounts := &AccountService{Store: st}

	ada, _, err := users.Register(ctx, RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	eve, _, err := users.Register(ctx, RegisterParams{Name: "Eve", Email: "eve@example.com", Password: "secret2"})
	require.NoError(t, err)

	_, err = accounts.Create(ctx, ada.ID, checkingAccount("12345678"))
	require.NoError(t, err)

	// Same pair, different owner: still a conflict
	_, err = accounts.Create(ctx, eve.ID, checkingAccount("12345678"))
	require.ErrorIs(t, err, ErrConflict)

	// Different number, same sort code is fine
	_, err = accounts.Create(ctx, eve.ID, checkingAccount("87654321"))
	require.NoError(t, err)
}

func TestAccountGetScoping(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)
	accounts := &AccountService{Store: st}

	ada, _, err := users.Register(ctx, RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	eve, _, err := users.Register(ctx, RegisterParams{Name: "Eve", Email: "eve@example.com", Password: "secret2"})
	require.NoError(t, err)

	account, err := accounts.Create(ctx, ada.ID, checkingAccount("12345678"))
	require.NoError(t, err)

	t.Run("owner reads it", func(t *testing.T) {
		got, err := accounts.Get(ctx, ada.ID, account.ID)
		require.NoError(t, err)
		require.Equal(t, account.AccountNumber, got.AccountNumber)
	})

	t.Run("someone else is forbidden", func(t *testing.T) {
		_, err := accounts.Get(ctx, eve.ID, account.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := accounts.Get(ctx, ada.ID, "not-an-id")
		require.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("well-formed but unknown id", func(t *testing.T) {
		_, err := accounts.Get(ctx, ada.ID, idx.New().String())
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAccountListReturnsOwnAccountsInCreationOrder(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)
	accounts := &AccountService{Store: st}

	ada, _, err := users.Register(ctx, RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	eve, _, err := users.Register(ctx, RegisterParams{Name: "Eve", Email: "eve@example.com", Password: "secret2"})
	require.NoError(t, err)

	first, err := accounts.Create(ctx, ada.ID, checkingAccount("11111111"))
	require.NoError(t, err)
	second, err := accounts.Create(ctx, ada.ID, checkingAccount("22222222"))
	require.NoError(t, err)
	_, err = accounts.Create(ctx, eve.ID, checkingAccount("33333333"))
	require.NoError(t, err)

	list, err := accounts.List(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, first.ID, list[0].ID)
	require.Equal(t, second.ID, list[1].ID)
}

func TestAccountUpdate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)
	accounts := &AccountService{Store: st}

	ada, _, err := users.Register(ctx, RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	account, err := accounts.Create(ctx, ada.ID, checkingAccount("12345678"))
	require.NoError(t, err)

	status := "inactive"
	updated, err := accounts.Update(ctx, ada.ID, account.ID, UpdateAccountParams{AccountStatus: &status})
	require.NoError(t, err)
	require.Equal(t, domain.AccountStatusInactive, updated.Status)
	require.Equal(t, account.AccountNumber, updated.AccountNumber, "routing identifiers are immutable")

	t.Run("returned timestamp matches the stored row", func(t *testing.T) {
		stored, err := st.Accounts().GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		require.True(t, stored.UpdatedAt.Equal(updated.UpdatedAt))
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		bad := "frozen"
		_, err := accounts.Update(ctx, ada.ID, account.ID, UpdateAccountParams{AccountStatus: &bad})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestAccountDeleteClearsFlagOnLastAccount(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)
	accounts := &AccountService{Store: st}

	ada, _, err := users.Register(ctx, RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	first, err := accounts.Create(ctx, ada.ID, checkingAccount("11111111"))
	require.NoError(t, err)
	second, err := accounts.Create(ctx, ada.ID, checkingAccount("22222222"))
	require.NoError(t, err)

	require.NoError(t, accounts.Delete(ctx, ada.ID, first.ID))
	stored, err := st.Users().GetUserByID(ctx, ada.ID)
	require.NoError(t, err)
	require.True(t, stored.HasOpenAccount, "one account remains")

	require.NoError(t, accounts.Delete(ctx, ada.ID, second.ID))
	stored, err = st.Users().GetUserByID(ctx, ada.ID)
	require.NoError(t, err)
	require.False(t, stored.HasOpenAccount)
}

func TestAccountDeleteForbiddenForNonOwner(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)
	accounts := &AccountService{Store: st}

	ada, _, err := users.Register(ctx, RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	eve, _, err := users.Register(ctx, RegisterParams{Name: "Eve", Email: "eve@example.com", Password: "secret2"})
	require.NoError(t, err)

	account, err := accounts.Create(ctx, ada.ID, checkingAccount("12345678"))
	require.NoError(t, err)

	require.ErrorIs(t, accounts.Delete(ctx, eve.ID, account.ID), ErrForbidden)

	// Still there for the owner
	_, err = accounts.Get(ctx, ada.ID, account.ID)
	require.NoError(t, err)
}
