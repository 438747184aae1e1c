package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/eaglebank/eaglebank/pkg/idx"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)

	user, token, err := users.Register(ctx, RegisterParams{
		Name:     "Ada Lovelace",
		Email:    "Ada@Example.com",
		Password: "engine1843",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "ada@example.com", user.Email, "email is stored lower-cased")
	require.False(t, user.HasOpenAccount)
	require.NotEmpty(t, token)

	claims, err := users.Tokens.Verify(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)

	t.Run("correct credentials", func(t *testing.T) {
		got, token, err := users.Authenticate(ctx, "ada@example.com", "engine1843")
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
		require.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := users.Authenticate(ctx, "ada@example.com", "nope")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := users.Authenticate(ctx, "nobody@example.com", "engine1843")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)

	cases := []struct {
		name   string
		params RegisterParams
	}{
		{"short name", RegisterParams{Name: "A", Email: "a@example.com", Password: "secret1"}},
		{"short email", RegisterParams{Name: "Ada", Email: "a@b", Password: "secret1"}},
		{"short password", RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "12345"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := users.Register(ctx, tc.params)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)

	_, _, err := users.Register(ctx, RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = users.Register(ctx, RegisterParams{Name: "Other", Email: "ADA@example.com", Password: "secret2"})
	require.ErrorIs(t, err, ErrConflict, "emails are unique case-insensitively")
}

func TestUserGetScoping(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)

	ada, _, err := users.Register(ctx, RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	eve, _, err := users.Register(ctx, RegisterParams{Name: "Eve", Email: "eve@example.com", Password: "secret2"})
	require.NoError(t, err)

	t.Run("self", func(t *testing.T) {
		got, err := users.Get(ctx, ada.ID, ada.ID)
		require.NoError(t, err)
		require.Equal(t, ada.Email, got.Email)
	})

	t.Run("another user is forbidden", func(t *testing.T) {
		_, err := users.Get(ctx, eve.ID, ada.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := users.Get(ctx, ada.ID, "not-a-ulid")
		require.ErrorIs(t, err, ErrInvalidID)
	})
}

func TestUserUpdate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)

	ada, _, err := users.Register(ctx, RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	name := "Ada King"
	email := "Countess@Example.com"
	updated, err := users.Update(ctx, ada.ID, ada.ID, UpdateUserParams{Name: &name, Email: &email})
	require.NoError(t, err)
	require.Equal(t, "Ada King", updated.Name)
	require.Equal(t, "countess@example.com", updated.Email)

	t.Run("returned timestamp matches the stored row", func(t *testing.T) {
		stored, err := st.Users().GetUserByID(ctx, ada.ID)
		require.NoError(t, err)
		require.True(t, stored.UpdatedAt.Equal(updated.UpdatedAt))
		require.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))
	})

	t.Run("new password is usable", func(t *testing.T) {
		pw := "newsecret"
		_, err := users.Update(ctx, ada.ID, ada.ID, UpdateUserParams{Password: &pw})
		require.NoError(t, err)

		_, _, err = users.Authenticate(ctx, "countess@example.com", "newsecret")
		require.NoError(t, err)
	})

	t.Run("invalid field rejected", func(t *testing.T) {
		short := "x"
		_, err := users.Update(ctx, ada.ID, ada.ID, UpdateUserParams{Name: &short})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestUserDeleteBlockedByOpenAccount(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)
	accounts := &AccountService{Store: st}

	ada, _, err := users.Register(ctx, RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	account, err := accounts.Create(ctx, ada.ID, CreateAccountParams{
		AccountType:   "checking",
		AccountStatus: "active",
		AccountNumber: "12345678",
		SortCode:      "101010",
		Balance:       decimal.Zero,
	})
	require.NoError(t, err)

	err = users.Delete(ctx, ada.ID, ada.ID)
	require.ErrorIs(t, err, ErrHasOpenAccount)

	require.NoError(t, accounts.Delete(ctx, ada.ID, account.ID))
	require.NoError(t, users.Delete(ctx, ada.ID, ada.ID))

	_, err = users.Get(ctx, ada.ID, ada.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserDeleteScoping(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newUserService(t, st)

	ada, _, err := users.Register(ctx, RegisterParams{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.ErrorIs(t, users.Delete(ctx, ada.ID, idx.New().String()), ErrForbidden)
	require.ErrorIs(t, users.Delete(ctx, ada.ID, "bogus"), ErrInvalidID)
}
