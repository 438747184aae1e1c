package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eaglebank/eaglebank/internal/bank/store"
	"github.com/eaglebank/eaglebank/internal/bank/store/drivers/sqlite"
	"github.com/eaglebank/eaglebank/pkg/cryptox"
	"github.com/eaglebank/eaglebank/pkg/jwtx"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dir := t.TempDir()
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	st, err := sqlite.NewStore(filepath.Join(dir, "bank.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newUserService(t *testing.T, st store.Store) *UserService {
	t.Helper()

	tokens, err := jwtx.NewHS256([]byte(testSecret), "bank-test")
	require.NoError(t, err)

	return &UserService{
		Store:     st,
		Tokens:    tokens,
		Issuer:    "bank-test",
		AccessTTL: time.Hour,
	}
}
