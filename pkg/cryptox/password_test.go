package cryptox

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, VerifyPassword("secret1", hash))
	require.ErrorIs(t, VerifyPassword("wrong-password", hash), ErrMismatch)
}

func TestHashPasswordIsSalted(t *testing.T) {
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	a, err := HashPassword("secret1")
	require.NoError(t, err)
	b, err := HashPassword("secret1")
	require.NoError(t, err)
	require.NotEqual(t, a, b, "same password must hash to different strings")
}

func TestVerifyPasswordRejectsGarbageHashes(t *testing.T) {
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=19456,t=2,p=1$notbase64!$alsonot!",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
	} {
		require.Error(t, VerifyPassword("secret1", encoded), "encoded %q", encoded)
	}
}

func TestPepperPersistsAcrossReload(t *testing.T) {
	file := filepath.Join(t.TempDir(), "pepper")

	SetPepperPath(file)
	first := GetPepper()
	require.NotEmpty(t, first)

	// Re-pointing at the same file must load the same pepper, otherwise
	// existing hashes become unverifiable.
	SetPepperPath(file)
	require.Equal(t, first, GetPepper())
}
