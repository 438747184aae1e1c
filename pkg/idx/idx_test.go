package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewIsSortable(t *testing.T) {
	t.Parallel()

	a := New()
	b := New()
	require.NotEqual(t, a, b)
	require.True(t, a.String() < b.String(), "ids from the monotonic source must sort in creation order")
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("round trips a generated id", func(t *testing.T) {
		id := New()
		parsed, err := Parse(id.String())
		require.NoError(t, err)
		require.Equal(t, id, parsed)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, s := range []string{"", "   ", "not-an-id", "0123", "!!!!!!!!!!!!!!!!!!!!!!!!!!"} {
			_, err := Parse(s)
			require.ErrorIs(t, err, ErrInvalid, "input %q", s)
		}
	})

	t.Run("trims whitespace", func(t *testing.T) {
		id := New()
		parsed, err := Parse("  " + id.String() + " ")
		require.NoError(t, err)
		require.Equal(t, id, parsed)
	})
}

func TestTime(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id := NewAt(at)
	require.Equal(t, at, id.Time())

	require.True(t, Zero.Time().IsZero())
}

func TestIsZero(t *testing.T) {
	t.Parallel()

	require.True(t, Zero.IsZero())
	require.False(t, New().IsZero())
}
