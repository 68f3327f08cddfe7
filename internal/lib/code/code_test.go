package code

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLandlordCode(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		c, err := NewLandlordCode()
		require.NoError(t, err)
		require.Len(t, c, LandlordCodeLen)
		for _, r := range c {
			require.True(t, strings.ContainsRune(landlordAlphabet, r),
				"unexpected rune %q in code %q", r, c)
		}
		seen[c] = true
	}
	require.Greater(t, len(seen), 90, "codes are not random enough")
}

func TestNewResetCode(t *testing.T) {
	for range 20 {
		c, err := NewResetCode()
		require.NoError(t, err)
		require.Len(t, c, 6)
		for _, r := range c {
			require.True(t, r >= '0' && r <= '9')
		}
	}
}
