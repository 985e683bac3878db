package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderNumberFormat(t *testing.T) {
	gen := NewOrderNumberGenerator("test-secret")

	n := gen.Generate("0241234567")
	require.True(t, strings.HasPrefix(n, "TRV-"))

	parts := strings.Split(n, "-")
	require.Len(t, parts, 3)
	require.Len(t, parts[1], 4)
	require.Len(t, parts[2], 4)
	require.Equal(t, n, strings.ToUpper(n))
}

func TestOrderNumberNotRepeatable(t *testing.T) {
	gen := NewOrderNumberGenerator("test-secret")

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := gen.Generate("0241234567")
		require.False(t, seen[n], "duplicate order number %s", n)
		seen[n] = true
	}
}
