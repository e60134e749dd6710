package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewReportCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := NewReportCode()
		require.Len(t, code, 8)
		for _, ch := range code {
			require.True(t, strings.ContainsRune(reportCodeAlphabet, ch), "unexpected character %q", ch)
		}
		seen[code] = true
	}
	// 100 draws from a 36^8 space colliding would mean the generator
	// is broken, not unlucky.
	require.Greater(t, len(seen), 90)
}
