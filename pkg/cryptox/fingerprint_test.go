package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprintToken(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		require.Equal(t, FingerprintToken("abc"), FingerprintToken("abc"))
	})

	t.Run("distinct inputs produce distinct fingerprints", func(t *testing.T) {
		require.NotEqual(t, FingerprintToken("abc"), FingerprintToken("abd"))
	})

	t.Run("fixed length regardless of input", func(t *testing.T) {
		require.Len(t, FingerprintToken(""), 43)
		require.Len(t, FingerprintToken("some-very-long-refresh-token-value-here"), 43)
	})
}

func TestFingerprintEqual(t *testing.T) {
	fp := FingerprintToken("token")
	require.True(t, FingerprintEqual(fp, FingerprintToken("token")))
	require.False(t, FingerprintEqual(fp, FingerprintToken("other")))
	require.False(t, FingerprintEqual(fp, ""))
}
