package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseAddress_Invariants validates the parsing invariant:
// "addresses must be 0x-prefixed 40-hex-character strings, normalized to lowercase".
func TestParseAddress_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseAddress("")
		require.Error(t, err)
	})

	t.Run("rejects missing prefix", func(t *testing.T) {
		_, err := ParseAddress("d8da6bf26964af9d7eed9e03e53415d37aa96045")
		require.Error(t, err)
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := ParseAddress("0xd8da6bf2")
		require.Error(t, err)
	})

	t.Run("rejects non-hex characters", func(t *testing.T) {
		_, err := ParseAddress("0xZZda6bf26964af9d7eed9e03e53415d37aa96045")
		require.Error(t, err)
	})

	t.Run("accepts and lowercases valid address", func(t *testing.T) {
		addr, err := ParseAddress("0xD8DA6BF26964aF9D7eEd9e03E53415D37aA96045")
		require.NoError(t, err)
		assert.Equal(t, Address("0xd8da6bf26964af9d7eed9e03e53415d37aa96045"), addr)
	})

	t.Run("accepts the zero address", func(t *testing.T) {
		addr, err := ParseAddress(ZeroAddress.String())
		require.NoError(t, err)
		assert.True(t, addr.IsZero())
	})
}

func TestTokenID_RoundTrip(t *testing.T) {
	t.Run("zero is a legitimate id", func(t *testing.T) {
		id, err := ParseTokenID("0")
		require.NoError(t, err)
		assert.Equal(t, TokenID(0), id)
		assert.Equal(t, "0", id.String())
	})

	t.Run("rejects negative and garbage", func(t *testing.T) {
		_, err := ParseTokenID("-1")
		require.Error(t, err)
		_, err = ParseTokenID("abc")
		require.Error(t, err)
	})
}
