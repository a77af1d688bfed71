package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Address is an externally-authenticated wallet address. This is a domain
// primitive that enforces validity at parse time: lowercase 0x-prefixed,
// 40 hex characters. The registry never authenticates addresses itself; it
// receives them from the wallet-session layer.
type Address string

// ZeroAddress is the canonical "no owner" address. A Transfer event with
// From == ZeroAddress signals a mint.
const ZeroAddress Address = "0x0000000000000000000000000000000000000000"

// ParseAddress validates and normalizes an address string.
func ParseAddress(s string) (Address, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "0x") {
		return "", fmt.Errorf("address must be 0x-prefixed: %q", s)
	}
	hex := s[2:]
	if len(hex) != 40 {
		return "", fmt.Errorf("address must contain 40 hex characters, got %d", len(hex))
	}
	for _, c := range hex {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", fmt.Errorf("address contains non-hex character %q", c)
		}
	}
	return Address(s), nil
}

// String returns the normalized string form.
func (a Address) String() string {
	return string(a)
}

// IsZero reports whether the address is empty or the zero address.
func (a Address) IsZero() bool {
	return a == "" || a == ZeroAddress
}

// TokenID identifies one minted vehicle token. IDs are dense and monotonic
// starting at 0 and are never reused, so 0 is a legitimate minted id.
type TokenID uint64

// ParseTokenID parses a decimal token id from a route parameter.
func ParseTokenID(s string) (TokenID, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token id %q: %w", s, err)
	}
	return TokenID(n), nil
}

// String returns the decimal string form.
func (t TokenID) String() string {
	return strconv.FormatUint(uint64(t), 10)
}
