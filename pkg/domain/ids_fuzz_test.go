//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseAddress tests that parsing never panics on arbitrary input
// and always returns either a valid address or an error.
//
// Justification: trust boundary functions must handle arbitrary input safely.
func FuzzParseAddress(f *testing.F) {
	f.Add("")
	f.Add("0xd8da6bf26964af9d7eed9e03e53415d37aa96045")
	f.Add("0x0000000000000000000000000000000000000000")
	f.Add("not-an-address")
	f.Add("'; DROP TABLE vehicle_records;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("0xD8DA6BF26964AF9D7EED9E03E53415D37AA96045\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		addr, err := ParseAddress(input)

		// Either a valid address or an error, never both.
		if err == nil {
			roundTrip, err2 := ParseAddress(addr.String())
			if err2 != nil {
				t.Errorf("valid address failed round-trip: %v", err2)
			}
			if roundTrip != addr {
				t.Error("round-trip changed address value")
			}
		}

		// Non-UTF8 input can never survive hex validation.
		if !utf8.ValidString(input) && err == nil {
			t.Error("non-UTF8 input was accepted")
		}
	})
}
