package codes

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// codeCharset deliberately drops 0/O/1/I so codes survive being read aloud
// or typed from a receipt.
const codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const randomLength = 3

// shortCode produces a redemption code of the form U<owner fragment><random>,
// e.g. "U01ABC". The owner fragment keeps codes loosely traceable to their
// issuer; uniqueness is enforced by the store, not the generator.
func shortCode(ownerID string) (string, error) {
	buf := make([]byte, randomLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	var b strings.Builder
	b.WriteByte('U')
	b.WriteString(ownerFragment(ownerID))
	for _, v := range buf {
		// charset length is 32, so masking keeps the draw uniform
		b.WriteByte(codeCharset[v&31])
	}
	return b.String(), nil
}

// ownerFragment returns the last two alphanumeric characters of the owner
// identifier, uppercased, padded when the identifier is too short.
func ownerFragment(ownerID string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'A' && r <= 'Z':
			return r
		case r >= 'a' && r <= 'z':
			return r - ('a' - 'A')
		default:
			return -1
		}
	}, ownerID)

	if len(cleaned) >= 2 {
		return cleaned[len(cleaned)-2:]
	}
	return ("00" + cleaned)[len(cleaned):]
}
