// Package identity derives content identifiers from raw string values.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestLength is the length of a rendered digest in hex characters.
const DigestLength = sha256.Size * 2

// Digest returns the SHA-256 of the raw (non-normalized) text as lower-case hex.
// The digest doubles as the public resource identifier: any client holding the
// original text can re-derive it without a lookup round-trip.
func Digest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
