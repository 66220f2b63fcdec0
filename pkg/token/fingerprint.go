package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// FingerprintLength is the length of a fingerprint in hex characters.
// Twelve characters of a SHA-256 hash are plenty to disambiguate the
// handful of tokens a single client ever sees.
const FingerprintLength = 12

// Fingerprint returns a stable, non-reversible identifier for a token,
// suitable for logs and metric labels. Empty input yields an empty string.
func Fingerprint(tok string) string {
	if tok == "" {
		return ""
	}
	h := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(h[:])[:FingerprintLength]
}

// Equal compares two raw token values in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
