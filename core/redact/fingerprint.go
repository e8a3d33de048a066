package redact

import (
	"golang.org/x/crypto/blake2b"
)

// base58Alphabet is the Bitcoin/IPFS alphabet, matching the shape used for
// short human-copyable identifiers elsewhere in the ecosystem.
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// Fingerprint returns a short, non-reversible, Base58-encoded identifier
// derived from the exposed bytes of a redacted span. It never reveals the
// underlying secret; it exists purely so diagnostics can say "this secret
// was used N times" without logging the secret itself.
func Fingerprint(secret string) string {
	sum := blake2b.Sum256([]byte(secret))
	return base58Encode(sum[:8])
}

func base58Encode(b []byte) string {
	var x uint64
	for _, c := range b {
		x = x<<8 | uint64(c)
	}
	if x == 0 {
		return string(base58Alphabet[0])
	}
	var out []byte
	base := uint64(len(base58Alphabet))
	for x > 0 {
		out = append([]byte{base58Alphabet[x%base]}, out...)
		x /= base
	}
	return string(out)
}
