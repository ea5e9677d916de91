// Package digest produces content digests for change detection. Digests
// are opaque comparison tokens, not integrity checks.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Object digests the canonical JSON encoding of v. Map keys are sorted by
// the encoder, so equal values always produce equal digests.
func Object(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Sum(data), nil
}
