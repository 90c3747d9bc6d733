package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash returns the hex SHA-256 of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the JSON encoding of v. Map keys are sorted by
// encoding/json, so equal values hash equally.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}

// componentKey joins a key prefix and the hash of its components:
// "<prefix>:<hash>".
func componentKey(prefix string, components ...any) string {
	h, err := HashJSON(components)
	if err != nil {
		// NaN and Inf have no JSON form.
		h = Hash(fmt.Appendf(nil, "%#v", components))
	}
	return prefix + ":" + h
}
