package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a "kind:digest" key from the given parts. The kind
// prefix ("lane", "doc") names what the entry holds; the digest is the
// full SHA-256 of the JSON-encoded parts, so any change to lane
// content or layout parameters yields a fresh key.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", kind, hex.EncodeToString(hash[:]))
}

// Hash returns the SHA-256 of data as a 64-character hex string. It
// also fingerprints assemblies for Result.AssemblyHash.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
