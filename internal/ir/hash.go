package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content digests. The version suffix allows the
// encoding to change without silently colliding with old digests.
const (
	DomainResult = "wherecmd/result/v1"
)

// hashWithDomain computes SHA256(domain || 0x00 || data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ResultDigest hashes an ordered result set. Two evaluations yielding the
// same rows in the same order have the same digest.
func ResultDigest(rows []IRObject) (string, error) {
	arr := make(IRArray, len(rows))
	for i, r := range rows {
		arr[i] = r
	}
	canonical, err := MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("ResultDigest: %w", err)
	}
	return hashWithDomain(DomainResult, canonical), nil
}
