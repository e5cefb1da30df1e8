package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainSnapshot prefixes snapshot checksums for content-addressed identity.
// Version suffix enables future algorithm migration.
const DomainSnapshot = "aetherforge/snapshot/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Checksum computes the content checksum of a snapshot document.
// Equal documents (after canonicalization) always produce equal checksums,
// so the checksum serves as the admission-control gate for patch replay.
// Returns an error if the document cannot be canonically marshaled.
func Checksum(doc Object) (string, error) {
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("checksum: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}

// MustChecksum is like Checksum but panics on error.
// Use only in tests or when the document is known to be well-formed.
func MustChecksum(doc Object) string {
	sum, err := Checksum(doc)
	if err != nil {
		panic(err)
	}
	return sum
}
