package serialization

import (
	"crypto/sha256"
	"fmt"
)

// Checksum computes the SHA-256 checksum stored in the preamble.
func Checksum(body []byte) [ChecksumSize]byte {
	return sha256.Sum256(body)
}

// VerifyChecksum compares the checksum of body against stored.
// Returns ErrChecksumMismatch if they don't match.
func VerifyChecksum(body, stored []byte) error {
	sum := Checksum(body)
	if len(stored) != ChecksumSize || string(sum[:]) != string(stored) {
		return fmt.Errorf("%w: stored %x, computed %x", ErrChecksumMismatch, stored, sum)
	}
	return nil
}
