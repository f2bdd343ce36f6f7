package service

import (
	cryptoDomain "github.com/allisson/queryowl/internal/crypto/domain"
)

// LooksEncrypted reports whether value has the shape of an encoded envelope:
// non-empty, standard base64, and at least 29 bytes once decoded.
//
// The verdict depends only on the string's shape. A long base64 legacy value is
// reported as encrypted; callers then get ErrDecryptionFailed from Decrypt
// rather than a wrong password.
func LooksEncrypted(value string) bool {
	return cryptoDomain.LooksLikeEnvelope(value)
}
