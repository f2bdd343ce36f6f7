package domain

// Algorithm represents the AEAD algorithm used to seal stored credentials.
//
// Both supported algorithms use a 256-bit key, a 12-byte nonce and a 16-byte
// authentication tag, so envelopes produced by either share one wire format.
// The algorithm itself is not recorded in the envelope: an installation must
// keep using the algorithm its stored envelopes were sealed with.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM. This is the default and matches envelopes
	// written by earlier releases.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305, for hosts without AES hardware acceleration.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts a configuration string into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM, ChaCha20:
		return Algorithm(s), nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}

const (
	// KeySize is the master key length in bytes.
	KeySize = 32

	// NonceSize is the per-envelope nonce length in bytes.
	NonceSize = 12

	// TagSize is the authentication tag length in bytes.
	TagSize = 16

	// MinEnvelopeSize is the smallest decoded envelope treated as ciphertext:
	// nonce, at least one byte of ciphertext, and the tag.
	MinEnvelopeSize = NonceSize + 1 + TagSize

	// MasterKeyEntry is the key store entry holding the encoded master key.
	MasterKeyEntry = "master_key"
)
