package domain

import (
	"encoding/base64"
)

// Envelope is a decoded sealed value: nonce followed by ciphertext with the tag appended.
type Envelope struct {
	Nonce  []byte
	Sealed []byte
}

// EncodeEnvelope concatenates nonce and sealed bytes and returns the base64 text stored in records.
func EncodeEnvelope(nonce, sealed []byte) string {
	buf := make([]byte, 0, len(nonce)+len(sealed))
	buf = append(buf, nonce...)
	buf = append(buf, sealed...)
	return base64.StdEncoding.EncodeToString(buf)
}

// DecodeEnvelope splits an encoded envelope. ok is false when value is not
// standard base64 or decodes to fewer than MinEnvelopeSize bytes; such values
// are legacy plaintext, not malformed ciphertext.
func DecodeEnvelope(value string) (env Envelope, ok bool) {
	raw, ok := decodeCandidate(value)
	if !ok {
		return Envelope{}, false
	}
	return Envelope{Nonce: raw[:NonceSize], Sealed: raw[NonceSize:]}, true
}

// LooksLikeEnvelope reports whether value has the shape of an encoded envelope.
// It depends only on base64 validity and decoded length, so it may report a
// long base64 legacy value as encrypted, but never panics.
func LooksLikeEnvelope(value string) bool {
	_, ok := decodeCandidate(value)
	return ok
}

func decodeCandidate(value string) ([]byte, bool) {
	if value == "" {
		return nil, false
	}
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil || len(raw) < MinEnvelopeSize {
		return nil, false
	}
	return raw, true
}
