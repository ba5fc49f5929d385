package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// KeyProvider hands out the 32-byte AES key used for field encryption.
// Implementations are built once at startup and passed to NewFieldCipher.
type KeyProvider interface {
	// Key returns the current key. The returned slice must not be modified.
	Key() ([]byte, error)
}

// FieldCipher protects a single sensitive string field (the document number).
//
// Envelope format:
//
//	v1:<hex iv>:<hex ciphertext>   written by Encrypt
//	<hex iv>:<hex ciphertext>      legacy format, still accepted by Decrypt
//
// The IV is 16 random bytes generated per call, the cipher is AES-256-CBC
// with PKCS#7 padding.
type FieldCipher interface {
	// Encrypt seals plaintext into an envelope. Empty input is returned
	// as is. On failure the error wraps ErrEncryptionFailure unless the
	// cipher runs in fail-open mode, in which case the input comes back
	// with a nil error.
	Encrypt(plaintext string) (string, error)

	// Decrypt opens an envelope. Values that are not envelopes (no ':' or
	// not well formed) are legacy plaintext and are returned unchanged.
	// A well formed envelope that fails to open yields ErrDecryptionFailure,
	// or the input with a nil error in fail-open mode.
	Decrypt(envelope string) (string, error)
}

// PasswordHasher hashes and checks account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns ErrPasswordMismatch when password does not match hash.
	Compare(hash, password string) error
}
