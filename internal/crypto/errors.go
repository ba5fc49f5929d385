package crypto

import "errors"

var (
	ErrEncryptionFailure = errors.New("field encryption failed")
	ErrDecryptionFailure = errors.New("field decryption failed")
	ErrMalformedEnvelope = errors.New("malformed cipher envelope")
	ErrInvalidPadding    = errors.New("invalid block padding")

	ErrEmptyPassphrase = errors.New("encryption passphrase is empty")
	ErrInvalidKeySize  = errors.New("encryption key must be 32 bytes")

	ErrPasswordMismatch = errors.New("password does not match")
	ErrPasswordHashing  = errors.New("password hashing failed")

	ErrTokenGeneration = errors.New("account token generation failed")
)
