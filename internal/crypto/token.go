package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
)

// accountTokenSize is the number of random bytes in an emailed token.
const accountTokenSize = 32

// NewAccountToken returns a random hex token for an emailed link together
// with the digest that is stored instead of it.
func NewAccountToken() (token, digest string, err error) {
	return newAccountToken(rand.Reader)
}

func newAccountToken(random io.Reader) (string, string, error) {
	raw := make([]byte, accountTokenSize)
	if _, err := io.ReadFull(random, raw); err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrTokenGeneration, err)
	}
	token := hex.EncodeToString(raw)
	return token, TokenDigest(token), nil
}

// TokenDigest returns the hex BLAKE2b-256 digest of an account token.
func TokenDigest(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
