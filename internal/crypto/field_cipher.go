// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/MKhiriev/go-doc-verifier/internal/logger"
)

const (
	envelopeVersion   = "v1"
	envelopeSeparator = ":"
	ivSize            = aes.BlockSize
)

// fieldCipher is the AES-256-CBC implementation of [FieldCipher].
type fieldCipher struct {
	keys     KeyProvider
	failOpen bool
	random   io.Reader
	log      *logger.Logger
}

// FieldCipherOption configures a cipher built by NewFieldCipher.
type FieldCipherOption func(*fieldCipher)

// WithFailOpen makes Encrypt and Decrypt return their input instead of an
// error when the cipher operation fails. Failures are still logged.
func WithFailOpen(failOpen bool) FieldCipherOption {
	return func(c *fieldCipher) {
		c.failOpen = failOpen
	}
}

// WithLogger sets the logger used to report cipher failures.
func WithLogger(l *logger.Logger) FieldCipherOption {
	return func(c *fieldCipher) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRandom replaces the IV source.
func WithRandom(r io.Reader) FieldCipherOption {
	return func(c *fieldCipher) {
		if r != nil {
			c.random = r
		}
	}
}

// NewFieldCipher builds a FieldCipher over the given key provider.
func NewFieldCipher(keys KeyProvider, opts ...FieldCipherOption) FieldCipher {
	c := &fieldCipher{
		keys:   keys,
		random: rand.Reader,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *fieldCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return plaintext, nil
	}

	envelope, err := c.seal([]byte(plaintext))
	if err != nil {
		c.log.Err(err).Str("func", "*fieldCipher.Encrypt").Bool("fail_open", c.failOpen).Msg("encryption failed")
		if c.failOpen {
			return plaintext, nil
		}
		return "", fmt.Errorf("%w: %w", ErrEncryptionFailure, err)
	}

	return envelope, nil
}

func (c *fieldCipher) Decrypt(value string) (string, error) {
	iv, ciphertext, err := parseEnvelope(value)
	if err != nil {
		return c.decryptFailed(value, err)
	}
	if iv == nil {
		// legacy plaintext
		return value, nil
	}

	plaintext, err := c.open(iv, ciphertext)
	if err != nil {
		return c.decryptFailed(value, err)
	}
	return string(plaintext), nil
}

func (c *fieldCipher) decryptFailed(value string, err error) (string, error) {
	c.log.Err(err).Str("func", "*fieldCipher.Decrypt").Bool("fail_open", c.failOpen).Msg("decryption failed")
	if c.failOpen {
		return value, nil
	}
	return "", fmt.Errorf("%w: %w", ErrDecryptionFailure, err)
}

func (c *fieldCipher) seal(plaintext []byte) (string, error) {
	block, err := c.block()
	if err != nil {
		return "", err
	}

	iv := make([]byte, ivSize)
	if _, err = io.ReadFull(c.random, iv); err != nil {
		return "", fmt.Errorf("read iv: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return strings.Join([]string{
		envelopeVersion,
		hex.EncodeToString(iv),
		hex.EncodeToString(ciphertext),
	}, envelopeSeparator), nil
}

func (c *fieldCipher) open(iv, ciphertext []byte) ([]byte, error) {
	block, err := c.block()
	if err != nil {
		return nil, err
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	return pkcs7Unpad(padded, aes.BlockSize)
}

func (c *fieldCipher) block() (cipher.Block, error) {
	key, err := c.keys.Key()
	if err != nil {
		return nil, fmt.Errorf("load key: %w", err)
	}
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	return aes.NewCipher(key)
}

// IsEnvelope reports whether value is a sealed envelope, either versioned
// or legacy. Callers use it to make sure a value about to be disclosed is
// no longer ciphertext.
func IsEnvelope(value string) bool {
	if strings.HasPrefix(value, envelopeVersion+envelopeSeparator) {
		return true
	}
	_, _, ok := parseLegacy(value)
	return ok
}

// parseEnvelope returns nil iv and nil error for values that are not envelopes.
func parseEnvelope(value string) (iv, ciphertext []byte, err error) {
	if !strings.Contains(value, envelopeSeparator) {
		return nil, nil, nil
	}

	if rest, ok := strings.CutPrefix(value, envelopeVersion+envelopeSeparator); ok {
		ivHex, ctHex, found := strings.Cut(rest, envelopeSeparator)
		if !found {
			return nil, nil, ErrMalformedEnvelope
		}
		iv, ciphertext, ok = decodeParts(ivHex, ctHex)
		if !ok {
			return nil, nil, ErrMalformedEnvelope
		}
		return iv, ciphertext, nil
	}

	iv, ciphertext, ok := parseLegacy(value)
	if !ok {
		return nil, nil, nil
	}
	return iv, ciphertext, nil
}

func parseLegacy(value string) (iv, ciphertext []byte, ok bool) {
	ivHex, ctHex, found := strings.Cut(value, envelopeSeparator)
	if !found {
		return nil, nil, false
	}
	return decodeParts(ivHex, ctHex)
}

func decodeParts(ivHex, ctHex string) (iv, ciphertext []byte, ok bool) {
	if len(ivHex) != 2*ivSize || ctHex == "" || len(ctHex)%(2*aes.BlockSize) != 0 {
		return nil, nil, false
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return nil, nil, false
	}
	ciphertext, err = hex.DecodeString(ctHex)
	if err != nil {
		return nil, nil, false
	}
	return iv, ciphertext, true
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}
