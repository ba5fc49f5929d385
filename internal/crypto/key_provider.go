// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/sha256"
	"encoding/base64"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

type staticKeyProvider struct {
	key []byte
}

// NewPassphraseKeyProvider derives the field key from a configured
// passphrase: the SHA-256 digest is base64 encoded and the first 32
// characters of that string are used as raw key bytes. The derivation is
// fixed because previously stored documents were sealed with it.
func NewPassphraseKeyProvider(passphrase string) (KeyProvider, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	return &staticKeyProvider{key: DeriveKey(passphrase)}, nil
}

// NewStaticKeyProvider wraps an already derived key. Tests use it to run
// with per-test keys.
func NewStaticKeyProvider(key []byte) (KeyProvider, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	k := make([]byte, KeySize)
	copy(k, key)
	return &staticKeyProvider{key: k}, nil
}

// DeriveKey returns the 32 key bytes for passphrase.
func DeriveKey(passphrase string) []byte {
	digest := sha256.Sum256([]byte(passphrase))
	encoded := base64.StdEncoding.EncodeToString(digest[:])
	return []byte(encoded[:KeySize])
}

func (p *staticKeyProvider) Key() ([]byte, error) {
	return p.key, nil
}
