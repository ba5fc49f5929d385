package crypto

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envelope produced by the previous Node.js backend for "123412341234"
// with passphrase "test-passphrase" and IV 00..0f.
const legacyEnvelope = "000102030405060708090a0b0c0d0e0f:1b3a2515859df4789cbb6e8d7fe1887b"

func newTestCipher(t *testing.T, opts ...FieldCipherOption) FieldCipher {
	t.Helper()
	keys, err := NewPassphraseKeyProvider("test-passphrase")
	require.NoError(t, err)
	return NewFieldCipher(keys, opts...)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

type brokenKeys struct{}

func (brokenKeys) Key() ([]byte, error) { return []byte("short"), nil }

func TestFieldCipher_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	inputs := []string{
		"123412341234",
		"1234 5678 9012",
		"a",
		"exactly16bytes!!",
		"UNKNOWN-DOC",
		"with:separator:inside",
		strings.Repeat("9", 1000),
		"Привет",
	}
	for _, in := range inputs {
		envelope, err := c.Encrypt(in)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(envelope, "v1:"), envelope)
		assert.True(t, IsEnvelope(envelope))

		out, err := c.Decrypt(envelope)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestFieldCipher_EncryptIsNonDeterministic(t *testing.T) {
	c := newTestCipher(t)

	seen := make(map[string]struct{})
	for range 50 {
		envelope, err := c.Encrypt("123412341234")
		require.NoError(t, err)
		_, dup := seen[envelope]
		require.False(t, dup, "envelope repeated")
		seen[envelope] = struct{}{}
	}
}

func TestFieldCipher_EnvelopeLayout(t *testing.T) {
	c := newTestCipher(t)

	envelope, err := c.Encrypt("123412341234")
	require.NoError(t, err)

	parts := strings.Split(envelope, ":")
	require.Len(t, parts, 3)
	assert.Equal(t, "v1", parts[0])
	assert.Len(t, parts[1], 32, "hex encoded 16 byte iv")
	assert.Len(t, parts[2], 32, "one padded block")
}

func TestFieldCipher_EncryptEmpty(t *testing.T) {
	c := newTestCipher(t)

	out, err := c.Encrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestFieldCipher_DecryptLegacyEnvelope(t *testing.T) {
	c := newTestCipher(t)

	out, err := c.Decrypt(legacyEnvelope)
	require.NoError(t, err)
	assert.Equal(t, "123412341234", out)
}

func TestFieldCipher_DecryptPassthrough(t *testing.T) {
	c := newTestCipher(t)

	tests := []string{
		"123412341234",
		"UNKNOWN-DOC",
		"",
		"note: not hex at all",
		"abcd:ef",
	}
	for _, in := range tests {
		out, err := c.Decrypt(in)
		require.NoError(t, err, in)
		assert.Equal(t, in, out)
		assert.False(t, IsEnvelope(in), in)
	}
}

func TestFieldCipher_DecryptFailures(t *testing.T) {
	c := newTestCipher(t)

	// "123412341234" sealed under the key of "another passphrase"
	foreign := "v1:000102030405060708090a0b0c0d0e0f:3660d70c4583e6ed986062b70df4a84c"

	tests := []struct {
		name  string
		input string
	}{
		{name: "versioned but truncated", input: "v1:0011"},
		{name: "versioned without ciphertext", input: "v1:000102030405060708090a0b0c0d0e0f"},
		{name: "versioned bad hex", input: "v1:zz0102030405060708090a0b0c0d0e0f:1b3a2515859df4789cbb6e8d7fe1887b"},
		{name: "wrong key", input: foreign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := c.Decrypt(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecryptionFailure)
			assert.Empty(t, out)
		})
	}
}

func TestFieldCipher_FailOpenDecryptReturnsInput(t *testing.T) {
	c := newTestCipher(t, WithFailOpen(true))

	out, err := c.Decrypt("v1:0011")
	require.NoError(t, err)
	assert.Equal(t, "v1:0011", out)
}

func TestFieldCipher_EncryptFailure(t *testing.T) {
	t.Run("fail closed", func(t *testing.T) {
		c := newTestCipher(t, WithRandom(failingReader{}))

		out, err := c.Encrypt("123412341234")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEncryptionFailure)
		assert.Empty(t, out)
	})

	t.Run("fail open", func(t *testing.T) {
		c := newTestCipher(t, WithRandom(failingReader{}), WithFailOpen(true))

		out, err := c.Encrypt("123412341234")
		require.NoError(t, err)
		assert.Equal(t, "123412341234", out)
	})

	t.Run("bad key", func(t *testing.T) {
		c := NewFieldCipher(brokenKeys{})

		_, err := c.Encrypt("123412341234")
		assert.ErrorIs(t, err, ErrEncryptionFailure)
		assert.ErrorIs(t, err, ErrInvalidKeySize)
	})
}

func TestFieldCipher_DeterministicIVSource(t *testing.T) {
	iv := make([]byte, 16)
	for i := range iv {
		iv[i] = byte(i)
	}
	c := newTestCipher(t, WithRandom(bytes.NewReader(iv)))

	envelope, err := c.Encrypt("123412341234")
	require.NoError(t, err)
	assert.Equal(t, "v1:"+legacyEnvelope, envelope)
}

func TestPKCS7Unpad_Rejects(t *testing.T) {
	tests := [][]byte{
		nil,
		bytes.Repeat([]byte{1}, 15),
		append(bytes.Repeat([]byte{'a'}, 15), 0),
		append(bytes.Repeat([]byte{'a'}, 15), 17),
		append(bytes.Repeat([]byte{'a'}, 14), 3, 2),
	}
	for _, in := range tests {
		_, err := pkcs7Unpad(in, 16)
		assert.ErrorIs(t, err, ErrInvalidPadding)
	}
}
