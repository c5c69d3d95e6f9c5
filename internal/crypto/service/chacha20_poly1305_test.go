package service

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/cosecrets/cosecrets/internal/crypto/domain"
)

func TestChaCha20Poly1305Encryptor_RoundTrip(t *testing.T) {
	encryptor, err := NewChaCha20Poly1305Encryptor("test-key-material")
	require.NoError(t, err)

	plaintext := "sk_live_abc123"

	ciphertext, iv, err := encryptor.Encrypt(plaintext)
	require.NoError(t, err)

	decrypted, err := encryptor.Decrypt(ciphertext, iv)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestChaCha20Poly1305Encryptor_MissingKeyMaterial(t *testing.T) {
	encryptor, err := NewChaCha20Poly1305Encryptor("")
	assert.Nil(t, encryptor)
	assert.ErrorIs(t, err, cryptoDomain.ErrMissingKeyMaterial)
}

func TestChaCha20Poly1305Encryptor_TamperedCiphertext(t *testing.T) {
	encryptor, err := NewChaCha20Poly1305Encryptor("test-key-material")
	require.NoError(t, err)

	ciphertext, iv, err := encryptor.Encrypt("secret-value")
	require.NoError(t, err)

	raw, err := hex.DecodeString(ciphertext)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = encryptor.Decrypt(hex.EncodeToString(raw), iv)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}

func TestChaCha20Poly1305Encryptor_CrossCipherCiphertext(t *testing.T) {
	aesEncryptor, err := NewAESGCMEncryptor("test-key-material")
	require.NoError(t, err)
	chachaEncryptor, err := NewChaCha20Poly1305Encryptor("test-key-material")
	require.NoError(t, err)

	ciphertext, iv, err := aesEncryptor.Encrypt("secret-value")
	require.NoError(t, err)

	// The 16-byte AES-GCM IV never fits the 12-byte ChaCha20 nonce.
	_, err = chachaEncryptor.Decrypt(ciphertext, iv)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}
