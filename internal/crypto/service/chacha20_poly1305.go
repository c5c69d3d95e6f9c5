package service

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/cosecrets/cosecrets/internal/crypto/domain"
)

// ChaCha20Poly1305Encryptor implements Encryptor using ChaCha20-Poly1305.
//
// Preferred on hosts without AES-NI hardware acceleration. The wire format
// matches AESGCMEncryptor (hex ciphertext with appended tag, hex IV) except
// for the cipher's native 12-byte nonce.
type ChaCha20Poly1305Encryptor struct {
	aead cipher.AEAD
}

// NewChaCha20Poly1305Encryptor creates a ChaCha20-Poly1305 encryptor from the
// given key material. Returns ErrMissingKeyMaterial when the material is empty.
func NewChaCha20Poly1305Encryptor(keyMaterial string) (*ChaCha20Poly1305Encryptor, error) {
	if keyMaterial == "" {
		return nil, cryptoDomain.ErrMissingKeyMaterial
	}

	key := sha256.Sum256([]byte(keyMaterial))
	defer cryptoDomain.Zero(key[:])

	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create chacha20-poly1305 cipher: %w", err)
	}

	return &ChaCha20Poly1305Encryptor{aead: aead}, nil
}

// Encrypt encrypts plaintext with a fresh random nonce and returns hex-encoded
// ciphertext (with the authentication tag appended) and nonce.
func (c *ChaCha20Poly1305Encryptor) Encrypt(plaintext string) (string, string, error) {
	iv := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return "", "", fmt.Errorf("failed to generate iv: %w", err)
	}

	ciphertext := c.aead.Seal(nil, iv, []byte(plaintext), nil)
	return hex.EncodeToString(ciphertext), hex.EncodeToString(iv), nil
}

// Decrypt decodes and decrypts the ciphertext. Any authentication failure is
// reported as ErrDecryptionFailed without further detail.
func (c *ChaCha20Poly1305Encryptor) Decrypt(ciphertext, iv string) (string, error) {
	rawCiphertext, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	rawIV, err := hex.DecodeString(iv)
	if err != nil || len(rawIV) != c.aead.NonceSize() {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := c.aead.Open(nil, rawIV, rawCiphertext, nil)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// NewEncryptor creates the Encryptor for the configured algorithm name.
func NewEncryptor(algorithm, keyMaterial string) (Encryptor, error) {
	switch algorithm {
	case "aes-gcm":
		return NewAESGCMEncryptor(keyMaterial)
	case "chacha20-poly1305":
		return NewChaCha20Poly1305Encryptor(keyMaterial)
	default:
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
}
