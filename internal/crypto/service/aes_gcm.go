package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	cryptoDomain "github.com/cosecrets/cosecrets/internal/crypto/domain"
)

// ivSize is the IV length in bytes. 16 bytes keeps stored ciphertexts
// compatible with rows written by earlier deployments.
const ivSize = 16

// AESGCMEncryptor implements Encryptor using AES-256-GCM.
//
// The configured key material is normalized to the cipher's required 32 bytes
// by hashing it with SHA-256, so operators may supply key material of any
// length. A fresh random 16-byte IV is generated per encryption and never
// reused. The 16-byte authentication tag is appended to the ciphertext by
// GCM's Seal, and verified (and stripped) by Open on decrypt.
//
// The encryptor is stateless after construction and safe for concurrent use.
type AESGCMEncryptor struct {
	aead cipher.AEAD
}

// NewAESGCMEncryptor creates an AES-256-GCM encryptor from the given key
// material. Returns ErrMissingKeyMaterial when the material is empty.
func NewAESGCMEncryptor(keyMaterial string) (*AESGCMEncryptor, error) {
	if keyMaterial == "" {
		return nil, cryptoDomain.ErrMissingKeyMaterial
	}

	// Normalize key material to exactly 32 bytes
	key := sha256.Sum256([]byte(keyMaterial))
	defer cryptoDomain.Zero(key[:])

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMEncryptor{aead: aead}, nil
}

// Encrypt encrypts plaintext with a fresh random IV and returns hex-encoded
// ciphertext (with the authentication tag appended) and IV.
func (a *AESGCMEncryptor) Encrypt(plaintext string) (string, string, error) {
	iv := make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return "", "", fmt.Errorf("failed to generate iv: %w", err)
	}

	ciphertext := a.aead.Seal(nil, iv, []byte(plaintext), nil)
	return hex.EncodeToString(ciphertext), hex.EncodeToString(iv), nil
}

// Decrypt decodes and decrypts the ciphertext. Any authentication failure is
// reported as ErrDecryptionFailed without further detail.
func (a *AESGCMEncryptor) Decrypt(ciphertext, iv string) (string, error) {
	rawCiphertext, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	rawIV, err := hex.DecodeString(iv)
	if err != nil || len(rawIV) != a.aead.NonceSize() {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := a.aead.Open(nil, rawIV, rawCiphertext, nil)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	return string(plaintext), nil
}
