// Package service provides cryptographic services for secret value encryption
// and API key credential generation.
//
// Two distinct primitives are implemented on purpose: randomized authenticated
// encryption for secret values (ciphertexts must not leak equality between
// updates even when plaintext repeats) and a deterministic one-way digest for
// API keys (which are looked up by exact hash match).
package service

// Encryptor performs authenticated symmetric encryption of secret values.
// Ciphertext and IV are hex-encoded strings suitable for column storage; the
// authentication tag is appended to the ciphertext.
type Encryptor interface {
	// Encrypt encrypts plaintext with a fresh random IV per call.
	Encrypt(plaintext string) (ciphertext, iv string, err error)

	// Decrypt decrypts ciphertext using the provided IV. Returns
	// ErrDecryptionFailed when the authentication tag does not verify.
	Decrypt(ciphertext, iv string) (string, error)
}

// KeyGenerator issues bearer API key credentials and hashes them for storage.
type KeyGenerator interface {
	// GenerateAPIKey creates a new cryptographically random API key.
	// Returns the plain key (shown to the caller exactly once), a short
	// non-secret display prefix, and the SHA-256 digest stored for lookup.
	GenerateAPIKey() (plainKey, prefix, digest string, err error)

	// HashIdentifier computes the deterministic SHA-256 hex digest of a
	// presented credential for exact-match lookup.
	HashIdentifier(secret string) string
}
