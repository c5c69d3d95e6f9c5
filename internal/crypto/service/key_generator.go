package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/cosecrets/cosecrets/internal/crypto/domain"
)

const (
	// apiKeyNamespace is the fixed tag prefixed to every generated API key so
	// leaked credentials can be recognized by scanners.
	apiKeyNamespace = "cos_"

	// apiKeyDisplayPrefixLen is the number of leading characters retained as
	// the non-secret display prefix.
	apiKeyDisplayPrefixLen = 12
)

// keyGenerator implements KeyGenerator using SHA-256 digests.
type keyGenerator struct{}

// NewKeyGenerator creates a KeyGenerator producing namespaced random API keys.
func NewKeyGenerator() KeyGenerator {
	return &keyGenerator{}
}

// GenerateAPIKey creates a new API key from 32 cryptographically random bytes.
// The plain key is returned exactly once and never persisted; only the digest
// and the display prefix are stored.
func (k *keyGenerator) GenerateAPIKey() (string, string, string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", "", fmt.Errorf("failed to generate random api key: %w", err)
	}

	plainKey := apiKeyNamespace + hex.EncodeToString(randomBytes)
	domain.Zero(randomBytes)

	prefix := plainKey[:apiKeyDisplayPrefixLen]
	digest := k.HashIdentifier(plainKey)

	return plainKey, prefix, digest, nil
}

// HashIdentifier hashes a credential with SHA-256 for exact-match lookup.
// Deterministic and unsalted on purpose: the digest is the lookup index.
func (k *keyGenerator) HashIdentifier(secret string) string {
	hash := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(hash[:])
}
