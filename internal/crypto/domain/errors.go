// Package domain defines domain errors for cryptographic operations.
package domain

import (
	"github.com/cosecrets/cosecrets/internal/errors"
)

// Cryptographic operation error definitions.
var (
	// ErrMissingKeyMaterial indicates no encryption key material is configured.
	// Without key material no secret value can ever be encrypted or decrypted,
	// so this is fatal at startup and a 500 on any request that reaches it.
	ErrMissingKeyMaterial = errors.Wrap(errors.ErrConfiguration, "encryption key material is not configured")

	// ErrDecryptionFailed indicates ciphertext failed authentication on decrypt.
	//
	// This occurs when the stored ciphertext or IV has been tampered with or
	// corrupted, or when the wrong key material is configured. The specific
	// cause is not disclosed to callers; the failure is logged as a security
	// event instead.
	ErrDecryptionFailed = errors.Wrap(errors.ErrIntegrity, "decryption failed")

	// ErrUnsupportedAlgorithm indicates the configured cipher algorithm is unknown.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrConfiguration, "unsupported encryption algorithm")
)
