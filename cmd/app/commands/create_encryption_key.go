package commands

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

// encryptionKeyBytes is the raw key length. The crypto module normalizes the
// configured key material with SHA-256, so any string works, but a full
// 32 random bytes gives the ciphers their complete key space.
const encryptionKeyBytes = 32

// RunCreateEncryptionKey generates a new random encryption key and prints it
// for use as ENCRYPTION_KEY. The key is printed exactly once and never
// stored anywhere by this command.
func RunCreateEncryptionKey(format string) error {
	randomBytes := make([]byte, encryptionKeyBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("failed to generate random key: %w", err)
	}

	key := hex.EncodeToString(randomBytes)

	if format == "json" {
		result := map[string]interface{}{
			"encryption_key": key,
			"bytes":          encryptionKeyBytes,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
			return err
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	fmt.Println("Generated encryption key (store it safely, it cannot be recovered):")
	fmt.Println()
	fmt.Printf("  ENCRYPTION_KEY=%s\n", key)
	fmt.Println()
	fmt.Println("Losing this key makes every stored secret permanently unreadable.")
	return nil
}
