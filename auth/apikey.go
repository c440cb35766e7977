package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultAPIKeyPrefix marks keys minted by issuegate.
const DefaultAPIKeyPrefix = "igk_"

const (
	apiKeyAlphabet      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	apiKeyRandomLength  = 32
	apiKeyDisplayLength = 12
)

// APIKey is a freshly minted key. Key is handed to the client once; only
// Hash goes into api_key_hashes.
type APIKey struct {
	Key  string
	Hash string
}

// NewAPIKey mints a key with the given prefix, or DefaultAPIKeyPrefix
// when prefix is empty.
func NewAPIKey(prefix string) (APIKey, error) {
	if prefix == "" {
		prefix = DefaultAPIKeyPrefix
	}
	random, err := nanoid.Generate(apiKeyAlphabet, apiKeyRandomLength)
	if err != nil {
		return APIKey{}, fmt.Errorf("generate api key: %w", err)
	}
	key := prefix + random
	return APIKey{Key: key, Hash: HashAPIKey(key)}, nil
}

// HashAPIKey returns the lowercase hex SHA-256 digest of key.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// displayKey shortens key for logs and principals.
func displayKey(key string) string {
	if len(key) <= apiKeyDisplayLength {
		return key
	}
	return key[:apiKeyDisplayLength] + "..."
}
