package auth

import (
	"strings"
	"testing"
)

func TestNewAPIKey(t *testing.T) {
	t.Run("default prefix", func(t *testing.T) {
		key, err := NewAPIKey("")
		if err != nil {
			t.Fatalf("NewAPIKey() error = %v", err)
		}
		if !strings.HasPrefix(key.Key, DefaultAPIKeyPrefix) {
			t.Errorf("Key %q should start with %q", key.Key, DefaultAPIKeyPrefix)
		}
		if len(key.Key) != len(DefaultAPIKeyPrefix)+apiKeyRandomLength {
			t.Errorf("len(Key) = %d", len(key.Key))
		}
		if key.Hash != HashAPIKey(key.Key) {
			t.Error("hash mismatch")
		}
	})

	t.Run("custom prefix", func(t *testing.T) {
		key, err := NewAPIKey("ci_")
		if err != nil {
			t.Fatalf("NewAPIKey() error = %v", err)
		}
		if !strings.HasPrefix(key.Key, "ci_") {
			t.Errorf("Key = %q", key.Key)
		}
	})

	t.Run("unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			key, err := NewAPIKey("")
			if err != nil {
				t.Fatalf("NewAPIKey() error = %v", err)
			}
			if seen[key.Key] {
				t.Fatalf("duplicate key %q", key.Key)
			}
			seen[key.Key] = true
		}
	})
}

func TestHashAPIKey(t *testing.T) {
	// echo -n abc | sha256sum
	const abc = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := HashAPIKey("abc"); got != abc {
		t.Errorf("HashAPIKey(abc) = %q", got)
	}
	if HashAPIKey("a") == HashAPIKey("b") {
		t.Error("different keys should have different hashes")
	}
}

func TestDisplayKey(t *testing.T) {
	tests := []struct {
		key, want string
	}{
		{"short", "short"},
		{"igk_0123456789abcdef", "igk_01234567..."},
	}
	for _, tt := range tests {
		if got := displayKey(tt.key); got != tt.want {
			t.Errorf("displayKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
