package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func mustResolve(t *testing.T, r *Resolver) *Resolved {
	t.Helper()
	cfg, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return cfg
}

func TestResolver_Defaults(t *testing.T) {
	resolver := NewResolver(ResolverConfig{
		Defaults: map[string]string{
			"api_url": "http://localhost:8080",
			"format":  "table",
		},
	})

	cfg := mustResolve(t, resolver)

	if got := cfg.Get("api_url"); got != "http://localhost:8080" {
		t.Errorf("api_url = %q, want %q", got, "http://localhost:8080")
	}
	if got := cfg.Source("api_url"); got != SourceDefault {
		t.Errorf("source = %q, want %q", got, SourceDefault)
	}
}

func TestResolver_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("MYAPP_API_URL", "http://env-server:9000")

	resolver := NewResolver(ResolverConfig{
		EnvPrefix: "MYAPP_",
		Defaults: map[string]string{
			"api_url": "http://localhost:8080",
		},
	})

	cfg := mustResolve(t, resolver)

	if got := cfg.Get("api_url"); got != "http://env-server:9000" {
		t.Errorf("api_url = %q, want %q", got, "http://env-server:9000")
	}
	if got := cfg.Source("api_url"); got != SourceEnv {
		t.Errorf("source = %q, want %q", got, SourceEnv)
	}
}

func TestResolver_EnvBindings(t *testing.T) {
	t.Setenv("JIRA_HOST", "https://jira.example.com")
	t.Setenv("MYAPP_JIRA_HOST", "https://ignored.example.com")

	resolver := NewResolver(ResolverConfig{
		EnvPrefix:   "MYAPP_",
		EnvBindings: map[string]string{"jira_host": "JIRA_HOST"},
	})

	cfg := mustResolve(t, resolver)

	if got := cfg.Get("jira_host"); got != "https://jira.example.com" {
		t.Errorf("jira_host = %q", got)
	}
	if got := resolver.EnvVar("jira_host"); got != "JIRA_HOST" {
		t.Errorf("EnvVar(jira_host) = %q", got)
	}
	if got := resolver.EnvVar("listen-addr"); got != "MYAPP_LISTEN_ADDR" {
		t.Errorf("EnvVar(listen-addr) = %q", got)
	}
}

func TestResolver_ConfigFile(t *testing.T) {
	path := writeConfig(t, "api_url: http://file-server:8080\nretries: 3\nverbose: true\n")

	resolver := NewResolver(ResolverConfig{
		ConfigFile: path,
		Defaults: map[string]string{
			"api_url": "http://localhost:8080",
		},
	})

	cfg := mustResolve(t, resolver)

	if got := cfg.Get("api_url"); got != "http://file-server:8080" {
		t.Errorf("api_url = %q", got)
	}
	if got := cfg.Source("api_url"); got != SourceFile {
		t.Errorf("source = %q, want %q", got, SourceFile)
	}
	if got := cfg.Get("retries"); got != "3" {
		t.Errorf("retries = %q, want 3", got)
	}
	if got := cfg.Get("verbose"); got != "true" {
		t.Errorf("verbose = %q, want true", got)
	}
	if resolver.FilePath() != path {
		t.Errorf("FilePath = %q", resolver.FilePath())
	}
}

func TestResolver_ListValues(t *testing.T) {
	path := writeConfig(t, "api_key_hashes:\n  - aaa\n  - bbb\n")

	cfg := mustResolve(t, NewResolver(ResolverConfig{ConfigFile: path}))

	if got := cfg.Get("api_key_hashes"); got != "aaa,bbb" {
		t.Errorf("api_key_hashes = %q, want %q", got, "aaa,bbb")
	}
}

func TestResolver_ExplicitFileErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		r := NewResolver(ResolverConfig{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
		if _, err := r.Resolve(); err == nil {
			t.Error("expected error for missing explicit config")
		}
	})

	t.Run("unparsable", func(t *testing.T) {
		path := writeConfig(t, "api_url: [unclosed\n")
		r := NewResolver(ResolverConfig{ConfigFile: path})
		if _, err := r.Resolve(); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

func TestResolver_GlobalFileIsOptional(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	resolver := NewResolver(ResolverConfig{
		GlobalConfigDir: "testapp",
		Defaults:        map[string]string{"format": "table"},
	})

	cfg := mustResolve(t, resolver)
	if got := cfg.Get("format"); got != "table" {
		t.Errorf("format = %q", got)
	}
	if len(resolver.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", resolver.Warnings)
	}
}

func TestResolver_Priority(t *testing.T) {
	path := writeConfig(t, "api_url: http://file\nformat: yaml\n")
	t.Setenv("TEST_API_URL", "http://env")

	resolver := NewResolver(ResolverConfig{
		EnvPrefix:  "TEST_",
		ConfigFile: path,
		Defaults: map[string]string{
			"api_url": "http://default",
			"format":  "table",
			"color":   "auto",
		},
	})

	cfg, err := resolver.ResolveWithFlags(map[string]string{"color": "never", "format": ""})
	if err != nil {
		t.Fatalf("ResolveWithFlags: %v", err)
	}

	tests := []struct {
		key    string
		value  string
		source Source
	}{
		{"api_url", "http://env", SourceEnv},
		{"format", "yaml", SourceFile},
		{"color", "never", SourceFlag},
	}
	for _, tt := range tests {
		value, source := cfg.GetWithSource(tt.key)
		if value != tt.value || source != tt.source {
			t.Errorf("%s = (%q, %q), want (%q, %q)", tt.key, value, source, tt.value, tt.source)
		}
	}
}

func TestResolver_ValidKeys(t *testing.T) {
	path := writeConfig(t, "api_url: http://test\ninvalid_key: value\n")
	var stderr bytes.Buffer

	resolver := NewResolver(ResolverConfig{
		ConfigFile: path,
		ValidKeys:  []string{"api_url", "format"},
		ErrWriter:  &stderr,
	})

	cfg := mustResolve(t, resolver)

	if got := cfg.Get("api_url"); got != "http://test" {
		t.Errorf("api_url = %q, want %q", got, "http://test")
	}
	if got := cfg.Get("invalid_key"); got != "" {
		t.Errorf("invalid_key = %q, want empty", got)
	}
	if len(resolver.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one", resolver.Warnings)
	}
	if stderr.Len() == 0 {
		t.Error("expected warning on ErrWriter")
	}
}

func TestResolved_AllAndKeys(t *testing.T) {
	cfg := mustResolve(t, NewResolver(ResolverConfig{
		Defaults: map[string]string{
			"key2": "value2",
			"key1": "value1",
		},
	}))

	all := cfg.All()
	all["key1"] = "mutated"
	if cfg.Get("key1") != "value1" {
		t.Error("All() should return a copy")
	}

	keys := cfg.Keys()
	if len(keys) != 2 || keys[0] != "key1" || keys[1] != "key2" {
		t.Errorf("Keys = %v", keys)
	}
}
