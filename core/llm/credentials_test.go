package llm

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	coreerrors "github.com/adalundhe/floyd/core/errors"
)

// isolate points HOME at a temp dir and clears provider env vars.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, keys := range providerEnvKeys {
		for _, k := range keys {
			t.Setenv(k, "")
		}
	}
	return home
}

func writeCredentials(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, ".floyd")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "credentials.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestResolveAPIKeyFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		envKey   string
		envValue string
	}{
		{"anthropic from env", "anthropic", "ANTHROPIC_API_KEY", "sk-ant-test123"},
		{"openai from env", "openai", "OPENAI_API_KEY", "sk-openai-test456"},
		{"assistants share openai key", "assistants", "OPENAI_API_KEY", "sk-openai-test789"},
		{"google from env", "google", "GOOGLE_API_KEY", "google-key-789"},
		{"google from gemini env", "google", "GEMINI_API_KEY", "gemini-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.envKey, tt.envValue)

			key, err := ResolveAPIKey(tt.provider)
			if err != nil {
				t.Fatalf("ResolveAPIKey() error = %v", err)
			}
			if key != tt.envValue {
				t.Errorf("ResolveAPIKey() = %v, want %v", key, tt.envValue)
			}
		})
	}
}

func TestResolveAPIKeyNoCredentials(t *testing.T) {
	isolate(t)

	_, err := ResolveAPIKey("anthropic")
	if !errors.Is(err, coreerrors.ErrMissingAPIKey) {
		t.Errorf("ResolveAPIKey() error = %v, want ErrMissingAPIKey", err)
	}
	if HasCredentials("anthropic") {
		t.Error("HasCredentials() should be false without credentials")
	}
}

func TestResolveAPIKeyFromFile(t *testing.T) {
	home := isolate(t)
	writeCredentials(t, home, `
credentials:
  anthropic: file-based-key-123
  openai: file-based-openai-456
`)

	for provider, want := range map[string]string{
		"anthropic":  "file-based-key-123",
		"openai":     "file-based-openai-456",
		"assistants": "file-based-openai-456",
	} {
		key, err := ResolveAPIKey(provider)
		if err != nil {
			t.Errorf("ResolveAPIKey(%s) error = %v", provider, err)
			continue
		}
		if key != want {
			t.Errorf("ResolveAPIKey(%s) = %v, want %v", provider, key, want)
		}
	}
}

func TestResolveAPIKeyEnvPrecedence(t *testing.T) {
	home := isolate(t)
	writeCredentials(t, home, "credentials:\n  anthropic: file-key\n")
	t.Setenv("ANTHROPIC_API_KEY", "env-key")

	key, err := ResolveAPIKey("anthropic")
	if err != nil {
		t.Fatalf("ResolveAPIKey() error = %v", err)
	}
	if key != "env-key" {
		t.Errorf("ResolveAPIKey() = %v, want env-key", key)
	}
}

func TestResolveFromFileInvalidYAML(t *testing.T) {
	home := isolate(t)
	writeCredentials(t, home, "invalid: yaml: [")

	_, err := ResolveAPIKey("anthropic")
	if err == nil {
		t.Fatal("ResolveAPIKey() should return error for invalid YAML")
	}
	if coreerrors.GetTier(err) != coreerrors.TierUserFixable {
		t.Errorf("tier = %v, want user_fixable", coreerrors.GetTier(err))
	}
}

func TestSetAndRemoveCredential(t *testing.T) {
	home := isolate(t)

	if err := SetCredential("assistants", "sk-shared"); err != nil {
		t.Fatalf("SetCredential() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(home, ".floyd", "credentials.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("credentials mode = %v, want 0600", info.Mode().Perm())
	}

	key, err := ResolveAPIKey("openai")
	if err != nil || key != "sk-shared" {
		t.Errorf("ResolveAPIKey(openai) = %q, %v", key, err)
	}

	removed, err := RemoveCredential("openai")
	if err != nil || !removed {
		t.Fatalf("RemoveCredential() = %v, %v", removed, err)
	}
	removed, err = RemoveCredential("openai")
	if err != nil || removed {
		t.Errorf("second RemoveCredential() = %v, %v", removed, err)
	}
}

func TestGetEnvKeyName(t *testing.T) {
	tests := []struct {
		provider string
		expected string
	}{
		{"anthropic", "ANTHROPIC_API_KEY"},
		{"openai", "OPENAI_API_KEY"},
		{"assistants", "OPENAI_API_KEY"},
		{"google", "GOOGLE_API_KEY"},
		{"unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			if got := GetEnvKeyName(tt.provider); got != tt.expected {
				t.Errorf("GetEnvKeyName(%s) = %v, want %v", tt.provider, got, tt.expected)
			}
		})
	}
}

func TestDefaultCredentialsPath(t *testing.T) {
	home := isolate(t)
	expected := filepath.Join(home, ".floyd", "credentials.yaml")
	if got := DefaultCredentialsPath(); got != expected {
		t.Errorf("DefaultCredentialsPath() = %v, want %v", got, expected)
	}
}
