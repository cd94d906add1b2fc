// Package llm resolves provider credentials and parses provider rate-limit hints.
package llm

import (
	"fmt"
	"os"
	"path/filepath"

	coreerrors "github.com/adalundhe/floyd/core/errors"
	"github.com/adalundhe/floyd/core/storage"
	"gopkg.in/yaml.v3"
)

var providerEnvKeys = map[string][]string{
	"anthropic":  {"ANTHROPIC_API_KEY"},
	"openai":     {"OPENAI_API_KEY"},
	"assistants": {"OPENAI_API_KEY"},
	"google":     {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
}

// credentialAlias maps providers that share a stored key.
var credentialAlias = map[string]string{
	"assistants": "openai",
}

type credentialsFile struct {
	Credentials map[string]string `yaml:"credentials"`
}

func DefaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".floyd", "credentials.yaml")
}

// ResolveAPIKey looks up the key for provider in the environment, then in
// the credentials file.
func ResolveAPIKey(provider string) (string, error) {
	if key := resolveFromEnv(provider); key != "" {
		return key, nil
	}

	creds, err := LoadCredentials()
	if err != nil {
		return "", err
	}
	if key := creds[storedName(provider)]; key != "" {
		return key, nil
	}

	return "", coreerrors.ErrMissingAPIKey.WithContext("provider", provider)
}

func resolveFromEnv(provider string) string {
	for _, envKey := range providerEnvKeys[provider] {
		if key := os.Getenv(envKey); key != "" {
			return key
		}
	}
	return ""
}

func storedName(provider string) string {
	if alias, ok := credentialAlias[provider]; ok {
		return alias
	}
	return provider
}

// LoadCredentials reads the credentials file. A missing file yields an
// empty map.
func LoadCredentials() (map[string]string, error) {
	path := DefaultCredentialsPath()
	if path == "" {
		return map[string]string{}, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, coreerrors.NewTieredError(coreerrors.TierUserFixable, "reading credentials", err)
	}

	var file credentialsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, coreerrors.NewTieredError(coreerrors.TierUserFixable, "parsing credentials", err)
	}
	if file.Credentials == nil {
		return map[string]string{}, nil
	}
	return file.Credentials, nil
}

// SaveCredentials replaces the credentials file, creating its directory
// with owner-only permissions.
func SaveCredentials(creds map[string]string) error {
	path := DefaultCredentialsPath()
	if path == "" {
		return coreerrors.NewTieredError(coreerrors.TierUserFixable, "could not determine credentials path", nil)
	}
	if err := storage.EnsureSensitiveDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(&credentialsFile{Credentials: creds})
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// SetCredential stores key for provider.
func SetCredential(provider, key string) error {
	creds, err := LoadCredentials()
	if err != nil {
		return err
	}
	creds[storedName(provider)] = key
	return SaveCredentials(creds)
}

// RemoveCredential deletes the stored key for provider and reports whether
// one existed.
func RemoveCredential(provider string) (bool, error) {
	creds, err := LoadCredentials()
	if err != nil {
		return false, err
	}
	name := storedName(provider)
	if _, ok := creds[name]; !ok {
		return false, nil
	}
	delete(creds, name)
	return true, SaveCredentials(creds)
}

// GetEnvKeyName returns the primary environment variable for provider.
func GetEnvKeyName(provider string) string {
	if keys := providerEnvKeys[provider]; len(keys) > 0 {
		return keys[0]
	}
	return ""
}

func HasCredentials(provider string) bool {
	key, err := ResolveAPIKey(provider)
	return err == nil && key != ""
}

// KnownProviders lists the providers that credentials can be stored for.
func KnownProviders() []string {
	return []string{"anthropic", "google", "openai"}
}
