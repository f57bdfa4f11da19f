// Package credentials loads API keys from standard locations.
package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrInsecurePermissions is returned when credentials file has overly permissive permissions.
var ErrInsecurePermissions = fmt.Errorf("credentials file has insecure permissions")

// Credentials holds API keys loaded from credentials.toml.
// Uses a generic map to support any provider without hardcoding.
type Credentials struct {
	// Default is the top-level api_key, used when no provider section matches.
	Default string

	// Provider-specific sections (loaded dynamically)
	providers map[string]*ProviderCreds
}

// ProviderCreds holds credentials for a single provider
type ProviderCreds struct {
	APIKey string `toml:"api_key"`
}

// StandardPaths returns the standard credential file locations in order of priority
func StandardPaths() []string {
	paths := []string{}

	// 1. Current directory
	paths = append(paths, "credentials.toml")

	// 2. ~/.config/wavekit/credentials.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "wavekit", "credentials.toml"))
	}

	// 3. ~/.wavekit/credentials.toml (fallback)
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".wavekit", "credentials.toml"))
	}

	return paths
}

// Load loads credentials from the first available standard location
func Load() (*Credentials, string, error) {
	for _, path := range StandardPaths() {
		if _, err := os.Stat(path); err == nil {
			creds, err := LoadFile(path)
			if err != nil {
				return nil, path, err
			}
			return creds, path, nil
		}
	}
	return nil, "", nil // No credentials file found (not an error)
}

// LoadFile loads credentials from a specific file.
// Returns ErrInsecurePermissions if file is readable by group or others.
func LoadFile(path string) (*Credentials, error) {
	// Check file permissions (Unix only)
	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		mode := info.Mode().Perm()
		// Credentials must be 0400 (owner read-only)
		if mode != 0400 {
			return nil, fmt.Errorf("%w: %s has mode %04o (must be 0400)",
				ErrInsecurePermissions, path, mode)
		}
	}

	// First pass: decode into a generic map to get all sections
	var rawData map[string]interface{}
	if _, err := toml.DecodeFile(path, &rawData); err != nil {
		return nil, err
	}

	creds := &Credentials{
		providers: make(map[string]*ProviderCreds),
	}

	// Top-level api_key is the generic fallback
	if key, ok := rawData["api_key"].(string); ok {
		creds.Default = key
	}

	// Extract provider sections
	for key, value := range rawData {
		section, ok := value.(map[string]interface{})
		if !ok {
			continue
		}

		apiKey, _ := section["api_key"].(string)
		if apiKey == "" {
			continue
		}

		creds.providers[key] = &ProviderCreds{APIKey: apiKey}
	}

	return creds, nil
}

// GetAPIKey returns the API key a loaded file holds for a provider.
// Priority: [provider] section > top-level api_key. Returns "" when the
// file has nothing for the provider; it does not consult the environment.
func (c *Credentials) GetAPIKey(provider string) string {
	if c == nil {
		return ""
	}

	// Normalize provider name (lowercase, no dashes)
	normalized := strings.ToLower(strings.ReplaceAll(provider, "-", ""))

	// Check provider-specific section first
	if creds, ok := c.providers[provider]; ok && creds.APIKey != "" {
		return creds.APIKey
	}
	// Try normalized name
	if creds, ok := c.providers[normalized]; ok && creds.APIKey != "" {
		return creds.APIKey
	}

	return c.Default
}

// EnvAPIKey returns the API key from the provider's environment variables,
// or "" when none are set.
func EnvAPIKey(provider string) string {
	for _, name := range envVarsForProvider(provider) {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Resolve returns the API key for a provider using the standard priority:
// environment variable, then the credentials file. An explicitly supplied
// key always beats both; callers handle that before calling Resolve.
// Returns "" with a nil error when no key is configured anywhere.
func Resolve(provider string) (string, error) {
	if key := EnvAPIKey(provider); key != "" {
		return key, nil
	}

	creds, path, err := Load()
	if err != nil {
		return "", fmt.Errorf("loading %s: %w", path, err)
	}
	return creds.GetAPIKey(provider), nil
}

// envVarsForProvider returns the environment variable names for a provider,
// in lookup order.
func envVarsForProvider(provider string) []string {
	// Known providers with standard env vars
	switch provider {
	case "wavespeed":
		return []string{"WAVESPEED_API_KEY"}
	case "anthropic":
		return []string{"ANTHROPIC_API_KEY"}
	case "gemini", "google":
		return []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	default:
		// Generic: PROVIDER_API_KEY
		return []string{strings.ToUpper(strings.ReplaceAll(provider, "-", "_")) + "_API_KEY"}
	}
}
