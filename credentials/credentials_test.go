package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestStandardPaths(t *testing.T) {
	paths := StandardPaths()
	if len(paths) < 2 {
		t.Errorf("expected at least 2 standard paths, got %d", len(paths))
	}
	if paths[0] != "credentials.toml" {
		t.Errorf("first path should be credentials.toml, got %s", paths[0])
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	credPath := filepath.Join(tmpDir, "credentials.toml")

	content := `
[wavespeed]
api_key = "ws-test123"

[anthropic]
api_key = "sk-ant-test456"
`
	os.WriteFile(credPath, []byte(content), 0400)

	creds, err := LoadFile(credPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := creds.GetAPIKey("wavespeed"); got != "ws-test123" {
		t.Errorf("wavespeed key = %q, want %q", got, "ws-test123")
	}
	if got := creds.GetAPIKey("anthropic"); got != "sk-ant-test456" {
		t.Errorf("anthropic key = %q, want %q", got, "sk-ant-test456")
	}
}

func TestLoadFile_TopLevelFallback(t *testing.T) {
	tmpDir := t.TempDir()
	credPath := filepath.Join(tmpDir, "credentials.toml")

	content := `api_key = "generic-key"
`
	os.WriteFile(credPath, []byte(content), 0400)

	creds, err := LoadFile(credPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Any provider should get the generic key
	if got := creds.GetAPIKey("wavespeed"); got != "generic-key" {
		t.Errorf("wavespeed key = %q, want %q (top-level fallback)", got, "generic-key")
	}
	if got := creds.GetAPIKey("gemini"); got != "generic-key" {
		t.Errorf("gemini key = %q, want %q (top-level fallback)", got, "generic-key")
	}
}

func TestLoadFile_ProviderOverridesDefault(t *testing.T) {
	tmpDir := t.TempDir()
	credPath := filepath.Join(tmpDir, "credentials.toml")

	content := `api_key = "generic-key"

[wavespeed]
api_key = "wavespeed-specific-key"
`
	os.WriteFile(credPath, []byte(content), 0400)

	creds, err := LoadFile(credPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Specific provider should use its own key
	if got := creds.GetAPIKey("wavespeed"); got != "wavespeed-specific-key" {
		t.Errorf("wavespeed key = %q, want %q", got, "wavespeed-specific-key")
	}
	// Other providers should use generic
	if got := creds.GetAPIKey("anthropic"); got != "generic-key" {
		t.Errorf("anthropic key = %q, want %q (top-level fallback)", got, "generic-key")
	}
}

func TestLoadFile_NormalizedProviderName(t *testing.T) {
	tmpDir := t.TempDir()
	credPath := filepath.Join(tmpDir, "credentials.toml")

	content := `
[wavespeed]
api_key = "ws-key"
`
	os.WriteFile(credPath, []byte(content), 0400)

	creds, err := LoadFile(credPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := creds.GetAPIKey("Wave-Speed"); got != "ws-key" {
		t.Errorf("GetAPIKey(Wave-Speed) = %q, want %q (normalized lookup)", got, "ws-key")
	}
}

func TestLoadFile_InsecurePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission check not applicable on Windows")
	}

	tmpDir := t.TempDir()
	credPath := filepath.Join(tmpDir, "credentials.toml")

	content := `
[wavespeed]
api_key = "secret-key"
`
	os.WriteFile(credPath, []byte(content), 0644)

	_, err := LoadFile(credPath)
	if err == nil {
		t.Fatal("expected error for insecure permissions")
	}
	if !errors.Is(err, ErrInsecurePermissions) {
		t.Errorf("expected ErrInsecurePermissions, got %v", err)
	}
}

func TestLoadFile_SecurePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission check not applicable on Windows")
	}

	tmpDir := t.TempDir()
	credPath := filepath.Join(tmpDir, "credentials.toml")

	content := `
[wavespeed]
api_key = "secret-key"
`
	os.WriteFile(credPath, []byte(content), 0400)

	creds, err := LoadFile(credPath)
	if err != nil {
		t.Fatalf("0400 should be allowed: %v", err)
	}
	if creds.GetAPIKey("wavespeed") != "secret-key" {
		t.Error("expected api_key to be loaded")
	}
}

func TestLoadFile_RejectWritablePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission check not applicable on Windows")
	}

	tmpDir := t.TempDir()
	credPath := filepath.Join(tmpDir, "credentials.toml")

	content := `
[wavespeed]
api_key = "secret-key"
`
	os.WriteFile(credPath, []byte(content), 0600)

	_, err := LoadFile(credPath)
	if err == nil {
		t.Fatal("expected error for 0600 permissions (writable)")
	}
	if !errors.Is(err, ErrInsecurePermissions) {
		t.Errorf("expected ErrInsecurePermissions, got %v", err)
	}
}

func TestGetAPIKey_NilCredentials(t *testing.T) {
	var creds *Credentials
	if got := creds.GetAPIKey("wavespeed"); got != "" {
		t.Errorf("GetAPIKey on nil = %q, want empty", got)
	}
}

func TestEnvAPIKey(t *testing.T) {
	t.Setenv("WAVESPEED_API_KEY", "env-wavespeed")
	if got := EnvAPIKey("wavespeed"); got != "env-wavespeed" {
		t.Errorf("EnvAPIKey(wavespeed) = %q, want %q", got, "env-wavespeed")
	}
}

func TestEnvAPIKey_GeminiFallsBackToGoogle(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	if got := EnvAPIKey("gemini"); got != "google-key" {
		t.Errorf("EnvAPIKey(gemini) = %q, want %q (GOOGLE_API_KEY fallback)", got, "google-key")
	}

	t.Setenv("GEMINI_API_KEY", "gemini-key")
	if got := EnvAPIKey("gemini"); got != "gemini-key" {
		t.Errorf("EnvAPIKey(gemini) = %q, want %q (GEMINI_API_KEY wins)", got, "gemini-key")
	}
}

func TestEnvAPIKey_GenericEnvVar(t *testing.T) {
	// Unknown provider should generate PROVIDER_API_KEY env var
	t.Setenv("MYCUSTOM_API_KEY", "custom-env-value")
	if got := EnvAPIKey("mycustom"); got != "custom-env-value" {
		t.Errorf("EnvAPIKey(mycustom) = %q, want %q", got, "custom-env-value")
	}
}

func TestResolve_EnvBeatsFile(t *testing.T) {
	tmpDir := t.TempDir()
	origDir, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(origDir)

	content := `
[wavespeed]
api_key = "file-key"
`
	os.WriteFile("credentials.toml", []byte(content), 0400)
	t.Setenv("WAVESPEED_API_KEY", "env-key")

	got, err := Resolve("wavespeed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "env-key" {
		t.Errorf("Resolve(wavespeed) = %q, want %q (env beats file)", got, "env-key")
	}
}

func TestResolve_FileWhenNoEnv(t *testing.T) {
	tmpDir := t.TempDir()
	origDir, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(origDir)

	content := `
[wavespeed]
api_key = "file-key"
`
	os.WriteFile("credentials.toml", []byte(content), 0400)
	t.Setenv("WAVESPEED_API_KEY", "")

	got, err := Resolve("wavespeed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "file-key" {
		t.Errorf("Resolve(wavespeed) = %q, want %q", got, "file-key")
	}
}

func TestResolve_InsecureFileSurfaces(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission check not applicable on Windows")
	}

	tmpDir := t.TempDir()
	origDir, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(origDir)

	content := `
[wavespeed]
api_key = "file-key"
`
	os.WriteFile("credentials.toml", []byte(content), 0644)
	t.Setenv("WAVESPEED_API_KEY", "")

	_, err := Resolve("wavespeed")
	if !errors.Is(err, ErrInsecurePermissions) {
		t.Errorf("Resolve should surface ErrInsecurePermissions, got %v", err)
	}
}

func TestLoad_NoFile(t *testing.T) {
	tmpDir := t.TempDir()
	origDir, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(origDir)

	creds, path, err := Load()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if creds != nil {
		t.Error("expected nil credentials when no file exists")
	}
	if path != "" {
		t.Errorf("expected empty path, got %q", path)
	}
}

func TestLoad_FromCurrentDir(t *testing.T) {
	tmpDir := t.TempDir()
	origDir, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(origDir)

	content := `
[wavespeed]
api_key = "from-current-dir"
`
	os.WriteFile("credentials.toml", []byte(content), 0400)

	creds, path, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds == nil {
		t.Fatal("expected credentials to be loaded")
	}
	if creds.GetAPIKey("wavespeed") != "from-current-dir" {
		t.Errorf("unexpected api key: %s", creds.GetAPIKey("wavespeed"))
	}
	if path != "credentials.toml" {
		t.Errorf("expected path credentials.toml, got %q", path)
	}
}
