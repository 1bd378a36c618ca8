package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMaskKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"empty", "", "****"},
		{"short", "abc", "****"},
		{"exactly eight", "12345678", "****"},
		{"nine chars", "123456789", "1234...6789"},
		{"long key", "sk-abcdef0123456789", "sk-a...6789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskKey(tt.key); got != tt.want {
				t.Errorf("MaskKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestMaskKey_NoMiddleLeak(t *testing.T) {
	key := "aaaa-SECRET-MIDDLE-zzzz"
	masked := MaskKey(key)
	if strings.Contains(masked, "SECRET") || strings.Contains(masked, "MIDDLE") {
		t.Errorf("masked key %q leaks the middle of the credential", masked)
	}
}

func TestLoadEnvFile(t *testing.T) {
	root := t.TempDir()
	content := "# comment line\n\nVDB_ENVTEST_A=from-file\nVDB_ENVTEST_B=has=equals\n"
	if err := os.WriteFile(filepath.Join(root, EnvFileName), []byte(content), 0644); err != nil {
		t.Fatalf("writing .env: %v", err)
	}

	os.Unsetenv("VDB_ENVTEST_A")
	os.Unsetenv("VDB_ENVTEST_B")
	defer os.Unsetenv("VDB_ENVTEST_A")
	defer os.Unsetenv("VDB_ENVTEST_B")

	if err := LoadEnvFile(root); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}

	if got := os.Getenv("VDB_ENVTEST_A"); got != "from-file" {
		t.Errorf("VDB_ENVTEST_A = %q, want from-file", got)
	}
	// First '=' splits key and value
	if got := os.Getenv("VDB_ENVTEST_B"); got != "has=equals" {
		t.Errorf("VDB_ENVTEST_B = %q, want has=equals", got)
	}
}

func TestLoadEnvFile_NeverOverwritesProcessEnv(t *testing.T) {
	root := t.TempDir()
	os.WriteFile(filepath.Join(root, EnvFileName), []byte("VDB_ENVTEST_C=from-file\n"), 0644)

	os.Setenv("VDB_ENVTEST_C", "from-process")
	defer os.Unsetenv("VDB_ENVTEST_C")

	if err := LoadEnvFile(root); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}

	if got := os.Getenv("VDB_ENVTEST_C"); got != "from-process" {
		t.Errorf("VDB_ENVTEST_C = %q, want from-process (process env must win)", got)
	}
}

func TestLoadEnvFile_MissingFile(t *testing.T) {
	if err := LoadEnvFile(t.TempDir()); err != nil {
		t.Errorf("missing .env should not be an error, got %v", err)
	}
}

func TestResolveBaseURL(t *testing.T) {
	cfg := Default()

	os.Unsetenv(BaseURLEnvVar)
	if got := cfg.ResolveBaseURL(); got != cfg.Service.BaseURL {
		t.Errorf("ResolveBaseURL = %s, want configured value", got)
	}

	os.Setenv(BaseURLEnvVar, "http://127.0.0.1:9999")
	defer os.Unsetenv(BaseURLEnvVar)
	if got := cfg.ResolveBaseURL(); got != "http://127.0.0.1:9999" {
		t.Errorf("ResolveBaseURL = %s, want env override", got)
	}
}
