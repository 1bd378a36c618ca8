package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// APIKeyEnvVar is the credential variable gating every API-dependent command.
	APIKeyEnvVar = "VIDEO_DB_API_KEY"

	// BaseURLEnvVar overrides the configured service endpoint.
	BaseURLEnvVar = "VIDEO_DB_BASE_URL"

	// EnvFileName is the optional key=value file in the skill root.
	EnvFileName = ".env"
)

// LoadEnvFile loads <root>/.env into the process environment. Variables
// already present in the environment are never overwritten. A missing file
// is not an error.
func LoadEnvFile(root string) error {
	path := filepath.Join(root, EnvFileName)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	// godotenv.Load never overrides existing process variables.
	return godotenv.Load(path)
}

// APIKey returns the credential from the environment, "" when unset.
func APIKey() string {
	return os.Getenv(APIKeyEnvVar)
}

// ResolveBaseURL returns the effective service endpoint: the environment
// override when set, otherwise the configured value.
func (c *Config) ResolveBaseURL() string {
	if v := os.Getenv(BaseURLEnvVar); v != "" {
		return v
	}
	return c.Service.BaseURL
}

// MaskKey returns a preview of a credential safe for logs: first four and
// last four characters joined by an ellipsis, or a fixed mask when the value
// is too short to preview without leaking most of it.
func MaskKey(key string) string {
	if len(key) > 8 {
		return key[:4] + "..." + key[len(key)-4:]
	}
	return "****"
}
