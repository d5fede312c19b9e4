// Package project handles loading and providing project-specific
// configurations. A project is one CMS content API endpoint under audit.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schemascope/schemascope-go/internal/infrastructure/security"
	"github.com/schemascope/schemascope-go/pkg/config"
)

// Config represents the structure of a single project's configuration
type Config struct {
	ProjectID      string   `json:"projectId"`
	Name           string   `json:"name,omitempty"`
	Status         string   `json:"status"`
	Endpoint       string   `json:"CONTENT_API_ENDPOINT"`
	APIToken       string   `json:"CONTENT_API_TOKEN,omitempty"`
	APITokenCipher string   `json:"CONTENT_API_TOKEN_ENCRYPTED,omitempty"`
	JWTSecret      string   `json:"JWT_SECRET"`
	AESKey         string   `json:"AES_KEY"`
	AdminPassword  string   `json:"ADMIN_PASSWORD,omitempty"` // bcrypt hash
	DatabaseType   string   `json:"databaseType"`
	LibsqlDatabase string   `json:"LIBSQL_DATABASE_URL,omitempty"`
	LibsqlToken    string   `json:"LIBSQL_AUTH_TOKEN,omitempty"`
	LibsqlEnabled  bool     `json:"LIBSQL_ENABLED"`

	// Manual classification overrides for schemas where the pluralization
	// heuristic misfires. Allow forces a type to classify as a model,
	// deny forces it to classify as a component.
	ModelAllow []string `json:"modelAllow,omitempty"`
	ModelDeny  []string `json:"modelDeny,omitempty"`

	ScanDBPath string `json:"-"`
}

// ResolveAPIToken returns the plaintext content API token, decrypting the
// stored ciphertext when the plaintext form is absent.
func (c *Config) ResolveAPIToken() (string, error) {
	if c.APIToken != "" {
		return c.APIToken, nil
	}
	if c.APITokenCipher == "" {
		return "", nil
	}
	token, err := security.Decrypt(c.APITokenCipher, c.AESKey)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt content API token: %w", err)
	}
	return token, nil
}

func baseDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, config.HomeDirName), nil
}

// LoadProjectConfig loads configuration for a specific project from its env.json file.
func LoadProjectConfig(projectID string) (*Config, error) {
	base, err := baseDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(base, "config", projectID, "env.json")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("project config file not found at %s", configPath)
	}

	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not read project config file: %w", err)
	}

	var projectConfig Config
	if err := json.Unmarshal(configFile, &projectConfig); err != nil {
		return nil, fmt.Errorf("could not parse project config json: %w", err)
	}

	projectConfig.ProjectID = projectID
	projectConfig.ScanDBPath = filepath.Join(base, "db", projectID, "schemascope.db")

	return &projectConfig, nil
}

// EnsureSecrets generates JWT and AES secrets for configs that omit them
// and persists the updated env.json, so a freshly provisioned project is
// usable without hand-writing key material. Existing secrets are left
// untouched. Reports whether anything was written.
func (c *Config) EnsureSecrets() (bool, error) {
	changed := false

	if c.JWTSecret == "" {
		secret, err := security.GenerateSecureKey(64)
		if err != nil {
			return false, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		c.JWTSecret = secret
		changed = true
	}

	if c.AESKey == "" {
		key, err := security.GenerateSecureKey(64)
		if err != nil {
			return false, fmt.Errorf("failed to generate AES key: %w", err)
		}
		c.AESKey = key
		changed = true
	}

	if changed {
		if err := SaveProjectConfig(c); err != nil {
			return false, fmt.Errorf("failed to persist generated secrets: %w", err)
		}
	}
	return changed, nil
}

// SaveProjectConfig writes a project's env.json back to disk.
func SaveProjectConfig(cfg *Config) error {
	base, err := baseDir()
	if err != nil {
		return err
	}

	configDir := filepath.Join(base, "config", cfg.ProjectID)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create project config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project config: %w", err)
	}

	return os.WriteFile(filepath.Join(configDir, "env.json"), data, 0600)
}

// Registry holds the global project configuration
type Registry struct {
	Projects map[string]Info `json:"projects"`
}

// Info holds project metadata
type Info struct {
	ProjectID    string `json:"projectId"`
	Name         string `json:"name,omitempty"`
	Status       string `json:"status"`       // "unknown", "inactive", "active"
	DatabaseType string `json:"databaseType"` // "libsql", "sqlite3"
}

func registryPath() (string, error) {
	base, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config", "schemascope", "projects.json"), nil
}

// LoadRegistry loads the global project registry
func LoadRegistry() (*Registry, error) {
	path, err := registryPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Registry{
			Projects: map[string]Info{
				"default": {
					ProjectID: "default",
					Status:    "inactive",
				},
			},
		}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project registry: %w", err)
	}

	var registry Registry
	if err := json.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse project registry: %w", err)
	}

	return &registry, nil
}

// RegisterProject adds a new project to the registry
func RegisterProject(projectID string) error {
	path, err := registryPath()
	if err != nil {
		return err
	}

	registry, err := LoadRegistry()
	if err != nil {
		return err
	}

	if _, exists := registry.Projects[projectID]; exists {
		return nil
	}

	registry.Projects[projectID] = Info{
		ProjectID: projectID,
		Status:    "inactive",
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	data, err := json.MarshalIndent(registry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
