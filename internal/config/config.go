// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for sirseer-discussions.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Repository-specific configuration
//  4. Configuration file (YAML or TOML)
//  5. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// maxPageSize is the largest page GitHub's GraphQL connections accept.
const maxPageSize = 100

// LoadConfig loads configuration from a file and the environment. If
// configPath is empty, it searches standard locations:
//   - .sirseer-discussions.yaml, .yml or .toml (current directory)
//   - ~/.sirseer/discussions.yaml
//   - ~/.sirseer/discussions.toml
//
// A missing file in a standard location is not an error.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		home := homeDir()
		defaultPaths := []string{
			".sirseer-discussions.yaml",
			".sirseer-discussions.yml",
			".sirseer-discussions.toml",
			filepath.Join(home, ".sirseer", "discussions.yaml"),
			filepath.Join(home, ".sirseer", "discussions.toml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.GitHub.App.PrivateKeyPath = expandPath(cfg.GitHub.App.PrivateKeyPath)

	return cfg, nil
}

// LoadConfigForRepo loads configuration and applies the overrides for repo,
// given as "owner/repo".
func LoadConfigForRepo(configPath, repo string) (*Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if repoConfig, ok := cfg.Repositories[repo]; ok {
		if repoConfig.PageSize > 0 {
			cfg.Defaults.PageSize = repoConfig.PageSize
		}
	}

	return cfg, nil
}

// loadConfigFile parses a config file, choosing TOML or YAML by extension.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		return nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) error {
	// GitHub endpoints
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}

	// App credentials
	if id := os.Getenv("GITHUB_APP_ID"); id != "" {
		appID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid GITHUB_APP_ID %q: %w", id, err)
		}
		cfg.GitHub.App.ID = appID
	}
	if key := os.Getenv("GITHUB_APP_PRIVATE_KEY"); key != "" {
		cfg.GitHub.App.PrivateKey = key
	}
	if path := os.Getenv("GITHUB_APP_PRIVATE_KEY_PATH"); path != "" {
		cfg.GitHub.App.PrivateKeyPath = path
	}
	if org := os.Getenv("GITHUB_ORGANIZATION"); org != "" {
		cfg.GitHub.App.Organization = org
	}

	// Defaults
	if pageSize := os.Getenv("SIRSEER_PAGE_SIZE"); pageSize != "" {
		if size, err := parsePositiveInt(pageSize); err == nil {
			cfg.Defaults.PageSize = size
		}
	}

	// Logging
	if level := os.Getenv("SIRSEER_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if ts := os.Getenv("SIRSEER_LOG_TIMESTAMPS"); ts != "" {
		cfg.Log.Timestamps = parseBool(ts)
	}
	return nil
}

func homeDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE") // Windows
	}
	return home
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir(), path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

// GetPageSize returns the effective page size for a repository.
func (c *Config) GetPageSize(repo string) int {
	if repoConfig, ok := c.Repositories[repo]; ok && repoConfig.PageSize > 0 {
		return repoConfig.PageSize
	}
	return c.Defaults.PageSize
}

// Token returns the personal access token named by GitHub.TokenEnv, if set.
func (c *Config) Token() string {
	if c.GitHub.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.GitHub.TokenEnv)
}

// HasAppCredentials reports whether enough is configured to attempt App
// authentication.
func (c *Config) HasAppCredentials() bool {
	app := c.GitHub.App
	return app.ID > 0 && app.Organization != "" && (app.PrivateKey != "" || app.PrivateKeyPath != "")
}

// PrivateKeyPEM returns the App private key, reading PrivateKeyPath when
// no inline key is set. Inline keys with literal "\n" sequences, as
// produced by single-line environment variables, are unescaped.
func (c *Config) PrivateKeyPEM() ([]byte, error) {
	app := c.GitHub.App
	if app.PrivateKey != "" {
		key := app.PrivateKey
		if !strings.Contains(key, "\n") {
			key = strings.ReplaceAll(key, `\n`, "\n")
		}
		return []byte(key), nil
	}
	if app.PrivateKeyPath == "" {
		return nil, errors.New("no GitHub App private key configured")
	}
	data, err := os.ReadFile(app.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	return data, nil
}

// Validate checks that the configuration holds usable values. It does not
// require credentials; see RequireCredentials.
func (c *Config) Validate() error {
	if c.Defaults.PageSize <= 0 {
		return fmt.Errorf("default page size must be positive, got: %d", c.Defaults.PageSize)
	}
	if c.Defaults.PageSize > maxPageSize {
		return fmt.Errorf("default page size %d exceeds GitHub API limit of %d", c.Defaults.PageSize, maxPageSize)
	}
	if c.GitHub.APIEndpoint == "" {
		return fmt.Errorf("GitHub API endpoint cannot be empty")
	}
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("GitHub GraphQL endpoint cannot be empty")
	}
	switch c.Defaults.OutputFormat {
	case "ndjson", "table":
	default:
		return fmt.Errorf("unknown output format %q, want ndjson or table", c.Defaults.OutputFormat)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	if c.GitHub.App.PrivateKey != "" && c.GitHub.App.PrivateKeyPath != "" {
		return fmt.Errorf("set either a GitHub App private key or a private key path, not both")
	}
	return nil
}

// RequireCredentials returns an error unless token is non-empty or App
// credentials are fully configured.
func (c *Config) RequireCredentials(token string) error {
	if token != "" || c.HasAppCredentials() {
		return nil
	}
	app := c.GitHub.App
	var missing []string
	if app.ID <= 0 {
		missing = append(missing, "app id (GITHUB_APP_ID)")
	}
	if app.PrivateKey == "" && app.PrivateKeyPath == "" {
		missing = append(missing, "private key (GITHUB_APP_PRIVATE_KEY or GITHUB_APP_PRIVATE_KEY_PATH)")
	}
	if app.Organization == "" {
		missing = append(missing, "organization (GITHUB_ORGANIZATION)")
	}
	return fmt.Errorf("no credentials: set %s or configure a GitHub App; missing %s",
		c.GitHub.TokenEnv, strings.Join(missing, ", "))
}
