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

// Package config types define the configuration structures used by
// sirseer-discussions. These types can be loaded from YAML or TOML
// configuration files, environment variables, or command-line flags.
package config

// Config represents the complete configuration for sirseer-discussions.
type Config struct {
	GitHub       GitHubConfig          `yaml:"github" toml:"github"`
	Defaults     DefaultsConfig        `yaml:"defaults" toml:"defaults"`
	Log          LogConfig             `yaml:"log" toml:"log"`
	Repositories map[string]RepoConfig `yaml:"repositories" toml:"repositories"`
}

// GitHubConfig contains API endpoints and credentials. Custom endpoints
// point the client at a GitHub Enterprise Server.
type GitHubConfig struct {
	APIEndpoint     string    `yaml:"api_endpoint" toml:"api_endpoint"`
	GraphQLEndpoint string    `yaml:"graphql_endpoint" toml:"graphql_endpoint"`
	TokenEnv        string    `yaml:"token_env" toml:"token_env"`
	App             AppConfig `yaml:"app" toml:"app"`
}

// AppConfig identifies the GitHub App and the organization installation
// used for App authentication. The private key is given either inline
// (PEM text) or as a file path.
type AppConfig struct {
	ID             int64  `yaml:"id" toml:"id"`
	PrivateKey     string `yaml:"private_key" toml:"private_key"`
	PrivateKeyPath string `yaml:"private_key_path" toml:"private_key_path"`
	Organization   string `yaml:"organization" toml:"organization"`
}

// DefaultsConfig contains settings that apply to every command unless a
// repository override or a flag replaces them.
type DefaultsConfig struct {
	PageSize     int    `yaml:"page_size" toml:"page_size"`
	OutputFormat string `yaml:"output_format" toml:"output_format"`
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	Level      string `yaml:"level" toml:"level"`
	Timestamps bool   `yaml:"timestamps" toml:"timestamps"`
}

// RepoConfig contains repository-specific overrides, keyed by "owner/repo".
type RepoConfig struct {
	PageSize int `yaml:"page_size" toml:"page_size"`
}

// DefaultConfig returns a Config for public GitHub.com.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint:     "https://api.github.com",
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Defaults: DefaultsConfig{
			PageSize:     25,
			OutputFormat: "ndjson",
		},
		Log: LogConfig{
			Level: "warn",
		},
		Repositories: make(map[string]RepoConfig),
	}
}
