// Copyright 2025 cohalz
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

// Package config types define the configuration structures used throughout
// opstool. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

// Config represents the complete configuration for opstool. It consolidates
// settings from various sources and provides a unified interface for
// accessing configuration values throughout the application.
type Config struct {
	Mackerel MackerelConfig `yaml:"mackerel"`
	GitHub   GitHubConfig   `yaml:"github"`
	Paging   PagingConfig   `yaml:"paging"`
	Report   ReportConfig   `yaml:"report"`
	Retry    RetryConfig    `yaml:"retry"`
}

// MackerelConfig contains Mackerel-specific settings. The endpoint is
// configurable so tests (and self-hosted proxies) can point the client at a
// different host.
type MackerelConfig struct {
	APIEndpoint string `yaml:"api_endpoint"`
	APIKeyEnv   string `yaml:"apikey_env"`
}

// GitHubConfig contains GitHub-specific settings including API endpoints and
// the name of the token environment variable. Custom endpoints support GitHub
// Enterprise deployments.
type GitHubConfig struct {
	APIEndpoint     string `yaml:"api_endpoint"`
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
}

// PagingConfig controls paginated fetches: how many records to request per
// page, how long to pause between page requests (rate-limit courtesy), and a
// hard cap on page count so a fetch whose lower time bound is never reached
// fails instead of looping forever.
type PagingConfig struct {
	PageSize     int `yaml:"page_size"`
	DelaySeconds int `yaml:"delay_seconds"`
	MaxPages     int `yaml:"max_pages"`
}

// ReportConfig controls report rendering. FractionDigits is the number of
// fraction digits used when rounding MTTR values.
type ReportConfig struct {
	FractionDigits int `yaml:"fraction_digits"`
}

// RetryConfig controls the optional retry wrapper around the Mackerel client.
// The original tooling performs no retries, so the wrapper is disabled unless
// explicitly turned on.
type RetryConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxRetries int  `yaml:"max_retries"`
}

// DefaultConfig returns a Config with sensible defaults suitable for most use
// cases: the public Mackerel and GitHub endpoints, 100-record pages with a
// one-second pause between them, and two fraction digits for MTTR.
func DefaultConfig() *Config {
	return &Config{
		Mackerel: MackerelConfig{
			APIEndpoint: "https://api.mackerelio.com",
			APIKeyEnv:   "MACKEREL_APIKEY",
		},
		GitHub: GitHubConfig{
			APIEndpoint:     "https://api.github.com",
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Paging: PagingConfig{
			PageSize:     100,
			DelaySeconds: 1,
			MaxPages:     1000,
		},
		Report: ReportConfig{
			FractionDigits: 2,
		},
		Retry: RetryConfig{
			Enabled:    false,
			MaxRetries: 3,
		},
	}
}
