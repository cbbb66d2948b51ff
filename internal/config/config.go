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

// Package config provides configuration management for opstool with support
// for multiple configuration sources and a well-defined precedence order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// The package supports YAML configuration files and provides automatic
// discovery of configuration in standard locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from that
// specific file. Otherwise, it searches standard locations:
//   - .opstool.yaml (current directory)
//   - .opstool.yml (current directory)
//   - ~/.opstool/config.yaml
//   - ~/.opstool/config.yml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Try to load config file if path is provided
	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		// Try default locations
		defaultPaths := []string{
			".opstool.yaml",
			".opstool.yml",
			filepath.Join(os.Getenv("HOME"), ".opstool", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".opstool", "config.yml"),
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

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("MACKEREL_API_ENDPOINT"); endpoint != "" {
		cfg.Mackerel.APIEndpoint = endpoint
	}
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}
	if pageSize := os.Getenv("OPSTOOL_PAGE_SIZE"); pageSize != "" {
		if size, err := parsePositiveInt(pageSize); err == nil {
			cfg.Paging.PageSize = size
		}
	}
	if maxPages := os.Getenv("OPSTOOL_MAX_PAGES"); maxPages != "" {
		if pages, err := parsePositiveInt(maxPages); err == nil {
			cfg.Paging.MaxPages = pages
		}
	}
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

// Validate checks if the configuration contains valid values. It ensures page
// sizes are within the Mackerel API limit, endpoints are not empty, and other
// constraints are met. This should be called after loading configuration to
// catch invalid settings early.
func (c *Config) Validate() error {
	if c.Paging.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got: %d", c.Paging.PageSize)
	}
	if c.Paging.PageSize > 100 {
		return fmt.Errorf("page size %d exceeds Mackerel API limit of 100", c.Paging.PageSize)
	}
	if c.Paging.DelaySeconds < 0 {
		return fmt.Errorf("page delay must not be negative, got: %d", c.Paging.DelaySeconds)
	}
	if c.Paging.MaxPages <= 0 {
		return fmt.Errorf("max pages must be positive, got: %d", c.Paging.MaxPages)
	}
	if c.Report.FractionDigits < 0 || c.Report.FractionDigits > 6 {
		return fmt.Errorf("fraction digits must be between 0 and 6, got: %d", c.Report.FractionDigits)
	}
	if c.Mackerel.APIEndpoint == "" {
		return fmt.Errorf("Mackerel API endpoint cannot be empty")
	}
	if c.GitHub.APIEndpoint == "" {
		return fmt.Errorf("GitHub API endpoint cannot be empty")
	}
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("GitHub GraphQL endpoint cannot be empty")
	}
	return nil
}
