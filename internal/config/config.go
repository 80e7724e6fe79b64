// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"strings"

	"github.com/IBM/generator-ibm-cloud-assets/internal/language"
	"github.com/IBM/generator-ibm-cloud-assets/internal/pattern"
)

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps.
	Timestamps *bool `json:"timestamps,omitempty" mapstructure:"timestamps"`
}

// Defaults are used when a command is run without the matching flag.
type Defaults struct {
	// Target is the deployment target. Env: CLOUD_ASSETS_TARGET
	Target string `json:"target,omitempty" mapstructure:"target"`
	// Language is the application language. Env: CLOUD_ASSETS_LANGUAGE
	Language string `json:"language,omitempty" mapstructure:"language"`
}

// CloudFoundryConfig contains Cloud Foundry specific settings.
type CloudFoundryConfig struct {
	// Labels maps service ids to their Cloud Foundry service label.
	Labels map[string]string `json:"labels,omitempty" mapstructure:"labels"`
}

// Config is the cloud-assets CLI configuration, loaded from
// ~/.cloud-assets/config.yaml.
type Config struct {
	Log      LogConfig `json:"log" mapstructure:"log"`
	Defaults Defaults  `json:"defaults" mapstructure:"defaults"`

	// Paths overrides the mappings/local-dev file locations per language.
	Paths map[string]language.Paths `json:"paths,omitempty" mapstructure:"paths"`

	CloudFoundry CloudFoundryConfig `json:"cloudFoundry" mapstructure:"cloudFoundry"`

	// Dependencies holds raw dependency descriptors per language and service id.
	Dependencies map[string]map[string]string `json:"dependencies,omitempty" mapstructure:"dependencies"`
}

// DefaultConfig returns a Config with default values populated.
func DefaultConfig() *Config {
	return &Config{
		Defaults: Defaults{Language: string(language.Node)},
	}
}

// PathTable builds the language path table with the configured overrides.
// Keys are matched case-insensitively.
func (c *Config) PathTable() (language.PathTable, error) {
	table := language.PathTable{Overrides: make(map[language.Language]language.Paths)}
	for name, p := range c.Paths {
		l, err := language.Parse(name)
		if err != nil {
			return language.PathTable{}, fmt.Errorf("paths.%s: %w", name, err)
		}
		table.Overrides[l] = p
	}
	return table, nil
}

// Labels returns the configured Cloud Foundry labels.
func (c *Config) Labels() pattern.StaticLabels {
	return pattern.StaticLabels(c.CloudFoundry.Labels)
}

// DependencyDescriptors returns the descriptors configured for l.
func (c *Config) DependencyDescriptors(l language.Language) map[string]string {
	for name, deps := range c.Dependencies {
		if strings.EqualFold(name, string(l)) {
			return deps
		}
	}
	return nil
}

// DefaultConfigTemplate is written by "config init".
const DefaultConfigTemplate = `# cloud-assets configuration
#
# Values here are used when the matching flag is not given.
# Environment variables (CLOUD_ASSETS_*) take precedence over this file.

log:
  timestamps: true

defaults:
  # none | cloud_foundry | kubernetes-helm | kubernetes-knative
  target: none
  language: NODE

# Override where mappings and local-dev config files are written.
# paths:
#   NODE:
#     mappings: server/config/mappings.json
#     localDev: server/localdev-config.json

# Cloud Foundry service labels by service id.
# cloudFoundry:
#   labels:
#     cloudant: cloudantNoSQLDB

# Dependency descriptors appended to the language dependency file.
# dependencies:
#   PYTHON:
#     cloudant: cloudant==2.4.0
`
