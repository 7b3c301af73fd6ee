// Package config provides unified configuration for the speicher policy
// service.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (SPEICHER_ prefix)
//  4. Validation
package config

import (
	"time"

	"github.com/rhuss/speicher/pkg/policy"
)

// Config holds all configuration for the policy service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Observability ObservabilityConfig `yaml:"observability"`

	// Registry overlays partial per-provider entries on top of the built-in
	// baseline table before the registry is constructed. Keys are provider
	// ids; new ids start from the "default" baseline.
	Registry map[string]policy.RawProviderConfig `yaml:"registry"`

	// Providers are per-request provider-level override layers, keyed by
	// provider id.
	Providers map[string]policy.RawProviderConfig `yaml:"providers"`

	// Agents are per-request agent-level override layers, keyed by agent id.
	// The agent layer wins over the provider layer on fields both set.
	Agents map[string]policy.RawProviderConfig `yaml:"agents"`
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // default: 8080
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default: 30s
}

// ProviderOverride returns the provider-level override layer for the
// provider, or nil when none is configured.
func (c *Config) ProviderOverride(providerID string) *policy.UserConfig {
	raw, ok := c.Providers[providerID]
	if !ok {
		return nil
	}
	return policy.FromUserProviderConfig(&raw)
}

// AgentOverride returns the agent-level override layer for the agent, or
// nil when none is configured.
func (c *Config) AgentOverride(agentID string) *policy.UserConfig {
	raw, ok := c.Agents[agentID]
	if !ok {
		return nil
	}
	return policy.FromUserProviderConfig(&raw)
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
