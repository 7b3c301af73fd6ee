package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// server.port must be positive.
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	// observability.metrics.path must be an absolute URL path when enabled.
	if c.Observability.Metrics.Enabled && !strings.HasPrefix(c.Observability.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("observability.metrics.path must start with \"/\", got %q", c.Observability.Metrics.Path))
	}

	// Every override shape must be well-formed before it reaches the engine.
	for id, raw := range c.Registry {
		if err := raw.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("registry.%s: %w", id, err))
		}
	}
	for id, raw := range c.Providers {
		if err := raw.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("providers.%s: %w", id, err))
		}
	}
	for id, raw := range c.Agents {
		if err := raw.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("agents.%s: %w", id, err))
		}
	}

	return errors.Join(errs...)
}
