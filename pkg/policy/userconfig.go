package policy

import (
	"errors"
	"fmt"
	"slices"
)

// RawProviderConfig is the externally-loaded override shape as written in
// user configuration files. Every field is optional; an absent field means
// "no override", which is distinct from an explicit zero value, so all
// scalars are pointers.
type RawProviderConfig struct {
	Cache       *RawCacheConfig       `yaml:"cache" json:"cache,omitempty"`
	PromptOrder *RawPromptOrderConfig `yaml:"prompt_order" json:"promptOrder,omitempty"`
}

// RawCacheConfig carries the user-overridable cache fields.
type RawCacheConfig struct {
	Enabled        *bool     `yaml:"enabled" json:"enabled,omitempty"`
	TTL            *CacheTTL `yaml:"ttl" json:"ttl,omitempty"`
	MinTokens      *int      `yaml:"min_tokens" json:"minTokens,omitempty"`
	MaxBreakpoints *int      `yaml:"max_breakpoints" json:"maxBreakpoints,omitempty"`
}

// RawPromptOrderConfig carries the user-overridable ordering fields.
type RawPromptOrderConfig struct {
	Ordering         []Section `yaml:"ordering" json:"ordering,omitempty"`
	CacheBreakpoints []Section `yaml:"cache_breakpoints" json:"cacheBreakpoints,omitempty"`
}

// Validate checks the fields that are verifiable on the raw shape alone.
// Resolution itself never fails; this exists for loaders that want hard
// failures on malformed files before the values reach the engine.
func (r *RawProviderConfig) Validate() error {
	if r == nil {
		return nil
	}

	var errs []error

	if c := r.Cache; c != nil {
		if c.TTL != nil {
			switch *c.TTL {
			case CacheTTL5m, CacheTTL1h, CacheTTLAuto:
			default:
				errs = append(errs, fmt.Errorf("cache.ttl %q is not a known ttl", *c.TTL))
			}
		}
		if c.MinTokens != nil && *c.MinTokens <= 0 {
			errs = append(errs, fmt.Errorf("cache.min_tokens must be > 0, got %d", *c.MinTokens))
		}
		if c.MaxBreakpoints != nil && *c.MaxBreakpoints < 0 {
			errs = append(errs, fmt.Errorf("cache.max_breakpoints must be >= 0, got %d", *c.MaxBreakpoints))
		}
	}

	if p := r.PromptOrder; p != nil {
		if p.Ordering != nil {
			if err := ValidateOrdering(p.Ordering); err != nil {
				errs = append(errs, fmt.Errorf("prompt_order.ordering: %w", err))
			}
		}
		for _, s := range p.CacheBreakpoints {
			if !knownSections[s] {
				errs = append(errs, fmt.Errorf("prompt_order.cache_breakpoints contains unknown section %q", s))
			}
		}
		// When the override replaces both fields, the breakpoints must point
		// at sections of its own ordering, or the merged config would carry a
		// breakpoint no ordering position can satisfy.
		if p.Ordering != nil && p.CacheBreakpoints != nil {
			for _, s := range p.CacheBreakpoints {
				if knownSections[s] && !slices.Contains(p.Ordering, s) {
					errs = append(errs, fmt.Errorf("prompt_order.cache_breakpoints section %q is not in prompt_order.ordering", s))
				}
			}
		}
	}

	return errors.Join(errs...)
}

// FromUserProviderConfig adapts the external raw shape into an override
// layer. A nil raw, or one setting neither cache nor prompt_order, means no
// override and returns nil. Only fields explicitly present in raw are
// copied; absent fields stay absent rather than being defaulted.
func FromUserProviderConfig(raw *RawProviderConfig) *UserConfig {
	if raw == nil || (raw.Cache == nil && raw.PromptOrder == nil) {
		return nil
	}

	out := &UserConfig{}

	if c := raw.Cache; c != nil {
		cache := &UserCacheConfig{
			Enabled:        c.Enabled,
			TTL:            c.TTL,
			MaxBreakpoints: c.MaxBreakpoints,
		}
		if c.MinTokens != nil {
			cache.MinTokens = &MinTokens{Tokens: *c.MinTokens}
		}
		out.Cache = cache
	}

	if p := raw.PromptOrder; p != nil {
		out.PromptOrder = &UserPromptOrderConfig{
			Ordering:         slices.Clone(p.Ordering),
			CacheBreakpoints: slices.Clone(p.CacheBreakpoints),
		}
	}

	return out
}
