package policy

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync/atomic"
)

// DefaultProviderID is the reserved registry key used as the fallback for
// unknown providers.
const DefaultProviderID = "default"

// Registry is an immutable mapping from provider id to baseline Config.
// Entries are validated at construction and never mutated afterwards, which
// is what makes every lookup safe for concurrent use.
type Registry struct {
	entries map[string]Config
}

// NewRegistry validates every entry and returns an immutable Registry.
// A "default" entry is required; it is the answer for unknown providers.
func NewRegistry(entries map[string]Config) (*Registry, error) {
	if _, ok := entries[DefaultProviderID]; !ok {
		return nil, fmt.Errorf("registry: %q entry is required", DefaultProviderID)
	}

	var errs []error
	for _, id := range slices.Sorted(maps.Keys(entries)) {
		if err := validateConfig(entries[id]); err != nil {
			errs = append(errs, fmt.Errorf("registry entry %q: %w", id, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &Registry{entries: maps.Clone(entries)}, nil
}

// Lookup returns the baseline for the provider, falling back to the
// "default" entry when the id is unknown.
func (r *Registry) Lookup(providerID string) Config {
	if cfg, ok := r.entries[providerID]; ok {
		return cfg
	}
	return r.entries[DefaultProviderID]
}

// Providers returns the registered provider ids in sorted order.
func (r *Registry) Providers() []string {
	return slices.Sorted(maps.Keys(r.entries))
}

// validateConfig checks the invariants every registry entry must hold.
func validateConfig(cfg Config) error {
	var errs []error

	switch cfg.Cache.Type {
	case CacheTypeExplicitBreakpoint, CacheTypeAutomaticPrefix, CacheTypeImplicit, CacheTypePassthrough, CacheTypeNone:
	default:
		errs = append(errs, fmt.Errorf("cache.type %q is not a known cache type", cfg.Cache.Type))
	}

	switch cfg.Cache.TTL {
	case CacheTTL5m, CacheTTL1h, CacheTTLAuto:
	default:
		errs = append(errs, fmt.Errorf("cache.ttl %q is not a known ttl", cfg.Cache.TTL))
	}

	if cfg.Cache.MaxBreakpoints < 0 {
		errs = append(errs, fmt.Errorf("cache.maxBreakpoints must be >= 0, got %d", cfg.Cache.MaxBreakpoints))
	}

	if t := cfg.Cache.MinTokens.Table; t != nil {
		if t.Default <= 0 {
			errs = append(errs, fmt.Errorf("cache.minTokens table default must be > 0, got %d", t.Default))
		}
		for i, rule := range t.Rules {
			if rule.Pattern == "" {
				errs = append(errs, fmt.Errorf("cache.minTokens rule %d has an empty pattern", i))
			}
			if rule.Tokens <= 0 {
				errs = append(errs, fmt.Errorf("cache.minTokens rule %d threshold must be > 0, got %d", i, rule.Tokens))
			}
		}
	}

	for _, s := range cfg.Cache.Hierarchy {
		if !knownSections[s] {
			errs = append(errs, fmt.Errorf("cache.hierarchy contains unknown section %q", s))
		}
	}

	if err := ValidateOrdering(cfg.PromptOrder.Ordering); err != nil {
		errs = append(errs, fmt.Errorf("promptOrder.ordering: %w", err))
	}

	for _, s := range cfg.PromptOrder.CacheBreakpoints {
		if !slices.Contains(cfg.PromptOrder.Ordering, s) {
			errs = append(errs, fmt.Errorf("promptOrder.cacheBreakpoints contains %q which is not in the ordering", s))
		}
	}

	return errors.Join(errs...)
}

// ValidateOrdering checks that a section sequence names only known sections,
// contains no duplicates, and includes system, messages, and tools.
func ValidateOrdering(ordering []Section) error {
	var errs []error

	seen := make(map[Section]bool, len(ordering))
	for _, s := range ordering {
		if !knownSections[s] {
			errs = append(errs, fmt.Errorf("unknown section %q", s))
		}
		if seen[s] {
			errs = append(errs, fmt.Errorf("duplicate section %q", s))
		}
		seen[s] = true
	}

	for _, required := range requiredSections {
		if !seen[required] {
			errs = append(errs, fmt.Errorf("section %q is required", required))
		}
	}

	return errors.Join(errs...)
}

// Store holds the active Registry behind an atomic pointer so a reload can
// swap the whole table at once. Concurrent readers always observe either
// the old table or the new one, never a partially-updated entry.
type Store struct {
	registry atomic.Pointer[Registry]
}

// NewStore returns a Store serving the given registry.
func NewStore(registry *Registry) *Store {
	s := &Store{}
	s.registry.Store(registry)
	return s
}

// Load returns the current registry.
func (s *Store) Load() *Registry {
	return s.registry.Load()
}

// Swap installs a new registry and returns the previous one.
func (s *Store) Swap(registry *Registry) *Registry {
	return s.registry.Swap(registry)
}
