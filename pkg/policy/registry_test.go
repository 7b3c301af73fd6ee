package policy

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// testEntries returns a minimal valid registry table.
func testEntries() map[string]Config {
	def := Config{
		Cache: CacheConfig{
			Type:      CacheTypeNone,
			TTL:       CacheTTLAuto,
			MinTokens: MinTokens{Tokens: 1024},
		},
		PromptOrder: PromptOrderConfig{
			Ordering:         []Section{SectionSystem, SectionTools, SectionMessages},
			SystemPromptMode: SystemPromptRole,
		},
	}
	return map[string]Config{
		DefaultProviderID: def,
		"anthropic":       baseConfig(),
	}
}

func TestNewRegistryRequiresDefault(t *testing.T) {
	entries := testEntries()
	delete(entries, DefaultProviderID)

	if _, err := NewRegistry(entries); err == nil {
		t.Fatal("NewRegistry() without default entry succeeded, want error")
	}
}

func TestNewRegistryValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:    "missing required section",
			mutate:  func(cfg *Config) { cfg.PromptOrder.Ordering = []Section{SectionSystem, SectionMessages} },
			wantErr: `section "tools" is required`,
		},
		{
			name:    "unknown section",
			mutate:  func(cfg *Config) { cfg.PromptOrder.Ordering = append(cfg.PromptOrder.Ordering, "preamble") },
			wantErr: `unknown section "preamble"`,
		},
		{
			name: "breakpoint outside ordering",
			mutate: func(cfg *Config) {
				cfg.PromptOrder.Ordering = []Section{SectionSystem, SectionTools, SectionMessages}
				cfg.PromptOrder.CacheBreakpoints = []Section{SectionEnvironment}
			},
			wantErr: "not in the ordering",
		},
		{
			name:    "unknown cache type",
			mutate:  func(cfg *Config) { cfg.Cache.Type = "fancy" },
			wantErr: "not a known cache type",
		},
		{
			name:    "unknown ttl",
			mutate:  func(cfg *Config) { cfg.Cache.TTL = "2h" },
			wantErr: "not a known ttl",
		},
		{
			name:    "negative max breakpoints",
			mutate:  func(cfg *Config) { cfg.Cache.MaxBreakpoints = -1 },
			wantErr: "maxBreakpoints must be >= 0",
		},
		{
			name: "table without default",
			mutate: func(cfg *Config) {
				cfg.Cache.MinTokens = MinTokens{Table: &PatternTable{
					Rules: []PatternRule{{Pattern: "claude", Tokens: 1024}},
				}}
			},
			wantErr: "table default must be > 0",
		},
		{
			name: "table rule with empty pattern",
			mutate: func(cfg *Config) {
				cfg.Cache.MinTokens = MinTokens{Table: &PatternTable{
					Rules:   []PatternRule{{Pattern: "", Tokens: 1024}},
					Default: 1024,
				}}
			},
			wantErr: "empty pattern",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entries := testEntries()
			cfg := entries["anthropic"]
			tc.mutate(&cfg)
			entries["anthropic"] = cfg

			_, err := NewRegistry(entries)
			if err == nil {
				t.Fatal("NewRegistry() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("NewRegistry() error = %q, want substring %q", err, tc.wantErr)
			}
		})
	}
}

func TestRegistryLookupFallback(t *testing.T) {
	registry, err := NewRegistry(testEntries())
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}

	got := registry.Lookup("no-such-provider")
	want := registry.Lookup(DefaultProviderID)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unknown provider lookup (-default +got):\n%s", diff)
	}
}

func TestRegistryIsolatedFromCallerMap(t *testing.T) {
	entries := testEntries()
	registry, err := NewRegistry(entries)
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}

	// Mutating the caller's map after construction must not leak in.
	entries["anthropic"] = Config{}
	if got := registry.Lookup("anthropic").Cache.Type; got != CacheTypeExplicitBreakpoint {
		t.Errorf("cache.type after caller mutation = %q, want %q", got, CacheTypeExplicitBreakpoint)
	}
}

func TestRegistryProviders(t *testing.T) {
	registry, err := NewRegistry(testEntries())
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}

	want := []string{"anthropic", DefaultProviderID}
	if diff := cmp.Diff(want, registry.Providers()); diff != "" {
		t.Errorf("Providers() (-want +got):\n%s", diff)
	}
}

func TestStoreSwap(t *testing.T) {
	first, err := NewRegistry(testEntries())
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}

	entries := testEntries()
	cfg := entries["anthropic"]
	cfg.Cache.TTL = CacheTTL1h
	entries["anthropic"] = cfg
	second, err := NewRegistry(entries)
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}

	store := NewStore(first)
	if store.Load() != first {
		t.Fatal("Load() did not return the initial registry")
	}

	old := store.Swap(second)
	if old != first {
		t.Error("Swap() did not return the previous registry")
	}
	if got := store.Load().Lookup("anthropic").Cache.TTL; got != CacheTTL1h {
		t.Errorf("cache.ttl after swap = %q, want %q", got, CacheTTL1h)
	}
}
