// Package baseline ships the built-in per-provider policy table. The table
// is constructed once at process start; callers treat it as immutable and
// layer their own overrides on top via policy.Merge.
package baseline

import "github.com/rhuss/speicher/pkg/policy"

// Entries returns a fresh copy of the built-in provider table, keyed by
// provider id. The "default" entry answers for unknown providers.
func Entries() map[string]policy.Config {
	return map[string]policy.Config{
		"anthropic": {
			Cache: policy.CacheConfig{
				Enabled:  true,
				Type:     policy.CacheTypeExplicitBreakpoint,
				Property: "cache_control",
				Hierarchy: []policy.Section{
					policy.SectionTools, policy.SectionSystem, policy.SectionMessages,
				},
				TTL: policy.CacheTTL5m,
				MinTokens: policy.MinTokens{Table: &policy.PatternTable{
					// Specific patterns first: first match wins.
					Rules: []policy.PatternRule{
						{Pattern: "claude-opus-4", Tokens: 4096},
						{Pattern: "haiku", Tokens: 2048},
					},
					Default: 1024,
				}},
				MaxBreakpoints: 4,
			},
			PromptOrder: policy.PromptOrderConfig{
				Ordering: []policy.Section{
					policy.SectionTools, policy.SectionSystem, policy.SectionInstructions,
					policy.SectionEnvironment, policy.SectionMessages,
				},
				CacheBreakpoints: []policy.Section{
					policy.SectionTools, policy.SectionSystem, policy.SectionMessages,
				},
				CombineSystemMessages:    true,
				SystemPromptMode:         policy.SystemPromptParameter,
				ToolCaching:              true,
				RequiresAlternatingRoles: true,
			},
		},

		"openai": {
			Cache: policy.CacheConfig{
				Enabled:   true,
				Type:      policy.CacheTypeAutomaticPrefix,
				TTL:       policy.CacheTTLAuto,
				MinTokens: policy.MinTokens{Tokens: 1024},
			},
			PromptOrder: policy.PromptOrderConfig{
				Ordering: []policy.Section{
					policy.SectionSystem, policy.SectionInstructions,
					policy.SectionEnvironment, policy.SectionTools, policy.SectionMessages,
				},
				CombineSystemMessages: true,
				SystemPromptMode:      policy.SystemPromptRole,
				SortTools:             true,
			},
		},

		"google": {
			Cache: policy.CacheConfig{
				Enabled: true,
				Type:    policy.CacheTypeImplicit,
				TTL:     policy.CacheTTLAuto,
				MinTokens: policy.MinTokens{Table: &policy.PatternTable{
					Rules: []policy.PatternRule{
						{Pattern: "gemini-2.5-pro", Tokens: 4096},
					},
					Default: 1024,
				}},
			},
			PromptOrder: policy.PromptOrderConfig{
				Ordering: []policy.Section{
					policy.SectionSystem, policy.SectionInstructions,
					policy.SectionEnvironment, policy.SectionTools, policy.SectionMessages,
				},
				CombineSystemMessages: true,
				SystemPromptMode:      policy.SystemPromptInstruction,
				SortTools:             true,
			},
		},

		"google-vertex": {
			Cache: policy.CacheConfig{
				Enabled: true,
				Type:    policy.CacheTypeImplicit,
				TTL:     policy.CacheTTLAuto,
				MinTokens: policy.MinTokens{Table: &policy.PatternTable{
					Rules: []policy.PatternRule{
						{Pattern: "gemini-2.5-pro", Tokens: 4096},
						{Pattern: "claude", Tokens: 1024},
					},
					Default: 2048,
				}},
			},
			PromptOrder: policy.PromptOrderConfig{
				Ordering: []policy.Section{
					policy.SectionSystem, policy.SectionInstructions,
					policy.SectionEnvironment, policy.SectionTools, policy.SectionMessages,
				},
				CombineSystemMessages: true,
				SystemPromptMode:      policy.SystemPromptInstruction,
				SortTools:             true,
			},
		},

		"amazon-bedrock": {
			Cache: policy.CacheConfig{
				Enabled:  true,
				Type:     policy.CacheTypeExplicitBreakpoint,
				Property: "cachePoint",
				Hierarchy: []policy.Section{
					policy.SectionTools, policy.SectionSystem, policy.SectionMessages,
				},
				TTL: policy.CacheTTL5m,
				MinTokens: policy.MinTokens{Table: &policy.PatternTable{
					Rules: []policy.PatternRule{
						{Pattern: "claude", Tokens: 1024},
						{Pattern: "nova", Tokens: 32768},
					},
					Default: 1024,
				}},
				MaxBreakpoints: 4,
			},
			PromptOrder: policy.PromptOrderConfig{
				Ordering: []policy.Section{
					policy.SectionTools, policy.SectionSystem, policy.SectionInstructions,
					policy.SectionEnvironment, policy.SectionMessages,
				},
				CacheBreakpoints: []policy.Section{
					policy.SectionTools, policy.SectionSystem, policy.SectionMessages,
				},
				CombineSystemMessages:    true,
				SystemPromptMode:         policy.SystemPromptParameter,
				ToolCaching:              true,
				RequiresAlternatingRoles: true,
			},
		},

		// openrouter routes to a dynamically-detected underlying provider;
		// markers are forwarded, so it carries the explicit-marker shape.
		"openrouter": {
			Cache: policy.CacheConfig{
				Enabled:  true,
				Type:     policy.CacheTypePassthrough,
				Property: "cache_control",
				Hierarchy: []policy.Section{
					policy.SectionTools, policy.SectionSystem, policy.SectionMessages,
				},
				TTL:            policy.CacheTTL5m,
				MinTokens:      policy.MinTokens{Tokens: 1024},
				MaxBreakpoints: 4,
			},
			PromptOrder: policy.PromptOrderConfig{
				Ordering: []policy.Section{
					policy.SectionTools, policy.SectionSystem, policy.SectionInstructions,
					policy.SectionEnvironment, policy.SectionMessages,
				},
				CacheBreakpoints: []policy.Section{
					policy.SectionTools, policy.SectionSystem, policy.SectionMessages,
				},
				CombineSystemMessages: true,
				SystemPromptMode:      policy.SystemPromptRole,
				ToolCaching:           true,
			},
		},

		"deepseek": {
			Cache: policy.CacheConfig{
				Enabled:   true,
				Type:      policy.CacheTypeAutomaticPrefix,
				TTL:       policy.CacheTTLAuto,
				MinTokens: policy.MinTokens{Tokens: 64},
			},
			PromptOrder: policy.PromptOrderConfig{
				Ordering: []policy.Section{
					policy.SectionSystem, policy.SectionInstructions,
					policy.SectionEnvironment, policy.SectionTools, policy.SectionMessages,
				},
				CombineSystemMessages: true,
				SystemPromptMode:      policy.SystemPromptRole,
				SortTools:             true,
			},
		},

		"xai": {
			Cache: policy.CacheConfig{
				Enabled:   true,
				Type:      policy.CacheTypeAutomaticPrefix,
				TTL:       policy.CacheTTLAuto,
				MinTokens: policy.MinTokens{Tokens: 1024},
			},
			PromptOrder: policy.PromptOrderConfig{
				Ordering: []policy.Section{
					policy.SectionSystem, policy.SectionInstructions,
					policy.SectionEnvironment, policy.SectionTools, policy.SectionMessages,
				},
				CombineSystemMessages: true,
				SystemPromptMode:      policy.SystemPromptRole,
				SortTools:             true,
			},
		},

		"mistral": {
			Cache: policy.CacheConfig{
				Type:      policy.CacheTypeNone,
				TTL:       policy.CacheTTLAuto,
				MinTokens: policy.MinTokens{Tokens: 1024},
			},
			PromptOrder: policy.PromptOrderConfig{
				Ordering: []policy.Section{
					policy.SectionSystem, policy.SectionInstructions,
					policy.SectionEnvironment, policy.SectionTools, policy.SectionMessages,
				},
				CombineSystemMessages:    true,
				SystemPromptMode:         policy.SystemPromptRole,
				RequiresAlternatingRoles: true,
			},
		},

		"groq": {
			Cache: policy.CacheConfig{
				Type:      policy.CacheTypeNone,
				TTL:       policy.CacheTTLAuto,
				MinTokens: policy.MinTokens{Tokens: 1024},
			},
			PromptOrder: policy.PromptOrderConfig{
				Ordering: []policy.Section{
					policy.SectionSystem, policy.SectionInstructions,
					policy.SectionEnvironment, policy.SectionTools, policy.SectionMessages,
				},
				CombineSystemMessages: true,
				SystemPromptMode:      policy.SystemPromptRole,
			},
		},

		policy.DefaultProviderID: {
			Cache: policy.CacheConfig{
				Type:      policy.CacheTypeNone,
				TTL:       policy.CacheTTLAuto,
				MinTokens: policy.MinTokens{Tokens: 1024},
			},
			PromptOrder: policy.PromptOrderConfig{
				Ordering: []policy.Section{
					policy.SectionSystem, policy.SectionInstructions,
					policy.SectionEnvironment, policy.SectionTools, policy.SectionMessages,
				},
				CombineSystemMessages: true,
				SystemPromptMode:      policy.SystemPromptRole,
			},
		},
	}
}

// New returns the built-in table as a validated Registry. The table is
// static; a validation failure is a programming error, so New panics
// instead of returning one. The entries are covered by tests.
func New() *policy.Registry {
	registry, err := policy.NewRegistry(Entries())
	if err != nil {
		panic("baseline: built-in table invalid: " + err.Error())
	}
	return registry
}
