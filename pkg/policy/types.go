package policy

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Section names a region of the outbound request payload subject to
// ordering and breakpoint policy.
type Section string

const (
	SectionTools        Section = "tools"
	SectionInstructions Section = "instructions"
	SectionEnvironment  Section = "environment"
	SectionSystem       Section = "system"
	SectionMessages     Section = "messages"
)

// knownSections is the closed set of valid section names.
var knownSections = map[Section]bool{
	SectionTools:        true,
	SectionInstructions: true,
	SectionEnvironment:  true,
	SectionSystem:       true,
	SectionMessages:     true,
}

// requiredSections must appear in every ordering.
var requiredSections = []Section{SectionSystem, SectionMessages, SectionTools}

// CacheType classifies how a provider's prompt cache works.
type CacheType string

const (
	// CacheTypeExplicitBreakpoint means the request carries explicit markers
	// demarcating cacheable prefix boundaries (Anthropic cache_control).
	CacheTypeExplicitBreakpoint CacheType = "explicit-breakpoint"

	// CacheTypeAutomaticPrefix means the provider reuses computation for
	// requests sharing a byte-identical leading subsequence, with no markers.
	CacheTypeAutomaticPrefix CacheType = "automatic-prefix"

	// CacheTypeImplicit means the provider caches based on content hashing
	// without any request-side involvement.
	CacheTypeImplicit CacheType = "implicit"

	// CacheTypePassthrough means the provider routes to an underlying
	// provider whose caching policy should be mirrored.
	CacheTypePassthrough CacheType = "passthrough"

	// CacheTypeNone means the provider does not cache prompts.
	CacheTypeNone CacheType = "none"
)

// CacheTTL is the lifetime requested for a cached prefix.
type CacheTTL string

const (
	CacheTTL5m   CacheTTL = "5m"
	CacheTTL1h   CacheTTL = "1h"
	CacheTTLAuto CacheTTL = "auto"
)

// SystemPromptMode describes how the system prompt travels in the request.
type SystemPromptMode string

const (
	// SystemPromptRole sends the system prompt as a message with a system
	// (or developer) role.
	SystemPromptRole SystemPromptMode = "role"

	// SystemPromptParameter sends the system prompt as a dedicated top-level
	// request parameter.
	SystemPromptParameter SystemPromptMode = "parameter"

	// SystemPromptInstruction sends the system prompt as a systemInstruction
	// content object (Gemini style).
	SystemPromptInstruction SystemPromptMode = "systemInstruction"
)

// PatternRule maps a model substring pattern to a token threshold.
type PatternRule struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Tokens  int    `json:"tokens" yaml:"tokens"`
}

// PatternTable resolves a token threshold against a model identifier.
// Rules are scanned in declaration order and the first pattern that is a
// substring of the lowercased model id or family wins. Order is meaningful
// data: authors put specific patterns before generic ones.
type PatternTable struct {
	Rules   []PatternRule `json:"rules" yaml:"rules"`
	Default int           `json:"default" yaml:"default"`
}

// MinTokens is the minimum prompt size worth spending a cache entry on.
// It is either a plain token count or a model-keyed PatternTable.
type MinTokens struct {
	Tokens int
	Table  *PatternTable
}

// MarshalJSON emits a bare number for a plain threshold and the table
// object otherwise, matching the external configuration shape.
func (m MinTokens) MarshalJSON() ([]byte, error) {
	if m.Table != nil {
		return json.Marshal(m.Table)
	}
	return json.Marshal(m.Tokens)
}

// UnmarshalJSON accepts either a bare number or a table object.
func (m *MinTokens) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var table PatternTable
		if err := json.Unmarshal(data, &table); err != nil {
			return err
		}
		*m = MinTokens{Table: &table}
		return nil
	}
	var tokens int
	if err := json.Unmarshal(data, &tokens); err != nil {
		return fmt.Errorf("minTokens must be a number or a pattern table: %w", err)
	}
	*m = MinTokens{Tokens: tokens}
	return nil
}

// CacheConfig describes a provider's prompt-caching behavior.
type CacheConfig struct {
	// Enabled indicates whether prompt caching should be used at all.
	Enabled bool `json:"enabled"`

	// Type classifies the caching mechanism.
	Type CacheType `json:"type"`

	// Property is the request-payload field name used to mark a cache
	// boundary. Empty means the provider uses no marker.
	Property string `json:"property,omitempty"`

	// Hierarchy is the priority order for spending a limited breakpoint
	// budget across sections.
	Hierarchy []Section `json:"hierarchy,omitempty"`

	// TTL is the cache lifetime to request.
	TTL CacheTTL `json:"ttl"`

	// MinTokens is the minimum cacheable prompt size, possibly model-keyed.
	MinTokens MinTokens `json:"minTokens"`

	// MaxBreakpoints is the number of explicit markers the provider accepts.
	MaxBreakpoints int `json:"maxBreakpoints"`
}

// PromptOrderConfig describes how prompt sections are arranged for a
// provider to maximize cache hits.
type PromptOrderConfig struct {
	// Ordering is the section sequence for the outbound request. It always
	// contains at least system, messages, and tools.
	Ordering []Section `json:"ordering"`

	// CacheBreakpoints is the subset of Ordering that receives explicit
	// cache markers, when the provider supports them.
	CacheBreakpoints []Section `json:"cacheBreakpoints,omitempty"`

	// CombineSystemMessages merges consecutive system messages into one.
	CombineSystemMessages bool `json:"combineSystemMessages"`

	// SystemPromptMode selects how the system prompt travels.
	SystemPromptMode SystemPromptMode `json:"systemPromptMode"`

	// ToolCaching marks the tool definitions block as cacheable.
	ToolCaching bool `json:"toolCaching"`

	// RequiresAlternatingRoles enforces strict user/assistant alternation.
	RequiresAlternatingRoles bool `json:"requiresAlternatingRoles"`

	// SortTools sorts tool definitions for a stable, cache-friendly prefix.
	SortTools bool `json:"sortTools"`
}

// Config is the unit of resolution: the fully-composed caching and
// ordering behavior for one provider (and optionally one model). A resolved
// Config is a fresh value computed per call and shares backing slices with
// the Registry; treat it as read-only.
type Config struct {
	Cache       CacheConfig       `json:"cache"`
	PromptOrder PromptOrderConfig `json:"promptOrder"`
}

// Model is a catalog descriptor supplied by the upstream model registry.
// Only the identity fields are read by this package.
type Model struct {
	// ID is the catalog identifier, e.g. "claude-opus-4-20250514".
	ID string `json:"id"`

	// ProviderID identifies the provider serving this model.
	ProviderID string `json:"providerID"`

	// APIID is the provider-facing identifier sent on the wire, which for
	// routing providers embeds the underlying provider, e.g.
	// "anthropic/claude-3.5-sonnet". Empty means same as ID.
	APIID string `json:"apiID,omitempty"`

	// Family groups model generations, e.g. "claude-haiku".
	Family string `json:"family,omitempty"`
}

// apiIdentifier returns the wire-level identifier, falling back to ID.
func (m Model) apiIdentifier() string {
	if m.APIID != "" {
		return m.APIID
	}
	return m.ID
}
