package policy

// Resolver composes registry baselines, user override layers, and model
// descriptors into fully-resolved configurations. It only reads the
// immutable registry and constructs fresh values, so a single Resolver can
// be shared by any number of goroutines.
type Resolver struct {
	registry *Registry
}

// NewResolver returns a Resolver over the given registry.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// GetConfig resolves the effective configuration for a provider.
//
// The registry baseline (falling back to "default" for unknown providers)
// is merged with the provider-level override, then with the agent-level
// override when both agentID and agentOverride are supplied; the agent
// layer always wins on fields both layers set. Finally, when a model is
// known, a model-keyed minTokens table is collapsed to its scalar; without
// a model the table is returned unresolved.
func (r *Resolver) GetConfig(providerID string, model *Model, agentID string, providerOverride, agentOverride *UserConfig) Config {
	cfg := r.registry.Lookup(providerID)
	cfg = Merge(cfg, providerOverride)
	if agentID != "" && agentOverride != nil {
		cfg = Merge(cfg, agentOverride)
	}

	if cfg.Cache.MinTokens.Table != nil && model != nil {
		cfg.Cache.MinTokens = MinTokens{Tokens: cfg.Cache.MinTokens.Resolve(model)}
	}

	return cfg
}

// SupportsExplicitCaching reports whether the provider accepts explicit
// cache markers, either directly or through a passthrough route.
func (r *Resolver) SupportsExplicitCaching(providerID string) bool {
	switch r.registry.Lookup(providerID).Cache.Type {
	case CacheTypeExplicitBreakpoint, CacheTypePassthrough:
		return true
	default:
		return false
	}
}

// CacheProperty returns the request-payload field name used to mark a
// cache boundary, or empty when the provider uses no marker. The marker
// name is a structural fact about the provider, so user overrides are not
// consulted.
func (r *Resolver) CacheProperty(providerID string) string {
	return r.registry.Lookup(providerID).Cache.Property
}

// IsCachingEnabled reports whether prompt caching applies for the provider
// after the given override layer.
func (r *Resolver) IsCachingEnabled(providerID string, model *Model, userConfig *UserConfig) bool {
	return r.GetConfig(providerID, model, "", userConfig, nil).Cache.Enabled
}

// BuildCacheControl returns the key/value marker object to attach at a
// cache boundary, or an empty object when the provider uses no marker.
//
// Both supported TTLs currently emit the identical ephemeral marker; the
// ttl parameter is accepted for when providers honor per-breakpoint
// lifetimes.
func (r *Resolver) BuildCacheControl(providerID string, ttl CacheTTL) map[string]any {
	cache := r.registry.Lookup(providerID).Cache
	if cache.Property == "" {
		return map[string]any{}
	}

	switch cache.Type {
	case CacheTypeExplicitBreakpoint, CacheTypePassthrough:
		return map[string]any{"type": "ephemeral"}
	default:
		return map[string]any{}
	}
}

// PromptOrdering resolves the section ordering for the model's provider.
// When agentID is empty the supplied userConfig acts as the provider-level
// override layer; when agentID is set the same userConfig acts as the
// agent-level layer instead.
func (r *Resolver) PromptOrdering(model Model, agentID string, userConfig *UserConfig) []Section {
	var providerOverride, agentOverride *UserConfig
	if agentID == "" {
		providerOverride = userConfig
	} else {
		agentOverride = userConfig
	}

	cfg := r.GetConfig(model.ProviderID, &model, agentID, providerOverride, agentOverride)
	return cfg.PromptOrder.Ordering
}

// providerOptionsKeys maps client-library identifiers to the short keys
// used to namespace provider-specific request options. The short key can
// differ from the provider id (amazon-bedrock options live under
// "bedrock").
var providerOptionsKeys = map[string]string{
	"@ai-sdk/amazon-bedrock":      "bedrock",
	"@ai-sdk/google-vertex":       "vertex",
	"@openrouter/ai-sdk-provider": "openrouter",
}

// ProviderOptionsKey returns the option-namespace key for a client
// library. Unknown identifiers fall back to the provider id verbatim.
func ProviderOptionsKey(clientLibraryID, providerID string) string {
	if key, ok := providerOptionsKeys[clientLibraryID]; ok {
		return key
	}
	return providerID
}
