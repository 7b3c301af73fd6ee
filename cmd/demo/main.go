package main

import (
	"encoding/json"
	"fmt"

	"github.com/rhuss/speicher/pkg/policy"
	"github.com/rhuss/speicher/pkg/policy/baseline"
)

func main() {
	fmt.Println("=== speicher policy resolution demo ===")
	fmt.Println()

	resolver := policy.NewResolver(baseline.New())

	// 1. Resolve the plain baseline for a provider.
	cfg := resolver.GetConfig("anthropic", nil, "", nil, nil)
	data, _ := json.MarshalIndent(cfg, "", "  ")
	fmt.Printf("[1] anthropic baseline:\n%s\n\n", data)

	// 2. Layer a provider override and an agent override; the agent layer
	// wins on fields both set.
	ttl := policy.CacheTTL1h
	disabled := false
	providerOverride := &policy.UserConfig{Cache: &policy.UserCacheConfig{TTL: &ttl}}
	agentOverride := &policy.UserConfig{Cache: &policy.UserCacheConfig{Enabled: &disabled}}

	cfg = resolver.GetConfig("anthropic", nil, "plan", providerOverride, agentOverride)
	fmt.Printf("[2] layered: ttl=%s enabled=%v (agent layer wins)\n\n", cfg.Cache.TTL, cfg.Cache.Enabled)

	// 3. Collapse a model-keyed threshold to a scalar.
	model := policy.Model{ID: "claude-opus-4-20250514", ProviderID: "anthropic"}
	cfg = resolver.GetConfig("anthropic", &model, "", nil, nil)
	fmt.Printf("[3] minTokens for %s: %d\n\n", model.ID, cfg.Cache.MinTokens.Tokens)

	// 4. Detect the provider behind a routed model.
	routed := policy.Model{
		ID:         "claude-3.5-sonnet",
		ProviderID: policy.RoutingProviderID,
		APIID:      "anthropic/claude-3.5-sonnet",
	}
	fmt.Printf("[4] %s routes to %q\n\n", routed.APIID, policy.DetectEffectiveProvider(routed))

	// 5. Request-annotation primitives.
	fmt.Printf("[5] anthropic cache marker property: %q\n", resolver.CacheProperty("anthropic"))
	marker, _ := json.Marshal(resolver.BuildCacheControl("anthropic", policy.CacheTTL5m))
	fmt.Printf("    marker object: %s\n", marker)
	fmt.Printf("    bedrock options key: %q\n\n", policy.ProviderOptionsKey("@ai-sdk/amazon-bedrock", "amazon-bedrock"))

	// 6. Prompt ordering for an unknown provider falls back to the default.
	ordering := resolver.PromptOrdering(policy.Model{ID: "some-model", ProviderID: "unknown"}, "", nil)
	fmt.Printf("[6] unknown provider ordering: %v\n", ordering)
}
