package policy

import "strings"

// RoutingProviderID is the one provider that fronts other backends. Its
// caching policy mirrors whichever underlying provider actually serves the
// model, so the underlying provider must be inferred from the model's
// wire-level identifier.
const RoutingProviderID = "openrouter"

// effectiveProviderRules are tested in priority order against the
// lowercased wire identifier of a routed model. The first satisfied rule
// wins.
var effectiveProviderRules = []struct {
	substr   string
	provider string
}{
	{"anthropic/", "anthropic"},
	{"claude", "anthropic"},
	{"openai/", "openai"},
	{"gpt", "openai"},
	{"google/", "google"},
	{"gemini", "google"},
	{"deepseek/", "deepseek"},
	{"mistral/", "mistral"},
}

// DetectEffectiveProvider returns the provider whose caching policy applies
// to the model. For every provider except the routing provider this is the
// model's own provider. For routed models the underlying provider is
// inferred from the wire identifier; when no rule matches, the routing
// provider's own id is returned unchanged.
func DetectEffectiveProvider(model Model) string {
	if model.ProviderID != RoutingProviderID {
		return model.ProviderID
	}

	id := strings.ToLower(model.apiIdentifier())
	for _, rule := range effectiveProviderRules {
		if strings.Contains(id, rule.substr) {
			return rule.provider
		}
	}

	return model.ProviderID
}
