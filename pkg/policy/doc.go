// Package policy resolves the effective prompt-caching and prompt-ordering
// behavior for a request to an LLM backend provider. Providers differ in how
// caching works (explicit breakpoint markers, automatic prefix matching,
// implicit content hashing, passthrough to an underlying provider, or none)
// and in what message ordering maximizes cache hits.
//
// The Resolver composes three inputs into one fully-resolved Config: an
// immutable per-provider baseline Registry, up to two layers of partial user
// overrides (provider-level, then agent-level), and an optional concrete
// model. All operations are pure, total, and safe for concurrent use; unknown
// providers and unmatched models resolve through documented fallbacks, never
// errors.
package policy
