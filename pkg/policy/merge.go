package policy

import "slices"

// UserCacheConfig is a partial override of CacheConfig. Every field is a
// pointer so that "explicitly set to the zero value" and "not provided"
// stay distinguishable: a nil field never overrides, a non-nil field
// always does.
type UserCacheConfig struct {
	Enabled        *bool
	TTL            *CacheTTL
	MinTokens      *MinTokens
	MaxBreakpoints *int
}

// UserPromptOrderConfig is a partial override of PromptOrderConfig. The
// slices replace the base wholesale when non-nil; there is no element-wise
// merging. The remaining PromptOrderConfig fields are structural facts
// about the provider and are not user-overridable.
type UserPromptOrderConfig struct {
	Ordering         []Section
	CacheBreakpoints []Section
}

// UserConfig is one layer of partial override on top of a Config.
type UserConfig struct {
	Cache       *UserCacheConfig
	PromptOrder *UserPromptOrderConfig
}

// Merge applies one override layer on top of base. A nil override returns
// base unchanged. Presence, not truthiness, is the trigger: an explicit
// Enabled=false overrides, an absent Enabled does not. Layering is
// left-to-right and associative, so Merge(Merge(base, l1), l2) applies l1
// first and lets l2 win on any field both layers set.
func Merge(base Config, override *UserConfig) Config {
	if override == nil {
		return base
	}

	out := base

	if c := override.Cache; c != nil {
		if c.Enabled != nil {
			out.Cache.Enabled = *c.Enabled
		}
		if c.TTL != nil {
			out.Cache.TTL = *c.TTL
		}
		if c.MinTokens != nil {
			out.Cache.MinTokens = *c.MinTokens
		}
		if c.MaxBreakpoints != nil {
			out.Cache.MaxBreakpoints = *c.MaxBreakpoints
		}
	}

	if p := override.PromptOrder; p != nil {
		if p.Ordering != nil {
			out.PromptOrder.Ordering = slices.Clone(p.Ordering)
		}
		if p.CacheBreakpoints != nil {
			out.PromptOrder.CacheBreakpoints = slices.Clone(p.CacheBreakpoints)
		}
	}

	return out
}
