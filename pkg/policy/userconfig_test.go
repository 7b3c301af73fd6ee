package policy

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromUserProviderConfigAbsent(t *testing.T) {
	if got := FromUserProviderConfig(nil); got != nil {
		t.Errorf("FromUserProviderConfig(nil) = %+v, want nil", got)
	}
	if got := FromUserProviderConfig(&RawProviderConfig{}); got != nil {
		t.Errorf("FromUserProviderConfig(empty) = %+v, want nil", got)
	}
}

func TestFromUserProviderConfigCopiesOnlyPresentFields(t *testing.T) {
	raw := &RawProviderConfig{
		Cache: &RawCacheConfig{TTL: ptr(CacheTTL1h)},
	}

	got := FromUserProviderConfig(raw)
	if got == nil {
		t.Fatal("FromUserProviderConfig() = nil, want override")
	}
	if got.Cache == nil {
		t.Fatal("cache layer missing")
	}
	if got.Cache.TTL == nil || *got.Cache.TTL != CacheTTL1h {
		t.Errorf("cache.ttl = %v, want 1h", got.Cache.TTL)
	}

	// Every other field stays absent, not defaulted.
	if got.Cache.Enabled != nil {
		t.Errorf("cache.enabled = %v, want absent", *got.Cache.Enabled)
	}
	if got.Cache.MinTokens != nil {
		t.Errorf("cache.minTokens = %v, want absent", *got.Cache.MinTokens)
	}
	if got.Cache.MaxBreakpoints != nil {
		t.Errorf("cache.maxBreakpoints = %v, want absent", *got.Cache.MaxBreakpoints)
	}
	if got.PromptOrder != nil {
		t.Errorf("promptOrder = %+v, want absent", got.PromptOrder)
	}
}

func TestFromUserProviderConfigPromptOrder(t *testing.T) {
	raw := &RawProviderConfig{
		PromptOrder: &RawPromptOrderConfig{
			Ordering:         []Section{SectionSystem, SectionTools, SectionMessages},
			CacheBreakpoints: []Section{SectionSystem},
		},
	}

	got := FromUserProviderConfig(raw)
	if got == nil || got.PromptOrder == nil {
		t.Fatal("prompt order layer missing")
	}
	if diff := cmp.Diff(raw.PromptOrder.Ordering, got.PromptOrder.Ordering); diff != "" {
		t.Errorf("ordering (-want +got):\n%s", diff)
	}
	if got.Cache != nil {
		t.Errorf("cache = %+v, want absent", got.Cache)
	}

	// The slices are copies, not aliases of the raw shape.
	raw.PromptOrder.Ordering[0] = SectionMessages
	if got.PromptOrder.Ordering[0] != SectionSystem {
		t.Error("ordering aliases the raw slice")
	}
}

func TestRawProviderConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     *RawProviderConfig
		wantErr string
	}{
		{
			name: "nil is valid",
			raw:  nil,
		},
		{
			name: "well-formed override",
			raw: &RawProviderConfig{
				Cache: &RawCacheConfig{TTL: ptr(CacheTTL1h), MinTokens: ptr(2048)},
				PromptOrder: &RawPromptOrderConfig{
					Ordering: []Section{SectionSystem, SectionTools, SectionMessages},
				},
			},
		},
		{
			name:    "unknown ttl",
			raw:     &RawProviderConfig{Cache: &RawCacheConfig{TTL: ptr(CacheTTL("2h"))}},
			wantErr: "not a known ttl",
		},
		{
			name:    "non-positive min tokens",
			raw:     &RawProviderConfig{Cache: &RawCacheConfig{MinTokens: ptr(0)}},
			wantErr: "min_tokens must be > 0",
		},
		{
			name:    "negative max breakpoints",
			raw:     &RawProviderConfig{Cache: &RawCacheConfig{MaxBreakpoints: ptr(-1)}},
			wantErr: "max_breakpoints must be >= 0",
		},
		{
			name: "ordering missing required section",
			raw: &RawProviderConfig{PromptOrder: &RawPromptOrderConfig{
				Ordering: []Section{SectionSystem, SectionMessages},
			}},
			wantErr: `section "tools" is required`,
		},
		{
			name: "breakpoints within replaced ordering",
			raw: &RawProviderConfig{PromptOrder: &RawPromptOrderConfig{
				Ordering:         []Section{SectionSystem, SectionTools, SectionMessages},
				CacheBreakpoints: []Section{SectionSystem, SectionMessages},
			}},
		},
		{
			name: "breakpoint outside replaced ordering",
			raw: &RawProviderConfig{PromptOrder: &RawPromptOrderConfig{
				Ordering:         []Section{SectionSystem, SectionTools, SectionMessages},
				CacheBreakpoints: []Section{SectionEnvironment},
			}},
			wantErr: `section "environment" is not in prompt_order.ordering`,
		},
		{
			name: "unknown breakpoint section",
			raw: &RawProviderConfig{PromptOrder: &RawPromptOrderConfig{
				CacheBreakpoints: []Section{"preamble"},
			}},
			wantErr: `unknown section "preamble"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.raw.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error: %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err, tc.wantErr)
			}
		})
	}
}

func TestMinTokensJSONRoundTrip(t *testing.T) {
	// Covered shapes: bare number and table object.
	scalar := MinTokens{Tokens: 1024}
	data, err := scalar.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error: %v", err)
	}
	if string(data) != "1024" {
		t.Errorf("scalar JSON = %s, want 1024", data)
	}

	var decoded MinTokens
	if err := decoded.UnmarshalJSON([]byte(`{"rules":[{"pattern":"haiku","tokens":2048}],"default":1024}`)); err != nil {
		t.Fatalf("UnmarshalJSON() error: %v", err)
	}
	if decoded.Table == nil {
		t.Fatal("table JSON decoded without a table")
	}
	if decoded.Table.Default != 1024 || len(decoded.Table.Rules) != 1 {
		t.Errorf("decoded table = %+v, want one rule with default 1024", decoded.Table)
	}

	if err := decoded.UnmarshalJSON([]byte("512")); err != nil {
		t.Fatalf("UnmarshalJSON(number) error: %v", err)
	}
	if decoded.Table != nil || decoded.Tokens != 512 {
		t.Errorf("decoded scalar = %+v, want tokens 512", decoded)
	}
}
