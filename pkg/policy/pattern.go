package policy

import "strings"

// Resolve collapses the threshold to a scalar. A plain threshold is
// returned unconditionally, even when a model is supplied. A table without
// a model returns its default.
func (m MinTokens) Resolve(model *Model) int {
	if m.Table == nil {
		return m.Tokens
	}
	return m.Table.Resolve(model)
}

// Resolve scans the rules in declaration order against the lowercased model
// id and family and returns the first matching rule's threshold, or the
// table default when nothing matches or no model is supplied.
//
// This is first-match, not longest-match: a generic pattern declared before
// a specific one shadows it, so table authors order specific patterns first.
func (t *PatternTable) Resolve(model *Model) int {
	if model == nil {
		return t.Default
	}

	id := strings.ToLower(model.ID)
	family := strings.ToLower(model.Family)

	for _, rule := range t.Rules {
		pattern := strings.ToLower(rule.Pattern)
		if strings.Contains(id, pattern) {
			return rule.Tokens
		}
		if family != "" && strings.Contains(family, pattern) {
			return rule.Tokens
		}
	}

	return t.Default
}
