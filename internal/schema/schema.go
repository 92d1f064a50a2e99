// Package schema defines composable structural contracts for documentation
// artifacts and the catalog that flattens their inheritance chains.
package schema

import "regexp"

// RuleKind discriminates the field rule variants.
type RuleKind string

const (
	// RuleEnum restricts a field to a fixed value set.
	RuleEnum RuleKind = "enum"
	// RulePattern requires the full value to match a regular expression.
	RulePattern RuleKind = "pattern"
	// RuleLength bounds the value length in runes.
	RuleLength RuleKind = "length"
	// RuleDateFormat requires a strict YYYY-MM-DD date.
	RuleDateFormat RuleKind = "date"
	// RuleSemverFormat requires a valid semantic version.
	RuleSemverFormat RuleKind = "semver"
)

// FieldRule constrains one preamble field. Kind selects which constraint
// fields are meaningful.
type FieldRule struct {
	Field   string
	Kind    RuleKind
	Enum    []string       // RuleEnum
	Pattern string         // RulePattern source text
	Min     int            // RuleLength
	Max     int            // RuleLength

	re *regexp.Regexp // compiled at catalog build time
}

// Regexp returns the compiled pattern for RulePattern rules, or nil.
func (r *FieldRule) Regexp() *regexp.Regexp {
	return r.re
}

// BodyCheck is an advisory content-completeness check over an artifact body.
type BodyCheck struct {
	Name        string // identifies the check in findings
	MustContain string // substring the body must contain, typically a heading
}

// Fragment is one named schema definition. Fragments compose through
// Extends: a fragment inherits its parent's required fields and rules, and
// its own rule for a field replaces the inherited one.
type Fragment struct {
	Name       string
	Extends    string // empty for root fragments
	Required   []string
	Rules      []FieldRule
	BodyChecks []BodyCheck
}

// Flattened is a fully-resolved contract: the union of required fields and
// merged rules along the Extends chain, in declaration order with ancestors
// first. Flattened values are immutable after catalog construction.
type Flattened struct {
	Name       string
	Required   []string
	Rules      []FieldRule
	BodyChecks []BodyCheck
}

// Rule returns the rule for field, or nil when the contract has none.
func (f *Flattened) Rule(field string) *FieldRule {
	for i := range f.Rules {
		if f.Rules[i].Field == field {
			return &f.Rules[i]
		}
	}
	return nil
}
