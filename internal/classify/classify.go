// Package classify maps artifact paths to categories through a
// priority-ordered rule list. Classification is total: every path gets
// exactly one category, falling back to general.
package classify

import (
	"fmt"
	"regexp"
	"strings"
)

// Category is the closed classification set for documentation artifacts.
type Category string

const (
	// CategoryFoundation covers project charters and foundational docs.
	CategoryFoundation Category = "foundation"
	// CategoryWorkorder covers plans and task breakdowns.
	CategoryWorkorder Category = "workorder"
	// CategoryStandards covers conventions and reference sheets.
	CategoryStandards Category = "standards"
	// CategorySession covers execution logs and session records.
	CategorySession Category = "session"
	// CategoryPlan covers task-defining plan documents.
	CategoryPlan Category = "plan"
	// CategoryLog covers execution logs that reference plan tasks.
	CategoryLog Category = "log"
	// CategoryGeneral is the fallback for unmatched paths.
	CategoryGeneral Category = "general"
)

// Categories returns every valid category.
func Categories() []Category {
	return []Category{
		CategoryFoundation,
		CategoryWorkorder,
		CategoryStandards,
		CategorySession,
		CategoryPlan,
		CategoryLog,
		CategoryGeneral,
	}
}

// Parse converts a string into a Category. Matching is case-sensitive.
func Parse(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category: %s (valid categories: %s)", s, joinCategories())
}

func joinCategories() string {
	parts := make([]string, 0, len(Categories()))
	for _, c := range Categories() {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, ", ")
}

// PathRule maps a path pattern to a category. Patterns are regular
// expressions anchored to the full path unless Substring is set, in which
// case any match anywhere in the path counts. Matching is case-sensitive.
type PathRule struct {
	Category  Category
	Substring bool

	pattern string
	re      *regexp.Regexp
}

// NewPathRule compiles a rule. Anchoring is applied here so callers supply
// plain patterns.
func NewPathRule(pattern string, category Category, substring bool) (PathRule, error) {
	src := pattern
	if !substring && !strings.HasPrefix(src, "^") {
		src = "^(?:" + src + ")$"
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return PathRule{}, fmt.Errorf("path rule %q: %w", pattern, err)
	}
	return PathRule{Category: category, Substring: substring, pattern: pattern, re: re}, nil
}

// Pattern returns the rule's original pattern source.
func (r PathRule) Pattern() string {
	return r.pattern
}

// Matches reports whether the rule matches path.
func (r PathRule) Matches(path string) bool {
	return r.re.MatchString(path)
}

// Classify returns the category of the first matching rule, evaluated in
// order, or CategoryGeneral when no rule matches. It never fails.
func Classify(path string, rules []PathRule) Category {
	for _, rule := range rules {
		if rule.Matches(path) {
			return rule.Category
		}
	}
	return CategoryGeneral
}
