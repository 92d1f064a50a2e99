package validate

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/mod/semver"

	"github.com/schoolboyqueue/docgate/internal/artifact"
	"github.com/schoolboyqueue/docgate/internal/schema"
)

// dateLayout is the strict date format accepted by RuleDateFormat.
const dateLayout = "2006-01-02"

// lengthTolerance is the fraction outside a length bound that still rates a
// Warning instead of an Error.
const lengthTolerance = 0.2

// Validate checks a decoded preamble and body against a flattened contract.
// The finding order is deterministic: required fields in declared order,
// then field rules in declared order, then body checks. Identical inputs
// always produce identical output.
func Validate(p *artifact.Preamble, body string, flat *schema.Flattened) []Finding {
	var findings []Finding

	for _, field := range flat.Required {
		if p.Has(field) {
			continue
		}
		findings = append(findings, Finding{
			Field:    field,
			Message:  fmt.Sprintf("missing required field: %s", field),
			Hint:     fmt.Sprintf("Add the '%s' field to the frontmatter block", field),
			Severity: SeverityError,
			Class:    ClassTraceability,
		})
	}

	for i := range flat.Rules {
		rule := &flat.Rules[i]
		value, ok := p.Get(rule.Field)
		if !ok {
			continue
		}
		if f := checkRule(rule, value); f != nil {
			findings = append(findings, *f)
		}
	}

	for _, check := range flat.BodyChecks {
		if strings.Contains(body, check.MustContain) {
			continue
		}
		findings = append(findings, Finding{
			Message:  fmt.Sprintf("body is missing expected content %q (check: %s)", check.MustContain, check.Name),
			Hint:     fmt.Sprintf("Add a %q section to the document body", check.MustContain),
			Severity: SeverityWarning,
			Class:    ClassStructure,
		})
	}

	return findings
}

// checkRule applies one field rule to a present value. List values are
// checked element-wise; the first violating element is reported.
func checkRule(rule *schema.FieldRule, value artifact.Value) *Finding {
	for _, member := range value.Members() {
		if f := checkScalar(rule, member); f != nil {
			return f
		}
	}
	return nil
}

func checkScalar(rule *schema.FieldRule, value string) *Finding {
	switch rule.Kind {
	case schema.RuleEnum:
		for _, allowed := range rule.Enum {
			if value == allowed {
				return nil
			}
		}
		return &Finding{
			Field:    rule.Field,
			Message:  fmt.Sprintf("invalid value %q for field '%s'", value, rule.Field),
			Hint:     fmt.Sprintf("Use one of: %s", strings.Join(rule.Enum, ", ")),
			Severity: SeverityError,
			Class:    ClassRules,
		}

	case schema.RulePattern:
		if rule.Regexp().MatchString(value) {
			return nil
		}
		return &Finding{
			Field:    rule.Field,
			Message:  fmt.Sprintf("value %q for field '%s' does not match pattern %s", value, rule.Field, rule.Pattern),
			Hint:     fmt.Sprintf("Match the format %s", rule.Pattern),
			Severity: SeverityError,
			Class:    ClassRules,
		}

	case schema.RuleLength:
		return checkLength(rule, value)

	case schema.RuleDateFormat:
		if _, err := time.Parse(dateLayout, value); err != nil {
			return &Finding{
				Field:    rule.Field,
				Message:  fmt.Sprintf("invalid date %q for field '%s'", value, rule.Field),
				Hint:     "Use the YYYY-MM-DD format",
				Severity: SeverityError,
				Class:    ClassFreshness,
			}
		}
		return nil

	case schema.RuleSemverFormat:
		if semver.IsValid(normalizeSemver(value)) {
			return nil
		}
		return &Finding{
			Field:    rule.Field,
			Message:  fmt.Sprintf("invalid semantic version %q for field '%s'", value, rule.Field),
			Hint:     "Use MAJOR.MINOR.PATCH, e.g. 1.2.0",
			Severity: SeverityError,
			Class:    ClassFreshness,
		}
	}
	return nil
}

// checkLength enforces a length range. Marginal violations, within 20% of
// the violated bound, rate a Warning; anything further is an Error.
func checkLength(rule *schema.FieldRule, value string) *Finding {
	length := utf8.RuneCountInString(value)

	var bound int
	switch {
	case rule.Min > 0 && length < rule.Min:
		bound = rule.Min
	case rule.Max > 0 && length > rule.Max:
		bound = rule.Max
	default:
		return nil
	}

	severity := SeverityError
	if withinTolerance(length, bound) {
		severity = SeverityWarning
	}
	return &Finding{
		Field:    rule.Field,
		Message:  fmt.Sprintf("field '%s' has length %d, expected %s", rule.Field, length, lengthRange(rule)),
		Severity: severity,
		Class:    ClassRules,
	}
}

func withinTolerance(length, bound int) bool {
	deviation := length - bound
	if deviation < 0 {
		deviation = -deviation
	}
	return float64(deviation) <= lengthTolerance*float64(bound)
}

func lengthRange(rule *schema.FieldRule) string {
	switch {
	case rule.Min > 0 && rule.Max > 0:
		return fmt.Sprintf("%d..%d", rule.Min, rule.Max)
	case rule.Min > 0:
		return fmt.Sprintf("at least %d", rule.Min)
	default:
		return fmt.Sprintf("at most %d", rule.Max)
	}
}

// normalizeSemver maps bare versions to the canonical v-prefixed form the
// semver package expects.
func normalizeSemver(value string) string {
	if strings.HasPrefix(value, "v") {
		return value
	}
	return "v" + value
}
