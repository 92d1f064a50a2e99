// Package xref resolves cross-document references: identifiers one artifact
// cites must exist in the sibling artifact that defines them. Unresolved
// references are the one class of defect that gates validity outright.
package xref

import (
	"fmt"
	"regexp"

	"github.com/schoolboyqueue/docgate/internal/artifact"
	"github.com/schoolboyqueue/docgate/internal/classify"
	"github.com/schoolboyqueue/docgate/internal/validate"
)

// Extractor pulls referenced identifiers out of a decoded artifact. Order is
// preserved; deduplication happens in the resolver.
type Extractor interface {
	Extract(p *artifact.Preamble, body string) []string
	// Spec returns the extractor's configuration form, for diagnostics.
	Spec() string
}

// Contract declares that artifacts of Producer cite identifiers that must
// appear in the TargetIDField array of the single sibling classified as
// Target.
type Contract struct {
	Producer      classify.Category
	Extractor     Extractor
	Target        classify.Category
	TargetIDField string
}

// Sibling is an artifact that has already been decoded and classified. The
// engine prepares the full sibling set before any resolution runs.
type Sibling struct {
	Path     string
	Category classify.Category
	Preamble *artifact.Preamble
}

// Options tune resolution policy.
type Options struct {
	// AllowMissingTargets downgrades "target missing" from Critical to
	// Warning, for validating staged snapshots where the target artifact
	// does not exist yet. Ambiguous targets stay Critical.
	AllowMissingTargets bool
}

// Resolve extracts the producer's references and checks each one against the
// contract's target sibling. The producer itself must not be in siblings.
// Findings come back in extraction order with duplicates collapsed.
func Resolve(p *artifact.Preamble, body string, siblings []Sibling, contract Contract, opts Options) []validate.Finding {
	ids := dedupe(contract.Extractor.Extract(p, body))
	if len(ids) == 0 {
		return nil
	}

	target, state := selectTarget(siblings, contract.Target)
	switch state {
	case targetMissing:
		severity := validate.SeverityCritical
		if opts.AllowMissingTargets {
			severity = validate.SeverityWarning
		}
		return perIDFindings(ids, severity,
			fmt.Sprintf("reference target missing: no sibling classified as %q", contract.Target))
	case targetAmbiguous:
		return perIDFindings(ids, validate.SeverityCritical,
			fmt.Sprintf("reference target ambiguous: multiple siblings classified as %q", contract.Target))
	}

	known := make(map[string]bool)
	if value, ok := target.Preamble.Get(contract.TargetIDField); ok {
		for _, id := range value.Members() {
			known[id] = true
		}
	}

	var findings []validate.Finding
	for _, id := range ids {
		if known[id] {
			continue
		}
		findings = append(findings, validate.Finding{
			Message:  fmt.Sprintf("orphaned reference: id %q not found in %s of %s", id, contract.TargetIDField, target.Path),
			Hint:     fmt.Sprintf("Define %q in the %s artifact or remove the reference", id, contract.Target),
			Severity: validate.SeverityCritical,
			Class:    validate.ClassTraceability,
		})
	}
	return findings
}

type targetState int

const (
	targetFound targetState = iota
	targetMissing
	targetAmbiguous
)

// selectTarget finds the unique sibling of the wanted category. Zero or
// more than one match means the resolver cannot trust any of them.
func selectTarget(siblings []Sibling, want classify.Category) (*Sibling, targetState) {
	var found *Sibling
	for i := range siblings {
		if siblings[i].Category != want {
			continue
		}
		if found != nil {
			return nil, targetAmbiguous
		}
		found = &siblings[i]
	}
	if found == nil {
		return nil, targetMissing
	}
	return found, targetFound
}

func perIDFindings(ids []string, severity validate.Severity, reason string) []validate.Finding {
	findings := make([]validate.Finding, 0, len(ids))
	for _, id := range ids {
		findings = append(findings, validate.Finding{
			Message:  fmt.Sprintf("%s (reference %q unresolved)", reason, id),
			Severity: severity,
			Class:    validate.ClassTraceability,
		})
	}
	return findings
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// PreambleFieldExtractor reads identifiers from one preamble field. A
// scalar value extracts as a single identifier.
type PreambleFieldExtractor struct {
	Field string
}

// Extract returns the field's members, or nothing when the field is absent.
func (e PreambleFieldExtractor) Extract(p *artifact.Preamble, _ string) []string {
	value, ok := p.Get(e.Field)
	if !ok {
		return nil
	}
	return value.Members()
}

// Spec returns the configuration form of the extractor.
func (e PreambleFieldExtractor) Spec() string {
	return "preamble:" + e.Field
}

// BodyPatternExtractor scans the body for identifiers matching a pattern.
type BodyPatternExtractor struct {
	re *regexp.Regexp
}

// NewBodyPatternExtractor compiles a body extractor.
func NewBodyPatternExtractor(pattern string) (BodyPatternExtractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return BodyPatternExtractor{}, fmt.Errorf("body extractor pattern %q: %w", pattern, err)
	}
	return BodyPatternExtractor{re: re}, nil
}

// Extract returns every pattern match in the body, in order.
func (e BodyPatternExtractor) Extract(_ *artifact.Preamble, body string) []string {
	return e.re.FindAllString(body, -1)
}

// Spec returns the configuration form of the extractor.
func (e BodyPatternExtractor) Spec() string {
	return "body:" + e.re.String()
}
