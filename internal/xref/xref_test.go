package xref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolboyqueue/docgate/internal/artifact"
	"github.com/schoolboyqueue/docgate/internal/classify"
	"github.com/schoolboyqueue/docgate/internal/validate"
)

func decode(t *testing.T, raw string) *artifact.Preamble {
	t.Helper()
	p, _, err := artifact.Decode(raw)
	require.NoError(t, err)
	return &p
}

func planSibling(t *testing.T, path string, tasks string) Sibling {
	t.Helper()
	return Sibling{
		Path:     path,
		Category: classify.CategoryPlan,
		Preamble: decode(t, "---\nid: p1\ntasks:\n"+tasks+"---\n"),
	}
}

func logContract() Contract {
	return Contract{
		Producer:      classify.CategoryLog,
		Extractor:     PreambleFieldExtractor{Field: "completed"},
		Target:        classify.CategoryPlan,
		TargetIDField: "tasks",
	}
}

func TestResolve_AllReferencesResolve(t *testing.T) {
	producer := decode(t, "---\nplan_ref: p1\ncompleted:\n  - T-1\n  - T-2\n---\n")
	siblings := []Sibling{planSibling(t, "plans/p1/plan.md", "  - T-1\n  - T-2\n  - T-3\n")}

	findings := Resolve(producer, "", siblings, logContract(), Options{})
	assert.Empty(t, findings)
}

func TestResolve_OrphanedReference(t *testing.T) {
	producer := decode(t, "---\ncompleted:\n  - T-1\n  - T-99\n---\n")
	siblings := []Sibling{planSibling(t, "plans/p1/plan.md", "  - T-1\n  - T-2\n")}

	findings := Resolve(producer, "", siblings, logContract(), Options{})
	require.Len(t, findings, 1, "resolved ids produce no findings")
	assert.Equal(t, validate.SeverityCritical, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "T-99")
	assert.Contains(t, findings[0].Message, "orphaned reference")
}

func TestResolve_DuplicatesCollapsed(t *testing.T) {
	producer := decode(t, "---\ncompleted:\n  - T-9\n  - T-9\n  - T-9\n---\n")
	siblings := []Sibling{planSibling(t, "plans/p1/plan.md", "  - T-1\n")}

	findings := Resolve(producer, "", siblings, logContract(), Options{})
	require.Len(t, findings, 1)
}

func TestResolve_TargetMissing(t *testing.T) {
	producer := decode(t, "---\ncompleted:\n  - T-1\n  - T-2\n---\n")

	findings := Resolve(producer, "", nil, logContract(), Options{})
	require.Len(t, findings, 2, "every extracted id reported")
	for _, f := range findings {
		assert.Equal(t, validate.SeverityCritical, f.Severity)
		assert.Contains(t, f.Message, "missing")
	}
}

func TestResolve_TargetMissingDowngraded(t *testing.T) {
	producer := decode(t, "---\ncompleted:\n  - T-1\n---\n")

	findings := Resolve(producer, "", nil, logContract(), Options{AllowMissingTargets: true})
	require.Len(t, findings, 1)
	assert.Equal(t, validate.SeverityWarning, findings[0].Severity)
}

func TestResolve_TargetAmbiguous(t *testing.T) {
	producer := decode(t, "---\ncompleted:\n  - T-1\n  - T-2\n---\n")
	siblings := []Sibling{
		planSibling(t, "plans/p1/plan.md", "  - T-1\n  - T-2\n"),
		planSibling(t, "plans/p1/plan-old.md", "  - T-1\n  - T-2\n"),
	}

	findings := Resolve(producer, "", siblings, logContract(), Options{})
	require.Len(t, findings, 2, "no silent pick-first: every id goes Critical")
	for _, f := range findings {
		assert.Equal(t, validate.SeverityCritical, f.Severity)
		assert.Contains(t, f.Message, "ambiguous")
	}

	// Ambiguity stays Critical even with the missing-target downgrade on.
	findings = Resolve(producer, "", siblings, logContract(), Options{AllowMissingTargets: true})
	for _, f := range findings {
		assert.Equal(t, validate.SeverityCritical, f.Severity)
	}
}

func TestResolve_NoReferencesNoFindings(t *testing.T) {
	producer := decode(t, "---\nplan_ref: p1\n---\n")
	findings := Resolve(producer, "", nil, logContract(), Options{})
	assert.Empty(t, findings, "an artifact citing nothing needs no target")
}

func TestResolve_ScalarTargetField(t *testing.T) {
	producer := decode(t, "---\ncompleted:\n  - T-1\n---\n")
	sibling := Sibling{
		Path:     "plans/p1/plan.md",
		Category: classify.CategoryPlan,
		Preamble: decode(t, "---\ntasks: T-1\n---\n"),
	}

	findings := Resolve(producer, "", []Sibling{sibling}, logContract(), Options{})
	assert.Empty(t, findings, "scalar target field acts as a one-element set")
}

func TestBodyPatternExtractor(t *testing.T) {
	ex, err := NewBodyPatternExtractor(`T-\d+`)
	require.NoError(t, err)

	body := "Executed T-3 then T-7, re-ran T-3."
	assert.Equal(t, []string{"T-3", "T-7", "T-3"}, ex.Extract(nil, body))
	assert.Equal(t, "body:T-\\d+", ex.Spec())

	_, err = NewBodyPatternExtractor(`([`)
	assert.Error(t, err)
}

func TestPreambleFieldExtractor(t *testing.T) {
	p := decode(t, "---\ncompleted:\n  - T-1\nref: T-2\n---\n")

	list := PreambleFieldExtractor{Field: "completed"}
	assert.Equal(t, []string{"T-1"}, list.Extract(p, ""))
	assert.Equal(t, "preamble:completed", list.Spec())

	scalar := PreambleFieldExtractor{Field: "ref"}
	assert.Equal(t, []string{"T-2"}, scalar.Extract(p, ""))

	absent := PreambleFieldExtractor{Field: "nope"}
	assert.Nil(t, absent.Extract(p, ""))
}
