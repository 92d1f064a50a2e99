package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolboyqueue/docgate/internal/artifact"
	"github.com/schoolboyqueue/docgate/internal/schema"
)

func buildFlat(t *testing.T, frag schema.Fragment) *schema.Flattened {
	t.Helper()
	cat, err := schema.Build([]schema.Fragment{frag})
	require.NoError(t, err)
	flat, err := cat.Flatten(frag.Name)
	require.NoError(t, err)
	return flat
}

func decode(t *testing.T, raw string) (*artifact.Preamble, string) {
	t.Helper()
	p, body, err := artifact.Decode(raw)
	require.NoError(t, err)
	return &p, body
}

func TestValidate_MissingRequiredField(t *testing.T) {
	flat := buildFlat(t, schema.Fragment{Name: "plan", Required: []string{"id", "tasks"}})
	p, body := decode(t, "---\nid: p1\n---\nbody")

	findings := Validate(p, body, flat)
	require.Len(t, findings, 1)
	assert.Equal(t, "tasks", findings[0].Field)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.Equal(t, ClassTraceability, findings[0].Class)
	assert.Contains(t, findings[0].Message, "tasks")
}

func TestValidate_EnumRule(t *testing.T) {
	flat := buildFlat(t, schema.Fragment{
		Name:  "doc",
		Rules: []schema.FieldRule{{Field: "status", Kind: schema.RuleEnum, Enum: []string{"draft", "final"}}},
	})

	tests := map[string]struct {
		raw       string
		wantCount int
	}{
		"member ok":       {raw: "---\nstatus: draft\n---\n", wantCount: 0},
		"non-member":      {raw: "---\nstatus: published\n---\n", wantCount: 1},
		"absent field ok": {raw: "---\nother: x\n---\n", wantCount: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p, body := decode(t, tt.raw)
			assert.Len(t, Validate(p, body, flat), tt.wantCount)
		})
	}
}

func TestValidate_PatternRule(t *testing.T) {
	flat := buildFlat(t, schema.Fragment{
		Name:  "doc",
		Rules: []schema.FieldRule{{Field: "id", Kind: schema.RulePattern, Pattern: `^T-\d+$`}},
	})

	p, body := decode(t, "---\nid: T-12\n---\n")
	assert.Empty(t, Validate(p, body, flat))

	p, body = decode(t, "---\nid: task-12\n---\n")
	findings := Validate(p, body, flat)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.Equal(t, ClassRules, findings[0].Class)
}

func TestValidate_PatternRuleOverList(t *testing.T) {
	flat := buildFlat(t, schema.Fragment{
		Name:  "doc",
		Rules: []schema.FieldRule{{Field: "tasks", Kind: schema.RulePattern, Pattern: `^T-\d+$`}},
	})

	p, body := decode(t, "---\ntasks:\n  - T-1\n  - bogus\n---\n")
	findings := Validate(p, body, flat)
	require.Len(t, findings, 1, "first violating element reported once")
	assert.Contains(t, findings[0].Message, "bogus")
}

func TestValidate_LengthRule(t *testing.T) {
	flat := buildFlat(t, schema.Fragment{
		Name:  "doc",
		Rules: []schema.FieldRule{{Field: "title", Kind: schema.RuleLength, Min: 10, Max: 40}},
	})

	tests := map[string]struct {
		value string
		want  Severity
		none  bool
	}{
		"inside range":         {value: "a perfectly fine title", none: true},
		"marginally too short": {value: "nine char", want: SeverityWarning},          // 9 vs min 10
		"far too short":        {value: "tiny", want: SeverityError},                 // 4 vs min 10
		"marginally too long":  {value: stringOfLen(45), want: SeverityWarning},      // 45 vs max 40
		"far too long":         {value: stringOfLen(80), want: SeverityError},        // 80 vs max 40
		"exactly min":          {value: stringOfLen(10), none: true},
		"exactly max":          {value: stringOfLen(40), none: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p, body := decode(t, "---\ntitle: \""+tt.value+"\"\n---\n")

			findings := Validate(p, body, flat)
			if tt.none {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			assert.Equal(t, tt.want, findings[0].Severity)
		})
	}
}

func stringOfLen(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'x'
	}
	return string(b)
}

func TestValidate_DateFormat(t *testing.T) {
	flat := buildFlat(t, schema.Fragment{
		Name:  "doc",
		Rules: []schema.FieldRule{{Field: "created", Kind: schema.RuleDateFormat}},
	})

	tests := map[string]struct {
		value   string
		wantErr bool
	}{
		"valid date":       {value: "2026-08-29"},
		"wrong order":      {value: "29-08-2026", wantErr: true},
		"month overflow":   {value: "2026-13-01", wantErr: true},
		"missing zero pad": {value: "2026-8-29", wantErr: true},
		"not a date":       {value: "yesterday", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p, body := decode(t, "---\ncreated: \""+tt.value+"\"\n---\n")
			findings := Validate(p, body, flat)
			if !tt.wantErr {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			assert.Equal(t, SeverityError, findings[0].Severity)
			assert.Equal(t, ClassFreshness, findings[0].Class)
		})
	}
}

func TestValidate_SemverFormat(t *testing.T) {
	flat := buildFlat(t, schema.Fragment{
		Name:  "doc",
		Rules: []schema.FieldRule{{Field: "version", Kind: schema.RuleSemverFormat}},
	})

	tests := map[string]struct {
		value   string
		wantErr bool
	}{
		"bare version":  {value: "1.2.0"},
		"v prefix":      {value: "v1.2.0"},
		"prerelease":    {value: "1.2.0-rc.1"},
		"two segments":  {value: "1.2"},
		"not a version": {value: "latest", wantErr: true},
		"empty":         {value: "", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p, body := decode(t, "---\nversion: \""+tt.value+"\"\n---\n")
			findings := Validate(p, body, flat)
			if !tt.wantErr {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
		})
	}
}

func TestValidate_BodyCheckIsWarning(t *testing.T) {
	flat := buildFlat(t, schema.Fragment{
		Name:       "doc",
		BodyChecks: []schema.BodyCheck{{Name: "overview", MustContain: "## Overview"}},
	})

	p, body := decode(t, "---\nid: x\n---\n## Overview\n\ntext")
	assert.Empty(t, Validate(p, body, flat))

	p, body = decode(t, "---\nid: x\n---\nno sections here")
	findings := Validate(p, body, flat)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.Equal(t, ClassStructure, findings[0].Class)
}

func TestValidate_Deterministic(t *testing.T) {
	flat := buildFlat(t, schema.Fragment{
		Name:     "doc",
		Required: []string{"id", "owner", "created"},
		Rules: []schema.FieldRule{
			{Field: "status", Kind: schema.RuleEnum, Enum: []string{"open"}},
			{Field: "created", Kind: schema.RuleDateFormat},
		},
		BodyChecks: []schema.BodyCheck{{Name: "steps", MustContain: "## Steps"}},
	})

	p, body := decode(t, "---\nstatus: closed\ncreated: nonsense\n---\nempty")

	first := Validate(p, body, flat)
	second := Validate(p, body, flat)
	require.Equal(t, first, second, "identical inputs must produce identical findings")

	// Required fields come first in declared order, then rules, then body.
	require.Len(t, first, 5)
	assert.Equal(t, "id", first[0].Field)
	assert.Equal(t, "owner", first[1].Field)
	assert.Equal(t, "status", first[2].Field)
	assert.Equal(t, "created", first[3].Field)
	assert.Equal(t, ClassStructure, first[4].Class)
}
