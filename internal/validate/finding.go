// Package validate checks decoded artifacts against flattened schema
// contracts and reports findings. Findings are data, never panics: callers
// decide policy from severities.
package validate

// Severity ranks a finding. Only Critical findings flip an artifact's
// validity; Error and Warning reduce the health score.
type Severity int

const (
	// SeverityInfo is informational only.
	SeverityInfo Severity = iota
	// SeverityWarning flags advisory issues such as incomplete content.
	SeverityWarning
	// SeverityError flags structural contract violations.
	SeverityError
	// SeverityCritical flags violations that gate the artifact, such as
	// orphaned cross-references.
	SeverityCritical
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	case SeverityCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// Class groups findings for weighted health scoring.
type Class int

const (
	// ClassRules covers plain rule violations (enum, pattern, length).
	ClassRules Class = iota
	// ClassTraceability covers missing identifying fields and broken
	// cross-references.
	ClassTraceability
	// ClassStructure covers content-completeness issues.
	ClassStructure
	// ClassFreshness covers date and version format issues.
	ClassFreshness
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassRules:
		return "rules"
	case ClassTraceability:
		return "traceability"
	case ClassStructure:
		return "structure"
	case ClassFreshness:
		return "freshness"
	default:
		return "unknown"
	}
}

// Finding is one validation defect. Field is empty for findings that are
// not tied to a single preamble field.
type Finding struct {
	Field    string
	Message  string
	Hint     string
	Severity Severity
	Class    Class
}
