// Package health derives a 0-100 quality score from validation findings.
// The score is advisory; validity is a separate pass/fail gate driven only
// by Critical findings.
package health

import "github.com/schoolboyqueue/docgate/internal/validate"

// ValidThreshold is the score boundary a Critical finding forces the
// artifact below. Callers treating score as a soft gate typically compare
// against it too.
const ValidThreshold = 60

// Flat per-severity penalties.
const (
	errorPenalty    = 15
	warningPenalty  = 5
	criticalPenalty = 25
)

// Weights distributes the penalty budget across finding classes. Values
// are percentages and should sum to 100.
type Weights struct {
	Traceability int
	Structure    int
	Freshness    int
	Rules        int
}

// DefaultWeights mirrors the four-factor model: traceability dominates,
// raw rule violations matter least.
func DefaultWeights() Weights {
	return Weights{Traceability: 40, Structure: 30, Freshness: 20, Rules: 10}
}

// Valid reports the pass/fail gate: true iff no finding is Critical.
func Valid(findings []validate.Finding) bool {
	for _, f := range findings {
		if f.Severity == validate.SeverityCritical {
			return false
		}
	}
	return true
}

// Score computes the flat per-severity score: each Error subtracts 15,
// each Warning 5, each Critical 25. Any Critical additionally forces the
// score below ValidThreshold. The score floors at 0.
func Score(findings []validate.Finding) int {
	score := 100
	criticals := 0
	for _, f := range findings {
		switch f.Severity {
		case validate.SeverityCritical:
			criticals++
			score -= criticalPenalty
		case validate.SeverityError:
			score -= errorPenalty
		case validate.SeverityWarning:
			score -= warningPenalty
		}
	}
	if criticals > 0 && score >= ValidThreshold {
		score = ValidThreshold - 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

// WeightedScore refines Score by distributing penalties across finding
// classes: each class contributes at most its weight, proportionally to
// the flat penalty accumulated within the class. Criticals still force the
// score below ValidThreshold.
func WeightedScore(findings []validate.Finding, w Weights) int {
	classPenalty := make(map[validate.Class]int)
	criticals := 0
	for _, f := range findings {
		switch f.Severity {
		case validate.SeverityCritical:
			criticals++
			classPenalty[f.Class] += criticalPenalty
		case validate.SeverityError:
			classPenalty[f.Class] += errorPenalty
		case validate.SeverityWarning:
			classPenalty[f.Class] += warningPenalty
		}
	}

	score := 100
	score -= classDeduction(classPenalty[validate.ClassTraceability], w.Traceability)
	score -= classDeduction(classPenalty[validate.ClassStructure], w.Structure)
	score -= classDeduction(classPenalty[validate.ClassFreshness], w.Freshness)
	score -= classDeduction(classPenalty[validate.ClassRules], w.Rules)

	if criticals > 0 && score >= ValidThreshold {
		score = ValidThreshold - 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

// classDeduction maps an accumulated flat penalty onto a class weight. A
// class saturates once its flat penalty reaches 100.
func classDeduction(penalty, weight int) int {
	if penalty <= 0 {
		return 0
	}
	if penalty >= 100 {
		return weight
	}
	return penalty * weight / 100
}
