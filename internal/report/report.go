// Package report renders validation results for the terminal. It is a
// consumer of the validation core, not part of it.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/schoolboyqueue/docgate/internal/engine"
	"github.com/schoolboyqueue/docgate/internal/validate"
)

// Summary aggregates a whole run for the exit decision.
type Summary struct {
	Artifacts int
	Invalid   int
	Findings  int
	MinScore  int
}

// Gate reports whether the run passes the hard gate (no invalid artifacts).
func (s Summary) Gate() bool {
	return s.Invalid == 0
}

// Write renders every result in path order and returns the run summary.
func Write(out io.Writer, results map[string]engine.Result) Summary {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	paths := make([]string, 0, len(results))
	for path := range results {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	summary := Summary{Artifacts: len(paths), MinScore: 100}
	for _, path := range paths {
		res := results[path]
		summary.Findings += len(res.Findings)
		if res.Score < summary.MinScore {
			summary.MinScore = res.Score
		}

		if res.Valid && len(res.Findings) == 0 {
			fmt.Fprintf(out, "%s %s [%s] score %d\n", green("✓"), path, res.Category, res.Score)
			continue
		}
		if res.Valid {
			fmt.Fprintf(out, "%s %s [%s] score %d, %d finding(s)\n", yellow("•"), path, res.Category, res.Score, len(res.Findings))
		} else {
			summary.Invalid++
			fmt.Fprintf(out, "%s %s [%s] score %d, %d finding(s)\n", red("✗"), path, res.Category, res.Score, len(res.Findings))
		}

		for _, f := range res.Findings {
			fmt.Fprintf(out, "    %s %s\n", severityTag(f.Severity), findingLine(f))
			if f.Hint != "" {
				fmt.Fprintf(out, "      %s %s\n", yellow("Hint:"), f.Hint)
			}
		}
	}

	if summary.Artifacts == 0 {
		summary.MinScore = 0
		fmt.Fprintln(out, "no artifacts to validate")
		return summary
	}

	fmt.Fprintf(out, "\n%d artifact(s), %d invalid, %d finding(s), lowest score %d\n",
		summary.Artifacts, summary.Invalid, summary.Findings, summary.MinScore)
	return summary
}

func severityTag(s validate.Severity) string {
	switch s {
	case validate.SeverityCritical:
		return color.New(color.FgRed, color.Bold).Sprintf("[%s]", s)
	case validate.SeverityError:
		return color.New(color.FgRed).Sprintf("[%s]", s)
	case validate.SeverityWarning:
		return color.New(color.FgYellow).Sprintf("[%s]", s)
	default:
		return fmt.Sprintf("[%s]", s)
	}
}

func findingLine(f validate.Finding) string {
	if f.Field != "" {
		return fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return f.Message
}
