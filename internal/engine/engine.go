// Package engine orchestrates the validation core: decode, classify,
// validate, resolve cross-references, and score, per artifact and across a
// whole artifact set.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/schoolboyqueue/docgate/internal/artifact"
	"github.com/schoolboyqueue/docgate/internal/classify"
	"github.com/schoolboyqueue/docgate/internal/health"
	"github.com/schoolboyqueue/docgate/internal/schema"
	"github.com/schoolboyqueue/docgate/internal/validate"
	"github.com/schoolboyqueue/docgate/internal/xref"
)

// Result is the validation outcome for one artifact. Valid is true iff no
// finding is Critical; Score is the independent 0-100 health metric.
type Result struct {
	Valid    bool
	Score    int
	Category classify.Category
	Findings []validate.Finding
	Counts   map[string]int
}

// Engine wires the validation core together. It owns the schema catalog
// for the run; artifacts are borrowed and never mutated. An Engine is safe
// for concurrent use once constructed.
type Engine struct {
	catalog   *schema.Catalog
	rules     []classify.PathRule
	contracts []xref.Contract

	maxParallel         int
	allowMissingTargets bool
	weights             health.Weights
	weighted            bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxParallel bounds the worker pool for ValidateAll.
func WithMaxParallel(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxParallel = n
		}
	}
}

// WithAllowMissingTargets downgrades missing reference targets from
// Critical to Warning, for staged snapshots.
func WithAllowMissingTargets(allow bool) Option {
	return func(e *Engine) {
		e.allowMissingTargets = allow
	}
}

// WithWeights switches scoring from the flat per-severity model to the
// weighted class model.
func WithWeights(w health.Weights) Option {
	return func(e *Engine) {
		e.weights = w
		e.weighted = true
	}
}

// New constructs an Engine. Each category produced by the rule list (and
// the general fallback) must have a contract in the catalog.
func New(catalog *schema.Catalog, rules []classify.PathRule, contracts []xref.Contract, opts ...Option) (*Engine, error) {
	e := &Engine{
		catalog:     catalog,
		rules:       rules,
		contracts:   contracts,
		maxParallel: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if !catalog.Has(string(classify.CategoryGeneral)) {
		return nil, fmt.Errorf("catalog has no schema for the %q fallback category", classify.CategoryGeneral)
	}
	for _, rule := range rules {
		if !catalog.Has(string(rule.Category)) {
			return nil, fmt.Errorf("path rule %q maps to category %q with no schema in the catalog", rule.Pattern(), rule.Category)
		}
	}
	return e, nil
}

// decoded is the barrier product: an artifact with its preamble, body, and
// category fixed before any validation or resolution runs.
type decoded struct {
	art       artifact.Artifact
	preamble  artifact.Preamble
	body      string
	category  classify.Category
	decodeErr error
}

// Validate runs the full pipeline for one artifact. Siblings participate
// only through cross-reference resolution and are never mutated.
func (e *Engine) Validate(a artifact.Artifact, siblings []artifact.Artifact) Result {
	d := e.decodeAndClassify(a)
	pool := make([]xref.Sibling, 0, len(siblings))
	for _, s := range siblings {
		sd := e.decodeAndClassify(s)
		pool = append(pool, xref.Sibling{Path: sd.art.Path, Category: sd.category, Preamble: &sd.preamble})
	}
	return e.finish(d, pool)
}

// ValidateAll validates every artifact against the set. Decode and
// classification complete for the whole set first; validation and
// cross-reference resolution then run concurrently per artifact over a
// bounded pool. Results are independent of processing order.
func (e *Engine) ValidateAll(ctx context.Context, artifacts []artifact.Artifact) (map[string]Result, error) {
	all := make([]decoded, len(artifacts))
	for i, a := range artifacts {
		all[i] = e.decodeAndClassify(a)
	}

	results := make(map[string]Result, len(all))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxParallel)
	for i := range all {
		d := &all[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := e.finish(*d, siblingPool(all, d))
			mu.Lock()
			results[d.art.Path] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// decodeAndClassify is the pure per-artifact prefix of the pipeline.
func (e *Engine) decodeAndClassify(a artifact.Artifact) decoded {
	p, body, err := artifact.Decode(a.Raw)
	return decoded{
		art:       a,
		preamble:  p,
		body:      body,
		category:  classify.Classify(a.Path, e.rules),
		decodeErr: err,
	}
}

// siblingPool builds the read-only sibling view for one producer,
// excluding the producer itself.
func siblingPool(all []decoded, self *decoded) []xref.Sibling {
	pool := make([]xref.Sibling, 0, len(all)-1)
	for i := range all {
		d := &all[i]
		if d == self {
			continue
		}
		pool = append(pool, xref.Sibling{Path: d.art.Path, Category: d.category, Preamble: &d.preamble})
	}
	return pool
}

// finish runs validation, cross-reference resolution, and scoring for one
// decoded artifact.
func (e *Engine) finish(d decoded, siblings []xref.Sibling) Result {
	var findings []validate.Finding

	if d.decodeErr != nil {
		findings = append(findings, validate.Finding{
			Message:  d.decodeErr.Error(),
			Hint:     "Fix the frontmatter block so it parses as flat key-value pairs",
			Severity: validate.SeverityCritical,
			Class:    validate.ClassStructure,
		})
	} else {
		// The fallback schema is guaranteed at construction; a missing
		// category schema cannot happen past New.
		flat, err := e.catalog.Flatten(string(d.category))
		if err != nil {
			flat, _ = e.catalog.Flatten(string(classify.CategoryGeneral))
		}
		findings = append(findings, validate.Validate(&d.preamble, d.body, flat)...)

		for _, contract := range e.contracts {
			if contract.Producer != d.category {
				continue
			}
			findings = append(findings, xref.Resolve(&d.preamble, d.body, siblings, contract, xref.Options{
				AllowMissingTargets: e.allowMissingTargets,
			})...)
		}
	}

	score := 0
	if e.weighted {
		score = health.WeightedScore(findings, e.weights)
	} else {
		score = health.Score(findings)
	}

	return Result{
		Valid:    health.Valid(findings),
		Score:    score,
		Category: d.category,
		Findings: findings,
		Counts:   countFindings(&d, findings),
	}
}

// countFindings assembles the summary counters attached to a Result.
func countFindings(d *decoded, findings []validate.Finding) map[string]int {
	counts := map[string]int{
		"fields":   d.preamble.Len(),
		"findings": len(findings),
	}
	for _, f := range findings {
		counts[f.Severity.String()]++
	}
	return counts
}
