package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// CycleError reports a cycle in the Extends graph. Catalog construction
// aborts without returning a partial catalog.
type CycleError struct {
	Chain []string // fragment names along the cycle, first repeated last
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("schema inheritance cycle: %s", strings.Join(e.Chain, " -> "))
}

// MissingParentError reports an Extends target absent from the catalog.
type MissingParentError struct {
	Fragment string
	Parent   string
}

func (e *MissingParentError) Error() string {
	return fmt.Sprintf("schema %q extends unknown schema %q", e.Fragment, e.Parent)
}

// Catalog holds a validated fragment set with every contract pre-flattened.
// A built catalog is immutable and safe for unsynchronized concurrent reads.
type Catalog struct {
	flat  map[string]*Flattened
	names []string
}

// Build validates the fragment set and flattens every contract. It fails
// fast: any cycle, missing parent, duplicate name, or invalid rule pattern
// aborts construction and no catalog is returned.
func Build(fragments []Fragment) (*Catalog, error) {
	byName := make(map[string]*Fragment, len(fragments))
	names := make([]string, 0, len(fragments))
	for i := range fragments {
		f := &fragments[i]
		if f.Name == "" {
			return nil, fmt.Errorf("schema fragment with empty name")
		}
		if _, dup := byName[f.Name]; dup {
			return nil, fmt.Errorf("duplicate schema fragment %q", f.Name)
		}
		byName[f.Name] = f
		names = append(names, f.Name)
	}

	c := &Catalog{flat: make(map[string]*Flattened, len(fragments)), names: names}
	for _, name := range names {
		flat, err := flatten(byName, name)
		if err != nil {
			return nil, err
		}
		if err := compileRules(flat); err != nil {
			return nil, err
		}
		c.flat[name] = flat
	}
	return c, nil
}

// Flatten returns the resolved contract for name.
func (c *Catalog) Flatten(name string) (*Flattened, error) {
	flat, ok := c.flat[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	return flat, nil
}

// Has reports whether the catalog contains a contract for name.
func (c *Catalog) Has(name string) bool {
	_, ok := c.flat[name]
	return ok
}

// Names returns fragment names in registration order.
func (c *Catalog) Names() []string {
	return c.names
}

// flatten walks the Extends chain root-first, unioning required fields and
// merging rules so that a descendant's rule for a field replaces the
// ancestor's. Cycle detection uses a DFS recursion set.
func flatten(byName map[string]*Fragment, name string) (*Flattened, error) {
	chain := make([]*Fragment, 0, 4)
	seen := make(map[string]bool)

	for current := name; current != ""; {
		if seen[current] {
			return nil, &CycleError{Chain: cycleChain(chain, current)}
		}
		seen[current] = true

		frag, ok := byName[current]
		if !ok {
			// Only reachable through an Extends link; the entry name is
			// checked by the caller.
			return nil, &MissingParentError{Fragment: chain[len(chain)-1].Name, Parent: current}
		}
		chain = append(chain, frag)
		current = frag.Extends
	}

	flat := &Flattened{Name: name}
	requiredSeen := make(map[string]bool)
	ruleIndex := make(map[string]int)

	// Root first so descendants override.
	for i := len(chain) - 1; i >= 0; i-- {
		frag := chain[i]
		for _, field := range frag.Required {
			if !requiredSeen[field] {
				requiredSeen[field] = true
				flat.Required = append(flat.Required, field)
			}
		}
		for _, rule := range frag.Rules {
			if at, ok := ruleIndex[rule.Field]; ok {
				flat.Rules[at] = rule
				continue
			}
			ruleIndex[rule.Field] = len(flat.Rules)
			flat.Rules = append(flat.Rules, rule)
		}
		flat.BodyChecks = append(flat.BodyChecks, frag.BodyChecks...)
	}
	return flat, nil
}

// cycleChain builds the reported cycle path ending at the repeated name.
func cycleChain(chain []*Fragment, repeated string) []string {
	names := make([]string, 0, len(chain)+1)
	start := 0
	for i, f := range chain {
		if f.Name == repeated {
			start = i
			break
		}
	}
	for _, f := range chain[start:] {
		names = append(names, f.Name)
	}
	return append(names, repeated)
}

// compileRules compiles pattern rules and sanity-checks rule shapes.
func compileRules(flat *Flattened) error {
	for i := range flat.Rules {
		rule := &flat.Rules[i]
		switch rule.Kind {
		case RulePattern:
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				return fmt.Errorf("schema %q field %q: invalid pattern: %w", flat.Name, rule.Field, err)
			}
			rule.re = re
		case RuleEnum:
			if len(rule.Enum) == 0 {
				return fmt.Errorf("schema %q field %q: enum rule with no values", flat.Name, rule.Field)
			}
		case RuleLength:
			if rule.Max > 0 && rule.Min > rule.Max {
				return fmt.Errorf("schema %q field %q: length min %d exceeds max %d", flat.Name, rule.Field, rule.Min, rule.Max)
			}
		case RuleDateFormat, RuleSemverFormat:
		default:
			return fmt.Errorf("schema %q field %q: unknown rule kind %q", flat.Name, rule.Field, rule.Kind)
		}
	}
	return nil
}
