package config

import (
	"fmt"
	"strings"

	"github.com/schoolboyqueue/docgate/internal/classify"
	"github.com/schoolboyqueue/docgate/internal/xref"
)

// CompileRules turns rule configs into compiled classification rules,
// preserving config order. Order is significant: first match wins.
func CompileRules(configs []RuleConfig) ([]classify.PathRule, error) {
	rules := make([]classify.PathRule, 0, len(configs))
	for i, rc := range configs {
		category, err := classify.Parse(rc.Category)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rule, err := classify.NewPathRule(rc.Pattern, category, rc.Substring)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// CompileContracts turns contract configs into reference contracts. The
// extractor spec selects the extraction strategy:
//
//	preamble:<field>  identifiers from one preamble field
//	body:<regex>      identifiers matched anywhere in the body
func CompileContracts(configs []ContractConfig) ([]xref.Contract, error) {
	contracts := make([]xref.Contract, 0, len(configs))
	for i, cc := range configs {
		producer, err := classify.Parse(cc.Producer)
		if err != nil {
			return nil, fmt.Errorf("contract %d: %w", i, err)
		}
		target, err := classify.Parse(cc.Target)
		if err != nil {
			return nil, fmt.Errorf("contract %d: %w", i, err)
		}
		extractor, err := parseExtractor(cc.Extractor)
		if err != nil {
			return nil, fmt.Errorf("contract %d: %w", i, err)
		}
		contracts = append(contracts, xref.Contract{
			Producer:      producer,
			Extractor:     extractor,
			Target:        target,
			TargetIDField: cc.TargetIDField,
		})
	}
	return contracts, nil
}

func parseExtractor(spec string) (xref.Extractor, error) {
	kind, arg, found := strings.Cut(spec, ":")
	if !found || arg == "" {
		return nil, fmt.Errorf("invalid extractor %q (want preamble:<field> or body:<regex>)", spec)
	}
	switch kind {
	case "preamble":
		return xref.PreambleFieldExtractor{Field: arg}, nil
	case "body":
		return xref.NewBodyPatternExtractor(arg)
	default:
		return nil, fmt.Errorf("unknown extractor kind %q in %q", kind, spec)
	}
}
