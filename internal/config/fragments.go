package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/schoolboyqueue/docgate/internal/schema"
)

// fragmentDoc mirrors a schema fragment YAML file on disk.
type fragmentDoc struct {
	Name       string         `yaml:"name"`
	Extends    string         `yaml:"extends"`
	Required   []string       `yaml:"required"`
	Rules      []ruleDoc      `yaml:"rules"`
	BodyChecks []bodyCheckDoc `yaml:"body_checks"`
}

type ruleDoc struct {
	Field   string   `yaml:"field"`
	Kind    string   `yaml:"kind"`
	Enum    []string `yaml:"enum"`
	Pattern string   `yaml:"pattern"`
	Min     int      `yaml:"min"`
	Max     int      `yaml:"max"`
}

type bodyCheckDoc struct {
	Name        string `yaml:"name"`
	MustContain string `yaml:"must_contain"`
}

// LoadFragments reads every .yaml/.yml file under dir as a schema fragment
// definition. Files load in sorted name order so catalog construction is
// deterministic. Rule kinds are checked later, at catalog build time.
func LoadFragments(dir string) ([]schema.Fragment, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading schema dir %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".yaml") || strings.HasSuffix(entry.Name(), ".yml") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	fragments := make([]schema.Fragment, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		frag, err := loadFragment(path)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, frag)
	}
	return fragments, nil
}

func loadFragment(path string) (schema.Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Fragment{}, fmt.Errorf("reading schema fragment %s: %w", path, err)
	}

	var doc fragmentDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return schema.Fragment{}, fmt.Errorf("parsing schema fragment %s: %w", path, err)
	}
	if doc.Name == "" {
		return schema.Fragment{}, fmt.Errorf("schema fragment %s has no name", path)
	}

	frag := schema.Fragment{
		Name:     doc.Name,
		Extends:  doc.Extends,
		Required: doc.Required,
	}
	for _, r := range doc.Rules {
		frag.Rules = append(frag.Rules, schema.FieldRule{
			Field:   r.Field,
			Kind:    schema.RuleKind(r.Kind),
			Enum:    r.Enum,
			Pattern: r.Pattern,
			Min:     r.Min,
			Max:     r.Max,
		})
	}
	for _, c := range doc.BodyChecks {
		frag.BodyChecks = append(frag.BodyChecks, schema.BodyCheck{Name: c.Name, MustContain: c.MustContain})
	}
	return frag, nil
}
