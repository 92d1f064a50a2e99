// Package artifact provides the input model for the validation core: a raw
// text artifact and its decoded frontmatter preamble.
package artifact

// Artifact is one document in a validation run. It is read-only input; the
// engine never mutates it.
type Artifact struct {
	Path string // tree-relative path, used for classification
	Raw  string // full file contents including any frontmatter block
}

// Value is a preamble field value: a scalar or an ordered list of scalars.
// Scalars keep their source text form, so numbers and booleans compare as
// written ("3", "true").
type Value struct {
	Scalar string
	List   []string
	IsList bool
}

// Members returns the value as a membership slice: the list itself for list
// values, or a single-element slice for scalars.
func (v Value) Members() []string {
	if v.IsList {
		return v.List
	}
	return []string{v.Scalar}
}

// Field is a named preamble entry. Order of fields matches source order.
type Field struct {
	Name  string
	Value Value
}

// Preamble is the decoded frontmatter block: an ordered field list with
// name lookup. The zero value is an empty preamble.
type Preamble struct {
	fields []Field
	index  map[string]int
}

// Get returns the value for name and whether it was present.
func (p *Preamble) Get(name string) (Value, bool) {
	i, ok := p.index[name]
	if !ok {
		return Value{}, false
	}
	return p.fields[i].Value, true
}

// Has reports whether the preamble contains name.
func (p *Preamble) Has(name string) bool {
	_, ok := p.index[name]
	return ok
}

// Fields returns the fields in source order.
func (p *Preamble) Fields() []Field {
	return p.fields
}

// Len returns the number of fields.
func (p *Preamble) Len() int {
	return len(p.fields)
}

func (p *Preamble) add(name string, v Value) {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if i, ok := p.index[name]; ok {
		// Last occurrence wins, position is kept.
		p.fields[i].Value = v
		return
	}
	p.index[name] = len(p.fields)
	p.fields = append(p.fields, Field{Name: name, Value: v})
}
