package artifact

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Delimiter marks the start and end of a frontmatter block. The block must
// open on the first line of the document.
const Delimiter = "---"

// MalformedPreambleError reports a frontmatter block that opened with the
// delimiter but could not be decoded as flat key-value pairs. It is fatal
// for the artifact only; callers turn it into a Critical finding.
type MalformedPreambleError struct {
	Reason string
	Line   int // 1-based line within the block, 0 if unknown
}

func (e *MalformedPreambleError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed preamble at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed preamble: %s", e.Reason)
}

// Decode splits raw into a preamble and body. Documents that do not open
// with the delimiter decode to an empty preamble and the whole text as body;
// that is not an error. A delimited block that cannot be parsed returns a
// *MalformedPreambleError.
func Decode(raw string) (Preamble, string, error) {
	block, body, found := splitFrontmatter(raw)
	if !found {
		return Preamble{}, raw, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(block), &root); err != nil {
		return Preamble{}, body, &MalformedPreambleError{Reason: err.Error()}
	}

	mapping := documentMapping(&root)
	if mapping == nil {
		// An empty block between delimiters is a valid empty preamble.
		if root.Kind == 0 || len(root.Content) == 0 {
			return Preamble{}, body, nil
		}
		return Preamble{}, body, &MalformedPreambleError{
			Reason: "expected key-value pairs at block root",
			Line:   root.Line,
		}
	}

	var p Preamble
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		val := mapping.Content[i+1]
		v, err := decodeValue(val)
		if err != nil {
			return Preamble{}, body, &MalformedPreambleError{
				Reason: fmt.Sprintf("field %q: %s", key.Value, err),
				Line:   val.Line,
			}
		}
		p.add(key.Value, v)
	}
	return p, body, nil
}

// splitFrontmatter separates the frontmatter block from the body. Returns
// found=false when the document does not open with the delimiter or the
// block never closes.
func splitFrontmatter(raw string) (block, body string, found bool) {
	if raw != Delimiter && !strings.HasPrefix(raw, Delimiter+"\n") && !strings.HasPrefix(raw, Delimiter+"\r\n") {
		return "", "", false
	}

	rest := strings.TrimPrefix(raw, Delimiter)
	rest = strings.TrimPrefix(rest, "\r\n")
	rest = strings.TrimPrefix(rest, "\n")

	// The closing delimiter sits alone on its own line.
	for _, marker := range []string{"\n" + Delimiter + "\n", "\n" + Delimiter + "\r\n"} {
		if idx := strings.Index(rest, marker); idx >= 0 {
			return rest[:idx], rest[idx+len(marker):], true
		}
	}
	if strings.HasSuffix(rest, "\n"+Delimiter) {
		return rest[:len(rest)-len("\n"+Delimiter)], "", true
	}
	if rest == Delimiter || rest == "" {
		return "", "", true
	}
	return "", "", false
}

// documentMapping unwraps a document node to its root mapping, or nil.
func documentMapping(root *yaml.Node) *yaml.Node {
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == yaml.MappingNode {
		return root
	}
	return nil
}

// decodeValue converts a YAML node into the flat-plus-array value model.
// Nested mappings and non-scalar sequence items are rejected; the preamble
// model is intentionally flat.
func decodeValue(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return Value{Scalar: node.Value}, nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("array items must be scalars, got %s", kindName(item.Kind))
			}
			items = append(items, item.Value)
		}
		return Value{List: items, IsList: true}, nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %s", kindName(node.Kind))
	}
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "array"
	case yaml.MappingNode:
		return "object"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
