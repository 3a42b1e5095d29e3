package schema

import (
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// decodeYAML decodes through yaml.Node rather than map[string]any so mapping
// order is preserved.
func decodeYAML(data []byte) (*value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty YAML document")
	}
	return valueFromYAML(doc.Content[0], 0)
}

// maxAliasDepth bounds alias expansion so a self-referencing anchor cannot
// recurse forever.
const maxAliasDepth = 64

func valueFromYAML(n *yaml.Node, depth int) (*value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		if depth >= maxAliasDepth {
			return nil, errors.Newf("line %d: alias nesting too deep", n.Line)
		}
		return valueFromYAML(n.Alias, depth+1)
	case yaml.MappingNode:
		v := &value{kind: kindObject}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, errors.Newf("line %d: mapping key is not a scalar", key.Line)
			}
			val, err := valueFromYAML(n.Content[i+1], depth)
			if err != nil {
				return nil, err
			}
			v.members = append(v.members, member{key: key.Value, val: val})
		}
		return v, nil
	case yaml.SequenceNode:
		v := &value{kind: kindArray}
		for _, c := range n.Content {
			item, err := valueFromYAML(c, depth)
			if err != nil {
				return nil, err
			}
			v.items = append(v.items, item)
		}
		return v, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return &value{kind: kindNull, text: "null"}, nil
		case "!!bool":
			return &value{kind: kindBool, text: n.Value}, nil
		case "!!int", "!!float":
			return &value{kind: kindNumber, text: n.Value}, nil
		default:
			return &value{kind: kindString, text: n.Value}, nil
		}
	default:
		return nil, errors.Newf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}
