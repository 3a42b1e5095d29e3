package typescript

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/broady/dapgen/dapgen/schema"
)

// Mapper turns schema nodes into TypeScript type expressions.
// Every $ref it renders is pushed onto the worklist.
type Mapper struct {
	store *schema.Store
	work  *Worklist
}

// NewMapper returns a Mapper resolving references against store and
// registering them on work.
func NewMapper(store *schema.Store, work *Worklist) *Mapper {
	return &Mapper{store: store, work: work}
}

// TypeExpr returns the type expression for n.
func (m *Mapper) TypeExpr(n *schema.Node) (string, error) {
	if n == nil {
		return "", errors.Wrap(schema.ErrMalformedSchema, "missing schema node")
	}

	if values := n.FixedEnum(); len(values) > 0 {
		quoted := make([]string, len(values))
		for i, v := range values {
			quoted[i] = quoteLiteral(v)
		}
		return strings.Join(quoted, " | "), nil
	}

	if n.Ref != "" {
		name, _, err := m.store.Resolve(n.Ref)
		if err != nil {
			return "", err
		}
		m.work.Push(name)
		return name, nil
	}

	if n.TypeUnion {
		if len(n.Type) == 0 {
			return "", errors.Wrap(schema.ErrMalformedSchema, "empty type list")
		}
		parts := make([]string, len(n.Type))
		for i, alt := range n.Type {
			part, err := m.TypeExpr(&schema.Node{Type: []string{alt}})
			if err != nil {
				return "", err
			}
			parts[i] = part
		}
		return strings.Join(parts, " | "), nil
	}

	switch prim := n.Primitive(); prim {
	case "":
		return "", errors.WithHint(
			errors.Wrap(schema.ErrMalformedSchema, "node has no type, $ref, or enum"),
			"give the node a \"type\" or point it at a definition with \"$ref\"")
	case "array":
		if n.Items == nil {
			return "any[]", nil
		}
		elem, err := m.TypeExpr(n.Items)
		if err != nil {
			return "", errors.Wrap(err, "array items")
		}
		if strings.Contains(elem, " | ") {
			elem = "(" + elem + ")"
		}
		return elem + "[]", nil
	case "integer":
		return "number", nil
	default:
		return prim, nil
	}
}

// quoteLiteral renders an enum value as a single-quoted string literal.
func quoteLiteral(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
