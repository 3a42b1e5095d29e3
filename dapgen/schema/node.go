// Package schema holds the parsed protocol definitions table.
//
// A document is decoded once into a Store of Nodes. Nodes preserve the key
// order of the source document, which the generator relies on: definitions
// are classified in source order and properties are emitted in source order.
// Nothing mutates a Node after decoding.
package schema

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// DefinitionsPrefix is the only $ref form the translator understands.
const DefinitionsPrefix = "#/definitions/"

// Node is a named or nested schema fragment.
type Node struct {
	// Type holds the primitive name ("string", "object", "array", ...).
	// When the source used a list of alternatives, TypeUnion is set and Type
	// holds every alternative in order.
	Type      []string
	TypeUnion bool

	// Ref is the raw $ref value, e.g. "#/definitions/Source".
	Ref string

	Properties Properties
	Required   []string
	Items      *Node

	// Enum is the closed "enum" restriction; OpenEnum is the "_enum" list of
	// suggested values. Values are kept in their literal text form.
	Enum     []string
	OpenEnum []string

	Description string
	Title       string
	AllOf       []*Node
}

// Property is one entry of an ordered properties table.
type Property struct {
	Name string
	Node *Node
}

// Properties is an ordered properties table.
type Properties []Property

// Get returns the named property, or nil.
func (p Properties) Get(name string) *Node {
	for _, prop := range p {
		if prop.Name == name {
			return prop.Node
		}
	}
	return nil
}

// EmptyObject returns a fresh object node with no properties.
func EmptyObject() *Node {
	return &Node{Type: []string{"object"}}
}

// Primitive returns the single type name, or "" for unions and untyped nodes.
func (n *Node) Primitive() string {
	if n == nil || n.TypeUnion || len(n.Type) != 1 {
		return ""
	}
	return n.Type[0]
}

// IsObject reports whether the node is declared as a plain object.
func (n *Node) IsObject() bool {
	return n.Primitive() == "object"
}

// IsRequired reports whether name is listed in the node's required set.
func (n *Node) IsRequired(name string) bool {
	for _, r := range n.Required {
		if r == name {
			return true
		}
	}
	return false
}

// FixedEnum returns the literal values the node is restricted to.
// The "_enum" suggestion list wins over "enum" when both are present.
func (n *Node) FixedEnum() []string {
	if len(n.OpenEnum) > 0 {
		return n.OpenEnum
	}
	return n.Enum
}

// Const returns the first enum value of the named property, the way the
// protocol pins "event" and "command" names.
func (n *Node) Const(prop string) (string, bool) {
	p := n.Properties.Get(prop)
	if p == nil || len(p.Enum) == 0 {
		return "", false
	}
	return p.Enum[0], true
}

// Base returns the first allOf member carrying a $ref, or nil.
func (n *Node) Base() *Node {
	for _, sub := range n.AllOf {
		if sub.Ref != "" {
			return sub
		}
	}
	return nil
}

// Extension returns the first allOf member without a $ref, or nil.
func (n *Node) Extension() *Node {
	for _, sub := range n.AllOf {
		if sub.Ref == "" {
			return sub
		}
	}
	return nil
}

// RefName strips the definitions prefix from ref.
func RefName(ref string) (string, error) {
	name, ok := strings.CutPrefix(ref, DefinitionsPrefix)
	if !ok || name == "" {
		return "", errors.WithHint(
			errors.Wrapf(ErrUnresolvableRef, "%q", ref),
			"only local references of the form "+DefinitionsPrefix+"<Name> are supported")
	}
	return name, nil
}
