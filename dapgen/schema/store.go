package schema

import "github.com/cockroachdb/errors"

// Store is the definitions table of one document, read-only once built.
type Store struct {
	names []string
	defs  map[string]*Node
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{defs: make(map[string]*Node)}
}

// Add appends a definition. A repeated name keeps its first position and
// takes the latest node.
func (s *Store) Add(name string, n *Node) {
	if _, ok := s.defs[name]; !ok {
		s.names = append(s.names, name)
	}
	s.defs[name] = n
}

// Names returns definition names in document order.
func (s *Store) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of definitions.
func (s *Store) Len() int { return len(s.names) }

// Lookup returns the definition with the given name.
func (s *Store) Lookup(name string) (*Node, bool) {
	n, ok := s.defs[name]
	return n, ok
}

// Resolve turns a $ref into its definition name and node.
func (s *Store) Resolve(ref string) (string, *Node, error) {
	name, err := RefName(ref)
	if err != nil {
		return "", nil, err
	}
	n, ok := s.defs[name]
	if !ok {
		return "", nil, errors.Wrapf(ErrUnresolvableRef, "%q names no definition", ref)
	}
	return name, n, nil
}

// Follow chases $ref links starting at n until it reaches a node without
// one. A chain that revisits a definition is reported instead of looping.
func (s *Store) Follow(n *Node) (*Node, error) {
	visited := make(map[string]bool)
	for n.Ref != "" {
		name, next, err := s.Resolve(n.Ref)
		if err != nil {
			return nil, err
		}
		if visited[name] {
			return nil, errors.WithHint(
				errors.Wrapf(ErrUnresolvableRef, "cyclic $ref chain through %s", name),
				"a $ref chain must end in an object or primitive definition")
		}
		visited[name] = true
		n = next
	}
	return n, nil
}
