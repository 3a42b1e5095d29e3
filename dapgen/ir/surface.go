// Package ir classifies protocol definitions into the client-facing API
// surface: event emitters, request handler registrations, and the synthetic
// stub shapes their signatures name.
package ir

import (
	"sort"

	"github.com/broady/dapgen/dapgen/schema"
)

// Well-known definition names the classifier keys on.
const (
	EventBase   = "Event"
	RequestBase = "Request"

	// ReverseRequestsTitle marks requests sent from the adapter to the
	// client. They are not part of the client-facing surface.
	ReverseRequestsTitle = "Reverse Requests"
)

// Method is one entry of the aggregate Api interface.
type Method struct {
	Kind MessageKind

	// Definition is the source definition name, e.g. "StoppedEvent".
	Definition string

	// Wire is the protocol name: the event name or the request command.
	Wire string

	// Symbol is the capitalised command used to name request stubs.
	// Empty for events.
	Symbol string

	Doc string

	// ParamsType and ResultType name the stubs in the signature.
	// ResultType is empty for events.
	ParamsType string
	ResultType string
}

// Stub is a synthetic declaration for a message's parameters or result.
type Stub struct {
	Kind StubKind
	Name string

	// Source is the definition the stub was derived from.
	Source string

	// Shape is the object whose properties become the stub's members.
	// $ref chains have already been followed.
	Shape *schema.Node
}

// Surface is the result of classification.
type Surface struct {
	Methods []Method
	Stubs   []Stub

	// Kinds records the classification of every definition with an allOf
	// base; anything absent is KindPlain.
	Kinds map[string]MessageKind
}

// KindOf returns the classification of a definition.
func (s *Surface) KindOf(name string) MessageKind {
	if k, ok := s.Kinds[name]; ok {
		return k
	}
	return KindPlain
}

// Events returns the event methods in surface order.
func (s *Surface) Events() []Method {
	return s.filter(KindEvent)
}

// Requests returns the request registrations in surface order.
func (s *Surface) Requests() []Method {
	return s.filter(KindRequest)
}

func (s *Surface) filter(kind MessageKind) []Method {
	var out []Method
	for _, m := range s.Methods {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// sortStubs orders stubs by name. Equal names keep classification order.
func sortStubs(stubs []Stub) {
	sort.SliceStable(stubs, func(i, j int) bool {
		return stubs[i].Name < stubs[j].Name
	})
}
