package ir

import (
	"sort"

	json "github.com/goccy/go-json"
)

// Manifest is a machine-readable summary of one generation run.
// It lists the same surface the declaration file renders, in the same order.
type Manifest struct {
	Source    string `json:"source,omitempty"`
	Namespace string `json:"namespace"`

	Events   []ManifestEvent   `json:"events"`
	Requests []ManifestRequest `json:"requests"`
	Stubs    []ManifestStub    `json:"stubs"`

	// Types lists plain types in emission order.
	Types []string `json:"types"`

	// ReverseRequests lists requests left out of the surface.
	ReverseRequests []string `json:"reverseRequests,omitempty"`
}

// ManifestEvent describes one event emitter.
type ManifestEvent struct {
	Event      string `json:"event"`
	Definition string `json:"definition"`
	Params     string `json:"params"`
}

// ManifestRequest describes one request handler registration.
type ManifestRequest struct {
	Command    string `json:"command"`
	Definition string `json:"definition"`
	Params     string `json:"params"`
	Result     string `json:"result"`
}

// ManifestStub describes one synthetic stub.
type ManifestStub struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Source string `json:"source"`
}

// NewManifest summarises a surface and the plain types emitted for it.
func NewManifest(s *Surface, namespace string, types []string) *Manifest {
	m := &Manifest{
		Namespace: namespace,
		Events:    []ManifestEvent{},
		Requests:  []ManifestRequest{},
		Stubs:     make([]ManifestStub, 0, len(s.Stubs)),
		Types:     append([]string{}, types...),
	}
	for _, meth := range s.Methods {
		switch meth.Kind {
		case KindEvent:
			m.Events = append(m.Events, ManifestEvent{
				Event:      meth.Wire,
				Definition: meth.Definition,
				Params:     meth.ParamsType,
			})
		case KindRequest:
			m.Requests = append(m.Requests, ManifestRequest{
				Command:    meth.Wire,
				Definition: meth.Definition,
				Params:     meth.ParamsType,
				Result:     meth.ResultType,
			})
		}
	}
	for _, st := range s.Stubs {
		m.Stubs = append(m.Stubs, ManifestStub{Name: st.Name, Kind: st.Kind.String(), Source: st.Source})
	}
	for name, kind := range s.Kinds {
		if kind == KindReverseRequest {
			m.ReverseRequests = append(m.ReverseRequests, name)
		}
	}
	sort.Strings(m.ReverseRequests)
	return m
}

// Marshal encodes the manifest as indented JSON with a trailing newline.
func (m *Manifest) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
