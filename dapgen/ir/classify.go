package ir

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/broady/dapgen/dapgen/schema"
)

// ClassifyOptions adjusts classification.
type ClassifyOptions struct {
	// IncludeReverseRequests classifies "Reverse Requests" as ordinary
	// requests instead of leaving them out of the surface.
	IncludeReverseRequests bool
}

// Classify walks the definitions in document order and builds the API
// surface. Stubs are returned sorted by name.
func Classify(store *schema.Store, opts ClassifyOptions) (*Surface, error) {
	s := &Surface{Kinds: make(map[string]MessageKind)}

	eventRef := schema.DefinitionsPrefix + EventBase
	requestRef := schema.DefinitionsPrefix + RequestBase

	for _, name := range store.Names() {
		def, _ := store.Lookup(name)
		if len(def.AllOf) == 0 {
			continue
		}
		base := def.Base()
		if base == nil {
			continue
		}

		var err error
		switch base.Ref {
		case eventRef:
			err = s.addEvent(store, name, def)
		case requestRef:
			ext := def.Extension()
			if ext != nil && ext.Title == ReverseRequestsTitle && !opts.IncludeReverseRequests {
				s.Kinds[name] = KindReverseRequest
				continue
			}
			err = s.addRequest(store, name, def)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "definition %s", name)
		}
	}

	sortStubs(s.Stubs)
	return s, nil
}

func (s *Surface) addEvent(store *schema.Store, name string, def *schema.Node) error {
	ext := def.Extension()
	if ext == nil {
		return errors.Wrap(schema.ErrMalformedSchema, "event has no inline extension")
	}
	event, ok := ext.Const("event")
	if !ok {
		return errors.WithHint(
			errors.Wrap(schema.ErrMalformedSchema, "event has no fixed event name"),
			`an event extension needs "properties": {"event": {"enum": ["<name>"]}}`)
	}

	shape := schema.EmptyObject()
	if body := ext.Properties.Get("body"); body != nil {
		var err error
		if shape, err = store.Follow(body); err != nil {
			return errors.Wrap(err, "event body")
		}
	}

	params := name + "Params"
	s.Kinds[name] = KindEvent
	s.Methods = append(s.Methods, Method{
		Kind:       KindEvent,
		Definition: name,
		Wire:       event,
		Doc:        ext.Description,
		ParamsType: params,
	})
	s.Stubs = append(s.Stubs, Stub{Kind: StubEventParams, Name: params, Source: name, Shape: shape})
	return nil
}

func (s *Surface) addRequest(store *schema.Store, name string, def *schema.Node) error {
	ext := def.Extension()
	if ext == nil {
		return errors.Wrap(schema.ErrMalformedSchema, "request has no inline extension")
	}
	command, ok := ext.Const("command")
	if !ok || command == "" {
		return errors.WithHint(
			errors.Wrap(schema.ErrMalformedSchema, "request has no fixed command"),
			`a request extension needs "properties": {"command": {"enum": ["<command>"]}}`)
	}
	symbol := titleCase(command)

	params, err := argumentsShape(store, ext)
	if err != nil {
		return err
	}
	result, err := resultShape(store, name)
	if err != nil {
		return err
	}

	m := Method{
		Kind:       KindRequest,
		Definition: name,
		Wire:       command,
		Symbol:     symbol,
		Doc:        ext.Description,
		ParamsType: symbol + "Params",
		ResultType: symbol + "Result",
	}
	s.Kinds[name] = KindRequest
	s.Methods = append(s.Methods, m)
	s.Stubs = append(s.Stubs,
		Stub{Kind: StubParams, Name: m.ParamsType, Source: name, Shape: params},
		Stub{Kind: StubResult, Name: m.ResultType, Source: name, Shape: result},
	)
	return nil
}

// argumentsShape returns the request's arguments object: the referenced
// definition, an inline object, or an empty shape when there are none.
func argumentsShape(store *schema.Store, ext *schema.Node) (*schema.Node, error) {
	args := ext.Properties.Get("arguments")
	if args == nil {
		return schema.EmptyObject(), nil
	}
	shape, err := store.Follow(args)
	if err != nil {
		return nil, errors.Wrap(err, "request arguments")
	}
	return shape, nil
}

// resultShape finds the body of the Response matching a Request definition.
func resultShape(store *schema.Store, requestName string) (*schema.Node, error) {
	prefix, ok := strings.CutSuffix(requestName, RequestBase)
	if !ok {
		return nil, errors.Wrapf(schema.ErrMalformedSchema,
			"request definition name %q does not end in %q", requestName, RequestBase)
	}
	responseName := prefix + "Response"
	resp, ok := store.Lookup(responseName)
	if !ok {
		return nil, errors.WithHintf(
			errors.Wrapf(schema.ErrMalformedSchema, "no %s definition", responseName),
			"every request needs a matching response named %s", responseName)
	}
	ext := resp.Extension()
	if ext == nil {
		return nil, errors.Wrapf(schema.ErrMalformedSchema, "%s has no inline extension", responseName)
	}
	body := ext.Properties.Get("body")
	if body == nil {
		return schema.EmptyObject(), nil
	}
	shape, err := store.Follow(body)
	if err != nil {
		return nil, errors.Wrapf(err, "%s body", responseName)
	}
	return shape, nil
}

// titleCase upper-cases the first letter and leaves the rest alone.
func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
