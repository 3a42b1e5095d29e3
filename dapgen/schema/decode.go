package schema

import (
	"bytes"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
)

// Format selects the document decoder.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	default:
		return "json"
	}
}

// FormatFromPath picks a format from a file name or URL path.
// Anything that is not .yaml or .yml is treated as JSON.
func FormatFromPath(p string) Format {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a document with a top-level "definitions" table.
func Parse(data []byte, format Format) (*Store, error) {
	var (
		root *value
		err  error
	)
	switch format {
	case FormatYAML:
		root, err = decodeYAML(data)
	default:
		root, err = decodeJSON(bytes.NewReader(data))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s document", format)
	}
	return storeFromValue(root)
}

// valueKind tags the generic decoded tree. Objects keep member order.
type valueKind int

const (
	kindNull valueKind = iota
	kindBool
	kindNumber
	kindString
	kindArray
	kindObject
)

type value struct {
	kind    valueKind
	text    string // string contents, number literal, or "true"/"false"
	items   []*value
	members []member
}

type member struct {
	key string
	val *value
}

func (v *value) get(key string) *value {
	for _, m := range v.members {
		if m.key == key {
			return m.val
		}
	}
	return nil
}

// decodeJSON reads one JSON document token by token so object key order
// survives, which a map-based Unmarshal would lose.
func decodeJSON(r io.Reader) (*value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := readJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, errors.New("unexpected data after top-level value")
		}
		return nil, err
	}
	return v, nil
}

func readJSONValue(dec *json.Decoder) (*value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			v := &value{kind: kindObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, errors.Newf("object key is %T, not a string", keyTok)
				}
				val, err := readJSONValue(dec)
				if err != nil {
					return nil, errors.Wrapf(err, "at key %q", key)
				}
				v.members = append(v.members, member{key: key, val: val})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return v, nil
		case '[':
			v := &value{kind: kindArray}
			for dec.More() {
				item, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				v.items = append(v.items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return v, nil
		default:
			return nil, errors.Newf("unexpected delimiter %q", rune(t))
		}
	case string:
		return &value{kind: kindString, text: t}, nil
	case json.Number:
		return &value{kind: kindNumber, text: t.String()}, nil
	case bool:
		if t {
			return &value{kind: kindBool, text: "true"}, nil
		}
		return &value{kind: kindBool, text: "false"}, nil
	case nil:
		return &value{kind: kindNull, text: "null"}, nil
	default:
		return nil, errors.Newf("unexpected token %T", tok)
	}
}

func storeFromValue(root *value) (*Store, error) {
	if root.kind != kindObject {
		return nil, malformed("document", "top-level value is not an object")
	}
	defs := root.get("definitions")
	if defs == nil {
		return nil, errors.WithHint(
			malformed("document", "no definitions table"),
			"the document must carry a top-level \"definitions\" object")
	}
	if defs.kind != kindObject {
		return nil, malformed("definitions", "not an object")
	}
	store := NewStore()
	for _, m := range defs.members {
		n, err := nodeFromValue(m.val, m.key)
		if err != nil {
			return nil, err
		}
		store.Add(m.key, n)
	}
	return store, nil
}

func nodeFromValue(v *value, at string) (*Node, error) {
	if v.kind != kindObject {
		return nil, malformed(at, "schema node is not an object")
	}
	n := &Node{}
	for _, m := range v.members {
		where := at + "." + m.key
		var err error
		switch m.key {
		case "type":
			switch m.val.kind {
			case kindString:
				n.Type = []string{m.val.text}
			case kindArray:
				n.TypeUnion = true
				n.Type, err = stringList(m.val, where)
			default:
				err = malformed(where, "must be a string or a list of strings")
			}
		case "$ref":
			if m.val.kind != kindString {
				err = malformed(where, "must be a string")
			}
			n.Ref = m.val.text
		case "properties":
			n.Properties, err = propertiesFromValue(m.val, at)
		case "required":
			n.Required, err = stringList(m.val, where)
		case "items":
			n.Items, err = nodeFromValue(m.val, where)
		case "enum":
			n.Enum, err = literalList(m.val, where)
		case "_enum":
			n.OpenEnum, err = literalList(m.val, where)
		case "description":
			n.Description = m.val.text
		case "title":
			n.Title = m.val.text
		case "allOf":
			if m.val.kind != kindArray {
				err = malformed(where, "must be a list")
				break
			}
			for i, item := range m.val.items {
				sub, subErr := nodeFromValue(item, where+"["+strconv.Itoa(i)+"]")
				if subErr != nil {
					err = subErr
					break
				}
				n.AllOf = append(n.AllOf, sub)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}

func propertiesFromValue(v *value, at string) (Properties, error) {
	if v.kind != kindObject {
		return nil, malformed(at+".properties", "must be an object")
	}
	props := make(Properties, 0, len(v.members))
	for _, m := range v.members {
		n, err := nodeFromValue(m.val, at+".properties."+m.key)
		if err != nil {
			return nil, err
		}
		props = append(props, Property{Name: m.key, Node: n})
	}
	return props, nil
}

func stringList(v *value, at string) ([]string, error) {
	if v.kind != kindArray {
		return nil, malformed(at, "must be a list of strings")
	}
	out := make([]string, 0, len(v.items))
	for _, item := range v.items {
		if item.kind != kindString {
			return nil, malformed(at, "must be a list of strings")
		}
		out = append(out, item.text)
	}
	return out, nil
}

func literalList(v *value, at string) ([]string, error) {
	if v.kind != kindArray {
		return nil, malformed(at, "must be a list")
	}
	out := make([]string, 0, len(v.items))
	for _, item := range v.items {
		if item.kind == kindArray || item.kind == kindObject {
			return nil, malformed(at, "values must be scalars")
		}
		out = append(out, item.text)
	}
	return out, nil
}
