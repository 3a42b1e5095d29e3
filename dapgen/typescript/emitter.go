package typescript

import (
	"bytes"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/broady/dapgen/dapgen/ir"
	"github.com/broady/dapgen/dapgen/schema"
)

const (
	memberIndent   = "  "   // declarations inside the namespace
	propertyIndent = "    " // members of an interface
)

// Emitter renders declarations into a buffer.
type Emitter struct {
	mapper *Mapper
}

// separator writes one blank line before every sibling but the first.
type separator struct {
	started bool
}

func (s *separator) next(buf *bytes.Buffer) {
	if s.started {
		buf.WriteString("\n")
	}
	s.started = true
}

// emitDoc writes a doc comment block, one comment line per source line.
// Lines are kept verbatim, including empty ones.
func (e *Emitter) emitDoc(buf *bytes.Buffer, text, indent string) {
	if text == "" {
		return
	}
	buf.WriteString(indent)
	buf.WriteString("/**\n")
	for _, line := range strings.Split(text, "\n") {
		buf.WriteString(indent)
		buf.WriteString(" * ")
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	buf.WriteString(indent)
	buf.WriteString(" */\n")
}

// EmitAPI writes the aggregate Api interface.
func (e *Emitter) EmitAPI(buf *bytes.Buffer, methods []ir.Method) {
	buf.WriteString(memberIndent)
	buf.WriteString("export interface Api {\n")
	var sep separator
	for _, m := range methods {
		sep.next(buf)
		e.emitDoc(buf, m.Doc, propertyIndent)
		buf.WriteString(propertyIndent)
		buf.WriteString(methodSignature(m))
		buf.WriteString("\n")
	}
	buf.WriteString(memberIndent)
	buf.WriteString("}\n")
}

func methodSignature(m ir.Method) string {
	switch m.Kind {
	case ir.KindEvent:
		return m.Wire + "(params: " + m.ParamsType + "): void;"
	default:
		return "on(request: " + quoteLiteral(m.Wire) + ", handler: (params: " + m.ParamsType +
			") => Promise<" + m.ResultType + ">): void;"
	}
}

// EmitStub writes a stub interface. Stubs carry no doc comment.
func (e *Emitter) EmitStub(buf *bytes.Buffer, st ir.Stub) error {
	if err := e.emitInterface(buf, st.Name, nil, st.Shape); err != nil {
		return errors.Wrapf(err, "stub %s", st.Name)
	}
	return nil
}

// EmitDefinition writes a referenced plain definition as an interface or a
// type alias.
func (e *Emitter) EmitDefinition(buf *bytes.Buffer, name string, def *schema.Node) error {
	switch {
	case def.IsObject():
		e.emitDoc(buf, def.Description, memberIndent)
		return e.emitInterface(buf, name, nil, def)

	case len(def.Type) == 0 && def.Ref == "" && len(def.AllOf) > 0:
		return e.emitComposition(buf, name, def)

	default:
		expr, err := e.mapper.TypeExpr(def)
		if err != nil {
			return errors.Wrapf(err, "definition %s", name)
		}
		e.emitDoc(buf, def.Description, memberIndent)
		buf.WriteString(memberIndent)
		buf.WriteString("export type ")
		buf.WriteString(name)
		buf.WriteString(" = ")
		buf.WriteString(expr)
		buf.WriteString(";\n")
		return nil
	}
}

// emitComposition renders an allOf definition as an interface extending its
// referenced bases, with the inline members merged in order.
func (e *Emitter) emitComposition(buf *bytes.Buffer, name string, def *schema.Node) error {
	var (
		bases    []string
		props    schema.Properties
		required []string
		doc      = def.Description
	)
	for _, sub := range def.AllOf {
		if sub.Ref != "" {
			base, err := e.mapper.TypeExpr(sub)
			if err != nil {
				return errors.Wrapf(err, "definition %s base", name)
			}
			bases = append(bases, base)
			continue
		}
		if doc == "" {
			doc = sub.Description
		}
		props = append(props, sub.Properties...)
		required = append(required, sub.Required...)
	}
	e.emitDoc(buf, doc, memberIndent)
	return e.emitInterface(buf, name, bases, &schema.Node{Properties: props, Required: required})
}

func (e *Emitter) emitInterface(buf *bytes.Buffer, name string, extends []string, shape *schema.Node) error {
	buf.WriteString(memberIndent)
	buf.WriteString("export interface ")
	buf.WriteString(name)
	if len(extends) > 0 {
		buf.WriteString(" extends ")
		buf.WriteString(strings.Join(extends, ", "))
	}
	buf.WriteString(" {\n")

	var sep separator
	for _, p := range shape.Properties {
		sep.next(buf)
		e.emitDoc(buf, p.Node.Description, propertyIndent)

		typ, err := e.mapper.TypeExpr(p.Node)
		if err != nil {
			return errors.Wrapf(err, "%s.%s", name, p.Name)
		}

		buf.WriteString(propertyIndent)
		buf.WriteString(propertyName(p.Name))
		if !shape.IsRequired(p.Name) {
			buf.WriteString("?")
		}
		buf.WriteString(": ")
		buf.WriteString(typ)
		buf.WriteString(";\n")
	}

	buf.WriteString(memberIndent)
	buf.WriteString("}\n")
	return nil
}
