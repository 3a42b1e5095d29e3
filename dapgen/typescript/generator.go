// Package typescript renders a classified protocol surface as a TypeScript
// declaration file.
package typescript

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/broady/dapgen/dapgen/ir"
	"github.com/broady/dapgen/dapgen/schema"
)

// Config controls the file frame around the declarations.
type Config struct {
	// Namespace names the exported namespace, e.g. "Dap".
	Namespace string

	// Header is emitted verbatim at the top of the file, followed by a blank
	// line. Empty omits it.
	Header string

	// Banner is boxed into a comment right above the namespace.
	// Empty omits it.
	Banner string

	// Classify is passed through to ir.Classify.
	Classify ir.ClassifyOptions
}

// Result is the output of one translation.
type Result struct {
	// Content is the complete declaration file.
	Content []byte

	Surface *ir.Surface

	// Types lists the plain types in the order they were emitted.
	Types []string
}

// translation is the state of one run. Nothing in it outlives Generate.
type translation struct {
	store   *schema.Store
	work    *Worklist
	emitter *Emitter
	buf     bytes.Buffer
	sep     separator
	types   []string
}

// Generate classifies store and renders the declaration file.
// Running it twice on the same store yields identical bytes.
func Generate(store *schema.Store, cfg Config) (*Result, error) {
	if !ValidDeclarationName(cfg.Namespace) {
		return nil, errors.Newf("invalid namespace name %q", cfg.Namespace)
	}

	surface, err := ir.Classify(store, cfg.Classify)
	if err != nil {
		return nil, err
	}

	work := NewWorklist()
	t := &translation{
		store:   store,
		work:    work,
		emitter: &Emitter{mapper: NewMapper(store, work)},
	}

	t.emitPreamble(cfg)

	t.sep.next(&t.buf)
	t.emitter.EmitAPI(&t.buf, surface.Methods)

	for _, st := range surface.Stubs {
		t.sep.next(&t.buf)
		if err := t.emitter.EmitStub(&t.buf, st); err != nil {
			return nil, err
		}
	}

	if err := t.drain(); err != nil {
		return nil, err
	}

	t.buf.WriteString("}\n\nexport default ")
	t.buf.WriteString(cfg.Namespace)
	t.buf.WriteString(";\n")

	return &Result{
		Content: t.buf.Bytes(),
		Surface: surface,
		Types:   t.types,
	}, nil
}

// drain emits pending plain types until the worklist is empty. Emitting a
// type may push more names.
func (t *translation) drain() error {
	for {
		name, ok := t.work.Pop()
		if !ok {
			return nil
		}
		def, ok := t.store.Lookup(name)
		if !ok {
			return errors.Wrapf(schema.ErrUnresolvableRef, "definition %s not found", name)
		}
		t.sep.next(&t.buf)
		if err := t.emitter.EmitDefinition(&t.buf, name, def); err != nil {
			return err
		}
		t.types = append(t.types, name)
	}
}

func (t *translation) emitPreamble(cfg Config) {
	if cfg.Header != "" {
		t.buf.WriteString(strings.TrimRight(cfg.Header, "\n"))
		t.buf.WriteString("\n\n")
	}
	if cfg.Banner != "" {
		t.buf.WriteString(bannerBox(cfg.Banner))
	}
	t.buf.WriteString("export namespace ")
	t.buf.WriteString(cfg.Namespace)
	t.buf.WriteString(" {\n")
}

// bannerBox frames text in a star box sized to the text.
func bannerBox(text string) string {
	width := utf8.RuneCountInString(text)
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(strings.Repeat("*", width+4))
	b.WriteString("\n * ")
	b.WriteString(text)
	b.WriteString(" *\n ")
	b.WriteString(strings.Repeat("*", width+4))
	b.WriteString("/\n")
	return b.String()
}
