// Package dapgentest provides test fixtures and HTTP helpers shared by the
// dapgen packages.
//
// Fixtures are txtar archives under testdata/. Each holds a schema document
// (schema.json, optionally schema.yaml) and the expected rendering
// (want.d.ts).
package dapgentest

import (
	"context"
	"embed"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/txtar"

	"github.com/broady/dapgen/dapgen/fetch"
	"github.com/broady/dapgen/dapgen/schema"
)

//go:embed testdata/*.txtar
var fixtures embed.FS

// Fixture is a loaded txtar archive.
type Fixture struct {
	Name    string
	Comment string
	files   map[string][]byte
}

// Load reads testdata/<name>.txtar. It fails the test if the archive is
// missing.
func Load(t testing.TB, name string) *Fixture {
	t.Helper()
	data, err := fixtures.ReadFile("testdata/" + name + ".txtar")
	if err != nil {
		t.Fatalf("load fixture %s: %v", name, err)
	}
	ar := txtar.Parse(data)
	f := &Fixture{Name: name, Comment: string(ar.Comment), files: make(map[string][]byte)}
	for _, file := range ar.Files {
		f.files[file.Name] = file.Data
	}
	return f
}

// File returns the named member of the archive.
func (f *Fixture) File(t testing.TB, name string) []byte {
	t.Helper()
	data, ok := f.files[name]
	if !ok {
		t.Fatalf("fixture %s has no file %s", f.Name, name)
	}
	return append([]byte(nil), data...)
}

// Has reports whether the archive contains name.
func (f *Fixture) Has(name string) bool {
	_, ok := f.files[name]
	return ok
}

// Store parses the named schema member into a store.
func (f *Fixture) Store(t testing.TB, name string) *schema.Store {
	t.Helper()
	store, err := schema.Parse(f.File(t, name), schema.FormatFromPath(name))
	if err != nil {
		t.Fatalf("parse %s/%s: %v", f.Name, name, err)
	}
	return store
}

// Document returns the named schema member as a fetched document.
func (f *Fixture) Document(t testing.TB, name string) *fetch.Document {
	t.Helper()
	return &fetch.Document{
		Source:   f.Name + "/" + name,
		Detected: "file://" + f.Name + "/" + name,
		Format:   schema.FormatFromPath(name),
		Data:     f.File(t, name),
	}
}

// WriteTo copies the named member into dir and returns its path.
func (f *Fixture) WriteTo(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, f.File(t, name), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Fetcher serves fixture members by name, without go-getter. A source
// naming a member that does not exist returns fetch.ErrFetch.
type Fetcher struct {
	Fixture *Fixture
	T       testing.TB

	// Calls counts Fetch invocations.
	Calls int
}

// Fetch implements fetch.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, src string) (*fetch.Document, error) {
	f.Calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !f.Fixture.Has(src) {
		return nil, errors.Mark(errors.Newf("fixture %s has no file %s", f.Fixture.Name, src), fetch.ErrFetch)
	}
	return f.Fixture.Document(f.T, src), nil
}
