package dapgen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/dapgen/dapgen/fetch"
	"github.com/broady/dapgen/dapgen/ir"
	"github.com/broady/dapgen/dapgen/schema"
	"github.com/broady/dapgen/dapgen/sink"
	"github.com/broady/dapgen/internal/dapgentest"
)

func miniFetcher(t *testing.T) *dapgentest.Fetcher {
	return &dapgentest.Fetcher{Fixture: dapgentest.Load(t, "mini"), T: t}
}

func TestGenerator_ToDir(t *testing.T) {
	f := miniFetcher(t)
	dir := t.TempDir()

	res, err := FromSource("schema.json").
		Header("// header").
		Banner("Generated.").
		WithManifest().
		Fetcher(f).
		ToDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, f.Calls, "the source is fetched once per run")

	got, err := os.ReadFile(filepath.Join(dir, DefaultFileName))
	require.NoError(t, err)
	assert.Equal(t, string(f.Fixture.File(t, "want.d.ts")), string(got))

	data, err := os.ReadFile(filepath.Join(dir, DefaultManifestName))
	require.NoError(t, err)
	var m ir.Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "schema.json", m.Source)
	assert.Equal(t, res.Types, m.Types)
	assert.Len(t, res.Files, 2)
}

func TestGenerator_Generate(t *testing.T) {
	res, err := FromSource("schema.yaml").
		Namespace("Debug").
		FileName("debug.d.ts").
		WithoutHeader().
		IncludeReverseRequests().
		Fetcher(miniFetcher(t)).
		Generate(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Files, 1)
	f := res.File("debug.d.ts")
	require.NotNil(t, f)
	content := string(f.Content)
	assert.Contains(t, content, "export namespace Debug {")
	assert.Contains(t, content, "on(request: 'runInTerminal'")
	assert.NotContains(t, content, "Copyright")
	assert.Nil(t, res.File(DefaultManifestName))
}

func TestGenerate_NothingWrittenOnFailure(t *testing.T) {
	dir := t.TempDir()
	broken := &staticFetcher{doc: &fetch.Document{
		Source: "broken.json",
		Data:   []byte(`{"definitions": {"Event": {"type": "object"}, "BadEvent": {"allOf": [{"$ref": "#/definitions/Event"}, {"type": "object"}]}}}`),
	}}

	_, err := Generate(context.Background(), &Config{OutDir: dir}, broken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrMalformedSchema))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerate_InvalidConfig(t *testing.T) {
	f := miniFetcher(t)
	_, err := Generate(context.Background(), &Config{OutDir: t.TempDir(), Source: "schema.json", Namespace: "default"}, f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Zero(t, f.Calls, "config is validated before fetching")
}

func TestGenerate_FetchError(t *testing.T) {
	_, err := Generate(context.Background(), &Config{OutDir: t.TempDir(), Source: "missing.json"}, miniFetcher(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fetch.ErrFetch))
}

func TestWrite_MemorySink(t *testing.T) {
	fx := dapgentest.Load(t, "mini")
	cfg := (&Config{OutDir: ".", EmitManifest: true}).WithDefaults()

	res, err := Render(fx.Document(t, "schema.json"), cfg)
	require.NoError(t, err)

	mem := sink.NewMemorySink()
	require.NoError(t, Write(context.Background(), mem, res))
	assert.Equal(t, []string{DefaultFileName, DefaultManifestName}, mem.Paths())
	assert.Contains(t, string(mem.Get(DefaultFileName)), DefaultBanner)
}

func TestRenderStore_Concurrent(t *testing.T) {
	fx := dapgentest.Load(t, "mini")
	store := fx.Store(t, "schema.json")
	cfg := (&Config{OutDir: ".", Header: "// header", Banner: "Generated."}).WithDefaults()
	want := string(fx.File(t, "want.d.ts"))

	results := make(chan string, 8)
	for range 8 {
		go func() {
			res, err := RenderStore(store, "mini", cfg)
			if err != nil {
				results <- err.Error()
				return
			}
			results <- string(res.File(cfg.FileName).Content)
		}()
	}
	for range 8 {
		assert.Equal(t, want, <-results)
	}
}

type staticFetcher struct {
	doc *fetch.Document
}

func (f *staticFetcher) Fetch(ctx context.Context, src string) (*fetch.Document, error) {
	return f.doc, nil
}
