package serve

import (
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/dapgen/dapgen"
	"github.com/broady/dapgen/dapgen/ir"
	"github.com/broady/dapgen/internal/dapgentest"
)

func newTestServer(t *testing.T) (*Server, *dapgentest.Fixture) {
	t.Helper()
	fx := dapgentest.Load(t, "mini")
	cfg := (&dapgen.Config{Header: "// header", Banner: "Generated."}).WithDefaults()
	return NewServer(fx.Store(t, "schema.json"), "mini/schema.json", cfg), fx
}

func TestServer_Declarations(t *testing.T) {
	srv, fx := newTestServer(t)
	h := srv.Handler()

	w := dapgentest.NewRequest().GET("/api.d.ts").Serve(h)
	dapgentest.AssertStatus(t, w, http.StatusOK)
	assert.Equal(t, string(fx.File(t, "want.d.ts")), w.Body.String())
	assert.Equal(t, "application/typescript; charset=utf-8", w.Header().Get("Content-Type"))

	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	w = dapgentest.NewRequest().GET("/api.d.ts").WithHeader("If-None-Match", etag).Serve(h)
	dapgentest.AssertStatus(t, w, http.StatusNotModified)
	assert.Empty(t, w.Body.String())
}

func TestServer_Query(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	tests := []struct {
		name       string
		query      map[string]string
		wantStatus int
		contains   []string
		excludes   []string
	}{
		{
			name:       "default",
			wantStatus: http.StatusOK,
			contains:   []string{"export namespace Dap {", "export default Dap;"},
			excludes:   []string{"runInTerminal"},
		},
		{
			name:       "namespace override",
			query:      map[string]string{"namespace": "Debug"},
			wantStatus: http.StatusOK,
			contains:   []string{"export namespace Debug {", "export default Debug;"},
		},
		{
			name:       "reverse requests",
			query:      map[string]string{"reverse": "true"},
			wantStatus: http.StatusOK,
			contains: []string{
				"on(request: 'runInTerminal', handler: (params: RunInTerminalParams) => Promise<RunInTerminalResult>): void;",
				"export interface RunInTerminalResult {",
			},
		},
		{
			name:       "reserved namespace",
			query:      map[string]string{"namespace": "class"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid namespace",
			query:      map[string]string{"namespace": "my-ns"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad bool",
			query:      map[string]string{"reverse": "maybe"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown key",
			query:      map[string]string{"flavor": "zod"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := dapgentest.NewRequest().GET("/api.d.ts")
			for k, v := range tt.query {
				b.WithQuery(k, v)
			}
			w := b.Serve(h)
			dapgentest.AssertStatus(t, w, tt.wantStatus)
			for _, s := range tt.contains {
				assert.Contains(t, w.Body.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, w.Body.String(), s)
			}
		})
	}
}

func TestServer_Manifest(t *testing.T) {
	srv, _ := newTestServer(t)

	w := dapgentest.NewRequest().GET("/manifest.json").Serve(srv.Handler())
	dapgentest.AssertStatus(t, w, http.StatusOK)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var m ir.Manifest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, "mini/schema.json", m.Source)
	assert.Equal(t, "Dap", m.Namespace)
	assert.Equal(t, []string{"Source", "SourceOrigin", "Checksum", "ChecksumAlgorithm"}, m.Types)
	assert.Equal(t, []string{"RunInTerminalRequest"}, m.ReverseRequests)
	require.Len(t, m.Events, 1)
	assert.Equal(t, "stopped", m.Events[0].Event)
	require.Len(t, m.Requests, 1)
	assert.Equal(t, "source", m.Requests[0].Command)
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	w := dapgentest.NewRequest().GET("/healthz").Serve(srv.Handler())
	dapgentest.AssertStatus(t, w, http.StatusOK)
	assert.True(t, strings.Contains(w.Body.String(), `"status":"ok"`))
	assert.Contains(t, w.Body.String(), `"definitions":14`)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	w := dapgentest.NewRequest().Method(http.MethodPost, "/api.d.ts").Serve(srv.Handler())
	dapgentest.AssertStatus(t, w, http.StatusMethodNotAllowed)
}
