package serve

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	gschema "github.com/gorilla/schema"

	"github.com/broady/dapgen/dapgen"
	"github.com/broady/dapgen/dapgen/schema"
	"github.com/broady/dapgen/internal/logger"
)

// Query holds the per-request rendering options for the declaration and
// manifest endpoints.
type Query struct {
	// Namespace overrides the configured namespace name.
	Namespace string `schema:"namespace" validate:"omitempty,tsident"`

	// Reverse includes reverse requests in the Api interface.
	Reverse bool `schema:"reverse"`
}

// Server renders declarations on demand from one parsed schema. The store
// is shared read-only; every request runs its own translation.
type Server struct {
	store    *schema.Store
	source   string
	cfg      dapgen.Config
	decoder  *gschema.Decoder
	validate *validator.Validate
}

// NewServer returns a Server for store. cfg must already carry defaults.
func NewServer(store *schema.Store, source string, cfg *dapgen.Config) *Server {
	decoder := gschema.NewDecoder()
	decoder.IgnoreUnknownKeys(false)
	return &Server{
		store:    store,
		source:   source,
		cfg:      *cfg,
		decoder:  decoder,
		validate: dapgen.Validator(),
	}
}

// Handler returns the HTTP routes:
//
//	GET /<file>          the declaration file (default /api.d.ts)
//	GET /manifest.json   the API surface as JSON
//	GET /healthz         liveness and schema size
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /"+s.cfg.FileName, s.handleDeclarations)
	mux.HandleFunc("GET /manifest.json", s.handleManifest)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *Server) handleDeclarations(w http.ResponseWriter, r *http.Request) {
	result, cfg, ok := s.render(w, r)
	if !ok {
		return
	}
	writeCached(w, r, "application/typescript; charset=utf-8", result.File(cfg.FileName).Content)
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	result, _, ok := s.render(w, r)
	if !ok {
		return
	}
	data, err := result.Manifest.Marshal()
	if err != nil {
		s.fail(w, errors.Wrap(err, "encode manifest"))
		return
	}
	writeCached(w, r, "application/json", data)
}

type health struct {
	Status      string `json:"status"`
	Source      string `json:"source"`
	Definitions int    `json:"definitions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	data, err := json.Marshal(health{Status: "ok", Source: s.source, Definitions: s.store.Len()})
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// render decodes the query and translates. On failure it has already
// written the error response.
func (s *Server) render(w http.ResponseWriter, r *http.Request) (*dapgen.GenerateResult, *dapgen.Config, bool) {
	var q Query
	if err := s.decoder.Decode(&q, r.URL.Query()); err != nil {
		http.Error(w, "invalid query: "+err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}
	if err := s.validate.Struct(&q); err != nil {
		http.Error(w, "invalid query: "+err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}

	cfg := s.cfg
	if q.Namespace != "" {
		cfg.Namespace = q.Namespace
	}
	if q.Reverse {
		cfg.IncludeReverseRequests = true
	}

	result, err := dapgen.RenderStore(s.store, s.source, &cfg)
	if err != nil {
		s.fail(w, err)
		return nil, nil, false
	}
	return result, &cfg, true
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	logger.Logger.Errorw("render failed", "error", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// writeCached writes body with a content-derived ETag and answers
// If-None-Match with 304.
func writeCached(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	sum := sha256.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:8]) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(body)
}
