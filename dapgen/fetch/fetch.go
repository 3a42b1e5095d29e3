// Package fetch retrieves the protocol schema document.
//
// Sources are anything hashicorp/go-getter understands: https URLs, local
// paths, file:// URLs, s3:: and gcs:: addresses, git repositories with a
// //subpath. The document is downloaded once per run.
package fetch

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	getter "github.com/hashicorp/go-getter"

	"github.com/broady/dapgen/dapgen/schema"
	"github.com/broady/dapgen/internal/logger"
)

// DefaultSource is the published Debug Adapter Protocol schema.
const DefaultSource = "https://raw.githubusercontent.com/microsoft/debug-adapter-protocol/gh-pages/debugAdapterProtocol.json"

// ErrFetch marks failures to retrieve a source.
var ErrFetch = errors.New("fetch failed")

// Document is a retrieved schema document.
type Document struct {
	// Source is the address as given by the caller.
	Source string

	// Detected is the normalised go-getter address.
	Detected string

	Format schema.Format
	Data   []byte
}

// Parse decodes the document into a schema store.
func (d *Document) Parse() (*schema.Store, error) {
	return schema.Parse(d.Data, d.Format)
}

// Fetcher retrieves documents.
type Fetcher interface {
	Fetch(ctx context.Context, src string) (*Document, error)
}

// GetterFetcher fetches through go-getter.
type GetterFetcher struct {
	// Pwd resolves relative local paths. Defaults to the working directory.
	Pwd string
}

// Fetch downloads src into a temporary directory and reads it back.
func (f *GetterFetcher) Fetch(ctx context.Context, src string) (*Document, error) {
	pwd := f.Pwd
	if pwd == "" {
		var err error
		if pwd, err = os.Getwd(); err != nil {
			pwd = "."
		}
	}

	detected, err := getter.Detect(src, pwd, getter.Detectors)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "detect source %q", src), ErrFetch)
	}
	logger.Logger.Debugw("go-getter detected source", "source", src, "detected", detected)

	tmpDir, err := os.MkdirTemp("", "dapgen-fetch-*")
	if err != nil {
		return nil, errors.Wrap(err, "create temp directory")
	}
	defer os.RemoveAll(tmpDir)

	format := schema.FormatFromPath(sourcePath(detected))
	dst := filepath.Join(tmpDir, "schema."+format.String())

	client := &getter.Client{
		Ctx:  ctx,
		Src:  detected,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeFile,
	}
	if err := client.Get(); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "fetch %s", src), ErrFetch)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "read fetched %s", src), ErrFetch)
	}
	logger.Logger.Infow("fetched schema", "source", src, "bytes", len(data), "format", format.String())

	return &Document{Source: src, Detected: detected, Format: format, Data: data}, nil
}

// LocalPath returns the filesystem path behind src when it names a local
// file, for callers that want to watch it.
func LocalPath(src, pwd string) (string, bool) {
	detected, err := getter.Detect(src, pwd, getter.Detectors)
	if err != nil {
		return "", false
	}
	p, ok := strings.CutPrefix(detected, "file://")
	if !ok {
		return "", false
	}
	return filepath.FromSlash(p), true
}

// sourcePath extracts the path component of a go-getter address so the
// file extension can be inspected. Forced getters ("s3::") and subdirectory
// selectors ("//sub") are stripped.
func sourcePath(detected string) string {
	if _, rest, ok := strings.Cut(detected, "::"); ok {
		detected = rest
	}
	if i := strings.IndexAny(detected, "?#"); i >= 0 {
		detected = detected[:i]
	}
	if _, rest, ok := strings.Cut(detected, "://"); ok {
		detected = rest
	}
	return path.Clean("/" + detected)
}
