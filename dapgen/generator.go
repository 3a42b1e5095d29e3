package dapgen

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/broady/dapgen/dapgen/fetch"
	"github.com/broady/dapgen/dapgen/ir"
	"github.com/broady/dapgen/dapgen/schema"
	"github.com/broady/dapgen/dapgen/sink"
	"github.com/broady/dapgen/dapgen/typescript"
	"github.com/broady/dapgen/internal/logger"
)

// GenerateResult describes the output of one run.
type GenerateResult struct {
	Files []OutputFile

	Surface  *ir.Surface
	Manifest *ir.Manifest

	// Types lists plain types in emission order.
	Types []string
}

// OutputFile is one generated file.
type OutputFile struct {
	// Path is relative to the output directory.
	Path    string
	Content []byte
}

// File returns the generated file at path, or nil.
func (r *GenerateResult) File(path string) *OutputFile {
	for i := range r.Files {
		if r.Files[i].Path == path {
			return &r.Files[i]
		}
	}
	return nil
}

// Generate fetches cfg.Source, translates it, and writes the result to
// cfg.OutDir. Nothing is written unless translation succeeds. A nil fetcher
// uses go-getter.
func Generate(ctx context.Context, cfg *Config, f fetch.Fetcher) (*GenerateResult, error) {
	cfg = applyConfigDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	doc, err := fetcherOrDefault(f).Fetch(ctx, cfg.Source)
	if err != nil {
		return nil, err
	}

	result, err := Render(doc, cfg)
	if err != nil {
		return nil, err
	}

	var out sink.OutputSink
	if cfg.OutDir == "-" {
		out = &sink.WriterSink{W: os.Stdout}
	} else {
		out = sink.NewFilesystemSink(cfg.OutDir)
	}
	if err := Write(ctx, out, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Write sends every generated file to out.
func Write(ctx context.Context, out sink.OutputSink, result *GenerateResult) error {
	for _, f := range result.Files {
		if err := out.WriteFile(ctx, f.Path, f.Content); err != nil {
			return errors.Wrapf(err, "write %s", f.Path)
		}
		logger.Logger.Infow("wrote file", "path", f.Path, "bytes", len(f.Content))
	}
	return nil
}

// Render translates a fetched document without touching the filesystem.
// cfg must already carry defaults.
func Render(doc *fetch.Document, cfg *Config) (*GenerateResult, error) {
	store, err := doc.Parse()
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", doc.Source)
	}
	logger.Logger.Debugw("parsed schema", "definitions", store.Len())
	return RenderStore(store, doc.Source, cfg)
}

// RenderStore translates an already parsed store. The store is only read,
// so concurrent calls may share it. source is recorded in the manifest.
func RenderStore(store *schema.Store, source string, cfg *Config) (*GenerateResult, error) {
	ts, err := typescript.Generate(store, cfg.typescriptConfig())
	if err != nil {
		return nil, errors.Wrapf(err, "translate %s", source)
	}
	logger.Logger.Infow("translated schema",
		"methods", len(ts.Surface.Methods),
		"stubs", len(ts.Surface.Stubs),
		"types", len(ts.Types),
	)

	result := &GenerateResult{
		Surface: ts.Surface,
		Types:   ts.Types,
		Files:   []OutputFile{{Path: cfg.FileName, Content: ts.Content}},
	}

	manifest := ir.NewManifest(ts.Surface, cfg.Namespace, ts.Types)
	manifest.Source = source
	result.Manifest = manifest

	if cfg.EmitManifest && cfg.OutDir != "-" {
		data, err := manifest.Marshal()
		if err != nil {
			return nil, errors.Wrap(err, "encode manifest")
		}
		result.Files = append(result.Files, OutputFile{Path: cfg.ManifestName, Content: data})
	}
	return result, nil
}

func fetcherOrDefault(f fetch.Fetcher) fetch.Fetcher {
	if f == nil {
		return &fetch.GetterFetcher{}
	}
	return f
}
