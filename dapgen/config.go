// Package dapgen generates TypeScript declarations for a JSON-Schema
// described protocol such as the Debug Adapter Protocol.
//
// The usual entry point is the fluent Generator:
//
//	dapgen.FromSource(fetch.DefaultSource).
//	    Namespace("Dap").
//	    WithManifest().
//	    ToDir(ctx, "./src/dap")
package dapgen

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/broady/dapgen/dapgen/fetch"
	"github.com/broady/dapgen/dapgen/typescript"
)

// Defaults applied by applyConfigDefaults and the config loader.
const (
	DefaultFileName     = "api.d.ts"
	DefaultManifestName = "manifest.json"
	DefaultNamespace    = "Dap"
	DefaultBanner       = "Auto-generated by dapgen, do not edit manually."

	DefaultHeader = "/*---------------------------------------------------------\n" +
		" * Copyright (C) Microsoft Corporation. All rights reserved.\n" +
		" *--------------------------------------------------------*/"
)

// ErrInvalidConfig marks configuration rejected by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the configuration for one generation run.
type Config struct {
	// Source is the schema address, anything go-getter accepts.
	Source string `mapstructure:"source" validate:"required"`

	// OutDir is the directory generated files are written to.
	// "-" writes the declaration file to stdout.
	OutDir string `mapstructure:"out" validate:"required"`

	// FileName is the declaration file name inside OutDir.
	FileName string `mapstructure:"file" validate:"required,endswith=.ts"`

	// Namespace names the exported namespace.
	Namespace string `mapstructure:"namespace" validate:"required,tsident"`

	// Header is the license comment at the top of the file.
	// OmitHeader drops it entirely.
	Header     string `mapstructure:"header"`
	OmitHeader bool   `mapstructure:"omit_header"`

	// Banner is the auto-generation warning boxed above the namespace.
	Banner string `mapstructure:"banner"`

	// EmitManifest writes ManifestName next to the declaration file.
	EmitManifest bool   `mapstructure:"manifest"`
	ManifestName string `mapstructure:"manifest_file" validate:"omitempty,endswith=.json"`

	// IncludeReverseRequests adds requests titled "Reverse Requests" to the
	// Api surface. They are left out by default.
	IncludeReverseRequests bool `mapstructure:"include_reverse_requests"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator used for Config. It knows the
// "tsident" tag, which accepts a TypeScript identifier that is not a
// reserved word.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("tsident", func(fl validator.FieldLevel) bool {
			return typescript.ValidDeclarationName(fl.Field().String())
		})
	})
	return validate
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	if strings.Contains(c.Banner, "\n") {
		return errors.Mark(errors.New("Banner must be a single line"), ErrInvalidConfig)
	}
	err := Validator().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Mark(err, ErrInvalidConfig)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.Mark(errors.Newf("%s", strings.Join(msgs, "; ")), ErrInvalidConfig)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "endswith":
		return fe.Field() + " must end in " + fe.Param()
	case "tsident":
		return fe.Field() + " must be a TypeScript identifier that is not a reserved word"
	default:
		return fe.Field() + " failed " + fe.Tag()
	}
}

// applyConfigDefaults returns a copy of cfg with empty fields defaulted.
func applyConfigDefaults(cfg *Config) *Config {
	result := *cfg
	if result.Source == "" {
		result.Source = fetch.DefaultSource
	}
	if result.FileName == "" {
		result.FileName = DefaultFileName
	}
	if result.Namespace == "" {
		result.Namespace = DefaultNamespace
	}
	if result.Header == "" && !result.OmitHeader {
		result.Header = DefaultHeader
	}
	if result.OmitHeader {
		result.Header = ""
	}
	if result.Banner == "" {
		result.Banner = DefaultBanner
	}
	if result.EmitManifest && result.ManifestName == "" {
		result.ManifestName = DefaultManifestName
	}
	return &result
}

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c *Config) WithDefaults() *Config {
	return applyConfigDefaults(c)
}

func (c *Config) typescriptConfig() typescript.Config {
	cfg := typescript.Config{
		Namespace: c.Namespace,
		Header:    c.Header,
		Banner:    c.Banner,
	}
	cfg.Classify.IncludeReverseRequests = c.IncludeReverseRequests
	return cfg
}

// Generator provides a fluent API for code generation.
type Generator struct {
	cfg     Config
	fetcher fetch.Fetcher
}

// FromSource starts a Generator reading the schema at src.
func FromSource(src string) *Generator {
	return &Generator{cfg: Config{Source: src}}
}

// FromConfig starts a Generator from a loaded configuration.
func FromConfig(cfg *Config) *Generator {
	return &Generator{cfg: *cfg}
}

// Namespace sets the exported namespace name.
func (g *Generator) Namespace(name string) *Generator {
	g.cfg.Namespace = name
	return g
}

// FileName sets the declaration file name.
func (g *Generator) FileName(name string) *Generator {
	g.cfg.FileName = name
	return g
}

// Header replaces the license comment at the top of the file.
func (g *Generator) Header(text string) *Generator {
	g.cfg.Header = text
	g.cfg.OmitHeader = false
	return g
}

// WithoutHeader drops the license comment.
func (g *Generator) WithoutHeader() *Generator {
	g.cfg.OmitHeader = true
	return g
}

// Banner replaces the auto-generation warning text.
func (g *Generator) Banner(text string) *Generator {
	g.cfg.Banner = text
	return g
}

// WithManifest enables manifest.json output.
func (g *Generator) WithManifest() *Generator {
	g.cfg.EmitManifest = true
	return g
}

// IncludeReverseRequests adds reverse requests to the Api surface.
func (g *Generator) IncludeReverseRequests() *Generator {
	g.cfg.IncludeReverseRequests = true
	return g
}

// Fetcher overrides how the source is retrieved.
func (g *Generator) Fetcher(f fetch.Fetcher) *Generator {
	g.fetcher = f
	return g
}

// ToDir generates and writes files into dir.
func (g *Generator) ToDir(ctx context.Context, dir string) (*GenerateResult, error) {
	cfg := g.cfg
	cfg.OutDir = dir
	return Generate(ctx, &cfg, g.fetcher)
}

// Generate returns the generated files without writing them.
func (g *Generator) Generate(ctx context.Context) (*GenerateResult, error) {
	cfg := applyConfigDefaults(&g.cfg)
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	doc, err := fetcherOrDefault(g.fetcher).Fetch(ctx, cfg.Source)
	if err != nil {
		return nil, err
	}
	return Render(doc, cfg)
}
