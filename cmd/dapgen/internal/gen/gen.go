package gen

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/broady/dapgen/dapgen"
	"github.com/broady/dapgen/dapgen/fetch"
	"github.com/broady/dapgen/internal/logger"
)

// debounce collapses bursts of editor writes into one regeneration.
const debounce = 100 * time.Millisecond

type Cmd struct {
	Source          string `help:"Schema source: URL, path, or go-getter address." short:"s"`
	Out             string `help:"Output directory, or - for stdout." short:"o"`
	File            string `help:"Declaration file name."`
	Namespace       string `help:"Exported namespace name." short:"n"`
	Manifest        bool   `help:"Also write manifest.json."`
	ReverseRequests bool   `help:"Include reverse requests in the Api interface." name:"reverse-requests"`
	NoHeader        bool   `help:"Omit the license header." name:"no-header"`
	Watch           bool   `help:"Regenerate when a local source file changes." short:"w"`
}

func (c *Cmd) Run(ctx context.Context, cfg *dapgen.Config) error {
	c.apply(cfg)

	if _, err := generate(ctx, cfg); err != nil {
		return err
	}
	if !c.Watch {
		return nil
	}
	return watch(ctx, cfg)
}

func (c *Cmd) apply(cfg *dapgen.Config) {
	if c.Source != "" {
		cfg.Source = c.Source
	}
	if c.Out != "" {
		cfg.OutDir = c.Out
	}
	if c.File != "" {
		cfg.FileName = c.File
	}
	if c.Namespace != "" {
		cfg.Namespace = c.Namespace
	}
	if c.Manifest {
		cfg.EmitManifest = true
	}
	if c.ReverseRequests {
		cfg.IncludeReverseRequests = true
	}
	if c.NoHeader {
		cfg.OmitHeader = true
	}
}

func generate(ctx context.Context, cfg *dapgen.Config) (*dapgen.GenerateResult, error) {
	result, err := dapgen.Generate(ctx, cfg, nil)
	if err != nil {
		return nil, err
	}
	logger.Logger.Infow("generated declarations",
		"out", cfg.OutDir,
		"events", len(result.Surface.Events()),
		"requests", len(result.Surface.Requests()),
		"types", len(result.Types),
	)
	return result, nil
}

// watch regenerates whenever the local source file is written or replaced.
// Failed runs are logged and the previous output is left in place.
func watch(ctx context.Context, cfg *dapgen.Config) error {
	pwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "get working directory")
	}
	path, ok := fetch.LocalPath(cfg.Source, pwd)
	if !ok {
		return errors.WithHint(
			errors.Newf("cannot watch %s", cfg.Source),
			"--watch needs a local file source, such as ./debugAdapterProtocol.json")
	}
	path = filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()

	// Editors often save by rename, so watch the directory, not the file.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "watch %s", filepath.Dir(path))
	}
	logger.Logger.Infow("watching for changes", "path", path)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			pending = time.After(debounce)
		case <-pending:
			pending = nil
			if _, err := generate(ctx, cfg); err != nil {
				logger.Logger.Errorw("regeneration failed", "error", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Logger.Warnw("watcher error", "error", err)
		}
	}
}
