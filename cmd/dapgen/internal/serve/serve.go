package serve

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/broady/dapgen/dapgen"
	"github.com/broady/dapgen/dapgen/fetch"
	"github.com/broady/dapgen/internal/logger"
	"github.com/broady/dapgen/middleware"
)

type Cmd struct {
	Source       string   `help:"Schema source: URL, path, or go-getter address." short:"s"`
	Host         string   `help:"Interface to listen on." default:"localhost"`
	Port         int      `help:"Port to listen on." default:"9000" short:"p"`
	AllowOrigins []string `help:"Origins allowed to fetch declarations (default: any)." name:"allow-origin"`
}

func (c *Cmd) Run(ctx context.Context, cfg *dapgen.Config) error {
	if c.Source != "" {
		cfg.Source = c.Source
	}
	cfg = cfg.WithDefaults()
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	doc, err := (&fetch.GetterFetcher{}).Fetch(ctx, cfg.Source)
	if err != nil {
		return err
	}
	store, err := doc.Parse()
	if err != nil {
		return errors.Wrapf(err, "parse %s", doc.Source)
	}

	handler := middleware.Logging(logger.Logger)(
		middleware.CORS(&middleware.CORSConfig{AllowOrigins: c.AllowOrigins})(
			NewServer(store, doc.Source, cfg).Handler()))

	addr := fmt.Sprintf("%s:%d", c.Host, c.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Logger.Infow("dapgen serve listening", "url", "http://"+addr+"/"+cfg.FileName)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve")
	}
	return nil
}
