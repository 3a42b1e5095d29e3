package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/cockroachdb/errors"

	"github.com/broady/dapgen/cmd/dapgen/internal/check"
	"github.com/broady/dapgen/cmd/dapgen/internal/gen"
	"github.com/broady/dapgen/cmd/dapgen/internal/serve"
	"github.com/broady/dapgen/dapgen"
	"github.com/broady/dapgen/internal/logger"
)

type CLI struct {
	Globals

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate TypeScript declarations from the protocol schema."`
	Check   check.Cmd  `cmd:"" help:"Verify that a generated declaration file is up to date."`
	Serve   serve.Cmd  `cmd:"" help:"Serve generated declarations over HTTP."`
}

type Globals struct {
	Config  string `help:"Config file (default: ./dapgen.{toml,yaml,json} if present)." short:"c" type:"path"`
	JSONLog bool   `help:"Log as JSON." name:"json-log"`
	Verbose bool   `help:"Enable debug logging." short:"v"`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("dapgen"),
		kong.Description("Generate TypeScript declarations for the Debug Adapter Protocol."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	err := run(kctx, &cli.Globals)
	if err != nil {
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
	}
	logger.Sync()
	kctx.FatalIfErrorf(err)
}

func run(kctx *kong.Context, g *Globals) error {
	if err := logger.Initialize(g.JSONLog, g.Verbose); err != nil {
		return errors.Wrap(err, "initialize logger")
	}
	cfg, err := dapgen.LoadConfig(g.Config)
	if err != nil {
		return err
	}
	return kctx.Run(cfg)
}
