package check

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"github.com/broady/dapgen/dapgen"
)

type Cmd struct {
	Source    string `help:"Schema source: URL, path, or go-getter address." short:"s"`
	Against   string `help:"Declaration file to verify (default: <out>/<file> from config)." type:"path"`
	Namespace string `help:"Exported namespace name." short:"n"`
}

func (c *Cmd) Run(ctx context.Context, cfg *dapgen.Config) error {
	if c.Source != "" {
		cfg.Source = c.Source
	}
	if c.Namespace != "" {
		cfg.Namespace = c.Namespace
	}

	res, err := dapgen.Check(ctx, cfg, c.Against, nil)
	if err != nil && (res == nil || !errors.Is(err, dapgen.ErrStale)) {
		return err
	}

	s := res.Generated.Surface
	pterm.Info.Printfln("%d events, %d requests, %d stubs, %d types",
		len(s.Events()), len(s.Requests()), len(s.Stubs), len(res.Generated.Types))

	switch {
	case res.UpToDate:
		pterm.Success.Printfln("%s is up to date", res.Path)
	case res.Missing:
		pterm.Error.Printfln("%s does not exist", res.Path)
	default:
		pterm.Error.Printfln("%s is out of date, first difference at line %d", res.Path, res.Line)
		pterm.Printfln("  want: %s", res.Want)
		pterm.Printfln("  got:  %s", res.Got)
	}
	return err
}
