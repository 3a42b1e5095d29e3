package dapgen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/broady/dapgen/dapgen/fetch"
)

// ErrStale is returned by Check when a generated file differs from what
// the current schema produces.
var ErrStale = errors.New("generated file is out of date")

// CheckResult reports how an existing declaration file compares to a fresh
// generation.
type CheckResult struct {
	Path     string
	UpToDate bool
	Missing  bool

	// Line is the first differing line (1-based), 0 when up to date.
	Line int
	Want string
	Got  string

	// Generated is the fresh rendering the file was compared against.
	Generated *GenerateResult
}

// Check regenerates in memory and compares against the file at path.
// An out-of-date or missing file yields a result and an ErrStale error.
func Check(ctx context.Context, cfg *Config, path string, f fetch.Fetcher) (*CheckResult, error) {
	cfg = applyConfigDefaults(cfg)
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	if path == "" {
		if cfg.OutDir == "-" {
			return nil, errors.WithHint(
				errors.Mark(errors.New("no file to check when output goes to stdout"), ErrInvalidConfig),
				"pass --against <file> or set out to a directory")
		}
		path = filepath.Join(cfg.OutDir, cfg.FileName)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	doc, err := fetcherOrDefault(f).Fetch(ctx, cfg.Source)
	if err != nil {
		return nil, err
	}
	gen, err := Render(doc, cfg)
	if err != nil {
		return nil, err
	}
	want := gen.File(cfg.FileName).Content

	res := &CheckResult{Path: path, Generated: gen}
	got, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			res.Missing = true
			return res, errors.Wrapf(ErrStale, "%s does not exist", path)
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}

	if bytes.Equal(want, got) {
		res.UpToDate = true
		return res, nil
	}
	res.Line, res.Want, res.Got = firstDifference(want, got)
	return res, errors.WithHint(
		errors.Wrapf(ErrStale, "%s differs at line %d", path, res.Line),
		"run `dapgen gen` to regenerate")
}

// firstDifference returns the first line at which a and b disagree.
func firstDifference(a, b []byte) (line int, lineA, lineB string) {
	as := bytes.Split(a, []byte("\n"))
	bs := bytes.Split(b, []byte("\n"))
	for i := 0; i < len(as) || i < len(bs); i++ {
		var x, y []byte
		if i < len(as) {
			x = as[i]
		}
		if i < len(bs) {
			y = bs[i]
		}
		if !bytes.Equal(x, y) || i >= len(as) || i >= len(bs) {
			return i + 1, string(x), string(y)
		}
	}
	return 0, "", ""
}
