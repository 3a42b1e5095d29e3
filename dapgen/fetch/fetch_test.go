package fetch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/dapgen/dapgen/fetch"
	"github.com/broady/dapgen/dapgen/schema"
	"github.com/broady/dapgen/internal/dapgentest"
)

func TestGetterFetcher_LocalFile(t *testing.T) {
	fx := dapgentest.Load(t, "mini")
	dir := t.TempDir()

	tests := []struct {
		member string
		src    func(path string) string
		format schema.Format
	}{
		{member: "schema.json", src: func(p string) string { return p }, format: schema.FormatJSON},
		{member: "schema.yaml", src: func(p string) string { return p }, format: schema.FormatYAML},
		{member: "schema.json", src: func(p string) string { return "file://" + filepath.ToSlash(p) }, format: schema.FormatJSON},
	}

	for _, tt := range tests {
		path := fx.WriteTo(t, dir, tt.member)
		src := tt.src(path)
		t.Run(src, func(t *testing.T) {
			doc, err := (&fetch.GetterFetcher{Pwd: dir}).Fetch(context.Background(), src)
			require.NoError(t, err)
			assert.Equal(t, src, doc.Source)
			assert.Equal(t, tt.format, doc.Format)
			assert.Equal(t, fx.File(t, tt.member), doc.Data)

			store, err := doc.Parse()
			require.NoError(t, err)
			assert.Equal(t, 14, store.Len())
		})
	}
}

func TestGetterFetcher_RelativePath(t *testing.T) {
	fx := dapgentest.Load(t, "mini")
	dir := t.TempDir()
	fx.WriteTo(t, dir, "schema.json")

	doc, err := (&fetch.GetterFetcher{Pwd: dir}).Fetch(context.Background(), "./schema.json")
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Data)
}

func TestGetterFetcher_Missing(t *testing.T) {
	dir := t.TempDir()
	_, err := (&fetch.GetterFetcher{Pwd: dir}).Fetch(context.Background(), filepath.Join(dir, "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fetch.ErrFetch))
}

func TestLocalPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	got, ok := fetch.LocalPath(path, dir)
	assert.True(t, ok)
	assert.Equal(t, path, filepath.Clean(got))

	_, ok = fetch.LocalPath(fetch.DefaultSource, dir)
	assert.False(t, ok)
}
