package sink

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFilesystemSink_WriteFile(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystemSink(root)
	ctx := context.Background()

	if err := s.WriteFile(ctx, "dap/api.d.ts", []byte("first")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := s.WriteFile(ctx, "dap/api.d.ts", []byte("second")); err != nil {
		t.Fatalf("WriteFile() overwrite error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(root, "dap", "api.d.ts"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}

	info, err := os.Stat(filepath.Join(root, "dap", "api.d.ts"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Join(root, "dap"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the output file, found %d entries (temp file left behind?)", len(entries))
	}
}

func TestFilesystemSink_CanceledContext(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewFilesystemSink(root).WriteFile(ctx, "api.d.ts", []byte("x")); err == nil {
		t.Fatal("expected error for canceled context")
	}
	if _, err := os.Stat(filepath.Join(root, "api.d.ts")); !os.IsNotExist(err) {
		t.Error("nothing should be written for a canceled context")
	}
}

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()
	ctx := context.Background()

	content := []byte("hello")
	if err := s.WriteFile(ctx, "b.ts", content); err != nil {
		t.Fatal(err)
	}
	content[0] = 'j'
	if err := s.WriteFile(ctx, "a.json", []byte("{}")); err != nil {
		t.Fatal(err)
	}

	if got := string(s.Get("b.ts")); got != "hello" {
		t.Errorf("Get() = %q, want stored copy %q", got, "hello")
	}
	if s.Get("missing") != nil {
		t.Error("Get() of missing path should be nil")
	}
	paths := s.Paths()
	if len(paths) != 2 || paths[0] != "a.json" || paths[1] != "b.ts" {
		t.Errorf("Paths() = %v", paths)
	}
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	s := &WriterSink{W: &buf}
	if err := s.WriteFile(context.Background(), "api.d.ts", []byte("decl\n")); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "decl\n" {
		t.Errorf("wrote %q", buf.String())
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"api.d.ts", false},
		{"dap/api.d.ts", false},
		{"", true},
		{"/etc/passwd", true},
		{"C:/x.ts", true},
		{"../escape.ts", true},
		{"a/../../b.ts", true},
		{"a//b.ts", true},
		{"./a.ts", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
