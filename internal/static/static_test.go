package static_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/g5becks/mdsite/internal/static"
)

func TestCopyMirrorsTree(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "public")

	files := map[string]string{
		"index.css":               "body{}",
		"images/tolkien.png":      "png-bytes",
		"images/nested/rivendell": "more-bytes",
	}

	for rel, content := range files {
		path := filepath.Join(src, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	copied, err := static.Copy(src, dst)
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	if copied != len(files) {
		t.Fatalf("Copy() copied %d files, want %d", copied, len(files))
	}

	for rel, want := range files {
		got, err := os.ReadFile(filepath.Join(dst, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", rel, err)
		}

		if string(got) != want {
			t.Fatalf("%s content = %q, want %q", rel, got, want)
		}
	}
}

func TestCopyMissingSourceIsSkipped(t *testing.T) {
	t.Parallel()

	copied, err := static.Copy(filepath.Join(t.TempDir(), "absent"), t.TempDir())
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	if copied != 0 {
		t.Fatalf("Copy() copied %d files, want 0", copied)
	}
}

func TestCopyRejectsFileSource(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(src, []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := static.Copy(src, t.TempDir()); err == nil {
		t.Fatalf("Copy() error = nil, want not-a-directory error")
	}
}
