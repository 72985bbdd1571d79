package lockfile_test

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/g5becks/mdsite/internal/lockfile"
)

func TestLoadReturnsEmptyLockWhenFileMissing(t *testing.T) {
	t.Parallel()

	lock, err := lockfile.Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if lock.Version != 1 {
		t.Fatalf("Version = %d, want 1", lock.Version)
	}

	if len(lock.Pages) != 0 {
		t.Fatalf("Pages len = %d, want 0", len(lock.Pages))
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	outputDir := t.TempDir()
	now := time.Now().UTC().Truncate(time.Second)

	lock := lockfile.New()
	lock.TemplateSHA = "tmpl-sha"
	lock.SetEntry("index.md", &lockfile.PageEntry{SourceSHA: "sha1", Output: "index.html", BuiltAt: now})
	lock.SetEntry("blog/post.md", &lockfile.PageEntry{SourceSHA: "sha2", Output: "blog/post.html", BuiltAt: now})

	if err := lock.Save(outputDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := lockfile.Load(outputDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.TemplateSHA != "tmpl-sha" {
		t.Fatalf("TemplateSHA = %q, want tmpl-sha", loaded.TemplateSHA)
	}

	entry := loaded.GetEntry("blog/post.md")
	if entry == nil {
		t.Fatalf("GetEntry(blog/post.md) = nil")
	}

	if entry.SourceSHA != "sha2" || entry.Output != "blog/post.html" || !entry.BuiltAt.Equal(now) {
		t.Fatalf("entry = %+v", entry)
	}
}

func TestLoadRejectsCorruptLock(t *testing.T) {
	t.Parallel()

	outputDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(outputDir, lockfile.FileName), []byte("{nope"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := lockfile.Load(outputDir)
	if err == nil || !strings.Contains(err.Error(), "parsing lock file") {
		t.Fatalf("Load() error = %v, want parse error", err)
	}
}

func TestIsFresh(t *testing.T) {
	t.Parallel()

	outputDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(outputDir, "index.html"), []byte("<html>"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	lock := lockfile.New()
	lock.TemplateSHA = "t1"
	lock.SetEntry("index.md", &lockfile.PageEntry{SourceSHA: "s1", Output: "index.html"})
	lock.SetEntry("gone.md", &lockfile.PageEntry{SourceSHA: "s2", Output: "gone.html"})

	tests := []struct {
		name     string
		page     string
		source   string
		template string
		want     bool
	}{
		{"unchanged", "index.md", "s1", "t1", true},
		{"source changed", "index.md", "s9", "t1", false},
		{"template changed", "index.md", "s1", "t9", false},
		{"output missing", "gone.md", "s2", "t1", false},
		{"unknown page", "new.md", "s1", "t1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := lock.IsFresh(outputDir, tt.page, tt.source, tt.template); got != tt.want {
				t.Errorf("IsFresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrune(t *testing.T) {
	t.Parallel()

	lock := lockfile.New()
	lock.SetEntry("a.md", &lockfile.PageEntry{})
	lock.SetEntry("b.md", &lockfile.PageEntry{})
	lock.SetEntry("c.md", &lockfile.PageEntry{})

	removed := lock.Prune(map[string]struct{}{"a.md": {}})
	slices.Sort(removed)

	if !slices.Equal(removed, []string{"b.md", "c.md"}) {
		t.Fatalf("Prune() removed %v, want [b.md c.md]", removed)
	}

	if len(lock.Pages) != 1 || lock.GetEntry("a.md") == nil {
		t.Fatalf("Pages = %v, want only a.md", lock.Pages)
	}
}

func TestDeleteEntry(t *testing.T) {
	t.Parallel()

	lock := lockfile.New()
	lock.SetEntry("a.md", &lockfile.PageEntry{})
	lock.SetEntry("b.md", &lockfile.PageEntry{})

	lock.DeleteEntry("a.md")
	lock.DeleteEntry("missing.md")

	if lock.GetEntry("a.md") != nil {
		t.Fatal("GetEntry(a.md) != nil after DeleteEntry")
	}

	if lock.GetEntry("b.md") == nil {
		t.Fatal("GetEntry(b.md) = nil, want entry kept")
	}

	var nilLock *lockfile.LockFile
	nilLock.DeleteEntry("a.md")
}

func TestChecksum(t *testing.T) {
	t.Parallel()

	if lockfile.Checksum([]byte("a")) == lockfile.Checksum([]byte("b")) {
		t.Fatal("Checksum() collided for different inputs")
	}

	if got := len(lockfile.Checksum(nil)); got != 64 {
		t.Fatalf("Checksum() length = %d, want 64", got)
	}
}
