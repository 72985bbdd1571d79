package ui_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/g5becks/mdsite/internal/manifest"
	"github.com/g5becks/mdsite/internal/outline"
	"github.com/g5becks/mdsite/internal/search"
	"github.com/g5becks/mdsite/internal/ui"
)

func testPages() []manifest.PageInfo {
	return []manifest.PageInfo{
		{
			Source:      "index.md",
			Output:      "index.html",
			Title:       "Home",
			Description: "Welcome to the site",
			Headings:    []outline.Heading{{Level: 1, Text: "Home", Line: 1}},
			Lines:       12,
			Size:        2048,
		},
		{
			Source: "blog/post.md",
			Output: "blog/post.html",
			Title:  "Post",
			Lines:  3,
			Size:   100,
		},
	}
}

func TestRenderPageListJSON(t *testing.T) {
	var buf bytes.Buffer

	if err := ui.RenderPageList(&buf, testPages(), ui.ListOptions{JSON: true}); err != nil {
		t.Fatalf("RenderPageList(JSON=true) error = %v", err)
	}

	var decoded []manifest.PageInfo
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON unmarshal error = %v, output:\n%s", err, buf.String())
	}

	if len(decoded) != 2 || decoded[0].Source != "index.md" || decoded[1].Output != "blog/post.html" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestRenderPageListTable(t *testing.T) {
	var buf bytes.Buffer

	if err := ui.RenderPageList(&buf, testPages(), ui.ListOptions{Verbose: true}); err != nil {
		t.Fatalf("RenderPageList() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"SOURCE", "DESCRIPTION", "index.md", "blog/post.html", "2.0 KiB", "Welcome to the site"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q, got:\n%s", want, out)
		}
	}
}

func TestRenderSearchResults(t *testing.T) {
	results := []search.PageResult{
		{Source: "index.md", Title: "Home", MatchField: "title", MatchValue: "Home", Score: 10},
	}

	var buf bytes.Buffer
	if err := ui.RenderSearchResults(&buf, results, false); err != nil {
		t.Fatalf("RenderSearchResults() error = %v", err)
	}

	if out := buf.String(); !strings.Contains(out, "MATCH FIELD") || !strings.Contains(out, "index.md") {
		t.Errorf("table output = %q", out)
	}

	buf.Reset()
	if err := ui.RenderSearchResults(&buf, nil, false); err != nil {
		t.Fatalf("RenderSearchResults(nil) error = %v", err)
	}

	if !strings.Contains(buf.String(), "No matches found.") {
		t.Errorf("empty output = %q", buf.String())
	}
}

func TestRenderContentResultsJSON(t *testing.T) {
	results := []search.ContentResult{{Source: "index.md", Line: 3, Text: "hello"}}

	var buf bytes.Buffer
	if err := ui.RenderContentResults(&buf, results, true); err != nil {
		t.Fatalf("RenderContentResults() error = %v", err)
	}

	var decoded []search.ContentResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON unmarshal error = %v", err)
	}

	if len(decoded) != 1 || decoded[0] != results[0] {
		t.Errorf("decoded = %+v, want %+v", decoded, results)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{-5, "0 B"},
	}

	for _, tt := range tests {
		if got := ui.FormatSize(tt.size); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	if got := ui.FormatTime(time.Time{}); got != "-" {
		t.Errorf("FormatTime(zero) = %q, want -", got)
	}

	if got := ui.FormatTime(time.Now().Add(-2 * time.Hour)); got != "2 hours ago" {
		t.Errorf("FormatTime(2h ago) = %q, want 2 hours ago", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer sentence", 10, "a longe..."},
		{"abcdef", 2, "ab"},
		{"héllo wörld", 8, "héllo..."},
	}

	for _, tt := range tests {
		if got := ui.Truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}
