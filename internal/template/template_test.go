package template_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/g5becks/mdsite/internal/template"
)

const pageTemplate = `<html><head><title>{{ Title }}</title></head><body>{{ Content }}</body></html>`

func TestRenderReplacesPlaceholders(t *testing.T) {
	t.Parallel()

	tmpl, err := template.New("inline", pageTemplate+"<footer>{{ Title }}</footer>")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got := tmpl.Render("Home", "<div><p>hi</p></div>")
	want := `<html><head><title>Home</title></head><body><div><p>hi</p></div></body></html><footer>Home</footer>`
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestNewRequiresContentPlaceholder(t *testing.T) {
	t.Parallel()

	_, err := template.New("broken.html", "<html>{{ Title }}</html>")
	if err == nil {
		t.Fatalf("New() error = nil, want missing placeholder error")
	}

	if !strings.Contains(err.Error(), "no {{ Content }} placeholder") {
		t.Fatalf("New() error = %q, expected placeholder message", err.Error())
	}
}

func TestChecksumTracksBody(t *testing.T) {
	t.Parallel()

	first, _ := template.New("a", pageTemplate)
	same, _ := template.New("b", pageTemplate)
	other, _ := template.New("c", pageTemplate+" ")

	if first.Checksum() != same.Checksum() {
		t.Fatalf("Checksum() differs for identical bodies")
	}

	if first.Checksum() == other.Checksum() {
		t.Fatalf("Checksum() equal for different bodies")
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "template.html")
	if err := os.WriteFile(path, []byte(pageTemplate), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tmpl, err := template.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if tmpl.Source() != path {
		t.Fatalf("Source() = %q, want %q", tmpl.Source(), path)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := template.Load(context.Background(), filepath.Join(t.TempDir(), "nope.html"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("Load() error = %v, want not-exist error", err)
	}
}

func TestLoadFromURL(t *testing.T) {
	t.Parallel()

	var requested string
	loader := template.LoaderWithClient(template.NewMockRestyClient(func(req *http.Request) *http.Response {
		requested = req.URL.String()
		return template.NewHTTPResponse(req, http.StatusOK, pageTemplate)
	}))

	tmpl, err := loader.Load(context.Background(), "https://example.test/template.html")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if requested != "https://example.test/template.html" {
		t.Fatalf("requested %q, want template URL", requested)
	}

	if got := tmpl.Render("T", "C"); !strings.Contains(got, "<title>T</title>") || !strings.Contains(got, "<body>C</body>") {
		t.Fatalf("Render() = %q", got)
	}
}

func TestLoadFromURLNonSuccess(t *testing.T) {
	t.Parallel()

	loader := template.LoaderWithClient(template.NewMockRestyClient(func(req *http.Request) *http.Response {
		return template.NewHTTPResponse(req, http.StatusNotFound, "missing")
	}))

	_, err := loader.Load(context.Background(), "https://example.test/template.html")
	if err == nil || !strings.Contains(err.Error(), "non-success status 404") {
		t.Fatalf("Load() error = %v, want status error", err)
	}
}
