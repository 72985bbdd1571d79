// Package template loads page templates and fills in their placeholders.
package template

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	neturl "net/url"
	"os"
	"strings"

	"github.com/samber/oops"
	"resty.dev/v3"
)

const (
	TitlePlaceholder   = "{{ Title }}"
	ContentPlaceholder = "{{ Content }}"
)

// Template is a loaded page template.
type Template struct {
	source string
	body   string
}

// New wraps an in-memory template body.
func New(source, body string) (*Template, error) {
	if !strings.Contains(body, ContentPlaceholder) {
		return nil, oops.
			Code("TEMPLATE_INVALID").
			With("source", source).
			Hint("Add a " + ContentPlaceholder + " placeholder where the page body goes").
			Errorf("template %q has no %s placeholder", source, ContentPlaceholder)
	}

	return &Template{source: source, body: body}, nil
}

// Source is the path or URL the template was loaded from.
func (t *Template) Source() string {
	return t.source
}

// Render substitutes every title and content placeholder.
func (t *Template) Render(title, content string) string {
	out := strings.ReplaceAll(t.body, TitlePlaceholder, title)
	return strings.ReplaceAll(out, ContentPlaceholder, content)
}

// Checksum returns the hex sha256 of the template body.
func (t *Template) Checksum() string {
	sum := sha256.Sum256([]byte(t.body))
	return hex.EncodeToString(sum[:])
}

// Loader reads templates from disk or over HTTP.
type Loader struct {
	client *resty.Client
}

func NewLoader() *Loader {
	return &Loader{client: resty.New()}
}

// Load reads a template using a default Loader.
func Load(ctx context.Context, ref string) (*Template, error) {
	return NewLoader().Load(ctx, ref)
}

// Load reads the template at ref, which is a file path or an http(s) URL.
func (l *Loader) Load(ctx context.Context, ref string) (*Template, error) {
	if isRemote(ref) {
		return l.fetch(ctx, ref)
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oops.
				Code("TEMPLATE_NOT_FOUND").
				With("path", ref).
				Hint("Create the template file or set 'template' in mdsite.toml").
				Errorf("template %q does not exist", ref)
		}

		return nil, oops.
			Code("TEMPLATE_READ_FAILED").
			With("path", ref).
			Wrapf(err, "reading template")
	}

	return New(ref, string(data))
}

func (l *Loader) fetch(ctx context.Context, ref string) (*Template, error) {
	response, err := l.client.R().SetContext(ctx).Get(ref)
	if err != nil {
		return nil, oops.
			Code("TEMPLATE_FETCH_FAILED").
			With("url", ref).
			Wrapf(err, "downloading template")
	}

	if response.StatusCode() < http.StatusOK || response.StatusCode() >= http.StatusMultipleChoices {
		return nil, oops.
			Code("TEMPLATE_FETCH_FAILED").
			With("url", ref).
			With("status", response.StatusCode()).
			Errorf("template url returned non-success status %d", response.StatusCode())
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, oops.
			Code("TEMPLATE_FETCH_FAILED").
			With("url", ref).
			Wrapf(err, "reading response body")
	}

	return New(ref, string(body))
}

func isRemote(ref string) bool {
	parsed, err := neturl.Parse(ref)
	if err != nil {
		return false
	}

	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
