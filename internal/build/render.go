package build

import (
	"os"

	"github.com/samber/oops"

	"github.com/g5becks/mdsite/internal/markdown"
	"github.com/g5becks/mdsite/internal/outline"
	"github.com/g5becks/mdsite/internal/template"
)

// RenderFile compiles a single markdown file. With a nil template it returns
// the document fragment; otherwise the fragment is placed into the template
// and the document must have a title.
func RenderFile(path string, tmpl *template.Template) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", oops.
				Code("PAGE_NOT_FOUND").
				With("path", path).
				Errorf("file %q does not exist", path)
		}

		return "", oops.
			Code("PAGE_READ_FAILED").
			With("path", path).
			Wrapf(err, "reading %q", path)
	}

	meta, content, err := ParseFrontMatter(outline.StripBOM(data))
	if err != nil {
		return "", oops.With("path", path).Wrapf(err, "rendering %q", path)
	}

	if tmpl == nil {
		doc, parseErr := markdown.Parse(string(content))
		if parseErr != nil {
			return "", oops.With("path", path).Wrapf(parseErr, "rendering %q", path)
		}

		return doc.HTML(), nil
	}

	title, err := pageTitle(meta, content)
	if err != nil {
		return "", oops.With("path", path).Wrapf(err, "rendering %q", path)
	}

	rendered, err := renderPage(content, title, tmpl)
	if err != nil {
		return "", oops.With("path", path).Wrapf(err, "rendering %q", path)
	}

	return rendered, nil
}

// PageTitle returns the title of a markdown source, honoring front matter
// the same way a build does.
func PageTitle(source []byte) (string, error) {
	meta, content, err := ParseFrontMatter(outline.StripBOM(source))
	if err != nil {
		return "", err
	}

	return pageTitle(meta, content)
}

// pageTitle prefers the front matter title over the first level-1 heading.
func pageTitle(meta FrontMatter, content []byte) (string, error) {
	if meta.Title != "" {
		return meta.Title, nil
	}

	return markdown.ExtractTitle(string(content))
}

func renderPage(content []byte, title string, tmpl *template.Template) (string, error) {
	doc, err := markdown.Parse(string(content))
	if err != nil {
		return "", err
	}

	return tmpl.Render(title, doc.HTML()), nil
}
