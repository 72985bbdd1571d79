package search

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/samber/oops"

	"github.com/g5becks/mdsite/internal/manifest"
)

// ContentResult represents a single matching line in a page source.
type ContentResult struct {
	Source string `json:"source"`
	Line   int    `json:"line"`
	Text   string `json:"text"`
}

// ContentOptions configures content search behavior.
type ContentOptions struct {
	ContentDir string
	Query      string
	UseRegex   bool
	Limit      int
}

// Content performs literal or regex search across the markdown sources of the
// pages listed in the manifest. Literal queries are case-insensitive.
func Content(m *manifest.Manifest, opts ContentOptions) ([]ContentResult, error) {
	query := strings.TrimSpace(opts.Query)
	if query == "" {
		return nil, oops.
			Code("INVALID_ARGS").
			Hint("Provide a non-empty search query").
			Errorf("search query cannot be empty")
	}

	match, err := lineMatcher(query, opts.UseRegex)
	if err != nil {
		return nil, err
	}

	var results []ContentResult
	if m == nil {
		return results, nil
	}

	for _, page := range m.Pages {
		sourcePath := filepath.Join(opts.ContentDir, filepath.FromSlash(page.Source))
		data, readErr := os.ReadFile(sourcePath)
		if readErr != nil {
			return nil, oops.
				Code("SEARCH_READ_FAILED").
				With("path", sourcePath).
				Hint("Run 'mdsite build' to refresh the manifest").
				Wrapf(readErr, "reading page source")
		}

		lineNumber := 0
		for line := range strings.SplitSeq(strings.TrimSuffix(string(data), "\n"), "\n") {
			lineNumber++
			line = strings.TrimSuffix(line, "\r")
			if !match(line) {
				continue
			}

			results = append(results, ContentResult{
				Source: page.Source,
				Line:   lineNumber,
				Text:   strings.TrimSpace(line),
			})

			if opts.Limit > 0 && len(results) >= opts.Limit {
				return results, nil
			}
		}
	}

	return results, nil
}

func lineMatcher(query string, useRegex bool) (func(string) bool, error) {
	if useRegex {
		re, err := regexp.Compile(query)
		if err != nil {
			return nil, oops.
				Code("INVALID_ARGS").
				With("pattern", query).
				Hint("Check the regular expression syntax").
				Wrapf(err, "compiling search pattern")
		}

		return re.MatchString, nil
	}

	lowered := strings.ToLower(query)
	return func(line string) bool {
		return strings.Contains(strings.ToLower(line), lowered)
	}, nil
}
