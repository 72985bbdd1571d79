// Package search finds built pages by path, title, heading or body text.
package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/oops"

	"github.com/g5becks/mdsite/internal/manifest"
)

// PageResult represents the best match for a single page.
type PageResult struct {
	Source     string `json:"source"`
	Output     string `json:"output"`
	Title      string `json:"title"`
	MatchField string `json:"match_field"`
	MatchValue string `json:"match_value"`
	Score      int    `json:"score"`
}

// PageOptions configures page search behavior.
type PageOptions struct {
	Query string
	Limit int
}

type indexEntry struct {
	page       *manifest.PageInfo
	matchField string
	matchValue string
}

type searchIndex struct {
	entries []indexEntry
}

func (s searchIndex) String(i int) string {
	return s.entries[i].matchValue
}

func (s searchIndex) Len() int {
	return len(s.entries)
}

// Pages performs fuzzy search across the source path, title, description and
// headings of every page in the manifest.
func Pages(m *manifest.Manifest, opts PageOptions) ([]PageResult, error) {
	query := strings.TrimSpace(opts.Query)
	if query == "" {
		return nil, oops.
			Code("INVALID_ARGS").
			Hint("Provide a non-empty search query").
			Errorf("search query cannot be empty")
	}

	index := buildIndex(m)
	matches := fuzzy.FindFrom(query, index)

	deduped := make(map[string]PageResult)
	for _, match := range matches {
		if match.Score < 0 {
			continue
		}
		entry := index.entries[match.Index]

		if existing, exists := deduped[entry.page.Source]; !exists || match.Score > existing.Score {
			deduped[entry.page.Source] = PageResult{
				Source:     entry.page.Source,
				Output:     entry.page.Output,
				Title:      entry.page.Title,
				MatchField: entry.matchField,
				MatchValue: entry.matchValue,
				Score:      match.Score,
			}
		}
	}

	results := make([]PageResult, 0, len(deduped))
	for _, result := range deduped {
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Source < results[j].Source
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results, nil
}

func buildIndex(m *manifest.Manifest) searchIndex {
	var entries []indexEntry
	if m == nil {
		return searchIndex{}
	}

	for i := range m.Pages {
		page := &m.Pages[i]

		entries = append(entries, indexEntry{page: page, matchField: "path", matchValue: page.Source})

		if page.Title != "" {
			entries = append(entries, indexEntry{page: page, matchField: "title", matchValue: page.Title})
		}

		if page.Description != "" {
			entries = append(entries, indexEntry{page: page, matchField: "description", matchValue: page.Description})
		}

		for _, heading := range page.Headings {
			entries = append(entries, indexEntry{page: page, matchField: "heading", matchValue: heading.Text})
		}
	}

	return searchIndex{entries: entries}
}
