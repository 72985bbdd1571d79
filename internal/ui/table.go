package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/g5becks/mdsite/internal/manifest"
	"github.com/g5becks/mdsite/internal/search"
)

type ListOptions struct {
	JSON    bool
	Verbose bool
}

// RenderPageList prints the pages of a manifest as a table or as JSON.
func RenderPageList(w io.Writer, pages []manifest.PageInfo, opts ListOptions) error {
	if opts.JSON {
		return renderJSON(w, pages, "page list")
	}

	writer := table.NewWriter()
	writer.SetOutputMirror(w)
	writer.SetStyle(table.StyleRounded)

	if opts.Verbose {
		writer.AppendHeader(table.Row{"SOURCE", "OUTPUT", "TITLE", "LINES", "SIZE", "HEADINGS", "MODIFIED", "DESCRIPTION"})
	} else {
		writer.AppendHeader(table.Row{"SOURCE", "OUTPUT", "TITLE", "SIZE"})
	}

	for _, page := range pages {
		if opts.Verbose {
			writer.AppendRow(table.Row{
				page.Source,
				page.Output,
				page.Title,
				page.Lines,
				FormatSize(page.Size),
				len(page.Headings),
				FormatTime(page.Modified),
				Truncate(page.Description, 60),
			})
			continue
		}

		writer.AppendRow(table.Row{
			page.Source,
			page.Output,
			page.Title,
			FormatSize(page.Size),
		})
	}

	writer.Render()
	return nil
}

// RenderSearchResults prints fuzzy page matches as a table or as JSON.
func RenderSearchResults(w io.Writer, results []search.PageResult, jsonOutput bool) error {
	if jsonOutput {
		return renderJSON(w, results, "search results")
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return nil
	}

	writer := table.NewWriter()
	writer.SetOutputMirror(w)
	writer.SetStyle(table.StyleRounded)
	writer.AppendHeader(table.Row{"SOURCE", "TITLE", "MATCH FIELD", "MATCH", "SCORE"})

	for _, result := range results {
		writer.AppendRow(table.Row{
			result.Source,
			result.Title,
			result.MatchField,
			Truncate(result.MatchValue, 50),
			result.Score,
		})
	}

	writer.Render()
	return nil
}

// RenderContentResults prints matching source lines as a table or as JSON.
func RenderContentResults(w io.Writer, results []search.ContentResult, jsonOutput bool) error {
	if jsonOutput {
		return renderJSON(w, results, "content results")
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return nil
	}

	writer := table.NewWriter()
	writer.SetOutputMirror(w)
	writer.SetStyle(table.StyleRounded)
	writer.AppendHeader(table.Row{"SOURCE", "LINE", "TEXT"})

	for _, result := range results {
		writer.AppendRow(table.Row{
			result.Source,
			strconv.Itoa(result.Line),
			Truncate(result.Text, 80),
		})
	}

	writer.Render()
	return nil
}

func renderJSON(w io.Writer, value any, what string) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encode %s json: %w", what, err)
	}

	return nil
}

// FormatSize renders a byte count with a binary unit suffix.
func FormatSize(size int64) string {
	if size < 0 {
		size = 0
	}

	return humanize.IBytes(uint64(size))
}

// FormatTime renders t relative to now, or "-" when unset.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return humanize.Time(t)
}

// Truncate shortens s to at most limit runes, marking the cut with "...".
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	if limit <= 3 {
		return string(runes[:limit])
	}

	return string(runes[:limit-3]) + "..."
}
