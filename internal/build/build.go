// Package build turns a content directory of markdown pages into a static
// HTML site.
package build

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	stdsync "sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"

	"github.com/g5becks/mdsite/internal/config"
	"github.com/g5becks/mdsite/internal/lockfile"
	"github.com/g5becks/mdsite/internal/manifest"
	"github.com/g5becks/mdsite/internal/outline"
	"github.com/g5becks/mdsite/internal/static"
	"github.com/g5becks/mdsite/internal/template"
)

const defaultParallel = 4

// TemplateLoader loads the page template from a path or URL.
type TemplateLoader interface {
	Load(ctx context.Context, ref string) (*template.Template, error)
}

// EventKind identifies the type of build progress event.
type EventKind int

const (
	EventBuildStart EventKind = iota
	EventPageStart
	EventPageDone
)

// PageStatus is the outcome of building one page.
type PageStatus int

const (
	StatusBuilt PageStatus = iota
	StatusSkipped
	StatusFailed
	StatusDraft
)

// Event is emitted during a build to report per-page progress.
// OnEvent is called from worker goroutines and must be safe for concurrent use.
type Event struct {
	Kind   EventKind
	Total  int
	Page   string
	Output string
	Status PageStatus
	Err    error
}

type Options struct {
	Force    bool
	Clean    bool
	DryRun   bool
	Parallel int
	OnEvent  func(Event)
	Loader   TemplateLoader
}

// PageFailure records a page that could not be built.
type PageFailure struct {
	Page string
	Err  error
}

// RunResult holds aggregate counts from a completed build.
type RunResult struct {
	Pages       int
	Built       int
	Skipped     int
	Drafts      int
	Failed      int
	StaticFiles int
	Pruned      []string
	Failures    []PageFailure
	Manifest    *manifest.Manifest
}

type page struct {
	source string
	output string
}

type pageState struct {
	status PageStatus
	info   manifest.PageInfo
	entry  *lockfile.PageEntry
	err    error
}

func Run(ctx context.Context, cfg *config.Config, opts Options) (*RunResult, error) {
	if cfg == nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			Errorf("config is required")
	}

	if opts.Clean && !opts.DryRun {
		if err := os.RemoveAll(cfg.Output); err != nil {
			return nil, oops.
				Code("WRITE_FAILED").
				With("path", cfg.Output).
				Wrapf(err, "cleaning output directory")
		}
	}

	lock, err := lockfile.Load(cfg.Output)
	if err != nil {
		return nil, err
	}

	loader := opts.Loader
	if loader == nil {
		loader = template.NewLoader()
	}

	tmpl, err := loader.Load(ctx, cfg.Template)
	if err != nil {
		return nil, err
	}

	pages, err := discoverPages(cfg.Content, cfg.Patterns, cfg.Exclude)
	if err != nil {
		return nil, err
	}

	result := &RunResult{Pages: len(pages)}

	if !opts.DryRun {
		copied, copyErr := static.Copy(cfg.Static, cfg.Output)
		if copyErr != nil {
			return nil, copyErr
		}
		result.StaticFiles = copied
	}

	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = cfg.Parallel
	}
	if parallel <= 0 {
		parallel = defaultParallel
	}

	templateSHA := tmpl.Checksum()

	emit(opts.OnEvent, Event{Kind: EventBuildStart, Total: len(pages)})

	states := make(map[string]pageState, len(pages))
	var statesMu stdsync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallel)

	for _, p := range pages {
		group.Go(func() error {
			if ctxErr := groupCtx.Err(); ctxErr != nil {
				return ctxErr
			}

			emit(opts.OnEvent, Event{Kind: EventPageStart, Page: p.source, Output: p.output})

			b := pageBuilder{
				contentDir:  cfg.Content,
				outputDir:   cfg.Output,
				tmpl:        tmpl,
				lock:        lock,
				templateSHA: templateSHA,
				force:       opts.Force,
				dryRun:      opts.DryRun,
			}
			state := b.build(p)

			statesMu.Lock()
			states[p.source] = state
			statesMu.Unlock()

			emit(opts.OnEvent, Event{
				Kind:   EventPageDone,
				Page:   p.source,
				Output: p.output,
				Status: state.status,
				Err:    state.err,
			})
			return nil
		})
	}

	if waitErr := group.Wait(); waitErr != nil {
		return nil, oops.
			Code("BUILD_CANCELED").
			Wrapf(waitErr, "waiting for page workers")
	}

	m := manifest.New()
	keep := make(map[string]struct{}, len(pages))

	for _, p := range pages {
		keep[p.source] = struct{}{}

		state := states[p.source]
		switch state.status {
		case StatusFailed:
			result.Failed++
			result.Failures = append(result.Failures, PageFailure{Page: p.source, Err: state.err})
			lock.DeleteEntry(p.source)
			continue
		case StatusDraft:
			result.Drafts++
			delete(keep, p.source)
			continue
		case StatusSkipped:
			result.Skipped++
		case StatusBuilt:
			result.Built++
			lock.SetEntry(p.source, state.entry)
		}

		m.Add(state.info)
	}

	result.Pruned = lock.Prune(keep)
	slices.Sort(result.Pruned)
	result.Manifest = m

	if !opts.DryRun {
		if err := removeStaleOutputs(cfg.Output, result.Pruned); err != nil {
			return nil, err
		}

		lock.TemplateSHA = templateSHA
		if err := lock.Save(cfg.Output); err != nil {
			return nil, err
		}

		if err := m.Save(cfg.Output); err != nil {
			return nil, err
		}
	}

	if result.Failed > 0 {
		return result, oops.
			Code("BUILD_FAILED").
			With("failed_pages", result.Failed).
			Errorf("%d page(s) failed to build", result.Failed)
	}

	return result, nil
}

func emit(onEvent func(Event), e Event) {
	if onEvent != nil {
		onEvent(e)
	}
}

// discoverPages walks contentDir and returns the pages selected by the
// include and exclude globs, sorted by source path.
func discoverPages(contentDir string, patterns []string, exclude []string) ([]page, error) {
	info, err := os.Stat(contentDir)
	if err != nil || !info.IsDir() {
		return nil, oops.
			Code("CONTENT_NOT_FOUND").
			With("path", contentDir).
			Hint("Create the content directory or set 'content' in mdsite.toml").
			Errorf("content directory %q does not exist", contentDir)
	}

	var pages []page
	walkErr := filepath.WalkDir(contentDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		relativePath, relErr := filepath.Rel(contentDir, path)
		if relErr != nil {
			return relErr
		}

		include, matchErr := shouldIncludeFile(relativePath, patterns, exclude)
		if matchErr != nil {
			return matchErr
		}

		if include {
			source := filepath.ToSlash(relativePath)
			pages = append(pages, page{source: source, output: OutputPath(source)})
		}

		return nil
	})
	if walkErr != nil {
		return nil, oops.
			Code("CONTENT_READ_FAILED").
			With("path", contentDir).
			Wrapf(walkErr, "discovering pages")
	}

	slices.SortFunc(pages, func(a, b page) int {
		return strings.Compare(a.source, b.source)
	})

	return pages, nil
}

// OutputPath maps a slash-separated source path to the page it produces,
// replacing the extension with .html.
func OutputPath(source string) string {
	ext := filepath.Ext(source)
	return strings.TrimSuffix(source, ext) + ".html"
}

// removeStaleOutputs deletes the pages of sources that were removed from the
// content directory since the last build.
func removeStaleOutputs(outputDir string, pruned []string) error {
	for _, source := range pruned {
		target := filepath.Join(outputDir, filepath.FromSlash(OutputPath(source)))
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return oops.
				Code("WRITE_FAILED").
				With("path", target).
				Wrapf(err, "removing stale page")
		}
	}

	return nil
}

type pageBuilder struct {
	contentDir  string
	outputDir   string
	tmpl        *template.Template
	lock        *lockfile.LockFile
	templateSHA string
	force       bool
	dryRun      bool
}

func (b pageBuilder) build(p page) pageState {
	sourcePath := filepath.Join(b.contentDir, filepath.FromSlash(p.source))

	info, err := os.Stat(sourcePath)
	if err != nil {
		return failed(oops.
			Code("PAGE_READ_FAILED").
			With("page", p.source).
			Wrapf(err, "reading page %q", p.source))
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return failed(oops.
			Code("PAGE_READ_FAILED").
			With("page", p.source).
			Wrapf(err, "reading page %q", p.source))
	}

	if outline.IsBinary(data) {
		return failed(oops.
			Code("PAGE_BINARY").
			With("page", p.source).
			Hint("Exclude the file with an 'exclude' pattern").
			Errorf("page %q is not a text file", p.source))
	}

	meta, content, err := ParseFrontMatter(outline.StripBOM(data))
	if err != nil {
		return failed(oops.
			With("page", p.source).
			Wrapf(err, "building page %q", p.source))
	}

	if meta.Draft {
		return pageState{status: StatusDraft}
	}

	title, err := pageTitle(meta, content)
	if err != nil {
		return failed(oops.
			With("page", p.source).
			Wrapf(err, "building page %q", p.source))
	}

	sourceSHA := lockfile.Checksum(data)
	pageInfo := manifest.Describe(p.source, p.output, title, content, info.ModTime())
	if meta.Description != "" {
		pageInfo.Description = meta.Description
	}

	if !b.force && b.lock.IsFresh(b.outputDir, p.source, sourceSHA, b.templateSHA) {
		return pageState{status: StatusSkipped, info: pageInfo}
	}

	rendered, err := renderPage(content, title, b.tmpl)
	if err != nil {
		return failed(oops.
			With("page", p.source).
			Wrapf(err, "building page %q", p.source))
	}

	if !b.dryRun {
		if err := writePage(filepath.Join(b.outputDir, filepath.FromSlash(p.output)), rendered); err != nil {
			return failed(oops.
				With("page", p.source).
				Wrapf(err, "writing page %q", p.source))
		}
	}

	return pageState{
		status: StatusBuilt,
		info:   pageInfo,
		entry: &lockfile.PageEntry{
			SourceSHA: sourceSHA,
			Output:    p.output,
			BuiltAt:   time.Now().UTC(),
		},
	}
}

func failed(err error) pageState {
	return pageState{status: StatusFailed, err: err}
}

func writePage(path string, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return oops.
			Code("WRITE_FAILED").
			With("path", filepath.Dir(path)).
			Wrapf(err, "creating page directory")
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return oops.
			Code("WRITE_FAILED").
			With("path", path).
			Wrapf(err, "writing page")
	}

	return nil
}

func shouldIncludeFile(relativePath string, patterns []string, exclude []string) (bool, error) {
	included, err := matchesAny(patterns, relativePath)
	if err != nil || !included {
		return false, err
	}

	excluded, err := matchesAny(exclude, relativePath)
	if err != nil {
		return false, err
	}

	return !excluded, nil
}

func matchesAny(patterns []string, candidate string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := doublestar.PathMatch(filepath.FromSlash(pattern), candidate)
		if err != nil {
			return false, oops.
				Code("CONFIG_INVALID").
				With("pattern", pattern).
				With("path", candidate).
				Wrapf(err, "invalid glob pattern")
		}

		if matched {
			return true, nil
		}
	}

	return false, nil
}
