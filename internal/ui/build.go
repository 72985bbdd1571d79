package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/g5becks/mdsite/internal/build"
)

type styles struct {
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	dim    *color.Color
	bold   *color.Color
}

func newStyles() styles {
	return styles{
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		dim:    color.New(color.Faint),
		bold:   color.New(color.Bold),
	}
}

// BuildPrinter renders build progress events to stderr with colored output.
type BuildPrinter struct {
	w       io.Writer
	dryRun  bool
	verbose bool
	mu      sync.Mutex
	s       styles
}

// NewBuildPrinter creates a BuildPrinter that writes to stderr.
func NewBuildPrinter(dryRun bool, verbose bool) *BuildPrinter {
	return NewBuildPrinterWithWriter(os.Stderr, dryRun, verbose)
}

// NewBuildPrinterWithWriter creates a BuildPrinter that writes to the given writer.
func NewBuildPrinterWithWriter(w io.Writer, dryRun bool, verbose bool) *BuildPrinter {
	return &BuildPrinter{
		w:       w,
		dryRun:  dryRun,
		verbose: verbose,
		s:       newStyles(),
	}
}

// HandleEvent is the callback wired into build.Options.OnEvent.
func (p *BuildPrinter) HandleEvent(e build.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.Kind {
	case build.EventBuildStart:
		fmt.Fprintf(p.w, "%s building %d page(s)\n", p.s.dim.Sprint("⟳"), e.Total)

	case build.EventPageStart:
		if p.verbose {
			fmt.Fprintf(p.w, "%s %s...\n", p.s.dim.Sprint("⟳"), p.s.bold.Sprint(e.Page))
		}

	case build.EventPageDone:
		p.handleDone(e)
	}
}

func (p *BuildPrinter) handleDone(e build.Event) {
	name := p.s.bold.Sprint(e.Page)

	switch e.Status {
	case build.StatusFailed:
		fmt.Fprintf(p.w, "%s %s: %s\n", p.s.red.Sprint("✗"), name, e.Err)

	case build.StatusDraft:
		if p.verbose {
			fmt.Fprintf(p.w, "%s %s %s\n", p.s.dim.Sprint("—"), name, p.s.yellow.Sprint("(draft)"))
		}

	case build.StatusSkipped:
		if p.verbose {
			fmt.Fprintf(p.w, "%s %s %s\n", p.s.dim.Sprint("—"), name, p.s.dim.Sprint("(up to date)"))
		}

	case build.StatusBuilt:
		fmt.Fprintf(p.w, "%s %s %s\n", p.s.green.Sprint("✓"), name, p.s.dim.Sprintf("→ %s", e.Output))
	}
}

// PrintSummary renders a final summary line after the build completes.
func (p *BuildPrinter) PrintSummary(r *build.RunResult) {
	if r == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.w)

	label := "build complete"
	if p.dryRun {
		label = p.s.yellow.Sprint("dry-run complete")
	}

	parts := fmt.Sprintf("%s: %d page(s), %d built, %d up-to-date, %d static file(s)",
		label,
		r.Pages,
		r.Built,
		r.Skipped,
		r.StaticFiles,
	)

	if r.Drafts > 0 {
		parts += fmt.Sprintf(", %d draft(s)", r.Drafts)
	}

	if len(r.Pruned) > 0 {
		parts += fmt.Sprintf(", %d removed", len(r.Pruned))
	}

	if r.Failed > 0 {
		parts += fmt.Sprintf(", %s",
			p.s.red.Sprintf("%d failed", r.Failed),
		)
	}

	fmt.Fprintln(p.w, parts)

	if p.dryRun {
		fmt.Fprintln(p.w, p.s.dim.Sprint("no files were written or removed"))
	}
}
