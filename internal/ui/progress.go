package ui

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"

	"github.com/g5becks/mdsite/internal/build"
)

func NewProgressWriter() progress.Writer {
	writer := progress.NewWriter()
	writer.SetAutoStop(true)
	writer.SetTrackerLength(30)
	writer.SetStyle(progress.StyleBlocks)
	writer.SetUpdateFrequency(50 * time.Millisecond)
	writer.Style().Visibility.ETA = true
	writer.Style().Visibility.Value = true

	return writer
}

// BuildProgress shows a single progress bar for a build instead of a line per
// page. Failed pages mark the tracker as errored.
type BuildProgress struct {
	writer  progress.Writer
	tracker *progress.Tracker
	done    chan struct{}
	mu      sync.Mutex
	failed  bool
}

func NewBuildProgress() *BuildProgress {
	return NewBuildProgressWithWriter(os.Stderr)
}

func NewBuildProgressWithWriter(w io.Writer) *BuildProgress {
	writer := NewProgressWriter()
	writer.SetOutputWriter(w)

	return &BuildProgress{writer: writer}
}

// HandleEvent is the callback wired into build.Options.OnEvent.
func (p *BuildProgress) HandleEvent(e build.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.Kind {
	case build.EventBuildStart:
		p.tracker = &progress.Tracker{
			Message: "building pages",
			Total:   int64(e.Total),
			Units:   progress.UnitsDefault,
		}
		p.writer.AppendTracker(p.tracker)

		p.done = make(chan struct{})
		go func(done chan struct{}) {
			p.writer.Render()
			close(done)
		}(p.done)

	case build.EventPageDone:
		if p.tracker == nil {
			return
		}

		if e.Status == build.StatusFailed {
			p.failed = true
		}
		p.tracker.Increment(1)
	}
}

// Stop finishes the tracker and waits for the final render.
func (p *BuildProgress) Stop() {
	p.mu.Lock()
	tracker := p.tracker
	failed := p.failed
	done := p.done
	p.mu.Unlock()

	if tracker == nil {
		return
	}

	if failed {
		tracker.MarkAsErrored()
	} else {
		tracker.MarkAsDone()
	}

	<-done
}
