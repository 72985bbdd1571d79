// Package manifest keeps an index of the pages produced by the last build.
package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/g5becks/mdsite/internal/outline"
)

const (
	CurrentVersion = "1.0.0"
	ManifestFile   = ".mdsite-manifest.json"
)

type Manifest struct {
	Version   string     `json:"version"`
	Generated time.Time  `json:"generated"`
	Pages     []PageInfo `json:"pages"`
}

type PageInfo struct {
	Source      string            `json:"source"`
	Output      string            `json:"output"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Headings    []outline.Heading `json:"headings,omitempty"`
	Lines       int               `json:"lines"`
	Size        int64             `json:"size"`
	Modified    time.Time         `json:"modified"`
}

// Describe builds the manifest entry for one page from its markdown source.
func Describe(source, output, title string, content []byte, modified time.Time) PageInfo {
	pageOutline := outline.Extract(content)

	return PageInfo{
		Source:      source,
		Output:      output,
		Title:       title,
		Description: pageOutline.Description,
		Headings:    pageOutline.Headings,
		Lines:       pageOutline.Lines,
		Size:        int64(len(content)),
		Modified:    modified,
	}
}

func New() *Manifest {
	return &Manifest{
		Version:   CurrentVersion,
		Generated: time.Now(),
	}
}

// Add appends a page and keeps pages ordered by source path.
func (m *Manifest) Add(page PageInfo) {
	m.Pages = append(m.Pages, page)
	slices.SortFunc(m.Pages, func(a, b PageInfo) int {
		return strings.Compare(a.Source, b.Source)
	})
}

// Find returns the page built from source.
func (m *Manifest) Find(source string) (PageInfo, bool) {
	for _, page := range m.Pages {
		if page.Source == source {
			return page, true
		}
	}

	return PageInfo{}, false
}

func Load(outputDir string) (*Manifest, error) {
	manifestPath := Path(outputDir)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, oops.
				Code("MANIFEST_NOT_FOUND").
				With("path", manifestPath).
				Hint("Run 'mdsite build' to generate the manifest").
				Errorf("manifest not found at %q", manifestPath)
		}

		return nil, oops.
			Code("MANIFEST_READ_ERROR").
			With("path", manifestPath).
			Wrapf(err, "reading manifest file")
	}

	m := &Manifest{}
	if unmarshalErr := json.Unmarshal(data, m); unmarshalErr != nil {
		return nil, oops.
			Code("MANIFEST_CORRUPTED").
			With("path", manifestPath).
			Hint("Delete " + ManifestFile + " and run 'mdsite build --force'").
			Wrapf(unmarshalErr, "parsing manifest file")
	}

	return m, nil
}

func (m *Manifest) Save(outputDir string) error {
	if m == nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			Hint("Initialize manifest before saving").
			Errorf("cannot save nil manifest")
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			With("path", outputDir).
			Wrapf(err, "creating manifest directory")
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			Wrapf(err, "encoding manifest")
	}

	data = append(data, '\n')
	manifestPath := Path(outputDir)

	tempFile, err := os.CreateTemp(outputDir, ManifestFile+".*.tmp")
	if err != nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			With("path", outputDir).
			Wrapf(err, "creating temporary manifest file")
	}

	tempPath := tempFile.Name()
	defer func() {
		_ = os.Remove(tempPath)
	}()

	if _, writeErr := tempFile.Write(data); writeErr != nil {
		_ = tempFile.Close()
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			With("path", tempPath).
			Wrapf(writeErr, "writing temporary manifest file")
	}

	if closeErr := tempFile.Close(); closeErr != nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			With("path", tempPath).
			Wrapf(closeErr, "closing temporary manifest file")
	}

	if renameErr := os.Rename(tempPath, manifestPath); renameErr != nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			With("from", tempPath).
			With("to", manifestPath).
			Wrapf(renameErr, "replacing manifest file")
	}

	return nil
}

func Path(outputDir string) string {
	return filepath.Join(outputDir, ManifestFile)
}
