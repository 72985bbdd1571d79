// Package lockfile records what each page was built from so unchanged pages
// can be skipped on the next build.
package lockfile

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/oops"
)

const (
	FileName       = ".mdsite.lock"
	currentVersion = 1
)

type LockFile struct {
	Version     int                   `json:"version"`
	TemplateSHA string                `json:"template_sha,omitempty"`
	Pages       map[string]*PageEntry `json:"pages"`
}

type PageEntry struct {
	SourceSHA string    `json:"source_sha"`
	Output    string    `json:"output"`
	BuiltAt   time.Time `json:"built_at"`
}

// Checksum returns the hex sha256 of content.
func Checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func Load(outputDir string) (*LockFile, error) {
	lockPath := filepath.Join(outputDir, FileName)
	data, err := os.ReadFile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}

		return nil, oops.
			Code("LOCK_ERROR").
			With("path", lockPath).
			Wrapf(err, "reading lock file")
	}

	lock := &LockFile{}
	if unmarshalErr := json.Unmarshal(data, lock); unmarshalErr != nil {
		return nil, oops.
			Code("LOCK_ERROR").
			With("path", lockPath).
			Hint("Delete the lock file or run 'mdsite build --force' to regenerate it").
			Wrapf(unmarshalErr, "parsing lock file")
	}

	if lock.Version == 0 {
		lock.Version = currentVersion
	}

	if lock.Pages == nil {
		lock.Pages = map[string]*PageEntry{}
	}

	return lock, nil
}

func New() *LockFile {
	return &LockFile{
		Version: currentVersion,
		Pages:   map[string]*PageEntry{},
	}
}

func (l *LockFile) Save(outputDir string) error {
	if l == nil {
		return oops.
			Code("LOCK_ERROR").
			Hint("Initialize lock file state before saving").
			Errorf("cannot save nil lock file")
	}

	if l.Version == 0 {
		l.Version = currentVersion
	}

	if l.Pages == nil {
		l.Pages = map[string]*PageEntry{}
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return oops.
			Code("LOCK_ERROR").
			With("path", outputDir).
			Wrapf(err, "creating lock directory")
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return oops.
			Code("LOCK_ERROR").
			Wrapf(err, "encoding lock file")
	}

	data = append(data, '\n')
	lockPath := filepath.Join(outputDir, FileName)

	tempFile, err := os.CreateTemp(outputDir, FileName+".*.tmp")
	if err != nil {
		return oops.
			Code("LOCK_ERROR").
			With("path", outputDir).
			Wrapf(err, "creating temporary lock file")
	}

	tempPath := tempFile.Name()
	defer func() {
		_ = os.Remove(tempPath)
	}()

	if _, writeErr := tempFile.Write(data); writeErr != nil {
		_ = tempFile.Close()
		return oops.
			Code("LOCK_ERROR").
			With("path", tempPath).
			Wrapf(writeErr, "writing temporary lock file")
	}

	if closeErr := tempFile.Close(); closeErr != nil {
		return oops.
			Code("LOCK_ERROR").
			With("path", tempPath).
			Wrapf(closeErr, "closing temporary lock file")
	}

	if renameErr := os.Rename(tempPath, lockPath); renameErr != nil {
		return oops.
			Code("LOCK_ERROR").
			With("from", tempPath).
			With("to", lockPath).
			Wrapf(renameErr, "replacing lock file")
	}

	return nil
}

func (l *LockFile) GetEntry(page string) *PageEntry {
	if l == nil {
		return nil
	}

	return l.Pages[page]
}

func (l *LockFile) SetEntry(page string, entry *PageEntry) {
	if l == nil {
		return
	}

	if l.Pages == nil {
		l.Pages = map[string]*PageEntry{}
	}

	l.Pages[page] = entry
}

// DeleteEntry forgets a page so the next build cannot treat its output as fresh.
func (l *LockFile) DeleteEntry(page string) {
	if l == nil {
		return
	}

	delete(l.Pages, page)
}

// Prune drops entries for pages that are no longer part of the site.
func (l *LockFile) Prune(keep map[string]struct{}) []string {
	if l == nil {
		return nil
	}

	var removed []string
	for page := range l.Pages {
		if _, ok := keep[page]; !ok {
			removed = append(removed, page)
			delete(l.Pages, page)
		}
	}

	return removed
}

// IsFresh reports whether page was last built from the same source and
// template and its output file still exists under outputDir.
func (l *LockFile) IsFresh(outputDir, page, sourceSHA, templateSHA string) bool {
	entry := l.GetEntry(page)
	if entry == nil || entry.SourceSHA != sourceSHA || l.TemplateSHA != templateSHA {
		return false
	}

	_, err := os.Stat(filepath.Join(outputDir, filepath.FromSlash(entry.Output)))
	return err == nil
}
