// Package static mirrors a directory of static assets into the site output.
package static

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

// Copy mirrors every file under src into dst and returns the number of files
// copied. A missing src is not an error: static assets are optional.
func Copy(src, dst string) (int, error) {
	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}

		return 0, oops.
			Code("STATIC_COPY_FAILED").
			With("path", src).
			Wrapf(err, "checking static directory")
	}

	if !info.IsDir() {
		return 0, oops.
			Code("STATIC_COPY_FAILED").
			With("path", src).
			Hint("Point 'static' at a directory").
			Errorf("static path %q is not a directory", src)
	}

	copied := 0
	walkErr := filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, relPath)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if err := copyFile(path, target); err != nil {
			return err
		}

		copied++
		return nil
	})

	if walkErr != nil {
		return copied, oops.
			Code("STATIC_COPY_FAILED").
			With("source", src).
			With("destination", dst).
			Wrapf(walkErr, "copying static assets")
	}

	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}
