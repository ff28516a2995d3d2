// Package writer delivers whole flash images to a destination.
package writer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ErrImageSize is returned when an image does not have the length a sink
// was configured for.
var ErrImageSize = errors.New("writer: image size mismatch")

// Sink receives a complete flash image.
type Sink interface {
	WriteImage(img []byte) error
}

func checkSize(want int, img []byte) error {
	if want > 0 && len(img) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrImageSize, len(img), want)
	}
	return nil
}

// FileWriter replaces the image file at Path. The new contents are synced
// before the rename and the directory after it, so a crash leaves either
// the old image or the new one.
type FileWriter struct {
	Path string
	// Size, when non-zero, is the only image length accepted.
	Size int
	// Perm is the mode of a newly created image, 0o644 when zero. An
	// existing image keeps its mode.
	Perm os.FileMode
}

// WriteImage writes img to Path via temp file and rename.
func (w *FileWriter) WriteImage(img []byte) error {
	if err := checkSize(w.Size, img); err != nil {
		return err
	}
	mode := w.Perm
	if mode == 0 {
		mode = 0o644
	}
	if fi, err := os.Stat(w.Path); err == nil {
		mode = fi.Mode().Perm()
	}

	dir := filepath.Dir(w.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(img); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, w.Path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	committed = true
	if err := syncDir(dir); err != nil {
		return fmt.Errorf("sync %s: %w", dir, err)
	}
	return nil
}

// syncDir makes a rename in dir durable. Windows cannot sync a directory
// handle and commits renames on its own.
func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
