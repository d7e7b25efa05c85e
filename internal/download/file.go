package download

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// maxCollisions bounds the "name (n).ext" search in [FileSaver.reserve].
const maxCollisions = 1000

// FileSaver saves blobs into a directory.
//
// Content is written to a hidden ".part" file first and then moved into place, so a crashed or failed write
// never leaves a half-written audio file behind. When the target name is taken the saver picks the next free
// "name (n).ext", the way browsers do.
type FileSaver struct {
	Dir string

	// AfterSave, when set, runs with the final path once the file is in place.
	// An error from the hook is reported as a failed save but the file is kept.
	AfterSave func(path string) error

	mu   sync.Mutex
	last string
}

// NewFileSaver creates a FileSaver writing into dir.
func NewFileSaver(dir string) *FileSaver {
	return &FileSaver{Dir: dir}
}

// SaveBlobAsFile implements [Saver].
func (s *FileSaver) SaveBlobAsFile(blob Blob, filename string) error {
	if filename == "" {
		filename = DefaultFilename
	}
	if filepath.Base(filename) != filename {
		return fmt.Errorf("invalid filename %q", filename)
	}

	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".songwall-*.part")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(blob.Data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	target, err := s.place(tmpPath, dir, filename)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.last = target
	s.mu.Unlock()

	if s.AfterSave != nil {
		if err := s.AfterSave(target); err != nil {
			return fmt.Errorf("post-save hook failed for %s: %w", target, err)
		}
	}
	return nil
}

// LastPath returns the path of the most recently saved file.
func (s *FileSaver) LastPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// place links tmpPath to the first free candidate name. os.Link fails when the target exists,
// which keeps two concurrent saves from claiming the same name.
func (s *FileSaver) place(tmpPath, dir, filename string) (string, error) {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	for n := 0; n < maxCollisions; n++ {
		name := filename
		if n > 0 {
			name = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		}
		target := filepath.Join(dir, name)

		err := os.Link(tmpPath, target)
		if err == nil {
			return target, nil
		}
		if errors.Is(err, fs.ErrExist) {
			continue
		}

		// Filesystems without hard links: fall back to an existence check and rename.
		if _, statErr := os.Stat(target); statErr == nil {
			continue
		}
		if err := os.Rename(tmpPath, target); err != nil {
			return "", fmt.Errorf("failed to move audio into place: %w", err)
		}
		return target, nil
	}

	return "", fmt.Errorf("no free filename for %s in %s", filename, dir)
}
