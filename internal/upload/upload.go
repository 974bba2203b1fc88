// Package upload writes incoming file streams to a directory without ever
// holding more than one chunk in memory.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ChunkSize is the size of each read from the incoming stream.
const ChunkSize = 1 << 20 // 1 MiB

// ErrInvalidName is returned for names that do not reduce to a file name.
var ErrInvalidName = errors.New("upload: invalid file name")

// Saver stores files under one directory.
type Saver struct {
	dir string
}

// NewSaver returns a Saver for dir. The directory is created on first use.
func NewSaver(dir string) *Saver {
	return &Saver{dir: dir}
}

// Dir returns the target directory.
func (s *Saver) Dir() string {
	return s.dir
}

// CleanName strips any directory part a client put in the file name.
func CleanName(name string) (string, error) {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || name == ".." || name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

// Save streams r into dir/name in ChunkSize reads, replacing any existing
// file of that name, and returns the number of bytes written.
func (s *Saver) Save(name string, r io.Reader) (int64, error) {
	name, err := CleanName(name)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return 0, fmt.Errorf("upload: create dir: %w", err)
	}

	// The upload lands in a temp file first, so a failed stream never
	// replaces an existing file of the same name.
	tmp, err := os.CreateTemp(s.dir, "."+name+".*.part")
	if err != nil {
		return 0, fmt.Errorf("upload: create temp file: %w", err)
	}

	size, copyErr := copyChunked(tmp, r)
	if copyErr == nil {
		// CreateTemp uses 0600; saved files get the usual 0644.
		copyErr = tmp.Chmod(0o644)
	}
	closeErr := tmp.Close()
	if copyErr == nil && closeErr == nil {
		if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
			os.Remove(tmp.Name())
			return size, fmt.Errorf("upload: rename %s: %w", name, err)
		}
		return size, nil
	}

	os.Remove(tmp.Name())
	if copyErr != nil {
		return size, fmt.Errorf("upload: write %s: %w", name, copyErr)
	}
	return size, fmt.Errorf("upload: close %s: %w", name, closeErr)
}

func copyChunked(w io.Writer, r io.Reader) (int64, error) {
	buf := make([]byte, ChunkSize)
	var size int64
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return size, werr
			}
			size += int64(n)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return size, nil
		}
		if err != nil {
			return size, err
		}
	}
}
