// Package output writes fixture files into the output directory.
package output

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Artifact describes one written file.
type Artifact struct {
	Name   string
	Path   string
	Size   int
	SHA256 string
}

// Format returns the artifact's last extension without the dot.
func (a Artifact) Format() string {
	return strings.TrimPrefix(filepath.Ext(a.Name), ".")
}

// Writer writes files relative to a directory.
type Writer struct {
	dir string
}

// NewWriter creates the directory if needed.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir %s: %w", dir, err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Path joins name onto the output directory.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// Remove deletes the named files. Missing files are not an error.
func (w *Writer) Remove(names ...string) error {
	for _, name := range names {
		if err := os.Remove(w.Path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", w.Path(name), err)
		}
	}
	return nil
}

// Write replaces the named file with data.
func (w *Writer) Write(name string, data []byte) (Artifact, error) {
	path := w.Path(name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Artifact{}, fmt.Errorf("failed to write %s: %w", path, err)
	}

	sum := sha256.Sum256(data)
	return Artifact{
		Name:   name,
		Path:   path,
		Size:   len(data),
		SHA256: hex.EncodeToString(sum[:]),
	}, nil
}
