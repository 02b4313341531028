// Package compress writes gzip siblings of fixture files.
package compress

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// Suffix is appended to the source path, not substituted for its extension.
const Suffix = ".gzip"

// DefaultLevel selects the codec's default compression level.
const DefaultLevel = gzip.DefaultCompression

const chunkSize = 4 << 10

// Gzip streams path into path+Suffix and returns the written path.
// The header carries no name and a zero mtime so repeated runs produce identical bytes.
// A partially written output is removed on failure.
func Gzip(path string, level int) (out string, err error) {
	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer in.Close()

	out = path + Suffix
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", out, cerr)
		}
		if err != nil {
			_ = os.Remove(out)
			out = ""
		}
	}()

	bw := bufio.NewWriter(f)
	zw, err := gzip.NewWriterLevel(bw, level)
	if err != nil {
		return out, fmt.Errorf("failed to create gzip writer: %w", err)
	}

	if _, err = io.CopyBuffer(zw, in, make([]byte, chunkSize)); err != nil {
		_ = zw.Close()
		return out, fmt.Errorf("failed to compress %s: %w", path, err)
	}
	if err = zw.Close(); err != nil {
		return out, fmt.Errorf("failed to finish gzip stream for %s: %w", path, err)
	}
	if err = bw.Flush(); err != nil {
		return out, fmt.Errorf("failed to flush %s: %w", out, err)
	}
	return out, nil
}
