package schedule

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Trasher disposes of a file whose deletion deadline has passed.
type Trasher interface {
	Trash(path string) error
}

// DirTrasher moves expired files into a trash directory instead of
// unlinking them, so a bad rule never destroys data outright.
type DirTrasher struct {
	dir string
}

// NewDirTrasher creates a trasher that moves files into dir.
func NewDirTrasher(dir string) *DirTrasher {
	return &DirTrasher{dir: dir}
}

// Trash moves path into the trash directory. Name collisions get a
// numeric suffix before the extension.
func (t *DirTrasher) Trash(path string) error {
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create trash directory %q: %w", t.dir, err)
	}

	target := filepath.Join(t.dir, filepath.Base(path))
	for i := 1; ; i++ {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			break
		}
		ext := filepath.Ext(path)
		base := strings.TrimSuffix(filepath.Base(path), ext)
		target = filepath.Join(t.dir, fmt.Sprintf("%s_%d%s", base, i, ext))
	}

	if err := os.Rename(path, target); err == nil {
		return nil
	}
	// Rename fails across filesystems; fall back to copy and remove.
	if err := copyFile(path, target); err != nil {
		return fmt.Errorf("failed to trash %q: %w", path, err)
	}
	return os.Remove(path)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
