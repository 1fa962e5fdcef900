package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Zipper is the compression capability behind the compress and extract
// queues. Compress produces a single-entry zip next to the source;
// Extract unpacks an archive into a directory.
type Zipper struct {
	logger *slog.Logger
}

// NewZipper creates a zipper.
func NewZipper(logger *slog.Logger) *Zipper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Zipper{logger: logger.With("component", "archive")}
}

// Compress writes path into outDir/{base}.zip and returns the archive
// path. The source file is left in place.
func (z *Zipper) Compress(path, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %q: %w", outDir, err)
	}

	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer in.Close()

	base := filepath.Base(path)
	zipPath := filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".zip")
	out, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive %q: %w", zipPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	entry, err := zw.Create(base)
	if err != nil {
		return "", fmt.Errorf("failed to create archive entry: %w", err)
	}
	if _, err := io.Copy(entry, in); err != nil {
		return "", fmt.Errorf("failed to write archive entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize archive %q: %w", zipPath, err)
	}

	z.logger.Info("compressed file", "path", path, "archive", zipPath)
	return zipPath, nil
}

// Extract unpacks zipPath into outDir and returns the paths of the
// extracted files. Entries that would escape outDir are rejected.
func (z *Zipper) Extract(zipPath, outDir string) ([]string, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %q: %w", zipPath, err)
	}
	defer reader.Close()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", outDir, err)
	}

	var extracted []string
	for _, entry := range reader.File {
		target := filepath.Join(outDir, entry.Name)
		if !strings.HasPrefix(target, filepath.Clean(outDir)+string(os.PathSeparator)) {
			return nil, fmt.Errorf("archive entry %q escapes output directory", entry.Name)
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create directory %q: %w", target, err)
			}
			continue
		}

		if err := extractEntry(entry, target); err != nil {
			return nil, err
		}
		extracted = append(extracted, target)
	}

	z.logger.Info("extracted archive", "archive", zipPath, "files", len(extracted))
	return extracted, nil
}

func extractEntry(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", target, err)
	}

	in, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %q: %w", entry.Name, err)
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", target, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to extract %q: %w", entry.Name, err)
	}
	return out.Close()
}
