package executor

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Op is the file operation an executor applies.
type Op string

const (
	OpMove Op = "move"
	OpCopy Op = "copy"
)

// Executor applies approved move and copy operations to the
// filesystem.
type Executor struct {
	logger *slog.Logger
}

// New creates an executor.
func New(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{logger: logger.With("component", "executor")}
}

// Apply moves or copies original to target and returns the final path.
// A target that is an existing directory receives the original's base
// name. Parent directories are created and name collisions resolved
// with a numeric suffix before the extension.
func (e *Executor) Apply(original, target string, op Op) (string, error) {
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, filepath.Base(original))
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create target directory for %q: %w", target, err)
	}

	target = resolveConflict(target)

	switch op {
	case OpMove:
		if err := moveFile(original, target); err != nil {
			return "", fmt.Errorf("failed to move %q: %w", original, err)
		}
	case OpCopy:
		if err := copyFile(original, target); err != nil {
			return "", fmt.Errorf("failed to copy %q: %w", original, err)
		}
	default:
		return "", fmt.Errorf("unknown operation %q", op)
	}

	e.logger.Info("applied file operation", "op", op, "from", original, "to", target)
	return target, nil
}

// resolveConflict returns target, or the first target_N variant that
// does not exist yet.
func resolveConflict(target string) string {
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return target
	}

	ext := filepath.Ext(target)
	base := strings.TrimSuffix(target, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// moveFile renames src to dst, falling back to copy and remove when
// the rename crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
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
