package logbuild

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Writer writes build logs into a single configured directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates the log directory if needed and returns a Writer rooted
// there. The directory is resolved to an absolute path so recorded file
// paths stay valid regardless of the working directory.
// If logger is nil, a default logger will be used.
func NewWriter(dir string, logger *slog.Logger) (*Writer, error) {
	if dir == "" {
		return nil, fmt.Errorf("log directory must not be empty")
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve log directory: %w", err)
	}

	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Writer{
		dir:    absDir,
		logger: logger.With(slog.String("component", "log_writer")),
	}, nil
}

// Dir returns the absolute log directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write atomically writes content under the given file name inside the log
// directory and returns the absolute path. The write goes to a temp file
// first and is renamed into place, so a crash mid-write never leaves a
// partial log behind the recorded path.
func (w *Writer) Write(name, content string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid log file name %q", name)
	}

	finalPath := filepath.Join(w.dir, name)
	tmpPath := finalPath + ".tmp"

	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		// Clean up if something goes wrong; after a successful rename the
		// temp path no longer exists and this is a no-op.
		_ = os.Remove(tmpPath)
	}()

	_, err = io.WriteString(tmpFile, content)
	closeErr := tmpFile.Close()
	if err != nil {
		return "", fmt.Errorf("failed to write log file: %w", err)
	}
	if closeErr != nil {
		return "", fmt.Errorf("failed to close log file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", fmt.Errorf("failed to rename log file: %w", err)
	}

	w.logger.Debug("log file written",
		slog.String("path", finalPath),
		slog.Int("bytes", len(content)))
	return finalPath, nil
}

// Resolve verifies that a previously written log file still exists and
// returns its base filename for download headers. The stat error passes
// through unwrapped so callers can distinguish a missing file
// (errors.Is(err, fs.ErrNotExist)) from other I/O failures.
func (w *Writer) Resolve(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("log path %s is a directory", path)
	}
	return filepath.Base(path), nil
}
