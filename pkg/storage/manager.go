package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	errs "everia/pkg/errors"
	"everia/pkg/models"
)

// Manager lays out post folders under an output root and writes images
// into them
type Manager struct {
	outputDir string
	written   atomic.Int64
}

// NewManager creates a storage manager rooted at outputDir.
// Nothing is created on disk until a folder is first requested.
func NewManager(outputDir string) *Manager {
	return &Manager{outputDir: outputDir}
}

// FolderPath returns the folder that holds the images of post
func (m *Manager) FolderPath(post models.Post) string {
	return filepath.Join(m.outputDir, models.FolderName(string(post)))
}

// EnsureFolder creates the folder for post, including any missing parents.
// The folder path is returned even when creation fails.
func (m *Manager) EnsureFolder(post models.Post) (string, error) {
	folder := m.FolderPath(post)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return folder, errs.Wrap(errs.ErrorTypeWrite, folder, fmt.Errorf("failed to create folder: %w", err))
	}
	return folder, nil
}

// WriteImage stores data as folder/name, replacing any existing file.
// The bytes land in a temporary file first so a failed write never leaves a
// truncated image behind.
func (m *Manager) WriteImage(folder, name string, data []byte) error {
	if name == "" || name == "." || name == ".." {
		return errs.New(errs.ErrorTypeWrite, 0, folder, fmt.Sprintf("invalid file name %q", name))
	}
	filename := filepath.Join(folder, name)

	out, err := os.CreateTemp(folder, name+".*.tmp")
	if err != nil {
		return errs.Wrap(errs.ErrorTypeWrite, filename, fmt.Errorf("failed to create temporary file: %w", err))
	}
	tempFile := out.Name()

	_, err = out.Write(data)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return errs.Wrap(errs.ErrorTypeWrite, filename, fmt.Errorf("failed to write image data: %w", err))
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return errs.Wrap(errs.ErrorTypeWrite, filename, fmt.Errorf("failed to close file: %w", closeErr))
	}

	if err := os.Chmod(tempFile, 0644); err != nil {
		os.Remove(tempFile)
		return errs.Wrap(errs.ErrorTypeWrite, filename, fmt.Errorf("failed to set file mode: %w", err))
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return errs.Wrap(errs.ErrorTypeWrite, filename, fmt.Errorf("failed to rename temporary file: %w", err))
	}

	m.written.Add(1)
	return nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetWrittenCount returns the number of images written by this manager
func (m *Manager) GetWrittenCount() int {
	return int(m.written.Load())
}
