// Package storage is the path-addressed blob store for uploaded videos and
// generated reports. Both roots live on the local filesystem and are
// created at startup.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type LocalStore struct {
	UploadsDir string
	ReportsDir string
}

// NewLocalStore creates both storage roots and returns a store rooted there.
func NewLocalStore(uploadsDir, reportsDir string) (*LocalStore, error) {
	for _, dir := range []string{uploadsDir, reportsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}
	return &LocalStore{UploadsDir: uploadsDir, ReportsDir: reportsDir}, nil
}

// SaveUpload streams the file into the uploads root under a fresh random
// name, keeping the original extension. Uniqueness comes from the uuid,
// not from locking the directory.
func (s *LocalStore) SaveUpload(r io.Reader, originalName string) (string, error) {
	uniqueName := uuid.New().String() + filepath.Ext(originalName)
	path := filepath.Join(s.UploadsDir, uniqueName)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return path, nil
}

// ReportPath returns the storage path for a report artifact name.
func (s *LocalStore) ReportPath(name string) string {
	return filepath.Join(s.ReportsDir, name)
}

// InsideReports reports whether path resolves to a location inside the
// reports root. Stored paths are untrusted; the download endpoint refuses
// anything that escapes.
func (s *LocalStore) InsideReports(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	root, err := filepath.Abs(s.ReportsDir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}
