package fs

import (
	"os"
	"path/filepath"
)

// StoreDir stages a durable store directory so that it only appears at
// its final path once complete. The store is built in <path>.tmp and
// renamed to <path> on Commit.
type StoreDir struct {
	baseDir string
	name    string
}

// NewStoreDir creates a StoreDir publishing to path.
func NewStoreDir(path string) *StoreDir {
	return &StoreDir{
		baseDir: filepath.Dir(path),
		name:    filepath.Base(path),
	}
}

// TempDir returns the staging directory.
func (s *StoreDir) TempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

// FinalDir returns the published directory.
func (s *StoreDir) FinalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Begin creates an empty staging directory, discarding leftovers of an
// earlier failed build.
func (s *StoreDir) Begin() error {
	if err := os.RemoveAll(s.TempDir()); err != nil {
		return err
	}
	return os.MkdirAll(s.TempDir(), 0755)
}

// Commit replaces the final directory with the staging directory.
// The store must be closed first.
func (s *StoreDir) Commit() error {
	// Remove existing final directory if present
	if err := os.RemoveAll(s.FinalDir()); err != nil {
		return err
	}
	return os.Rename(s.TempDir(), s.FinalDir())
}

// Abort removes the staging directory.
func (s *StoreDir) Abort() error {
	return os.RemoveAll(s.TempDir())
}
