package sqlite

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/fwojciec/xmlidx"
)

// FileName is the name of the database file inside a store directory.
const FileName = "index.db"

// Compile-time interface verification.
var _ xmlidx.StoreEngine = (*Engine)(nil)

// Engine opens SQLite record stores, one database file per directory.
type Engine struct{}

// NewEngine returns a new Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Name returns "sqlite".
func (e *Engine) Name() string {
	return "sqlite"
}

// Exists reports whether dir holds a database file.
func (e *Engine) Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil && info.Mode().IsRegular()
}

// Open opens the store in dir. Returns ENOTFOUND if the store does not
// exist and create is false.
func (e *Engine) Open(dir string, create bool) (xmlidx.Store, error) {
	if !e.Exists(dir) {
		if !create {
			return nil, xmlidx.Errorf(xmlidx.ENOTFOUND, "no sqlite store in %s", dir)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db := NewDB(filepath.Join(dir, FileName))
	if err := db.Open(); err != nil {
		return nil, err
	}
	return NewRecordStore(db), nil
}

// Remove deletes the database file and its journal files. The directory
// itself is left in place.
func (e *Engine) Remove(dir string) error {
	var errs []error
	for _, suffix := range []string{"", "-wal", "-shm", "-journal"} {
		err := os.Remove(filepath.Join(dir, FileName+suffix))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
