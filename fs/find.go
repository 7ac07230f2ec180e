// Package fs provides file discovery and staged store directories.
package fs

import (
	"os"
	"path/filepath"

	"github.com/fwojciec/xmlidx"
)

// FindFiles returns the regular files under base whose path matches
// pattern, a filepath.Match pattern relative to base. With recurse set the
// same pattern is applied below every subdirectory of base, at any depth.
// Matches within one directory are sorted; a directory's own matches come
// before those of its subdirectories. A missing base yields no files.
func FindFiles(base, pattern string, recurse bool) ([]string, error) {
	if pattern == "" {
		return nil, xmlidx.Errorf(xmlidx.EINVALID, "file pattern required")
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, xmlidx.Errorf(xmlidx.EINVALID, "invalid file pattern %q", pattern)
	}

	var files []string
	if err := findFiles(base, pattern, recurse, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func findFiles(base, pattern string, recurse bool, files *[]string) error {
	matches, err := filepath.Glob(filepath.Join(base, pattern))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
			*files = append(*files, m)
		}
	}

	if !recurse {
		return nil
	}

	dir := base
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := findFiles(filepath.Join(base, e.Name()), pattern, recurse, files); err != nil {
			return err
		}
	}
	return nil
}
