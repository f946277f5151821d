// Package discovery locates the directory holding per-character files.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Strategy proposes a data directory. It reports false when it found nothing.
type Strategy func() (string, bool)

// FirstMatch runs strategies in order and returns the first match.
func FirstMatch(strategies ...Strategy) (string, bool) {
	for _, s := range strategies {
		if s == nil {
			continue
		}
		if path, ok := s(); ok {
			return path, true
		}
	}
	return "", false
}

// Resolver builds the default search order relative to Root.
type Resolver struct {
	Root          string
	DataDir       string
	BackupDir     string
	HistorySuffix string
}

// Strategies returns the search order: data dir here and one level up, a tree search for the
// data dir, the backup dir here and one level up, then the directory of any history file.
func (r Resolver) Strategies() []Strategy {
	root := r.Root
	if root == "" {
		root = "."
	}
	return []Strategy{
		ExistingDir(filepath.Join(root, r.DataDir)),
		ExistingDir(filepath.Join(root, "..", r.DataDir)),
		SearchTree(root, r.DataDir),
		ExistingDir(filepath.Join(root, r.BackupDir)),
		ExistingDir(filepath.Join(root, "..", r.BackupDir)),
		FileDir(root, r.HistorySuffix),
	}
}

// Resolve evaluates Strategies.
func (r Resolver) Resolve() (string, bool) {
	return FirstMatch(r.Strategies()...)
}

// ExistingDir matches when path is a directory.
func ExistingDir(path string) Strategy {
	return func() (string, bool) {
		if isDir(path) {
			return path, true
		}
		return "", false
	}
}

// SearchTree walks root top-down and matches the first directory named name. The children of
// each directory are checked before any of them is descended into.
func SearchTree(root, name string) Strategy {
	return func() (string, bool) {
		if name == "" {
			return "", false
		}
		var found string
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil
			}
			candidate := filepath.Join(path, name)
			if isDir(candidate) {
				found = candidate
				return fs.SkipAll
			}
			return nil
		})
		if err != nil || found == "" {
			return "", false
		}
		return found, true
	}
}

// FileDir walks root and matches the directory of the first file whose name ends with suffix.
// Hidden directories are skipped.
func FileDir(root, suffix string) Strategy {
	return func() (string, bool) {
		if suffix == "" {
			return "", false
		}
		var found string
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return fs.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(d.Name(), suffix) {
				found = filepath.Dir(path)
				return fs.SkipAll
			}
			return nil
		})
		if err != nil || found == "" {
			return "", false
		}
		return found, true
	}
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
