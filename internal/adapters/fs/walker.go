// Package fs provides file system adapters for resolving, hashing, verifying and installing files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"go.trai.ch/recipe/internal/core/domain"
)

// Walker provides directory walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkDirs yields root and every directory beneath it, skipping VCS metadata,
// the state directory and directories whose name matches one of ignores.
// Directories that cannot be read are skipped.
func (w *Walker) WalkDirs(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // Unreadable directories are skipped, not fatal.
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && w.ShouldSkip(d.Name(), ignores) {
				return filepath.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// ShouldSkip reports whether a directory with the given base name is excluded from walks.
func (w *Walker) ShouldSkip(name string, ignores []string) bool {
	switch name {
	case ".git", ".jj", domain.StateDirName:
		return true
	}
	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}
