// Package pathutil provides path canonicalization helpers shared by
// the cache, parser, and resolver.
package pathutil

import (
	"path/filepath"
)

// Canonical resolves symlinks and returns a cleaned absolute path. If
// resolution fails (e.g. the file was deleted between discovery and
// use), it falls back to the cleaned absolute path without symlink
// resolution so callers still get a stable cache key.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs, nil
	}
	return resolved, nil
}

// ToSlash converts path separators to forward slashes for generated
// include directives, which must be platform-independent (§4.E).
func ToSlash(path string) string {
	return filepath.ToSlash(path)
}

// RelativeTo computes path relative to one of dirs, in order, falling
// back to the file's base name when none match (§4.E point 3,
// §9 note (c)).
func RelativeTo(path string, dirs []string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	for _, dir := range dirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absDir, abs)
		if err != nil {
			continue
		}
		if rel == ".." || len(rel) >= 2 && rel[:2] == ".." {
			continue
		}
		return ToSlash(rel)
	}

	return filepath.Base(path)
}
