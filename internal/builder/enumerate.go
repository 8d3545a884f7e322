package builder

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	ierr "symdex/internal/errors"
)

// enumerate walks the root and returns candidate paths relative to it,
// normalized to forward slashes and sorted for deterministic staging.
// Ignored directories are pruned; only allow-listed extensions survive.
func (b *Builder) enumerate() ([]string, error) {
	var candidates []string

	err := filepath.WalkDir(b.opts.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == b.opts.Root {
				return err
			}
			return nil // skip inaccessible entries, keep walking
		}

		rel, relErr := filepath.Rel(b.opts.Root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if b.isIgnored(rel, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if b.isIgnored(rel, d.Name()) {
			return nil
		}
		if !b.allowedExt(filepath.Ext(d.Name())) {
			return nil
		}

		candidates = append(candidates, rel)
		return nil
	})
	if err != nil {
		return nil, ierr.Wrap(ierr.IOError, "walking "+b.opts.Root, err)
	}

	sort.Strings(candidates)
	return candidates, nil
}

// isIgnored matches a relative path against the configured ignore set.
// Each pattern can hit as an exact base name, a path glob, or a directory
// prefix, so "vendor" also excludes "vendor/foo/bar.py". Paths are matched
// with forward slashes on every platform.
func (b *Builder) isIgnored(rel, base string) bool {
	for _, pattern := range b.opts.Ignores {
		pattern = filepath.ToSlash(pattern)

		if base == pattern {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
		dirPattern := strings.TrimSuffix(pattern, "/") + "/"
		if strings.HasPrefix(rel, dirPattern) {
			return true
		}
		if rel == strings.TrimSuffix(pattern, "/") {
			return true
		}
	}
	return false
}

func (b *Builder) allowedExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range b.opts.Extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
