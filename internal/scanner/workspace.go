package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludePatterns keeps the usual dependency and VCS trees out of
// workspace scans when configuration supplies no exclude set.
var DefaultExcludePatterns = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/vendor/**",
	"**/dist/**",
	"**/build/**",
}

// WorkspaceResult is the outcome of a workspace scan. On cancellation the
// candidates accumulated so far are returned with Cancelled set, rather
// than being discarded.
type WorkspaceResult struct {
	Candidates   []Candidate `json:"candidates"`
	FilesScanned int         `json:"filesScanned"`
	FilesSkipped int         `json:"filesSkipped"`
	Cancelled    bool        `json:"cancelled"`
}

// ScanFile scans a single file, reporting candidates under the given
// project-relative path. Binary files, unreadable files, and files with
// over-long lines are skipped by returning (nil, false).
func (s *Scanner) ScanFile(absPath, relPath string) ([]Candidate, bool) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, false
	}
	if looksBinary(data) {
		return nil, false
	}
	candidates, err := s.ScanText(relPath, string(data))
	if err != nil {
		return nil, false
	}
	return candidates, true
}

// ScanWorkspace enumerates files under root matching any include pattern and
// no exclude pattern (doublestar globs over slash-separated relative paths),
// de-duplicates by resolved path, and scans each file independently in
// enumeration order. Cancellation is cooperative and checked between files,
// never mid-file.
func (s *Scanner) ScanWorkspace(ctx context.Context, root string, include, exclude []string) (*WorkspaceResult, error) {
	if len(include) == 0 {
		include = []string{"**/*"}
	}
	if exclude == nil {
		exclude = DefaultExcludePatterns
	}

	files, err := enumerate(root, include, exclude)
	if err != nil {
		return nil, err
	}

	result := &WorkspaceResult{Candidates: []Candidate{}}
	for _, rel := range files {
		select {
		case <-ctx.Done():
			result.Cancelled = true
			return result, nil
		default:
		}

		candidates, ok := s.ScanFile(filepath.Join(root, rel), rel)
		if !ok {
			result.FilesSkipped++
			continue
		}
		result.FilesScanned++
		result.Candidates = append(result.Candidates, candidates...)
	}
	return result, nil
}

// enumerate walks root once, collecting relative slash paths that match the
// include set minus the exclude set, de-duplicated by resolved absolute path.
func enumerate(root string, include, exclude []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A missing or unreadable root fails the scan; unreadable
			// subdirectories are skipped, not fatal.
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && matchesAny(exclude, rel+"/") {
				return fs.SkipDir
			}
			return nil
		}

		if !matchesAny(include, rel) || matchesAny(exclude, rel) {
			return nil
		}

		resolved := resolve(path)
		if seen[resolved] {
			return nil
		}
		seen[resolved] = true
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// matchesAny reports whether rel matches at least one doublestar pattern.
// Directory candidates arrive with a trailing slash so that patterns like
// "**/node_modules/**" prune the whole subtree.
func matchesAny(patterns []string, rel string) bool {
	isDir := strings.HasSuffix(rel, "/")
	trimmed := strings.TrimSuffix(rel, "/")
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, trimmed); err == nil && ok {
			return true
		}
		if isDir {
			// A directory matches "<prefix>/**" patterns by its path alone.
			if ok, err := doublestar.Match(p, trimmed+"/x"); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// resolve returns the symlink-resolved absolute path, falling back to the
// cleaned absolute path when resolution fails.
func resolve(path string) string {
	if r, err := filepath.EvalSymlinks(path); err == nil {
		path = r
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
