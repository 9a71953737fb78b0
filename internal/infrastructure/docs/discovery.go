package docs

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Document file names are matched literally; anything else, whatever its
// content, is not a reqtrace document.
const (
	requirementsPattern = "**/requirements.{yml,yaml}"
	testsPattern        = "**/tests.{yml,yaml}"
)

// findDocuments searches the given roots recursively for declarative
// documents. Duplicate roots are collapsed before any traversal, and results
// are deduplicated and sorted so discovery is deterministic for a given
// filesystem snapshot.
func findDocuments(roots []string) (requirements, tests []string, err error) {
	for _, root := range dedupeRoots(roots) {
		reqs, err := doublestar.FilepathGlob(filepath.Join(root, requirementsPattern))
		if err != nil {
			return nil, nil, fmt.Errorf("search %s: %w", root, err)
		}
		requirements = append(requirements, reqs...)

		tsts, err := doublestar.FilepathGlob(filepath.Join(root, testsPattern))
		if err != nil {
			return nil, nil, fmt.Errorf("search %s: %w", root, err)
		}
		tests = append(tests, tsts...)
	}
	return dedupePaths(requirements), dedupePaths(tests), nil
}

func dedupeRoots(roots []string) []string {
	seen := make(map[string]bool, len(roots))
	var out []string
	for _, r := range roots {
		clean := filepath.Clean(r)
		if !seen[clean] {
			seen[clean] = true
			out = append(out, clean)
		}
	}
	sort.Strings(out)
	return out
}

// dedupePaths guards against overlapping roots reporting the same file twice.
func dedupePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var out []string
	for _, p := range paths {
		clean := filepath.Clean(p)
		if !seen[clean] {
			seen[clean] = true
			out = append(out, clean)
		}
	}
	sort.Strings(out)
	return out
}
