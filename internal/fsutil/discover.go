// Package fsutil provides file discovery and path helpers for batch runs.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverFiles returns the files under sourceDir matching any of the include
// globs, minus files matching any of the exclude globs. Patterns are matched
// against the file name only, e.g. "*.csv" or "*calcs.csv". The result is
// sorted so repeated runs process files in a stable order.
func DiscoverFiles(sourceDir string, include, exclude []string) ([]string, error) {
	included := make(map[string]bool)
	for _, pattern := range include {
		matches, err := filepath.Glob(filepath.Join(sourceDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad include pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			included[m] = true
		}
	}

	for _, pattern := range exclude {
		matches, err := filepath.Glob(filepath.Join(sourceDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad exclude pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			delete(included, m)
		}
	}

	files := make([]string, 0, len(included))
	for f := range included {
		if info, err := os.Stat(f); err == nil && !info.IsDir() {
			files = append(files, f)
		}
	}
	sort.Strings(files)
	return files, nil
}

// ValidateDir ensures the directory exists, creating it and any parents if
// necessary.
func ValidateDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// BaseName returns the file name without its path or extension,
// e.g. /somepath/somefile.csv -> somefile.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
