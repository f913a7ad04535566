// Package extract collects translatable literals from source files.
//
// It finds source files by extension, runs each through the scan package
// (comment stripping, literal scanning, script filtering), drops literals
// matched by the exclusion rules, and writes the survivors to a candidate
// dictionary awaiting keys and translations.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultExtensions are the source file extensions scanned when none are
// configured.
var DefaultExtensions = []string{".dart"}

// skipDirs contains directory names to skip during source file scanning.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	".dart_tool":   true,
	".idea":        true,
	".pub-cache":   true,
	"node_modules": true,
	"build":        true,
	"ios":          true,
	"android":      true,
}

// Matcher reports whether a slash-separated path is excluded.
type Matcher struct {
	globs    []glob.Glob
	patterns []string
}

// NewMatcher compiles exclusion globs. "**" crosses directories, "*" does
// not: "**/*.g.dart" drops generated files anywhere.
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(filepath.ToSlash(p), '/')
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		m.globs = append(m.globs, g)
		m.patterns = append(m.patterns, p)
	}
	return m, nil
}

// Match reports whether path matches any exclusion glob.
func (m *Matcher) Match(path string) bool {
	if m == nil {
		return false
	}
	path = filepath.ToSlash(path)
	for _, g := range m.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.patterns...)
}

// FindSources recursively finds files with one of exts under dirs, skipping
// tool and platform directories and any path the matcher excludes. Exclude
// globs are matched against the path relative to base. Missing directories
// are skipped. The result is sorted and free of duplicates.
func FindSources(base string, dirs, exts []string, exclude *Matcher) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	extSet := make(map[string]bool, len(exts))
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		extSet[strings.ToLower(e)] = true
	}

	var files []string
	seen := make(map[string]bool)

	for _, dir := range dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // skip unreadable entries
			}
			rel := relTo(base, path)
			if info.IsDir() {
				if path != dir && (skipDirs[info.Name()] || exclude.Match(rel+"/")) {
					return filepath.SkipDir
				}
				return nil
			}
			if !extSet[strings.ToLower(filepath.Ext(path))] || exclude.Match(rel) {
				return nil
			}
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func relTo(base, path string) string {
	if base == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// DescribeFiles returns a human-readable summary of the source files found,
// grouped by extension.
func DescribeFiles(files []string) string {
	byExt := make(map[string]int)
	for _, f := range files {
		byExt[strings.ToLower(filepath.Ext(f))]++
	}
	var exts []string
	for ext := range byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	var parts []string
	for _, ext := range exts {
		parts = append(parts, fmt.Sprintf("%d %s", byExt[ext], ext))
	}
	return strings.Join(parts, ", ")
}
