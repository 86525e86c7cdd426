// Package pathmatch implements exclusion-pattern matching for the file set
// preparer. Three pattern shapes are supported:
//
//   - "src/gui/"  — a directory pattern (trailing slash) matching every path
//     below that directory
//   - "foo.cpp"   — a bare filename matching any path with that basename
//   - "src/x.c"   — a relative path matching the path itself or any path
//     ending in "/" + pattern
//
// Basename patterns may contain shell glob metacharacters ('*', '?', '[').
package pathmatch

import (
	"path"
	"strings"
)

// Matcher holds a fixed set of exclusion patterns. The zero value matches
// nothing.
type Matcher struct {
	patterns      []string
	caseSensitive bool
}

// New creates a matcher for the given patterns. When caseSensitive is false
// both patterns and candidate paths are compared in lower case.
func New(patterns []string, caseSensitive bool) *Matcher {
	m := &Matcher{caseSensitive: caseSensitive}
	for _, p := range patterns {
		p = strings.ReplaceAll(p, "\\", "/")
		if !caseSensitive {
			p = strings.ToLower(p)
		}
		m.patterns = append(m.patterns, p)
	}
	return m
}

// Patterns returns the active pattern set.
func (m *Matcher) Patterns() []string {
	return m.patterns
}

// Match reports whether the path matches any exclusion pattern.
func (m *Matcher) Match(p string) bool {
	if p == "" {
		return false
	}
	candidate := strings.ReplaceAll(p, "\\", "/")
	if !m.caseSensitive {
		candidate = strings.ToLower(candidate)
	}

	for _, pattern := range m.patterns {
		if pattern == "" {
			continue
		}
		if strings.HasSuffix(pattern, "/") {
			// Directory pattern: anything below the directory is excluded.
			if strings.HasPrefix(candidate, pattern) || strings.Contains(candidate, "/"+pattern) {
				return true
			}
			continue
		}
		if !strings.Contains(pattern, "/") {
			// Bare filename pattern, possibly a glob.
			if ok, err := path.Match(pattern, path.Base(candidate)); err == nil && ok {
				return true
			}
			continue
		}
		if candidate == pattern || strings.HasSuffix(candidate, "/"+pattern) {
			return true
		}
	}
	return false
}
