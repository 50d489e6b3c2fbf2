package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ignoreMatcher answers whether a workspace-relative path is excluded by the
// repository's root .gitignore. A matcher with no patterns ignores nothing.
type ignoreMatcher struct {
	matcher gitignore.Matcher
}

// loadIgnoreMatcher reads <root>/.gitignore and builds a matcher from its
// patterns. A missing or unreadable .gitignore yields a matcher that never
// ignores; that is not an error.
func loadIgnoreMatcher(root string) *ignoreMatcher {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return &ignoreMatcher{}
	}

	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if len(patterns) == 0 {
		return &ignoreMatcher{}
	}
	return &ignoreMatcher{matcher: gitignore.NewMatcher(patterns)}
}

// Ignored reports whether the given workspace-relative path matches a
// .gitignore pattern.
func (m *ignoreMatcher) Ignored(rel string, isDir bool) bool {
	if m == nil || m.matcher == nil {
		return false
	}
	return m.matcher.Match(strings.Split(filepath.ToSlash(rel), "/"), isDir)
}
