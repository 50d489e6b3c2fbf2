package workspace

import (
	"os"
	"path/filepath"
	"strings"
)

// excludedNames are filtered from every listing and from tree descent,
// in addition to hidden entries. README.md is excluded because the structure
// report is written into it.
var excludedNames = map[string]struct{}{
	".env":         {},
	"env":          {},
	"venv":         {},
	".venv":        {},
	"README.md":    {},
	"__pycache__":  {},
	"node_modules": {},
}

// skipEntry reports whether a directory entry is hidden or in the fixed
// exclusion set.
func skipEntry(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, excluded := excludedNames[name]
	return excluded
}

// ListTopLevel lists the visible entries of the repository root, excluding
// hidden names and the fixed exclusion set. Directories carry a trailing
// slash.
func (c *Context) ListTopLevel() ([]string, error) {
	root, err := c.Require()
	if err != nil {
		return nil, err
	}
	return listDir(root)
}

// ListFolder lists the visible entries of a subdirectory of the repository
// root. Returns NotADirectoryError when the target exists but is not a
// directory, PathNotFoundError when it does not exist.
func (c *Context) ListFolder(sub string) ([]string, error) {
	root, err := c.Require()
	if err != nil {
		return nil, err
	}

	target := filepath.Join(root, sub)
	info, err := os.Stat(target)
	if err != nil {
		return nil, &PathNotFoundError{Path: target}
	}
	if !info.IsDir() {
		return nil, &NotADirectoryError{Path: target}
	}
	return listDir(target)
}

func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ReadError{Path: dir, Cause: err}
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if skipEntry(name) {
			continue
		}
		if entry.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	return names, nil
}

// DescribeTree walks the repository recursively and renders one line per
// retained entry with depth-proportional indentation. Hidden and excluded
// directories are pruned from descent, not just from display. Within a
// directory the order is: the directory line, its files, then its
// subdirectories' lines.
func (c *Context) DescribeTree() (string, error) {
	root, err := c.Require()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := describeDir(root, 0, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func describeDir(dir string, depth int, b *strings.Builder) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &ReadError{Path: dir, Cause: err}
	}

	indent := strings.Repeat("    ", depth)
	b.WriteString(indent + filepath.Base(dir) + "/\n")

	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		if skipEntry(name) {
			continue
		}
		if entry.IsDir() {
			subdirs = append(subdirs, name)
			continue
		}
		b.WriteString(indent + "    " + name + "\n")
	}

	for _, sub := range subdirs {
		if err := describeDir(filepath.Join(dir, sub), depth+1, b); err != nil {
			return err
		}
	}
	return nil
}
