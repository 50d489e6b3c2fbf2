// Package workspace holds the repository context: the single filesystem root
// that every git, inspection, and container operation acts on.
//
// The context is an explicit object owned by the caller's session. Operations
// that need a configured path fail with ErrContextNotSet until SetPath has
// succeeded; the tool layer converts that (and every other error here) into a
// plain string result for the driving agent.
package workspace

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// previewLimit is the number of directory entries returned by SetPath.
const previewLimit = 10

// Context is the repository context. The zero value has no path configured;
// use New and SetPath.
//
// No locking is performed: the system assumes a single session issuing one
// operation at a time.
type Context struct {
	path     string
	ignore   *ignoreMatcher
	initRepo func(dir string) error
}

// New creates an empty repository context. Repositories without version
// control metadata are initialized with `git init` on SetPath.
func New() *Context {
	return &Context{initRepo: gitInit}
}

// WithInitFunc overrides the repository initializer run by SetPath when the
// target has no .git directory. Used by tests and callers that manage
// initialization themselves.
func (c *Context) WithInitFunc(fn func(dir string) error) *Context {
	c.initRepo = fn
	return c
}

// SetPath selects the repository root. The path must exist and be a
// directory; otherwise a PathNotFoundError is returned and the stored
// context is left unchanged. If the directory has no .git entry, a
// repository is initialized as a side effect (exactly once: a later SetPath
// on the same path finds the metadata and skips initialization).
//
// On success it returns a preview: the first entries of the directory that
// are neither hidden nor matched by the root .gitignore, in filesystem
// listing order, capped at ten.
func (c *Context) SetPath(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, &PathNotFoundError{Path: path}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &PathNotFoundError{Path: path}
	}

	if _, err := os.Stat(filepath.Join(abs, ".git")); os.IsNotExist(err) {
		if err := c.initRepo(abs); err != nil {
			return nil, fmt.Errorf("initialize repository at %s: %w", abs, err)
		}
	}

	c.path = abs
	c.ignore = loadIgnoreMatcher(abs)

	return c.preview()
}

// Path returns the configured repository root, or "" if unset.
func (c *Context) Path() string {
	return c.path
}

// Require returns the configured repository root, or ErrContextNotSet.
func (c *Context) Require() (string, error) {
	if c.path == "" {
		return "", ErrContextNotSet
	}
	return c.path, nil
}

// preview lists the first previewLimit visible, non-ignored entries of the
// repository root.
func (c *Context) preview() ([]string, error) {
	entries, err := os.ReadDir(c.path)
	if err != nil {
		return nil, &ReadError{Path: c.path, Cause: err}
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if c.ignore.Ignored(name, entry.IsDir()) {
			continue
		}
		names = append(names, name)
		if len(names) == previewLimit {
			break
		}
	}
	return names, nil
}

// gitInit initializes version control metadata in dir via the git CLI.
func gitInit(dir string) error {
	cmd := exec.Command("git", "init")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git init: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
