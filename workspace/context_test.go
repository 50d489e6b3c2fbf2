package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// newRepo creates a directory with .git metadata so SetPath skips
// initialization.
func newRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}
	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestSetPathRejectsMissingPath(t *testing.T) {
	c := New()
	_, err := c.SetPath(filepath.Join(t.TempDir(), "nope"))

	var notFound *PathNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected PathNotFoundError, got %v", err)
	}
	if c.Path() != "" {
		t.Errorf("failed SetPath mutated the context: %q", c.Path())
	}
}

func TestSetPathRejectsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plain.txt", "x")

	c := New()
	if _, err := c.SetPath(filepath.Join(dir, "plain.txt")); err == nil {
		t.Fatal("expected an error for a non-directory target")
	}
	if c.Path() != "" {
		t.Error("failed SetPath mutated the context")
	}
}

func TestSetPathInitializesOnce(t *testing.T) {
	dir := t.TempDir()

	inits := 0
	c := New().WithInitFunc(func(target string) error {
		inits++
		// Simulate git init so the second SetPath sees the metadata.
		return os.Mkdir(filepath.Join(target, ".git"), 0o755)
	})

	if _, err := c.SetPath(dir); err != nil {
		t.Fatalf("first SetPath: %v", err)
	}
	if _, err := c.SetPath(dir); err != nil {
		t.Fatalf("second SetPath: %v", err)
	}
	if inits != 1 {
		t.Errorf("repository initialized %d times, want 1", inits)
	}
}

func TestSetPathPreview(t *testing.T) {
	dir := newRepo(t)
	writeFile(t, dir, ".gitignore", "ignored.log\n")
	writeFile(t, dir, ".hidden", "x")
	writeFile(t, dir, "ignored.log", "x")
	for i := 0; i < 15; i++ {
		writeFile(t, dir, fmt.Sprintf("file%02d.txt", i), "x")
	}

	c := New()
	preview, err := c.SetPath(dir)
	if err != nil {
		t.Fatalf("SetPath: %v", err)
	}

	if len(preview) != previewLimit {
		t.Fatalf("preview has %d entries, want %d", len(preview), previewLimit)
	}
	for _, name := range preview {
		if name == ".hidden" || name == ".gitignore" || name == "ignored.log" {
			t.Errorf("preview includes filtered entry %q", name)
		}
	}
	if preview[0] != "file00.txt" {
		t.Errorf("preview[0] = %q, want listing order preserved", preview[0])
	}
}

func TestRequire(t *testing.T) {
	c := New()
	if _, err := c.Require(); !errors.Is(err, ErrContextNotSet) {
		t.Fatalf("expected ErrContextNotSet, got %v", err)
	}

	dir := newRepo(t)
	if _, err := c.SetPath(dir); err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	got, err := c.Require()
	if err != nil {
		t.Fatalf("Require after SetPath: %v", err)
	}
	if want, _ := filepath.Abs(dir); got != want {
		t.Errorf("Require = %q, want %q", got, want)
	}
}
