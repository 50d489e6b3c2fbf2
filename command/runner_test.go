package command

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"repopilot/workspace"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}

	ws := workspace.New().WithInitFunc(func(string) error { return nil })
	if _, err := ws.SetPath(dir); err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	return NewRunner(ws)
}

func TestExecRequiresContext(t *testing.T) {
	r := NewRunner(workspace.New())
	_, _, err := r.Exec(context.Background(), "true")
	if !errors.Is(err, workspace.ErrContextNotSet) {
		t.Fatalf("expected ErrContextNotSet, got %v", err)
	}
}

func TestShellNormalization(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		cmdline string
		want    string
	}{
		{"stdout is trimmed", "echo '  hello  '", "hello"},
		{"empty output yields marker", "true", SuccessMarker},
		{"failure carries stderr", "echo boom >&2; exit 1", "Error: boom"},
		{"failure falls back to stdout", "echo oops; exit 2", "Error: oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Shell(ctx, tt.cmdline)
			if got != tt.want {
				t.Errorf("Shell(%q) = %q, want %q", tt.cmdline, got, tt.want)
			}
		})
	}
}

func TestShellRunsInRepositoryRoot(t *testing.T) {
	r := newTestRunner(t)
	got := r.Shell(context.Background(), "pwd")
	if got != r.ws.Path() {
		t.Errorf("pwd = %q, want %q", got, r.ws.Path())
	}
}

func TestNormalizeFailureWithoutOutput(t *testing.T) {
	got := normalize("", "", errors.New("exec: not found"))
	if got != "Error: exec: not found" {
		t.Errorf("normalize = %q", got)
	}
}

func TestErrorText(t *testing.T) {
	got := ErrorText(errors.New("bad input"))
	if got != "Error: bad input" {
		t.Errorf("ErrorText = %q", got)
	}
	if !IsError(got) {
		t.Error("IsError should match ErrorText output")
	}
	if IsError("all good") {
		t.Error("IsError matched a success result")
	}
}
