package container

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"repopilot/workspace"
)

type fakeExec struct {
	calls  [][]string
	stdout map[string]string
	stderr map[string]string
	fail   map[string]bool
}

func (f *fakeExec) Exec(_ context.Context, name string, args ...string) (string, string, error) {
	call := append([]string{name}, args...)
	f.calls = append(f.calls, call)
	key := strings.Join(call, " ")

	var err error
	if f.fail[key] {
		err = errors.New("exit status 1")
	}
	return f.stdout[key], f.stderr[key], err
}

func newTestWorkspace(t *testing.T) *workspace.Context {
	t.Helper()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}
	ws := workspace.New().WithInitFunc(func(string) error { return nil })
	if _, err := ws.SetPath(dir); err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	return ws
}

func TestWriteBuildFile(t *testing.T) {
	ws := newTestWorkspace(t)
	b := NewBuilder(ws, &fakeExec{})

	msg, err := b.WriteBuildFile("\n\nFROM alpine\nCMD [\"true\"]\n\n")
	if err != nil {
		t.Fatalf("WriteBuildFile: %v", err)
	}
	if !strings.Contains(msg, "Dockerfile written to") {
		t.Errorf("unexpected message %q", msg)
	}

	data, err := os.ReadFile(filepath.Join(ws.Path(), "Dockerfile"))
	if err != nil {
		t.Fatalf("read Dockerfile: %v", err)
	}
	want := "FROM alpine\nCMD [\"true\"]\n"
	if string(data) != want {
		t.Errorf("Dockerfile = %q, want %q", data, want)
	}
}

func TestWriteBuildFileRequiresContext(t *testing.T) {
	b := NewBuilder(workspace.New(), &fakeExec{})
	if _, err := b.WriteBuildFile("FROM alpine"); !errors.Is(err, workspace.ErrContextNotSet) {
		t.Fatalf("expected ErrContextNotSet, got %v", err)
	}
}

func TestBuildImage(t *testing.T) {
	ws := newTestWorkspace(t)

	t.Run("success", func(t *testing.T) {
		exec := &fakeExec{}
		got := NewBuilder(ws, exec).BuildImage(context.Background(), "app:latest")
		if got != "Image app:latest built successfully" {
			t.Errorf("BuildImage = %q", got)
		}
		if len(exec.calls) != 1 || strings.Join(exec.calls[0], " ") != "docker build -t app:latest ." {
			t.Errorf("unexpected calls %v", exec.calls)
		}
	})

	t.Run("failure carries output", func(t *testing.T) {
		key := "docker build -t app:latest ."
		exec := &fakeExec{
			stderr: map[string]string{key: "unknown instruction: FORM"},
			fail:   map[string]bool{key: true},
		}
		got := NewBuilder(ws, exec).BuildImage(context.Background(), "app:latest")
		if !strings.HasPrefix(got, "Error:") || !strings.Contains(got, "unknown instruction") {
			t.Errorf("BuildImage = %q", got)
		}
	})
}

func TestRunImage(t *testing.T) {
	ws := newTestWorkspace(t)
	runKey := "docker run -d app:latest"
	logsKey := "docker logs abc123"

	t.Run("healthy container", func(t *testing.T) {
		exec := &fakeExec{
			stdout: map[string]string{
				runKey:  "abc123\n",
				logsKey: "listening on :8080\n",
			},
		}
		got := NewBuilder(ws, exec).RunImage(context.Background(), "app:latest")
		if got != "Container abc123 started from image app:latest" {
			t.Errorf("RunImage = %q", got)
		}
	})

	t.Run("crash detected in logs", func(t *testing.T) {
		exec := &fakeExec{
			stdout: map[string]string{runKey: "abc123\n"},
			stderr: map[string]string{logsKey: "Traceback (most recent call last):\n  ValueError"},
		}
		got := NewBuilder(ws, exec).RunImage(context.Background(), "app:latest")
		if !strings.HasPrefix(got, "Error:") || !strings.Contains(got, "crashed") {
			t.Errorf("RunImage = %q", got)
		}
		if !strings.Contains(got, "ValueError") {
			t.Errorf("crash report should include the logs: %q", got)
		}
	})

	t.Run("start failure", func(t *testing.T) {
		exec := &fakeExec{
			stderr: map[string]string{runKey: "no such image"},
			fail:   map[string]bool{runKey: true},
		}
		got := NewBuilder(ws, exec).RunImage(context.Background(), "app:latest")
		if !strings.HasPrefix(got, "Error:") || !strings.Contains(got, "no such image") {
			t.Errorf("RunImage = %q", got)
		}
	})
}
