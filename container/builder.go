// Package container writes Docker build files and drives docker build and
// run through the docker CLI. Like the rest of the toolchain, operational
// failures come back as error-prefixed strings rather than raised errors.
package container

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"repopilot/workspace"
)

// buildFileName is the container build file written at the repository root.
const buildFileName = "Dockerfile"

// crashMarkers flag a detached container whose logs indicate it died right
// after starting.
var crashMarkers = []string{"Traceback (most recent call last)", "panic:"}

// executor is the slice of the command runner this package needs: raw
// stdout/stderr capture, since container IDs must be parsed from output.
type executor interface {
	Exec(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// Builder writes Dockerfiles and builds and runs images for the repository
// context.
type Builder struct {
	ws   *workspace.Context
	exec executor
}

// NewBuilder creates a builder over the given context and executor.
func NewBuilder(ws *workspace.Context, exec executor) *Builder {
	return &Builder{ws: ws, exec: exec}
}

// WriteBuildFile writes the given content to the Dockerfile at the
// repository root, replacing any existing file. Surrounding whitespace is
// trimmed and a trailing newline enforced.
func (b *Builder) WriteBuildFile(content string) (string, error) {
	root, err := b.ws.Require()
	if err != nil {
		return "", err
	}

	path := filepath.Join(root, buildFileName)
	data := strings.TrimSpace(content) + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return "", &workspace.WriteError{Path: path, Cause: err}
	}
	return fmt.Sprintf("Dockerfile written to %s", path), nil
}

// BuildImage runs `docker build -t <tag> .` in the repository root and
// reports the outcome as a string.
func (b *Builder) BuildImage(ctx context.Context, tag string) string {
	stdout, stderr, err := b.exec.Exec(ctx, "docker", "build", "-t", tag, ".")
	if err != nil {
		return failureText("image build failed", stdout, stderr, err)
	}
	return fmt.Sprintf("Image %s built successfully", tag)
}

// RunImage starts a detached container from the image, then reads its logs
// and scans them for crash markers. A container that started but whose logs
// show a crash is reported as a failure carrying the log text.
func (b *Builder) RunImage(ctx context.Context, tag string) string {
	stdout, stderr, err := b.exec.Exec(ctx, "docker", "run", "-d", tag)
	if err != nil {
		return failureText("container start failed", stdout, stderr, err)
	}

	id := strings.TrimSpace(stdout)
	logsOut, logsErr, err := b.exec.Exec(ctx, "docker", "logs", id)
	if err != nil {
		return failureText("could not read container logs", logsOut, logsErr, err)
	}

	// docker logs interleaves the app's stdout and stderr streams.
	logs := logsOut + logsErr
	for _, marker := range crashMarkers {
		if strings.Contains(logs, marker) {
			return fmt.Sprintf("Error: container %s started but crashed:\n%s", id, strings.TrimSpace(logs))
		}
	}
	return fmt.Sprintf("Container %s started from image %s", id, tag)
}

func failureText(what, stdout, stderr string, err error) string {
	detail := strings.TrimSpace(strings.TrimSpace(stdout) + "\n" + strings.TrimSpace(stderr))
	if detail == "" {
		return "Error: " + err.Error()
	}
	return fmt.Sprintf("Error: %s:\n%s", what, detail)
}
