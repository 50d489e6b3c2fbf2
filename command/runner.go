// Package command executes external commands inside the repository context
// and normalizes their outcomes into plain string results.
//
// Errors are data: a failed command yields an error-prefixed string, never a
// raised fault. The driving agent inspects the returned text to decide what
// to do next.
package command

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"repopilot/workspace"
)

// SuccessMarker is returned for commands that exit zero without output.
const SuccessMarker = "command executed successfully"

// errorPrefix marks failure results. The driving agent matches on it.
const errorPrefix = "Error: "

// Runner executes git and shell commands with the repository root as working
// directory. Every invocation blocks until the subprocess exits; no timeout
// is applied, so a hung command hangs the caller.
type Runner struct {
	ws  *workspace.Context
	log *zap.Logger
}

// NewRunner creates a runner bound to the given repository context.
func NewRunner(ws *workspace.Context) *Runner {
	return &Runner{ws: ws, log: zap.NewNop()}
}

// WithLogger sets the logger used for command tracing.
func (r *Runner) WithLogger(log *zap.Logger) *Runner {
	r.log = log
	return r
}

// Exec runs an external command in the repository root, capturing stdout and
// stderr separately. Callers that want the normalized string contract should
// use Git or Shell instead.
func (r *Runner) Exec(ctx context.Context, name string, args ...string) (stdout, stderr string, err error) {
	dir, err := r.ws.Require()
	if err != nil {
		return "", "", err
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	r.log.Debug("exec",
		zap.String("command", name),
		zap.Strings("args", args),
		zap.String("dir", dir),
		zap.Bool("ok", runErr == nil),
	)
	return outBuf.String(), errBuf.String(), runErr
}

// Git runs `git <args>` and normalizes the result: trimmed stdout on
// success (or SuccessMarker when stdout is empty), an error-prefixed string
// embedding trimmed stderr on failure.
func (r *Runner) Git(ctx context.Context, args ...string) string {
	stdout, stderr, err := r.Exec(ctx, "git", args...)
	return normalize(stdout, stderr, err)
}

// Shell runs an arbitrary command line through `sh -c` with the same
// normalization contract as Git. No allow-list and no sanitization are
// applied here; the tool layer gates access to this capability.
func (r *Runner) Shell(ctx context.Context, cmdline string) string {
	stdout, stderr, err := r.Exec(ctx, "sh", "-c", cmdline)
	return normalize(stdout, stderr, err)
}

// ErrorText converts an error into the fixed error-prefixed result string.
func ErrorText(err error) string {
	return errorPrefix + err.Error()
}

// IsError reports whether a result string carries the error prefix.
func IsError(result string) bool {
	return strings.HasPrefix(result, errorPrefix)
}

func normalize(stdout, stderr string, err error) string {
	if err != nil {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = strings.TrimSpace(stdout)
		}
		if msg == "" {
			msg = err.Error()
		}
		return errorPrefix + msg
	}

	out := strings.TrimSpace(stdout)
	if out == "" {
		return SuccessMarker
	}
	return out
}
