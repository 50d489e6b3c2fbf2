// Package vcs exposes the git operations of the repository assistant:
// status, staging, commits, branches, stashes, and the recommendation
// heuristic built on raw status output.
//
// Every operation is a direct pass-through to the git CLI via the command
// runner and inherits its string contract: results and failures both come
// back as plain text.
package vcs

import (
	"context"
)

// gitRunner is the slice of the command runner this package needs.
type gitRunner interface {
	Git(ctx context.Context, args ...string) string
}

// reportWriter regenerates the README structure report before a push.
type reportWriter interface {
	AppendStructureReport() (string, error)
}

// Inspector performs git operations against the repository context.
type Inspector struct {
	run    gitRunner
	readme reportWriter
}

// NewInspector creates an inspector over the given runner.
func NewInspector(run gitRunner) *Inspector {
	return &Inspector{run: run}
}

// WithReportWriter enables the pre-push structure report refresh.
func (i *Inspector) WithReportWriter(w reportWriter) *Inspector {
	i.readme = w
	return i
}

// Status returns the raw `git status` output.
func (i *Inspector) Status(ctx context.Context) string {
	return i.run.Git(ctx, "status")
}

// StageAll stages every change in the working tree.
func (i *Inspector) StageAll(ctx context.Context) string {
	return i.run.Git(ctx, "add", ".")
}

// Commit stages all changes and commits them with the given message.
// The result concatenates the stage output and the commit output, stage
// first, so the caller sees both outcomes.
func (i *Inspector) Commit(ctx context.Context, message string) string {
	staged := i.StageAll(ctx)
	committed := i.run.Git(ctx, "commit", "-m", message)
	return staged + "\n" + committed
}

// Push refreshes the README structure report, then pushes to the remote.
// The report refresh is best-effort; a failed refresh does not block the
// push.
func (i *Inspector) Push(ctx context.Context) string {
	if i.readme != nil {
		_, _ = i.readme.AppendStructureReport()
	}
	return i.run.Git(ctx, "push")
}

// Pull fetches and integrates changes from the remote.
func (i *Inspector) Pull(ctx context.Context) string {
	return i.run.Git(ctx, "pull")
}

// RollbackLastCommit undoes the last commit, keeping its changes staged.
func (i *Inspector) RollbackLastCommit(ctx context.Context) string {
	return i.run.Git(ctx, "reset", "--soft", "HEAD~1")
}

// CreateBranch creates a branch and switches to it.
func (i *Inspector) CreateBranch(ctx context.Context, name string) string {
	return i.run.Git(ctx, "checkout", "-b", name)
}

// SwitchBranch checks out an existing branch.
func (i *Inspector) SwitchBranch(ctx context.Context, name string) string {
	return i.run.Git(ctx, "checkout", name)
}

// DeleteBranch deletes a fully merged branch.
func (i *Inspector) DeleteBranch(ctx context.Context, name string) string {
	return i.run.Git(ctx, "branch", "-d", name)
}

// Stash saves the working tree changes to the stash.
func (i *Inspector) Stash(ctx context.Context) string {
	return i.run.Git(ctx, "stash")
}

// ApplyStash reapplies the most recent stash entry.
func (i *Inspector) ApplyStash(ctx context.Context) string {
	return i.run.Git(ctx, "stash", "apply")
}

// RecentLog returns the last five commits, one line each.
func (i *Inspector) RecentLog(ctx context.Context) string {
	return i.run.Git(ctx, "log", "--oneline", "-n", "5")
}
