package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"repopilot/command"
	"repopilot/vcs"
)

// resultFromOutput converts a normalized command result string into a
// ToolResult, mapping the error-prefix convention onto a failure.
func resultFromOutput(out string) ToolResult {
	if command.IsError(out) {
		return FailureResult(errors.New(strings.TrimPrefix(out, "Error: ")))
	}
	return SuccessResult(out)
}

// stringArg extracts a single named string argument.
func stringArg(args json.RawMessage, name string) (string, error) {
	var m map[string]string
	if err := json.Unmarshal(args, &m); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return m[name], nil
}

// gitOpTool adapts a git operation that takes no arguments.
type gitOpTool struct {
	BaseTool
	meta ToolMetadata
	op   func(ctx context.Context) string
}

func (t *gitOpTool) Metadata() ToolMetadata { return t.meta }

func (t *gitOpTool) Execute(ctx context.Context, _ json.RawMessage) (ToolResult, error) {
	return resultFromOutput(t.op(ctx)), nil
}

// gitArgTool adapts a git operation that takes one required string argument.
type gitArgTool struct {
	BaseTool
	meta  ToolMetadata
	param string
	op    func(ctx context.Context, value string) string
}

func (t *gitArgTool) Metadata() ToolMetadata { return t.meta }

func (t *gitArgTool) Validate(args json.RawMessage) error {
	value, err := stringArg(args, t.param)
	if err != nil {
		return err
	}
	if value == "" {
		return fmt.Errorf("%s cannot be empty", t.param)
	}
	return nil
}

func (t *gitArgTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	value, err := stringArg(args, t.param)
	if err != nil {
		return FailureResult(err), nil
	}
	if value == "" {
		return FailureResultf("%s cannot be empty", t.param), nil
	}
	return resultFromOutput(t.op(ctx, value)), nil
}

func noArgGitTool(name, description string, op func(ctx context.Context) string) Tool {
	return &gitOpTool{
		meta: ToolMetadata{Name: name, Description: description},
		op:   op,
	}
}

func oneArgGitTool(name, description, param, paramDesc string, op func(ctx context.Context, value string) string) Tool {
	return &gitArgTool{
		meta: ToolMetadata{
			Name:        name,
			Description: description,
			Parameters: []ToolParameter{
				{Name: param, ParamType: "string", Description: paramDesc, Required: true},
			},
		},
		param: param,
		op:    op,
	}
}

// GitTools returns the full set of git tools over the inspector.
func GitTools(ins *vcs.Inspector) []Tool {
	return []Tool{
		noArgGitTool("git_status",
			"Show the working tree status of the repository", ins.Status),
		noArgGitTool("stage_all",
			"Stage all changes in the working tree", ins.StageAll),
		oneArgGitTool("commit",
			"Stage all changes and commit them with a message",
			"message", "The commit message", ins.Commit),
		noArgGitTool("push",
			"Refresh the README structure report and push commits to the remote", ins.Push),
		noArgGitTool("pull",
			"Pull changes from the remote", ins.Pull),
		noArgGitTool("rollback_last_commit",
			"Undo the last commit, keeping its changes staged", ins.RollbackLastCommit),
		oneArgGitTool("create_branch",
			"Create a new branch and switch to it",
			"branch_name", "Name of the branch to create", ins.CreateBranch),
		oneArgGitTool("switch_branch",
			"Switch to an existing branch",
			"branch_name", "Name of the branch to switch to", ins.SwitchBranch),
		oneArgGitTool("delete_branch",
			"Delete a fully merged branch",
			"branch_name", "Name of the branch to delete", ins.DeleteBranch),
		noArgGitTool("stash",
			"Stash the working tree changes", ins.Stash),
		noArgGitTool("apply_stash",
			"Reapply the most recent stash entry", ins.ApplyStash),
		noArgGitTool("recent_log",
			"Show the last five commits, one line each", ins.RecentLog),
		noArgGitTool("recommend",
			"Inspect the repository status and suggest next git steps", ins.Recommend),
	}
}
