package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"repopilot/command"
)

// RunShellTool executes an arbitrary command line through sh -c inside the
// repository. It is not registered by default; the CLI enables it behind an
// explicit opt-in flag.
type RunShellTool struct {
	BaseTool
	run *command.Runner
}

// NewRunShellTool creates the tool over the shared command runner.
func NewRunShellTool(run *command.Runner) *RunShellTool {
	return &RunShellTool{run: run}
}

// Metadata returns the tool metadata.
func (t *RunShellTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "run_shell",
		Description: "Execute an arbitrary shell command in the repository root and return its output",
		Parameters: []ToolParameter{
			{
				Name:        "command",
				ParamType:   "string",
				Description: "The shell command to execute",
				Required:    true,
			},
		},
	}
}

type runShellArgs struct {
	Command string `json:"command"`
}

// Validate validates the tool arguments.
func (t *RunShellTool) Validate(args json.RawMessage) error {
	var a runShellArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if a.Command == "" {
		return fmt.Errorf("command cannot be empty")
	}
	return nil
}

// Execute runs the shell command.
func (t *RunShellTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a runShellArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}
	if a.Command == "" {
		return FailureResultf("command cannot be empty"), nil
	}
	return resultFromOutput(t.run.Shell(ctx, a.Command)), nil
}
