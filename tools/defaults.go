package tools

import (
	"fmt"

	"repopilot/command"
	"repopilot/container"
	"repopilot/vcs"
	"repopilot/workspace"
)

// Default port probe range for reserve_port when the caller passes none.
const (
	DefaultPortLow  = 8000
	DefaultPortHigh = 8100
)

// Deps bundles the domain objects the default tool set is built over.
type Deps struct {
	Workspace *workspace.Context
	Recorder  *workspace.Recorder
	Runner    *command.Runner
	Inspector *vcs.Inspector
	Builder   *container.Builder

	// AllowShell registers the run_shell tool, which executes arbitrary
	// command lines. Off unless the user opts in.
	AllowShell bool

	// PortLow and PortHigh override the reserve_port probe range.
	// Zero values fall back to the package defaults.
	PortLow  int
	PortHigh int
}

// DefaultTools returns the full repository tool set built over deps.
func DefaultTools(deps Deps) []Tool {
	portLow, portHigh := deps.PortLow, deps.PortHigh
	if portLow == 0 {
		portLow = DefaultPortLow
	}
	if portHigh == 0 {
		portHigh = DefaultPortHigh
	}

	all := []Tool{
		NewSetRepoPathTool(deps.Workspace),
		NewListTopLevelTool(deps.Workspace),
		NewListFolderTool(deps.Workspace),
		NewDescribeTreeTool(deps.Workspace),
		NewGenerateReadmeTool(deps.Workspace),
		NewReadFileTool(deps.Recorder),
		NewRecordContextTool(deps.Recorder),
		NewWriteDockerfileTool(deps.Builder),
		NewBuildImageTool(deps.Builder),
		NewRunImageTool(deps.Builder),
		NewReservePortTool(portLow, portHigh),
	}
	all = append(all, GitTools(deps.Inspector)...)
	if deps.AllowShell {
		all = append(all, NewRunShellTool(deps.Runner))
	}
	return all
}

// WithDefaults creates a registry holding the full repository tool set.
// Returns error if any tool registration fails.
func WithDefaults(deps Deps) (*Registry, error) {
	registry := NewRegistry()

	for _, t := range DefaultTools(deps) {
		if err := registry.Register(t); err != nil {
			return nil, fmt.Errorf("failed to register default tools: %w", err)
		}
	}

	return registry, nil
}
