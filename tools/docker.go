package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"repopilot/container"
)

// WriteDockerfileTool writes a Dockerfile at the repository root.
type WriteDockerfileTool struct {
	BaseTool
	builder *container.Builder
}

func NewWriteDockerfileTool(b *container.Builder) *WriteDockerfileTool {
	return &WriteDockerfileTool{builder: b}
}

func (t *WriteDockerfileTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "write_dockerfile",
		Description: "Write the given content to the Dockerfile at the repository root, replacing any existing one",
		Parameters: []ToolParameter{
			{
				Name:        "content",
				ParamType:   "string",
				Description: "Full Dockerfile content",
				Required:    true,
			},
		},
	}
}

func (t *WriteDockerfileTool) Validate(args json.RawMessage) error {
	content, err := stringArg(args, "content")
	if err != nil {
		return err
	}
	if content == "" {
		return fmt.Errorf("content cannot be empty")
	}
	return nil
}

func (t *WriteDockerfileTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	content, err := stringArg(args, "content")
	if err != nil {
		return FailureResult(err), nil
	}
	if content == "" {
		return FailureResultf("content cannot be empty"), nil
	}

	msg, err := t.builder.WriteBuildFile(content)
	if err != nil {
		return FailureResult(err), nil
	}
	return SuccessResult(msg), nil
}

// BuildImageTool builds a Docker image from the repository root.
type BuildImageTool struct {
	BaseTool
	builder *container.Builder
}

func NewBuildImageTool(b *container.Builder) *BuildImageTool {
	return &BuildImageTool{builder: b}
}

func (t *BuildImageTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "build_image",
		Description: "Build a Docker image from the repository's Dockerfile",
		Parameters: []ToolParameter{
			{
				Name:        "tag",
				ParamType:   "string",
				Description: "Tag for the built image",
				Required:    true,
			},
		},
	}
}

func (t *BuildImageTool) Validate(args json.RawMessage) error {
	tag, err := stringArg(args, "tag")
	if err != nil {
		return err
	}
	if tag == "" {
		return fmt.Errorf("tag cannot be empty")
	}
	return nil
}

func (t *BuildImageTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	tag, err := stringArg(args, "tag")
	if err != nil {
		return FailureResult(err), nil
	}
	if tag == "" {
		return FailureResultf("tag cannot be empty"), nil
	}
	return resultFromOutput(t.builder.BuildImage(ctx, tag)), nil
}

// RunImageTool starts a detached container and checks its logs for crashes.
type RunImageTool struct {
	BaseTool
	builder *container.Builder
}

func NewRunImageTool(b *container.Builder) *RunImageTool {
	return &RunImageTool{builder: b}
}

func (t *RunImageTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "run_image",
		Description: "Run a Docker image detached and report whether the container crashed on startup",
		Parameters: []ToolParameter{
			{
				Name:        "tag",
				ParamType:   "string",
				Description: "Tag of the image to run",
				Required:    true,
			},
		},
	}
}

func (t *RunImageTool) Validate(args json.RawMessage) error {
	tag, err := stringArg(args, "tag")
	if err != nil {
		return err
	}
	if tag == "" {
		return fmt.Errorf("tag cannot be empty")
	}
	return nil
}

func (t *RunImageTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	tag, err := stringArg(args, "tag")
	if err != nil {
		return FailureResult(err), nil
	}
	if tag == "" {
		return FailureResultf("tag cannot be empty"), nil
	}
	return resultFromOutput(t.builder.RunImage(ctx, tag)), nil
}

// ReservePortTool probes a port range and returns the first free port.
type ReservePortTool struct {
	BaseTool
	low  int
	high int
}

// NewReservePortTool creates the tool with the default probe range used when
// the caller does not pass one.
func NewReservePortTool(low, high int) *ReservePortTool {
	return &ReservePortTool{low: low, high: high}
}

func (t *ReservePortTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "reserve_port",
		Description: "Find a free local TCP port by probing a range in ascending order",
		Parameters: []ToolParameter{
			{
				Name:        "low",
				ParamType:   "integer",
				Description: "Inclusive lower bound of the range",
				Required:    false,
			},
			{
				Name:        "high",
				ParamType:   "integer",
				Description: "Exclusive upper bound of the range",
				Required:    false,
			},
		},
	}
}

type reservePortArgs struct {
	Low  *int `json:"low"`
	High *int `json:"high"`
}

func (t *ReservePortTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	low, high := t.low, t.high
	if len(args) > 0 {
		var a reservePortArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
		}
		if a.Low != nil {
			low = *a.Low
		}
		if a.High != nil {
			high = *a.High
		}
	}

	port, err := container.ReservePort(low, high)
	if err != nil {
		return FailureResult(err), nil
	}
	return SuccessResult(fmt.Sprintf("%d", port)), nil
}
