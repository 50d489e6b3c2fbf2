package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"repopilot/model"
	"repopilot/workspace"
)

// SetRepoPathTool selects the repository directory every other tool acts on.
type SetRepoPathTool struct {
	BaseTool
	ws *workspace.Context
}

// NewSetRepoPathTool creates the tool over the shared repository context.
func NewSetRepoPathTool(ws *workspace.Context) *SetRepoPathTool {
	return &SetRepoPathTool{ws: ws}
}

// Metadata returns the tool metadata.
func (t *SetRepoPathTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "set_repo_path",
		Description: "Select the repository directory to operate on, initializing version control if absent. Returns a preview of its contents.",
		Parameters: []ToolParameter{
			{
				Name:        "path",
				ParamType:   "string",
				Description: "Path to the repository directory",
				Required:    true,
			},
		},
	}
}

type setRepoPathArgs struct {
	Path string `json:"path"`
}

// Validate validates the tool arguments.
func (t *SetRepoPathTool) Validate(args json.RawMessage) error {
	var a setRepoPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if a.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	return nil
}

// Execute configures the repository context.
func (t *SetRepoPathTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a setRepoPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}
	if a.Path == "" {
		return FailureResultf("path cannot be empty"), nil
	}

	preview, err := t.ws.SetPath(a.Path)
	if err != nil {
		return FailureResult(err), nil
	}

	listing := strings.Join(preview, ", ")
	if listing == "" {
		listing = "(empty)"
	}
	return SuccessResult(fmt.Sprintf("Repository path set to %s. Top-level entries: %s", t.ws.Path(), listing)), nil
}

// ListTopLevelTool lists the visible entries of the repository root.
type ListTopLevelTool struct {
	BaseTool
	ws *workspace.Context
}

func NewListTopLevelTool(ws *workspace.Context) *ListTopLevelTool {
	return &ListTopLevelTool{ws: ws}
}

func (t *ListTopLevelTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "list_top_level",
		Description: "List the visible files and folders at the repository root",
	}
}

func (t *ListTopLevelTool) Execute(ctx context.Context, _ json.RawMessage) (ToolResult, error) {
	entries, err := t.ws.ListTopLevel()
	if err != nil {
		return FailureResult(err), nil
	}
	if len(entries) == 0 {
		return SuccessResult("No visible entries."), nil
	}
	return SuccessResult(strings.Join(entries, "\n")), nil
}

// ListFolderTool lists the visible entries of a subdirectory.
type ListFolderTool struct {
	BaseTool
	ws *workspace.Context
}

func NewListFolderTool(ws *workspace.Context) *ListFolderTool {
	return &ListFolderTool{ws: ws}
}

func (t *ListFolderTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "list_folder",
		Description: "List the visible files and folders of a subdirectory of the repository",
		Parameters: []ToolParameter{
			{
				Name:        "folder",
				ParamType:   "string",
				Description: "Subdirectory path relative to the repository root",
				Required:    true,
			},
		},
	}
}

func (t *ListFolderTool) Validate(args json.RawMessage) error {
	folder, err := stringArg(args, "folder")
	if err != nil {
		return err
	}
	if folder == "" {
		return fmt.Errorf("folder cannot be empty")
	}
	return nil
}

func (t *ListFolderTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	folder, err := stringArg(args, "folder")
	if err != nil {
		return FailureResult(err), nil
	}
	if folder == "" {
		return FailureResultf("folder cannot be empty"), nil
	}

	entries, err := t.ws.ListFolder(folder)
	if err != nil {
		return FailureResult(err), nil
	}
	if len(entries) == 0 {
		return SuccessResult("No visible entries."), nil
	}
	return SuccessResult(strings.Join(entries, "\n")), nil
}

// DescribeTreeTool renders the recursive, filtered repository tree.
type DescribeTreeTool struct {
	BaseTool
	ws *workspace.Context
}

func NewDescribeTreeTool(ws *workspace.Context) *DescribeTreeTool {
	return &DescribeTreeTool{ws: ws}
}

func (t *DescribeTreeTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "describe_tree",
		Description: "Render the repository directory tree, excluding hidden and environment entries",
	}
}

func (t *DescribeTreeTool) Execute(ctx context.Context, _ json.RawMessage) (ToolResult, error) {
	tree, err := t.ws.DescribeTree()
	if err != nil {
		return FailureResult(err), nil
	}
	return SuccessResult(tree), nil
}

// GenerateReadmeTool appends the structure report to README.md.
type GenerateReadmeTool struct {
	BaseTool
	ws *workspace.Context
}

func NewGenerateReadmeTool(ws *workspace.Context) *GenerateReadmeTool {
	return &GenerateReadmeTool{ws: ws}
}

func (t *GenerateReadmeTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "generate_readme",
		Description: "Append a Project Structure section with the repository tree to README.md",
	}
}

func (t *GenerateReadmeTool) Execute(ctx context.Context, _ json.RawMessage) (ToolResult, error) {
	msg, err := t.ws.AppendStructureReport()
	if err != nil {
		return FailureResult(err), nil
	}
	return SuccessResult(msg), nil
}

// ReadFileTool returns the content of a file inside the repository.
type ReadFileTool struct {
	BaseTool
	rec *workspace.Recorder
}

func NewReadFileTool(rec *workspace.Recorder) *ReadFileTool {
	return &ReadFileTool{rec: rec}
}

func (t *ReadFileTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "read_file",
		Description: "Read the content of a file inside the repository",
		Parameters: []ToolParameter{
			{
				Name:        "file_path",
				ParamType:   "string",
				Description: "File path relative to the repository root",
				Required:    true,
			},
		},
	}
}

func (t *ReadFileTool) Validate(args json.RawMessage) error {
	path, err := stringArg(args, "file_path")
	if err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("file_path cannot be empty")
	}
	return nil
}

func (t *ReadFileTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	path, err := stringArg(args, "file_path")
	if err != nil {
		return FailureResult(err), nil
	}
	if path == "" {
		return FailureResultf("file_path cannot be empty"), nil
	}

	content, err := t.rec.ReadFile(path)
	if err != nil {
		return FailureResult(err), nil
	}
	return SuccessResult(content), nil
}

// RecordContextTool appends a per-file summary entry to the context log.
type RecordContextTool struct {
	BaseTool
	rec *workspace.Recorder
}

func NewRecordContextTool(rec *workspace.Recorder) *RecordContextTool {
	return &RecordContextTool{rec: rec}
}

func (t *RecordContextTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "record_context",
		Description: "Record a file's summary, imports, and requirements into the repository context log",
		Parameters: []ToolParameter{
			{
				Name:        "file",
				ParamType:   "string",
				Description: "The file the summary describes",
				Required:    true,
			},
			{
				Name:        "summary",
				ParamType:   "string",
				Description: "A short description of what the file does",
				Required:    true,
			},
			{
				Name:        "imports",
				ParamType:   "array",
				Description: "Modules the file imports",
				Required:    false,
			},
			{
				Name:        "requirements",
				ParamType:   "array",
				Description: "External packages the file needs",
				Required:    false,
			},
		},
	}
}

func (t *RecordContextTool) Validate(args json.RawMessage) error {
	var entry model.ContextEntry
	if err := json.Unmarshal(args, &entry); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if entry.File == "" {
		return fmt.Errorf("file cannot be empty")
	}
	return nil
}

func (t *RecordContextTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var entry model.ContextEntry
	if err := json.Unmarshal(args, &entry); err != nil {
		return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}
	if entry.File == "" {
		return FailureResultf("file cannot be empty"), nil
	}

	msg, err := t.rec.AppendEntry(entry)
	if err != nil {
		return FailureResult(err), nil
	}
	return SuccessResult(msg), nil
}
