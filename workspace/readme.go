package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppendStructureReport renders the repository tree and appends it to
// README.md at the repository root as a fenced "Project Structure" block.
// Prior README content is preserved; the file is created if absent.
// The write is attempted exactly once.
func (c *Context) AppendStructureReport() (string, error) {
	tree, err := c.DescribeTree()
	if err != nil {
		return "", err
	}

	readmePath := filepath.Join(c.path, "README.md")
	f, err := os.OpenFile(readmePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", &WriteError{Path: readmePath, Cause: err}
	}
	defer f.Close()

	block := fmt.Sprintf("\n## Project Structure\n\n```\n%s```\n", tree)
	if _, err := f.WriteString(block); err != nil {
		return "", &WriteError{Path: readmePath, Cause: err}
	}

	return fmt.Sprintf("Project structure appended to %s", readmePath), nil
}
