package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"repopilot/model"
)

// contextFileName is the persisted context log at the repository root.
const contextFileName = "context.json"

// Recorder appends per-file summary entries to the repository's context log,
// a pretty-printed JSON array rewritten in full on each append. The log is
// later used to synthesize a container build file.
type Recorder struct {
	ws *Context
}

// NewRecorder creates a recorder bound to the given repository context.
func NewRecorder(ws *Context) *Recorder {
	return &Recorder{ws: ws}
}

// ReadFile returns the full text of a file addressed relative to the
// repository root. Failures are reported as a ReadError.
func (r *Recorder) ReadFile(name string) (string, error) {
	root, err := r.ws.Require()
	if err != nil {
		return "", err
	}

	path := filepath.Join(root, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ReadError{Path: path, Cause: err}
	}
	return string(data), nil
}

// AppendEntry loads the context log, appends the entry, and rewrites the
// whole list pretty-printed. Existing content that is valid JSON but not a
// list is wrapped into a single-element list; content that is not valid JSON
// at all is treated as an empty list, discarding it.
func (r *Recorder) AppendEntry(entry model.ContextEntry) (string, error) {
	root, err := r.ws.Require()
	if err != nil {
		return "", err
	}

	path := filepath.Join(root, contextFileName)
	entries := loadEntries(path)

	raw, err := json.Marshal(entry)
	if err != nil {
		return "", &WriteError{Path: path, Cause: err}
	}
	entries = append(entries, raw)

	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", &WriteError{Path: path, Cause: err}
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", &WriteError{Path: path, Cause: err}
	}

	return fmt.Sprintf("Recorded context for %s (%d entries)", entry.File, len(entries)), nil
}

// loadEntries reads the existing context log. The elements are kept as raw
// JSON so that prior entries survive a round trip untouched.
func loadEntries(path string) []json.RawMessage {
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err == nil {
		return list
	}

	// Valid JSON that is not a list becomes a single-element list.
	if json.Valid(data) {
		return []json.RawMessage{json.RawMessage(data)}
	}

	return nil
}
