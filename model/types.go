// Package model provides domain types shared across packages.
package model

// ContextEntry records one file's summary metadata in the repository context
// log. Entries are appended in arrival order and never deduplicated: the same
// file may appear multiple times if it is summarized more than once.
type ContextEntry struct {
	File         string   `json:"file"`
	Summary      string   `json:"summary"`
	Imports      []string `json:"imports"`
	Requirements []string `json:"requirements"`
}

// Step represents a single step in the agent's reasoning process.
type Step struct {
	Iteration   int
	Thought     string
	Action      *string
	Observation *string
}

// ToolCall contains metrics about a tool invocation.
type ToolCall struct {
	Name       string `json:"name"`
	InputSize  int    `json:"input_size"`
	OutputSize int    `json:"output_size"`
	DurationMs uint64 `json:"duration_ms"`
	Success    bool   `json:"success"`
}
