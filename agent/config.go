// Agent configuration types.
package agent

import (
	"repopilot/tools"
)

// Config holds agent configuration.
type Config struct {
	// Name is a unique identifier for the agent.
	Name string

	// Description explains what this agent does.
	Description string

	// SystemPrompt guides the agent's behavior.
	SystemPrompt string

	// Tools available to this agent.
	Tools []tools.Tool

	// ReturnToolOutput returns the last tool output instead of final_answer.
	ReturnToolOutput bool
}

// DefaultConfig returns a basic agent configuration.
func DefaultConfig() Config {
	return Config{
		Name:         "assistant",
		Description:  "A repository assistant",
		SystemPrompt: "You are a helpful assistant.",
		Tools:        []tools.Tool{},
	}
}

// HasTools returns true if the agent has tools configured.
func (c *Config) HasTools() bool {
	return len(c.Tools) > 0
}
