// ReAct (Reason + Act) loop implementation.
//
// All assistant execution goes through this module. Tool failures come back
// as observations, not as aborts: the model sees the failure text and decides
// what to do next.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	jsonutil "repopilot/internal/json"
	"repopilot/llm"
	"repopilot/model"
	"repopilot/tools"
)

// Agent executes tasks using the ReAct pattern.
type Agent struct {
	config       Config
	provider     llm.Provider
	toolRegistry *tools.Registry
	toolExecutor *tools.Executor
	log          *zap.Logger
	verbose      bool
}

// New creates a new agent with the given configuration and provider.
func New(config Config, provider llm.Provider) *Agent {
	registry := tools.NewRegistry()
	for _, tool := range config.Tools {
		_ = registry.Register(tool) // Ignore duplicate errors - caller's responsibility
	}

	return &Agent{
		config:       config,
		provider:     provider,
		toolRegistry: registry,
		toolExecutor: tools.NewExecutor(),
		log:          zap.NewNop(),
	}
}

// WithLogger sets the logger used for execution tracing.
func (a *Agent) WithLogger(log *zap.Logger) *Agent {
	a.log = log
	a.toolExecutor.WithLogger(log)
	return a
}

// Name returns the agent's name.
func (a *Agent) Name() string {
	return a.config.Name
}

// Description returns the agent's description.
func (a *Agent) Description() string {
	return a.config.Description
}

// Verbose enables verbose output (streams LLM reasoning to stdout).
func (a *Agent) Verbose(enabled bool) *Agent {
	a.verbose = enabled
	return a
}

// Registry exposes the agent's tool registry.
func (a *Agent) Registry() *tools.Registry {
	return a.toolRegistry
}

// Execute runs a task with the given maximum iterations.
func (a *Agent) Execute(ctx context.Context, task string, maxIterations int) Response {
	return a.ExecuteWithHistory(ctx, task, nil, maxIterations)
}

// ExecuteWithHistory runs a task with prior conversation history. The history
// holds user and assistant turns from earlier tasks; the system prompt is
// prepended fresh on every call.
func (a *Agent) ExecuteWithHistory(ctx context.Context, task string, history []llm.ChatMessage, maxIterations int) Response {
	startTime := time.Now()
	var steps []model.Step
	var toolCalls []model.ToolCall
	var totalUsage llm.TokenUsage
	var llmCalls int
	var lastToolOutput string

	conversation := a.seedConversation(history, maxIterations)
	conversation = append(conversation, llm.UserMessage(fmt.Sprintf("Task: %s", task)))

	// ReAct loop
	for iteration := 0; iteration < maxIterations; iteration++ {
		if ctx.Err() != nil {
			return NewFailureResponse(
				fmt.Sprintf("execution cancelled: %v", ctx.Err()),
				steps,
				uint64(time.Since(startTime).Milliseconds()),
			)
		}

		remaining := maxIterations - iteration

		// Think: get next action from LLM
		decision, usage, err := a.think(ctx, conversation)
		if err != nil {
			return NewFailureResponse(
				fmt.Sprintf("Failed to reason: %v", err),
				steps,
				uint64(time.Since(startTime).Milliseconds()),
			)
		}

		llmCalls++
		if usage != nil {
			totalUsage.PromptTokens += usage.PromptTokens
			totalUsage.CompletionTokens += usage.CompletionTokens
			totalUsage.TotalTokens += usage.TotalTokens
		}

		// Check if complete
		if decision.IsFinal {
			result := a.getFinalResult(decision, lastToolOutput)

			steps = append(steps, model.Step{
				Iteration:   iteration,
				Thought:     decision.Thought,
				Action:      nil,
				Observation: &result,
			})

			return NewSuccessResponse(
				result,
				steps,
				toolCalls,
				uint64(time.Since(startTime).Milliseconds()),
				a.config.Name,
				&totalUsage,
				llmCalls,
			)
		}

		// Act: execute tool
		if decision.Action != nil {
			observation, toolCall, execErr := a.executeTool(ctx, decision.Action)

			if toolCall != nil {
				toolCalls = append(toolCalls, *toolCall)
			}

			if execErr == nil && toolCall != nil && toolCall.Success {
				lastToolOutput = observation
			}

			assistantMsg := map[string]interface{}{
				"thought": decision.Thought,
				"action": map[string]interface{}{
					"tool":  decision.Action.Tool,
					"input": decision.Action.Input,
				},
				"is_final": false,
			}
			msgJSON, err := json.Marshal(assistantMsg)
			if err != nil {
				// Fallback if marshal fails (should not happen with simple types)
				msgJSON = []byte(fmt.Sprintf(`{"thought": %q}`, decision.Thought))
			}
			conversation = append(conversation, llm.AssistantMessage(string(msgJSON)))

			urgency := ""
			if remaining <= 2 {
				urgency = fmt.Sprintf("\n\nWARNING: Only %d iterations remaining!", remaining-1)
			}

			observationMsg := observation
			if execErr != nil {
				observationMsg = fmt.Sprintf("Tool failed: %v", execErr)
			}

			conversation = append(conversation, llm.UserMessage(fmt.Sprintf(
				"Observation: %s%s\n\nIs the task complete? If yes, set is_final=true.",
				observationMsg, urgency,
			)))

			actionName := decision.Action.Tool
			steps = append(steps, model.Step{
				Iteration:   iteration,
				Thought:     decision.Thought,
				Action:      &actionName,
				Observation: &observationMsg,
			})
		} else {
			// No action - might be implicit completion
			if a.hasPriorProgress(steps) {
				result := a.getImplicitResult(decision, lastToolOutput, steps)

				return NewSuccessResponse(
					result,
					steps,
					toolCalls,
					uint64(time.Since(startTime).Milliseconds()),
					a.config.Name,
					&totalUsage,
					llmCalls,
				)
			}

			observation := "No action specified"
			steps = append(steps, model.Step{
				Iteration:   iteration,
				Thought:     decision.Thought,
				Action:      nil,
				Observation: &observation,
			})
		}
	}

	return NewTimeoutResponse(
		steps,
		toolCalls,
		uint64(time.Since(startTime).Milliseconds()),
		&totalUsage,
		llmCalls,
	)
}

// seedConversation builds the working conversation from prior history,
// ensuring the system prompt sits at the head.
func (a *Agent) seedConversation(history []llm.ChatMessage, maxIterations int) []llm.ChatMessage {
	systemPrompt := fmt.Sprintf(
		`%s

Available Tools:
%s

You have a maximum of %d iterations.
Respond in this JSON format:
{
  "thought": "your reasoning",
  "action": {"tool": "name", "input": {...}},
  "is_final": false,
  "final_answer": null
}

When complete: is_final=true, action=null, provide final_answer.`,
		a.config.SystemPrompt,
		a.toolRegistry.Description(),
		maxIterations,
	)

	conversation := make([]llm.ChatMessage, 0, len(history)+2)
	conversation = append(conversation, llm.SystemMessage(systemPrompt))
	for _, msg := range history {
		if msg.Role == "system" {
			continue
		}
		conversation = append(conversation, msg)
	}
	return conversation
}

// think asks the LLM for the next action.
// Uses streaming when verbose mode is enabled to show tokens in real-time.
// Returns the decision and token usage (usage may be nil for streaming).
func (a *Agent) think(ctx context.Context, conversation []llm.ChatMessage) (Decision, *llm.TokenUsage, error) {
	var response string
	var usage *llm.TokenUsage

	if a.verbose {
		var err error
		response, usage, err = a.thinkWithStreaming(ctx, conversation)
		if err != nil {
			return Decision{}, nil, fmt.Errorf("LLM chat failed: %w", err)
		}
	} else {
		resp, err := a.provider.Chat(ctx, conversation)
		if err != nil {
			return Decision{}, nil, fmt.Errorf("LLM chat failed: %w", err)
		}
		response = resp.Content
		usage = resp.Usage
	}

	// Extract JSON from response
	var decision Decision
	extracted, err := jsonutil.ExtractJSON(response)
	if err != nil {
		// Could not extract JSON - treat as a thought without action
		return Decision{
			Thought: response,
			IsFinal: false,
		}, usage, nil
	}

	if err := json.Unmarshal([]byte(extracted), &decision); err != nil {
		return Decision{
			Thought: response,
			IsFinal: false,
		}, usage, nil
	}

	return decision, usage, nil
}

// streamResult holds the result of a streaming call.
type streamResult struct {
	usage *llm.TokenUsage
	err   error
}

// thinkWithStreaming uses streaming to show tokens in real-time (verbose mode).
func (a *Agent) thinkWithStreaming(ctx context.Context, conversation []llm.ChatMessage) (string, *llm.TokenUsage, error) {
	chunks := make(chan string, 100)

	resultCh := make(chan streamResult, 1)
	go func() {
		defer close(chunks)
		usage, err := a.provider.StreamChat(ctx, conversation, chunks)
		resultCh <- streamResult{usage: usage, err: err}
	}()

	// Collect response while printing tokens
	var response strings.Builder
	printedHeader := false

	for chunk := range chunks {
		if !printedHeader {
			fmt.Printf("\n[%s] ", a.config.Name)
			printedHeader = true
		}
		fmt.Print(chunk)
		os.Stdout.Sync() // Flush to show tokens immediately
		response.WriteString(chunk)
	}

	if printedHeader {
		fmt.Print("\n\n")
	}

	result := <-resultCh
	if result.err != nil {
		return "", nil, result.err
	}

	return response.String(), result.usage, nil
}

// executeTool runs a tool once and returns the observation. Failed tool
// results become observations with their error text; the error return is
// reserved for infrastructure faults like an unknown tool name.
func (a *Agent) executeTool(ctx context.Context, action *Action) (string, *model.ToolCall, error) {
	tool, exists := a.toolRegistry.Get(action.Tool)
	if !exists {
		return "", nil, fmt.Errorf("tool '%s' not found", action.Tool)
	}

	result, err := a.toolExecutor.Execute(ctx, tool, action.Input)
	if err != nil {
		return "", nil, fmt.Errorf("tool %q failed: %w", action.Tool, err)
	}

	// The executor records metrics for every completed call.
	calls := a.toolExecutor.Calls()
	toolCall := &calls[len(calls)-1]

	if result.Success() {
		return result.Output, toolCall, nil
	}

	return fmt.Sprintf("Error: %v", result.Error), toolCall, nil
}

// Result helpers

func (a *Agent) getFinalResult(decision Decision, lastToolOutput string) string {
	if a.config.ReturnToolOutput && lastToolOutput != "" {
		return lastToolOutput
	}
	if decision.FinalAnswer != nil {
		return *decision.FinalAnswer
	}
	return "Task completed"
}

func (a *Agent) getImplicitResult(decision Decision, lastToolOutput string, steps []model.Step) string {
	if a.config.ReturnToolOutput && lastToolOutput != "" {
		return lastToolOutput
	}
	if decision.Thought != "" {
		return decision.Thought
	}
	if len(steps) > 0 && steps[len(steps)-1].Observation != nil {
		return *steps[len(steps)-1].Observation
	}
	return "Task completed"
}

func (a *Agent) hasPriorProgress(steps []model.Step) bool {
	if len(steps) == 0 {
		return false
	}
	for _, s := range steps {
		if s.Observation != nil {
			return true
		}
	}
	return false
}
