// Assistant construction for CLI commands.
//
// Information Hiding:
// - Domain object wiring hidden
// - Provider creation hidden
package cli

import (
	"fmt"

	"go.uber.org/zap"

	"repopilot/agent"
	"repopilot/command"
	"repopilot/config"
	"repopilot/container"
	"repopilot/llm"
	"repopilot/tools"
	"repopilot/vcs"
	"repopilot/workspace"
)

const assistantName = "repopilot"

const assistantSystemPrompt = `You are a repository assistant. You inspect and operate on a local
git repository through tools: filesystem listings, git operations, README
generation, context recording, and Docker image builds.

Ground rules:
- Call set_repo_path before any other repository tool.
- Tool failures come back as observations starting with "Error:". Read the
  message and decide the next step; do not repeat the same failing call.
- Prefer git_status and recommend to understand repository state before
  committing or pushing.
- Keep final answers short and factual, reporting what was actually done.`

// Assistant bundles the agent with the domain objects it operates on.
type Assistant struct {
	Agent     *agent.Agent
	Workspace *workspace.Context
}

// NewAssistant wires the repository tool set into a ReAct agent.
func NewAssistant(provider llm.Provider, settings config.Settings, allowShell bool, log *zap.Logger) *Assistant {
	ws := workspace.New()
	runner := command.NewRunner(ws).WithLogger(log)
	inspector := vcs.NewInspector(runner).WithReportWriter(ws)
	recorder := workspace.NewRecorder(ws)
	builder := container.NewBuilder(ws, runner)

	deps := tools.Deps{
		Workspace:  ws,
		Recorder:   recorder,
		Runner:     runner,
		Inspector:  inspector,
		Builder:    builder,
		AllowShell: allowShell,
		PortLow:    settings.Ports.Low,
		PortHigh:   settings.Ports.High,
	}

	cfg := agent.Config{
		Name:         assistantName,
		Description:  "Repository assistant with git, filesystem, and Docker tools",
		SystemPrompt: assistantSystemPrompt,
		Tools:        tools.DefaultTools(deps),
	}

	a := agent.New(cfg, provider).WithLogger(log)

	return &Assistant{Agent: a, Workspace: ws}
}

// createProvider builds a model provider from the CLI provider name.
func createProvider(providerName string) (llm.Provider, config.Settings, error) {
	if providerName == "" {
		return nil, config.Settings{}, fmt.Errorf("--provider is required for this command")
	}

	providerType, err := llm.ParseProviderType(providerName)
	if err != nil {
		return nil, config.Settings{}, err
	}

	settings, err := config.New(providerName)
	if err != nil {
		return nil, config.Settings{}, err
	}

	apiKey, err := config.APIKeyFor(providerName)
	if err != nil {
		return nil, config.Settings{}, err
	}

	provider, err := providerType.
		Model(settings.LLM.Model).
		MaxTokens(settings.LLM.MaxTokens).
		Temperature(float32(settings.LLM.Temperature)).
		APIKey(apiKey)
	if err != nil {
		return nil, config.Settings{}, err
	}

	return provider, settings, nil
}

// newLogger builds the CLI logger. Verbose mode gets a development logger,
// otherwise logging is silenced.
func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}
