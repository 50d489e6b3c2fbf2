// Command execution for CLI commands.
//
// Information Hiding:
// - Command dispatch logic hidden
// - Assistant setup hidden
// - Output formatting hidden
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"repopilot/agent"
	"repopilot/llm"
	"repopilot/storage"
	"repopilot/tools"
)

// Options holds CLI execution options.
type Options struct {
	Provider   string
	MaxIter    int
	Verbose    bool
	Repo       string
	AllowShell bool
}

// DefaultOptions returns default CLI options.
func DefaultOptions() Options {
	return Options{
		MaxIter: 10,
	}
}

// defaultDBPath is the database path for conversation persistence.
const defaultDBPath = ".repopilot/repopilot.db"

// RunTask executes a single task with the repository assistant.
func RunTask(ctx context.Context, task string, opts Options) error {
	provider, settings, err := createProvider(opts.Provider)
	if err != nil {
		return err
	}

	log, err := newLogger(opts.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	assistant := NewAssistant(provider, settings, opts.AllowShell, log)
	if opts.Verbose {
		assistant.Agent.Verbose(true)
	}

	maxIter := opts.MaxIter
	if maxIter <= 0 {
		maxIter = settings.Agent.MaxIterations
	}

	if err := setRepo(assistant, opts.Repo); err != nil {
		return err
	}

	fmt.Printf("Running task...\n\n")

	response := assistant.Agent.Execute(ctx, task, maxIter)

	switch response.Type {
	case agent.ResponseSuccess:
		if opts.Verbose {
			printSteps(response.Steps)
		}
		fmt.Printf("%s\n\n", response.Result)
		if len(response.Steps) > 0 {
			fmt.Printf("(%d steps)\n", len(response.Steps))
		}
		return nil
	case agent.ResponseFailure:
		fmt.Fprintf(os.Stderr, "Error: %s\n", response.Error)
		return fmt.Errorf("task failed: %s", response.Error)
	case agent.ResponseTimeout:
		fmt.Printf("Timeout. Partial result:\n%s\n", response.PartialResult)
		return fmt.Errorf("task timed out")
	default:
		return fmt.Errorf("unknown response type: %v", response.Type)
	}
}

// Chat starts an interactive chat session with conversation persistence.
func Chat(ctx context.Context, sessionID, dbPath string, opts Options) error {
	provider, settings, err := createProvider(opts.Provider)
	if err != nil {
		return err
	}

	log, err := newLogger(opts.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	assistant := NewAssistant(provider, settings, opts.AllowShell, log)
	if opts.Verbose {
		assistant.Agent.Verbose(true)
	}

	maxIter := opts.MaxIter
	if maxIter <= 0 {
		maxIter = settings.Agent.MaxIterations
	}

	if err := setRepo(assistant, opts.Repo); err != nil {
		return err
	}

	if dbPath == "" {
		dbPath = defaultDBPath
	}
	store, err := storage.OpenSqlite(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	session := sessionID
	if session == "" {
		session = uuid.NewString()
		fmt.Printf("Started session '%s'\n", session)
	}

	history, err := store.Load(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(history) > 0 {
		fmt.Printf("Resuming session '%s' (%d messages)\n", session, len(history))
	}

	fmt.Printf("Chat with the repository assistant. Type 'exit' to quit.\n\n")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		response := assistant.Agent.ExecuteWithHistory(ctx, input, history, maxIter)

		switch response.Type {
		case agent.ResponseSuccess:
			fmt.Printf("\n%s\n\n", response.Result)

			history = append(history,
				llm.UserMessage(input),
				llm.AssistantMessage(response.Result),
			)

			if err := store.Save(ctx, session, history); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save history: %v\n", err)
			}
		case agent.ResponseFailure:
			fmt.Fprintf(os.Stderr, "\nError: %s\n\n", response.Error)
		case agent.ResponseTimeout:
			fmt.Printf("\nTimeout: %s\n\n", response.PartialResult)
		}
	}

	return scanner.Err()
}

// setRepo points the assistant at a repository up front when --repo is given.
// Without it the model has to call set_repo_path itself.
func setRepo(assistant *Assistant, repo string) error {
	if repo == "" {
		return nil
	}
	preview, err := assistant.Workspace.SetPath(repo)
	if err != nil {
		return fmt.Errorf("failed to set repository path: %w", err)
	}
	fmt.Printf("Repository: %s (%d top-level entries)\n", repo, len(preview))
	return nil
}

// ListTools lists the repository tool set.
func ListTools(verbose bool, allowShell bool) {
	// Nil deps are fine for listing: only metadata is read.
	registry := tools.NewRegistry()
	for _, t := range tools.DefaultTools(tools.Deps{AllowShell: allowShell}) {
		_ = registry.Register(t)
	}

	fmt.Println("Available tools:")
	fmt.Println()

	for _, name := range registry.Names() {
		tool, _ := registry.Get(name)
		meta := tool.Metadata()
		fmt.Printf("  %s\n", meta.Name)
		fmt.Printf("    %s\n", meta.Description)

		if verbose && len(meta.Parameters) > 0 {
			fmt.Println("    Parameters:")
			for _, param := range meta.Parameters {
				req := ""
				if param.Required {
					req = "*"
				}
				fmt.Printf("      %s%s: %s - %s\n", param.Name, req, param.ParamType, param.Description)
			}
		}
		fmt.Println()
	}
}

const maxObservationLen = 400

func printSteps(steps []agent.Step) {
	fmt.Println("--- Steps ---")
	for _, step := range steps {
		fmt.Printf("[%d] %s\n", step.Iteration, step.Thought)
		if step.Action != nil {
			fmt.Printf("    Action: %s\n", *step.Action)
		}
		if step.Observation != nil {
			obs := truncateString(*step.Observation, maxObservationLen)
			fmt.Printf("    Observation: %s\n", obs)
		}
		fmt.Println()
	}
	fmt.Println("-------------")
	fmt.Println()
}

// truncateString truncates a string to maxLen runes, preserving UTF-8 boundaries.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
