// Package main provides the repopilot CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"repopilot/cli"
)

var (
	// Global flags
	provider   string
	maxIter    int
	verbose    bool
	repo       string
	allowShell bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "repopilot",
		Short: "LLM-driven repository assistant",
		Long: `A CLI assistant that operates on a local git repository through tools:
git operations, filesystem inspection, README generation, context recording,
and Docker image builds.

Point it at a repository with --repo or let the model call set_repo_path.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "LLM provider (openai, anthropic, deepseek, gemini)")
	rootCmd.PersistentFlags().IntVarP(&maxIter, "max-iter", "m", 0, "Maximum iterations per task (0 = AGENT_MAX_ITERATIONS or 10)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")
	rootCmd.PersistentFlags().StringVarP(&repo, "repo", "r", "", "Repository path to operate on")
	rootCmd.PersistentFlags().BoolVar(&allowShell, "allow-shell", false, "Enable the run_shell tool (arbitrary command execution)")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(toolsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func cliOptions() cli.Options {
	return cli.Options{
		Provider:   provider,
		MaxIter:    maxIter,
		Verbose:    verbose,
		Repo:       repo,
		AllowShell: allowShell,
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [task]",
		Short: "Execute a single task against the repository",
		Long: `Execute a single task with the repository assistant.

The assistant reasons step by step, calling repository tools until the task
is complete or the iteration limit is reached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunTask(context.Background(), args[0], cliOptions())
		},
	}
}

func chatCmd() *cobra.Command {
	var sessionID string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the repository assistant.

Conversation history is persisted per session. Without --session a fresh
session ID is generated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Chat(context.Background(), sessionID, dbPath, cliOptions())
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID for conversation persistence")
	cmd.Flags().StringVar(&dbPath, "db", "", "Database path for storage (default .repopilot/repopilot.db)")

	return cmd
}

func toolsCmd() *cobra.Command {
	var verboseTools bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List available tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli.ListTools(verboseTools, allowShell)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verboseTools, "verbose", "V", false, "Show tool parameters")

	return cmd
}
