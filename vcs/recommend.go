package vcs

import (
	"context"
	"strings"

	"repopilot/command"
)

// recommendations maps status markers to next-step advice. The markers are
// tested in this order and every match contributes a line.
var recommendations = []struct {
	marker string
	advice string
}{
	{"Changes not staged", "You have unstaged changes. Run stage_all to stage them."},
	{"Changes to be committed", "You have staged changes. Run commit with a message to record them."},
	{"Untracked files", "You have untracked files. Run stage_all to start tracking them."},
	{"Your branch is ahead", "Your branch is ahead of the remote. Run push to publish your commits."},
	{"nothing to commit, working tree clean", "Working tree is clean. Nothing needs attention."},
}

// Recommend inspects the raw `git status` output and suggests next steps
// based on fixed substring markers. A status that itself failed is returned
// unchanged so the caller sees the underlying problem.
func (i *Inspector) Recommend(ctx context.Context) string {
	status := i.Status(ctx)
	if command.IsError(status) {
		return status
	}
	return recommendFromStatus(status)
}

func recommendFromStatus(status string) string {
	var lines []string
	for _, r := range recommendations {
		if strings.Contains(status, r.marker) {
			lines = append(lines, "- "+r.advice)
		}
	}
	if len(lines) == 0 {
		return "No recommendation for the current repository state."
	}
	return "Recommendations:\n" + strings.Join(lines, "\n")
}
