// Package main is the entry point for the gzh-wt CLI application.
// gzh-wt manages Git worktrees as the unit of context-switching: "switch"
// jumps straight to a branch's worktree (creating one on demand), "list"
// shows every worktree's status at a glance, and "statusline" renders a
// one-line summary for an editor or shell prompt.
package main

import (
	"github.com/gizzahub/gzh-wt/cmd/gzh-wt/cmd"
)

// version is set during build time via ldflags.
var version = "dev"

func main() {
	cmd.Execute(version)
}
