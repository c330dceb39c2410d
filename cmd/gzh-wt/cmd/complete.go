package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gizzahub/gzh-wt/pkg/repository"
)

// completeCmd generates the static shell-completion script for shell. The
// trailing program/args are accepted (and ignored) so the shell's
// completion machinery, which always forwards its own invocation line, can
// call "gzh-wt complete bash gzh-wt list --fu" without gzh-wt rejecting
// the extra positional arguments; dynamic completion itself is delegated
// to cobra's own flag/subcommand introspection rather than re-implemented
// here.
var completeCmd = &cobra.Command{
	Use:       "complete <shell> [program] [args...]",
	Short:     "Generate a shell completion script",
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	RunE:      runComplete,
}

func runComplete(cmd *cobra.Command, args []string) error {
	shell := args[0]
	root := cmd.Root()
	switch shell {
	case "bash":
		return root.GenBashCompletion(os.Stdout)
	case "zsh":
		return root.GenZshCompletion(os.Stdout)
	case "fish":
		return root.GenFishCompletion(os.Stdout, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(os.Stdout)
	default:
		return fmt.Errorf("unsupported shell %q (want bash, zsh, fish, or powershell)", shell)
	}
}

// branchCompletionFunc supplies dynamic branch candidates for commands
// taking a branch/worktree identifier: worktree branches first, then other
// locals, then remote-only branches, each newest-first. A branch present on
// several remotes carries all of them in its description so the ambiguity
// is visible before the user commits to it.
func branchCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cc, err := openCmdContext("complete")
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	branches, err := cc.repo.BranchesForCompletion(cc.ctx, cc.exec, cc.worktree)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	out := make([]string, 0, len(branches))
	for _, b := range branches {
		switch b.Category {
		case repository.CategoryWorktree:
			out = append(out, b.Name+"\tworktree")
		case repository.CategoryRemote:
			out = append(out, b.Name+"\ton "+strings.Join(b.Remotes, ", "))
		default:
			out = append(out, b.Name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
