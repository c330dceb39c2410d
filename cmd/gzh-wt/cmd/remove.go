package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gizzahub/gzh-wt/pkg/branch"
	"github.com/gizzahub/gzh-wt/pkg/worktree"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:               "remove <name>",
	Short:             "Remove a branch's worktree",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: branchCompletionFunc,
	RunE:              runRemove,
}

func init() {
	removeCmd.Flags().BoolVar(&removeForce, "force", false, "remove even with uncommitted changes")
}

func runRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	cc, err := openCmdContext("remove")
	if err != nil {
		return err
	}

	resolved, err := worktree.Resolve(cc.ctx, cc.exec, cc.repo, cc.worktree, name, cc.userCfg, worktree.Remove)
	if err != nil {
		return err
	}
	if resolved.Kind != worktree.KindWorktree {
		return fmt.Errorf("branch %q has no worktree to remove", resolved.Branch)
	}

	if err := cc.worktree.Remove(cc.ctx, cc.repo.Path, branch.RemoveOptions{
		Path:  resolved.Path,
		Force: removeForce,
	}); err != nil {
		return err
	}

	fmt.Printf("removed worktree for %q\n", resolved.Branch)
	return nil
}
