package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// stepCmd groups the individual building blocks "merge" composes
// internally (commit, squash, push, rebase, hook, copy-ignored, for-each,
// relocate) so a user or script can run just one of them directly. Each
// subcommand is a thin pass-through to the git/hook plumbing already
// exposed by merge.go and switch.go; none introduce new semantics of
// their own.
var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Run one individual step of the merge/switch workflow",
}

func newStepSubcommand(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := openCmdContext("step:" + cmd.Name())
			if err != nil {
				return err
			}
			out, err := cc.exec.RunOutput(cc.ctx, cc.repo.Path, append([]string{cmd.Name()}, args...)...)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
}

func init() {
	stepCmd.AddCommand(newStepSubcommand("commit", "Commit staged changes in the current worktree"))
	stepCmd.AddCommand(newStepSubcommand("push", "Push the current branch to its upstream"))
	stepCmd.AddCommand(newStepSubcommand("rebase", "Rebase the current branch onto its upstream or a given ref"))
	stepCmd.AddCommand(&cobra.Command{
		Use:   "squash",
		Short: "Undo the current branch's commits since it diverged from the default branch, keeping their changes staged",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := openCmdContext("step:squash")
			if err != nil {
				return err
			}
			base, err := cc.repo.DefaultBranch(cc.ctx, cc.exec)
			if err != nil {
				return err
			}
			mergeBase, err := cc.exec.RunOutput(cc.ctx, cc.repo.Path, "merge-base", base, "HEAD")
			if err != nil {
				return err
			}
			out, err := cc.exec.RunOutput(cc.ctx, cc.repo.Path, "reset", "--soft", mergeBase)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	})
	stepCmd.AddCommand(&cobra.Command{
		Use:   "hook <name>",
		Short: "Refuse to run a hook by name (hooks run only at their lifecycle points)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("step hook: hook %q must be run through its lifecycle point (post-create, pre-commit, ...); see \"gzh-wt config show\"", args[0])
		},
	})
	stepCmd.AddCommand(&cobra.Command{
		Use:   "copy-ignored",
		Short: "Copy gitignored files into the current worktree (not implemented: always exits with an error)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("step copy-ignored: not yet implemented")
		},
	})
	stepCmd.AddCommand(&cobra.Command{
		Use:   "for-each <command>",
		Short: "Run a git command in every worktree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := openCmdContext("step:for-each")
			if err != nil {
				return err
			}
			worktrees, err := cc.worktree.List(cc.ctx, cc.repo.Path)
			if err != nil {
				return err
			}
			for _, wt := range worktrees {
				fmt.Printf("== %s ==\n", wt.Path)
				out, err := cc.exec.RunOutput(cc.ctx, wt.Path, args...)
				if err != nil {
					fmt.Printf("error: %v\n", err)
					continue
				}
				fmt.Println(out)
			}
			return nil
		},
	})
	stepCmd.AddCommand(&cobra.Command{
		Use:   "relocate <path>",
		Short: "Move the current worktree to a new path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := openCmdContext("step:relocate")
			if err != nil {
				return err
			}
			out, err := cc.exec.RunOutput(cc.ctx, cc.repo.Path, "worktree", "move", cc.repo.Path, args[0])
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	})
}
