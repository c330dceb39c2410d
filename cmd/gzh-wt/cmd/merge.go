package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gizzahub/gzh-wt/pkg/approval"
	"github.com/gizzahub/gzh-wt/pkg/branch"
	"github.com/gizzahub/gzh-wt/pkg/config"
	"github.com/gizzahub/gzh-wt/pkg/hooks"
	"github.com/gizzahub/gzh-wt/pkg/templates"
)

var (
	mergeSquash   bool
	mergeKeep     bool
	mergeMessage  string
	mergeNoHooks  bool
	mergeForce    bool
)

// mergeCmd integrates the current worktree's branch into target (default
// branch if omitted) and, unless --keep is set, removes the worktree
// afterward. It is deliberately thin: the actual merge/squash/commit
// mechanics belong to "git merge"/"git commit" themselves, so this command
// is mostly hook sequencing and argument plumbing around pkg/hooks and
// pkg/worktree.
var mergeCmd = &cobra.Command{
	Use:   "merge [target]",
	Short: "Merge the current worktree's branch and remove it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMerge,
}

func init() {
	mergeCmd.Flags().BoolVar(&mergeSquash, "squash", false, "squash-merge instead of a merge commit")
	mergeCmd.Flags().BoolVar(&mergeKeep, "keep", false, "keep the worktree after a successful merge")
	mergeCmd.Flags().StringVarP(&mergeMessage, "message", "m", "", "commit message for a squash merge")
	mergeCmd.Flags().BoolVar(&mergeNoHooks, "no-hooks", false, "skip pre-merge/post-merge hooks")
	mergeCmd.Flags().BoolVar(&mergeForce, "force", false, "skip the approval prompt for merge hooks")
}

func runMerge(cmd *cobra.Command, args []string) error {
	cc, err := openCmdContext("merge")
	if err != nil {
		return err
	}

	target := ""
	if len(args) == 1 {
		target = args[0]
	} else {
		target, err = cc.repo.DefaultBranch(cc.ctx, cc.exec)
		if err != nil {
			return err
		}
	}

	info, err := cc.client.GetInfo(cc.ctx, cc.repo)
	if err != nil {
		return err
	}
	branchName := info.Branch

	targetDir := ""
	if worktrees, err := cc.worktree.List(cc.ctx, cc.repo.Path); err == nil {
		for _, wt := range worktrees {
			if wt.Branch == target {
				targetDir = wt.Path
			}
		}
	}
	if targetDir == "" {
		return fmt.Errorf("target %q is not checked out in any worktree", target)
	}

	proj, err := config.LoadProject(cc.repo.Path)
	if err != nil {
		return err
	}
	projectID, _ := cc.repo.ProjectIdentifier(cc.ctx, cc.exec)
	hookOpts := hooks.Options{
		Project:    projectID,
		WorkDir:    cc.repo.Path,
		Vars:       templates.Vars{Branch: branchName, Repo: cc.repo.Path},
		Force:      mergeForce,
		Approver:   approval.Prompter{},
		UserConfig: cc.userCfg,
	}

	if !mergeNoHooks {
		if err := hooks.Run(cc.ctx, config.HookPreMerge, proj.Hooks, hookOpts); err != nil {
			return fmt.Errorf("pre-merge hook failed: %w", err)
		}
	}

	mergeArgs := []string{"merge"}
	if mergeSquash {
		mergeArgs = append(mergeArgs, "--squash")
	}
	mergeArgs = append(mergeArgs, branchName)

	if _, err := cc.exec.RunOutput(cc.ctx, targetDir, mergeArgs...); err != nil {
		return fmt.Errorf("merge %q into %q: %w", branchName, target, err)
	}

	if mergeSquash {
		commitArgs := []string{"commit"}
		if mergeMessage != "" {
			commitArgs = append(commitArgs, "-m", mergeMessage)
		} else {
			commitArgs = append(commitArgs, "-m", fmt.Sprintf("Squash merge %s", branchName))
		}
		if _, err := cc.exec.RunOutput(cc.ctx, targetDir, commitArgs...); err != nil {
			return fmt.Errorf("commit squash merge: %w", err)
		}
	}

	if !mergeNoHooks {
		if err := hooks.Run(cc.ctx, config.HookPostMerge, proj.Hooks, hookOpts); err != nil {
			fmt.Printf("warning: post-merge hook failed: %v\n", err)
		}
	}

	if !mergeKeep {
		if err := cc.worktree.Remove(cc.ctx, targetDir, branch.RemoveOptions{Path: cc.repo.Path}); err != nil {
			return fmt.Errorf("merged %q into %q; removing its worktree: %w", branchName, target, err)
		}
		fmt.Printf("merged %q into %q and removed its worktree\n", branchName, target)
	}

	return nil
}
