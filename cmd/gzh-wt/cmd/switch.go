package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gizzahub/gzh-wt/pkg/approval"
	"github.com/gizzahub/gzh-wt/pkg/branch"
	"github.com/gizzahub/gzh-wt/pkg/config"
	"github.com/gizzahub/gzh-wt/pkg/directive"
	"github.com/gizzahub/gzh-wt/pkg/hooks"
	"github.com/gizzahub/gzh-wt/pkg/templates"
	"github.com/gizzahub/gzh-wt/pkg/worktree"
)

var (
	switchCreate  bool
	switchBase    string
	switchExecute string
	switchForce   bool
	switchNoHooks bool
)

var switchCmd = &cobra.Command{
	Use:               "switch <name|@|-|^>",
	Short:             "Jump to a branch's worktree, creating it first if needed",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: branchCompletionFunc,
	RunE:              runSwitch,
}

func init() {
	switchCmd.Flags().BoolVar(&switchCreate, "create", false, "create the branch/worktree if it doesn't exist yet")
	switchCmd.Flags().StringVar(&switchBase, "base", "", "starting ref for a newly created branch (default: current HEAD)")
	switchCmd.Flags().StringVarP(&switchExecute, "execute", "x", "", "run this command in the worktree instead of just changing directory")
	switchCmd.Flags().BoolVar(&switchForce, "force", false, "skip the approval prompt for post-create hooks")
	switchCmd.Flags().BoolVar(&switchNoHooks, "no-verify", false, "skip post-create/post-start hooks entirely")
}

func runSwitch(cmd *cobra.Command, args []string) error {
	name := args[0]

	cc, err := openCmdContext("switch")
	if err != nil {
		return err
	}

	mode := worktree.CreateOrSwitch
	resolved, err := worktree.Resolve(cc.ctx, cc.exec, cc.repo, cc.worktree, name, cc.userCfg, mode)
	if err != nil {
		return err
	}

	var dw *directive.Writer
	if internalMode {
		dw = directive.NewWriter()
	}

	var path string
	switch resolved.Kind {
	case worktree.KindWorktree:
		path = resolved.Path
	case worktree.KindBranchOnly:
		if !switchCreate {
			return fmt.Errorf("branch %q has no worktree yet; pass --create to make one", resolved.Branch)
		}
		path, err = createWorktree(cc, resolved.Branch, switchBase)
		if err != nil {
			return err
		}
		if !switchNoHooks {
			if err := runSwitchHooks(cc, resolved.Branch, path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: post-create hooks failed: %v\n", err)
			}
		}
	}

	if switchExecute != "" {
		if dw != nil {
			return dw.Execute(path, switchExecute)
		}
		fmt.Fprintf(os.Stderr, "cd '%s' && %s\n", path, switchExecute)
		return nil
	}

	if dw != nil {
		return dw.ChangeDir(path)
	}
	fmt.Println(path)
	return nil
}

func createWorktree(cc *cmdContext, branchName, base string) (string, error) {
	path, err := worktree.ComputeWorktreePath(cc.ctx, cc.exec, cc.repo, branchName, cc.userCfg)
	if err != nil {
		return "", err
	}

	_, err = cc.worktree.Add(cc.ctx, cc.repo.Path, branch.AddOptions{
		Path:         path,
		Branch:       branchName,
		CreateBranch: true,
		Checkout:     base,
	})
	if err != nil {
		return "", fmt.Errorf("create worktree for %q: %w", branchName, err)
	}
	return path, nil
}

func runSwitchHooks(cc *cmdContext, branchName, path string) error {
	proj, err := config.LoadProject(cc.repo.Path)
	if err != nil {
		return err
	}

	projectID, _ := cc.repo.ProjectIdentifier(cc.ctx, cc.exec)
	opts := hooks.Options{
		Project: projectID,
		WorkDir: path,
		Vars: templates.Vars{
			Branch:   branchName,
			Worktree: path,
			Repo:     cc.repo.Path,
		},
		Force:      switchForce,
		Approver:   approval.Prompter{},
		UserConfig: cc.userCfg,
	}

	if err := hooks.Run(cc.ctx, config.HookPostCreate, proj.Hooks, opts); err != nil {
		return err
	}
	return hooks.Run(cc.ctx, config.HookPostStart, proj.Hooks, opts)
}
