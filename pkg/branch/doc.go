// Package branch provides git worktree management for one repository.
//
// WorktreeManager adds, removes, lists, looks up and prunes the worktrees
// of a repository through "git worktree". The package also holds the
// Branch and Worktree types, branch-name helpers (IsProtected, InferType)
// and the sentinel errors. It does not list, switch or clean up branches.
//
// # Usage
//
//	mgr := branch.NewWorktreeManager()
//	worktrees, err := mgr.List(ctx, repoPath)
package branch
