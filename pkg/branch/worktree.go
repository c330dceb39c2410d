package branch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gizzahub/gzh-wt/internal/gitcmd"
)

// WorktreeManager manages Git worktree operations for one repository. It
// takes the repo root path directly rather than a *repository.Repository so
// this package stays a leaf dependency of pkg/repository, not the reverse.
type WorktreeManager interface {
	// Add adds a new worktree.
	Add(ctx context.Context, repoPath string, opts AddOptions) (*Worktree, error)

	// Remove removes a worktree.
	Remove(ctx context.Context, repoPath string, opts RemoveOptions) error

	// List lists all worktrees.
	List(ctx context.Context, repoPath string) ([]*Worktree, error)

	// Prune removes orphaned worktree metadata.
	Prune(ctx context.Context, repoPath string) error

	// Get retrieves a specific worktree by path.
	Get(ctx context.Context, repoPath string, path string) (*Worktree, error)

	// Exists checks if a worktree exists at the given path.
	Exists(ctx context.Context, repoPath string, path string) (bool, error)
}

// worktreeManager implements WorktreeManager.
type worktreeManager struct {
	executor *gitcmd.Executor
}

// NewWorktreeManager creates a new WorktreeManager.
func NewWorktreeManager() WorktreeManager {
	return &worktreeManager{
		executor: gitcmd.NewExecutor(),
	}
}

// NewWorktreeManagerWithExecutor creates a new WorktreeManager with a custom executor.
func NewWorktreeManagerWithExecutor(executor *gitcmd.Executor) WorktreeManager {
	return &worktreeManager{
		executor: executor,
	}
}

// Add adds a new worktree.
func (w *worktreeManager) Add(ctx context.Context, repoPath string, opts AddOptions) (*Worktree, error) {
	if repoPath == "" {
		return nil, fmt.Errorf("repository path is required")
	}

	if opts.Path == "" {
		return nil, fmt.Errorf("worktree path is required")
	}

	if opts.Branch == "" && !opts.Detach {
		return nil, fmt.Errorf("branch name is required (or use --detach)")
	}

	if err := validateWorktreePath(opts.Path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}

	exists, err := w.pathExists(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to check path existence: %w", err)
	}

	if exists && !opts.Force {
		return nil, fmt.Errorf("%w: %s (use --force to overwrite)", ErrWorktreeExists, opts.Path)
	}

	if opts.Branch != "" && !opts.CreateBranch && !opts.Detach {
		inUse, err := w.isBranchInUse(ctx, repoPath, opts.Branch)
		if err != nil {
			return nil, fmt.Errorf("failed to check branch usage: %w", err)
		}

		if inUse {
			return nil, fmt.Errorf("%w: %s", ErrBranchInUse, opts.Branch)
		}
	}

	args := []string{"worktree", "add"}

	if opts.Force {
		args = append(args, "--force")
	}

	if opts.Detach {
		args = append(args, "--detach")
	}

	if opts.CreateBranch {
		args = append(args, "-b", opts.Branch)
	}

	args = append(args, opts.Path)

	if !opts.CreateBranch && opts.Branch != "" {
		args = append(args, opts.Branch)
	} else if opts.Checkout != "" {
		args = append(args, opts.Checkout)
	}

	if _, err := w.executor.Run(ctx, repoPath, args...); err != nil {
		return nil, fmt.Errorf("failed to add worktree: %w", err)
	}

	worktree, err := w.Get(ctx, repoPath, opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree info: %w", err)
	}

	return worktree, nil
}

// Remove removes a worktree.
func (w *worktreeManager) Remove(ctx context.Context, repoPath string, opts RemoveOptions) error {
	if repoPath == "" {
		return fmt.Errorf("repository path is required")
	}

	if opts.Path == "" {
		return fmt.Errorf("worktree path is required")
	}

	worktree, err := w.Get(ctx, repoPath, opts.Path)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("%w: %s", ErrWorktreeNotFound, opts.Path)
		}
		return fmt.Errorf("failed to get worktree info: %w", err)
	}

	if !opts.Force {
		if worktree.IsMain {
			return fmt.Errorf("%w: %s", ErrWorktreeMain, opts.Path)
		}

		if dirty, err := w.isWorktreeDirty(ctx, opts.Path); err == nil && dirty {
			return fmt.Errorf("%w: %s (use --force to remove anyway)", ErrWorktreeDirty, opts.Path)
		}

		if worktree.IsLocked {
			return fmt.Errorf("%w: %s (use --force to remove anyway)", ErrWorktreeLocked, opts.Path)
		}
	}

	args := []string{"worktree", "remove"}

	if opts.Force {
		args = append(args, "--force")
	}

	args = append(args, opts.Path)

	if _, err := w.executor.Run(ctx, repoPath, args...); err != nil {
		return fmt.Errorf("failed to remove worktree: %w", err)
	}

	return nil
}

// List lists all worktrees.
func (w *worktreeManager) List(ctx context.Context, repoPath string) ([]*Worktree, error) {
	if repoPath == "" {
		return nil, fmt.Errorf("repository path is required")
	}

	result, err := w.executor.Run(ctx, repoPath, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to list worktrees: %w", err)
	}

	return parseWorktreeList(result.Stdout), nil
}

// Prune removes orphaned worktree metadata.
func (w *worktreeManager) Prune(ctx context.Context, repoPath string) error {
	if repoPath == "" {
		return fmt.Errorf("repository path is required")
	}

	if _, err := w.executor.Run(ctx, repoPath, "worktree", "prune"); err != nil {
		return fmt.Errorf("failed to prune worktrees: %w", err)
	}

	return nil
}

// Get retrieves a specific worktree by path.
func (w *worktreeManager) Get(ctx context.Context, repoPath string, path string) (*Worktree, error) {
	if repoPath == "" {
		return nil, fmt.Errorf("repository path is required")
	}

	if path == "" {
		return nil, fmt.Errorf("worktree path is required")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	worktrees, err := w.List(ctx, repoPath)
	if err != nil {
		return nil, err
	}

	for _, wt := range worktrees {
		wtAbsPath, err := filepath.Abs(wt.Path)
		if err != nil {
			continue
		}

		if wtAbsPath == absPath {
			return wt, nil
		}
	}

	return nil, fmt.Errorf("worktree not found: %s", path)
}

// Exists checks if a worktree exists at the given path.
func (w *worktreeManager) Exists(ctx context.Context, repoPath string, path string) (bool, error) {
	if repoPath == "" {
		return false, fmt.Errorf("repository path is required")
	}

	if path == "" {
		return false, fmt.Errorf("worktree path is required")
	}

	_, err := w.Get(ctx, repoPath, path)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// parseWorktreeList parses git worktree list --porcelain output.
func parseWorktreeList(output string) []*Worktree {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	worktrees := make([]*Worktree, 0)

	var current *Worktree
	for _, line := range lines {
		line = strings.TrimSpace(line)

		if line == "" {
			if current != nil {
				worktrees = append(worktrees, current)
				current = nil
			}
			continue
		}

		if strings.HasPrefix(line, "worktree ") {
			if current != nil {
				worktrees = append(worktrees, current)
			}
			current = &Worktree{
				Path: strings.TrimPrefix(line, "worktree "),
			}
		} else if current != nil {
			switch {
			case strings.HasPrefix(line, "HEAD "):
				current.Ref = strings.TrimPrefix(line, "HEAD ")
			case strings.HasPrefix(line, "branch "):
				current.Branch = strings.TrimPrefix(line, "branch refs/heads/")
			case line == "bare":
				current.IsBare = true
			case line == "detached":
				current.IsDetached = true
			case strings.HasPrefix(line, "locked"):
				current.IsLocked = true
			case strings.HasPrefix(line, "prunable"):
				current.IsPrunable = true
			}
		}
	}

	if current != nil {
		worktrees = append(worktrees, current)
	}

	if len(worktrees) > 0 {
		worktrees[0].IsMain = true
	}

	return worktrees
}

// isBranchInUse checks if a branch is checked out in any worktree.
func (w *worktreeManager) isBranchInUse(ctx context.Context, repoPath string, branchName string) (bool, error) {
	worktrees, err := w.List(ctx, repoPath)
	if err != nil {
		return false, err
	}

	for _, wt := range worktrees {
		if wt.Branch == branchName {
			return true, nil
		}
	}

	return false, nil
}

// isWorktreeDirty checks if a worktree has uncommitted changes.
func (w *worktreeManager) isWorktreeDirty(ctx context.Context, path string) (bool, error) {
	result, err := w.executor.Run(ctx, path, "status", "--porcelain")
	if err != nil {
		return false, err
	}

	return strings.TrimSpace(result.Stdout) != "", nil
}

func (w *worktreeManager) pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// validateWorktreePath validates worktree path.
func validateWorktreePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("path cannot contain null bytes")
	}

	return nil
}
