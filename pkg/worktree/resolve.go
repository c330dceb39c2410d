package worktree

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gizzahub/gzh-wt/internal/gitcmd"
	"github.com/gizzahub/gzh-wt/internal/vcserr"
	"github.com/gizzahub/gzh-wt/pkg/branch"
	"github.com/gizzahub/gzh-wt/pkg/config"
	"github.com/gizzahub/gzh-wt/pkg/repository"
	"github.com/gizzahub/gzh-wt/pkg/templates"
)

// OperationMode selects how resolution treats an occupied expected path.
type OperationMode int

const (
	// CreateOrSwitch is used by "switch --create"/"switch": an occupied
	// expected path for a branch with no worktree is an error.
	CreateOrSwitch OperationMode = iota
	// Remove is used by "remove": path occupation is irrelevant, since no
	// new worktree is being created.
	Remove
)

// Kind discriminates the two ResolvedWorktree variants.
type Kind int

const (
	// KindWorktree means a materialized worktree exists for the branch.
	KindWorktree Kind = iota
	// KindBranchOnly means the branch exists but has no worktree checked
	// out anywhere.
	KindBranchOnly
)

// Resolved is the outcome of resolving a user identifier: either a
// materialized worktree or a branch with no worktree yet.
type Resolved struct {
	Kind   Kind
	Path   string // only set when Kind == KindWorktree
	Branch string
}

// reserved identifiers dispatched to native git resolution rather than
// being treated as branch names.
const (
	identCurrent  = "@"
	identPrevious = "-"
	identDefault  = "^"
)

// Resolve maps name to a Resolved worktree under the branch-first policy:
// "@"/"-"/"^" are handled as reserved symbols (current, previous, default
// branch); anything else is resolved as a branch name.
// If that branch has a worktree anywhere, it wins over any path match. If
// it doesn't, and mode is CreateOrSwitch, an occupied expected path is a
// WorktreePathOccupied error; otherwise a BranchOnly result is returned.
func Resolve(ctx context.Context, exec *gitcmd.Executor, repo *repository.Repository, mgr branch.WorktreeManager, name string, cfg *config.UserConfig, mode OperationMode) (*Resolved, error) {
	switch name {
	case identCurrent, identPrevious, identDefault:
		return resolveReserved(ctx, exec, repo, mgr, name)
	}

	branchName, err := resolveBranchName(ctx, exec, repo.Path, name)
	if err != nil {
		return nil, err
	}

	worktrees, err := repo.ListWorktrees(ctx, mgr)
	if err != nil {
		return nil, err
	}
	for _, wt := range worktrees {
		if wt.Branch == branchName {
			return &Resolved{Kind: KindWorktree, Path: wt.Path, Branch: branchName}, nil
		}
	}

	if mode == CreateOrSwitch {
		expected, err := ComputeWorktreePath(ctx, exec, repo, branchName, cfg)
		if err != nil {
			return nil, err
		}
		for _, wt := range worktrees {
			if wt.Branch != "" && wt.Branch != branchName && PathsMatch(wt.Path, expected) {
				return nil, &vcserr.WorktreePathOccupied{Branch: branchName, Path: expected, Occupant: wt.Branch}
			}
		}
	}

	return &Resolved{Kind: KindBranchOnly, Branch: branchName}, nil
}

// resolveReserved resolves "@" (current branch), "-" (previous branch via
// @{-1}), and "^" (the repository's default branch) through native git
// resolution, then delegates back into worktree lookup for "@"/"-" (which
// name a branch, possibly with no worktree) the same way any other branch
// would be.
func resolveReserved(ctx context.Context, exec *gitcmd.Executor, repo *repository.Repository, mgr branch.WorktreeManager, symbol string) (*Resolved, error) {
	var name string
	switch symbol {
	case identDefault:
		def, err := repo.DefaultBranch(ctx, exec)
		if err != nil {
			return nil, err
		}
		name = def
	default:
		ref := "HEAD"
		if symbol == identPrevious {
			ref = "@{-1}"
		}
		out, err := exec.RunOutput(ctx, repo.Path, "rev-parse", "--abbrev-ref", ref)
		if err != nil {
			return nil, vcserr.ErrDetachedHead
		}
		name = strings.TrimSpace(out)
		if name == "" || name == "HEAD" {
			return nil, vcserr.ErrDetachedHead
		}
	}

	worktrees, err := repo.ListWorktrees(ctx, mgr)
	if err != nil {
		return nil, err
	}
	for _, wt := range worktrees {
		if wt.Branch == name {
			return &Resolved{Kind: KindWorktree, Path: wt.Path, Branch: name}, nil
		}
	}
	return &Resolved{Kind: KindBranchOnly, Branch: name}, nil
}

// resolveBranchName treats name as a branch identifier; any ref git itself
// would accept for checkout is taken as the branch identifier, so the
// short form of a remote-tracking branch ("origin/feat") passes through
// unchanged and git resolves it at checkout time.
func resolveBranchName(ctx context.Context, exec *gitcmd.Executor, repoPath, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("branch name cannot be empty")
	}
	return name, nil
}

// ComputeWorktreePath computes the filesystem path a worktree for branch
// would have: the repo root for the default branch (non-bare repos), or
// the worktree-path template expanded otherwise.
func ComputeWorktreePath(ctx context.Context, exec *gitcmd.Executor, repo *repository.Repository, branchName string, cfg *config.UserConfig) (string, error) {
	defaultBranch, err := repo.DefaultBranch(ctx, exec)
	if err != nil {
		defaultBranch = ""
	}
	if !repo.IsBare && branchName == defaultBranch {
		return repo.Path, nil
	}

	repoName := filepath.Base(repo.Path)
	project, _ := repo.ProjectIdentifier(ctx, exec)

	tmpl := config.DefaultWorktreePath
	if cfg != nil {
		tmpl = cfg.WorktreePathTemplate(project)
	}

	rendered, err := templates.Render(tmpl, templates.Vars{
		Repo:         repoName,
		Branch:       branchName,
		MainWorktree: repo.Path,
		RepoRoot:     repo.Path,
		Worktree:     repo.Path,
		Project:      project,
	})
	if err != nil {
		return "", fmt.Errorf("expand worktree-path template: %w", err)
	}

	if filepath.IsAbs(rendered) {
		return filepath.Clean(rendered), nil
	}
	return filepath.Clean(filepath.Join(repo.Path, rendered)), nil
}

// PathsMatch reports whether a and b name the same filesystem location
// after resolving symlinks on a best-effort basis (a path that doesn't yet
// exist compares by its cleaned, absolute form instead).
func PathsMatch(a, b string) bool {
	return canonicalize(a) == canonicalize(b)
}

func canonicalize(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// PathMismatch returns the expected path for branch when it differs from
// actualPath, or ("", false) when they match (or the branch is detached).
func PathMismatch(ctx context.Context, exec *gitcmd.Executor, repo *repository.Repository, branchName, actualPath string, cfg *config.UserConfig) (string, bool) {
	if branchName == "" {
		return "", false
	}
	expected, err := ComputeWorktreePath(ctx, exec, repo, branchName, cfg)
	if err != nil {
		return "", false
	}
	if PathsMatch(actualPath, expected) {
		return "", false
	}
	return expected, true
}
