package repository_test

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gizzahub/gzh-wt/internal/gitcmd"
	"github.com/gizzahub/gzh-wt/internal/testutil"
	"github.com/gizzahub/gzh-wt/pkg/branch"
	"github.com/gizzahub/gzh-wt/pkg/repository"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func TestDefaultBranchFallsBackToSoleLocalBranch(t *testing.T) {
	requireGit(t)
	dir := testutil.TempGitRepoWithCommit(t)

	ctx := context.Background()
	ex := gitcmd.NewExecutor()

	client := repository.NewClient(repository.WithExecutor(ex))
	repo, err := client.Open(ctx, dir)
	require.NoError(t, err)

	// A fresh repo has no remotes and exactly one local branch, so the
	// resolution chain must land on the sole-local-branch step.
	current, err := ex.RunOutput(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	require.NoError(t, err)

	got, err := repo.DefaultBranch(ctx, ex)
	require.NoError(t, err)
	require.Equal(t, strings.TrimSpace(current), got)

	// The resolution is cached in git config for the next process.
	cached, err := ex.RunOutput(ctx, dir, "config", "--get", "wt.default-branch")
	require.NoError(t, err)
	require.Equal(t, got, strings.TrimSpace(cached))
}

func TestProjectIdentifierFallsBackToPathWithoutRemotes(t *testing.T) {
	requireGit(t)
	dir := testutil.TempGitRepoWithCommit(t)

	ctx := context.Background()
	ex := gitcmd.NewExecutor()

	client := repository.NewClient(repository.WithExecutor(ex))
	repo, err := client.Open(ctx, dir)
	require.NoError(t, err)

	id, err := repo.ProjectIdentifier(ctx, ex)
	require.NoError(t, err)
	// No remote configured: the identifier is the canonical filesystem
	// path, never empty and never a URL-shaped string.
	require.NotEmpty(t, id)
	require.False(t, strings.Contains(id, "://"))
}

func TestListWorktreesSeesLinkedWorktree(t *testing.T) {
	requireGit(t)
	dir := testutil.TempGitRepoWithCommit(t)

	ctx := context.Background()
	ex := gitcmd.NewExecutor()

	client := repository.NewClient(repository.WithExecutor(ex))
	repo, err := client.Open(ctx, dir)
	require.NoError(t, err)

	mgr := branch.NewWorktreeManagerWithExecutor(ex)
	wtPath := t.TempDir() + "/feat-wt"
	_, err = mgr.Add(ctx, dir, branch.AddOptions{
		Path:         wtPath,
		Branch:       "feat",
		CreateBranch: true,
	})
	require.NoError(t, err)

	worktrees, err := repo.ListWorktrees(ctx, mgr)
	require.NoError(t, err)
	require.Len(t, worktrees, 2)

	branches := make([]string, 0, len(worktrees))
	for _, wt := range worktrees {
		branches = append(branches, wt.Branch)
	}
	require.Contains(t, branches, "feat")
}
