package worktree

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/gizzahub/gzh-wt/internal/gitcmd"
	"github.com/gizzahub/gzh-wt/internal/testutil"
	"github.com/gizzahub/gzh-wt/pkg/config"
	"github.com/gizzahub/gzh-wt/pkg/repository"
)

func TestPathsMatchNonExistentPaths(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"/tmp/does-not-exist-a", "/tmp/does-not-exist-a", true},
		{"/tmp/does-not-exist-a", "/tmp/does-not-exist-a/", true},
		{"/tmp/does-not-exist-a", "/tmp/does-not-exist-b", false},
	}
	for _, tt := range tests {
		if got := PathsMatch(tt.a, tt.b); got != tt.want {
			t.Errorf("PathsMatch(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestResolveBranchNameEmpty(t *testing.T) {
	if _, err := resolveBranchName(nil, nil, "", ""); err == nil {
		t.Fatal("expected error for empty branch name")
	}
}

func TestPathMismatchEmptyBranch(t *testing.T) {
	expected, mismatched := PathMismatch(nil, nil, nil, "", "/tmp/whatever", nil)
	if mismatched {
		t.Errorf("PathMismatch with empty branch should never report a mismatch, got expected=%q", expected)
	}
}

func TestComputeWorktreePathDefaultBranchIsRepoRoot(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := testutil.TempGitRepoWithCommit(t)

	ctx := context.Background()
	ex := gitcmd.NewExecutor()
	client := repository.NewClient(repository.WithExecutor(ex))
	repo, err := client.Open(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}

	def, err := repo.DefaultBranch(ctx, ex)
	if err != nil {
		t.Fatal(err)
	}

	got, err := ComputeWorktreePath(ctx, ex, repo, def, &config.UserConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if !PathsMatch(got, repo.Path) {
		t.Errorf("default branch path = %q, want repo root %q", got, repo.Path)
	}

	// Any other branch lands outside the repo root, at the template-derived
	// location.
	other, err := ComputeWorktreePath(ctx, ex, repo, "feature/x", &config.UserConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if PathsMatch(other, repo.Path) {
		t.Errorf("non-default branch path must differ from repo root, got %q", other)
	}
	if !strings.Contains(other, "feature-x") {
		t.Errorf("expected sanitized branch segment in %q", other)
	}
}
