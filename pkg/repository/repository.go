package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gizzahub/gzh-wt/internal/gitcmd"
	"github.com/gizzahub/gzh-wt/pkg/branch"
	"github.com/gizzahub/gzh-wt/pkg/giturl"
)

// commonDefaultBranchNames is the fallback list tried, in order, when no
// remote or config tells us the default branch.
var commonDefaultBranchNames = []string{"main", "master", "trunk", "develop"}

// remote is a named git remote with its configured URL.
type remote struct {
	Name string
	URL  string
}

// Remote is a named git remote with its configured URL, exported for
// callers (such as the CI status subsystem) that need to search every
// remote rather than just the primary one.
type Remote struct {
	Name string
	URL  string
}

// AllRemotes returns every configured remote with a URL, in the order git
// config reports them. Used by CI platform detection, which must search
// every remote (not just the primary one) for a GitHub/GitLab host.
func (r *Repository) AllRemotes(ctx context.Context, exec *gitcmd.Executor) ([]Remote, error) {
	remotes, err := allRemoteURLs(ctx, exec, r.Path)
	if err != nil {
		return nil, err
	}
	out := make([]Remote, len(remotes))
	for i, rem := range remotes {
		out[i] = Remote{Name: rem.Name, URL: rem.URL}
	}
	return out, nil
}

// RemoteURLByName returns the URL of the named remote, if configured.
func (r *Repository) RemoteURLByName(ctx context.Context, exec *gitcmd.Executor, name string) (string, bool) {
	output, err := exec.RunOutput(ctx, r.Path, "remote", "get-url", name)
	if err != nil {
		return "", false
	}
	url := strings.TrimSpace(output)
	return url, url != ""
}

// DefaultBranch resolves the repository's default branch, trying in order:
//
//  1. the cached "wt.default-branch" git config
//  2. the origin/HEAD symbolic ref
//  3. the "init.defaultBranch" git config
//  4. the sole local branch, if there is exactly one
//  5. the first common name (main, master, trunk, develop) that exists locally
//
// The result is cached both in git config and in the in-memory repo cache,
// so repeated calls within a single process are free after the first.
func (r *Repository) DefaultBranch(ctx context.Context, exec *gitcmd.Executor) (string, error) {
	return r.cache.defaultBranch.getOrInit(func() (string, error) {
		if cached, err := exec.RunOutput(ctx, r.Path, "config", "--get", "wt.default-branch"); err == nil {
			if name := strings.TrimSpace(cached); name != "" {
				return name, nil
			}
		}

		if name, err := r.resolveDefaultBranch(ctx, exec); err == nil {
			_, _ = exec.Run(ctx, r.Path, "config", "wt.default-branch", name)
			return name, nil
		}

		return "", fmt.Errorf("could not infer default branch (tried origin/HEAD, init.defaultBranch, sole local branch, common names %v)", commonDefaultBranchNames)
	})
}

func (r *Repository) resolveDefaultBranch(ctx context.Context, exec *gitcmd.Executor) (string, error) {
	if symref, err := exec.RunOutput(ctx, r.Path, "symbolic-ref", "--short", "refs/remotes/origin/HEAD"); err == nil {
		if name := strings.TrimSpace(symref); name != "" {
			return strings.TrimPrefix(name, "origin/"), nil
		}
	}

	if configured, err := exec.RunOutput(ctx, r.Path, "config", "--get", "init.defaultBranch"); err == nil {
		if name := strings.TrimSpace(configured); name != "" {
			if exists, _ := localBranchExists(ctx, exec, r.Path, name); exists {
				return name, nil
			}
		}
	}

	locals, err := listLocalBranchNames(ctx, exec, r.Path)
	if err == nil && len(locals) == 1 {
		return locals[0], nil
	}

	localSet := make(map[string]bool, len(locals))
	for _, name := range locals {
		localSet[name] = true
	}
	for _, candidate := range commonDefaultBranchNames {
		if localSet[candidate] {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no default branch candidate matched")
}

func localBranchExists(ctx context.Context, exec *gitcmd.Executor, repoPath, name string) (bool, error) {
	_, err := exec.RunQuiet(ctx, repoPath, "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil, nil
}

func listLocalBranchNames(ctx context.Context, exec *gitcmd.Executor, repoPath string) ([]string, error) {
	output, err := exec.RunOutput(ctx, repoPath, "branch", "--format=%(refname:lstrip=2)")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(output, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// PrimaryRemote resolves the repository's primary remote name: the
// "checkout.defaultRemote" git config if set and pointing at a URL,
// otherwise the first configured remote that has a URL.
func (r *Repository) PrimaryRemote(ctx context.Context, exec *gitcmd.Executor) (string, error) {
	name, err := r.cache.primaryRemote.getOrInit(func() (string, error) {
		if configured, err := exec.RunOutput(ctx, r.Path, "config", "checkout.defaultRemote"); err == nil {
			if name := strings.TrimSpace(configured); name != "" {
				if hasURL, _ := remoteHasURL(ctx, exec, r.Path, name); hasURL {
					return name, nil
				}
			}
		}

		remotes, err := allRemoteURLs(ctx, exec, r.Path)
		if err != nil || len(remotes) == 0 {
			return "", fmt.Errorf("no remotes configured")
		}
		return remotes[0].Name, nil
	})
	return name, err
}

func remoteHasURL(ctx context.Context, exec *gitcmd.Executor, repoPath, name string) (bool, error) {
	url, err := exec.RunOutput(ctx, repoPath, "config", fmt.Sprintf("remote.%s.url", name))
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(url) != "", nil
}

// allRemoteURLs returns every configured remote with a URL, in the order git
// config reports them (stable, not sorted).
func allRemoteURLs(ctx context.Context, exec *gitcmd.Executor, repoPath string) ([]remote, error) {
	output, err := exec.RunOutput(ctx, repoPath, "config", "--get-regexp", `remote\..+\.url`)
	if err != nil {
		return nil, err
	}

	var remotes []remote
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimPrefix(line, "remote.")
		idx := strings.Index(line, ".url ")
		if idx < 0 {
			continue
		}
		remotes = append(remotes, remote{Name: line[:idx], URL: strings.TrimSpace(line[idx+len(".url "):])})
	}
	return remotes, nil
}

// primaryRemoteFromConfig is the lower-level helper used by client.GetInfo,
// which doesn't have a *Repository (and its cache) to work with yet.
func primaryRemoteFromConfig(ctx context.Context, exec *gitcmd.Executor, repoPath string) (remote, error) {
	if configured, err := exec.RunOutput(ctx, repoPath, "config", "checkout.defaultRemote"); err == nil {
		name := strings.TrimSpace(configured)
		if name != "" {
			if hasURL, _ := remoteHasURL(ctx, exec, repoPath, name); hasURL {
				url, _ := exec.RunOutput(ctx, repoPath, "config", fmt.Sprintf("remote.%s.url", name))
				return remote{Name: name, URL: strings.TrimSpace(url)}, nil
			}
		}
	}

	remotes, err := allRemoteURLs(ctx, exec, repoPath)
	if err != nil || len(remotes) == 0 {
		return remote{}, fmt.Errorf("no remotes configured")
	}
	return remotes[0], nil
}

// PrimaryRemoteURL returns the URL of the primary remote, if any.
func (r *Repository) PrimaryRemoteURL(ctx context.Context, exec *gitcmd.Executor) (string, bool) {
	url, err := r.cache.primaryRemoteURL.getOrInit(func() (string, error) {
		name, err := r.PrimaryRemote(ctx, exec)
		if err != nil {
			return "", err
		}
		output, err := exec.RunOutput(ctx, r.Path, "remote", "get-url", name)
		if err != nil {
			return "", err
		}
		url := strings.TrimSpace(output)
		if url == "" {
			return "", fmt.Errorf("remote %s has no URL", name)
		}
		return url, nil
	})
	return url, err == nil
}

// ProjectIdentifier returns a stable identifier for the repository used to
// track per-project hook approvals: "host/owner/repo" when the primary
// remote URL parses cleanly, a host/port/path fallback for port-bearing SSH
// URLs, or the canonical filesystem path when there's no usable remote.
func (r *Repository) ProjectIdentifier(ctx context.Context, exec *gitcmd.Executor) (string, error) {
	return r.cache.projectIdentifier.getOrInit(func() (string, error) {
		if url, ok := r.PrimaryRemoteURL(ctx, exec); ok {
			if parsed, ok := giturl.Parse(url); ok {
				return parsed.ProjectIdentifier(), nil
			}
			return giturl.FallbackIdentifier(url), nil
		}

		canonical, err := filepath.EvalSymlinks(r.Path)
		if err != nil {
			canonical = r.Path
		}
		return canonical, nil
	})
}

// ListWorktrees returns every worktree of this repository (the main
// worktree first), caching the result for the lifetime of the handle.
func (r *Repository) ListWorktrees(ctx context.Context, mgr branch.WorktreeManager) ([]*branch.Worktree, error) {
	return r.cache.worktrees.getOrInit(func() ([]*branch.Worktree, error) {
		return mgr.List(ctx, r.Path)
	})
}

// BranchCategory classifies a branch for shell-completion ordering.
type BranchCategory int

const (
	// CategoryWorktree marks a branch already checked out in a worktree.
	CategoryWorktree BranchCategory = iota
	// CategoryLocal marks a local branch with no worktree.
	CategoryLocal
	// CategoryRemote marks a branch that exists only on one or more remotes.
	CategoryRemote
)

// CompletionBranch is a single shell-completion candidate.
type CompletionBranch struct {
	Name      string
	Timestamp int64
	Category  BranchCategory
	// Remotes lists every remote the branch was found on, sorted, when
	// Category is CategoryRemote; empty otherwise.
	Remotes []string
}

// BranchesForCompletion returns branches for shell completion: worktree
// branches first, then other local branches, then remote-only branches —
// each group ordered by committer-date descending. A remote-only branch
// that exists identically on multiple remotes is collapsed into a single
// entry listing all of them.
func (r *Repository) BranchesForCompletion(ctx context.Context, exec *gitcmd.Executor, mgr branch.WorktreeManager) ([]CompletionBranch, error) {
	worktrees, err := r.ListWorktrees(ctx, mgr)
	if err != nil {
		return nil, err
	}
	worktreeBranches := make(map[string]bool, len(worktrees))
	for _, wt := range worktrees {
		if wt.Branch != "" {
			worktreeBranches[wt.Branch] = true
		}
	}

	localOutput, err := exec.RunOutput(ctx, r.Path, "for-each-ref",
		"--sort=-committerdate", "--format=%(refname:lstrip=2)\t%(committerdate:unix)", "refs/heads/")
	if err != nil {
		return nil, fmt.Errorf("failed to list local branches: %w", err)
	}

	type namedBranch struct {
		name string
		ts   int64
	}
	var locals []namedBranch
	localNames := make(map[string]bool)
	for _, line := range strings.Split(localOutput, "\n") {
		name, tsStr, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		ts, _ := strconv.ParseInt(strings.TrimSpace(tsStr), 10, 64)
		locals = append(locals, namedBranch{name: name, ts: ts})
		localNames[name] = true
	}

	remoteOutput, err := exec.RunOutput(ctx, r.Path, "for-each-ref",
		"--sort=-committerdate", "--format=%(refname:lstrip=2)\t%(committerdate:unix)", "refs/remotes/")
	if err != nil {
		return nil, fmt.Errorf("failed to list remote branches: %w", err)
	}

	type remoteGroup struct {
		remotes []string
		ts      int64
	}
	grouped := make(map[string]*remoteGroup)
	var remoteOrder []string
	for _, line := range strings.Split(remoteOutput, "\n") {
		full, tsStr, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		remoteName, localName, ok := strings.Cut(full, "/")
		if !ok || localName == "HEAD" || localNames[localName] {
			continue
		}
		ts, _ := strconv.ParseInt(strings.TrimSpace(tsStr), 10, 64)

		g, exists := grouped[localName]
		if !exists {
			g = &remoteGroup{}
			grouped[localName] = g
			remoteOrder = append(remoteOrder, localName)
		}
		g.remotes = append(g.remotes, remoteName)
		if ts > g.ts {
			g.ts = ts
		}
	}

	sort.SliceStable(remoteOrder, func(i, j int) bool {
		return grouped[remoteOrder[i]].ts > grouped[remoteOrder[j]].ts
	})

	var result []CompletionBranch
	for _, l := range locals {
		if worktreeBranches[l.name] {
			result = append(result, CompletionBranch{Name: l.name, Timestamp: l.ts, Category: CategoryWorktree})
		}
	}
	for _, l := range locals {
		if !worktreeBranches[l.name] {
			result = append(result, CompletionBranch{Name: l.name, Timestamp: l.ts, Category: CategoryLocal})
		}
	}
	for _, name := range remoteOrder {
		g := grouped[name]
		sort.Strings(g.remotes)
		result = append(result, CompletionBranch{Name: name, Timestamp: g.ts, Category: CategoryRemote, Remotes: g.remotes})
	}

	return result, nil
}
