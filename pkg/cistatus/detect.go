package cistatus

import (
	"context"
	"strings"
	"time"

	"github.com/gizzahub/gzh-wt/internal/gitcmd"
	"github.com/gizzahub/gzh-wt/pkg/giturl"
	"github.com/gizzahub/gzh-wt/pkg/repository"
)

// Options carries the project-config inputs to a CI lookup: the
// "[ci]" section's platform override and the optional API tokens the SDK
// fallback uses when the gh/glab CLI isn't installed (empty falls back to
// the CLIs' own token environment variables).
type Options struct {
	PlatformOverride string
	GitHubToken      string
	GitLabToken      string
}

// Detect returns the CI status for branch, consulting the on-disk cache
// first and falling back to a live gh/glab lookup on a miss or expiry.
// hasUpstream gates the branch-workflow/pipeline fallback: PR/MR detection
// always runs, but querying CI for a branch with no upstream tracking
// would report someone else's workflow run.
func Detect(ctx context.Context, exec *gitcmd.Executor, repo *repository.Repository, branch CiBranchName, localHead string, hasUpstream bool, opts Options) *PrStatus {
	if cached, ok := readCache(repo.GitCommonDir, branch.Name); ok {
		if cached.isValid(localHead, time.Now(), repo.Path) {
			return cached.Status
		}
	}

	status := detectUncached(ctx, exec, repo, branch, localHead, hasUpstream, opts)

	writeCache(repo.GitCommonDir, branch.Name, &CachedCiStatus{
		Status:    status,
		CheckedAt: time.Now().Unix(),
		Head:      localHead,
		Branch:    branch.Name,
	})

	return status
}

func detectUncached(ctx context.Context, exec *gitcmd.Executor, repo *repository.Repository, branch CiBranchName, localHead string, hasUpstream bool, opts Options) *PrStatus {
	remoteHint := branch.Remote
	platform, known := platformForRepo(ctx, exec, repo, opts.PlatformOverride, remoteHint)

	if !known {
		// Unknown platform (GitHub Enterprise or self-hosted GitLab under a
		// custom domain giturl.Parse can't recognize): try both rather than
		// giving up, since one of them is likely still the right CLI.
		if status := detectGitHubCI(ctx, exec, repo, branch, localHead, hasUpstream, opts); status != nil {
			return status
		}
		return detectGitLabCI(ctx, exec, repo, branch, localHead, hasUpstream, opts)
	}

	switch platform {
	case PlatformGitHub:
		return detectGitHubCI(ctx, exec, repo, branch, localHead, hasUpstream, opts)
	case PlatformGitLab:
		return detectGitLabCI(ctx, exec, repo, branch, localHead, hasUpstream, opts)
	default:
		return nil
	}
}

func detectGitHubCI(ctx context.Context, exec *gitcmd.Executor, repo *repository.Repository, branch CiBranchName, localHead string, hasUpstream bool, opts Options) *PrStatus {
	remotes, err := repo.AllRemotes(ctx, exec)
	if err != nil {
		remotes = nil
	}

	if toolAvailable(ctx, "gh") {
		branchOwner, haveOwner := githubBranchOwner(ctx, exec, repo, branch)
		if haveOwner {
			if status := detectGitHub(ctx, repo.Path, branch, branchOwner, localHead); status != nil {
				return status
			}
		}
		if !hasUpstream {
			return nil
		}
		owner, repoName, ok := githubOwnerRepo(remotes)
		if !ok {
			return nil
		}
		return detectGitHubCommitChecks(ctx, repo.Path, owner, repoName, localHead)
	}

	// gh isn't installed: fall back to the SDK for branch-level checks.
	// PR discovery isn't replicated (see githubCommitChecksViaSDK).
	if !hasUpstream {
		return nil
	}
	return githubCommitChecksViaSDK(ctx, remotes, localHead, opts.GitHubToken)
}

// githubBranchOwner resolves the owning account of branch's source fork:
// for a remote-tracking branch, that remote's URL owner; for a local
// branch, the owner of its @{push} remote (the same remote "git push"
// would target — which is the fork, not the upstream project, in a
// triangular workflow). Only when no push destination is configured does
// the primary remote serve as the fallback.
func githubBranchOwner(ctx context.Context, exec *gitcmd.Executor, repo *repository.Repository, branch CiBranchName) (string, bool) {
	name := branch.Remote
	if name == "" {
		var ok bool
		name, ok = pushRemoteForBranch(ctx, exec, repo.Path, branch.Name)
		if !ok {
			var err error
			name, err = repo.PrimaryRemote(ctx, exec)
			if err != nil {
				return "", false
			}
		}
	}

	url, ok := repo.RemoteURLByName(ctx, exec, name)
	if !ok {
		return "", false
	}
	return ownerFromURL(url)
}

// pushRemoteForBranch resolves the remote "git push" would target for
// branch via its @{push} ref ("myfork/feat" -> "myfork"). ok=false when
// the branch has no push destination configured at all.
func pushRemoteForBranch(ctx context.Context, exec *gitcmd.Executor, repoPath, branchName string) (string, bool) {
	out, err := exec.RunOutput(ctx, repoPath, "rev-parse", "--abbrev-ref", "--symbolic-full-name", branchName+"@{push}")
	if err != nil {
		return "", false
	}
	remote, _, ok := strings.Cut(strings.TrimSpace(out), "/")
	if !ok || remote == "" {
		return "", false
	}
	return remote, true
}

func ownerFromURL(url string) (string, bool) {
	owner, _, ok := giturl.ParseOwnerRepo(url)
	return owner, ok
}

func detectGitLabCI(ctx context.Context, exec *gitcmd.Executor, repo *repository.Repository, branch CiBranchName, localHead string, hasUpstream bool, opts Options) *PrStatus {
	if toolAvailable(ctx, "glab") {
		if status := detectGitLab(ctx, repo.Path, branch, localHead); status != nil {
			return status
		}
		if !hasUpstream {
			return nil
		}
		return detectGitLabPipeline(ctx, repo.Path, branch.Name, localHead)
	}

	// glab isn't installed: fall back to the SDK for branch-level pipeline
	// status. MR discovery isn't replicated (see gitlabPipelineViaSDK).
	if !hasUpstream {
		return nil
	}
	remotes, err := repo.AllRemotes(ctx, exec)
	if err != nil {
		return nil
	}
	return gitlabPipelineViaSDK(ctx, remotes, branch.Name, localHead, opts.GitLabToken)
}

