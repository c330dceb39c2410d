package cistatus

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gizzahub/gzh-wt/internal/vcserr"
	"github.com/gizzahub/gzh-wt/pkg/giturl"
	"github.com/gizzahub/gzh-wt/pkg/repository"
)

// githubPrInfo is the subset of `gh pr list --json ...` fields this package
// needs. headRepositoryOwner is included so a PR can be filtered to the
// branch's own source fork rather than accepted from any fork with a
// same-named branch.
type githubPrInfo struct {
	HeadRefOid        string                `json:"headRefOid"`
	MergeStateStatus  string                `json:"mergeStateStatus"`
	StatusCheckRollup []githubCheck         `json:"statusCheckRollup"`
	URL               string                `json:"url"`
	HeadRepositoryOwner *githubRepoOwner    `json:"headRepositoryOwner"`
}

type githubRepoOwner struct {
	Login string `json:"login"`
}

// githubCheck unions the two shapes `statusCheckRollup`/check-runs return:
// a GitHub Actions CheckRun (status+conclusion) or an external
// StatusContext (state only, e.g. pre-commit.ci).
type githubCheck struct {
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
	State      string `json:"state"`
}

// detectGitHub finds the open PR (if any) for branch, filtering to PRs
// whose head repository owner matches the branch's own push-remote owner
// so a same-named branch in an unrelated fork is never mistaken for ours.
func detectGitHub(ctx context.Context, repoPath string, branch CiBranchName, branchOwner, localHead string) *PrStatus {
	stdout, stderr, ok, err := runCLI(ctx, repoPath, "gh",
		"pr", "list",
		"--head", branch.Name,
		"--state", "open",
		"--limit", strconv.Itoa(maxItemsToFetch),
		"--json", "headRefOid,mergeStateStatus,statusCheckRollup,url,headRepositoryOwner",
	)
	if err != nil {
		return nil
	}
	if !ok {
		if vcserr.IsRetriableCIError(string(stderr)) {
			return errorStatus()
		}
		return nil
	}

	prList, parsed := parseJSON[[]githubPrInfo](stdout, "gh pr list", branch.FullName)
	if !parsed {
		return nil
	}

	var pr *githubPrInfo
	for i := range prList {
		owner := prList[i].HeadRepositoryOwner
		if owner == nil || strings.EqualFold(owner.Login, branchOwner) {
			pr = &prList[i]
			break
		}
	}
	if pr == nil {
		return nil
	}

	status := aggregateGitHubChecks(pr.StatusCheckRollup)
	if pr.MergeStateStatus == "DIRTY" {
		status = StatusConflicts
	}

	return &PrStatus{
		CIStatus: status,
		Source:   SourcePullRequest,
		IsStale:  pr.HeadRefOid != "" && pr.HeadRefOid != localHead,
		URL:      pr.URL,
	}
}

// detectGitHubCommitChecks looks up check-runs for localHead directly, used
// as the fallback when a branch has upstream tracking but no open PR.
func detectGitHubCommitChecks(ctx context.Context, repoPath, owner, repoName, localHead string) *PrStatus {
	stdout, stderr, ok, err := runCLI(ctx, repoPath, "gh",
		"api", fmt.Sprintf("repos/%s/%s/commits/%s/check-runs", owner, repoName, localHead),
		"--jq", ".check_runs | map({status, conclusion})",
	)
	if err != nil {
		return nil
	}
	if !ok {
		if vcserr.IsRetriableCIError(string(stderr)) {
			return errorStatus()
		}
		return nil
	}

	checks, parsed := parseJSON[[]githubCheck](stdout, "gh api check-runs", localHead)
	if !parsed || len(checks) == 0 {
		return nil
	}

	return &PrStatus{
		CIStatus: aggregateGitHubChecks(checks),
		Source:   SourceBranch,
	}
}

// aggregateGitHubChecks rolls up a list of GitHub checks into one status,
// by priority running > failed > passed > no-ci. Skipped/neutral checks
// never contribute to pass or fail.
func aggregateGitHubChecks(checks []githubCheck) Status {
	if len(checks) == 0 {
		return StatusNoCI
	}
	var running, failed, passed bool
	for _, c := range checks {
		switch strings.ToLower(c.Status) {
		case "in_progress", "queued", "pending", "expected":
			running = true
		}
		switch strings.ToLower(c.State) {
		case "pending":
			running = true
		case "failure", "error":
			failed = true
		case "success":
			passed = true
		}
		switch strings.ToLower(c.Conclusion) {
		case "failure", "error", "cancelled", "timed_out", "action_required":
			failed = true
		case "success":
			passed = true
		}
	}
	switch {
	case running:
		return StatusRunning
	case failed:
		return StatusFailed
	case passed:
		return StatusPassed
	default:
		return StatusNoCI
	}
}

// githubOwnerRepo picks the owner/repo from the first GitHub remote found,
// for the commits/check-runs API path (which is repo-wide, not branch-specific).
func githubOwnerRepo(remotes []repository.Remote) (owner, repo string, ok bool) {
	for _, r := range remotes {
		if parsed, match := giturl.Parse(r.URL); match && parsed.IsGitHub() {
			return parsed.Owner, parsed.Repo, true
		}
	}
	return "", "", false
}
