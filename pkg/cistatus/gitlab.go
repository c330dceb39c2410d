package cistatus

import (
	"context"
	"strconv"

	"github.com/gizzahub/gzh-wt/internal/vcserr"
	"github.com/gizzahub/gzh-wt/pkg/giturl"
	"github.com/gizzahub/gzh-wt/pkg/repository"
)

// gitlabOwnerRepo picks the owner/repo from the first GitLab remote found,
// for the SDK fallback path (which needs a "owner/repo" project path).
func gitlabOwnerRepo(remotes []repository.Remote) (owner, repo string, ok bool) {
	for _, r := range remotes {
		if parsed, match := giturl.Parse(r.URL); match && parsed.IsGitLab() {
			return parsed.Owner, parsed.Repo, true
		}
	}
	return "", "", false
}

// gitlabRepoInfo is the subset of `glab repo view --output json` needed to
// resolve the current project's numeric ID for client-side MR filtering.
type gitlabRepoInfo struct {
	ID uint64 `json:"id"`
}

// gitlabMrListEntry is the subset of `glab mr list --output json` fields
// this package needs. Pipeline status isn't included here — a second call
// (mr view) is required to get it, see detectGitLab.
type gitlabMrListEntry struct {
	IID                uint64 `json:"iid"`
	SHA                string `json:"sha"`
	HasConflicts       bool   `json:"has_conflicts"`
	DetailedMergeStatus string `json:"detailed_merge_status"`
	SourceProjectID    *uint64 `json:"source_project_id"`
	WebURL             string `json:"web_url"`
}

// gitlabMrInfo is the subset of `glab mr view <iid> --output json` needed
// for pipeline status, which `glab mr list` omits.
type gitlabMrInfo struct {
	HeadPipeline *gitlabPipeline `json:"head_pipeline"`
	Pipeline     *gitlabPipeline `json:"pipeline"`
}

func (m gitlabMrInfo) ciStatus() Status {
	if m.HeadPipeline != nil {
		return parseGitLabStatus(m.HeadPipeline.Status)
	}
	if m.Pipeline != nil {
		return parseGitLabStatus(m.Pipeline.Status)
	}
	return StatusNoCI
}

type gitlabPipeline struct {
	Status string `json:"status"`
	SHA    string `json:"sha"`
	WebURL string `json:"web_url"`
}

// parseGitLabStatus maps a glab pipeline status string to a Status.
// "manual" (a pipeline waiting for a user to trigger a manual job) counts
// as Running, not Failed — it isn't a failure, just not finished yet.
func parseGitLabStatus(status string) Status {
	switch status {
	case "running", "pending", "preparing", "waiting_for_resource", "created", "scheduled", "manual":
		return StatusRunning
	case "failed", "canceled":
		return StatusFailed
	case "success":
		return StatusPassed
	default:
		return StatusNoCI
	}
}

// gitlabProjectID resolves the current project's numeric ID via `glab repo
// view`, used to filter MRs to the ones whose source project is this repo
// (glab mr list has no server-side filter for this).
func gitlabProjectID(ctx context.Context, repoPath string) (uint64, bool) {
	stdout, _, ok, err := runCLI(ctx, repoPath, "glab", "repo", "view", "--output", "json")
	if err != nil || !ok {
		return 0, false
	}
	info, parsed := parseJSON[gitlabRepoInfo](stdout, "glab repo view", "")
	if !parsed {
		return 0, false
	}
	return info.ID, true
}

// detectGitLab finds the open MR (if any) for branch, filtering by source
// project ID when it's known; if it can't be determined and there's
// exactly one candidate MR, that's accepted unambiguously, otherwise
// multiple candidates with no way to disambiguate are skipped rather than
// guessed at.
func detectGitLab(ctx context.Context, repoPath string, branch CiBranchName, localHead string) *PrStatus {
	projectID, haveProjectID := gitlabProjectID(ctx, repoPath)

	stdout, stderr, ok, err := runCLI(ctx, repoPath, "glab",
		"mr", "list",
		"--source-branch", branch.Name,
		"--per-page", strconv.Itoa(maxItemsToFetch),
		"--output", "json",
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

	mrList, parsed := parseJSON[[]gitlabMrListEntry](stdout, "glab mr list", branch.FullName)
	if !parsed {
		return nil
	}

	entry := selectGitLabMR(mrList, projectID, haveProjectID)
	if entry == nil {
		return nil
	}

	info, fetched := fetchGitLabMRDetails(ctx, repoPath, entry.IID)

	var status Status
	switch {
	case entry.HasConflicts || entry.DetailedMergeStatus == "conflict":
		status = StatusConflicts
	case entry.DetailedMergeStatus == "ci_still_running":
		status = StatusRunning
	case fetched:
		status = info.ciStatus()
	default:
		return errorStatus()
	}

	return &PrStatus{
		CIStatus: status,
		Source:   SourcePullRequest,
		IsStale:  entry.SHA != localHead,
		URL:      entry.WebURL,
	}
}

func selectGitLabMR(mrList []gitlabMrListEntry, projectID uint64, haveProjectID bool) *gitlabMrListEntry {
	if haveProjectID {
		for i := range mrList {
			if mrList[i].SourceProjectID != nil && *mrList[i].SourceProjectID == projectID {
				return &mrList[i]
			}
		}
		return nil
	}
	if len(mrList) == 1 {
		return &mrList[0]
	}
	return nil
}

func fetchGitLabMRDetails(ctx context.Context, repoPath string, iid uint64) (gitlabMrInfo, bool) {
	stdout, _, ok, err := runCLI(ctx, repoPath, "glab", "mr", "view", strconv.FormatUint(iid, 10), "--output", "json")
	if err != nil || !ok {
		return gitlabMrInfo{}, false
	}
	return parseJSON[gitlabMrInfo](stdout, "glab mr view", strconv.FormatUint(iid, 10))
}

// detectGitLabPipeline finds the most recent pipeline for branch, used when
// no open MR exists but the branch has upstream tracking.
func detectGitLabPipeline(ctx context.Context, repoPath, branch, localHead string) *PrStatus {
	stdout, stderr, ok, err := runCLI(ctx, repoPath, "glab",
		"ci", "list",
		"--ref", branch,
		"--per-page", "1",
		"--output", "json",
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

	pipelines, parsed := parseJSON[[]gitlabPipeline](stdout, "glab ci list", branch)
	if !parsed || len(pipelines) == 0 {
		return nil
	}
	pipeline := pipelines[0]

	return &PrStatus{
		CIStatus: parseGitLabStatus(pipeline.Status),
		Source:   SourceBranch,
		IsStale:  pipeline.SHA == "" || pipeline.SHA != localHead,
		URL:      pipeline.WebURL,
	}
}
