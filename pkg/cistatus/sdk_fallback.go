package cistatus

import (
	"context"
	"fmt"
	"os"

	"github.com/gizzahub/gzh-wt/pkg/github"
	"github.com/gizzahub/gzh-wt/pkg/gitlab"
	"github.com/gizzahub/gzh-wt/pkg/repository"
)

// githubCommitChecksViaSDK is the fallback path for detectGitHubCommitChecks
// when the gh CLI itself isn't installed: it hits the same check-runs data
// through go-github directly. It only covers the branch/commit check
// aggregation, not PR discovery — a missing gh CLI means no PR filtering
// by fork owner is possible without reimplementing gh's own GraphQL query,
// so PR-based detection is simply unavailable in that case.
func githubCommitChecksViaSDK(ctx context.Context, remotes []repository.Remote, localHead, token string) *PrStatus {
	owner, repoName, ok := githubOwnerRepo(remotes)
	if !ok {
		return nil
	}

	if token == "" {
		token = envToken("GH_TOKEN", "GITHUB_TOKEN")
	}
	p := github.NewProvider(token)
	runs, err := p.CheckRunsForRef(ctx, owner, repoName, localHead)
	if err != nil || len(runs) == 0 {
		return nil
	}

	checks := make([]githubCheck, len(runs))
	for i, r := range runs {
		checks[i] = githubCheck{Status: r.Status, Conclusion: r.Conclusion}
	}

	return &PrStatus{CIStatus: aggregateGitHubChecks(checks), Source: SourceBranch}
}

// gitlabPipelineViaSDK is the fallback path for detectGitLabPipeline when
// the glab CLI itself isn't installed: it fetches the latest pipeline for
// branch through go-gitlab directly. Like the GitHub SDK fallback, MR
// discovery isn't replicated — only the branch-pipeline path.
func gitlabPipelineViaSDK(ctx context.Context, remotes []repository.Remote, branch, localHead, token string) *PrStatus {
	owner, repoName, ok := gitlabOwnerRepo(remotes)
	if !ok {
		return nil
	}

	if token == "" {
		token = envToken("GITLAB_TOKEN", "GL_TOKEN")
	}
	p, err := gitlab.NewProvider(token, "")
	if err != nil {
		return nil
	}

	pipeline, err := p.LatestPipelineForRef(ctx, fmt.Sprintf("%s/%s", owner, repoName), branch)
	if err != nil || pipeline == nil {
		return nil
	}

	return &PrStatus{
		CIStatus: parseGitLabStatus(pipeline.Status),
		Source:   SourceBranch,
		IsStale:  pipeline.SHA == "" || pipeline.SHA != localHead,
		URL:      pipeline.WebURL,
	}
}

// envToken returns the first non-empty value among the given environment
// variables — the same lookup order the gh/glab CLIs themselves use for
// their token variables.
func envToken(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
