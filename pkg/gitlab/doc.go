// Package gitlab is the SDK-backed GitLab client for the CI status
// subsystem's fallback path: when the glab CLI isn't installed, branch
// pipelines are fetched through go-gitlab directly and aggregated into
// the same status shape the CLI path produces. Self-hosted instances are
// supported via the baseURL argument.
//
// # Usage
//
//	provider, err := gitlab.NewProvider(token, "https://gitlab.example.com")
//	pipeline, err := provider.LatestPipelineForRef(ctx, "group/project", "feat")
package gitlab
