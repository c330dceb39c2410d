// Package github is the SDK-backed GitHub client for the CI status
// subsystem's fallback path: when the gh CLI isn't installed, commit
// check runs are fetched through go-github directly and aggregated into
// the same status shape the CLI path produces.
//
// # Usage
//
//	provider := github.NewProvider(token)
//	runs, err := provider.CheckRunsForRef(ctx, "owner", "repo", sha)
package github
