package cistatus

import (
	"context"

	"github.com/gizzahub/gzh-wt/internal/gitcmd"
	"github.com/gizzahub/gzh-wt/pkg/giturl"
	"github.com/gizzahub/gzh-wt/pkg/repository"
)

// Platform is the CI platform a repository's remote belongs to.
type Platform string

const (
	PlatformGitHub Platform = "github"
	PlatformGitLab Platform = "gitlab"
)

// ParsePlatform parses a "ci.platform" config value, rejecting anything but
// the exact lowercase names (the config format has no case-folding).
func ParsePlatform(s string) (Platform, bool) {
	switch s {
	case string(PlatformGitHub):
		return PlatformGitHub, true
	case string(PlatformGitLab):
		return PlatformGitLab, true
	default:
		return "", false
	}
}

// detectPlatformFromURL inspects a remote URL's host for "github"/"gitlab".
func detectPlatformFromURL(url string) (Platform, bool) {
	parsed, ok := giturl.Parse(url)
	if !ok {
		return "", false
	}
	switch {
	case parsed.IsGitHub():
		return PlatformGitHub, true
	case parsed.IsGitLab():
		return PlatformGitLab, true
	default:
		return "", false
	}
}

// platformForRepo determines the CI platform for repo, trying in order:
//
//  1. platformOverride (the project config's "ci.platform", if set)
//  2. remoteHint's URL (the specific remote a remote-tracking branch came
//     from, so mixed-remote repos resolve to the right platform)
//  3. any configured remote that matches a known platform
func platformForRepo(ctx context.Context, exec *gitcmd.Executor, repo *repository.Repository, platformOverride, remoteHint string) (Platform, bool) {
	if platformOverride != "" {
		if p, ok := ParsePlatform(platformOverride); ok {
			return p, true
		}
	}

	if remoteHint != "" {
		if url, ok := repo.RemoteURLByName(ctx, exec, remoteHint); ok {
			if p, ok := detectPlatformFromURL(url); ok {
				return p, true
			}
		}
	}

	remotes, err := repo.AllRemotes(ctx, exec)
	if err != nil {
		return "", false
	}
	for _, r := range remotes {
		if p, ok := detectPlatformFromURL(r.URL); ok {
			return p, true
		}
	}
	return "", false
}
