// Package giturl parses git remote URLs into host/owner/repo components.
package giturl

import "strings"

// RemoteURL is a parsed git remote URL: host, owner, and repository name.
//
// Supported formats:
//   - https://<host>/<owner>/<repo>.git
//   - http://<host>/<owner>/<repo>.git
//   - git://<host>/<owner>/<repo>.git
//   - git@<host>:<owner>/<repo>.git
//   - ssh://git@<host>/<owner>/<repo>.git
//   - ssh://<host>/<owner>/<repo>.git
//
// Port-bearing ssh:// URLs (ssh://host:2222/...) don't fit this model and
// return false; callers fall back to a raw-string project identifier.
type RemoteURL struct {
	Host  string
	Owner string
	Repo  string
}

// Parse parses a git remote URL into its host/owner/repo components.
//
// Reports false for malformed URLs, unsupported schemes, and port-bearing
// ssh:// URLs (those are handled separately by the caller as a raw fallback).
//
// TODO: assumes exactly /<owner>/<repo>, which doesn't handle GitLab's nested
// group URLs (gitlab.com/group/subgroup/repo).
func Parse(raw string) (RemoteURL, bool) {
	url := strings.TrimSpace(raw)

	var host, owner, repoWithSuffix string

	switch {
	case strings.HasPrefix(url, "https://"):
		host, owner, repoWithSuffix = splitHostOwnerRepo(strings.TrimPrefix(url, "https://"))
	case strings.HasPrefix(url, "http://"):
		host, owner, repoWithSuffix = splitHostOwnerRepo(strings.TrimPrefix(url, "http://"))
	case strings.HasPrefix(url, "git://"):
		host, owner, repoWithSuffix = splitHostOwnerRepo(strings.TrimPrefix(url, "git://"))
	case strings.HasPrefix(url, "ssh://"):
		rest := strings.TrimPrefix(url, "ssh://")
		parts := strings.Split(rest, "@")
		withoutUser := parts[len(parts)-1]
		segs := strings.SplitN(withoutUser, "/", 2)
		if len(segs) != 2 {
			return RemoteURL{}, false
		}
		if strings.Contains(segs[0], ":") {
			// Port-bearing host doesn't fit this model.
			return RemoteURL{}, false
		}
		host = segs[0]
		owner, repoWithSuffix = splitOwnerRepo(segs[1])
	case strings.HasPrefix(url, "git@"):
		rest := strings.TrimPrefix(url, "git@")
		hostPath := strings.SplitN(rest, ":", 2)
		if len(hostPath) != 2 {
			return RemoteURL{}, false
		}
		host = hostPath[0]
		owner, repoWithSuffix = splitOwnerRepo(hostPath[1])
	default:
		return RemoteURL{}, false
	}

	repo := strings.TrimSuffix(repoWithSuffix, ".git")

	if host == "" || owner == "" || repo == "" {
		return RemoteURL{}, false
	}

	return RemoteURL{Host: host, Owner: owner, Repo: repo}, true
}

func splitHostOwnerRepo(rest string) (host, owner, repo string) {
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) != 3 {
		return "", "", ""
	}
	return parts[0], parts[1], parts[2]
}

func splitOwnerRepo(path string) (owner, repo string) {
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}

// ProjectIdentifier returns the "host/owner/repo" identifier used to track
// per-project hook approvals.
func (u RemoteURL) ProjectIdentifier() string {
	return u.Host + "/" + u.Owner + "/" + u.Repo
}

// IsGitHub reports whether the host looks like GitHub or GitHub Enterprise.
func (u RemoteURL) IsGitHub() bool {
	return strings.Contains(strings.ToLower(u.Host), "github")
}

// IsGitLab reports whether the host looks like GitLab.com or a self-hosted instance.
func (u RemoteURL) IsGitLab() bool {
	return strings.Contains(strings.ToLower(u.Host), "gitlab")
}

// ParseOwnerRepo extracts the owner and repo name from a remote URL.
func ParseOwnerRepo(raw string) (owner, repo string, ok bool) {
	u, ok := Parse(raw)
	if !ok {
		return "", "", false
	}
	return u.Owner, u.Repo, true
}

// FallbackIdentifier produces a project identifier for URLs that Parse
// rejects (chiefly port-bearing ssh:// URLs), stripping any embedded
// userinfo so it never leaks credentials. ssh://user@host:port/path maps to
// "host/port/path"; anything else is returned with its ".git" suffix and
// surrounding whitespace stripped.
func FallbackIdentifier(raw string) string {
	url := strings.TrimSuffix(strings.TrimSpace(raw), ".git")

	sshPart, ok := strings.CutPrefix(url, "ssh://")
	if !ok {
		return url
	}

	parts := strings.Split(sshPart, "@")
	withoutUser := parts[len(parts)-1]

	if colon := strings.Index(withoutUser, ":"); colon >= 0 {
		host := withoutUser[:colon]
		rest := withoutUser[colon:]
		return host + strings.Replace(rest, ":", "/", 1)
	}

	return withoutUser
}
