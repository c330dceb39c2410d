package cistatus

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gizzahub/gzh-wt/internal/style"
)

// styleFor maps a CI status to the shared palette: Passed/Running/Failed
// reuse the generic success/running/failure colors; Conflicts and Error
// both render as warnings (a merge conflict and an unreachable API are
// both "needs attention", not "broken"); NoCI is dimmed.
func styleFor(s Status) lipgloss.Style {
	switch s {
	case StatusPassed:
		return style.Success
	case StatusRunning:
		return style.Running
	case StatusFailed:
		return style.Failure
	case StatusConflicts, StatusError:
		return style.Warning
	default:
		return style.Dim
	}
}

// maxItemsToFetch bounds how many PRs/MRs are fetched when filtering by
// source repository; the same branch name can exist in several forks.
const maxItemsToFetch = 20

// CiBranchName is the branch a CI lookup is for, distinguishing a local
// branch (whose push remote must be resolved to find the source fork) from
// a remote-tracking branch (whose remote IS the source, so no resolution
// is needed).
type CiBranchName struct {
	// Name is the bare branch name, e.g. "feature/foo" — never
	// "origin/feature/foo". Both gh and glab require the bare name.
	Name string
	// FullName is the display form, e.g. "origin/feature/foo" for a remote
	// branch or just "feature/foo" for a local one. Used only in log output.
	FullName string
	// Remote is set when this is a remote-tracking branch, naming the
	// remote it tracks (e.g. "origin"). Empty for a local branch.
	Remote string
}

// Status is the CI outcome for a branch, colored to match the list
// statusline palette: Passed green, Running blue, Failed red, Conflicts and
// Error yellow, NoCI dimmed.
type Status string

const (
	StatusPassed    Status = "passed"
	StatusRunning   Status = "running"
	StatusFailed    Status = "failed"
	StatusConflicts Status = "conflicts"
	StatusNoCI      Status = "no-ci"
	// StatusError means CI status could not be fetched (rate limit, network
	// error) — distinct from StatusNoCI so a transient failure is never
	// cached as "this branch has no CI".
	StatusError Status = "error"
)

// Source distinguishes a PR/MR-derived status from a bare branch
// workflow/pipeline status (used when no open PR/MR exists).
type Source string

const (
	SourcePullRequest Source = "pr"
	SourceBranch      Source = "branch"
)

// PrStatus is the CI status for a branch, along with enough context to
// render it: whether the reported state lags the local HEAD, and a link to
// the PR/MR or pipeline if one was found.
type PrStatus struct {
	CIStatus Status `json:"ci_status"`
	Source   Source `json:"source"`
	// IsStale is true when the PR/MR/pipeline's head commit differs from
	// the local HEAD — the reported status describes an older push.
	IsStale bool   `json:"is_stale"`
	URL     string `json:"url,omitempty"`
}

// errorStatus is returned for a retriable gh/glab failure (rate limit,
// network error) so it surfaces as a warning to the caller instead of
// being cached as "no CI found".
func errorStatus() *PrStatus {
	return &PrStatus{CIStatus: StatusError, Source: SourceBranch}
}

// Indicator is the single-glyph badge for this status: a warning triangle
// for Error, a filled circle otherwise.
func (p *PrStatus) Indicator() string {
	if p.CIStatus == StatusError {
		return style.IconWarning
	}
	return style.IconRunning
}

// Render renders the colored indicator, dimmed when IsStale is true.
func (p *PrStatus) Render() string {
	s := styleFor(p.CIStatus)
	if p.IsStale {
		s = s.Faint(true)
	}
	return s.Render(p.Indicator())
}
