package listmodel

import "time"

// Kind discriminates the two shapes a ListItem can take: a row for a
// materialized worktree, or a row for a branch with no worktree checked out.
type Kind int

const (
	// KindWorktree is a row backed by a real worktree on disk.
	KindWorktree Kind = iota
	// KindBranchOnly is a row for a branch with no worktree anywhere; it
	// never carries working-tree or operation-state data.
	KindBranchOnly
)

// CommitDetails describes the commit currently checked out.
type CommitDetails struct {
	Author    string
	Subject   string
	Timestamp time.Time
}

// AheadBehind is a commit count pair relative to some other ref.
type AheadBehind struct {
	Ahead  uint64
	Behind uint64
}

// LineDiff is a line-level added/removed count, e.g. branch vs default
// branch, or working tree vs HEAD.
type LineDiff struct {
	Added   uint64
	Removed uint64
}

// UpstreamStatus is the branch's ahead/behind state relative to its
// "@{u}" tracking ref. HasUpstream is false when the branch has no
// upstream configured at all (distinct from "upstream exists, in sync").
type UpstreamStatus struct {
	HasUpstream bool
	Ahead       uint64
	Behind      uint64
}

// WorkingTreeStatus is the canonical boolean representation of working-tree
// changes; display strings are always derived from this, never stored
// directly.
type WorkingTreeStatus struct {
	Staged    bool
	Modified  bool
	Untracked bool
	Renamed   bool
	Deleted   bool
}

// IsDirty reports whether any kind of working-tree change is present.
func (w WorkingTreeStatus) IsDirty() bool {
	return w.Staged || w.Modified || w.Untracked || w.Renamed || w.Deleted
}

// Symbols renders the raw (unstyled) symbol string used for JSON/TSV
// output, e.g. "+!?". For styled terminal rendering use StatusSymbols
// instead.
func (w WorkingTreeStatus) Symbols() string {
	var out []byte
	if w.Staged {
		out = append(out, '+')
	}
	if w.Modified {
		out = append(out, '!')
	}
	if w.Untracked {
		out = append(out, '?')
	}
	if w.Renamed {
		out = append(out, []byte("»")...) // »
	}
	if w.Deleted {
		out = append(out, []byte("✘")...) // ✘
	}
	return string(out)
}

// WorkingTreeDetail carries fields that only exist for KindWorktree items:
// a materialized worktree has a working tree to diff and a possible
// in-progress git operation; a branch-only row has neither.
type WorkingTreeDetail struct {
	Diff          LineDiff
	Status        WorkingTreeStatus
	HasConflicts  bool
	GitOperation  OperationState
	UserMarker    string
	HasUserMarker bool
}

// ListItem is the central record produced by the collector: one row per
// worktree and one per branch-only ref, populated incrementally as tasks
// complete. Optional fields use a bool "loaded" companion instead of a
// pointer so the zero value is always a safe, renderable default.
type ListItem struct {
	Kind   Kind
	Branch string // empty for a detached-HEAD worktree
	Head   string // full SHA of HEAD
	Path   string // only meaningful for KindWorktree

	Commit       CommitDetails
	CommitLoaded bool

	Counts       AheadBehind // vs default branch
	CountsLoaded bool
	IsOrphan     bool

	CommittedTreesMatch bool
	IsAncestor          bool
	HasFileChanges      bool
	WouldMergeAdd       bool

	BranchDiff       LineDiff
	BranchDiffLoaded bool

	// WorkingTree is populated only for KindWorktree items.
	WorkingTree WorkingTreeDetail

	Upstream       UpstreamStatus
	UpstreamLoaded bool

	// PRStatus models the spec's three-way trichotomy:
	//   PRStatusLoaded=false            -> not fetched yet
	//   PRStatusLoaded=true, PRStatus=nil -> fetched, no CI found
	//   PRStatusLoaded=true, PRStatus!=nil -> fetched, CI found
	PRStatusLoaded bool
	PRStatus       *PrStatus

	URL       string
	URLActive *bool // nil = not yet health-checked
}

// PrStatus mirrors pkg/cistatus.PrStatus without importing it, so
// listmodel (a lower-level, dependency-light package) doesn't need to
// depend on the CI subsystem just to hold its result. The collector
// package is what bridges the two.
type PrStatus struct {
	CIStatus string
	Source   string
	IsStale  bool
	URL      string
}

// IsWorktree reports whether this item backs a materialized worktree.
func (i *ListItem) IsWorktree() bool { return i.Kind == KindWorktree }

// DisplayName returns the worktree's directory name, with "(detached)"
// appended for a detached HEAD. Branch-only items return the branch name.
func (i *ListItem) DisplayName(dirName string) string {
	if i.Kind == KindBranchOnly {
		return i.Branch
	}
	if i.Branch == "" {
		name := dirName
		if name == "" {
			if len(i.Head) >= 8 {
				name = i.Head[:8]
			} else {
				name = i.Head
			}
		}
		return name + " (detached)"
	}
	return dirName
}
