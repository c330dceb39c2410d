package collector

import "github.com/gizzahub/gzh-wt/pkg/listmodel"

// TaskKind identifies one unit of per-item work the pool can run. Each kind
// has its own conservative default applied when the task doesn't finish
// before the drain deadline, so a slow subprocess degrades one column
// instead of blocking the whole row.
type TaskKind int

const (
	TaskCommitDetails TaskKind = iota
	TaskAheadBehind
	TaskCommittedTreesMatch
	TaskHasFileChanges
	TaskWouldMergeAdd
	TaskIsAncestor
	TaskBranchDiff
	TaskWorkingTreeDiff
	TaskMergeTreeConflicts
	TaskWorkingTreeConflicts
	TaskGitOperation
	TaskUserMarker
	TaskUpstream
	TaskCiStatus
	TaskURLStatus
)

// String names the task for diagnostics (trace lines, timeout messages).
func (k TaskKind) String() string {
	switch k {
	case TaskCommitDetails:
		return "commit_details"
	case TaskAheadBehind:
		return "ahead_behind"
	case TaskCommittedTreesMatch:
		return "committed_trees_match"
	case TaskHasFileChanges:
		return "has_file_changes"
	case TaskWouldMergeAdd:
		return "would_merge_add"
	case TaskIsAncestor:
		return "is_ancestor"
	case TaskBranchDiff:
		return "branch_diff"
	case TaskWorkingTreeDiff:
		return "working_tree_diff"
	case TaskMergeTreeConflicts:
		return "merge_tree_conflicts"
	case TaskWorkingTreeConflicts:
		return "working_tree_conflicts"
	case TaskGitOperation:
		return "git_operation"
	case TaskUserMarker:
		return "user_marker"
	case TaskUpstream:
		return "upstream"
	case TaskCiStatus:
		return "ci_status"
	case TaskURLStatus:
		return "url_status"
	default:
		return "unknown"
	}
}

// Value is the task-kind-specific payload a worker reports back. Exactly
// one field is populated, matching Kind; the rest are zero. Using a tagged
// struct rather than interface{} keeps the drain loop's type-switch free of
// reflection and every value constructible without a cast.
type Value struct {
	Commit          listmodel.CommitDetails
	Counts          listmodel.AheadBehind
	IsOrphan        bool
	Bool            bool
	BranchDiff      listmodel.LineDiff
	WorkingDiff     listmodel.LineDiff
	WorkingStatus   listmodel.WorkingTreeStatus
	HasConflicts    bool
	GitOperation    listmodel.OperationState
	UserMarker      string
	HasUserMarker   bool
	Upstream        listmodel.UpstreamStatus
	CI              *listmodel.PrStatus
	URL             string
	URLActive       bool
}

// Task is one unit of work: compute Kind's value for the item at ItemIndex.
// Run must be safe to call from a worker goroutine and should respect ctx's
// cancellation/deadline.
type Task struct {
	ItemIndex int
	Kind      TaskKind
	Run       func() (Value, error)
}

// Result is what a worker reports back over the results channel.
type Result struct {
	ItemIndex int
	Kind      TaskKind
	Value     Value
	Err       error
}

// ApplyDefault mutates item to a safe, conservative value for kind when no
// result arrived in time. Every case mirrors the "worst case" the column
// would otherwise imply: a missing AheadBehind count, for instance, is left
// unloaded rather than shown as "0 0" (which would falsely claim the branch
// is exactly in sync). CiStatus is deliberately left unloaded too, so the
// "install gh/glab" hint still has a chance to show instead of a false
// "no CI" placeholder.
func ApplyDefault(item *listmodel.ListItem, kind TaskKind) {
	switch kind {
	case TaskCommitDetails:
		item.Commit = listmodel.CommitDetails{}
		item.CommitLoaded = true
	case TaskAheadBehind:
		// Leave CountsLoaded false: an unknown ahead/behind count must not
		// be rendered as "0/0".
		item.IsOrphan = false
	case TaskCommittedTreesMatch:
		item.CommittedTreesMatch = false
	case TaskHasFileChanges:
		item.HasFileChanges = true
	case TaskWouldMergeAdd:
		item.WouldMergeAdd = true
	case TaskIsAncestor:
		item.IsAncestor = false
	case TaskBranchDiff:
		// Leave BranchDiffLoaded false.
	case TaskWorkingTreeDiff:
		item.WorkingTree.Diff = listmodel.LineDiff{}
		item.WorkingTree.Status = listmodel.WorkingTreeStatus{}
	case TaskMergeTreeConflicts:
		item.WorkingTree.HasConflicts = false
	case TaskWorkingTreeConflicts:
		// Leave as zero value (OperationStateNone): unknown conflict state
		// falls back to "no operation in progress" rather than a false
		// positive.
	case TaskGitOperation:
		// Already defaults to OperationStateNone.
	case TaskUserMarker:
		item.WorkingTree.HasUserMarker = false
	case TaskUpstream:
		item.Upstream = listmodel.UpstreamStatus{}
	case TaskCiStatus:
		// Leave PRStatusLoaded false.
	case TaskURLStatus:
		item.URLActive = nil
	}
}

// ApplyResult folds a successful task result into item.
func ApplyResult(item *listmodel.ListItem, kind TaskKind, v Value) {
	switch kind {
	case TaskCommitDetails:
		item.Commit = v.Commit
		item.CommitLoaded = true
	case TaskAheadBehind:
		item.Counts = v.Counts
		item.CountsLoaded = true
		item.IsOrphan = v.IsOrphan
	case TaskCommittedTreesMatch:
		item.CommittedTreesMatch = v.Bool
	case TaskHasFileChanges:
		item.HasFileChanges = v.Bool
	case TaskWouldMergeAdd:
		item.WouldMergeAdd = v.Bool
	case TaskIsAncestor:
		item.IsAncestor = v.Bool
	case TaskBranchDiff:
		item.BranchDiff = v.BranchDiff
		item.BranchDiffLoaded = true
	case TaskWorkingTreeDiff:
		item.WorkingTree.Diff = v.WorkingDiff
		item.WorkingTree.Status = v.WorkingStatus
	case TaskMergeTreeConflicts:
		item.WorkingTree.HasConflicts = v.Bool
	case TaskWorkingTreeConflicts, TaskGitOperation:
		// Both kinds feed the one operation-state position; they arrive in
		// either order, so merge by priority instead of last-write-wins
		// (conflicts outrank an in-flight rebase or merge).
		item.WorkingTree.GitOperation = higherPriorityOperation(item.WorkingTree.GitOperation, v.GitOperation)
	case TaskUserMarker:
		item.WorkingTree.UserMarker = v.UserMarker
		item.WorkingTree.HasUserMarker = v.HasUserMarker
	case TaskUpstream:
		item.Upstream = v.Upstream
	case TaskCiStatus:
		item.PRStatusLoaded = true
		item.PRStatus = v.CI
	case TaskURLStatus:
		// Two-phase: only overwrite a field when this result actually
		// carries a value for it, so url and url_active (reported by
		// separate sub-steps) never clobber each other.
		if v.URL != "" {
			item.URL = v.URL
		}
		active := v.URLActive
		item.URLActive = &active
	}
}

// higherPriorityOperation keeps whichever operation state outranks the
// other. OperationState's enum order doubles as its priority order
// (Conflicts > Rebase > Merge), with None always losing.
func higherPriorityOperation(a, b listmodel.OperationState) listmodel.OperationState {
	if a == listmodel.OperationStateNone {
		return b
	}
	if b == listmodel.OperationStateNone {
		return a
	}
	if b < a {
		return b
	}
	return a
}
