package layout

import "github.com/gizzahub/gzh-wt/pkg/collector"

// ColumnKind is the logical identifier for each column "list" can render.
type ColumnKind int

const (
	ColumnGutter ColumnKind = iota // type indicator: @ current, ^ main, + worktree, space branch-only
	ColumnBranch
	ColumnStatus // git status symbols + user-defined marker
	ColumnWorkingDiff
	ColumnAheadBehind
	ColumnBranchDiff
	ColumnPath
	ColumnUpstream
	ColumnURL
	ColumnCiStatus
	ColumnCommit
	ColumnTime
	ColumnMessage
)

// Header is the column's display header; ColumnGutter has none.
func (k ColumnKind) Header() string {
	for _, spec := range ColumnSpecs {
		if spec.Kind == k {
			return spec.header
		}
	}
	return ""
}

// Priority returns k's base priority (lower = kept longer under width
// pressure), shared between the "list" table layout and statusline
// truncation so both drop columns in the same order.
func (k ColumnKind) Priority() uint8 {
	for _, spec := range ColumnSpecs {
		if spec.Kind == k {
			return spec.BasePriority
		}
	}
	return 255
}

// ColumnSpec is the static metadata describing one column's behavior in
// both layout and rendering.
type ColumnSpec struct {
	Kind ColumnKind
	// BasePriority: lower means more important (dropped later). Must be
	// unique across ColumnSpecs.
	BasePriority uint8
	// RequiresTask, if set, is the collector task kind whose data this
	// column displays; a column is hidden entirely when that task was
	// never spawned (e.g. --no-ci skips the CiStatus column).
	RequiresTask collector.TaskKind
	hasTask      bool
	header       string
}

// ColumnSpecs is the static registry of every column, in left-to-right
// display order. Display order is independent of BasePriority, which only
// governs truncation order.
var ColumnSpecs = []ColumnSpec{
	{Kind: ColumnGutter, BasePriority: 0, header: ""},
	{Kind: ColumnBranch, BasePriority: 1, header: "Branch"},
	{Kind: ColumnStatus, BasePriority: 2, header: "Status"},
	{Kind: ColumnWorkingDiff, BasePriority: 3, header: "HEAD±"},
	{Kind: ColumnAheadBehind, BasePriority: 4, header: "main↕"},
	{Kind: ColumnCiStatus, BasePriority: 5, header: "CI", RequiresTask: collector.TaskCiStatus, hasTask: true},
	{Kind: ColumnBranchDiff, BasePriority: 6, header: "main…±", RequiresTask: collector.TaskBranchDiff, hasTask: true},
	{Kind: ColumnPath, BasePriority: 7, header: "Path"},
	{Kind: ColumnUpstream, BasePriority: 8, header: "Remote⇅"},
	{Kind: ColumnURL, BasePriority: 9, header: "URL", RequiresTask: collector.TaskURLStatus, hasTask: true},
	{Kind: ColumnCommit, BasePriority: 10, header: "Commit"},
	{Kind: ColumnTime, BasePriority: 11, header: "Age"},
	{Kind: ColumnMessage, BasePriority: 12, header: "Message"},
}

// DisplayIndex returns k's position in display order, or -1 if unknown.
func DisplayIndex(k ColumnKind) int {
	for i, spec := range ColumnSpecs {
		if spec.Kind == k {
			return i
		}
	}
	return -1
}

// RequiredTask returns the task this column depends on and whether it has
// one at all (ColumnGutter, ColumnBranch, etc. render unconditionally).
func (s ColumnSpec) RequiredTask() (collector.TaskKind, bool) {
	return s.RequiresTask, s.hasTask
}
