package listmodel

import "github.com/gizzahub/gzh-wt/internal/style"

// MainState is the single-position relationship of an item to the default
// branch. Priority (highest wins when more than one condition could apply):
// IsMain > WouldConflict > SameCommitClean > SameCommitDirty > Integrated >
// Diverged > Ahead > Behind.
type MainState int

const (
	MainStateNone MainState = iota
	MainStateIsMain
	MainStateWouldConflict
	MainStateSameCommitClean
	MainStateSameCommitDirty
	MainStateIntegrated
	MainStateDiverged
	MainStateAhead
	MainStateBehind
)

// Glyph returns the raw (unstyled) character for this state, or "" when
// MainStateNone.
func (s MainState) Glyph() string {
	switch s {
	case MainStateIsMain:
		return "^"
	case MainStateWouldConflict:
		return "✗"
	case MainStateSameCommitClean:
		return "_"
	case MainStateSameCommitDirty:
		return "–"
	case MainStateIntegrated:
		return "⊂"
	case MainStateDiverged:
		return "↕"
	case MainStateAhead:
		return "↑"
	case MainStateBehind:
		return "↓"
	default:
		return ""
	}
}

// Styled returns the colored glyph, or ("", false) when MainStateNone.
func (s MainState) Styled() (string, bool) {
	glyph := s.Glyph()
	if glyph == "" {
		return "", false
	}
	var st = style.Dim
	switch s {
	case MainStateWouldConflict:
		st = style.Failure
	case MainStateDiverged, MainStateAhead, MainStateBehind:
		st = style.Dim
	}
	return st.Render(glyph), true
}

// OperationState is the in-progress git operation on a worktree, taking
// priority over its location state (Branch/mismatch/prunable/locked) when
// rendering the worktree-state position. Priority: Conflicts > Rebase > Merge.
type OperationState int

const (
	OperationStateNone OperationState = iota
	OperationStateConflicts
	OperationStateRebase
	OperationStateMerge
)

func (s OperationState) Glyph() string {
	switch s {
	case OperationStateConflicts:
		return "✘"
	case OperationStateRebase:
		return "⤴"
	case OperationStateMerge:
		return "⤵"
	default:
		return ""
	}
}

// Styled returns the colored glyph, or ("", false) when OperationStateNone.
func (s OperationState) Styled() (string, bool) {
	glyph := s.Glyph()
	if glyph == "" {
		return "", false
	}
	st := style.Warning
	if s == OperationStateConflicts {
		st = style.Failure
	}
	return st.Render(glyph), true
}

// WorktreeState is the worktree's location/health state, used when no
// OperationState is active. Priority: BranchWorktreeMismatch > Prunable >
// Locked > Branch.
type WorktreeState int

const (
	WorktreeStateNone WorktreeState = iota
	WorktreeStateBranch
	WorktreeStateBranchWorktreeMismatch
	WorktreeStatePrunable
	WorktreeStateLocked
)

func (s WorktreeState) Glyph() string {
	switch s {
	case WorktreeStateBranch:
		return "/"
	case WorktreeStateBranchWorktreeMismatch:
		return "⚑"
	case WorktreeStatePrunable:
		return "⊟"
	case WorktreeStateLocked:
		return "⊞"
	default:
		return ""
	}
}

// Styled returns the colored glyph, or ("", false) when WorktreeStateNone.
// The branch indicator is dimmed (informational), the mismatch flag is red
// (a real problem), and prunable/locked are yellow (needs attention).
func (s WorktreeState) Styled() (string, bool) {
	glyph := s.Glyph()
	if glyph == "" {
		return "", false
	}
	switch s {
	case WorktreeStateBranch:
		return style.Dim.Render(glyph), true
	case WorktreeStateBranchWorktreeMismatch:
		return style.Failure.Render(glyph), true
	default:
		return style.Warning.Render(glyph), true
	}
}

// Divergence is the branch's relationship to its upstream tracking ref.
type Divergence int

const (
	DivergenceNone Divergence = iota
	DivergenceInSync
	DivergenceAhead
	DivergenceBehind
	DivergenceDiverged
)

func (d Divergence) Glyph() string {
	switch d {
	case DivergenceInSync:
		return "|"
	case DivergenceAhead:
		return "⇡"
	case DivergenceBehind:
		return "⇣"
	case DivergenceDiverged:
		return "⇅"
	default:
		return ""
	}
}

// Styled returns the colored glyph, or ("", false) when DivergenceNone.
// In-sync is dimmed; any form of divergence is a warning.
func (d Divergence) Styled() (string, bool) {
	glyph := d.Glyph()
	if glyph == "" {
		return "", false
	}
	if d == DivergenceInSync {
		return style.Dim.Render(glyph), true
	}
	return style.Warning.Render(glyph), true
}

// DeriveMainState collapses an item's loaded facts into the single
// main-relation glyph, applying the priority chain IsMain > WouldConflict >
// SameCommitClean > SameCommitDirty > Integrated > Diverged > Ahead >
// Behind. A detached-HEAD worktree has no meaningful relation to the
// default branch, so it gets no arrow at all.
func DeriveMainState(it *ListItem, defaultBranch, defaultHead string) MainState {
	if it.Branch == "" {
		return MainStateNone
	}
	if defaultBranch != "" && it.Branch == defaultBranch {
		return MainStateIsMain
	}
	if it.IsWorktree() && it.WorkingTree.HasConflicts {
		return MainStateWouldConflict
	}
	if defaultHead != "" && it.Head == defaultHead {
		if it.IsWorktree() && it.WorkingTree.Status.IsDirty() {
			return MainStateSameCommitDirty
		}
		return MainStateSameCommitClean
	}
	if it.CommittedTreesMatch || it.IsAncestor {
		return MainStateIntegrated
	}
	if it.CountsLoaded {
		switch {
		case it.Counts.Ahead > 0 && it.Counts.Behind > 0:
			return MainStateDiverged
		case it.Counts.Ahead > 0:
			return MainStateAhead
		case it.Counts.Behind > 0:
			return MainStateBehind
		}
	}
	return MainStateNone
}

// DeriveWorktreeState picks the location/health glyph for an item: the
// branch marker for branch-only rows, and mismatch > prunable > locked for
// materialized worktrees.
func DeriveWorktreeState(it *ListItem, pathMismatch, prunable, locked bool) WorktreeState {
	if it.Kind == KindBranchOnly {
		return WorktreeStateBranch
	}
	switch {
	case pathMismatch:
		return WorktreeStateBranchWorktreeMismatch
	case prunable:
		return WorktreeStatePrunable
	case locked:
		return WorktreeStateLocked
	default:
		return WorktreeStateNone
	}
}

// DivergenceFromCounts derives a Divergence from an UpstreamStatus.
func DivergenceFromCounts(u UpstreamStatus) Divergence {
	if !u.HasUpstream {
		return DivergenceNone
	}
	switch {
	case u.Ahead > 0 && u.Behind > 0:
		return DivergenceDiverged
	case u.Ahead > 0:
		return DivergenceAhead
	case u.Behind > 0:
		return DivergenceBehind
	default:
		return DivergenceInSync
	}
}
