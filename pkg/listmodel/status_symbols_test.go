package listmodel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkingTreeStatusIsDirty(t *testing.T) {
	require.False(t, WorkingTreeStatus{}.IsDirty())
	require.True(t, WorkingTreeStatus{Staged: true}.IsDirty())
	require.True(t, WorkingTreeStatus{Modified: true}.IsDirty())
	require.True(t, WorkingTreeStatus{Untracked: true}.IsDirty())
	require.True(t, WorkingTreeStatus{Renamed: true}.IsDirty())
	require.True(t, WorkingTreeStatus{Deleted: true}.IsDirty())
}

func TestWorkingTreeStatusSymbols(t *testing.T) {
	require.Equal(t, "", WorkingTreeStatus{}.Symbols())
	require.Equal(t, "+", WorkingTreeStatus{Staged: true}.Symbols())
	require.Equal(t, "+!", WorkingTreeStatus{Staged: true, Modified: true}.Symbols())
	require.Equal(t, "+!?", WorkingTreeStatus{Staged: true, Modified: true, Untracked: true}.Symbols())
}

func TestStatusSymbolsIsEmpty(t *testing.T) {
	require.True(t, StatusSymbols{}.IsEmpty())
	require.False(t, StatusSymbols{Main: MainStateAhead}.IsEmpty())
	require.False(t, StatusSymbols{Operation: OperationStateRebase}.IsEmpty())
	require.False(t, StatusSymbols{Worktree: WorktreeStateLocked}.IsEmpty())
	require.False(t, StatusSymbols{Upstream: DivergenceAhead}.IsEmpty())
	require.False(t, StatusSymbols{WorkingTree: WorkingTreeStatus{Staged: true}}.IsEmpty())
	require.False(t, StatusSymbols{UserMarker: "🔥", HasUserMarker: true}.IsEmpty())
}

func TestStatusSymbolsFormatCompact(t *testing.T) {
	require.Equal(t, "", StatusSymbols{}.FormatCompact())

	s := StatusSymbols{Main: MainStateAhead}
	require.Contains(t, s.FormatCompact(), "↑")

	s = StatusSymbols{
		WorkingTree: WorkingTreeStatus{Staged: true, Modified: true},
		Main:        MainStateAhead,
	}
	compact := s.FormatCompact()
	require.Contains(t, compact, "+")
	require.Contains(t, compact, "!")
	require.Contains(t, compact, "↑")
}

func TestFullMaskWidths(t *testing.T) {
	require.Equal(t, 1, FullMask.Width(PosStaged))
	require.Equal(t, 1, FullMask.Width(PosModified))
	require.Equal(t, 1, FullMask.Width(PosUntracked))
	require.Equal(t, 1, FullMask.Width(PosWorktreeState))
	require.Equal(t, 1, FullMask.Width(PosMainState))
	require.Equal(t, 1, FullMask.Width(PosUpstreamDivergence))
	require.Equal(t, 2, FullMask.Width(PosUserMarker))
}

func TestPositionMaskZeroValueAllZero(t *testing.T) {
	var mask PositionMask
	for i := 0; i < numPositions; i++ {
		require.Equal(t, 0, mask.Width(i))
	}
}

func TestRenderWithMaskAlignsAcrossRows(t *testing.T) {
	rows := []StatusSymbols{
		{WorkingTree: WorkingTreeStatus{Untracked: true, Staged: true}, Upstream: DivergenceDiverged},
		{WorkingTree: WorkingTreeStatus{Modified: true}},
		{WorkingTree: WorkingTreeStatus{Staged: true, Modified: true}, Upstream: DivergenceDiverged},
		{}, // row with nothing to show still occupies the full cell width
	}
	mask := ComputeMask(rows)

	rendered := make([]string, len(rows))
	for i, r := range rows {
		rendered[i] = r.RenderWithMask(mask)
	}
	for i := 1; i < len(rendered); i++ {
		require.Equal(t, len([]rune(stripANSI(rendered[0]))), len([]rune(stripANSI(rendered[i]))),
			"row %d should render to the same visible width as row 0", i)
	}
}

func TestRenderWithMaskEmptyRowIsAllSpaces(t *testing.T) {
	mask := ComputeMask([]StatusSymbols{
		{WorkingTree: WorkingTreeStatus{Staged: true}, Upstream: DivergenceAhead},
	})

	cell := StatusSymbols{}.RenderWithMask(mask)
	require.Equal(t, mask.TotalWidth(), len([]rune(cell)))
	require.Equal(t, "", strings.TrimSpace(cell))

	// A mask with no used positions renders nothing for anyone.
	var zero PositionMask
	require.Equal(t, "", StatusSymbols{}.RenderWithMask(zero))
}

func TestComputeMaskOnlyCountsUsedPositions(t *testing.T) {
	mask := ComputeMask([]StatusSymbols{{}})
	for i := 0; i < numPositions; i++ {
		require.Equal(t, 0, mask.Width(i))
	}
}

func TestDivergenceFromCounts(t *testing.T) {
	require.Equal(t, DivergenceNone, DivergenceFromCounts(UpstreamStatus{HasUpstream: false}))
	require.Equal(t, DivergenceInSync, DivergenceFromCounts(UpstreamStatus{HasUpstream: true}))
	require.Equal(t, DivergenceAhead, DivergenceFromCounts(UpstreamStatus{HasUpstream: true, Ahead: 2}))
	require.Equal(t, DivergenceBehind, DivergenceFromCounts(UpstreamStatus{HasUpstream: true, Behind: 2}))
	require.Equal(t, DivergenceDiverged, DivergenceFromCounts(UpstreamStatus{HasUpstream: true, Ahead: 1, Behind: 1}))
}

func TestMutualExclusivityOfAxes(t *testing.T) {
	// Each axis type only ever holds one active variant at a time by
	// construction (they're plain enums, not bitflags) — this test
	// documents that invariant for the zero value and one populated case.
	s := StatusSymbols{Main: MainStateAhead, Operation: OperationStateRebase, Worktree: WorktreeStateLocked, Upstream: DivergenceAhead}
	require.NotEqual(t, MainStateNone, s.Main)
	require.NotEqual(t, OperationStateNone, s.Operation)
	require.NotEqual(t, WorktreeStateNone, s.Worktree)
	require.NotEqual(t, DivergenceNone, s.Upstream)
}
