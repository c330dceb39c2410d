package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gizzahub/gzh-wt/pkg/collector"
)

func TestColumnSpecsPrioritiesAreUnique(t *testing.T) {
	seen := map[uint8]bool{}
	for _, spec := range ColumnSpecs {
		require.False(t, seen[spec.BasePriority], "duplicate base priority %d", spec.BasePriority)
		seen[spec.BasePriority] = true
	}
}

func TestColumnSpecsHeadersAreNonEmptyExceptGutter(t *testing.T) {
	for _, spec := range ColumnSpecs {
		if spec.Kind == ColumnGutter {
			require.Equal(t, "", spec.header)
			continue
		}
		require.NotEmpty(t, spec.header, "column %v should have a header", spec.Kind)
	}
}

func TestAllColumnKindsHavePriority(t *testing.T) {
	kinds := []ColumnKind{
		ColumnGutter, ColumnBranch, ColumnStatus, ColumnWorkingDiff, ColumnAheadBehind,
		ColumnBranchDiff, ColumnPath, ColumnUpstream, ColumnURL, ColumnCiStatus,
		ColumnCommit, ColumnTime, ColumnMessage,
	}
	for _, k := range kinds {
		require.GreaterOrEqual(t, int(k.Priority()), 0)
		require.Less(t, k.Priority(), uint8(255))
	}
}

func TestColumnsGateOnRequiredTasks(t *testing.T) {
	task, gated := ColumnSpec{}.RequiredTask()
	require.False(t, gated)
	require.Equal(t, collector.TaskKind(0), task)

	for _, spec := range ColumnSpecs {
		switch spec.Kind {
		case ColumnCiStatus:
			task, gated := spec.RequiredTask()
			require.True(t, gated)
			require.Equal(t, collector.TaskCiStatus, task)
		case ColumnBranchDiff:
			task, gated := spec.RequiredTask()
			require.True(t, gated)
			require.Equal(t, collector.TaskBranchDiff, task)
		case ColumnURL:
			task, gated := spec.RequiredTask()
			require.True(t, gated)
			require.Equal(t, collector.TaskURLStatus, task)
		default:
			_, gated := spec.RequiredTask()
			require.False(t, gated, "column %v should not be task-gated", spec.Kind)
		}
	}
}

func TestDisplayIndexMatchesRegistryOrder(t *testing.T) {
	for i, spec := range ColumnSpecs {
		require.Equal(t, i, DisplayIndex(spec.Kind))
	}
	require.Equal(t, -1, DisplayIndex(ColumnKind(999)))
}
