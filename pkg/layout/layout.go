package layout

import "github.com/gizzahub/gzh-wt/pkg/collector"

// AvailableColumns returns the ColumnKinds that should render at all: every
// unconditional column, plus each gated column whose RequiresTask was
// actually run. skippedTasks are tasks the caller never scheduled (e.g.
// --no-ci or a repo with no upstream remote configured at all), so their
// columns disappear instead of rendering an empty "CI" header over blank
// cells.
func AvailableColumns(skippedTasks map[collector.TaskKind]bool) []ColumnKind {
	out := make([]ColumnKind, 0, len(ColumnSpecs))
	for _, spec := range ColumnSpecs {
		if task, gated := spec.RequiredTask(); gated && skippedTasks[task] {
			continue
		}
		out = append(out, spec.Kind)
	}
	return out
}

// Fit drops columns from widths (lowest BasePriority's column — actually
// highest base priority value, meaning lowest importance — removed first)
// until the row's total rendered width (sum of each remaining column's
// width plus one separator column between adjacent columns) is at most
// maxWidth, or only one column remains. widths must be keyed by every
// ColumnKind present in columns; columns not present in widths are ignored.
//
// Columns are returned in their original display order (not priority
// order) — display order and truncation order are independent, matching
// the "static left-to-right, drop by priority" layout model.
func Fit(columns []ColumnKind, widths map[ColumnKind]int, maxWidth int) []ColumnKind {
	kept := make(map[ColumnKind]bool, len(columns))
	for _, c := range columns {
		kept[c] = true
	}

	for len(kept) > 1 && totalWidth(columns, kept, widths) > maxWidth {
		drop := lowestPriority(columns, kept)
		if drop < 0 {
			break
		}
		delete(kept, columns[drop])
	}

	out := make([]ColumnKind, 0, len(kept))
	for _, c := range columns {
		if kept[c] {
			out = append(out, c)
		}
	}
	return out
}

func totalWidth(columns []ColumnKind, kept map[ColumnKind]bool, widths map[ColumnKind]int) int {
	total := 0
	count := 0
	for _, c := range columns {
		if !kept[c] {
			continue
		}
		total += widths[c]
		count++
	}
	if count > 1 {
		total += count - 1 // one separator space between each pair of columns
	}
	return total
}

// lowestPriority returns the display index of the kept column with the
// highest BasePriority value (i.e. least important); ties break toward the
// rightmost column, since trailing columns (Message, Time, Commit) are the
// least load-bearing for identifying a worktree at a glance.
func lowestPriority(columns []ColumnKind, kept map[ColumnKind]bool) int {
	best := -1
	var bestPriority uint8
	for i, c := range columns {
		if !kept[c] {
			continue
		}
		p := c.Priority()
		if best < 0 || p >= bestPriority {
			best = i
			bestPriority = p
		}
	}
	return best
}
