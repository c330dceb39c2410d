package listmodel

import (
	"strings"

	"github.com/gizzahub/gzh-wt/internal/style"
)

// Position indices into PositionMask/StatusSymbols, in render order.
const (
	PosStaged = iota
	PosModified
	PosUntracked
	PosWorktreeState
	PosMainState
	PosUpstreamDivergence
	PosUserMarker
	numPositions
)

// PositionMask tracks, per position, the widest rendered cell across all
// visible rows. A width of 0 means the position is unused anywhere and is
// skipped entirely; otherwise every row pads its cell at that position to
// the shared width so every symbol class lines up vertically.
type PositionMask struct {
	widths [numPositions]int
}

// FullMask allocates a realistic width for every position regardless of
// what's actually present in any particular row. "list --full" renders the
// text table with it; otherwise the table uses ComputeMask.
var FullMask = PositionMask{widths: [numPositions]int{1, 1, 1, 1, 1, 1, 2}}

// Width returns the allocated width for pos.
func (m PositionMask) Width(pos int) int { return m.widths[pos] }

// TotalWidth is the visible width of any cell rendered with this mask —
// every non-empty row renders to exactly this many columns, so it's also
// the status column's width for layout purposes (where the rendered
// string's byte length would over-count ANSI styling).
func (m PositionMask) TotalWidth() int {
	total := 0
	for _, w := range m.widths {
		total += w
	}
	return total
}

// Grow updates the mask so pos allocates at least width characters.
func (m *PositionMask) Grow(pos, width int) {
	if width > m.widths[pos] {
		m.widths[pos] = width
	}
}

// ComputeMask computes the minimal PositionMask spanning every row's actual
// rendered width at each position — the basis for the "normal" (buffered,
// non-progressive) render pass, which only allocates space a row needs.
func ComputeMask(rows []StatusSymbols) PositionMask {
	var mask PositionMask
	for _, row := range rows {
		cells := row.cells()
		for pos, cell := range cells {
			if cell.hasData {
				mask.Grow(pos, visibleWidth(cell.text))
			}
		}
	}
	return mask
}

// visibleWidth approximates a cell's rendered width by counting runes in
// its unstyled glyph, since every glyph here is drawn from a small
// single-width symbol set (no wide CJK/emoji beyond the user marker, which
// FullMask already budgets two columns for).
func visibleWidth(s string) int {
	return len([]rune(stripANSI(s)))
}

// stripANSI removes a lipgloss-rendered style's ANSI escape sequences so
// width accounting only counts visible runes.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		if r == 0x1b {
			inEscape = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// StatusSymbols is the aggregate of the five orthogonal state axes
// described in the data model: working tree (non-exclusive), worktree
// state (operation state takes priority over location), main relation,
// upstream divergence, and an optional user marker.
type StatusSymbols struct {
	WorkingTree        WorkingTreeStatus
	Operation          OperationState
	Worktree           WorktreeState
	Main               MainState
	Upstream           Divergence
	UserMarker         string
	HasUserMarker      bool
}

type cell struct {
	pos     int
	text    string
	hasData bool
}

func styledWorking(active bool, glyph string) cell {
	if !active {
		return cell{}
	}
	return cell{text: style.Running.Render(glyph), hasData: true}
}

// cells builds the seven positional cells in render order: working tree
// (staged/modified/untracked), worktree state (operation takes priority
// over location), main state, upstream divergence, user marker.
func (s StatusSymbols) cells() [numPositions]cell {
	var out [numPositions]cell

	out[PosStaged] = withPos(PosStaged, styledWorking(s.WorkingTree.Staged, "+"))
	out[PosModified] = withPos(PosModified, styledWorking(s.WorkingTree.Modified, "!"))
	out[PosUntracked] = withPos(PosUntracked, styledWorking(s.WorkingTree.Untracked, "?"))

	if glyph, ok := s.Operation.Styled(); ok {
		out[PosWorktreeState] = cell{pos: PosWorktreeState, text: glyph, hasData: true}
	} else if glyph, ok := s.Worktree.Styled(); ok {
		out[PosWorktreeState] = cell{pos: PosWorktreeState, text: glyph, hasData: true}
	} else {
		out[PosWorktreeState] = cell{pos: PosWorktreeState}
	}

	if glyph, ok := s.Main.Styled(); ok {
		out[PosMainState] = cell{pos: PosMainState, text: glyph, hasData: true}
	} else {
		out[PosMainState] = cell{pos: PosMainState}
	}

	if glyph, ok := s.Upstream.Styled(); ok {
		out[PosUpstreamDivergence] = cell{pos: PosUpstreamDivergence, text: glyph, hasData: true}
	} else {
		out[PosUpstreamDivergence] = cell{pos: PosUpstreamDivergence}
	}

	out[PosUserMarker] = cell{pos: PosUserMarker, text: s.UserMarker, hasData: s.HasUserMarker}

	return out
}

func withPos(pos int, c cell) cell {
	c.pos = pos
	return c
}

// IsEmpty reports whether every axis is in its "nothing to show" state.
func (s StatusSymbols) IsEmpty() bool {
	return s.Main == MainStateNone &&
		s.Operation == OperationStateNone &&
		s.Worktree == WorktreeStateNone &&
		s.Upstream == DivergenceNone &&
		!s.WorkingTree.IsDirty() &&
		!s.HasUserMarker
}

// RenderWithMask renders the grid with each occupied position padded to
// mask's width; an unused position (mask width 0) contributes nothing.
// Empty positions within a used column become spaces, so every row's
// status cell is exactly the same visible length — including a row with
// nothing to show, which renders as all spaces rather than shrinking to
// an empty string.
func (s StatusSymbols) RenderWithMask(mask PositionMask) string {
	if s.IsEmpty() {
		return strings.Repeat(" ", mask.TotalWidth())
	}
	var b strings.Builder
	for _, c := range s.cells() {
		width := mask.Width(c.pos)
		if width == 0 {
			continue
		}
		if c.hasData {
			b.WriteString(c.text)
			pad := width - visibleWidth(c.text)
			for i := 0; i < pad; i++ {
				b.WriteByte(' ')
			}
		} else {
			for i := 0; i < width; i++ {
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}

// FormatCompact renders every occupied position with no padding — used by
// the statusline, which has no multi-row alignment to preserve.
func (s StatusSymbols) FormatCompact() string {
	var b strings.Builder
	for _, c := range s.cells() {
		if c.hasData {
			b.WriteString(c.text)
		}
	}
	return b.String()
}
